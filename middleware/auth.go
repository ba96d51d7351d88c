package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ariebrainware/psych-practice/config"
	"github.com/ariebrainware/psych-practice/model"
	"github.com/ariebrainware/psych-practice/util"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Context keys set by ValidateLoginToken.
const (
	UserIDKey = "user_id"
	RoleKey   = "role"
)

// accountCacheTTL bounds how long a deactivated account can keep using a token.
const accountCacheTTL = 5 * time.Minute

func accountCacheKey(userID string) string {
	return "auth:user:" + userID
}

// ValidateLoginToken requires "Authorization: Bearer <jwt>". The token must
// verify, and its subject must still be an active user. The account lookup
// is cached in Redis when available.
func ValidateLoginToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			util.CallUserNotAuthorized(c, "Unauthorized")
			return
		}
		claims, err := util.ParseToken(raw)
		if err != nil {
			util.CallUserNotAuthorized(c, "Unauthorized")
			return
		}

		role, err := accountRole(c, claims.Subject)
		switch {
		case errors.Is(err, errInactiveAccount):
			util.CallUserNotAuthorized(c, "Unauthorized")
			return
		case errors.Is(err, errNoDatabase):
			util.CallServerError(c, "Database connection not available", err)
			return
		case err != nil:
			util.CallServerError(c, "Failed to validate session", err)
			return
		}

		c.Set(UserIDKey, claims.Subject)
		c.Set(RoleKey, role)
		c.Next()
	}
}

// RequireRole lets the request through only for the given roles. It must run
// after ValidateLoginToken.
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := GetRole(c)
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		util.CallForbidden(c, "Forbidden resource")
	}
}

// GetUserID returns the authenticated user's id.
func GetUserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

// GetRole returns the authenticated user's role.
func GetRole(c *gin.Context) (model.Role, bool) {
	v, ok := c.Get(RoleKey)
	if !ok {
		return "", false
	}
	r, ok := v.(model.Role)
	return r, ok
}

var (
	errInactiveAccount = errors.New("account missing or inactive")
	errNoDatabase      = errors.New("db is nil")
)

func bearerToken(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	tok := strings.TrimSpace(header[len(prefix):])
	return tok, tok != ""
}

func accountRole(c *gin.Context, userID string) (model.Role, error) {
	ctx := c.Request.Context()
	rdb := config.GetRedisClient()
	if rdb != nil {
		cached, err := rdb.Get(ctx, accountCacheKey(userID)).Result()
		switch {
		case err == nil && model.Role(cached).Valid():
			return model.Role(cached), nil
		case err != nil && !errors.Is(err, redis.Nil):
			util.Logger().Warn().Err(err).Msg("account cache lookup failed")
		}
	}

	db := GetDB(c)
	if db == nil {
		return "", errNoDatabase
	}
	var user model.User
	err := db.Select("id", "role", "is_active").Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", errInactiveAccount
	}
	if err != nil {
		return "", fmt.Errorf("load user %s: %w", userID, err)
	}
	if !user.IsActive {
		return "", errInactiveAccount
	}

	if rdb != nil {
		cacheAccount(ctx, rdb, userID, user.Role)
	}
	return user.Role, nil
}

func cacheAccount(ctx context.Context, rdb *redis.Client, userID string, role model.Role) {
	if err := rdb.Set(ctx, accountCacheKey(userID), string(role), accountCacheTTL).Err(); err != nil {
		util.Logger().Warn().Err(err).Msg("account cache write failed")
	}
}

// ForgetAccount drops the cached account state, e.g. after a role change.
func ForgetAccount(ctx context.Context, userID string) {
	if rdb := config.GetRedisClient(); rdb != nil {
		_ = rdb.Del(ctx, accountCacheKey(userID)).Err()
	}
}

// OptionalLoginToken authenticates the request when an Authorization header
// is present and lets anonymous requests through untouched.
func OptionalLoginToken() gin.HandlerFunc {
	validate := ValidateLoginToken()
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		validate(c)
	}
}
