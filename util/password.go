package util

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/ariebrainware/psych-practice/model"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	saltLen      = 16

	argonPrefix = "argon2id$"

	// TokenTTL is how long an issued access token stays valid.
	TokenTTL = 24 * time.Hour
)

var (
	jwtSecretByte = []byte(os.Getenv("JWTSECRET"))
	jwtMutex      sync.RWMutex

	// ErrInvalidToken is returned for tokens that fail signature or claim checks.
	ErrInvalidToken = errors.New("invalid token")
)

// SetJWTSecret replaces the secret used to sign and verify tokens.
func SetJWTSecret(secret string) {
	jwtMutex.Lock()
	defer jwtMutex.Unlock()
	jwtSecretByte = []byte(secret)
}

// GetJWTSecretByte returns a copy of the current JWT secret bytes.
func GetJWTSecretByte() []byte {
	jwtMutex.RLock()
	defer jwtMutex.RUnlock()
	return append([]byte(nil), jwtSecretByte...)
}

// HashPassword hashes plain with argon2id. The result embeds its salt:
// argon2id$<salt>$<key>, both base64 (raw std encoding).
func HashPassword(plain string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := argon2.IDKey([]byte(plain), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	enc := base64.RawStdEncoding
	return argonPrefix + enc.EncodeToString(salt) + "$" + enc.EncodeToString(key), nil
}

// VerifyPassword checks plain against an argon2id hash produced by
// HashPassword or a bcrypt hash (accepted for imported seed data).
func VerifyPassword(plain, hashed string) (bool, error) {
	switch {
	case strings.HasPrefix(hashed, argonPrefix):
		parts := strings.Split(strings.TrimPrefix(hashed, argonPrefix), "$")
		if len(parts) != 2 {
			return false, fmt.Errorf("malformed argon2id hash")
		}
		enc := base64.RawStdEncoding
		salt, err := enc.DecodeString(parts[0])
		if err != nil {
			return false, fmt.Errorf("decode salt: %w", err)
		}
		want, err := enc.DecodeString(parts[1])
		if err != nil {
			return false, fmt.Errorf("decode key: %w", err)
		}
		got := argon2.IDKey([]byte(plain), salt, argonTime, argonMemory, argonThreads, uint32(len(want)))
		return subtle.ConstantTimeCompare(got, want) == 1, nil
	case strings.HasPrefix(hashed, "$2"):
		err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return err == nil, err
	case hashed == "":
		return false, nil
	}
	return false, fmt.Errorf("unsupported password hash")
}

// TokenClaims is what the API signs into an access token.
type TokenClaims struct {
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 access token for user.
func IssueToken(user model.User, now time.Time) (string, error) {
	claims := TokenClaims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(GetJWTSecretByte())
}

// ParseToken verifies an access token and returns its claims.
func ParseToken(token string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return GetJWTSecretByte(), nil
	})
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}
