package endpoint

import (
	"errors"
	"strings"
	"time"

	"github.com/ariebrainware/psych-practice/model"
	"github.com/ariebrainware/psych-practice/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const invalidCredentials = "Invalid email or password"

// Login verifies credentials and answers {access_token, user}.
// POST /auth/login
func Login(c *gin.Context) {
	var req model.LoginRequest
	if !bindJSONOrRespond(c, &req) {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	log := util.Logger().With().Str("email", email).Str("ip", c.ClientIP()).Logger()

	user, err := loadUserByEmail(db, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Warn().Msg("login failed: user not found")
		util.CallUserNotAuthorized(c, invalidCredentials)
		return
	}
	if err != nil {
		util.CallServerError(c, "Database error", err)
		return
	}
	if !user.IsActive {
		log.Warn().Msg("login failed: account inactive")
		util.CallUserNotAuthorized(c, invalidCredentials)
		return
	}

	match, err := util.VerifyPassword(req.Password, user.Password)
	if err != nil {
		util.CallServerError(c, "Password verification failed", err)
		return
	}
	if !match {
		log.Warn().Msg("login failed: invalid password")
		util.CallUserNotAuthorized(c, invalidCredentials)
		return
	}

	token, err := util.IssueToken(user, time.Now())
	if err != nil {
		util.CallServerError(c, "Could not generate token", err)
		return
	}

	log.Info().Str("user_id", user.ID).Msg("login succeeded")
	util.CallSuccessOK(c, model.LoginResponse{AccessToken: token, User: user})
}

func loadUserByEmail(db *gorm.DB, email string) (model.User, error) {
	var user model.User
	err := db.Where("email = ?", email).First(&user).Error
	return user, err
}
