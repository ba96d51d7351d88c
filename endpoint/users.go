package endpoint

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ariebrainware/psych-practice/middleware"
	"github.com/ariebrainware/psych-practice/model"
	"github.com/ariebrainware/psych-practice/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateUser registers a user. Anonymous callers (patients booking online)
// always get the patient role; back-office staff may pick any role.
// POST /users
func CreateUser(c *gin.Context) {
	var req model.CreateUserRequest
	if !bindJSONOrRespond(c, &req) {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	role := model.RolePatient
	if req.Role != "" && callerRole(c).IsBackOffice() {
		if !req.Role.Valid() {
			util.CallUserError(c, "Invalid role")
			return
		}
		role = req.Role
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !ensureEmailAvailable(c, db, email, "") {
		return
	}

	user := model.User{
		FirstName:             util.NormalizeName(req.FirstName),
		LastName:              util.NormalizeName(req.LastName),
		Email:                 email,
		Phone:                 req.Phone,
		Age:                   req.Age,
		Role:                  role,
		IsActive:              true,
		Gender:                req.Gender,
		Address:               req.Address,
		DateOfBirth:           req.DateOfBirth,
		Occupation:            req.Occupation,
		EmergencyContactName:  req.EmergencyContactName,
		EmergencyContactPhone: req.EmergencyContactPhone,
	}
	if req.Password != "" {
		hashed, err := util.HashPassword(req.Password)
		if err != nil {
			util.CallServerError(c, "Failed to hash password", err)
			return
		}
		user.Password = hashed
	}

	if !createOrRespond(c, db, &user, "User") {
		return
	}
	util.CallCreated(c, user)
}

// ListUsers returns users, newest first. Supports keyword, limit, offset.
// GET /users
func ListUsers(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	q := parseQueryParams(c)
	query := q.apply(db, "created_at")
	if q.Keyword != "" {
		kw := likeKeyword(q.Keyword)
		query = query.Where("first_name LIKE ? OR last_name LIKE ? OR email LIKE ?", kw, kw, kw)
	}
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	users := []model.User{}
	if err := query.Find(&users).Error; err != nil {
		util.CallServerError(c, "Failed to retrieve users", err)
		return
	}
	util.CallSuccessOK(c, users)
}

// GetUser returns one user; patients may only read themselves.
// GET /users/:id
func GetUser(c *gin.Context) {
	if !isSelfOrBackOffice(c, c.Param("id")) {
		util.CallForbidden(c, "Forbidden resource")
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	var user model.User
	if !findOrRespond(c, db, &user, "User") {
		return
	}
	util.CallSuccessOK(c, user)
}

// UpdateUser applies a partial update. Only back-office staff may change
// role or active state.
// PATCH /users/:id
func UpdateUser(c *gin.Context) {
	if !isSelfOrBackOffice(c, c.Param("id")) {
		util.CallForbidden(c, "Forbidden resource")
		return
	}
	var p model.UserPatch
	if !bindJSONOrRespond(c, &p) {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	var user model.User
	if !findOrRespond(c, db, &user, "User") {
		return
	}

	if (p.Role != nil || p.IsActive != nil) && !callerRole(c).IsBackOffice() {
		util.CallForbidden(c, "Forbidden resource")
		return
	}
	if p.Role != nil && !p.Role.Valid() {
		util.CallUserError(c, "Invalid role")
		return
	}
	if p.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*p.Email))
		if !ensureEmailAvailable(c, db, email, user.ID) {
			return
		}
		user.Email = email
	}
	if p.Password != nil {
		hashed, err := util.HashPassword(*p.Password)
		if err != nil {
			util.CallServerError(c, "Failed to hash password", err)
			return
		}
		user.Password = hashed
	}
	set(&user.FirstName, p.FirstName)
	set(&user.LastName, p.LastName)
	set(&user.Phone, p.Phone)
	set(&user.Age, p.Age)
	set(&user.Role, p.Role)
	set(&user.IsActive, p.IsActive)
	set(&user.Gender, p.Gender)
	set(&user.Address, p.Address)
	set(&user.DateOfBirth, p.DateOfBirth)
	set(&user.Occupation, p.Occupation)
	set(&user.EmergencyContactName, p.EmergencyContactName)
	set(&user.EmergencyContactPhone, p.EmergencyContactPhone)

	if !saveOrRespond(c, db, &user, "User") {
		return
	}
	middleware.ForgetAccount(c.Request.Context(), user.ID)
	util.CallSuccessOK(c, user)
}

// DeleteUser removes a user.
// DELETE /users/:id
func DeleteUser(c *gin.Context) {
	deleteByID(c, &model.User{}, "User")
	if c.Writer.Status() == http.StatusOK {
		middleware.ForgetAccount(c.Request.Context(), c.Param("id"))
	}
}

// ensureEmailAvailable answers 409 when email belongs to a user other than exceptID.
func ensureEmailAvailable(c *gin.Context, db *gorm.DB, email, exceptID string) bool {
	var existing model.User
	err := db.Select("id").Where("email = ?", email).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return true
	case err != nil:
		util.CallServerError(c, "Database error", err)
		return false
	case existing.ID == exceptID:
		return true
	}
	util.CallConflict(c, "Email already exists")
	return false
}
