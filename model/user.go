package model

// User is a person known to the practice: a patient, a therapist or a member of staff.
type User struct {
	Base
	FirstName             string `gorm:"size:100;not null" json:"firstName"`
	LastName              string `gorm:"size:100;not null" json:"lastName"`
	Email                 string `gorm:"uniqueIndex;size:191;not null" json:"email"`
	Password              string `gorm:"size:255" json:"-"`
	Phone                 string `gorm:"size:50" json:"phone,omitempty"`
	Age                   int    `json:"age,omitempty"`
	Role                  Role   `gorm:"size:20;default:'patient'" json:"role"`
	IsActive              bool   `gorm:"default:true" json:"isActive"`
	Gender                string `gorm:"size:30" json:"gender,omitempty"`
	Address               string `gorm:"size:255" json:"address,omitempty"`
	DateOfBirth           string `gorm:"size:10" json:"dateOfBirth,omitempty"`
	Occupation            string `gorm:"size:100" json:"occupation,omitempty"`
	EmergencyContactName  string `gorm:"size:100" json:"emergencyContactName,omitempty"`
	EmergencyContactPhone string `gorm:"size:50" json:"emergencyContactPhone,omitempty"`
}

// FullName joins first and last name.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// CreateUserRequest is the body of POST /users, used both by admins and by
// self-registration. Password is optional for patients booking without an account.
type CreateUserRequest struct {
	FirstName             string `json:"firstName" binding:"required"`
	LastName              string `json:"lastName" binding:"required"`
	Email                 string `json:"email" binding:"required,email"`
	Password              string `json:"password,omitempty"`
	Phone                 string `json:"phone,omitempty"`
	Age                   int    `json:"age,omitempty"`
	Role                  Role   `json:"role,omitempty"`
	Gender                string `json:"gender,omitempty"`
	Address               string `json:"address,omitempty"`
	DateOfBirth           string `json:"dateOfBirth,omitempty"`
	Occupation            string `json:"occupation,omitempty"`
	EmergencyContactName  string `json:"emergencyContactName,omitempty"`
	EmergencyContactPhone string `json:"emergencyContactPhone,omitempty"`
}

// UserPatch is the body of PATCH /users/:id. Nil fields are left untouched.
type UserPatch struct {
	FirstName             *string `json:"firstName,omitempty"`
	LastName              *string `json:"lastName,omitempty"`
	Email                 *string `json:"email,omitempty"`
	Password              *string `json:"password,omitempty"`
	Phone                 *string `json:"phone,omitempty"`
	Age                   *int    `json:"age,omitempty"`
	Role                  *Role   `json:"role,omitempty"`
	IsActive              *bool   `json:"isActive,omitempty"`
	Gender                *string `json:"gender,omitempty"`
	Address               *string `json:"address,omitempty"`
	DateOfBirth           *string `json:"dateOfBirth,omitempty"`
	Occupation            *string `json:"occupation,omitempty"`
	EmergencyContactName  *string `json:"emergencyContactName,omitempty"`
	EmergencyContactPhone *string `json:"emergencyContactPhone,omitempty"`
}
