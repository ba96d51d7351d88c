package model

// Role is the access level of a User.
type Role string

const (
	RoleAdmin     Role = "admin"
	RolePatient   Role = "patient"
	RoleTherapist Role = "therapist"
	RoleStaff     Role = "staff"
	RoleManager   Role = "manager"
)

// Roles lists every known role in display order.
var Roles = []Role{RoleAdmin, RolePatient, RoleTherapist, RoleStaff, RoleManager}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	for _, v := range Roles {
		if v == r {
			return true
		}
	}
	return false
}

// IsBackOffice reports whether the role may use the administrative back office.
func (r Role) IsBackOffice() bool {
	return r == RoleAdmin || r == RoleStaff || r == RoleManager || r == RoleTherapist
}
