package model

// Service is a bookable offering such as an individual therapy session.
type Service struct {
	Base
	Name        string     `gorm:"size:150;not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	Duration    int        `gorm:"not null" json:"duration"`
	Price       *float64   `json:"price,omitempty"`
	IsActive    bool       `gorm:"default:true" json:"isActive"`
	Features    StringList `json:"features"`
}

// CreateServiceRequest is the body of POST /services.
type CreateServiceRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description" binding:"required"`
	Duration    int        `json:"duration" binding:"required,gt=0"`
	Price       *float64   `json:"price,omitempty"`
	IsActive    *bool      `json:"isActive,omitempty"`
	Features    StringList `json:"features,omitempty"`
}

// ServicePatch is the body of PATCH /services/:id.
type ServicePatch struct {
	Name        *string     `json:"name,omitempty"`
	Description *string     `json:"description,omitempty"`
	Duration    *int        `json:"duration,omitempty"`
	Price       *float64    `json:"price,omitempty"`
	IsActive    *bool       `json:"isActive,omitempty"`
	Features    *StringList `json:"features,omitempty"`
}
