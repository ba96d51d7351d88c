package model

// AppointmentStatus is the lifecycle state of an Appointment. Any status may be
// patched to any other; the server decides what it accepts.
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCancelled AppointmentStatus = "cancelled"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentNoShow    AppointmentStatus = "no_show"
)

// Valid reports whether s is a known appointment status.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentPending, AppointmentConfirmed, AppointmentCancelled, AppointmentCompleted, AppointmentNoShow:
		return true
	}
	return false
}

// Appointment is a booking of a Service by a patient.
type Appointment struct {
	Base
	PatientID         string            `gorm:"size:36;index;not null" json:"patientId"`
	ServiceID         string            `gorm:"size:36;index;not null" json:"serviceId"`
	AppointmentDate   string            `gorm:"size:10;index;not null" json:"appointmentDate"`
	AppointmentTime   string            `gorm:"size:20;not null" json:"appointmentTime"`
	Status            AppointmentStatus `gorm:"size:20;default:'pending'" json:"status"`
	Reason            string            `gorm:"type:text" json:"reason,omitempty"`
	HasInsurance      bool              `json:"hasInsurance"`
	InsuranceProvider string            `gorm:"size:150" json:"insuranceProvider,omitempty"`
	Notes             string            `gorm:"type:text" json:"notes,omitempty"`

	Patient *User    `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Service *Service `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
}

// CreateAppointmentRequest is the body of POST /appointments.
type CreateAppointmentRequest struct {
	AppointmentDate   string `json:"appointmentDate" binding:"required"`
	AppointmentTime   string `json:"appointmentTime" binding:"required"`
	PatientID         string `json:"patientId" binding:"required"`
	ServiceID         string `json:"serviceId" binding:"required"`
	Reason            string `json:"reason,omitempty"`
	HasInsurance      bool   `json:"hasInsurance,omitempty"`
	InsuranceProvider string `json:"insuranceProvider,omitempty"`
	Notes             string `json:"notes,omitempty"`
}

// AppointmentPatch is the body of PATCH /appointments/:id.
type AppointmentPatch struct {
	AppointmentDate   *string            `json:"appointmentDate,omitempty"`
	AppointmentTime   *string            `json:"appointmentTime,omitempty"`
	ServiceID         *string            `json:"serviceId,omitempty"`
	Status            *AppointmentStatus `json:"status,omitempty"`
	Reason            *string            `json:"reason,omitempty"`
	HasInsurance      *bool              `json:"hasInsurance,omitempty"`
	InsuranceProvider *string            `json:"insuranceProvider,omitempty"`
	Notes             *string            `json:"notes,omitempty"`
}
