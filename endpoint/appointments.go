package endpoint

import (
	"errors"
	"time"

	"github.com/ariebrainware/psych-practice/middleware"
	"github.com/ariebrainware/psych-practice/model"
	"github.com/ariebrainware/psych-practice/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	dateLayout = "2006-01-02"
	slotLayout = "3:04 PM"

	firstSlotHour = 9
	lastSlotHour  = 16
)

// DaySlots lists every bookable time of a day, hourly from 9:00 AM to 4:00 PM.
func DaySlots() []string {
	slots := make([]string, 0, lastSlotHour-firstSlotHour+1)
	base := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	for h := firstSlotHour; h <= lastSlotHour; h++ {
		slots = append(slots, base.Add(time.Duration(h)*time.Hour).Format(slotLayout))
	}
	return slots
}

func isSlot(s string) bool {
	for _, slot := range DaySlots() {
		if slot == s {
			return true
		}
	}
	return false
}

func bookedSlots(db *gorm.DB, date string) (map[string]bool, error) {
	var times []string
	err := db.Model(&model.Appointment{}).
		Where("appointment_date = ? AND status <> ?", date, model.AppointmentCancelled).
		Pluck("appointment_time", &times).Error
	if err != nil {
		return nil, err
	}
	booked := make(map[string]bool, len(times))
	for _, t := range times {
		booked[t] = true
	}
	return booked, nil
}

// AvailableSlots lists free times on ?date=YYYY-MM-DD.
// GET /appointments/available-slots
func AvailableSlots(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		util.CallUserError(c, "date is required")
		return
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		util.CallUserError(c, "date must be formatted as YYYY-MM-DD")
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	booked, err := bookedSlots(db, date)
	if err != nil {
		util.CallServerError(c, "Failed to retrieve available slots", err)
		return
	}

	free := []string{}
	for _, s := range DaySlots() {
		if !booked[s] {
			free = append(free, s)
		}
	}
	util.CallSuccessOK(c, free)
}

// CreateAppointment books a slot for a patient and a service.
// POST /appointments
func CreateAppointment(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if !bindJSONOrRespond(c, &req) {
		return
	}
	if _, err := time.Parse(dateLayout, req.AppointmentDate); err != nil {
		util.CallUserError(c, "appointmentDate must be formatted as YYYY-MM-DD")
		return
	}
	if !isSlot(req.AppointmentTime) {
		util.CallUserError(c, "appointmentTime is not a bookable slot")
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	if err := db.Select("id").Where("id = ?", req.PatientID).First(&model.User{}).Error; err != nil {
		respondLookup(c, err, "Patient")
		return
	}
	var svc model.Service
	if err := db.Where("id = ? AND is_active = ?", req.ServiceID, true).First(&svc).Error; err != nil {
		respondLookup(c, err, "Service")
		return
	}

	appt := model.Appointment{
		PatientID:         req.PatientID,
		ServiceID:         req.ServiceID,
		AppointmentDate:   req.AppointmentDate,
		AppointmentTime:   req.AppointmentTime,
		Status:            model.AppointmentPending,
		Reason:            req.Reason,
		HasInsurance:      req.HasInsurance,
		InsuranceProvider: req.InsuranceProvider,
		Notes:             req.Notes,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		booked, err := bookedSlots(tx, req.AppointmentDate)
		if err != nil {
			return err
		}
		if booked[req.AppointmentTime] {
			return errSlotTaken
		}
		return tx.Create(&appt).Error
	})
	if errors.Is(err, errSlotTaken) {
		util.CallConflict(c, "Time slot is not available")
		return
	}
	if err != nil {
		util.CallServerError(c, "Failed to create appointment", err)
		return
	}

	appt.Service = &svc
	util.CallCreated(c, appt)
}

var errSlotTaken = errors.New("slot taken")

func respondLookup(c *gin.Context, err error, name string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		util.CallErrorNotFound(c, name+" not found")
		return
	}
	util.CallServerError(c, "Database error", err)
}

func appointmentQuery(db *gorm.DB) *gorm.DB {
	return db.Preload("Patient").Preload("Service")
}

// ListAppointments returns appointments, optionally filtered by ?status= and ?date=.
// GET /appointments
func ListAppointments(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	q := parseQueryParams(c)
	query := q.apply(appointmentQuery(db), "appointment_date")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if date := c.Query("date"); date != "" {
		query = query.Where("appointment_date = ?", date)
	}

	appts := []model.Appointment{}
	if err := query.Find(&appts).Error; err != nil {
		util.CallServerError(c, "Failed to retrieve appointments", err)
		return
	}
	util.CallSuccessOK(c, appts)
}

// PatientAppointments lists one patient's appointments.
// GET /appointments/patient/:id
func PatientAppointments(c *gin.Context) {
	patientID := c.Param("id")
	if !isSelfOrBackOffice(c, patientID) {
		util.CallForbidden(c, "Forbidden resource")
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	appts := []model.Appointment{}
	err := db.Preload("Service").
		Where("patient_id = ?", patientID).
		Order("appointment_date DESC").
		Find(&appts).Error
	if err != nil {
		util.CallServerError(c, "Failed to retrieve appointments", err)
		return
	}
	util.CallSuccessOK(c, appts)
}

// GetAppointment returns one appointment to its patient or to staff.
// GET /appointments/:id
func GetAppointment(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	var appt model.Appointment
	if !findOrRespond(c, appointmentQuery(db), &appt, "Appointment") {
		return
	}
	if !isSelfOrBackOffice(c, appt.PatientID) {
		util.CallForbidden(c, "Forbidden resource")
		return
	}
	util.CallSuccessOK(c, appt)
}

// UpdateAppointment applies a partial update. Patients may only cancel
// their own appointments.
// PATCH /appointments/:id
func UpdateAppointment(c *gin.Context) {
	var p model.AppointmentPatch
	if !bindJSONOrRespond(c, &p) {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	var appt model.Appointment
	if !findOrRespond(c, db, &appt, "Appointment") {
		return
	}

	if !callerRole(c).IsBackOffice() {
		uid, _ := middleware.GetUserID(c)
		onlyCancel := p.Status != nil && *p.Status == model.AppointmentCancelled &&
			p.AppointmentDate == nil && p.AppointmentTime == nil && p.ServiceID == nil
		if uid != appt.PatientID || !onlyCancel {
			util.CallForbidden(c, "Forbidden resource")
			return
		}
	}
	if p.Status != nil && !p.Status.Valid() {
		util.CallUserError(c, "Invalid status")
		return
	}
	if p.AppointmentDate != nil {
		if _, err := time.Parse(dateLayout, *p.AppointmentDate); err != nil {
			util.CallUserError(c, "appointmentDate must be formatted as YYYY-MM-DD")
			return
		}
	}
	if p.AppointmentTime != nil && !isSlot(*p.AppointmentTime) {
		util.CallUserError(c, "appointmentTime is not a bookable slot")
		return
	}

	moved := (p.AppointmentDate != nil && *p.AppointmentDate != appt.AppointmentDate) ||
		(p.AppointmentTime != nil && *p.AppointmentTime != appt.AppointmentTime)
	reopened := appt.Status == model.AppointmentCancelled &&
		p.Status != nil && *p.Status != model.AppointmentCancelled

	set(&appt.AppointmentDate, p.AppointmentDate)
	set(&appt.AppointmentTime, p.AppointmentTime)
	set(&appt.ServiceID, p.ServiceID)
	set(&appt.Status, p.Status)
	set(&appt.Reason, p.Reason)
	set(&appt.HasInsurance, p.HasInsurance)
	set(&appt.InsuranceProvider, p.InsuranceProvider)
	set(&appt.Notes, p.Notes)

	// Reopening a cancelled booking reclaims its slot.
	if (moved || reopened) && appt.Status != model.AppointmentCancelled {
		booked, err := bookedSlots(db.Where("id <> ?", appt.ID), appt.AppointmentDate)
		if err != nil {
			util.CallServerError(c, "Failed to update appointment", err)
			return
		}
		if booked[appt.AppointmentTime] {
			util.CallConflict(c, "Time slot is not available")
			return
		}
	}

	if !saveOrRespond(c, db, &appt, "Appointment") {
		return
	}
	if err := appointmentQuery(db).Where("id = ?", appt.ID).First(&appt).Error; err != nil {
		util.CallServerError(c, "Failed to load appointment", err)
		return
	}
	util.CallSuccessOK(c, appt)
}

// DeleteAppointment removes an appointment.
// DELETE /appointments/:id
func DeleteAppointment(c *gin.Context) {
	deleteByID(c, &model.Appointment{}, "Appointment")
}
