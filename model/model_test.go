package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestRole(t *testing.T) {
	for _, r := range Roles {
		assert.True(t, r.Valid(), r)
	}
	assert.False(t, Role("owner").Valid())
	assert.True(t, RoleTherapist.IsBackOffice())
	assert.False(t, RolePatient.IsBackOffice())
}

func TestStatusValidity(t *testing.T) {
	assert.True(t, AppointmentNoShow.Valid())
	assert.False(t, AppointmentStatus("done").Valid())
	assert.True(t, PostArchived.Valid())
	assert.False(t, PostStatus("live").Valid())
	assert.True(t, MessageReplied.Valid())
	assert.False(t, MessageStatus("spam").Valid())
}

func TestUser_FullName(t *testing.T) {
	assert.Equal(t, "Ana Lee", User{FirstName: "Ana", LastName: "Lee"}.FullName())
	assert.Equal(t, "Ana", User{FirstName: "Ana"}.FullName())
	assert.Equal(t, "Lee", User{LastName: "Lee"}.FullName())
}

func TestBase_AssignsUUIDOnCreate(t *testing.T) {
	db := setupTestDB(t, &User{})

	u := User{FirstName: "Ana", LastName: "Lee", Email: "ana@example.com"}
	require.NoError(t, db.Create(&u).Error)
	assert.Len(t, u.ID, 36)

	fixed := User{Base: Base{ID: "fixed-id"}, FirstName: "Bo", LastName: "Kim", Email: "bo@example.com"}
	require.NoError(t, db.Create(&fixed).Error)
	assert.Equal(t, "fixed-id", fixed.ID)

	dup := User{FirstName: "Ana", LastName: "Again", Email: "ana@example.com"}
	assert.Error(t, db.Create(&dup).Error, "email is unique")
}

func TestAppointment_PreloadsPatientAndService(t *testing.T) {
	db := setupTestDB(t, &User{}, &Service{}, &Appointment{})

	patient := User{FirstName: "Ana", LastName: "Lee", Email: "ana@example.com", Role: RolePatient}
	require.NoError(t, db.Create(&patient).Error)
	svc := Service{Name: "Individual", Duration: 50, Features: StringList{"online"}}
	require.NoError(t, db.Create(&svc).Error)
	appt := Appointment{PatientID: patient.ID, ServiceID: svc.ID, AppointmentDate: "2026-11-02", AppointmentTime: "9:00 AM"}
	require.NoError(t, db.Create(&appt).Error)

	var got Appointment
	require.NoError(t, db.Preload("Patient").Preload("Service").First(&got, "id = ?", appt.ID).Error)
	assert.Equal(t, AppointmentPending, got.Status)
	require.NotNil(t, got.Patient)
	assert.Equal(t, "ana@example.com", got.Patient.Email)
	require.NotNil(t, got.Service)
	assert.Equal(t, StringList{"online"}, got.Service.Features)
}

func TestBlogPost_Defaults(t *testing.T) {
	db := setupTestDB(t, &BlogPost{})

	post := BlogPost{Title: "Hello", Content: "Body"}
	require.NoError(t, db.Create(&post).Error)

	var got BlogPost
	require.NoError(t, db.First(&got, "id = ?", post.ID).Error)
	assert.Equal(t, PostDraft, got.Status)
	assert.Nil(t, got.PublishedAt)
	assert.Empty(t, got.Tags)
}

func TestRequestLog_StoresDetails(t *testing.T) {
	db := setupTestDB(t, &RequestLog{})

	entry := RequestLog{Method: "POST", Path: "/api/auth/login", Status: 401, Details: datatypes.JSON(`{"route":"/api/auth/login"}`)}
	require.NoError(t, db.Create(&entry).Error)

	var got RequestLog
	require.NoError(t, db.First(&got, entry.ID).Error)
	assert.Equal(t, 401, got.Status)
	assert.JSONEq(t, `{"route":"/api/auth/login"}`, string(got.Details))
}
