package binding

import (
	"context"

	"github.com/ariebrainware/psych-practice/hook"
	"github.com/ariebrainware/psych-practice/model"
)

// Users loads the user list.
func Users(ctx context.Context, api API) *hook.Resource[[]model.User] {
	return hook.NewResource(ctx, api.GetUsers)
}

// User loads one user; it stays idle while id is empty.
func User(ctx context.Context, api API, id string) *Keyed[model.User] {
	return keyed(ctx, id, api.GetUser)
}

// Services loads the service catalogue.
func Services(ctx context.Context, api API) *hook.Resource[[]model.Service] {
	return hook.NewResource(ctx, api.GetServices)
}

// Service loads one service; it stays idle while id is empty.
func Service(ctx context.Context, api API, id string) *Keyed[model.Service] {
	return keyed(ctx, id, api.GetService)
}

// Appointments loads every appointment.
func Appointments(ctx context.Context, api API) *hook.Resource[[]model.Appointment] {
	return hook.NewResource(ctx, api.GetAppointments)
}

// Appointment loads one appointment; it stays idle while id is empty.
func Appointment(ctx context.Context, api API, id string) *Keyed[model.Appointment] {
	return keyed(ctx, id, api.GetAppointment)
}

// PatientAppointments lists the appointments booked by one patient.
func PatientAppointments(ctx context.Context, api API, patientID string) *Keyed[[]model.Appointment] {
	return keyed(ctx, patientID, api.GetPatientAppointments)
}

// AvailableSlots lists free times ("9:00 AM") on date (YYYY-MM-DD).
func AvailableSlots(ctx context.Context, api API, date string) *Keyed[[]string] {
	return keyed(ctx, date, api.GetAvailableSlots)
}

// ContactMessages loads received contact messages.
func ContactMessages(ctx context.Context, api API) *hook.Resource[[]model.ContactMessage] {
	return hook.NewResource(ctx, api.GetContactMessages)
}

// ContactMessage loads one contact message; it stays idle while id is empty.
func ContactMessage(ctx context.Context, api API, id string) *Keyed[model.ContactMessage] {
	return keyed(ctx, id, api.GetContactMessage)
}

// BlogPosts lists every post, drafts included.
func BlogPosts(ctx context.Context, api API) *hook.Resource[[]model.BlogPost] {
	return hook.NewResource(ctx, api.GetBlogPosts)
}

// PublishedBlogPosts lists published posts only.
func PublishedBlogPosts(ctx context.Context, api API) *hook.Resource[[]model.BlogPost] {
	return hook.NewResource(ctx, api.GetPublishedBlogPosts)
}

// BlogPost loads one post; it stays idle while id is empty.
func BlogPost(ctx context.Context, api API, id string) *Keyed[model.BlogPost] {
	return keyed(ctx, id, api.GetBlogPost)
}
