// Package binding wires every remote read and write of the practice API to
// hook state holders. Bindings take their API explicitly so tests can inject
// a fake.
package binding

import (
	"context"
	"io"

	"github.com/ariebrainware/psych-practice/hook"
	"github.com/ariebrainware/psych-practice/model"
)

// API is the remote surface used by the bindings. *apiclient.Client satisfies it.
type API interface {
	Login(ctx context.Context, email, password string) (model.LoginResponse, error)

	CreateUser(ctx context.Context, req model.CreateUserRequest) (model.User, error)
	GetUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id string) (model.User, error)
	UpdateUser(ctx context.Context, id string, p model.UserPatch) (model.User, error)
	DeleteUser(ctx context.Context, id string) error

	GetServices(ctx context.Context) ([]model.Service, error)
	GetService(ctx context.Context, id string) (model.Service, error)
	CreateService(ctx context.Context, req model.CreateServiceRequest) (model.Service, error)
	UpdateService(ctx context.Context, id string, p model.ServicePatch) (model.Service, error)
	DeleteService(ctx context.Context, id string) error

	CreateAppointment(ctx context.Context, req model.CreateAppointmentRequest) (model.Appointment, error)
	GetAppointments(ctx context.Context) ([]model.Appointment, error)
	GetAppointment(ctx context.Context, id string) (model.Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, id string, status model.AppointmentStatus) (model.Appointment, error)
	DeleteAppointment(ctx context.Context, id string) error
	GetPatientAppointments(ctx context.Context, patientID string) ([]model.Appointment, error)
	GetAvailableSlots(ctx context.Context, date string) ([]string, error)

	SubmitContactForm(ctx context.Context, req model.ContactRequest) (model.ContactMessage, error)
	GetContactMessages(ctx context.Context) ([]model.ContactMessage, error)
	GetContactMessage(ctx context.Context, id string) (model.ContactMessage, error)
	UpdateContactMessage(ctx context.Context, id string, p model.ContactMessagePatch) (model.ContactMessage, error)
	DeleteContactMessage(ctx context.Context, id string) error

	GetBlogPosts(ctx context.Context) ([]model.BlogPost, error)
	GetPublishedBlogPosts(ctx context.Context) ([]model.BlogPost, error)
	GetBlogPost(ctx context.Context, id string) (model.BlogPost, error)
	CreateBlogPost(ctx context.Context, req model.CreateBlogPostRequest) (model.BlogPost, error)
	UpdateBlogPost(ctx context.Context, id string, p model.BlogPostPatch) (model.BlogPost, error)
	DeleteBlogPost(ctx context.Context, id string) error
	PublishBlogPost(ctx context.Context, id string) (model.BlogPost, error)
	UnpublishBlogPost(ctx context.Context, id string) (model.BlogPost, error)

	UploadImage(ctx context.Context, filename string, r io.Reader) (model.UploadResult, error)
}

// Update addresses a partial update to one record.
type Update[P any] struct {
	ID    string
	Patch P
}

// StatusChange moves an appointment to a new status.
type StatusChange struct {
	ID     string
	Status model.AppointmentStatus
}

// ImageUpload is the input of UploadImageForm.
type ImageUpload struct {
	Filename string
	Body     io.Reader
}

// Keyed is a read bound to a single string key, such as a record id or a
// date. An empty key leaves it idle.
type Keyed[T any] struct {
	*hook.Resource[T]
	load func(ctx context.Context, key string) (T, error)
}

func keyed[T any](ctx context.Context, key string, load func(ctx context.Context, key string) (T, error)) *Keyed[T] {
	k := &Keyed[T]{load: load}
	k.Resource = hook.NewResource(ctx, k.fetcher(key), key)
	return k
}

// SetKey rebinds the read to key, fetching again when it changed.
func (k *Keyed[T]) SetKey(key string) bool {
	return k.SetDeps(k.fetcher(key), key)
}

func (k *Keyed[T]) fetcher(key string) hook.Fetcher[T] {
	if key == "" {
		return nil
	}
	return func(ctx context.Context) (T, error) {
		return k.load(ctx, key)
	}
}

func removal(del func(ctx context.Context, id string) error) hook.Mutator[string, struct{}] {
	return func(ctx context.Context, id string) (struct{}, error) {
		return struct{}{}, del(ctx, id)
	}
}

func update[P, R any](fn func(ctx context.Context, id string, p P) (R, error)) hook.Mutator[Update[P], R] {
	return func(ctx context.Context, u Update[P]) (R, error) {
		return fn(ctx, u.ID, u.Patch)
	}
}
