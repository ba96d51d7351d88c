package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/ariebrainware/psych-practice/model"
)

// resourcePath joins a collection path with escaped segments.
func resourcePath(collection string, segments ...string) string {
	var b strings.Builder
	b.WriteString(collection)
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

func get[T any](ctx context.Context, c *Client, endpoint string) (T, error) {
	return Request[T](ctx, c, endpoint, RequestOptions{Method: http.MethodGet})
}

func post[T any](ctx context.Context, c *Client, endpoint string, body interface{}) (T, error) {
	return Request[T](ctx, c, endpoint, RequestOptions{Method: http.MethodPost, Body: body})
}

func patch[T any](ctx context.Context, c *Client, endpoint string, body interface{}) (T, error) {
	return Request[T](ctx, c, endpoint, RequestOptions{Method: http.MethodPatch, Body: body})
}

// remove issues a DELETE and ignores whatever JSON the server sends back.
func (c *Client) remove(ctx context.Context, endpoint string) error {
	_, err := Request[json.RawMessage](ctx, c, endpoint, RequestOptions{Method: http.MethodDelete})
	return err
}

// Users

// CreateUser registers a user account.
func (c *Client) CreateUser(ctx context.Context, req model.CreateUserRequest) (model.User, error) {
	return post[model.User](ctx, c, "/users", req)
}

// GetUsers lists all users.
func (c *Client) GetUsers(ctx context.Context) ([]model.User, error) {
	return get[[]model.User](ctx, c, "/users")
}

// GetUser fetches one user by id.
func (c *Client) GetUser(ctx context.Context, id string) (model.User, error) {
	return get[model.User](ctx, c, resourcePath("/users", id))
}

// UpdateUser applies a partial update to a user.
func (c *Client) UpdateUser(ctx context.Context, id string, p model.UserPatch) (model.User, error) {
	return patch[model.User](ctx, c, resourcePath("/users", id), p)
}

// DeleteUser removes a user.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.remove(ctx, resourcePath("/users", id))
}

// Services

// GetServices lists the practice's services.
func (c *Client) GetServices(ctx context.Context) ([]model.Service, error) {
	return get[[]model.Service](ctx, c, "/services")
}

// GetService fetches one service by id.
func (c *Client) GetService(ctx context.Context, id string) (model.Service, error) {
	return get[model.Service](ctx, c, resourcePath("/services", id))
}

// CreateService adds a service.
func (c *Client) CreateService(ctx context.Context, req model.CreateServiceRequest) (model.Service, error) {
	return post[model.Service](ctx, c, "/services", req)
}

// UpdateService applies a partial update to a service.
func (c *Client) UpdateService(ctx context.Context, id string, p model.ServicePatch) (model.Service, error) {
	return patch[model.Service](ctx, c, resourcePath("/services", id), p)
}

// DeleteService removes a service.
func (c *Client) DeleteService(ctx context.Context, id string) error {
	return c.remove(ctx, resourcePath("/services", id))
}

// Appointments

// CreateAppointment books an appointment.
func (c *Client) CreateAppointment(ctx context.Context, req model.CreateAppointmentRequest) (model.Appointment, error) {
	return post[model.Appointment](ctx, c, "/appointments", req)
}

// GetAppointments lists every appointment.
func (c *Client) GetAppointments(ctx context.Context) ([]model.Appointment, error) {
	return get[[]model.Appointment](ctx, c, "/appointments")
}

// GetAppointment fetches one appointment by id.
func (c *Client) GetAppointment(ctx context.Context, id string) (model.Appointment, error) {
	return get[model.Appointment](ctx, c, resourcePath("/appointments", id))
}

// UpdateAppointment applies a partial update to an appointment.
func (c *Client) UpdateAppointment(ctx context.Context, id string, p model.AppointmentPatch) (model.Appointment, error) {
	return patch[model.Appointment](ctx, c, resourcePath("/appointments", id), p)
}

// UpdateAppointmentStatus patches only the status field.
func (c *Client) UpdateAppointmentStatus(ctx context.Context, id string, status model.AppointmentStatus) (model.Appointment, error) {
	return c.UpdateAppointment(ctx, id, model.AppointmentPatch{Status: &status})
}

// DeleteAppointment removes an appointment.
func (c *Client) DeleteAppointment(ctx context.Context, id string) error {
	return c.remove(ctx, resourcePath("/appointments", id))
}

// GetPatientAppointments lists the appointments booked by patientID.
func (c *Client) GetPatientAppointments(ctx context.Context, patientID string) ([]model.Appointment, error) {
	return get[[]model.Appointment](ctx, c, resourcePath("/appointments/patient", patientID))
}

// GetAvailableSlots lists the free appointment times on date (YYYY-MM-DD).
func (c *Client) GetAvailableSlots(ctx context.Context, date string) ([]string, error) {
	q := url.Values{"date": []string{date}}
	return get[[]string](ctx, c, "/appointments/available-slots?"+q.Encode())
}

// Contact messages

// SubmitContactForm sends a message from the public contact form.
func (c *Client) SubmitContactForm(ctx context.Context, req model.ContactRequest) (model.ContactMessage, error) {
	return post[model.ContactMessage](ctx, c, "/contact", req)
}

// GetContactMessages lists received contact messages.
func (c *Client) GetContactMessages(ctx context.Context) ([]model.ContactMessage, error) {
	return get[[]model.ContactMessage](ctx, c, "/contact")
}

// GetContactMessage fetches one contact message by id.
func (c *Client) GetContactMessage(ctx context.Context, id string) (model.ContactMessage, error) {
	return get[model.ContactMessage](ctx, c, resourcePath("/contact", id))
}

// UpdateContactMessage applies a partial update to a contact message.
func (c *Client) UpdateContactMessage(ctx context.Context, id string, p model.ContactMessagePatch) (model.ContactMessage, error) {
	return patch[model.ContactMessage](ctx, c, resourcePath("/contact", id), p)
}

// DeleteContactMessage removes a contact message.
func (c *Client) DeleteContactMessage(ctx context.Context, id string) error {
	return c.remove(ctx, resourcePath("/contact", id))
}

// Blog

// GetBlogPosts lists all posts, drafts included.
func (c *Client) GetBlogPosts(ctx context.Context) ([]model.BlogPost, error) {
	return get[[]model.BlogPost](ctx, c, "/blog")
}

// GetPublishedBlogPosts lists published posts only.
func (c *Client) GetPublishedBlogPosts(ctx context.Context) ([]model.BlogPost, error) {
	return get[[]model.BlogPost](ctx, c, "/blog/published")
}

// GetBlogPost fetches one post by id.
func (c *Client) GetBlogPost(ctx context.Context, id string) (model.BlogPost, error) {
	return get[model.BlogPost](ctx, c, resourcePath("/blog", id))
}

// CreateBlogPost creates a post.
func (c *Client) CreateBlogPost(ctx context.Context, req model.CreateBlogPostRequest) (model.BlogPost, error) {
	return post[model.BlogPost](ctx, c, "/blog", req)
}

// UpdateBlogPost applies a partial update to a post.
func (c *Client) UpdateBlogPost(ctx context.Context, id string, p model.BlogPostPatch) (model.BlogPost, error) {
	return patch[model.BlogPost](ctx, c, resourcePath("/blog", id), p)
}

// DeleteBlogPost removes a post.
func (c *Client) DeleteBlogPost(ctx context.Context, id string) error {
	return c.remove(ctx, resourcePath("/blog", id))
}

// PublishBlogPost issues PATCH /blog/:id/publish without a body.
func (c *Client) PublishBlogPost(ctx context.Context, id string) (model.BlogPost, error) {
	return patch[model.BlogPost](ctx, c, resourcePath("/blog", id, "publish"), nil)
}

// UnpublishBlogPost issues PATCH /blog/:id/unpublish without a body.
func (c *Client) UnpublishBlogPost(ctx context.Context, id string) (model.BlogPost, error) {
	return patch[model.BlogPost](ctx, c, resourcePath("/blog", id, "unpublish"), nil)
}
