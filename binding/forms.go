package binding

import (
	"context"

	"github.com/ariebrainware/psych-practice/hook"
	"github.com/ariebrainware/psych-practice/model"
)

// LoginForm signs in; on success the API client keeps the returned token.
func LoginForm(api API) *hook.Form[model.LoginRequest, model.LoginResponse] {
	return hook.NewForm(func(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error) {
		return api.Login(ctx, req.Email, req.Password)
	})
}

// UserForm creates a user.
func UserForm(api API) *hook.Form[model.CreateUserRequest, model.User] {
	return hook.NewForm(api.CreateUser)
}

// UpdateUserForm patches a user.
func UpdateUserForm(api API) *hook.Form[Update[model.UserPatch], model.User] {
	return hook.NewForm(update(api.UpdateUser))
}

// DeleteUserForm takes the user id.
func DeleteUserForm(api API) *hook.Form[string, struct{}] {
	return hook.NewForm(removal(api.DeleteUser))
}

// ServiceForm creates a service.
func ServiceForm(api API) *hook.Form[model.CreateServiceRequest, model.Service] {
	return hook.NewForm(api.CreateService)
}

// UpdateServiceForm patches a service.
func UpdateServiceForm(api API) *hook.Form[Update[model.ServicePatch], model.Service] {
	return hook.NewForm(update(api.UpdateService))
}

// DeleteServiceForm takes the service id.
func DeleteServiceForm(api API) *hook.Form[string, struct{}] {
	return hook.NewForm(removal(api.DeleteService))
}

// AppointmentForm books an appointment.
func AppointmentForm(api API) *hook.Form[model.CreateAppointmentRequest, model.Appointment] {
	return hook.NewForm(api.CreateAppointment)
}

// AppointmentStatusForm changes an appointment's status.
func AppointmentStatusForm(api API) *hook.Form[StatusChange, model.Appointment] {
	return hook.NewForm(func(ctx context.Context, c StatusChange) (model.Appointment, error) {
		return api.UpdateAppointmentStatus(ctx, c.ID, c.Status)
	})
}

// DeleteAppointmentForm takes the appointment id.
func DeleteAppointmentForm(api API) *hook.Form[string, struct{}] {
	return hook.NewForm(removal(api.DeleteAppointment))
}

// ContactForm submits the public contact form.
func ContactForm(api API) *hook.Form[model.ContactRequest, model.ContactMessage] {
	return hook.NewForm(api.SubmitContactForm)
}

// UpdateContactMessageForm patches a contact message.
func UpdateContactMessageForm(api API) *hook.Form[Update[model.ContactMessagePatch], model.ContactMessage] {
	return hook.NewForm(update(api.UpdateContactMessage))
}

// DeleteContactMessageForm takes the message id.
func DeleteContactMessageForm(api API) *hook.Form[string, struct{}] {
	return hook.NewForm(removal(api.DeleteContactMessage))
}

// BlogPostForm creates a post.
func BlogPostForm(api API) *hook.Form[model.CreateBlogPostRequest, model.BlogPost] {
	return hook.NewForm(api.CreateBlogPost)
}

// UpdateBlogPostForm patches a post.
func UpdateBlogPostForm(api API) *hook.Form[Update[model.BlogPostPatch], model.BlogPost] {
	return hook.NewForm(update(api.UpdateBlogPost))
}

// PublishBlogPostForm takes the post id.
func PublishBlogPostForm(api API) *hook.Form[string, model.BlogPost] {
	return hook.NewForm(api.PublishBlogPost)
}

// UnpublishBlogPostForm takes the post id.
func UnpublishBlogPostForm(api API) *hook.Form[string, model.BlogPost] {
	return hook.NewForm(api.UnpublishBlogPost)
}

// DeleteBlogPostForm takes the post id.
func DeleteBlogPostForm(api API) *hook.Form[string, struct{}] {
	return hook.NewForm(removal(api.DeleteBlogPost))
}

// UploadImageForm uploads a blog image.
func UploadImageForm(api API) *hook.Form[ImageUpload, model.UploadResult] {
	return hook.NewForm(func(ctx context.Context, in ImageUpload) (model.UploadResult, error) {
		return api.UploadImage(ctx, in.Filename, in.Body)
	})
}
