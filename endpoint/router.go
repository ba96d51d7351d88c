package endpoint

import (
	"net/http"
	"time"

	"github.com/ariebrainware/psych-practice/middleware"
	"github.com/ariebrainware/psych-practice/model"
	"github.com/ariebrainware/psych-practice/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Models lists every table the API owns, in migration order.
var Models = []interface{}{
	&model.User{},
	&model.Service{},
	&model.Appointment{},
	&model.ContactMessage{},
	&model.BlogPost{},
	&model.RequestLog{},
}

// RouterOptions tunes NewRouter.
type RouterOptions struct {
	UploadDir      string
	AllowedOrigins []string
	LoginRateLimit middleware.RateLimitConfig
}

// NewRouter builds the API: every route lives under /api and uploads are
// served from /uploads.
func NewRouter(db *gorm.DB, opts RouterOptions) *gin.Engine {
	util.UseJSONFieldNames()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware(opts.AllowedOrigins...))
	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(middleware.EndpointCallLogger())

	if opts.UploadDir != "" {
		r.Static(UploadURLPrefix, opts.UploadDir)
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
	})
	r.NoRoute(func(c *gin.Context) {
		util.CallErrorNotFound(c, "Cannot "+c.Request.Method+" "+c.Request.URL.Path)
	})

	api := r.Group("/api")
	auth := middleware.ValidateLoginToken()
	optional := middleware.OptionalLoginToken()
	staff := middleware.RequireRole(model.RoleAdmin, model.RoleStaff, model.RoleManager, model.RoleTherapist)
	admin := middleware.RequireRole(model.RoleAdmin, model.RoleManager)

	api.POST("/auth/login", middleware.RateLimiter(opts.LoginRateLimit), Login)

	users := api.Group("/users")
	users.POST("", optional, CreateUser)
	users.GET("", auth, staff, ListUsers)
	users.GET("/:id", auth, GetUser)
	users.PATCH("/:id", auth, UpdateUser)
	users.DELETE("/:id", auth, admin, DeleteUser)

	services := api.Group("/services")
	services.GET("", optional, ListServices)
	services.GET("/:id", GetService)
	services.POST("", auth, admin, CreateService)
	services.PATCH("/:id", auth, admin, UpdateService)
	services.DELETE("/:id", auth, admin, DeleteService)

	appts := api.Group("/appointments")
	appts.POST("", CreateAppointment)
	appts.GET("/available-slots", AvailableSlots)
	appts.GET("/patient/:id", auth, PatientAppointments)
	appts.GET("", auth, staff, ListAppointments)
	appts.GET("/:id", auth, GetAppointment)
	appts.PATCH("/:id", auth, UpdateAppointment)
	appts.DELETE("/:id", auth, staff, DeleteAppointment)

	contact := api.Group("/contact")
	contact.POST("", SubmitContact)
	contact.GET("", auth, staff, ListContactMessages)
	contact.GET("/:id", auth, staff, GetContactMessage)
	contact.PATCH("/:id", auth, staff, UpdateContactMessage)
	contact.DELETE("/:id", auth, staff, DeleteContactMessage)

	blog := api.Group("/blog")
	blog.GET("/published", ListPublishedBlogPosts)
	blog.GET("", auth, staff, ListBlogPosts)
	blog.GET("/:id", optional, GetBlogPost)
	blog.POST("", auth, staff, CreateBlogPost)
	blog.PATCH("/:id", auth, staff, UpdateBlogPost)
	blog.PATCH("/:id/publish", auth, staff, PublishBlogPost)
	blog.PATCH("/:id/unpublish", auth, staff, UnpublishBlogPost)
	blog.DELETE("/:id", auth, admin, DeleteBlogPost)

	api.POST("/upload/image", auth, staff, UploadImage(opts.UploadDir))

	return r
}
