package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "regtrack/docs" // registers the swagger spec
	"regtrack/internal/domain"
	"regtrack/internal/handler"
	"regtrack/internal/middleware"
	"regtrack/internal/service"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth         *handler.AuthHandler
	Company      *handler.CompanyHandler
	User         *handler.UserHandler
	Country      *handler.CountryHandler
	Product      *handler.ProductHandler
	Registration *handler.RegistrationHandler
	Renewal      *handler.RenewalHandler
	Variation    *handler.VariationHandler
	Recycle      *handler.RecycleHandler
	File         *handler.FileHandler
	Upload       *handler.UploadHandler
	Export       *handler.ExportHandler
	Dashboard    *handler.DashboardHandler
	Health       *handler.HealthHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(authSvc service.AuthService, h Handlers, allowedOrigins []string, log *zap.Logger) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/otp/verify", h.Auth.VerifyOTP)
	auth.POST("/otp/resend", h.Auth.ResendOTP)
	auth.POST("/refresh", h.Auth.RefreshToken)
	auth.POST("/forgot-password", h.Auth.ForgotPassword)
	auth.POST("/reset-password", h.Auth.ResetPassword)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))
	protected.Use(middleware.TenantGuard())

	writers := middleware.RequireRole(domain.WriterRoles...)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)
	adminOrManager := middleware.RequireRole(domain.RoleAdmin, domain.RoleManager)

	protected.GET("/dashboard", h.Dashboard.Get)

	countries := protected.Group("/countries")
	countries.GET("", h.Country.List)
	countries.GET("/:id", h.Country.GetByID)
	countries.POST("", adminOrManager, h.Country.Create)
	countries.PUT("/:id", adminOrManager, h.Country.Update)
	countries.DELETE("/:id", adminOrManager, h.Country.Delete)

	products := protected.Group("/products")
	products.GET("", h.Product.List)
	products.GET("/:id", h.Product.GetByID)
	products.POST("", writers, h.Product.Create)
	products.POST("/import", adminOrManager, h.Product.Import)
	products.PUT("/:id", writers, h.Product.Update)
	products.DELETE("/:id", adminOrManager, h.Product.Delete)

	registrations := protected.Group("/registrations")
	registrations.GET("", h.Registration.List)
	registrations.GET("/:id", h.Registration.GetByID)
	registrations.GET("/:id/history", h.Registration.History)
	registrations.POST("", writers, h.Registration.Create)
	registrations.PUT("/:id", writers, h.Registration.Update)
	registrations.PUT("/:id/status", writers, h.Registration.ChangeStatus)
	registrations.DELETE("/:id", adminOrManager, h.Registration.Delete)

	renewals := protected.Group("/renewals")
	renewals.GET("", h.Renewal.List)
	renewals.GET("/due", h.Renewal.ListDue)
	renewals.GET("/:id", h.Renewal.GetByID)
	renewals.POST("", writers, h.Renewal.Create)
	renewals.PUT("/:id", writers, h.Renewal.Update)
	renewals.PUT("/:id/status", writers, h.Renewal.ChangeStatus)
	renewals.DELETE("/:id", adminOrManager, h.Renewal.Delete)

	variations := protected.Group("/variations")
	variations.GET("", h.Variation.List)
	variations.GET("/:id", h.Variation.GetByID)
	variations.POST("", writers, h.Variation.Create)
	variations.PUT("/:id", writers, h.Variation.Update)
	variations.PUT("/:id/status", writers, h.Variation.ChangeStatus)
	variations.DELETE("/:id", adminOrManager, h.Variation.Delete)

	recycle := protected.Group("/recycle-bin")
	recycle.GET("", adminOrManager, h.Recycle.List)
	recycle.POST("/:entity_type/:id/restore", adminOrManager, h.Recycle.Restore)
	recycle.DELETE("/:entity_type/:id", adminOnly, h.Recycle.Purge)

	// File routes
	files := protected.Group("/files")
	files.POST("/upload", writers, h.File.Upload)
	files.GET("", h.File.List)
	files.GET("/:id", h.File.GetByID)
	files.GET("/:id/size", h.Upload.ObjectSize)
	files.DELETE("/:id", adminOrManager, h.File.Delete)

	// Multipart uploads
	uploads := protected.Group("/uploads")
	uploads.Use(writers)
	uploads.POST("", h.Upload.Initiate)
	uploads.GET("/:id", h.Upload.GetSession)
	uploads.GET("/:id/parts/:part_number/url", h.Upload.PartURL)
	uploads.PUT("/:id/parts/:part_number", h.Upload.RecordPart)
	uploads.POST("/:id/complete", h.Upload.Complete)
	uploads.DELETE("/:id", h.Upload.Abort)
	protected.GET("/upload-jobs/:id", h.Upload.JobStatus)

	protected.GET("/exports/:entity", h.Export.Export)

	// User management (company-scoped)
	users := protected.Group("/users")
	users.POST("", adminOnly, h.User.Create)
	users.GET("", adminOnly, h.User.List)
	users.GET("/me", h.User.Me)
	users.GET("/:id", h.User.GetByID)
	users.PUT("/:id", h.User.Update)
	users.DELETE("/:id", adminOnly, h.User.Delete)

	// Platform admin routes - company management across tenants
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(authSvc))
	admin.Use(middleware.RequirePlatformAdmin())
	admin.POST("/companies", h.Company.Create)
	admin.GET("/companies", h.Company.List)
	admin.GET("/companies/:id", h.Company.GetByID)
	admin.PUT("/companies/:id", h.Company.Update)
	admin.DELETE("/companies/:id", h.Company.Delete)

	return r
}
