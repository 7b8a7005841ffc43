package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"contact-intake-api/internal/client"
	appConfig "contact-intake-api/internal/config"
	"contact-intake-api/internal/handler"
	"contact-intake-api/internal/metrics"
	"contact-intake-api/internal/middleware"
	"contact-intake-api/internal/repository"
	"contact-intake-api/internal/service"
	"contact-intake-api/internal/store"
)

// Config holds everything Setup needs. Dependencies are injected so tests can
// swap storage and notification backends for in-memory fakes.
type Config struct {
	Logger          *zap.Logger
	Metrics         *metrics.Metrics
	DB              *gorm.DB // nil disables the image endpoints
	Redis           *redis.Client
	SubmissionStore store.SubmissionStore
	S3Client        client.S3ClientInterface
	EmailClient     client.EmailClient
	ChatClient      client.ChatClient
	Email           appConfig.EmailConfig
	Chat            appConfig.ChatConfig
	Admin           appConfig.AdminConfig
	Intake          appConfig.IntakeConfig
	BasePath        string
	Mode            string
	AllowedOrigins  []string
}

// Setup builds the HTTP router with all routes and middleware
func Setup(cfg Config) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	r := gin.New()
	// Above the largest accepted file, leaving room for form fields
	r.MaxMultipartMemory = 12 << 20

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	intakeService := service.NewIntakeService(
		cfg.SubmissionStore,
		cfg.S3Client,
		cfg.EmailClient,
		cfg.ChatClient,
		cfg.Email,
		cfg.Intake,
		cfg.Logger,
		cfg.Metrics,
	)

	contactHandler := handler.NewContactHandler(intakeService, cfg.Logger)
	adminHandler := handler.NewAdminHandler(intakeService, cfg.Logger)
	healthHandler := handler.NewHealthHandler(cfg.DB, cfg.Redis, cfg.Email, cfg.Chat)

	// Health and metrics endpoints live outside the base path
	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group(cfg.BasePath)
	{
		api.POST("/contact", contactHandler.Submit)

		admin := api.Group("/contact")
		admin.Use(middleware.AdminAuth(cfg.Admin.APIKey))
		{
			admin.GET("/submissions", adminHandler.ListSubmissions)
			admin.GET("/submission/:id", adminHandler.GetSubmission)
		}

		if cfg.DB != nil {
			imageRepo := repository.NewImageRepository(cfg.DB)
			imageService := service.NewImageService(imageRepo, cfg.S3Client, cfg.Logger, cfg.Metrics)
			imageHandler := handler.NewImageHandler(imageService, cfg.Logger)

			images := api.Group("/images")
			{
				images.GET("/:category", imageHandler.List)
				images.GET("/:category/:name", imageHandler.Get)

				protected := images.Group("")
				protected.Use(middleware.AdminAuth(cfg.Admin.APIKey))
				{
					protected.POST("/:category/:name", imageHandler.Upload)
				}
			}
		}
	}

	return r
}
