package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"contact-intake-api/internal/client"
	"contact-intake-api/internal/config"
	"contact-intake-api/internal/database"
	"contact-intake-api/internal/job"
	"contact-intake-api/internal/metrics"
	"contact-intake-api/internal/router"
	"contact-intake-api/internal/store"
)

func main() {
	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.Logger.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Contact Intake Service",
		zap.String("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("base_path", cfg.Server.BasePath),
		zap.Bool("email_configured", cfg.Email.Configured()),
		zap.Bool("chat_configured", cfg.Chat.WebhookURL != ""),
	)

	// Redis holds the submission records; without it the service cannot run
	redisClient, err := database.NewRedis(cfg.Redis, logger)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	submissionStore := store.NewSubmissionStore(redisClient, cfg.Intake.IndexCap)

	// Postgres only backs image metadata; the service starts without it
	var db *gorm.DB
	db, err = database.New(database.Config{
		DSN:             cfg.Database.GetDSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		logger.Warn("Failed to connect to database, image endpoints disabled", zap.Error(err))
		db = nil
	} else {
		logger.Info("Database connected successfully")
		if err := database.AutoMigrate(db); err != nil {
			logger.Warn("Failed to run database migrations", zap.Error(err))
		} else {
			logger.Info("Database migrations completed")
		}
		defer database.Close(db)
	}

	// Initialize metrics
	m := metrics.NewWithLogger(logger)
	logger.Info("Metrics initialized")

	// Initialize S3 client
	s3Client, err := client.NewS3Client(&cfg.S3)
	if err != nil {
		logger.Fatal("Failed to initialize S3 client", zap.Error(err))
	}
	logger.Info("S3 client initialized",
		zap.String("bucket", cfg.S3.Bucket),
		zap.String("region", cfg.S3.Region),
	)

	// Email and chat clients degrade to no-ops when unconfigured; submissions
	// always succeed regardless of notification availability
	var emailClient client.EmailClient
	if cfg.Email.Configured() {
		emailClient = client.NewEmailClient(cfg.Email.APIKey, cfg.Email.From, cfg.Email.Timeout, logger, m)
		logger.Info("Email client initialized", zap.String("from", cfg.Email.From))
	} else {
		emailClient = client.NewNoOpEmailClient()
		logger.Warn("Email credential not configured, notifications disabled")
	}

	var chatClient client.ChatClient
	if cfg.Chat.WebhookURL != "" {
		chatClient = client.NewChatClient(cfg.Chat.WebhookURL, cfg.Chat.Timeout, logger, m)
		logger.Info("Chat client initialized")
	} else {
		chatClient = client.NewNoOpChatClient()
	}

	// Scheduled cleanup of orphaned attachment blobs
	cronRunner := cron.New()
	cleanupJob := job.NewCleanupJob(submissionStore, s3Client, cfg.Intake.OrphanGracePeriod, logger)
	if _, err := cronRunner.AddJob(cfg.Intake.CleanupSchedule, cleanupJob); err != nil {
		logger.Warn("Failed to schedule cleanup job", zap.Error(err))
	} else {
		cronRunner.Start()
		defer cronRunner.Stop()
		logger.Info("Cleanup job scheduled", zap.String("schedule", cfg.Intake.CleanupSchedule))
	}

	// Setup router with all dependencies
	r := router.Setup(router.Config{
		Logger:          logger,
		Metrics:         m,
		DB:              db,
		Redis:           redisClient,
		SubmissionStore: submissionStore,
		S3Client:        s3Client,
		EmailClient:     emailClient,
		ChatClient:      chatClient,
		Email:           cfg.Email,
		Chat:            cfg.Chat,
		Admin:           cfg.Admin,
		Intake:          cfg.Intake,
		BasePath:        cfg.Server.BasePath,
		Mode:            cfg.Server.Mode,
		AllowedOrigins: []string{
			"https://wst-f.com",
			"https://www.wst-f.com",
			"http://localhost:3000",
		},
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Contact Intake Service started successfully",
			zap.String("address", srv.Addr),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

// initLogger initializes the zap logger with the specified level
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	zapConfig := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      zapLevel == zapcore.DebugLevel,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return zapConfig.Build()
}
