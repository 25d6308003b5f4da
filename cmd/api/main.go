package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/sjperalta/feedesk-api/docs" // Swagger docs
	"github.com/sjperalta/feedesk-api/internal/config"
	"github.com/sjperalta/feedesk-api/internal/database"
	"github.com/sjperalta/feedesk-api/internal/handlers"
	"github.com/sjperalta/feedesk-api/internal/jobs"
	"github.com/sjperalta/feedesk-api/internal/middleware"
	"github.com/sjperalta/feedesk-api/internal/repository"
	"github.com/sjperalta/feedesk-api/internal/services"
	"github.com/sjperalta/feedesk-api/internal/storage"
	"github.com/sjperalta/feedesk-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title FeeDesk API
// @version 1.0
// @description Fee receipts and fee history for schools and coaching centres
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@feedesk.app

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	if cfg.ResendAPIKey == "" || cfg.FromEmail == "" {
		logger.Warn("Resend email disabled: RESEND_API_KEY or FROM_EMAIL not set. Receipt emails will be rejected.")
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}

	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	logger.Info("Initialized local storage", "path", cfg.StoragePath)

	repos := repository.NewRepositories(db)

	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	svcs, err := services.NewServices(repos, worker, store, cfg)
	if err != nil {
		logger.Error("Failed to initialize services", "error", err)
		os.Exit(1)
	}

	emailLimiter := middleware.NewUserRateLimiter(middleware.DefaultRateLimiterConfig())

	scheduleJobs(worker, svcs, emailLimiter, cfg)

	h := handlers.NewHandlers(svcs)
	router := setupRouter(h, emailLimiter, cfg)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second, // print-pdf shells out to wkhtmltopdf
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	worker.Shutdown()
	logger.Info("Background worker stopped")

	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, emailLimiter *middleware.UserRateLimiter, cfg *config.Config) *gin.Engine {
	router := gin.New()

	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	if cfg.Environment != "production" {
		router.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
		})
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", h.Health.Index)

		// Every route below needs a token issued by the school backend
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			admin := protected.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				admin.POST("/fee_payments/:receipt_no/approve", h.FeePayment.Approve)
				admin.GET("/fee_payments/:receipt_no/audit", h.FeePayment.Audit)
				admin.POST("/receipts/:receipt_no/cancel", h.Receipt.Cancel)
				admin.GET("/jobs/status", h.Job.Status)
			}

			office := protected.Group("")
			office.Use(middleware.RequireRole(middleware.RoleAdmin, middleware.RoleAdmissionIncharge, middleware.RoleStaff))
			{
				// Static routes first so "preview" is not matched as :receipt_no
				receipts := office.Group("/receipts")
				{
					receipts.GET("/formats", h.Receipt.Formats)
					receipts.POST("/preview", h.Receipt.Preview)
					receipts.POST("/render", h.Receipt.Render)
					receipts.GET("/:receipt_no", h.Receipt.Show)
					receipts.GET("/:receipt_no/document", h.Receipt.Document)
					receipts.GET("/:receipt_no/logs", h.Receipt.Logs)
					receipts.POST("/:receipt_no/email", emailLimiter.Middleware(), h.Receipt.Email)
				}

				office.POST("/fee_payments", h.FeePayment.Create)

				office.GET("/fee_history", h.FeeHistory.Index)
				office.GET("/fee_history/export", h.FeeHistory.Export)
				office.GET("/students/:registration_no/fee_history", h.FeeHistory.Student)
			}
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services, emailLimiter *middleware.UserRateLimiter, cfg *config.Config) {
	// Purge archived receipts past retention once a day
	if cfg.ReceiptArchive && cfg.ReceiptRetentionDays > 0 {
		retention := time.Duration(cfg.ReceiptRetentionDays) * 24 * time.Hour
		worker.ScheduleEveryImmediate("purge-receipt-archive", 24*time.Hour, func(ctx context.Context) error {
			logger.Info("[Job] Purging receipt archive...", "retention_days", cfg.ReceiptRetentionDays)
			_, err := svcs.Receipt.PurgeArchive(ctx, retention)
			return err
		})
	}

	// Drop idle email rate limiters
	worker.ScheduleEvery("cleanup-email-limiter", 10*time.Minute, func(ctx context.Context) error {
		if removed := emailLimiter.Cleanup(); removed > 0 {
			logger.Debug("[Job] Dropped idle email rate limiters", "count", removed)
		}
		return nil
	})

	logger.Info("Scheduled recurring jobs")
}
