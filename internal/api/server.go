package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dhima/catalog-service/internal/api/handlers"
	"github.com/dhima/catalog-service/internal/api/middleware"
	"github.com/dhima/catalog-service/internal/auth"
	"github.com/dhima/catalog-service/internal/backup"
	"github.com/dhima/catalog-service/internal/catalog"
	"github.com/dhima/catalog-service/internal/logging"
	"github.com/dhima/catalog-service/internal/metrics"
	"github.com/dhima/catalog-service/internal/models"
	"github.com/dhima/catalog-service/internal/storage"
	"github.com/dhima/catalog-service/pkg/clock"
	"github.com/dhima/catalog-service/pkg/config"
	"github.com/dhima/catalog-service/platform/events"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Server orchestrates HTTP routing and dependencies for the API service.
type Server struct {
	config config.App
	logger logging.Logger
	clock  clock.Clock
	router *gin.Engine

	store     *storage.Store
	catalog   *catalog.Catalog
	tokens    *auth.TokenManager
	auth      *auth.Service
	publisher *events.Publisher
	backups   *backup.Scheduler
	metrics   *metrics.Metrics
}

// NewServer wires the API dependencies together: it loads the document,
// bootstraps the admin credential and builds the router.
func NewServer(ctx context.Context, cfg config.App, logger logging.Logger, clk clock.Clock) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.BackupSchedule != "" {
		if err := backup.ValidateSchedule(cfg.BackupSchedule); err != nil {
			return nil, err
		}
	}

	// Set Gin mode based on environment
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.DebugMode)
	}
	// Unknown JSON keys are malformed input, not ignorable extras.
	binding.EnableDecoderDisallowUnknownFields = true

	s := &Server{config: cfg, logger: logger, clock: clk}

	s.metrics = metrics.New()
	opts := []storage.Option{storage.WithLogger(logger), storage.WithNotifier(s.metrics)}
	if len(cfg.KafkaBrokers) > 0 {
		s.publisher = events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logging.Zap(logger))
		opts = append(opts, storage.WithNotifier(events.NewNotifier(s.publisher, clk, logging.Zap(logger))))
		logger.Info("change feed enabled",
			zap.Strings("brokers", cfg.KafkaBrokers),
			zap.String("topic", cfg.KafkaTopic),
		)
	}

	s.store = storage.NewStore(cfg.DataFile, catalog.Collections, opts...)
	s.metrics.RegisterCollections(s.store, catalog.Collections)
	if err := s.store.Load(ctx); err != nil {
		s.closePublisher()
		return nil, fmt.Errorf("load data file: %w", err)
	}

	s.catalog = catalog.New(s.store, clk)
	s.tokens = auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry, cfg.JWTIssuer, clk)
	s.auth = auth.NewService(s.catalog.Users, s.tokens, cfg.BcryptCost, logger)

	created, err := s.auth.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		s.closePublisher()
		return nil, fmt.Errorf("bootstrap admin: %w", err)
	}
	if created {
		logger.Info("admin credential created", zap.String("username", cfg.AdminUsername))
	}

	if cfg.BackupSchedule != "" {
		s.backups = backup.NewScheduler(s.store, cfg.BackupDir, cfg.BackupKeep, clk, logger)
	}

	if err := s.setupRouter(); err != nil {
		s.closePublisher()
		return nil, err
	}
	return s, nil
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler { return s.router }

// setupRouter configures the Gin router with middleware and routes.
func (s *Server) setupRouter() error {
	router := gin.New()
	// Forwarding headers are believed only from listed proxies; with none
	// listed, the client IP is the socket peer.
	if err := router.SetTrustedProxies(s.config.TrustedProxies); err != nil {
		return fmt.Errorf("trusted proxies: %w", err)
	}
	zapLogger := logging.Zap(s.logger)

	// Global middleware (order matters!)
	// 1. Recovery - must be first to catch panics from other middleware
	router.Use(ginzap.RecoveryWithZap(zapLogger, true))

	// 2. Request ID - inject unique ID for tracing
	router.Use(middleware.RequestID())

	// 3. Logging - log all requests with structured fields
	router.Use(ginzap.Ginzap(zapLogger, time.RFC3339, true))

	// 4. Metrics - count and time every request
	router.Use(s.metrics.Middleware())

	// 5. CORS - handle cross-origin requests
	router.Use(cors.New(cors.Config{
		AllowOrigins:     s.config.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health and metrics endpoints (no /api prefix)
	router.GET("/health", handlers.NewHealthHandler(s.logger, s.store).Health)
	router.GET("/metrics", handlers.NewMetricsHandler(s.logger, s.store, catalog.Collections, s.catalog.Events, s.clock).Metrics)
	router.GET("/metrics/prometheus", gin.WrapH(s.metrics.Handler()))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")
	authenticated := api.Group("", middleware.RequireAuth(s.tokens))
	admin := authenticated.Group("", middleware.RequireRole(models.RoleAdmin))

	trainings := handlers.NewTrainingHandler(s.logger, s.catalog.Trainings)
	api.GET("/trainings", trainings.ListTrainings)
	api.GET("/trainings/:id", trainings.GetTraining)
	admin.POST("/trainings", trainings.CreateTraining)
	admin.PUT("/trainings/:id", trainings.UpdateTraining)
	admin.DELETE("/trainings/:id", trainings.DeleteTraining)

	trainers := handlers.NewTrainerHandler(s.logger, s.catalog.Trainers)
	api.GET("/trainers", trainers.ListTrainers)
	api.GET("/trainers/:id", trainers.GetTrainer)
	admin.POST("/trainers", trainers.CreateTrainer)
	admin.PUT("/trainers/:id", trainers.UpdateTrainer)
	admin.DELETE("/trainers/:id", trainers.DeleteTrainer)

	eventHandler := handlers.NewEventHandler(s.logger, s.catalog.Events)
	api.GET("/events", eventHandler.ListEvents)
	api.GET("/events/calendar", eventHandler.Calendar)
	api.GET("/events/:id", eventHandler.GetEvent)
	api.GET("/events/:id/days", eventHandler.EventDays)
	admin.POST("/events", eventHandler.CreateEvent)
	admin.PUT("/events/:id", eventHandler.UpdateEvent)
	admin.DELETE("/events/:id", eventHandler.DeleteEvent)

	contacts := handlers.NewContactHandler(s.logger, s.catalog.Contacts)
	api.POST("/contact", contacts.SubmitContact)
	admin.GET("/contact", contacts.ListContacts)
	admin.GET("/contact/:id", contacts.GetContact)
	admin.PUT("/contact/:id", contacts.UpdateContact)
	admin.DELETE("/contact/:id", contacts.DeleteContact)

	about := handlers.NewAboutHandler(s.logger, s.catalog.Site)
	api.GET("/about", about.GetAbout)
	admin.PUT("/about", about.PutAbout)

	authHandler := handlers.NewAuthHandler(s.logger, s.auth)
	if s.config.LoginRateLimit > 0 {
		limiter := middleware.NewLoginLimiter(s.config.LoginRateLimit, s.clock)
		api.POST("/auth/login", middleware.RateLimit(limiter), authHandler.Login)
	} else {
		api.POST("/auth/login", authHandler.Login)
	}
	authenticated.GET("/auth/me", authHandler.Me)
	admin.POST("/auth/register", authHandler.Register)

	s.router = router
	return nil
}

// Serve starts the HTTP server with graceful shutdown support.
func (s *Server) Serve() error {
	addr := ":" + s.config.APIPort
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if s.backups != nil {
		if err := s.backups.Start(s.config.BackupSchedule); err != nil {
			return err
		}
	}

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info("starting API server",
			zap.String("address", addr),
			zap.String("environment", s.config.Environment),
			zap.String("data_file", s.store.Path()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-quit:
		s.logger.Info("shutting down server gracefully...")
	case err := <-serveErr:
		s.logger.Error("failed to start server", zap.Error(err))
		s.shutdownBackground(context.Background())
		return err
	}

	// Graceful shutdown with 30 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		s.logger.Error("server forced to shutdown", zap.Error(err))
		return err
	}
	s.shutdownBackground(ctx)

	// Flush logger before exit
	if err := s.logger.Sync(); err != nil {
		// Ignore sync errors on stdout/stderr
		if err.Error() != "sync /dev/stdout: invalid argument" &&
			err.Error() != "sync /dev/stderr: invalid argument" {
			return err
		}
	}

	s.logger.Info("server stopped")
	return nil
}

func (s *Server) shutdownBackground(ctx context.Context) {
	if s.backups != nil {
		s.backups.Stop(ctx)
	}
	s.closePublisher()
}

func (s *Server) closePublisher() {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Close(); err != nil {
		s.logger.Error("failed to close change feed publisher", zap.Error(err))
	}
}
