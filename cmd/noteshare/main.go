package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pubudu2003060/NoteShare-sub000/internal/core/domain"
	"github.com/pubudu2003060/NoteShare-sub000/internal/core/services"
	httphandlers "github.com/pubudu2003060/NoteShare-sub000/internal/handlers/http"
	"github.com/pubudu2003060/NoteShare-sub000/internal/infrastructure/distributed"
	"github.com/pubudu2003060/NoteShare-sub000/internal/infrastructure/middleware"
	"github.com/pubudu2003060/NoteShare-sub000/internal/infrastructure/monitoring"
	"github.com/pubudu2003060/NoteShare-sub000/internal/infrastructure/realtime"
	repositories "github.com/pubudu2003060/NoteShare-sub000/internal/infrastructure/repositories"
	"github.com/pubudu2003060/NoteShare-sub000/pkg/config"
	"github.com/pubudu2003060/NoteShare-sub000/pkg/logger"
	"github.com/pubudu2003060/NoteShare-sub000/pkg/tracing"
	"github.com/pubudu2003060/NoteShare-sub000/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Try multiple config paths
	configPaths := []string{
		"configs/config.yaml",
		"./configs/config.yaml",
		"/etc/noteshare/config.yaml",
		"config.yaml",
	}

	var cfg *config.Config
	var err error

	for _, path := range configPaths {
		cfg, err = config.Load(path)
		if err == nil {
			break
		}
	}

	if err != nil {
		// Fallback to defaults if config cannot be loaded
		cfg = config.DefaultConfig()
	}

	// Initialize logger
	zapLogger := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLogger.Sync()

	log := zapLogger.Sugar()

	// Initialize tracing
	tracerProvider, err := tracing.Init(tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: "noteshare",
		JaegerURL:   cfg.Tracing.JaegerURL,
		SampleRate:  cfg.Tracing.SampleRate,
	})
	if err != nil {
		log.Fatalw("failed to initialize tracing", "error", err)
	}

	// Initialize repository factory
	repoFactory, err := repositories.NewRepositoryFactory(cfg, log)
	if err != nil {
		log.Fatalw("failed to create repository factory", "error", err)
	}
	defer repoFactory.Close()

	userRepo := repoFactory.CreateUserRepository()
	groupRepo := repoFactory.CreateGroupRepository()
	notificationRepo := repoFactory.CreateNotificationRepository()
	arbitrationRepo := repoFactory.CreateArbitrationRepository()

	// Initialize monitoring
	collector := monitoring.NewPrometheusCollector()

	// Initialize services
	authService := services.NewAuthService(
		cfg.Auth.JWTSecret,
		cfg.Auth.AccessTokenTTL,
		cfg.Auth.RefreshTokenTTL,
		userRepo,
	)
	notificationService := services.NewNotificationService(
		notificationRepo,
		cfg.Notifications.DefaultPageSize,
		cfg.Notifications.MaxPageSize,
	)

	// Live connection registry
	hub := realtime.NewHub(authService, notificationService, collector, cfg.Realtime, log)

	// Cross-instance fanout rides Redis pub/sub; single-instance memory mode
	// runs without it.
	instanceID := utils.GenerateInstanceID()
	var fanout *distributed.NotificationFanout
	var fanoutPublisher services.FanoutPublisher
	if client := repoFactory.RedisClient(); client != nil {
		fanout = distributed.NewNotificationFanout(client, instanceID, log)
		fanoutPublisher = fanout
	}

	dispatcher := services.NewDispatcherService(notificationRepo, hub, fanoutPublisher, collector, log)
	arbitrationService := services.NewArbitrationService(notificationRepo, arbitrationRepo, dispatcher, collector, log)

	fanoutCtx, fanoutCancel := context.WithCancel(context.Background())
	defer fanoutCancel()
	if fanout != nil {
		go func() {
			err := fanout.Start(fanoutCtx, func(n *domain.Notification) {
				hub.Deliver(n.RecipientID, services.EventNewNotification, n)
			})
			if err != nil && err != context.Canceled {
				log.Warnw("notification fanout stopped", "error", err)
			}
		}()
	}

	// Initialize HTTP handlers
	authHandler := httphandlers.NewAuthHandler(authService, cfg.Auth, collector)
	notificationHandler := httphandlers.NewNotificationHandler(notificationService, arbitrationService)
	groupHandler := httphandlers.NewGroupHandler(groupRepo, dispatcher)

	// Configure Gin
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.ErrorHandlerMiddleware(log))
	if cfg.Tracing.Enabled {
		router.Use(middleware.TracingMiddleware())
	}
	if cfg.Monitoring.PrometheusEnabled {
		router.Use(middleware.MetricsMiddleware(collector))
	}
	router.Use(middleware.NewHTTPRateLimitMiddleware(cfg))

	authHandler.SetupRoutes(router)
	notificationHandler.SetupRoutes(router, authService)
	groupHandler.SetupRoutes(router, authService)

	// Websocket endpoint authenticates inside the handshake, not through the
	// HTTP auth middleware.
	router.GET("/ws", gin.WrapF(hub.HandleWebSocket))

	// Health and readiness
	healthChecker := monitoring.NewHealthChecker()
	healthChecker.AddCheck("repositories", repoFactory.HealthCheck, 2*time.Second)
	router.GET("/health", healthChecker.Handler())

	// Prometheus metrics endpoint
	if cfg.Monitoring.PrometheusEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
		log.Info("Prometheus metrics enabled")
	}

	// Create HTTP server with timeouts
	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		log.Infof("Starting NoteShare server on %s", cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for shutdown signals or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Fatalw("Server failed", "error", err)
	case sig := <-sigChan:
		log.Infow("Received shutdown signal", "signal", sig)
	}

	log.Info("Shutting down NoteShare server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Error during server shutdown", "error", err)
		if closeErr := srv.Close(); closeErr != nil {
			log.Errorw("Error force closing server", "error", closeErr)
		}
	} else {
		log.Info("Server shutdown gracefully")
	}

	fanoutCancel()
	if fanout != nil {
		if err := fanout.Close(); err != nil {
			log.Errorw("Error closing notification fanout", "error", err)
		}
	}

	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Error shutting down tracer", "error", err)
	}

	if err := repoFactory.Close(); err != nil {
		log.Errorw("Error closing repository factory", "error", err)
	}

	log.Info("NoteShare server stopped")
}
