package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kilat-Pet-Delivery/service-route/internal/application"
	"github.com/Kilat-Pet-Delivery/service-route/internal/config"
	"github.com/Kilat-Pet-Delivery/service-route/internal/directions"
	"github.com/Kilat-Pet-Delivery/service-route/internal/domain/session"
	"github.com/Kilat-Pet-Delivery/service-route/internal/events"
	"github.com/Kilat-Pet-Delivery/service-route/internal/handler"
	"github.com/Kilat-Pet-Delivery/service-route/internal/platform/database"
	"github.com/Kilat-Pet-Delivery/service-route/internal/platform/health"
	"github.com/Kilat-Pet-Delivery/service-route/internal/platform/kafka"
	"github.com/Kilat-Pet-Delivery/service-route/internal/platform/logger"
	"github.com/Kilat-Pet-Delivery/service-route/internal/platform/middleware"
	"github.com/Kilat-Pet-Delivery/service-route/internal/realtime"
	"github.com/Kilat-Pet-Delivery/service-route/internal/repository"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const serviceName = "service-route"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-route",
		zap.String("port", cfg.Port),
		zap.Bool("db_enabled", cfg.DBConfig.Enabled),
		zap.Bool("kafka_enabled", cfg.KafkaConfig.Enabled),
	)

	// Connect to database; sessions stay in memory when disabled
	var (
		db          *gorm.DB
		sessionRepo session.SessionRepository
	)
	if cfg.DBConfig.Enabled {
		dbConfig := database.PostgresConfig{
			Host:     cfg.DBConfig.Host,
			Port:     cfg.DBConfig.Port,
			User:     cfg.DBConfig.User,
			Password: cfg.DBConfig.Password,
			DBName:   cfg.DBConfig.DBName,
			SSLMode:  cfg.DBConfig.SSLMode,
		}
		db, err = database.Connect(dbConfig, log)
		if err != nil {
			log.Fatal("failed to connect to database", zap.Error(err))
		}

		// Run database migrations
		if cfg.AppEnv == "development" {
			if err := db.AutoMigrate(&repository.SessionModel{}); err != nil {
				log.Fatal("failed to run auto-migration", zap.Error(err))
			}
			log.Info("database migration completed (dev auto-migrate)")
		} else {
			if err := database.RunMigrations(dbConfig.DatabaseURL(), "migrations", log); err != nil {
				log.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		sessionRepo = repository.NewGormSessionRepository(db)
	} else {
		log.Warn("database disabled, sessions are kept in memory")
		sessionRepo = repository.NewMemorySessionRepository()
	}

	// Initialize event publisher
	var publisher application.EventPublisher
	if cfg.KafkaConfig.Enabled {
		kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
		defer func() { _ = kafkaProducer.Close() }()
		publisher = kafkaProducer
	} else {
		publisher = events.NewLogPublisher(log)
	}

	// Initialize the maps provider
	provider, err := directions.NewGoogleProvider(cfg.MapsConfig, log)
	if err != nil {
		log.Fatal("failed to create maps provider", zap.Error(err))
	}

	// Initialize application service
	hub := realtime.NewHub(log)
	routeService := application.NewRouteService(
		sessionRepo,
		provider,
		provider,
		publisher,
		hub,
		cfg.RequestTimeout,
		log,
	).WithEventTopic(cfg.KafkaConfig.Topic)

	// Initialize HTTP handlers
	sessionHandler := handler.NewSessionHandler(routeService)
	wsHandler := handler.NewWebSocketHandler(routeService, hub, cfg.AllowedOrigins, log)
	adminHandler := handler.NewAdminSessionHandler(routeService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	healthHandler := health.NewHandler(db, serviceName)
	healthHandler.RegisterRoutes(router)

	// Register routes
	sessionHandler.RegisterRoutes(&router.RouterGroup)
	wsHandler.RegisterRoutes(&router.RouterGroup)
	adminHandler.RegisterRoutes(&router.RouterGroup)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-route...")

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-route stopped")
}
