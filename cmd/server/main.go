package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rentwheels/service-rental/internal/application"
	"github.com/rentwheels/service-rental/internal/auth"
	"github.com/rentwheels/service-rental/internal/config"
	"github.com/rentwheels/service-rental/internal/database"
	bookingDomain "github.com/rentwheels/service-rental/internal/domain/booking"
	"github.com/rentwheels/service-rental/internal/events"
	"github.com/rentwheels/service-rental/internal/handler"
	"github.com/rentwheels/service-rental/internal/health"
	"github.com/rentwheels/service-rental/internal/logger"
	"github.com/rentwheels/service-rental/internal/middleware"
	"github.com/rentwheels/service-rental/internal/repository"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "service-rental")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-rental",
		zap.String("port", cfg.Port),
	)

	// Connect to database
	db, err := database.Connect(cfg.DBConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(&repository.VehicleModel{}, &repository.UserModel{}, &repository.BookingModel{}); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(cfg.DBConfig.DatabaseURL(), "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWTConfig.Secret)

	// Initialize Kafka producer; no brokers configured disables publishing
	var publisher application.EventPublisher
	if len(cfg.KafkaConfig.Brokers) > 0 {
		producer := events.NewProducer(cfg.KafkaConfig.Brokers, cfg.KafkaConfig.Topic)
		defer func() { _ = producer.Close() }()
		publisher = producer
	} else {
		log.Warn("no kafka brokers configured, event publishing disabled")
	}

	// Initialize repositories
	vehicleRepo := repository.NewGormVehicleRepository(db)
	accountRepo := repository.NewGormAccountRepository(db)
	bookingRepo := repository.NewGormBookingRepository(db)
	transactor := repository.NewGormTransactor(db)

	// Initialize pricing strategy
	pricingStrategy := bookingDomain.NewDailyRatePricing()

	// Initialize application services
	bookingService := application.NewBookingService(
		bookingRepo,
		vehicleRepo,
		pricingStrategy,
		transactor,
		publisher,
		log,
	)
	vehicleService := application.NewVehicleService(vehicleRepo, bookingRepo, transactor, log)
	accountService := application.NewAccountService(accountRepo, bookingRepo, transactor, jwtManager, log)

	// Initialize HTTP handlers
	bookingHandler := handler.NewBookingHandler(bookingService)
	vehicleHandler := handler.NewVehicleHandler(vehicleService)
	userHandler := handler.NewUserHandler(accountService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())

	// Register health check routes
	healthHandler := health.NewHandler(db, "service-rental")
	healthHandler.RegisterRoutes(router)

	// Register routes
	userHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	vehicleHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	bookingHandler.RegisterRoutes(&router.RouterGroup, jwtManager)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
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

	log.Info("shutting down service-rental...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-rental stopped")
}
