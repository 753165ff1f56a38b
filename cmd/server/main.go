package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/trailpost/campground-service/internal/adapter/geocoding/mapbox"
	httpAdapter "github.com/trailpost/campground-service/internal/adapter/http"
	natsAdapter "github.com/trailpost/campground-service/internal/adapter/messaging/nats"
	"github.com/trailpost/campground-service/internal/adapter/repository/cache"
	mongoRepo "github.com/trailpost/campground-service/internal/adapter/repository/mongodb"
	"github.com/trailpost/campground-service/internal/adapter/storage/s3"
	"github.com/trailpost/campground-service/internal/campground/usecase"
	"github.com/trailpost/campground-service/internal/config"
	"github.com/trailpost/campground-service/internal/mailer"
	"github.com/trailpost/campground-service/internal/platform/logger"
	"github.com/trailpost/campground-service/internal/platform/metrics"
	"github.com/trailpost/campground-service/internal/platform/tracer"
)

const serviceName = "campground-service"

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("INFO: .env file not found or error loading: %v. Relying on OS environment variables.\n", err)
	}

	appLogger := logger.NewLogger()
	appLogger.Info("Application starting", zap.String("service_name", serviceName))

	cfg, err := config.LoadConfig(appLogger)
	if err != nil {
		appLogger.Fatal("Failed to load configuration", zap.Error(err))
	}
	appLogger.Info("Configuration loaded",
		zap.String("http_port", cfg.HTTPPort),
		zap.String("mongo_database", cfg.MongoDatabase),
		zap.String("nats_url", cfg.NATSURL),
		zap.String("metrics_port", cfg.PrometheusMetricsPort),
	)

	externalTimeout := time.Duration(cfg.ExternalCallTimeoutSeconds) * time.Second

	tp := tracer.InitTracer(serviceName, cfg.OTExporterOTLPEndpoint, appLogger)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}()

	mongoClient, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		appLogger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			appLogger.Error("Error disconnecting from MongoDB", zap.Error(err))
		}
	}()
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		appLogger.Fatal("Failed to ping MongoDB", zap.Error(err))
	}
	db := mongoClient.Database(cfg.MongoDatabase)
	appLogger.Info("Connected to MongoDB")

	campgroundRepo, err := mongoRepo.NewCampgroundRepository(db, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize CampgroundRepository", zap.Error(err))
	}
	reviewRepo, err := mongoRepo.NewReviewRepository(db, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize ReviewRepository", zap.Error(err))
	}
	userRepo := mongoRepo.NewUserRepository(db, appLogger)

	storage, err := s3.NewStorage(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOBucket, cfg.MinIOUseSSL, externalTimeout, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	geocoder := mapbox.NewClient(cfg.MapboxEndpoint, cfg.MapboxToken, externalTimeout, appLogger)

	natsPublisher, err := natsAdapter.NewPublisher(cfg.NATSURL, appLogger, serviceName)
	if err != nil {
		appLogger.Fatal("Failed to initialize NATS publisher", zap.Error(err))
	}
	defer natsPublisher.Close()

	var detailsCache usecase.DetailsCache
	if cfg.RedisAddress != "" {
		campgroundCache, err := cache.NewCampgroundCache(cfg.RedisAddress)
		if err != nil {
			appLogger.Fatal("Failed to initialize Redis cache", zap.Error(err))
		}
		defer campgroundCache.Close()
		detailsCache = campgroundCache
		appLogger.Info("Redis cache initialized", zap.String("address", cfg.RedisAddress))
	} else {
		appLogger.Info("Redis cache disabled (REDIS_ADDRESS not set)")
	}

	var reviewMailer usecase.Mailer
	if cfg.SMTPEmail != "" {
		reviewMailer = mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPEmail, cfg.SMTPPassword, appLogger)
		appLogger.Info("Mailer initialized")
	} else {
		appLogger.Info("Mailer disabled (SMTP_EMAIL not set)")
	}

	metricsManager := metrics.NewManager("campground_service")

	campgroundUC := usecase.NewCampgroundUsecase(campgroundRepo, geocoder, storage, natsPublisher, detailsCache, metricsManager, appLogger)
	reviewUC := usecase.NewReviewUsecase(reviewRepo, campgroundRepo, userRepo, natsPublisher, detailsCache, reviewMailer, metricsManager, appLogger)

	campgroundHandler := httpAdapter.NewCampgroundHandler(campgroundUC, appLogger)
	reviewHandler := httpAdapter.NewReviewHandler(reviewUC, appLogger)
	router := httpAdapter.NewRouter(campgroundHandler, reviewHandler, cfg.JWTSecret, appLogger)

	if cfg.PrometheusMetricsPort != "" {
		go func() {
			if err := metrics.StartMetricsServer(cfg.PrometheusMetricsPort, appLogger, metricsManager.Registry); err != nil && !errors.Is(err, http.ErrServerClosed) {
				appLogger.Error("Prometheus metrics server failed", zap.Error(err))
			}
		}()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		appLogger.Info("HTTP server listening", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	appLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP server shutdown error", zap.Error(err))
	}
	appLogger.Info("Application shutting down")
}
