package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/NWU-Kano/library-service/internal/config"
	"github.com/NWU-Kano/library-service/internal/events"
	"github.com/NWU-Kano/library-service/internal/handlers"
	"github.com/NWU-Kano/library-service/internal/repositories/postgres"
	"github.com/NWU-Kano/library-service/internal/services"
	"github.com/NWU-Kano/library-service/internal/utils"
	"github.com/NWU-Kano/library-service/internal/validator"
	"github.com/NWU-Kano/library-service/pkg"
)

// @title Library Service API
// @version 1.0
// @description Backend service for the Sule Hamma Library, Northwest University Kano
// @host localhost:8080
// @BasePath /api/v1
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(slogLogger)
	logger := utils.NewSlogLogger(slogLogger)

	slogLogger.Info("Starting library service",
		"environment", cfg.Environment,
		"port", cfg.Port)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		slogLogger.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = pkg.NewRedisClient(cfg)
		if err != nil {
			slogLogger.Warn("Redis unavailable, caching disabled", "error", err)
			redisClient = nil
		}
	}

	repoManager := postgres.NewRepositoryManager(postgres.RepositoryConfig{
		DB:          db,
		RedisClient: redisClient,
	})
	if err := repoManager.Initialize(); err != nil {
		slogLogger.Error("Failed to initialize repositories", "error", err)
		os.Exit(1)
	}

	v := validator.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Notification events go to Kafka when brokers are configured. Otherwise
	// the in-process pub/sub carries them straight to the mail worker.
	var eventPublisher events.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		eventPublisher, err = events.NewKafkaPublisher(cfg.KafkaBrokers, slogLogger)
		if err != nil {
			slogLogger.Error("Failed to create kafka publisher", "error", err)
			os.Exit(1)
		}
		slogLogger.Info("Publishing notification events to kafka", "brokers", cfg.KafkaBrokers)
	} else {
		pubSub := events.NewGoChannelPubSub(slogLogger)
		eventPublisher = pubSub.Publisher()

		var mailer services.Mailer
		if cfg.SMTP.Host != "" {
			mailer = services.NewSMTPMailer(cfg.SMTP)
		} else {
			slogLogger.Warn("SMTP_HOST not set, notification mails will only be logged")
			mailer = services.NewLogMailer(slogLogger)
		}

		mailWorker := services.NewMailWorker(pubSub.Subscriber(), mailer, slogLogger)
		go func() {
			if err := mailWorker.Run(ctx); err != nil {
				slogLogger.Error("Mail worker stopped", "error", err)
			}
		}()
	}

	serviceManager := services.NewServiceManager(
		repoManager.GetRepository(),
		v,
		eventPublisher,
		slogLogger,
		services.ServiceManagerConfig{
			JWTSecret: cfg.JWTSecret,
			TokenTTL:  cfg.TokenTTL,
		},
	)
	if err := serviceManager.Initialize(ctx); err != nil {
		slogLogger.Error("Failed to initialize services", "error", err)
		os.Exit(1)
	}

	handlerManager := handlers.NewHandlerManager(
		serviceManager,
		repoManager.GetRepository().User(),
		logger,
	)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handlers.SetupMiddleware(router, logger)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slogLogger.Info("HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slogLogger.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slogLogger.Info("Shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slogLogger.Error("HTTP server shutdown failed", "error", err)
	}

	if err := serviceManager.Shutdown(shutdownCtx); err != nil {
		slogLogger.Error("Service shutdown failed", "error", err)
	}

	if err := repoManager.Shutdown(shutdownCtx); err != nil {
		slogLogger.Error("Repository shutdown failed", "error", err)
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			slogLogger.Error("Redis close failed", "error", err)
		}
	}

	slogLogger.Info("Shutdown complete")
}
