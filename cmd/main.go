package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/franzego/maybunga-notifications/internal/config"
	"github.com/franzego/maybunga-notifications/internal/handlers"
	"github.com/franzego/maybunga-notifications/internal/metrics"
	"github.com/franzego/maybunga-notifications/internal/middleware"
	"github.com/franzego/maybunga-notifications/internal/queue"
	"github.com/franzego/maybunga-notifications/internal/services"
	"github.com/franzego/maybunga-notifications/internal/store"
	"github.com/franzego/maybunga-notifications/internal/templates"
	"github.com/franzego/maybunga-notifications/pkg/logger"
	"github.com/franzego/maybunga-notifications/pkg/redis"
)

const version = "1.0.0"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", err)
	}
	zlog, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatal("Failed to build logger", err)
	}
	defer func() { _ = zlog.Sync() }()

	m := metrics.New(nil)
	registry := templates.NewRegistry()
	smsService := services.NewSMSServiceFromConfig(cfg.SMS, registry, zlog, m)
	emailService := services.NewEmailServiceFromConfig(cfg.Email, registry, zlog, m)
	notifier := services.NewNotificationService(smsService, emailService, registry, cfg.Notification, zlog, m)

	// interface values stay nil unless the dependency is really up
	var statusStore handlers.StatusStore
	if cfg.Redis.Addr != "" {
		client, err := redis.InitRedis(context.Background(), cfg.Redis)
		if err != nil {
			zlog.Warn("redis unavailable, delivery status cache disabled", zap.Error(err))
		} else {
			defer func() { _ = client.Close() }()
			statusStore = store.NewDeliveryStore(client, cfg.Redis.StatusTTL)
			zlog.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
		}
	}

	var publisher queue.EventPublisher
	if queue.IsValidURL(cfg.RabbitMQ.URL) {
		rabbit, err := queue.NewRabbitMqService(cfg.RabbitMQ)
		if err != nil {
			zlog.Warn("failed to connect to RabbitMQ, delivery events disabled", zap.Error(err))
		} else if err := rabbit.SetUpExchangeAndQueue(); err != nil {
			zlog.Warn("failed to declare RabbitMQ topology, delivery events disabled", zap.Error(err))
			rabbit.CloseConnection()
		} else {
			defer rabbit.CloseConnection()
			publisher = rabbit
			zlog.Info("RabbitMQ connected", zap.String("exchange", cfg.RabbitMQ.Exchange))
		}
	} else {
		zlog.Info("no valid RabbitMQ URL, delivery events disabled")
	}

	status := notifier.Status()
	zlog.Info("notification service ready",
		zap.String("sms_provider", status.SMS.Provider),
		zap.String("email_provider", status.Email.Provider),
		zap.String("preferred_method", string(status.PreferredMethod)),
		zap.Bool("fallback_enabled", status.FallbackEnabled))

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.CorrelationID(), middleware.RequestLogger(zlog))

	notificationHandler := handlers.NewNotificationHandler(notifier, statusStore, publisher, zlog)
	webhookHandler := handlers.NewWebhookHandler(statusStore, m, zlog)
	healthHandler := handlers.NewHealthHandler(notifier, statusStore, publisher, version)

	api := r.Group("/api/v1/notifications")
	// the gateway cannot send a bearer token
	api.POST("/webhook/sms", webhookHandler.SMSStatus)

	protected := api.Group("")
	if cfg.Auth.JWTSecret != "" {
		protected.Use(middleware.AuthMiddleware(cfg.Auth.JWTSecret))
	} else {
		zlog.Warn("auth.jwt_secret not set, notification API is unauthenticated")
	}
	notificationHandler.Register(protected)

	r.GET("/health", healthHandler.HealthCheck)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: 5 * time.Minute, // bulk sends pause between batches
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		zlog.Info("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			zlog.Error("shutdown error", zap.Error(err))
		}
	}()

	zlog.Info("starting notification service", zap.String("port", cfg.Server.Port))
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		zlog.Fatal("server error", zap.Error(err))
	}

	zlog.Info("server stopped")
}
