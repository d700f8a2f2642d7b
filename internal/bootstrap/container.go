package bootstrap

import (
	"time"

	"contract-review-fe/internal/config"
	"contract-review-fe/internal/controller"
	"contract-review-fe/internal/handler"
	"contract-review-fe/internal/pkg/logger"
	"contract-review-fe/internal/pkg/mailer"
	"contract-review-fe/internal/repository/memory"
	"contract-review-fe/internal/service"
	"contract-review-fe/internal/websocket"
	"contract-review-fe/pkg/analyzer"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

// Container wires every dependency of the service once, at startup.
type Container struct {
	Logger              logger.ILogger
	WebSocketHub        *websocket.Hub
	ReviewController    controller.IReviewController
	HealthController    controller.IHealthController
	NotificationHandler *handler.NotificationHandler
	ConsumerService     service.IConsumerService
}

func NewContainer(cfg *config.Config) *Container {
	appLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")

	// In-process event bus between the session cores and the WebSocket fan-out.
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))

	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			appLogger.Warn("Bootstrap", "Invalid REDIS_URL, continuing without cluster fan-out", map[string]interface{}{"error": err.Error()})
		} else {
			rdb = redis.NewClient(opt)
		}
	}

	hub := websocket.NewHub(rdb, wsLogger)
	go hub.Run()

	backend := analyzer.New(cfg.Analyzer.BaseURL, time.Duration(cfg.Analyzer.TimeoutSeconds)*time.Second)

	sessions := memory.NewSessionRepository(time.Duration(cfg.Session.TTLMinutes) * time.Minute)

	sink := service.NewPublisherService(cfg.Session.NotificationsTopic, pubSub, wsLogger)

	var email mailer.IEmailService
	if cfg.SMTP.Host != "" {
		email = mailer.NewEmailService(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Email, cfg.SMTP.Password, cfg.SMTP.Email)
	}

	reviewService := service.NewReviewService(
		backend,
		sessions,
		sink,
		email,
		appLogger,
		time.Duration(cfg.Session.NotificationTTLSeconds)*time.Second,
	)

	return &Container{
		Logger:              appLogger,
		WebSocketHub:        hub,
		ReviewController:    controller.NewReviewController(reviewService),
		HealthController:    controller.NewHealthController(reviewService),
		NotificationHandler: handler.NewNotificationHandler(hub, cfg.Session.JWTSecret, wsLogger),
		ConsumerService:     service.NewConsumerService(pubSub, cfg.Session.NotificationsTopic, hub, wsLogger),
	}
}
