package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"messaging-service/internal/access"
	"messaging-service/internal/auth"
	"messaging-service/internal/config"
	"messaging-service/internal/db"
	"messaging-service/internal/handlers"
	"messaging-service/internal/middleware"
	"messaging-service/internal/observability"
	"messaging-service/internal/observers"
	"messaging-service/internal/rabbitmq"
	"messaging-service/internal/repositories"
	"messaging-service/internal/telemetry"
	"messaging-service/internal/ws"
)

const serviceName = "messaging-service"

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg.Environment)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	shutdownTracer, err := observability.InitTracer(context.Background(), cfg.OTLPEndpoint, serviceName)
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdownTracer(context.Background())

	database, err := db.Connect(cfg.DBDSN, logger)
	if err != nil {
		logger.Fatal("failed to connect to db", zap.Error(err))
	}
	defer database.Close()

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal("failed to parse redis url", zap.Error(err))
		}
		redisClient = redis.NewClient(opts)
		defer redisClient.Close()
	}

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, logger)
	defer publisher.Close()

	auditEmitter := telemetry.NewAuditEmitter(publisher, "messaging.audit", serviceName, cfg.Environment, logger)

	userRepo := repositories.NewUserRepo(database)
	conversationRepo := repositories.NewConversationRepo(database)
	messageRepo := repositories.NewMessageRepo(database)
	notificationRepo := repositories.NewNotificationRepo(database)
	historyRepo := repositories.NewHistoryRepo(database)

	evaluator := access.NewEvaluator(conversationRepo, messageRepo)
	tokens := auth.NewManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	hub := ws.NewHub(logger)

	dispatcher := observers.NewDispatcher(logger,
		observers.NewNotificationObserver(notificationRepo),
		observers.NewHistoryObserver(historyRepo),
		observers.NewAuditObserver(auditEmitter),
		observers.NewBroadcastObserver(hub),
	)

	authHandler := handlers.NewAuthHandler(userRepo, tokens)
	userHandler := handlers.NewUserHandler(userRepo)
	conversationHandler := handlers.NewConversationHandler(conversationRepo, messageRepo, userRepo, evaluator)
	messageHandler := handlers.NewMessageHandler(messageRepo, evaluator, dispatcher)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	historyHandler := handlers.NewHistoryHandler(historyRepo, evaluator)

	conversationWS := ws.NewConversationWebSocketHandler(hub, conversationRepo, tokens)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(middleware.RequestLogger(logger))
	router.Use(observability.HTTPMetricsMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authMiddleware := middleware.AuthMiddleware(tokens)
	rateLimit := middleware.RateLimit(redisClient, middleware.DefaultRateLimitConfig(cfg.RateLimitPerMinute))

	// Public routes carry the limiter too; unauthenticated requests are
	// keyed by client IP.
	router.POST("/users/", rateLimit, userHandler.Register)
	router.POST("/token/", rateLimit, authHandler.Token)
	router.POST("/token/refresh/", rateLimit, authHandler.Refresh)

	api := router.Group("/", authMiddleware, rateLimit)

	api.DELETE("/users/me/", userHandler.DeleteMe)

	api.GET("/conversations/", conversationHandler.ListConversations)
	api.POST("/conversations/", conversationHandler.CreateConversation)
	api.GET("/conversations/:conversation_id/", conversationHandler.GetConversation)

	api.GET("/conversations/:conversation_id/messages/", messageHandler.ListConversationMessages)
	api.POST("/conversations/:conversation_id/messages/", messageHandler.PostConversationMessage)
	api.GET("/conversations/:conversation_id/messages/:message_id/", messageHandler.GetConversationMessage)
	api.PATCH("/conversations/:conversation_id/messages/:message_id/", messageHandler.PatchConversationMessage)
	api.DELETE("/conversations/:conversation_id/messages/:message_id/", messageHandler.DeleteConversationMessage)

	api.GET("/messages/", messageHandler.ListMessages)
	api.GET("/messages/unread/", messageHandler.ListUnreadMessages)
	api.GET("/messages/:message_id/", messageHandler.GetMessage)
	api.PATCH("/messages/:message_id/", messageHandler.PatchMessage)
	api.DELETE("/messages/:message_id/", messageHandler.DeleteMessage)
	api.POST("/messages/:message_id/read/", messageHandler.MarkMessageRead)
	api.GET("/messages/:message_id/history/", historyHandler.GetMessageHistory)

	api.GET("/notifications/", notificationHandler.ListNotifications)

	router.GET("/ws/conversations/:conversation_id", conversationWS.Handle)

	logger.Info("starting server", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func newLogger(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
