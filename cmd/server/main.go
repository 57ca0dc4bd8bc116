package main

import (
	"context"
	"expvar"
	"log"
	"runtime"

	"community-chat/internal/domain"
	"community-chat/internal/infrastructure/configs"
	"community-chat/internal/infrastructure/identity"
	"community-chat/internal/infrastructure/logging"
	"community-chat/internal/infrastructure/messaging"
	"community-chat/internal/infrastructure/metrics"
	"community-chat/internal/infrastructure/persistence/db"
	mongorepo "community-chat/internal/infrastructure/persistence/repository"
	"community-chat/internal/infrastructure/ratelimiter"
	"community-chat/internal/infrastructure/repository"
	"community-chat/internal/infrastructure/tracing"
	"community-chat/internal/infrastructure/ws"
	"community-chat/internal/presentation/api"
	auditHandler "community-chat/internal/presentation/handler/audit"
	healthHandler "community-chat/internal/presentation/handler/health"
	membersHandler "community-chat/internal/presentation/handler/members"
	messagesHandler "community-chat/internal/presentation/handler/messages"
	roomsHandler "community-chat/internal/presentation/handler/rooms"
	"community-chat/internal/presentation/handler/wshandler"
)

const serviceName = "community-chat"

func main() {
	configPath := configs.DetermineConfigPath()
	cfg, err := configs.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.NewLogger(logging.Config{
		Logger:   cfg.Logger.Logger,
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
		FilePath: cfg.Logger.FilePath,
	})

	ctx := context.Background()

	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(tracing.Config{
			ServiceName: serviceName,
			Environment: "production",
			Endpoint:    cfg.Tracing.Endpoint,
		})
		if err != nil {
			log.Fatalf("failed to initialize the tracer: %v", err)
		}
		defer func() {
			if err := shutdown(ctx); err != nil {
				logger.Errorf("tracer shutdown: %v", err)
			}
		}()
	}

	var (
		messageRepository    domain.MessageRepository
		auditRepository      domain.AuditRepository
		roomRepository       domain.RoomRepository
		membershipRepository domain.MembershipRepository
	)

	if cfg.Mongo.URI != "" {
		mongoCfg := &db.MongoConfig{
			URI:               cfg.Mongo.URI,
			Database:          cfg.Mongo.Database,
			ConnectionTimeout: cfg.Mongo.ConnectionTimeout,
		}

		client, err := db.NewMongoClient(ctx, mongoCfg)
		if err != nil {
			log.Fatalf("failed to connect to mongo: %v", err)
		}
		defer func() {
			if err := db.DisconnectMongo(ctx, client); err != nil {
				logger.Errorf("mongo disconnect: %v", err)
			}
		}()

		database := db.GetDatabase(client, mongoCfg)
		if err := mongorepo.EnsureMessageIndexes(ctx, database); err != nil {
			log.Fatalf("failed to create message indexes: %v", err)
		}
		if err := mongorepo.EnsureAuditIndexes(ctx, database); err != nil {
			log.Fatalf("failed to create audit indexes: %v", err)
		}
		if err := mongorepo.EnsureMembershipIndexes(ctx, database); err != nil {
			log.Fatalf("failed to create membership indexes: %v", err)
		}

		messageRepository = mongorepo.NewMessageRepository(database)
		auditRepository = mongorepo.NewAuditRepository(database)
		roomRepository = mongorepo.NewRoomRepository(database)
		membershipRepository = mongorepo.NewMembershipRepository(database)

		logger.Info(logging.Mongo, logging.Startup, "mongo stores ready", map[logging.ExtraKey]any{
			"database": cfg.Mongo.Database,
		})
	} else {
		messageRepository = repository.NewMessageRepository()
		auditRepository = repository.NewAuditRepository()
		roomRepository = repository.NewRoomRepository()
		membershipRepository = repository.NewMembershipRepository()

		logger.Warn(logging.General, logging.Startup, "no mongo URI configured, using in-memory stores", nil)
	}

	var publisher *messaging.ModerationPublisher
	if cfg.RabbitMQ.URI != "" {
		rabbitmq, err := messaging.NewRabbitMQ(cfg.RabbitMQ.URI, cfg.RabbitMQ.Exchange)
		if err != nil {
			log.Fatalf("failed to connect to rabbitmq: %v", err)
		}
		defer rabbitmq.Close()

		publisher = messaging.NewModerationPublisher(rabbitmq)

		logger.Info(logging.RabbitMQ, logging.Startup, "moderation publisher ready", map[logging.ExtraKey]any{
			"exchange": cfg.RabbitMQ.Exchange,
		})
	}

	chatMetrics := metrics.NewChat()

	hub := ws.NewHub(ws.HubConfig{
		Messages:      messageRepository,
		Audit:         auditRepository,
		Rooms:         roomRepository,
		Memberships:   membershipRepository,
		Publisher:     publisher,
		Logger:        logger,
		Metrics:       chatMetrics,
		SessionBuffer: cfg.Chat.SessionBuffer,
	})

	provider := identity.NewJWTProvider(cfg.Chat.JWTSecret)

	limiter := ratelimiter.NewFixedWindow(cfg.RateLimiter.RequestsPerTimeFrame, cfg.RateLimiter.TimeFrame)
	defer limiter.Close()

	app := api.NewApplication(
		cfg,
		logger,
		limiter,
		provider,
		chatMetrics,
		roomsHandler.NewHandler(roomRepository, membershipRepository, messageRepository, auditRepository, publisher, logger, chatMetrics),
		messagesHandler.NewHandler(messageRepository, hub, cfg.Chat.HistoryLimit),
		membersHandler.NewHandler(roomRepository, membershipRepository, auditRepository, publisher, hub, logger, chatMetrics),
		auditHandler.NewHandler(auditRepository, cfg.Chat.AuditPageLimit),
		healthHandler.NewHandler(),
		wshandler.NewHandler(hub, provider, logger),
	)

	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.Mount()
	if err := app.Run(mux); err != nil {
		logger.Fatalf("server stopped: %v", err)
	}
}
