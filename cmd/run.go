package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"guildledger/application"
	"guildledger/bot"
	"guildledger/config"
	"guildledger/database"
	"guildledger/domain/games"
	"guildledger/domain/interfaces"
	"guildledger/events"
	"guildledger/infrastructure"
	"guildledger/infrastructure/observability"
	"guildledger/infrastructure/ratelimit"

	"github.com/redis/go-redis/v9"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting guildledger bot...")

	// Load configuration
	cfg := config.Get()

	flushLogs, err := infrastructure.ConfigureLogging(cfg)
	if err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}
	defer flushLogs()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Println("Database connection established successfully")

	// Initialize metrics
	if err := observability.InitializeGlobalMetrics(ctx, cfg); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := observability.ShutdownGlobalMetrics(shutdownCtx); err != nil {
			log.Printf("Error shutting down metrics: %v", err)
		}
	}()

	// Initialize event publishing
	publisher, closePublisher, err := newEventPublisher(ctx, cfg)
	if err != nil {
		return err
	}
	defer closePublisher()

	// Initialize unit of work factory
	log.Println("Initializing unit of work factory...")
	uowFactory := infrastructure.NewUnitOfWorkFactory(db, publisher)
	application.RegisterApplicationSubscriptions(uowFactory)
	log.Println("Unit of work factory initialized successfully")

	limiter, closeLimiter, err := newRateLimiter(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeLimiter()

	// Initialize the ledger core
	core := application.NewCore(uowFactory, cfg, limiter, games.NewRNG())
	roundsCtx, stopRounds := context.WithCancel(context.Background())
	defer stopRounds()
	core.Rounds.Start(roundsCtx)

	// Initialize Discord bot
	log.Println("Initializing Discord bot...")
	discordBot, err := bot.New(bot.Config{
		Token:   cfg.DiscordToken,
		GuildID: cfg.GuildID,
	}, core)
	if err != nil {
		core.Rounds.Shutdown()
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Println("Discord bot initialized successfully")

	// Wait for context cancellation
	log.Printf("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	log.Println("Shutting down bot...")

	// Stop taking interactions first so no new round starts during shutdown
	if err := discordBot.Close(); err != nil {
		log.Printf("Error closing Discord bot: %v", err)
	}

	stopRounds()
	core.Rounds.Shutdown()
	log.Println("Live rounds stopped")

	log.Println("Shutdown completed")
	return nil
}

// newEventPublisher returns the NATS JetStream publisher when servers are configured,
// otherwise the in-process bus
func newEventPublisher(ctx context.Context, cfg *config.Config) (interfaces.EventPublisher, func(), error) {
	if cfg.NATSServers == "" {
		log.Println("NATS not configured, using in-process event bus")
		return events.NewBus(), func() {}, nil
	}

	log.Println("Connecting to NATS...")
	natsClient := infrastructure.NewNATSClient(cfg.NATSServers)
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := natsClient.Connect(connectCtx); err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	publisher := infrastructure.NewNATSEventPublisher(natsClient, infrastructure.NewEventSubjectMapper())
	if err := publisher.EnsureDomainEventStream(); err != nil {
		natsClient.Close()
		return nil, nil, fmt.Errorf("failed to ensure event stream: %w", err)
	}
	log.Println("NATS event publisher initialized successfully")

	return publisher, func() {
		if err := natsClient.Close(); err != nil {
			log.Printf("Error closing NATS connection: %v", err)
		}
	}, nil
}

// newRateLimiter picks the shared redis limiter when configured, else a local window
func newRateLimiter(ctx context.Context, cfg *config.Config) (ratelimit.Limiter, func(), error) {
	if cfg.WagerRateLimit <= 0 {
		return ratelimit.Unlimited{}, func() {}, nil
	}
	if cfg.RedisAddr == "" {
		return ratelimit.NewMemoryLimiter(cfg.WagerRateLimit, cfg.WagerRateWindow), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Println("Using redis wager rate limiter")

	return ratelimit.NewRedisLimiter(client, cfg.WagerRateLimit, cfg.WagerRateWindow), func() {
		if err := client.Close(); err != nil {
			log.Printf("Error closing redis client: %v", err)
		}
	}, nil
}
