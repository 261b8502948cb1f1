package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	natsio "github.com/nats-io/nats.go"
	redisio "github.com/redis/go-redis/v9"
	mongoio "go.mongodb.org/mongo-driver/mongo"

	mongoadapter "github.com/storefront-kit/cart-service/internal/adapter/mongo"
	natsadapter "github.com/storefront-kit/cart-service/internal/adapter/nats"
	redisadapter "github.com/storefront-kit/cart-service/internal/adapter/redis"
	"github.com/storefront-kit/cart-service/internal/adapter/storefront"
	"github.com/storefront-kit/cart-service/internal/app/config"
	"github.com/storefront-kit/cart-service/internal/platform/logger"
	httpserver "github.com/storefront-kit/cart-service/internal/port/http"
	"github.com/storefront-kit/cart-service/internal/service"
)

type App struct {
	cfg         *config.Config
	log         logger.Logger
	server      *httpserver.Server
	mongoClient *mongoio.Client
	redisClient *redisio.Client
	natsConn    *natsio.Conn
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	logCfg := logger.ZapLoggerConfig{
		Level:      cfg.Logger.Level,
		Encoding:   cfg.Logger.Encoding,
		TimeFormat: cfg.Logger.TimeFormat,
	}
	appLogger, err := logger.NewZapLogger(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	appLogger.Info("Logger initialized")
	appLogger.Infof("Configuration loaded: Env=%s, HTTP Port: %s", cfg.Env, cfg.HTTPServer.Port)

	appLogger.Info("Initializing Redis client...")
	redisClient, err := redisadapter.NewClient(ctx, cfg.Redis)
	if err != nil {
		appLogger.Errorf("Failed to initialize Redis client: %v", err)
		return nil, fmt.Errorf("failed to initialize Redis client: %w", err)
	}
	appLogger.Info("Redis client initialized successfully")

	appLogger.Info("Initializing MongoDB client...")
	mongoClient, err := mongoadapter.NewClient(ctx, cfg.MongoDB)
	if err != nil {
		appLogger.Errorf("Failed to initialize MongoDB client: %v", err)
		return nil, fmt.Errorf("failed to initialize MongoDB client: %w", err)
	}
	appLogger.Info("MongoDB client initialized successfully")

	appLogger.Info("Connecting to NATS...")
	natsConn, err := natsadapter.NewConnection(cfg.NATS)
	if err != nil {
		appLogger.Errorf("Failed to connect to NATS: %v", err)
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	appLogger.Info("NATS connection established")

	sessionRepo := redisadapter.NewSessionRepository(redisClient)
	appLogger.Info("SessionRepository initialized")

	eventRepo, err := mongoadapter.NewEventRepository(ctx, mongoClient, cfg.MongoDB)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize EventRepository: %w", err)
	}
	appLogger.Info("EventRepository initialized")

	publisher, err := natsadapter.NewEventPublisher(natsConn)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize event publisher: %w", err)
	}

	storefrontClient, err := storefront.NewClient(storefront.Config{
		Endpoint:    cfg.Storefront.Endpoint,
		AccessToken: cfg.Storefront.AccessToken,
		Timeout:     cfg.Storefront.Timeout,
		PageSize:    cfg.Storefront.PageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storefront client: %w", err)
	}
	appLogger.Info("Storefront client initialized")

	analyticsSvc := service.NewAnalyticsService(eventRepo, publisher, appLogger)
	cartSvc := service.NewCartService(storefrontClient, analyticsSvc, appLogger)

	cartHandler := httpserver.NewCartHandler(cartSvc, sessionRepo, appLogger, cfg.Session)
	server := httpserver.NewServer(appLogger, cfg.HTTPServer, cartHandler)
	appLogger.Info("HTTP server instance created")

	application := &App{
		cfg:         cfg,
		log:         appLogger,
		server:      server,
		mongoClient: mongoClient,
		redisClient: redisClient,
		natsConn:    natsConn,
	}

	return application, nil
}

func (a *App) Run() {
	a.log.Info("Starting application components...")

	go func() {
		if err := a.server.Start(); err != nil {
			a.log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()
	a.log.Info("HTTP server started in a goroutine")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit
	a.log.Infof("Received shutdown signal: %v. Shutting down application...", receivedSignal)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPServer.TimeoutGraceful+5*time.Second)
	defer cancel()

	if err := a.server.Stop(shutdownCtx); err != nil {
		a.log.Errorf("Error during HTTP server graceful shutdown: %v", err)
	} else {
		a.log.Info("HTTP server stopped successfully")
	}

	a.log.Info("Closing external connections...")

	if a.natsConn != nil {
		a.natsConn.Close()
		a.log.Info("NATS connection closed")
	}

	if a.mongoClient != nil {
		if err := a.mongoClient.Disconnect(shutdownCtx); err != nil {
			a.log.Errorf("Error disconnecting from MongoDB: %v", err)
		} else {
			a.log.Info("MongoDB connection closed successfully")
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Errorf("Error closing Redis client: %v", err)
		} else {
			a.log.Info("Redis client closed successfully")
		}
	}

	a.log.Info("Application shut down successfully")
}
