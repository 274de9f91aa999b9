package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/joho/godotenv"

	"github.com/tennis-web/internal/api"
	"github.com/tennis-web/internal/config"
	"github.com/tennis-web/internal/handler"
	"github.com/tennis-web/internal/kafka"
	"github.com/tennis-web/internal/postgres"
	"github.com/tennis-web/internal/redis"
	"github.com/tennis-web/internal/service"
	"github.com/tennis-web/internal/session"
	"github.com/tennis-web/internal/sqlite"
	"github.com/tennis-web/internal/websocket"
	"github.com/tennis-web/internal/worker"
)

func main() {
	onLambda := os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
	if !onLambda {
		_ = godotenv.Load(".env", ".env.local")
	}

	// Parse command line flags
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, found, err := config.LoadOrDefault(*configPath)
	if err != nil {
		logger.Error("invalid configuration", "path", *configPath, "error", err)
		os.Exit(1)
	}
	if !found {
		logger.Warn("config file not found, using defaults", "path", *configPath)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Session storage
	storage, checks, closeStorage, err := openStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open session storage", "storage", cfg.Session.Storage, "error", err)
		os.Exit(1)
	}
	defer closeStorage()
	sessions := session.NewStore(storage, logger)

	// Backend API client
	client := api.NewClient(&cfg.API, logger)
	logger.Info("using tennis backend", "base_url", cfg.API.BaseURL)

	// Initialize WebSocket hub
	wsHub := websocket.NewHub(cfg.CORS.AllowedOrigins, logger)
	go wsHub.Run()

	// Activity goes to connected browsers and, when enabled, to Kafka
	publishers := service.Publishers{wsHub}
	var publisher *kafka.Publisher
	if cfg.Kafka.Enabled {
		logger.Info("initializing Kafka publisher", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
		publisher, err = kafka.NewPublisher(&cfg.Kafka, logger)
		if err != nil {
			logger.Warn("failed to create Kafka publisher, continuing without Kafka", "error", err)
		} else {
			publishers = append(publishers, publisher)
		}
	}

	// Initialize services
	directory := service.NewPlayerDirectory(client, logger)
	services := handler.Services{
		Auth:      service.NewAuthService(client, sessions, publishers, logger),
		Player:    service.NewPlayerService(client, publishers, logger),
		Referee:   service.NewRefereeService(client, publishers, logger),
		Directory: directory,
		Admin:     service.NewAdminService(client, publishers, logger),
	}
	unsubscribeHub := sessions.Subscribe(wsHub.HandleSessionEvent)
	defer unsubscribeHub()
	unsubscribeDirectory := sessions.Subscribe(directory.HandleSessionEvent)
	defer unsubscribeDirectory()

	// Idle session sweeper
	sweeper := worker.NewSessionSweeper(&cfg.Sweeper, cfg.Session.TTL, logger)
	if target, ok := storage.(session.Sweeper); ok {
		sweeper.Add(cfg.Session.Storage, target)
	}
	sweeper.Add("player-directory", directory)
	if cfg.Sweeper.Enabled && !onLambda {
		if err := sweeper.Start(ctx); err != nil {
			logger.Error("failed to start session sweeper", "error", err)
			os.Exit(1)
		}
	}

	httpHandler, err := handler.NewHandler(services, sessions, wsHub, cfg, logger)
	if err != nil {
		logger.Error("failed to build handler", "error", err)
		os.Exit(1)
	}
	for name, check := range checks {
		httpHandler.AddReadinessCheck(name, check)
	}
	router := httpHandler.Router()

	if onLambda {
		logger.Info("starting in Lambda mode")
		lambda.Start(httpadapter.New(router).ProxyWithContext)
		return
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("starting HTTP server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", "error", err)
	}

	wsHub.Stop()

	if err := sweeper.Stop(); err != nil {
		logger.Error("failed to stop session sweeper", "error", err)
	}

	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("failed to close Kafka publisher", "error", err)
		}
	}

	logger.Info("server stopped")
}

// openStorage connects the configured session backend and returns its
// readiness checks and a close function.
func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (session.Storage, map[string]handler.ReadyFunc, func(), error) {
	switch cfg.Session.Storage {
	case config.StorageRedis:
		logger.Info("connecting to Redis", "addr", cfg.Redis.Addr)
		store, err := redis.NewSessionStorage(&cfg.Redis, cfg.Session.TTL, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		closeFn := func() {
			if err := store.Close(); err != nil {
				logger.Error("failed to close Redis", "error", err)
			}
		}
		return store, map[string]handler.ReadyFunc{"redis": store.Ping}, closeFn, nil

	case config.StoragePostgres:
		logger.Info("connecting to PostgreSQL", "host", cfg.Postgres.Host, "database", cfg.Postgres.Database)
		store, err := postgres.NewSessionStorage(&cfg.Postgres, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := store.RunMigrations(ctx); err != nil {
			store.Close()
			return nil, nil, nil, fmt.Errorf("running migrations: %w", err)
		}
		return store, map[string]handler.ReadyFunc{"postgres": store.Ping}, store.Close, nil

	case config.StorageSQLite:
		logger.Info("opening SQLite", "path", cfg.SQLite.Path)
		store, err := sqlite.NewSessionStorage(cfg.SQLite.Path, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		closeFn := func() {
			if err := store.Close(); err != nil {
				logger.Error("failed to close SQLite", "error", err)
			}
		}
		return store, map[string]handler.ReadyFunc{"sqlite": store.Ping}, closeFn, nil
	}

	logger.Warn("using in-memory session storage; sessions are lost on restart")
	return session.NewMemoryStorage(), nil, func() {}, nil
}
