package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"chat-platform/services/conversation-api/internal/config"
	"chat-platform/services/conversation-api/internal/domain/conversation"
	"chat-platform/services/conversation-api/internal/domain/prompt"
	"chat-platform/services/conversation-api/internal/infrastructure/auth"
	"chat-platform/services/conversation-api/internal/infrastructure/database"
	"chat-platform/services/conversation-api/internal/infrastructure/logger"
	"chat-platform/services/conversation-api/internal/infrastructure/observability"
	conversationrepo "chat-platform/services/conversation-api/internal/infrastructure/repository/conversation"
	promptrepo "chat-platform/services/conversation-api/internal/infrastructure/repository/prompt"
	userrepo "chat-platform/services/conversation-api/internal/infrastructure/repository/user"
	"chat-platform/services/conversation-api/internal/interfaces/httpserver"
)

// Application bundles the long-running pieces of the service.
type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

// NewApplication wires the application entry point.
func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

// Start runs the HTTP server until the context is cancelled.
func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := database.Connect(database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        cfg.DBLogLevel,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if err := database.AutoMigrate(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize auth validator")
	}

	userRepository := userrepo.NewRepository(db)
	conversationRepository := conversationrepo.NewRepository(db)
	promptRepository := promptrepo.NewRepository(db)

	conversationService := conversation.NewService(conversationRepository, userRepository, log, cfg.DefaultAgent)
	promptService := prompt.NewService(promptRepository, userRepository, log)

	httpServer := httpserver.New(cfg, log, conversationService, promptService, authValidator)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
