package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"chat-bridge/auth"
	"chat-bridge/contract"
	"chat-bridge/feed"
	"chat-bridge/infrastructure/httpapi"
	"chat-bridge/internal"
	"chat-bridge/repositories"
	"chat-bridge/runtime/workers"
	"chat-bridge/services"
	"chat-bridge/translation"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/nats-io/nats.go"
	"github.com/samber/lo"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()

	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Check(); err != nil {
		return exitConfig, err
	}

	logger := internal.NewLogger(config.LogLevel)
	ctx := context.Background()

	// 2. Database (BadgerDB)
	db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	invitationRepository := repositories.NewInvitationRepository(db)
	pairingRepository := repositories.NewPairingRepository(db)
	profileRepository := repositories.NewProfileRepository(db)
	messageRepository := repositories.NewMessageRepository(db, logger, lo.ToPtr(config.LimitMessages))

	// 3. Feed backend
	var eventFeed contract.IFeed
	var publisher contract.IPublisher
	switch config.FeedBackend {
	case internal.FeedNats:
		conn, err := nats.Connect(config.NatsURL)
		if err != nil {
			return exitRuntime, fmt.Errorf("nats connection failed: %w", err)
		}
		defer func() {
			logger.Info("Draining NATS connection...")
			_ = conn.Drain()
		}()
		natsFeed := feed.NewNatsFeed(conn, logger)
		eventFeed, publisher = natsFeed, natsFeed
	default:
		hub := feed.NewHub(logger)
		eventFeed, publisher = hub, hub
	}

	// 4. Translation strategy
	translator := translation.NewMyMemoryTranslator(
		config.TranslationBaseURL, config.TranslationTimeout, logger)

	sup := workers.NewSupervisor(logger, config.RestartInterval)
	var strategy translation.Strategy
	if config.TranslationMode == internal.TranslationInline {
		strategy = translation.NewInlineStrategy(translator, config.TranslationTimeout, logger)
	} else {
		queue := make(chan translation.Request, config.TranslationQueueSize)
		strategy = translation.NewReactiveStrategy(queue, logger)
		sup.Add(translation.NewWorker(queue, translator, messageRepository,
			publisher, config.TranslationTimeout, logger))
	}

	// 5. Services & HTTP surface
	invitationService := services.NewInvitationService(
		invitationRepository, pairingRepository, profileRepository, logger)
	chatService := services.NewChatService(
		messageRepository, pairingRepository, strategy, publisher, logger)
	issuer := auth.NewTokenIssuer(config.AuthSecret, config.AuthTokenDuration)
	handler := httpapi.NewHandler(invitationService, chatService,
		eventFeed, issuer, config.BufferSize, logger)

	e := echo.New()
	e.HideBanner = true
	handler.RegisterRoutes(e)

	// 6. Context & Signals
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 2)

	go func() {
		logger.Info("Starting supervisor...")
		sup.Run(ctx)
	}()

	go func() {
		address := fmt.Sprintf(":%d", config.Port)
		logger.Info("Starting HTTP server", "address", address)
		if err := e.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errChan:
		return exitRuntime, err
	}

	// 8. Final Cleanup (Graceful Shutdown)
	logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown did not finish cleanly", "error", err)
	}
	sup.Stop()
	logger.Info("Program stopped cleanly")

	return exitOK, nil
}

func buildBadgerOpts(config internal.Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)

	if logger.Enabled(ctx, slog.LevelDebug) {
		options = options.WithLoggingLevel(badger.DEBUG).
			WithBypassLockGuard(true)
	} else {
		options = options.WithLoggingLevel(badger.INFO)
	}

	return options
}
