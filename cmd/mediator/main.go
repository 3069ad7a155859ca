package main

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"

	"parley/ai"
	"parley/bus"
	"parley/extension"
	"parley/internal"
	"parley/moderation"
	"parley/observability"
	"parley/repositories"
	"parley/runtime"
	"parley/runtime/workers"
	"parley/search"
	"parley/services"
	"parley/session"
	"parley/turn"
)

//go:embed censored/*
var censoredFolder embed.FS

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
		fmt.Fprintf(os.Stderr, "Mediator terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the process lifecycle, and
// centralizes error reporting. Deferred cleanups (database close, index
// close) always execute because nothing here calls os.Exit directly.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, fmt.Errorf("config validation: %w", err)
	}

	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return exitConfig, err
	}

	logger := internal.LoggerFromString(config.LogLevel)
	ctx := context.Background()

	// 2. Storage (BadgerDB + Bluge)
	db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open bluge writer: %w", err)
	}
	defer func() {
		logger.Info("Closing Bluge...")
		_ = blugeWriter.Close()
	}()

	// 3. Moderation dictionaries
	censored, err := moderation.LoadCensored(censoredFolder, "censored")
	if err != nil {
		return exitRuntime, fmt.Errorf("loading censored words: %w", err)
	}
	logger.Info(fmt.Sprintf("%d censored files loaded [%s]",
		len(censored.Languages), strings.Join(censored.Languages, ",")))
	logger.Info(fmt.Sprintf("%d unique censored words loaded", len(censored.Words)))

	moderator, err := moderation.NewModerator(censored.Words, charReplacement)
	if err != nil {
		return exitRuntime, fmt.Errorf("building moderator: %w", err)
	}

	// 4. Core components
	b := bus.New(logger)
	turnStates := repositories.NewTurnStateRepository(db)
	messages := repositories.NewMessageRepository(db, logger, config.PageSize)
	participants := repositories.NewParticipantRepository(db)
	conversations := repositories.NewConversationRepository(db)
	typing := repositories.NewTypingStore(db)

	index := search.NewIndex(blugeWriter, logger)
	turns := turn.NewManager(logger, b, turnStates, messages, participants, conversations, config.RecentWindow, config.AITimeout)
	sessions := session.NewAggregator(logger, turnStates, messages, typing, conversations, config.PageSize, config.SessionTTL)
	sessions.RegisterInvalidation(b)

	extensions := extension.NewManager(logger, b)
	extensions.Register(extension.NewAnalytics())
	extensions.Register(extension.NewCompletionWatcher())

	monitor := observability.NewMonitor(logger, b)

	chatService := services.NewChatService(logger, b, moderator, index, turns, sessions,
		messages, participants, conversations, typing)
	mediator := ai.NewLocalMediator(logger, messages, chatService, config.RecentWindow)

	// 5. Supervision & Orchestration
	sup := workers.NewSupervisor(logger)
	registry := runtime.NewRegistry()
	broadcast := workers.NewBroadcastWorker(logger, registry, config.BufferSize, config.SinkTimeout)
	orchestrator := runtime.NewOrchestrator(logger, b, sup, registry, broadcast)
	orchestrator.AddWorkers(
		workers.NewAITriggerWorker(logger, b, mediator, turns, config.BufferSize, config.AITimeout),
		workers.NewTelemetryWorker(logger, b, config.MetricInterval),
	)

	// 6. Context & Signals
	// NotifyContext captures OS signals and cancels the context to trigger a shutdown.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go monitor.Listen(ctx, config.MetricInterval)

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Starting orchestrator...")
		if err := orchestrator.Start(ctx); err != nil {
			errChan <- fmt.Errorf("orchestrator error: %w", err)
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
	orchestrator.Stop()
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
