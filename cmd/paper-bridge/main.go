package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/qj0r9j0vc2/paper-bridge/internal/adapter/handler"
	"github.com/qj0r9j0vc2/paper-bridge/internal/domain/repository"
	"github.com/qj0r9j0vc2/paper-bridge/internal/infrastructure/config"
	"github.com/qj0r9j0vc2/paper-bridge/internal/infrastructure/gemini"
	"github.com/qj0r9j0vc2/paper-bridge/internal/infrastructure/observability"
	"github.com/qj0r9j0vc2/paper-bridge/internal/infrastructure/pdf"
	"github.com/qj0r9j0vc2/paper-bridge/internal/infrastructure/persistence/file"
	"github.com/qj0r9j0vc2/paper-bridge/internal/infrastructure/persistence/memory"
	"github.com/qj0r9j0vc2/paper-bridge/internal/infrastructure/server"
	infraslack "github.com/qj0r9j0vc2/paper-bridge/internal/infrastructure/slack"
	"github.com/qj0r9j0vc2/paper-bridge/internal/infrastructure/worker"
	"github.com/qj0r9j0vc2/paper-bridge/internal/usecase/dispatch"
	"github.com/qj0r9j0vc2/paper-bridge/internal/usecase/summarize"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	bootLogger := setupLogger("info", "json")
	cfg, err := config.Load(configPath)
	if err != nil {
		bootLogger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("configuration loaded",
		"channels", cfg.Slack.ChannelIDs,
		"model", cfg.Gemini.Model,
		"detail_level", cfg.Summary.DetailLevel,
		"cache_enabled", cfg.CacheEnabled(),
		"server_port", cfg.Server.Port,
	)

	// Telemetry
	telemetry, err := observability.NewTelemetry(observability.ServiceName, version)
	if err != nil {
		logger.Error("failed to initialize telemetry", "error", err)
		os.Exit(1)
	}

	// Summary cache
	var summaryRepo repository.SummaryRepository
	if cfg.CacheEnabled() {
		summaryRepo, err = file.NewSummaryRepository(cfg.Summary.CacheDir, logger, telemetry.Metrics)
		if err != nil {
			logger.Error("failed to initialize summary cache", "error", err, "dir", cfg.Summary.CacheDir)
			os.Exit(1)
		}
		logger.Info("file summary cache initialized", "dir", cfg.Summary.CacheDir)
	} else {
		summaryRepo = memory.NewSummaryRepository()
		logger.Info("in-memory summary cache initialized")
	}

	// Infrastructure clients
	slackClient := infraslack.NewClient(cfg.Slack.BotToken, cfg.Advanced.MaxRetries, cfg.RetryDelay(), logger)
	verifier := infraslack.NewSignatureVerifier(cfg.Slack.SigningSecret)

	geminiClient := gemini.NewClient(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.CallTimeout(), logger, cfg.Gemini.Endpoint)
	geminiClient.SetMetrics(telemetry.Metrics)

	fetcher := pdf.NewFetcher(cfg.Slack.BotToken, cfg.CallTimeout(), logger)
	extractor := pdf.NewExtractor(cfg.Summary.MaxPages, logger)

	// Use cases
	useCaseLogger := &slogAdapter{logger: logger}

	summarizer := summarize.NewSummarizer(
		geminiClient,
		summaryRepo,
		cfg.DetailLevel(),
		cfg.Advanced.MaxRetries,
		cfg.RetryDelay(),
		useCaseLogger,
	)
	processor := summarize.NewProcessor(
		fetcher,
		extractor,
		summarizer,
		slackClient,
		telemetry.Metrics,
		useCaseLogger,
	)

	pool := worker.NewPool(cfg.Workers.Count, cfg.Workers.QueueSize, logger)

	dispatcher := dispatch.NewDispatcher(
		slackClient,
		processor,
		pool,
		cfg.Slack.ChannelIDs,
		cfg.Slack.ReactionEmoji,
		useCaseLogger,
	)

	// Handlers and router
	handlers := &server.Handlers{
		SlackEvents: handler.NewSlackEventsHandler(dispatcher, telemetry.Metrics, logger),
		Health:      handler.NewHealthHandler(version, dispatcher.Channels),
		Metrics:     handler.NewMetricsHandler(),
	}
	router := server.NewRouter(handlers, verifier, telemetry.Metrics, logger)
	srv := server.New(cfg.Server, router, logger)

	// Channel watch-list follows the config file without a restart.
	watcher := config.NewWatcher(configPath, func(updated *config.Config) {
		dispatcher.SetChannels(updated.Slack.ChannelIDs)
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting paper-bridge", "version", version, "port", cfg.Server.Port)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return pool.Run(ctx) })
	g.Go(func() error { return srv.Run(ctx) })
	g.Go(func() error { return watcher.Run(ctx) })

	if err := g.Wait(); err != nil {
		logger.Error("runtime error", "error", err)
		os.Exit(1)
	}

	if err := telemetry.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shut down telemetry", "error", err)
	}

	logger.Info("paper-bridge stopped")
}

// setupLogger creates and configures the logger.
func setupLogger(level, format string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

// slogAdapter adapts slog.Logger to the use case Logger interfaces.
type slogAdapter struct {
	logger *slog.Logger
}

func (a *slogAdapter) Debug(msg string, keysAndValues ...any) {
	a.logger.Debug(msg, keysAndValues...)
}

func (a *slogAdapter) Info(msg string, keysAndValues ...any) {
	a.logger.Info(msg, keysAndValues...)
}

func (a *slogAdapter) Warn(msg string, keysAndValues ...any) {
	a.logger.Warn(msg, keysAndValues...)
}

func (a *slogAdapter) Error(msg string, keysAndValues ...any) {
	a.logger.Error(msg, keysAndValues...)
}
