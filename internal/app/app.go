package app

import (
	"context"
	"fmt"
	"log/slog"

	"NewsDashboard/internal/config"
	"NewsDashboard/internal/infrastructure/dashboard"
	"NewsDashboard/internal/infrastructure/feeds"
	"NewsDashboard/internal/infrastructure/llm"
	"NewsDashboard/internal/infrastructure/storage"
	"NewsDashboard/internal/infrastructure/telegram"
	"NewsDashboard/internal/logging"
	"NewsDashboard/internal/ports"
	"NewsDashboard/internal/source"
	"NewsDashboard/internal/usecase"
)

// Application wires configuration to use cases and owns the run loop.
type Application struct {
	cfg          config.Config
	store        *storage.SQLiteStore
	orchestrator *usecase.Orchestrator
	logger       *slog.Logger
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	store, err := storage.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	registry := source.NewRegistry()
	registry.Register("rss", func(sc config.SourceConfig) (ports.NewsSource, error) {
		return feeds.NewRSSSource(sc.Name, sc.URL), nil
	})
	registry.Register("listing", func(sc config.SourceConfig) (ports.NewsSource, error) {
		return feeds.NewListingSource(sc, nil), nil
	})

	sources, err := registry.Build(cfg.Sources)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("build sources: %w", err)
	}

	manager := source.NewManager(sources, store, baseLogger.With("component", "sources"))
	chat := llm.NewOpenAIClient(cfg.AI)

	l1 := usecase.NewL1Processor(usecase.L1Deps{
		Store:     store,
		Chat:      chat,
		Model:     cfg.AI.L1Model,
		Threshold: cfg.Triage.PassThreshold,
		Logger:    baseLogger.With("component", "l1"),
	})

	l2 := usecase.NewL2Processor(usecase.L2Deps{
		Store:     store,
		Chat:      chat,
		Model:     cfg.AI.L2Model,
		BatchSize: cfg.Triage.L2BatchSize,
		Threshold: cfg.Triage.PassThreshold,
		Logger:    baseLogger.With("component", "l2"),
	})

	var notifier ports.Notifier
	if tg := cfg.Notifications.Telegram; tg.BotToken != "" && tg.ChatID != "" {
		notifier = telegram.NewNotifier(tg.BotToken, tg.ChatID)
	}

	orchestrator := usecase.NewOrchestrator(usecase.OrchestratorDeps{
		Ingestor: manager,
		L1:       l1,
		L2:       l2,
		Store:    store,
		Writer:   dashboard.NewWriter(cfg.Output.DashboardPath, cfg.Ranking.TopN),
		Notifier: notifier,
		Triage:   cfg.Triage,
		Ranking:  cfg.Ranking,
		Fetch:    cfg.Fetch,
		Logger:   baseLogger.With("component", "cycle"),
	})

	return &Application{
		cfg:          cfg,
		store:        store,
		orchestrator: orchestrator,
		logger:       baseLogger,
	}, nil
}

// Run executes the cycle loop until the context is cancelled.
func (a *Application) Run(ctx context.Context) error {
	a.logger.Info("news dashboard started",
		"interval_seconds", a.cfg.Fetch.IntervalSeconds,
		"sources", len(a.cfg.Sources))

	defer func() {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("close store", "error", err)
		}
	}()

	return a.orchestrator.Run(ctx)
}
