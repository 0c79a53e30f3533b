package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"dayplan/internal/agent"
	"dayplan/internal/calendar"
	"dayplan/internal/chat"
	"dayplan/internal/config"
	"dayplan/internal/google"
	"dayplan/internal/instrumentation"
	"dayplan/internal/logging"
	"dayplan/internal/parser"
)

// app bundles the wired dependencies behind the chat and ask commands.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	provider *instrumentation.Provider
	session  *chat.Session
}

// buildApp loads configuration and wires the parser, the calendar store, the
// workflow agent and the chat session. With dryRun the store is replaced by
// an in-memory calendar so no Google credentials or tokens are needed.
func buildApp(ctx context.Context, dryRun bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireParser(); err != nil {
		return nil, err
	}

	logger := logging.New(cfg.LogLevel)

	instrCfg, err := instrumentation.ConfigFromEnv(version)
	if err != nil {
		return nil, err
	}
	provider, err := instrumentation.NewProvider(ctx, instrCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to set up instrumentation: %w", err)
	}

	var store calendar.Store
	if dryRun {
		store = calendar.NewMemoryStore()
	} else {
		if err := cfg.RequireCalendar(); err != nil {
			provider.Shutdown(ctx)
			return nil, err
		}
		conf := google.OAuthConfig(cfg.GoogleClientID, cfg.GoogleClientSecret)
		gs := calendar.NewGoogleStore(conf, google.NewFileTokenProvider(conf), logger)
		for _, account := range cfg.Accounts {
			if !gs.HasToken(account) {
				provider.Shutdown(ctx)
				return nil, fmt.Errorf("no token for account %q; run 'dayplan auth' first", account)
			}
		}
		store = gs
	}

	p := parser.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel, logger)

	a := agent.New(p, store, agent.Config{
		Accounts: cfg.Accounts,
		Logger:   logger,
		Metrics:  provider.Metrics(),
	})

	session := chat.New(chat.Config{
		Runner:   a,
		Store:    store,
		Accounts: cfg.Accounts,
		Logger:   logger,
		Metrics:  provider.Metrics(),
	})

	return &app{
		cfg:      cfg,
		logger:   logger,
		provider: provider,
		session:  session,
	}, nil
}

// shutdown flushes instrumentation.
func (a *app) shutdown(ctx context.Context) {
	if err := a.provider.Shutdown(ctx); err != nil {
		a.logger.Error("failed to shut down instrumentation", logging.Err(err))
	}
}
