package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/ken-ho/squatx/internal/analysis"
	"github.com/ken-ho/squatx/internal/auth"
	"github.com/ken-ho/squatx/internal/repositories"
	"github.com/ken-ho/squatx/internal/services"
	"github.com/ken-ho/squatx/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	cfg, err := shared.LoadConfig("config.toml")
	if err != nil {
		if !errors.Is(err, shared.ErrMissingConfig) {
			logger.Fatal("failed to load config", "error", err)
		}
		cfg = shared.DefaultConfig()
	}

	var (
		creds auth.CredentialStore
		cache *repositories.SessionCacheRepository
	)
	db, err := shared.NewDatabase(cfg.Database.Path)
	if err != nil {
		logger.Debug("local database unavailable, credentials will not persist", "error", err)
	} else {
		defer db.Close()
		if err := shared.RunMigrations(db); err != nil {
			logger.Debug("failed to migrate local database", "error", err)
		} else {
			creds = repositories.NewCredentialRepository(db)
			cache = repositories.NewSessionCacheRepository(db)
		}
	}

	gate := auth.NewGate(creds, logger)
	if err := gate.Load(); err != nil {
		logger.Warn("failed to restore saved credentials", "error", err)
	}

	httpClient := &http.Client{Timeout: cfg.API.Timeout()}
	svc := services.NewAnalysisAPI(cfg.API, httpClient, gate)
	raw := services.NewRawAPI(cfg.API.BaseURL, httpClient, gate)
	history := analysis.NewHistoryStore(svc, gate, cache, logger)
	engine := analysis.NewEngine(svc, history, gate, logger)

	runner := NewRunner(RunnerOpts{
		Config:     cfg,
		Service:    svc,
		Raw:        raw,
		Gate:       gate,
		History:    history,
		Engine:     engine,
		HTTPClient: httpClient,
		Logger:     logger,
		Output:     os.Stdout,
	})

	app := &cli.Command{
		Name:     "squatx",
		Usage:    "Submit squat videos for form analysis and review past sessions",
		Commands: runner.register(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if err := app.Run(ctx, os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("command not implemented yet")
			os.Exit(0)
		}
		logger.Fatal("command failed", "error", err)
	}
}
