package main

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	"vaultmind/internal/config"
	"vaultmind/internal/health"
	"vaultmind/internal/indexer"
	"vaultmind/internal/memory"
	"vaultmind/internal/metrics"
	"vaultmind/internal/service"
	"vaultmind/internal/storage"
	"vaultmind/internal/surfacer"
	"vaultmind/internal/vault"
)

// app holds the wired engine and the resources that must be released on exit.
type app struct {
	cfg     *config.Config
	engine  service.Engine
	metrics *metrics.Collector
	db      *sql.DB
}

func (a *app) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// setupLogging installs the default slog logger. The MCP transport owns stdout,
// so that command logs to stderr.
func setupLogging(cfg *config.Config, out io.Writer) {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)
}

// newApp builds the engine from configuration. A missing vault path or a
// disabled memory store leaves the matching capability off.
func newApp(cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg, metrics: metrics.NewCollector("vaultmind")}
	deps := service.Deps{Metrics: a.metrics}

	if cfg.VaultPath != "" {
		manager, err := vault.NewManager(cfg.VaultPath, cfg.VaultIgnore)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize vault manager: %w", err)
		}
		deps.Notes = indexer.NewPipeline(manager, indexer.NewCache(), cfg.MaxDocuments)
		slog.Info("Vault manager initialized", "path", cfg.VaultPath, "ignore", cfg.VaultIgnore)
	} else {
		slog.Warn("VAULT_PATH not set, vault analysis disabled")
	}

	if cfg.MemoryEnabled {
		db, err := storage.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		a.db = db
		if err := storage.Migrate(db); err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		slog.Info("Database initialized", "path", cfg.DBPath)

		repo := storage.NewInsightRepo(db)
		deps.Memory = memory.NewService(repo, memory.WithRelationWindow(cfg.RelationWindow))
		deps.Surfacer, err = surfacer.New(repo, surfacer.Config{
			HalfLife: cfg.SurfaceHalfLife,
			Cooldown:       cfg.SurfaceCooldown,
			RelationWindow: cfg.RelationWindow,
		})
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("failed to create surfacer: %w", err)
		}
	} else {
		slog.Warn("MEMORY_ENABLED=false, persistent memory disabled")
	}

	healthOpts, err := health.NewOptions(health.Weights{
		Connectivity: cfg.HealthWeightConnectivity,
		Uniqueness:   cfg.HealthWeightUniqueness,
		Freshness:    cfg.HealthWeightFreshness,
	}, cfg.StaleAfter)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("invalid health configuration: %w", err)
	}

	a.engine, err = service.New(service.Options{
		OperationTimeout:    cfg.OperationTimeout,
		SimilarityThreshold: &cfg.SimilarityThreshold,
		SimilarLimit:        cfg.SimilarLimit,
		DuplicateThreshold:  cfg.DuplicateThreshold,
		SuggestThreshold:    &cfg.SuggestThreshold,
		SuggestLimit:        cfg.SuggestLimit,
		SurfaceMaxResults:   cfg.SurfaceMaxResults,
		Health:              healthOpts,
	}, deps)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	return a, nil
}
