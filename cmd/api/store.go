package main

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/hamed0406/uptimehistory/internal/config"
	"github.com/hamed0406/uptimehistory/internal/repo"
	"github.com/hamed0406/uptimehistory/internal/repo/memory"
	"github.com/hamed0406/uptimehistory/internal/repo/postgres"
	"github.com/hamed0406/uptimehistory/internal/repo/sqlite"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// openStore returns the configured timeline backend. With backend "none" the
// store is nil, which turns recording into a no-op and history into nulls.
func openStore(ctx context.Context, cfg config.Config, log *zap.Logger) (repo.TimelineStore, io.Closer, error) {
	switch cfg.StoreBackend {
	case config.BackendNone:
		log.Warn("timeline_store_disabled")
		return nil, nil, nil
	case config.BackendPostgres:
		s, err := postgres.New(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres store: %w", err)
		}
		return s, s, nil
	case config.BackendSQLite:
		s, err := sqlite.New(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite store: %w", err)
		}
		log.Info("sqlite_store_ready", zap.String("path", cfg.SQLitePath))
		return s, s, nil
	case config.BackendMemory:
		log.Info("memory_store_ready")
		return memory.New(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// readiness pings the store when it supports it.
func readiness(store repo.TimelineStore) func(ctx context.Context) error {
	p, ok := store.(pinger)
	if !ok {
		return nil
	}
	return p.Ping
}
