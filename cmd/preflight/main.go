// cmd/preflight/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hamed0406/uptimehistory/internal/config"
	"github.com/hamed0406/uptimehistory/internal/sites"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		fail(err.Error())
	}
	ok("API_ADDR=" + cfg.Addr)

	if len(cfg.AdminAPIKeys) == 0 {
		warn("ADMIN_API_KEYS is empty: anyone can trigger probes via POST /api/check.")
	} else {
		ok(fmt.Sprintf("%d admin key(s)", len(cfg.AdminAPIKeys)))
	}
	if len(cfg.PublicAPIKeys) == 0 && len(cfg.AdminAPIKeys) == 0 {
		warn("PUBLIC_API_KEYS is empty: history reads are open.")
	}

	list, err := sites.Load(cfg.SitesFile)
	if err != nil {
		fail("SITES_FILE: " + err.Error())
	}
	if _, err := os.Stat(cfg.SitesFile); err != nil {
		warn("SITES_FILE " + cfg.SitesFile + " not found; built-in site list will be used.")
	}
	ok(fmt.Sprintf("%d site(s) configured", len(list)))

	switch cfg.StoreBackend {
	case config.BackendPostgres:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			fail("DATABASE_URL: " + err.Error())
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			fail("postgres unreachable: " + err.Error())
		}
		ok("postgres reachable")
	case config.BackendSQLite:
		dir := filepath.Dir(cfg.SQLitePath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fail("SQLITE_PATH directory: " + err.Error())
		}
		ok("SQLITE_PATH=" + cfg.SQLitePath)
	case config.BackendNone:
		warn("STORE_BACKEND=none: probes are not recorded and history is always empty.")
	default:
		warn("STORE_BACKEND=memory: history is lost on restart.")
	}

	if cfg.CheckInterval == 0 {
		warn("CHECK_INTERVAL_MS=0: background checks disabled; history only grows via POST /api/check.")
	} else {
		ok("check interval " + cfg.CheckInterval.String())
	}

	if len(cfg.AllowedOrigins) == 0 {
		warn("ALLOWED_ORIGINS empty: CORS allows every origin.")
	} else {
		ok("ALLOWED_ORIGINS=" + strings.Join(cfg.AllowedOrigins, ","))
	}

	ok("preflight passed")
}
