package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/hamed0406/uptimehistory/internal/config"
	"github.com/hamed0406/uptimehistory/internal/history"
	"github.com/hamed0406/uptimehistory/internal/httpapi"
	apimw "github.com/hamed0406/uptimehistory/internal/httpapi/middleware"
	"github.com/hamed0406/uptimehistory/internal/logging"
	"github.com/hamed0406/uptimehistory/internal/notify"
	"github.com/hamed0406/uptimehistory/internal/obs"
	"github.com/hamed0406/uptimehistory/internal/probe"
	"github.com/hamed0406/uptimehistory/internal/scheduler"
	"github.com/hamed0406/uptimehistory/internal/sites"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.NewLogger(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("api_exit", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *zap.Logger) (err error) {
	if err := cfg.Validate(); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var closers []io.Closer
	defer func() {
		for _, c := range closers {
			err = multierr.Append(err, c.Close())
		}
	}()

	tel, err := obs.SetupOTel(ctx, obs.OTELConfig{
		Enable:      cfg.OTelEnable,
		Endpoint:    cfg.OTelEndpoint,
		ServiceName: cfg.OTelServiceName,
		SampleRatio: cfg.OTelSampleRatio,
	})
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = multierr.Append(err, tel.Shutdown(sctx))
	}()

	store, closer, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if closer != nil {
		closers = append(closers, closer)
	}

	list, err := sites.Load(cfg.SitesFile)
	if err != nil {
		return err
	}
	reg := sites.NewRegistry(list)
	logger.Info("sites_loaded", zap.String("path", cfg.SitesFile), zap.Int("sites", len(list)))
	if _, statErr := os.Stat(cfg.SitesFile); statErr == nil {
		go func() {
			if err := sites.Watch(ctx, cfg.SitesFile, logger, reg.Set); err != nil {
				logger.Warn("sites_watch_unavailable", zap.Error(err))
			}
		}()
	}

	svc := history.NewService(logger, store, probe.NewHTTPChecker(cfg.HTTPTimeout))
	svc.Targets = reg
	svc.StoreTimeout = cfg.StoreTimeout
	svc.Recorder.Timeout = cfg.StoreTimeout
	svc.DiagnoseDNS = cfg.DiagnoseDNS

	var channels notify.Multi
	if s := notify.NewSlack(cfg.SlackWebhookURL); s != nil {
		channels = append(channels, s)
	}
	if k := notify.NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic, logger); k != nil {
		channels = append(channels, k)
		closers = append(closers, k)
	}
	if len(channels) > 0 {
		alerts := notify.NewAlerts(channels, logger)
		alerts.Name = func(site string) string {
			s, _ := reg.Lookup(site)
			return s.Name
		}
		svc.Recorder.Sink = alerts
		// Deferred after the closers so pending deliveries finish first.
		defer alerts.Wait()
		logger.Info("notifications_enabled", zap.Int("channels", len(channels)))
	}

	rc := scheduler.NewRechecker(logger, reg, svc, cfg.CheckInterval, cfg.HTTPTimeout+2*cfg.StoreTimeout, cfg.MaxConcurrentChecks)
	go rc.Run(ctx)

	api := httpapi.NewServer(logger, svc, reg)
	api.CheckInterval = cfg.CheckInterval
	api.Ready = readiness(store)
	keys := apimw.Keys{Public: cfg.PublicAPIKeys, Admin: cfg.AdminAPIKeys}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Router(keys, cfg.AllowedOrigins, cfg.PublicRPM, cfg.PublicBurst, cfg.AdminRPM, cfg.AdminBurst),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api_listen",
			zap.String("addr", cfg.Addr),
			zap.String("store", cfg.StoreBackend),
			zap.Duration("check_interval", cfg.CheckInterval),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("api_shutdown")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(sctx)
}
