package history

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/uptimehistory/internal/domain"
	"github.com/hamed0406/uptimehistory/internal/metrics"
	"github.com/hamed0406/uptimehistory/internal/probe"
	"github.com/hamed0406/uptimehistory/internal/repo"
)

// TargetResolver maps a site URL to its probe settings.
type TargetResolver interface {
	Target(url string) probe.Target
}

// Service is the probe-and-record and history entry point shared by the
// HTTP API and the scheduler.
type Service struct {
	Logger       *zap.Logger
	Store        repo.TimelineStore // nil: recording is a no-op, history is all null
	Checker      probe.Checker
	Recorder     *Recorder
	Targets      TargetResolver // optional
	StoreTimeout time.Duration
	DiagnoseDNS  bool
	Now          func() time.Time
}

func NewService(logger *zap.Logger, store repo.TimelineStore, checker probe.Checker) *Service {
	return &Service{
		Logger:       logger,
		Store:        store,
		Checker:      checker,
		Recorder:     NewRecorder(logger, store),
		StoreTimeout: DefaultStoreTimeout,
		Now:          time.Now,
	}
}

// Check probes url, records the outcome and reports whether the site is up.
func (s *Service) Check(ctx context.Context, url string) bool {
	target := probe.Target{URL: url}
	if s.Targets != nil {
		target = s.Targets.Target(url)
	}

	out := s.Checker.Check(ctx, target)
	metrics.ProbeLatency.Observe(out.LatencyMS / 1000)
	status := domain.StatusFromBool(out.Success)
	metrics.Probes.WithLabelValues(string(status)).Inc()

	if !out.Success {
		fields := []zap.Field{
			zap.String("url", url),
			zap.Int("http_status", out.StatusCode),
			zap.Float64("latency_ms", out.LatencyMS),
			zap.String("reason", out.Message),
		}
		if s.DiagnoseDNS {
			dns := probe.Diagnose(ctx, url)
			fields = append(fields,
				zap.String("dns_class", dns.Class),
				zap.Strings("nameservers", dns.Nameservers),
				zap.String("cname", dns.CNAME),
				zap.String("resolver_error", dns.ResolverError),
			)
		}
		s.Logger.Info("probe_failed", fields...)
	}

	s.Recorder.Record(ctx, url, status, s.Now().UnixMilli())
	return out.Success
}

// History returns BucketCount summaries for url, oldest first. It never
// fails: without a readable timeline every bucket is null.
func (s *Service) History(ctx context.Context, url string, g domain.Granularity) []domain.Summary {
	metrics.HistoryQueries.WithLabelValues(string(g)).Inc()
	if s.Store == nil {
		return NoData(BucketCount)
	}
	tl, _ := loadTimeline(ctx, s.Store, s.Logger, domain.Key(url), s.StoreTimeout)
	return Aggregate(tl, g, BucketCount, s.Now().UnixMilli())
}
