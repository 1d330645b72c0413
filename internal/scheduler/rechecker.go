package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/uptimehistory/internal/sites"
)

// Prober probes a site and records the outcome.
type Prober interface {
	Check(ctx context.Context, url string) bool
}

// SiteLister supplies the current site list on every pass, so reloads of
// the sites file are picked up without a restart.
type SiteLister interface {
	List() []sites.Site
}

type Rechecker struct {
	Logger      *zap.Logger
	Sites       SiteLister
	Prober      Prober
	Interval    time.Duration
	Timeout     time.Duration
	Concurrency int
}

func NewRechecker(
	logger *zap.Logger,
	sl SiteLister,
	prober Prober,
	interval time.Duration,
	timeout time.Duration,
	concurrency int,
) *Rechecker {
	if concurrency < 1 {
		concurrency = 1
	}
	if interval < 0 {
		interval = 0
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Rechecker{
		Logger:      logger,
		Sites:       sl,
		Prober:      prober,
		Interval:    interval,
		Timeout:     timeout,
		Concurrency: concurrency,
	}
}

// Run starts the loop. It does an immediate pass, then runs each tick.
// Stops when ctx is cancelled.
func (r *Rechecker) Run(ctx context.Context) {
	if r.Interval == 0 {
		r.Logger.Info("rechecker_disabled")
		return
	}
	t := time.NewTicker(r.Interval)
	defer t.Stop()

	r.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			r.Logger.Info("rechecker_stopped")
			return
		case <-t.C:
			r.RunOnce(ctx)
		}
	}
}

// RunOnce probes every configured site with at most Concurrency probes in
// flight and returns when all of them finished.
func (r *Rechecker) RunOnce(ctx context.Context) {
	list := r.Sites.List()
	if len(list) == 0 {
		return
	}
	start := time.Now()

	sem := make(chan struct{}, r.Concurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex
	up := 0

	for _, s := range list {
		select {
		case <-ctx.Done():
			wg.Wait()
			return
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func() {
			defer func() { <-sem }()
			defer wg.Done()

			cctx, cancel := context.WithTimeout(ctx, r.Timeout)
			defer cancel()

			ok := r.Prober.Check(cctx, s.URL)
			if ok {
				mu.Lock()
				up++
				mu.Unlock()
			}
			r.Logger.Debug("rechecker_checked",
				zap.String("site", s.Name),
				zap.String("url", s.URL),
				zap.Bool("up", ok),
			)
		}()
	}

	wg.Wait()
	r.Logger.Info("rechecker_pass",
		zap.Int("sites", len(list)),
		zap.Int("up", up),
		zap.Duration("took", time.Since(start)),
	)
}
