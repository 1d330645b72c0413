package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/uptimehistory/internal/history"
)

// Alerts turns recorded transitions into events and delivers them in the
// background so that slow channels never delay a probe response.
type Alerts struct {
	Notifier Notifier
	Logger   *zap.Logger
	Timeout  time.Duration
	// Name resolves a display name for a site URL; optional.
	Name func(site string) string

	wg sync.WaitGroup
}

func NewAlerts(n Notifier, log *zap.Logger) *Alerts {
	return &Alerts{Notifier: n, Logger: log, Timeout: 10 * time.Second}
}

var _ history.TransitionSink = (*Alerts)(nil)

func (a *Alerts) Transition(ctx context.Context, t history.Transition) {
	e := Event{Site: t.Site, From: t.From, To: t.To, Timestamp: t.At}
	if a.Name != nil {
		e.Name = a.Name(t.Site)
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.Timeout)
		defer cancel()
		if err := a.Notifier.Notify(sctx, e); err != nil {
			a.Logger.Warn("notify_failed", zap.String("site", e.Site), zap.String("to", string(e.To)), zap.Error(err))
			return
		}
		a.Logger.Info("notify_sent", zap.String("site", e.Site), zap.String("to", string(e.To)))
	}()
}

// Wait blocks until in-flight deliveries finish.
func (a *Alerts) Wait() { a.wg.Wait() }
