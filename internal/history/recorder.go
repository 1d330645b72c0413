package history

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/uptimehistory/internal/domain"
	"github.com/hamed0406/uptimehistory/internal/metrics"
	"github.com/hamed0406/uptimehistory/internal/repo"
)

// Transition describes a change of a site's newest recorded status.
// From is empty when the site had no prior record.
type Transition struct {
	Site string
	From domain.Status
	To   domain.Status
	At   int64 // epoch ms
}

// TransitionSink receives transitions after they have been persisted.
type TransitionSink interface {
	Transition(ctx context.Context, t Transition)
}

// Recorder appends probe outcomes to timelines.
type Recorder struct {
	Logger  *zap.Logger
	Store   repo.TimelineStore // nil disables persistence
	Sink    TransitionSink     // optional
	Timeout time.Duration
}

func NewRecorder(logger *zap.Logger, store repo.TimelineStore) *Recorder {
	return &Recorder{Logger: logger, Store: store, Timeout: DefaultStoreTimeout}
}

// Record prepends {nowMillis, status} to the timeline of site, drops records
// past the retention window and writes the result back. Store calls are
// bounded by Timeout but not by ctx's cancellation. When the read fails the
// write is skipped so stored history is never replaced by a single record.
// Every failure is logged and swallowed.
func (r *Recorder) Record(ctx context.Context, site string, status domain.Status, nowMillis int64) {
	if r.Store == nil {
		r.Logger.Debug("timeline_store_disabled", zap.String("site", site))
		return
	}
	key := domain.Key(site)

	prev, err := loadTimeline(ctx, r.Store, r.Logger, key, r.Timeout)
	if err != nil {
		metrics.TimelineErrors.WithLabelValues("skip").Inc()
		r.Logger.Warn("timeline_write_skipped",
			zap.String("site", site),
			zap.String("status", string(status)),
			zap.Error(err),
		)
		return
	}
	next := Prune(prev.Prepend(domain.ProbeRecord{Timestamp: nowMillis, Status: status}), nowMillis)

	b, err := next.Encode()
	if err != nil {
		metrics.TimelineErrors.WithLabelValues("encode").Inc()
		r.Logger.Error("timeline_encode_error", zap.String("key", key), zap.Error(err))
		return
	}

	wctx, cancel := storeContext(ctx, r.Timeout)
	defer cancel()
	if err := r.Store.Put(wctx, key, b); err != nil {
		metrics.TimelineErrors.WithLabelValues("write").Inc()
		r.Logger.Warn("timeline_write_error", zap.String("key", key), zap.Error(err))
		return
	}
	metrics.TimelineRecords.Observe(float64(len(next)))

	r.Logger.Debug("probe_recorded",
		zap.String("site", site),
		zap.String("status", string(status)),
		zap.Int("records", len(next)),
		zap.Int("pruned", len(prev)+1-len(next)),
	)

	if t, ok := transition(site, prev, status, nowMillis); ok {
		metrics.Transitions.WithLabelValues(string(status)).Inc()
		if r.Sink != nil {
			r.Sink.Transition(ctx, t)
		}
	}
}

// transition compares the newest stored record against the new status. A
// first-ever record only counts when the site starts out unavailable.
func transition(site string, prev domain.Timeline, to domain.Status, at int64) (Transition, bool) {
	if len(prev) == 0 {
		if to.Available() {
			return Transition{}, false
		}
		return Transition{Site: site, To: to, At: at}, true
	}
	newest := prev[0]
	for _, rec := range prev[1:] {
		if rec.Timestamp > newest.Timestamp {
			newest = rec
		}
	}
	if newest.Status == to {
		return Transition{}, false
	}
	return Transition{Site: site, From: newest.Status, To: to, At: at}, true
}
