package history

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/uptimehistory/internal/domain"
	"github.com/hamed0406/uptimehistory/internal/metrics"
	"github.com/hamed0406/uptimehistory/internal/repo"
)

// DefaultStoreTimeout bounds every individual store call.
const DefaultStoreTimeout = 2 * time.Second

// storeContext detaches store calls from the caller's cancellation so that a
// check that used up its own deadline is still persisted. Values such as the
// trace span are kept; only d bounds the call.
func storeContext(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	ctx = context.WithoutCancel(ctx)
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

// loadTimeline reads the timeline under key. Missing keys and undecodable
// payloads come back as an empty timeline with a nil error. A failed read
// returns an empty timeline together with the error, so writers can avoid
// overwriting history they could not see.
func loadTimeline(ctx context.Context, store repo.TimelineStore, log *zap.Logger, key string, timeout time.Duration) (domain.Timeline, error) {
	rctx, cancel := storeContext(ctx, timeout)
	defer cancel()

	raw, ok, err := store.Get(rctx, key)
	if err != nil {
		metrics.TimelineErrors.WithLabelValues("read").Inc()
		log.Warn("timeline_read_error", zap.String("key", key), zap.Error(err))
		return domain.Timeline{}, err
	}
	if !ok {
		return domain.Timeline{}, nil
	}
	tl, err := domain.DecodeTimeline(raw)
	if err != nil {
		metrics.TimelineErrors.WithLabelValues("decode").Inc()
		log.Warn("timeline_decode_error",
			zap.String("key", key),
			zap.Int("bytes", len(raw)),
			zap.Error(err),
		)
	}
	return tl, nil
}
