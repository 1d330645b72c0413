package history

import (
	"time"

	"github.com/hamed0406/uptimehistory/internal/domain"
)

// RetentionWindow is how long probe records are kept.
const RetentionWindow = 90 * 24 * time.Hour

// Prune returns the records of tl newer than nowMillis-RetentionWindow, in
// their original order. A record exactly on the horizon is dropped.
func Prune(tl domain.Timeline, nowMillis int64) domain.Timeline {
	cutoff := nowMillis - RetentionWindow.Milliseconds()
	out := make(domain.Timeline, 0, len(tl))
	for _, r := range tl {
		if r.Timestamp > cutoff {
			out = append(out, r)
		}
	}
	return out
}
