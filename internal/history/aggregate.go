package history

import "github.com/hamed0406/uptimehistory/internal/domain"

// BucketCount is the number of buckets returned by history queries.
const BucketCount = 90

// Aggregate summarizes tl into count buckets of width g ending at nowMillis.
// Bucket i covers (now-(i+1)*W, now-i*W]; the result is ordered oldest first,
// so the last element is the bucket ending at now. Records in the future or
// older than the window are ignored. tl is not modified.
func Aggregate(tl domain.Timeline, g domain.Granularity, count int, nowMillis int64) []domain.Summary {
	if count <= 0 {
		return []domain.Summary{}
	}
	w := g.Width()

	up := make([]int, count)
	down := make([]int, count)
	for _, r := range tl {
		age := nowMillis - r.Timestamp
		if age < 0 {
			continue
		}
		// age in [i*W, (i+1)*W) <=> timestamp in (slotStart, slotEnd] of bucket i.
		i := age / w
		if i >= int64(count) {
			continue
		}
		if r.Status.Available() {
			up[i]++
		} else {
			down[i]++
		}
	}

	out := make([]domain.Summary, count)
	for i := 0; i < count; i++ {
		out[count-1-i] = classify(up[i], down[i])
	}
	return out
}

// classify marks any mix of outcomes as partial, whatever the ratio.
func classify(up, down int) domain.Summary {
	switch {
	case up == 0 && down == 0:
		return domain.SummaryNoData
	case down == 0:
		return domain.SummaryAvailable
	case up == 0:
		return domain.SummaryUnavailable
	default:
		return domain.SummaryPartial
	}
}

// NoData returns count empty buckets, the shape served when no timeline can
// be read.
func NoData(count int) []domain.Summary {
	if count < 0 {
		count = 0
	}
	return make([]domain.Summary, count)
}
