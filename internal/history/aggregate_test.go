package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hamed0406/uptimehistory/internal/domain"
)

const (
	minute = int64(60 * 1000)
	hour   = 60 * minute
	day    = 24 * hour
)

var (
	up   = domain.StatusAvailable
	down = domain.StatusUnavailable
	null = domain.SummaryNoData
)

func rec(ts int64, s domain.Status) domain.ProbeRecord {
	return domain.ProbeRecord{Timestamp: ts, Status: s}
}

func TestAggregate_EmptyTimelineIsAllNull(t *testing.T) {
	now := time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC).UnixMilli()
	for _, tl := range []domain.Timeline{nil, {}} {
		got := Aggregate(tl, domain.Hour, BucketCount, now)
		require.Len(t, got, BucketCount)
		for i, s := range got {
			require.Equal(t, null, s, "bucket %d", i)
		}
	}
}

func TestAggregate_ConcreteScenario(t *testing.T) {
	now := int64(1_000 * day)
	tl := domain.Timeline{
		rec(now-30*minute, up),
		rec(now-90*minute, down),
	}
	got := Aggregate(tl, domain.Hour, 2, now)
	require.Equal(t, []domain.Summary{domain.SummaryUnavailable, domain.SummaryAvailable}, got)
}

func TestAggregate_SlotEndBelongsToBucket(t *testing.T) {
	now := int64(1_000 * day)
	const count = 5
	for i := int64(0); i < count; i++ {
		slotEnd := now - i*hour
		got := Aggregate(domain.Timeline{rec(slotEnd, up)}, domain.Hour, count, now)

		want := make([]domain.Summary, count)
		want[count-1-i] = domain.SummaryAvailable
		require.Equal(t, want, got, "record at slotEnd of bucket %d", i)
	}
}

func TestAggregate_SlotStartIsExcluded(t *testing.T) {
	now := int64(1_000 * day)
	// now-hour is slotStart of bucket 0 and slotEnd of bucket 1.
	got := Aggregate(domain.Timeline{rec(now-hour, down)}, domain.Hour, 2, now)
	require.Equal(t, []domain.Summary{domain.SummaryUnavailable, null}, got)

	// One millisecond later falls into bucket 0.
	got = Aggregate(domain.Timeline{rec(now-hour+1, down)}, domain.Hour, 2, now)
	require.Equal(t, []domain.Summary{null, domain.SummaryUnavailable}, got)
}

func TestAggregate_MixedIsPartialRegardlessOfRatioOrOrder(t *testing.T) {
	now := int64(1_000 * day)
	cases := map[string]domain.Timeline{
		"up then down": {rec(now-10*minute, up), rec(now-20*minute, down)},
		"down then up": {rec(now-10*minute, down), rec(now-20*minute, up)},
		"nine to one": func() domain.Timeline {
			var tl domain.Timeline
			for i := int64(1); i <= 9; i++ {
				tl = append(tl, rec(now-i*minute, up))
			}
			return append(tl, rec(now-30*minute, down))
		}(),
		"one to nine": func() domain.Timeline {
			tl := domain.Timeline{rec(now-minute, up)}
			for i := int64(2); i <= 10; i++ {
				tl = append(tl, rec(now-i*minute, down))
			}
			return tl
		}(),
	}
	for name, tl := range cases {
		got := Aggregate(tl, domain.Hour, 1, now)
		require.Equal(t, []domain.Summary{domain.SummaryPartial}, got, name)
	}
}

func TestAggregate_UniformBuckets(t *testing.T) {
	now := int64(1_000 * day)
	allUp := domain.Timeline{rec(now-1, up), rec(now-2, up), rec(now-3, up)}
	allDown := domain.Timeline{rec(now-1, down), rec(now-2, down)}

	require.Equal(t, []domain.Summary{domain.SummaryAvailable}, Aggregate(allUp, domain.Hour, 1, now))
	require.Equal(t, []domain.Summary{domain.SummaryUnavailable}, Aggregate(allDown, domain.Hour, 1, now))
}

func TestAggregate_NullStatusCountsAsUnavailable(t *testing.T) {
	now := int64(1_000 * day)
	require.Equal(t,
		[]domain.Summary{domain.SummaryUnavailable},
		Aggregate(domain.Timeline{rec(now-1, "")}, domain.Hour, 1, now))
	require.Equal(t,
		[]domain.Summary{domain.SummaryPartial},
		Aggregate(domain.Timeline{rec(now-1, ""), rec(now-2, up)}, domain.Hour, 1, now))
}

func TestAggregate_DayGranularity(t *testing.T) {
	now := int64(1_000 * day)
	tl := domain.Timeline{
		rec(now-2*hour, up),    // day 0
		rec(now-23*hour, down), // day 0
		rec(now-day, up),       // day 1 (slotEnd)
		rec(now-3*day-1, down), // day 3
	}
	got := Aggregate(tl, domain.Day, 4, now)
	require.Equal(t, []domain.Summary{
		domain.SummaryUnavailable,
		null,
		domain.SummaryAvailable,
		domain.SummaryPartial,
	}, got)
}

func TestAggregate_IgnoresFutureAndOutOfWindow(t *testing.T) {
	now := int64(1_000 * day)
	tl := domain.Timeline{
		rec(now+1, down),
		rec(now-3*hour, down),
	}
	got := Aggregate(tl, domain.Hour, 3, now)
	require.Equal(t, []domain.Summary{null, null, null}, got)
}

func TestAggregate_LengthIsAlwaysCount(t *testing.T) {
	now := int64(1_000 * day)
	big := make(domain.Timeline, 0, 5000)
	for i := int64(0); i < 5000; i++ {
		s := up
		if i%7 == 0 {
			s = down
		}
		big = append(big, rec(now-i*minute, s))
	}
	for _, tl := range []domain.Timeline{{}, {rec(now, up)}, big} {
		for _, count := range []int{1, 2, 90, 365} {
			require.Len(t, Aggregate(tl, domain.Hour, count, now), count)
			require.Len(t, Aggregate(tl, domain.Day, count, now), count)
		}
	}
	require.Empty(t, Aggregate(big, domain.Hour, 0, now))
	require.Empty(t, Aggregate(big, domain.Hour, -3, now))
}

func TestAggregate_DoesNotMutateTimeline(t *testing.T) {
	now := int64(1_000 * day)
	tl := domain.Timeline{rec(now-1, up), rec(now-2*hour, down)}
	snapshot := append(domain.Timeline(nil), tl...)
	_ = Aggregate(tl, domain.Hour, BucketCount, now)
	require.Equal(t, snapshot, tl)
}

func TestNoData(t *testing.T) {
	require.Len(t, NoData(BucketCount), BucketCount)
	require.Empty(t, NoData(-1))
}
