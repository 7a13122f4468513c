package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/aurawell/aurawell-web/internal/models"
)

// bucketKey derives the stable, lexicographically sortable key an event
// falls into for the given granularity. Week buckets are ISO weeks so that
// a year boundary never splits a week into two keys that sort wrong.
func bucketKey(t time.Time, groupBy GroupBy) string {
	t = t.UTC()
	switch groupBy {
	case GroupByHour:
		return t.Format("2006-01-02 15:00")
	case GroupByWeek:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case GroupByMonth:
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}

// buildTimeline buckets events into sub-intervals and returns the series
// ordered by bucket key ascending. Only buckets with at least one event are
// emitted; chart layers zero-fill on their side.
func buildTimeline(events []models.MoodEvent, groupBy GroupBy) []TimeBucket {
	type acc struct {
		count    int
		sum      float64
		positive int
		negative int
	}

	buckets := make(map[string]*acc)
	for _, e := range events {
		key := bucketKey(e.Timestamp, groupBy)
		b := buckets[key]
		if b == nil {
			b = &acc{}
			buckets[key] = b
		}
		score := resolveSentiment(e)
		b.count++
		b.sum += score
		if score >= positiveThreshold {
			b.positive++
		} else if score <= negativeThreshold {
			b.negative++
		}
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	series := make([]TimeBucket, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		series = append(series, TimeBucket{
			BucketKey:     k,
			EntriesCount:  b.count,
			AvgMood:       b.sum / float64(b.count),
			PositiveCount: b.positive,
			NegativeCount: b.negative,
		})
	}
	return series
}

// normalizeGroupBy validates the granularity parameter, defaulting to day.
func normalizeGroupBy(g GroupBy) (GroupBy, error) {
	switch g {
	case "":
		return GroupByDay, nil
	case GroupByHour, GroupByDay, GroupByWeek, GroupByMonth:
		return g, nil
	default:
		return "", &ValidationError{Field: "group_by", Reason: "must be one of hour, day, week, month"}
	}
}
