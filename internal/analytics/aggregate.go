package analytics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/aurawell/aurawell-web/internal/models"
)

// aggregateEvents folds a slice of events into an Aggregate. The neutral
// default is applied once per event via resolveSentiment, then every score
// lands in exactly one of the three bands, so the band counts always sum to
// TotalEntries. An empty slice yields AvgMood == 3, never NaN.
func aggregateEvents(events []models.MoodEvent, totalUsers int) Aggregate {
	agg := Aggregate{TotalUsers: totalUsers, AvgMood: neutralScore}
	if len(events) == 0 {
		return agg
	}

	var sum float64
	for _, e := range events {
		score := resolveSentiment(e)
		sum += score
		switch {
		case score >= positiveThreshold:
			agg.PositiveEntries++
		case score <= negativeThreshold:
			agg.NegativeEntries++
		default:
			agg.NeutralEntries++
		}
	}

	agg.TotalEntries = len(events)
	agg.AvgMood = sum / float64(len(events))
	return agg
}

// aggregateWindow queries the store for one window and folds the result.
func (e *Engine) aggregateWindow(ctx context.Context, window Window, filter Filter) (Aggregate, error) {
	ctx, span := tracer.Start(ctx, "analytics.aggregate_window",
		trace.WithAttributes(
			attribute.String("window.start", window.Start.Format("2006-01-02T15:04:05Z")),
			attribute.String("window.end", window.End.Format("2006-01-02T15:04:05Z")),
		))
	defer span.End()

	events, err := e.source.QueryEvents(ctx, window, filter)
	if err != nil {
		return Aggregate{}, err
	}

	users, err := e.source.QueryUsers(ctx, filter)
	if err != nil {
		return Aggregate{}, err
	}

	return aggregateEvents(events, len(users)), nil
}

// activeUserCount returns the number of distinct users with at least one
// event in the slice.
func activeUserCount(events []models.MoodEvent) int {
	seen := make(map[string]struct{}, len(events))
	for _, ev := range events {
		seen[ev.UserID] = struct{}{}
	}
	return len(seen)
}
