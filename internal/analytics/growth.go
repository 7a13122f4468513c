package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/aurawell/aurawell-web/internal/models"
)

// DefaultGrowthMonths is the trailing month count for the growth chart.
const DefaultGrowthMonths = 6

// maxGrowthMonths bounds the per-month query fan-out.
const maxGrowthMonths = 36

// GetGrowthSeries builds the trailing per-month growth series, oldest month
// first. Each month is an independent read-only aggregation, so the
// per-month event queries run concurrently and results are assembled by
// index, not arrival order.
func (e *Engine) GetGrowthSeries(ctx context.Context, months int) ([]GrowthPoint, error) {
	if months <= 0 {
		months = DefaultGrowthMonths
	}
	if months > maxGrowthMonths {
		return nil, &ValidationError{Field: "months", Reason: "must be at most 36"}
	}

	ctx, span := tracer.Start(ctx, "analytics.get_growth_series",
		trace.WithAttributes(attribute.Int("months", months)))
	defer span.End()

	now := e.now()

	users, err := e.source.QueryUsers(ctx, Filter{})
	if err != nil {
		return nil, err
	}

	type monthData struct {
		events    []models.MoodEvent
		companies int
	}

	data := make([]monthData, months)
	var wg sync.WaitGroup
	errChan := make(chan error, months*2)

	for i := 0; i < months; i++ {
		window := monthWindow(now, months-1-i)

		wg.Add(2)
		go func(idx int, w Window) {
			defer wg.Done()
			events, err := e.source.QueryEvents(ctx, w, Filter{})
			if err != nil {
				errChan <- err
				return
			}
			data[idx].events = events
		}(i, window)

		go func(idx int, w Window) {
			defer wg.Done()
			count, err := e.source.CountDistinctCompanies(ctx, w.End)
			if err != nil {
				errChan <- err
				return
			}
			data[idx].companies = count
		}(i, window)
	}

	wg.Wait()
	close(errChan)
	for err := range errChan {
		if err != nil {
			return nil, err
		}
	}

	series := make([]GrowthPoint, 0, months)
	for i := 0; i < months; i++ {
		window := monthWindow(now, months-1-i)

		newUsers := 0
		cumulative := 0
		for _, u := range users {
			if u.CreatedAt.Before(window.End) {
				cumulative++
				if !u.CreatedAt.Before(window.Start) {
					newUsers++
				}
			}
		}

		engagement := 0.0
		if cumulative > 0 {
			engagement = float64(activeUserCount(data[i].events)) / float64(cumulative) * 100
		}

		revenue := e.assumptions.PricePerUser.Mul(decimal.NewFromInt(int64(cumulative)))

		series = append(series, GrowthPoint{
			MonthLabel: monthLabel(window.Start),
			Month:      window.Start.Format("2006-01"),
			NewUsers:   newUsers,
			Users:      cumulative,
			Revenue:    revenue.StringFixed(2),
			Companies:  data[i].companies,
			Engagement: engagement,
		})
	}

	return series, nil
}

// monthLabel formats the short month name with the first letter capitalized,
// matching how the charts have always labeled the x axis.
func monthLabel(t time.Time) string {
	return t.UTC().Format("Jan")
}
