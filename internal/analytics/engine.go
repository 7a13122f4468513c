// Package analytics is the temporal analytics and risk-scoring engine behind
// the admin and executive dashboards. It turns the stream of sentiment-scored
// diary events into period-over-period comparisons, engagement rates, alert
// lists, department risk classifications, composite business metrics and
// trailing growth series.
//
// Everything here is recomputed synchronously from a bounded historical
// window on each request: no caching, no background jobs, no shared mutable
// state. Independent sub-aggregations within one request fan out
// concurrently and are assembled by key.
package analytics

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/aurawell/aurawell-web/internal/models"
)

var tracer = otel.Tracer("aurawell/analytics")

// Engine computes dashboard analytics over a DataSource.
type Engine struct {
	source      DataSource
	assumptions Assumptions

	// nowFn is overridable in tests; defaults to time.Now.
	nowFn func() time.Time
}

// NewEngine creates an engine over the given source with the given business
// assumptions.
func NewEngine(source DataSource, assumptions Assumptions) *Engine {
	return &Engine{
		source:      source,
		assumptions: assumptions,
		nowFn:       time.Now,
	}
}

func (e *Engine) now() time.Time {
	return e.nowFn().UTC()
}

// GetOverview computes the current and previous window aggregates plus the
// field-wise percentage changes. The two window aggregations are independent
// read-only queries and run in parallel.
func (e *Engine) GetOverview(ctx context.Context, filter Filter, dateRange DateRange) (*OverviewResponse, error) {
	ctx, span := tracer.Start(ctx, "analytics.get_overview",
		trace.WithAttributes(
			attribute.String("filter.company_id", filter.CompanyID),
			attribute.String("filter.department_id", filter.DepartmentID),
		))
	defer span.End()

	pair, err := ResolveWindow(dateRange, e.now())
	if err != nil {
		return nil, err
	}

	var current, previous Aggregate
	var wg sync.WaitGroup
	errChan := make(chan error, 2)

	wg.Add(2)
	go func() {
		defer wg.Done()
		agg, err := e.aggregateWindow(ctx, pair.Current, filter)
		if err != nil {
			errChan <- err
			return
		}
		current = agg
	}()
	go func() {
		defer wg.Done()
		agg, err := e.aggregateWindow(ctx, pair.Previous, filter)
		if err != nil {
			errChan <- err
			return
		}
		previous = agg
	}()

	wg.Wait()
	close(errChan)
	for err := range errChan {
		if err != nil {
			return nil, err
		}
	}

	return &OverviewResponse{
		ComputedAt: e.now(),
		Window:     pair,
		Current:    current,
		Previous:   previous,
		Changes:    CompareAggregates(current, previous),
	}, nil
}

// GetTimeline computes the time-bucketed series for the current window.
func (e *Engine) GetTimeline(ctx context.Context, filter Filter, dateRange DateRange, groupBy GroupBy) (*TimelineResponse, error) {
	groupBy, err := normalizeGroupBy(groupBy)
	if err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "analytics.get_timeline",
		trace.WithAttributes(attribute.String("group_by", string(groupBy))))
	defer span.End()

	pair, err := ResolveWindow(dateRange, e.now())
	if err != nil {
		return nil, err
	}

	events, err := e.source.QueryEvents(ctx, pair.Current, filter)
	if err != nil {
		return nil, err
	}

	return &TimelineResponse{
		ComputedAt: e.now(),
		Window:     pair.Current,
		GroupBy:    groupBy,
		Buckets:    buildTimeline(events, groupBy),
	}, nil
}

// GetAlerts flags users whose trailing average mood fell below threshold.
// days defaults to 7 and threshold to 2.5 when zero.
func (e *Engine) GetAlerts(ctx context.Context, filter Filter, threshold float64, days int) ([]UserAlert, error) {
	if days <= 0 {
		days = DefaultAlertDays
	}
	if threshold <= 0 {
		threshold = DefaultAlertThreshold
	}

	ctx, span := tracer.Start(ctx, "analytics.get_alerts",
		trace.WithAttributes(
			attribute.Int("days", days),
			attribute.Float64("threshold", threshold),
		))
	defer span.End()

	window := trailingWindow(e.now(), days)

	events, err := e.source.QueryEvents(ctx, window, filter)
	if err != nil {
		return nil, err
	}
	users, err := e.source.QueryUsers(ctx, filter)
	if err != nil {
		return nil, err
	}

	return buildUserAlerts(events, users, threshold), nil
}

// GetEngagement summarizes participation for the resolved window.
func (e *Engine) GetEngagement(ctx context.Context, filter Filter, dateRange DateRange) (*EngagementSummary, error) {
	ctx, span := tracer.Start(ctx, "analytics.get_engagement")
	defer span.End()

	pair, err := ResolveWindow(dateRange, e.now())
	if err != nil {
		return nil, err
	}

	events, err := e.source.QueryEvents(ctx, pair.Current, filter)
	if err != nil {
		return nil, err
	}
	users, err := e.source.QueryUsers(ctx, filter)
	if err != nil {
		return nil, err
	}

	active := activeUserCount(events)
	summary := &EngagementSummary{
		ComputedAt:   e.now(),
		Window:       pair.Current,
		TotalUsers:   len(users),
		ActiveUsers:  active,
		TotalEntries: len(events),
	}
	if len(users) > 0 {
		summary.EngagementRate = float64(active) / float64(len(users)) * 100
		summary.EntriesPerUser = float64(len(events)) / float64(len(users))
	}
	return summary, nil
}

// GetDepartmentRisks classifies every department against the fixed trailing
// 30/30 split and returns the medium and high risk ones, worst first. The
// four store queries are independent and run in parallel.
func (e *Engine) GetDepartmentRisks(ctx context.Context) ([]RiskAssessment, error) {
	ctx, span := tracer.Start(ctx, "analytics.get_department_risks")
	defer span.End()

	now := e.now()
	currentWindow := trailingWindow(now, deptRiskDays)
	previousWindow := Window{
		Start: currentWindow.Start.AddDate(0, 0, -deptRiskDays),
		End:   currentWindow.Start,
	}

	var (
		departments []models.Department
		users       []models.User
		current     []models.MoodEvent
		previous    []models.MoodEvent
	)

	var wg sync.WaitGroup
	errChan := make(chan error, 4)

	runQuery := func(fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				errChan <- err
			}
		}()
	}

	runQuery(func() error {
		var err error
		departments, err = e.source.QueryDepartments(ctx)
		return err
	})
	runQuery(func() error {
		var err error
		users, err = e.source.QueryUsers(ctx, Filter{})
		return err
	})
	runQuery(func() error {
		var err error
		current, err = e.source.QueryEvents(ctx, currentWindow, Filter{})
		return err
	})
	runQuery(func() error {
		var err error
		previous, err = e.source.QueryEvents(ctx, previousWindow, Filter{})
		return err
	})

	wg.Wait()
	close(errChan)
	for err := range errChan {
		if err != nil {
			return nil, err
		}
	}

	return classifyDepartments(departments, users, current, previous), nil
}

// GetSaasMetrics computes the business composite metrics over the trailing
// days window (default 30).
func (e *Engine) GetSaasMetrics(ctx context.Context, days int) (*CompositeMetrics, error) {
	if days <= 0 {
		days = deptRiskDays
	}

	ctx, span := tracer.Start(ctx, "analytics.get_saas_metrics",
		trace.WithAttributes(attribute.Int("days", days)))
	defer span.End()

	now := e.now()
	in, _, err := e.compositeInput(ctx, trailingWindow(now, days))
	if err != nil {
		return nil, err
	}

	metrics := ComputeSaasMetrics(in, e.assumptions, now)
	return &metrics, nil
}

// GetWellnessMetrics computes the wellness-program ROI over the trailing
// days window (default 30).
func (e *Engine) GetWellnessMetrics(ctx context.Context, days int) (*WellnessComposite, error) {
	if days <= 0 {
		days = deptRiskDays
	}

	ctx, span := tracer.Start(ctx, "analytics.get_wellness_metrics",
		trace.WithAttributes(attribute.Int("days", days)))
	defer span.End()

	now := e.now()
	in, _, err := e.compositeInput(ctx, trailingWindow(now, days))
	if err != nil {
		return nil, err
	}

	roi := ComputeWellnessROI(in, e.assumptions, now)
	return &roi, nil
}

// compositeInput gathers the platform-wide snapshot the composite
// calculators consume. The three store queries run in parallel.
func (e *Engine) compositeInput(ctx context.Context, window Window) (CompositeInput, Aggregate, error) {
	var (
		events    []models.MoodEvent
		users     []models.User
		companies int
	)

	var wg sync.WaitGroup
	errChan := make(chan error, 3)

	wg.Add(3)
	go func() {
		defer wg.Done()
		var err error
		events, err = e.source.QueryEvents(ctx, window, Filter{})
		if err != nil {
			errChan <- err
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		users, err = e.source.QueryUsers(ctx, Filter{})
		if err != nil {
			errChan <- err
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		companies, err = e.source.CountDistinctCompanies(ctx, window.End)
		if err != nil {
			errChan <- err
		}
	}()

	wg.Wait()
	close(errChan)
	for err := range errChan {
		if err != nil {
			return CompositeInput{}, Aggregate{}, err
		}
	}

	agg := aggregateEvents(events, len(users))
	return CompositeInput{
		TotalUsers:  len(users),
		ActiveUsers: activeUserCount(events),
		Companies:   companies,
		AvgMood:     agg.AvgMood,
	}, agg, nil
}
