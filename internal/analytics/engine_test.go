package analytics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aurawell/aurawell-web/internal/models"
)

// fakeSource is an in-memory DataSource. Filtering and window clipping mirror
// the store's query semantics so engine tests exercise the real computation
// paths without a database.
type fakeSource struct {
	users       []models.User
	events      []models.MoodEvent
	departments []models.Department
	companies   map[string]time.Time // company id -> created_at

	err error
}

func (f *fakeSource) matches(u models.User, filter Filter) bool {
	if filter.CompanyID != "" && (u.CompanyID == nil || *u.CompanyID != filter.CompanyID) {
		return false
	}
	if filter.DepartmentID != "" && (u.DepartmentID == nil || *u.DepartmentID != filter.DepartmentID) {
		return false
	}
	return true
}

func (f *fakeSource) QueryEvents(_ context.Context, window Window, filter Filter) ([]models.MoodEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	byID := make(map[string]models.User, len(f.users))
	for _, u := range f.users {
		byID[u.ID] = u
	}
	var out []models.MoodEvent
	for _, e := range f.events {
		if !window.Contains(e.Timestamp) {
			continue
		}
		if !filter.IsZero() {
			u, ok := byID[e.UserID]
			if !ok || !f.matches(u, filter) {
				continue
			}
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeSource) QueryUsers(_ context.Context, filter Filter) ([]models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.User
	for _, u := range f.users {
		if f.matches(u, filter) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeSource) QueryDepartments(_ context.Context) ([]models.Department, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.departments, nil
}

func (f *fakeSource) CountDistinctCompanies(_ context.Context, before time.Time) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	count := 0
	for _, created := range f.companies {
		if created.Before(before) {
			count++
		}
	}
	return count, nil
}

func testEngine(source *fakeSource, now time.Time) *Engine {
	e := NewEngine(source, DefaultAssumptions())
	e.nowFn = func() time.Time { return now }
	return e
}

func TestGetOverview_PeriodOverPeriod(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	source := &fakeSource{}

	for i := 0; i < 10; i++ {
		source.users = append(source.users, models.User{
			ID:        fmt.Sprintf("u%02d", i),
			Email:     fmt.Sprintf("u%02d@corp.test", i),
			CreatedAt: now.AddDate(-1, 0, 0),
		})
	}
	// 8 events inside the current month, none before it.
	scores := []float64{5, 5, 4, 3, 3, 2, 2, 1}
	for i, s := range scores {
		source.events = append(source.events,
			eventAt(fmt.Sprintf("u%02d", i), time.Date(2025, 3, 5, 10, i, 0, 0, time.UTC), s))
	}

	got, err := testEngine(source, now).GetOverview(context.Background(), Filter{}, DateRange{})
	if err != nil {
		t.Fatalf("GetOverview failed: %v", err)
	}

	if got.Current.AvgMood != 3.125 {
		t.Errorf("Current.AvgMood = %v, want 3.125", got.Current.AvgMood)
	}
	if got.Current.PositiveEntries != 3 || got.Current.NegativeEntries != 3 || got.Current.NeutralEntries != 2 {
		t.Errorf("bands = %d/%d/%d, want 3/3/2",
			got.Current.PositiveEntries, got.Current.NegativeEntries, got.Current.NeutralEntries)
	}
	if got.Previous.TotalEntries != 0 {
		t.Errorf("Previous.TotalEntries = %v, want 0", got.Previous.TotalEntries)
	}
	if got.Previous.AvgMood != 3 {
		t.Errorf("Previous.AvgMood = %v, want neutral 3", got.Previous.AvgMood)
	}
	if got.Changes.Entries != 100 {
		t.Errorf("Changes.Entries = %v, want 100", got.Changes.Entries)
	}
	if got.Changes.Users != 0 {
		t.Errorf("Changes.Users = %v, want 0", got.Changes.Users)
	}
}

func TestGetOverview_FilterScopesEvents(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	c1, c2 := "c1", "c2"
	source := &fakeSource{
		users: []models.User{
			{ID: "u1", Email: "u1@corp.test", CompanyID: &c1},
			{ID: "u2", Email: "u2@corp.test", CompanyID: &c2},
		},
		events: []models.MoodEvent{
			eventAt("u1", time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC), 5),
			eventAt("u2", time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC), 1),
		},
	}

	got, err := testEngine(source, now).GetOverview(context.Background(), Filter{CompanyID: "c1"}, DateRange{})
	if err != nil {
		t.Fatalf("GetOverview failed: %v", err)
	}

	if got.Current.TotalEntries != 1 {
		t.Errorf("TotalEntries = %v, want 1 (other company excluded)", got.Current.TotalEntries)
	}
	if got.Current.TotalUsers != 1 {
		t.Errorf("TotalUsers = %v, want 1", got.Current.TotalUsers)
	}
	if got.Current.AvgMood != 5 {
		t.Errorf("AvgMood = %v, want 5", got.Current.AvgMood)
	}
}

func TestGetOverview_SourceFailure(t *testing.T) {
	source := &fakeSource{err: fmt.Errorf("%w: query events", ErrDataUnavailable)}

	_, err := testEngine(source, time.Now()).GetOverview(context.Background(), Filter{}, DateRange{})
	if !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("error = %v, want ErrDataUnavailable", err)
	}
}

func TestGetTimeline_InvalidGroupBy(t *testing.T) {
	_, err := testEngine(&fakeSource{}, time.Now()).GetTimeline(context.Background(), Filter{}, DateRange{}, "decade")
	if !IsValidation(err) {
		t.Errorf("error = %v, want ValidationError", err)
	}
}

func TestGetAlerts_Defaults(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	source := &fakeSource{
		users: []models.User{
			{ID: "u1", Email: "u1@corp.test"},
			{ID: "u2", Email: "u2@corp.test"},
		},
		events: []models.MoodEvent{
			// Inside the trailing 7 days, below threshold.
			eventAt("u1", now.AddDate(0, 0, -2), 2),
			// Below threshold but 10 days old: outside the default window.
			eventAt("u2", now.AddDate(0, 0, -10), 1),
		},
	}

	alerts, err := testEngine(source, now).GetAlerts(context.Background(), Filter{}, 0, 0)
	if err != nil {
		t.Fatalf("GetAlerts failed: %v", err)
	}

	if len(alerts) != 1 {
		t.Fatalf("got %d alerts, want 1", len(alerts))
	}
	if alerts[0].UserID != "u1" {
		t.Errorf("UserID = %s, want u1", alerts[0].UserID)
	}
}

func TestGetEngagement(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	source := &fakeSource{}
	for i := 0; i < 4; i++ {
		source.users = append(source.users, models.User{
			ID: fmt.Sprintf("u%d", i), Email: fmt.Sprintf("u%d@corp.test", i),
		})
	}
	source.events = []models.MoodEvent{
		eventAt("u0", time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC), 4),
		eventAt("u0", time.Date(2025, 3, 11, 8, 0, 0, 0, time.UTC), 4),
		eventAt("u1", time.Date(2025, 3, 12, 8, 0, 0, 0, time.UTC), 3),
	}

	got, err := testEngine(source, now).GetEngagement(context.Background(), Filter{}, DateRange{})
	if err != nil {
		t.Fatalf("GetEngagement failed: %v", err)
	}

	if got.ActiveUsers != 2 {
		t.Errorf("ActiveUsers = %v, want 2", got.ActiveUsers)
	}
	if got.EngagementRate != 50 {
		t.Errorf("EngagementRate = %v, want 50", got.EngagementRate)
	}
	if got.EntriesPerUser != 0.75 {
		t.Errorf("EntriesPerUser = %v, want 0.75", got.EntriesPerUser)
	}
}

func TestGetDepartmentRisks_EndToEnd(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	d1 := "d1"
	source := &fakeSource{
		departments: []models.Department{{ID: "d1", CompanyID: "c1", Name: "Engineering"}},
	}
	for i := 0; i < 20; i++ {
		source.users = append(source.users, models.User{
			ID: fmt.Sprintf("u%02d", i), Email: fmt.Sprintf("u%02d@corp.test", i), DepartmentID: &d1,
		})
	}
	for i := 0; i < 5; i++ {
		source.events = append(source.events,
			eventAt(fmt.Sprintf("u%02d", i), now.AddDate(0, 0, -3), 3.5))
	}

	got, err := testEngine(source, now).GetDepartmentRisks(context.Background())
	if err != nil {
		t.Fatalf("GetDepartmentRisks failed: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("got %d assessments, want 1", len(got))
	}
	if got[0].RiskLevel != RiskHigh {
		t.Errorf("RiskLevel = %v, want high (engagement 25)", got[0].RiskLevel)
	}
	if got[0].EngagementRate != 25 {
		t.Errorf("EngagementRate = %v, want 25", got[0].EngagementRate)
	}
}

func TestGetGrowthSeries(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	source := &fakeSource{
		companies: map[string]time.Time{
			"c1": now.AddDate(-1, 0, 0),
			"c2": now.AddDate(0, -2, -5), // appears in the last two months only
		},
	}
	// Two old users, one who signed up two and a half months ago.
	source.users = []models.User{
		{ID: "u1", Email: "u1@corp.test", CreatedAt: now.AddDate(-1, 0, 0)},
		{ID: "u2", Email: "u2@corp.test", CreatedAt: now.AddDate(-1, 0, 0)},
		{ID: "u3", Email: "u3@corp.test", CreatedAt: now.AddDate(0, -2, -15)},
	}
	source.events = []models.MoodEvent{
		eventAt("u1", now.AddDate(0, 0, -10), 4),
	}

	series, err := testEngine(source, now).GetGrowthSeries(context.Background(), 6)
	if err != nil {
		t.Fatalf("GetGrowthSeries failed: %v", err)
	}

	if len(series) != 6 {
		t.Fatalf("got %d points, want 6", len(series))
	}
	for i := 1; i < len(series); i++ {
		if series[i].Month <= series[i-1].Month {
			t.Fatalf("series out of order at %d: %s after %s", i, series[i].Month, series[i-1].Month)
		}
	}

	first, last := series[0], series[len(series)-1]
	if first.Users != 2 {
		t.Errorf("first.Users = %v, want 2", first.Users)
	}
	if last.Users != 3 {
		t.Errorf("last.Users = %v, want 3", last.Users)
	}
	if last.NewUsers != 0 {
		t.Errorf("last.NewUsers = %v, want 0", last.NewUsers)
	}
	if first.Companies != 1 {
		t.Errorf("first.Companies = %v, want 1", first.Companies)
	}
	if last.Companies != 2 {
		t.Errorf("last.Companies = %v, want 2", last.Companies)
	}
	if last.Revenue != "149.70" {
		t.Errorf("last.Revenue = %s, want 149.70 (3 users at 49.90)", last.Revenue)
	}
	// u1 active out of 3 cumulative users in the newest month.
	if want := 1.0 / 3.0 * 100; last.Engagement != want {
		t.Errorf("last.Engagement = %v, want %v", last.Engagement, want)
	}
	if first.MonthLabel != "Dec" {
		t.Errorf("first.MonthLabel = %s, want Dec", first.MonthLabel)
	}
	if first.Month != "2024-12" {
		t.Errorf("first.Month = %s, want 2024-12", first.Month)
	}
}

func TestGetGrowthSeries_MonthsBounds(t *testing.T) {
	_, err := testEngine(&fakeSource{}, time.Now()).GetGrowthSeries(context.Background(), 37)
	if !IsValidation(err) {
		t.Errorf("error = %v, want ValidationError for months > 36", err)
	}
}

func TestGetSaasMetrics_UsesTrailingWindow(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	source := &fakeSource{
		users: []models.User{
			{ID: "u1", Email: "u1@corp.test"},
			{ID: "u2", Email: "u2@corp.test"},
		},
		companies: map[string]time.Time{"c1": now.AddDate(-1, 0, 0)},
		events: []models.MoodEvent{
			eventAt("u1", now.AddDate(0, 0, -5), 4),
			// Outside the trailing 30 days: must not count as active.
			eventAt("u2", now.AddDate(0, 0, -40), 4),
		},
	}

	got, err := testEngine(source, now).GetSaasMetrics(context.Background(), 0)
	if err != nil {
		t.Fatalf("GetSaasMetrics failed: %v", err)
	}

	if got.ActiveUsers != 1 {
		t.Errorf("ActiveUsers = %v, want 1", got.ActiveUsers)
	}
	if got.MRRProxy != "99.80" {
		t.Errorf("MRRProxy = %s, want 99.80", got.MRRProxy)
	}
	if got.EngagementRate != 50 {
		t.Errorf("EngagementRate = %v, want 50", got.EngagementRate)
	}
}

func TestGetWellnessMetrics_SourceFailure(t *testing.T) {
	source := &fakeSource{err: fmt.Errorf("%w: count companies", ErrDataUnavailable)}

	_, err := testEngine(source, time.Now()).GetWellnessMetrics(context.Background(), 30)
	if !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("error = %v, want ErrDataUnavailable", err)
	}
}
