package analytics

import (
	"time"
)

// =============================================================================
// Request types
// =============================================================================

// Filter restricts an aggregation to a company and optionally a department.
// Zero value means no scoping (platform-wide).
type Filter struct {
	CompanyID    string
	DepartmentID string
}

// IsZero reports whether the filter applies no scoping.
func (f Filter) IsZero() bool {
	return f.CompanyID == "" && f.DepartmentID == ""
}

// DateRange carries an optional caller-supplied date range.
// Nil fields fall back to the resolver defaults.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// GroupBy selects the sub-interval size for time-bucketed aggregation.
type GroupBy string

const (
	GroupByHour  GroupBy = "hour"
	GroupByDay   GroupBy = "day"
	GroupByWeek  GroupBy = "week"
	GroupByMonth GroupBy = "month"
)

// =============================================================================
// Windows
// =============================================================================

// Window is a half-open time interval [Start, End) used to scope an aggregation.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration returns the window length.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Contains reports whether t falls inside the half-open interval.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// WindowPair holds a current window and the immediately preceding window of
// equal duration used for period-over-period comparison.
type WindowPair struct {
	Current  Window `json:"current"`
	Previous Window `json:"previous"`
}

// =============================================================================
// Aggregates
// =============================================================================

// Aggregate holds derived counts and averages over events in one window.
// Never persisted; recomputed per request.
//
// Invariant: TotalEntries == PositiveEntries + NegativeEntries + NeutralEntries.
type Aggregate struct {
	TotalUsers      int     `json:"total_users"`
	TotalEntries    int     `json:"total_entries"`
	AvgMood         float64 `json:"avg_mood"`
	PositiveEntries int     `json:"positive_entries"`
	NegativeEntries int     `json:"negative_entries"`
	NeutralEntries  int     `json:"neutral_entries"`
}

// DeltaSet holds period-over-period percentage changes for an Aggregate.
type DeltaSet struct {
	Users    float64 `json:"users"`
	Entries  float64 `json:"entries"`
	AvgMood  float64 `json:"avg_mood"`
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
}

// OverviewResponse is the period-over-period dashboard summary.
type OverviewResponse struct {
	ComputedAt time.Time  `json:"computed_at"`
	Window     WindowPair `json:"window"`
	Current    Aggregate  `json:"current"`
	Previous   Aggregate  `json:"previous"`
	Changes    DeltaSet   `json:"changes"`
}

// TimeBucket is one point of a time-bucketed series.
type TimeBucket struct {
	BucketKey     string  `json:"bucket_key"` // stable, lexicographically sortable
	EntriesCount  int     `json:"entries_count"`
	AvgMood       float64 `json:"avg_mood"`
	PositiveCount int     `json:"positive_count"`
	NegativeCount int     `json:"negative_count"`
}

// TimelineResponse is an ordered series of time buckets for trend charts.
type TimelineResponse struct {
	ComputedAt time.Time    `json:"computed_at"`
	Window     Window       `json:"window"`
	GroupBy    GroupBy      `json:"group_by"`
	Buckets    []TimeBucket `json:"buckets"`
}

// EngagementSummary reports participation for a window and filter.
type EngagementSummary struct {
	ComputedAt     time.Time `json:"computed_at"`
	Window         Window    `json:"window"`
	TotalUsers     int       `json:"total_users"`
	ActiveUsers    int       `json:"active_users"`
	EngagementRate float64   `json:"engagement_rate"` // percent
	TotalEntries   int       `json:"total_entries"`
	EntriesPerUser float64   `json:"entries_per_user"`
}

// =============================================================================
// Risk types
// =============================================================================

// RiskLevel is a coarse severity classification.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// rank orders risk levels for sorting (high first).
func (r RiskLevel) rank() int {
	switch r {
	case RiskHigh:
		return 3
	case RiskMedium:
		return 2
	default:
		return 1
	}
}

// Trend is the direction of mood change between two adjacent windows.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// UserAlert flags a user whose trailing average mood fell below threshold.
type UserAlert struct {
	UserID   string    `json:"user_id"`
	Name     string    `json:"name,omitempty"`
	Email    string    `json:"email"`
	AvgMood  float64   `json:"avg_mood"`
	Entries  int       `json:"entries"`
	Severity RiskLevel `json:"severity"` // high or medium, never low
}

// RiskAssessment classifies a department's wellness risk.
// Computed fresh per call; never cached or stored.
type RiskAssessment struct {
	DepartmentID   string    `json:"department_id"`
	DepartmentName string    `json:"department_name"`
	CompanyID      string    `json:"company_id"`
	TotalUsers     int       `json:"total_users"`
	AvgMood        float64   `json:"avg_mood"`
	EngagementRate float64   `json:"engagement_rate"`
	AlertCount     int       `json:"alert_count"`
	RiskLevel      RiskLevel `json:"risk_level"`
	Trend          Trend     `json:"trend"`
}

// =============================================================================
// Composite metrics
// =============================================================================

// CompositeMetrics holds the business-facing SaaS indicators derived from an
// Aggregate plus the configured Assumptions. Money fields are decimal strings.
type CompositeMetrics struct {
	ComputedAt     time.Time `json:"computed_at"`
	TotalUsers     int       `json:"total_users"`
	ActiveUsers    int       `json:"active_users"`
	MRRProxy       string    `json:"mrr_proxy"`
	ChurnRate      float64   `json:"churn_rate"`
	RetentionRate  float64   `json:"retention_rate"`
	LTV            string    `json:"ltv"`
	LTVCACRatio    float64   `json:"ltv_cac_ratio"`
	EngagementRate float64   `json:"engagement_rate"`
}

// WellnessComposite holds the wellness-program ROI breakdown.
type WellnessComposite struct {
	ComputedAt           time.Time `json:"computed_at"`
	AvgMood              float64   `json:"avg_mood"`
	EngagementRate       float64   `json:"engagement_rate"`
	ProgramCost          string    `json:"program_cost"`
	AbsenteeismSavings   string    `json:"absenteeism_savings"`
	ProductivityGains    string    `json:"productivity_gains"`
	EstimatedBenefits    string    `json:"estimated_benefits"`
	ROIPercent           float64   `json:"roi_percent"`
}

// GrowthPoint is one month of the trailing growth series.
type GrowthPoint struct {
	MonthLabel string  `json:"month_label"` // e.g. "Mar"
	Month      string  `json:"month"`       // YYYY-MM, for stable ordering
	NewUsers   int     `json:"new_users"`
	Users      int     `json:"users"` // cumulative
	Revenue    string  `json:"revenue"`
	Companies  int     `json:"companies"` // cumulative distinct
	Engagement float64 `json:"engagement"`
}
