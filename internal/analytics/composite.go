package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// Assumptions are the named business constants behind the composite metrics.
// They are configuration, not data: the defaults reproduce the numbers the
// executive dashboard has always shown, and deployments can override any of
// them (see ANALYTICS_* env vars in cmd/server).
type Assumptions struct {
	// PricePerUser is the monthly subscription price per seat.
	PricePerUser decimal.Decimal

	// BaseChurnRate is the assumed monthly churn (percent) at zero engagement.
	BaseChurnRate float64

	// ChurnScaleFactor scales how much engagement reduces churn:
	// churn = max(0, base - activeRatio*scale).
	ChurnScaleFactor float64

	// AssumedCAC is the assumed customer acquisition cost per company.
	AssumedCAC decimal.Decimal

	// ProgramCostPerUser is the monthly wellness program cost per seat.
	ProgramCostPerUser decimal.Decimal

	// AvgMonthlySalary is the assumed average gross salary of a participant.
	AvgMonthlySalary decimal.Decimal

	// AbsenteeismCostShare is the share of salary lost to absenteeism.
	AbsenteeismCostShare float64

	// AbsenteeismReduction is the reduction of that loss attributed to the
	// program when engagement clears the high tier.
	AbsenteeismReduction float64

	// ProductivityGainShare is the productivity increase attributed to the
	// program when engagement clears the high tier.
	ProductivityGainShare float64

	// EngagementTierHigh and EngagementTierLow gate the benefit terms:
	// full effect at/above the high tier, half effect at/above the low tier,
	// none below. A step function, not a continuous ramp.
	EngagementTierHigh float64
	EngagementTierLow  float64
}

// DefaultAssumptions returns the constants the dashboard shipped with.
func DefaultAssumptions() Assumptions {
	return Assumptions{
		PricePerUser:          decimal.NewFromFloat(49.90),
		BaseChurnRate:         5.0,
		ChurnScaleFactor:      3.0,
		AssumedCAC:            decimal.NewFromFloat(150.00),
		ProgramCostPerUser:    decimal.NewFromFloat(30.00),
		AvgMonthlySalary:      decimal.NewFromFloat(4500.00),
		AbsenteeismCostShare:  0.04,
		AbsenteeismReduction:  0.25,
		ProductivityGainShare: 0.05,
		EngagementTierHigh:    70,
		EngagementTierLow:     40,
	}
}

// CompositeInput is the slice of aggregate state the composite calculators
// need. Kept separate from Aggregate so both stay pure and testable.
type CompositeInput struct {
	TotalUsers  int
	ActiveUsers int
	Companies   int
	AvgMood     float64
}

// ComputeSaasMetrics derives the recurring-revenue proxy, churn, retention,
// LTV and LTV/CAC from an input snapshot. Pure function.
func ComputeSaasMetrics(in CompositeInput, a Assumptions, now time.Time) CompositeMetrics {
	mrr := a.PricePerUser.Mul(decimal.NewFromInt(int64(in.TotalUsers)))

	engagement := 0.0
	activeRatio := 0.0
	if in.TotalUsers > 0 {
		activeRatio = float64(in.ActiveUsers) / float64(in.TotalUsers)
		engagement = activeRatio * 100
	}

	churn := a.BaseChurnRate - activeRatio*a.ChurnScaleFactor
	if churn < 0 {
		churn = 0
	}

	avgRevenuePerCompany := decimal.Zero
	if in.Companies > 0 {
		avgRevenuePerCompany = mrr.Div(decimal.NewFromInt(int64(in.Companies)))
	}

	// Monthly churn as a fraction. Zero churn means customers never leave
	// within the model, so LTV caps at one year of revenue instead of
	// dividing by zero.
	var ltv decimal.Decimal
	if churn > 0 {
		ltv = avgRevenuePerCompany.Div(decimal.NewFromFloat(churn / 100))
	} else {
		ltv = avgRevenuePerCompany.Mul(decimal.NewFromInt(12))
	}

	ltvCac := 0.0
	if a.AssumedCAC.IsPositive() {
		ltvCac, _ = ltv.Div(a.AssumedCAC).Float64()
	}

	return CompositeMetrics{
		ComputedAt:     now.UTC(),
		TotalUsers:     in.TotalUsers,
		ActiveUsers:    in.ActiveUsers,
		MRRProxy:       mrr.StringFixed(2),
		ChurnRate:      churn,
		RetentionRate:  100 - churn,
		LTV:            ltv.StringFixed(2),
		LTVCACRatio:    ltvCac,
		EngagementRate: engagement,
	}
}

// ComputeWellnessROI derives the wellness-program ROI breakdown. Both
// benefit terms are gated by the engagement tiers; a program nobody uses
// produces zero benefits, full cost. Pure function.
func ComputeWellnessROI(in CompositeInput, a Assumptions, now time.Time) WellnessComposite {
	engagement := 0.0
	if in.TotalUsers > 0 {
		engagement = float64(in.ActiveUsers) / float64(in.TotalUsers) * 100
	}

	users := decimal.NewFromInt(int64(in.TotalUsers))
	factor := engagementFactor(engagement, a)

	absenteeism := users.
		Mul(a.AvgMonthlySalary).
		Mul(decimal.NewFromFloat(a.AbsenteeismCostShare)).
		Mul(decimal.NewFromFloat(a.AbsenteeismReduction)).
		Mul(factor)

	productivity := users.
		Mul(a.AvgMonthlySalary).
		Mul(decimal.NewFromFloat(a.ProductivityGainShare)).
		Mul(factor)

	benefits := absenteeism.Add(productivity)
	cost := users.Mul(a.ProgramCostPerUser)

	roi := 0.0
	if cost.IsPositive() {
		roi, _ = benefits.Sub(cost).Div(cost).Mul(decimal.NewFromInt(100)).Float64()
	}

	return WellnessComposite{
		ComputedAt:         now.UTC(),
		AvgMood:            in.AvgMood,
		EngagementRate:     engagement,
		ProgramCost:        cost.StringFixed(2),
		AbsenteeismSavings: absenteeism.StringFixed(2),
		ProductivityGains:  productivity.StringFixed(2),
		EstimatedBenefits:  benefits.StringFixed(2),
		ROIPercent:         roi,
	}
}

// engagementFactor is the two-tier step gating the benefit terms.
func engagementFactor(engagement float64, a Assumptions) decimal.Decimal {
	switch {
	case engagement >= a.EngagementTierHigh:
		return decimal.NewFromInt(1)
	case engagement >= a.EngagementTierLow:
		return decimal.NewFromFloat(0.5)
	default:
		return decimal.Zero
	}
}
