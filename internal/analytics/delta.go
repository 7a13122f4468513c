package analytics

// PercentChange returns the percentage change from prev to curr.
//
// When prev is zero there is nothing to divide by: any activity counts as
// +100% (new activity signal) and no activity at all is 0%. Dashboards
// render "+100%" for a metric that appeared this period and "0%" for one
// that stayed absent.
func PercentChange(curr, prev float64) float64 {
	if prev == 0 {
		if curr > 0 {
			return 100
		}
		return 0
	}
	return (curr - prev) / prev * 100
}

// CompareAggregates computes field-wise percentage changes between two
// aggregates. Pure; no side effects.
func CompareAggregates(curr, prev Aggregate) DeltaSet {
	return DeltaSet{
		Users:    PercentChange(float64(curr.TotalUsers), float64(prev.TotalUsers)),
		Entries:  PercentChange(float64(curr.TotalEntries), float64(prev.TotalEntries)),
		AvgMood:  PercentChange(curr.AvgMood, prev.AvgMood),
		Positive: PercentChange(float64(curr.PositiveEntries), float64(prev.PositiveEntries)),
		Negative: PercentChange(float64(curr.NegativeEntries), float64(prev.NegativeEntries)),
	}
}
