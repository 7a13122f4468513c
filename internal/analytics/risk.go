package analytics

import (
	"sort"

	"github.com/aurawell/aurawell-web/internal/models"
)

// Alert defaults. Callers may override both per request.
const (
	DefaultAlertDays      = 7
	DefaultAlertThreshold = 2.5

	// maxAlerts caps the alert list at the 50 lowest-scoring users.
	maxAlerts = 50

	// Department risk uses a fixed trailing 30-day window and the 30 days
	// before it. This is intentionally not the adjacent-window rule used by
	// ResolveWindow; the two period definitions are kept separate.
	deptRiskDays = 30

	// trendDeadband is the mood delta below which a department counts as stable.
	trendDeadband = 0.2
)

// Department risk thresholds.
const (
	highMoodCeiling      = 4.0
	highEngagementFloor  = 40.0
	highAlertRatio       = 0.3
	mediumMoodCeiling    = 5.5
	mediumEngagementFloor = 60.0
	mediumAlertRatio     = 0.15
)

// buildUserAlerts groups trailing-window events by user and flags everyone
// whose average resolved mood fell below the threshold. Users with no
// entries in the window never alert. Output is worst-first (ascending
// avgMood) and capped at maxAlerts.
func buildUserAlerts(events []models.MoodEvent, users []models.User, threshold float64) []UserAlert {
	type acc struct {
		sum   float64
		count int
	}

	byUser := make(map[string]*acc)
	for _, e := range events {
		a := byUser[e.UserID]
		if a == nil {
			a = &acc{}
			byUser[e.UserID] = a
		}
		a.sum += resolveSentiment(e)
		a.count++
	}

	userByID := make(map[string]models.User, len(users))
	for _, u := range users {
		userByID[u.ID] = u
	}

	alerts := []UserAlert{}
	for id, a := range byUser {
		avg := a.sum / float64(a.count)
		if avg >= threshold {
			continue
		}
		severity := RiskMedium
		if avg <= negativeThreshold {
			severity = RiskHigh
		}
		alert := UserAlert{
			UserID:   id,
			AvgMood:  avg,
			Entries:  a.count,
			Severity: severity,
		}
		if u, ok := userByID[id]; ok {
			alert.Email = u.Email
			if u.Name != nil {
				alert.Name = *u.Name
			}
		}
		alerts = append(alerts, alert)
	}

	sort.Slice(alerts, func(i, j int) bool {
		if alerts[i].AvgMood != alerts[j].AvgMood {
			return alerts[i].AvgMood < alerts[j].AvgMood
		}
		return alerts[i].UserID < alerts[j].UserID
	})

	if len(alerts) > maxAlerts {
		alerts = alerts[:maxAlerts]
	}
	return alerts
}

// deptStats is the per-department accumulator for risk classification.
type deptStats struct {
	totalUsers  int
	activeUsers map[string]struct{}
	moodSum     float64
	moodCount   int
	prevSum     float64
	prevCount   int
	alertCount  int
}

// classifyDepartments computes a risk assessment per department from the
// trailing 30-day window (current) and the 30 days before it (previous).
//
// Departments with no users are excluded outright: every rate below divides
// by totalUsers. Low-risk departments are classified but filtered from the
// result; the dashboard only lists departments needing attention.
func classifyDepartments(
	departments []models.Department,
	users []models.User,
	current, previous []models.MoodEvent,
) []RiskAssessment {
	stats := make(map[string]*deptStats, len(departments))
	for _, d := range departments {
		stats[d.ID] = &deptStats{activeUsers: make(map[string]struct{})}
	}

	deptByUser := make(map[string]string, len(users))
	for _, u := range users {
		if u.DepartmentID == nil {
			continue
		}
		s, ok := stats[*u.DepartmentID]
		if !ok {
			continue
		}
		s.totalUsers++
		deptByUser[u.ID] = *u.DepartmentID
	}

	for _, e := range current {
		deptID, ok := deptByUser[e.UserID]
		if !ok {
			continue
		}
		s := stats[deptID]
		score := resolveSentiment(e)
		s.moodSum += score
		s.moodCount++
		s.activeUsers[e.UserID] = struct{}{}
		if score < neutralScore {
			s.alertCount++
		}
	}

	for _, e := range previous {
		deptID, ok := deptByUser[e.UserID]
		if !ok {
			continue
		}
		s := stats[deptID]
		s.prevSum += resolveSentiment(e)
		s.prevCount++
	}

	assessments := []RiskAssessment{}
	for _, d := range departments {
		s := stats[d.ID]
		if s.totalUsers == 0 {
			continue
		}

		avgMood := neutralScore
		if s.moodCount > 0 {
			avgMood = s.moodSum / float64(s.moodCount)
		}
		prevAvgMood := neutralScore
		if s.prevCount > 0 {
			prevAvgMood = s.prevSum / float64(s.prevCount)
		}
		engagement := float64(len(s.activeUsers)) / float64(s.totalUsers) * 100

		assessments = append(assessments, RiskAssessment{
			DepartmentID:   d.ID,
			DepartmentName: d.Name,
			CompanyID:      d.CompanyID,
			TotalUsers:     s.totalUsers,
			AvgMood:        avgMood,
			EngagementRate: engagement,
			AlertCount:     s.alertCount,
			RiskLevel:      classifyRisk(avgMood, engagement, s.alertCount, s.totalUsers),
			Trend:          classifyTrend(avgMood, prevAvgMood),
		})
	}

	// Worst risk tier first; within a tier, worse mood first.
	sort.Slice(assessments, func(i, j int) bool {
		ri, rj := assessments[i].RiskLevel.rank(), assessments[j].RiskLevel.rank()
		if ri != rj {
			return ri > rj
		}
		if assessments[i].AvgMood != assessments[j].AvgMood {
			return assessments[i].AvgMood < assessments[j].AvgMood
		}
		return assessments[i].DepartmentID < assessments[j].DepartmentID
	})

	// Only medium and high are reported.
	filtered := assessments[:0]
	for _, a := range assessments {
		if a.RiskLevel != RiskLow {
			filtered = append(filtered, a)
		}
	}
	return filtered
}

// classifyRisk applies the fixed threshold ladder.
func classifyRisk(avgMood, engagement float64, alertCount, totalUsers int) RiskLevel {
	alerts := float64(alertCount)
	total := float64(totalUsers)
	switch {
	case avgMood < highMoodCeiling || engagement < highEngagementFloor || alerts > highAlertRatio*total:
		return RiskHigh
	case avgMood < mediumMoodCeiling || engagement < mediumEngagementFloor || alerts > mediumAlertRatio*total:
		return RiskMedium
	default:
		return RiskLow
	}
}

// classifyTrend compares current and previous average mood against the deadband.
func classifyTrend(avgMood, prevAvgMood float64) Trend {
	diff := avgMood - prevAvgMood
	switch {
	case diff > trendDeadband:
		return TrendUp
	case diff < -trendDeadband:
		return TrendDown
	default:
		return TrendStable
	}
}
