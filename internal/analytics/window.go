package analytics

import "time"

// ResolveWindow turns an optional caller-supplied date range into a current
// window plus the immediately preceding window of equal duration.
//
// Defaults: start = first day of the current calendar month (UTC),
// end = now. The previous window ends exactly where the current one starts;
// it is an adjacent equal-length interval, not a calendar-aligned month.
func ResolveWindow(r DateRange, now time.Time) (WindowPair, error) {
	now = now.UTC()

	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if r.Start != nil {
		start = r.Start.UTC()
	}

	end := now
	if r.End != nil {
		end = r.End.UTC()
	}

	if !end.After(start) {
		return WindowPair{}, &ValidationError{Field: "date_range", Reason: "end must be after start"}
	}

	dur := end.Sub(start)
	return WindowPair{
		Current:  Window{Start: start, End: end},
		Previous: Window{Start: start.Add(-dur), End: start},
	}, nil
}

// trailingWindow returns the window covering the last n days ending at now.
func trailingWindow(now time.Time, days int) Window {
	now = now.UTC()
	return Window{Start: now.AddDate(0, 0, -days), End: now}
}

// monthWindow returns the one-month window [now-(i+1) months, now-i months).
func monthWindow(now time.Time, monthsAgo int) Window {
	now = now.UTC()
	return Window{
		Start: now.AddDate(0, -(monthsAgo + 1), 0),
		End:   now.AddDate(0, -monthsAgo, 0),
	}
}
