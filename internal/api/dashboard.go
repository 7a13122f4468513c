package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/aurawell/aurawell-web/internal/analytics"
)

// parseFilter reads the optional company_id/department_id scoping params.
func parseFilter(r *http.Request) analytics.Filter {
	return analytics.Filter{
		CompanyID:    r.URL.Query().Get("company_id"),
		DepartmentID: r.URL.Query().Get("department_id"),
	}
}

// parseDateRange reads optional start_date/end_date params (RFC 3339).
// Absent params stay nil; the engine applies its defaults.
func parseDateRange(r *http.Request) (analytics.DateRange, bool) {
	var dr analytics.DateRange

	if s := r.URL.Query().Get("start_date"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return dr, false
		}
		dr.Start = &t
	}
	if s := r.URL.Query().Get("end_date"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return dr, false
		}
		dr.End = &t
	}
	return dr, true
}

// parseIntParam reads an optional positive integer query param, returning
// fallback when absent. ok is false on malformed input.
func parseIntParam(r *http.Request, name string, fallback int) (value int, ok bool) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func (s *Server) computeCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), QueryTimeout)
}

// handleOverview returns current vs previous window aggregates with
// percentage changes.
//
// Query parameters:
//   - company_id, department_id: optional scoping
//   - start_date, end_date: optional RFC 3339 range; defaults to the current
//     calendar month
func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	dateRange, ok := parseDateRange(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "start_date and end_date must be RFC 3339 timestamps")
		return
	}

	ctx, cancel := s.computeCtx(r)
	defer cancel()

	response, err := s.engine.GetOverview(ctx, parseFilter(r), dateRange)
	if err != nil {
		respondComputeError(w, r, err, "overview")
		return
	}
	respondJSON(w, http.StatusOK, response)
}

// handleTimeline returns the time-bucketed mood series.
//
// Query parameters: company_id, department_id, start_date, end_date, plus
// group_by (hour|day|week|month, default day).
func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	dateRange, ok := parseDateRange(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "start_date and end_date must be RFC 3339 timestamps")
		return
	}
	groupBy := analytics.GroupBy(r.URL.Query().Get("group_by"))

	ctx, cancel := s.computeCtx(r)
	defer cancel()

	response, err := s.engine.GetTimeline(ctx, parseFilter(r), dateRange, groupBy)
	if err != nil {
		respondComputeError(w, r, err, "timeline")
		return
	}
	respondJSON(w, http.StatusOK, response)
}

// handleAlerts returns users whose trailing average mood fell below the
// alert threshold, worst first.
//
// Query parameters: company_id, department_id, days (default 7), threshold
// (default 2.5).
func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	days, ok := parseIntParam(r, "days", 0)
	if !ok {
		respondError(w, http.StatusBadRequest, "days must be a non-negative integer")
		return
	}

	threshold := 0.0
	if ts := r.URL.Query().Get("threshold"); ts != "" {
		t, err := strconv.ParseFloat(ts, 64)
		if err != nil || t < 0 {
			respondError(w, http.StatusBadRequest, "threshold must be a non-negative number")
			return
		}
		threshold = t
	}

	ctx, cancel := s.computeCtx(r)
	defer cancel()

	alerts, err := s.engine.GetAlerts(ctx, parseFilter(r), threshold, days)
	if err != nil {
		respondComputeError(w, r, err, "alerts")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"alerts": alerts,
		"count":  len(alerts),
	})
}

// handleEngagement returns the participation summary for the window.
func (s *Server) handleEngagement(w http.ResponseWriter, r *http.Request) {
	dateRange, ok := parseDateRange(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "start_date and end_date must be RFC 3339 timestamps")
		return
	}

	ctx, cancel := s.computeCtx(r)
	defer cancel()

	summary, err := s.engine.GetEngagement(ctx, parseFilter(r), dateRange)
	if err != nil {
		respondComputeError(w, r, err, "engagement")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// handleDepartmentRisks returns medium and high risk departments, worst
// first, over the fixed trailing 30-day windows.
func (s *Server) handleDepartmentRisks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.computeCtx(r)
	defer cancel()

	risks, err := s.engine.GetDepartmentRisks(ctx)
	if err != nil {
		respondComputeError(w, r, err, "department risks")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"departments": risks,
		"count":       len(risks),
	})
}

// handleGrowth returns the trailing per-month growth series.
//
// Query parameters: months (default 6, max 36).
func (s *Server) handleGrowth(w http.ResponseWriter, r *http.Request) {
	months, ok := parseIntParam(r, "months", 0)
	if !ok {
		respondError(w, http.StatusBadRequest, "months must be a non-negative integer")
		return
	}

	ctx, cancel := s.computeCtx(r)
	defer cancel()

	series, err := s.engine.GetGrowthSeries(ctx, months)
	if err != nil {
		respondComputeError(w, r, err, "growth series")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"series": series,
	})
}

// handleSaasMetrics returns the composite business metrics.
//
// Query parameters: days (default 30).
func (s *Server) handleSaasMetrics(w http.ResponseWriter, r *http.Request) {
	days, ok := parseIntParam(r, "days", 0)
	if !ok {
		respondError(w, http.StatusBadRequest, "days must be a non-negative integer")
		return
	}

	ctx, cancel := s.computeCtx(r)
	defer cancel()

	metrics, err := s.engine.GetSaasMetrics(ctx, days)
	if err != nil {
		respondComputeError(w, r, err, "saas metrics")
		return
	}
	respondJSON(w, http.StatusOK, metrics)
}

// handleWellnessMetrics returns the wellness-program ROI breakdown.
//
// Query parameters: days (default 30).
func (s *Server) handleWellnessMetrics(w http.ResponseWriter, r *http.Request) {
	days, ok := parseIntParam(r, "days", 0)
	if !ok {
		respondError(w, http.StatusBadRequest, "days must be a non-negative integer")
		return
	}

	ctx, cancel := s.computeCtx(r)
	defer cancel()

	metrics, err := s.engine.GetWellnessMetrics(ctx, days)
	if err != nil {
		respondComputeError(w, r, err, "wellness metrics")
		return
	}
	respondJSON(w, http.StatusOK, metrics)
}
