package analytics

import (
	"testing"
	"time"

	"github.com/aurawell/aurawell-web/internal/models"
)

func TestBucketKey(t *testing.T) {
	ts := time.Date(2025, 1, 3, 14, 45, 0, 0, time.UTC)

	tests := []struct {
		groupBy GroupBy
		want    string
	}{
		{GroupByHour, "2025-01-03 14:00"},
		{GroupByDay, "2025-01-03"},
		{GroupByWeek, "2025-W01"},
		{GroupByMonth, "2025-01"},
	}

	for _, tt := range tests {
		if got := bucketKey(ts, tt.groupBy); got != tt.want {
			t.Errorf("bucketKey(%v) = %q, want %q", tt.groupBy, got, tt.want)
		}
	}
}

func TestBucketKey_ISOWeekYearBoundary(t *testing.T) {
	// Dec 29 2025 belongs to ISO week 1 of 2026.
	ts := time.Date(2025, 12, 29, 8, 0, 0, 0, time.UTC)
	if got := bucketKey(ts, GroupByWeek); got != "2026-W01" {
		t.Errorf("bucketKey = %q, want %q", got, "2026-W01")
	}
}

func TestBuildTimeline_OrderedAndAggregated(t *testing.T) {
	events := []models.MoodEvent{
		eventAt("u1", time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC), 5),
		eventAt("u2", time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC), 1),
		eventAt("u3", time.Date(2025, 3, 1, 17, 0, 0, 0, time.UTC), 3),
	}

	series := buildTimeline(events, GroupByDay)

	if len(series) != 2 {
		t.Fatalf("got %d buckets, want 2", len(series))
	}
	if series[0].BucketKey != "2025-03-01" || series[1].BucketKey != "2025-03-02" {
		t.Errorf("bucket order = [%s, %s], want ascending", series[0].BucketKey, series[1].BucketKey)
	}
	first := series[0]
	if first.EntriesCount != 2 {
		t.Errorf("EntriesCount = %v, want 2", first.EntriesCount)
	}
	if first.AvgMood != 2 {
		t.Errorf("AvgMood = %v, want 2", first.AvgMood)
	}
	if first.NegativeCount != 1 || first.PositiveCount != 0 {
		t.Errorf("bands = %d pos / %d neg, want 0 / 1", first.PositiveCount, first.NegativeCount)
	}
}

func TestBuildTimeline_Empty(t *testing.T) {
	series := buildTimeline(nil, GroupByDay)
	if len(series) != 0 {
		t.Errorf("got %d buckets, want 0", len(series))
	}
}

func TestNormalizeGroupBy(t *testing.T) {
	got, err := normalizeGroupBy("")
	if err != nil || got != GroupByDay {
		t.Errorf("normalizeGroupBy(\"\") = %v, %v, want day, nil", got, err)
	}

	if _, err := normalizeGroupBy("fortnight"); !IsValidation(err) {
		t.Errorf("normalizeGroupBy(fortnight) error = %v, want ValidationError", err)
	}
}

func eventAt(userID string, ts time.Time, score float64) models.MoodEvent {
	return models.MoodEvent{UserID: userID, Timestamp: ts, SentimentScore: &score}
}
