package analytics

import (
	"testing"
	"time"

	"github.com/aurawell/aurawell-web/internal/models"
)

func eventWithScore(userID string, score float64) models.MoodEvent {
	return models.MoodEvent{
		UserID:         userID,
		Timestamp:      time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		SentimentScore: &score,
	}
}

func TestAggregateEvents_Empty(t *testing.T) {
	agg := aggregateEvents(nil, 10)

	if agg.AvgMood != 3 {
		t.Errorf("AvgMood = %v, want 3 for empty input", agg.AvgMood)
	}
	if agg.TotalUsers != 10 {
		t.Errorf("TotalUsers = %v, want 10", agg.TotalUsers)
	}
	if agg.TotalEntries != 0 {
		t.Errorf("TotalEntries = %v, want 0", agg.TotalEntries)
	}
}

func TestAggregateEvents_BandsPartitionEntries(t *testing.T) {
	scores := []float64{5, 5, 4, 3, 3, 2, 2, 1}
	events := make([]models.MoodEvent, 0, len(scores))
	for i, s := range scores {
		events = append(events, eventWithScore(string(rune('a'+i)), s))
	}

	agg := aggregateEvents(events, 10)

	if agg.TotalEntries != 8 {
		t.Errorf("TotalEntries = %v, want 8", agg.TotalEntries)
	}
	if agg.AvgMood != 3.125 {
		t.Errorf("AvgMood = %v, want 3.125", agg.AvgMood)
	}
	if agg.PositiveEntries != 3 {
		t.Errorf("PositiveEntries = %v, want 3", agg.PositiveEntries)
	}
	if agg.NegativeEntries != 3 {
		t.Errorf("NegativeEntries = %v, want 3", agg.NegativeEntries)
	}
	if agg.NeutralEntries != 2 {
		t.Errorf("NeutralEntries = %v, want 2", agg.NeutralEntries)
	}
	if sum := agg.PositiveEntries + agg.NegativeEntries + agg.NeutralEntries; sum != agg.TotalEntries {
		t.Errorf("band sum = %v, want TotalEntries %v", sum, agg.TotalEntries)
	}
}

func TestAggregateEvents_NilScoreCountsNeutral(t *testing.T) {
	events := []models.MoodEvent{
		{UserID: "u1", Timestamp: time.Now()},
		eventWithScore("u2", 5),
	}

	agg := aggregateEvents(events, 2)

	if agg.NeutralEntries != 1 {
		t.Errorf("NeutralEntries = %v, want 1 (missing score defaults to neutral)", agg.NeutralEntries)
	}
	if agg.AvgMood != 4 {
		t.Errorf("AvgMood = %v, want 4", agg.AvgMood)
	}
}

func TestActiveUserCount(t *testing.T) {
	events := []models.MoodEvent{
		eventWithScore("u1", 3),
		eventWithScore("u1", 4),
		eventWithScore("u2", 2),
	}

	if got := activeUserCount(events); got != 2 {
		t.Errorf("activeUserCount = %v, want 2", got)
	}
}
