package analytics

import "github.com/aurawell/aurawell-web/internal/models"

// Sentiment score bands. Scores are 1-5; a missing score is treated as
// neutral so that an unrated diary entry never drags an average down.
const (
	neutralScore      = 3.0
	positiveThreshold = 4.0 // score >= 4 is positive
	negativeThreshold = 2.0 // score <= 2 is negative
)

// resolveSentiment returns the event's score with the neutral default
// applied. This is the single place the nil-as-neutral rule lives; every
// formula downstream works with resolved scores only.
func resolveSentiment(e models.MoodEvent) float64 {
	if e.SentimentScore == nil {
		return neutralScore
	}
	return *e.SentimentScore
}
