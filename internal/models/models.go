package models

import "time"

// User represents a wellness program participant.
// Users without a company (CompanyID == nil) are individual accounts; they
// are excluded from company-scoped aggregations but counted in unscoped ones.
type User struct {
	ID           string    `json:"id"` // UUID
	Email        string    `json:"email"`
	Name         *string   `json:"name,omitempty"`
	CompanyID    *string   `json:"company_id,omitempty"`
	DepartmentID *string   `json:"department_id,omitempty"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Company represents a corporate customer.
type Company struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Department represents an organizational unit within a company.
type Department struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	Name      string `json:"name"`
}

// MoodEvent is a single diary entry with an optional sentiment score.
// SentimentScore ranges 1-5; nil means the user logged an entry without
// rating their mood. The analytics layer treats missing scores as neutral.
type MoodEvent struct {
	ID             string    `json:"id"` // UUID
	UserID         string    `json:"user_id"`
	Timestamp      time.Time `json:"timestamp"`
	SentimentScore *float64  `json:"sentiment_score,omitempty"`
}
