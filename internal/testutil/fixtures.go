package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

// CreateCompany inserts a company and returns its ID.
func CreateCompany(t *testing.T, env *TestEnvironment, name string) string {
	t.Helper()

	id := uuid.NewString()
	_, err := env.DB.Conn().ExecContext(env.Ctx,
		`INSERT INTO companies (id, name) VALUES ($1, $2)`, id, name)
	if err != nil {
		t.Fatalf("Failed to create company: %v", err)
	}
	return id
}

// CreateDepartment inserts a department and returns its ID.
func CreateDepartment(t *testing.T, env *TestEnvironment, companyID, name string) string {
	t.Helper()

	id := uuid.NewString()
	_, err := env.DB.Conn().ExecContext(env.Ctx,
		`INSERT INTO departments (id, company_id, name) VALUES ($1, $2, $3)`, id, companyID, name)
	if err != nil {
		t.Fatalf("Failed to create department: %v", err)
	}
	return id
}

// UserParams configures CreateUser. Zero-value fields get sensible defaults;
// nil CompanyID/DepartmentID creates an individual account.
type UserParams struct {
	Email        string
	Name         string
	CompanyID    *string
	DepartmentID *string
	Role         string
	CreatedAt    time.Time
}

// CreateUser inserts a user and returns its ID.
func CreateUser(t *testing.T, env *TestEnvironment, p UserParams) string {
	t.Helper()

	id := uuid.NewString()
	if p.Email == "" {
		p.Email = id + "@test.local"
	}
	if p.Role == "" {
		p.Role = "member"
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	_, err := env.DB.Conn().ExecContext(env.Ctx, `
		INSERT INTO users (id, email, name, company_id, department_id, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, p.Email, p.Name, p.CompanyID, p.DepartmentID, p.Role, p.CreatedAt)
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return id
}

// CreateMoodEvent inserts a mood event. score may be nil for an unrated entry.
func CreateMoodEvent(t *testing.T, env *TestEnvironment, userID string, ts time.Time, score *float64) string {
	t.Helper()

	id := uuid.NewString()
	_, err := env.DB.Conn().ExecContext(env.Ctx, `
		INSERT INTO mood_events (id, user_id, event_timestamp, sentiment_score)
		VALUES ($1, $2, $3, $4)`,
		id, userID, ts, score)
	if err != nil {
		t.Fatalf("Failed to create mood event: %v", err)
	}
	return id
}

// Score returns a pointer to a sentiment score, for fixture readability.
func Score(v float64) *float64 {
	return &v
}
