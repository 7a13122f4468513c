package analytics

import (
	"context"
	"time"

	"github.com/aurawell/aurawell-web/internal/models"
)

// DataSource is the read-only capability the engine aggregates over.
// Implementations query the persisted event store (internal/db in
// production, an in-memory fake in tests). A failed query must wrap
// ErrDataUnavailable; the engine never synthesizes partial aggregates.
type DataSource interface {
	// QueryEvents returns all events whose timestamp falls in
	// [window.Start, window.End) and whose owning user matches the filter.
	QueryEvents(ctx context.Context, window Window, filter Filter) ([]models.MoodEvent, error)

	// QueryUsers returns users matching the company/department filter.
	QueryUsers(ctx context.Context, filter Filter) ([]models.User, error)

	// QueryDepartments returns all departments across companies.
	QueryDepartments(ctx context.Context) ([]models.Department, error)

	// CountDistinctCompanies returns the number of distinct companies that
	// had at least one user created before the given instant.
	CountDistinctCompanies(ctx context.Context, before time.Time) (int, error)
}
