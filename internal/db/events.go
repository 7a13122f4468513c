package db

import (
	"context"
	"strconv"
	"time"

	"github.com/lib/pq"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/aurawell/aurawell-web/internal/analytics"
	"github.com/aurawell/aurawell-web/internal/models"
)

// excludedRoles are accounts that never count toward mood analytics:
// platform staff and marketplace therapists log entries for testing and
// demos, not wellness tracking.
var excludedRoles = []string{"admin", "therapist"}

// QueryEvents returns all mood events with timestamp in
// [window.Start, window.End) whose owning user matches the filter.
// Company and department scoping joins through users; each clause is
// appended explicitly with its own placeholder so the parameter list and
// the WHERE clause can never drift apart.
func (db *DB) QueryEvents(ctx context.Context, window analytics.Window, filter analytics.Filter) ([]models.MoodEvent, error) {
	ctx, span := tracer.Start(ctx, "db.query_events",
		trace.WithAttributes(
			attribute.String("window.start", window.Start.Format(time.RFC3339)),
			attribute.String("window.end", window.End.Format(time.RFC3339)),
			attribute.String("filter.company_id", filter.CompanyID),
			attribute.String("filter.department_id", filter.DepartmentID),
		))
	defer span.End()

	query := `
		SELECT e.id, e.user_id, e.event_timestamp, e.sentiment_score
		FROM mood_events e
		INNER JOIN users u ON u.id = e.user_id
		WHERE e.event_timestamp >= $1
			AND e.event_timestamp < $2
			AND u.role <> ALL($3)
	`
	args := []interface{}{window.Start, window.End, pq.Array(excludedRoles)}

	if filter.CompanyID != "" {
		args = append(args, filter.CompanyID)
		query += " AND u.company_id = $" + strconv.Itoa(len(args))
	}
	if filter.DepartmentID != "" {
		args = append(args, filter.DepartmentID)
		query += " AND u.department_id = $" + strconv.Itoa(len(args))
	}
	query += " ORDER BY e.event_timestamp ASC"

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, unavailable("query events", err)
	}
	defer rows.Close()

	var events []models.MoodEvent
	for rows.Next() {
		var e models.MoodEvent
		if err := rows.Scan(&e.ID, &e.UserID, &e.Timestamp, &e.SentimentScore); err != nil {
			return nil, unavailable("scan event", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate events", err)
	}

	return events, nil
}
