package db

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/lib/pq"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/aurawell/aurawell-web/internal/analytics"
	"github.com/aurawell/aurawell-web/internal/models"
)

// QueryUsers returns users matching the company/department filter.
// Staff and therapist accounts are excluded, mirroring QueryEvents.
func (db *DB) QueryUsers(ctx context.Context, filter analytics.Filter) ([]models.User, error) {
	ctx, span := tracer.Start(ctx, "db.query_users",
		trace.WithAttributes(
			attribute.String("filter.company_id", filter.CompanyID),
			attribute.String("filter.department_id", filter.DepartmentID),
		))
	defer span.End()

	query := `
		SELECT id, email, name, company_id, department_id, role, created_at
		FROM users
		WHERE role <> ALL($1)
	`
	args := []interface{}{pq.Array(excludedRoles)}

	if filter.CompanyID != "" {
		args = append(args, filter.CompanyID)
		query += " AND company_id = $" + strconv.Itoa(len(args))
	}
	if filter.DepartmentID != "" {
		args = append(args, filter.DepartmentID)
		query += " AND department_id = $" + strconv.Itoa(len(args))
	}
	query += " ORDER BY created_at ASC"

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, unavailable("query users", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		var name, companyID, departmentID sql.NullString
		if err := rows.Scan(&u.ID, &u.Email, &name, &companyID, &departmentID, &u.Role, &u.CreatedAt); err != nil {
			return nil, unavailable("scan user", err)
		}
		if name.Valid {
			u.Name = &name.String
		}
		if companyID.Valid {
			u.CompanyID = &companyID.String
		}
		if departmentID.Valid {
			u.DepartmentID = &departmentID.String
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate users", err)
	}

	return users, nil
}

// CountDistinctCompanies returns how many distinct companies had at least
// one user account created before the given instant.
func (db *DB) CountDistinctCompanies(ctx context.Context, before time.Time) (int, error) {
	ctx, span := tracer.Start(ctx, "db.count_distinct_companies",
		trace.WithAttributes(attribute.String("before", before.Format(time.RFC3339))))
	defer span.End()

	query := `
		SELECT COUNT(DISTINCT company_id)
		FROM users
		WHERE company_id IS NOT NULL
			AND created_at < $1
			AND role <> ALL($2)
	`

	var count int
	if err := db.conn.QueryRowContext(ctx, query, before, pq.Array(excludedRoles)).Scan(&count); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, unavailable("count companies", err)
	}
	return count, nil
}
