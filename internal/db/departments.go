package db

import (
	"context"

	"go.opentelemetry.io/otel/codes"

	"github.com/aurawell/aurawell-web/internal/models"
)

// QueryDepartments returns all departments across companies.
func (db *DB) QueryDepartments(ctx context.Context) ([]models.Department, error) {
	ctx, span := tracer.Start(ctx, "db.query_departments")
	defer span.End()

	query := `SELECT id, company_id, name FROM departments ORDER BY company_id, name`

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, unavailable("query departments", err)
	}
	defer rows.Close()

	var departments []models.Department
	for rows.Next() {
		var d models.Department
		if err := rows.Scan(&d.ID, &d.CompanyID, &d.Name); err != nil {
			return nil, unavailable("scan department", err)
		}
		departments = append(departments, d)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate departments", err)
	}

	return departments, nil
}
