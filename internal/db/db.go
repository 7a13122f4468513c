package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("aurawell/db")

// DB wraps a PostgreSQL database connection.
type DB struct {
	conn *sql.DB
}

// Connect establishes a connection to PostgreSQL.
func Connect(dsn string) (*DB, error) {
	conn, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// The dashboard fan-out issues several read-only queries per request;
	// keep enough idle connections around to serve one burst without churn.
	conn.SetMaxOpenConns(100)
	conn.SetMaxIdleConns(20)
	conn.SetConnMaxLifetime(20 * time.Minute)

	return &DB{conn: conn}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying *sql.DB connection.
// Used by testutil to run migrations and seed fixtures in tests.
func (db *DB) Conn() *sql.DB {
	return db.conn
}
