// Package migrations provides embedded SQL migration files.
// Production deployments run them at startup via db.RunMigrations;
// tests run the same files against a throwaway container.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
