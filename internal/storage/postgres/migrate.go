package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs each DDL statement in order. Statements are expected to be
// idempotent (CREATE TABLE IF NOT EXISTS ...).
func Migrate(ctx context.Context, db *sql.DB, statements ...string) error {
	for i, stmt := range statements {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}
