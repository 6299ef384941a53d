package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/calder/schemasync/internal/migrate"
)

// EnsureControlTable executes the bootstrap statement, creating the
// __migrations table if absent. Idempotent - safe on every run, including
// against databases that already carry history.
func (s *Store) EnsureControlTable(ctx context.Context, bootstrapSQL string) error {
	if _, err := s.db.ExecContext(ctx, bootstrapSQL); err != nil {
		return fmt.Errorf("ensure control table: %w", err)
	}
	return nil
}

// FetchAppliedMigrations returns all control table rows ordered by name
// ascending. SQLite's default BINARY collation makes this the same
// byte-wise ordering the catalog uses, so the engine's prefix comparison
// holds.
//
// Returns an empty slice (not nil) when no migrations have been applied.
func (s *Store) FetchAppliedMigrations(ctx context.Context) ([]migrate.AppliedMigration, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, checksum FROM __migrations ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query applied migrations: %w", err)
	}
	defer rows.Close()

	var applied []migrate.AppliedMigration
	for rows.Next() {
		var m migrate.AppliedMigration
		if err := rows.Scan(&m.Name, &m.Checksum); err != nil {
			return nil, fmt.Errorf("scan applied migration: %w", err)
		}
		applied = append(applied, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applied migrations: %w", err)
	}

	// Return empty slice instead of nil
	if applied == nil {
		applied = []migrate.AppliedMigration{}
	}

	return applied, nil
}

// ApplyMigration executes sqlText and records (name, checksum) in the
// control table as a single transaction. If the script fails, no record is
// written; if the insert fails (e.g. name already recorded), the script's
// effects are rolled back. A crash mid-apply leaves no partial record.
func (s *Store) ApplyMigration(ctx context.Context, name, sqlText, checksum string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("apply migration %s: begin tx: %w", name, err)
	}
	defer tx.Rollback() // No-op if committed

	if _, err := tx.ExecContext(ctx, sqlText); err != nil {
		return fmt.Errorf("apply migration %s: execute script: %w", name, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO __migrations (name, checksum, description, executed_by)
		VALUES (?, ?, ?, ?)
	`,
		name,
		checksum,
		descriptionFor(name),
		s.executedBy,
	)
	if err != nil {
		return fmt.Errorf("apply migration %s: record in control table: %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("apply migration %s: commit: %w", name, err)
	}

	return nil
}

// descriptionFor derives a human-readable description from a migration
// file name: "0001_create_users.sql" becomes "create users".
func descriptionFor(name string) string {
	base := strings.TrimSuffix(name, ".sql")
	parts := strings.Split(base, "_")

	// Drop a leading all-digit sequence prefix
	if len(parts) > 1 && isDigits(parts[0]) {
		parts = parts[1:]
	}

	return strings.Join(parts, " ")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
