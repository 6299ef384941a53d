package migrate

import (
	"context"
	_ "embed"
)

// BootstrapSQL creates the control table if it does not already exist.
// Passed to EnsureControlTable on every run.
//
//go:embed bootstrap.sql
var BootstrapSQL string

// Backend is the contract a storage backend must provide. The engine
// depends only on these three operations, never on a concrete database
// technology.
//
// The backend owns persistence of the control table and is responsible for
// serializing concurrent writers (e.g. via the unique key on name and a
// transaction per apply). The engine does not implement cross-process
// locking.
type Backend interface {
	// EnsureControlTable idempotently creates the control table if absent
	// by executing bootstrapSQL. Must be safe to call on every run, even
	// when the table already exists with data.
	EnsureControlTable(ctx context.Context, bootstrapSQL string) error

	// FetchAppliedMigrations returns all control table rows ordered by
	// name ascending (byte-wise lexicographic, matching the catalog's
	// ordering so the prefix comparison in Reconcile is valid).
	FetchAppliedMigrations(ctx context.Context) ([]AppliedMigration, error)

	// ApplyMigration executes sqlText against the backend and inserts the
	// (name, checksum) record into the control table as a single atomic
	// unit: if the script fails the insert must not occur, and vice versa.
	// If the process dies mid-operation, no partial record may be visible
	// on recovery.
	ApplyMigration(ctx context.Context, name, sqlText, checksum string) error
}
