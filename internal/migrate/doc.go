// Package migrate implements the migration reconciliation engine.
//
// The engine reconciles a directory of versioned .sql files against the
// history recorded in a backend's control table, applying only what is
// missing while detecting drift in what was already applied.
//
// ARCHITECTURE:
//
// Sequential Reconciliation:
// Migrations are assumed to have ordering dependencies (a later script may
// reference an object created by an earlier one), so files are always
// applied one at a time, in ascending name order, never in parallel. The
// engine performs no internal concurrency.
//
// Reconciliation Flow:
//  1. EnsureControlTable creates the control table if absent (idempotent)
//  2. FetchAppliedMigrations returns the recorded history, ordered by name
//  3. The catalog lists on-disk .sql files, ordered by name
//  4. The applied prefix is validated: recorded checksums must match the
//     current file content, or the run fails
//  5. The remaining suffix is applied in order, each file as a single
//     atomic unit (script execution + control-table insert)
//
// INVARIANTS:
//   - The applied history is a strict prefix of the on-disk sequence under
//     byte-wise lexicographic name ordering
//   - A checksum mismatch in the validated prefix is always fatal: it means
//     an already-executed script was edited after the fact
//   - Every error aborts the run; nothing is retried internally
//
// The engine depends only on the Backend contract, never on a concrete
// database driver. Concurrent reconciliation processes against the same
// backend are not coordinated here; that is a documented limitation, not a
// supported mode.
package migrate
