// Package store provides the SQLite implementation of the migration
// backend contract.
//
// The store owns the control table (__migrations): an append-only log
// keyed by migration name. Rows are only ever inserted, never updated or
// deleted, and the name primary key rejects a second apply of the same
// migration.
//
// # Atomicity
//
// ApplyMigration wraps the migration script and the control-table insert
// in one transaction: either both are durable or neither is. A process
// killed mid-apply leaves no partial record on recovery.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity in migration scripts
//
// SQLite's default BINARY collation orders TEXT byte-wise, which is the
// same ordering the engine's prefix comparison uses for file names.
package store
