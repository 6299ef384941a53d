package migrate

// MigrationFile is a discovered migration candidate. Constructed fresh from
// disk on every reconciliation run; never cached across runs.
type MigrationFile struct {
	// Name is the file base name, unique within the catalog. Names are
	// compared byte-wise, so authors zero-pad sequence numbers
	// (0001_, 0002_, ...) to get numeric ordering.
	Name string

	// Content is the raw file bytes.
	Content []byte

	// Checksum is the SHA-256 hex digest of Content.
	Checksum string
}

// AppliedMigration is a row from the control table: the backend's durable
// memory of what has run. Read-only from the engine's perspective except
// for the append performed during apply.
type AppliedMigration struct {
	Name     string `json:"name"`
	Checksum string `json:"checksum"`
}
