package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify_CleanHistoryPasses(t *testing.T) {
	dir, db := migrationsFixture(t)

	_, err := execute(t, "up", "--db", db, "--dir", dir)
	require.NoError(t, err)

	out, err := execute(t, "verify", "--db", db, "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Verified 2 applied migration(s).")
}

func TestVerify_DetectsEditedMigration(t *testing.T) {
	dir, db := migrationsFixture(t)

	_, err := execute(t, "up", "--db", db, "--dir", dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "0002_seed.sql"),
		[]byte("INSERT INTO t VALUES (999);"), 0o644))

	out, err := execute(t, "verify", "--db", db, "--dir", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [CHECKSUM_MISMATCH]")
	assert.Contains(t, out, "0002_seed.sql")
}

func TestVerify_EmptyStatePasses(t *testing.T) {
	db := filepath.Join(t.TempDir(), "app.db")

	out, err := execute(t, "verify", "--db", db, "--dir", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "Verified 0 applied migration(s).")
}
