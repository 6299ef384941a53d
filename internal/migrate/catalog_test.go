package migrate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calder/schemasync/internal/checksum"
)

// writeFile creates a migration file in dir with the given content.
func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestListFiles_FiltersToSQLFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "0001_init.sql", "CREATE TABLE t (x INT);")
	writeFile(t, dir, "notes.txt", "not a migration")
	writeFile(t, dir, "0002_seed.SQL", "-- wrong case, skipped")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.sql"), 0o755))

	files, err := ListFiles(dir)
	require.NoError(t, err)

	require.Len(t, files, 1)
	assert.Equal(t, "0001_init.sql", files[0].Name)
}

func TestListFiles_ByteWiseOrdering(t *testing.T) {
	dir := t.TempDir()
	// Created in reverse order; creation order must not matter.
	writeFile(t, dir, "0010_c.sql", "c")
	writeFile(t, dir, "0002_b.sql", "b")
	writeFile(t, dir, "0001_a.sql", "a")

	files, err := ListFiles(dir)
	require.NoError(t, err)

	require.Len(t, files, 3)
	assert.Equal(t, "0001_a.sql", files[0].Name)
	assert.Equal(t, "0002_b.sql", files[1].Name)
	assert.Equal(t, "0010_c.sql", files[2].Name)
}

func TestListFiles_ContentAndChecksum(t *testing.T) {
	dir := t.TempDir()
	content := "CREATE TABLE users (id INTEGER PRIMARY KEY);\n"
	writeFile(t, dir, "0001_users.sql", content)

	files, err := ListFiles(dir)
	require.NoError(t, err)

	require.Len(t, files, 1)
	assert.Equal(t, []byte(content), files[0].Content)
	assert.Equal(t, checksum.Sum([]byte(content)), files[0].Checksum)
}

func TestListFiles_EmptyDirectory(t *testing.T) {
	files, err := ListFiles(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestListFiles_MissingDirectory(t *testing.T) {
	_, err := ListFiles(filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
	assert.True(t, IsIOError(err))
}

func TestListFiles_StatelessBetweenCalls(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "0001_a.sql", "a")

	first, err := ListFiles(dir)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// The catalog must see changes made between calls - no caching.
	writeFile(t, dir, "0001_a.sql", "a changed")

	second, err := ListFiles(dir)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.NotEqual(t, first[0].Checksum, second[0].Checksum)
}
