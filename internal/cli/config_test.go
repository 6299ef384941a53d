package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DefaultsWhenNoFile(t *testing.T) {
	// Run from a directory without schemasync.yaml.
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(orig) })

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "migrations.db", cfg.Database)
	assert.Equal(t, "migrations", cfg.Dir)
	assert.Equal(t, "schemasync", cfg.ExecutedBy)
}

func TestLoadConfig_ExplicitMissingFileIsError(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadConfig_ReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schemasync.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"database: /var/data/app.db\ndir: db/migrations\nexecuted_by: deploy-bot\n",
	), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/data/app.db", cfg.Database)
	assert.Equal(t, "db/migrations", cfg.Dir)
	assert.Equal(t, "deploy-bot", cfg.ExecutedBy)
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schemasync.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dir: custom\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "custom", cfg.Dir)
	assert.Equal(t, "migrations.db", cfg.Database)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schemasync.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dir: [unclosed\n"), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestResolveConfig_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schemasync.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"database: from-file.db\ndir: from-file\n",
	), 0o644))

	opts := &RootOptions{Config: path}
	cfg, err := resolveConfig(opts, "from-flag.db", "", "ops")
	require.NoError(t, err)

	assert.Equal(t, "from-flag.db", cfg.Database)
	assert.Equal(t, "from-file", cfg.Dir)
	assert.Equal(t, "ops", cfg.ExecutedBy)
}
