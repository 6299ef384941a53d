package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/calder/schemasync/internal/store"
)

// DefaultConfigFile is looked up in the working directory when --config is
// not set. Its absence is not an error; defaults apply.
const DefaultConfigFile = "schemasync.yaml"

// Config holds the resolved settings for a command. Flag values override
// file values, which override defaults.
type Config struct {
	// Database is the path to the SQLite database file.
	Database string `yaml:"database"`

	// Dir is the migrations directory.
	Dir string `yaml:"dir"`

	// ExecutedBy is recorded in the control table with each applied
	// migration.
	ExecutedBy string `yaml:"executed_by"`
}

// DefaultConfig returns the built-in defaults. The database path default
// matches the historical fallback of the original migrate-to-latest tool.
func DefaultConfig() Config {
	return Config{
		Database:   "migrations.db",
		Dir:        "migrations",
		ExecutedBy: store.DefaultExecutedBy,
	}
}

// LoadConfig reads a YAML config file and fills unset fields with
// defaults.
//
// When path is empty, DefaultConfigFile is tried; a missing default file
// is fine. An explicitly given path that cannot be read is an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if path == "" {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if fileCfg.Database != "" {
		cfg.Database = fileCfg.Database
	}
	if fileCfg.Dir != "" {
		cfg.Dir = fileCfg.Dir
	}
	if fileCfg.ExecutedBy != "" {
		cfg.ExecutedBy = fileCfg.ExecutedBy
	}

	return cfg, nil
}

// resolveConfig loads the config file and applies flag overrides.
// Empty flag values leave the file/default value in place.
func resolveConfig(rootOpts *RootOptions, database, dir, executedBy string) (Config, error) {
	cfg, err := LoadConfig(rootOpts.Config)
	if err != nil {
		return cfg, err
	}

	if database != "" {
		cfg.Database = database
	}
	if dir != "" {
		cfg.Dir = dir
	}
	if executedBy != "" {
		cfg.ExecutedBy = executedBy
	}

	return cfg, nil
}
