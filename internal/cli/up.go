package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/calder/schemasync/internal/migrate"
	"github.com/calder/schemasync/internal/store"
)

// UpOptions holds flags for the up command.
type UpOptions struct {
	*RootOptions
	Database   string
	Dir        string
	ExecutedBy string

	// Tokens allows overriding the run token generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	Tokens migrate.RunTokenGenerator
}

// upResult is the JSON payload for a successful up run.
type upResult struct {
	RunToken  string   `json:"run_token"`
	Applied   []string `json:"applied"`
	Validated int      `json:"validated"`
	NameDrift int      `json:"name_drift,omitempty"`
}

// NewUpCommand creates the up command.
func NewUpCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UpOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Long: `Apply pending migrations to the database.

Reconciles the migrations directory against the control table: validates
checksums of everything already applied, then applies the missing suffix
in ascending name order, each file as a single transaction.

Example:
  schemasync up --db ./app.db --dir ./migrations
  schemasync up --config deploy/schemasync.yaml --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUp(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database")
	cmd.Flags().StringVar(&opts.Dir, "dir", "", "migrations directory")
	cmd.Flags().StringVar(&opts.ExecutedBy, "executed-by", "", "identity recorded with each applied migration")

	return cmd
}

func runUp(opts *UpOptions, cmd *cobra.Command) error {
	setupLogging(opts.Verbose)
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout())

	cfg, err := resolveConfig(opts.RootOptions, opts.Database, opts.Dir, opts.ExecutedBy)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	slog.Info("opening database", "path", cfg.Database)
	st, err := store.Open(cfg.Database, store.WithExecutedBy(cfg.ExecutedBy))
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	rec := newReconciler(st, opts.Tokens)

	result, err := rec.Reconcile(commandContext(cmd), cfg.Dir)
	if err != nil {
		_ = formatter.Fail(err)
		return WrapExitError(exitCodeFor(err), "reconciliation failed", err)
	}

	if opts.Format == "json" {
		return formatter.Success(upResult{
			RunToken:  result.RunToken,
			Applied:   result.Applied,
			Validated: result.Validated,
			NameDrift: result.NameDrift,
		})
	}

	for _, name := range result.Applied {
		fmt.Fprintf(cmd.OutOrStdout(), "Applied migration: %s\n", name)
	}
	if len(result.Applied) == 0 {
		return formatter.Success("Database is up to date.")
	}
	return formatter.Success(fmt.Sprintf("Applied %d migration(s).", len(result.Applied)))
}

// newReconciler builds a reconciler wired to the default logger, with an
// optional token generator override.
func newReconciler(backend migrate.Backend, tokens migrate.RunTokenGenerator) *migrate.Reconciler {
	recOpts := []migrate.Option{migrate.WithLogger(slog.Default())}
	if tokens != nil {
		recOpts = append(recOpts, migrate.WithRunTokenGenerator(tokens))
	}
	return migrate.New(backend, recOpts...)
}

// commandContext returns the command's context, falling back to
// context.Background when cobra was not given one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
