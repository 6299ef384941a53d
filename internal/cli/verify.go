package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/calder/schemasync/internal/migrate"
	"github.com/calder/schemasync/internal/store"
)

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	*RootOptions
	Database string
	Dir      string

	// Tokens allows overriding the run token generator (for testing).
	Tokens migrate.RunTokenGenerator
}

// verifyResult is the JSON payload for a successful verify run.
type verifyResult struct {
	RunToken  string `json:"run_token"`
	Validated int    `json:"validated"`
	NameDrift int    `json:"name_drift,omitempty"`
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Validate checksums of applied migrations",
		Long: `Validate that every applied migration's file on disk still matches the
checksum recorded when it was applied. Applies nothing. Fails with a
checksum mismatch error if an already-executed script was edited.

Example:
  schemasync verify --db ./app.db --dir ./migrations`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database")
	cmd.Flags().StringVar(&opts.Dir, "dir", "", "migrations directory")

	return cmd
}

func runVerify(opts *VerifyOptions, cmd *cobra.Command) error {
	setupLogging(opts.Verbose)
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout())

	cfg, err := resolveConfig(opts.RootOptions, opts.Database, opts.Dir, "")
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	st, err := store.Open(cfg.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	rec := newReconciler(st, opts.Tokens)

	result, err := rec.Verify(commandContext(cmd), cfg.Dir)
	if err != nil {
		_ = formatter.Fail(err)
		return WrapExitError(exitCodeFor(err), "verification failed", err)
	}

	if opts.Format == "json" {
		return formatter.Success(verifyResult{
			RunToken:  result.RunToken,
			Validated: result.Validated,
			NameDrift: result.NameDrift,
		})
	}

	msg := fmt.Sprintf("Verified %d applied migration(s).", result.Validated)
	if result.NameDrift > 0 {
		msg += fmt.Sprintf(" Skipped %d entry(ies) with name drift.", result.NameDrift)
	}
	return formatter.Success(msg)
}
