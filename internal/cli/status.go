package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/calder/schemasync/internal/migrate"
	"github.com/calder/schemasync/internal/store"
)

// StatusOptions holds flags for the status command.
type StatusOptions struct {
	*RootOptions
	Database string
	Dir      string
}

// statusResult is the JSON payload for the status command.
type statusResult struct {
	Applied []migrate.AppliedMigration `json:"applied"`
	Pending []string                   `json:"pending"`
}

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatusOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		Long: `Show which migrations are recorded as applied and which on-disk files
are still pending, without applying anything. Checksums are not validated
here; use "schemasync verify" for drift detection.

Example:
  schemasync status --db ./app.db --dir ./migrations`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database")
	cmd.Flags().StringVar(&opts.Dir, "dir", "", "migrations directory")

	return cmd
}

func runStatus(opts *StatusOptions, cmd *cobra.Command) error {
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

	rec := newReconciler(st, nil)

	plan, err := rec.Plan(commandContext(cmd), cfg.Dir)
	if err != nil {
		_ = formatter.Fail(err)
		return WrapExitError(exitCodeFor(err), "status failed", err)
	}

	if opts.Format == "json" {
		pending := plan.Pending
		if pending == nil {
			pending = []string{}
		}
		return formatter.Success(statusResult{Applied: plan.Applied, Pending: pending})
	}

	fmt.Fprint(cmd.OutOrStdout(), renderPlan(plan))
	return nil
}

// checksumDisplayLen truncates checksums in text output; 12 hex characters
// are plenty to eyeball a mismatch.
const checksumDisplayLen = 12

// renderPlan renders a plan as human-readable text.
func renderPlan(plan *migrate.Plan) string {
	var b strings.Builder

	b.WriteString("Applied:\n")
	if len(plan.Applied) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, m := range plan.Applied {
		fmt.Fprintf(&b, "  %s  %s\n", m.Name, shortChecksum(m.Checksum))
	}

	b.WriteString("Pending:\n")
	if len(plan.Pending) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, name := range plan.Pending {
		fmt.Fprintf(&b, "  %s\n", name)
	}

	return b.String()
}

func shortChecksum(sum string) string {
	if len(sum) <= checksumDisplayLen {
		return sum
	}
	return sum[:checksumDisplayLen]
}
