package migrate

import (
	"context"
	"log/slog"
	"unicode/utf8"
)

// Reconciler orchestrates a reconciliation run: bootstrap the control
// table, fetch applied history, diff it against the on-disk catalog,
// validate checksums of the already-applied prefix, and apply the
// remaining suffix in order.
//
// A Reconciler is stateless between runs; it holds only the backend and
// run configuration. All mutation happens in the backend.
type Reconciler struct {
	backend Backend
	logger  *slog.Logger
	tokens  RunTokenGenerator
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithLogger sets the logger used for progress and drift reporting.
// Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reconciler) {
		r.logger = logger
	}
}

// WithRunTokenGenerator overrides the run token generator.
// Defaults to UUIDv7Generator; tests use FixedGenerator.
func WithRunTokenGenerator(gen RunTokenGenerator) Option {
	return func(r *Reconciler) {
		r.tokens = gen
	}
}

// New creates a Reconciler for the given backend.
func New(backend Backend, opts ...Option) *Reconciler {
	r := &Reconciler{
		backend: backend,
		logger:  slog.Default(),
		tokens:  UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Result summarizes a reconciliation run.
type Result struct {
	// RunToken identifies this run in log output.
	RunToken string

	// Validated counts applied-prefix entries whose checksums matched.
	Validated int

	// NameDrift counts applied-prefix entries skipped because the recorded
	// name did not match the file at the same position.
	NameDrift int

	// Applied lists the file names applied by this run, in order.
	Applied []string
}

// Plan describes what a reconciliation run would do, without doing it.
// Checksums are not validated here; use Verify for drift detection.
type Plan struct {
	// Applied is the recorded history, ordered by name.
	Applied []AppliedMigration

	// Pending lists on-disk files not yet represented in the history,
	// in the order they would be applied.
	Pending []string
}

// Reconcile runs the full algorithm against the catalog directory dir.
//
// Every error aborts the run immediately: nothing is retried, and no file
// beyond the failure point is attempted, since migrations are assumed to
// be ordered and dependent. Work already committed atomically by the
// backend stays committed.
func (r *Reconciler) Reconcile(ctx context.Context, dir string) (*Result, error) {
	result := &Result{RunToken: r.tokens.Generate(), Applied: []string{}}
	log := r.logger.With("run", result.RunToken)

	applied, files, err := r.load(ctx, dir)
	if err != nil {
		return nil, err
	}

	if err := r.validatePrefix(applied, files, log, result); err != nil {
		return nil, err
	}

	// Apply the suffix not yet represented in the history. When more
	// records exist than files (post-apply deletion), there is nothing
	// pending.
	if len(applied) >= len(files) {
		log.Info("reconciliation complete", "applied", 0, "validated", result.Validated)
		return result, nil
	}

	for _, file := range files[len(applied):] {
		if !utf8.Valid(file.Content) {
			return nil, NewReadFileError(file.Name)
		}

		if err := r.backend.ApplyMigration(ctx, file.Name, string(file.Content), file.Checksum); err != nil {
			return nil, wrapBackend("failed to apply migration", err)
		}

		log.Info("applied migration", "name", file.Name)
		result.Applied = append(result.Applied, file.Name)
	}

	log.Info("reconciliation complete", "applied", len(result.Applied), "validated", result.Validated)
	return result, nil
}

// Verify runs bootstrap, fetch, and prefix validation without applying
// anything. Succeeds iff every validated prefix entry's checksum matches
// the file currently on disk.
func (r *Reconciler) Verify(ctx context.Context, dir string) (*Result, error) {
	result := &Result{RunToken: r.tokens.Generate()}
	log := r.logger.With("run", result.RunToken)

	applied, files, err := r.load(ctx, dir)
	if err != nil {
		return nil, err
	}

	if err := r.validatePrefix(applied, files, log, result); err != nil {
		return nil, err
	}

	return result, nil
}

// Plan reports applied history and pending files without validating
// checksums or applying anything.
func (r *Reconciler) Plan(ctx context.Context, dir string) (*Plan, error) {
	applied, files, err := r.load(ctx, dir)
	if err != nil {
		return nil, err
	}

	plan := &Plan{Applied: applied}
	if len(files) > len(applied) {
		for _, file := range files[len(applied):] {
			plan.Pending = append(plan.Pending, file.Name)
		}
	}
	return plan, nil
}

// load bootstraps the control table and produces the two sequences being
// reconciled: recorded history and on-disk catalog, both ordered by name.
func (r *Reconciler) load(ctx context.Context, dir string) ([]AppliedMigration, []MigrationFile, error) {
	if err := r.backend.EnsureControlTable(ctx, BootstrapSQL); err != nil {
		return nil, nil, wrapBackend("failed to ensure control table", err)
	}

	applied, err := r.backend.FetchAppliedMigrations(ctx)
	if err != nil {
		return nil, nil, wrapBackend("failed to fetch applied migrations", err)
	}

	files, err := ListFiles(dir)
	if err != nil {
		return nil, nil, err
	}

	return applied, files, nil
}

// validatePrefix checks the already-applied prefix against the files at the
// same positions.
//
// Name drift (recorded name != file name at the same index) is tolerated:
// the entry is skipped with a warning rather than failing the run. This
// matches the historical behavior for renamed-but-reapplied files; the
// drift is surfaced loudly in logs and in Result.NameDrift instead of
// being hardened to a fatal error.
//
// A checksum mismatch is always fatal regardless of name drift: it means
// an already-executed script was edited after the fact.
//
// Records beyond the end of the catalog are not checked: a file deleted
// after being applied is not the engine's problem to police.
func (r *Reconciler) validatePrefix(applied []AppliedMigration, files []MigrationFile, log *slog.Logger, result *Result) error {
	for i, record := range applied {
		if i >= len(files) {
			break
		}
		file := files[i]

		if file.Name != record.Name {
			log.Warn("name drift in applied prefix",
				"position", i, "recorded", record.Name, "file", file.Name)
			result.NameDrift++
			continue
		}

		if file.Checksum != record.Checksum {
			return NewChecksumMismatchError(file.Name, record.Checksum, file.Checksum)
		}
		result.Validated++
	}
	return nil
}
