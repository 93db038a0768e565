package cleanup

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stationops/shareclean/internal/config"
	"github.com/stationops/shareclean/internal/fsops"
	"github.com/stationops/shareclean/internal/limiter"
	"github.com/stationops/shareclean/internal/metrics"
	"github.com/stationops/shareclean/internal/scan"
	"github.com/stationops/shareclean/internal/target"
)

// ErrNotDirectory is returned when a local target exists but is not a
// directory.
var ErrNotDirectory = errors.New("path is not a directory")

// CleanupLogger interface for structured logging in cleanup
type CleanupLogger interface {
	Info(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// cleanupStdLogger wraps standard log.Logger to implement CleanupLogger interface
type cleanupStdLogger struct {
	*log.Logger
}

func (l *cleanupStdLogger) Info(msg string, args ...interface{}) {
	l.logWithLevel("INFO", msg, args...)
}

func (l *cleanupStdLogger) Error(msg string, args ...interface{}) {
	l.logWithLevel("ERROR", msg, args...)
}

func (l *cleanupStdLogger) logWithLevel(level, msg string, args ...interface{}) {
	// Format key-value pairs
	var parts []interface{}
	parts = append(parts, fmt.Sprintf("[%s]", level), msg)
	parts = append(parts, args...)
	l.Logger.Println(parts...)
}

// Session is a live remote mount exposing a local path until Close.
type Session interface {
	Path() string
	Close() error
}

// Mounter acquires remote shares as local paths.
type Mounter interface {
	Mount(ctx context.Context, server, share, user, password string) (Session, error)
}

// Prompter blocks for interactive confirmation.
type Prompter interface {
	Confirm(msg string) (bool, error)
}

// Printer renders the user-facing lines of a run.
type Printer interface {
	Successf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Noticef(format string, args ...interface{})
	Mutedf(format string, args ...interface{})
	Separator()
}

// noopPrinter drops all output.
type noopPrinter struct{}

func (noopPrinter) Successf(string, ...interface{}) {}
func (noopPrinter) Errorf(string, ...interface{})   {}
func (noopPrinter) Noticef(string, ...interface{})  {}
func (noopPrinter) Mutedf(string, ...interface{})   {}
func (noopPrinter) Separator()                      {}

// Runner executes one cleanup run per target: resolve, mount if remote,
// scan, confirm, delete, reap, report. A Runner is safe for concurrent use
// by the fleet dispatcher; runs share no mutable state.
type Runner struct {
	cfg    config.Config
	dryRun bool
	force  bool

	deleter  fsops.Deleter
	mounter  Mounter
	prompter Prompter
	printer  Printer
	limiter  *limiter.Limiter
	logger   CleanupLogger
	verbose  bool
	stdlog   *log.Logger
}

// NewRunner creates a Runner with real filesystem deletion. Collaborators
// with side effects (mounter, prompter, printer) are injected via setters;
// without a prompter a confirmation is treated as declined.
func NewRunner(cfg config.Config, dryRun, force bool, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		cfg:     cfg,
		dryRun:  dryRun,
		force:   force,
		deleter: fsops.OSDeleter{},
		printer: noopPrinter{},
		limiter: limiter.New(cfg.Throttle),
		logger:  &cleanupStdLogger{Logger: logger},
		verbose: cfg.Verbose,
		stdlog:  logger,
	}
}

func (r *Runner) SetDeleter(d fsops.Deleter)    { r.deleter = d }
func (r *Runner) SetMounter(m Mounter)          { r.mounter = m }
func (r *Runner) SetPrompter(p Prompter)        { r.prompter = p }
func (r *Runner) SetLimiter(l *limiter.Limiter) { r.limiter = l }

func (r *Runner) SetPrinter(p Printer) {
	if p == nil {
		r.printer = noopPrinter{}
		return
	}
	r.printer = p
}

// Run executes the full cleanup state machine against one target. The
// returned report is nil only when the run aborted before scanning
// (resolution, mount, or scan failure). Any mount acquired during the run
// is released on every exit path.
func (r *Runner) Run(ctx context.Context, tgt target.Target) (*Report, error) {
	start := time.Now()
	report := &Report{
		RunID:  uuid.NewString(),
		Target: tgt.Address(),
	}

	root, sess, err := r.resolve(ctx, tgt)
	if err != nil {
		return nil, err
	}
	if sess != nil {
		defer func() {
			if cerr := sess.Close(); cerr != nil {
				r.logger.Error("Failed to release mount", "target", report.Target, "error", cerr)
			}
		}()
		r.printer.Mutedf("loaded remote directory")
	}
	if root == "" {
		// Local target missing: report the skip, nothing to release
		report.Status = StatusSkippedNotFound
		report.Duration = time.Since(start)
		r.printer.Errorf("Directory does not exist: %q", tgt.Path)
		r.finish(report)
		return report, nil
	}
	report.Root = root

	r.printer.Mutedf("cleaning directory: %q", report.Target)

	scanner := scan.NewScanner(r.stdlog, r.verbose)
	candidates, err := scanner.OldFiles(ctx, root, r.cfg.Days, r.cfg.Skip)
	if err != nil {
		return nil, err
	}
	report.Candidates = len(candidates)

	if len(candidates) == 0 {
		report.Status = StatusSkippedNoCandidates
		report.Duration = time.Since(start)
		r.printer.Successf("No files found in %q older than %g days!", report.Target, r.cfg.Days)
		r.finish(report)
		return report, nil
	}

	if r.dryRun {
		for _, cand := range candidates {
			r.printer.Mutedf("Would delete %s (%.1f days old)", cand.Path, cand.AgeDays)
			r.logStructured("DRY_RUN", cand.Path, "file", cand.Size, report.RunID)
		}
		report.Status = StatusDryRun
		report.Duration = time.Since(start)
		r.finish(report)
		return report, nil
	}

	if !r.force {
		confirmed := false
		if r.prompter != nil {
			confirmed, err = r.prompter.Confirm(fmt.Sprintf(
				"This will delete %d files (use '--dry-run' to show them). Are you sure?",
				len(candidates)))
			if err != nil {
				return nil, fmt.Errorf("confirmation: %w", err)
			}
		}
		if !confirmed {
			report.Status = StatusAborted
			report.Duration = time.Since(start)
			r.printer.Errorf("Aborted.")
			r.finish(report)
			return report, nil
		}
	}

	if err := r.deleteFiles(ctx, root, candidates, report); err != nil {
		report.Duration = time.Since(start)
		return report, err
	}

	if r.cfg.DeleteEmptyDirs {
		r.printer.Separator()
		if err := r.reapEmptyDirs(ctx, root, report); err != nil {
			report.Duration = time.Since(start)
			return report, err
		}
	}

	r.printer.Separator()
	if report.FilesDeleted > 0 {
		r.printer.Successf("Deleted %d files", report.FilesDeleted)
	}
	if report.FilesFailed > 0 {
		r.printer.Errorf("Unable to delete %d files.", report.FilesFailed)
		report.Status = StatusPartialFailure
	} else {
		report.Status = StatusSuccess
	}
	report.Duration = time.Since(start)
	r.finish(report)
	return report, nil
}

// resolve turns the target into a scannable local path. For remote targets
// the returned Session owns the mount. A missing local directory returns
// ("", nil, nil): a skip, not an error.
func (r *Runner) resolve(ctx context.Context, tgt target.Target) (string, Session, error) {
	if tgt.Scheme == target.Remote {
		if r.mounter == nil {
			return "", nil, errors.New("no mounter configured for remote target")
		}
		sess, err := r.mounter.Mount(ctx, tgt.Host, tgt.Share, tgt.User, r.cfg.Password)
		if err != nil {
			return "", nil, err
		}
		return sess.Path(), sess, nil
	}

	abs, err := filepath.Abs(tgt.Path)
	if err != nil {
		return "", nil, fmt.Errorf("resolve %q: %w", tgt.Path, err)
	}
	info, err := os.Stat(abs)
	if os.IsNotExist(err) {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, fmt.Errorf("resolve %q: %w", tgt.Path, err)
	}
	if !info.IsDir() {
		return "", nil, fmt.Errorf("%w: %q", ErrNotDirectory, tgt.Path)
	}
	return abs, nil, nil
}

// deleteFiles unlinks every confirmed candidate. Each failure is counted
// and reported individually; one file never stops the rest.
func (r *Runner) deleteFiles(ctx context.Context, root string, candidates []scan.Candidate, report *Report) error {
	for _, cand := range candidates {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.limiter.Wait(ctx); err != nil {
			return err
		}

		if !withinRoot(cand.Path, root) {
			r.logStructured("SKIP", cand.Path, "unsafe_path", cand.Size, report.RunID)
			metrics.FilesFailedTotal.Inc()
			report.FilesFailed++
			continue
		}

		err := r.deleter.Remove(cand.Path)
		if err != nil {
			// Vanished between scan and delete: neither success nor failure
			if os.IsNotExist(err) {
				r.logger.Info("File already deleted", "path", cand.Path)
				continue
			}
			r.printer.Errorf("Failed to delete %s (%.1f days old): %v", cand.Path, cand.AgeDays, err)
			r.logStructured("ERROR", cand.Path, "file", cand.Size, report.RunID)
			metrics.FilesFailedTotal.Inc()
			report.FilesFailed++
			continue
		}

		r.printer.Successf("Deleted %s (%.1f days old)", cand.Path, cand.AgeDays)
		r.logStructured("DELETE", cand.Path, "file", cand.Size, report.RunID)
		metrics.FilesDeletedTotal.Inc()
		metrics.BytesFreedTotal.Add(float64(cand.Size))
		report.FilesDeleted++
		report.BytesFreed += cand.Size
	}
	return nil
}

// reapEmptyDirs removes directories left empty by file deletion.
func (r *Runner) reapEmptyDirs(ctx context.Context, root string, report *Report) error {
	scanner := scan.NewScanner(r.stdlog, r.verbose)
	return scanner.EmptyDirs(ctx, root, r.cfg.Skip, func(dir string) {
		if !withinRoot(dir, root) {
			r.logStructured("SKIP", dir, "unsafe_path", 0, report.RunID)
			metrics.DirsFailedTotal.Inc()
			report.DirsFailed++
			return
		}
		if err := r.deleter.Remove(dir); err != nil {
			if os.IsNotExist(err) {
				return
			}
			r.printer.Errorf("Failed to delete empty directory %s: %v", dir, err)
			r.logStructured("ERROR", dir, "empty_directory", 0, report.RunID)
			metrics.DirsFailedTotal.Inc()
			report.DirsFailed++
			return
		}
		r.printer.Successf("Deleted empty directory %s", dir)
		r.logStructured("DELETE", dir, "empty_directory", 0, report.RunID)
		metrics.DirsDeletedTotal.Inc()
		report.DirsDeleted++
	})
}

// finish records run metrics and the summary log line.
func (r *Runner) finish(report *Report) {
	metrics.RecordRun(string(report.Status), report.Duration.Seconds())
	r.logger.Info("Run complete",
		"target", report.Target,
		"status", string(report.Status),
		"candidates", report.Candidates,
		"files_deleted", report.FilesDeleted,
		"files_failed", report.FilesFailed,
		"dirs_deleted", report.DirsDeleted,
		"dirs_failed", report.DirsFailed,
		"bytes_freed", report.BytesFreed,
		"duration", report.Duration.Round(time.Millisecond).String(),
	)
}

// logStructured logs with structured format: timestamp, action, path, object type, size, run id
func (r *Runner) logStructured(action, path, objectType string, size int64, runID string) {
	r.logger.Info(fmt.Sprintf("[%s] %s path=%s object=%s size=%d run_id=%s",
		time.Now().UTC().Format(time.RFC3339),
		action,
		path,
		objectType,
		size,
		runID,
	))
}

func withinRoot(path, root string) bool {
	cleaned := filepath.Clean(path)
	root = filepath.Clean(root)
	if cleaned == root {
		return true
	}
	rel, err := filepath.Rel(root, cleaned)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return !startsWithDotDot(rel)
}

func startsWithDotDot(rel string) bool {
	if rel == ".." {
		return true
	}
	prefix := ".." + string(os.PathSeparator)
	return strings.HasPrefix(rel, prefix)
}
