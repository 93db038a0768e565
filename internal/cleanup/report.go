package cleanup

import "time"

// Status is the terminal state of one cleanup run.
type Status string

const (
	// StatusSuccess: every confirmed deletion succeeded.
	StatusSuccess Status = "success"
	// StatusPartialFailure: at least one file could not be deleted.
	StatusPartialFailure Status = "partial-failure"
	// StatusSkippedNoCandidates: nothing was old enough to delete.
	StatusSkippedNoCandidates Status = "skipped-no-candidates"
	// StatusSkippedNotFound: the local target directory does not exist.
	StatusSkippedNotFound Status = "skipped-not-found"
	// StatusDryRun: candidates were printed, nothing was deleted.
	StatusDryRun Status = "dry-run"
	// StatusAborted: the user declined the confirmation prompt.
	StatusAborted Status = "aborted"
)

// Report is the per-target outcome of one orchestration run.
type Report struct {
	RunID  string
	Target string
	Root   string
	Status Status

	Candidates   int
	FilesDeleted int
	FilesFailed  int
	DirsDeleted  int
	DirsFailed   int
	BytesFreed   int64

	Duration time.Duration
}

// ExitCode maps the report to the process exit contract: 0 for clean
// outcomes including skips and dry runs, 1 when deletions failed or the
// run was aborted.
func (r *Report) ExitCode() int {
	switch r.Status {
	case StatusPartialFailure, StatusAborted:
		return 1
	default:
		return 0
	}
}
