package exitcodes

// Exit codes for the shareclean CLI
// These codes form the operational contract with cron jobs and wrapper scripts
const (
	Success         = 0 // Cleanup succeeded, or there was nothing to clean
	DeletionsFailed = 1 // At least one deletion failed, or the run was aborted
	BadInput        = 2 // Malformed address, manifest, or flag value
)
