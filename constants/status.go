package constants

// JobStatus is the lifecycle of one batch reconciliation job.
type JobStatus string

const (
	JobStatusQueued     JobStatus = "QUEUED"     // waiting for a worker
	JobStatusRunning    JobStatus = "RUNNING"    // extracting and reconciling
	JobStatusReconciled JobStatus = "RECONCILED" // outputs written
	JobStatusFailed     JobStatus = "FAILED"     // terminal failure
)
