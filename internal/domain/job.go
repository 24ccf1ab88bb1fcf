package domain

// JobStatus represents the remote state of a fine-tuning job.
type JobStatus string

const (
	JobStatusCreated   JobStatus = "created"
	JobStatusRunning   JobStatus = "running"
	JobStatusSucceeded JobStatus = "succeeded"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
	JobStatusExpired   JobStatus = "expired"
)

func (s JobStatus) String() string { return string(s) }

// IsTerminal reports whether no further transition can occur.
func (s JobStatus) IsTerminal() bool {
	switch s {
	case JobStatusSucceeded, JobStatusFailed, JobStatusCancelled, JobStatusExpired:
		return true
	}
	return false
}

// ParseJobStatus maps a remote wire status onto the domain enumeration.
// Pre-processing states (validating_files, queued) map to created; statuses the
// mapping does not know are treated as still running, so polling keeps going
// until the service reports a real terminal state.
func ParseJobStatus(remote string) JobStatus {
	switch remote {
	case "validating_files", "queued", "created", "pending":
		return JobStatusCreated
	case "running":
		return JobStatusRunning
	case "succeeded":
		return JobStatusSucceeded
	case "failed":
		return JobStatusFailed
	case "cancelled":
		return JobStatusCancelled
	case "expired":
		return JobStatusExpired
	default:
		return JobStatusRunning
	}
}

// FineTuneJob is the orchestrator's view of a remote fine-tuning job.
// It is created on submission and mutated only by polling the remote service.
type FineTuneJob struct {
	ID      string
	Dialect string
	Status  JobStatus

	// FineTunedModel is set only once Status is succeeded.
	FineTunedModel string
	// Error detail, set only in the failed state.
	Error string

	Metrics JobMetrics
}

// JobMetrics carries the training metrics available while a job runs.
// Zero values mean the remote service has not reported the metric yet.
type JobMetrics struct {
	TrainedTokens    int64
	TrainingAccuracy float64
	ValidationLoss   float64
}
