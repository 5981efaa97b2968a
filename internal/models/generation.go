package models

// SessionState is the lifecycle state of a streaming generation session.
type SessionState string

const (
	SessionIdle      SessionState = "idle"
	SessionRunning   SessionState = "running"
	SessionCompleted SessionState = "completed"
	SessionAborted   SessionState = "aborted"
	SessionFailed    SessionState = "failed"
)

// GenerationStatus is the terminal status of one generation attempt.
type GenerationStatus string

const (
	GenerationDone     GenerationStatus = "done"
	GenerationRejected GenerationStatus = "rejected"
	GenerationErrored  GenerationStatus = "errored"
	GenerationAborted  GenerationStatus = "aborted"
)

type GenerationResult struct {
	Status  GenerationStatus `json:"status"`
	Message string           `json:"message"`
	Reason  string           `json:"reason,omitempty"`
	Err     error            `json:"-"`
}
