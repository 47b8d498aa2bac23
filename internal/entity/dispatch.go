package entity

import "time"

// Per-task dispatch states. Terminal either way, no retry within a run.
const (
	DispatchPending = "pending"
	DispatchSending = "sending"
	DispatchSuccess = "success"
	DispatchFailed  = "failed"
)

// DispatchOutcome is the per-recipient result of one send task.
type DispatchOutcome struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// DispatchSummary aggregates one dispatcher run.
type DispatchSummary struct {
	RunID              string            `json:"runId"`
	Total              int               `json:"total"`
	Attempted          int               `json:"attempted"`
	Sent               int               `json:"sent"`
	Failed             int               `json:"failed"`
	SkippedAlreadySent int               `json:"skippedAlreadySent"`
	DurationSeconds    float64           `json:"duration"`
	Outcomes           []DispatchOutcome `json:"logs"`
}
