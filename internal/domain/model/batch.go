// File: internal/domain/model/batch.go
package model

import "time"

// BatchStatus is the lifecycle state of an owner's batch job.
type BatchStatus string

const (
	BatchRunning  BatchStatus = "running"
	BatchComplete BatchStatus = "complete"
	BatchFailed   BatchStatus = "failed"
	BatchUnknown  BatchStatus = "unknown"
)

// BatchJob is one user-triggered processing request. It is mutated only by
// the worker goroutine that owns it; everyone else observes it through the
// published BatchProgress records.
type BatchJob struct {
	ID        string
	OwnerID   string
	Sources   []Source
	StartedAt time.Time
}

// BatchProgress is the externally readable snapshot of a batch. Records are
// replaced whole per owner, so readers never see a half-written update.
type BatchProgress struct {
	JobID               string      `json:"job_id"`
	Status              BatchStatus `json:"status"`
	Total               int         `json:"total"`
	Completed           int         `json:"completed"`
	CurrentLabel        string      `json:"current_label,omitempty"`
	StartedAt           time.Time   `json:"started_at"`
	EstimatedCompletion *time.Time  `json:"estimated_completion,omitempty"`
	TotalElapsedSeconds float64     `json:"total_elapsed_seconds,omitempty"`
	Error               string      `json:"error,omitempty"`
}

// Percent is 100*completed/total, defined as 0 for an empty batch.
func (p BatchProgress) Percent() float64 {
	if p.Total == 0 {
		return 0
	}
	return 100 * float64(p.Completed) / float64(p.Total)
}
