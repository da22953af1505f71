package domain

import "time"

// SyncTrigger records what started a sync run.
type SyncTrigger string

const (
	TriggerScheduled SyncTrigger = "scheduled"
	TriggerStartup   SyncTrigger = "startup"
	TriggerManual    SyncTrigger = "manual"
	TriggerWebhook   SyncTrigger = "webhook"
)

// SyncStatus is a run's lifecycle state. Running is the only non-terminal
// status; historical runs are append-only and never mutated once terminal.
type SyncStatus string

const (
	SyncRunning SyncStatus = "running"
	// SyncSuccess: the import finished with zero item errors.
	SyncSuccess SyncStatus = "success"
	// SyncPartial: the import finished but some items errored.
	SyncPartial SyncStatus = "partial"
	// SyncFailed: all retry attempts were exhausted.
	SyncFailed SyncStatus = "error"
	// SyncAborted: the authoring store was unreachable, nothing to import.
	SyncAborted SyncStatus = "aborted"
)

// SyncRun is the durable record of one sync execution, created at job start
// and finalized exactly once at job end.
type SyncRun struct {
	ID          string      `json:"id"`
	Trigger     SyncTrigger `json:"trigger"`
	StartedAt   time.Time   `json:"started_at"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
	Status      SyncStatus  `json:"status"`
	Created     int         `json:"created"`
	Updated     int         `json:"updated"`
	Skipped     int         `json:"skipped"`
	Errors      int         `json:"errors"`
	RetryCount  int         `json:"retry_count"`
	Warning     string      `json:"warning,omitempty"`
}

// Changed reports the combined volume of creates and updates, used for the
// notable-change signal.
func (r *SyncRun) Changed() int {
	return r.Created + r.Updated
}
