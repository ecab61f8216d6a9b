package storage

import (
	"errors"
	"time"

	"dayplan/internal/engine"
)

var ErrDisabled = errors.New("storage disabled")

// Config configures storage.
//
// Driver values:
//   - "file": dependency-free file backend (snapshot + jsonl journal)
//   - "sqlite": SQLite database file (optional build tag)
//
// If Driver is empty or "none", storage is disabled.
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// DateChange records one task moving to a new start date.
type DateChange struct {
	TaskID  string     `json:"task_id"`
	OldDate engine.Day `json:"old_date,omitempty"`
	NewDate engine.Day `json:"new_date,omitempty"`
}

// PlanLogEntry records one planning run.
// Keep it compact and schema-stable.
type PlanLogEntry struct {
	At          time.Time `json:"at"`
	Trigger     string    `json:"trigger"` // "startup", "daily", "demand"
	TaskCount   int       `json:"task_count"`
	Rescheduled int       `json:"rescheduled"`
	Unscheduled int       `json:"unscheduled"`
	Warnings    []string  `json:"warnings,omitempty"`
	TookMS      int64     `json:"took_ms"`
}
