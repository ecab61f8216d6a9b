package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Planner PlannerConfig `json:"planner"`
	Replan  ReplanConfig  `json:"replan"`
	Logging LoggingConfig `json:"logging"`

	// Storage controls the persistence layer. Nil means the default file
	// driver rooted next to the config file.
	Storage *StorageConfig `json:"storage,omitempty"`
}

// HoursPair is an hour budget split by day kind.
type HoursPair struct {
	Weekday float64 `json:"weekday"`
	Weekend float64 `json:"weekend"`
}

// CountPair is a task-count budget split by day kind.
type CountPair struct {
	Weekday int `json:"weekday"`
	Weekend int `json:"weekend"`
}

// PlannerConfig controls the scheduling engine.
//
// Defaults (when fields are omitted/zero):
//   - look_ahead_days: 90
//   - daily_max_tasks: 4 / 4
//   - daily_max_hours: 8 / 8
//   - initial_weeks: 4
type PlannerConfig struct {
	LookAheadDays int       `json:"look_ahead_days,omitempty"`
	DailyMaxTasks CountPair `json:"daily_max_tasks,omitempty"`
	DailyMaxHours HoursPair `json:"daily_max_hours,omitempty"`

	// Categories caps daily hours per task category. Categories without an
	// entry are bounded only by daily_max_hours.
	Categories map[string]HoursPair `json:"categories,omitempty"`

	// InitialWeeks is how many weeks of occurrences a new weekly recurring
	// task is expanded into up front.
	InitialWeeks int `json:"initial_weeks,omitempty"`

	// AllowTaskCountOverflow lets the deadline fallback place a task on its
	// due date even when the day is at the task-count cap.
	AllowTaskCountOverflow bool `json:"allow_task_count_overflow,omitempty"`

	// Timezone resolves "today" for planning runs. Empty means the host zone.
	Timezone string `json:"timezone,omitempty"`
}

// ReplanConfig controls the replanning service.
//
// Enabled is a pointer so an omitted field defaults to true while an explicit
// false still disables the service.
type ReplanConfig struct {
	Enabled *bool `json:"enabled,omitempty"`

	// DailyAt is the local wall-clock time ("HH:MM") of the nightly full
	// replanning pass. Default "00:05".
	DailyAt string `json:"daily_at,omitempty"`

	// MinInterval rate-limits on-demand replan triggers. Go duration string,
	// default "30s", "0s" disables the limit.
	MinInterval string `json:"min_interval,omitempty"`
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// StorageConfig controls the persistence layer.
//
// Example:
//
//	"storage": { "driver": "file", "path": "./dayplan_store" }
type StorageConfig struct {
	Driver      string `json:"driver"`
	Path        string `json:"path"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // Go duration string (sqlite)
}

// Validate rejects configs that cannot be applied. It is installed as the
// manager's validator so a bad edit never reaches subscribers.
func (c *Config) Validate() error {
	p := c.Planner
	if p.LookAheadDays < 0 {
		return fmt.Errorf("planner.look_ahead_days: must be >= 0")
	}
	if p.DailyMaxTasks.Weekday < 0 || p.DailyMaxTasks.Weekend < 0 {
		return fmt.Errorf("planner.daily_max_tasks: must be >= 0")
	}
	if p.DailyMaxHours.Weekday < 0 || p.DailyMaxHours.Weekend < 0 {
		return fmt.Errorf("planner.daily_max_hours: must be >= 0")
	}
	for name, hp := range p.Categories {
		if hp.Weekday < 0 || hp.Weekend < 0 {
			return fmt.Errorf("planner.categories[%s]: must be >= 0", name)
		}
	}
	if p.Timezone != "" {
		if _, err := time.LoadLocation(p.Timezone); err != nil {
			return fmt.Errorf("planner.timezone: %w", err)
		}
	}
	if c.Replan.DailyAt != "" {
		if _, _, err := ParseHHMM(c.Replan.DailyAt); err != nil {
			return fmt.Errorf("replan.daily_at: %w", err)
		}
	}
	if _, err := ParseDurationField("replan.min_interval", c.Replan.MinInterval); err != nil {
		return err
	}
	if s := c.Storage; s != nil {
		if _, err := ParseDurationField("storage.busy_timeout", s.BusyTimeout); err != nil {
			return err
		}
	}
	return nil
}

// ParseHHMM parses a "HH:MM" wall-clock string.
func ParseHHMM(s string) (hour, min int, err error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid time %q: hour out of range", s)
	}
	min, err = strconv.Atoi(parts[1])
	if err != nil || min < 0 || min > 59 {
		return 0, 0, fmt.Errorf("invalid time %q: minute out of range", s)
	}
	return hour, min, nil
}
