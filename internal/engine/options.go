package engine

import "dayplan/pkg/logx"

// Defaults applied by normalize() when the hosting application hands over a
// partially-populated configuration. The task-count fallback of 4/4 is the
// documented upstream default; the hour fallback keeps an 8-hour day.
const (
	DefaultLookAheadDays  = 90
	DefaultMaxTasksPerDay = 4
	DefaultMaxHoursPerDay = 8.0
	DefaultInitialWeeks   = 4
)

// HoursLimit is an hour budget with separate weekday and weekend values.
type HoursLimit struct {
	Weekday float64 `json:"weekday"`
	Weekend float64 `json:"weekend"`
}

// For returns the value applying to the given day.
func (h HoursLimit) For(d Day) float64 {
	if d.IsWeekend() {
		return h.Weekend
	}
	return h.Weekday
}

func (h HoursLimit) isZero() bool { return h.Weekday == 0 && h.Weekend == 0 }

// CountLimit is a task-count budget with separate weekday and weekend values.
type CountLimit struct {
	Weekday int `json:"weekday"`
	Weekend int `json:"weekend"`
}

func (c CountLimit) For(d Day) int {
	if d.IsWeekend() {
		return c.Weekend
	}
	return c.Weekday
}

func (c CountLimit) isZero() bool { return c.Weekday == 0 && c.Weekend == 0 }

// CategoryLimits maps a category name to its per-day hour budget.
// Unconfigured categories fall back to the day's total-hour limit.
type CategoryLimits map[string]HoursLimit

// FallbackPolicy tunes the deadline-fallback ladder.
//
// The default (zero value) treats hour caps as soft once a deadline forces
// placement, but keeps the task-count cap as a hard floor — except for overdue
// tasks, which always land on today. That asymmetry is deliberate but
// unverified product intent, so it stays configurable.
type FallbackPolicy struct {
	// AllowTaskCountOverflow lifts the task-count floor during forced
	// placement: a deadline-forced task is placed on its due date even if the
	// day's task count is already at the cap.
	AllowTaskCountOverflow bool
}

// SchedulingOptions is one scheduling pass's full configuration.
//
// Today must be supplied by a timezone-aware clock collaborator: the same
// instant is a different calendar day in different timezones, and the engine
// never consults the wall clock itself.
type SchedulingOptions struct {
	Today         Day
	LookAheadDays int

	CategoryLimits CategoryLimits
	DailyMaxHours  HoursLimit
	DailyMaxTasks  CountLimit

	Weights  ScoreWeights
	Fallback FallbackPolicy

	// Log receives structured diagnostics. Zero value is a no-op.
	Log logx.Logger
}

// normalized fills configuration gaps with documented defaults so the core
// never sees a partially-valid options value.
func (o SchedulingOptions) normalized() SchedulingOptions {
	if o.Today.IsZero() {
		o.Today = Today(nil)
	}
	if o.LookAheadDays <= 0 {
		o.LookAheadDays = DefaultLookAheadDays
	}
	if o.DailyMaxTasks.isZero() {
		o.DailyMaxTasks = CountLimit{Weekday: DefaultMaxTasksPerDay, Weekend: DefaultMaxTasksPerDay}
	}
	if o.DailyMaxHours.isZero() {
		o.DailyMaxHours = HoursLimit{Weekday: DefaultMaxHoursPerDay, Weekend: DefaultMaxHoursPerDay}
	}
	if o.Weights.isZero() {
		o.Weights = DefaultScoreWeights()
	}
	if o.Log.IsZero() {
		o.Log = logx.Nop()
	}
	return o
}
