package engine

import "time"

// Importance is the Eisenhower "important" axis.
type Importance string

const (
	Important    Importance = "important"
	NotImportant Importance = "not-important"
)

// Urgency is the Eisenhower "urgent" axis.
type Urgency string

const (
	Urgent    Urgency = "urgent"
	NotUrgent Urgency = "not-urgent"
)

// Quadrant classifies a task by (importance, urgency) into one of four
// priority tiers.
type Quadrant string

const (
	QuadrantUrgentImportant       Quadrant = "urgent-important"
	QuadrantNotUrgentImportant    Quadrant = "not-urgent-important"
	QuadrantUrgentNotImportant    Quadrant = "urgent-not-important"
	QuadrantNotUrgentNotImportant Quadrant = "not-urgent-not-important"
)

// QuadrantOf maps the two Eisenhower axes to their quadrant. Unset axes count
// as not-urgent / not-important.
func QuadrantOf(imp Importance, urg Urgency) Quadrant {
	important := imp == Important
	urgent := urg == Urgent
	switch {
	case urgent && important:
		return QuadrantUrgentImportant
	case important:
		return QuadrantNotUrgentImportant
	case urgent:
		return QuadrantUrgentNotImportant
	default:
		return QuadrantNotUrgentNotImportant
	}
}

// RecurInterval is the repeat pattern of a recurring series.
type RecurInterval string

const (
	RecurDaily   RecurInterval = "daily"
	RecurWeekly  RecurInterval = "weekly"
	RecurMonthly RecurInterval = "monthly"
)

// RecurEnd says how a recurring series terminates.
type RecurEnd string

const (
	RecurEndNever RecurEnd = "never"
	RecurEndAfter RecurEnd = "after"
)

// UncategorizedKey is the category bucket used for tasks without a category.
const UncategorizedKey = "uncategorized"

// Task is one schedulable item.
//
// StartDate is the scheduling output: the day the task is planned for.
// For completed, recurring, and pinned-for-today tasks it is authoritative
// input instead — the orchestrator never relocates those.
type Task struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`

	Category       string  `json:"category,omitempty"`
	EstimatedHours float64 `json:"estimated_hours,omitempty"`

	DueDate    Day `json:"due_date,omitempty"`
	StartDate  Day `json:"start_date,omitempty"`
	PinnedDate Day `json:"pinned_date,omitempty"`

	Completed   bool      `json:"completed,omitempty"`
	CompletedAt time.Time `json:"completed_at,omitzero"`

	Importance Importance `json:"importance,omitempty"`
	Urgency    Urgency    `json:"urgency,omitempty"`

	IsRecurring           bool          `json:"is_recurring,omitempty"`
	RecurringSeriesID     string        `json:"recurring_series_id,omitempty"`
	RecurringInterval     RecurInterval `json:"recurring_interval,omitempty"`
	RecurringDays         []int         `json:"recurring_days,omitempty"` // weekday indices 0-6 (weekly) or a single day-of-month (monthly)
	RecurringEndType      RecurEnd      `json:"recurring_end_type,omitempty"`
	RecurringEndCount     int           `json:"recurring_end_count,omitempty"`
	RecurringCurrentCount int           `json:"recurring_current_count,omitempty"`

	CreatedAt time.Time `json:"created_at,omitzero"`
}

// CategoryKey returns the ledger bucket for the task's category.
func (t Task) CategoryKey() string {
	if t.Category == "" {
		return UncategorizedKey
	}
	return t.Category
}

// Quadrant returns the task's Eisenhower quadrant.
func (t Task) Quadrant() Quadrant { return QuadrantOf(t.Importance, t.Urgency) }

// Label returns the task title if set, else its ID. Used in warnings.
func (t Task) Label() string {
	if t.Title != "" {
		return t.Title
	}
	return t.ID
}

// ScoredTask pairs a task with its computed placement priority.
type ScoredTask struct {
	Task
	PriorityScore float64
	ScoreQuadrant Quadrant
}
