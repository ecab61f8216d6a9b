package engine

import (
	"sort"

	"dayplan/pkg/logx"
)

// Reschedule records one task whose start date changed during a pass.
// These rows are exactly what the persistence layer needs to write; callers
// must not rewrite the full task set on every pass.
type Reschedule struct {
	Task    Task `json:"task"`
	OldDate Day  `json:"old_date,omitempty"`
	NewDate Day  `json:"new_date,omitempty"`
}

// Result is the complete outcome of one scheduling pass.
type Result struct {
	// Tasks is the full replacement task list, fixed groups first.
	Tasks []Task
	// Rescheduled contains only the tasks whose start date actually changed.
	Rescheduled []Reschedule
	// Warnings are human-readable capacity-override and unschedulability
	// notes, surfaced verbatim in the UI.
	Warnings []string
}

// AssignStartDates runs one full scheduling pass over the task snapshot.
//
// The pass partitions tasks into fixed and flexible groups, seeds the capacity
// ledger with the fixed ones (completed tasks do consume capacity — they
// occupied a slot when done), scores and stable-sorts the flexible ones by
// descending priority, and places them greedily via the slot search with the
// deadline fallback behind it. Every flexible task exits with either a valid
// start date or none plus a warning; none are silently dropped.
//
// The pass is idempotent: re-running it on its own output with unchanged
// limits produces no further reschedules.
func AssignStartDates(tasks []Task, opts SchedulingOptions) Result {
	opts = opts.normalized()
	log := opts.Log

	p := PartitionTasks(tasks, opts.Today)

	recurring, dupes := DeduplicateRecurring(p.Recurring)
	for _, d := range dupes {
		log.Debug("duplicate recurring instance dropped",
			logx.String("task", d.ID),
			logx.String("series", d.RecurringSeriesID),
			logx.String("date", string(d.StartDate)))
	}

	// Pinned-for-today tasks keep today as their start date even when the
	// stored value is stale.
	pinned := make([]Task, len(p.Pinned))
	for i, t := range p.Pinned {
		t.StartDate = t.PinnedDate
		pinned[i] = t
	}

	ledger := NewLedger(opts.DailyMaxTasks, opts.DailyMaxHours, opts.CategoryLimits)
	ledger.Seed(p.Completed)
	ledger.Seed(recurring)
	ledger.Seed(pinned)

	scored := make([]ScoredTask, len(p.ToSchedule))
	for i, t := range p.ToSchedule {
		score, quadrant := Score(t, opts.Today, opts.Weights)
		scored[i] = ScoredTask{Task: t, PriorityScore: score, ScoreQuadrant: quadrant}
	}
	// Stable: ties retain input order, which keeps passes deterministic.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].PriorityScore > scored[j].PriorityScore
	})

	res := Result{
		Tasks: make([]Task, 0, len(tasks)),
	}
	res.Tasks = append(res.Tasks, p.Completed...)
	res.Tasks = append(res.Tasks, recurring...)
	res.Tasks = append(res.Tasks, pinned...)

	for _, st := range scored {
		t := st.Task
		old := t.StartDate

		slot := findSlot(t, ledger, opts)
		if !slot.found() && slot.Warning == "" {
			slot = fallbackSlot(t, ledger, opts)
		}

		if slot.Warning != "" {
			res.Warnings = append(res.Warnings, slot.Warning)
		}

		t.StartDate = slot.Date
		if slot.found() {
			ledger.Reserve(slot.Date, t)
		}

		if t.StartDate != old {
			res.Rescheduled = append(res.Rescheduled, Reschedule{Task: t, OldDate: old, NewDate: t.StartDate})
			log.Debug("task rescheduled",
				logx.String("task", t.ID),
				logx.Float64("score", st.PriorityScore),
				logx.String("old", string(old)),
				logx.String("new", string(t.StartDate)))
		}

		res.Tasks = append(res.Tasks, t)
	}

	log.Info("scheduling pass complete",
		logx.String("today", string(opts.Today)),
		logx.Int("tasks", len(tasks)),
		logx.Int("flexible", len(scored)),
		logx.Int("rescheduled", len(res.Rescheduled)),
		logx.Int("duplicates_dropped", len(dupes)),
		logx.Int("warnings", len(res.Warnings)))

	return res
}
