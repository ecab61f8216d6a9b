package engine

import "fmt"

// SlotResult is the outcome of one placement attempt. A zero Date means "no
// placement". Warning, when set, is a human-readable string surfaced verbatim
// to the user.
type SlotResult struct {
	Date    Day
	Warning string
}

func (r SlotResult) found() bool { return !r.Date.IsZero() }

// findSlot searches forward day-by-day for the first date where all three
// capacity constraints hold.
//
// Phase one is bounded by the due date (inclusive) when the task has one that
// is not overdue; otherwise by the look-ahead window. If the due date
// truncated the search and phase one found nothing, phase two continues
// through the rest of the window and any hit there carries an after-due-date
// warning. Overdue tasks are special: they either fit on today or fail
// straight to the fallback, which forces them onto today — an overdue task
// must never drift forward. No fit anywhere returns the zero SlotResult, and
// the caller must invoke the deadline fallback.
func findSlot(t Task, ledger *Ledger, opts SchedulingOptions) SlotResult {
	lookAhead := opts.LookAheadDays

	maxOffset := lookAhead
	until := -1
	if !t.DueDate.IsZero() {
		until = opts.Today.DaysUntil(t.DueDate)
		if until < 0 {
			// Overdue work never floats forward: it lands on today, here if
			// capacity allows, otherwise forced by the fallback.
			if ledger.CanFit(opts.Today, t).CanFit {
				return SlotResult{Date: opts.Today}
			}
			return SlotResult{}
		}
		if until+1 < lookAhead {
			maxOffset = until + 1
		}
	}

	for off := 0; off < maxOffset; off++ {
		d := opts.Today.AddDays(off)
		if ledger.CanFit(d, t).CanFit {
			return SlotResult{Date: d}
		}
	}

	// Due date truncated the window: keep walking. A task due today that
	// spills to tomorrow is ordinary overflow; the after-due warning applies
	// only when a multi-day window was missed.
	for off := maxOffset; off < lookAhead; off++ {
		d := opts.Today.AddDays(off)
		if ledger.CanFit(d, t).CanFit {
			res := SlotResult{Date: d}
			if until > 0 {
				res.Warning = fmt.Sprintf("%q is scheduled for %s, after its due date %s (no capacity before)", t.Label(), d, t.DueDate)
			}
			return res
		}
	}

	return SlotResult{}
}

// fallbackSlot applies the deadline policy ladder once the regular slot search
// failed:
//
//  1. No due date: leave unscheduled.
//  2. Overdue: force today, whatever the limits say.
//  3. Due date with task-count room inside the window: place there; hour caps
//     may be exceeded.
//  4. First day at-or-after the due date (clamped to the window) with
//     task-count room: place there.
//  5. Nothing through the window: leave unscheduled.
//
// Every placement on this ladder overrides some capacity constraint and
// therefore always carries a warning.
func fallbackSlot(t Task, ledger *Ledger, opts SchedulingOptions) SlotResult {
	lookAhead := opts.LookAheadDays

	if t.DueDate.IsZero() {
		return SlotResult{
			Warning: fmt.Sprintf("%q could not be scheduled within the next %d days", t.Label(), lookAhead),
		}
	}

	until := opts.Today.DaysUntil(t.DueDate)

	if until < 0 {
		// Overdue work always lands on today. Distinguish the task-count
		// override from a pure hour-cap override in the message.
		if !ledger.HasTaskCountRoom(opts.Today) {
			return SlotResult{
				Date:    opts.Today,
				Warning: fmt.Sprintf("%q is overdue and was forced onto today, which exceeds the daily task limit", t.Label()),
			}
		}
		return SlotResult{
			Date:    opts.Today,
			Warning: fmt.Sprintf("%q is overdue and was forced onto today, which exceeds the daily hour limits", t.Label()),
		}
	}

	// Not overdue: try the due date itself first. Hour caps are soft here;
	// the task-count cap stays a hard floor unless policy lifts it.
	if until < lookAhead {
		if opts.Fallback.AllowTaskCountOverflow || ledger.HasTaskCountRoom(t.DueDate) {
			return SlotResult{
				Date:    t.DueDate,
				Warning: fmt.Sprintf("%q was placed on its due date %s and may exceed capacity limits", t.Label(), t.DueDate),
			}
		}
	}

	// Walk forward from the due date (or from the window's edge when the due
	// date lies beyond it), checking only the task-count cap.
	start := until
	if start > lookAhead {
		start = lookAhead
	}
	for off := start; off <= lookAhead; off++ {
		d := opts.Today.AddDays(off)
		if ledger.HasTaskCountRoom(d) {
			return SlotResult{
				Date:    d,
				Warning: fmt.Sprintf("%q was scheduled for %s because its due date %s is full", t.Label(), d, t.DueDate),
			}
		}
	}

	return SlotResult{
		Warning: fmt.Sprintf("%q could not be scheduled within the next %d days", t.Label(), lookAhead),
	}
}
