package engine

import (
	"fmt"
	"time"
)

// NextInstance computes the follow-up occurrence of a completed recurring
// task. It returns false when the task is not recurring, when the series has
// reached its end count, or when no due date exists to step from.
//
// The produced instance is incomplete, has its start date pinned to the new
// due date (recurring instances always live on their due date), and carries
// the series counter incremented by one. now stamps the instance's creation
// time; the computation itself depends only on the task's fields.
func NextInstance(t Task, now time.Time) (Task, bool) {
	if !t.IsRecurring {
		return Task{}, false
	}
	if t.RecurringEndType == RecurEndAfter && t.RecurringCurrentCount >= t.RecurringEndCount {
		return Task{}, false
	}
	if t.DueDate.IsZero() {
		return Task{}, false
	}

	var next Day
	switch t.RecurringInterval {
	case RecurDaily:
		next = t.DueDate.AddDays(1)
	case RecurWeekly:
		delta, ok := nextWeekdayDelta(t.DueDate.Weekday(), t.RecurringDays)
		if !ok {
			return Task{}, false
		}
		next = t.DueDate.AddDays(delta)
	case RecurMonthly:
		next = nextMonthSameDay(t.DueDate)
	default:
		return Task{}, false
	}

	return instantiate(t, next, now), true
}

// InitialInstances expands a brand-new weekly recurring definition into its
// occurrences over the next weeksAhead weeks. It walks day-by-day from the day
// after the base due date (the base task itself covers that day) and emits one
// instance per matching weekday, stopping early when an "end after N" series
// reaches its count.
//
// Non-weekly patterns and empty weekday sets yield nil: daily and monthly
// series grow one occurrence at a time through NextInstance.
func InitialInstances(base Task, weeksAhead int, now time.Time) []Task {
	if !base.IsRecurring || base.RecurringInterval != RecurWeekly || len(base.RecurringDays) == 0 {
		return nil
	}
	if base.DueDate.IsZero() {
		return nil
	}
	if weeksAhead <= 0 {
		weeksAhead = DefaultInitialWeeks
	}

	match := map[time.Weekday]bool{}
	for _, wd := range base.RecurringDays {
		if wd >= 0 && wd <= 6 {
			match[time.Weekday(wd)] = true
		}
	}

	var out []Task
	count := base.RecurringCurrentCount
	end := base.DueDate.AddDays(7 * weeksAhead)
	for d := base.DueDate.AddDays(1); !end.Before(d); d = d.AddDays(1) {
		if !match[d.Weekday()] {
			continue
		}
		if base.RecurringEndType == RecurEndAfter && count >= base.RecurringEndCount {
			break
		}
		count++
		inst := instantiate(base, d, now)
		inst.RecurringCurrentCount = count
		inst.ID = instanceID(base, count)
		out = append(out, inst)
	}
	return out
}

// instantiate builds the follow-up task for a series occurrence on due.
func instantiate(t Task, due Day, now time.Time) Task {
	next := t
	next.ID = instanceID(t, t.RecurringCurrentCount+1)
	next.Completed = false
	next.CompletedAt = time.Time{}
	next.DueDate = due
	next.StartDate = due
	next.RecurringCurrentCount = t.RecurringCurrentCount + 1
	next.CreatedAt = now
	return next
}

// instanceID derives a stable identifier for the n-th occurrence of a series.
func instanceID(t Task, n int) string {
	series := t.RecurringSeriesID
	if series == "" {
		series = t.ID
	}
	return fmt.Sprintf("%s#%d", series, n)
}

// nextWeekdayDelta returns how many days ahead the next scheduled weekday
// lies, strictly after cur, wrapping to next week's earliest configured day.
// Returns false when days has no valid weekday indices.
func nextWeekdayDelta(cur time.Weekday, days []int) (int, bool) {
	best := 0
	found := false
	for _, wd := range days {
		if wd < 0 || wd > 6 {
			continue
		}
		delta := (wd - int(cur) + 7) % 7
		if delta == 0 {
			delta = 7 // same weekday repeats next week
		}
		if !found || delta < best {
			best = delta
			found = true
		}
	}
	return best, found
}

// nextMonthSameDay steps to the same day-of-month next month, clamping to the
// target month's length (Jan 31 → Feb 28/29).
func nextMonthSameDay(d Day) Day {
	t := d.Time()
	if t.IsZero() {
		return d
	}
	y, m, day := t.Date()
	first := time.Date(y, m+1, 1, 0, 0, 0, 0, time.UTC)
	if last := daysInMonth(first.Year(), first.Month()); day > last {
		day = last
	}
	return DayOf(time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC))
}

func daysInMonth(year int, month time.Month) int {
	// Day 0 of the following month is this month's last day.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
