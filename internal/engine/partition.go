package engine

// Partition splits the task set into the fixed groups (whose start dates are
// authoritative input) and the flexible group that needs a new date.
type Partition struct {
	Completed  []Task
	Recurring  []Task
	Pinned     []Task
	ToSchedule []Task
}

// PartitionTasks routes each task into exactly one group. Order of checks
// matters: completed wins regardless of recurrence, recurring-and-incomplete
// next, then pinned-for-today; everything else is flexible.
func PartitionTasks(tasks []Task, today Day) Partition {
	var p Partition
	for _, t := range tasks {
		switch {
		case t.Completed:
			p.Completed = append(p.Completed, t)
		case t.IsRecurring:
			p.Recurring = append(p.Recurring, t)
		case !t.PinnedDate.IsZero() && t.PinnedDate == today:
			p.Pinned = append(p.Pinned, t)
		default:
			p.ToSchedule = append(p.ToSchedule, t)
		}
	}
	return p
}

// DeduplicateRecurring collapses stored instances of the same recurring series
// that landed on the same date, keeping the first-created instance. The
// discarded duplicates are returned so the caller can report them.
//
// Input order is preserved for the kept tasks.
func DeduplicateRecurring(tasks []Task) (kept []Task, removed []Task) {
	type slot struct {
		idx int // position in kept
	}
	seen := map[string]slot{}

	for _, t := range tasks {
		// Only concrete, series-tagged instances can collide.
		if t.RecurringSeriesID == "" || t.StartDate.IsZero() {
			kept = append(kept, t)
			continue
		}
		key := string(t.StartDate) + "|" + t.RecurringSeriesID
		prev, ok := seen[key]
		if !ok {
			seen[key] = slot{idx: len(kept)}
			kept = append(kept, t)
			continue
		}
		// Collision: first-created wins. Ties keep the earlier input entry.
		if t.CreatedAt.Before(kept[prev.idx].CreatedAt) {
			removed = append(removed, kept[prev.idx])
			kept[prev.idx] = t
		} else {
			removed = append(removed, t)
		}
	}
	return kept, removed
}
