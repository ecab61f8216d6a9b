package engine

import "fmt"

// Ledger is the per-date capacity bookkeeping for one scheduling pass.
//
// It tracks three counters per calendar day: task count, hours per category,
// and total hours. It is rebuilt from scratch every pass and is the single
// source of truth for "is there room" queries — the slot search must consult
// it, never recompute capacity on its own.
//
// Not safe for concurrent mutation.
type Ledger struct {
	maxTasks  CountLimit
	maxHours  HoursLimit
	catLimits CategoryLimits

	taskCount  map[Day]int
	catHours   map[Day]map[string]float64
	totalHours map[Day]float64
}

// CapacityCheckResult reports whether a task fits on a date, with the counter
// and limit values that went into the decision for diagnostics.
type CapacityCheckResult struct {
	CanFit bool

	TaskCount     int
	CategoryHours float64
	TotalHours    float64

	MaxTasks      int
	CategoryLimit float64
	DailyLimit    float64

	// Reasons lists every violated constraint with current/attempted values.
	Reasons []string
}

// NewLedger builds an empty ledger with the given limits.
func NewLedger(maxTasks CountLimit, maxHours HoursLimit, catLimits CategoryLimits) *Ledger {
	return &Ledger{
		maxTasks:   maxTasks,
		maxHours:   maxHours,
		catLimits:  catLimits,
		taskCount:  map[Day]int{},
		catHours:   map[Day]map[string]float64{},
		totalHours: map[Day]float64{},
	}
}

// categoryLimitFor resolves the hour budget for a category on a date.
// Unconfigured categories fall back to the day's total-hour limit.
func (l *Ledger) categoryLimitFor(d Day, category string) float64 {
	if lim, ok := l.catLimits[category]; ok {
		return lim.For(d)
	}
	return l.maxHours.For(d)
}

// Seed reserves capacity for a batch of already-placed tasks. Tasks without a
// start date are skipped.
func (l *Ledger) Seed(tasks []Task) {
	for _, t := range tasks {
		if t.StartDate.IsZero() {
			continue
		}
		l.Reserve(t.StartDate, t)
	}
}

// CanFit reports whether the task fits on date without violating any of the
// three capacity constraints. It is a pure read; counters are not modified.
func (l *Ledger) CanFit(date Day, t Task) CapacityCheckResult {
	cat := t.CategoryKey()
	res := CapacityCheckResult{
		TaskCount:     l.taskCount[date],
		CategoryHours: l.catHours[date][cat],
		TotalHours:    l.totalHours[date],
		MaxTasks:      l.maxTasks.For(date),
		CategoryLimit: l.categoryLimitFor(date, cat),
		DailyLimit:    l.maxHours.For(date),
	}

	if res.TaskCount >= res.MaxTasks {
		res.Reasons = append(res.Reasons,
			fmt.Sprintf("task count %d at daily limit %d", res.TaskCount, res.MaxTasks))
	}
	if res.CategoryHours+t.EstimatedHours > res.CategoryLimit {
		res.Reasons = append(res.Reasons,
			fmt.Sprintf("category %q hours %.2g+%.2g over limit %.2g", cat, res.CategoryHours, t.EstimatedHours, res.CategoryLimit))
	}
	if res.TotalHours+t.EstimatedHours > res.DailyLimit {
		res.Reasons = append(res.Reasons,
			fmt.Sprintf("total hours %.2g+%.2g over daily limit %.2g", res.TotalHours, t.EstimatedHours, res.DailyLimit))
	}

	res.CanFit = len(res.Reasons) == 0
	return res
}

// HasTaskCountRoom checks only the task-count constraint. The deadline
// fallback uses it when hour caps have gone soft.
func (l *Ledger) HasTaskCountRoom(date Day) bool {
	return l.taskCount[date] < l.maxTasks.For(date)
}

// Reserve commits the task's footprint to date. It does not check limits;
// forced placements may push counters past them.
func (l *Ledger) Reserve(date Day, t Task) {
	if date.IsZero() {
		return
	}
	l.taskCount[date]++
	ch := l.catHours[date]
	if ch == nil {
		ch = map[string]float64{}
		l.catHours[date] = ch
	}
	ch[t.CategoryKey()] += t.EstimatedHours
	l.totalHours[date] += t.EstimatedHours
}

// Release returns the task's footprint on its start date. It is a no-op when
// the task has no start date, and counters never go negative.
func (l *Ledger) Release(t Task) {
	date := t.StartDate
	if date.IsZero() {
		return
	}
	if l.taskCount[date] > 0 {
		l.taskCount[date]--
	}
	cat := t.CategoryKey()
	if ch := l.catHours[date]; ch != nil {
		ch[cat] -= t.EstimatedHours
		if ch[cat] < 0 {
			ch[cat] = 0
		}
	}
	l.totalHours[date] -= t.EstimatedHours
	if l.totalHours[date] < 0 {
		l.totalHours[date] = 0
	}
}

// TaskCount returns the committed task count for date.
func (l *Ledger) TaskCount(date Day) int { return l.taskCount[date] }

// TotalHours returns the committed hours for date.
func (l *Ledger) TotalHours(date Day) float64 { return l.totalHours[date] }

// CategoryHours returns the committed hours for a category on date.
func (l *Ledger) CategoryHours(date Day, category string) float64 {
	return l.catHours[date][category]
}
