package engine

import (
	"strings"
	"testing"
	"time"
)

func assignOpts() SchedulingOptions {
	return SchedulingOptions{
		Today:         monday,
		LookAheadDays: 90,
		DailyMaxTasks: CountLimit{Weekday: 4, Weekend: 4},
		DailyMaxHours: HoursLimit{Weekday: 8, Weekend: 8},
	}
}

func countByDate(tasks []Task) map[Day]int {
	m := map[Day]int{}
	for _, t := range tasks {
		m[t.StartDate]++
	}
	return m
}

func TestAssignOverflowToTomorrow(t *testing.T) {
	t.Parallel()
	// Six one-hour uncategorized tasks all due today on a weekday, cap 4/4:
	// four land today, two tomorrow, zero warnings.
	var tasks []Task
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		tasks = append(tasks, Task{ID: id, EstimatedHours: 1, DueDate: monday})
	}

	res := AssignStartDates(tasks, assignOpts())

	byDate := countByDate(res.Tasks)
	if byDate[monday] != 4 || byDate[tuesday] != 2 {
		t.Fatalf("placement = %v, want 4 today / 2 tomorrow", byDate)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("warnings = %v, want none", res.Warnings)
	}
}

func TestAssignCompletedTasksOccupyCapacity(t *testing.T) {
	t.Parallel()
	tasks := []Task{
		{ID: "done1", Completed: true, StartDate: monday, EstimatedHours: 1},
		{ID: "done2", Completed: true, StartDate: monday, EstimatedHours: 1},
	}
	for _, id := range []string{"a", "b", "c", "d"} {
		tasks = append(tasks, Task{ID: id, EstimatedHours: 1, DueDate: monday})
	}

	res := AssignStartDates(tasks, assignOpts())

	byDate := countByDate(res.Tasks)
	if byDate[monday] != 4 { // 2 completed + 2 new
		t.Fatalf("today count = %d, want 4", byDate[monday])
	}
	if byDate[tuesday] != 2 {
		t.Fatalf("tomorrow count = %d, want 2", byDate[tuesday])
	}
}

func TestAssignCategoryLimitPushesToTomorrow(t *testing.T) {
	t.Parallel()
	opts := assignOpts()
	opts.CategoryLimits = CategoryLimits{"Work": {Weekday: 6, Weekend: 6}}

	tasks := []Task{
		// Already placed for today via pin; seeds 6 Work hours.
		{ID: "big", Category: "Work", EstimatedHours: 6, PinnedDate: monday, StartDate: monday},
		{ID: "new", Category: "Work", EstimatedHours: 2, DueDate: monday},
	}

	res := AssignStartDates(tasks, opts)

	var placed Task
	for _, task := range res.Tasks {
		if task.ID == "new" {
			placed = task
		}
	}
	if placed.StartDate != tuesday {
		t.Fatalf("start date = %s, want tomorrow (6+2 > 6)", placed.StartDate)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("warnings = %v, want none (due date not yet missed)", res.Warnings)
	}
}

func TestAssignOverdueEndsOnToday(t *testing.T) {
	t.Parallel()
	// Today already at the count cap; the overdue task is still forced on.
	var tasks []Task
	for _, id := range []string{"a", "b", "c", "d"} {
		tasks = append(tasks, Task{ID: id, PinnedDate: monday, StartDate: monday, EstimatedHours: 1})
	}
	tasks = append(tasks, Task{ID: "late", Title: "late report", DueDate: monday.AddDays(-3), EstimatedHours: 1})

	res := AssignStartDates(tasks, assignOpts())

	var late Task
	for _, task := range res.Tasks {
		if task.ID == "late" {
			late = task
		}
	}
	if late.StartDate != monday {
		t.Fatalf("overdue task start = %s, want today", late.StartDate)
	}
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "overdue") && strings.Contains(w, "exceeds") {
			found = true
		}
	}
	if !found {
		t.Fatalf("warnings = %v, want an overdue/exceeds entry", res.Warnings)
	}
}

func TestAssignPriorityOrderRespected(t *testing.T) {
	t.Parallel()
	opts := assignOpts()
	opts.DailyMaxTasks = CountLimit{Weekday: 1, Weekend: 1}

	tasks := []Task{
		{ID: "low", Importance: NotImportant, Urgency: NotUrgent, EstimatedHours: 1, DueDate: monday.AddDays(2)},
		{ID: "high", Importance: Important, Urgency: Urgent, EstimatedHours: 1, DueDate: monday.AddDays(2)},
	}

	res := AssignStartDates(tasks, opts)

	dates := map[string]Day{}
	for _, task := range res.Tasks {
		dates[task.ID] = task.StartDate
	}
	if !(dates["high"] < dates["low"]) {
		t.Fatalf("high=%s low=%s: higher score must never get the later date", dates["high"], dates["low"])
	}
}

func TestAssignPinnedNeverMoves(t *testing.T) {
	t.Parallel()
	tasks := []Task{
		{ID: "pin", PinnedDate: monday, StartDate: monday, EstimatedHours: 2},
		{ID: "flex", EstimatedHours: 1, DueDate: monday},
	}

	res := AssignStartDates(tasks, assignOpts())

	for _, task := range res.Tasks {
		if task.ID == "pin" && task.StartDate != monday {
			t.Fatalf("pinned task moved to %s", task.StartDate)
		}
	}
	for _, r := range res.Rescheduled {
		if r.Task.ID == "pin" {
			t.Fatalf("pinned task appeared in reschedule diff: %+v", r)
		}
	}
}

func TestAssignIdempotent(t *testing.T) {
	t.Parallel()
	created := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	tasks := []Task{
		{ID: "a", EstimatedHours: 2, DueDate: monday.AddDays(1), Importance: Important, Urgency: Urgent, CreatedAt: created},
		{ID: "b", EstimatedHours: 3, DueDate: monday.AddDays(4), Importance: Important, CreatedAt: created},
		{ID: "c", EstimatedHours: 1, CreatedAt: created},
		{ID: "d", EstimatedHours: 1, DueDate: monday.AddDays(-1), CreatedAt: created},
		{ID: "done", Completed: true, StartDate: monday, EstimatedHours: 1},
		{ID: "pin", PinnedDate: monday, StartDate: monday, EstimatedHours: 1},
	}

	opts := assignOpts()
	first := AssignStartDates(tasks, opts)
	second := AssignStartDates(first.Tasks, opts)

	if len(second.Rescheduled) != 0 {
		t.Fatalf("second pass rescheduled %d tasks, want 0: %+v", len(second.Rescheduled), second.Rescheduled)
	}
}

func TestAssignNeverDropsFlexibleTasks(t *testing.T) {
	t.Parallel()
	opts := assignOpts()
	opts.LookAheadDays = 2
	opts.DailyMaxTasks = CountLimit{Weekday: 1, Weekend: 1}

	// Three undated tasks, one slot per day, two-day window: one task cannot
	// be placed but must still come back, with a warning.
	tasks := []Task{
		{ID: "a", EstimatedHours: 1},
		{ID: "b", EstimatedHours: 1},
		{ID: "c", EstimatedHours: 1},
	}

	res := AssignStartDates(tasks, opts)

	if len(res.Tasks) != 3 {
		t.Fatalf("got %d tasks back, want 3", len(res.Tasks))
	}
	unplaced := 0
	for _, task := range res.Tasks {
		if task.StartDate.IsZero() {
			unplaced++
		}
	}
	if unplaced != 1 {
		t.Fatalf("unplaced = %d, want 1", unplaced)
	}
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "could not be scheduled") {
			found = true
		}
	}
	if !found {
		t.Fatalf("warnings = %v, want an unschedulable entry", res.Warnings)
	}
}

func TestAssignDeduplicatesRecurring(t *testing.T) {
	t.Parallel()
	early := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	late := time.Date(2025, 3, 5, 8, 0, 0, 0, time.UTC)
	tasks := []Task{
		{ID: "r1", IsRecurring: true, RecurringSeriesID: "s", StartDate: tuesday, CreatedAt: early},
		{ID: "r2", IsRecurring: true, RecurringSeriesID: "s", StartDate: tuesday, CreatedAt: late},
	}

	res := AssignStartDates(tasks, assignOpts())

	if len(res.Tasks) != 1 || res.Tasks[0].ID != "r1" {
		t.Fatalf("tasks = %+v, want only the first-created instance", res.Tasks)
	}
}

func TestAssignRescheduleDiffOnlyChanged(t *testing.T) {
	t.Parallel()
	tasks := []Task{
		{ID: "stays", EstimatedHours: 1, StartDate: monday, DueDate: monday},
		{ID: "moves", EstimatedHours: 1, StartDate: "2025-02-01", DueDate: monday},
	}

	res := AssignStartDates(tasks, assignOpts())

	if len(res.Rescheduled) != 1 {
		t.Fatalf("rescheduled = %+v, want exactly the moved task", res.Rescheduled)
	}
	r := res.Rescheduled[0]
	if r.Task.ID != "moves" || r.OldDate != "2025-02-01" || r.NewDate != monday {
		t.Fatalf("diff = %+v", r)
	}
}
