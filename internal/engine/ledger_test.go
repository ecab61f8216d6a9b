package engine

import (
	"strings"
	"testing"
)

const (
	monday   = Day("2025-03-10")
	tuesday  = Day("2025-03-11")
	saturday = Day("2025-03-15")
)

func testLedger() *Ledger {
	return NewLedger(
		CountLimit{Weekday: 4, Weekend: 2},
		HoursLimit{Weekday: 8, Weekend: 4},
		CategoryLimits{"work": {Weekday: 6, Weekend: 2}},
	)
}

func TestLedgerCanFitEmpty(t *testing.T) {
	t.Parallel()
	l := testLedger()
	res := l.CanFit(monday, Task{ID: "a", Category: "work", EstimatedHours: 2})
	if !res.CanFit {
		t.Fatalf("expected fit on empty ledger, reasons: %v", res.Reasons)
	}
	if res.MaxTasks != 4 || res.CategoryLimit != 6 || res.DailyLimit != 8 {
		t.Fatalf("unexpected limits: %+v", res)
	}
}

func TestLedgerWeekendLimits(t *testing.T) {
	t.Parallel()
	l := testLedger()
	res := l.CanFit(saturday, Task{ID: "a", Category: "work", EstimatedHours: 1})
	if res.MaxTasks != 2 || res.CategoryLimit != 2 || res.DailyLimit != 4 {
		t.Fatalf("weekend limits not selected: %+v", res)
	}
}

func TestLedgerTaskCountCap(t *testing.T) {
	t.Parallel()
	l := testLedger()
	for i := 0; i < 4; i++ {
		l.Reserve(monday, Task{ID: "x", EstimatedHours: 0.5})
	}
	res := l.CanFit(monday, Task{ID: "a", EstimatedHours: 0.5})
	if res.CanFit {
		t.Fatal("expected task-count rejection")
	}
	if len(res.Reasons) != 1 || !strings.Contains(res.Reasons[0], "task count") {
		t.Fatalf("unexpected reasons: %v", res.Reasons)
	}
}

func TestLedgerCategoryCap(t *testing.T) {
	t.Parallel()
	l := testLedger()
	l.Reserve(monday, Task{ID: "x", Category: "work", EstimatedHours: 6})
	res := l.CanFit(monday, Task{ID: "a", Category: "work", EstimatedHours: 2})
	if res.CanFit {
		t.Fatal("expected category-hours rejection (6+2 > 6)")
	}
	// An unconfigured category falls back to the daily limit instead.
	res = l.CanFit(monday, Task{ID: "b", Category: "errands", EstimatedHours: 2})
	if !res.CanFit {
		t.Fatalf("expected fit via daily-limit fallback, reasons: %v", res.Reasons)
	}
	if res.CategoryLimit != 8 {
		t.Fatalf("category fallback limit = %v, want 8", res.CategoryLimit)
	}
}

func TestLedgerTotalHoursCap(t *testing.T) {
	t.Parallel()
	l := testLedger()
	l.Reserve(monday, Task{ID: "x", Category: "home", EstimatedHours: 7})
	res := l.CanFit(monday, Task{ID: "a", Category: "errands", EstimatedHours: 2})
	if res.CanFit {
		t.Fatal("expected total-hours rejection (7+2 > 8)")
	}
}

func TestLedgerReasonsListAllViolations(t *testing.T) {
	t.Parallel()
	l := testLedger()
	for i := 0; i < 4; i++ {
		l.Reserve(monday, Task{ID: "x", Category: "work", EstimatedHours: 2})
	}
	res := l.CanFit(monday, Task{ID: "a", Category: "work", EstimatedHours: 2})
	if res.CanFit {
		t.Fatal("expected rejection")
	}
	if len(res.Reasons) != 3 {
		t.Fatalf("expected all three constraints reported, got %v", res.Reasons)
	}
}

func TestLedgerReserveRelease(t *testing.T) {
	t.Parallel()
	l := testLedger()
	task := Task{ID: "a", Category: "work", EstimatedHours: 3, StartDate: monday}
	l.Reserve(monday, task)
	if l.TaskCount(monday) != 1 || l.TotalHours(monday) != 3 || l.CategoryHours(monday, "work") != 3 {
		t.Fatalf("reserve did not update counters")
	}
	l.Release(task)
	if l.TaskCount(monday) != 0 || l.TotalHours(monday) != 0 || l.CategoryHours(monday, "work") != 0 {
		t.Fatalf("release did not restore counters")
	}
}

func TestLedgerReleaseNeverGoesNegative(t *testing.T) {
	t.Parallel()
	l := testLedger()
	task := Task{ID: "a", Category: "work", EstimatedHours: 3, StartDate: monday}
	l.Release(task)
	l.Release(task)
	if l.TaskCount(monday) != 0 || l.TotalHours(monday) != 0 || l.CategoryHours(monday, "work") != 0 {
		t.Fatalf("counters went negative: count=%d hours=%v", l.TaskCount(monday), l.TotalHours(monday))
	}
	// No start date: no-op.
	l.Release(Task{ID: "b", EstimatedHours: 2})
	if l.TaskCount("") != 0 {
		t.Fatal("release without start date mutated the ledger")
	}
}

func TestLedgerSeedSkipsUnplaced(t *testing.T) {
	t.Parallel()
	l := testLedger()
	l.Seed([]Task{
		{ID: "a", EstimatedHours: 1, StartDate: monday},
		{ID: "b", EstimatedHours: 1}, // no start date
	})
	if l.TaskCount(monday) != 1 {
		t.Fatalf("TaskCount = %d, want 1", l.TaskCount(monday))
	}
}

func TestLedgerUncategorizedBucket(t *testing.T) {
	t.Parallel()
	l := testLedger()
	l.Reserve(monday, Task{ID: "a", EstimatedHours: 2})
	if got := l.CategoryHours(monday, UncategorizedKey); got != 2 {
		t.Fatalf("uncategorized hours = %v, want 2", got)
	}
}
