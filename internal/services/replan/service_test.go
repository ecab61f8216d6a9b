package replan

import (
	"context"
	"sync"
	"testing"
	"time"

	"dayplan/internal/engine"
	"dayplan/internal/storage"
	logx "dayplan/pkg/logx"
)

type fakeStore struct {
	mu      sync.Mutex
	tasks   []engine.Task
	saves   int
	updates [][]storage.DateChange
	planLog []storage.PlanLogEntry
}

func (f *fakeStore) LoadTasks(ctx context.Context) ([]engine.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]engine.Task, len(f.tasks))
	copy(out, f.tasks)
	return out, nil
}

func (f *fakeStore) SaveTasks(ctx context.Context, tasks []engine.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = make([]engine.Task, len(tasks))
	copy(f.tasks, tasks)
	f.saves++
	return nil
}

func (f *fakeStore) UpdateStartDates(ctx context.Context, changes []storage.DateChange) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	byID := map[string]int{}
	for i, t := range f.tasks {
		byID[t.ID] = i
	}
	for _, c := range changes {
		if i, ok := byID[c.TaskID]; ok {
			f.tasks[i].StartDate = c.NewDate
		}
	}
	f.updates = append(f.updates, changes)
	return nil
}

func (f *fakeStore) AppendPlanLog(ctx context.Context, e storage.PlanLogEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.planLog = append(f.planLog, e)
	return nil
}

func (f *fakeStore) Close() error { return nil }

func testConfig() Config {
	return Config{
		Enabled: true,
		DailyAt: "00:05",
		Planner: PlannerOptions{LookAheadDays: 14},
	}
}

func TestRunOncePlacesAndJournals(t *testing.T) {
	t.Parallel()
	st := &fakeStore{tasks: []engine.Task{
		{ID: "a", Title: "write report", EstimatedHours: 2},
		{ID: "b", Title: "review", EstimatedHours: 1},
	}}
	s := New(testConfig(), st, nil, logx.Nop())

	s.runOnce(context.Background(), TriggerDemand)

	st.mu.Lock()
	defer st.mu.Unlock()
	if st.saves != 0 {
		t.Fatalf("saves = %d, want journal-only persistence for a pure reshuffle", st.saves)
	}
	if len(st.updates) != 1 || len(st.updates[0]) != 2 {
		t.Fatalf("updates = %+v, want one batch of two changes", st.updates)
	}
	for _, task := range st.tasks {
		if task.StartDate.IsZero() {
			t.Fatalf("task %s still unplaced", task.ID)
		}
	}
	if len(st.planLog) != 1 || st.planLog[0].Trigger != TriggerDemand {
		t.Fatalf("plan log = %+v", st.planLog)
	}
}

func TestRunOnceSpawnsNextInstance(t *testing.T) {
	t.Parallel()
	st := &fakeStore{tasks: []engine.Task{{
		ID:                "r1",
		IsRecurring:       true,
		RecurringSeriesID: "s1",
		RecurringInterval: engine.RecurDaily,
		DueDate:           "2025-03-10",
		StartDate:         "2025-03-10",
		Completed:         true,
		CompletedAt:       time.Now(),
	}}}
	s := New(testConfig(), st, nil, logx.Nop())

	s.runOnce(context.Background(), TriggerDaily)

	st.mu.Lock()
	if st.saves != 1 {
		t.Fatalf("saves = %d, want full snapshot after new instances", st.saves)
	}
	if len(st.tasks) != 2 {
		t.Fatalf("tasks = %+v, want original plus spawned instance", st.tasks)
	}
	st.mu.Unlock()

	// A second pass must not spawn the same instance again.
	s.runOnce(context.Background(), TriggerDaily)
	st.mu.Lock()
	defer st.mu.Unlock()
	if len(st.tasks) != 2 {
		t.Fatalf("second pass duplicated the instance: %+v", st.tasks)
	}
}

func TestRunOnceIdempotentSecondPass(t *testing.T) {
	t.Parallel()
	st := &fakeStore{tasks: []engine.Task{
		{ID: "a", EstimatedHours: 2, DueDate: engine.Today(nil).AddDays(3)},
	}}
	s := New(testConfig(), st, nil, logx.Nop())

	s.runOnce(context.Background(), TriggerStartup)
	s.runOnce(context.Background(), TriggerDaily)

	st.mu.Lock()
	defer st.mu.Unlock()
	if len(st.planLog) != 2 {
		t.Fatalf("plan log = %+v", st.planLog)
	}
	if st.planLog[1].Rescheduled != 0 {
		t.Fatalf("second pass rescheduled %d, want 0", st.planLog[1].Rescheduled)
	}
}

func TestExpandRecurringInitialWeeks(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)
	tasks := []engine.Task{{
		ID:                "base",
		IsRecurring:       true,
		RecurringSeriesID: "s1",
		RecurringInterval: engine.RecurWeekly,
		RecurringDays:     []int{1},
		DueDate:           "2025-03-10",
		StartDate:         "2025-03-10",
	}}

	added := expandRecurring(tasks, 2, now)
	if len(added) != 2 { // two Mondays in the next two weeks
		t.Fatalf("added = %+v, want 2 instances", added)
	}

	// With the instances present, nothing more is spawned.
	again := expandRecurring(append(tasks, added...), 2, now)
	if len(again) != 0 {
		t.Fatalf("re-expansion added %+v", again)
	}
}

func TestExpandRecurringSkipsUntagged(t *testing.T) {
	t.Parallel()
	now := time.Now()
	tasks := []engine.Task{{
		ID:                "r1",
		IsRecurring:       true,
		RecurringInterval: engine.RecurDaily,
		DueDate:           "2025-03-10",
		Completed:         true,
	}}
	if added := expandRecurring(tasks, 4, now); len(added) != 0 {
		t.Fatalf("untagged series expanded: %+v", added)
	}
}

func TestTriggerLifecycle(t *testing.T) {
	t.Parallel()
	st := &fakeStore{}
	cfg := testConfig()
	cfg.MinInterval = time.Hour
	s := New(cfg, st, nil, logx.Nop())

	if s.Trigger() {
		t.Fatal("trigger accepted before start")
	}

	ctx := context.Background()
	s.Start(ctx)
	defer s.Stop(ctx)

	if !s.Trigger() {
		t.Fatal("first trigger rejected")
	}
	if s.Trigger() {
		t.Fatal("second trigger not rate-limited")
	}
	if snap := s.Snapshot(); !snap.Running {
		t.Fatalf("snapshot = %+v, want running", snap)
	}
}

func TestDailySpec(t *testing.T) {
	t.Parallel()
	spec, err := dailySpec("23:45")
	if err != nil || spec != "45 23 * * *" {
		t.Fatalf("spec = %q err = %v", spec, err)
	}
	if _, err := dailySpec("midnight"); err == nil {
		t.Fatal("bad time accepted")
	}
}
