package engine

import (
	"testing"
	"time"
)

func TestPartitionRouting(t *testing.T) {
	t.Parallel()
	today := Day("2025-03-10")
	tasks := []Task{
		{ID: "done", Completed: true, IsRecurring: true}, // completed wins over recurring
		{ID: "recur", IsRecurring: true},
		{ID: "pin-today", PinnedDate: today},
		{ID: "pin-later", PinnedDate: "2025-03-12"}, // pinned on another day is flexible today
		{ID: "flex"},
	}
	p := PartitionTasks(tasks, today)

	if len(p.Completed) != 1 || p.Completed[0].ID != "done" {
		t.Fatalf("completed = %+v", p.Completed)
	}
	if len(p.Recurring) != 1 || p.Recurring[0].ID != "recur" {
		t.Fatalf("recurring = %+v", p.Recurring)
	}
	if len(p.Pinned) != 1 || p.Pinned[0].ID != "pin-today" {
		t.Fatalf("pinned = %+v", p.Pinned)
	}
	if len(p.ToSchedule) != 2 {
		t.Fatalf("toSchedule = %+v", p.ToSchedule)
	}
}

func TestDeduplicateRecurringFirstCreatedWins(t *testing.T) {
	t.Parallel()
	early := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	late := time.Date(2025, 3, 5, 8, 0, 0, 0, time.UTC)

	tasks := []Task{
		{ID: "b", RecurringSeriesID: "s1", StartDate: "2025-03-12", CreatedAt: late},
		{ID: "a", RecurringSeriesID: "s1", StartDate: "2025-03-12", CreatedAt: early},
		{ID: "c", RecurringSeriesID: "s1", StartDate: "2025-03-13", CreatedAt: late}, // different date, no collision
		{ID: "d", RecurringSeriesID: "s2", StartDate: "2025-03-12", CreatedAt: late}, // different series
	}
	kept, removed := DeduplicateRecurring(tasks)

	if len(kept) != 3 {
		t.Fatalf("kept %d tasks, want 3: %+v", len(kept), kept)
	}
	if kept[0].ID != "a" {
		t.Fatalf("expected first-created instance kept in place, got %q", kept[0].ID)
	}
	if len(removed) != 1 || removed[0].ID != "b" {
		t.Fatalf("removed = %+v, want [b]", removed)
	}
}

func TestDeduplicateRecurringIgnoresUnplaced(t *testing.T) {
	t.Parallel()
	tasks := []Task{
		{ID: "a", RecurringSeriesID: "s1"}, // no start date
		{ID: "b", RecurringSeriesID: "s1"},
		{ID: "c", StartDate: "2025-03-12"}, // no series id
		{ID: "d", StartDate: "2025-03-12"},
	}
	kept, removed := DeduplicateRecurring(tasks)
	if len(kept) != 4 || len(removed) != 0 {
		t.Fatalf("kept=%d removed=%d, want 4/0", len(kept), len(removed))
	}
}
