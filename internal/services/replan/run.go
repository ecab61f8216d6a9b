package replan

import (
	"context"
	"time"

	"dayplan/internal/engine"
	"dayplan/internal/eventbus"
	"dayplan/internal/storage"
	logx "dayplan/pkg/logx"
)

// runOnce executes one full pass: load, expand recurrences, assign, persist.
func (s *Service) runOnce(ctx context.Context, trigger string) {
	start := time.Now()
	s.mu.Lock()
	cfg := s.cfg
	loc := s.loc
	s.mu.Unlock()
	if loc == nil {
		loc = time.Local
	}

	tasks, err := s.store.LoadTasks(ctx)
	if err != nil {
		s.log.Error("task load failed; pass skipped", logx.String("trigger", trigger), logx.Any("err", err))
		return
	}

	if s.bus != nil {
		s.bus.Publish(eventbus.Event{Type: eventbus.TypePlanStarted, Data: trigger})
	}

	now := time.Now().In(loc)
	added := expandRecurring(tasks, cfg.Planner.InitialWeeks, now)
	tasks = append(tasks, added...)

	res := engine.AssignStartDates(tasks, engine.SchedulingOptions{
		Today:          engine.Today(loc),
		LookAheadDays:  cfg.Planner.LookAheadDays,
		CategoryLimits: cfg.Planner.CategoryLimits,
		DailyMaxHours:  cfg.Planner.DailyMaxHours,
		DailyMaxTasks:  cfg.Planner.DailyMaxTasks,
		Fallback:       cfg.Planner.Fallback,
		Log:            s.log,
	})

	// New instances or dropped duplicates change the set: write the whole
	// snapshot. A pure reshuffle only journals the moved dates.
	switch {
	case len(added) > 0 || len(res.Tasks) != len(tasks):
		err = s.store.SaveTasks(ctx, res.Tasks)
	case len(res.Rescheduled) > 0:
		changes := make([]storage.DateChange, len(res.Rescheduled))
		for i, r := range res.Rescheduled {
			changes[i] = storage.DateChange{TaskID: r.Task.ID, OldDate: r.OldDate, NewDate: r.NewDate}
		}
		err = s.store.UpdateStartDates(ctx, changes)
	}
	if err != nil {
		s.log.Error("persisting pass results failed", logx.String("trigger", trigger), logx.Any("err", err))
	}

	unscheduled := 0
	for _, t := range res.Tasks {
		if !t.Completed && t.StartDate.IsZero() {
			unscheduled++
		}
	}

	took := time.Since(start)
	logErr := s.store.AppendPlanLog(ctx, storage.PlanLogEntry{
		At:          now,
		Trigger:     trigger,
		TaskCount:   len(res.Tasks),
		Rescheduled: len(res.Rescheduled),
		Unscheduled: unscheduled,
		Warnings:    res.Warnings,
		TookMS:      took.Milliseconds(),
	})
	if logErr != nil {
		s.log.Warn("plan log append failed", logx.Any("err", logErr))
	}

	done := eventbus.PlanCompleted{
		Trigger:     trigger,
		TaskCount:   len(res.Tasks),
		Rescheduled: len(res.Rescheduled),
		Unscheduled: unscheduled,
		Warnings:    res.Warnings,
		Took:        took,
	}
	if s.bus != nil {
		s.bus.Publish(eventbus.Event{Type: eventbus.TypePlanCompleted, Data: done})
	}

	s.mu.Lock()
	s.runs++
	s.last = Snapshot{LastRun: now, LastTrigger: trigger, LastResult: done}
	s.mu.Unlock()

	s.log.Info("replan pass finished",
		logx.String("trigger", trigger),
		logx.Int("tasks", done.TaskCount),
		logx.Int("new_instances", len(added)),
		logx.Int("rescheduled", done.Rescheduled),
		logx.Int("unscheduled", done.Unscheduled),
		logx.Int("warnings", len(done.Warnings)),
		logx.Duration("took", took))
}

// expandRecurring returns the recurring instances the stored set is missing:
// the follow-up occurrence of every completed series member, plus the initial
// weeks of occurrences for a weekly definition that has no instances yet.
// Instances already present (same series, same date) are not re-added.
func expandRecurring(tasks []engine.Task, weeks int, now time.Time) []engine.Task {
	seen := map[string]bool{}
	members := map[string]int{}
	for _, t := range tasks {
		sid := t.RecurringSeriesID
		if sid == "" {
			continue
		}
		members[sid]++
		if !t.StartDate.IsZero() {
			seen[sid+"|"+string(t.StartDate)] = true
		}
	}

	var added []engine.Task
	add := func(inst engine.Task) {
		key := inst.RecurringSeriesID + "|" + string(inst.StartDate)
		if seen[key] {
			return
		}
		seen[key] = true
		added = append(added, inst)
	}

	for _, t := range tasks {
		// Series membership is keyed by id; untagged tasks cannot be
		// deduplicated across passes and are left alone.
		if !t.IsRecurring || t.RecurringSeriesID == "" {
			continue
		}
		if t.Completed {
			if inst, ok := engine.NextInstance(t, now); ok {
				add(inst)
			}
			continue
		}
		// A weekly definition whose series has no other members yet gets its
		// first weeks of occurrences up front.
		if t.RecurringInterval == engine.RecurWeekly && members[t.RecurringSeriesID] <= 1 {
			for _, inst := range engine.InitialInstances(t, weeks, now) {
				add(inst)
			}
		}
	}
	return added
}
