// Package engine implements dayplan's task-scheduling core.
//
// # Overview
//
// Given a snapshot of tasks with deadlines, estimated durations, and
// importance/urgency tags, AssignStartDates assigns each flexible task a
// calendar day such that per-day capacity limits (task count, per-category
// hours, total hours — each with separate weekday and weekend values) are
// respected. Deadline-driven tasks are still guaranteed a placement even when
// capacity must be exceeded; every capacity override is surfaced as a
// human-readable warning.
//
// Placement is greedy bin-packing in priority order with a bounded look-ahead
// window. The engine is synchronous and stateless between calls: each pass
// rebuilds its capacity ledger from the input snapshot. It performs no I/O and
// never panics on schedulable input; "failure" is an unscheduled task plus a
// warning, not an error.
//
// # Concurrency
//
// The Ledger is not safe for concurrent mutation. Callers must serialize
// AssignStartDates per user/session; see services/replan for the single-slot
// queue the daemon uses.
package engine
