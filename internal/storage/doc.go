package storage

// Package storage persists the task set and the planning run log.
//
// It currently supports:
//   - Task snapshots plus a start-date change journal
//   - Plan log appends (one record per planning run)
