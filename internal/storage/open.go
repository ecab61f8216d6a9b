package storage

import (
	"context"
	"errors"
	"strings"

	"dayplan/internal/engine"
	logx "dayplan/pkg/logx"
)

// Store is the persistence API used by the replanning service.
type Store interface {
	LoadTasks(ctx context.Context) ([]engine.Task, error)
	SaveTasks(ctx context.Context, tasks []engine.Task) error
	UpdateStartDates(ctx context.Context, changes []DateChange) error
	AppendPlanLog(ctx context.Context, e PlanLogEntry) error
	Close() error
}

// Open initializes the configured store.
// It returns (nil, nil) if storage is disabled.
func Open(cfg Config, log logx.Logger) (Store, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" || driver == "none" {
		return nil, nil
	}
	if log.IsZero() {
		log = logx.Nop()
	}

	switch driver {
	case "file":
		return openFile(cfg, log)
	case "sqlite", "sqlite3":
		return openSQLite(cfg, log)
	default:
		return nil, errors.New("unknown storage driver: " + driver)
	}
}
