package app

import (
	"fmt"
	"strings"
	"time"

	"dayplan/internal/config"
	"dayplan/internal/engine"
	"dayplan/internal/services/replan"
	"dayplan/internal/storage"
	logx "dayplan/pkg/logx"
)

// defaultStorePath is used when the storage section is omitted entirely.
const defaultStorePath = "./dayplan_store"

func mapLogConfig(cfg *config.Config) logx.Config {
	return logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	}
}

func mapStorageConfig(cfg *config.Config) (storage.Config, error) {
	if cfg.Storage == nil {
		return storage.Config{Driver: "file", Path: defaultStorePath}, nil
	}
	sc := cfg.Storage
	driver := strings.ToLower(strings.TrimSpace(sc.Driver))
	path := strings.TrimSpace(sc.Path)

	switch driver {
	case "", "file":
		if path == "" {
			path = defaultStorePath
		}
		return storage.Config{Driver: "file", Path: path}, nil
	case "sqlite", "sqlite3":
		if path == "" {
			return storage.Config{}, fmt.Errorf("storage.path is required when storage.driver=sqlite")
		}
		busy, err := config.ParseDurationOrDefault("storage.busy_timeout", sc.BusyTimeout, 1*time.Second)
		if err != nil {
			return storage.Config{}, err
		}
		return storage.Config{Driver: driver, Path: path, BusyTimeout: busy}, nil
	default:
		return storage.Config{}, fmt.Errorf("unknown storage.driver: %s", sc.Driver)
	}
}

func mapReplanConfig(cfg *config.Config) (replan.Config, error) {
	minInterval, err := config.ParseDurationOrDefault("replan.min_interval", cfg.Replan.MinInterval, 30*time.Second)
	if err != nil {
		return replan.Config{}, err
	}

	var cats engine.CategoryLimits
	if len(cfg.Planner.Categories) > 0 {
		cats = make(engine.CategoryLimits, len(cfg.Planner.Categories))
		for name, hp := range cfg.Planner.Categories {
			cats[name] = engine.HoursLimit{Weekday: hp.Weekday, Weekend: hp.Weekend}
		}
	}

	return replan.Config{
		Enabled:     cfg.Replan.Enabled == nil || *cfg.Replan.Enabled,
		DailyAt:     cfg.Replan.DailyAt,
		MinInterval: minInterval,
		Planner: replan.PlannerOptions{
			LookAheadDays:  cfg.Planner.LookAheadDays,
			DailyMaxTasks:  engine.CountLimit{Weekday: cfg.Planner.DailyMaxTasks.Weekday, Weekend: cfg.Planner.DailyMaxTasks.Weekend},
			DailyMaxHours:  engine.HoursLimit{Weekday: cfg.Planner.DailyMaxHours.Weekday, Weekend: cfg.Planner.DailyMaxHours.Weekend},
			CategoryLimits: cats,
			Fallback:       engine.FallbackPolicy{AllowTaskCountOverflow: cfg.Planner.AllowTaskCountOverflow},
			InitialWeeks:   cfg.Planner.InitialWeeks,
			Timezone:       cfg.Planner.Timezone,
		},
	}, nil
}
