package config

import (
	"reflect"
	"sort"
	"strings"

	logx "dayplan/pkg/logx"
)

// SummarizeConfigChange returns a compact list of changed sections plus safe
// structured attrs for logging.
func SummarizeConfigChange(oldCfg, newCfg *Config) ([]string, []logx.Field) {
	if oldCfg == nil {
		oldCfg = &Config{}
	}
	if newCfg == nil {
		newCfg = &Config{}
	}

	changed := make([]string, 0, 4)
	attrs := make([]logx.Field, 0, 16)

	// Planner
	if !reflect.DeepEqual(oldCfg.Planner, newCfg.Planner) {
		changed = append(changed, "planner")
		attrs = append(attrs,
			logx.Int("planner.look_ahead_days", newCfg.Planner.LookAheadDays),
			logx.Int("planner.max_tasks_weekday", newCfg.Planner.DailyMaxTasks.Weekday),
			logx.Int("planner.max_tasks_weekend", newCfg.Planner.DailyMaxTasks.Weekend),
			logx.Float64("planner.max_hours_weekday", newCfg.Planner.DailyMaxHours.Weekday),
			logx.Float64("planner.max_hours_weekend", newCfg.Planner.DailyMaxHours.Weekend),
			logx.Int("planner.category_count", len(newCfg.Planner.Categories)),
			logx.Bool("planner.allow_count_overflow", newCfg.Planner.AllowTaskCountOverflow),
			logx.String("planner.timezone", strings.TrimSpace(newCfg.Planner.Timezone)),
		)
	}

	// Replan service. Enabled is a pointer; nil means enabled.
	oEnabled := oldCfg.Replan.Enabled == nil || *oldCfg.Replan.Enabled
	nEnabled := newCfg.Replan.Enabled == nil || *newCfg.Replan.Enabled
	if oEnabled != nEnabled ||
		strings.TrimSpace(oldCfg.Replan.DailyAt) != strings.TrimSpace(newCfg.Replan.DailyAt) ||
		strings.TrimSpace(oldCfg.Replan.MinInterval) != strings.TrimSpace(newCfg.Replan.MinInterval) {
		changed = append(changed, "replan")
		attrs = append(attrs,
			logx.Bool("replan.enabled", nEnabled),
			logx.String("replan.daily_at", strings.TrimSpace(newCfg.Replan.DailyAt)),
			logx.String("replan.min_interval", strings.TrimSpace(newCfg.Replan.MinInterval)),
		)
	}

	// Logging
	if oldCfg.Logging != newCfg.Logging {
		changed = append(changed, "logging")
		attrs = append(attrs,
			logx.String("logx.level", newCfg.Logging.Level),
			logx.Bool("logx.console", newCfg.Logging.Console),
			logx.Bool("logx.file_enabled", newCfg.Logging.File.Enabled),
		)
	}

	// Storage. Nil means the default file driver.
	var oDriver, nDriver, oBusy, nBusy string
	var oPathSet, nPathSet bool
	if s := oldCfg.Storage; s != nil {
		oDriver = strings.TrimSpace(s.Driver)
		oBusy = strings.TrimSpace(s.BusyTimeout)
		oPathSet = strings.TrimSpace(s.Path) != ""
	}
	if s := newCfg.Storage; s != nil {
		nDriver = strings.TrimSpace(s.Driver)
		nBusy = strings.TrimSpace(s.BusyTimeout)
		nPathSet = strings.TrimSpace(s.Path) != ""
	}
	if oDriver != nDriver || oBusy != nBusy || oPathSet != nPathSet {
		changed = append(changed, "storage")
		attrs = append(attrs,
			logx.String("storage.driver", nDriver),
			logx.Bool("storage.path_set", nPathSet),
			logx.String("storage.busy_timeout", nBusy),
		)
	}

	sort.Strings(changed)
	return changed, attrs
}
