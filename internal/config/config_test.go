package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestParseYAML(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "dayplan.yaml", `
planner:
  look_ahead_days: 30
  daily_max_tasks: {weekday: 5, weekend: 2}
  daily_max_hours: {weekday: 8, weekend: 4}
  categories:
    Work: {weekday: 6, weekend: 0}
replan:
  daily_at: "00:30"
  min_interval: "1m"
logging:
  level: debug
  console: true
  file: {enabled: false, path: ""}
`)

	cfg, err := NewManager(path).Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Planner.LookAheadDays != 30 {
		t.Fatalf("look_ahead_days = %d", cfg.Planner.LookAheadDays)
	}
	if cfg.Planner.DailyMaxTasks.Weekend != 2 {
		t.Fatalf("daily_max_tasks.weekend = %d", cfg.Planner.DailyMaxTasks.Weekend)
	}
	if got := cfg.Planner.Categories["Work"].Weekday; got != 6 {
		t.Fatalf("categories[Work].weekday = %v", got)
	}
	if cfg.Replan.DailyAt != "00:30" || cfg.Replan.MinInterval != "1m" {
		t.Fatalf("replan = %+v", cfg.Replan)
	}
	if cfg.Logging.Level != "debug" || !cfg.Logging.Console {
		t.Fatalf("logging = %+v", cfg.Logging)
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "dayplan.json", `{"planner": {"lookahead": 30}}`)
	if _, err := NewManager(path).Parse(); err == nil {
		t.Fatal("expected unknown-field error")
	}
}

func TestParseRejectsTrailingData(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "dayplan.json", `{"planner": {}}{"planner": {}}`)
	if _, err := NewManager(path).Parse(); err == nil {
		t.Fatal("expected trailing-data error")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "zero value ok", mutate: func(c *Config) {}},
		{
			name:    "negative window",
			mutate:  func(c *Config) { c.Planner.LookAheadDays = -1 },
			wantErr: "look_ahead_days",
		},
		{
			name:    "negative category hours",
			mutate:  func(c *Config) { c.Planner.Categories = map[string]HoursPair{"Work": {Weekday: -1}} },
			wantErr: "categories[Work]",
		},
		{
			name:    "bad timezone",
			mutate:  func(c *Config) { c.Planner.Timezone = "Mars/Olympus" },
			wantErr: "timezone",
		},
		{
			name:    "bad daily_at",
			mutate:  func(c *Config) { c.Replan.DailyAt = "25:00" },
			wantErr: "daily_at",
		},
		{
			name:    "bad min_interval",
			mutate:  func(c *Config) { c.Replan.MinInterval = "soon" },
			wantErr: "min_interval",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestParseHHMM(t *testing.T) {
	t.Parallel()
	h, m, err := ParseHHMM("09:05")
	if err != nil || h != 9 || m != 5 {
		t.Fatalf("got %d:%d err=%v", h, m, err)
	}
	for _, bad := range []string{"", "9", "9:5:0x", "24:00", "12:60", "ab:cd"} {
		if _, _, err := ParseHHMM(bad); err == nil {
			t.Fatalf("ParseHHMM(%q) accepted", bad)
		}
	}
}

func TestSummarizeConfigChange(t *testing.T) {
	t.Parallel()
	oldCfg := &Config{}
	newCfg := &Config{}
	newCfg.Planner.LookAheadDays = 45
	newCfg.Logging.Level = "debug"

	changed, _ := SummarizeConfigChange(oldCfg, newCfg)
	want := []string{"logging", "planner"}
	if len(changed) != len(want) {
		t.Fatalf("changed = %v, want %v", changed, want)
	}
	for i := range want {
		if changed[i] != want[i] {
			t.Fatalf("changed = %v, want %v", changed, want)
		}
	}
}
