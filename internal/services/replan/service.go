package replan

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/time/rate"

	"dayplan/internal/config"
	"dayplan/internal/engine"
	"dayplan/internal/eventbus"
	"dayplan/internal/storage"
	logx "dayplan/pkg/logx"
)

// Trigger reasons recorded in the plan log.
const (
	TriggerStartup = "startup"
	TriggerDaily   = "daily"
	TriggerDemand  = "demand"
)

type Config struct {
	Enabled     bool
	DailyAt     string        // "HH:MM" wall-clock time of the nightly pass
	MinInterval time.Duration // floor between on-demand passes; 0 disables
	Planner     PlannerOptions
}

// PlannerOptions is the per-pass engine configuration. Timezone resolves
// "today"; empty means the host zone.
type PlannerOptions struct {
	LookAheadDays  int
	DailyMaxTasks  engine.CountLimit
	DailyMaxHours  engine.HoursLimit
	CategoryLimits engine.CategoryLimits
	Fallback       engine.FallbackPolicy
	InitialWeeks   int
	Timezone       string
}

// Snapshot is a point-in-time view of service state for diagnostics.
type Snapshot struct {
	Running     bool
	Runs        uint64
	LastRun     time.Time
	LastTrigger string
	LastResult  eventbus.PlanCompleted
}

type Service struct {
	mu  sync.Mutex
	cfg Config
	log logx.Logger

	store storage.Store
	bus   eventbus.Bus

	limiter *rate.Limiter

	c   *cron.Cron
	loc *time.Location

	// trigger has capacity 1 so bursts coalesce into a single queued pass.
	trigger chan string

	stopCh    chan struct{}
	runCancel context.CancelFunc
	wg        sync.WaitGroup

	runs uint64
	last Snapshot
}

func New(cfg Config, store storage.Store, bus eventbus.Bus, log logx.Logger) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Service{
		cfg:     cfg,
		log:     log,
		store:   store,
		bus:     bus,
		limiter: newLimiter(cfg.MinInterval),
	}
}

func newLimiter(min time.Duration) *rate.Limiter {
	if min <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(min), 1)
}

// Enabled reports the current config flag. (Thread-safe; Apply() may run concurrently.)
func (s *Service) Enabled() bool {
	s.mu.Lock()
	en := s.cfg.Enabled
	s.mu.Unlock()
	return en
}

// Apply swaps the configuration. The nightly cron entry is rebuilt when its
// time or timezone changed while running.
func (s *Service) Apply(cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()

	oldAt := strings.TrimSpace(s.cfg.DailyAt)
	oldTZ := strings.TrimSpace(s.cfg.Planner.Timezone)
	if cfg.MinInterval != s.cfg.MinInterval {
		s.limiter = newLimiter(cfg.MinInterval)
	}
	s.cfg = cfg

	if s.stopCh == nil {
		return
	}
	if oldAt != strings.TrimSpace(cfg.DailyAt) || oldTZ != strings.TrimSpace(cfg.Planner.Timezone) {
		s.restartCronLocked()
	}
}

func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopCh != nil {
		return
	}
	if !s.cfg.Enabled {
		s.log.Debug("service disabled; not starting")
		return
	}

	s.stopCh = make(chan struct{})
	s.trigger = make(chan string, 1)
	runCtx, cancel := context.WithCancel(ctx)
	s.runCancel = cancel

	s.restartCronLocked()

	stopCh := s.stopCh
	trigger := s.trigger
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case <-stopCh:
				return
			case reason := <-trigger:
				s.runOnce(runCtx, reason)
			}
		}
	}()

	s.enqueueLocked(TriggerStartup)
	s.log.Info("service started",
		logx.String("daily_at", s.dailyAtLocked()),
		logx.String("tz", s.loc.String()),
		logx.Duration("min_interval", s.cfg.MinInterval))
}

func (s *Service) Stop(ctx context.Context) {
	start := time.Now()
	s.mu.Lock()
	if s.stopCh == nil {
		s.mu.Unlock()
		return
	}
	stopCh := s.stopCh
	cancel := s.runCancel
	c := s.c
	s.stopCh = nil
	s.trigger = nil
	s.runCancel = nil
	s.c = nil
	s.mu.Unlock()

	close(stopCh)
	if cancel != nil {
		cancel()
	}
	if c != nil {
		<-c.Stop().Done()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		s.log.Info("service stopped", logx.Duration("took", time.Since(start)))
	case <-ctx.Done():
		// stop continues in background
	}
}

// Trigger requests an on-demand pass. It returns false when the service is
// not running or the rate limit rejected the request. An accepted trigger that
// finds one already queued coalesces with it.
func (s *Service) Trigger() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.trigger == nil {
		return false
	}
	if !s.limiter.Allow() {
		s.log.Debug("replan trigger rate-limited")
		return false
	}
	s.enqueueLocked(TriggerDemand)
	return true
}

func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.last
	snap.Running = s.stopCh != nil
	snap.Runs = s.runs
	return snap
}

// enqueueLocked pushes a trigger without blocking; a full queue means a pass
// is already pending and the reasons merge.
func (s *Service) enqueueLocked(reason string) {
	if s.trigger == nil {
		return
	}
	select {
	case s.trigger <- reason:
	default:
		s.log.Debug("replan trigger coalesced", logx.String("reason", reason))
	}
}

// restartCronLocked (re)creates the nightly cron entry from the current
// config. Caller holds s.mu.
func (s *Service) restartCronLocked() {
	if s.c != nil {
		<-s.c.Stop().Done()
		s.c = nil
	}

	s.loc = time.Local
	if tz := strings.TrimSpace(s.cfg.Planner.Timezone); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			s.log.Warn("invalid timezone; using host zone", logx.String("tz", tz), logx.Any("err", err))
		} else {
			s.loc = loc
		}
	}

	spec, err := dailySpec(s.dailyAtLocked())
	if err != nil {
		s.log.Warn("invalid daily_at; nightly pass disabled", logx.String("daily_at", s.cfg.DailyAt), logx.Any("err", err))
		return
	}

	c := cron.New(cron.WithLocation(s.loc))
	_, err = c.AddFunc(spec, func() {
		s.mu.Lock()
		s.enqueueLocked(TriggerDaily)
		s.mu.Unlock()
	})
	if err != nil {
		s.log.Warn("nightly cron registration failed", logx.String("spec", spec), logx.Any("err", err))
		return
	}
	c.Start()
	s.c = c
}

func (s *Service) dailyAtLocked() string {
	at := strings.TrimSpace(s.cfg.DailyAt)
	if at == "" {
		at = "00:05"
	}
	return at
}

// dailySpec converts "HH:MM" into a standard five-field cron spec.
func dailySpec(at string) (string, error) {
	hour, min, err := config.ParseHHMM(at)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d %d * * *", min, hour), nil
}
