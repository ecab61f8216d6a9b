package app

import (
	"context"
	"errors"
	"strings"

	"dayplan/internal/config"
	"dayplan/internal/eventbus"
	"dayplan/internal/runtime/supervisor"
	"dayplan/internal/services/replan"
	"dayplan/internal/storage"
	logx "dayplan/pkg/logx"
)

// App wires the config manager, logging, storage, event bus and the
// replanning service together.
type App struct {
	cfgPath string

	cfgm *config.Manager
	sup  *supervisor.Supervisor

	log    logx.Logger
	logs   *logx.Service
	bus    eventbus.Bus
	store  storage.Store
	replan *replan.Service
}

func New(cfgPath string) (*App, error) {
	cfgm := config.NewManager(cfgPath)
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logSvc, log := logx.New(mapLogConfig(cfg))
	log = log.With(logx.String("comp", "app"))

	bus := eventbus.New()

	sc, err := mapStorageConfig(cfg)
	if err != nil {
		return nil, err
	}
	store, err := storage.Open(sc, log.With(logx.String("comp", "storage")))
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, errors.New("storage is required (storage.driver must not be \"none\")")
	}
	log.Info("storage opened", logx.String("driver", sc.Driver), logx.String("path", sc.Path))

	rcfg, err := mapReplanConfig(cfg)
	if err != nil {
		return nil, err
	}
	replanSvc := replan.New(rcfg, store, bus, log.With(logx.String("comp", "replan")))

	return &App{
		cfgPath: cfgPath,
		cfgm:    cfgm,
		log:     log,
		logs:    logSvc,
		bus:     bus,
		store:   store,
		replan:  replanSvc,
	}, nil
}

// Replan exposes the replanning service (for on-demand triggers).
func (a *App) Replan() *replan.Service { return a.replan }

// Done is closed when the app supervisor context is canceled (fatal error or Stop()).
func (a *App) Done() <-chan struct{} {
	if a.sup == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return a.sup.Context().Done()
}

// Err returns the first fatal error observed by the supervisor (if any).
func (a *App) Err() error {
	if a.sup == nil {
		return nil
	}
	return a.sup.Err()
}

func (a *App) Start(ctx context.Context) error {
	a.sup = supervisor.New(ctx, supervisor.WithLogger(a.log), supervisor.WithCancelOnError(true))

	// transactional config reload: validate before commit/publish
	a.cfgm.SetLogger(a.log.With(logx.String("comp", "config")))
	a.cfgm.SetValidator(func(c context.Context, cfg *config.Config) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		// mapping must also succeed or the reload would half-apply
		if _, err := mapStorageConfig(cfg); err != nil {
			return err
		}
		_, err := mapReplanConfig(cfg)
		return err
	})

	if a.replan.Enabled() {
		a.replan.Start(a.sup.Context())
	}

	a.sup.Go("config.watch", func(c context.Context) error {
		return a.cfgm.Watch(c)
	})

	sub := a.cfgm.Subscribe(8)
	a.sup.Go0("config.reload", func(c context.Context) {
		defer a.cfgm.Unsubscribe(sub)
		a.reloadLoop(c, sub)
	})

	// Debug-level event tap for observability.
	events, unsub := a.bus.Subscribe(128)
	a.sup.Go0("eventbus.log", func(c context.Context) {
		defer unsub()
		for {
			select {
			case <-c.Done():
				return
			case e, ok := <-events:
				if !ok {
					return
				}
				a.log.Debug("event", logx.String("type", e.Type), logx.Time("time", e.Time))
			}
		}
	})

	a.log.Info("app started", logx.String("config", a.cfgPath))
	return nil
}

// reloadLoop applies validated config updates to the running services.
func (a *App) reloadLoop(ctx context.Context, sub chan *config.Config) {
	lastApplied := a.cfgm.Get()
	for {
		select {
		case <-ctx.Done():
			return
		case newCfg, ok := <-sub:
			if !ok {
				return
			}
			// Coalesce bursts: keep only the latest config in the channel.
			for {
				select {
				case newer := <-sub:
					if newer != nil {
						newCfg = newer
					}
				default:
					goto APPLY
				}
			}
		APPLY:
			sections, attrs := config.SummarizeConfigChange(lastApplied, newCfg)
			if len(sections) > 0 {
				fields := append([]logx.Field{logx.String("changed", strings.Join(sections, ","))}, attrs...)
				a.log.Info("config change applied", fields...)
			} else {
				a.log.Debug("config reload received, but no effective changes detected")
			}
			lastApplied = newCfg

			for _, s := range sections {
				if s == "storage" {
					a.log.Warn("storage config changed; restart required for changes to take effect")
					break
				}
			}

			a.logs.Apply(mapLogConfig(newCfg))

			rcfg, err := mapReplanConfig(newCfg)
			if err != nil {
				a.log.Warn("invalid replan config; keeping previous", logx.Any("err", err))
				continue
			}
			wasEnabled := a.replan.Enabled()
			a.replan.Apply(rcfg)
			switch {
			case wasEnabled && !rcfg.Enabled:
				a.replan.Stop(ctx)
			case !wasEnabled && rcfg.Enabled:
				a.replan.Start(a.sup.Context())
			}
		}
	}
}

func (a *App) Stop(ctx context.Context) error {
	a.log.Info("app stopping")
	if a.replan != nil {
		a.replan.Stop(ctx)
	}
	var err error
	if a.sup != nil {
		err = a.sup.Stop(ctx)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
	}
	if a.store != nil {
		if cerr := a.store.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if a.logs != nil {
		_ = a.logs.Close()
	}
	return err
}
