package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/solbox-go/internal/cli/config"
	"github.com/yndnr/solbox-go/internal/runtime"
	"github.com/yndnr/solbox-go/internal/storage"
	"github.com/yndnr/solbox-go/internal/storage/memory"
	"github.com/yndnr/solbox-go/internal/telemetry/logger"
	"github.com/yndnr/solbox-go/internal/telemetry/metric"
)

// Env is the opened store and the runtime that executes against it.
type Env struct {
	Config  *config.Config
	Store   storage.RegionStore
	Runtime *runtime.Runtime
	Metrics *metric.Registry
	Log     logger.Logger
}

// openEnv opens the configured store once per invocation and registers
// its close as a shutdown hook.
func openEnv(c *cli.Context) (*Env, error) {
	if env, ok := c.App.Metadata[metaEnv].(*Env); ok {
		return env, nil
	}

	cfg := getConfig(c)
	log := getLogger(c)

	store, err := openStore(cfg, log)
	if err != nil {
		return nil, err
	}
	getShutdown(c).OnShutdown("store", func(context.Context) error {
		return store.Close()
	})

	metrics := metric.NewRegistry()
	metrics.RegisterStore(storeStats(store))
	if bs, ok := store.(*storage.BadgerStore); ok {
		bs.RegisterMetrics(metrics.Registerer())
	}

	env := &Env{
		Config:  cfg,
		Store:   store,
		Metrics: metrics,
		Log:     log,
		Runtime: runtime.New(store, cfg.Runtime(),
			runtime.WithLogger(log.With("component", "runtime")),
			runtime.WithMetrics(metrics),
		),
	}
	c.App.Metadata[metaEnv] = env
	return env, nil
}

func openStore(cfg *config.Config, log logger.Logger) (storage.RegionStore, error) {
	switch cfg.Storage.Engine {
	case config.EngineMemory:
		return memory.New(), nil
	case config.EngineBadger:
		s, err := storage.NewBadgerStore(cfg.Storage, logger.Slog(log.With("component", "badger")))
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage engine %q", cfg.Storage.Engine)
	}
}

func storeStats(store storage.RegionStore) metric.StatsFunc {
	return func(ctx context.Context) (metric.StoreStats, error) {
		s, err := store.Stats(ctx)
		if err != nil {
			return metric.StoreStats{}, err
		}
		return metric.StoreStats{Engine: s.Engine, Regions: s.Regions, Bytes: s.TotalSize}, nil
	}
}

// badgerStore returns the store as a BadgerStore for engine-specific
// maintenance commands.
func badgerStore(env *Env) (*storage.BadgerStore, error) {
	bs, ok := env.Store.(*storage.BadgerStore)
	if !ok {
		return nil, fmt.Errorf("requires the badger engine (configured: %s)", env.Config.Storage.Engine)
	}
	return bs, nil
}

// commandContext returns a context cancelled on SIGINT or SIGTERM.
func commandContext(c *cli.Context) (context.Context, context.CancelFunc) {
	return getShutdown(c).NotifyContext(c.Context)
}
