package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/solbox-go/internal/core/domain"
)

// BadgerStore implements RegionStore on Badger v3. Each Commit is one
// read-write transaction.
type BadgerStore struct {
	db     *badger.DB
	cfg    BadgerConfig
	logger *slog.Logger
	closed atomic.Bool

	lastGCTime atomic.Int64 // Unix milliseconds
	gcRuns     atomic.Uint64

	// Prometheus metrics
	metricsLSMSize      prometheus.Gauge
	metricsValueLogSize prometheus.Gauge
	metricsLastGCTime   prometheus.Gauge
	metricsGCRuns       prometheus.Counter

	stopCh chan struct{}
	doneCh chan struct{}
}

var _ RegionStore = (*BadgerStore)(nil)

// NewBadgerStore opens (or creates) a badger database under cfg.DataDir.
func NewBadgerStore(cfg Config, logger *slog.Logger) (*BadgerStore, error) {
	bcfg := cfg.Badger
	if cfg.DataDir == "" && !bcfg.InMemory {
		return nil, fmt.Errorf("badger: data_dir is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts := badger.DefaultOptions(cfg.DataDir)
	if bcfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = &badgerLogger{logger: logger}
	if bcfg.CacheSize > 0 {
		opts.BlockCacheSize = bcfg.CacheSize
	}
	if bcfg.ValueLogFileSize > 0 && !bcfg.InMemory {
		opts.ValueLogFileSize = bcfg.ValueLogFileSize
	}
	if bcfg.NumMemtables > 0 {
		opts.NumMemtables = bcfg.NumMemtables
	}
	opts.SyncWrites = bcfg.SyncWrites && !bcfg.InMemory

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open db: %w", err)
	}

	s := &BadgerStore{
		db:     db,
		cfg:    bcfg,
		logger: logger,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
	go s.gcLoop()

	logger.Debug("badger store opened",
		"dir", cfg.DataDir,
		"in_memory", bcfg.InMemory,
		"gc_interval", bcfg.GCInterval)

	return s, nil
}

// Get returns the region at addr.
func (s *BadgerStore) Get(ctx context.Context, addr domain.Address) (*domain.Region, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}

	var region *domain.Region
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(regionKey(addr))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrRegionNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			region, err = DecodeRegion(addr, val)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return region, nil
}

// Create stores r if its address is unused.
func (s *BadgerStore) Create(ctx context.Context, r *domain.Region) error {
	if s.closed.Load() {
		return ErrClosed
	}

	return s.db.Update(func(txn *badger.Txn) error {
		key := regionKey(r.Address)
		if _, err := txn.Get(key); err == nil {
			return fmt.Errorf("%w: %s", ErrRegionExists, r.Address)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(key, EncodeRegion(r))
	})
}

// Commit applies puts and deletes in a single transaction.
func (s *BadgerStore) Commit(ctx context.Context, puts []*domain.Region, deletes []domain.Address) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		for _, r := range puts {
			if err := txn.Set(regionKey(r.Address), EncodeRegion(r)); err != nil {
				return err
			}
		}
		for _, addr := range deletes {
			if err := txn.Delete(regionKey(addr)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("badger: commit: %w", err)
	}
	return nil
}

// Scan visits every region in key order.
func (s *BadgerStore) Scan(ctx context.Context, fn func(r *domain.Region) bool) error {
	if s.closed.Load() {
		return ErrClosed
	}

	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = keyPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			addr, err := addressFromKey(item.Key())
			if err != nil {
				return err
			}
			raw, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			r, err := DecodeRegion(addr, raw)
			if err != nil {
				return fmt.Errorf("region %s: %w", addr, err)
			}
			if !fn(r) {
				break
			}
		}
		return nil
	})
}

// Backup writes a full badger backup stream to w.
func (s *BadgerStore) Backup(ctx context.Context, w io.Writer) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if _, err := s.db.Backup(w, 0); err != nil {
		return fmt.Errorf("badger: backup: %w", err)
	}
	return nil
}

// Restore loads a stream produced by Backup. Existing regions with the
// same address are overwritten.
func (s *BadgerStore) Restore(ctx context.Context, r io.Reader) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if err := s.db.Load(r, 256); err != nil {
		return fmt.Errorf("badger: restore: %w", err)
	}
	s.logger.Info("badger backup restored")
	return nil
}

// GC runs value-log garbage collection until badger has nothing left to
// rewrite and returns the number of files rewritten.
func (s *BadgerStore) GC(ctx context.Context) (int, error) {
	if s.closed.Load() {
		return 0, ErrClosed
	}
	if s.cfg.InMemory {
		return 0, nil
	}

	start := time.Now()
	rewrites := 0
	for {
		if err := ctx.Err(); err != nil {
			return rewrites, err
		}
		err := s.db.RunValueLogGC(s.cfg.GCThreshold)
		if err != nil {
			if errors.Is(err, badger.ErrNoRewrite) {
				break
			}
			return rewrites, fmt.Errorf("gc: %w", err)
		}
		rewrites++
	}

	s.lastGCTime.Store(time.Now().UnixMilli())
	s.gcRuns.Add(1)
	if s.metricsGCRuns != nil {
		s.metricsGCRuns.Inc()
	}

	s.logger.Debug("gc completed", "rewrites", rewrites, "elapsed", time.Since(start))
	return rewrites, nil
}

// Stats returns storage statistics.
func (s *BadgerStore) Stats(ctx context.Context) (*Stats, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	lsm, vlog := s.db.Size()

	var count uint64
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = keyPrefix
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Stats{
		Engine:       "badger",
		Regions:      count,
		TotalSize:    uint64(lsm + vlog),
		LSMSize:      uint64(lsm),
		ValueLogSize: uint64(vlog),
		LastGCTime:   s.lastGCTime.Load(),
	}, nil
}

// Close stops the GC loop and closes the database.
func (s *BadgerStore) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	close(s.stopCh)
	<-s.doneCh

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}
	s.logger.Debug("badger store closed")
	return nil
}

// RegisterMetrics registers badger gauges with registry and starts a
// refresher that runs until Close.
func (s *BadgerStore) RegisterMetrics(registry prometheus.Registerer) *BadgerStore {
	s.metricsLSMSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "solbox",
		Subsystem: "badger",
		Name:      "lsm_size_bytes",
		Help:      "Badger LSM tree size in bytes",
	})
	s.metricsValueLogSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "solbox",
		Subsystem: "badger",
		Name:      "value_log_size_bytes",
		Help:      "Badger value log size in bytes",
	})
	s.metricsLastGCTime = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "solbox",
		Subsystem: "badger",
		Name:      "last_gc_timestamp_seconds",
		Help:      "Unix timestamp of the last value-log GC run",
	})
	s.metricsGCRuns = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "solbox",
		Subsystem: "badger",
		Name:      "gc_runs_total",
		Help:      "Completed value-log GC runs",
	})

	registry.MustRegister(
		s.metricsLSMSize,
		s.metricsValueLogSize,
		s.metricsLastGCTime,
		s.metricsGCRuns,
	)
	s.refreshMetrics()
	go s.metricsUpdateLoop()

	return s
}

func (s *BadgerStore) refreshMetrics() {
	if s.closed.Load() {
		return
	}
	lsm, vlog := s.db.Size()
	s.metricsLSMSize.Set(float64(lsm))
	s.metricsValueLogSize.Set(float64(vlog))
	if ts := s.lastGCTime.Load(); ts > 0 {
		s.metricsLastGCTime.Set(float64(ts) / 1000.0)
	}
}

func (s *BadgerStore) metricsUpdateLoop() {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.refreshMetrics()
		case <-s.stopCh:
			return
		}
	}
}

func (s *BadgerStore) gcLoop() {
	defer close(s.doneCh)

	interval, err := time.ParseDuration(s.cfg.GCInterval)
	if err != nil || interval <= 0 {
		interval = 10 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			if _, err := s.GC(ctx); err != nil {
				s.logger.Error("auto gc failed", "error", err)
			}
			cancel()
		case <-s.stopCh:
			return
		}
	}
}

// badgerLogger adapts slog.Logger to Badger's Logger interface.
// Badger's info chatter is demoted to debug.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
