package storage

import (
	"context"
	"errors"

	"github.com/yndnr/solbox-go/internal/core/domain"
)

// Common errors
var (
	ErrRegionNotFound   = errors.New("storage: region not found")
	ErrRegionExists     = errors.New("storage: region already exists")
	ErrClosed           = errors.New("storage: store closed")
	ErrCorruptedRegion  = errors.New("storage: corrupted region record")
	ErrChecksumMismatch = errors.New("storage: checksum mismatch")
)

// RegionStore persists regions between executions.
//
// Implementations must be safe for concurrent use and must apply a Commit
// atomically: either every put and delete becomes visible or none does.
type RegionStore interface {
	// Get returns a copy of the region at addr, or ErrRegionNotFound.
	Get(ctx context.Context, addr domain.Address) (*domain.Region, error)

	// Create stores r only if its address is unused, else ErrRegionExists.
	Create(ctx context.Context, r *domain.Region) error

	// Commit writes puts and removes deletes in one atomic step.
	Commit(ctx context.Context, puts []*domain.Region, deletes []domain.Address) error

	// Scan visits every stored region. fn returns false to stop.
	Scan(ctx context.Context, fn func(r *domain.Region) bool) error

	// Stats returns store statistics.
	Stats(ctx context.Context) (*Stats, error)

	// Close releases the store.
	Close() error
}

// Stats contains store statistics.
type Stats struct {
	// Engine is the backend name ("badger" or "memory").
	Engine string

	// Regions is the number of stored regions (0 when unknown).
	Regions uint64

	// TotalSize is the storage footprint in bytes.
	TotalSize uint64

	// LSMSize is the LSM tree size (badger only).
	LSMSize uint64

	// ValueLogSize is the value log size (badger only).
	ValueLogSize uint64

	// LastGCTime is the last GC run timestamp (Unix milliseconds).
	LastGCTime int64
}

// Config selects and configures a RegionStore.
type Config struct {
	// Engine is "badger" or "memory". Default: "badger"
	Engine string `koanf:"engine"`

	// DataDir is the badger directory.
	DataDir string `koanf:"data_dir"`

	// Badger-specific configuration
	Badger BadgerConfig `koanf:"badger"`
}

// BadgerConfig contains Badger-specific tuning parameters.
type BadgerConfig struct {
	// GCInterval is the interval between automatic value-log GC runs.
	// Default: 10m
	GCInterval string `koanf:"gc_interval"`

	// GCThreshold is the GC discard ratio threshold (0.0-1.0).
	// Default: 0.5
	GCThreshold float64 `koanf:"gc_threshold"`

	// CacheSize is the block cache size in bytes.
	// Default: 64MB
	CacheSize int64 `koanf:"cache_size"`

	// ValueLogFileSize is the max value log file size in bytes.
	// Default: 256MB
	ValueLogFileSize int64 `koanf:"value_log_file_size"`

	// NumMemtables is the number of memtables.
	// Default: 2
	NumMemtables int `koanf:"num_memtables"`

	// SyncWrites fsyncs every commit.
	// Default: true
	SyncWrites bool `koanf:"sync_writes"`

	// InMemory runs badger without touching disk. Used by tests.
	InMemory bool `koanf:"in_memory"`
}

// DefaultConfig returns the default store configuration.
func DefaultConfig(dir string) Config {
	return Config{
		Engine:  "badger",
		DataDir: dir,
		Badger:  DefaultBadgerConfig(),
	}
}

// DefaultBadgerConfig returns the default Badger configuration.
func DefaultBadgerConfig() BadgerConfig {
	return BadgerConfig{
		GCInterval:       "10m",
		GCThreshold:      0.5,
		CacheSize:        64 << 20, // 64MB
		ValueLogFileSize: 256 << 20,
		NumMemtables:     2,
		SyncWrites:       true,
	}
}
