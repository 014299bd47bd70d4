package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/yndnr/solbox-go/internal/core/domain"
	"github.com/yndnr/solbox-go/internal/storage"
	"github.com/yndnr/solbox-go/pkg/cmap"
)

// Store keeps regions in memory.
type Store struct {
	regions *cmap.Map[domain.Address, *domain.Region]

	// Serializes writers so Commit is atomic with respect to other writes.
	mu     sync.Mutex
	closed atomic.Bool
}

var _ storage.RegionStore = (*Store)(nil)

// Option configures the Store.
type Option func(*config)

type config struct {
	shards int
}

// WithShardCount sets the number of map shards.
func WithShardCount(n int) Option {
	return func(c *config) {
		c.shards = n
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	cfg := config{shards: cmap.DefaultShardCount}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Store{
		regions: cmap.New[domain.Address, *domain.Region](addressHash, cmap.WithShardCount(cfg.shards)),
	}
}

func addressHash(a domain.Address) uint64 {
	return cmap.Array32Hash(a)
}

// Get returns a copy of the region at addr.
func (s *Store) Get(_ context.Context, addr domain.Address) (*domain.Region, error) {
	if s.closed.Load() {
		return nil, storage.ErrClosed
	}
	r, ok := s.regions.Get(addr)
	if !ok {
		return nil, storage.ErrRegionNotFound
	}
	return r.Clone(), nil
}

// Create stores a copy of r if its address is unused.
func (s *Store) Create(_ context.Context, r *domain.Region) error {
	if s.closed.Load() {
		return storage.ErrClosed
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.regions.SetIfAbsent(r.Address, r.Clone()) {
		return fmt.Errorf("%w: %s", storage.ErrRegionExists, r.Address)
	}
	return nil
}

// Commit applies puts then deletes while holding the writer lock.
func (s *Store) Commit(ctx context.Context, puts []*domain.Region, deletes []domain.Address) error {
	if s.closed.Load() {
		return storage.ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range puts {
		s.regions.Set(r.Address, r.Clone())
	}
	for _, addr := range deletes {
		s.regions.Delete(addr)
	}
	return nil
}

// Scan visits every region in unspecified order.
func (s *Store) Scan(ctx context.Context, fn func(r *domain.Region) bool) error {
	if s.closed.Load() {
		return storage.ErrClosed
	}

	var err error
	s.regions.Range(func(_ domain.Address, r *domain.Region) bool {
		if err = ctx.Err(); err != nil {
			return false
		}
		return fn(r.Clone())
	})
	return err
}

// Stats reports the region count and the summed data size.
func (s *Store) Stats(_ context.Context) (*storage.Stats, error) {
	if s.closed.Load() {
		return nil, storage.ErrClosed
	}

	var size uint64
	s.regions.Range(func(_ domain.Address, r *domain.Region) bool {
		size += uint64(len(r.Data))
		return true
	})
	return &storage.Stats{
		Engine:    "memory",
		Regions:   uint64(s.regions.Count()),
		TotalSize: size,
	}, nil
}

// Close drops every region.
func (s *Store) Close() error {
	if s.closed.CompareAndSwap(false, true) {
		s.regions.Clear()
	}
	return nil
}
