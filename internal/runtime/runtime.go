package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/yndnr/solbox-go/internal/core/domain"
	"github.com/yndnr/solbox-go/internal/core/instruction"
	"github.com/yndnr/solbox-go/internal/core/processor"
	"github.com/yndnr/solbox-go/internal/core/state"
	"github.com/yndnr/solbox-go/internal/storage"
	"github.com/yndnr/solbox-go/internal/telemetry/logger"
	"github.com/yndnr/solbox-go/internal/telemetry/metric"
	"github.com/yndnr/solbox-go/pkg/cmap"
)

// Config configures a Runtime.
type Config struct {
	// ProgramID is the address the processor acts as.
	ProgramID domain.Address

	// Rent is the funding rule applied to every region.
	Rent Rent

	// RateLimit throttles executions per caller. Zero disables it.
	RateLimit RateLimit
}

// RateLimit bounds how often one caller may execute.
type RateLimit struct {
	PerSecond float64 `koanf:"per_second"`
	Burst     int     `koanf:"burst"`
}

// Transaction is one request to run an instruction.
type Transaction struct {
	Caller  domain.Address
	Data    []byte
	Regions []domain.Address
}

// Receipt describes an execution.
type Receipt struct {
	ID      ulid.ULID        `json:"id" yaml:"id"`
	Kind    string           `json:"kind" yaml:"kind"`
	Caller  domain.Address   `json:"caller" yaml:"caller"`
	Written []domain.Address `json:"written,omitempty" yaml:"written,omitempty"`
	Removed []domain.Address `json:"removed,omitempty" yaml:"removed,omitempty"`
	Elapsed time.Duration    `json:"elapsed" yaml:"elapsed"`
}

// Runtime is the execution environment: it owns persistence, funding and
// serialization, and hands regions to the processor one call at a time.
type Runtime struct {
	store   storage.RegionStore
	cfg     Config
	proc    *processor.Processor
	log     logger.Logger
	metrics *metric.Registry

	limiters *cmap.Map[domain.Address, *rate.Limiter]

	// mu serializes executions.
	mu sync.Mutex
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the runtime logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Runtime) {
		r.log = l
	}
}

// WithMetrics records executions in m.
func WithMetrics(m *metric.Registry) Option {
	return func(r *Runtime) {
		r.metrics = m
	}
}

// New creates a Runtime on store.
func New(store storage.RegionStore, cfg Config, opts ...Option) *Runtime {
	r := &Runtime{
		store:    store,
		cfg:      cfg,
		log:      logger.Discard(),
		limiters: cmap.New[domain.Address, *rate.Limiter](func(a domain.Address) uint64 { return cmap.Array32Hash(a) }),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.metrics == nil {
		r.metrics = metric.NewRegistry()
	}
	r.proc = processor.New(cfg.ProgramID, cfg.Rent, processor.WithLogger(r.log))
	return r
}

// ProgramID returns the program address.
func (r *Runtime) ProgramID() domain.Address {
	return r.cfg.ProgramID
}

// Rent returns the funding rule.
func (r *Runtime) Rent() Rent {
	return r.cfg.Rent
}

// Metrics returns the metric registry.
func (r *Runtime) Metrics() *metric.Registry {
	return r.metrics
}

// CreateRegion allocates zero-filled storage at addr.
func (r *Runtime) CreateRegion(ctx context.Context, addr domain.Address, size int, balance uint64, owner domain.Address) (*domain.Region, error) {
	if size < 0 {
		return nil, fmt.Errorf("create region: negative size %d", size)
	}
	region := domain.NewRegion(addr, owner, balance, size)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.store.Create(ctx, region); err != nil {
		return nil, fmt.Errorf("create region: %w", err)
	}
	r.log.Debug("region created", "address", addr.String(), "size", size, "balance", balance, "owner", owner.String())
	return region, nil
}

// CreateFundedRegion allocates a program-owned region holding exactly the
// rent-exempt minimum for size.
func (r *Runtime) CreateFundedRegion(ctx context.Context, addr domain.Address, size int) (*domain.Region, error) {
	return r.CreateRegion(ctx, addr, size, r.cfg.Rent.MinimumBalance(size), r.cfg.ProgramID)
}

// DropRegion removes a region whose data is still all zero. It undoes a
// CreateRegion whose instruction was then rejected.
func (r *Runtime) DropRegion(ctx context.Context, addr domain.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	region, err := r.store.Get(ctx, addr)
	if err != nil {
		return fmt.Errorf("drop region: %w", err)
	}
	if !bytes.Equal(region.Data, make([]byte, len(region.Data))) {
		return fmt.Errorf("drop region %s: data is in use", addr)
	}
	if err := r.store.Commit(ctx, nil, []domain.Address{addr}); err != nil {
		return fmt.Errorf("drop region: %w", err)
	}
	r.log.Debug("region dropped", "address", addr.String())
	return nil
}

// Execute runs tx against the stored regions. Regions are loaded, cloned
// and handed to the processor; the clones are committed only when the
// instruction succeeds. On rejection the returned error is the processor's
// *domain.DomainError and the receipt still identifies the attempt.
func (r *Runtime) Execute(ctx context.Context, tx Transaction) (*Receipt, error) {
	if err := r.throttle(ctx, tx.Caller); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	rcpt := &Receipt{
		ID:     ulid.Make(),
		Kind:   kindOf(tx.Data),
		Caller: tx.Caller,
	}
	ctx = logger.WithCallID(ctx, rcpt.ID.String())
	log := logger.L(logger.WithLogger(ctx, r.log))

	loaded, originals, err := r.load(ctx, tx.Regions)
	if err != nil {
		r.observe(rcpt, metric.ResultFailed, nil, start)
		return rcpt, err
	}

	call := processor.Call{Caller: tx.Caller, Data: tx.Data, Regions: loaded}
	if err := r.proc.Process(call); err != nil {
		r.observe(rcpt, metric.ResultRejected, err, start)
		log.Info("instruction rejected", "kind", rcpt.Kind, "error", err)
		return rcpt, err
	}

	puts, deletes := diff(loaded, originals)
	if err := r.store.Commit(ctx, puts, deletes); err != nil {
		r.observe(rcpt, metric.ResultFailed, nil, start)
		log.Error("commit failed", "kind", rcpt.Kind, "error", err)
		return rcpt, fmt.Errorf("commit: %w", err)
	}

	for _, p := range puts {
		rcpt.Written = append(rcpt.Written, p.Address)
	}
	rcpt.Removed = deletes
	r.recordState(tx.Data, puts)
	r.observe(rcpt, metric.ResultOK, nil, start)

	log.Info("instruction executed",
		"kind", rcpt.Kind,
		"written", len(rcpt.Written),
		"removed", len(rcpt.Removed),
		"elapsed", rcpt.Elapsed)
	return rcpt, nil
}

// load fetches each address once. Unknown addresses become empty,
// unfunded system regions. originals holds the stored state (nil when the
// region did not exist) keyed by address.
func (r *Runtime) load(ctx context.Context, addrs []domain.Address) ([]*domain.Region, map[domain.Address]*domain.Region, error) {
	byAddr := make(map[domain.Address]*domain.Region, len(addrs))
	originals := make(map[domain.Address]*domain.Region, len(addrs))
	out := make([]*domain.Region, len(addrs))

	for i, addr := range addrs {
		if reg, ok := byAddr[addr]; ok {
			out[i] = reg
			continue
		}
		stored, err := r.store.Get(ctx, addr)
		switch {
		case errors.Is(err, storage.ErrRegionNotFound):
			originals[addr] = nil
			stored = domain.NewRegion(addr, domain.SystemProgramID, 0, 0)
		case err != nil:
			return nil, nil, fmt.Errorf("load region %s: %w", addr, err)
		default:
			originals[addr] = stored
		}
		working := stored.Clone()
		byAddr[addr] = working
		out[i] = working
	}
	return out, originals, nil
}

// diff returns regions to write and addresses to remove. Released regions
// are removed if they were stored; unchanged regions are skipped.
func diff(loaded []*domain.Region, originals map[domain.Address]*domain.Region) ([]*domain.Region, []domain.Address) {
	var puts []*domain.Region
	var deletes []domain.Address
	seen := make(map[domain.Address]bool, len(loaded))

	for _, reg := range loaded {
		if seen[reg.Address] {
			continue
		}
		seen[reg.Address] = true

		orig := originals[reg.Address]
		if reg.IsReleased() {
			if orig != nil {
				deletes = append(deletes, reg.Address)
			}
			continue
		}
		if orig != nil && sameRegion(orig, reg) {
			continue
		}
		puts = append(puts, reg)
	}
	return puts, deletes
}

func sameRegion(a, b *domain.Region) bool {
	return a.Owner == b.Owner && a.Balance == b.Balance && bytes.Equal(a.Data, b.Data)
}

func (r *Runtime) throttle(ctx context.Context, caller domain.Address) error {
	rl := r.cfg.RateLimit
	if rl.PerSecond <= 0 {
		return nil
	}
	burst := rl.Burst
	if burst <= 0 {
		burst = 1
	}
	lim, ok := r.limiters.Get(caller)
	if !ok {
		r.limiters.SetIfAbsent(caller, rate.NewLimiter(rate.Limit(rl.PerSecond), burst))
		lim, _ = r.limiters.Get(caller)
	}
	if err := lim.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}
	return nil
}

func (r *Runtime) observe(rcpt *Receipt, result string, err error, start time.Time) {
	rcpt.Elapsed = time.Since(start)
	code, _ := domain.CodeOf(err)
	r.metrics.ObserveExecution(rcpt.Kind, result, code, domain.NameOf(err), rcpt.Elapsed)
}

// recordState feeds message and mailbox sizes into the histograms.
func (r *Runtime) recordState(data []byte, written []*domain.Region) {
	ix, err := instruction.Decode(data)
	if err != nil {
		return
	}
	if w, ok := ix.(*instruction.WriteMessage); ok {
		r.metrics.MessageBytes.Observe(float64(w.Size()))
	}
	for _, reg := range written {
		if reg.Owner != r.cfg.ProgramID || len(reg.Data) != state.MailboxLen {
			continue
		}
		if box, err := state.DecodeMailbox(reg.Data); err == nil && box.Initialized {
			r.metrics.SlotsInUse.Observe(float64(box.InUse))
		}
	}
}

func kindOf(data []byte) string {
	if len(data) == 0 {
		return "Unknown"
	}
	return instruction.Tag(data[0]).String()
}
