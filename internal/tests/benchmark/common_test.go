package benchmark

import (
	"context"
	"fmt"
	goruntime "runtime"
	"strings"
	"testing"

	"github.com/yndnr/solbox-go/internal/core/domain"
	"github.com/yndnr/solbox-go/internal/core/instruction"
	"github.com/yndnr/solbox-go/internal/core/state"
	"github.com/yndnr/solbox-go/internal/runtime"
	"github.com/yndnr/solbox-go/internal/storage"
	"github.com/yndnr/solbox-go/internal/storage/memory"
)

// BodySizes are the message body lengths exercised by size-sensitive benchmarks.
var BodySizes = []int{16, 256, 4096}

// body returns a UTF-8 body of n bytes.
func body(n int) string {
	return strings.Repeat("m", n)
}

// storeFactory opens a fresh store for one benchmark.
type storeFactory struct {
	name string
	open func(b *testing.B) storage.RegionStore
}

var storeFactories = []storeFactory{
	{name: "memory", open: func(b *testing.B) storage.RegionStore {
		return memory.New()
	}},
	{name: "badger", open: func(b *testing.B) storage.RegionStore {
		cfg := storage.DefaultConfig(b.TempDir())
		cfg.Badger.GCInterval = "1h"
		cfg.Badger.SyncWrites = false
		s, err := storage.NewBadgerStore(cfg, nil)
		if err != nil {
			b.Fatalf("open badger: %v", err)
		}
		return s
	}},
}

// bench holds a runtime with one initialized mailbox.
type bench struct {
	ctx   context.Context
	rt    *runtime.Runtime
	owner domain.Address
	box   domain.Address
}

func newBench(b *testing.B, store storage.RegionStore) *bench {
	b.Helper()
	b.Cleanup(func() { store.Close() })

	cfg := runtime.Config{ProgramID: domain.AddressFromSeed("bench"), Rent: runtime.DefaultRent()}
	bn := &bench{
		ctx:   context.Background(),
		rt:    runtime.New(store, cfg),
		owner: domain.NewAddress(),
		box:   domain.NewAddress(),
	}
	if _, err := bn.rt.CreateFundedRegion(bn.ctx, bn.box, state.MailboxLen); err != nil {
		b.Fatal(err)
	}
	bn.exec(b, instruction.NewInitialize(bn.owner, bn.box, state.Capacity), bn.box)
	return bn
}

func (bn *bench) exec(b *testing.B, ix instruction.Instruction, regions ...domain.Address) {
	tx := runtime.Transaction{Caller: bn.owner, Data: instruction.Encode(ix), Regions: regions}
	if _, err := bn.rt.Execute(bn.ctx, tx); err != nil {
		b.Fatalf("%s: %v", instruction.String(ix), err)
	}
}

// write funds a message region and writes body into the mailbox.
func (bn *bench) write(b *testing.B, text string) domain.Address {
	msg := domain.NewAddress()
	if _, err := bn.rt.CreateFundedRegion(bn.ctx, msg, state.MessageLen(len(text))); err != nil {
		b.Fatal(err)
	}
	bn.exec(b, &instruction.WriteMessage{Sender: bn.owner, Recipient: bn.owner, Mailbox: bn.box, Message: text}, msg, bn.box)
	return msg
}

func (bn *bench) delete(b *testing.B, msg domain.Address) {
	bn.exec(b, &instruction.DeleteMessage{Owner: bn.owner, MessageID: msg, Mailbox: bn.box},
		msg, bn.box, bn.owner, domain.SystemProgramID)
}

// reportMemory reports memory usage.
func reportMemory(b *testing.B, prefix string) {
	var m goruntime.MemStats
	goruntime.GC()
	goruntime.ReadMemStats(&m)
	b.ReportMetric(float64(m.Alloc)/(1024*1024), prefix+"_MB")
	b.ReportMetric(float64(m.NumGC), prefix+"_GC")
}

// runWithBodySizes runs a benchmark function with each body size.
func runWithBodySizes(b *testing.B, benchFn func(b *testing.B, size int)) {
	for _, size := range BodySizes {
		b.Run(fmt.Sprintf("body_%d", size), func(b *testing.B) {
			benchFn(b, size)
		})
	}
}
