package state

import (
	"errors"
	"testing"

	"github.com/yndnr/solbox-go/internal/core/domain"
)

func newTestMailbox() *Mailbox {
	return NewMailbox(domain.NewAddress(), domain.NewAddress(), domain.NewAddress())
}

func TestNewMailbox_AllSlotsEmpty(t *testing.T) {
	m := newTestMailbox()
	for i := range m.Slots {
		if !m.IsEmpty(i) {
			t.Errorf("slot %d should be empty", i)
		}
	}
	if m.InUse != 0 || !m.Initialized || m.Capacity() != Capacity {
		t.Errorf("NewMailbox() = InUse %d Initialized %v Capacity %d", m.InUse, m.Initialized, m.Capacity())
	}
	if len(m.Messages()) != 0 {
		t.Error("Messages() should be empty")
	}
}

func TestAllocate_FirstFit(t *testing.T) {
	m := newTestMailbox()

	for want := 0; want < Capacity; want++ {
		got, err := m.Allocate(domain.NewAddress())
		if err != nil {
			t.Fatalf("Allocate() #%d error = %v", want, err)
		}
		if got != want {
			t.Fatalf("Allocate() #%d = slot %d", want, got)
		}
	}
	if m.InUse != Capacity || m.Available() != 0 {
		t.Errorf("InUse = %d, Available = %d", m.InUse, m.Available())
	}

	before := *m
	if _, err := m.Allocate(domain.NewAddress()); !errors.Is(err, domain.ErrSolBoxNoSpaceLeft) {
		t.Fatalf("Allocate() on full box error = %v", err)
	}
	if *m != before {
		t.Error("failed Allocate() must leave the mailbox unchanged")
	}
}

func TestAllocate_ReusesLowestFreedSlot(t *testing.T) {
	m := newTestMailbox()
	addrs := make([]domain.Address, 5)
	for i := range addrs {
		addrs[i] = domain.NewAddress()
		m.Allocate(addrs[i])
	}

	if _, err := m.Free(addrs[3]); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Free(addrs[1]); err != nil {
		t.Fatal(err)
	}

	idx, err := m.Allocate(domain.NewAddress())
	if err != nil || idx != 1 {
		t.Errorf("Allocate() = %d, %v; want slot 1", idx, err)
	}
	idx, _ = m.Allocate(domain.NewAddress())
	if idx != 3 {
		t.Errorf("Allocate() = %d; want slot 3", idx)
	}
}

func TestAllocate_RejectsSentinel(t *testing.T) {
	m := newTestMailbox()
	if _, err := m.Allocate(domain.SentinelAddress); !errors.Is(err, domain.ErrInvalidInstructionData) {
		t.Errorf("Allocate(sentinel) error = %v", err)
	}
	if m.InUse != 0 {
		t.Error("rejected allocation should not count")
	}
}

func TestFree(t *testing.T) {
	m := newTestMailbox()
	a, b := domain.NewAddress(), domain.NewAddress()
	m.Allocate(a)
	m.Allocate(b)

	idx, err := m.Free(a)
	if err != nil || idx != 0 {
		t.Fatalf("Free() = %d, %v", idx, err)
	}
	if !m.IsEmpty(0) || m.InUse != 1 {
		t.Errorf("after Free(): slot0 empty=%v InUse=%d", m.IsEmpty(0), m.InUse)
	}
	if got := m.Messages(); len(got) != 1 || got[0] != b {
		t.Errorf("Messages() = %v", got)
	}

	before := *m
	if _, err := m.Free(a); !errors.Is(err, domain.ErrMessageNotFound) {
		t.Errorf("second Free() error = %v", err)
	}
	if _, err := m.Free(domain.SentinelAddress); !errors.Is(err, domain.ErrMessageNotFound) {
		t.Errorf("Free(sentinel) error = %v", err)
	}
	if *m != before {
		t.Error("failed Free() must leave the mailbox unchanged")
	}
}

func TestFree_InUseNeverNegative(t *testing.T) {
	m := newTestMailbox()
	a := domain.NewAddress()
	m.Slots[7] = a // stored without bookkeeping, as an older writer would leave it

	if _, err := m.Free(a); err != nil {
		t.Fatal(err)
	}
	if m.InUse != 0 {
		t.Errorf("InUse = %d, want 0", m.InUse)
	}
}

func TestFind(t *testing.T) {
	m := newTestMailbox()
	a := domain.NewAddress()
	m.Allocate(domain.NewAddress())
	m.Allocate(a)

	if got := m.Find(a); got != 1 {
		t.Errorf("Find() = %d, want 1", got)
	}
	if got := m.Find(domain.NewAddress()); got != -1 {
		t.Errorf("Find(unknown) = %d, want -1", got)
	}
}
