package state

import (
	"github.com/yndnr/solbox-go/internal/core/domain"
)

// IsEmpty reports whether slot i holds the sentinel.
func (m *Mailbox) IsEmpty(i int) bool {
	return m.Slots[i].IsSentinel()
}

// Find returns the index of the first slot holding msg, or -1.
func (m *Mailbox) Find(msg domain.Address) int {
	for i, slot := range m.Slots {
		if slot == msg {
			return i
		}
	}
	return -1
}

// Allocate stores msg in the lowest-index empty slot and returns that index.
// The record is left untouched when no slot is free.
func (m *Mailbox) Allocate(msg domain.Address) (int, error) {
	if msg.IsSentinel() {
		return -1, domain.ErrInvalidInstructionData.WithDetails("message address is the empty-slot sentinel")
	}
	for i := range m.Slots {
		if m.IsEmpty(i) {
			m.Slots[i] = msg
			if m.InUse < Capacity {
				m.InUse++
			}
			return i, nil
		}
	}
	return -1, domain.ErrSolBoxNoSpaceLeft.Detailf("all %d slots in use", Capacity)
}

// Free resets the slot holding msg to the sentinel and returns its index.
// The record is left untouched when msg is not referenced.
func (m *Mailbox) Free(msg domain.Address) (int, error) {
	if msg.IsSentinel() {
		return -1, domain.ErrMessageNotFound.WithDetails("sentinel is never stored")
	}
	i := m.Find(msg)
	if i < 0 {
		return -1, domain.ErrMessageNotFound.Detailf("message %s", msg)
	}
	m.Slots[i] = domain.SentinelAddress
	if m.InUse > 0 {
		m.InUse--
	}
	return i, nil
}

// Messages returns the occupied slots in index order.
func (m *Mailbox) Messages() []domain.Address {
	out := make([]domain.Address, 0, m.InUse)
	for i, slot := range m.Slots {
		if !m.IsEmpty(i) {
			out = append(out, slot)
		}
	}
	return out
}

// Available returns the number of empty slots.
func (m *Mailbox) Available() int {
	n := 0
	for i := range m.Slots {
		if m.IsEmpty(i) {
			n++
		}
	}
	return n
}
