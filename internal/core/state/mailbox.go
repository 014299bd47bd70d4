package state

import (
	"encoding/binary"
	"fmt"

	"github.com/yndnr/solbox-go/internal/core/domain"
)

// Capacity is the number of slots in every mailbox record.
const Capacity = 20

// Field offsets of the mailbox record layout:
//
//	owner[32] | next_box[32] | prev_box[32] | capacity:u32 | in_use:u32 | initialized:u8 | slots[Capacity*32]
const (
	offOwner       = 0
	offNextBox     = offOwner + domain.AddressLen
	offPrevBox     = offNextBox + domain.AddressLen
	offCapacity    = offPrevBox + domain.AddressLen
	offInUse       = offCapacity + 4
	offInitialized = offInUse + 4
	offSlots       = offInitialized + 1

	// MailboxLen is the encoded length of a mailbox record.
	MailboxLen = offSlots + Capacity*domain.AddressLen
)

// Mailbox is the decoded form of a mailbox record.
type Mailbox struct {
	Owner       domain.Address
	NextBox     domain.Address
	PrevBox     domain.Address
	InUse       uint32
	Initialized bool
	Slots       [Capacity]domain.Address
}

// NewMailbox returns an initialized, empty mailbox.
func NewMailbox(owner, next, prev domain.Address) *Mailbox {
	m := &Mailbox{
		Owner:       owner,
		NextBox:     next,
		PrevBox:     prev,
		Initialized: true,
	}
	for i := range m.Slots {
		m.Slots[i] = domain.SentinelAddress
	}
	return m
}

// Capacity returns the slot count written to the capacity field.
func (m *Mailbox) Capacity() uint32 {
	return uint32(len(m.Slots))
}

// DecodeMailbox parses a mailbox record from the first MailboxLen bytes of src.
func DecodeMailbox(src []byte) (*Mailbox, error) {
	if len(src) < MailboxLen {
		return nil, domain.ErrInvalidInstructionData.Detailf("mailbox record: need %d bytes, have %d", MailboxLen, len(src))
	}

	capacity := binary.LittleEndian.Uint32(src[offCapacity:])
	if capacity != Capacity {
		return nil, domain.ErrInvalidAccountData.Detailf("mailbox capacity %d, want %d", capacity, Capacity)
	}

	m := &Mailbox{
		Owner:   addressAt(src, offOwner),
		NextBox: addressAt(src, offNextBox),
		PrevBox: addressAt(src, offPrevBox),
		InUse:   binary.LittleEndian.Uint32(src[offInUse:]),
	}
	if m.InUse > Capacity {
		return nil, domain.ErrInvalidAccountData.Detailf("mailbox in_use %d exceeds capacity", m.InUse)
	}

	switch src[offInitialized] {
	case 0:
		m.Initialized = false
	case 1:
		m.Initialized = true
	default:
		return nil, domain.ErrInvalidAccountData.Detailf("invalid initialized flag %#x", src[offInitialized])
	}

	for i := range m.Slots {
		m.Slots[i] = addressAt(src, offSlots+i*domain.AddressLen)
	}
	return m, nil
}

// Encode writes the record into dst. dst must hold at least MailboxLen bytes.
func (m *Mailbox) Encode(dst []byte) {
	if len(dst) < MailboxLen {
		panic(fmt.Sprintf("state: mailbox destination too small: %d < %d", len(dst), MailboxLen))
	}

	copy(dst[offOwner:], m.Owner[:])
	copy(dst[offNextBox:], m.NextBox[:])
	copy(dst[offPrevBox:], m.PrevBox[:])
	binary.LittleEndian.PutUint32(dst[offCapacity:], m.Capacity())
	binary.LittleEndian.PutUint32(dst[offInUse:], m.InUse)
	dst[offInitialized] = 0
	if m.Initialized {
		dst[offInitialized] = 1
	}
	for i, slot := range m.Slots {
		copy(dst[offSlots+i*domain.AddressLen:], slot[:])
	}
}

// Bytes returns the encoded record.
func (m *Mailbox) Bytes() []byte {
	buf := make([]byte, MailboxLen)
	m.Encode(buf)
	return buf
}

// IsRoot reports whether the mailbox is the only box of its chain.
func (m *Mailbox) IsRoot(self domain.Address) bool {
	return m.NextBox == self && m.PrevBox == self
}

// IsInitializedRecord reports whether src already holds a live mailbox.
// Zero-filled or otherwise undecodable storage is not initialized.
func IsInitializedRecord(src []byte) bool {
	m, err := DecodeMailbox(src)
	return err == nil && m.Initialized
}

func addressAt(src []byte, off int) domain.Address {
	var a domain.Address
	copy(a[:], src[off:off+domain.AddressLen])
	return a
}
