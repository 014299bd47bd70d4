package instruction

import (
	"github.com/yndnr/solbox-go/internal/core/domain"
)

// Tag identifies an instruction variant on the wire.
type Tag uint8

// Instruction tags.
const (
	TagInitializeSolBox Tag = 0
	TagWriteMessage     Tag = 1
	TagDeleteMessage    Tag = 2
)

// String returns the variant name.
func (t Tag) String() string {
	switch t {
	case TagInitializeSolBox:
		return "InitializeSolBox"
	case TagWriteMessage:
		return "WriteMessage"
	case TagDeleteMessage:
		return "DeleteMessage"
	default:
		return "Unknown"
	}
}

// Instruction is one of *InitializeSolBox, *WriteMessage or *DeleteMessage.
// The set is closed: the unexported method keeps other packages from
// adding variants.
type Instruction interface {
	Tag() Tag
	isInstruction()
}

// InitializeSolBox creates a mailbox record in a fresh region.
type InitializeSolBox struct {
	// Owner is the principal allowed to mutate the mailbox.
	Owner domain.Address
	// NumSlots is the requested capacity. Only the fixed capacity is accepted.
	NumSlots uint32
	// NextBox is the next mailbox in the chain (self when root).
	NextBox domain.Address
	// PrevBox is the previous mailbox in the chain (self when root).
	PrevBox domain.Address
}

// WriteMessage stores a message and references it from a mailbox.
type WriteMessage struct {
	Sender    domain.Address
	Recipient domain.Address
	Mailbox   domain.Address
	// Message is the UTF-8 body. Its byte length is the msg_size wire field.
	Message string
}

// DeleteMessage removes a message from a mailbox and releases its storage.
type DeleteMessage struct {
	Owner     domain.Address
	MessageID domain.Address
	Mailbox   domain.Address
}

func (*InitializeSolBox) Tag() Tag { return TagInitializeSolBox }
func (*WriteMessage) Tag() Tag     { return TagWriteMessage }
func (*DeleteMessage) Tag() Tag    { return TagDeleteMessage }

func (*InitializeSolBox) isInstruction() {}
func (*WriteMessage) isInstruction()     {}
func (*DeleteMessage) isInstruction()    {}

// Size returns the declared message length.
func (w *WriteMessage) Size() uint32 {
	return uint32(len(w.Message))
}

// NewInitialize builds the instruction for a root mailbox: the chain
// points back at the mailbox itself.
func NewInitialize(owner, mailbox domain.Address, numSlots uint32) *InitializeSolBox {
	return &InitializeSolBox{
		Owner:    owner,
		NumSlots: numSlots,
		NextBox:  mailbox,
		PrevBox:  mailbox,
	}
}
