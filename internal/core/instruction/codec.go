package instruction

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	"github.com/yndnr/solbox-go/internal/core/domain"
)

const (
	tagLen  = 1
	sizeLen = 4

	// InitializeLen is the encoded length of InitializeSolBox.
	InitializeLen = tagLen + domain.AddressLen + sizeLen + 2*domain.AddressLen

	// WriteHeaderLen is the encoded length of WriteMessage without its body.
	WriteHeaderLen = tagLen + 3*domain.AddressLen + sizeLen

	// DeleteLen is the encoded length of DeleteMessage.
	DeleteLen = tagLen + 3*domain.AddressLen
)

// Decode parses one instruction. Fields are read strictly in order; bytes
// after the last field are ignored.
func Decode(input []byte) (Instruction, error) {
	if len(input) < tagLen {
		return nil, domain.ErrInvalidInstructionData.WithDetails("empty instruction")
	}

	d := &decoder{buf: input[tagLen:]}
	switch Tag(input[0]) {
	case TagInitializeSolBox:
		ix := &InitializeSolBox{}
		ix.Owner = d.address()
		ix.NumSlots = d.u32()
		ix.NextBox = d.address()
		ix.PrevBox = d.address()
		return d.result(ix)

	case TagWriteMessage:
		ix := &WriteMessage{}
		ix.Sender = d.address()
		ix.Recipient = d.address()
		ix.Mailbox = d.address()
		size := d.u32()
		ix.Message = d.utf8(size)
		return d.result(ix)

	case TagDeleteMessage:
		ix := &DeleteMessage{}
		ix.Owner = d.address()
		ix.MessageID = d.address()
		ix.Mailbox = d.address()
		return d.result(ix)

	default:
		return nil, domain.ErrInvalidInstructionData.Detailf("unknown tag %d", input[0])
	}
}

// Encode serializes ix. It is the exact inverse of Decode.
func Encode(ix Instruction) []byte {
	buf := make([]byte, 0, EncodedLen(ix))
	buf = append(buf, byte(ix.Tag()))

	switch v := ix.(type) {
	case *InitializeSolBox:
		buf = append(buf, v.Owner[:]...)
		buf = binary.LittleEndian.AppendUint32(buf, v.NumSlots)
		buf = append(buf, v.NextBox[:]...)
		buf = append(buf, v.PrevBox[:]...)
	case *WriteMessage:
		buf = append(buf, v.Sender[:]...)
		buf = append(buf, v.Recipient[:]...)
		buf = append(buf, v.Mailbox[:]...)
		buf = binary.LittleEndian.AppendUint32(buf, v.Size())
		buf = append(buf, v.Message...)
	case *DeleteMessage:
		buf = append(buf, v.Owner[:]...)
		buf = append(buf, v.MessageID[:]...)
		buf = append(buf, v.Mailbox[:]...)
	}
	return buf
}

// EncodedLen returns the number of bytes Encode produces for ix.
func EncodedLen(ix Instruction) int {
	switch v := ix.(type) {
	case *InitializeSolBox:
		return InitializeLen
	case *WriteMessage:
		return WriteHeaderLen + len(v.Message)
	case *DeleteMessage:
		return DeleteLen
	default:
		return 0
	}
}

// decoder consumes fixed-width fields from buf. The first failure sticks
// in err and turns every later read into a no-op.
type decoder struct {
	buf []byte
	err error
}

func (d *decoder) result(ix Instruction) (Instruction, error) {
	if d.err != nil {
		return nil, d.err
	}
	return ix, nil
}

func (d *decoder) take(n int, field string) []byte {
	if d.err != nil {
		return nil
	}
	if len(d.buf) < n {
		d.err = domain.ErrInvalidInstructionData.Detailf("%s: need %d bytes, have %d", field, n, len(d.buf))
		return nil
	}
	b := d.buf[:n]
	d.buf = d.buf[n:]
	return b
}

func (d *decoder) address() domain.Address {
	var a domain.Address
	if b := d.take(domain.AddressLen, "address"); b != nil {
		copy(a[:], b)
	}
	return a
}

func (d *decoder) u32() uint32 {
	if b := d.take(sizeLen, "size"); b != nil {
		return binary.LittleEndian.Uint32(b)
	}
	return 0
}

func (d *decoder) utf8(size uint32) string {
	if d.err != nil {
		return ""
	}
	if uint64(len(d.buf)) < uint64(size) {
		d.err = domain.ErrInvalidInstructionData.Detailf("message: need %d bytes, have %d", size, len(d.buf))
		return ""
	}
	b := d.take(int(size), "message")
	if !utf8.Valid(b) {
		d.err = domain.ErrInvalidAccountData.WithDetails("message is not valid UTF-8")
		return ""
	}
	return string(b)
}

// String renders ix for logs. Message bodies are reduced to their length.
func String(ix Instruction) string {
	switch v := ix.(type) {
	case *InitializeSolBox:
		return fmt.Sprintf("InitializeSolBox{owner=%s slots=%d next=%s prev=%s}", v.Owner, v.NumSlots, v.NextBox, v.PrevBox)
	case *WriteMessage:
		return fmt.Sprintf("WriteMessage{sender=%s recipient=%s mailbox=%s size=%d}", v.Sender, v.Recipient, v.Mailbox, v.Size())
	case *DeleteMessage:
		return fmt.Sprintf("DeleteMessage{owner=%s message=%s mailbox=%s}", v.Owner, v.MessageID, v.Mailbox)
	default:
		return "Unknown{}"
	}
}
