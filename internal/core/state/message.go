package state

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	"github.com/yndnr/solbox-go/internal/core/domain"
)

// MessageHeaderLen is recipient[32] | sender[32] | size:u32.
const MessageHeaderLen = 2*domain.AddressLen + 4

// Message is the decoded form of a message record.
type Message struct {
	Recipient domain.Address
	Sender    domain.Address
	Body      string
}

// Size returns the declared payload length.
func (m *Message) Size() uint32 {
	return uint32(len(m.Body))
}

// MessageLen returns the encoded length of a message with a size-byte body.
func MessageLen(size int) int {
	return MessageHeaderLen + size
}

// EncodeMessage writes the header followed by body into dst. dst must
// hold at least MessageLen(len(body)) bytes.
func EncodeMessage(recipient, sender domain.Address, body string, dst []byte) {
	need := MessageLen(len(body))
	if len(dst) < need {
		panic(fmt.Sprintf("state: message destination too small: %d < %d", len(dst), need))
	}
	copy(dst[0:], recipient[:])
	copy(dst[domain.AddressLen:], sender[:])
	binary.LittleEndian.PutUint32(dst[2*domain.AddressLen:], uint32(len(body)))
	copy(dst[MessageHeaderLen:], body)
}

// Encode writes m into dst.
func (m *Message) Encode(dst []byte) {
	EncodeMessage(m.Recipient, m.Sender, m.Body, dst)
}

// DecodeMessage parses a message record. The declared size is trusted:
// exactly that many bytes after the header are taken as the body, and
// anything beyond them is ignored.
func DecodeMessage(src []byte) (*Message, error) {
	if len(src) < MessageHeaderLen {
		return nil, domain.ErrInvalidInstructionData.Detailf("message record: need %d bytes, have %d", MessageHeaderLen, len(src))
	}

	size := binary.LittleEndian.Uint32(src[2*domain.AddressLen:])
	body := src[MessageHeaderLen:]
	if uint64(len(body)) < uint64(size) {
		return nil, domain.ErrInvalidInstructionData.Detailf("message declares %d bytes, region holds %d", size, len(body))
	}
	body = body[:size]
	if !utf8.Valid(body) {
		return nil, domain.ErrInvalidAccountData.WithDetails("message is not valid UTF-8")
	}

	return &Message{
		Recipient: addressAt(src, 0),
		Sender:    addressAt(src, domain.AddressLen),
		Body:      string(body),
	}, nil
}

// IsBlankMessage reports whether the header area of src is all zero, i.e.
// no message has been written there yet.
func IsBlankMessage(src []byte) bool {
	n := MessageHeaderLen
	if len(src) < n {
		n = len(src)
	}
	for _, b := range src[:n] {
		if b != 0 {
			return false
		}
	}
	return true
}
