package state

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/yndnr/solbox-go/internal/core/domain"
)

func TestMessageLen(t *testing.T) {
	if MessageHeaderLen != 68 {
		t.Errorf("MessageHeaderLen = %d, want 68", MessageHeaderLen)
	}
	if got := MessageLen(11); got != 79 {
		t.Errorf("MessageLen(11) = %d, want 79", got)
	}
}

func TestMessage_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"ascii", "hello world"},
		{"multibyte", "héllo 世界"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := &Message{Recipient: domain.NewAddress(), Sender: domain.NewAddress(), Body: tt.body}
			buf := make([]byte, MessageLen(len(tt.body)))
			in.Encode(buf)

			if got := binary.LittleEndian.Uint32(buf[64:]); got != uint32(len(tt.body)) {
				t.Errorf("size field = %d", got)
			}

			out, err := DecodeMessage(buf)
			if err != nil {
				t.Fatalf("DecodeMessage() error = %v", err)
			}
			if *out != *in {
				t.Errorf("DecodeMessage() = %+v, want %+v", out, in)
			}
		})
	}
}

func TestEncodeMessage_Layout(t *testing.T) {
	recipient, sender := domain.NewAddress(), domain.NewAddress()
	buf := make([]byte, MessageLen(11))
	EncodeMessage(recipient, sender, "hello world", buf)

	if domain.Address(buf[0:32]) != recipient {
		t.Error("recipient should come first")
	}
	if domain.Address(buf[32:64]) != sender {
		t.Error("sender should follow recipient")
	}
	if string(buf[68:]) != "hello world" {
		t.Errorf("payload = %q", buf[68:])
	}
}

func TestDecodeMessage_TrustsDeclaredSize(t *testing.T) {
	buf := make([]byte, MessageLen(5)+10)
	EncodeMessage(domain.NewAddress(), domain.NewAddress(), "hello", buf)
	copy(buf[MessageLen(5):], "trailing!!")

	m, err := DecodeMessage(buf)
	if err != nil {
		t.Fatalf("DecodeMessage() error = %v", err)
	}
	if m.Body != "hello" {
		t.Errorf("Body = %q, want %q", m.Body, "hello")
	}
}

func TestDecodeMessage_Errors(t *testing.T) {
	t.Run("shorter than header", func(t *testing.T) {
		if _, err := DecodeMessage(make([]byte, MessageHeaderLen-1)); !errors.Is(err, domain.ErrInvalidInstructionData) {
			t.Errorf("error = %v", err)
		}
	})

	t.Run("declared size exceeds region", func(t *testing.T) {
		buf := make([]byte, MessageLen(4))
		binary.LittleEndian.PutUint32(buf[64:], 100)
		m, err := DecodeMessage(buf)
		if !errors.Is(err, domain.ErrInvalidInstructionData) || m != nil {
			t.Errorf("DecodeMessage() = %v, %v", m, err)
		}
	})

	t.Run("size near uint32 max", func(t *testing.T) {
		buf := make([]byte, MessageHeaderLen)
		binary.LittleEndian.PutUint32(buf[64:], 0xffffffff)
		if _, err := DecodeMessage(buf); !errors.Is(err, domain.ErrInvalidInstructionData) {
			t.Errorf("error = %v", err)
		}
	})

	t.Run("invalid utf8", func(t *testing.T) {
		buf := make([]byte, MessageLen(2))
		binary.LittleEndian.PutUint32(buf[64:], 2)
		buf[68], buf[69] = 0xff, 0xfe
		if _, err := DecodeMessage(buf); !errors.Is(err, domain.ErrInvalidAccountData) {
			t.Errorf("error = %v", err)
		}
	})
}

func TestIsBlankMessage(t *testing.T) {
	buf := make([]byte, MessageLen(3))
	if !IsBlankMessage(buf) {
		t.Error("zeroed region should be blank")
	}
	EncodeMessage(domain.NewAddress(), domain.NewAddress(), "abc", buf)
	if IsBlankMessage(buf) {
		t.Error("written region should not be blank")
	}
	if !IsBlankMessage(nil) {
		t.Error("empty region has no header and counts as blank")
	}
}

func TestEncodeMessage_PanicsOnShortBuffer(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("EncodeMessage() should panic when dst is too small")
		}
	}()
	EncodeMessage(domain.NewAddress(), domain.NewAddress(), "abc", make([]byte, MessageLen(2)))
}
