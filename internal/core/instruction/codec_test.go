package instruction

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/yndnr/solbox-go/internal/core/domain"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	box := domain.NewAddress()
	tests := []struct {
		name string
		ix   Instruction
	}{
		{
			name: "initialize",
			ix:   NewInitialize(domain.NewAddress(), box, 20),
		},
		{
			name: "initialize with chain",
			ix: &InitializeSolBox{
				Owner:    domain.NewAddress(),
				NumSlots: 7,
				NextBox:  domain.NewAddress(),
				PrevBox:  domain.NewAddress(),
			},
		},
		{
			name: "write",
			ix: &WriteMessage{
				Sender:    domain.NewAddress(),
				Recipient: domain.NewAddress(),
				Mailbox:   box,
				Message:   "hello world!",
			},
		},
		{
			name: "write multibyte",
			ix: &WriteMessage{
				Sender:    domain.NewAddress(),
				Recipient: domain.NewAddress(),
				Mailbox:   box,
				Message:   "héllo, 世界 ✉",
			},
		},
		{
			name: "write empty body",
			ix: &WriteMessage{
				Sender:    domain.NewAddress(),
				Recipient: domain.NewAddress(),
				Mailbox:   box,
			},
		},
		{
			name: "delete",
			ix: &DeleteMessage{
				Owner:     domain.NewAddress(),
				MessageID: domain.NewAddress(),
				Mailbox:   box,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := Encode(tt.ix)
			if len(raw) != EncodedLen(tt.ix) {
				t.Errorf("len(Encode()) = %d, EncodedLen() = %d", len(raw), EncodedLen(tt.ix))
			}
			if raw[0] != byte(tt.ix.Tag()) {
				t.Errorf("tag byte = %d, want %d", raw[0], tt.ix.Tag())
			}

			got, err := Decode(raw)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.ix) {
				t.Errorf("Decode() = %+v, want %+v", got, tt.ix)
			}
		})
	}
}

func TestWriteMessage_EncodedLength(t *testing.T) {
	ix := &WriteMessage{
		Sender:    domain.NewAddress(),
		Recipient: domain.NewAddress(),
		Mailbox:   domain.NewAddress(),
		Message:   "hello world!",
	}

	raw := Encode(ix)
	// tag + 3 addresses + size + 12 bytes of body
	if len(raw) != 113 {
		t.Fatalf("encoded length = %d, want 113", len(raw))
	}
	if ix.Size() != 12 {
		t.Errorf("Size() = %d, want 12", ix.Size())
	}
	if !bytes.Equal(raw[97:101], []byte{12, 0, 0, 0}) {
		t.Errorf("msg_size bytes = %v, want little-endian 12", raw[97:101])
	}
	if string(raw[101:]) != "hello world!" {
		t.Errorf("body = %q", raw[101:])
	}

	got, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !reflect.DeepEqual(got, ix) {
		t.Errorf("Decode() = %+v, want %+v", got, ix)
	}
}

func TestInitialize_Layout(t *testing.T) {
	owner := domain.NewAddress()
	box := domain.NewAddress()

	raw := Encode(NewInitialize(owner, box, 20))
	if len(raw) != InitializeLen {
		t.Fatalf("encoded length = %d, want %d", len(raw), InitializeLen)
	}
	if !bytes.Equal(raw[1:33], owner[:]) {
		t.Error("owner should follow the tag")
	}
	if !bytes.Equal(raw[33:37], []byte{20, 0, 0, 0}) {
		t.Errorf("num_slots bytes = %v", raw[33:37])
	}
	if !bytes.Equal(raw[37:69], box[:]) || !bytes.Equal(raw[69:101], box[:]) {
		t.Error("root mailbox should link to itself")
	}
}

func TestDecode_UnknownTag(t *testing.T) {
	for _, tag := range []byte{3, 4, 0x7f, 0xff} {
		raw := append([]byte{tag}, make([]byte, 200)...)
		_, err := Decode(raw)
		if !errors.Is(err, domain.ErrInvalidInstructionData) {
			t.Errorf("tag %d: expected ErrInvalidInstructionData, got %v", tag, err)
		}
	}
}

func TestDecode_Truncated(t *testing.T) {
	write := Encode(&WriteMessage{
		Sender:    domain.NewAddress(),
		Recipient: domain.NewAddress(),
		Mailbox:   domain.NewAddress(),
		Message:   "truncate me",
	})
	samples := map[string][]byte{
		"initialize": Encode(NewInitialize(domain.NewAddress(), domain.NewAddress(), 20)),
		"write":      write,
		"delete": Encode(&DeleteMessage{
			Owner:     domain.NewAddress(),
			MessageID: domain.NewAddress(),
			Mailbox:   domain.NewAddress(),
		}),
	}

	for name, raw := range samples {
		t.Run(name, func(t *testing.T) {
			for n := 0; n < len(raw); n++ {
				ix, err := Decode(raw[:n])
				if !errors.Is(err, domain.ErrInvalidInstructionData) {
					t.Fatalf("prefix %d: expected ErrInvalidInstructionData, got %v", n, err)
				}
				if ix != nil {
					t.Fatalf("prefix %d: expected nil instruction on error", n)
				}
			}
		})
	}
}

func TestDecode_InvalidUTF8(t *testing.T) {
	ix := &WriteMessage{
		Sender:    domain.NewAddress(),
		Recipient: domain.NewAddress(),
		Mailbox:   domain.NewAddress(),
		Message:   "abcd",
	}
	raw := Encode(ix)
	raw[len(raw)-2] = 0xff

	_, err := Decode(raw)
	if !errors.Is(err, domain.ErrInvalidAccountData) {
		t.Fatalf("expected ErrInvalidAccountData, got %v", err)
	}
}

func TestDecode_IgnoresTrailingBytes(t *testing.T) {
	ix := &DeleteMessage{
		Owner:     domain.NewAddress(),
		MessageID: domain.NewAddress(),
		Mailbox:   domain.NewAddress(),
	}
	raw := append(Encode(ix), 0xde, 0xad)

	got, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !reflect.DeepEqual(got, ix) {
		t.Errorf("Decode() = %+v, want %+v", got, ix)
	}
}

func TestTag_String(t *testing.T) {
	if TagWriteMessage.String() != "WriteMessage" {
		t.Errorf("TagWriteMessage.String() = %s", TagWriteMessage.String())
	}
	if Tag(9).String() != "Unknown" {
		t.Errorf("Tag(9).String() = %s", Tag(9).String())
	}
}

func TestString_HidesBody(t *testing.T) {
	s := String(&WriteMessage{Message: "top secret"})
	if bytes.Contains([]byte(s), []byte("top secret")) {
		t.Errorf("String() leaked body: %s", s)
	}
}
