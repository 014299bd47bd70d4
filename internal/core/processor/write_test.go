package processor

import (
	"errors"
	"testing"

	"github.com/yndnr/solbox-go/internal/core/domain"
	"github.com/yndnr/solbox-go/internal/core/instruction"
	"github.com/yndnr/solbox-go/internal/core/state"
)

func TestWrite_FirstMessageTakesSlotZero(t *testing.T) {
	f := newFixture(t)
	f.init()

	msg := f.messageRegion("hello world")
	if err := f.write(msg, "hello world"); err != nil {
		t.Fatalf("write: %v", err)
	}

	box := f.box()
	if box.Slots[0] != msg.Address {
		t.Errorf("slot 0 = %s, want %s", box.Slots[0], msg.Address)
	}
	for i := 1; i < state.Capacity; i++ {
		if !box.IsEmpty(i) {
			t.Errorf("slot %d should still be empty", i)
		}
	}
	if box.InUse != 1 {
		t.Errorf("InUse = %d, want 1", box.InUse)
	}

	stored, err := state.DecodeMessage(msg.Data)
	if err != nil {
		t.Fatalf("decode message: %v", err)
	}
	if stored.Body != "hello world" || stored.Recipient != f.owner {
		t.Errorf("stored message = %+v", stored)
	}
}

func TestWrite_FillsBoxThenFails(t *testing.T) {
	f := newFixture(t)
	f.init()

	for i := 0; i < state.Capacity; i++ {
		if err := f.write(f.messageRegion("m"), "m"); err != nil {
			t.Fatalf("write #%d: %v", i, err)
		}
	}

	msg := f.messageRegion("m")
	before := snapshot(msg, f.mailbox)
	if err := f.write(msg, "m"); !errors.Is(err, domain.ErrSolBoxNoSpaceLeft) {
		t.Fatalf("write to full box error = %v", err)
	}
	assertUnchanged(t, before, msg, f.mailbox)
	if f.box().InUse != state.Capacity {
		t.Errorf("InUse = %d", f.box().InUse)
	}
}

func TestWrite_Rejections(t *testing.T) {
	const body = "hello"

	tests := []struct {
		name  string
		setup func(f *fixture, msg *domain.Region) (caller domain.Address, ix *instruction.WriteMessage)
		want  error
	}{
		{
			name: "message region not owned by program",
			setup: func(f *fixture, msg *domain.Region) (domain.Address, *instruction.WriteMessage) {
				msg.Owner = domain.SystemProgramID
				return f.owner, writeIx(f, body)
			},
			want: domain.ErrOwnerMismatch,
		},
		{
			name: "message region sized for another body",
			setup: func(f *fixture, msg *domain.Region) (domain.Address, *instruction.WriteMessage) {
				return f.owner, writeIx(f, body+"!")
			},
			want: domain.ErrInvalidInstructionData,
		},
		{
			name: "sentinel message address",
			setup: func(f *fixture, msg *domain.Region) (domain.Address, *instruction.WriteMessage) {
				msg.Address = domain.SentinelAddress
				return f.owner, writeIx(f, body)
			},
			want: domain.ErrInvalidInstructionData,
		},
		{
			name: "message region not exempt",
			setup: func(f *fixture, msg *domain.Region) (domain.Address, *instruction.WriteMessage) {
				msg.Balance = 0
				return f.owner, writeIx(f, body)
			},
			want: domain.ErrInsufficientFunds,
		},
		{
			name: "message region already written",
			setup: func(f *fixture, msg *domain.Region) (domain.Address, *instruction.WriteMessage) {
				msg.Data[0] = 1
				return f.owner, writeIx(f, body)
			},
			want: domain.ErrInvalidAccountData,
		},
		{
			name: "mailbox region not owned by program",
			setup: func(f *fixture, msg *domain.Region) (domain.Address, *instruction.WriteMessage) {
				f.mailbox.Owner = domain.NewAddress()
				return f.owner, writeIx(f, body)
			},
			want: domain.ErrOwnerMismatch,
		},
		{
			name: "instruction names another mailbox",
			setup: func(f *fixture, msg *domain.Region) (domain.Address, *instruction.WriteMessage) {
				ix := writeIx(f, body)
				ix.Mailbox = domain.NewAddress()
				return f.owner, ix
			},
			want: domain.ErrIncorrectSolBox,
		},
		{
			name: "caller does not own mailbox",
			setup: func(f *fixture, msg *domain.Region) (domain.Address, *instruction.WriteMessage) {
				return domain.NewAddress(), writeIx(f, body)
			},
			want: domain.ErrOwnerMismatch,
		},
		{
			name: "mailbox not initialized",
			setup: func(f *fixture, msg *domain.Region) (domain.Address, *instruction.WriteMessage) {
				box := f.box()
				box.Initialized = false
				box.Encode(f.mailbox.Data)
				return f.owner, writeIx(f, body)
			},
			want: domain.ErrInvalidAccountData,
		},
		{
			name: "mailbox bytes corrupted",
			setup: func(f *fixture, msg *domain.Region) (domain.Address, *instruction.WriteMessage) {
				f.mailbox.Data[104] = 7
				return f.owner, writeIx(f, body)
			},
			want: domain.ErrInvalidAccountData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.init()
			msg := f.messageRegion(body)
			caller, ix := tt.setup(f, msg)
			before := snapshot(msg, f.mailbox)

			err := f.p.Process(Call{Caller: caller, Data: instruction.Encode(ix), Regions: []*domain.Region{msg, f.mailbox}})
			if !errors.Is(err, tt.want) {
				t.Fatalf("Process() error = %v, want %v", err, tt.want)
			}
			assertUnchanged(t, before, msg, f.mailbox)
		})
	}
}

func writeIx(f *fixture, body string) *instruction.WriteMessage {
	return &instruction.WriteMessage{
		Sender:    domain.NewAddress(),
		Recipient: f.owner,
		Mailbox:   f.mailbox.Address,
		Message:   body,
	}
}
