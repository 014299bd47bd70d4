package runtime

import (
	"testing"

	"github.com/yndnr/solbox-go/internal/core/domain"
	"github.com/yndnr/solbox-go/internal/core/instruction"
	"github.com/yndnr/solbox-go/internal/core/state"
)

// linkBox initializes a mailbox at addr with the given links.
func (e *env) linkBox(addr, next, prev domain.Address) {
	e.t.Helper()
	if _, err := e.rt.CreateFundedRegion(e.ctx, addr, state.MailboxLen); err != nil {
		e.t.Fatal(err)
	}
	ix := &instruction.InitializeSolBox{Owner: e.owner, NumSlots: state.Capacity, NextBox: next, PrevBox: prev}
	if _, err := e.rt.Execute(e.ctx, Transaction{Caller: e.owner, Data: instruction.Encode(ix), Regions: []domain.Address{addr}}); err != nil {
		e.t.Fatalf("init %s: %v", addr, err)
	}
}

func TestInbox_SingleBox(t *testing.T) {
	e := newEnv(t)
	e.initMailbox()
	msg, _ := e.writeMessage("one")

	boxes, err := e.rt.Inbox(e.ctx, e.box)
	if err != nil {
		t.Fatal(err)
	}
	if len(boxes) != 1 || len(boxes[0].Entries) != 1 {
		t.Fatalf("Inbox() = %+v", boxes)
	}
	entry := boxes[0].Entries[0]
	if entry.Address != msg || entry.Message.Body != "one" || entry.Slot != 0 {
		t.Errorf("entry = %+v", entry)
	}
}

func TestInbox_Chain(t *testing.T) {
	e := newEnv(t)
	a, b, c := domain.NewAddress(), domain.NewAddress(), domain.NewAddress()
	e.linkBox(a, b, c)
	e.linkBox(b, c, a)
	e.linkBox(c, a, b)

	boxes, err := e.rt.Inbox(e.ctx, a)
	if err != nil {
		t.Fatal(err)
	}
	if len(boxes) != 3 || boxes[0].Address != a || boxes[1].Address != b || boxes[2].Address != c {
		t.Errorf("walk order wrong: %d boxes", len(boxes))
	}
}

func TestInbox_StopsOnCycleAndMissing(t *testing.T) {
	e := newEnv(t)
	a, b := domain.NewAddress(), domain.NewAddress()
	// a -> b -> b: b links to itself, never back to a.
	e.linkBox(a, b, a)
	e.linkBox(b, b, a)

	boxes, err := e.rt.Inbox(e.ctx, a)
	if err != nil || len(boxes) != 2 {
		t.Errorf("cycle walk = %d boxes, %v", len(boxes), err)
	}

	d := domain.NewAddress()
	e.linkBox(d, domain.NewAddress(), d) // next box does not exist
	boxes, err = e.rt.Inbox(e.ctx, d)
	if err != nil || len(boxes) != 1 {
		t.Errorf("missing-link walk = %d boxes, %v", len(boxes), err)
	}
}

func TestInbox_RootMustExist(t *testing.T) {
	e := newEnv(t)
	if _, err := e.rt.Inbox(e.ctx, domain.NewAddress()); err == nil {
		t.Error("Inbox() on unknown root should fail")
	}
}
