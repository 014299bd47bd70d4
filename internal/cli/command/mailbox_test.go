package command

import (
	"strings"
	"testing"

	"github.com/yndnr/solbox-go/internal/core/domain"
)

type receiptOut struct {
	ID      string           `json:"id"`
	Kind    string           `json:"kind"`
	Caller  domain.Address   `json:"caller"`
	Target  domain.Address   `json:"target"`
	Written []domain.Address `json:"written"`
	Removed []domain.Address `json:"removed"`
}

func contains(list []domain.Address, a domain.Address) bool {
	for _, x := range list {
		if x == a {
			return true
		}
	}
	return false
}

func TestMailboxLifecycle(t *testing.T) {
	h := newHarness(t)
	owner, box := domain.NewAddress(), domain.NewAddress()
	recipient, msg := domain.NewAddress(), domain.NewAddress()

	// init
	var rcpt receiptOut
	h.mustRun(&rcpt, "mailbox", "init", "--owner", owner.String(), "--address", box.String())
	if rcpt.Kind != "InitializeSolBox" || rcpt.Target != box || len(rcpt.ID) != 26 {
		t.Errorf("init receipt = %+v", rcpt)
	}

	var mv mailboxView
	h.mustRun(&mv, "mailbox", "show", box.String())
	if mv.Owner != owner || !mv.Root || mv.Capacity != 20 || mv.InUse != 0 || !mv.Initialized || len(mv.Slots) != 0 {
		t.Errorf("fresh mailbox = %+v", mv)
	}
	if mv.Balance == 0 {
		t.Error("mailbox region should be funded")
	}

	// write
	h.mustRun(&rcpt, "message", "write",
		"--as", owner.String(), "--mailbox", box.String(), "--to", recipient.String(),
		"--message", msg.String(), "hello solbox")
	if rcpt.Kind != "WriteMessage" || !contains(rcpt.Written, msg) || !contains(rcpt.Written, box) {
		t.Errorf("write receipt = %+v", rcpt)
	}

	h.mustRun(&mv, "mailbox", "show", box.String())
	if mv.InUse != 1 || len(mv.Slots) != 1 || mv.Slots[0].Slot != 0 || mv.Slots[0].Message != msg {
		t.Errorf("mailbox after write = %+v", mv)
	}

	var m messageView
	h.mustRun(&m, "message", "show", msg.String())
	if m.Body != "hello solbox" || m.Sender != owner || m.Recipient != recipient || m.Size != 12 {
		t.Errorf("message = %+v", m)
	}

	var inbox inboxView
	h.mustRun(&inbox, "inbox", box.String())
	if len(inbox.Boxes) != 1 || len(inbox.Entries) != 1 || inbox.Entries[0].Body != "hello solbox" {
		t.Errorf("inbox = %+v", inbox)
	}

	// delete
	h.mustRun(&rcpt, "message", "delete", "--as", owner.String(), "--mailbox", box.String(), "--message", msg.String())
	if rcpt.Kind != "DeleteMessage" || !contains(rcpt.Removed, msg) || !contains(rcpt.Written, owner) {
		t.Errorf("delete receipt = %+v", rcpt)
	}

	h.mustRun(&mv, "mailbox", "show", box.String())
	if mv.InUse != 0 || len(mv.Slots) != 0 {
		t.Errorf("mailbox after delete = %+v", mv)
	}
	if _, err := h.run("message", "show", msg.String()); err == nil {
		t.Error("deleted message region should be gone")
	}
}

func TestMailboxInit_Rejections(t *testing.T) {
	h := newHarness(t)
	owner, box := domain.NewAddress(), domain.NewAddress()

	h.mustRun(nil, "mailbox", "init", "--owner", owner.String(), "--address", box.String())

	_, err := h.run("mailbox", "init", "--owner", owner.String(), "--address", box.String())
	if err == nil || !strings.Contains(err.Error(), "SolBoxAlreadyInitialized") {
		t.Errorf("re-init error = %v", err)
	}

	other := domain.NewAddress()
	_, err = h.run("mailbox", "init", "--owner", owner.String(), "--address", other.String(), "--slots", "10")
	if err == nil || !strings.Contains(err.Error(), "SolBoxInvalidNumSpots") {
		t.Errorf("bad slots error = %v", err)
	}
	// the rejected region was released again
	if _, err := h.run("mailbox", "show", other.String()); err == nil {
		t.Error("rejected mailbox region should have been dropped")
	}

	if _, err := h.run("mailbox", "init", "--owner", "nope!"); err == nil {
		t.Error("invalid owner should fail")
	}
	if _, err := h.run("mailbox", "show"); err == nil {
		t.Error("show without address should fail")
	}
}

func TestMessageWrite_Rejections(t *testing.T) {
	h := newHarness(t)
	owner, box := domain.NewAddress(), domain.NewAddress()
	h.mustRun(nil, "mailbox", "init", "--owner", owner.String(), "--address", box.String())

	msg := domain.NewAddress()
	_, err := h.run("message", "write",
		"--as", domain.NewAddress().String(), "--mailbox", box.String(), "--to", owner.String(),
		"--message", msg.String(), "spoofed")
	if err == nil || !strings.Contains(err.Error(), "OwnerMismatch") {
		t.Errorf("foreign caller error = %v", err)
	}
	if _, err := h.run("message", "show", msg.String()); err == nil {
		t.Error("rejected message region should have been dropped")
	}

	_, err = h.run("message", "write", "--as", owner.String(), "--mailbox", box.String(), "--to", owner.String())
	if err == nil {
		t.Error("missing text should fail")
	}

	// unknown regions are handed over as system-owned
	_, err = h.run("message", "delete", "--as", owner.String(), "--mailbox", box.String(), "--message", msg.String())
	if err == nil || !strings.Contains(err.Error(), "OwnerMismatch") {
		t.Errorf("delete of unknown message error = %v", err)
	}
}

func TestMailboxFull(t *testing.T) {
	h := newHarness(t)
	owner, box := domain.NewAddress(), domain.NewAddress()
	h.mustRun(nil, "mailbox", "init", "--owner", owner.String(), "--address", box.String())

	for i := 0; i < 20; i++ {
		h.mustRun(nil, "message", "write", "--as", owner.String(), "--mailbox", box.String(), "--to", owner.String(), "m")
	}
	_, err := h.run("message", "write", "--as", owner.String(), "--mailbox", box.String(), "--to", owner.String(), "m")
	if err == nil || !strings.Contains(err.Error(), "SolBoxNoSpaceLeft") {
		t.Errorf("write to full mailbox error = %v", err)
	}

	var inbox inboxView
	h.mustRun(&inbox, "inbox", box.String())
	if len(inbox.Entries) != 20 {
		t.Errorf("inbox entries = %d, want 20", len(inbox.Entries))
	}
}

func TestMessageDelete_NotInMailbox(t *testing.T) {
	h := newHarness(t)
	owner := domain.NewAddress()
	boxA, boxB := domain.NewAddress(), domain.NewAddress()
	h.mustRun(nil, "mailbox", "init", "--owner", owner.String(), "--address", boxA.String())
	h.mustRun(nil, "mailbox", "init", "--owner", owner.String(), "--address", boxB.String())

	msg := domain.NewAddress()
	h.mustRun(nil, "message", "write", "--as", owner.String(), "--mailbox", boxA.String(), "--to", owner.String(), "--message", msg.String(), "x")

	_, err := h.run("message", "delete", "--as", owner.String(), "--mailbox", boxB.String(), "--message", msg.String())
	if err == nil || !strings.Contains(err.Error(), "MessageNotFound") {
		t.Errorf("delete from the wrong mailbox error = %v", err)
	}
}
