package command

import (
	"fmt"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/solbox-go/internal/cli/output"
	"github.com/yndnr/solbox-go/internal/core/domain"
	"github.com/yndnr/solbox-go/internal/core/instruction"
	"github.com/yndnr/solbox-go/internal/core/state"
	"github.com/yndnr/solbox-go/internal/runtime"
)

// bodyPreview is the body length shown in narrow tables.
const bodyPreview = 40

type addressView struct {
	Name    string         `json:"name" yaml:"name"`
	Address domain.Address `json:"address" yaml:"address"`
}

type receiptView struct {
	ID      string           `json:"id" yaml:"id"`
	Kind    string           `json:"kind" yaml:"kind"`
	Caller  domain.Address   `json:"caller" yaml:"caller"`
	Target  domain.Address   `json:"target" yaml:"target"`
	Written []domain.Address `json:"written,omitempty" yaml:"written,omitempty" table:"wide"`
	Removed []domain.Address `json:"removed,omitempty" yaml:"removed,omitempty" table:"wide"`
	Elapsed time.Duration    `json:"elapsed" yaml:"elapsed"`
}

func newReceiptView(r *runtime.Receipt, target domain.Address) *receiptView {
	return &receiptView{
		ID:      r.ID.String(),
		Kind:    r.Kind,
		Caller:  r.Caller,
		Target:  target,
		Written: r.Written,
		Removed: r.Removed,
		Elapsed: r.Elapsed,
	}
}

type slotView struct {
	Slot    int            `json:"slot" yaml:"slot"`
	Message domain.Address `json:"message" yaml:"message"`
}

type mailboxView struct {
	Address     domain.Address `json:"address" yaml:"address"`
	Owner       domain.Address `json:"owner" yaml:"owner"`
	NextBox     domain.Address `json:"next_box" yaml:"next_box"`
	PrevBox     domain.Address `json:"prev_box" yaml:"prev_box"`
	Root        bool           `json:"root" yaml:"root"`
	Capacity    uint32         `json:"capacity" yaml:"capacity"`
	InUse       uint32         `json:"in_use" yaml:"in_use"`
	Initialized bool           `json:"initialized" yaml:"initialized"`
	Balance     uint64         `json:"balance" yaml:"balance"`
	Slots       []slotView     `json:"slots" yaml:"slots"`
}

func newMailboxView(addr domain.Address, balance uint64, box *state.Mailbox) *mailboxView {
	v := &mailboxView{
		Address:     addr,
		Owner:       box.Owner,
		NextBox:     box.NextBox,
		PrevBox:     box.PrevBox,
		Root:        box.IsRoot(addr),
		Capacity:    box.Capacity(),
		InUse:       box.InUse,
		Initialized: box.Initialized,
		Balance:     balance,
		Slots:       []slotView{},
	}
	for i, slot := range box.Slots {
		if !box.IsEmpty(i) {
			v.Slots = append(v.Slots, slotView{Slot: i, Message: slot})
		}
	}
	return v
}

// Table lists the header fields followed by one row per occupied slot.
func (v *mailboxView) Table(bool) *output.Table {
	t := output.NewTable("FIELD", "VALUE")
	t.AddRow("address", v.Address.String())
	t.AddRow("owner", v.Owner.String())
	t.AddRow("next_box", v.NextBox.String())
	t.AddRow("prev_box", v.PrevBox.String())
	t.AddRow("root", strconv.FormatBool(v.Root))
	t.AddRow("capacity", strconv.FormatUint(uint64(v.Capacity), 10))
	t.AddRow("in_use", strconv.FormatUint(uint64(v.InUse), 10))
	t.AddRow("initialized", strconv.FormatBool(v.Initialized))
	t.AddRow("balance", strconv.FormatUint(v.Balance, 10))
	for _, s := range v.Slots {
		t.AddRow(fmt.Sprintf("slot[%d]", s.Slot), s.Message.String())
	}
	return t
}

type messageView struct {
	Address   domain.Address `json:"address" yaml:"address"`
	Recipient domain.Address `json:"recipient" yaml:"recipient"`
	Sender    domain.Address `json:"sender" yaml:"sender"`
	Size      uint32         `json:"size" yaml:"size"`
	Body      string         `json:"body" yaml:"body"`
	Balance   uint64         `json:"balance" yaml:"balance" table:"wide"`
}

func newMessageView(addr domain.Address, balance uint64, msg *state.Message) *messageView {
	return &messageView{
		Address:   addr,
		Recipient: msg.Recipient,
		Sender:    msg.Sender,
		Size:      msg.Size(),
		Body:      msg.Body,
		Balance:   balance,
	}
}

type inboxRow struct {
	Mailbox domain.Address  `json:"mailbox" yaml:"mailbox"`
	Slot    int             `json:"slot" yaml:"slot"`
	Message domain.Address  `json:"message" yaml:"message"`
	Sender  *domain.Address `json:"sender,omitempty" yaml:"sender,omitempty"`
	Size    uint32          `json:"size" yaml:"size"`
	Body    string          `json:"body,omitempty" yaml:"body,omitempty"`
	Error   string          `json:"error,omitempty" yaml:"error,omitempty"`
}

type inboxView struct {
	Root    domain.Address   `json:"root" yaml:"root"`
	Boxes   []domain.Address `json:"boxes" yaml:"boxes"`
	Entries []inboxRow       `json:"entries" yaml:"entries"`
}

func newInboxView(root domain.Address, boxes []runtime.InboxBox) *inboxView {
	v := &inboxView{Root: root, Boxes: []domain.Address{}, Entries: []inboxRow{}}
	for _, b := range boxes {
		v.Boxes = append(v.Boxes, b.Address)
		for _, e := range b.Entries {
			row := inboxRow{Mailbox: b.Address, Slot: e.Slot, Message: e.Address, Error: e.Err}
			if e.Message != nil {
				sender := e.Message.Sender
				row.Sender = &sender
				row.Size = e.Message.Size()
				row.Body = e.Message.Body
			}
			v.Entries = append(v.Entries, row)
		}
	}
	return v
}

// Table shows one row per message. Bodies are cut short unless wide.
func (v *inboxView) Table(wide bool) *output.Table {
	t := output.NewTable("MAILBOX", "SLOT", "MESSAGE", "SENDER", "SIZE", "BODY")
	for _, r := range v.Entries {
		sender := "-"
		if r.Sender != nil {
			sender = r.Sender.String()
		}
		body := r.Body
		if r.Error != "" {
			body = "error: " + r.Error
		} else if !wide {
			body = preview(body)
		}
		t.AddRow(r.Mailbox.String(), strconv.Itoa(r.Slot), r.Message.String(), sender, strconv.FormatUint(uint64(r.Size), 10), body)
	}
	return t
}

func preview(s string) string {
	runes := []rune(s)
	if len(runes) <= bodyPreview {
		return s
	}
	return string(runes[:bodyPreview-3]) + "..."
}

type instructionView struct {
	Tag       uint8           `json:"tag" yaml:"tag"`
	Kind      string          `json:"kind" yaml:"kind"`
	Owner     *domain.Address `json:"owner,omitempty" yaml:"owner,omitempty"`
	NumSlots  *uint32         `json:"num_slots,omitempty" yaml:"num_slots,omitempty"`
	NextBox   *domain.Address `json:"next_box,omitempty" yaml:"next_box,omitempty"`
	PrevBox   *domain.Address `json:"prev_box,omitempty" yaml:"prev_box,omitempty"`
	Sender    *domain.Address `json:"sender,omitempty" yaml:"sender,omitempty"`
	Recipient *domain.Address `json:"recipient,omitempty" yaml:"recipient,omitempty"`
	Mailbox   *domain.Address `json:"mailbox,omitempty" yaml:"mailbox,omitempty"`
	MessageID *domain.Address `json:"message_id,omitempty" yaml:"message_id,omitempty"`
	Size      *uint32         `json:"size,omitempty" yaml:"size,omitempty"`
	Message   *string         `json:"message,omitempty" yaml:"message,omitempty"`
}

func newInstructionView(ix instruction.Instruction) *instructionView {
	v := &instructionView{Tag: uint8(ix.Tag()), Kind: ix.Tag().String()}
	switch x := ix.(type) {
	case *instruction.InitializeSolBox:
		v.Owner, v.NumSlots, v.NextBox, v.PrevBox = &x.Owner, &x.NumSlots, &x.NextBox, &x.PrevBox
	case *instruction.WriteMessage:
		size := x.Size()
		v.Sender, v.Recipient, v.Mailbox = &x.Sender, &x.Recipient, &x.Mailbox
		v.Size, v.Message = &size, &x.Message
	case *instruction.DeleteMessage:
		v.Owner, v.MessageID, v.Mailbox = &x.Owner, &x.MessageID, &x.Mailbox
	}
	return v
}

// Table lists only the fields the variant carries.
func (v *instructionView) Table(bool) *output.Table {
	t := output.NewTable("FIELD", "VALUE")
	t.AddRow("tag", strconv.Itoa(int(v.Tag)))
	t.AddRow("kind", v.Kind)
	addr := func(name string, a *domain.Address) {
		if a != nil {
			t.AddRow(name, a.String())
		}
	}
	u32 := func(name string, n *uint32) {
		if n != nil {
			t.AddRow(name, strconv.FormatUint(uint64(*n), 10))
		}
	}
	addr("owner", v.Owner)
	u32("num_slots", v.NumSlots)
	addr("next_box", v.NextBox)
	addr("prev_box", v.PrevBox)
	addr("sender", v.Sender)
	addr("recipient", v.Recipient)
	addr("mailbox", v.Mailbox)
	addr("message_id", v.MessageID)
	u32("size", v.Size)
	if v.Message != nil {
		t.AddRow("message", *v.Message)
	}
	return t
}

// addressFlag parses a base58 address flag.
func addressFlag(c *cli.Context, name string) (domain.Address, error) {
	a, err := domain.ParseAddress(c.String(name))
	if err != nil {
		return domain.Address{}, fmt.Errorf("--%s: %w", name, err)
	}
	return a, nil
}

// optionalAddressFlag parses name when set and returns def otherwise.
func optionalAddressFlag(c *cli.Context, name string, def domain.Address) (domain.Address, error) {
	if !c.IsSet(name) {
		return def, nil
	}
	return addressFlag(c, name)
}

// addressArg parses the first positional argument.
func addressArg(c *cli.Context, what string) (domain.Address, error) {
	if c.NArg() < 1 {
		return domain.Address{}, fmt.Errorf("%s address is required", what)
	}
	a, err := domain.ParseAddress(c.Args().First())
	if err != nil {
		return domain.Address{}, fmt.Errorf("%s address: %w", what, err)
	}
	return a, nil
}
