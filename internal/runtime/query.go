package runtime

import (
	"context"
	"fmt"

	"github.com/yndnr/solbox-go/internal/core/domain"
	"github.com/yndnr/solbox-go/internal/core/state"
)

// Mailbox decodes the mailbox record stored at addr.
func (r *Runtime) Mailbox(ctx context.Context, addr domain.Address) (*state.Mailbox, error) {
	reg, err := r.store.Get(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("mailbox %s: %w", addr, err)
	}
	box, err := state.DecodeMailbox(reg.Data)
	if err != nil {
		return nil, fmt.Errorf("mailbox %s: %w", addr, err)
	}
	return box, nil
}

// Message decodes the message record stored at addr.
func (r *Runtime) Message(ctx context.Context, addr domain.Address) (*state.Message, error) {
	reg, err := r.store.Get(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("message %s: %w", addr, err)
	}
	msg, err := state.DecodeMessage(reg.Data)
	if err != nil {
		return nil, fmt.Errorf("message %s: %w", addr, err)
	}
	return msg, nil
}

// Region returns the raw region at addr.
func (r *Runtime) Region(ctx context.Context, addr domain.Address) (*domain.Region, error) {
	return r.store.Get(ctx, addr)
}

// InboxEntry is one message referenced from a mailbox slot.
type InboxEntry struct {
	Slot    int            `json:"slot" yaml:"slot"`
	Address domain.Address `json:"address" yaml:"address"`
	Message *state.Message `json:"message,omitempty" yaml:"message,omitempty"`
	// Err is set when the slot points at a missing or unreadable message.
	Err string `json:"error,omitempty" yaml:"error,omitempty"`
}

// InboxBox is one mailbox of a chain with its messages.
type InboxBox struct {
	Address domain.Address `json:"address" yaml:"address"`
	Mailbox *state.Mailbox `json:"mailbox" yaml:"mailbox"`
	Entries []InboxEntry   `json:"entries" yaml:"entries"`
}

// Inbox follows next_box links starting at root. The walk ends when it
// returns to root, revisits a box, or reaches a box that is missing or
// not an initialized mailbox. root itself must be readable.
func (r *Runtime) Inbox(ctx context.Context, root domain.Address) ([]InboxBox, error) {
	first, err := r.Mailbox(ctx, root)
	if err != nil {
		return nil, err
	}
	if !first.Initialized {
		return nil, fmt.Errorf("mailbox %s: %w", root, domain.ErrInvalidAccountData.WithDetails("not initialized"))
	}

	var out []InboxBox
	visited := map[domain.Address]bool{}
	addr, box := root, first
	for {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		visited[addr] = true
		out = append(out, InboxBox{Address: addr, Mailbox: box, Entries: r.entries(ctx, box)})

		next := box.NextBox
		if next == root || visited[next] {
			return out, nil
		}
		nb, err := r.Mailbox(ctx, next)
		if err != nil || !nb.Initialized {
			return out, nil
		}
		addr, box = next, nb
	}
}

func (r *Runtime) entries(ctx context.Context, box *state.Mailbox) []InboxEntry {
	var out []InboxEntry
	for i, slot := range box.Slots {
		if box.IsEmpty(i) {
			continue
		}
		e := InboxEntry{Slot: i, Address: slot}
		if msg, err := r.Message(ctx, slot); err != nil {
			e.Err = err.Error()
		} else {
			e.Message = msg
		}
		out = append(out, e)
	}
	return out
}
