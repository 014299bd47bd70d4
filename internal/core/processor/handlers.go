package processor

import (
	"github.com/yndnr/solbox-go/internal/core/domain"
	"github.com/yndnr/solbox-go/internal/core/instruction"
	"github.com/yndnr/solbox-go/internal/core/state"
)

// ============================================================================
// InitializeSolBox
// ============================================================================

// initialize expects regions [mailbox].
func (p *Processor) initialize(call Call, ix *instruction.InitializeSolBox) error {
	if err := regions(call, 1, "mailbox"); err != nil {
		return err
	}
	mailbox := call.Regions[0]

	// 1. Authority
	if mailbox.Owner != p.programID {
		return domain.ErrOwnerMismatch.Detailf("mailbox region %s is not owned by the program", mailbox.Address)
	}
	if ix.Owner != call.Caller {
		return domain.ErrOwnerMismatch.WithDetails("caller must be the mailbox owner")
	}

	// 2. Shape and funding
	if ix.NumSlots != state.Capacity {
		return domain.ErrSolBoxInvalidNumSpots.Detailf("requested %d slots, supported %d", ix.NumSlots, state.Capacity)
	}
	if len(mailbox.Data) < state.MailboxLen || !p.funding.IsExempt(mailbox.Balance, len(mailbox.Data)) {
		return domain.ErrInsufficientFunds.Detailf("mailbox region: %d bytes, balance %d", len(mailbox.Data), mailbox.Balance)
	}

	// 3. Lifecycle
	if state.IsInitializedRecord(mailbox.Data) {
		return domain.ErrSolBoxAlreadyInitialized.Detailf("mailbox %s", mailbox.Address)
	}

	state.NewMailbox(ix.Owner, ix.NextBox, ix.PrevBox).Encode(mailbox.Data)
	p.log.Info("mailbox initialized", "mailbox", mailbox.Address.String(), "owner", ix.Owner.String())
	return nil
}

// ============================================================================
// WriteMessage
// ============================================================================

// write expects regions [message, mailbox].
func (p *Processor) write(call Call, ix *instruction.WriteMessage) error {
	if err := regions(call, 2, "message, mailbox"); err != nil {
		return err
	}
	message, mailbox := call.Regions[0], call.Regions[1]

	// 1. Message region
	if message.Owner != p.programID {
		return domain.ErrOwnerMismatch.Detailf("message region %s is not owned by the program", message.Address)
	}
	if message.Address.IsSentinel() {
		return domain.ErrInvalidInstructionData.WithDetails("message address is the empty-slot sentinel")
	}
	if want := state.MessageLen(len(ix.Message)); len(message.Data) != want {
		return domain.ErrInvalidInstructionData.Detailf("message region holds %d bytes, message needs %d", len(message.Data), want)
	}
	if !p.funding.IsExempt(message.Balance, len(message.Data)) {
		return domain.ErrInsufficientFunds.Detailf("message region balance %d", message.Balance)
	}
	if !state.IsBlankMessage(message.Data) {
		return domain.ErrInvalidAccountData.Detailf("message region %s already holds a message", message.Address)
	}

	// 2. Mailbox region
	if mailbox.Owner != p.programID {
		return domain.ErrOwnerMismatch.Detailf("mailbox region %s is not owned by the program", mailbox.Address)
	}
	if mailbox.Address != ix.Mailbox {
		return domain.ErrIncorrectSolBox.Detailf("got %s, instruction names %s", mailbox.Address, ix.Mailbox)
	}
	box, err := state.DecodeMailbox(mailbox.Data)
	if err != nil {
		return err
	}
	if !box.Initialized {
		return domain.ErrInvalidAccountData.Detailf("mailbox %s is not initialized", mailbox.Address)
	}
	if box.Owner != call.Caller {
		return domain.ErrOwnerMismatch.WithDetails("caller must be the mailbox owner")
	}

	// 3. Allocate in memory; nothing has been written so far.
	slot, err := box.Allocate(message.Address)
	if err != nil {
		return err
	}

	state.EncodeMessage(ix.Recipient, ix.Sender, ix.Message, message.Data)
	box.Encode(mailbox.Data)

	p.log.Info("message written",
		"mailbox", mailbox.Address.String(),
		"message_id", message.Address.String(),
		"slot", slot,
		"in_use", box.InUse,
		"body", ix.Message,
	)
	return nil
}

// ============================================================================
// DeleteMessage
// ============================================================================

// delete expects regions [message, mailbox, refund, system]. The message
// region is zeroed, drained into refund and handed back to the system.
func (p *Processor) delete(call Call, ix *instruction.DeleteMessage) error {
	if err := regions(call, 4, "message, mailbox, refund, system"); err != nil {
		return err
	}
	message, mailbox, refund, system := call.Regions[0], call.Regions[1], call.Regions[2], call.Regions[3]

	// 1. Authority
	if ix.Owner != call.Caller {
		return domain.ErrOwnerMismatch.WithDetails("caller must be the mailbox owner")
	}
	if message.Owner != p.programID {
		return domain.ErrOwnerMismatch.Detailf("message region %s is not owned by the program", message.Address)
	}
	if mailbox.Owner != p.programID {
		return domain.ErrOwnerMismatch.Detailf("mailbox region %s is not owned by the program", mailbox.Address)
	}

	// 2. Region identity
	if message.Address != ix.MessageID {
		return domain.ErrInvalidInstructionData.Detailf("got message %s, instruction names %s", message.Address, ix.MessageID)
	}
	if mailbox.Address != ix.Mailbox {
		return domain.ErrIncorrectSolBox.Detailf("got %s, instruction names %s", mailbox.Address, ix.Mailbox)
	}
	if system.Address != domain.SystemProgramID {
		return domain.ErrIncorrectSystemProgramAddress.Detailf("got %s", system.Address)
	}
	if refund.Address != call.Caller {
		return domain.ErrOwnerMismatch.WithDetails("refund must go to the caller")
	}

	// 3. Mailbox record
	box, err := state.DecodeMailbox(mailbox.Data)
	if err != nil {
		return err
	}
	if !box.Initialized {
		return domain.ErrInvalidAccountData.Detailf("mailbox %s is not initialized", mailbox.Address)
	}
	if box.Owner != ix.Owner {
		return domain.ErrOwnerMismatch.WithDetails("instruction owner does not own the mailbox")
	}
	slot, err := box.Free(message.Address)
	if err != nil {
		return err
	}
	if refund.Balance > ^uint64(0)-message.Balance {
		return domain.ErrInvalidAccountData.WithDetails("refund balance overflow")
	}

	// 4. Apply
	box.Encode(mailbox.Data)
	clear(message.Data)
	// The refund region may be the message region itself; debit before
	// crediting so the balance survives the aliasing.
	released := message.Balance
	message.Balance = 0
	message.Owner = domain.SystemProgramID
	refund.Balance += released

	p.log.Info("message deleted",
		"mailbox", mailbox.Address.String(),
		"message_id", message.Address.String(),
		"slot", slot,
		"in_use", box.InUse,
		"refunded", released,
	)
	return nil
}
