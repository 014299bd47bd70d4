// Package processor is the SolBox entry point: it decodes an instruction,
// checks region authority and identity, and applies the state transition.
//
// Regions are positional:
//
//	InitializeSolBox  [mailbox]
//	WriteMessage      [message, mailbox]
//	DeleteMessage     [message, mailbox, refund, system]
//
// Every check runs before the first byte is written, so a failed call
// leaves every region as it was.
package processor
