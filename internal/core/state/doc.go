// Package state encodes and decodes the records SolBox keeps in storage
// regions and manages the mailbox slot table.
//
// Mailbox record (MailboxLen bytes, integers little-endian):
//
//	owner[32] | next_box[32] | prev_box[32] | capacity:u32 | in_use:u32 | initialized:u8 | slots[20*32]
//
// Message record:
//
//	recipient[32] | sender[32] | size:u32 | payload[size]
//
// An empty slot holds domain.SentinelAddress. Slots are allocated
// first-fit in index order.
package state
