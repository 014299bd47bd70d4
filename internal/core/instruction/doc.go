// Package instruction encodes and decodes the SolBox wire protocol.
//
// Every instruction starts with a one-byte tag followed by fixed-width
// fields in declaration order. Addresses are 32 raw bytes and integers are
// little-endian:
//
//	tag 0  InitializeSolBox  owner[32] num_slots:u32 next_box[32] prev_box[32]
//	tag 1  WriteMessage      sender[32] recipient[32] mailbox[32] msg_size:u32 msg[msg_size]
//	tag 2  DeleteMessage     owner[32] message_id[32] mailbox[32]
//
// The WriteMessage body is raw UTF-8 with no padding or terminator.
package instruction
