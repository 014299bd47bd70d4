// Command solbox manages mailboxes and messages in a local region store.
//
// Usage:
//
//	solbox mailbox init --owner ADDR
//	solbox message write --as ADDR --mailbox ADDR --to ADDR "text"
//	solbox inbox ADDR
package main
