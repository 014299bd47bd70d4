// Package command defines the solbox command tree.
//
// Every command runs against a local region store (badger by default)
// through internal/runtime, which plays the execution environment: it
// funds new regions with the rent-exempt minimum, authenticates the caller
// given by --as and commits regions atomically.
package command
