// Package runtime is the execution environment around the processor.
//
// It stores regions in a storage.RegionStore, funds them under a Rent
// rule, and runs one transaction at a time:
//
//  1. load every named region (unknown addresses become empty system
//     regions) and clone it
//  2. hand the clones to processor.Process
//  3. on success commit the changed clones in one store commit, removing
//     regions that were released; on failure discard them
//
// Every execution gets a ULID that tags its log lines and its Receipt.
package runtime
