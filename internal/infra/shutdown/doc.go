// Package shutdown runs cleanup hooks when a command finishes or is
// interrupted.
//
// Hooks run once, in reverse order of registration, under a shared
// timeout. The command layer registers the store close as a hook so that
// badger flushes its memtables on both normal exit and SIGINT/SIGTERM.
package shutdown
