// Package storage persists SolBox regions.
//
// RegionStore is the contract the runtime commits against. Two engines
// implement it:
//
//   - BadgerStore: durable, one badger transaction per commit, periodic
//     value-log GC and optional Prometheus gauges
//   - memory.Store: sharded in-process map for tests and scratch runs
//
// Regions are stored under "region/<address>" as
//
//	[length:4][crc32:4][owner:32][balance:8][data...]
//
// so a torn or bit-flipped value is reported as ErrChecksumMismatch
// rather than decoded.
package storage
