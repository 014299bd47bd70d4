// Package memory provides an in-process RegionStore.
//
// Regions live in a sharded map keyed by address. Reads take a single
// shard lock; Commit and Create additionally hold a store-wide mutex so a
// multi-region commit is never observed half applied by another writer.
// Values are cloned on the way in and out.
package memory
