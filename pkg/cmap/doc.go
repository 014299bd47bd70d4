// Package cmap provides a concurrent map split into independently locked
// shards.
//
// Keys are routed to shards by a caller-supplied 64-bit hash. Byte-array
// keys such as addresses can use the murmur3-based helpers:
//
//	m := cmap.New[[32]byte, *Region](cmap.Array32Hash, cmap.WithShardCount(32))
//	m.Set(addr, region)
//	val, ok := m.Get(addr)
//
// Every operation locks a single shard. Range visits shards one at a time,
// so it does not observe a consistent snapshot across shards.
package cmap
