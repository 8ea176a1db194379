// Package hashing pins the hash function the whole module is built on.
//
// Fingerprints and bucket positions inside serialized filters are derived
// from these digests, so the function is part of the on-disk format and can
// never change: XXH64 with seed 0, identical on every platform.
package hashing

import "github.com/cespare/xxhash/v2"

// Sum64 returns the XXH64 digest of b (seed 0).
func Sum64(b []byte) uint64 {
	return xxhash.Sum64(b)
}

// Sum64String returns the XXH64 digest of the raw bytes of s (seed 0).
func Sum64String(s string) uint64 {
	return xxhash.Sum64String(s)
}
