package bloomfilter

import "hash/maphash"

// Hash abstracts the hashing algorithm a SplitBlockFilter probes with,
// mirroring the teacher's bloom.Hash interface (bloom/hash.go) cut down
// to the single Sum64 method this package's block algorithm needs.
//
// The teacher's own implementation, bloom.XXH64, wraps
// github.com/cespare/xxhash/v2 - a dependency its bloom/encoder.go
// imports but that is absent from this module's go.mod (the retrieved
// snapshot's dependency list and its bloom package disagree). Rather
// than fabricate that requirement, MapHash below is built on the
// standard library's hash/maphash, which offers the same 64 bit,
// good-avalanche hash a split-block filter needs.
type Hash interface {
	Sum64(value []byte) uint64
}

// MapHash is the Hash implementation used when a filter is constructed
// without one (see NewSplitBlockFilter). A MapHash fixes its seed at
// construction so repeated Sum64 calls for the same input always
// return the same value, as a bloom filter's probe/insert symmetry
// requires; maphash's per-process seed randomization otherwise applies
// per maphash.Hash instance, not per call.
type MapHash struct {
	seed maphash.Seed
}

// NewMapHash returns a MapHash with a freshly drawn seed.
func NewMapHash() MapHash { return MapHash{seed: maphash.MakeSeed()} }

func (h MapHash) Sum64(value []byte) uint64 {
	return maphash.Bytes(h.seed, value)
}

var _ Hash = MapHash{}
