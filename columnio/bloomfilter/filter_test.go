package bloomfilter_test

import (
	"encoding/binary"
	"math/rand"
	"testing"

	"github.com/canelmas/parquet-mr/columnio/bloomfilter"
)

func uint64Bytes(x uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, x)
	return b
}

func TestSplitBlockFilterInsertCheck(t *testing.T) {
	const n = 1000
	const seed = 3

	hash := bloomfilter.NewMapHash()
	f := bloomfilter.NewSplitBlockFilter(bloomfilter.NumSplitBlocksOf(n, 10), hash)

	p := rand.New(rand.NewSource(seed))
	values := make([]uint64, n)
	for i := range values {
		values[i] = p.Uint64()
		f.InsertBytes(uint64Bytes(values[i]))
	}

	falsePositives := 0
	for i, x := range values {
		if !f.CheckBytes(uint64Bytes(x)) {
			t.Fatalf("filter does not contain value #%d that was inserted: %d", i, x)
		}
		if f.CheckBytes(uint64Bytes(^x)) {
			falsePositives++
		}
	}
	if r := float64(falsePositives) / n; r > 0.05 {
		t.Fatalf("filter triggered too many false positives: %g%%", r*100)
	}
}

func TestSplitBlockFilterReset(t *testing.T) {
	f := bloomfilter.NewSplitBlockFilter(bloomfilter.NumSplitBlocksOf(100, 10), nil)
	f.InsertBytes(uint64Bytes(123456789))

	allZero := true
	for _, b := range f.Bytes() {
		if b != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		t.Fatal("filter bytes were all zero after inserting a value")
	}

	f.Reset()
	for _, b := range f.Bytes() {
		if b != 0 {
			t.Fatal("filter bytes were not all zero after Reset")
		}
	}
}

func TestNumSplitBlocksOfAtLeastOne(t *testing.T) {
	if n := bloomfilter.NumSplitBlocksOf(0, 10); n != 1 {
		t.Fatalf("NumSplitBlocksOf(0, 10) = %d, want 1", n)
	}
}
