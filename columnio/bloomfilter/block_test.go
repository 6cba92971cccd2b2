package bloomfilter_test

import (
	"math"
	"testing"

	"github.com/canelmas/parquet-mr/columnio/bloomfilter"
)

func TestBlockInsertCheck(t *testing.T) {
	for i := uint64(0); i < math.MaxUint32; i = (i * 2) + 1 {
		x := uint32(i)
		b := bloomfilter.Block{}
		b.Insert(x)
		if !b.Check(x) {
			t.Fatalf("block does not contain the value that was inserted: %d", x)
		}
		if b.Check(^x) {
			t.Fatalf("block contains a value that was not inserted: %d", ^x)
		}
	}
}

func TestBlockBytesLength(t *testing.T) {
	b := bloomfilter.Block{}
	b.Insert(42)
	if got := len(b.Bytes()); got != bloomfilter.BlockSize {
		t.Fatalf("Bytes() length = %d, want %d", got, bloomfilter.BlockSize)
	}
}
