package bloomfilter

// BlockSize is the size in bytes of a single bloom filter block: 8
// 32-bit words, 256 bits.
const BlockSize = 32

// salt is the 8 odd constants a split-block bloom filter multiplies a
// hash by to pick which bit of each word to set; these are the
// standard constants published by the parquet-format bloom filter
// specification, independent of any particular implementation.
var salt = [8]uint32{
	0x47b6137b, 0x44974d91, 0x8824ad5b, 0xa2b7289d,
	0x705495c7, 0x2df1424b, 0x9efc4947, 0x5c6bfb31,
}

// Block is one 256 bit block of a SplitBlockFilter: 8 words, each
// with exactly one bit set per inserted value, grounded on the
// "eight 32-bit words, one set bit per word" shape the parquet
// split-block bloom filter spec describes (the teacher's own Block
// type, referenced throughout bloom/filter.go, is not present in the
// retrieved snapshot of its bloom package).
type Block [8]uint32

// mask computes the per-word bit to set/check for hash x.
func mask(x uint32) Block {
	var b Block
	for i, s := range salt {
		y := x * s
		b[i] = 1 << (y >> 27)
	}
	return b
}

// Insert sets the bits block-local hash x maps to.
func (b *Block) Insert(x uint32) {
	m := mask(x)
	for i := range b {
		b[i] |= m[i]
	}
}

// Check reports whether every bit block-local hash x maps to is set.
func (b *Block) Check(x uint32) bool {
	m := mask(x)
	for i := range b {
		if b[i]&m[i] != m[i] {
			return false
		}
	}
	return true
}

// Bytes returns b's bits as a BlockSize-byte little-endian slice, the
// form a filter is persisted in.
func (b *Block) Bytes() []byte {
	buf := make([]byte, BlockSize)
	for i, w := range b {
		buf[4*i+0] = byte(w)
		buf[4*i+1] = byte(w >> 8)
		buf[4*i+2] = byte(w >> 16)
		buf[4*i+3] = byte(w >> 24)
	}
	return buf
}
