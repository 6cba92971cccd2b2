package columnio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"reflect"

	"github.com/google/uuid"

	"github.com/canelmas/parquet-mr/columnio/bloomfilter"
	"github.com/canelmas/parquet-mr/columnio/compress"
	"github.com/canelmas/parquet-mr/dremel"
)

// Column is an in-memory striped column: parallel runs of values,
// definition levels and repetition levels for one leaf, plus a read
// cursor. It implements dremel.ColumnReader directly, playing the role
// spec.md leaves external to the core ("the encoded column storage
// itself"), grounded on the teacher's column_chunk.go/page.go pair
// collapsed into a single in-memory structure since this module has no
// file/page format of its own.
type Column struct {
	leaf   *Leaf
	values []interface{}
	defs   []int8
	reps   []int8
	cursor int
}

// NewColumn returns an empty Column bound to leaf.
func NewColumn(leaf *Leaf) *Column {
	return &Column{leaf: leaf}
}

// Leaf returns the schema leaf this column stripes.
func (c *Column) Leaf() *Leaf { return c.leaf }

// Len returns the number of (value, d, r) triples currently stored.
func (c *Column) Len() int { return len(c.values) }

// Reset clears the column's contents and rewinds its read cursor,
// ready to be re-striped for a new batch of records.
func (c *Column) Reset() {
	c.values = c.values[:0]
	c.defs = c.defs[:0]
	c.reps = c.reps[:0]
	c.cursor = 0
}

// Rewind resets only the read cursor, so the same triples can be read
// again from the start.
func (c *Column) Rewind() { c.cursor = 0 }

// Append adds one (value, d, r) triple to the column, d and r being
// the definition and repetition levels computed by the Builder that
// strips a record's Go value into its leaf columns.
func (c *Column) Append(value interface{}, d, r int) {
	c.values = append(c.values, value)
	c.defs = fillLevels(c.defs, int8(d), 1)
	c.reps = fillLevels(c.reps, int8(r), 1)
}

// HasValue reports whether the column has an unread triple at the
// current cursor position.
func (c *Column) HasValue() bool { return c.cursor < len(c.values) }

// CurrentDefinitionLevel returns the definition level at the cursor,
// or 0 once the column is exhausted. An Assembler detects the end of
// the stream through HasValue, not through this level.
func (c *Column) CurrentDefinitionLevel() int {
	if c.cursor < len(c.defs) {
		return int(c.defs[c.cursor])
	}
	return 0
}

// CurrentRepetitionLevel returns the repetition level at the cursor,
// or 0 once the column is exhausted.
func (c *Column) CurrentRepetitionLevel() int {
	if c.cursor < len(c.reps) {
		return int(c.reps[c.cursor])
	}
	return 0
}

// CurrentValue returns the value at the cursor, or nil for an absent
// (null) entry or once the column is exhausted.
func (c *Column) CurrentValue() interface{} {
	if c.cursor < len(c.values) {
		return c.values[c.cursor]
	}
	return nil
}

// Consume advances the cursor past the current triple.
func (c *Column) Consume() { c.cursor++ }

// CompressLevels encodes the column's definition and repetition level
// runs, together with the values present at each maximally-defined
// position, through codec — the way a column chunk's level and value
// streams are written to a page. Codec's reach here stands in for the
// page format this module doesn't implement; the page wrapping is out
// of scope, but the bytes it would wrap are not, so CompressLevels
// carries them rather than dropping them on the floor.
func (c *Column) CompressLevels(codec compress.Codec) ([]byte, error) {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, int32(len(c.defs))); err != nil {
		return nil, err
	}
	buf.Write(int8Bytes(c.defs))
	buf.Write(int8Bytes(c.reps))
	if err := c.encodeValues(&buf); err != nil {
		return nil, err
	}

	w, err := codec.NewWriter(io.Discard)
	if err != nil {
		return nil, fmt.Errorf("columnio: new %s writer: %w", codec.String(), err)
	}
	var out bytes.Buffer
	w.Reset(&out)
	if _, err := w.Write(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("columnio: %s compress: %w", codec.String(), err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("columnio: %s compress: %w", codec.String(), err)
	}
	return out.Bytes(), nil
}

// RestoreLevels replaces the column's definition levels, repetition
// levels and values from bytes produced by a prior CompressLevels call
// using the same codec, leaving the column ready to be read by an
// Assembler exactly as it was before compression.
func (c *Column) RestoreLevels(codec compress.Codec, data []byte) error {
	r, err := codec.NewReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("columnio: new %s reader: %w", codec.String(), err)
	}
	defer r.Close()

	raw, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("columnio: %s decompress: %w", codec.String(), err)
	}

	var n int32
	br := bytes.NewReader(raw)
	if err := binary.Read(br, binary.LittleEndian, &n); err != nil {
		return err
	}
	defs := make([]int8, n)
	reps := make([]int8, n)
	if err := readInt8s(br, defs); err != nil {
		return err
	}
	if err := readInt8s(br, reps); err != nil {
		return err
	}
	values, err := c.decodeValues(br, defs)
	if err != nil {
		return err
	}

	c.defs = defs
	c.reps = reps
	c.values = values
	c.cursor = 0
	return nil
}

// encodeValues writes, in cursor order, the value of every triple whose
// definition level reaches the leaf's maximum (the only triples that
// carry a real value rather than a null); absent triples contribute no
// bytes; defs already lets RestoreLevels know which positions to expect
// one back for.
func (c *Column) encodeValues(buf *bytes.Buffer) error {
	maxDef := int8(c.leaf.MaxDefinitionLevel())
	for i, v := range c.values {
		if c.defs[i] != maxDef {
			continue
		}
		if err := encodeValue(buf, c.leaf.PrimitiveKind(), v); err != nil {
			return fmt.Errorf("columnio: encode value %d: %w", i, err)
		}
	}
	return nil
}

// decodeValues is encodeValues' inverse: for each position defs marks
// as maximally defined it decodes one value from r, and nil everywhere
// else.
func (c *Column) decodeValues(r *bytes.Reader, defs []int8) ([]interface{}, error) {
	maxDef := int8(c.leaf.MaxDefinitionLevel())
	values := make([]interface{}, len(defs))
	for i, d := range defs {
		if d != maxDef {
			continue
		}
		v, err := decodeValue(r, c.leaf.PrimitiveKind(), c.leaf.goType)
		if err != nil {
			return nil, fmt.Errorf("columnio: decode value %d: %w", i, err)
		}
		values[i] = v
	}
	return values, nil
}

// encodeValue writes one leaf value to buf in the fixed little-endian
// layout matching its kind; ByteArray values carry a length prefix
// since string/[]byte contents vary in size.
func encodeValue(buf *bytes.Buffer, kind dremel.PrimitiveKind, v interface{}) error {
	switch kind {
	case dremel.KindBoolean:
		if v.(bool) {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
		return nil
	case dremel.KindInt32:
		return binary.Write(buf, binary.LittleEndian, v.(int32))
	case dremel.KindInt64:
		return binary.Write(buf, binary.LittleEndian, v.(int64))
	case dremel.KindFloat:
		return binary.Write(buf, binary.LittleEndian, math.Float32bits(v.(float32)))
	case dremel.KindDouble:
		return binary.Write(buf, binary.LittleEndian, math.Float64bits(v.(float64)))
	case dremel.KindByteArray:
		var b []byte
		switch x := v.(type) {
		case string:
			b = []byte(x)
		case []byte:
			b = x
		default:
			return fmt.Errorf("unexpected Go type %T for BYTE_ARRAY", v)
		}
		if err := binary.Write(buf, binary.LittleEndian, int32(len(b))); err != nil {
			return err
		}
		_, err := buf.Write(b)
		return err
	case dremel.KindUUID:
		u := v.(uuid.UUID)
		_, err := buf.Write(u[:])
		return err
	default:
		return fmt.Errorf("unsupported primitive kind %v", kind)
	}
}

// decodeValue is encodeValue's inverse. goType distinguishes a
// BYTE_ARRAY leaf originally backed by a Go string from one backed by
// []byte, so the round trip preserves the field's declared Go type.
func decodeValue(r *bytes.Reader, kind dremel.PrimitiveKind, goType reflect.Type) (interface{}, error) {
	switch kind {
	case dremel.KindBoolean:
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		return b != 0, nil
	case dremel.KindInt32:
		var x int32
		err := binary.Read(r, binary.LittleEndian, &x)
		return x, err
	case dremel.KindInt64:
		var x int64
		err := binary.Read(r, binary.LittleEndian, &x)
		return x, err
	case dremel.KindFloat:
		var bits uint32
		if err := binary.Read(r, binary.LittleEndian, &bits); err != nil {
			return nil, err
		}
		return math.Float32frombits(bits), nil
	case dremel.KindDouble:
		var bits uint64
		if err := binary.Read(r, binary.LittleEndian, &bits); err != nil {
			return nil, err
		}
		return math.Float64frombits(bits), nil
	case dremel.KindByteArray:
		var n int32
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return nil, err
		}
		b := make([]byte, n)
		if _, err := io.ReadFull(r, b); err != nil {
			return nil, err
		}
		if goType != nil && goType.Kind() == reflect.String {
			return string(b), nil
		}
		return b, nil
	case dremel.KindUUID:
		var u uuid.UUID
		if _, err := io.ReadFull(r, u[:]); err != nil {
			return nil, err
		}
		return u, nil
	default:
		return nil, fmt.Errorf("unsupported primitive kind %v", kind)
	}
}

func int8Bytes(s []int8) []byte {
	b := make([]byte, len(s))
	for i, v := range s {
		b[i] = byte(v)
	}
	return b
}

// BloomFilter builds a split-block bloom filter over every non-null
// value currently stored in the column, at bitsPerValue bits of filter
// per value, the way a column writer builds one alongside a chunk's
// pages to accelerate downstream point lookups.
func (c *Column) BloomFilter(bitsPerValue int) *bloomfilter.SplitBlockFilter {
	n := 0
	for _, v := range c.values {
		if v != nil {
			n++
		}
	}
	f := bloomfilter.NewSplitBlockFilter(bloomfilter.NumSplitBlocksOf(n, bitsPerValue), nil)
	for _, v := range c.values {
		if v == nil {
			continue
		}
		f.InsertBytes(valueBytes(v))
	}
	return f
}

// valueBytes renders a leaf value to the byte form a bloom filter
// hashes, matching the little-endian fixed-width encodings the
// teacher's bloom.Hash.MultiSum64* family hashes each primitive kind
// as.
func valueBytes(v interface{}) []byte {
	switch x := v.(type) {
	case bool:
		if x {
			return []byte{1}
		}
		return []byte{0}
	case int32:
		return []byte{byte(x), byte(x >> 8), byte(x >> 16), byte(x >> 24)}
	case int64:
		return []byte{
			byte(x), byte(x >> 8), byte(x >> 16), byte(x >> 24),
			byte(x >> 32), byte(x >> 40), byte(x >> 48), byte(x >> 56),
		}
	case float32:
		b := math.Float32bits(x)
		return []byte{byte(b), byte(b >> 8), byte(b >> 16), byte(b >> 24)}
	case float64:
		b := math.Float64bits(x)
		return []byte{
			byte(b), byte(b >> 8), byte(b >> 16), byte(b >> 24),
			byte(b >> 32), byte(b >> 40), byte(b >> 48), byte(b >> 56),
		}
	case string:
		return []byte(x)
	case []byte:
		return x
	case uuid.UUID:
		return x[:]
	default:
		return nil
	}
}

func readInt8s(r io.Reader, dst []int8) error {
	raw := make([]byte, len(dst))
	if _, err := io.ReadFull(r, raw); err != nil {
		return err
	}
	for i, b := range raw {
		dst[i] = int8(b)
	}
	return nil
}
