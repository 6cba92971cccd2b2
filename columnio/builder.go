package columnio

import (
	"reflect"

	"github.com/google/uuid"

	"github.com/canelmas/parquet-mr/dremel"
)

// Builder strips Go struct values into a Schema's per-leaf Columns, the
// inverse of what an Assembler does: it is the producer side of a
// round trip, grounded on the teacher's row_builder.go Add/configure*
// family, generalized from configuring types to configuring live
// reflect.Values.
type Builder struct {
	schema  *Schema
	columns []*Column
}

// NewBuilder returns a Builder striping into one fresh Column per leaf
// of schema.
func NewBuilder(schema *Schema) *Builder {
	columns := make([]*Column, len(schema.leaves))
	for i, l := range schema.leaves {
		columns[i] = NewColumn(l)
	}
	return &Builder{schema: schema, columns: columns}
}

// Columns returns the builder's per-leaf columns, in schema order.
func (b *Builder) Columns() []*Column { return b.columns }

// ColumnReaders upcasts Columns to []dremel.ColumnReader, ready to pass
// to dremel.NewPlan alongside Schema.LeafInterfaces().
func (b *Builder) ColumnReaders() []dremel.ColumnReader {
	out := make([]dremel.ColumnReader, len(b.columns))
	for i, c := range b.columns {
		out[i] = c
	}
	return out
}

// Reset clears every column, ready to stripe a new batch.
func (b *Builder) Reset() {
	for _, c := range b.columns {
		c.Reset()
	}
}

// Add strips v (a value, or pointer to a value, of the schema's Go
// struct type) into the builder's columns, appending one record's
// worth of triples to every leaf.
func (b *Builder) Add(v interface{}) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	cursor := 0
	b.stripRequired(b.schema.root, levels{}, rv, &cursor)
}

// levels is the (definitionLevel, repetitionLevel) pair threaded down
// through a stripe walk, plus the repetition depth used to recompute
// the repetition level at each repeated sibling.
type levels struct {
	repetitionDepth int
	repetitionLevel int
	definitionLevel int
}

func (b *Builder) strip(n *node, lv levels, value reflect.Value, cursor *int) {
	switch {
	case n.optional:
		b.stripOptional(n, lv, value, cursor)
	case n.repeated:
		b.stripRepeated(n, lv, value, cursor)
	default:
		b.stripRequired(n, lv, value, cursor)
	}
}

func (b *Builder) stripOptional(n *node, lv levels, value reflect.Value, cursor *int) {
	inner := *n
	inner.optional = false

	if !value.IsValid() || value.IsZero() {
		b.stripAbsent(&inner, lv, cursor)
		return
	}

	lv.definitionLevel++
	if value.Kind() == reflect.Ptr {
		value = value.Elem()
	}
	b.strip(&inner, lv, value, cursor)
}

func (b *Builder) stripRepeated(n *node, lv levels, value reflect.Value, cursor *int) {
	inner := *n
	inner.repeated = false

	if !value.IsValid() || value.Len() == 0 {
		b.stripAbsent(&inner, lv, cursor)
		return
	}

	lv.repetitionDepth++
	lv.definitionLevel++
	for i := 0; i < value.Len(); i++ {
		b.strip(&inner, lv, value.Index(i), cursor)
		lv.repetitionLevel = lv.repetitionDepth
	}
}

func (b *Builder) stripRequired(n *node, lv levels, value reflect.Value, cursor *int) {
	if n.leaf {
		b.appendValue(n, lv, value, cursor)
		return
	}
	for _, child := range n.children {
		b.strip(child, lv, value.Field(child.structField), cursor)
	}
}

// stripAbsent walks every leaf beneath an absent optional or an empty
// repeated field, appending a null marker at the levels already
// reached: none of the wrapping optional/repeated markers below this
// point can be present either, so every descendant leaf shares the
// same (d, r).
func (b *Builder) stripAbsent(n *node, lv levels, cursor *int) {
	if n.leaf {
		b.appendAbsent(n, lv, cursor)
		return
	}
	for _, child := range n.children {
		b.stripAbsentSubtree(child, lv, cursor)
	}
}

func (b *Builder) stripAbsentSubtree(n *node, lv levels, cursor *int) {
	if n.leaf {
		b.appendAbsent(n, lv, cursor)
		return
	}
	for _, child := range n.children {
		b.stripAbsentSubtree(child, lv, cursor)
	}
}

func (b *Builder) appendValue(n *node, lv levels, value reflect.Value, cursor *int) {
	col := b.columns[*cursor]
	*cursor++
	col.Append(goValue(n, value), lv.definitionLevel, lv.repetitionLevel)
}

func (b *Builder) appendAbsent(n *node, lv levels, cursor *int) {
	col := b.columns[*cursor]
	*cursor++
	col.Append(nil, lv.definitionLevel, lv.repetitionLevel)
}

// goValue extracts a leaf's native Go value from its reflect.Value,
// normalizing the handful of primitive kinds a Column stores.
func goValue(n *node, value reflect.Value) interface{} {
	switch n.kind {
	case dremel.KindBoolean:
		return value.Bool()
	case dremel.KindInt32:
		return int32(value.Int())
	case dremel.KindInt64:
		return value.Int()
	case dremel.KindFloat:
		return float32(value.Float())
	case dremel.KindDouble:
		return value.Float()
	case dremel.KindByteArray:
		if value.Kind() == reflect.Slice {
			buf := make([]byte, value.Len())
			reflect.Copy(reflect.ValueOf(buf), value)
			return buf
		}
		return value.String()
	case dremel.KindUUID:
		return value.Interface().(uuid.UUID)
	default:
		panic("columnio: unhandled primitive kind in goValue")
	}
}
