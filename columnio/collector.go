package columnio

import (
	"reflect"

	"github.com/canelmas/parquet-mr/dremel"
)

// container is one open group (the message root, or a nested struct)
// on a RecordCollector's stack.
type container struct {
	node  *node
	value reflect.Value // addressable struct value being populated
}

// fieldFrame is one open StartField on a RecordCollector's stack. It
// accumulates whatever its field contains: either primitive scalars
// (a leaf field) or fully-built group values (a group field), one
// entry per occurrence for a repeated field, at most one for a
// singular field.
type fieldFrame struct {
	node  *node
	items []reflect.Value
}

// RecordCollector implements dremel.Consumer, reconstructing Go values
// of a Schema's struct type from assembler callbacks: the inverse of
// Builder. It is the module's reference Consumer, grounded on the
// teacher's row reconstruction tests pairing a RowBuilder with its
// column readers (row_test.go), generalized from "read back the
// encoded row" to "read back the Go value".
type RecordCollector struct {
	schema     *Schema
	containers []container
	fields     []fieldFrame
	records    []reflect.Value
}

// NewRecordCollector returns a RecordCollector producing values of
// schema's Go struct type.
func NewRecordCollector(schema *Schema) *RecordCollector {
	return &RecordCollector{schema: schema}
}

// NewValidating wraps a fresh RecordCollector in a dremel.Validator, so
// malformed callback sequences panic with a *dremel.SchemaViolationError
// instead of silently corrupting reconstruction.
func NewValidating(schema *Schema) (*dremel.Validator, *RecordCollector) {
	rc := NewRecordCollector(schema)
	return dremel.NewValidator(rc), rc
}

// Records returns every record collected so far, in read order.
func (c *RecordCollector) Records() []interface{} {
	out := make([]interface{}, len(c.records))
	for i, v := range c.records {
		out[i] = v.Interface()
	}
	return out
}

// Reset discards collected records.
func (c *RecordCollector) Reset() { c.records = c.records[:0] }

func (c *RecordCollector) top() *container { return &c.containers[len(c.containers)-1] }

func (c *RecordCollector) StartMessage() {
	root := reflect.New(c.schema.goType).Elem()
	c.containers = append(c.containers[:0], container{node: c.schema.root, value: root})
	c.fields = c.fields[:0]
}

func (c *RecordCollector) EndMessage() {
	c.records = append(c.records, c.containers[0].value)
}

func (c *RecordCollector) StartField(name string, index int) {
	parent := c.top().node
	c.fields = append(c.fields, fieldFrame{node: parent.children[index]})
}

func (c *RecordCollector) EndField(name string, index int) {
	last := len(c.fields) - 1
	frame := c.fields[last]
	c.fields = c.fields[:last]

	dst := c.top().value.Field(frame.node.structField)
	setFieldValue(dst, frame.node, frame.items)
}

func (c *RecordCollector) StartGroup() {
	field := &c.fields[len(c.fields)-1]
	v := reflect.New(field.node.goType).Elem()
	c.containers = append(c.containers, container{node: field.node, value: v})
}

func (c *RecordCollector) EndGroup() {
	last := len(c.containers) - 1
	popped := c.containers[last]
	c.containers = c.containers[:last]

	field := &c.fields[len(c.fields)-1]
	field.items = append(field.items, popped.value)
}

func (c *RecordCollector) AddPrimitive(kind dremel.PrimitiveKind, value interface{}) {
	field := &c.fields[len(c.fields)-1]
	field.items = append(field.items, reflectLeafValue(field.node, value))
}

// setFieldValue installs a field's accumulated items into dst
// according to its node's optional/repeated shape.
func setFieldValue(dst reflect.Value, n *node, items []reflect.Value) {
	switch {
	case n.repeated && n.optional: // *[]T
		slice := reflect.MakeSlice(dst.Type().Elem(), len(items), len(items))
		for i, v := range items {
			slice.Index(i).Set(v)
		}
		ptr := reflect.New(dst.Type().Elem())
		ptr.Elem().Set(slice)
		dst.Set(ptr)

	case n.repeated: // []T
		slice := reflect.MakeSlice(dst.Type(), len(items), len(items))
		for i, v := range items {
			slice.Index(i).Set(v)
		}
		dst.Set(slice)

	case n.optional && dst.Kind() == reflect.Ptr: // *T
		ptr := reflect.New(dst.Type().Elem())
		ptr.Elem().Set(items[0])
		dst.Set(ptr)

	default: // T, including non-pointer optional (zero-value convention)
		dst.Set(items[0])
	}
}

// reflectLeafValue converts a primitive AddPrimitive payload back into
// a reflect.Value of the leaf's declared Go type.
func reflectLeafValue(n *node, value interface{}) reflect.Value {
	rv := reflect.ValueOf(value)
	if n.goType != nil && rv.IsValid() && rv.Type() != n.goType && rv.Type().ConvertibleTo(n.goType) {
		rv = rv.Convert(n.goType)
	}
	return rv
}
