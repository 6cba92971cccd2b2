package columnio

import (
	"reflect"
	"strings"

	"github.com/google/uuid"

	"github.com/canelmas/parquet-mr/dremel"
)

// node is one entry of the struct-tag-driven schema tree built by
// NewSchema. It plays the role spec.md declares out of scope ("the
// schema definition itself"; "the tree of nested/primitive column
// descriptors"), grounded on the teacher's node.go/row_builder.go
// configure* family: Optional()/Repeated() wrapping plus a recursive
// group/leaf walk.
type node struct {
	name        string
	index       int // position among this node's siblings (used for indexPath)
	structField int // this node's actual reflect field index in its parent struct
	optional    bool
	repeated    bool
	leaf        bool
	kind        dremel.PrimitiveKind
	goType      reflect.Type // core type, Ptr/Slice wrapper layers peeled off
	children    []*node
}

// parseTag splits a `parquet:"name,opt1,opt2"` struct tag into a field
// name (falling back to the Go field name when empty) and option set.
func parseTag(structField reflect.StructField) (name string, optional, repeated, isUUID bool) {
	tag := structField.Tag.Get("parquet")
	parts := strings.Split(tag, ",")
	name = parts[0]
	if name == "" {
		name = structField.Name
	}
	for _, opt := range parts[1:] {
		switch opt {
		case "optional":
			optional = true
		case "repeated":
			repeated = true
		case "uuid":
			isUUID = true
		}
	}
	return
}

var uuidType = reflect.TypeOf(uuid.UUID{})

// newNode builds the schema node for a Go type, recursing into struct
// fields for groups. name/index place the node in its parent; isUUID
// only affects leaf kind resolution for [16]byte-shaped types.
func newNode(name string, index int, t reflect.Type, optional, repeated, isUUID bool) *node {
	switch t.Kind() {
	case reflect.Ptr:
		n := newNode(name, index, t.Elem(), true, repeated, isUUID)
		n.optional = true
		return n

	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			break // []byte is a leaf (byte array), not a repeated column
		}
		n := newNode(name, index, t.Elem(), optional, true, isUUID)
		n.repeated = true
		return n

	case reflect.Struct:
		if t == uuidType {
			break
		}
		children := make([]*node, 0, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.PkgPath != "" {
				continue // unexported
			}
			fname, fopt, frep, fuuid := parseTag(f)
			child := newNode(fname, len(children), f.Type, fopt, frep, fuuid)
			child.structField = i
			children = append(children, child)
		}
		return &node{name: name, index: index, optional: optional, repeated: repeated, goType: t, children: children}
	}

	return &node{
		name:     name,
		index:    index,
		optional: optional,
		repeated: repeated,
		leaf:     true,
		kind:     kindOf(t, isUUID),
		goType:   t,
	}
}

func kindOf(t reflect.Type, isUUID bool) dremel.PrimitiveKind {
	if isUUID || t == uuidType {
		return dremel.KindUUID
	}
	switch t.Kind() {
	case reflect.Bool:
		return dremel.KindBoolean
	case reflect.Int32:
		return dremel.KindInt32
	case reflect.Int, reflect.Int64:
		return dremel.KindInt64
	case reflect.Float32:
		return dremel.KindFloat
	case reflect.Float64:
		return dremel.KindDouble
	case reflect.String:
		return dremel.KindByteArray
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return dremel.KindByteArray
		}
	}
	panic("columnio: unsupported leaf Go type " + t.String())
}
