package columnio

import (
	"reflect"

	"github.com/canelmas/parquet-mr/dremel"
)

// group tracks the leaf-index span of one repeated ancestor (or the
// implicit whole-message ancestor at repetition level 0), mirroring the
// teacher's columnGroup in row_builder.go. It is shared, by pointer,
// across every leaf descending from that ancestor, and is finalized in
// place while the schema tree is walked.
type group struct {
	parentLen int // length of the ancestor's own field path (0 for the message root)
	start     int
	end       int // exclusive
}

// Leaf is columnio's concrete implementation of dremel.Leaf, built once
// by NewSchema and never mutated afterwards.
type Leaf struct {
	index       int
	fieldPath   []string
	indexPath   []int
	maxDef      int
	maxRep      int
	kind        dremel.PrimitiveKind
	ancestorDef []int // ancestorDef[d] = cumulative definition level of fieldPath[d]'s node
	groupAt     []*group
	goType      reflect.Type
}

func (l *Leaf) FieldPath() []string            { return l.fieldPath }
func (l *Leaf) IndexPath() []int               { return l.indexPath }
func (l *Leaf) MaxDefinitionLevel() int        { return l.maxDef }
func (l *Leaf) MaxRepetitionLevel() int        { return l.maxRep }
func (l *Leaf) PrimitiveKind() dremel.PrimitiveKind { return l.kind }

func (l *Leaf) DefinitionLevelOfAncestor(depth int) int {
	if depth < 0 || depth >= len(l.ancestorDef) {
		return l.maxDef
	}
	return l.ancestorDef[depth]
}

func (l *Leaf) IsFirst(r int) bool { g := l.groupAt[r]; return l.index == g.start }
func (l *Leaf) IsLast(r int) bool  { g := l.groupAt[r]; return l.index == g.end-1 }

func (l *Leaf) ParentFieldPathLen(r int) int { return l.groupAt[r].parentLen }

// Schema is the struct-tag-driven column I/O tree: it holds the
// flattened, document-ordered leaves of a Go struct type.
type Schema struct {
	goType reflect.Type
	root   *node
	leaves []*Leaf
}

// NewSchema builds a Schema from a Go struct type (or a pointer to
// one), reading `parquet:"name,optional|repeated|uuid"` struct tags the
// way the teacher's row_builder.go reads its schema Node tree.
// NewSchema panics if v's type cannot be represented as a schema (an
// unsupported leaf Go type, or a non-struct root), matching the
// teacher's node.go panic-on-malformed-schema convention.
func NewSchema(v interface{}) *Schema {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		panic("columnio: schema root must be a struct, got " + t.String())
	}

	root := newNode("", 0, t, false, false, false)

	s := &Schema{goType: t, root: root}
	rootGroup := &group{parentLen: 0, start: 0}
	w := &walker{schema: s}
	w.walkChildren(root, nil, nil, nil, []*group{rootGroup})
	rootGroup.end = len(s.leaves)
	return s
}

// Leaves returns the schema's leaves in document order.
func (s *Schema) Leaves() []*Leaf { return s.leaves }

// LeafInterfaces returns Leaves() upcast to []dremel.Leaf, for handing
// directly to dremel.NewPlan.
func (s *Schema) LeafInterfaces() []dremel.Leaf {
	out := make([]dremel.Leaf, len(s.leaves))
	for i, l := range s.leaves {
		out[i] = l
	}
	return out
}

// GoType returns the Go struct type this schema was built from.
func (s *Schema) GoType() reflect.Type { return s.goType }

type walker struct {
	schema *Schema
}

func (w *walker) walkChildren(n *node, path []string, idxPath []int, ancestorDef []int, groupStack []*group) {
	for _, child := range n.children {
		w.walk(child, path, idxPath, ancestorDef, groupStack)
	}
}

func (w *walker) walk(n *node, path []string, idxPath []int, ancestorDef []int, groupStack []*group) {
	newPath := append(append([]string{}, path...), n.name)
	newIdx := append(append([]int{}, idxPath...), n.index)

	def := 0
	if len(ancestorDef) > 0 {
		def = ancestorDef[len(ancestorDef)-1]
	}
	rep := len(groupStack) - 1

	if n.optional || n.repeated {
		def++
	}

	if n.repeated {
		g := &group{parentLen: len(newPath), start: -1}
		groupStack = append(groupStack, g)
		rep++
	}

	if n.leaf {
		leafIndex := len(w.schema.leaves)
		for _, g := range groupStack {
			if g.start == -1 {
				g.start = leafIndex
			}
			g.end = leafIndex + 1
		}
		w.schema.leaves = append(w.schema.leaves, &Leaf{
			index:       leafIndex,
			fieldPath:   newPath,
			indexPath:   newIdx,
			maxDef:      def,
			maxRep:      rep,
			kind:        n.kind,
			ancestorDef: append(append([]int{}, ancestorDef...), def),
			groupAt:     append([]*group{}, groupStack...),
			goType:      n.goType,
		})
		return
	}

	newAncestorDef := append(append([]int{}, ancestorDef...), def)
	w.walkChildren(n, newPath, newIdx, newAncestorDef, groupStack)
}
