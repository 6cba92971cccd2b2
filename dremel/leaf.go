package dremel

// PrimitiveKind identifies the physical kind of values carried by a leaf
// column. The set is closed and fixed by the schema vocabulary: assembly
// dispatches on it as a tagged union rather than through open
// polymorphism (see the Design Notes of spec.md §9).
type PrimitiveKind int8

const (
	KindBoolean PrimitiveKind = iota
	KindInt32
	KindInt64
	KindFloat
	KindDouble
	KindByteArray
	KindUUID
)

// String returns a human-readable name for the kind.
func (k PrimitiveKind) String() string {
	switch k {
	case KindBoolean:
		return "BOOLEAN"
	case KindInt32:
		return "INT32"
	case KindInt64:
		return "INT64"
	case KindFloat:
		return "FLOAT"
	case KindDouble:
		return "DOUBLE"
	case KindByteArray:
		return "BYTE_ARRAY"
	case KindUUID:
		return "UUID"
	default:
		return "UNKNOWN"
	}
}

// Leaf describes one primitive column of a schema tree (spec.md §3,
// "Leaf column descriptor"). Implementations are owned by the schema;
// the dremel package never constructs or mutates a Leaf, it only reads
// from it while building a Plan.
//
// FieldPath and IndexPath run from the message root to the leaf,
// inclusive of the leaf itself, and are the same length.
type Leaf interface {
	// FieldPath returns the ordered field names from the message root to
	// this leaf.
	FieldPath() []string

	// IndexPath returns, for each entry of FieldPath, the position of
	// that field among the children of its parent.
	IndexPath() []int

	// MaxDefinitionLevel is the number of optional/repeated ancestors of
	// this leaf (inclusive of the leaf if it is itself optional or
	// repeated).
	MaxDefinitionLevel() int

	// MaxRepetitionLevel is the number of repeated ancestors of this
	// leaf (inclusive of the leaf if it is itself repeated).
	MaxRepetitionLevel() int

	// DefinitionLevelOfAncestor returns the definition level of the
	// node at the given tree depth, where depth i is the node named
	// FieldPath()[i], so depth len(FieldPath())-1 is the leaf itself.
	// The message root (definition level 0) has no depth of its own.
	DefinitionLevelOfAncestor(depth int) int

	// IsFirst reports whether this leaf is the first leaf, in document
	// order, among the descendants of the ancestor whose repetition
	// level is r.
	IsFirst(r int) bool

	// IsLast reports whether this leaf is the last leaf, in document
	// order, among the descendants of the ancestor whose repetition
	// level is r.
	IsLast(r int) bool

	// ParentFieldPathLen returns the length of the field path of the
	// ancestor whose repetition level is r. For r == 0 the ancestor is
	// the message root, whose field path has length 0.
	ParentFieldPathLen(r int) int

	// PrimitiveKind returns the physical kind of values carried by this
	// leaf.
	PrimitiveKind() PrimitiveKind
}

// ColumnReader is bound to a single leaf and yields the (value,
// definition-level, repetition-level) triples of that column in record
// order (spec.md §6, "Inputs consumed from each Column reader").
//
// A ColumnReader is a cursor: CurrentDefinitionLevel, CurrentRepetitionLevel
// and CurrentValue describe the triple at the cursor; Consume advances the
// cursor by one position. Implementations are exclusively owned by a
// single Assembler for the duration of a Read/ReadN call (spec.md §5).
type ColumnReader interface {
	// HasValue reports whether a current triple is available. It only
	// becomes false once the underlying stream is exhausted; the
	// assembly loop consults it exclusively when positioned at the
	// first leaf of a new record, to detect stream exhaustion.
	HasValue() bool

	// CurrentDefinitionLevel returns the definition level of the value
	// at the cursor, in [0, MaxDefinitionLevel()].
	CurrentDefinitionLevel() int

	// CurrentRepetitionLevel returns the repetition level of the value
	// at the cursor, in [0, MaxRepetitionLevel()].
	CurrentRepetitionLevel() int

	// CurrentValue returns the value at the cursor. Its meaning is
	// undefined when CurrentDefinitionLevel() is less than the leaf's
	// MaxDefinitionLevel (the value is absent).
	CurrentValue() interface{}

	// Consume advances the cursor to the next triple.
	Consume()
}
