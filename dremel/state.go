package dremel

// State is one leaf column's node in the assembly automaton (spec.md
// §3, "State"). States are immutable after a Plan is built and are
// identified by a small integer id in [0, N) where N is the number of
// leaves; the plan's sink is addressed by the sentinel id N (spec.md
// §9, "Object-graph cycles").
type State struct {
	id     int
	column ColumnReader

	fieldPath     []string
	indexPath     []int
	maxDef        int
	maxRep        int
	primitiveKind PrimitiveKind

	// definitionLevelToDepth[d] is the deepest tree level (-1 meaning no
	// groups open) at which a group must exist when a value with
	// definition level d arrives at this leaf.
	definitionLevelToDepth []int

	// nextState[r] / nextLevel[r] are indexed by the repetition level
	// observed on the *next* value read from this leaf's column.
	nextState []int
	nextLevel []int

	// caseLookup[currentLevel][d][r] is the precomputed Case for this
	// state at (currentLevel, d, r).
	caseLookup [][][]Case

	definedCases   []Case
	undefinedCases []Case
}

// ID returns this state's integer id.
func (s *State) ID() int { return s.id }

// FieldPath returns the ordered field names from the message root to
// this state's leaf.
func (s *State) FieldPath() []string { return s.fieldPath }

// IndexPath returns, for each entry of FieldPath, the position of that
// field among its siblings.
func (s *State) IndexPath() []int { return s.indexPath }

// MaxDefinitionLevel and MaxRepetitionLevel report the bounds of this
// state's leaf column.
func (s *State) MaxDefinitionLevel() int { return s.maxDef }
func (s *State) MaxRepetitionLevel() int { return s.maxRep }

// PrimitiveKind returns the physical kind of this state's leaf column.
func (s *State) PrimitiveKind() PrimitiveKind { return s.primitiveKind }

// DefinitionLevelToDepth returns the depth table indexed by definition
// level, 0..=MaxDefinitionLevel.
func (s *State) DefinitionLevelToDepth() []int { return s.definitionLevelToDepth }

// NextStateID returns the id of the state to transition to (or the
// plan's sink id) when the next value read from this leaf's column has
// repetition level r.
func (s *State) NextStateID(r int) int { return s.nextState[r] }

// NextLevel returns the tree level down to which groups must be closed
// before transitioning, when the next value read from this leaf's
// column has repetition level r.
func (s *State) NextLevel(r int) int { return s.nextLevel[r] }

// Case returns the precomputed Case for (currentLevel, d, r) at this
// state (spec.md §3 invariant/property P5).
func (s *State) Case(currentLevel, d, r int) Case {
	return s.caseLookup[currentLevel][d][r]
}

// DefinedCases returns the de-duplicated, id-sorted pool of Cases
// reachable with d == MaxDefinitionLevel (value present).
func (s *State) DefinedCases() []Case { return s.definedCases }

// UndefinedCases returns the de-duplicated, id-sorted pool of Cases
// reachable with d < MaxDefinitionLevel (value absent).
func (s *State) UndefinedCases() []Case { return s.undefinedCases }
