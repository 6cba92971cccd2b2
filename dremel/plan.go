package dremel

// Plan is the immutable set of states and case tables built once from a
// schema's leaves and their column readers (spec.md §3, "Plan";
// §4.1, "Assembly-plan builder").
//
// The tables of a Plan do not change after NewPlan returns, but each
// State holds the ColumnReader it was built with: every Assembler that
// drives the same Plan reads and advances those same readers, so a Plan
// is not safe for concurrent use by several Assemblers.
type Plan struct {
	states []*State
}

// SinkStateID is the sentinel state id reached after the last leaf of a
// record; an Assembler stops when it transitions to this id.
func (p *Plan) SinkStateID() int { return len(p.states) }

// StateCount returns the number of leaf states in the plan.
func (p *Plan) StateCount() int { return len(p.states) }

// State returns the state with the given id (spec.md §6,
// "Introspection").
func (p *Plan) State(i int) *State { return p.states[i] }

// NextReaderID returns the id of the state that follows state
// stateID when the next repetition level read from its column is r,
// or StateCount() for the sink (spec.md §6, "Introspection").
func (p *Plan) NextReaderID(stateID, r int) int {
	return p.states[stateID].nextState[r]
}

// NextLevel returns the tree level down to which groups must be closed
// before transitioning away from stateID when the next repetition level
// read from its column is r (spec.md §6, "Introspection").
func (p *Plan) NextLevel(stateID, r int) int {
	return p.states[stateID].nextLevel[r]
}

// NewPlan builds the assembly plan for the leaves and their bound
// column readers, in schema/document order. len(leaves) must equal
// len(columns); columns[i] is the reader bound to leaves[i].
//
// NewPlan panics with a *PlanError if the leaves are internally
// inconsistent (spec.md §7 kind 1: a plan error is a programming error,
// not a recoverable runtime condition).
func NewPlan(leaves []Leaf, columns []ColumnReader) *Plan {
	if len(leaves) != len(columns) {
		panic(&PlanError{Reason: "len(leaves) != len(columns)"})
	}
	n := len(leaves)

	states := make([]*State, n)
	for i, leaf := range leaves {
		states[i] = &State{
			id:            i,
			column:        columns[i],
			fieldPath:     leaf.FieldPath(),
			indexPath:     leaf.IndexPath(),
			maxDef:        leaf.MaxDefinitionLevel(),
			maxRep:        leaf.MaxRepetitionLevel(),
			primitiveKind: leaf.PrimitiveKind(),
		}
	}

	buildTransitionTargets(leaves, states)
	for i, leaf := range leaves {
		states[i].definitionLevelToDepth = definitionLevelToDepthOf(leaf)
	}
	buildCaseTables(states)

	return &Plan{states: states}
}

// buildTransitionTargets implements spec.md §4.1 Step A.
func buildTransitionTargets(leaves []Leaf, states []*State) {
	n := len(leaves)

	maxR := 0
	for _, leaf := range leaves {
		if r := leaf.MaxRepetitionLevel(); r > maxR {
			maxR = r
		}
	}

	firsts := make([]int, maxR+1)

	for i, leaf := range leaves {
		repLevel := leaf.MaxRepetitionLevel()
		nextState := make([]int, repLevel+1)
		nextLevel := make([]int, repLevel+1)

		for r := 0; r <= repLevel; r++ {
			if leaf.IsFirst(r) {
				firsts[r] = i
			}

			var next int
			switch {
			case r == 0:
				next = i + 1
			case leaf.IsLast(r):
				next = firsts[r]
			default:
				next = i + 1
			}

			var level int
			switch {
			case next == n:
				level = 0
			case leaf.IsLast(r):
				level = leaf.ParentFieldPathLen(r) - 1
			default:
				level = commonPrefixLen(leaf.FieldPath(), leaves[next].FieldPath())
			}

			if level > len(leaf.FieldPath())-1 {
				panic(&PlanError{
					FieldPath: leaf.FieldPath(),
					Reason:    "nextLevel exceeds leaf depth",
				})
			}

			nextLevel[r] = level
			if next == n {
				nextState[r] = n
			} else {
				nextState[r] = next
			}
		}

		states[i].nextState = nextState
		states[i].nextLevel = nextLevel
	}
}

// commonPrefixLen returns the length of the longest common prefix of a
// and b (spec.md §3 invariant 4).
func commonPrefixLen(a, b []string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

// definitionLevelToDepthOf implements spec.md §4.1 Step B.
func definitionLevelToDepthOf(leaf Leaf) []int {
	maxDef := leaf.MaxDefinitionLevel()
	numLevels := len(leaf.FieldPath())

	table := make([]int, maxDef+1)
	depth := 0
	for d := 0; d <= maxDef; d++ {
		for depth < numLevels-1 && leaf.DefinitionLevelOfAncestor(depth) <= d {
			depth++
		}
		table[d] = depth - 1
	}
	return table
}

// buildCaseTables implements spec.md §4.1 Step C and Step D.
func buildCaseTables(states []*State) {
	for _, s := range states {
		numLevels := len(s.fieldPath)

		defined := newCaseTable()
		undefined := newCaseTable()

		lookup := make([][][]Case, numLevels)
		for currentLevel := 0; currentLevel < numLevels; currentLevel++ {
			lookup[currentLevel] = make([][]Case, s.maxDef+1)
			for d := 0; d <= s.maxDef; d++ {
				row := make([]Case, s.maxRep+1)
				for r := 0; r <= s.maxRep; r++ {
					depth := s.definitionLevelToDepth[d]
					if currentLevel-1 > depth {
						depth = currentLevel - 1
					}
					nl := s.nextLevel[r]
					if depth+1 < nl {
						nl = depth + 1
					}
					key := caseKey{
						startLevel:  currentLevel,
						depth:       depth,
						nextLevel:   nl,
						nextStateID: s.nextState[r],
					}
					var c Case
					if d == s.maxDef {
						c = defined.intern(key)
					} else {
						c = undefined.intern(key)
					}
					row[r] = c
				}
				lookup[currentLevel][d] = row
			}
		}

		s.caseLookup = lookup
		s.definedCases = defined.sorted()
		s.undefinedCases = undefined.sorted()
	}
}
