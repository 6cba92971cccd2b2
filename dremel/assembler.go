package dremel

// pendingField is the peephole optimization state of spec.md §4.2: an
// EndField immediately followed by a StartField for the same
// (name, index) must collapse so a field containing multiple values or
// groups is never closed and reopened between its children. It is the
// only mutable assembly state besides Assembler.currentLevel and the
// current State (spec.md §9, "Peephole state").
type pendingField struct {
	name  string
	index int
	set   bool
}

// Assembler drives a Plan's automaton to reassemble one record at a
// time from its bound column readers (spec.md §4.2, "Assembly loop").
//
// An Assembler is not safe for concurrent use. The ColumnReaders it
// advances belong to its Plan, so Assemblers built on the same Plan
// share one set of reader cursors.
type Assembler struct {
	plan         *Plan
	currentLevel int
	pending      pendingField
}

// NewAssembler returns an Assembler driving plan.
func NewAssembler(plan *Plan) *Assembler {
	return &Assembler{plan: plan}
}

// Read assembles the next record, advancing every visited column reader
// by exactly one position, and emits it to consumer. It returns EOF when
// the column readers have been exhausted (spec.md §7 kind 3).
func (a *Assembler) Read(consumer Consumer) error {
	if a.plan.StateCount() == 0 {
		consumer.StartMessage()
		consumer.EndMessage()
		return nil
	}

	state := a.plan.states[0]
	if !state.column.HasValue() {
		return EOF
	}

	consumer.StartMessage()
	a.currentLevel = 0

	for {
		col := state.column

		d := col.CurrentDefinitionLevel()
		depth := state.definitionLevelToDepth[d]

		for a.currentLevel <= depth {
			a.emitStartField(consumer, state.fieldPath[a.currentLevel], state.indexPath[a.currentLevel])
			a.emitStartGroup(consumer)
			a.currentLevel++
		}

		if d == state.maxDef {
			leaf := len(state.fieldPath) - 1
			a.emitStartField(consumer, state.fieldPath[leaf], state.indexPath[leaf])
			consumer.AddPrimitive(state.primitiveKind, col.CurrentValue())
			a.emitEndField(consumer, state.fieldPath[leaf], state.indexPath[leaf])
		}

		col.Consume()

		nextR := 0
		if state.maxRep != 0 {
			nextR = col.CurrentRepetitionLevel()
		}

		target := state.nextLevel[nextR]
		for a.currentLevel > target {
			a.currentLevel--
			a.emitEndGroup(consumer)
			a.emitEndField(consumer, state.fieldPath[a.currentLevel], state.indexPath[a.currentLevel])
		}

		nextID := state.nextState[nextR]
		if nextID == a.plan.SinkStateID() {
			break
		}
		state = a.plan.states[nextID]
	}

	a.flushPending(consumer)
	consumer.EndMessage()
	return nil
}

// ReadN assembles up to count consecutive records into consumer,
// stopping early (and returning EOF) if the column readers are
// exhausted first. capacity models the length of the caller-supplied
// buffer from spec.md §6's `read(buffer, count)`: if count exceeds
// capacity, ReadN reports ErrCountExceedsCapacity without reading or
// mutating any state (spec.md §7 kind 2).
func (a *Assembler) ReadN(consumer Consumer, count, capacity int) (int, error) {
	if count > capacity {
		return 0, ErrCountExceedsCapacity
	}
	for i := 0; i < count; i++ {
		if err := a.Read(consumer); err != nil {
			return i, err
		}
	}
	return count, nil
}

func (a *Assembler) flushPending(consumer Consumer) {
	if a.pending.set {
		consumer.EndField(a.pending.name, a.pending.index)
		a.pending.set = false
	}
}

func (a *Assembler) emitStartField(consumer Consumer, name string, index int) {
	if a.pending.set && a.pending.name == name && a.pending.index == index {
		a.pending.set = false
		return
	}
	a.flushPending(consumer)
	consumer.StartField(name, index)
}

func (a *Assembler) emitEndField(consumer Consumer, name string, index int) {
	a.flushPending(consumer)
	a.pending = pendingField{name: name, index: index, set: true}
}

func (a *Assembler) emitStartGroup(consumer Consumer) {
	a.flushPending(consumer)
	consumer.StartGroup()
}

func (a *Assembler) emitEndGroup(consumer Consumer) {
	a.flushPending(consumer)
	consumer.EndGroup()
}
