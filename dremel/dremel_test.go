package dremel_test

import (
	"reflect"
	"testing"

	"github.com/canelmas/parquet-mr/dremel"
)

// fakeLeaf is a hand-populated dremel.Leaf test double: every scenario
// below states its leaves' shape directly rather than deriving it from
// a schema tree, so each test is a check of the assembly algorithm
// alone, independent of columnio.
type fakeLeaf struct {
	leafIndex   int
	fieldPath   []string
	indexPath   []int
	maxDef      int
	maxRep      int
	ancestorDef []int
	groups      []fakeGroup // groups[r] = span of the ancestor whose repetition level is r
	kind        dremel.PrimitiveKind
}

type fakeGroup struct {
	parentLen  int
	start, end int
}

func (l *fakeLeaf) FieldPath() []string                 { return l.fieldPath }
func (l *fakeLeaf) IndexPath() []int                     { return l.indexPath }
func (l *fakeLeaf) MaxDefinitionLevel() int              { return l.maxDef }
func (l *fakeLeaf) MaxRepetitionLevel() int              { return l.maxRep }
func (l *fakeLeaf) PrimitiveKind() dremel.PrimitiveKind { return l.kind }

func (l *fakeLeaf) DefinitionLevelOfAncestor(depth int) int {
	if depth < 0 || depth >= len(l.ancestorDef) {
		return l.maxDef
	}
	return l.ancestorDef[depth]
}

func (l *fakeLeaf) IsFirst(r int) bool           { return l.leafIndex == l.groups[r].start }
func (l *fakeLeaf) IsLast(r int) bool            { return l.leafIndex == l.groups[r].end-1 }
func (l *fakeLeaf) ParentFieldPathLen(r int) int { return l.groups[r].parentLen }

// triple is one (value, definitionLevel, repetitionLevel) entry of a
// fakeColumn's stream.
type triple struct {
	value interface{}
	d, r  int
}

// fakeColumn is a dremel.ColumnReader over an in-memory slice of
// triples, mirroring columnio.Column's end-of-stream convention:
// CurrentDefinitionLevel/CurrentRepetitionLevel return 0 once
// exhausted rather than signaling separately.
type fakeColumn struct {
	triples []triple
	cursor  int
}

func newFakeColumn(triples ...triple) *fakeColumn { return &fakeColumn{triples: triples} }

func (c *fakeColumn) HasValue() bool { return c.cursor < len(c.triples) }

func (c *fakeColumn) CurrentDefinitionLevel() int {
	if c.cursor < len(c.triples) {
		return c.triples[c.cursor].d
	}
	return 0
}

func (c *fakeColumn) CurrentRepetitionLevel() int {
	if c.cursor < len(c.triples) {
		return c.triples[c.cursor].r
	}
	return 0
}

func (c *fakeColumn) CurrentValue() interface{} {
	if c.cursor < len(c.triples) {
		return c.triples[c.cursor].value
	}
	return nil
}

func (c *fakeColumn) Consume() { c.cursor++ }

// event is one recorded Consumer callback, comparable with ==/DeepEqual.
type event struct {
	kind  string
	name  string
	index int
	pkind dremel.PrimitiveKind
	value interface{}
}

// recorder implements dremel.Consumer, appending every callback it
// receives to its events slice.
type recorder struct{ events []event }

func (r *recorder) StartMessage()            { r.events = append(r.events, event{kind: "StartMessage"}) }
func (r *recorder) EndMessage()              { r.events = append(r.events, event{kind: "EndMessage"}) }
func (r *recorder) StartGroup()              { r.events = append(r.events, event{kind: "StartGroup"}) }
func (r *recorder) EndGroup()                { r.events = append(r.events, event{kind: "EndGroup"}) }
func (r *recorder) StartField(n string, i int) {
	r.events = append(r.events, event{kind: "StartField", name: n, index: i})
}
func (r *recorder) EndField(n string, i int) {
	r.events = append(r.events, event{kind: "EndField", name: n, index: i})
}
func (r *recorder) AddPrimitive(k dremel.PrimitiveKind, v interface{}) {
	r.events = append(r.events, event{kind: "AddPrimitive", pkind: k, value: v})
}

func ev(kind string) event                      { return event{kind: kind} }
func fieldEv(kind, name string, index int) event { return event{kind: kind, name: name, index: index} }
func primEv(v interface{}) event                { return event{kind: "AddPrimitive", pkind: dremel.KindInt32, value: v} }

// S1: message M { required int32 v; }, a single record {v: 1}.
func TestAssembleFlatRequired(t *testing.T) {
	leaf := &fakeLeaf{
		leafIndex:   0,
		fieldPath:   []string{"v"},
		indexPath:   []int{0},
		maxDef:      0,
		maxRep:      0,
		ancestorDef: []int{0},
		groups:      []fakeGroup{{parentLen: 0, start: 0, end: 1}},
		kind:        dremel.KindInt32,
	}
	col := newFakeColumn(triple{value: int32(1), d: 0, r: 0})

	plan := dremel.NewPlan([]dremel.Leaf{leaf}, []dremel.ColumnReader{col})
	rec := &recorder{}
	if err := dremel.NewAssembler(plan).Read(rec); err != nil {
		t.Fatalf("Read: %v", err)
	}

	want := []event{
		ev("StartMessage"),
		fieldEv("StartField", "v", 0),
		primEv(int32(1)),
		fieldEv("EndField", "v", 0),
		ev("EndMessage"),
	}
	if !reflect.DeepEqual(rec.events, want) {
		t.Fatalf("got %#v, want %#v", rec.events, want)
	}

	if err := dremel.NewAssembler(plan).Read(&recorder{}); err != dremel.EOF {
		t.Fatalf("second Read: got %v, want EOF", err)
	}
}

// S2: message M { optional int32 v; }, records {v: 1} then {} (absent).
func TestAssembleOptionalAbsent(t *testing.T) {
	leaf := &fakeLeaf{
		leafIndex:   0,
		fieldPath:   []string{"v"},
		indexPath:   []int{0},
		maxDef:      1,
		maxRep:      0,
		ancestorDef: []int{1},
		groups:      []fakeGroup{{parentLen: 0, start: 0, end: 1}},
		kind:        dremel.KindInt32,
	}
	col := newFakeColumn(
		triple{value: int32(1), d: 1, r: 0},
		triple{value: nil, d: 0, r: 0},
	)

	plan := dremel.NewPlan([]dremel.Leaf{leaf}, []dremel.ColumnReader{col})
	a := dremel.NewAssembler(plan)

	rec1 := &recorder{}
	if err := a.Read(rec1); err != nil {
		t.Fatalf("first Read: %v", err)
	}
	want1 := []event{
		ev("StartMessage"),
		fieldEv("StartField", "v", 0),
		primEv(int32(1)),
		fieldEv("EndField", "v", 0),
		ev("EndMessage"),
	}
	if !reflect.DeepEqual(rec1.events, want1) {
		t.Fatalf("record 1: got %#v, want %#v", rec1.events, want1)
	}

	rec2 := &recorder{}
	if err := a.Read(rec2); err != nil {
		t.Fatalf("second Read: %v", err)
	}
	want2 := []event{ev("StartMessage"), ev("EndMessage")}
	if !reflect.DeepEqual(rec2.events, want2) {
		t.Fatalf("record 2: got %#v, want %#v", rec2.events, want2)
	}
}

// S3: message M { repeated int32 v; }, one record {v: [1, 2]}.
func TestAssembleRepeatedPrimitive(t *testing.T) {
	leaf := &fakeLeaf{
		leafIndex:   0,
		fieldPath:   []string{"v"},
		indexPath:   []int{0},
		maxDef:      1,
		maxRep:      1,
		ancestorDef: []int{1},
		groups:      []fakeGroup{{parentLen: 0, start: 0, end: 1}, {parentLen: 1, start: 0, end: 1}},
		kind:        dremel.KindInt32,
	}
	col := newFakeColumn(
		triple{value: int32(1), d: 1, r: 0},
		triple{value: int32(2), d: 1, r: 1},
	)

	plan := dremel.NewPlan([]dremel.Leaf{leaf}, []dremel.ColumnReader{col})
	rec := &recorder{}
	if err := dremel.NewAssembler(plan).Read(rec); err != nil {
		t.Fatalf("Read: %v", err)
	}

	want := []event{
		ev("StartMessage"),
		fieldEv("StartField", "v", 0),
		primEv(int32(1)),
		primEv(int32(2)),
		fieldEv("EndField", "v", 0),
		ev("EndMessage"),
	}
	if !reflect.DeepEqual(rec.events, want) {
		t.Fatalf("got %#v, want %#v", rec.events, want)
	}
}

// S4: message M { repeated group g { required int32 v; } }, one record
// {g: [{v: 1}, {v: 2}]}.
func TestAssembleNestedRepeatedGroup(t *testing.T) {
	leaf := &fakeLeaf{
		leafIndex:   0,
		fieldPath:   []string{"g", "v"},
		indexPath:   []int{0, 0},
		maxDef:      1,
		maxRep:      1,
		ancestorDef: []int{1, 1},
		groups:      []fakeGroup{{parentLen: 0, start: 0, end: 1}, {parentLen: 1, start: 0, end: 1}},
		kind:        dremel.KindInt32,
	}
	col := newFakeColumn(
		triple{value: int32(1), d: 1, r: 0},
		triple{value: int32(2), d: 1, r: 1},
	)

	plan := dremel.NewPlan([]dremel.Leaf{leaf}, []dremel.ColumnReader{col})
	rec := &recorder{}
	if err := dremel.NewAssembler(plan).Read(rec); err != nil {
		t.Fatalf("Read: %v", err)
	}

	want := []event{
		ev("StartMessage"),
		fieldEv("StartField", "g", 0),
		ev("StartGroup"),
		fieldEv("StartField", "v", 0),
		primEv(int32(1)),
		fieldEv("EndField", "v", 0),
		ev("EndGroup"),
		ev("StartGroup"),
		fieldEv("StartField", "v", 0),
		primEv(int32(2)),
		fieldEv("EndField", "v", 0),
		ev("EndGroup"),
		fieldEv("EndField", "g", 0),
		ev("EndMessage"),
	}
	if !reflect.DeepEqual(rec.events, want) {
		t.Fatalf("got %#v, want %#v", rec.events, want)
	}
}

// S5: message M { repeated group g { required int32 a; required int32
// b; } }, two leaves sharing the same repeated ancestor; one record
// {g: [{a:1,b:2}, {a:3,b:4}]}.
func TestAssembleTwoLeavesSharedGroup(t *testing.T) {
	group := []fakeGroup{{parentLen: 0, start: 0, end: 2}, {parentLen: 1, start: 0, end: 2}}
	leafA := &fakeLeaf{
		leafIndex: 0, fieldPath: []string{"g", "a"}, indexPath: []int{0, 0},
		maxDef: 1, maxRep: 1, ancestorDef: []int{1, 1}, groups: group, kind: dremel.KindInt32,
	}
	leafB := &fakeLeaf{
		leafIndex: 1, fieldPath: []string{"g", "b"}, indexPath: []int{0, 1},
		maxDef: 1, maxRep: 1, ancestorDef: []int{1, 1}, groups: group, kind: dremel.KindInt32,
	}
	colA := newFakeColumn(
		triple{value: int32(1), d: 1, r: 0},
		triple{value: int32(3), d: 1, r: 1},
	)
	colB := newFakeColumn(
		triple{value: int32(2), d: 1, r: 0},
		triple{value: int32(4), d: 1, r: 1},
	)

	plan := dremel.NewPlan([]dremel.Leaf{leafA, leafB}, []dremel.ColumnReader{colA, colB})
	rec := &recorder{}
	if err := dremel.NewAssembler(plan).Read(rec); err != nil {
		t.Fatalf("Read: %v", err)
	}

	want := []event{
		ev("StartMessage"),
		fieldEv("StartField", "g", 0),
		ev("StartGroup"),
		fieldEv("StartField", "a", 0),
		primEv(int32(1)),
		fieldEv("EndField", "a", 0),
		fieldEv("StartField", "b", 1),
		primEv(int32(2)),
		fieldEv("EndField", "b", 1),
		ev("EndGroup"),
		ev("StartGroup"),
		fieldEv("StartField", "a", 0),
		primEv(int32(3)),
		fieldEv("EndField", "a", 0),
		fieldEv("StartField", "b", 1),
		primEv(int32(4)),
		fieldEv("EndField", "b", 1),
		ev("EndGroup"),
		fieldEv("EndField", "g", 0),
		ev("EndMessage"),
	}
	if !reflect.DeepEqual(rec.events, want) {
		t.Fatalf("got %#v, want %#v", rec.events, want)
	}
}

// S6: NewPlan is deterministic given the same leaves/columns: two
// plans built from identical inputs must agree on every introspectable
// field (spec.md §3 invariant 5/7, property P5).
func TestPlanDeterministic(t *testing.T) {
	newLeaf := func() dremel.Leaf {
		return &fakeLeaf{
			leafIndex: 0, fieldPath: []string{"g", "v"}, indexPath: []int{0, 0},
			maxDef: 1, maxRep: 1, ancestorDef: []int{1, 1},
			groups: []fakeGroup{{parentLen: 0, start: 0, end: 1}, {parentLen: 1, start: 0, end: 1}},
			kind:   dremel.KindInt32,
		}
	}

	p1 := dremel.NewPlan([]dremel.Leaf{newLeaf()}, []dremel.ColumnReader{newFakeColumn()})
	p2 := dremel.NewPlan([]dremel.Leaf{newLeaf()}, []dremel.ColumnReader{newFakeColumn()})

	if p1.StateCount() != p2.StateCount() {
		t.Fatalf("StateCount differs: %d vs %d", p1.StateCount(), p2.StateCount())
	}
	for i := 0; i < p1.StateCount(); i++ {
		s1, s2 := p1.State(i), p2.State(i)
		if !reflect.DeepEqual(s1.DefinedCases(), s2.DefinedCases()) {
			t.Fatalf("state %d DefinedCases differ: %#v vs %#v", i, s1.DefinedCases(), s2.DefinedCases())
		}
		if !reflect.DeepEqual(s1.UndefinedCases(), s2.UndefinedCases()) {
			t.Fatalf("state %d UndefinedCases differ: %#v vs %#v", i, s1.UndefinedCases(), s2.UndefinedCases())
		}
		for r := 0; r <= s1.MaxRepetitionLevel(); r++ {
			if s1.NextStateID(r) != s2.NextStateID(r) || s1.NextLevel(r) != s2.NextLevel(r) {
				t.Fatalf("state %d transition at r=%d differs", i, r)
			}
		}
	}
}

// ReadN reports ErrCountExceedsCapacity without mutating state
// (spec.md §7 kind 2) and otherwise reads exactly count records.
func TestReadNCapacity(t *testing.T) {
	leaf := &fakeLeaf{
		leafIndex: 0, fieldPath: []string{"v"}, indexPath: []int{0},
		maxDef: 0, maxRep: 0, ancestorDef: []int{0},
		groups: []fakeGroup{{parentLen: 0, start: 0, end: 1}}, kind: dremel.KindInt32,
	}
	col := newFakeColumn(
		triple{value: int32(1), d: 0, r: 0},
		triple{value: int32(2), d: 0, r: 0},
	)
	plan := dremel.NewPlan([]dremel.Leaf{leaf}, []dremel.ColumnReader{col})
	a := dremel.NewAssembler(plan)

	rec := &recorder{}
	if _, err := a.ReadN(rec, 3, 2); err != dremel.ErrCountExceedsCapacity {
		t.Fatalf("got %v, want ErrCountExceedsCapacity", err)
	}
	if len(rec.events) != 0 {
		t.Fatalf("ReadN mutated consumer before validating capacity: %#v", rec.events)
	}

	n, err := a.ReadN(rec, 2, 2)
	if err != nil {
		t.Fatalf("ReadN: %v", err)
	}
	if n != 2 {
		t.Fatalf("got n=%d, want 2", n)
	}
}

// Validator panics on a malformed callback sequence (spec.md §7 kind
//4), grounded on the grammar message := StartMessage field* EndMessage.
func TestValidatorRejectsUnbalancedField(t *testing.T) {
	v := dremel.NewValidator(&recorder{})

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on unbalanced EndMessage")
		}
		if _, ok := r.(*dremel.SchemaViolationError); !ok {
			t.Fatalf("got panic of type %T, want *dremel.SchemaViolationError", r)
		}
	}()

	v.StartMessage()
	v.StartField("v", 0)
	v.AddPrimitive(dremel.KindInt32, int32(1))
	v.EndMessage() // missing EndField("v", 0)
}
