package dremel

import "fmt"

// SchemaViolationError describes the callback at which a Validator
// detected an event sequence that the grammar of spec.md §4.3 does not
// allow.
type SchemaViolationError struct {
	Callback string
	Reason   string
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("dremel: schema violation at %s: %s", e.Callback, e.Reason)
}

func (e *SchemaViolationError) Unwrap() error { return ErrSchemaViolation }

// frame tracks one open StartField/StartGroup on the validator's stack.
type frame struct {
	isField   bool
	name      string
	index     int
	sawChild  bool
	hasFields bool // only meaningful for group frames
}

// Validator decorates a Consumer, checking every callback against the
// structural grammar of spec.md §4.3 before forwarding it:
//
//	message := StartMessage field* EndMessage
//	field   := StartField (group | primitive)+ EndField
//	group   := StartGroup field* EndGroup
//
// It is placed outside the assembly loop so Assembler itself stays
// schema/validator-agnostic (spec.md §9, "Validator composition").
// Validator panics with a *SchemaViolationError on the first offending
// callback: Consumer has no error-return channel, and a violation
// leaves the stream in a non-recoverable state regardless (spec.md §7
// kind 4).
type Validator struct {
	next      Consumer
	inMessage bool
	stack     []frame
}

// NewValidator returns a Validator forwarding well-formed callbacks to
// next.
func NewValidator(next Consumer) *Validator {
	return &Validator{next: next}
}

func (v *Validator) fail(callback, reason string) {
	panic(&SchemaViolationError{Callback: callback, Reason: reason})
}

func (v *Validator) top() *frame {
	if len(v.stack) == 0 {
		return nil
	}
	return &v.stack[len(v.stack)-1]
}

func (v *Validator) StartMessage() {
	if v.inMessage {
		v.fail("StartMessage", "already inside a message")
	}
	v.inMessage = true
	v.stack = v.stack[:0]
	v.next.StartMessage()
}

func (v *Validator) EndMessage() {
	if !v.inMessage {
		v.fail("EndMessage", "not inside a message")
	}
	if len(v.stack) != 0 {
		v.fail("EndMessage", "unbalanced field/group nesting")
	}
	v.inMessage = false
	v.next.EndMessage()
}

func (v *Validator) StartField(name string, index int) {
	if !v.inMessage {
		v.fail("StartField", "not inside a message")
	}
	if t := v.top(); t != nil {
		if t.isField {
			v.fail("StartField", "a field cannot directly contain another field")
		}
		t.hasFields = true
	}
	v.stack = append(v.stack, frame{isField: true, name: name, index: index})
	v.next.StartField(name, index)
}

func (v *Validator) EndField(name string, index int) {
	t := v.top()
	if t == nil || !t.isField {
		v.fail("EndField", "no matching StartField")
	}
	if t.name != name || t.index != index {
		v.fail("EndField", fmt.Sprintf("expected end of %s[%d], got %s[%d]", t.name, t.index, name, index))
	}
	if !t.sawChild {
		v.fail("EndField", fmt.Sprintf("field %s[%d] has no group or primitive", name, index))
	}
	v.stack = v.stack[:len(v.stack)-1]
	v.next.EndField(name, index)
}

func (v *Validator) StartGroup() {
	t := v.top()
	if t == nil || !t.isField {
		v.fail("StartGroup", "not immediately inside a field")
	}
	t.sawChild = true
	v.stack = append(v.stack, frame{isField: false})
	v.next.StartGroup()
}

func (v *Validator) EndGroup() {
	t := v.top()
	if t == nil || t.isField {
		v.fail("EndGroup", "no matching StartGroup")
	}
	v.stack = v.stack[:len(v.stack)-1]
	v.next.EndGroup()
}

func (v *Validator) AddPrimitive(kind PrimitiveKind, value interface{}) {
	t := v.top()
	if t == nil || !t.isField {
		v.fail("AddPrimitive", "not immediately inside a field")
	}
	t.sawChild = true
	v.next.AddPrimitive(kind, value)
}
