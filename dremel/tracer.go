package dremel

import (
	"io"

	"github.com/segmentio/encoding/json"
)

// traceEvent is one line of a Tracer's machine-readable output.
type traceEvent struct {
	Callback string      `json:"callback"`
	Name     string      `json:"name,omitempty"`
	Index    *int        `json:"index,omitempty"`
	Kind     string      `json:"kind,omitempty"`
	Value    interface{} `json:"value,omitempty"`
}

// Tracer decorates a Consumer, writing one JSON-encoded traceEvent per
// callback to w before forwarding the call. It is the debug wrapper of
// spec.md §2 ("Optional wrappers ... a debug tracer"); like Validator,
// it lives outside the assembly loop.
//
// Tracer uses github.com/segmentio/encoding/json rather than the
// standard library's encoding/json: the teacher module already depends
// on github.com/segmentio/encoding for its own wire encoding, and its
// json subpackage is the natural fit for a hot, line-oriented trace
// path.
type Tracer struct {
	next Consumer
	w    io.Writer
	enc  *json.Encoder
}

// NewTracer returns a Tracer forwarding calls to next and writing a
// trace line to w for each one.
func NewTracer(next Consumer, w io.Writer) *Tracer {
	return &Tracer{next: next, w: w, enc: json.NewEncoder(w)}
}

func (t *Tracer) emit(ev traceEvent) {
	_ = t.enc.Encode(ev)
}

func (t *Tracer) StartMessage() {
	t.emit(traceEvent{Callback: "StartMessage"})
	t.next.StartMessage()
}

func (t *Tracer) EndMessage() {
	t.emit(traceEvent{Callback: "EndMessage"})
	t.next.EndMessage()
}

func (t *Tracer) StartField(name string, index int) {
	i := index
	t.emit(traceEvent{Callback: "StartField", Name: name, Index: &i})
	t.next.StartField(name, index)
}

func (t *Tracer) EndField(name string, index int) {
	i := index
	t.emit(traceEvent{Callback: "EndField", Name: name, Index: &i})
	t.next.EndField(name, index)
}

func (t *Tracer) StartGroup() {
	t.emit(traceEvent{Callback: "StartGroup"})
	t.next.StartGroup()
}

func (t *Tracer) EndGroup() {
	t.emit(traceEvent{Callback: "EndGroup"})
	t.next.EndGroup()
}

func (t *Tracer) AddPrimitive(kind PrimitiveKind, value interface{}) {
	t.emit(traceEvent{Callback: "AddPrimitive", Kind: kind.String(), Value: value})
	t.next.AddPrimitive(kind, value)
}
