package dremel

// Consumer is the abstract sink that observes the structured event
// stream produced by an Assembler (spec.md §4.3, "Record consumer").
//
// Allowed callback sequences, as a regular grammar over one Read call:
//
//	message := StartMessage field* EndMessage
//	field   := StartField (group | primitive)+ EndField
//	group   := StartGroup field* EndGroup
//	primitive := AddPrimitive
//
// Assembler is responsible for producing only allowed sequences; use
// Validator to verify that a sequence follows this grammar (it does not
// check the sequence against a schema).
type Consumer interface {
	StartMessage()
	EndMessage()
	StartField(name string, index int)
	EndField(name string, index int)
	StartGroup()
	EndGroup()
	AddPrimitive(kind PrimitiveKind, value interface{})
}
