// Package dremel implements the record assembly core of a columnar
// storage system modeled on the Dremel striping/assembly algorithm.
//
// Given a schema exposed as a slice of Leaf columns and one ColumnReader
// per leaf, a Plan precomputes a deterministic finite automaton over the
// leaves plus a per-state case table encoding every open/close decision.
// An Assembler then drives that automaton to reconstruct nested records
// and emit them to a Consumer as a stream of start/end events.
//
// The schema itself, the column readers, and the downstream consumer are
// external collaborators: this package only consumes them through the
// Leaf, ColumnReader and Consumer interfaces. See the columnio package
// for concrete, struct-tag-driven implementations of those interfaces.
package dremel
