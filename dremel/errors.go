package dremel

import (
	"errors"
	"fmt"
)

// EOF is returned by Assembler.Read and Assembler.ReadN when the column
// readers have been exhausted and no further records are available. It
// is a distinct terminal condition, not a successful empty record (see
// spec.md §7 kind 3 / SPEC_FULL.md §11).
var EOF = errors.New("dremel: end of record stream")

// ErrSchemaViolation is the error wrapped by the *SchemaViolationError a
// Validator panics with when an emitted callback sequence breaks the
// Consumer grammar (spec.md §7 kind 4). Validator checks that grammar
// only; it does not compare field names, indexes or primitive kinds
// with a schema.
var ErrSchemaViolation = errors.New("dremel: schema violation")

// ErrCountExceedsCapacity is returned by Assembler.ReadN when the
// requested count exceeds the capacity hint the caller supplied
// (spec.md §7 kind 2).
var ErrCountExceedsCapacity = errors.New("dremel: count exceeds buffer capacity")

// PlanError reports a programming error detected while building a Plan:
// the schema and column readers handed to NewPlan were inconsistent with
// each other. PlanError is never returned to a caller; NewPlan panics
// with it, since an inconsistent plan is a bug in the caller's schema
// construction, not a recoverable runtime condition (spec.md §7 kind 1).
type PlanError struct {
	FieldPath []string
	Reason    string
}

func (e *PlanError) Error() string {
	return fmt.Sprintf("dremel: invalid plan at leaf %q: %s", e.FieldPath, e.Reason)
}
