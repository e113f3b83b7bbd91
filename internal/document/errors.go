package document

import "fmt"

// ValidationError reports structurally invalid compiler input. Compilation
// stops at the first one; no partial documents are emitted.
type ValidationError struct {
	// Compiler names the compiler that rejected the input.
	Compiler string

	// Record identifies the offending intent record.
	Record string

	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid record %q: %s", e.Compiler, e.Record, e.Reason)
}
