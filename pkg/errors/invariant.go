package errors

import "fmt"

// FatalInvariantError marks the "internal invariant" error kind of spec §7:
// a condition that should never occur. The orchestrator logs it and
// terminates the process rather than attempting to continue on state it
// cannot trust.
type FatalInvariantError struct {
	Invariant string
	Detail    string
}

func (e *FatalInvariantError) Error() string {
	return fmt.Sprintf("internal invariant violated: %s: %s", e.Invariant, e.Detail)
}

// NewFatalInvariantError constructs a FatalInvariantError.
func NewFatalInvariantError(invariant, detail string) *FatalInvariantError {
	return &FatalInvariantError{Invariant: invariant, Detail: detail}
}
