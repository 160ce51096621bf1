package domain

import "fmt"

// InputError reports a malformed request: out-of-range coordinates, an
// unparsable datetime, or an unknown timezone. Fatal to the request; no
// card is produced.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Message)
}

// ValidationError reports the first schema rule an assembled card violated.
// This indicates an assembly bug, not an external data problem: degraded
// sections are still required to validate. Fatal; no card is emitted.
type ValidationError struct {
	Rule    string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("card validation failed: %s: %s: %s", e.Rule, e.Field, e.Message)
}
