package codegen

import "fmt"

// Error reports a code-generation failure: an unresolved variable/list/
// procedure reference the semantic pass should have already caught, or
// an operator/reporter kind this generator does not know how to lower.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

func errf(format string, args ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}
