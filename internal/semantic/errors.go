package semantic

import (
	"fmt"

	"github.com/sbtext-lang/sbtextc/internal/lexer"
)

// Error reports a semantic validation failure: a duplicate name, an
// unresolved variable/list/procedure reference, a read-only-parameter
// violation, a forward-call, or an arity mismatch.
type Error struct {
	Message string
	Pos     lexer.Position
	HasPos  bool
}

func (e *Error) Error() string {
	if e.HasPos {
		return fmt.Sprintf("%s (line %d, column %d)", e.Message, e.Pos.Line, e.Pos.Column)
	}
	return e.Message
}

// Position satisfies diag.Diagnostic.
func (e *Error) Position() (line, column int, ok bool) {
	if !e.HasPos {
		return 0, 0, false
	}
	return e.Pos.Line, e.Pos.Column, true
}

func errAt(pos lexer.Position, format string, args ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), Pos: pos, HasPos: true}
}
