package parser

import (
	"fmt"

	"github.com/sbtext-lang/sbtextc/internal/lexer"
)

// Error reports an unexpected token, a missing keyword, unbalanced
// brackets, or a procedure call used inside an expression.
type Error struct {
	Message string
	Pos     lexer.Position
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (line %d, column %d)", e.Message, e.Pos.Line, e.Pos.Column)
}

// Position satisfies diag.Diagnostic.
func (e *Error) Position() (line, column int, ok bool) {
	return e.Pos.Line, e.Pos.Column, true
}
