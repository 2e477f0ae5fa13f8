package lexer

import "fmt"

// Error reports an illegal character or unterminated string literal.
type Error struct {
	Message string
	Pos     Position
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (line %d, column %d)", e.Message, e.Pos.Line, e.Pos.Column)
}

// Position satisfies diag.Diagnostic.
func (e *Error) Position() (line, column int, ok bool) {
	return e.Pos.Line, e.Pos.Column, true
}
