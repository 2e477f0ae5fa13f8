package resolver

import "fmt"

// Error reports an import-resolution failure: a missing file, a cycle,
// an invalid import placement, or a cross-file validation mismatch.
// Most of these are about a file or a cross-file reference rather than
// a single token, so a source position is optional.
type Error struct {
	Message string
	Line    int
	HasPos  bool
}

func (e *Error) Error() string {
	if e.HasPos {
		return fmt.Sprintf("%s (line %d)", e.Message, e.Line)
	}
	return e.Message
}

func (e *Error) Position() (line, column int, ok bool) {
	if !e.HasPos {
		return 0, 0, false
	}
	return e.Line, 0, true
}
