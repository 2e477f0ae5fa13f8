package asset

import "fmt"

// Error reports a costume or asset-packaging failure: an unreadable
// file, an unsupported format, or malformed SVG.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

func errf(format string, args ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}
