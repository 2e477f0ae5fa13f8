// Package diag renders pipeline errors with source context, the way
// go-dws's internal/errors package renders DWScript diagnostics.
package diag

import (
	"fmt"
	"strings"
)

// Diagnostic is satisfied by the positioned stage errors (lexer.Error,
// parser.Error, resolver.Error, semantic.Error) so the CLI can format
// any of them uniformly without importing every stage package by name.
// codegen.Error and asset.Error carry no position and are formatted
// without one.
type Diagnostic interface {
	error
	Position() (line, column int, ok bool)
}

// CompilerError adapts a Diagnostic (plus the source text and file
// path it was raised against) into a formatted, optionally colorized
// report.
type CompilerError struct {
	Message string
	Source  string
	File    string
	Line    int
	Column  int
	HasPos  bool
}

// FromError builds a CompilerError from any Diagnostic.
func FromError(err error, source, file string) *CompilerError {
	ce := &CompilerError{Message: err.Error(), Source: source, File: file}
	if d, ok := err.(Diagnostic); ok {
		if line, col, has := d.Position(); has {
			ce.Line, ce.Column, ce.HasPos = line, col, true
		}
	}
	return ce
}

// Format renders a file:line:col header, the offending source line
// with a line-number gutter, a caret line, and the message. color
// switches ANSI bold/red decoration.
func (e *CompilerError) Format(color bool) string {
	var sb strings.Builder

	if e.File != "" && e.HasPos {
		fmt.Fprintf(&sb, "Error in %s:%d:%d\n", e.File, e.Line, e.Column)
	} else if e.HasPos {
		fmt.Fprintf(&sb, "Error at line %d:%d\n", e.Line, e.Column)
	} else if e.File != "" {
		fmt.Fprintf(&sb, "Error in %s\n", e.File)
	} else {
		sb.WriteString("Error\n")
	}

	if e.HasPos {
		if line := e.sourceLine(e.Line); line != "" {
			gutter := fmt.Sprintf("%4d | ", e.Line)
			sb.WriteString(gutter)
			sb.WriteString(line)
			sb.WriteString("\n")
			sb.WriteString(strings.Repeat(" ", len(gutter)+e.Column-1))
			if color {
				sb.WriteString("\033[1;31m")
			}
			sb.WriteString("^")
			if color {
				sb.WriteString("\033[0m")
			}
			sb.WriteString("\n")
		}
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}
	return sb.String()
}

func (e *CompilerError) sourceLine(lineNum int) string {
	if e.Source == "" {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// FormatAll renders a sequence of errors, numbering them when there is
// more than one.
func FormatAll(errs []*CompilerError, color bool) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return errs[0].Format(color)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Compilation failed with %d error(s):\n\n", len(errs))
	for i, e := range errs {
		fmt.Fprintf(&sb, "[Error %d of %d]\n", i+1, len(errs))
		sb.WriteString(e.Format(color))
		if i < len(errs)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}
