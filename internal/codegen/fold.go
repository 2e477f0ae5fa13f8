package codegen

import "golang.org/x/text/cases"

var folder = cases.Fold()

// fold normalizes a name for case-insensitive lookup, matching the
// folding the semantic analyzer already validated names under.
func fold(name string) string {
	return folder.String(name)
}
