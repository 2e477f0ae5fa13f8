package semantic

import (
	"golang.org/x/text/cases"
)

// folder provides Unicode-correct case folding for identifier
// comparisons, so a sprite or variable named with non-ASCII letters
// (e.g. "Ä") is deduplicated the same way Scratch treats it.
var folder = cases.Fold()

func fold(name string) string {
	return folder.String(name)
}

// Symbol is an entry in a SymbolTable: the original-case name (kept
// for error messages) and whether it may appear as an assignment
// target.
type Symbol struct {
	Name     string
	ReadOnly bool
}

// SymbolTable is a case-insensitively keyed scope, optionally chained
// to an enclosing scope. A procedure's parameter scope is built by
// enclosing the owning target's variable scope, so resolving a name
// inside a procedure body checks parameters first and falls back to
// the target's declared variables.
type SymbolTable struct {
	symbols map[string]*Symbol
	outer   *SymbolTable
}

// NewSymbolTable returns an empty, unenclosed scope.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]*Symbol)}
}

// NewEnclosedSymbolTable returns an empty scope chained to outer.
// Resolve checks this scope before falling back to outer.
func NewEnclosedSymbolTable(outer *SymbolTable) *SymbolTable {
	st := NewSymbolTable()
	st.outer = outer
	return st
}

// Define adds name to this scope. Returns the previously defined
// Symbol and true if name was already declared in THIS scope (not an
// enclosing one) — callers use this to raise a duplicate-name error.
func (st *SymbolTable) Define(name string, readOnly bool) (prev *Symbol, duplicate bool) {
	key := fold(name)
	if existing, ok := st.symbols[key]; ok {
		return existing, true
	}
	st.symbols[key] = &Symbol{Name: name, ReadOnly: readOnly}
	return nil, false
}

// Resolve looks up name in this scope, then each enclosing scope in
// turn, returning the nearest match.
func (st *SymbolTable) Resolve(name string) (*Symbol, bool) {
	key := fold(name)
	if sym, ok := st.symbols[key]; ok {
		return sym, true
	}
	if st.outer != nil {
		return st.outer.Resolve(name)
	}
	return nil, false
}

// foldSet is a flat, unscoped case-insensitive name set, used for
// duplicate checks that have no enclosing-scope structure (target
// names, list names, a single procedure's parameters).
type foldSet struct {
	entries map[string]string
}

func newFoldSet() *foldSet {
	return &foldSet{entries: make(map[string]string)}
}

// add records name, returning the previously recorded original-case
// spelling and true if it was already present.
func (s *foldSet) add(name string) (prev string, duplicate bool) {
	key := fold(name)
	if existing, ok := s.entries[key]; ok {
		return existing, true
	}
	s.entries[key] = name
	return "", false
}

func (s *foldSet) has(name string) bool {
	_, ok := s.entries[fold(name)]
	return ok
}
