// Package ast defines the tagged node hierarchy produced by the
// parser and import resolver, and consumed read-only by the semantic
// analyzer and code generator.
package ast

import "github.com/sbtext-lang/sbtextc/internal/lexer"

// Position is re-exported from the lexer so every AST node can carry
// the exact source location the token stream assigned it.
type Position = lexer.Position

// Node is satisfied by every AST node.
type Node interface {
	Pos() Position
}

// Expression is satisfied by every expression variant.
type Expression interface {
	Node
	expressionNode()
}

// Statement is satisfied by every statement variant.
type Statement interface {
	Node
	statementNode()
}

// Base embeds a Position and gives every node its Pos() method.
// Exported so other packages (the parser, the import resolver) can
// construct nodes directly via composite literals.
type Base struct {
	Position Position
}

func (b Base) Pos() Position { return b.Position }

// At is a short constructor for Base, used at every node-construction
// site instead of spelling out Base{Position: pos}.
func At(pos Position) Base { return Base{Position: pos} }
