// Package parser implements a hand-written recursive-descent parser,
// with a Pratt expression core, over the SBText token stream.
package parser

import (
	"github.com/sbtext-lang/sbtextc/internal/ast"
	"github.com/sbtext-lang/sbtextc/internal/lexer"
)

// Parser consumes a fixed token slice and produces an ast.Project (or
// the first error encountered — parsing halts immediately, it never
// recovers and continues).
type Parser struct {
	tokens []lexer.Token
	index  int
}

// precedence is the Pratt table: or(1) < and(2) < comparisons(3) <
// additive(4) < multiplicative(5).
var precedence = map[string]int{
	"or": 1, "and": 2,
	"=": 3, "==": 3, "!=": 3, "<": 3, "<=": 3, ">": 3, ">=": 3,
	"+": 4, "-": 4,
	"*": 5, "/": 5, "%": 5,
}

// New wraps a pre-tokenized stream.
func New(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

// ParseSource lexes and parses source text in one step.
func ParseSource(source string) (*ast.Project, error) {
	tokens, err := lexer.New(source).Tokenize()
	if err != nil {
		return nil, err
	}
	return New(tokens).ParseProject()
}

// ParseProject parses one or more top-level sprite/stage blocks; a
// source with none is an error.
func (p *Parser) ParseProject() (*ast.Project, error) {
	p.skipNewlines()
	pos := p.current().Pos
	var targets []*ast.Target
	for !p.atEnd() {
		token := p.current()
		var target *ast.Target
		var err error
		switch {
		case p.matchKeyword("sprite"):
			target, err = p.parseSprite(token.Pos)
		case p.matchKeyword("stage"):
			target, err = p.parseStage(token.Pos)
		default:
			return nil, p.errorHere("expected 'sprite' or 'stage'")
		}
		if err != nil {
			return nil, err
		}
		targets = append(targets, target)
		p.skipNewlines()
	}
	if len(targets) == 0 {
		return nil, &Error{Message: "expected at least one 'stage' or 'sprite' block", Pos: pos}
	}
	return &ast.Project{Targets: targets}, nil
}

func (p *Parser) parseSprite(pos lexer.Position) (*ast.Target, error) {
	name, err := p.parseNameToken()
	if err != nil {
		return nil, err
	}
	p.skipNewlines()
	return p.parseTargetBody(name, false, pos)
}

func (p *Parser) parseStage(pos lexer.Position) (*ast.Target, error) {
	name := "Stage"
	if p.checkType(lexer.IDENT) || p.checkType(lexer.STRING) {
		parsed, err := p.parseNameToken()
		if err != nil {
			return nil, err
		}
		name = parsed
	}
	p.skipNewlines()
	return p.parseTargetBody(name, true, pos)
}

func (p *Parser) parseTargetBody(name string, isStage bool, pos lexer.Position) (*ast.Target, error) {
	target := &ast.Target{Base: ast.At(pos), Name: name, IsStage: isStage}
	for {
		p.skipNewlines()
		if p.atEnd() {
			return nil, &Error{Message: "unterminated target block for '" + name + "'; expected 'end'", Pos: p.current().Pos}
		}
		if p.matchKeyword("end") {
			return target, nil
		}
		switch {
		case p.matchKeyword("var"):
			declPos := p.previous().Pos
			declName, err := p.parseVariableFieldName()
			if err != nil {
				return nil, err
			}
			target.Variables = append(target.Variables, &ast.VariableDecl{Base: ast.At(declPos), Name: declName})
		case p.matchKeyword("list"):
			declPos := p.previous().Pos
			declName, err := p.parseVariableFieldName()
			if err != nil {
				return nil, err
			}
			target.Lists = append(target.Lists, &ast.ListDecl{Base: ast.At(declPos), Name: declName})
		case p.matchKeyword("costume"):
			declPos := p.previous().Pos
			pathTok, err := p.consumeType(lexer.STRING, "expected costume path string")
			if err != nil {
				return nil, err
			}
			target.Costumes = append(target.Costumes, &ast.CostumeDecl{Base: ast.At(declPos), Path: pathTok.Literal})
		case p.matchKeyword("define"):
			proc, err := p.parseProcedure(p.previous().Pos)
			if err != nil {
				return nil, err
			}
			target.Procedures = append(target.Procedures, proc)
		case p.matchKeyword("when"):
			script, err := p.parseEventScript(p.previous().Pos)
			if err != nil {
				return nil, err
			}
			target.Scripts = append(target.Scripts, script)
		default:
			return nil, p.errorHere("expected 'var', 'list', 'costume', 'define', 'when', or 'end' inside target")
		}
	}
}

// --- token stream helpers ---

func (p *Parser) current() lexer.Token {
	return p.tokens[p.index]
}

func (p *Parser) peek() lexer.Token {
	if p.index+1 >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.index+1]
}

func (p *Parser) previous() lexer.Token {
	return p.tokens[p.index-1]
}

func (p *Parser) advance() lexer.Token {
	tok := p.tokens[p.index]
	if p.index < len(p.tokens)-1 {
		p.index++
	}
	return tok
}

func (p *Parser) atEnd() bool {
	return p.current().Type == lexer.EOF
}

func (p *Parser) checkType(t lexer.TokenType) bool {
	return p.current().Type == t
}

func (p *Parser) checkKeyword(value string) bool {
	tok := p.current()
	return tok.Type == lexer.KEYWORD && tok.Literal == value
}

func (p *Parser) matchKeyword(value string) bool {
	if p.checkKeyword(value) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) consumeKeyword(value, message string) (lexer.Token, error) {
	if p.checkKeyword(value) {
		return p.advance(), nil
	}
	return lexer.Token{}, p.errorHere(message)
}

func (p *Parser) consumeType(t lexer.TokenType, message string) (lexer.Token, error) {
	if p.checkType(t) {
		return p.advance(), nil
	}
	return lexer.Token{}, p.errorHere(message)
}

func (p *Parser) skipNewlines() {
	for p.checkType(lexer.NEWLINE) {
		p.advance()
	}
}

func (p *Parser) errorHere(message string) error {
	tok := p.current()
	return &Error{Message: message, Pos: tok.Pos}
}

func (p *Parser) parseNameToken() (string, error) {
	tok := p.current()
	if tok.Type == lexer.IDENT || tok.Type == lexer.STRING {
		p.advance()
		return tok.Literal, nil
	}
	return "", p.errorHere("expected name")
}
