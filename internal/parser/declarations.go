package parser

import (
	"strings"

	"github.com/sbtext-lang/sbtextc/internal/ast"
	"github.com/sbtext-lang/sbtextc/internal/lexer"
)

var endOnly = map[string]bool{"end": true}

var eventEndKeywords = map[string]bool{
	"when": true, "define": true, "var": true, "list": true, "costume": true, "end": true,
}

// parseProcedure parses `define name (p1) (p2) ... end`. The `define`
// keyword has already been consumed; pos is its position.
func (p *Parser) parseProcedure(pos lexer.Position) (*ast.Procedure, error) {
	name, err := p.parseNameToken()
	if err != nil {
		return nil, err
	}
	var params []string
	for p.checkType(lexer.LPAREN) {
		p.advance()
		paramTok, err := p.consumeType(lexer.IDENT, "expected parameter name")
		if err != nil {
			return nil, err
		}
		if _, err := p.consumeType(lexer.RPAREN, "expected ')' after parameter name"); err != nil {
			return nil, err
		}
		params = append(params, paramTok.Literal)
	}
	p.skipNewlines()
	body, err := p.parseStatementBlock(endOnly)
	if err != nil {
		return nil, err
	}
	if _, err := p.consumeKeyword("end", "expected 'end' to close procedure '"+name+"'"); err != nil {
		return nil, err
	}
	return &ast.Procedure{Base: ast.At(pos), Name: name, Params: params, Body: body}, nil
}

// parseEventScript parses a `when ...` header and body. The `when`
// keyword has already been consumed; pos is its position.
//
// A trailing `end` is ambiguous: it may close the event script, or it
// may belong to the enclosing target if this is the target's last
// script. looksLikeEventEnd resolves the ambiguity by looking past the
// `end` for the next significant token.
func (p *Parser) parseEventScript(pos lexer.Position) (*ast.EventScript, error) {
	script := &ast.EventScript{Base: ast.At(pos)}
	switch {
	case p.matchKeyword("flag"):
		if _, err := p.consumeKeyword("clicked", "expected 'clicked' after 'flag'"); err != nil {
			return nil, err
		}
		script.Kind = ast.EventFlagClicked
	case p.matchKeyword("this"):
		if _, err := p.consumeKeyword("sprite", "expected 'sprite' after 'this'"); err != nil {
			return nil, err
		}
		if _, err := p.consumeKeyword("clicked", "expected 'clicked' after 'this sprite'"); err != nil {
			return nil, err
		}
		script.Kind = ast.EventThisSpriteClicked
	case p.matchKeyword("i"):
		if _, err := p.consumeKeyword("receive", "expected 'receive' after 'i'"); err != nil {
			return nil, err
		}
		message, err := p.parseBracketText()
		if err != nil {
			return nil, err
		}
		script.Kind = ast.EventIReceive
		script.Message = message
	default:
		return nil, p.errorHere("expected 'flag clicked', 'this sprite clicked', or 'i receive [message]' after 'when'")
	}
	p.skipNewlines()
	body, err := p.parseStatementBlock(eventEndKeywords)
	if err != nil {
		return nil, err
	}
	script.Body = body
	if p.checkKeyword("end") && p.looksLikeEventEnd() {
		p.advance()
	}
	return script, nil
}

// looksLikeEventEnd reports whether the 'end' token under the cursor
// closes this event script rather than the enclosing target. It does,
// unless the next significant token (newlines skipped) is 'sprite',
// 'stage' or the end of input, in which case the 'end' closes the
// target.
func (p *Parser) looksLikeEventEnd() bool {
	i := p.index + 1
	for i < len(p.tokens) && p.tokens[i].Type == lexer.NEWLINE {
		i++
	}
	if i >= len(p.tokens) {
		return false
	}
	tok := p.tokens[i]
	if tok.Type == lexer.EOF {
		return false
	}
	if tok.Type == lexer.KEYWORD && (tok.Literal == "sprite" || tok.Literal == "stage") {
		return false
	}
	return true
}

// parseBracketTokens consumes `[ ... ]`, returning the raw tokens
// between the brackets. A newline or EOF before the closing bracket is
// an error.
func (p *Parser) parseBracketTokens() ([]lexer.Token, error) {
	if _, err := p.consumeType(lexer.LBRACKET, "expected '['"); err != nil {
		return nil, err
	}
	var tokens []lexer.Token
	for {
		if p.checkType(lexer.RBRACKET) {
			p.advance()
			return tokens, nil
		}
		if p.atEnd() || p.checkType(lexer.NEWLINE) {
			return nil, p.errorHere("unterminated '[' ... ']'")
		}
		tokens = append(tokens, p.advance())
	}
}

// parseBracketText joins bracketed tokens with single spaces, dropping
// a leading 'var' keyword if present (so both `[x]` and `[var x]` name
// the same field).
func (p *Parser) parseBracketText() (string, error) {
	tokens, err := p.parseBracketTokens()
	if err != nil {
		return "", err
	}
	if len(tokens) > 0 && tokens[0].Type == lexer.KEYWORD && tokens[0].Literal == "var" {
		tokens = tokens[1:]
	}
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = tok.Literal
	}
	return strings.Join(parts, " "), nil
}

func (p *Parser) parseVariableFieldName() (string, error) {
	return p.parseBracketText()
}
