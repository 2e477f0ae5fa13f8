package parser

import (
	"strconv"
	"strings"

	"github.com/sbtext-lang/sbtextc/internal/ast"
	"github.com/sbtext-lang/sbtextc/internal/lexer"
)

// parseWrappedExpression parses a single `(expr)` group, as used for
// every statement's parenthesized operand.
func (p *Parser) parseWrappedExpression() (ast.Expression, error) {
	if _, err := p.consumeType(lexer.LPAREN, "expected '('"); err != nil {
		return nil, err
	}
	expr, err := p.parseExpression(1)
	if err != nil {
		return nil, err
	}
	if _, err := p.consumeType(lexer.RPAREN, "expected ')'"); err != nil {
		return nil, err
	}
	return expr, nil
}

// collectTokensUntilKeyword scans forward, tracking paren/bracket
// depth, and returns every token up to (but not including) the next
// depth-0 occurrence of the given keyword. Newlines are dropped; an
// unbalanced or exhausted stream is an error.
func (p *Parser) collectTokensUntilKeyword(stopWord string) ([]lexer.Token, error) {
	var tokens []lexer.Token
	depth := 0
	for {
		if p.atEnd() {
			return nil, p.errorHere("expected '" + stopWord + "'")
		}
		tok := p.current()
		if depth == 0 && tok.Type == lexer.KEYWORD && tok.Literal == stopWord {
			return tokens, nil
		}
		switch tok.Type {
		case lexer.LPAREN, lexer.LBRACKET:
			depth++
		case lexer.RPAREN, lexer.RBRACKET:
			depth--
			if depth < 0 {
				return nil, p.errorHere("unbalanced brackets before '" + stopWord + "'")
			}
		case lexer.NEWLINE:
			p.advance()
			continue
		}
		tokens = append(tokens, p.advance())
	}
}

// parseExpressionFromTokens re-parses a previously collected token
// slice (e.g. an if-condition) as a standalone expression.
func (p *Parser) parseExpressionFromTokens(tokens []lexer.Token) (ast.Expression, error) {
	if len(tokens) == 0 {
		return nil, p.errorHere("expected an expression")
	}
	eofPos := tokens[len(tokens)-1].Pos
	stream := make([]lexer.Token, 0, len(tokens)+1)
	stream = append(stream, tokens...)
	stream = append(stream, lexer.Token{Type: lexer.EOF, Pos: eofPos})
	sub := New(stream)
	expr, err := sub.parseExpression(1)
	if err != nil {
		return nil, err
	}
	if !sub.atEnd() {
		return nil, sub.errorHere("unexpected token in expression")
	}
	return expr, nil
}

// parseExpression is the precedence-climbing binary-operator core.
// minPrec is the lowest operator precedence this call is willing to
// consume; recursive calls raise it to prec+1 so that same-precedence
// chains like `a - b - c` associate left-to-right.
func (p *Parser) parseExpression(minPrec int) (ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.currentOperator()
		if !ok {
			return left, nil
		}
		prec, known := precedence[op]
		if !known || prec < minPrec {
			return left, nil
		}
		opPos := p.current().Pos
		p.advance()
		right, err := p.parseExpression(prec + 1)
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryExpr(opPos, op, left, right)
	}
}

// currentOperator reports the operator spelling of the current token,
// if it is one: an OP token, or the 'and'/'or' keywords.
func (p *Parser) currentOperator() (string, bool) {
	tok := p.current()
	if tok.Type == lexer.OP {
		return tok.Literal, true
	}
	if tok.Type == lexer.KEYWORD && (tok.Literal == "and" || tok.Literal == "or") {
		return tok.Literal, true
	}
	return "", false
}

func (p *Parser) parseUnary() (ast.Expression, error) {
	tok := p.current()
	if tok.Type == lexer.OP && tok.Literal == "-" {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryExpr(tok.Pos, "-", operand), nil
	}
	if tok.Type == lexer.KEYWORD && tok.Literal == "not" {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryExpr(tok.Pos, "not", operand), nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	tok := p.current()
	switch tok.Type {
	case lexer.NUMBER:
		p.advance()
		value, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, &Error{Message: "invalid number literal '" + tok.Literal + "'", Pos: tok.Pos}
		}
		return &ast.NumberLit{Base: ast.At(tok.Pos), Value: value}, nil

	case lexer.STRING:
		p.advance()
		return &ast.StringLit{Base: ast.At(tok.Pos), Value: tok.Literal}, nil

	case lexer.LPAREN:
		p.advance()
		expr, err := p.parseExpression(1)
		if err != nil {
			return nil, err
		}
		if _, err := p.consumeType(lexer.RPAREN, "expected ')'"); err != nil {
			return nil, err
		}
		return expr, nil

	case lexer.LBRACKET:
		name, err := p.parseVariableFieldName()
		if err != nil {
			return nil, err
		}
		if p.matchKeyword("contains") {
			item, err := p.parseWrappedExpression()
			if err != nil {
				return nil, err
			}
			return &ast.ListContainsExpr{Base: ast.At(tok.Pos), List: name, Item: item}, nil
		}
		return &ast.VarRef{Base: ast.At(tok.Pos), Name: name}, nil

	case lexer.IDENT:
		if p.peek().Type == lexer.LPAREN {
			return nil, p.errorHere("procedure calls are statements, not expressions")
		}
		p.advance()
		return &ast.VarRef{Base: ast.At(tok.Pos), Name: tok.Literal}, nil

	case lexer.KEYWORD:
		return p.parseKeywordPrimary(tok)

	default:
		return nil, p.errorHere("expected an expression")
	}
}

// parseKeywordPrimary parses the keyword-led primaries: the random
// picker, list reporters, key-pressed sensing, and the bare sensing
// reporters (answer, timer, mouse x/y).
func (p *Parser) parseKeywordPrimary(tok lexer.Token) (ast.Expression, error) {
	switch tok.Literal {
	case "pick":
		p.advance()
		if _, err := p.consumeKeyword("random", "expected 'random' after 'pick'"); err != nil {
			return nil, err
		}
		start, err := p.parseWrappedExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consumeKeyword("to", "expected 'to' after 'pick random (start)'"); err != nil {
			return nil, err
		}
		end, err := p.parseWrappedExpression()
		if err != nil {
			return nil, err
		}
		return &ast.PickRandomExpr{Base: ast.At(tok.Pos), Start: start, End: end}, nil

	case "item":
		p.advance()
		index, err := p.parseWrappedExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consumeKeyword("of", "expected 'of' after 'item (index)'"); err != nil {
			return nil, err
		}
		list, err := p.parseVariableFieldName()
		if err != nil {
			return nil, err
		}
		return &ast.ListItemExpr{Base: ast.At(tok.Pos), List: list, Index: index}, nil

	case "length":
		p.advance()
		if _, err := p.consumeKeyword("of", "expected 'of' after 'length'"); err != nil {
			return nil, err
		}
		list, err := p.parseVariableFieldName()
		if err != nil {
			return nil, err
		}
		return &ast.ListLengthExpr{Base: ast.At(tok.Pos), List: list}, nil

	case "key":
		p.advance()
		key, err := p.parseWrappedExpression()
		if err != nil {
			return nil, err
		}
		// "pressed?" carries the tail-'?' that the lexer folds into an
		// IDENT (spec.md §4.1); it is matched here by text, not as a
		// KEYWORD token.
		if p.current().Type != lexer.IDENT || strings.ToLower(p.current().Literal) != "pressed?" {
			return nil, p.errorHere("expected 'pressed?' after 'key (expr)'")
		}
		p.advance()
		return &ast.KeyPressedExpr{Base: ast.At(tok.Pos), Key: key}, nil

	case "answer":
		p.advance()
		return &ast.BuiltinReporterExpr{Base: ast.At(tok.Pos), Kind: ast.ReporterAnswer}, nil

	case "timer":
		p.advance()
		return &ast.BuiltinReporterExpr{Base: ast.At(tok.Pos), Kind: ast.ReporterTimer}, nil

	case "mouse":
		p.advance()
		switch {
		case p.matchKeyword("x"):
			return &ast.BuiltinReporterExpr{Base: ast.At(tok.Pos), Kind: ast.ReporterMouseX}, nil
		case p.matchKeyword("y"):
			return &ast.BuiltinReporterExpr{Base: ast.At(tok.Pos), Kind: ast.ReporterMouseY}, nil
		default:
			return nil, p.errorHere("expected 'x' or 'y' after 'mouse'")
		}

	default:
		return nil, p.errorHere("unexpected keyword '" + tok.Literal + "' in expression")
	}
}
