package parser

import (
	"github.com/sbtext-lang/sbtextc/internal/ast"
	"github.com/sbtext-lang/sbtextc/internal/lexer"
)

var thenElseEnd = map[string]bool{"else": true, "end": true}
var elseEnd = map[string]bool{"end": true}

// parseStatementBlock parses statements until a keyword in stop is
// seen (without consuming it) or the token stream runs out.
func (p *Parser) parseStatementBlock(stop map[string]bool) ([]ast.Statement, error) {
	var stmts []ast.Statement
	for {
		p.skipNewlines()
		if p.atEnd() {
			return stmts, nil
		}
		tok := p.current()
		if tok.Type == lexer.KEYWORD && stop[tok.Literal] {
			return stmts, nil
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	tok := p.current()
	pos := tok.Pos

	if tok.Type == lexer.IDENT {
		return p.parseCallStatement(pos)
	}

	if tok.Type != lexer.KEYWORD {
		return nil, p.errorHere("expected a statement")
	}

	switch tok.Literal {
	case "broadcast":
		p.advance()
		message, err := p.parseBracketText()
		if err != nil {
			return nil, err
		}
		return &ast.BroadcastStmt{Base: ast.At(pos), Message: message}, nil

	case "set":
		p.advance()
		return p.parseSetStatement(pos)

	case "change":
		p.advance()
		return p.parseChangeStatement(pos)

	case "move":
		p.advance()
		steps, err := p.parseWrappedExpression()
		if err != nil {
			return nil, err
		}
		p.matchKeyword("steps")
		return &ast.MoveStmt{Base: ast.At(pos), Steps: steps}, nil

	case "turn":
		p.advance()
		return p.parseTurnStatement(pos)

	case "go":
		p.advance()
		return p.parseGoToXYStatement(pos)

	case "point":
		p.advance()
		if _, err := p.consumeKeyword("in", "expected 'in' after 'point'"); err != nil {
			return nil, err
		}
		if _, err := p.consumeKeyword("direction", "expected 'direction' after 'point in'"); err != nil {
			return nil, err
		}
		degrees, err := p.parseWrappedExpression()
		if err != nil {
			return nil, err
		}
		return &ast.PointInDirectionStmt{Base: ast.At(pos), Direction: degrees}, nil

	case "if":
		if p.peekKeyword("on") {
			p.advance()
			p.advance()
			if _, err := p.consumeKeyword("edge", "expected 'edge' after 'if on'"); err != nil {
				return nil, err
			}
			if _, err := p.consumeKeyword("bounce", "expected 'bounce' after 'if on edge'"); err != nil {
				return nil, err
			}
			return &ast.IfOnEdgeBounceStmt{Base: ast.At(pos)}, nil
		}
		p.advance()
		return p.parseIfStatement(pos)

	case "say":
		p.advance()
		message, err := p.parseWrappedExpression()
		if err != nil {
			return nil, err
		}
		return &ast.SayStmt{Base: ast.At(pos), Message: message}, nil

	case "think":
		p.advance()
		message, err := p.parseWrappedExpression()
		if err != nil {
			return nil, err
		}
		return &ast.ThinkStmt{Base: ast.At(pos), Message: message}, nil

	case "show":
		p.advance()
		return &ast.ShowStmt{Base: ast.At(pos)}, nil

	case "hide":
		p.advance()
		return &ast.HideStmt{Base: ast.At(pos)}, nil

	case "next":
		p.advance()
		switch {
		case p.matchKeyword("costume"):
			return &ast.NextCostumeStmt{Base: ast.At(pos)}, nil
		case p.matchKeyword("backdrop"):
			return &ast.NextBackdropStmt{Base: ast.At(pos)}, nil
		default:
			return nil, p.errorHere("expected 'costume' or 'backdrop' after 'next'")
		}

	case "wait":
		p.advance()
		duration, err := p.parseWrappedExpression()
		if err != nil {
			return nil, err
		}
		return &ast.WaitStmt{Base: ast.At(pos), Duration: duration}, nil

	case "repeat":
		p.advance()
		times, err := p.parseWrappedExpression()
		if err != nil {
			return nil, err
		}
		p.skipNewlines()
		body, err := p.parseStatementBlock(endOnly)
		if err != nil {
			return nil, err
		}
		if _, err := p.consumeKeyword("end", "expected 'end' to close 'repeat'"); err != nil {
			return nil, err
		}
		return &ast.RepeatStmt{Base: ast.At(pos), Times: times, Body: body}, nil

	case "forever":
		p.advance()
		p.skipNewlines()
		body, err := p.parseStatementBlock(endOnly)
		if err != nil {
			return nil, err
		}
		if _, err := p.consumeKeyword("end", "expected 'end' to close 'forever'"); err != nil {
			return nil, err
		}
		return &ast.ForeverStmt{Base: ast.At(pos), Body: body}, nil

	case "stop":
		p.advance()
		var option ast.Expression
		if p.checkType(lexer.LBRACKET) {
			bracketPos := p.current().Pos
			text, err := p.parseBracketText()
			if err != nil {
				return nil, err
			}
			option = &ast.StringLit{Base: ast.At(bracketPos), Value: text}
		}
		return &ast.StopStmt{Base: ast.At(pos), Option: option}, nil

	case "ask":
		p.advance()
		question, err := p.parseWrappedExpression()
		if err != nil {
			return nil, err
		}
		return &ast.AskStmt{Base: ast.At(pos), Question: question}, nil

	case "reset":
		p.advance()
		if _, err := p.consumeKeyword("timer", "expected 'timer' after 'reset'"); err != nil {
			return nil, err
		}
		return &ast.ResetTimerStmt{Base: ast.At(pos)}, nil

	case "add":
		p.advance()
		item, err := p.parseWrappedExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consumeKeyword("to", "expected 'to' after 'add (item)'"); err != nil {
			return nil, err
		}
		list, err := p.parseVariableFieldName()
		if err != nil {
			return nil, err
		}
		return &ast.AddToListStmt{Base: ast.At(pos), List: list, Item: item}, nil

	case "delete":
		p.advance()
		return p.parseDeleteStatement(pos)

	case "insert":
		p.advance()
		item, err := p.parseWrappedExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consumeKeyword("at", "expected 'at' after 'insert (item)'"); err != nil {
			return nil, err
		}
		index, err := p.parseWrappedExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consumeKeyword("of", "expected 'of' after 'insert (item) at (index)'"); err != nil {
			return nil, err
		}
		list, err := p.parseVariableFieldName()
		if err != nil {
			return nil, err
		}
		return &ast.InsertAtListStmt{Base: ast.At(pos), List: list, Item: item, Index: index}, nil

	case "replace":
		p.advance()
		if _, err := p.consumeKeyword("item", "expected 'item' after 'replace'"); err != nil {
			return nil, err
		}
		index, err := p.parseWrappedExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consumeKeyword("of", "expected 'of' after 'replace item (index)'"); err != nil {
			return nil, err
		}
		list, err := p.parseVariableFieldName()
		if err != nil {
			return nil, err
		}
		if _, err := p.consumeKeyword("with", "expected 'with' after 'replace item (index) of [list]'"); err != nil {
			return nil, err
		}
		item, err := p.parseWrappedExpression()
		if err != nil {
			return nil, err
		}
		return &ast.ReplaceItemOfListStmt{Base: ast.At(pos), List: list, Index: index, Item: item}, nil

	default:
		return nil, p.errorHere("unexpected keyword '" + tok.Literal + "' at start of statement")
	}
}

func (p *Parser) parseSetStatement(pos lexer.Position) (ast.Statement, error) {
	if p.matchKeyword("x") {
		if _, err := p.consumeKeyword("to", "expected 'to' after 'set x'"); err != nil {
			return nil, err
		}
		value, err := p.parseWrappedExpression()
		if err != nil {
			return nil, err
		}
		return &ast.SetXStmt{Base: ast.At(pos), Value: value}, nil
	}
	if p.matchKeyword("y") {
		if _, err := p.consumeKeyword("to", "expected 'to' after 'set y'"); err != nil {
			return nil, err
		}
		value, err := p.parseWrappedExpression()
		if err != nil {
			return nil, err
		}
		return &ast.SetYStmt{Base: ast.At(pos), Value: value}, nil
	}
	if p.matchKeyword("size") {
		if _, err := p.consumeKeyword("to", "expected 'to' after 'set size'"); err != nil {
			return nil, err
		}
		value, err := p.parseWrappedExpression()
		if err != nil {
			return nil, err
		}
		return &ast.SetSizeToStmt{Base: ast.At(pos), Value: value}, nil
	}
	name, err := p.parseVariableFieldName()
	if err != nil {
		return nil, err
	}
	if _, err := p.consumeKeyword("to", "expected 'to' after 'set [name]'"); err != nil {
		return nil, err
	}
	value, err := p.parseWrappedExpression()
	if err != nil {
		return nil, err
	}
	return &ast.SetVarStmt{Base: ast.At(pos), Name: name, Value: value}, nil
}

func (p *Parser) parseChangeStatement(pos lexer.Position) (ast.Statement, error) {
	if p.matchKeyword("x") {
		if _, err := p.consumeKeyword("by", "expected 'by' after 'change x'"); err != nil {
			return nil, err
		}
		value, err := p.parseWrappedExpression()
		if err != nil {
			return nil, err
		}
		return &ast.ChangeXByStmt{Base: ast.At(pos), Value: value}, nil
	}
	if p.matchKeyword("y") {
		if _, err := p.consumeKeyword("by", "expected 'by' after 'change y'"); err != nil {
			return nil, err
		}
		value, err := p.parseWrappedExpression()
		if err != nil {
			return nil, err
		}
		return &ast.ChangeYByStmt{Base: ast.At(pos), Value: value}, nil
	}
	if p.matchKeyword("size") {
		if _, err := p.consumeKeyword("by", "expected 'by' after 'change size'"); err != nil {
			return nil, err
		}
		value, err := p.parseWrappedExpression()
		if err != nil {
			return nil, err
		}
		return &ast.ChangeSizeByStmt{Base: ast.At(pos), Value: value}, nil
	}
	name, err := p.parseVariableFieldName()
	if err != nil {
		return nil, err
	}
	if _, err := p.consumeKeyword("by", "expected 'by' after 'change [name]'"); err != nil {
		return nil, err
	}
	delta, err := p.parseWrappedExpression()
	if err != nil {
		return nil, err
	}
	return &ast.ChangeVarStmt{Base: ast.At(pos), Name: name, Delta: delta}, nil
}

func (p *Parser) parseTurnStatement(pos lexer.Position) (ast.Statement, error) {
	switch {
	case p.matchKeyword("left"):
		degrees, err := p.parseWrappedExpression()
		if err != nil {
			return nil, err
		}
		return &ast.TurnLeftStmt{Base: ast.At(pos), Degrees: degrees}, nil
	case p.matchKeyword("right"):
		degrees, err := p.parseWrappedExpression()
		if err != nil {
			return nil, err
		}
		return &ast.TurnRightStmt{Base: ast.At(pos), Degrees: degrees}, nil
	default:
		return nil, p.errorHere("expected 'left' or 'right' after 'turn'")
	}
}

func (p *Parser) parseGoToXYStatement(pos lexer.Position) (ast.Statement, error) {
	if _, err := p.consumeKeyword("to", "expected 'to' after 'go'"); err != nil {
		return nil, err
	}
	if _, err := p.consumeKeyword("x", "expected 'x' after 'go to'"); err != nil {
		return nil, err
	}
	x, err := p.parseWrappedExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consumeKeyword("y", "expected 'y' after 'go to x (x)'"); err != nil {
		return nil, err
	}
	y, err := p.parseWrappedExpression()
	if err != nil {
		return nil, err
	}
	return &ast.GoToXYStmt{Base: ast.At(pos), X: x, Y: y}, nil
}

func (p *Parser) parseIfStatement(pos lexer.Position) (ast.Statement, error) {
	condTokens, err := p.collectTokensUntilKeyword("then")
	if err != nil {
		return nil, err
	}
	// A condition written as `<...>` has its outer angle brackets stripped.
	if len(condTokens) >= 2 && condTokens[0].Type == lexer.OP && condTokens[0].Literal == "<" &&
		condTokens[len(condTokens)-1].Type == lexer.OP && condTokens[len(condTokens)-1].Literal == ">" {
		condTokens = condTokens[1 : len(condTokens)-1]
	}
	condition, err := p.parseExpressionFromTokens(condTokens)
	if err != nil {
		return nil, err
	}
	if _, err := p.consumeKeyword("then", "expected 'then' after if-condition"); err != nil {
		return nil, err
	}
	p.skipNewlines()
	thenBody, err := p.parseStatementBlock(thenElseEnd)
	if err != nil {
		return nil, err
	}
	var elseBody []ast.Statement
	if p.matchKeyword("else") {
		p.skipNewlines()
		elseBody, err = p.parseStatementBlock(elseEnd)
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consumeKeyword("end", "expected 'end' to close 'if'"); err != nil {
		return nil, err
	}
	return &ast.IfStmt{Base: ast.At(pos), Condition: condition, Then: thenBody, Else: elseBody}, nil
}

func (p *Parser) parseDeleteStatement(pos lexer.Position) (ast.Statement, error) {
	if p.matchKeyword("all") {
		if _, err := p.consumeKeyword("of", "expected 'of' after 'delete all'"); err != nil {
			return nil, err
		}
		list, err := p.parseVariableFieldName()
		if err != nil {
			return nil, err
		}
		return &ast.DeleteAllOfListStmt{Base: ast.At(pos), List: list}, nil
	}
	index, err := p.parseWrappedExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consumeKeyword("of", "expected 'of' after 'delete (index)'"); err != nil {
		return nil, err
	}
	list, err := p.parseVariableFieldName()
	if err != nil {
		return nil, err
	}
	return &ast.DeleteOfListStmt{Base: ast.At(pos), List: list, Index: index}, nil
}

// parseCallStatement parses `<ident> (arg1) (arg2) ...`. The argument
// count is simply the number of parenthesized groups that follow.
func (p *Parser) parseCallStatement(pos lexer.Position) (ast.Statement, error) {
	name := p.advance().Literal
	var args []ast.Expression
	for p.checkType(lexer.LPAREN) {
		arg, err := p.parseWrappedExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return &ast.ProcedureCallStmt{Base: ast.At(pos), Name: name, Args: args}, nil
}

// peekKeyword reports whether the token after the current one is the
// given keyword, without consuming anything.
func (p *Parser) peekKeyword(value string) bool {
	next := p.peek()
	return next.Type == lexer.KEYWORD && next.Literal == value
}
