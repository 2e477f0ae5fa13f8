package codegen

import (
	"math"
	"strconv"

	"github.com/sbtext-lang/sbtextc/internal/ast"
)

// literalShadow returns the [kind, value] pair project.json uses for a
// constant, for the two expression kinds that are always constants.
func literalShadow(expr ast.Expression) ([]interface{}, bool) {
	switch e := expr.(type) {
	case *ast.NumberLit:
		return numberShadowValue(e.Value), true
	case *ast.StringLit:
		return []interface{}{10, e.Value}, true
	}
	return nil, false
}

func numberShadowValue(value float64) []interface{} {
	if value == math.Trunc(value) && !math.IsInf(value, 0) {
		return []interface{}{4, strconv.FormatInt(int64(value), 10)}
	}
	return []interface{}{4, strconv.FormatFloat(value, 'f', -1, 64)}
}

// defaultShadowValue is the blank input a block falls back to when an
// input slot has nothing plugged in: a 0 for number-shaped inputs, an
// empty string otherwise (string and boolean inputs share the same
// empty-string shadow in Scratch's own format).
func defaultShadowValue(kind string) []interface{} {
	if kind == "number" {
		return []interface{}{4, "0"}
	}
	return []interface{}{10, ""}
}

// exprInput builds the [1, shadow] / [2, reporterBlockId] pair an
// input slot holds: a literal shadow for constants, a block reference
// for everything else, or the default shadow if expr emits nothing
// (cannot currently happen post-semantic-analysis, but mirrors the
// prototype's defensive fallback).
func (b *builder) exprInput(blocks map[string]*Block, expr ast.Expression, parentID string, paramScope map[string]bool, defaultKind string) []interface{} {
	if shadow, ok := literalShadow(expr); ok {
		return []interface{}{1, shadow}
	}
	reporterID, ok := b.emitExprReporter(blocks, expr, parentID, paramScope)
	if !ok {
		return []interface{}{1, defaultShadowValue(defaultKind)}
	}
	return []interface{}{2, reporterID}
}

var builtinReporterOpcodes = map[ast.BuiltinReporterKind]string{
	ast.ReporterAnswer: "sensing_answer",
	ast.ReporterMouseX: "sensing_mousex",
	ast.ReporterMouseY: "sensing_mousey",
	ast.ReporterTimer:  "sensing_timer",
}

// emitExprReporter lowers expr into a reporter block (or an argument
// reporter, for a procedure parameter) and returns its ID. It reports
// ok=false for the two literal kinds, which the caller already handles
// via literalShadow.
func (b *builder) emitExprReporter(blocks map[string]*Block, expr ast.Expression, parentID string, paramScope map[string]bool) (string, bool) {
	switch e := expr.(type) {
	case *ast.NumberLit, *ast.StringLit:
		return "", false

	case *ast.BuiltinReporterExpr:
		opcode, ok := builtinReporterOpcodes[e.Kind]
		if !ok {
			panic(errf("unsupported built-in reporter '%s'", e.Kind))
		}
		id := b.ids.block()
		blocks[id] = &Block{Opcode: opcode, Parent: &parentID, Inputs: map[string]interface{}{}, Fields: map[string]interface{}{}}
		return id, true

	case *ast.VarRef:
		if paramScope[fold(e.Name)] {
			id := b.ids.block()
			blocks[id] = &Block{
				Opcode: "argument_reporter_string_number",
				Parent: &parentID,
				Inputs: map[string]interface{}{},
				Fields: map[string]interface{}{"VALUE": []interface{}{e.Name, nil}},
				Shadow: true,
			}
			return id, true
		}
		varID := b.lookupVarID(e.Name)
		id := b.ids.block()
		blocks[id] = &Block{
			Opcode: "data_variable",
			Parent: &parentID,
			Inputs: map[string]interface{}{},
			Fields: map[string]interface{}{"VARIABLE": []interface{}{e.Name, varID}},
		}
		return id, true

	case *ast.PickRandomExpr:
		id := b.ids.block()
		blocks[id] = &Block{Opcode: "operator_random", Parent: &parentID, Inputs: map[string]interface{}{}, Fields: map[string]interface{}{}}
		blocks[id].Inputs["FROM"] = b.exprInput(blocks, e.Start, id, paramScope, "number")
		blocks[id].Inputs["TO"] = b.exprInput(blocks, e.End, id, paramScope, "number")
		return id, true

	case *ast.ListItemExpr:
		listID := b.lookupListID(e.List)
		id := b.ids.block()
		blocks[id] = &Block{
			Opcode: "data_itemoflist",
			Parent: &parentID,
			Inputs: map[string]interface{}{},
			Fields: map[string]interface{}{"LIST": []interface{}{e.List, listID}},
		}
		blocks[id].Inputs["INDEX"] = b.exprInput(blocks, e.Index, id, paramScope, "number")
		return id, true

	case *ast.ListLengthExpr:
		listID := b.lookupListID(e.List)
		id := b.ids.block()
		blocks[id] = &Block{
			Opcode: "data_lengthoflist",
			Parent: &parentID,
			Inputs: map[string]interface{}{},
			Fields: map[string]interface{}{"LIST": []interface{}{e.List, listID}},
		}
		return id, true

	case *ast.ListContainsExpr:
		listID := b.lookupListID(e.List)
		id := b.ids.block()
		blocks[id] = &Block{
			Opcode: "data_listcontainsitem",
			Parent: &parentID,
			Inputs: map[string]interface{}{},
			Fields: map[string]interface{}{"LIST": []interface{}{e.List, listID}},
		}
		blocks[id].Inputs["ITEM"] = b.exprInput(blocks, e.Item, id, paramScope, "string")
		return id, true

	case *ast.KeyPressedExpr:
		return b.emitKeyPressedExpr(blocks, e, parentID), true

	case *ast.UnaryExpr:
		return b.emitUnaryExpr(blocks, e, parentID, paramScope), true

	case *ast.BinaryExpr:
		return b.emitBinaryExpr(blocks, e, parentID, paramScope), true
	}
	return "", false
}

func (b *builder) emitKeyPressedExpr(blocks map[string]*Block, expr *ast.KeyPressedExpr, parentID string) string {
	id := b.ids.block()
	menuID := b.ids.block()
	blocks[id] = &Block{
		Opcode: "sensing_keypressed",
		Parent: &parentID,
		Inputs: map[string]interface{}{"KEY_OPTION": []interface{}{1, menuID}},
		Fields: map[string]interface{}{},
	}
	keyValue := "space"
	if shadow, ok := literalShadow(expr.Key); ok && shadow[0] == 10 {
		keyValue = shadow[1].(string)
	}
	blocks[menuID] = &Block{
		Opcode: "sensing_keyoptions",
		Parent: &id,
		Inputs: map[string]interface{}{},
		Fields: map[string]interface{}{"KEY_OPTION": []interface{}{keyValue, nil}},
		Shadow: true,
	}
	return id
}

func (b *builder) emitUnaryExpr(blocks map[string]*Block, expr *ast.UnaryExpr, parentID string, paramScope map[string]bool) string {
	switch expr.Op {
	case "-":
		id := b.ids.block()
		blocks[id] = &Block{Opcode: "operator_subtract", Parent: &parentID, Inputs: map[string]interface{}{}, Fields: map[string]interface{}{}}
		blocks[id].Inputs["NUM1"] = []interface{}{1, []interface{}{4, "0"}}
		blocks[id].Inputs["NUM2"] = b.exprInput(blocks, expr.Operand, id, paramScope, "number")
		return id
	case "not":
		id := b.ids.block()
		blocks[id] = &Block{Opcode: "operator_not", Parent: &parentID, Inputs: map[string]interface{}{}, Fields: map[string]interface{}{}}
		blocks[id].Inputs["OPERAND"] = b.exprInput(blocks, expr.Operand, id, paramScope, "boolean")
		return id
	default:
		panic(errf("unsupported unary operator '%s'", expr.Op))
	}
}

var binaryOpcodes = map[string]string{
	"+": "operator_add", "-": "operator_subtract", "*": "operator_multiply",
	"/": "operator_divide", "%": "operator_mod", "<": "operator_lt",
	">": "operator_gt", "=": "operator_equals", "==": "operator_equals",
	"and": "operator_and", "or": "operator_or",
}

type binaryInputShape struct {
	left, right, kind string
}

var binaryInputShapes = map[string]binaryInputShape{
	"operator_add":      {"NUM1", "NUM2", "number"},
	"operator_subtract": {"NUM1", "NUM2", "number"},
	"operator_multiply": {"NUM1", "NUM2", "number"},
	"operator_divide":   {"NUM1", "NUM2", "number"},
	"operator_mod":      {"NUM1", "NUM2", "number"},
	"operator_lt":       {"OPERAND1", "OPERAND2", "number"},
	"operator_gt":       {"OPERAND1", "OPERAND2", "number"},
	"operator_equals":   {"OPERAND1", "OPERAND2", "string"},
	"operator_and":      {"OPERAND1", "OPERAND2", "boolean"},
	"operator_or":       {"OPERAND1", "OPERAND2", "boolean"},
}

// emitBinaryExpr desugars <=, >=, and != into synthetic or/not
// expressions at the original operator's position and recurses,
// matching the prototype's construction exactly so default-kind
// propagation (number vs. boolean inputs) stays correct automatically.
func (b *builder) emitBinaryExpr(blocks map[string]*Block, expr *ast.BinaryExpr, parentID string, paramScope map[string]bool) string {
	switch expr.Op {
	case "<=", ">=":
		firstOp := "<"
		if expr.Op == ">=" {
			firstOp = ">"
		}
		first := ast.NewBinaryExpr(expr.Pos(), firstOp, expr.Left, expr.Right)
		second := ast.NewBinaryExpr(expr.Pos(), "=", expr.Left, expr.Right)
		rewritten := ast.NewBinaryExpr(expr.Pos(), "or", first, second)
		return b.emitBinaryExpr(blocks, rewritten, parentID, paramScope)
	case "!=":
		equals := ast.NewBinaryExpr(expr.Pos(), "=", expr.Left, expr.Right)
		not := ast.NewUnaryExpr(expr.Pos(), "not", equals)
		return b.emitUnaryExpr(blocks, not, parentID, paramScope)
	}

	opcode, ok := binaryOpcodes[expr.Op]
	if !ok {
		panic(errf("unsupported binary operator '%s'", expr.Op))
	}
	id := b.ids.block()
	blocks[id] = &Block{Opcode: opcode, Parent: &parentID, Inputs: map[string]interface{}{}, Fields: map[string]interface{}{}}
	shape := binaryInputShapes[opcode]
	blocks[id].Inputs[shape.left] = b.exprInput(blocks, expr.Left, id, paramScope, shape.kind)
	blocks[id].Inputs[shape.right] = b.exprInput(blocks, expr.Right, id, paramScope, shape.kind)
	return id
}
