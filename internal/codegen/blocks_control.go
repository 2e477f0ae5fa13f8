package codegen

import "github.com/sbtext-lang/sbtextc/internal/ast"

// emitControlStatement fills in blk for the control family of
// statements, recursing into nested bodies via the shared statement
// chain builder.
func (b *builder) emitControlStatement(blocks map[string]*Block, blk *Block, id string, stmt ast.Statement, paramScope map[string]bool, signatures map[string]*procedureSignature) bool {
	switch s := stmt.(type) {
	case *ast.WaitStmt:
		blk.Opcode = "control_wait"
		blk.Inputs["DURATION"] = b.exprInput(blocks, s.Duration, id, paramScope, "number")

	case *ast.RepeatStmt:
		blk.Opcode = "control_repeat"
		blk.Inputs["TIMES"] = b.exprInput(blocks, s.Times, id, paramScope, "number")
		if first, _ := b.emitStatementChain(blocks, s.Body, id, paramScope, signatures); first != "" {
			blk.Inputs["SUBSTACK"] = []interface{}{2, first}
		}

	case *ast.ForeverStmt:
		blk.Opcode = "control_forever"
		if first, _ := b.emitStatementChain(blocks, s.Body, id, paramScope, signatures); first != "" {
			blk.Inputs["SUBSTACK"] = []interface{}{2, first}
		}

	case *ast.IfStmt:
		blk.Opcode = "control_if_else"
		blk.Inputs["CONDITION"] = b.exprInput(blocks, s.Condition, id, paramScope, "boolean")
		if first, _ := b.emitStatementChain(blocks, s.Then, id, paramScope, signatures); first != "" {
			blk.Inputs["SUBSTACK"] = []interface{}{2, first}
		}
		if first, _ := b.emitStatementChain(blocks, s.Else, id, paramScope, signatures); first != "" {
			blk.Inputs["SUBSTACK2"] = []interface{}{2, first}
		}

	case *ast.StopStmt:
		blk.Opcode = "control_stop"
		option := "all"
		if lit, ok := s.Option.(*ast.StringLit); ok {
			option = lit.Value
		}
		blk.Fields["STOP_OPTION"] = []interface{}{option, nil}
		blk.Mutation = map[string]interface{}{"tagName": "mutation", "children": []interface{}{}, "hasnext": "false"}

	default:
		return false
	}
	return true
}
