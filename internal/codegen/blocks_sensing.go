package codegen

import "github.com/sbtext-lang/sbtextc/internal/ast"

// emitSensingStatement fills in blk for the sensing family of
// statements. The sensing reporters (key pressed, answer, mouse x/y,
// timer) are lowered in expr.go alongside the other reporters.
func (b *builder) emitSensingStatement(blocks map[string]*Block, blk *Block, id string, stmt ast.Statement, paramScope map[string]bool) bool {
	switch s := stmt.(type) {
	case *ast.AskStmt:
		blk.Opcode = "sensing_askandwait"
		blk.Inputs["QUESTION"] = b.exprInput(blocks, s.Question, id, paramScope, "string")
	case *ast.ResetTimerStmt:
		blk.Opcode = "sensing_resettimer"
	default:
		return false
	}
	return true
}
