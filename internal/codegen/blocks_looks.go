package codegen

import "github.com/sbtext-lang/sbtextc/internal/ast"

// emitLooksStatement fills in blk for the looks family of statements.
func (b *builder) emitLooksStatement(blocks map[string]*Block, blk *Block, id string, stmt ast.Statement, paramScope map[string]bool) bool {
	switch s := stmt.(type) {
	case *ast.SayStmt:
		blk.Opcode = "looks_say"
		blk.Inputs["MESSAGE"] = b.exprInput(blocks, s.Message, id, paramScope, "string")
	case *ast.ThinkStmt:
		blk.Opcode = "looks_think"
		blk.Inputs["MESSAGE"] = b.exprInput(blocks, s.Message, id, paramScope, "string")
	case *ast.ShowStmt:
		blk.Opcode = "looks_show"
	case *ast.HideStmt:
		blk.Opcode = "looks_hide"
	case *ast.NextCostumeStmt:
		blk.Opcode = "looks_nextcostume"
	case *ast.NextBackdropStmt:
		blk.Opcode = "looks_nextbackdrop"
	case *ast.ChangeSizeByStmt:
		blk.Opcode = "looks_changesizeby"
		blk.Inputs["CHANGE"] = b.exprInput(blocks, s.Value, id, paramScope, "number")
	case *ast.SetSizeToStmt:
		blk.Opcode = "looks_setsizeto"
		blk.Inputs["SIZE"] = b.exprInput(blocks, s.Value, id, paramScope, "number")
	default:
		return false
	}
	return true
}
