package codegen

import "github.com/sbtext-lang/sbtextc/internal/ast"

// emitMotionStatement fills in blk for the motion family of statements.
// It reports false when stmt is not a motion statement, so project.go's
// dispatcher can try the next family.
func (b *builder) emitMotionStatement(blocks map[string]*Block, blk *Block, id string, stmt ast.Statement, paramScope map[string]bool) bool {
	switch s := stmt.(type) {
	case *ast.MoveStmt:
		blk.Opcode = "motion_movesteps"
		blk.Inputs["STEPS"] = b.exprInput(blocks, s.Steps, id, paramScope, "number")
	case *ast.TurnLeftStmt:
		blk.Opcode = "motion_turnleft"
		blk.Inputs["DEGREES"] = b.exprInput(blocks, s.Degrees, id, paramScope, "number")
	case *ast.TurnRightStmt:
		blk.Opcode = "motion_turnright"
		blk.Inputs["DEGREES"] = b.exprInput(blocks, s.Degrees, id, paramScope, "number")
	case *ast.GoToXYStmt:
		blk.Opcode = "motion_gotoxy"
		blk.Inputs["X"] = b.exprInput(blocks, s.X, id, paramScope, "number")
		blk.Inputs["Y"] = b.exprInput(blocks, s.Y, id, paramScope, "number")
	case *ast.ChangeXByStmt:
		blk.Opcode = "motion_changexby"
		blk.Inputs["DX"] = b.exprInput(blocks, s.Value, id, paramScope, "number")
	case *ast.SetXStmt:
		blk.Opcode = "motion_setx"
		blk.Inputs["X"] = b.exprInput(blocks, s.Value, id, paramScope, "number")
	case *ast.ChangeYByStmt:
		blk.Opcode = "motion_changeyby"
		blk.Inputs["DY"] = b.exprInput(blocks, s.Value, id, paramScope, "number")
	case *ast.SetYStmt:
		blk.Opcode = "motion_sety"
		blk.Inputs["Y"] = b.exprInput(blocks, s.Value, id, paramScope, "number")
	case *ast.PointInDirectionStmt:
		blk.Opcode = "motion_pointindirection"
		blk.Inputs["DIRECTION"] = b.exprInput(blocks, s.Direction, id, paramScope, "number")
	case *ast.IfOnEdgeBounceStmt:
		blk.Opcode = "motion_ifonedgebounce"
	default:
		return false
	}
	return true
}
