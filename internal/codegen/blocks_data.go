package codegen

import "github.com/sbtext-lang/sbtextc/internal/ast"

// emitDataStatement fills in blk for the data family of statements:
// variable assignment and every list mutation.
func (b *builder) emitDataStatement(blocks map[string]*Block, blk *Block, id string, stmt ast.Statement, paramScope map[string]bool) bool {
	switch s := stmt.(type) {
	case *ast.SetVarStmt:
		varID := b.lookupVarID(s.Name)
		blk.Opcode = "data_setvariableto"
		blk.Fields["VARIABLE"] = []interface{}{s.Name, varID}
		blk.Inputs["VALUE"] = b.exprInput(blocks, s.Value, id, paramScope, "string")

	case *ast.ChangeVarStmt:
		varID := b.lookupVarID(s.Name)
		blk.Opcode = "data_changevariableby"
		blk.Fields["VARIABLE"] = []interface{}{s.Name, varID}
		blk.Inputs["VALUE"] = b.exprInput(blocks, s.Delta, id, paramScope, "number")

	case *ast.AddToListStmt:
		listID := b.lookupListID(s.List)
		blk.Opcode = "data_addtolist"
		blk.Fields["LIST"] = []interface{}{s.List, listID}
		blk.Inputs["ITEM"] = b.exprInput(blocks, s.Item, id, paramScope, "string")

	case *ast.DeleteOfListStmt:
		listID := b.lookupListID(s.List)
		blk.Opcode = "data_deleteoflist"
		blk.Fields["LIST"] = []interface{}{s.List, listID}
		blk.Inputs["INDEX"] = b.exprInput(blocks, s.Index, id, paramScope, "number")

	case *ast.DeleteAllOfListStmt:
		listID := b.lookupListID(s.List)
		blk.Opcode = "data_deletealloflist"
		blk.Fields["LIST"] = []interface{}{s.List, listID}

	case *ast.InsertAtListStmt:
		listID := b.lookupListID(s.List)
		blk.Opcode = "data_insertatlist"
		blk.Fields["LIST"] = []interface{}{s.List, listID}
		blk.Inputs["ITEM"] = b.exprInput(blocks, s.Item, id, paramScope, "string")
		blk.Inputs["INDEX"] = b.exprInput(blocks, s.Index, id, paramScope, "number")

	case *ast.ReplaceItemOfListStmt:
		listID := b.lookupListID(s.List)
		blk.Opcode = "data_replaceitemoflist"
		blk.Fields["LIST"] = []interface{}{s.List, listID}
		blk.Inputs["INDEX"] = b.exprInput(blocks, s.Index, id, paramScope, "number")
		blk.Inputs["ITEM"] = b.exprInput(blocks, s.Item, id, paramScope, "string")

	default:
		return false
	}
	return true
}
