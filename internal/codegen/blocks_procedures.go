package codegen

import (
	"encoding/json"
	"strings"

	"github.com/sbtext-lang/sbtextc/internal/ast"
)

// procedureSignature is the shape of one `define` declaration as the
// block format needs to see it: a proccode string with one "%s" per
// parameter, and the opaque argument IDs that stand in for those
// parameters in procedures_prototype/procedures_call inputs.
type procedureSignature struct {
	name     string
	params   []string
	argIDs   []string
	proccode string
}

func buildProcedureSignature(proc *ast.Procedure, gen *idGenerator) *procedureSignature {
	sig := &procedureSignature{name: proc.Name, params: proc.Params}
	parts := make([]string, 0, len(proc.Params)+1)
	parts = append(parts, proc.Name)
	for _, param := range proc.Params {
		sig.argIDs = append(sig.argIDs, gen.next("arg"))
		parts = append(parts, "%s")
	}
	sig.proccode = strings.Join(parts, " ")
	return sig
}

func jsonStringList(values []string) string {
	if values == nil {
		values = []string{}
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		panic(errf("failed to encode procedure mutation field: %v", err))
	}
	return string(encoded)
}

// emitProcedureCallStatement fills in blk for `<name> (arg1) (arg2)`.
func (b *builder) emitProcedureCallStatement(blocks map[string]*Block, blk *Block, id string, stmt ast.Statement, paramScope map[string]bool, signatures map[string]*procedureSignature) bool {
	s, ok := stmt.(*ast.ProcedureCallStmt)
	if !ok {
		return false
	}
	sig := signatures[fold(s.Name)]
	blk.Opcode = "procedures_call"
	blk.Mutation = map[string]interface{}{
		"tagName":     "mutation",
		"children":    []interface{}{},
		"proccode":    sig.proccode,
		"argumentids": jsonStringList(sig.argIDs),
		"warp":        "false",
	}
	for i, arg := range s.Args {
		blk.Inputs[sig.argIDs[i]] = b.exprInput(blocks, arg, id, paramScope, "string")
	}
	return true
}

// emitProcedureDefinition builds the definition/prototype block pair
// for a `define` declaration plus its body, and returns the
// definition's block ID and whether the body produced any blocks (the
// caller uses this to decide how far to advance the layout cursor).
func (b *builder) emitProcedureDefinition(blocks map[string]*Block, proc *ast.Procedure, sig *procedureSignature, x, y float64, signatures map[string]*procedureSignature) (string, bool) {
	definitionID := b.ids.block()
	prototypeID := b.ids.block()

	prototypeInputs := make(map[string]interface{}, len(proc.Params))
	argNames := make([]string, len(proc.Params))
	argDefaults := make([]string, len(proc.Params))
	for i, param := range proc.Params {
		argNames[i] = param
		argDefaults[i] = ""
		shadowID := b.ids.block()
		blocks[shadowID] = &Block{
			Opcode: "argument_reporter_string_number",
			Parent: &prototypeID,
			Inputs: map[string]interface{}{},
			Fields: map[string]interface{}{"VALUE": []interface{}{param, nil}},
			Shadow: true,
		}
		prototypeInputs[sig.argIDs[i]] = []interface{}{1, shadowID}
	}

	blocks[prototypeID] = &Block{
		Opcode: "procedures_prototype",
		Parent: &definitionID,
		Inputs: prototypeInputs,
		Fields: map[string]interface{}{},
		Shadow: true,
		Mutation: map[string]interface{}{
			"tagName":         "mutation",
			"children":        []interface{}{},
			"proccode":        sig.proccode,
			"argumentids":     jsonStringList(sig.argIDs),
			"argumentnames":   jsonStringList(argNames),
			"argumentdefaults": jsonStringList(argDefaults),
			"warp":            "false",
		},
	}

	blocks[definitionID] = &Block{
		Opcode:   "procedures_definition",
		Inputs:   map[string]interface{}{"custom_block": []interface{}{1, prototypeID}},
		Fields:   map[string]interface{}{},
		TopLevel: true,
		X:        &x,
		Y:        &y,
	}

	paramScope := make(map[string]bool, len(proc.Params))
	for _, param := range proc.Params {
		paramScope[fold(param)] = true
	}
	first, _ := b.emitStatementChain(blocks, proc.Body, definitionID, paramScope, signatures)
	if first != "" {
		blocks[definitionID].Next = &first
	}
	return definitionID, first != ""
}
