package codegen

import "github.com/sbtext-lang/sbtextc/internal/ast"

var eventOpcodes = map[ast.EventKind]string{
	ast.EventFlagClicked:       "event_whenflagclicked",
	ast.EventThisSpriteClicked: "event_whenthisspriteclicked",
	ast.EventIReceive:          "event_whenbroadcastreceived",
}

// emitEventStatement fills in blk for the one event-family statement
// that appears inside a body rather than as a script header.
func (b *builder) emitEventStatement(blocks map[string]*Block, blk *Block, id string, stmt ast.Statement, paramScope map[string]bool) bool {
	s, ok := stmt.(*ast.BroadcastStmt)
	if !ok {
		return false
	}
	broadcastID := b.broadcastIDs[s.Message]
	blk.Opcode = "event_broadcast"
	blk.Inputs["BROADCAST_INPUT"] = []interface{}{1, []interface{}{11, s.Message, broadcastID}}
	return true
}

// emitEventScriptHat builds the hat block that heads an event script
// and returns its block ID. Hat blocks never have a parent.
func (b *builder) emitEventScriptHat(blocks map[string]*Block, script *ast.EventScript, x, y float64) string {
	opcode, ok := eventOpcodes[script.Kind]
	if !ok {
		panic(errf("unsupported event kind '%s'", script.Kind))
	}
	id := b.ids.block()
	blk := &Block{
		Opcode:   opcode,
		Inputs:   map[string]interface{}{},
		Fields:   map[string]interface{}{},
		TopLevel: true,
		X:        &x,
		Y:        &y,
	}
	if script.Kind == ast.EventIReceive {
		broadcastID := b.broadcastIDs[script.Message]
		blk.Fields["BROADCAST_OPTION"] = []interface{}{script.Message, broadcastID}
	}
	blocks[id] = blk
	return id
}
