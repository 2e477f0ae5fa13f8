// Package codegen lowers a validated AST into a Scratch 3 project.json
// block graph: one target (stage or sprite) per AST target, one block
// per statement or sub-expression, linked by the "next"/"parent"
// pointers and "inputs"/"fields" maps the Scratch VM itself expects.
package codegen

import (
	"strconv"

	"github.com/sbtext-lang/sbtextc/internal/ast"
)

// CostumeAsset is one entry of a target's costume list plus the raw
// bytes the packager already normalized (SVG-retargeted or read
// verbatim for bitmap formats) and content-addressed.
type CostumeAsset struct {
	Name             string
	AssetID          string
	Md5Ext           string
	DataFormat       string
	RotationCenterX  float64
	RotationCenterY  float64
	BitmapResolution *int
	Data             []byte
}

// CostumeBuilder resolves a target's costume declarations (or
// synthesizes a default backdrop/costume when none were declared)
// into packaged assets. Defined here, rather than in internal/asset,
// so Generate can depend on the capability without internal/asset
// needing to depend on codegen's AST-walking internals.
type CostumeBuilder interface {
	BuildCostumes(target *ast.Target, sourceDir string) ([]CostumeAsset, error)
}

// Generate lowers project into a project.json document and the set of
// asset files it references, keyed by their md5ext filename. An
// *Error raised while lowering is returned as the error.
func Generate(project *ast.Project, sourceDir string, costumes CostumeBuilder) (doc map[string]interface{}, files map[string][]byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			genErr, ok := r.(*Error)
			if !ok {
				panic(r)
			}
			doc, files, err = nil, nil, genErr
		}
	}()
	b := &builder{ids: &idGenerator{}, assets: map[string][]byte{}, costumes: costumes, sourceDir: sourceDir}
	b.broadcastIDs = collectBroadcastIDs(project, b.ids)

	ordered := orderTargets(project.Targets)

	targetsJSON := make([]interface{}, 0, len(ordered))
	spriteLayer := 1
	for _, target := range ordered {
		layer := 0
		if !target.IsStage {
			layer = spriteLayer
			spriteLayer++
		}
		targetJSON, err := b.buildTargetJSON(target, layer)
		if err != nil {
			return nil, nil, err
		}
		targetsJSON = append(targetsJSON, targetJSON)
	}

	projectJSON := map[string]interface{}{
		"targets":    targetsJSON,
		"monitors":   []interface{}{},
		"extensions": []interface{}{},
		"meta": map[string]interface{}{
			"semver": "3.0.0",
			"vm":     "0.2.0",
			"agent":  "sbtextc",
		},
	}
	return projectJSON, b.assets, nil
}

// orderTargets puts the stage first, synthesizing an empty one when
// the project declares none, and numbers sprites afterward in source
// order.
func orderTargets(targets []*ast.Target) []*ast.Target {
	ordered := make([]*ast.Target, 0, len(targets)+1)
	hasStage := false
	for _, target := range targets {
		if target.IsStage {
			hasStage = true
			ordered = append(ordered, target)
		}
	}
	for _, target := range targets {
		if !target.IsStage {
			ordered = append(ordered, target)
		}
	}
	if !hasStage {
		ordered = append([]*ast.Target{synthesizedStage(targets)}, ordered...)
	}
	return ordered
}

func synthesizedStage(targets []*ast.Target) *ast.Target {
	existing := map[string]bool{}
	for _, target := range targets {
		existing[fold(target.Name)] = true
	}
	name := "Stage"
	suffix := 1
	for existing[fold(name)] {
		suffix++
		name = "Stage" + strconv.Itoa(suffix)
	}
	return &ast.Target{Name: name, IsStage: true}
}

// builder carries the state shared across one Generate call: the ID
// generator, accumulated assets, and the costume packager. variables
// and lists are rebound per target in buildTargetJSON.
type builder struct {
	ids          *idGenerator
	assets       map[string][]byte
	costumes     CostumeBuilder
	sourceDir    string
	broadcastIDs map[string]string
	variables    map[string]string
	lists        map[string]string
}

func (b *builder) lookupVarID(name string) string {
	id, ok := b.variables[fold(name)]
	if !ok {
		panic(errf("unresolved variable '%s'", name))
	}
	return id
}

func (b *builder) lookupListID(name string) string {
	id, ok := b.lists[fold(name)]
	if !ok {
		panic(errf("unresolved list '%s'", name))
	}
	return id
}

func (b *builder) newStatementBlock(blocks map[string]*Block, parentID string) (string, *Block) {
	id := b.ids.block()
	parent := parentID
	blk := &Block{Parent: &parent, Inputs: map[string]interface{}{}, Fields: map[string]interface{}{}}
	blocks[id] = blk
	return id, blk
}

func (b *builder) emitStatement(blocks map[string]*Block, stmt ast.Statement, parentID string, paramScope map[string]bool, signatures map[string]*procedureSignature) string {
	id, blk := b.newStatementBlock(blocks, parentID)
	switch {
	case b.emitMotionStatement(blocks, blk, id, stmt, paramScope):
	case b.emitLooksStatement(blocks, blk, id, stmt, paramScope):
	case b.emitControlStatement(blocks, blk, id, stmt, paramScope, signatures):
	case b.emitSensingStatement(blocks, blk, id, stmt, paramScope):
	case b.emitDataStatement(blocks, blk, id, stmt, paramScope):
	case b.emitEventStatement(blocks, blk, id, stmt, paramScope):
	case b.emitProcedureCallStatement(blocks, blk, id, stmt, paramScope, signatures):
	default:
		panic(errf("unsupported statement %T", stmt))
	}
	return id
}

// emitStatementChain links stmts into a next/parent chain rooted under
// containerID (a hat or C-block's own block, or another statement's
// body slot) and returns the IDs of the first and last block emitted.
func (b *builder) emitStatementChain(blocks map[string]*Block, stmts []ast.Statement, containerID string, paramScope map[string]bool, signatures map[string]*procedureSignature) (string, string) {
	var first, prev string
	for _, stmt := range stmts {
		parent := containerID
		if prev != "" {
			parent = prev
		}
		id := b.emitStatement(blocks, stmt, parent, paramScope, signatures)
		if prev != "" {
			next := id
			blocks[prev].Next = &next
		}
		if first == "" {
			first = id
		}
		prev = id
	}
	return first, prev
}

func (b *builder) buildTargetJSON(target *ast.Target, layerOrder int) (map[string]interface{}, error) {
	blocks := map[string]*Block{}
	b.variables = map[string]string{}
	b.lists = map[string]string{}
	variablesJSON := map[string]interface{}{}
	listsJSON := map[string]interface{}{}

	for _, decl := range target.Variables {
		id := b.ids.next("var")
		b.variables[fold(decl.Name)] = id
		variablesJSON[id] = []interface{}{decl.Name, float64(0)}
	}
	for _, decl := range target.Lists {
		id := b.ids.next("list")
		b.lists[fold(decl.Name)] = id
		listsJSON[id] = []interface{}{decl.Name, []interface{}{}}
	}

	signatures := map[string]*procedureSignature{}
	for _, proc := range target.Procedures {
		signatures[fold(proc.Name)] = buildProcedureSignature(proc, b.ids)
	}

	yCursor := 30.0
	for _, proc := range target.Procedures {
		sig := signatures[fold(proc.Name)]
		_, nonEmpty := b.emitProcedureDefinition(blocks, proc, sig, 30, yCursor, signatures)
		if nonEmpty {
			yCursor += 140
		} else {
			yCursor += 80
		}
		yCursor += 40
	}
	for _, script := range target.Scripts {
		hatID := b.emitEventScriptHat(blocks, script, 320, yCursor)
		paramScope := map[string]bool{}
		first, _ := b.emitStatementChain(blocks, script.Body, hatID, paramScope, signatures)
		if first != "" {
			blocks[hatID].Next = &first
			yCursor += 140
		} else {
			yCursor += 80
		}
		yCursor += 40
	}

	costumeAssets, err := b.costumes.BuildCostumes(target, b.sourceDir)
	if err != nil {
		return nil, err
	}
	costumesJSON := make([]interface{}, 0, len(costumeAssets))
	for _, asset := range costumeAssets {
		b.assets[asset.Md5Ext] = asset.Data
		entry := map[string]interface{}{
			"name":            asset.Name,
			"assetId":         asset.AssetID,
			"md5ext":          asset.Md5Ext,
			"dataFormat":      asset.DataFormat,
			"rotationCenterX": asset.RotationCenterX,
			"rotationCenterY": asset.RotationCenterY,
		}
		if asset.BitmapResolution != nil {
			entry["bitmapResolution"] = *asset.BitmapResolution
		}
		costumesJSON = append(costumesJSON, entry)
	}

	broadcastsJSON := map[string]interface{}{}
	if target.IsStage {
		for message, id := range b.broadcastIDs {
			broadcastsJSON[id] = message
		}
	}

	blocksJSON := make(map[string]interface{}, len(blocks))
	for id, blk := range blocks {
		blocksJSON[id] = blk
	}

	targetJSON := map[string]interface{}{
		"isStage":        target.IsStage,
		"name":           target.Name,
		"variables":      variablesJSON,
		"lists":          listsJSON,
		"broadcasts":     broadcastsJSON,
		"blocks":         blocksJSON,
		"comments":       map[string]interface{}{},
		"currentCostume": 0,
		"costumes":       costumesJSON,
		"sounds":         []interface{}{},
		"volume":         100,
		"layerOrder":     layerOrder,
	}
	if target.IsStage {
		targetJSON["tempo"] = 60
		targetJSON["videoTransparency"] = 50
		targetJSON["videoState"] = "on"
		targetJSON["textToSpeechLanguage"] = nil
	} else {
		targetJSON["visible"] = true
		targetJSON["x"] = 0
		targetJSON["y"] = 0
		targetJSON["size"] = 100
		targetJSON["direction"] = 90
		targetJSON["draggable"] = false
		targetJSON["rotationStyle"] = "all around"
	}
	return targetJSON, nil
}
