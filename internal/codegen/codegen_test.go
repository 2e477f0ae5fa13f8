package codegen_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/sbtext-lang/sbtextc/internal/ast"
	"github.com/sbtext-lang/sbtextc/internal/codegen"
	"github.com/sbtext-lang/sbtextc/internal/parser"
	"github.com/tidwall/gjson"
)

// stubCostumes hands every target one fixed, fake costume instead of
// touching the filesystem, so codegen tests don't depend on internal/asset.
type stubCostumes struct{}

func (stubCostumes) BuildCostumes(target *ast.Target, _ string) ([]codegen.CostumeAsset, error) {
	return []codegen.CostumeAsset{{
		Name: "costume1", AssetID: "deadbeef", Md5Ext: "deadbeef.svg",
		DataFormat: "svg", RotationCenterX: 32, RotationCenterY: 32,
		Data: []byte("<svg/>"),
	}}, nil
}

func mustGenerate(t *testing.T, source string) ([]byte, map[string][]byte) {
	t.Helper()
	project, err := parser.ParseSource(source)
	if err != nil {
		t.Fatalf("ParseSource returned error: %v", err)
	}
	projectJSON, assets, err := codegen.Generate(project, "/fixtures", stubCostumes{})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	encoded, err := json.Marshal(projectJSON)
	if err != nil {
		t.Fatalf("failed to marshal project.json: %v", err)
	}
	return encoded, assets
}

func TestGenerate_SingleSpriteProducesStageAndTarget(t *testing.T) {
	encoded, assets := mustGenerate(t, ""+
		"sprite \"Cat\"\n"+
		"var [x]\n"+
		"when flag clicked\n"+
		"set [x] to (3)\n"+
		"move (10) steps\n"+
		"end\n"+
		"end\n")

	targets := gjson.GetBytes(encoded, "targets")
	if !targets.IsArray() || len(targets.Array()) != 2 {
		t.Fatalf("expected a synthesized stage plus one sprite target, got: %s", targets.Raw)
	}
	if name := targets.Array()[0].Get("name").String(); name != "Stage" {
		t.Fatalf("expected the stage to be ordered first, got target named %q", name)
	}
	if isStage := targets.Array()[0].Get("isStage").Bool(); !isStage {
		t.Fatalf("expected first target's isStage to be true")
	}
	if name := targets.Array()[1].Get("name").String(); name != "Cat" {
		t.Fatalf("expected second target to be the sprite, got %q", name)
	}
	if len(assets) != 1 {
		t.Fatalf("expected the stage and sprite to share one asset entry (the stub gives both the same md5ext), got %d", len(assets))
	}
}

func TestGenerate_HatBlockChainsIntoBody(t *testing.T) {
	encoded, _ := mustGenerate(t, ""+
		"sprite \"Cat\"\n"+
		"when flag clicked\n"+
		"move (10) steps\n"+
		"turn right (15)\n"+
		"end\n"+
		"end\n")

	blocks := gjson.GetBytes(encoded, "targets.1.blocks")
	var hatID, moveID string
	blocks.ForEach(func(key, value gjson.Result) bool {
		switch value.Get("opcode").String() {
		case "event_whenflagclicked":
			hatID = key.String()
		case "motion_movesteps":
			moveID = key.String()
		}
		return true
	})
	if hatID == "" || moveID == "" {
		t.Fatalf("expected both a hat and a move block, got: %s", blocks.Raw)
	}
	if next := blocks.Get(hatID).Get("next").String(); next != moveID {
		t.Fatalf("expected hat's next to point at the move block, got %q want %q", next, moveID)
	}
	if parent := blocks.Get(moveID).Get("parent").String(); parent != hatID {
		t.Fatalf("expected move block's parent to be the hat, got %q want %q", parent, hatID)
	}
	steps := blocks.Get(moveID).Get("inputs.STEPS")
	if steps.Array()[0].Int() != 1 {
		t.Fatalf("expected a literal shadow input kind of 1, got %s", steps.Raw)
	}
}

func TestGenerate_ComparisonOperatorsDesugar(t *testing.T) {
	cases := map[string]string{
		"<=": "operator_or",
		">=": "operator_or",
		"!=": "operator_not",
	}
	for op, wantOpcode := range cases {
		t.Run(op, func(t *testing.T) {
			source := fmt.Sprintf(""+
				"sprite \"Cat\"\n"+
				"when flag clicked\n"+
				"if (1) %s (2) then\n"+
				"move (1) steps\n"+
				"end\n"+
				"end\n"+
				"end\n", op)
			encoded, _ := mustGenerate(t, source)
			blocks := gjson.GetBytes(encoded, "targets.1.blocks")
			found := false
			blocks.ForEach(func(_, value gjson.Result) bool {
				if value.Get("opcode").String() == wantOpcode {
					found = true
				}
				return true
			})
			if !found {
				t.Fatalf("expected operator %q to desugar through %q, got blocks: %s", op, wantOpcode, blocks.Raw)
			}
		})
	}
}

func TestGenerate_ProcedureCallMutationEncodesArgumentIDsAsJSONString(t *testing.T) {
	encoded, _ := mustGenerate(t, ""+
		"sprite \"Cat\"\n"+
		"define greet (name)\n"+
		"say (name)\n"+
		"end\n"+
		"when flag clicked\n"+
		"greet (\"hi\")\n"+
		"end\n"+
		"end\n")

	blocks := gjson.GetBytes(encoded, "targets.1.blocks")
	var callMutation gjson.Result
	blocks.ForEach(func(_, value gjson.Result) bool {
		if value.Get("opcode").String() == "procedures_call" {
			callMutation = value.Get("mutation")
		}
		return true
	})
	if !callMutation.Exists() {
		t.Fatalf("expected a procedures_call block, got: %s", blocks.Raw)
	}
	argIDsField := callMutation.Get("argumentids").String()
	var argIDs []string
	if err := json.Unmarshal([]byte(argIDsField), &argIDs); err != nil {
		t.Fatalf("argumentids was not a JSON-encoded string array: %q (%v)", argIDsField, err)
	}
	if len(argIDs) != 1 {
		t.Fatalf("expected one argument id, got %v", argIDs)
	}
	if warp := callMutation.Get("warp").String(); warp != "false" {
		t.Fatalf("expected warp to be the string \"false\", got %q", warp)
	}
}

func TestGenerate_NoStageSynthesizesNonCollidingName(t *testing.T) {
	encoded, _ := mustGenerate(t, "sprite \"Stage\"\nend\n")
	targets := gjson.GetBytes(encoded, "targets")
	stageName := targets.Array()[0].Get("name").String()
	if stageName == "Stage" {
		t.Fatalf("expected the synthesized stage to avoid colliding with the sprite named Stage")
	}
}

func TestGenerate_EmptyProjectSnapshot(t *testing.T) {
	encoded, _ := mustGenerate(t, "stage\nend\n")
	var pretty map[string]interface{}
	if err := json.Unmarshal(encoded, &pretty); err != nil {
		t.Fatalf("failed to unmarshal project.json: %v", err)
	}
	formatted, err := json.MarshalIndent(pretty, "", "  ")
	if err != nil {
		t.Fatalf("failed to format project.json: %v", err)
	}
	snaps.MatchSnapshot(t, "empty_project_json", string(formatted))
}
