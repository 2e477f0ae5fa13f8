package parser_test

import (
	"testing"

	"github.com/sbtext-lang/sbtextc/internal/ast"
	"github.com/sbtext-lang/sbtextc/internal/parser"
)

func mustParse(t *testing.T, source string) *ast.Project {
	t.Helper()
	project, err := parser.ParseSource(source)
	if err != nil {
		t.Fatalf("ParseSource(%q) returned error: %v", source, err)
	}
	return project
}

func TestParseProject_SpriteWithVarAndEventScript(t *testing.T) {
	source := "sprite \"Cat\"\n" +
		"var [x]\n" +
		"when flag clicked\n" +
		"set [x] to (3)\n" +
		"end\n" +
		"end\n"

	project := mustParse(t, source)
	if len(project.Targets) != 1 {
		t.Fatalf("expected 1 target, got %d", len(project.Targets))
	}
	target := project.Targets[0]
	if target.Name != "Cat" || target.IsStage {
		t.Fatalf("expected sprite named Cat, got %+v", target)
	}
	if len(target.Variables) != 1 || target.Variables[0].Name != "x" {
		t.Fatalf("expected one variable 'x', got %+v", target.Variables)
	}
	if len(target.Scripts) != 1 {
		t.Fatalf("expected 1 event script, got %d", len(target.Scripts))
	}
	script := target.Scripts[0]
	if script.Kind != ast.EventFlagClicked {
		t.Fatalf("expected flag-clicked event, got %v", script.Kind)
	}
	if len(script.Body) != 1 {
		t.Fatalf("expected 1 statement in event body, got %d", len(script.Body))
	}
	setStmt, ok := script.Body[0].(*ast.SetVarStmt)
	if !ok {
		t.Fatalf("expected *ast.SetVarStmt, got %T", script.Body[0])
	}
	if setStmt.Name != "x" {
		t.Fatalf("expected set target 'x', got %q", setStmt.Name)
	}
}

// The final 'end' of an event script's body is ambiguous: it either
// belongs to the event script (when another 'end' follows to close
// the target) or it implicitly closes both. Both spellings below must
// parse to the same shape.
func TestParseProject_ImplicitAndExplicitEventEndAreEquivalent(t *testing.T) {
	implicit := "sprite \"Cat\"\n" +
		"when flag clicked\n" +
		"show\n" +
		"end\n"

	explicit := "sprite \"Cat\"\n" +
		"when flag clicked\n" +
		"show\n" +
		"end\n" +
		"end\n"

	for name, source := range map[string]string{"implicit": implicit, "explicit": explicit} {
		t.Run(name, func(t *testing.T) {
			project := mustParse(t, source)
			if len(project.Targets) != 1 {
				t.Fatalf("expected 1 target, got %d", len(project.Targets))
			}
			scripts := project.Targets[0].Scripts
			if len(scripts) != 1 || len(scripts[0].Body) != 1 {
				t.Fatalf("expected 1 script with 1 statement, got %+v", scripts)
			}
			if _, ok := scripts[0].Body[0].(*ast.ShowStmt); !ok {
				t.Fatalf("expected *ast.ShowStmt, got %T", scripts[0].Body[0])
			}
		})
	}
}

func TestParseProject_StageDefaultsName(t *testing.T) {
	source := "stage\n" +
		"end\n"

	project := mustParse(t, source)
	if len(project.Targets) != 1 {
		t.Fatalf("expected 1 target, got %d", len(project.Targets))
	}
	if project.Targets[0].Name != "Stage" || !project.Targets[0].IsStage {
		t.Fatalf("expected default stage named 'Stage', got %+v", project.Targets[0])
	}
}

func TestParseProject_IfThenElse(t *testing.T) {
	source := "sprite \"Cat\"\n" +
		"when flag clicked\n" +
		"if (1) < (2) then\n" +
		"say (\"yes\")\n" +
		"else\n" +
		"say (\"no\")\n" +
		"end\n" +
		"end\n" +
		"end\n"

	project := mustParse(t, source)
	script := project.Targets[0].Scripts[0]
	if len(script.Body) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(script.Body))
	}
	ifStmt, ok := script.Body[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected *ast.IfStmt, got %T", script.Body[0])
	}
	cond, ok := ifStmt.Condition.(*ast.BinaryExpr)
	if !ok || cond.Op != "<" {
		t.Fatalf("expected '<' binary condition, got %+v", ifStmt.Condition)
	}
	if len(ifStmt.Then) != 1 || len(ifStmt.Else) != 1 {
		t.Fatalf("expected one statement on each branch, got then=%d else=%d", len(ifStmt.Then), len(ifStmt.Else))
	}
}

func TestParseProject_ProcedureDefinitionAndCall(t *testing.T) {
	source := "sprite \"Cat\"\n" +
		"define greet (name)\n" +
		"say (name)\n" +
		"end\n" +
		"when flag clicked\n" +
		"greet (\"hi\")\n" +
		"end\n" +
		"end\n"

	project := mustParse(t, source)
	target := project.Targets[0]
	if len(target.Procedures) != 1 {
		t.Fatalf("expected 1 procedure, got %d", len(target.Procedures))
	}
	proc := target.Procedures[0]
	if proc.Name != "greet" || len(proc.Params) != 1 || proc.Params[0] != "name" {
		t.Fatalf("unexpected procedure shape: %+v", proc)
	}
	call, ok := target.Scripts[0].Body[0].(*ast.ProcedureCallStmt)
	if !ok {
		t.Fatalf("expected *ast.ProcedureCallStmt, got %T", target.Scripts[0].Body[0])
	}
	if call.Name != "greet" || len(call.Args) != 1 {
		t.Fatalf("unexpected call shape: %+v", call)
	}
}

func TestParseProject_OperatorPrecedence(t *testing.T) {
	source := "sprite \"Cat\"\n" +
		"when flag clicked\n" +
		"set [x] to (1 + 2 * 3)\n" +
		"end\n" +
		"end\n"

	project := mustParse(t, source)
	setStmt := project.Targets[0].Scripts[0].Body[0].(*ast.SetVarStmt)
	top, ok := setStmt.Value.(*ast.BinaryExpr)
	if !ok || top.Op != "+" {
		t.Fatalf("expected top-level '+', got %+v", setStmt.Value)
	}
	right, ok := top.Right.(*ast.BinaryExpr)
	if !ok || right.Op != "*" {
		t.Fatalf("expected '*' nested on the right of '+', got %+v", top.Right)
	}
}

func TestParseProject_RepeatAndListStatements(t *testing.T) {
	source := "sprite \"Cat\"\n" +
		"list [items]\n" +
		"when flag clicked\n" +
		"repeat (3)\n" +
		"add (\"a\") to [items]\n" +
		"end\n" +
		"delete all of [items]\n" +
		"end\n" +
		"end\n"

	project := mustParse(t, source)
	script := project.Targets[0].Scripts[0]
	if len(script.Body) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(script.Body))
	}
	repeatStmt, ok := script.Body[0].(*ast.RepeatStmt)
	if !ok || len(repeatStmt.Body) != 1 {
		t.Fatalf("unexpected repeat shape: %+v", script.Body[0])
	}
	if _, ok := repeatStmt.Body[0].(*ast.AddToListStmt); !ok {
		t.Fatalf("expected *ast.AddToListStmt inside repeat, got %T", repeatStmt.Body[0])
	}
	if _, ok := script.Body[1].(*ast.DeleteAllOfListStmt); !ok {
		t.Fatalf("expected *ast.DeleteAllOfListStmt, got %T", script.Body[1])
	}
}

func TestParseProject_NoTargetsIsError(t *testing.T) {
	if _, err := parser.ParseSource("# just a comment\n"); err == nil {
		t.Fatalf("expected an error for a project with no targets")
	}
}

func TestParseProject_UnterminatedTargetIsError(t *testing.T) {
	if _, err := parser.ParseSource("sprite \"Cat\"\nvar [x]\n"); err == nil {
		t.Fatalf("expected an error for an unterminated target block")
	}
}
