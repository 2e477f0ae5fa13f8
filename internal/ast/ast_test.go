package ast

import "testing"

func TestInspectProject_VisitsNestedExpressions(t *testing.T) {
	project := &Project{
		Targets: []*Target{
			{
				Name: "Cat",
				Variables: []*VariableDecl{
					{Name: "score"},
				},
				Scripts: []*EventScript{
					{
						Kind: EventFlagClicked,
						Body: []Statement{
							&RepeatStmt{
								Times: &NumberLit{Value: 3},
								Body: []Statement{
									&ChangeVarStmt{Name: "score", Delta: &NumberLit{Value: 1}},
								},
							},
						},
					},
				},
			},
		},
	}

	var numbers int
	InspectProject(project, func(n Node) bool {
		if _, ok := n.(*NumberLit); ok {
			numbers++
		}
		return true
	})
	if numbers != 2 {
		t.Fatalf("got %d NumberLit visits, want 2", numbers)
	}
}

func TestInspectProject_StopsDescentWhenVisitorReturnsFalse(t *testing.T) {
	project := &Project{
		Targets: []*Target{
			{
				Name: "A",
				Scripts: []*EventScript{
					{Kind: EventFlagClicked, Body: []Statement{&ShowStmt{}}},
				},
			},
		},
	}
	var sawShow bool
	InspectProject(project, func(n Node) bool {
		if _, ok := n.(*EventScript); ok {
			return false
		}
		if _, ok := n.(*ShowStmt); ok {
			sawShow = true
		}
		return true
	})
	if sawShow {
		t.Fatal("expected descent into event script body to be skipped")
	}
}
