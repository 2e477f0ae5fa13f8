package ast

// Visitor is called once per node during Inspect; returning false
// stops descent into that node's children.
type Visitor func(Node) bool

// InspectProject walks every node reachable from project in source
// order, depth-first. It is the AST's only traversal helper — the
// validator and code generator each write their own typed switches
// instead of building on this, since they need per-kind return
// values Inspect's uniform signature can't carry.
func InspectProject(project *Project, visit Visitor) {
	if project == nil || !visit(project) {
		return
	}
	for _, target := range project.Targets {
		inspectTarget(target, visit)
	}
}

func inspectTarget(target *Target, visit Visitor) {
	if !visit(target) {
		return
	}
	for _, v := range target.Variables {
		visit(v)
	}
	for _, l := range target.Lists {
		visit(l)
	}
	for _, c := range target.Costumes {
		visit(c)
	}
	for _, p := range target.Procedures {
		if visit(p) {
			inspectStatements(p.Body, visit)
		}
	}
	for _, s := range target.Scripts {
		if visit(s) {
			inspectStatements(s.Body, visit)
		}
	}
}

func inspectStatements(stmts []Statement, visit Visitor) {
	for _, stmt := range stmts {
		inspectStatement(stmt, visit)
	}
}

func inspectStatement(stmt Statement, visit Visitor) {
	if !visit(stmt) {
		return
	}
	switch s := stmt.(type) {
	case *SetVarStmt:
		inspectExpression(s.Value, visit)
	case *ChangeVarStmt:
		inspectExpression(s.Delta, visit)
	case *MoveStmt:
		inspectExpression(s.Steps, visit)
	case *TurnLeftStmt:
		inspectExpression(s.Degrees, visit)
	case *TurnRightStmt:
		inspectExpression(s.Degrees, visit)
	case *GoToXYStmt:
		inspectExpression(s.X, visit)
		inspectExpression(s.Y, visit)
	case *ChangeXByStmt:
		inspectExpression(s.Value, visit)
	case *SetXStmt:
		inspectExpression(s.Value, visit)
	case *ChangeYByStmt:
		inspectExpression(s.Value, visit)
	case *SetYStmt:
		inspectExpression(s.Value, visit)
	case *PointInDirectionStmt:
		inspectExpression(s.Direction, visit)
	case *SayStmt:
		inspectExpression(s.Message, visit)
	case *ThinkStmt:
		inspectExpression(s.Message, visit)
	case *ChangeSizeByStmt:
		inspectExpression(s.Value, visit)
	case *SetSizeToStmt:
		inspectExpression(s.Value, visit)
	case *WaitStmt:
		inspectExpression(s.Duration, visit)
	case *RepeatStmt:
		inspectExpression(s.Times, visit)
		inspectStatements(s.Body, visit)
	case *ForeverStmt:
		inspectStatements(s.Body, visit)
	case *IfStmt:
		inspectExpression(s.Condition, visit)
		inspectStatements(s.Then, visit)
		inspectStatements(s.Else, visit)
	case *StopStmt:
		if s.Option != nil {
			inspectExpression(s.Option, visit)
		}
	case *AskStmt:
		inspectExpression(s.Question, visit)
	case *AddToListStmt:
		inspectExpression(s.Item, visit)
	case *DeleteOfListStmt:
		inspectExpression(s.Index, visit)
	case *InsertAtListStmt:
		inspectExpression(s.Item, visit)
		inspectExpression(s.Index, visit)
	case *ReplaceItemOfListStmt:
		inspectExpression(s.Index, visit)
		inspectExpression(s.Item, visit)
	case *ProcedureCallStmt:
		for _, arg := range s.Args {
			inspectExpression(arg, visit)
		}
	}
}

func inspectExpression(expr Expression, visit Visitor) {
	if expr == nil || !visit(expr) {
		return
	}
	switch e := expr.(type) {
	case *UnaryExpr:
		inspectExpression(e.Operand, visit)
	case *BinaryExpr:
		inspectExpression(e.Left, visit)
		inspectExpression(e.Right, visit)
	case *PickRandomExpr:
		inspectExpression(e.Start, visit)
		inspectExpression(e.End, visit)
	case *ListItemExpr:
		inspectExpression(e.Index, visit)
	case *ListContainsExpr:
		inspectExpression(e.Item, visit)
	case *KeyPressedExpr:
		inspectExpression(e.Key, visit)
	}
}
