// Package semantic validates a resolved ast.Project before it reaches
// codegen: target/variable/list/procedure/parameter name uniqueness,
// that assignment targets are declared variables (not procedure
// parameters), that procedure calls appear after their definition and
// pass the right number of arguments, and that every variable/list
// reference names something declared.
package semantic

import (
	"github.com/sbtext-lang/sbtextc/internal/ast"
)

type config struct {
	requireStage bool
}

// Option configures Analyze.
type Option func(*config)

// WithRequireStage makes Analyze reject a project with zero stage
// targets instead of leaving synthesis to codegen. Off by default,
// matching the spec's documented core policy (synthesize).
func WithRequireStage(require bool) Option {
	return func(c *config) { c.requireStage = require }
}

type procedureInfo struct {
	name   string
	line   int
	params []string
}

// scope carries the per-target tables that statement/expression
// walking needs: the target's declared variables and lists, its
// resolved procedure table, and (inside a procedure body) the
// parameter scope enclosing the variable scope.
type scope struct {
	target     *ast.Target
	variables  *SymbolTable
	lists      *foldSet
	procedures map[string]*procedureInfo
	names      *SymbolTable // variables, enclosed by params when inside a procedure
}

// Analyze validates project, returning the first violation found.
func Analyze(project *ast.Project, opts ...Option) error {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(project.Targets) == 0 {
		return &Error{Message: "project must define at least one target"}
	}

	stageCount := 0
	targetNames := newFoldSet()
	for _, target := range project.Targets {
		if target.IsStage {
			stageCount++
		}
		if prev, dup := targetNames.add(target.Name); dup {
			return errAt(target.Pos(), "duplicate target name '%s' (already used by '%s')", target.Name, prev)
		}
	}
	if cfg.requireStage && stageCount == 0 {
		return &Error{Message: "project must define a stage"}
	}
	if stageCount > 1 {
		return &Error{Message: "project can only define one stage"}
	}

	for _, target := range project.Targets {
		if err := analyzeTarget(target); err != nil {
			return err
		}
	}
	return nil
}

func analyzeTarget(target *ast.Target) error {
	variables := NewSymbolTable()
	for _, decl := range target.Variables {
		if prev, dup := variables.Define(decl.Name, false); dup {
			return errAt(decl.Pos(), "duplicate variable '%s' in target '%s' (already declared as '%s')", decl.Name, target.Name, prev.Name)
		}
	}

	lists := newFoldSet()
	for _, decl := range target.Lists {
		if prev, dup := lists.add(decl.Name); dup {
			return errAt(decl.Pos(), "duplicate list '%s' in target '%s' (already declared as '%s')", decl.Name, target.Name, prev)
		}
	}

	procedures := make(map[string]*procedureInfo)
	for _, proc := range target.Procedures {
		key := fold(proc.Name)
		if prev, ok := procedures[key]; ok {
			return errAt(proc.Pos(), "procedure '%s' is already defined at line %d in target '%s'", proc.Name, prev.line, target.Name)
		}
		params := newFoldSet()
		for _, param := range proc.Params {
			if _, dup := params.add(param); dup {
				return errAt(proc.Pos(), "procedure '%s' has duplicate parameter names", proc.Name)
			}
		}
		procedures[key] = &procedureInfo{name: proc.Name, line: proc.Pos().Line, params: proc.Params}
	}

	for _, proc := range target.Procedures {
		paramScope := NewEnclosedSymbolTable(variables)
		for _, param := range proc.Params {
			paramScope.Define(param, true)
		}
		sc := &scope{
			target:     target,
			variables:  variables,
			lists:      lists,
			procedures: procedures,
			names:      paramScope,
		}
		if err := analyzeStatements(sc, proc.Body); err != nil {
			return err
		}
	}

	for _, script := range target.Scripts {
		sc := &scope{
			target:     target,
			variables:  variables,
			lists:      lists,
			procedures: procedures,
			names:      variables,
		}
		if err := analyzeStatements(sc, script.Body); err != nil {
			return err
		}
	}
	return nil
}

func analyzeStatements(sc *scope, statements []ast.Statement) error {
	for _, stmt := range statements {
		if err := analyzeStatement(sc, stmt); err != nil {
			return err
		}
	}
	return nil
}

func analyzeStatement(sc *scope, stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.BroadcastStmt:
		if s.Message == "" {
			return errAt(s.Pos(), "broadcast message cannot be empty in target '%s'", sc.target.Name)
		}
	case *ast.SetVarStmt:
		if err := sc.ensureVariable(s.Name, s.Pos()); err != nil {
			return err
		}
		return analyzeExpr(sc, s.Value)
	case *ast.ChangeVarStmt:
		if err := sc.ensureVariable(s.Name, s.Pos()); err != nil {
			return err
		}
		return analyzeExpr(sc, s.Delta)
	case *ast.MoveStmt:
		return analyzeExpr(sc, s.Steps)
	case *ast.TurnLeftStmt:
		return analyzeExpr(sc, s.Degrees)
	case *ast.TurnRightStmt:
		return analyzeExpr(sc, s.Degrees)
	case *ast.GoToXYStmt:
		if err := analyzeExpr(sc, s.X); err != nil {
			return err
		}
		return analyzeExpr(sc, s.Y)
	case *ast.ChangeXByStmt:
		return analyzeExpr(sc, s.Value)
	case *ast.SetXStmt:
		return analyzeExpr(sc, s.Value)
	case *ast.ChangeYByStmt:
		return analyzeExpr(sc, s.Value)
	case *ast.SetYStmt:
		return analyzeExpr(sc, s.Value)
	case *ast.PointInDirectionStmt:
		return analyzeExpr(sc, s.Direction)
	case *ast.IfOnEdgeBounceStmt:
		return nil
	case *ast.SayStmt:
		return analyzeExpr(sc, s.Message)
	case *ast.ThinkStmt:
		return analyzeExpr(sc, s.Message)
	case *ast.ShowStmt, *ast.HideStmt, *ast.NextCostumeStmt, *ast.NextBackdropStmt, *ast.ResetTimerStmt:
		return nil
	case *ast.ChangeSizeByStmt:
		return analyzeExpr(sc, s.Value)
	case *ast.SetSizeToStmt:
		return analyzeExpr(sc, s.Value)
	case *ast.WaitStmt:
		return analyzeExpr(sc, s.Duration)
	case *ast.RepeatStmt:
		if err := analyzeExpr(sc, s.Times); err != nil {
			return err
		}
		return analyzeStatements(sc, s.Body)
	case *ast.ForeverStmt:
		return analyzeStatements(sc, s.Body)
	case *ast.IfStmt:
		if err := analyzeExpr(sc, s.Condition); err != nil {
			return err
		}
		if err := analyzeStatements(sc, s.Then); err != nil {
			return err
		}
		return analyzeStatements(sc, s.Else)
	case *ast.StopStmt:
		if s.Option != nil {
			return analyzeExpr(sc, s.Option)
		}
		return nil
	case *ast.AskStmt:
		return analyzeExpr(sc, s.Question)
	case *ast.AddToListStmt:
		if err := sc.ensureList(s.List, s.Pos()); err != nil {
			return err
		}
		return analyzeExpr(sc, s.Item)
	case *ast.DeleteOfListStmt:
		if err := sc.ensureList(s.List, s.Pos()); err != nil {
			return err
		}
		return analyzeExpr(sc, s.Index)
	case *ast.DeleteAllOfListStmt:
		return sc.ensureList(s.List, s.Pos())
	case *ast.InsertAtListStmt:
		if err := sc.ensureList(s.List, s.Pos()); err != nil {
			return err
		}
		if err := analyzeExpr(sc, s.Item); err != nil {
			return err
		}
		return analyzeExpr(sc, s.Index)
	case *ast.ReplaceItemOfListStmt:
		if err := sc.ensureList(s.List, s.Pos()); err != nil {
			return err
		}
		if err := analyzeExpr(sc, s.Index); err != nil {
			return err
		}
		return analyzeExpr(sc, s.Item)
	case *ast.ProcedureCallStmt:
		proc, ok := sc.procedures[fold(s.Name)]
		if !ok {
			return errAt(s.Pos(), "unknown procedure '%s' in target '%s'", s.Name, sc.target.Name)
		}
		if s.Pos().Line < proc.line {
			return errAt(s.Pos(), "procedure '%s' is used before it is defined (call line %d, definition line %d) in target '%s'",
				s.Name, s.Pos().Line, proc.line, sc.target.Name)
		}
		if len(s.Args) != len(proc.params) {
			return errAt(s.Pos(), "procedure '%s' expects %d argument(s), got %d", s.Name, len(proc.params), len(s.Args))
		}
		for _, arg := range s.Args {
			if err := analyzeExpr(sc, arg); err != nil {
				return err
			}
		}
	}
	return nil
}

func analyzeExpr(sc *scope, expr ast.Expression) error {
	switch e := expr.(type) {
	case *ast.VarRef:
		if _, ok := sc.names.Resolve(e.Name); !ok {
			return errAt(e.Pos(), "unknown variable '%s' in target '%s'", e.Name, sc.target.Name)
		}
	case *ast.UnaryExpr:
		return analyzeExpr(sc, e.Operand)
	case *ast.BinaryExpr:
		if err := analyzeExpr(sc, e.Left); err != nil {
			return err
		}
		return analyzeExpr(sc, e.Right)
	case *ast.PickRandomExpr:
		if err := analyzeExpr(sc, e.Start); err != nil {
			return err
		}
		return analyzeExpr(sc, e.End)
	case *ast.ListItemExpr:
		if err := sc.ensureList(e.List, e.Pos()); err != nil {
			return err
		}
		return analyzeExpr(sc, e.Index)
	case *ast.ListLengthExpr:
		return sc.ensureList(e.List, e.Pos())
	case *ast.ListContainsExpr:
		if err := sc.ensureList(e.List, e.Pos()); err != nil {
			return err
		}
		return analyzeExpr(sc, e.Item)
	case *ast.KeyPressedExpr:
		return analyzeExpr(sc, e.Key)
	case *ast.NumberLit, *ast.StringLit, *ast.BuiltinReporterExpr:
		return nil
	}
	return nil
}

func (sc *scope) ensureVariable(name string, pos ast.Position) error {
	sym, ok := sc.names.Resolve(name)
	if !ok {
		return errAt(pos, "unknown variable '%s' in target '%s'", name, sc.target.Name)
	}
	if sym.ReadOnly {
		return errAt(pos, "variable field '%s' refers to a procedure parameter; assignment blocks must target declared variables", name)
	}
	return nil
}

func (sc *scope) ensureList(name string, pos ast.Position) error {
	if !sc.lists.has(name) {
		return errAt(pos, "unknown list '%s' in target '%s'", name, sc.target.Name)
	}
	return nil
}
