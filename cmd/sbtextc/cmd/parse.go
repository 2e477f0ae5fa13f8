package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/sbtext-lang/sbtextc/internal/ast"
	"github.com/sbtext-lang/sbtextc/internal/diag"
	"github.com/sbtext-lang/sbtextc/internal/resolver"
	"github.com/spf13/cobra"
)

var parseDumpAST bool

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse an SBText file and resolve its sprite imports",
	Long: `Parse an SBText file, following any import statements it declares,
and report whether the result is well-formed.

Use --dump-ast to print the resolved AST structure.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().BoolVar(&parseDumpAST, "dump-ast", false, "dump the resolved AST structure")
}

func runParse(cmd *cobra.Command, args []string) error {
	filename := args[0]

	project, err := resolver.ResolveFile(filename)
	if err != nil {
		content, _ := os.ReadFile(filename)
		compilerErr := diag.FromError(err, string(content), filename)
		fmt.Fprint(os.Stderr, compilerErr.Format(true))
		fmt.Fprintln(os.Stderr)
		return fmt.Errorf("parsing failed")
	}

	if parseDumpAST {
		dumpProject(project)
	} else {
		fmt.Printf("OK: %d target(s)\n", len(project.Targets))
	}
	return nil
}

func dumpProject(project *ast.Project) {
	fmt.Printf("Project (%d targets)\n", len(project.Targets))
	for _, target := range project.Targets {
		dumpTarget(target, 1)
	}
}

func dumpTarget(target *ast.Target, indent int) {
	kind := "sprite"
	if target.IsStage {
		kind = "stage"
	}
	printIndent(indent, "Target %s (%s)", target.Name, kind)
	for _, v := range target.Variables {
		printIndent(indent+1, "VariableDecl %s", v.Name)
	}
	for _, l := range target.Lists {
		printIndent(indent+1, "ListDecl %s", l.Name)
	}
	for _, c := range target.Costumes {
		printIndent(indent+1, "CostumeDecl %s", c.Path)
	}
	for _, proc := range target.Procedures {
		printIndent(indent+1, "Procedure %s(%s)", proc.Name, strings.Join(proc.Params, ", "))
		dumpStatements(proc.Body, indent+2)
	}
	for _, script := range target.Scripts {
		printIndent(indent+1, "EventScript %s %s", script.Kind, script.Message)
		dumpStatements(script.Body, indent+2)
	}
}

func dumpStatements(stmts []ast.Statement, indent int) {
	for _, stmt := range stmts {
		dumpStatement(stmt, indent)
	}
}

func dumpStatement(stmt ast.Statement, indent int) {
	switch s := stmt.(type) {
	case *ast.IfStmt:
		printIndent(indent, "IfStmt")
		dumpExpr(s.Condition, indent+1)
		dumpStatements(s.Then, indent+1)
		if len(s.Else) > 0 {
			printIndent(indent, "Else")
			dumpStatements(s.Else, indent+1)
		}
	case *ast.RepeatStmt:
		printIndent(indent, "RepeatStmt")
		dumpExpr(s.Times, indent+1)
		dumpStatements(s.Body, indent+1)
	case *ast.ForeverStmt:
		printIndent(indent, "ForeverStmt")
		dumpStatements(s.Body, indent+1)
	case *ast.ProcedureCallStmt:
		printIndent(indent, "ProcedureCallStmt %s", s.Name)
		for _, arg := range s.Args {
			dumpExpr(arg, indent+1)
		}
	default:
		printIndent(indent, "%T", stmt)
	}
}

func dumpExpr(expr ast.Expression, indent int) {
	switch e := expr.(type) {
	case *ast.NumberLit:
		printIndent(indent, "NumberLit %g", e.Value)
	case *ast.StringLit:
		printIndent(indent, "StringLit %q", e.Value)
	case *ast.VarRef:
		printIndent(indent, "VarRef %s", e.Name)
	case *ast.BinaryExpr:
		printIndent(indent, "BinaryExpr %s", e.Op)
		dumpExpr(e.Left, indent+1)
		dumpExpr(e.Right, indent+1)
	case *ast.UnaryExpr:
		printIndent(indent, "UnaryExpr %s", e.Op)
		dumpExpr(e.Operand, indent+1)
	case nil:
		return
	default:
		printIndent(indent, "%T", expr)
	}
}

func printIndent(indent int, format string, args ...interface{}) {
	fmt.Print(strings.Repeat("  ", indent))
	fmt.Printf(format, args...)
	fmt.Println()
}
