package codegen

import (
	"sort"

	"github.com/sbtext-lang/sbtextc/internal/ast"
)

// collectBroadcastIDs does a two-pass collection: gather every distinct
// broadcast message referenced anywhere in the project (by `broadcast`
// statements or `when i receive` headers), then assign IDs in
// lexicographic order. Assigning after collecting, rather than as each
// message is first seen, keeps ID assignment independent of source
// layout.
func collectBroadcastIDs(project *ast.Project, gen *idGenerator) map[string]string {
	messages := make(map[string]bool)
	for _, target := range project.Targets {
		for _, script := range target.Scripts {
			if script.Kind == ast.EventIReceive && script.Message != "" {
				messages[script.Message] = true
			}
			collectBroadcastMessages(script.Body, messages)
		}
		for _, proc := range target.Procedures {
			collectBroadcastMessages(proc.Body, messages)
		}
	}
	sorted := make([]string, 0, len(messages))
	for message := range messages {
		sorted = append(sorted, message)
	}
	sort.Strings(sorted)

	ids := make(map[string]string, len(sorted))
	for _, message := range sorted {
		ids[message] = gen.next("broadcast")
	}
	return ids
}

// collectBroadcastMessages recurses into every statement body SBText
// has, including ForeverStmt — a body kind the original prototype
// predates and so never walked.
func collectBroadcastMessages(statements []ast.Statement, messages map[string]bool) {
	for _, stmt := range statements {
		switch s := stmt.(type) {
		case *ast.BroadcastStmt:
			messages[s.Message] = true
		case *ast.RepeatStmt:
			collectBroadcastMessages(s.Body, messages)
		case *ast.ForeverStmt:
			collectBroadcastMessages(s.Body, messages)
		case *ast.IfStmt:
			collectBroadcastMessages(s.Then, messages)
			collectBroadcastMessages(s.Else, messages)
		}
	}
}
