// Package resolver implements SBText's import resolver: it reads an
// entry file, extracts its top-level `import [name] from "path"`
// directives, recursively resolves each imported file, and merges the
// results (imports before local targets) into a single ast.Project.
package resolver

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sbtext-lang/sbtextc/internal/ast"
	"github.com/sbtext-lang/sbtextc/internal/parser"
)

var importPattern = regexp.MustCompile(`(?i)^\s*import\s+\[([^\]\r\n]+)\]\s+from\s+"([^"\r\n]+)"\s*(?:#.*)?$`)

type importSpec struct {
	spriteName string
	relPath    string
	line       int
}

type resolvedFile struct {
	localTargets    []*ast.Target
	combinedTargets []*ast.Target
}

// Resolver resolves an entry file and its import graph, memoizing each
// resolved path for the lifetime of the Resolver.
type Resolver struct {
	cache map[string]*resolvedFile
}

// New returns a Resolver with an empty per-run cache.
func New() *Resolver {
	return &Resolver{cache: make(map[string]*resolvedFile)}
}

// ResolveFile resolves a single entry file with a fresh cache. Use
// New().ResolveFile to share a cache across multiple entry points.
func ResolveFile(entryPath string) (*ast.Project, error) {
	return New().ResolveFile(entryPath)
}

// ResolveFile resolves entryPath into a merged ast.Project: every
// imported sprite appears before the entry file's own targets, and
// sprite names are unique (case-insensitively) across the whole
// result.
func (r *Resolver) ResolveFile(entryPath string) (*ast.Project, error) {
	abs, err := filepath.Abs(entryPath)
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("cannot resolve path '%s': %v", entryPath, err)}
	}
	info, statErr := os.Stat(abs)
	if statErr != nil || info.IsDir() {
		return nil, &Error{Message: fmt.Sprintf("input file not found: '%s'", entryPath)}
	}
	resolved, err := r.resolveFile(abs, nil)
	if err != nil {
		return nil, err
	}
	if err := ensureUniqueSpriteNames(resolved.combinedTargets); err != nil {
		return nil, err
	}
	return &ast.Project{Targets: resolved.combinedTargets}, nil
}

func (r *Resolver) resolveFile(path string, stack []string) (*resolvedFile, error) {
	if cached, ok := r.cache[path]; ok {
		return cached, nil
	}
	for i, onStack := range stack {
		if onStack == path {
			cycle := append(append([]string{}, stack[i:]...), path)
			return nil, &Error{Message: "circular import detected: " + strings.Join(cycle, " -> ")}
		}
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("cannot read '%s': %v", path, err)}
	}
	imports, stripped, err := extractImports(string(source), path)
	if err != nil {
		return nil, err
	}
	localTargets, err := parseLocalTargets(stripped)
	if err != nil {
		return nil, err
	}
	sourceDir := filepath.Dir(path)
	normalizeTargetAssetPaths(localTargets, sourceDir)

	childStack := append(append([]string{}, stack...), path)
	var importedTargets []*ast.Target
	for _, spec := range imports {
		childPath, err := filepath.Abs(filepath.Join(sourceDir, spec.relPath))
		if err != nil {
			return nil, &Error{Message: fmt.Sprintf("cannot resolve import path '%s'", spec.relPath)}
		}
		info, statErr := os.Stat(childPath)
		if statErr != nil || info.IsDir() {
			return nil, &Error{Message: fmt.Sprintf(
				"imported file does not exist: '%s' (from '%s', line %d)", spec.relPath, path, spec.line)}
		}
		child, err := r.resolveFile(childPath, childStack)
		if err != nil {
			return nil, err
		}
		if err := validateImportedFile(spec, path, childPath, child.localTargets); err != nil {
			return nil, err
		}
		importedTargets = append(importedTargets, child.combinedTargets...)
	}

	combined := make([]*ast.Target, 0, len(importedTargets)+len(localTargets))
	combined = append(combined, importedTargets...)
	combined = append(combined, localTargets...)
	resolved := &resolvedFile{localTargets: localTargets, combinedTargets: combined}
	r.cache[path] = resolved
	return resolved, nil
}

// extractImports scans source line by line, pulling out every
// top-level import directive and replacing its line with a blank one
// (preserving line numbers for the stripped source the parser sees
// next). An import appearing after any non-blank, non-comment code is
// rejected.
func extractImports(source, sourcePath string) ([]importSpec, string, error) {
	var imports []importSpec
	var output strings.Builder
	sawNonImportCode := false

	for lineNo, line := range splitLinesKeepEnds(source) {
		lineNo++ // 1-based
		current := line
		if lineNo == 1 {
			current = strings.TrimPrefix(current, "\xef\xbb\xbf")
		}
		strippedNL := strings.TrimRight(current, "\r\n")

		if match := importPattern.FindStringSubmatch(strippedNL); match != nil {
			if sawNonImportCode {
				return nil, "", &Error{Message: fmt.Sprintf(
					"imports are only allowed at the top level. invalid import in '%s' at line %d", sourcePath, lineNo)}
			}
			spriteName := strings.TrimSpace(match[1])
			relPath := strings.TrimSpace(match[2])
			if spriteName == "" {
				return nil, "", &Error{Message: fmt.Sprintf("import sprite name cannot be empty in '%s' at line %d", sourcePath, lineNo)}
			}
			if relPath == "" {
				return nil, "", &Error{Message: fmt.Sprintf("import path cannot be empty in '%s' at line %d", sourcePath, lineNo)}
			}
			imports = append(imports, importSpec{spriteName: spriteName, relPath: relPath, line: lineNo})
			if strings.HasSuffix(current, "\n") {
				output.WriteString("\n")
			}
			continue
		}

		if !isBlankOrComment(strippedNL) {
			sawNonImportCode = true
		}
		output.WriteString(current)
	}
	return imports, output.String(), nil
}

func splitLinesKeepEnds(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i+1])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

func parseLocalTargets(source string) ([]*ast.Target, error) {
	hasCode := false
	for _, line := range strings.Split(source, "\n") {
		if !isBlankOrComment(line) {
			hasCode = true
			break
		}
	}
	if !hasCode {
		return nil, nil
	}
	project, err := parser.ParseSource(source)
	if err != nil {
		return nil, err
	}
	return project.Targets, nil
}

func validateImportedFile(spec importSpec, sourcePath, childPath string, localTargets []*ast.Target) error {
	var sprites []*ast.Target
	hasStage := false
	for _, target := range localTargets {
		if target.IsStage {
			hasStage = true
			continue
		}
		sprites = append(sprites, target)
	}
	if len(sprites) == 0 {
		return &Error{Message: fmt.Sprintf(
			"imported file '%s' defines zero sprites; expected exactly one (imported from '%s', line %d)",
			childPath, sourcePath, spec.line)}
	}
	if len(sprites) > 1 {
		return &Error{Message: fmt.Sprintf(
			"imported file '%s' defines more than one sprite; expected exactly one (imported from '%s', line %d)",
			childPath, sourcePath, spec.line)}
	}
	if hasStage {
		return &Error{Message: fmt.Sprintf(
			"imported file '%s' must not define a stage (imported from '%s', line %d)",
			childPath, sourcePath, spec.line)}
	}
	actual := sprites[0].Name
	if actual != spec.spriteName {
		return &Error{Message: fmt.Sprintf(
			"imported sprite name mismatch in '%s', line %d: expected '%s', file defines '%s'",
			sourcePath, spec.line, spec.spriteName, actual)}
	}
	return nil
}

func ensureUniqueSpriteNames(targets []*ast.Target) error {
	seen := make(map[string]string)
	for _, target := range targets {
		if target.IsStage {
			continue
		}
		lowered := strings.ToLower(target.Name)
		if _, ok := seen[lowered]; ok {
			return &Error{Message: "duplicate sprite name in final project: '" + target.Name + "'"}
		}
		seen[lowered] = target.Name
	}
	return nil
}

// normalizeTargetAssetPaths rewrites each relative costume path to an
// absolute one, trying source_dir, source_dir/.., then cwd in turn and
// keeping the first that exists on disk (or the first candidate, if
// none do).
func normalizeTargetAssetPaths(targets []*ast.Target, sourceDir string) {
	cwd, _ := os.Getwd()
	for _, target := range targets {
		for _, costume := range target.Costumes {
			if filepath.IsAbs(costume.Path) {
				continue
			}
			candidates := []string{
				filepath.Join(sourceDir, costume.Path),
				filepath.Join(filepath.Dir(sourceDir), costume.Path),
				filepath.Join(cwd, costume.Path),
			}
			chosen := candidates[0]
			for _, candidate := range candidates {
				if _, err := os.Stat(candidate); err == nil {
					chosen = candidate
					break
				}
			}
			costume.Path = chosen
		}
	}
}

func isBlankOrComment(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.HasPrefix(trimmed, "#")
}
