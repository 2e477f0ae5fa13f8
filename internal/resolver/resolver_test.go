package resolver_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sbtext-lang/sbtextc/internal/resolver"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestResolveFile_MergesImportsBeforeLocalTargets(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cat.sbtext", "sprite \"Cat\"\nend\n")
	entry := writeFile(t, dir, "main.sbtext", "import [Cat] from \"cat.sbtext\"\nstage\nend\n")

	project, err := resolver.ResolveFile(entry)
	if err != nil {
		t.Fatalf("ResolveFile returned error: %v", err)
	}
	if len(project.Targets) != 2 {
		t.Fatalf("expected 2 targets, got %d", len(project.Targets))
	}
	if project.Targets[0].Name != "Cat" || project.Targets[0].IsStage {
		t.Fatalf("expected imported sprite 'Cat' first, got %+v", project.Targets[0])
	}
	if !project.Targets[1].IsStage {
		t.Fatalf("expected local stage second, got %+v", project.Targets[1])
	}
}

func TestResolveFile_DetectsCircularImport(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.sbtext", "import [A] from \"a.sbtext\"\nsprite \"B\"\nend\n")
	entry := writeFile(t, dir, "a.sbtext", "import [B] from \"b.sbtext\"\nsprite \"A\"\nend\n")

	_, err := resolver.ResolveFile(entry)
	if err == nil {
		t.Fatalf("expected a circular import error")
	}
	if !strings.Contains(err.Error(), "Circular import") && !strings.Contains(err.Error(), "circular import") {
		t.Fatalf("expected a circular-import message, got: %v", err)
	}
}

func TestResolveFile_RejectsImportAfterTopLevelCode(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.sbtext",
		"sprite \"A\"\nend\nimport [B] from \"b.sbtext\"\n")

	_, err := resolver.ResolveFile(entry)
	if err == nil {
		t.Fatalf("expected an error for an import after top-level code")
	}
}

func TestResolveFile_RejectsSpriteNameMismatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cat.sbtext", "sprite \"Cat\"\nend\n")
	entry := writeFile(t, dir, "main.sbtext", "import [Dog] from \"cat.sbtext\"\nstage\nend\n")

	_, err := resolver.ResolveFile(entry)
	if err == nil {
		t.Fatalf("expected a sprite-name-mismatch error")
	}
}

func TestResolveFile_RejectsMissingImportedFile(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.sbtext", "import [Cat] from \"missing.sbtext\"\nstage\nend\n")

	_, err := resolver.ResolveFile(entry)
	if err == nil {
		t.Fatalf("expected an error for a missing imported file")
	}
}

func TestResolveFile_NormalizesRelativeCostumePaths(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cat.svg", "<svg></svg>")
	entry := writeFile(t, dir, "main.sbtext",
		"sprite \"Cat\"\ncostume \"cat.svg\"\nend\n")

	project, err := resolver.ResolveFile(entry)
	if err != nil {
		t.Fatalf("ResolveFile returned error: %v", err)
	}
	costumePath := project.Targets[0].Costumes[0].Path
	if !filepath.IsAbs(costumePath) {
		t.Fatalf("expected an absolute costume path, got %q", costumePath)
	}
	if filepath.Base(costumePath) != "cat.svg" {
		t.Fatalf("expected costume path to end in cat.svg, got %q", costumePath)
	}
	if _, err := os.Stat(costumePath); err != nil {
		t.Fatalf("normalized costume path does not exist: %v", err)
	}
}

func TestResolveFile_EntryFileNotFoundIsError(t *testing.T) {
	if _, err := resolver.ResolveFile(filepath.Join(t.TempDir(), "missing.sbtext")); err == nil {
		t.Fatalf("expected an error for a missing entry file")
	}
}
