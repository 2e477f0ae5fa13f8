package asset_test

import (
	"archive/zip"
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sbtext-lang/sbtextc/internal/asset"
	"github.com/sbtext-lang/sbtextc/internal/ast"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", path, err)
	}
	return path
}

func TestBuildCostumes_SynthesizesDefaultBackdropForStage(t *testing.T) {
	p := asset.NewPackager(true)
	target := &ast.Target{Name: "Stage", IsStage: true}

	costumes, err := p.BuildCostumes(target, t.TempDir())
	if err != nil {
		t.Fatalf("BuildCostumes returned error: %v", err)
	}
	if len(costumes) != 1 {
		t.Fatalf("expected one synthesized backdrop, got %d", len(costumes))
	}
	if costumes[0].DataFormat != "svg" {
		t.Fatalf("expected synthesized backdrop to be svg, got %q", costumes[0].DataFormat)
	}
}

func TestBuildCostumes_SynthesizesDefaultCostumeForSprite(t *testing.T) {
	p := asset.NewPackager(true)
	target := &ast.Target{Name: "Cat", IsStage: false}

	costumes, err := p.BuildCostumes(target, t.TempDir())
	if err != nil {
		t.Fatalf("BuildCostumes returned error: %v", err)
	}
	if len(costumes) != 1 || costumes[0].Name != "costume1" {
		t.Fatalf("expected one synthesized costume named costume1, got %+v", costumes)
	}
}

func TestBuildCostumes_ContentAddressesDeclaredSVG(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cat.svg", `<svg viewBox="0 0 100 100"><rect/></svg>`)

	p := asset.NewPackager(false)
	target := &ast.Target{
		Name:     "Cat",
		Costumes: []*ast.CostumeDecl{{Path: "cat.svg"}},
	}

	costumes, err := p.BuildCostumes(target, dir)
	if err != nil {
		t.Fatalf("BuildCostumes returned error: %v", err)
	}
	if len(costumes) != 1 {
		t.Fatalf("expected one costume, got %d", len(costumes))
	}
	digest := md5.Sum(costumes[0].Data)
	wantID := hex.EncodeToString(digest[:])
	if costumes[0].AssetID != wantID {
		t.Fatalf("expected asset id %s to be the md5 of the packaged bytes, got %s", wantID, costumes[0].AssetID)
	}
	if costumes[0].Md5Ext != wantID+".svg" {
		t.Fatalf("expected md5ext %s.svg, got %s", wantID, costumes[0].Md5Ext)
	}
}

func TestBuildCostumes_UnsupportedExtensionRejected(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cat.gif", "not really a gif")

	p := asset.NewPackager(true)
	target := &ast.Target{Name: "Cat", Costumes: []*ast.CostumeDecl{{Path: "cat.gif"}}}

	if _, err := p.BuildCostumes(target, dir); err == nil {
		t.Fatalf("expected an error for an unsupported costume extension")
	}
}

func TestBuildCostumes_MissingFileReportsTargetAndPath(t *testing.T) {
	p := asset.NewPackager(true)
	target := &ast.Target{Name: "Cat", Costumes: []*ast.CostumeDecl{{Path: "missing.svg"}}}

	_, err := p.BuildCostumes(target, t.TempDir())
	if err == nil {
		t.Fatalf("expected an error for a missing costume file")
	}
	if msg := err.Error(); !strings.Contains(msg, "Cat") || !strings.Contains(msg, "missing.svg") {
		t.Fatalf("expected the error to name the target and the costume path, got %q", msg)
	}
}

func TestBuildCostumes_PNGGetsBitmapResolution(t *testing.T) {
	dir := t.TempDir()
	// a minimal valid PNG header is unnecessary; buildOne never decodes
	// pixel data, only the extension and raw bytes.
	writeFile(t, dir, "cat.png", "not actually decoded")

	p := asset.NewPackager(true)
	target := &ast.Target{Name: "Cat", Costumes: []*ast.CostumeDecl{{Path: "cat.png"}}}

	costumes, err := p.BuildCostumes(target, dir)
	if err != nil {
		t.Fatalf("BuildCostumes returned error: %v", err)
	}
	if costumes[0].BitmapResolution == nil || *costumes[0].BitmapResolution != 1 {
		t.Fatalf("expected a bitmap resolution of 1 for a png costume, got %v", costumes[0].BitmapResolution)
	}
}

func TestBuildCostumes_ScaleDisabledLeavesSVGUnchanged(t *testing.T) {
	dir := t.TempDir()
	source := `<svg viewBox="0 0 10 10"><rect/></svg>`
	writeFile(t, dir, "cat.svg", source)

	p := asset.NewPackager(false)
	target := &ast.Target{Name: "Cat", Costumes: []*ast.CostumeDecl{{Path: "cat.svg"}}}

	costumes, err := p.BuildCostumes(target, dir)
	if err != nil {
		t.Fatalf("BuildCostumes returned error: %v", err)
	}
	if string(costumes[0].Data) != source {
		t.Fatalf("expected unscaled SVG bytes to pass through unchanged, got %q", costumes[0].Data)
	}
	if costumes[0].RotationCenterX != 5 || costumes[0].RotationCenterY != 5 {
		t.Fatalf("expected rotation center at the artwork midpoint (5,5), got (%v,%v)", costumes[0].RotationCenterX, costumes[0].RotationCenterY)
	}
}

func TestBuildCostumes_ScaleEnabledRetargetsViewBox(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cat.svg", `<svg viewBox="10 10 20 20"><rect/></svg>`)

	p := asset.NewPackager(true)
	target := &ast.Target{Name: "Cat", Costumes: []*ast.CostumeDecl{{Path: "cat.svg"}}}

	costumes, err := p.BuildCostumes(target, dir)
	if err != nil {
		t.Fatalf("BuildCostumes returned error: %v", err)
	}
	if costumes[0].RotationCenterX != 32 || costumes[0].RotationCenterY != 32 {
		t.Fatalf("expected a rotation center of (32,32) after retargeting to a 64x64 viewBox, got (%v,%v)",
			costumes[0].RotationCenterX, costumes[0].RotationCenterY)
	}
	if !bytes.Contains(costumes[0].Data, []byte(`viewBox="0 0 64 64"`)) {
		t.Fatalf("expected the rewritten SVG to carry a 0 0 64 64 viewBox, got %s", costumes[0].Data)
	}
	if !bytes.Contains(costumes[0].Data, []byte("translate(-10 -10)")) {
		t.Fatalf("expected the rewritten SVG to translate out the original viewBox origin, got %s", costumes[0].Data)
	}
}

func TestBuildCostumes_NoViewBoxFallsBackToWidthHeight(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cat.svg", `<svg width="200" height="100"><rect/></svg>`)

	p := asset.NewPackager(false)
	target := &ast.Target{Name: "Cat", Costumes: []*ast.CostumeDecl{{Path: "cat.svg"}}}

	costumes, err := p.BuildCostumes(target, dir)
	if err != nil {
		t.Fatalf("BuildCostumes returned error: %v", err)
	}
	if costumes[0].RotationCenterX != 100 || costumes[0].RotationCenterY != 50 {
		t.Fatalf("expected rotation center (100,50) from width/height, got (%v,%v)",
			costumes[0].RotationCenterX, costumes[0].RotationCenterY)
	}
}

func TestBuildCostumes_NoBoundsAtAllDefaultsTo64Square(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cat.svg", `<svg><rect/></svg>`)

	p := asset.NewPackager(false)
	target := &ast.Target{Name: "Cat", Costumes: []*ast.CostumeDecl{{Path: "cat.svg"}}}

	costumes, err := p.BuildCostumes(target, dir)
	if err != nil {
		t.Fatalf("BuildCostumes returned error: %v", err)
	}
	if costumes[0].RotationCenterX != 32 || costumes[0].RotationCenterY != 32 {
		t.Fatalf("expected a default 64x64 fallback to center at (32,32), got (%v,%v)",
			costumes[0].RotationCenterX, costumes[0].RotationCenterY)
	}
}

// buildFixtureProjectJSON assembles a minimal project.json byte slice
// with sjson instead of a map literal, building the document one path
// at a time.
func buildFixtureProjectJSON(t *testing.T) []byte {
	t.Helper()
	doc := []byte(`{}`)
	var err error
	doc, err = sjson.SetBytes(doc, "targets.0.name", "Stage")
	if err != nil {
		t.Fatalf("sjson.SetBytes failed: %v", err)
	}
	doc, err = sjson.SetBytes(doc, "targets.0.isStage", true)
	if err != nil {
		t.Fatalf("sjson.SetBytes failed: %v", err)
	}
	doc, err = sjson.SetBytes(doc, "targets.1.name", "Cat")
	if err != nil {
		t.Fatalf("sjson.SetBytes failed: %v", err)
	}
	doc, err = sjson.SetBytes(doc, "targets.1.isStage", false)
	if err != nil {
		t.Fatalf("sjson.SetBytes failed: %v", err)
	}
	return doc
}

func TestWriteArchiveTo_RoundTripsProjectJSONAndAssets(t *testing.T) {
	fixture := buildFixtureProjectJSON(t)
	assets := map[string][]byte{
		"deadbeef.svg": []byte("<svg/>"),
	}

	var buf bytes.Buffer
	if err := asset.WriteArchiveTo(&buf, json.RawMessage(fixture), assets); err != nil {
		t.Fatalf("WriteArchiveTo returned error: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("archive is not a valid zip: %v", err)
	}

	var gotProjectJSON, gotAsset []byte
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("failed to open archive entry %s: %v", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("failed to read archive entry %s: %v", f.Name, err)
		}
		switch f.Name {
		case "project.json":
			gotProjectJSON = content
		case "deadbeef.svg":
			gotAsset = content
		}
	}

	if gotAsset == nil || string(gotAsset) != "<svg/>" {
		t.Fatalf("expected the asset entry to round-trip unchanged, got %q", gotAsset)
	}
	if name := gjson.GetBytes(gotProjectJSON, "targets.0.name").String(); name != "Stage" {
		t.Fatalf("expected the stage target to round-trip into project.json, got name %q", name)
	}
	if name := gjson.GetBytes(gotProjectJSON, "targets.1.name").String(); name != "Cat" {
		t.Fatalf("expected the sprite target to round-trip into project.json, got name %q", name)
	}
}

func TestWriteArchive_CreatesOutputDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	outputPath := filepath.Join(dir, "project.sb3")

	fixture := buildFixtureProjectJSON(t)
	if err := asset.WriteArchive(json.RawMessage(fixture), nil, outputPath); err != nil {
		t.Fatalf("WriteArchive returned error: %v", err)
	}
	if _, err := os.Stat(outputPath); err != nil {
		t.Fatalf("expected the archive to exist at %s: %v", outputPath, err)
	}
}
