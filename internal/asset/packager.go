// Package asset turns a target's costume declarations into packaged,
// content-addressed Scratch assets, and bundles a finished project
// into a .sb3 archive.
package asset

import (
	"archive/zip"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sbtext-lang/sbtextc/internal/ast"
	"github.com/sbtext-lang/sbtextc/internal/codegen"
)

const defaultStageSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="480" height="360" viewBox="0 0 480 360"><rect width="480" height="360" fill="#ffffff"/></svg>`
const defaultSpriteSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="96" height="96" viewBox="0 0 96 96"><circle cx="48" cy="48" r="40" fill="#4c97ff"/></svg>`

// Packager implements codegen.CostumeBuilder by reading costume files
// from disk, normalizing SVGs, and content-addressing the result.
type Packager struct {
	ScaleSVGs bool
}

func NewPackager(scaleSVGs bool) *Packager {
	return &Packager{ScaleSVGs: scaleSVGs}
}

var _ codegen.CostumeBuilder = (*Packager)(nil)

// BuildCostumes resolves target's declared costumes against sourceDir
// (or synthesizes a single default backdrop/costume when none were
// declared) and returns their packaged form.
func (p *Packager) BuildCostumes(target *ast.Target, sourceDir string) ([]codegen.CostumeAsset, error) {
	declared := target.Costumes
	if len(declared) == 0 {
		declared = []*ast.CostumeDecl{{Path: defaultCostumePlaceholder(target)}}
	}

	assets := make([]codegen.CostumeAsset, 0, len(declared))
	for idx, costume := range declared {
		asset, err := p.buildOne(target, costume, idx+1, sourceDir)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	return assets, nil
}

func defaultCostumePlaceholder(target *ast.Target) string {
	if target.IsStage {
		return "__default_stage_backdrop__.svg"
	}
	return "__default_sprite_costume__.svg"
}

func (p *Packager) buildOne(target *ast.Target, costume *ast.CostumeDecl, index int, sourceDir string) (codegen.CostumeAsset, error) {
	var data []byte
	var ext, name string

	switch costume.Path {
	case "__default_stage_backdrop__.svg":
		data = []byte(defaultStageSVG)
		ext = "svg"
		name = "backdrop" + strconv.Itoa(index)
	case "__default_sprite_costume__.svg":
		data = []byte(defaultSpriteSVG)
		ext = "svg"
		name = "costume" + strconv.Itoa(index)
	default:
		resolved, err := resolveCostumePath(costume.Path, sourceDir)
		if err != nil {
			return codegen.CostumeAsset{}, err
		}
		ext = strings.ToLower(strings.TrimPrefix(filepath.Ext(resolved), "."))
		if ext != "svg" && ext != "png" {
			return codegen.CostumeAsset{}, errf("unsupported costume format '.%s' for '%s'; only .svg and .png are supported", ext, resolved)
		}
		read, err := os.ReadFile(resolved)
		if err != nil {
			return codegen.CostumeAsset{}, errf("costume file not found for target '%s': '%s' resolved to '%s'", target.Name, costume.Path, resolved)
		}
		data = read
		name = strings.TrimSuffix(filepath.Base(resolved), filepath.Ext(resolved))
	}

	rotationCenterX, rotationCenterY := 0.0, 0.0
	if ext == "svg" {
		normalized, rcx, rcy, err := prepareSVG(data, p.ScaleSVGs)
		if err != nil {
			return codegen.CostumeAsset{}, err
		}
		data, rotationCenterX, rotationCenterY = normalized, rcx, rcy
	}

	digest := md5.Sum(data)
	assetID := hex.EncodeToString(digest[:])
	md5ext := fmt.Sprintf("%s.%s", assetID, ext)

	asset := codegen.CostumeAsset{
		Name:            name,
		AssetID:         assetID,
		Md5Ext:          md5ext,
		DataFormat:      ext,
		RotationCenterX: rotationCenterX,
		RotationCenterY: rotationCenterY,
		Data:            data,
	}
	if ext == "png" {
		resolution := 1
		asset.BitmapResolution = &resolution
	}
	return asset, nil
}

// resolveCostumePath returns an absolute path unchanged. A relative
// path is tried against the source directory, its parent, and the
// current working directory — the first that exists wins, and the
// source-directory candidate is returned when none does — matching how the import resolver
// already normalizes costume paths relative to the file that declared
// them.
func resolveCostumePath(path, sourceDir string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}
	candidates := []string{filepath.Join(sourceDir, path)}
	candidates = append(candidates, filepath.Join(filepath.Dir(sourceDir), path))
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, path))
	}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return candidates[0], nil
}

// WriteArchiveTo bundles projectJSON and its assets into a .sb3 archive
// (a zip stream) written to w.
func WriteArchiveTo(w io.Writer, projectJSON interface{}, assets map[string][]byte) error {
	encoded, err := json.MarshalIndent(projectJSON, "", "  ")
	if err != nil {
		return errf("failed to encode project.json: %v", err)
	}

	zw := zip.NewWriter(w)
	projectWriter, err := zw.Create("project.json")
	if err != nil {
		return errf("failed to write project.json: %v", err)
	}
	if _, err := projectWriter.Write(encoded); err != nil {
		return errf("failed to write project.json: %v", err)
	}
	for name, data := range assets {
		assetWriter, err := zw.Create(name)
		if err != nil {
			return errf("failed to write asset '%s': %v", name, err)
		}
		if _, err := assetWriter.Write(data); err != nil {
			return errf("failed to write asset '%s': %v", name, err)
		}
	}
	return zw.Close()
}

// WriteArchive bundles projectJSON and its assets into a .sb3 file at
// outputPath, creating its parent directory if necessary.
func WriteArchive(projectJSON interface{}, assets map[string][]byte, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return errf("failed to create output directory: %v", err)
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return errf("failed to create '%s': %v", outputPath, err)
	}
	defer file.Close()
	return WriteArchiveTo(file, projectJSON, assets)
}
