package sbtext

import (
	"bytes"

	"github.com/sbtext-lang/sbtextc/internal/asset"
)

// Program is a compiled project: the project.json document and every
// asset file it references, keyed by md5ext filename.
type Program struct {
	json   map[string]interface{}
	assets map[string][]byte
}

// JSON returns the project's decoded project.json document.
func (p *Program) JSON() map[string]interface{} { return p.json }

// Assets returns the project's packaged asset files, keyed by their
// content-addressed md5ext filename.
func (p *Program) Assets() map[string][]byte { return p.assets }

// WriteArchive serializes the program as a .sb3 file at path.
func (p *Program) WriteArchive(path string) error {
	return asset.WriteArchive(p.json, p.assets, path)
}

// Bytes serializes the program to an in-memory .sb3 archive.
func (p *Program) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := asset.WriteArchiveTo(&buf, p.json, p.assets); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
