// Package config loads the optional YAML file that supplies defaults
// for sbtextc's CLI flags.
package config

import (
	"os"

	"github.com/goccy/go-yaml"
)

// Config holds the settings a config file can supply. The compile
// command reads only ScaleSVGs, and --no-svg-scale wins over it;
// AssetSearchRoots and Indent are parsed but nothing in the compiler
// reads them.
type Config struct {
	ScaleSVGs        bool     `yaml:"scaleSVGs"`
	AssetSearchRoots []string `yaml:"assetSearchRoots"`
	Indent           int      `yaml:"indent"`
}

// Default returns the built-in configuration used when no --config
// file is given.
func Default() *Config {
	return &Config{
		ScaleSVGs:        true,
		AssetSearchRoots: []string{".", "assets"},
		Indent:           2,
	}
}

// Load reads and parses path, filling in any field the file omits
// with the built-in default for that field.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
