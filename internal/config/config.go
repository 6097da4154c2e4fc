// Package config carries the pipeline tunables: input table locations, the
// role-keyword sets driving sub-record routing, and the similarity
// thresholds of the cross-source linker. Values come from a YAML file
// overlaid on defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/elena2notti/theatreNet/internal/extract"
)

// Source names the input tables of one archive. ProductionLinks is the
// companion production-links export and only the Fondazione archive has
// one. Places is an optional (building, city) → Wikidata mapping table used
// to enrich performances whose export carries no reference.
type Source struct {
	Performances    string `yaml:"performances"`
	Productions     string `yaml:"productions"`
	ProductionLinks string `yaml:"production_links"`
	Seasons         string `yaml:"seasons"`
	People          string `yaml:"people"`
	Works           string `yaml:"works"`
	Places          string `yaml:"places"`
	Separator       string `yaml:"separator"`
}

// Comma returns the source's field separator as a rune, defaulting to ','.
func (s Source) Comma() rune {
	for _, r := range s.Separator {
		return r
	}
	return ','
}

// Link holds the similarity linker tunables.
type Link struct {
	TopK           int     `yaml:"top_k"`
	LinkThreshold  float64 `yaml:"link_threshold"`
	MergeThreshold float64 `yaml:"merge_threshold"`
	Dimension      int     `yaml:"dimension"`
	BatchSize      int     `yaml:"batch_size"`
}

// Config is the full pipeline configuration.
type Config struct {
	Regio      Source           `yaml:"regio"`
	Fondazione Source           `yaml:"fondazione"`
	OutputDir  string           `yaml:"output_dir"`
	Keywords   extract.Keywords `yaml:"keywords"`
	Link       Link             `yaml:"link"`
}

// Default returns the configuration used when no file overrides it.
func Default() Config {
	return Config{
		OutputDir: "out",
		Keywords:  extract.DefaultKeywords(),
		Link: Link{
			TopK:           5,
			LinkThreshold:  0.944,
			MergeThreshold: 0.955,
			Dimension:      1536,
			BatchSize:      100,
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}
