package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Link.LinkThreshold != 0.944 || cfg.Link.MergeThreshold != 0.955 {
		t.Fatalf("unexpected default thresholds: %+v", cfg.Link)
	}
	if cfg.Link.TopK != 5 {
		t.Fatalf("default top_k = %d, want 5", cfg.Link.TopK)
	}
	if len(cfg.Keywords.Place) == 0 {
		t.Fatalf("default keywords missing")
	}
}

func TestLoadOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	data := `
regio:
  performances: data/recite.csv
  separator: ";"
link:
  merge_threshold: 0.99
keywords:
  building:
    - edificio della
    - teatro di
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Regio.Performances != "data/recite.csv" {
		t.Fatalf("performances = %q", cfg.Regio.Performances)
	}
	if cfg.Regio.Comma() != ';' {
		t.Fatalf("separator rune = %q, want ';'", cfg.Regio.Comma())
	}
	if cfg.Link.MergeThreshold != 0.99 {
		t.Fatalf("merge_threshold = %v, want 0.99", cfg.Link.MergeThreshold)
	}
	// Untouched defaults survive the overlay.
	if cfg.Link.LinkThreshold != 0.944 {
		t.Fatalf("link_threshold = %v, want default 0.944", cfg.Link.LinkThreshold)
	}
	if len(cfg.Keywords.Building) != 2 {
		t.Fatalf("building keywords = %v", cfg.Keywords.Building)
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
