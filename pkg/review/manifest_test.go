package review

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, `name: strict-review
description: A stricter two-stage pipeline.
stages:
  - name: correctness
    instructions: Hunt for logic errors.
  - name: verdict
    instructions: Deliver a final recommendation.
`)

	p, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if p.Name() != "strict-review" {
		t.Errorf("name = %q, want strict-review", p.Name())
	}
	if p.Len() != 2 {
		t.Fatalf("stage count = %d, want 2", p.Len())
	}
	stages := p.Stages()
	if stages[0].Name != "correctness" || stages[1].Name != "verdict" {
		t.Errorf("stage order = %s, %s", stages[0].Name, stages[1].Name)
	}
	if stages[1].Instructions != "Deliver a final recommendation." {
		t.Errorf("instructions = %q", stages[1].Instructions)
	}
}

func TestLoadManifestInvalidYAML(t *testing.T) {
	path := writeManifest(t, "stages: [unclosed")

	if _, err := LoadManifest(path); err == nil {
		t.Fatal("expected parse error, got nil")
	}
}

func TestLoadManifestInvalidPipeline(t *testing.T) {
	path := writeManifest(t, `name: empty
stages: []
`)

	if _, err := LoadManifest(path); err == nil {
		t.Fatal("expected validation error, got nil")
	}
}

func TestLoadManifestMissingFile(t *testing.T) {
	if _, err := LoadManifest(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}
