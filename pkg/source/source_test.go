package source

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return root
}

func TestDiscover(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"main.go":           "package main",
		"README.md":         "# readme",
		"pkg/util/util.go":  "package util",
		"vendor/dep/dep.go": "package dep",
		".git/config":       "[core]",
	})

	items, err := Discover(root, "*.go", []string{"vendor"})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	want := []string{"main.go", filepath.Join("pkg", "util", "util.go")}
	if !reflect.DeepEqual(items, want) {
		t.Errorf("items = %v, want %v", items, want)
	}
}

func TestDiscoverNoPattern(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"a.go":  "a",
		"b.txt": "b",
	})

	items, err := Discover(root, "", nil)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("items = %v, want both files", items)
	}
}

func TestDiscoverRootMustBeDirectory(t *testing.T) {
	root := writeFiles(t, map[string]string{"a.go": "a"})

	if _, err := Discover(filepath.Join(root, "a.go"), "", nil); err == nil {
		t.Fatal("expected error for file root")
	}
	if _, err := Discover(filepath.Join(root, "absent"), "", nil); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestDiscoverInvalidPattern(t *testing.T) {
	root := writeFiles(t, map[string]string{"a.go": "a"})

	if _, err := Discover(root, "[", nil); err == nil {
		t.Fatal("expected error for malformed pattern")
	}
}

func TestFileLoaderLoad(t *testing.T) {
	root := writeFiles(t, map[string]string{"a.go": "package a"})
	loader := &FileLoader{Root: root}

	content, err := loader.Load(context.Background(), "a.go")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if content != "package a" {
		t.Errorf("content = %q", content)
	}
}

func TestFileLoaderSizeLimit(t *testing.T) {
	root := writeFiles(t, map[string]string{"big.go": strings.Repeat("x", 100)})
	loader := &FileLoader{Root: root, MaxBytes: 10}

	if _, err := loader.Load(context.Background(), "big.go"); err == nil {
		t.Fatal("expected error for oversized file")
	}
}

func TestFileLoaderRejectsBinary(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "blob"), []byte{0xff, 0xfe, 0x00}, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	loader := &FileLoader{Root: root}

	if _, err := loader.Load(context.Background(), "blob"); err == nil {
		t.Fatal("expected error for non-UTF-8 file")
	}
}

func TestFileLoaderMissingFile(t *testing.T) {
	loader := &FileLoader{Root: t.TempDir()}

	if _, err := loader.Load(context.Background(), "absent.go"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFileLoaderCancelledContext(t *testing.T) {
	root := writeFiles(t, map[string]string{"a.go": "package a"})
	loader := &FileLoader{Root: root}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := loader.Load(ctx, "a.go"); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
