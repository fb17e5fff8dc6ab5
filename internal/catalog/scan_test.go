package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestScan(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n")
	writeFile(t, root, "docs/readme.md", "# readme\n")
	writeFile(t, root, ".git/config", "[core]\n")
	writeFile(t, root, "node_modules/pkg/index.js", "module.exports = 1\n")
	writeFile(t, root, ".hidden.go", "package hidden\n")
	writeFile(t, root, "image.png", "\x89PNG\r\n")

	files, err := Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d: %+v", len(files), files)
	}
	if files[0].Path != "docs/readme.md" || files[1].Path != "main.go" {
		t.Errorf("unexpected paths: %q, %q", files[0].Path, files[1].Path)
	}
	if files[1].Category != "GO" {
		t.Errorf("category = %q, want GO", files[1].Category)
	}
	if files[1].Content != "package main\n" {
		t.Errorf("content = %q", files[1].Content)
	}
	if files[1].Size != len("package main\n") {
		t.Errorf("size = %d", files[1].Size)
	}
}

func TestScan_BinaryContentSkipped(t *testing.T) {
	root := t.TempDir()
	// Text extension but invalid UTF-8 content.
	if err := os.WriteFile(filepath.Join(root, "blob.txt"), []byte{0xff, 0xfe, 0x00, 0x01}, 0o644); err != nil {
		t.Fatal(err)
	}

	files, err := Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("expected binary file to be skipped, got %+v", files)
	}
}

func TestScan_MissingRoot(t *testing.T) {
	_, err := Scan(context.Background(), filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestScan_Deterministic(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "b.go", "package b\n")
	writeFile(t, root, "a.go", "package a\n")
	writeFile(t, root, "sub/c.go", "package c\n")

	first, err := Scan(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Scan(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}

	if len(first) != len(second) {
		t.Fatalf("scan lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Path != second[i].Path {
			t.Errorf("order differs at %d: %q vs %q", i, first[i].Path, second[i].Path)
		}
	}
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
