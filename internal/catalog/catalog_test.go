package catalog

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuildContext_PrimaryCategory(t *testing.T) {
	files := []FileRecord{
		{Path: "main.go", Size: 100, Category: "GO"},
		{Path: "lib.py", Size: 5000, Category: "PYTHON"},
		{Path: "util.py", Size: 2000, Category: "PYTHON"},
		{Path: "schema.sql", Size: 300, Category: "SQL"},
	}

	ctx := BuildContext("demo", "/tmp/demo", files)

	if ctx.PrimaryCategory != "PYTHON" {
		t.Errorf("primary category = %q, want PYTHON", ctx.PrimaryCategory)
	}
	if ctx.TotalFiles != 4 {
		t.Errorf("total files = %d, want 4", ctx.TotalFiles)
	}
	if ctx.TotalSizeChars != 7400 {
		t.Errorf("total size = %d, want 7400", ctx.TotalSizeChars)
	}
	want := []string{"GO", "PYTHON", "SQL"}
	if diff := cmp.Diff(want, ctx.Categories); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildContext_Classification(t *testing.T) {
	tests := []struct {
		name  string
		paths []string
		want  string
	}{
		{
			name:  "analytics keywords",
			paths: []string{"etl/load.py", "data/transform.py", "pipeline/run.py"},
			want:  "DATA_ANALYTICS",
		},
		{
			name:  "web keywords",
			paths: []string{"frontend/index.js", "backend/api/server.js"},
			want:  "WEB_APPLICATION",
		},
		{
			name:  "no keywords",
			paths: []string{"foo.go", "bar.go"},
			want:  "GENERAL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var files []FileRecord
			for _, p := range tt.paths {
				files = append(files, FileRecord{Path: p, Size: 10})
			}
			ctx := BuildContext("x", "/x", files)
			if ctx.Classification != tt.want {
				t.Errorf("classification = %q, want %q", ctx.Classification, tt.want)
			}
		})
	}
}

func TestTargetChunks(t *testing.T) {
	tests := []struct {
		name  string
		files []FileRecord
		want  int
	}{
		{
			name:  "small project stays whole",
			files: makeFiles(10, 5_000, 1),
			want:  1,
		},
		{
			name:  "medium project splits in two",
			files: makeFiles(50, 8_000, 2),
			want:  2,
		},
		{
			name:  "large project capped at four",
			files: makeFiles(200, 4_000, 6),
			want:  4,
		},
		{
			name:  "huge corpus gets at least three",
			files: makeFiles(30, 40_000, 1), // 1.2M chars, shallow tree
			want:  3,
		},
		{
			name:  "empty input",
			files: nil,
			want:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TargetChunks(tt.files); got != tt.want {
				t.Errorf("TargetChunks = %d, want %d", got, tt.want)
			}
		})
	}
}

// makeFiles builds n records of the given size nested depth directories deep.
func makeFiles(n, size, depth int) []FileRecord {
	files := make([]FileRecord, n)
	prefix := strings.Repeat("d/", depth-1)
	for i := range files {
		files[i] = FileRecord{
			Path: prefix + "f.go",
			Size: size,
		}
	}
	return files
}
