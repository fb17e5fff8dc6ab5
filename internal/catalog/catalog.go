// Package catalog discovers the files of a project and derives the
// read-only project context shared by every analysis task.
package catalog

import (
	"sort"
	"strings"
)

// FileRecord is one text file of the corpus. Records are created once by
// discovery and never mutated afterwards.
type FileRecord struct {
	Name      string
	Path      string // relative to the scanned root
	Extension string
	Content   string
	Size      int // content length in chars
	Category  string
}

// ProjectContext is the immutable project metadata shared by all tasks.
type ProjectContext struct {
	Name            string   `json:"name"`
	Path            string   `json:"path"`
	TotalFiles      int      `json:"total_files"`
	TotalSizeChars  int      `json:"total_size_chars"`
	PrimaryCategory string   `json:"primary_category"`
	Categories      []string `json:"all_categories"`
	Classification  string   `json:"project_classification"`
}

// categoryByExt maps file extensions to a coarse technology category.
var categoryByExt = map[string]string{
	".go":    "GO",
	".py":    "PYTHON",
	".ipynb": "PYTHON",
	".r":     "R",
	".rmd":   "R",
	".sas":   "SAS",
	".m":     "MATLAB",
	".jl":    "JULIA",
	".js":    "JAVASCRIPT",
	".jsx":   "JAVASCRIPT",
	".ts":    "JAVASCRIPT",
	".tsx":   "JAVASCRIPT",
	".mjs":   "JAVASCRIPT",
	".html":  "HTML",
	".htm":   "HTML",
	".css":   "CSS",
	".scss":  "CSS",
	".php":   "PHP",
	".java":  "JAVA",
	".cs":    "CSHARP",
	".rs":    "RUST",
	".c":     "C",
	".h":     "C",
	".cpp":   "CPP",
	".sql":   "SQL",
	".ddl":   "SQL",
	".json":  "JSON",
	".yaml":  "YAML",
	".yml":   "YAML",
	".xml":   "XML",
	".csv":   "CSV",
	".sh":    "SHELL",
	".bash":  "SHELL",
	".ps1":   "POWERSHELL",
	".bat":   "BATCH",
	".md":    "MARKDOWN",
	".txt":   "TEXT",
}

// classificationHints maps a project classification to path keywords that
// suggest it. First classification whose hints score highest wins.
var classificationHints = []struct {
	class string
	hints []string
}{
	{"DATA_ANALYTICS", []string{"data", "analysis", "etl", "pipeline", "warehouse"}},
	{"WEB_APPLICATION", []string{"app", "web", "frontend", "backend", "api"}},
	{"MACHINE_LEARNING", []string{"ml", "model", "train", "predict", "sklearn"}},
	{"ENTERPRISE", []string{"service", "business", "domain", "enterprise"}},
	{"RESEARCH", []string{"research", "experiment", "study", "paper"}},
}

// BuildContext derives the shared project context from a discovered file set.
func BuildContext(name, path string, files []FileRecord) ProjectContext {
	totalSize := 0
	sizeByCategory := make(map[string]int)
	for _, f := range files {
		totalSize += f.Size
		sizeByCategory[f.Category] += f.Size
	}

	categories := make([]string, 0, len(sizeByCategory))
	for cat := range sizeByCategory {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	// Primary category is the one with the most content; ties broken by name
	// so the result is stable.
	primary := ""
	for _, cat := range categories {
		if primary == "" || sizeByCategory[cat] > sizeByCategory[primary] {
			primary = cat
		}
	}

	return ProjectContext{
		Name:            name,
		Path:            path,
		TotalFiles:      len(files),
		TotalSizeChars:  totalSize,
		PrimaryCategory: primary,
		Categories:      categories,
		Classification:  classify(files),
	}
}

func classify(files []FileRecord) string {
	best := "GENERAL"
	bestScore := 0
	for _, c := range classificationHints {
		score := 0
		for _, f := range files {
			lower := strings.ToLower(f.Path)
			for _, hint := range c.hints {
				if strings.Contains(lower, hint) {
					score++
				}
			}
		}
		if score > bestScore {
			best = c.class
			bestScore = score
		}
	}
	return best
}

// Size thresholds for the chunking decision.
const (
	smallMaxFiles  = 20
	smallMaxChars  = 100_000
	mediumMaxFiles = 100
	mediumMaxChars = 500_000
	hugeChars      = 1_000_000
)

// TargetChunks decides how many chunks the corpus should be split into.
// Small projects go whole into a single analysis call; larger ones are
// split proportionally to their size and directory depth, capped at 4,
// with a floor of 3 once the corpus exceeds a million chars.
func TargetChunks(files []FileRecord) int {
	totalChars := 0
	depth := 1
	for _, f := range files {
		totalChars += f.Size
		if d := strings.Count(f.Path, "/") + 1; d > depth {
			depth = d
		}
	}

	target := 1
	switch {
	case len(files) <= smallMaxFiles && totalChars <= smallMaxChars:
		target = 1
	case len(files) <= mediumMaxFiles && totalChars <= mediumMaxChars:
		target = 2
	default:
		target = min(4, depth)
	}

	if totalChars > hugeChars {
		target = max(3, target)
	}
	if target < 1 {
		target = 1
	}
	return target
}
