// Package specialist defines the fixed set of analysis facets that examine
// the corpus: each facet becomes one task spec carrying its prompt and the
// structural validation for the payload it expects back.
package specialist

import (
	"fmt"
	"strings"

	"codescope/internal/analyzer"
	"codescope/internal/catalog"
	"codescope/internal/chunker"
	"codescope/internal/task"
)

// maxChunkPromptChars caps how much of a chunk's content is inlined into a
// prompt. Oversized chunks are truncated with a marker, not rejected.
const maxChunkPromptChars = 15_000

// facet describes one specialist analysis dimension.
type facet struct {
	name     string
	category string
	system   string
	required []string // top-level payload fields that must be present
}

var facets = []facet{
	{"technology_detection", "technology", technologySystem, []string{"primary_technology"}},
	{"code_quality", "quality", qualitySystem, []string{"quality_scores"}},
	{"architecture_dataflow", "architecture", architectureSystem, []string{"architecture_pattern"}},
	{"file_structure", "structure", structureSystem, []string{"organization_assessment"}},
	{"business_context", "business", businessSystem, []string{"business_purpose"}},
	{"performance_analysis", "performance", performanceSystem, []string{"performance_assessment"}},
}

// Names returns the task names of all facets, in definition order.
func Names() []string {
	names := make([]string, len(facets))
	for i, f := range facets {
		names[i] = f.name
	}
	return names
}

// Specs builds one task spec per facet over the given context and chunks.
func Specs(pctx catalog.ProjectContext, chunks []chunker.Chunk, maxTokens int) []task.Spec {
	content := formatChunks(chunks)

	specs := make([]task.Spec, len(facets))
	for i, f := range facets {
		specs[i] = task.Spec{
			Name:     f.name,
			Category: f.category,
			Request: analyzer.Request{
				Task:      f.name,
				System:    f.system,
				Prompt:    userPrompt(pctx, content),
				MaxTokens: maxTokens,
			},
			Validate: requireFields(f.required...),
		}
	}
	return specs
}

func userPrompt(pctx catalog.ProjectContext, content string) string {
	return fmt.Sprintf(userPromptTemplate,
		pctx.Name,
		pctx.TotalFiles,
		pctx.TotalSizeChars,
		pctx.PrimaryCategory,
		strings.Join(pctx.Categories, ", "),
		pctx.Classification,
		content,
	)
}

// formatChunks renders every chunk with a header, capping each chunk's
// content so a single oversized chunk cannot blow the prompt budget.
func formatChunks(chunks []chunker.Chunk) string {
	sep := strings.Repeat("=", 60)
	var sb strings.Builder
	for _, c := range chunks {
		fmt.Fprintf(&sb, "\n%s\nCHUNK: %s (%d files)\n%s\n", sep, c.ID, c.FileCount, sep)
		if len(c.Content) > maxChunkPromptChars {
			sb.WriteString(c.Content[:maxChunkPromptChars])
			fmt.Fprintf(&sb, "\n... [CONTENT TRUNCATED - total %d chars]\n", c.SizeChars)
		} else {
			sb.WriteString(c.Content)
		}
	}
	return sb.String()
}

// requireFields validates that each named field is present and non-empty.
func requireFields(fields ...string) func(map[string]any) error {
	return func(payload map[string]any) error {
		for _, field := range fields {
			v, ok := payload[field]
			if !ok || v == nil {
				return fmt.Errorf("missing required field %q", field)
			}
			if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
				return fmt.Errorf("required field %q is empty", field)
			}
		}
		return nil
	}
}
