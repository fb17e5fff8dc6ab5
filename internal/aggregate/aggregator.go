package aggregate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"codescope/internal/analyzer"
	"codescope/internal/catalog"
	"codescope/internal/task"
)

// digestCapPerTask bounds how much of one specialist payload goes into the
// synthesis prompt.
const digestCapPerTask = 5_000

const synthesisSystem = `You are a senior executive consultant. You synthesize the findings of
several specialist code analysts into one unified assessment with strategic,
prioritized recommendations. Resolve conflicts between specialists using the
project context; base every assessment on the findings you are given. When a
specialist's findings are marked unavailable, work with what remains.

Respond with a single JSON object only — no markdown, no explanations:
{
  "overall_quality_score": 72,
  "dimensional_scores": {
    "functionality": {"score": 85, "reasoning": "..."},
    "documentation": {"score": 45, "reasoning": "..."}
  },
  "architecture_summary": {"pattern": "...", "strengths": ["..."], "concerns": ["..."], "components": ["..."]},
  "business_summary": {"purpose": "...", "scale": "small|medium|large", "criticality": "LOW|MEDIUM|HIGH"},
  "recommendations": [
    {"priority": "HIGH", "category": "...", "action": "...", "justification": "...", "effort": "..."}
  ]
}`

const synthesisPromptTemplate = `PROJECT CONTEXT:
- Project: %s
- Primary Technology: %s
- Scale: %d files, %d chars
- Classification: %s

SPECIALIST FINDINGS:
%s

Synthesize the findings above into the unified JSON assessment described in
your instructions.`

// Aggregator merges the task result map into one report. The synthesis call
// goes through the same retry wrapper as specialist tasks.
type Aggregator struct {
	runner    *task.Runner
	maxTokens int
	logger    *slog.Logger
}

func New(runner *task.Runner, maxTokens int, logger *slog.Logger) *Aggregator {
	return &Aggregator{runner: runner, maxTokens: maxTokens, logger: logger}
}

// Synthesize validates the result map, invokes the analyzer once for
// cross-task synthesis, and post-processes the outcome into a Report. Failed
// tasks never abort aggregation — they are carried as explicit unavailable
// markers. The only fatal outcome is the synthesis call itself exhausting
// its retries, reported as *SynthesisError.
func (a *Aggregator) Synthesize(ctx context.Context, results map[string]task.Result, pctx catalog.ProjectContext, az analyzer.Analyzer) (*Report, error) {
	succeeded, unavailable := splitResults(results)

	a.logger.Info("synthesizing specialist findings",
		"succeeded", len(succeeded),
		"failed", len(unavailable),
	)

	spec := task.Spec{
		Name:     "synthesis",
		Category: "synthesis",
		Request: analyzer.Request{
			Task:   "synthesis",
			System: synthesisSystem,
			Prompt: fmt.Sprintf(synthesisPromptTemplate,
				pctx.Name,
				pctx.PrimaryCategory,
				pctx.TotalFiles,
				pctx.TotalSizeChars,
				pctx.Classification,
				buildDigest(succeeded, unavailable),
			),
			MaxTokens: a.maxTokens,
		},
		Validate: validateSynthesis,
	}

	res := a.runner.Run(ctx, spec, az)
	if !res.OK() {
		return nil, &SynthesisError{Kind: res.Kind, Message: res.Message, Attempts: res.Attempts}
	}

	payload, err := decodeSynthesis(res.Payload)
	if err != nil {
		// Validation already decoded this payload once; a failure here
		// would be a programming error, not an analyzer fault.
		return nil, fmt.Errorf("decode synthesis payload: %w", err)
	}

	report := buildReport(payload)
	report.Metadata = ExecutionMetadata{
		TasksTotal:     len(results),
		TasksSucceeded: len(succeeded),
		TasksFailed:    len(unavailable),
		FailedTasks:    unavailable,
	}
	return report, nil
}

// splitResults separates successes from failures. Failures become explicit
// unavailable markers instead of being dropped silently. Both lists are
// ordered by task name so digests and reports are deterministic.
func splitResults(results map[string]task.Result) (map[string]map[string]any, []UnavailableTask) {
	succeeded := make(map[string]map[string]any)
	var unavailable []UnavailableTask

	for name, res := range results {
		if res.OK() {
			succeeded[name] = res.Payload
			continue
		}
		unavailable = append(unavailable, UnavailableTask{
			Name:     name,
			Kind:     res.Kind,
			Reason:   res.Message,
			Attempts: res.Attempts,
		})
	}
	sort.Slice(unavailable, func(i, j int) bool { return unavailable[i].Name < unavailable[j].Name })

	return succeeded, unavailable
}

// buildDigest renders a bounded summary of every specialist outcome for the
// synthesis prompt.
func buildDigest(succeeded map[string]map[string]any, unavailable []UnavailableTask) string {
	names := make([]string, 0, len(succeeded))
	for name := range succeeded {
		names = append(names, name)
	}
	sort.Strings(names)

	sep := strings.Repeat("=", 50)
	var sb strings.Builder

	for _, name := range names {
		fmt.Fprintf(&sb, "\n%s\n%s FINDINGS:\n%s\n", sep, strings.ToUpper(name), sep)
		encoded, err := json.MarshalIndent(succeeded[name], "", "  ")
		if err != nil {
			fmt.Fprintf(&sb, "[unencodable payload: %v]\n", err)
			continue
		}
		if len(encoded) > digestCapPerTask {
			sb.Write(encoded[:digestCapPerTask])
			sb.WriteString("\n... [TRUNCATED FOR LENGTH]\n")
		} else {
			sb.Write(encoded)
			sb.WriteString("\n")
		}
	}

	for _, u := range unavailable {
		fmt.Fprintf(&sb, "\n%s: findings unavailable (%s after %d attempts: %s)\n",
			strings.ToUpper(u.Name), u.Kind, u.Attempts, u.Reason)
	}

	if len(names) == 0 {
		sb.WriteString("\nNo specialist findings are available. Produce a conservative baseline assessment from the project context alone, with neutral scores and no recommendations unless clearly warranted.\n")
	}

	return sb.String()
}

// synthesisPayload is the decoded shape of the synthesis response.
type synthesisPayload struct {
	OverallQualityScore *int                      `json:"overall_quality_score"`
	DimensionalScores   map[string]DimensionScore `json:"dimensional_scores"`
	Architecture        ArchitectureSummary       `json:"architecture_summary"`
	Business            BusinessSummary           `json:"business_summary"`
	Recommendations     []Recommendation          `json:"recommendations"`
}

func decodeSynthesis(payload map[string]any) (*synthesisPayload, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var out synthesisPayload
	if err := json.Unmarshal(encoded, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// validateSynthesis rejects payloads that do not decode into the expected
// report shape or that lack the mandatory sections. Rejected payloads are
// retried like any other malformed analyzer output.
func validateSynthesis(payload map[string]any) error {
	decoded, err := decodeSynthesis(payload)
	if err != nil {
		return fmt.Errorf("synthesis shape: %w", err)
	}
	if decoded.DimensionalScores == nil {
		return fmt.Errorf("missing dimensional_scores")
	}
	if _, ok := payload["architecture_summary"]; !ok {
		return fmt.Errorf("missing architecture_summary")
	}
	if _, ok := payload["business_summary"]; !ok {
		return fmt.Errorf("missing business_summary")
	}
	return nil
}
