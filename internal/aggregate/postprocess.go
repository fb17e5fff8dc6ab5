package aggregate

import (
	"math"
	"sort"
	"strings"
)

// maxListItems caps qualitative lists (strengths, concerns, components).
const maxListItems = 5

// neutralScore is used when the synthesis supplies neither an overall score
// nor any dimensional scores to derive one from.
const neutralScore = 50

// buildReport normalizes a decoded synthesis payload into the final report:
// scores clamped into range, the overall score derived when missing,
// qualitative lists deduplicated and capped, recommendations ordered by
// priority.
func buildReport(p *synthesisPayload) *Report {
	dims := make(map[string]DimensionScore, len(p.DimensionalScores))
	for name, d := range p.DimensionalScores {
		d.Score = clampScore(d.Score)
		dims[name] = d
	}

	overall := neutralScore
	switch {
	case p.OverallQualityScore != nil:
		overall = clampScore(*p.OverallQualityScore)
	case len(dims) > 0:
		overall = deriveOverallScore(dims)
	}

	arch := p.Architecture
	arch.Strengths = dedupeCapped(arch.Strengths)
	arch.Concerns = dedupeCapped(arch.Concerns)
	arch.Components = dedupeCapped(arch.Components)

	recs := make([]Recommendation, len(p.Recommendations))
	copy(recs, p.Recommendations)
	for i := range recs {
		recs[i].Priority = Priority(strings.ToUpper(string(recs[i].Priority)))
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority.rank() < recs[j].Priority.rank()
	})

	return &Report{
		OverallQualityScore: overall,
		DimensionalScores:   dims,
		Architecture:        arch,
		Business:            p.Business,
		Recommendations:     recs,
	}
}

// deriveOverallScore is the rounded arithmetic mean of the dimensional scores.
func deriveOverallScore(dims map[string]DimensionScore) int {
	sum := 0
	for _, d := range dims {
		sum += d.Score
	}
	return clampScore(int(math.Round(float64(sum) / float64(len(dims)))))
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// dedupeCapped removes duplicates preserving first-seen order, capped at
// maxListItems entries.
func dedupeCapped(items []string) []string {
	if len(items) == 0 {
		return items
	}
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		key := strings.TrimSpace(item)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
		if len(out) == maxListItems {
			break
		}
	}
	return out
}
