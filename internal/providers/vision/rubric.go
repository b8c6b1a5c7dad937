// Package vision scores generated images against per-category rubrics via a
// vision-capable language model.
package vision

import (
	"fmt"
	"strings"

	"pipeline/internal/domain"
)

// A rubric has four weighted dimensions, each scored 0-25 and summed to the
// 0-100 quality score.
type rubricDimension struct {
	Key  string
	Desc string
}

type rubric struct {
	dimensions [4]rubricDimension
}

const dimensionMax = 25

var textBearingRubric = rubric{dimensions: [4]rubricDimension{
	{Key: "typography", Desc: "legibility, letterform quality and spacing of the brand text"},
	{Key: "composition", Desc: "balance between text and supporting elements, use of negative space"},
	{Key: "style_compliance", Desc: "adherence to the requested logo style and flat vector language"},
	{Key: "production", Desc: "clean edges, solid colors, plain background, reproduction-ready"},
}}

var symbolOnlyRubric = rubric{dimensions: [4]rubricDimension{
	{Key: "distinctiveness", Desc: "memorability and uniqueness of the mark"},
	{Key: "simplicity", Desc: "economy of shapes, recognizability at small sizes"},
	{Key: "style_compliance", Desc: "adherence to the requested logo style, complete absence of text"},
	{Key: "production", Desc: "clean edges, solid colors, plain background, reproduction-ready"},
}}

func rubricFor(category domain.StyleCategory) rubric {
	if category == domain.StyleCategorySymbolOnly {
		return symbolOnlyRubric
	}
	return textBearingRubric
}

// buildPrompt renders the scoring instruction for one style. The model must
// answer with strict JSON naming each dimension and any flags from the
// closed list.
func buildPrompt(spec domain.StyleSpec) string {
	r := rubricFor(spec.Category)
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "You are a strict brand-design reviewer. Score this %s logo concept (%s category). ", spec.ID, spec.Category)
	sb.WriteString("Respond strictly with JSON matching this schema: ")
	sb.WriteString(`{"dimension_scores":{`)
	for i, d := range r.dimensions {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(sb, "%q:int 0-%d", d.Key, dimensionMax)
	}
	sb.WriteString(`},"flags":[string],"notes":string}. Dimensions: `)
	for i, d := range r.dimensions {
		if i > 0 {
			sb.WriteString("; ")
		}
		fmt.Fprintf(sb, "%s = %s", d.Key, d.Desc)
	}
	sb.WriteString(". Allowed flag values (use only those that apply): ")
	flagNames := make([]string, len(domain.AllFlags))
	for i, f := range domain.AllFlags {
		flagNames[i] = string(f)
	}
	sb.WriteString(strings.Join(flagNames, ", "))
	sb.WriteString(". Keep notes to two short actionable sentences.")
	return sb.String()
}

type evaluationPayload struct {
	DimensionScores map[string]int `json:"dimension_scores"`
	Flags           []string       `json:"flags"`
	Notes           string         `json:"notes"`
}

// scorePayload sums the rubric dimensions, clamping each to its 0-25 band.
// Flag names outside the closed enumeration are dropped.
func scorePayload(spec domain.StyleSpec, payload evaluationPayload) *domain.EvaluationResult {
	r := rubricFor(spec.Category)
	total := 0
	for _, d := range r.dimensions {
		total += clamp(payload.DimensionScores[d.Key], 0, dimensionMax)
	}
	flags := domain.NewFlagSet()
	for _, name := range payload.Flags {
		if f, ok := domain.ParseFlag(strings.TrimSpace(name)); ok {
			flags = flags.Add(f)
		}
	}
	return &domain.EvaluationResult{
		Score: total,
		Flags: flags,
		Notes: strings.TrimSpace(payload.Notes),
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
