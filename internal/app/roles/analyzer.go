package roles

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/lgrimaldi/plume-agent/internal/domain"
	"github.com/lgrimaldi/plume-agent/internal/observability"
)

const fallbackConfidence = 0.5

const analyzerSystemPrompt = `You are the role planner of a collaborative writing system.
Given a writing request, decide which 2 to 4 writing perspectives ("roles")
would together produce the best document. For each role return an id (a short
lowercase slug), a display name, a one-sentence description of what that
perspective contributes, a prompt with instructions for that role's writer,
a priority (1 = most important), and optionally a tone and focus areas.
Also return your reasoning and a confidence between 0 and 1.`

// Analyzer turns a free-text writing request into a RoleAnalysis by asking
// the generation backend for a structured result.
type Analyzer struct {
	gen     domain.TextGenerator
	catalog *Catalog
}

func NewAnalyzer(gen domain.TextGenerator, catalog *Catalog) *Analyzer {
	return &Analyzer{gen: gen, catalog: catalog}
}

// analysisWire is the JSON shape requested from the backend.
type analysisWire struct {
	IdentifiedRoles []roleWire `json:"identified_roles"`
	Reasoning       string     `json:"reasoning"`
	Confidence      float64    `json:"confidence"`
}

type roleWire struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Prompt      string   `json:"prompt"`
	Priority    int      `json:"priority"`
	Tone        string   `json:"tone"`
	FocusAreas  []string `json:"focus_areas"`
}

var analysisSchema = &domain.Schema{
	Type: domain.TypeObject,
	Properties: map[string]*domain.Schema{
		"identified_roles": {
			Type:        domain.TypeArray,
			Description: "Between 2 and 4 writing perspectives for this request",
			Items: &domain.Schema{
				Type: domain.TypeObject,
				Properties: map[string]*domain.Schema{
					"id":          {Type: domain.TypeString, Description: "Short lowercase slug, unique in this result"},
					"name":        {Type: domain.TypeString},
					"description": {Type: domain.TypeString},
					"prompt":      {Type: domain.TypeString, Description: "Instructions for this role's writer"},
					"priority":    {Type: domain.TypeInteger, Description: "1 = most important"},
					"tone":        {Type: domain.TypeString},
					"focus_areas": {Type: domain.TypeArray, Items: &domain.Schema{Type: domain.TypeString}},
				},
				Required: []string{"id", "name", "description", "prompt", "priority"},
			},
		},
		"reasoning":  {Type: domain.TypeString},
		"confidence": {Type: domain.TypeNumber},
	},
	Required: []string{"identified_roles", "reasoning", "confidence"},
}

// Analyze determines the roles for a request. It never fails: any error from
// the backend, or an unusable result (fewer than 2 roles), is recovered by
// falling back to the generic writer + editor pair with a low confidence.
func (a *Analyzer) Analyze(ctx context.Context, request string, uc *domain.UserConstraints) *domain.RoleAnalysis {
	log := observability.LoggerFromContext(ctx)

	raw, err := a.gen.GenerateStructured(ctx, analyzerSystemPrompt, a.buildUserPrompt(request, uc), analysisSchema, domain.GenerateOptions{Temperature: 0.4})
	if err != nil {
		log.Warn("role analysis failed, using fallback roles", "error", err)
		return a.fallback(fmt.Sprintf("role analysis failed (%v)", err))
	}

	var wire analysisWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		log.Warn("role analysis returned malformed JSON, using fallback roles", "error", err)
		return a.fallback(fmt.Sprintf("role analysis returned malformed JSON (%v)", err))
	}

	identified := make([]domain.RoleDefinition, 0, len(wire.IdentifiedRoles))
	for _, r := range wire.IdentifiedRoles {
		def := domain.RoleDefinition{
			ID:             domain.RoleID(r.ID),
			Name:           r.Name,
			Description:    r.Description,
			PromptTemplate: r.Prompt,
			Priority:       r.Priority,
		}
		if r.Tone != "" || len(r.FocusAreas) > 0 {
			def.Constraints = &domain.RoleConstraints{Tone: r.Tone, FocusAreas: r.FocusAreas}
		}
		identified = append(identified, def)
	}

	// The minimum viable perspective count cannot be met; the stage has
	// failed even though the backend call succeeded.
	if len(identified) < domain.MinRoles {
		log.Warn("role analysis returned too few roles, using fallback roles", "count", len(identified))
		return a.fallback(fmt.Sprintf("role analysis returned %d roles, need at least %d", len(identified), domain.MinRoles))
	}

	analysis := &domain.RoleAnalysis{
		IdentifiedRoles: TrimRoles(identified, effectiveMaxRoles(uc)),
		Reasoning:       wire.Reasoning,
		Confidence:      clamp01(wire.Confidence),
	}

	log.Info("role analysis complete",
		"roles", len(analysis.IdentifiedRoles),
		"confidence", analysis.Confidence)
	return analysis
}

func (a *Analyzer) buildUserPrompt(request string, uc *domain.UserConstraints) string {
	var b strings.Builder
	b.WriteString("Writing request:\n")
	b.WriteString(request)
	b.WriteString("\n\nRole templates you may reuse or adapt:\n")
	for _, t := range a.catalog.All() {
		fmt.Fprintf(&b, "- %s (%s): %s\n", t.ID, t.Name, t.Description)
	}
	if uc != nil && len(uc.PreferredRoles) > 0 {
		b.WriteString("\nThe caller prefers these roles; include them when they fit:\n")
		for _, p := range uc.PreferredRoles {
			fmt.Fprintf(&b, "- %s\n", p)
		}
	}
	return b.String()
}

func (a *Analyzer) fallback(reason string) *domain.RoleAnalysis {
	return &domain.RoleAnalysis{
		IdentifiedRoles: a.catalog.FallbackPair(),
		Reasoning:       "Fallback to generic writer and editor roles: " + reason,
		Confidence:      fallbackConfidence,
	}
}

// TrimRoles keeps at most max roles, preferring the lowest priority values.
// The sort is stable, so ties keep their original order.
func TrimRoles(defs []domain.RoleDefinition, max int) []domain.RoleDefinition {
	if len(defs) <= max {
		return defs
	}
	trimmed := make([]domain.RoleDefinition, len(defs))
	copy(trimmed, defs)
	sort.SliceStable(trimmed, func(i, j int) bool {
		return trimmed[i].Priority < trimmed[j].Priority
	})
	return trimmed[:max]
}

// effectiveMaxRoles is MaxRoles, lowered to the preferred-role count when the
// caller named fewer (but never below MinRoles).
func effectiveMaxRoles(uc *domain.UserConstraints) int {
	max := domain.MaxRoles
	if uc != nil {
		if n := len(uc.PreferredRoles); n >= domain.MinRoles && n < max {
			max = n
		}
	}
	return max
}

// ValidateAnalysis checks a RoleAnalysis against its invariants and returns
// one human-readable violation per problem. It is advisory: callers decide
// whether to act on the violations.
func ValidateAnalysis(a *domain.RoleAnalysis) []string {
	var violations []string
	if a == nil {
		return []string{"analysis is missing"}
	}
	if n := len(a.IdentifiedRoles); n < domain.MinRoles || n > domain.MaxRoles {
		violations = append(violations, fmt.Sprintf("identified %d roles, expected between %d and %d", n, domain.MinRoles, domain.MaxRoles))
	}
	if a.Confidence < 0 || a.Confidence > 1 {
		violations = append(violations, fmt.Sprintf("confidence %.2f outside [0,1]", a.Confidence))
	}
	seen := make(map[domain.RoleID]bool, len(a.IdentifiedRoles))
	for i, r := range a.IdentifiedRoles {
		if r.ID == "" {
			violations = append(violations, fmt.Sprintf("role %d has no id", i))
		} else if seen[r.ID] {
			violations = append(violations, fmt.Sprintf("duplicate role id %q", r.ID))
		}
		seen[r.ID] = true
		if r.Name == "" {
			violations = append(violations, fmt.Sprintf("role %q has no name", r.ID))
		}
		if r.Description == "" {
			violations = append(violations, fmt.Sprintf("role %q has no description", r.ID))
		}
		if r.PromptTemplate == "" {
			violations = append(violations, fmt.Sprintf("role %q has no prompt", r.ID))
		}
		if r.Priority <= 0 {
			violations = append(violations, fmt.Sprintf("role %q has non-positive priority %d", r.ID, r.Priority))
		}
	}
	return violations
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
