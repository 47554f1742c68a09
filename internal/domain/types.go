package domain

import (
	"fmt"
	"strings"
)

// RoleID identifies a writing perspective. It is the stable key for one
// analysis result and for the fan-in of agent outputs.
type RoleID string

// Bounds on how many roles a single analysis may identify.
const (
	MinRoles = 2
	MaxRoles = 4
)

// SynthesisStrategy selects how multiple contributions are merged.
type SynthesisStrategy string

const (
	StrategyInterleaving SynthesisStrategy = "interleaving"
	StrategyLayering     SynthesisStrategy = "layering"
	StrategyHighlighting SynthesisStrategy = "highlighting"
	StrategyBlending     SynthesisStrategy = "blending"
)

// ParseSynthesisStrategy maps a raw string to a strategy.
// Unknown or empty values fall back to blending.
func ParseSynthesisStrategy(s string) SynthesisStrategy {
	switch SynthesisStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyInterleaving:
		return StrategyInterleaving
	case StrategyLayering:
		return StrategyLayering
	case StrategyHighlighting:
		return StrategyHighlighting
	default:
		return StrategyBlending
	}
}

// Valid reports whether s is one of the four known strategies.
func (s SynthesisStrategy) Valid() bool {
	switch s {
	case StrategyInterleaving, StrategyLayering, StrategyHighlighting, StrategyBlending:
		return true
	}
	return false
}

// RoleConstraints are per-role writing constraints carried by a RoleDefinition.
type RoleConstraints struct {
	Tone       string   `json:"tone,omitempty" yaml:"tone,omitempty"`
	FocusAreas []string `json:"focus_areas,omitempty" yaml:"focus_areas,omitempty"`
	MaxLength  int      `json:"max_length,omitempty" yaml:"max_length,omitempty"`
}

// RoleDefinition describes one writing perspective. Immutable once created;
// lives only for the duration of a single request.
type RoleDefinition struct {
	ID             RoleID           `json:"id" yaml:"id"`
	Name           string           `json:"name" yaml:"name"`
	Description    string           `json:"description" yaml:"description"`
	PromptTemplate string           `json:"prompt" yaml:"prompt"`
	Priority       int              `json:"priority" yaml:"priority"`
	Constraints    *RoleConstraints `json:"constraints,omitempty" yaml:"constraints,omitempty"`
}

// RoleAnalysis is the result of turning a free-text request into a set of
// writing perspectives. After trimming, IdentifiedRoles always holds between
// MinRoles and MaxRoles entries.
type RoleAnalysis struct {
	IdentifiedRoles []RoleDefinition `json:"identified_roles"`
	Reasoning       string           `json:"reasoning"`
	Confidence      float64          `json:"confidence"`
}

// AgentOutput is the contribution of one role's agent for one request.
type AgentOutput struct {
	RoleID          RoleID         `json:"role_id"`
	RoleName        string         `json:"role_name"`
	RoleDescription string         `json:"role_description"`
	Content         string         `json:"content"`
	Reasoning       string         `json:"reasoning"`
	Confidence      float64        `json:"confidence"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}

// Validate checks the AgentOutput invariants: a role back-reference, non-empty
// content and a confidence within [0,1].
func (o *AgentOutput) Validate() error {
	if o.RoleID == "" {
		return fmt.Errorf("agent output missing role id")
	}
	if strings.TrimSpace(o.Content) == "" {
		return fmt.Errorf("agent output for role %s has empty content", o.RoleID)
	}
	if o.Confidence < 0 || o.Confidence > 1 {
		return fmt.Errorf("agent output for role %s has confidence %.2f outside [0,1]", o.RoleID, o.Confidence)
	}
	return nil
}

// UserConstraints are the optional caller-supplied knobs for one request.
type UserConstraints struct {
	MaxLength         int               `json:"max_length,omitempty"`
	Tone              string            `json:"tone,omitempty"`
	TargetAudience    string            `json:"target_audience,omitempty"`
	PreferredRoles    []string          `json:"preferred_roles,omitempty"`
	SynthesisStrategy SynthesisStrategy `json:"synthesis_strategy,omitempty"`
}

// EffectiveStrategy resolves the strategy for a run: the caller's choice when
// valid, blending otherwise.
func EffectiveStrategy(uc *UserConstraints) SynthesisStrategy {
	if uc != nil && uc.SynthesisStrategy.Valid() {
		return uc.SynthesisStrategy
	}
	return StrategyBlending
}
