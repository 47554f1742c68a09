package workflow

import (
	"time"

	"github.com/lgrimaldi/plume-agent/internal/domain"
)

// Response is the externally visible projection of a terminal workflow
// state, consumed by the HTTP layer.
type Response struct {
	ID              string                 `json:"id"`
	Timestamp       time.Time              `json:"timestamp"`
	Request         string                 `json:"request"`
	IdentifiedRoles []RoleSummary          `json:"identified_roles"`
	RoleAnalysis    AnalysisSummary        `json:"role_analysis"`
	Agents          map[string]AgentResult `json:"agents"`
	FinalContent    string                 `json:"final_content"`
	Metadata        ResponseMetadata       `json:"metadata"`
}

type RoleSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
}

type AnalysisSummary struct {
	Reasoning  string  `json:"reasoning"`
	Confidence float64 `json:"confidence"`
}

type AgentResult struct {
	RoleName        string  `json:"role_name"`
	RoleDescription string  `json:"role_description"`
	Contribution    string  `json:"contribution"`
	Reasoning       string  `json:"reasoning"`
	Confidence      float64 `json:"confidence"`
}

type ResponseMetadata struct {
	DurationMS        int64    `json:"duration_ms"`
	ExecutionID       string   `json:"execution_id"`
	SynthesisStrategy string   `json:"synthesis_strategy"`
	Warnings          []string `json:"warnings"`
}

// FormatOutput projects a terminal state into the response shape. It is a
// pure projection with no failure modes: missing optional fields become
// defaults, and errors surface verbatim as warnings. Warnings do not imply
// failure; a response can carry content and warnings at once.
func FormatOutput(state *domain.WritingGraphState) Response {
	resp := Response{
		ID:              state.ExecutionID,
		Timestamp:       state.StartTime,
		Request:         state.UserRequest,
		IdentifiedRoles: []RoleSummary{},
		Agents:          make(map[string]AgentResult, len(state.AgentOutputs)),
		FinalContent:    state.SynthesizedContent,
		Metadata: ResponseMetadata{
			DurationMS:        time.Since(state.StartTime).Milliseconds(),
			ExecutionID:       state.ExecutionID,
			SynthesisStrategy: string(domain.EffectiveStrategy(state.UserConstraints)),
			Warnings:          append([]string{}, state.Errors...),
		},
	}

	if state.RoleAnalysis != nil {
		resp.RoleAnalysis = AnalysisSummary{
			Reasoning:  state.RoleAnalysis.Reasoning,
			Confidence: state.RoleAnalysis.Confidence,
		}
		for _, r := range state.RoleAnalysis.IdentifiedRoles {
			resp.IdentifiedRoles = append(resp.IdentifiedRoles, RoleSummary{
				ID:          string(r.ID),
				Name:        r.Name,
				Description: r.Description,
				Priority:    r.Priority,
			})
		}
	}

	for id, out := range state.AgentOutputs {
		resp.Agents[string(id)] = AgentResult{
			RoleName:        out.RoleName,
			RoleDescription: out.RoleDescription,
			Contribution:    out.Content,
			Reasoning:       out.Reasoning,
			Confidence:      out.Confidence,
		}
	}

	return resp
}
