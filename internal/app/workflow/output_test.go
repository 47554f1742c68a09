package workflow_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lgrimaldi/plume-agent/internal/app/workflow"
	"github.com/lgrimaldi/plume-agent/internal/domain"
)

func terminalState() *domain.WritingGraphState {
	state := domain.NewState("Write a short guide on brewing coffee", &domain.UserConstraints{
		SynthesisStrategy: domain.StrategyLayering,
	})
	state.Apply(domain.StateUpdate{
		RoleAnalysis: &domain.RoleAnalysis{
			IdentifiedRoles: []domain.RoleDefinition{
				{ID: "expert", Name: "Expert", Description: "depth", PromptTemplate: "p", Priority: 1},
				{ID: "editor", Name: "Editor", Description: "polish", PromptTemplate: "p", Priority: 2},
			},
			Reasoning:  "depth plus polish",
			Confidence: 0.85,
		},
		AgentOutputs: map[domain.RoleID]domain.AgentOutput{
			"expert": {RoleID: "expert", RoleName: "Expert", RoleDescription: "depth", Content: "expert text", Reasoning: "why", Confidence: 0.8},
		},
		SynthesizedContent: "the final document",
		FinalReasoning:     "merged by layering",
		CurrentNode:        domain.NodeDone,
		Errors:             []string{"agent editor: generation exceeded timeout of 1s"},
	})
	return state
}

func TestFormatOutputProjection(t *testing.T) {
	state := terminalState()
	resp := workflow.FormatOutput(state)

	assert.Equal(t, state.ExecutionID, resp.ID)
	assert.Equal(t, state.StartTime, resp.Timestamp)
	assert.Equal(t, state.UserRequest, resp.Request)
	assert.Equal(t, "the final document", resp.FinalContent)

	require.Len(t, resp.IdentifiedRoles, 2)
	assert.Equal(t, "expert", resp.IdentifiedRoles[0].ID)
	assert.Equal(t, 0.85, resp.RoleAnalysis.Confidence)

	require.Contains(t, resp.Agents, "expert")
	assert.Equal(t, "expert text", resp.Agents["expert"].Contribution)

	assert.Equal(t, state.ExecutionID, resp.Metadata.ExecutionID)
	assert.Equal(t, "layering", resp.Metadata.SynthesisStrategy)
	// Errors surface verbatim as warnings; content plus warnings is a
	// successful partial response, not a failure.
	assert.Equal(t, state.Errors, resp.Metadata.Warnings)
	assert.GreaterOrEqual(t, resp.Metadata.DurationMS, int64(0))
}

func TestFormatOutputIdempotentExceptDuration(t *testing.T) {
	state := terminalState()

	first := workflow.FormatOutput(state)
	time.Sleep(2 * time.Millisecond)
	second := workflow.FormatOutput(state)

	assert.GreaterOrEqual(t, second.Metadata.DurationMS, first.Metadata.DurationMS)

	second.Metadata.DurationMS = first.Metadata.DurationMS
	assert.Equal(t, first, second)
}

func TestFormatOutputDefaultsForMissingFields(t *testing.T) {
	state := domain.NewState("Write a short guide on brewing coffee", nil)
	resp := workflow.FormatOutput(state)

	assert.Equal(t, "", resp.FinalContent)
	assert.Equal(t, "", resp.RoleAnalysis.Reasoning)
	assert.Equal(t, 0.0, resp.RoleAnalysis.Confidence)
	assert.NotNil(t, resp.IdentifiedRoles)
	assert.Empty(t, resp.IdentifiedRoles)
	assert.NotNil(t, resp.Agents)
	assert.NotNil(t, resp.Metadata.Warnings)
	assert.Empty(t, resp.Metadata.Warnings)
	assert.Equal(t, "blending", resp.Metadata.SynthesisStrategy)
}
