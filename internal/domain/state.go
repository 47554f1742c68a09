package domain

import (
	"time"

	"github.com/google/uuid"
)

// WorkflowNode labels a stage of the writing workflow. CurrentNode records
// the most recently completed stage, for diagnostics.
type WorkflowNode string

const (
	NodeStart          WorkflowNode = "start"
	NodeRoleAnalysis   WorkflowNode = "role_analysis"
	NodeAgentExecution WorkflowNode = "agent_execution"
	NodeSynthesis      WorkflowNode = "synthesis"
	NodeErrorHandling  WorkflowNode = "error_handling"
	NodeDone           WorkflowNode = "done"
)

// WritingGraphState is the working state of one request, threaded through
// every workflow stage. One instance per request; never shared across
// requests and never persisted.
type WritingGraphState struct {
	UserRequest        string
	UserConstraints    *UserConstraints
	RoleAnalysis       *RoleAnalysis
	AgentOutputs       map[RoleID]AgentOutput
	SynthesizedContent string
	FinalReasoning     string
	ExecutionID        string
	StartTime          time.Time
	CurrentNode        WorkflowNode
	Errors             []string
}

// NewState creates the initial state for a request with a fresh execution id
// and the capture timestamp.
func NewState(request string, constraints *UserConstraints) *WritingGraphState {
	return &WritingGraphState{
		UserRequest:     request,
		UserConstraints: constraints,
		AgentOutputs:    make(map[RoleID]AgentOutput),
		ExecutionID:     uuid.NewString(),
		StartTime:       time.Now(),
		CurrentNode:     NodeStart,
	}
}

// StateUpdate is the partial update a single workflow stage returns. Stages
// never mutate the shared state directly; the orchestrator applies updates
// between stages.
type StateUpdate struct {
	RoleAnalysis       *RoleAnalysis
	AgentOutputs       map[RoleID]AgentOutput
	SynthesizedContent string
	FinalReasoning     string
	CurrentNode        WorkflowNode
	Errors             []string
}

// Apply merges a partial update into the state with one declared rule per
// field: scalars and the analysis pointer overwrite when set, Errors
// concatenates, AgentOutputs unions key-wise (later writes win per key).
func (s *WritingGraphState) Apply(u StateUpdate) {
	if u.RoleAnalysis != nil {
		s.RoleAnalysis = u.RoleAnalysis
	}
	if len(u.AgentOutputs) > 0 {
		if s.AgentOutputs == nil {
			s.AgentOutputs = make(map[RoleID]AgentOutput, len(u.AgentOutputs))
		}
		for id, out := range u.AgentOutputs {
			s.AgentOutputs[id] = out
		}
	}
	if u.SynthesizedContent != "" {
		s.SynthesizedContent = u.SynthesizedContent
	}
	if u.FinalReasoning != "" {
		s.FinalReasoning = u.FinalReasoning
	}
	if u.CurrentNode != "" {
		s.CurrentNode = u.CurrentNode
	}
	s.Errors = append(s.Errors, u.Errors...)
}
