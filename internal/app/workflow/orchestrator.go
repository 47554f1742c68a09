package workflow

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lgrimaldi/plume-agent/internal/app/agent"
	"github.com/lgrimaldi/plume-agent/internal/app/roles"
	"github.com/lgrimaldi/plume-agent/internal/app/synthesis"
	"github.com/lgrimaldi/plume-agent/internal/domain"
	"github.com/lgrimaldi/plume-agent/internal/observability"
)

// Orchestrator runs the writing workflow state machine:
//
//	start → role_analysis → agent_execution → synthesis → done
//
// with every stage able to divert to error_handling → done instead of its
// normal successor. Stages return partial updates; the orchestrator applies
// them between stages so no stage observes another's in-progress state.
type Orchestrator struct {
	analyzer *roles.Analyzer
	factory  *agent.Factory
	synth    *synthesis.Synthesizer
}

func NewOrchestrator(analyzer *roles.Analyzer, factory *agent.Factory, synth *synthesis.Synthesizer) *Orchestrator {
	return &Orchestrator{analyzer: analyzer, factory: factory, synth: synth}
}

// Run executes the workflow to completion. It always returns a well-formed
// terminal state and never fails: anything escaping the stages is caught at
// this boundary and folded into the state's errors.
func (o *Orchestrator) Run(ctx context.Context, state *domain.WritingGraphState) (st *domain.WritingGraphState) {
	st = state
	log := observability.LoggerFromContext(ctx).With("execution_id", state.ExecutionID)

	defer func() {
		if r := recover(); r != nil {
			log.Error("workflow panicked", "panic", r)
			state.Apply(domain.StateUpdate{
				Errors:             []string{fmt.Sprintf("unexpected failure: %v", r)},
				SynthesizedContent: "An unexpected error occurred while generating the document.",
				FinalReasoning:     "The workflow terminated after an unexpected failure.",
				CurrentNode:        domain.NodeDone,
			})
		}
	}()

	start := time.Now()
	log.Info("workflow started", "request_len", len(state.UserRequest))

	state.Apply(o.runRoleAnalysis(ctx, state))
	if len(state.Errors) > 0 {
		state.Apply(o.runErrorHandling(state))
		state.Apply(domain.StateUpdate{CurrentNode: domain.NodeDone})
		return state
	}

	state.Apply(o.runAgentExecution(ctx, state))
	if len(state.AgentOutputs) == 0 {
		// Every role failed; nothing left to synthesize.
		state.Apply(o.runErrorHandling(state))
		state.Apply(domain.StateUpdate{CurrentNode: domain.NodeDone})
		return state
	}

	state.Apply(o.runSynthesis(ctx, state))
	state.Apply(domain.StateUpdate{CurrentNode: domain.NodeDone})

	log.Info("workflow finished",
		"elapsed_ms", time.Since(start).Milliseconds(),
		"outputs", len(state.AgentOutputs),
		"errors", len(state.Errors))
	return state
}

func (o *Orchestrator) runRoleAnalysis(ctx context.Context, state *domain.WritingGraphState) domain.StateUpdate {
	analysis := o.analyzer.Analyze(ctx, state.UserRequest, state.UserConstraints)

	update := domain.StateUpdate{
		RoleAnalysis: analysis,
		CurrentNode:  domain.NodeRoleAnalysis,
	}
	// The analyzer recovers its own failures by falling back, so violations
	// here mean something is genuinely broken.
	if violations := roles.ValidateAnalysis(analysis); len(violations) > 0 {
		for _, v := range violations {
			update.Errors = append(update.Errors, "role analysis: "+v)
		}
	}
	return update
}

func (o *Orchestrator) runAgentExecution(ctx context.Context, state *domain.WritingGraphState) domain.StateUpdate {
	log := observability.LoggerFromContext(ctx).With("execution_id", state.ExecutionID)
	identified := state.RoleAnalysis.IdentifiedRoles

	var (
		mu      sync.Mutex
		outputs = make(map[domain.RoleID]domain.AgentOutput, len(identified))
		errs    []string
	)

	// Best-effort fan-out: every goroutine records its own outcome and
	// returns nil, so one failure never cancels its siblings.
	g, gctx := errgroup.WithContext(ctx)
	for _, role := range identified {
		ag := o.factory.CreateAgent(role)
		g.Go(func() error {
			// The outer recover in Run only covers the coordinating
			// goroutine; a panic here would crash the process instead.
			// Fold it into the role's outcome like any other failure.
			defer func() {
				if r := recover(); r != nil {
					mu.Lock()
					defer mu.Unlock()
					log.Error("agent panicked", "role", ag.Role().ID, "panic", r)
					errs = append(errs, fmt.Sprintf("agent %s: unexpected failure: %v", ag.Role().ID, r))
				}
			}()

			out, err := ag.Generate(gctx, state.UserRequest, state.UserConstraints)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Warn("agent failed", "role", ag.Role().ID, "error", err)
				errs = append(errs, err.Error())
				return nil
			}
			outputs[out.RoleID] = *out
			return nil
		})
	}
	_ = g.Wait()

	log.Info("agent execution settled", "succeeded", len(outputs), "failed", len(errs))
	return domain.StateUpdate{
		AgentOutputs: outputs,
		Errors:       errs,
		CurrentNode:  domain.NodeAgentExecution,
	}
}

func (o *Orchestrator) runSynthesis(ctx context.Context, state *domain.WritingGraphState) domain.StateUpdate {
	outputs := make([]domain.AgentOutput, 0, len(state.AgentOutputs))
	for _, out := range state.AgentOutputs {
		outputs = append(outputs, out)
	}

	res, err := o.synth.Synthesize(ctx, outputs, state.UserRequest, domain.EffectiveStrategy(state.UserConstraints))
	if err != nil {
		// No further fallback: the error is surfaced and the run terminates.
		return domain.StateUpdate{
			Errors:      []string{err.Error()},
			CurrentNode: domain.NodeSynthesis,
		}
	}

	return domain.StateUpdate{
		SynthesizedContent: res.Content,
		FinalReasoning:     res.Reasoning,
		CurrentNode:        domain.NodeSynthesis,
	}
}

// runErrorHandling is deterministic and non-generative: it folds the
// accumulated errors into one message. It never calls the backend and never
// fails.
func (o *Orchestrator) runErrorHandling(state *domain.WritingGraphState) domain.StateUpdate {
	return domain.StateUpdate{
		SynthesizedContent: "The writing workflow could not complete: " + strings.Join(state.Errors, "; "),
		FinalReasoning:     "An error occurred during the workflow; see the warnings for details.",
		CurrentNode:        domain.NodeErrorHandling,
	}
}
