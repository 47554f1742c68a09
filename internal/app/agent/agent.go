package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lgrimaldi/plume-agent/internal/domain"
	"github.com/lgrimaldi/plume-agent/internal/observability"
)

// DefaultTimeout bounds a single role's generation call.
const DefaultTimeout = 30 * time.Second

// Confidence is currently a fixed constant rather than a model-derived
// signal; it only has to honor the [0,1] contract.
const fixedConfidence = 0.8

// Characters per word, used to turn the caller's character budget into the
// word estimate the prompt asks for.
const charsPerWord = 6

// DeadlineError reports that one role's generation call exceeded its
// timeout. It is distinct from backend errors so callers and logs can tell
// "too slow" apart from "model refused" or "network error".
type DeadlineError struct {
	RoleID  domain.RoleID
	Timeout time.Duration
}

func (e *DeadlineError) Error() string {
	return fmt.Sprintf("agent %s: generation exceeded timeout of %s", e.RoleID, e.Timeout)
}

// Agent executes exactly one role for one request.
type Agent struct {
	role    domain.RoleDefinition
	gen     domain.TextGenerator
	timeout time.Duration
}

func newAgent(role domain.RoleDefinition, gen domain.TextGenerator, timeout time.Duration) *Agent {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Agent{role: role, gen: gen, timeout: timeout}
}

// Role returns the definition this agent is bound to.
func (a *Agent) Role() domain.RoleDefinition {
	return a.role
}

// Generate produces this role's contribution. The call runs under the
// agent's timeout; a deadline hit surfaces as a *DeadlineError.
func (a *Agent) Generate(ctx context.Context, request string, uc *domain.UserConstraints) (*domain.AgentOutput, error) {
	log := observability.LoggerFromContext(ctx).With("role", a.role.ID)
	start := time.Now()
	log.Info("agent run start")

	cctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	res, err := a.gen.Generate(cctx, a.role.PromptTemplate, a.buildPrompt(request, uc), domain.GenerateOptions{Temperature: 0.7})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(cctx.Err(), context.DeadlineExceeded) {
			return nil, &DeadlineError{RoleID: a.role.ID, Timeout: a.timeout}
		}
		return nil, fmt.Errorf("agent %s: %w", a.role.ID, err)
	}

	out := &domain.AgentOutput{
		RoleID:          a.role.ID,
		RoleName:        a.role.Name,
		RoleDescription: a.role.Description,
		Content:         res.Text,
		Reasoning:       res.Reasoning,
		Confidence:      fixedConfidence,
		Metadata:        map[string]any{"priority": a.role.Priority},
	}
	if a.role.Constraints != nil {
		out.Metadata["constraints"] = *a.role.Constraints
	}

	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("agent %s produced invalid output: %w", a.role.ID, err)
	}

	log.Info("agent run end", "elapsed_ms", time.Since(start).Milliseconds())
	return out, nil
}

// buildPrompt frames the task, then applies the role's own constraints,
// then the caller's.
func (a *Agent) buildPrompt(request string, uc *domain.UserConstraints) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Contribute to the following writing request from your perspective as %s (%s).\n\nRequest:\n%s\n",
		a.role.Name, a.role.Description, request)

	if rc := a.role.Constraints; rc != nil {
		if rc.Tone != "" {
			fmt.Fprintf(&b, "\nWrite in a %s tone.", rc.Tone)
		}
		if len(rc.FocusAreas) > 0 {
			fmt.Fprintf(&b, "\nFocus on: %s.", strings.Join(rc.FocusAreas, ", "))
		}
	}

	if uc != nil {
		if uc.MaxLength > 0 {
			fmt.Fprintf(&b, "\nKeep your contribution under roughly %d words.", uc.MaxLength/charsPerWord)
		}
		if uc.Tone != "" {
			fmt.Fprintf(&b, "\nThe overall piece should read as %s.", uc.Tone)
		}
		if uc.TargetAudience != "" {
			fmt.Fprintf(&b, "\nThe target audience is: %s.", uc.TargetAudience)
		}
	}

	return b.String()
}
