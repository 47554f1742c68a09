package synthesis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lgrimaldi/plume-agent/internal/domain"
	"github.com/lgrimaldi/plume-agent/internal/observability"
)

// ErrNoOutputs is returned when there is nothing to synthesize. The
// orchestrator should never reach this state if at least one agent
// succeeded.
var ErrNoOutputs = errors.New("nothing to synthesize: no agent outputs")

const synthesizerSystemPrompt = `You are the synthesis stage of a collaborative writing system.
Several writers, each with a distinct perspective, have contributed to the
same request. Merge their contributions into one coherent document. Follow
the merge instructions at the end of the input exactly.`

const (
	interleavingInstructions = `Merge instructions (interleaving): segment the document into an
introduction, body and conclusion. Within each segment, mix material from
different contributors and add bridging sentences so the seams do not show.`

	layeringInstructions = `Merge instructions (layering): stack the contributions sequentially,
ordered by their stated priority, each under a clear section label. Remove
redundancy between layers rather than repeating it.`

	highlightingInstructions = `Merge instructions (highlighting): present each contribution as a
distinct, labeled section in its contributor's own voice, then close with a
comparative summary of where the perspectives agree and differ.`

	blendingInstructions = `Merge instructions (blending): write wholly new unified content
inspired by all of the contributions. Do not concatenate or quote them;
absorb their substance into a single seamless voice.`
)

// Result is the synthesized document plus a reasoning trace.
type Result struct {
	Content   string
	Reasoning string
}

// Synthesizer merges agent outputs into one document.
type Synthesizer struct {
	gen domain.TextGenerator
}

func New(gen domain.TextGenerator) *Synthesizer {
	return &Synthesizer{gen: gen}
}

// Synthesize merges outputs under the given strategy. One output is passed
// through verbatim without a generation call; zero outputs is an error.
func (s *Synthesizer) Synthesize(ctx context.Context, outputs []domain.AgentOutput, request string, strategy domain.SynthesisStrategy) (Result, error) {
	log := observability.LoggerFromContext(ctx)

	switch len(outputs) {
	case 0:
		return Result{}, ErrNoOutputs
	case 1:
		// No point paying for a model call to rewrite a single voice.
		log.Info("single contribution, skipping synthesis call", "role", outputs[0].RoleID)
		return Result{
			Content:   outputs[0].Content,
			Reasoning: fmt.Sprintf("Single contribution from %s; returned verbatim without synthesis.", outputs[0].RoleName),
		}, nil
	}

	res, err := s.gen.Generate(ctx, synthesizerSystemPrompt, buildPrompt(outputs, request, strategy), domain.GenerateOptions{Temperature: 0.6})
	if err != nil {
		return Result{}, fmt.Errorf("synthesis (%s): %w", strategy, err)
	}

	reasoning := res.Reasoning
	if reasoning == "" {
		reasoning = fmt.Sprintf("Synthesized %d contributions using the %s strategy.", len(outputs), strategy)
	}

	log.Info("synthesis complete", "strategy", strategy, "contributions", len(outputs))
	return Result{Content: res.Text, Reasoning: reasoning}, nil
}

func buildPrompt(outputs []domain.AgentOutput, request string, strategy domain.SynthesisStrategy) string {
	// Contributions may arrive in any order; present them deterministically,
	// highest priority first.
	ordered := make([]domain.AgentOutput, len(outputs))
	copy(ordered, outputs)
	sort.SliceStable(ordered, func(i, j int) bool {
		pi, pj := priorityOf(ordered[i]), priorityOf(ordered[j])
		if pi != pj {
			return pi < pj
		}
		return ordered[i].RoleID < ordered[j].RoleID
	})

	var b strings.Builder
	fmt.Fprintf(&b, "Original request:\n%s\n\nContributions:\n", request)
	for _, out := range ordered {
		fmt.Fprintf(&b, "\n### %s — %s (priority %d)\n%s\n", out.RoleName, out.RoleDescription, priorityOf(out), out.Content)
	}
	b.WriteString("\n")
	b.WriteString(instructionsFor(strategy))
	return b.String()
}

func instructionsFor(strategy domain.SynthesisStrategy) string {
	switch strategy {
	case domain.StrategyInterleaving:
		return interleavingInstructions
	case domain.StrategyLayering:
		return layeringInstructions
	case domain.StrategyHighlighting:
		return highlightingInstructions
	default:
		return blendingInstructions
	}
}

func priorityOf(out domain.AgentOutput) int {
	if p, ok := out.Metadata["priority"].(int); ok {
		return p
	}
	return domain.MaxRoles
}
