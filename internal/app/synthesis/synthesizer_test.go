package synthesis_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lgrimaldi/plume-agent/internal/app/synthesis"
	"github.com/lgrimaldi/plume-agent/internal/domain"
)

type stubGen struct {
	generateFn   func(ctx context.Context, system, user string, opts domain.GenerateOptions) (domain.GenerateResult, error)
	structuredFn func(ctx context.Context, system, user string, schema *domain.Schema, opts domain.GenerateOptions) ([]byte, error)
}

func (s *stubGen) Generate(ctx context.Context, system, user string, opts domain.GenerateOptions) (domain.GenerateResult, error) {
	if s.generateFn == nil {
		return domain.GenerateResult{Text: "merged"}, nil
	}
	return s.generateFn(ctx, system, user, opts)
}

func (s *stubGen) GenerateStructured(ctx context.Context, system, user string, schema *domain.Schema, opts domain.GenerateOptions) ([]byte, error) {
	if s.structuredFn == nil {
		return nil, errors.New("no structured stub")
	}
	return s.structuredFn(ctx, system, user, schema, opts)
}

func output(id, name, content string, priority int) domain.AgentOutput {
	return domain.AgentOutput{
		RoleID:          domain.RoleID(id),
		RoleName:        name,
		RoleDescription: name + " perspective",
		Content:         content,
		Confidence:      0.8,
		Metadata:        map[string]any{"priority": priority},
	}
}

func TestSynthesizeZeroOutputs(t *testing.T) {
	s := synthesis.New(&stubGen{})

	_, err := s.Synthesize(context.Background(), nil, "req", domain.StrategyBlending)
	require.ErrorIs(t, err, synthesis.ErrNoOutputs)
}

func TestSynthesizeSingleOutputPassThrough(t *testing.T) {
	called := false
	gen := &stubGen{generateFn: func(ctx context.Context, system, user string, opts domain.GenerateOptions) (domain.GenerateResult, error) {
		called = true
		return domain.GenerateResult{Text: "should not be used"}, nil
	}}
	s := synthesis.New(gen)

	single := output("writer", "Writer", "the only contribution", 1)
	for _, strategy := range []domain.SynthesisStrategy{
		domain.StrategyInterleaving, domain.StrategyLayering, domain.StrategyHighlighting, domain.StrategyBlending,
	} {
		res, err := s.Synthesize(context.Background(), []domain.AgentOutput{single}, "req", strategy)
		require.NoError(t, err)
		assert.Equal(t, single.Content, res.Content)
		assert.Contains(t, res.Reasoning, "Single contribution")
	}
	assert.False(t, called, "single-output synthesis must skip the generation call")
}

func TestSynthesizeStrategyInstructions(t *testing.T) {
	markers := map[domain.SynthesisStrategy]string{
		domain.StrategyInterleaving: "bridging sentences",
		domain.StrategyLayering:     "stack the contributions",
		domain.StrategyHighlighting: "comparative summary",
		domain.StrategyBlending:     "wholly new unified content",
	}

	outputs := []domain.AgentOutput{
		output("expert", "Expert", "expert text", 1),
		output("critic", "Critic", "critic text", 2),
	}

	for strategy, marker := range markers {
		var captured string
		gen := &stubGen{generateFn: func(ctx context.Context, system, user string, opts domain.GenerateOptions) (domain.GenerateResult, error) {
			captured = user
			return domain.GenerateResult{Text: "merged"}, nil
		}}

		res, err := synthesis.New(gen).Synthesize(context.Background(), outputs, "the request", strategy)
		require.NoError(t, err)
		assert.Equal(t, "merged", res.Content)
		assert.Contains(t, captured, marker, "strategy %s", strategy)
		assert.Contains(t, captured, "expert text")
		assert.Contains(t, captured, "critic text")
		assert.Contains(t, captured, "the request")
	}
}

func TestSynthesizeUnknownStrategyFallsBackToBlending(t *testing.T) {
	var captured string
	gen := &stubGen{generateFn: func(ctx context.Context, system, user string, opts domain.GenerateOptions) (domain.GenerateResult, error) {
		captured = user
		return domain.GenerateResult{Text: "merged"}, nil
	}}

	outputs := []domain.AgentOutput{
		output("a", "A", "a text", 1),
		output("b", "B", "b text", 2),
	}
	_, err := synthesis.New(gen).Synthesize(context.Background(), outputs, "req", "collage")
	require.NoError(t, err)
	assert.Contains(t, captured, "wholly new unified content")
}

func TestSynthesizeOrdersByPriority(t *testing.T) {
	var captured string
	gen := &stubGen{generateFn: func(ctx context.Context, system, user string, opts domain.GenerateOptions) (domain.GenerateResult, error) {
		captured = user
		return domain.GenerateResult{Text: "merged"}, nil
	}}

	// Deliberately out of order.
	outputs := []domain.AgentOutput{
		output("late", "Late", "late text", 3),
		output("early", "Early", "early text", 1),
	}
	_, err := synthesis.New(gen).Synthesize(context.Background(), outputs, "req", domain.StrategyLayering)
	require.NoError(t, err)

	assert.Less(t, strings.Index(captured, "early text"), strings.Index(captured, "late text"))
}

func TestSynthesizeBackendError(t *testing.T) {
	gen := &stubGen{generateFn: func(ctx context.Context, system, user string, opts domain.GenerateOptions) (domain.GenerateResult, error) {
		return domain.GenerateResult{}, errors.New("model overloaded")
	}}

	outputs := []domain.AgentOutput{
		output("a", "A", "a text", 1),
		output("b", "B", "b text", 2),
	}
	_, err := synthesis.New(gen).Synthesize(context.Background(), outputs, "req", domain.StrategyBlending)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model overloaded")
}

func TestSynthesizeReasoningFallsBackToStrategyNote(t *testing.T) {
	gen := &stubGen{generateFn: func(ctx context.Context, system, user string, opts domain.GenerateOptions) (domain.GenerateResult, error) {
		return domain.GenerateResult{Text: "merged"}, nil
	}}

	outputs := []domain.AgentOutput{
		output("a", "A", "a text", 1),
		output("b", "B", "b text", 2),
	}
	res, err := synthesis.New(gen).Synthesize(context.Background(), outputs, "req", domain.StrategyHighlighting)
	require.NoError(t, err)
	assert.Contains(t, res.Reasoning, "highlighting")
}
