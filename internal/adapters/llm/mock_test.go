package llm_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lgrimaldi/plume-agent/internal/adapters/llm"
	"github.com/lgrimaldi/plume-agent/internal/domain"
)

func TestMockGenerate(t *testing.T) {
	gen := llm.NewMockGenerator()

	res, err := gen.Generate(context.Background(), "system", "user prompt\nmore", domain.GenerateOptions{})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Text)
	assert.Contains(t, res.Text, "user prompt")
}

func TestMockGenerateStructuredIsValidAnalysisJSON(t *testing.T) {
	gen := llm.NewMockGenerator()

	raw, err := gen.GenerateStructured(context.Background(), "system", "user", nil, domain.GenerateOptions{})
	require.NoError(t, err)

	var analysis struct {
		IdentifiedRoles []struct {
			ID       string `json:"id"`
			Priority int    `json:"priority"`
		} `json:"identified_roles"`
		Confidence float64 `json:"confidence"`
	}
	require.NoError(t, json.Unmarshal(raw, &analysis))
	assert.GreaterOrEqual(t, len(analysis.IdentifiedRoles), domain.MinRoles)
	assert.LessOrEqual(t, len(analysis.IdentifiedRoles), domain.MaxRoles)
}
