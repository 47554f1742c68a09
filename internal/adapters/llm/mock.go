package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/lgrimaldi/plume-agent/internal/domain"
)

// MockGenerator is a deterministic stand-in for local development without
// GCP credentials. It produces canned but shape-correct results.
type MockGenerator struct{}

func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

func (m *MockGenerator) Generate(ctx context.Context, system, user string, opts domain.GenerateOptions) (domain.GenerateResult, error) {
	// Echo a recognizable slice of the prompt so responses are tellable apart.
	head := user
	if i := strings.IndexByte(head, '\n'); i > 0 {
		head = head[:i]
	}
	return domain.GenerateResult{
		Text:      fmt.Sprintf("[mock] %s\n\nThis is placeholder prose generated without a model backend.", head),
		Reasoning: "mock generation, no model involved",
	}, nil
}

func (m *MockGenerator) GenerateStructured(ctx context.Context, system, user string, schema *domain.Schema, opts domain.GenerateOptions) ([]byte, error) {
	// A fixed two-role analysis; enough to exercise the whole workflow.
	return []byte(`{
		"identified_roles": [
			{"id": "content_writer", "name": "Content Writer", "description": "Clear structured prose", "prompt": "Write clearly.", "priority": 1},
			{"id": "editor", "name": "Editor", "description": "Tightens and polishes", "prompt": "Edit ruthlessly.", "priority": 2}
		],
		"reasoning": "mock analysis: generic writer plus editor",
		"confidence": 0.9
	}`), nil
}
