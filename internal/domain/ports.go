package domain

import "context"

// TextGenerator defines how the core application talks to an LLM backend.
// Both calls are network-bound and honor context deadlines/cancellation.
type TextGenerator interface {
	// Generate produces free-form text for a system + user prompt pair.
	Generate(ctx context.Context, system, user string, opts GenerateOptions) (GenerateResult, error)

	// GenerateStructured produces a JSON document conforming to schema.
	// The raw JSON bytes are returned for the caller to unmarshal.
	GenerateStructured(ctx context.Context, system, user string, schema *Schema, opts GenerateOptions) ([]byte, error)
}

// GenerateOptions tunes a single generation call. Zero values mean
// backend defaults.
type GenerateOptions struct {
	Temperature     float32
	MaxOutputTokens int32
}

// GenerateResult is the outcome of a free-form generation call.
// Reasoning is optional; not every backend exposes a trace.
type GenerateResult struct {
	Text      string
	Reasoning string
}

// Schema describes the expected shape of a structured response. It mirrors
// the subset of JSON schema the generation backends understand, without
// tying the core to any SDK's schema type.
type Schema struct {
	Type        SchemaType
	Description string
	Properties  map[string]*Schema
	Items       *Schema
	Required    []string
	Enum        []string
}

type SchemaType string

const (
	TypeObject  SchemaType = "OBJECT"
	TypeArray   SchemaType = "ARRAY"
	TypeString  SchemaType = "STRING"
	TypeNumber  SchemaType = "NUMBER"
	TypeInteger SchemaType = "INTEGER"
	TypeBoolean SchemaType = "BOOLEAN"
)
