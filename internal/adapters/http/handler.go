package httpadapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/lgrimaldi/plume-agent/internal/app/workflow"
	"github.com/lgrimaldi/plume-agent/internal/domain"
)

// Bounds enforced on incoming requests.
const (
	minRequestChars   = 10
	maxRequestChars   = 5000
	maxConstraintLen  = 120
	maxPreferredRoles = 4
)

type Server struct {
	orch *workflow.Orchestrator
}

func NewServer(orch *workflow.Orchestrator) http.Handler {
	s := &Server{orch: orch}
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealthz)

	// /v1/compositions → run the writing workflow (POST)
	mux.HandleFunc("/v1/compositions", s.handleCompositions)

	return chainMiddlewares(mux, withCORS, withLogging, withRequestID)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type composeRequest struct {
	Request     string          `json:"request"`
	Constraints *constraintsDTO `json:"constraints,omitempty"`
}

type constraintsDTO struct {
	MaxLength         int      `json:"max_length,omitempty"`
	Tone              string   `json:"tone,omitempty"`
	TargetAudience    string   `json:"target_audience,omitempty"`
	PreferredRoles    []string `json:"preferred_roles,omitempty"`
	SynthesisStrategy string   `json:"synthesis_strategy,omitempty"`
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCompositions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req composeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	constraints, problem := validateRequest(&req)
	if problem != "" {
		badRequest(w, problem)
		return
	}

	state := domain.NewState(strings.TrimSpace(req.Request), constraints)
	state = s.orch.Run(r.Context(), state)

	// Partial failures ride along as warnings; only request validation and
	// infrastructure problems produce non-200 statuses.
	writeJSON(w, http.StatusOK, workflow.FormatOutput(state))
}

// validateRequest enforces the caller-side bounds and maps the DTO into
// domain constraints. A non-empty second return value is the violation.
func validateRequest(req *composeRequest) (*domain.UserConstraints, string) {
	text := strings.TrimSpace(req.Request)
	if n := utf8.RuneCountInString(text); n < minRequestChars || n > maxRequestChars {
		return nil, fmt.Sprintf("request must be between %d and %d characters", minRequestChars, maxRequestChars)
	}

	if req.Constraints == nil {
		return nil, ""
	}
	c := req.Constraints

	if c.MaxLength < 0 {
		return nil, "max_length must be a positive integer"
	}
	if utf8.RuneCountInString(c.Tone) > maxConstraintLen {
		return nil, fmt.Sprintf("tone must be at most %d characters", maxConstraintLen)
	}
	if utf8.RuneCountInString(c.TargetAudience) > maxConstraintLen {
		return nil, fmt.Sprintf("target_audience must be at most %d characters", maxConstraintLen)
	}
	if len(c.PreferredRoles) > maxPreferredRoles {
		return nil, fmt.Sprintf("preferred_roles may list at most %d roles", maxPreferredRoles)
	}
	if c.SynthesisStrategy != "" && !domain.SynthesisStrategy(c.SynthesisStrategy).Valid() {
		return nil, fmt.Sprintf("synthesis_strategy must be one of %s, %s, %s, %s",
			domain.StrategyInterleaving, domain.StrategyLayering, domain.StrategyHighlighting, domain.StrategyBlending)
	}

	return &domain.UserConstraints{
		MaxLength:         c.MaxLength,
		Tone:              strings.TrimSpace(c.Tone),
		TargetAudience:    strings.TrimSpace(c.TargetAudience),
		PreferredRoles:    c.PreferredRoles,
		SynthesisStrategy: domain.ParseSynthesisStrategy(c.SynthesisStrategy),
	}, ""
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "method not allowed",
	})
}
