package main

import (
	"context"
	"log"
	"net/http"

	httpadapter "github.com/lgrimaldi/plume-agent/internal/adapters/http"
	"github.com/lgrimaldi/plume-agent/internal/adapters/llm"
	"github.com/lgrimaldi/plume-agent/internal/app/agent"
	"github.com/lgrimaldi/plume-agent/internal/app/roles"
	"github.com/lgrimaldi/plume-agent/internal/app/synthesis"
	"github.com/lgrimaldi/plume-agent/internal/app/workflow"
	"github.com/lgrimaldi/plume-agent/internal/config"
	"github.com/lgrimaldi/plume-agent/internal/domain"
	"github.com/lgrimaldi/plume-agent/internal/observability"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()
	observability.SetLevel(observability.ParseLevel(cfg.LogLevel))

	var (
		gen domain.TextGenerator
		err error
	)

	if cfg.UseMockLLM {
		log.Println("[LLM] Using mock generator")
		gen = llm.NewMockGenerator()
	} else {
		log.Println("[LLM] Using Gemini generator")
		gen, err = llm.NewGeminiClient(ctx, cfg.GCPProjectID, cfg.GCPLocation, cfg.ModelName)
		if err != nil {
			log.Fatalf("error initializing Gemini client: %v", err)
		}
	}

	catalog, err := roles.NewCatalog()
	if err != nil {
		log.Fatalf("error loading role templates: %v", err)
	}

	orch := workflow.NewOrchestrator(
		roles.NewAnalyzer(gen, catalog),
		agent.NewFactory(gen, cfg.AgentTimeout, cfg.AgentCache),
		synthesis.New(gen),
	)

	handler := httpadapter.NewServer(orch)

	addr := ":" + cfg.Port
	log.Println("Plume API listening on", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatal(err)
	}
}
