package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCP   Mode = "gcp"
)

type Config struct {
	Mode Mode

	Port string

	GCPProjectID string
	GCPLocation  string
	ModelName    string

	UseMockLLM   bool          // true = use mock even on GCP
	AgentTimeout time.Duration // per-role generation budget
	AgentCache   bool          // reuse agent handles across requests

	LogLevel string // debug, info, warn or error
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if v == "1" || v == "true" || v == "TRUE" {
		return true
	}
	return false
}

func getIntEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// Load reads all env vars and builds the config
func Load() *Config {
	modeStr := getEnv("PLUME_MODE", "local")
	var mode Mode
	switch modeStr {
	case "gcp":
		mode = ModeGCP
	default:
		mode = ModeLocal
	}

	cfg := &Config{
		Mode: mode,

		Port: getEnv("PLUME_PORT", "8080"),

		GCPProjectID: getEnv("PLUME_GCP_PROJECT", ""),
		GCPLocation:  getEnv("PLUME_GCP_LOCATION", "us-central1"),
		ModelName:    getEnv("PLUME_MODEL_NAME", "gemini-2.5-flash"),

		UseMockLLM:   getBoolEnv("PLUME_USE_MOCK_LLM", mode == ModeLocal),
		AgentTimeout: time.Duration(getIntEnv("PLUME_AGENT_TIMEOUT_MS", 30000)) * time.Millisecond,
		AgentCache:   getBoolEnv("PLUME_AGENT_CACHE", true),

		LogLevel: getEnv("PLUME_LOG_LEVEL", "info"),
	}

	// Minimal validation in GCP mode
	if cfg.Mode == ModeGCP && cfg.GCPProjectID == "" {
		log.Fatal("PLUME_GCP_PROJECT must be set in gcp mode")
	}

	return cfg
}
