package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCP   Mode = "gcp"
)

type Config struct {
	Mode Mode

	Port string

	GeminiAPIKey string
	GCPProjectID string
	ModelName    string

	StorageBackend  string // "memory" or "firestore"
	UseMockLLM      bool   // true = use mock even when a key is present
	ProviderTimeout time.Duration
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
	return v == "1" || v == "true" || v == "TRUE"
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

// defaultBackend picks the storage backend for a mode: Firestore on GCP,
// memory everywhere else. AGRICHAT_STORAGE_BACKEND still overrides.
func defaultBackend(mode Mode) string {
	if mode == ModeGCP {
		return "firestore"
	}
	return "memory"
}

// Load reads the optional .env file plus env vars and builds the config.
func Load() *Config {
	// Missing .env is fine; env vars still apply.
	_ = godotenv.Load()

	modeStr := getEnv("AGRICHAT_MODE", "local")
	var mode Mode
	switch modeStr {
	case "gcp":
		mode = ModeGCP
	default:
		mode = ModeLocal
	}

	cfg := &Config{
		Mode: mode,

		Port: getEnv("PORT", "8080"),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GCPProjectID: getEnv("AGRICHAT_GCP_PROJECT", ""),
		ModelName:    getEnv("AGRICHAT_MODEL_NAME", "gemini-2.5-flash"),

		StorageBackend:  getEnv("AGRICHAT_STORAGE_BACKEND", defaultBackend(mode)),
		UseMockLLM:      getBoolEnv("AGRICHAT_USE_MOCK_LLM", false),
		ProviderTimeout: time.Duration(getIntEnv("AGRICHAT_PROVIDER_TIMEOUT_SECONDS", 20)) * time.Second,
	}

	// Minimal validation in GCP mode and for the firestore backend.
	if cfg.Mode == ModeGCP && cfg.GCPProjectID == "" {
		log.Fatal("AGRICHAT_GCP_PROJECT must be set in gcp mode")
	}
	if cfg.StorageBackend == "firestore" && cfg.GCPProjectID == "" {
		log.Fatal("AGRICHAT_GCP_PROJECT must be set for the firestore backend")
	}

	return cfg
}
