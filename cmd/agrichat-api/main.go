package main

import (
	"context"
	"log"
	"net/http"

	httpadapter "github.com/agrichat/agrichat/internal/adapters/http"
	"github.com/agrichat/agrichat/internal/adapters/llm"
	firestorestore "github.com/agrichat/agrichat/internal/adapters/storage/firestore"
	memstore "github.com/agrichat/agrichat/internal/adapters/storage/memory"
	"github.com/agrichat/agrichat/internal/app/chat"
	"github.com/agrichat/agrichat/internal/app/resolver"
	"github.com/agrichat/agrichat/internal/app/topics"
	"github.com/agrichat/agrichat/internal/config"
	"github.com/agrichat/agrichat/internal/domain"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	// Provider: mock, Gemini, or explicitly unavailable. Resolved once
	// here; the resolver treats a nil generator as "use fallback".
	var gen domain.Generator
	switch {
	case cfg.UseMockLLM:
		log.Println("[LLM] Using mock generator")
		gen = llm.NewMockLLM()
	case cfg.GeminiAPIKey != "":
		client, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.ModelName)
		if err != nil {
			log.Printf("[LLM] Gemini unavailable, falling back to canned replies: %v", err)
		} else {
			log.Printf("[LLM] Using Gemini generator (model=%s)", cfg.ModelName)
			gen = client
		}
	default:
		log.Println("[LLM] GEMINI_API_KEY not set, provider unavailable")
	}

	// Storage: Firestore or memory.
	var sessions domain.SessionStore
	var messages domain.MessageLog

	switch cfg.StorageBackend {
	case "firestore":
		log.Printf("[STORE] Using Firestore storage (project=%s)", cfg.GCPProjectID)
		store, err := firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			log.Fatalf("error initializing Firestore store: %v", err)
		}
		sessions = store.Sessions()
		messages = store.Messages()

	default:
		log.Println("[STORE] Using in-memory storage")
		sessions = memstore.NewSessionStore()
		messages = memstore.NewMessageLog()
	}

	matcher := topics.MustMatcher(topics.DefaultRules())
	res := resolver.New(matcher, gen, cfg.ProviderTimeout)
	svc := chat.NewService(res, sessions, messages)

	handler := httpadapter.NewServer(svc, gen, cfg.UseMockLLM)

	addr := ":" + cfg.Port
	log.Println("AgriChat API listening on", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatal(err)
	}
}
