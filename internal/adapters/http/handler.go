package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/agrichat/agrichat/internal/app/chat"
	"github.com/agrichat/agrichat/internal/domain"
	"github.com/agrichat/agrichat/internal/observability"
)

type Server struct {
	svc      *chat.Service
	gen      domain.Generator // nil when no provider is configured
	mockMode bool
}

func NewServer(svc *chat.Service, gen domain.Generator, mockMode bool) http.Handler {
	s := &Server{svc: svc, gen: gen, mockMode: mockMode}
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/chat", s.handleChat)
	mux.HandleFunc("/chats", s.handleChats)

	// /chats/{id}        → GET: history, DELETE: remove
	// /chats/{id}/title  → PUT: rename
	mux.HandleFunc("/chats/", s.handleChatWithID)

	mux.HandleFunc("/models", s.handleModels)

	return chainMiddlewares(mux, withCORS, withLogging, withRequestID)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type chatRequest struct {
	Message string `json:"message"`
	ChatID  string `json:"chat_id,omitempty"`
}

type chatResponse struct {
	Response  string `json:"response"`
	ChatID    string `json:"chat_id"`
	ChatTitle string `json:"chat_title"`
}

type messageResponse struct {
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

type historyResponse struct {
	ChatID    string            `json:"chat_id"`
	Title     string            `json:"title"`
	Messages  []messageResponse `json:"messages"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type sessionResponse struct {
	ChatID    string    `json:"chat_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type sessionSummaryResponse struct {
	ChatID       string    `json:"chat_id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
}

type listSessionsResponse struct {
	Sessions []sessionSummaryResponse `json:"sessions"`
}

type renameRequest struct {
	Title string `json:"title"`
}

type modelResponse struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

// ─────────────────────────────────────────────
// Handlers
// ─────────────────────────────────────────────

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		notFound(w, "not found")
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":         "AgriChat API",
		"status":          "running",
		"mock_mode":       s.mockMode,
		"model_available": s.gen != nil,
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		badRequest(w, "message is required")
		return
	}

	out, err := s.svc.Handle(r.Context(), chat.HandleInput{
		Message:   req.Message,
		SessionID: domain.SessionID(req.ChatID),
	})
	if err != nil {
		internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Response:  out.Reply,
		ChatID:    string(out.Session.ID),
		ChatTitle: out.Session.Title,
	})
}

func (s *Server) handleChats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	summaries, err := s.svc.ListSessions(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}

	resp := listSessionsResponse{Sessions: make([]sessionSummaryResponse, 0, len(summaries))}
	for _, sum := range summaries {
		resp.Sessions = append(resp.Sessions, sessionSummaryResponse{
			ChatID:       string(sum.Session.ID),
			Title:        sum.Session.Title,
			CreatedAt:    sum.Session.CreatedAt,
			UpdatedAt:    sum.Session.UpdatedAt,
			MessageCount: sum.MessageCount,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChatWithID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/chats/")
	if path == "" {
		notFound(w, "chat id is required")
		return
	}

	parts := strings.Split(path, "/")
	id := domain.SessionID(parts[0])

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			s.handleGetHistory(w, r, id)
		case http.MethodDelete:
			s.handleDeleteChat(w, r, id)
		default:
			methodNotAllowed(w)
		}
		return
	}

	if len(parts) == 2 && parts[1] == "title" {
		if r.Method != http.MethodPut {
			methodNotAllowed(w)
			return
		}
		s.handleRenameChat(w, r, id)
		return
	}

	notFound(w, "not found")
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	session, msgs, err := s.svc.History(r.Context(), id, 0)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(w, "chat session not found")
			return
		}
		internalError(w, r, err)
		return
	}

	resp := historyResponse{
		ChatID:    string(session.ID),
		Title:     session.Title,
		Messages:  make([]messageResponse, 0, len(msgs)),
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}
	for _, m := range msgs {
		resp.Messages = append(resp.Messages, messageResponse{
			Sender:    string(m.Sender),
			Text:      m.Text,
			Timestamp: m.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteChat(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	if err := s.svc.DeleteSession(r.Context(), id); err != nil {
		internalError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRenameChat(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	session, err := s.svc.RenameSession(r.Context(), id, req.Title)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument):
			badRequest(w, "title must not be blank")
		case errors.Is(err, domain.ErrNotFound):
			notFound(w, "chat session not found")
		default:
			internalError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		ChatID:    string(session.ID),
		Title:     session.Title,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	})
}

// handleModels is a diagnostic passthrough to the provider's model
// listing.
func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	if s.gen == nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"error": "generative provider is not configured",
		})
		return
	}

	models, err := s.gen.ListModels(r.Context())
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"error": "provider model listing failed",
		})
		return
	}

	out := make([]modelResponse, 0, len(models))
	for _, m := range models {
		out = append(out, modelResponse{Name: m.Name, DisplayName: m.DisplayName})
	}
	writeJSON(w, http.StatusOK, map[string]any{"available_models": out})
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
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

func notFound(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": msg})
}

func internalError(w http.ResponseWriter, r *http.Request, err error) {
	observability.LoggerFromContext(r.Context()).Error("request failed",
		"method", r.Method, "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal server error",
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
}
