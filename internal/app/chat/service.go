package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agrichat/agrichat/internal/domain"
	"github.com/agrichat/agrichat/internal/observability"
)

// Resolver produces reply text for a user message. It never fails; a
// provider problem degrades to fallback text inside the resolver.
type Resolver interface {
	Resolve(ctx context.Context, message string) string
}

// Service is the chat use case: it owns session resolution, message
// logging order, and session metadata updates.
type Service struct {
	resolver Resolver
	sessions domain.SessionStore
	messages domain.MessageLog
	now      func() time.Time
}

func NewService(resolver Resolver, sessions domain.SessionStore, messages domain.MessageLog) *Service {
	return &Service{
		resolver: resolver,
		sessions: sessions,
		messages: messages,
		now:      time.Now,
	}
}

type HandleInput struct {
	Message   string
	SessionID domain.SessionID // empty means "start a new session"
}

type HandleOutput struct {
	Reply   string
	Session *domain.Session
}

// Handle runs one chat turn. The user message is logged before the
// resolver is consulted and the assistant message before the session
// timestamp update, so a failure mid-turn leaves the log consistent with
// what was asked.
func (s *Service) Handle(ctx context.Context, in HandleInput) (*HandleOutput, error) {
	log := observability.LoggerFromContext(ctx)

	session, err := s.resolveSession(in)
	if err != nil {
		log.Error("failed to resolve session", "requested_session_id", in.SessionID, "error", err)
		return nil, fmt.Errorf("resolving session: %w", err)
	}
	log = log.With("session_id", session.ID)

	userMsg := &domain.Message{
		ID:        domain.MessageID(uuid.NewString()),
		SessionID: session.ID,
		Sender:    domain.SenderUser,
		Text:      in.Message,
		CreatedAt: s.now(),
	}
	if err := s.messages.Append(session.ID, userMsg); err != nil {
		log.Error("failed to append user message", "error", err)
		return nil, fmt.Errorf("appending user message: %w", err)
	}

	reply := s.resolver.Resolve(ctx, in.Message)

	assistantMsg := &domain.Message{
		ID:        domain.MessageID(uuid.NewString()),
		SessionID: session.ID,
		Sender:    domain.SenderAssistant,
		Text:      reply,
		CreatedAt: s.now(),
	}
	if err := s.messages.Append(session.ID, assistantMsg); err != nil {
		log.Error("failed to append assistant message", "error", err)
		return nil, fmt.Errorf("appending assistant message: %w", err)
	}

	if err := s.sessions.Touch(session.ID); err != nil {
		log.Error("failed to touch session", "error", err)
		return nil, fmt.Errorf("touching session: %w", err)
	}

	// Re-read so the returned metadata reflects the touch.
	session, err = s.sessions.Get(session.ID)
	if err != nil {
		log.Error("failed to reload session", "error", err)
		return nil, fmt.Errorf("reloading session: %w", err)
	}

	log.Info("chat turn completed")

	return &HandleOutput{Reply: reply, Session: session}, nil
}

// resolveSession reuses an existing session when the id is known and
// creates a new one (titled from the message) otherwise.
func (s *Service) resolveSession(in HandleInput) (*domain.Session, error) {
	if in.SessionID != "" {
		session, err := s.sessions.Get(in.SessionID)
		if err == nil {
			return session, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		// Unknown id from the client starts a fresh session, matching
		// the POST /chat contract.
	}
	return s.sessions.Create(TitleFor(in.Message))
}

// History returns a session plus its last limit messages in
// chronological order. limit <= 0 means "store default".
func (s *Service) History(ctx context.Context, id domain.SessionID, limit int) (*domain.Session, []*domain.Message, error) {
	session, err := s.sessions.Get(id)
	if err != nil {
		return nil, nil, err
	}

	msgs, err := s.messages.List(id, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("listing messages: %w", err)
	}
	return session, msgs, nil
}

// SessionSummary is one row of the session listing.
type SessionSummary struct {
	Session      *domain.Session
	MessageCount int
}

// ListSessions returns every session in recency order with its message
// count.
func (s *Service) ListSessions(ctx context.Context) ([]SessionSummary, error) {
	sessions, err := s.sessions.ListAll()
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}

	out := make([]SessionSummary, 0, len(sessions))
	for _, sess := range sessions {
		count, err := s.messages.Count(sess.ID)
		if err != nil {
			return nil, fmt.Errorf("counting messages for %s: %w", sess.ID, err)
		}
		out = append(out, SessionSummary{Session: sess, MessageCount: count})
	}
	return out, nil
}

// DeleteSession removes a session and its message log. Idempotent. The
// session entry goes first so listings never see a session whose log is
// already gone.
func (s *Service) DeleteSession(ctx context.Context, id domain.SessionID) error {
	if err := s.sessions.Delete(id); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	if err := s.messages.Delete(id); err != nil {
		return fmt.Errorf("deleting message log: %w", err)
	}
	observability.LoggerFromContext(ctx).Info("session deleted", "session_id", id)
	return nil
}

// RenameSession updates a session title and returns the updated session.
func (s *Service) RenameSession(ctx context.Context, id domain.SessionID, title string) (*domain.Session, error) {
	if err := s.sessions.Rename(id, title); err != nil {
		return nil, err
	}
	return s.sessions.Get(id)
}
