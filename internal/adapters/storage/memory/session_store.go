package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agrichat/agrichat/internal/domain"
)

// SessionStore is the in-memory implementation of domain.SessionStore.
// Not persistent; suitable for development and local mode.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[domain.SessionID]*domain.Session
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[domain.SessionID]*domain.Session),
		now:      time.Now,
	}
}

func (s *SessionStore) Create(title string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	session := &domain.Session{
		ID:        domain.SessionID(uuid.NewString()),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.sessions[session.ID] = session

	out := *session
	return &out, nil
}

func (s *SessionStore) Get(id domain.SessionID) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}

	out := *sess
	return &out, nil
}

func (s *SessionStore) Touch(id domain.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return domain.ErrNotFound
	}
	sess.UpdatedAt = s.now()
	return nil
}

func (s *SessionStore) Rename(id domain.SessionID, title string) error {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return domain.ErrInvalidArgument
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return domain.ErrNotFound
	}
	sess.Title = trimmed
	sess.UpdatedAt = s.now()
	return nil
}

func (s *SessionStore) Delete(id domain.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

func (s *SessionStore) ListAll() ([]*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		cp := *sess
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}
