package memory

import (
	"sync"

	"github.com/agrichat/agrichat/internal/domain"
)

// DefaultListLimit bounds List calls that pass no explicit limit.
const DefaultListLimit = 50

// MessageLog is the in-memory implementation of domain.MessageLog.
type MessageLog struct {
	mu       sync.RWMutex
	messages map[domain.SessionID][]*domain.Message
}

func NewMessageLog() *MessageLog {
	return &MessageLog{
		messages: make(map[domain.SessionID][]*domain.Message),
	}
}

func (l *MessageLog) Append(sessionID domain.SessionID, msg *domain.Message) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.messages[sessionID] = append(l.messages[sessionID], msg)
	return nil
}

// List returns the last limit messages in chronological order. limit <= 0
// means DefaultListLimit.
func (l *MessageLog) List(sessionID domain.SessionID, limit int) ([]*domain.Message, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if limit <= 0 {
		limit = DefaultListLimit
	}

	msgs := l.messages[sessionID]
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}

	out := make([]*domain.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (l *MessageLog) Count(sessionID domain.SessionID) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.messages[sessionID]), nil
}

func (l *MessageLog) Delete(sessionID domain.SessionID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.messages, sessionID)
	return nil
}
