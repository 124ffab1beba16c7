package domain

import "context"

// Generator defines how the core application talks to a generative-text
// provider. A nil Generator means "provider unavailable".
type Generator interface {
	GenerateReply(ctx context.Context, prompt string) (string, error)
	ListModels(ctx context.Context) ([]ModelInfo, error)
}

// ModelInfo describes one model exposed by the provider.
type ModelInfo struct {
	Name        string
	DisplayName string
}

// SessionStore defines session persistence.
type SessionStore interface {
	// Create allocates a new session with a unique id and both
	// timestamps set to now.
	Create(title string) (*Session, error)

	// Get returns ErrNotFound for an unknown id.
	Get(id SessionID) (*Session, error)

	// Touch bumps UpdatedAt; ErrNotFound for an unknown id.
	Touch(id SessionID) error

	// Rename updates the title and UpdatedAt. Returns ErrInvalidArgument
	// when the new title is blank after trimming, ErrNotFound for an
	// unknown id.
	Rename(id SessionID, title string) error

	// Delete is idempotent: removing an unknown id is not an error.
	Delete(id SessionID) error

	// ListAll returns every session ordered by UpdatedAt descending.
	ListAll() ([]*Session, error)
}

// MessageLog defines per-session message persistence. The log does not
// validate session existence; that is the orchestrator's job.
type MessageLog interface {
	Append(sessionID SessionID, msg *Message) error

	// List returns the last limit messages in chronological order.
	// Unknown sessions yield an empty slice, not an error.
	List(sessionID SessionID, limit int) ([]*Message, error)

	Count(sessionID SessionID) (int, error)

	// Delete removes the whole log for a session; idempotent.
	Delete(sessionID SessionID) error
}
