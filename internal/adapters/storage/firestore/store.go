package firestore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/agrichat/agrichat/internal/domain"
)

// Store wraps one Firestore client behind the two storage ports: a
// sessions collection with a messages subcollection per session document.
type Store struct {
	client *firestore.Client
}

func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

// Sessions returns the domain.SessionStore view.
func (s *Store) Sessions() *SessionStore { return &SessionStore{store: s} }

// Messages returns the domain.MessageLog view.
func (s *Store) Messages() *MessageLog { return &MessageLog{store: s} }

func (s *Store) sessionsCol() *firestore.CollectionRef {
	return s.client.Collection("sessions")
}

func (s *Store) sessionDoc(id domain.SessionID) *firestore.DocumentRef {
	return s.sessionsCol().Doc(string(id))
}

func (s *Store) messagesCol(sessionID domain.SessionID) *firestore.CollectionRef {
	return s.sessionDoc(sessionID).Collection("messages")
}

type sessionDoc struct {
	Title     string    `firestore:"title"`
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

type messageDoc struct {
	SessionID string    `firestore:"session_id"`
	Sender    string    `firestore:"sender"`
	Text      string    `firestore:"text"`
	CreatedAt time.Time `firestore:"created_at"`
}

// ─────────────────────────────────────────
// SessionStore implementation
// ─────────────────────────────────────────

type SessionStore struct {
	store *Store
}

func (s *SessionStore) Create(title string) (*domain.Session, error) {
	ctx := context.Background()

	now := time.Now()
	session := &domain.Session{
		ID:        domain.SessionID(uuid.NewString()),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	doc := sessionDoc{
		Title:     session.Title,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}
	if _, err := s.store.sessionDoc(session.ID).Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("firestore Create: %w", err)
	}
	return session, nil
}

func (s *SessionStore) Get(id domain.SessionID) (*domain.Session, error) {
	ctx := context.Background()

	snap, err := s.store.sessionDoc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("firestore Get: %w", err)
	}

	var doc sessionDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore Get decode: %w", err)
	}

	return &domain.Session{
		ID:        id,
		Title:     doc.Title,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

func (s *SessionStore) Touch(id domain.SessionID) error {
	ctx := context.Background()

	_, err := s.store.sessionDoc(id).Update(ctx, []firestore.Update{
		{Path: "updated_at", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return domain.ErrNotFound
		}
		return fmt.Errorf("firestore Touch: %w", err)
	}
	return nil
}

func (s *SessionStore) Rename(id domain.SessionID, title string) error {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return domain.ErrInvalidArgument
	}

	ctx := context.Background()

	_, err := s.store.sessionDoc(id).Update(ctx, []firestore.Update{
		{Path: "title", Value: trimmed},
		{Path: "updated_at", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return domain.ErrNotFound
		}
		return fmt.Errorf("firestore Rename: %w", err)
	}
	return nil
}

func (s *SessionStore) Delete(id domain.SessionID) error {
	ctx := context.Background()

	// Firestore deletes are no-ops for missing docs, which gives the
	// idempotence the contract asks for.
	if _, err := s.store.sessionDoc(id).Delete(ctx); err != nil {
		return fmt.Errorf("firestore Delete: %w", err)
	}
	return nil
}

func (s *SessionStore) ListAll() ([]*domain.Session, error) {
	ctx := context.Background()

	iter := s.store.sessionsCol().OrderBy("updated_at", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var out []*domain.Session
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("firestore ListAll: %w", err)
		}

		var doc sessionDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode sessionDoc: %w", err)
		}

		out = append(out, &domain.Session{
			ID:        domain.SessionID(snap.Ref.ID),
			Title:     doc.Title,
			CreatedAt: doc.CreatedAt,
			UpdatedAt: doc.UpdatedAt,
		})
	}
	return out, nil
}

// ─────────────────────────────────────────
// MessageLog implementation
// ─────────────────────────────────────────

type MessageLog struct {
	store *Store
}

func (l *MessageLog) Append(sessionID domain.SessionID, msg *domain.Message) error {
	ctx := context.Background()

	id := msg.ID
	if id == "" {
		id = domain.MessageID(uuid.NewString())
	}

	doc := messageDoc{
		SessionID: string(sessionID),
		Sender:    string(msg.Sender),
		Text:      msg.Text,
		CreatedAt: msg.CreatedAt,
	}
	if _, err := l.store.messagesCol(sessionID).Doc(string(id)).Set(ctx, doc); err != nil {
		return fmt.Errorf("firestore Append: %w", err)
	}
	return nil
}

func (l *MessageLog) List(sessionID domain.SessionID, limit int) ([]*domain.Message, error) {
	ctx := context.Background()

	if limit <= 0 {
		limit = 50
	}

	// LimitToLast keeps chronological order while returning the tail.
	q := l.store.messagesCol(sessionID).OrderBy("created_at", firestore.Asc).LimitToLast(limit)
	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("firestore List: %w", err)
	}

	out := make([]*domain.Message, 0, len(snaps))
	for _, snap := range snaps {
		var doc messageDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode messageDoc: %w", err)
		}
		out = append(out, &domain.Message{
			ID:        domain.MessageID(snap.Ref.ID),
			SessionID: sessionID,
			Sender:    domain.Sender(doc.Sender),
			Text:      doc.Text,
			CreatedAt: doc.CreatedAt,
		})
	}
	return out, nil
}

func (l *MessageLog) Count(sessionID domain.SessionID) (int, error) {
	ctx := context.Background()

	iter := l.store.messagesCol(sessionID).Select().Documents(ctx)
	defer iter.Stop()

	n := 0
	for {
		_, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("firestore Count: %w", err)
		}
		n++
	}
	return n, nil
}

func (l *MessageLog) Delete(sessionID domain.SessionID) error {
	ctx := context.Background()

	iter := l.store.messagesCol(sessionID).Select().Documents(ctx)
	defer iter.Stop()

	bw := l.store.client.BulkWriter(ctx)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("firestore Delete: %w", err)
		}
		if _, err := bw.Delete(snap.Ref); err != nil {
			return fmt.Errorf("firestore Delete: %w", err)
		}
	}
	bw.End()
	return nil
}
