package memory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrichat/agrichat/internal/adapters/storage/memory"
	"github.com/agrichat/agrichat/internal/domain"
)

func TestSessionLifecycle(t *testing.T) {
	store := memory.NewSessionStore()

	created, err := store.Create("Soil questions")
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	got, err := store.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, got.Title)
	assert.Equal(t, created.CreatedAt, got.CreatedAt)
	assert.Equal(t, created.UpdatedAt, got.UpdatedAt)
}

func TestSessionIDsUnique(t *testing.T) {
	store := memory.NewSessionStore()

	seen := make(map[domain.SessionID]bool)
	for i := 0; i < 100; i++ {
		s, err := store.Create("t")
		require.NoError(t, err)
		require.False(t, seen[s.ID], "duplicate session id %s", s.ID)
		seen[s.ID] = true
	}
}

func TestTouchBumpsUpdatedAt(t *testing.T) {
	store := memory.NewSessionStore()

	s, err := store.Create("t")
	require.NoError(t, err)

	time.Sleep(time.Millisecond)
	require.NoError(t, store.Touch(s.ID))

	got, err := store.Get(s.ID)
	require.NoError(t, err)
	assert.True(t, got.UpdatedAt.After(s.UpdatedAt))
	assert.Equal(t, s.CreatedAt, got.CreatedAt)
}

func TestTouchUnknown(t *testing.T) {
	store := memory.NewSessionStore()
	assert.ErrorIs(t, store.Touch("nope"), domain.ErrNotFound)
}

func TestRename(t *testing.T) {
	store := memory.NewSessionStore()

	s, err := store.Create("old title")
	require.NoError(t, err)

	require.NoError(t, store.Rename(s.ID, "  new title  "))
	got, err := store.Get(s.ID)
	require.NoError(t, err)
	assert.Equal(t, "new title", got.Title)
}

func TestRenameBlankTitle(t *testing.T) {
	store := memory.NewSessionStore()

	s, err := store.Create("old title")
	require.NoError(t, err)

	assert.ErrorIs(t, store.Rename(s.ID, "   "), domain.ErrInvalidArgument)

	got, err := store.Get(s.ID)
	require.NoError(t, err)
	assert.Equal(t, "old title", got.Title, "failed rename must leave the title unchanged")
}

func TestRenameUnknown(t *testing.T) {
	store := memory.NewSessionStore()
	assert.ErrorIs(t, store.Rename("nope", "title"), domain.ErrNotFound)
}

func TestDeleteIdempotent(t *testing.T) {
	store := memory.NewSessionStore()

	s, err := store.Create("t")
	require.NoError(t, err)

	require.NoError(t, store.Delete(s.ID))
	require.NoError(t, store.Delete(s.ID))

	_, err = store.Get(s.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListAllRecencyOrder(t *testing.T) {
	store := memory.NewSessionStore()

	a, err := store.Create("a")
	require.NoError(t, err)
	b, err := store.Create("b")
	require.NoError(t, err)
	c, err := store.Create("c")
	require.NoError(t, err)

	for _, id := range []domain.SessionID{a.ID, b.ID, c.ID} {
		time.Sleep(time.Millisecond)
		require.NoError(t, store.Touch(id))
	}

	all, err := store.ListAll()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, c.ID, all[0].ID)
	assert.Equal(t, b.ID, all[1].ID)
	assert.Equal(t, a.ID, all[2].ID)
}

func TestMessageLogOrdering(t *testing.T) {
	log := memory.NewMessageLog()
	sid := domain.SessionID("s1")

	texts := []string{"m1", "m2", "m3"}
	for _, txt := range texts {
		require.NoError(t, log.Append(sid, &domain.Message{
			SessionID: sid,
			Sender:    domain.SenderUser,
			Text:      txt,
			CreatedAt: time.Now(),
		}))
	}

	msgs, err := log.List(sid, 50)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	for i, txt := range texts {
		assert.Equal(t, txt, msgs[i].Text)
	}

	tail, err := log.List(sid, 2)
	require.NoError(t, err)
	require.Len(t, tail, 2)
	assert.Equal(t, "m2", tail[0].Text)
	assert.Equal(t, "m3", tail[1].Text)
}

func TestMessageLogUnknownSession(t *testing.T) {
	log := memory.NewMessageLog()

	msgs, err := log.List("unknown", 50)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	n, err := log.Count("unknown")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMessageLogCountAndDelete(t *testing.T) {
	log := memory.NewMessageLog()
	sid := domain.SessionID("s1")

	for i := 0; i < 4; i++ {
		require.NoError(t, log.Append(sid, &domain.Message{SessionID: sid, Text: "x"}))
	}

	n, err := log.Count(sid)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	require.NoError(t, log.Delete(sid))
	require.NoError(t, log.Delete(sid))

	n, err = log.Count(sid)
	require.NoError(t, err)
	assert.Zero(t, n)
}
