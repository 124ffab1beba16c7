package chat_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrichat/agrichat/internal/adapters/storage/memory"
	"github.com/agrichat/agrichat/internal/app/chat"
	"github.com/agrichat/agrichat/internal/app/resolver"
	"github.com/agrichat/agrichat/internal/app/topics"
	"github.com/agrichat/agrichat/internal/domain"
)

func newTestService(t *testing.T) (*chat.Service, *memory.SessionStore, *memory.MessageLog) {
	t.Helper()

	sessions := memory.NewSessionStore()
	log := memory.NewMessageLog()
	res := resolver.New(topics.MustMatcher(topics.DefaultRules()), nil, time.Second,
		resolver.WithPicker(func(n int) int { return 0 }))

	return chat.NewService(res, sessions, log), sessions, log
}

func TestHandleNewSession(t *testing.T) {
	svc, _, log := newTestService(t)
	ctx := context.Background()

	out, err := svc.Handle(ctx, chat.HandleInput{Message: "What soil pH is best?"})
	require.NoError(t, err)
	require.NotNil(t, out.Session)

	assert.NotEmpty(t, out.Session.ID)
	assert.Equal(t, "What soil pH is best?", out.Session.Title)
	assert.Contains(t, out.Reply, "pH between 6.0 and 7.0")

	msgs, err := log.List(out.Session.ID, 50)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, domain.SenderUser, msgs[0].Sender)
	assert.Equal(t, "What soil pH is best?", msgs[0].Text)
	assert.Equal(t, domain.SenderAssistant, msgs[1].Sender)
	assert.Equal(t, out.Reply, msgs[1].Text)
}

func TestHandleExistingSession(t *testing.T) {
	svc, _, log := newTestService(t)
	ctx := context.Background()

	first, err := svc.Handle(ctx, chat.HandleInput{Message: "tell me about irrigation"})
	require.NoError(t, err)

	second, err := svc.Handle(ctx, chat.HandleInput{
		Message:   "and what about pests?",
		SessionID: first.Session.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, first.Session.ID, second.Session.ID)
	assert.Equal(t, first.Session.Title, second.Session.Title, "existing session keeps its title")

	msgs, err := log.List(first.Session.ID, 50)
	require.NoError(t, err)
	assert.Len(t, msgs, 4)
}

func TestHandleUnknownSessionIDStartsFresh(t *testing.T) {
	svc, _, _ := newTestService(t)

	out, err := svc.Handle(context.Background(), chat.HandleInput{
		Message:   "hello there",
		SessionID: "no-such-session",
	})
	require.NoError(t, err)
	assert.NotEqual(t, domain.SessionID("no-such-session"), out.Session.ID)
	assert.Equal(t, "hello there", out.Session.Title)
}

func TestHandleTouchesSession(t *testing.T) {
	svc, sessions, _ := newTestService(t)
	ctx := context.Background()

	out, err := svc.Handle(ctx, chat.HandleInput{Message: "first question"})
	require.NoError(t, err)

	before, err := sessions.Get(out.Session.ID)
	require.NoError(t, err)

	time.Sleep(time.Millisecond)
	_, err = svc.Handle(ctx, chat.HandleInput{Message: "second question", SessionID: out.Session.ID})
	require.NoError(t, err)

	after, err := sessions.Get(out.Session.ID)
	require.NoError(t, err)
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
}

func TestHandleReturnsCurrentUpdatedAt(t *testing.T) {
	svc, sessions, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Handle(ctx, chat.HandleInput{Message: "first question"})
	require.NoError(t, err)

	time.Sleep(time.Millisecond)
	second, err := svc.Handle(ctx, chat.HandleInput{Message: "second question", SessionID: first.Session.ID})
	require.NoError(t, err)

	stored, err := sessions.Get(first.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.UpdatedAt, second.Session.UpdatedAt, "returned session reflects the touch")
	assert.True(t, second.Session.UpdatedAt.After(first.Session.UpdatedAt))
}

func TestHistory(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	out, err := svc.Handle(ctx, chat.HandleInput{Message: "about fertilizer"})
	require.NoError(t, err)

	session, msgs, err := svc.History(ctx, out.Session.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, out.Session.ID, session.ID)
	assert.Len(t, msgs, 2)

	_, _, err = svc.History(ctx, "unknown", 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListSessionsWithCounts(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.Handle(ctx, chat.HandleInput{Message: "question a"})
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	b, err := svc.Handle(ctx, chat.HandleInput{Message: "question b"})
	require.NoError(t, err)

	summaries, err := svc.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, b.Session.ID, summaries[0].Session.ID, "most recent first")
	assert.Equal(t, a.Session.ID, summaries[1].Session.ID)
	assert.Equal(t, 2, summaries[0].MessageCount)
	assert.Equal(t, 2, summaries[1].MessageCount)
}

func TestDeleteSessionCascades(t *testing.T) {
	svc, _, log := newTestService(t)
	ctx := context.Background()

	out, err := svc.Handle(ctx, chat.HandleInput{Message: "to be deleted"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSession(ctx, out.Session.ID))
	require.NoError(t, svc.DeleteSession(ctx, out.Session.ID), "delete is idempotent")

	_, _, err = svc.History(ctx, out.Session.ID, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	n, err := log.Count(out.Session.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRenameSession(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	out, err := svc.Handle(ctx, chat.HandleInput{Message: "old"})
	require.NoError(t, err)

	renamed, err := svc.RenameSession(ctx, out.Session.ID, "Field notes")
	require.NoError(t, err)
	assert.Equal(t, "Field notes", renamed.Title)

	_, err = svc.RenameSession(ctx, out.Session.ID, "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = svc.RenameSession(ctx, "unknown", "title")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
