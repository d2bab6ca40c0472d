package message

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRepo struct {
	messages map[uuid.UUID]*Message
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{messages: make(map[uuid.UUID]*Message)}
}

func (f *fakeRepo) Create(_ context.Context, msg *Message) error {
	f.messages[msg.ID] = msg
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Message, error) {
	m, ok := f.messages[id]
	if !ok {
		return nil, ErrMessageNotFound
	}
	return m, nil
}

func (f *fakeRepo) ListRecent(_ context.Context, projectID uuid.UUID, limit int) ([]*Message, error) {
	var out []*Message
	for _, m := range f.messages {
		if m.ProjectID == projectID && len(out) < limit {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, msg *Message) error {
	f.messages[msg.ID] = msg
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.messages[id]; !ok {
		return ErrMessageNotFound
	}
	delete(f.messages, id)
	return nil
}

type allowGate struct{ allow bool }

func (g allowGate) CanAccessTeam(context.Context, uuid.UUID, uuid.UUID) bool { return g.allow }

func newTestService(repo Repository, allow bool) *Service {
	return NewService(repo, allowGate{allow: allow}, nil, zap.NewNop())
}

func TestPostAndList(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, true)
	projectID := uuid.New()
	authorID := uuid.New()

	posted, err := svc.Post(context.Background(), projectID, authorID, "standup at 10")
	require.NoError(t, err)
	assert.False(t, posted.IsEdited())

	messages, err := svc.ListRecent(context.Background(), projectID, authorID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "standup at 10", messages[0].Body)
}

func TestPostDeniedWithoutAccess(t *testing.T) {
	svc := newTestService(newFakeRepo(), false)

	_, err := svc.Post(context.Background(), uuid.New(), uuid.New(), "hi")
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestListDeniedWithoutAccess(t *testing.T) {
	svc := newTestService(newFakeRepo(), false)

	_, err := svc.ListRecent(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestEditOnlyAuthor(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, true)
	authorID := uuid.New()

	posted, err := svc.Post(context.Background(), uuid.New(), authorID, "draft")
	require.NoError(t, err)

	_, err = svc.Edit(context.Background(), posted.ID, uuid.New(), "hijacked")
	assert.ErrorIs(t, err, ErrNotAuthor)

	edited, err := svc.Edit(context.Background(), posted.ID, authorID, "final")
	require.NoError(t, err)
	assert.Equal(t, "final", edited.Body)
	assert.True(t, edited.IsEdited())
}

func TestDeleteOnlyAuthor(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, true)
	authorID := uuid.New()

	posted, err := svc.Post(context.Background(), uuid.New(), authorID, "oops")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(context.Background(), posted.ID, uuid.New()), ErrNotAuthor)
	require.NoError(t, svc.Delete(context.Background(), posted.ID, authorID))
	assert.ErrorIs(t, svc.Delete(context.Background(), posted.ID, authorID), ErrMessageNotFound)
}
