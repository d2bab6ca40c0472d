package settings

import (
	"context"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRepo struct {
	settings map[string]*Setting
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{settings: make(map[string]*Setting)}
}

func (f *fakeRepo) List(context.Context) ([]*Setting, error) {
	var out []*Setting
	for _, s := range f.settings {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (f *fakeRepo) Get(_ context.Context, key string) (*Setting, error) {
	s, ok := f.settings[key]
	if !ok {
		return nil, ErrSettingNotFound
	}
	return s, nil
}

func (f *fakeRepo) Upsert(_ context.Context, setting *Setting) error {
	f.settings[setting.Key] = setting
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, key string) error {
	if _, ok := f.settings[key]; !ok {
		return ErrSettingNotFound
	}
	delete(f.settings, key)
	return nil
}

type fakeAdmins struct {
	admins map[uuid.UUID]bool
}

func (f fakeAdmins) IsAdmin(_ context.Context, userID uuid.UUID) bool {
	return f.admins[userID]
}

func TestSetRequiresAdmin(t *testing.T) {
	admin := uuid.New()
	regular := uuid.New()
	svc := NewService(newFakeRepo(), fakeAdmins{admins: map[uuid.UUID]bool{admin: true}}, zap.NewNop())

	_, err := svc.Set(context.Background(), regular, "default_role", "developer")
	assert.ErrorIs(t, err, ErrAdminOnly)

	setting, err := svc.Set(context.Background(), admin, "default_role", "developer")
	require.NoError(t, err)
	assert.Equal(t, "developer", setting.Value)
	assert.Equal(t, admin, *setting.UpdatedBy)
}

func TestSetUpserts(t *testing.T) {
	admin := uuid.New()
	svc := NewService(newFakeRepo(), fakeAdmins{admins: map[uuid.UUID]bool{admin: true}}, zap.NewNop())

	_, err := svc.Set(context.Background(), admin, "default_role", "developer")
	require.NoError(t, err)
	_, err = svc.Set(context.Background(), admin, "default_role", "team_member")
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), "default_role")
	require.NoError(t, err)
	assert.Equal(t, "team_member", got.Value)
}

func TestReadsOpenToEveryone(t *testing.T) {
	admin := uuid.New()
	svc := NewService(newFakeRepo(), fakeAdmins{admins: map[uuid.UUID]bool{admin: true}}, zap.NewNop())

	_, err := svc.Set(context.Background(), admin, "timezone", "UTC")
	require.NoError(t, err)

	settings, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, settings, 1)
}

func TestDeleteRequiresAdmin(t *testing.T) {
	admin := uuid.New()
	svc := NewService(newFakeRepo(), fakeAdmins{admins: map[uuid.UUID]bool{admin: true}}, zap.NewNop())

	_, err := svc.Set(context.Background(), admin, "timezone", "UTC")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(context.Background(), uuid.New(), "timezone"), ErrAdminOnly)
	require.NoError(t, svc.Delete(context.Background(), admin, "timezone"))
	assert.ErrorIs(t, svc.Delete(context.Background(), admin, "timezone"), ErrSettingNotFound)
}
