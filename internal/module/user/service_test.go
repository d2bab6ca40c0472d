package user

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskboard/server/internal/module/auth"
	"go.uber.org/zap"
)

type fakeRepo struct {
	profiles map[uuid.UUID]*Profile
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{profiles: make(map[uuid.UUID]*Profile)}
}

func (f *fakeRepo) Create(_ context.Context, profile *Profile) error {
	f.profiles[profile.ID] = profile
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Profile, error) {
	p, ok := f.profiles[id]
	if !ok || p.IsDeleted() {
		return nil, ErrUserNotFound
	}
	return p, nil
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (*Profile, error) {
	for _, p := range f.profiles {
		if p.Email == email && !p.IsDeleted() {
			return p, nil
		}
	}
	return nil, ErrUserNotFound
}

func (f *fakeRepo) Update(_ context.Context, profile *Profile) error {
	f.profiles[profile.ID] = profile
	return nil
}

func (f *fakeRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	p, ok := f.profiles[id]
	if !ok || p.IsDeleted() {
		return ErrUserNotFound
	}
	now := time.Now()
	p.DeletedAt = &now
	return nil
}

func (f *fakeRepo) SearchByEmail(_ context.Context, query string, limit int) ([]*Profile, error) {
	var out []*Profile
	for _, p := range f.profiles {
		if strings.HasPrefix(p.Email, query) && !p.IsDeleted() && len(out) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

func newTestService(repo Repository) *Service {
	tokens := auth.NewTokenManager("test-secret", time.Hour, "taskboard-test")
	return NewService(repo, tokens, zap.NewNop())
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	registered, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    "Ann@Example.com",
		FullName: "Ann",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", registered.User.Email)
	assert.NotEmpty(t, registered.Token.AccessToken)
	assert.Equal(t, "Bearer", registered.Token.TokenType)

	loggedIn, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "ann@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Email: "ann@example.com", FullName: "Ann", Password: "correct horse",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), &RegisterRequest{
		Email: "ANN@example.com", FullName: "Other Ann", Password: "different pass",
	})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestRegisterShortPassword(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Email: "ann@example.com", FullName: "Ann", Password: "short",
	})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Email: "ann@example.com", FullName: "Ann", Password: "correct horse",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &LoginRequest{
		Email: "ann@example.com", Password: "wrong horse",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.Login(context.Background(), &LoginRequest{
		Email: "nobody@example.com", Password: "whatever1",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestChangePassword(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	registered, err := svc.Register(context.Background(), &RegisterRequest{
		Email: "ann@example.com", FullName: "Ann", Password: "correct horse",
	})
	require.NoError(t, err)
	userID := registered.User.ID

	err = svc.ChangePassword(context.Background(), userID, &ChangePasswordRequest{
		CurrentPassword: "wrong horse",
		NewPassword:     "brand new pass",
	})
	assert.ErrorIs(t, err, ErrIncorrectPassword)

	err = svc.ChangePassword(context.Background(), userID, &ChangePasswordRequest{
		CurrentPassword: "correct horse",
		NewPassword:     "brand new pass",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &LoginRequest{
		Email: "ann@example.com", Password: "brand new pass",
	})
	assert.NoError(t, err)
}

func TestDeleteAccount(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	registered, err := svc.Register(context.Background(), &RegisterRequest{
		Email: "ann@example.com", FullName: "Ann", Password: "correct horse",
	})
	require.NoError(t, err)

	err = svc.DeleteAccount(context.Background(), registered.User.ID, "correct horse")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &LoginRequest{
		Email: "ann@example.com", Password: "correct horse",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSearchByEmailRequiresMinimumQuery(t *testing.T) {
	svc := newTestService(newFakeRepo())

	results, err := svc.SearchByEmail(context.Background(), "an")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestIsAdminFailsFalse(t *testing.T) {
	svc := newTestService(newFakeRepo())

	assert.False(t, svc.IsAdmin(context.Background(), uuid.New()))
}
