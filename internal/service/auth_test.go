package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"messenger/internal/config"
	"messenger/internal/domain"
	apperrors "messenger/pkg/errors"
	"messenger/pkg/logger"
)

type memUserRepo struct {
	nextID int64
	byID   map[int64]*domain.User
	online map[int64]bool
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: make(map[int64]*domain.User), online: make(map[int64]bool)}
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, u := range r.byID {
		if u.Email == user.Email {
			return apperrors.ErrUserAlreadyExists
		}
	}
	r.nextID++
	user.ID = r.nextID
	stored := *user
	r.byID[user.ID] = &stored
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *memUserRepo) ListOthers(context.Context, int64) ([]*domain.User, error) { return nil, nil }

func (r *memUserRepo) SetOnline(_ context.Context, userID int64, online bool) error {
	r.online[userID] = online
	return nil
}

func (r *memUserRepo) TouchLastSeen(context.Context, int64) error { return nil }

type memPresenceRepo struct {
	online map[int64]bool
}

func newMemPresenceRepo() *memPresenceRepo {
	return &memPresenceRepo{online: make(map[int64]bool)}
}

func (r *memPresenceRepo) SetOnline(_ context.Context, userID int64) error {
	r.online[userID] = true
	return nil
}

func (r *memPresenceRepo) SetOffline(_ context.Context, userID int64) error {
	delete(r.online, userID)
	return nil
}

func (r *memPresenceRepo) IsOnline(_ context.Context, userID int64) (bool, error) {
	return r.online[userID], nil
}

var testJWTConfig = config.JWTConfig{
	AccessSecret:  "test-access-secret",
	RefreshSecret: "test-refresh-secret",
	AccessTTL:     time.Minute,
	RefreshTTL:    time.Hour,
}

func newAuthFixture() (*memUserRepo, *memPresenceRepo, AuthService) {
	users := newMemUserRepo()
	presence := newMemPresenceRepo()
	return users, presence, NewAuthService(users, presence, testJWTConfig, logger.NewNop())
}

func TestAuthService_Register(t *testing.T) {
	users, _, svc := newAuthFixture()

	u, err := svc.Register(context.Background(), "alice", " Alice@Example.COM ", "password123")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "alice@example.com", u.Email, "email is normalized")
	assert.Empty(t, u.PasswordHash, "hash never leaves the service")
	assert.False(t, u.IsOnline, "registration does not log in")

	stored := users.byID[u.ID]
	require.NotNil(t, stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123")))
}

func TestAuthService_RegisterValidation(t *testing.T) {
	_, _, svc := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "not-an-email", "password123")
	assert.Error(t, err)

	_, err = svc.Register(ctx, "alice", "alice@example.com", "short")
	assert.Error(t, err)

	_, err = svc.Register(ctx, "  ", "alice@example.com", "password123")
	assert.Error(t, err)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	_, _, svc := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice2", "alice@example.com", "password456")
	assert.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)
}

func TestAuthService_LoginIssuesTokensAndFlipsOnline(t *testing.T) {
	users, presence, svc := newAuthFixture()
	ctx := context.Background()

	registered, err := svc.Register(ctx, "alice", "alice@example.com", "password123")
	require.NoError(t, err)

	resp, err := svc.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.True(t, resp.User.IsOnline)
	assert.Empty(t, resp.User.PasswordHash)

	assert.True(t, users.online[registered.ID])
	cached, _ := presence.IsOnline(ctx, registered.ID)
	assert.True(t, cached)

	// The issued access token authenticates back to the same user.
	validated, err := svc.ValidateToken(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, validated.ID)
}

func TestAuthService_LoginFailuresAreIndistinguishable(t *testing.T) {
	_, _, svc := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAuthService_RefreshTokenRotates(t *testing.T) {
	_, _, svc := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "password123")
	require.NoError(t, err)
	login, err := svc.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEmpty(t, refreshed.RefreshToken)

	_, err = svc.RefreshToken(ctx, "bogus")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	_, err = svc.RefreshToken(ctx, login.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken, "access token is not a refresh token")
}

func TestAuthService_Logout(t *testing.T) {
	users, presence, svc := newAuthFixture()
	ctx := context.Background()

	registered, err := svc.Register(ctx, "alice", "alice@example.com", "password123")
	require.NoError(t, err)
	_, err = svc.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, registered.ID))
	assert.False(t, users.online[registered.ID])
	cached, _ := presence.IsOnline(ctx, registered.ID)
	assert.False(t, cached)
}
