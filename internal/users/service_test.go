package users

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

type memoryRepo struct {
	mu    sync.Mutex
	items map[string]User
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: map[string]User{}}
}

func (m *memoryRepo) Create(ctx context.Context, user User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.items {
		if u.Email == user.Email {
			return mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key"}}}
		}
	}
	m.items[user.ID] = user
	return nil
}

func (m *memoryRepo) GetByID(ctx context.Context, id string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.items[id]
	if !ok {
		return User{}, mongo.ErrNoDocuments
	}
	return u, nil
}

func (m *memoryRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.items {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, mongo.ErrNoDocuments
}

func (m *memoryRepo) Usernames(ctx context.Context, ids []string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]string{}
	for _, id := range ids {
		if u, ok := m.items[id]; ok {
			out[id] = u.Username
		}
	}
	return out, nil
}

func newTestService(t *testing.T) (*Service, *memoryRepo) {
	t.Helper()
	repo := newMemoryRepo()
	tokens := &auth.Manager{Secret: []byte("secret"), AccessTTL: time.Hour, Issuer: "portfolio-backend"}
	return NewService(repo, tokens, validation.New(), time.UTC), repo
}

func TestAuthenticateAndResolve(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateRequest{Username: "admin", Email: "Admin@Example.com", Password: "admin123", Role: auth.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", created.Email)
	assert.NotEqual(t, "admin123", created.PasswordHash)

	result, err := svc.Authenticate(ctx, LoginRequest{Email: "admin@example.com", Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, result.User.ID)
	assert.Equal(t, auth.RoleAdmin, result.User.Role)
	require.NotEmpty(t, result.Token)

	principal, err := svc.Resolve(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, principal.ID)
	assert.NoError(t, auth.Authorize(principal, auth.RoleAdmin))
}

func TestAuthenticateRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, CreateRequest{Username: "admin", Email: "admin@example.com", Password: "admin123", Role: auth.RoleAdmin})
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, LoginRequest{Email: "admin@example.com", Password: "nope"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, LoginRequest{Email: "ghost@example.com", Password: "admin123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, LoginRequest{Email: "bad", Password: ""})
	_, isValidation := validation.AsErrors(err)
	assert.True(t, isValidation)
}

func TestResolveRejectsDeletedUserAndGarbage(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	token, err := svc.tokens.NewAccessToken("missing-user", auth.RoleAdmin)
	require.NoError(t, err)
	_, err = svc.Resolve(ctx, token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = svc.Resolve(ctx, "garbage")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
	assert.Empty(t, repo.items)
}

func TestCreateDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	req := CreateRequest{Username: "a", Email: "a@example.com", Password: "secret1", Role: auth.RoleUser}
	_, err := svc.Create(ctx, req)
	require.NoError(t, err)

	_, err = svc.Create(ctx, req)
	assert.True(t, errors.Is(err, ErrDuplicateEmail))
}

func TestUsernames(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	u, err := svc.Create(ctx, CreateRequest{Username: "writer", Email: "w@example.com", Password: "secret1", Role: auth.RoleAdmin})
	require.NoError(t, err)

	names, err := svc.Usernames(ctx, []string{u.ID, "unknown"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{u.ID: "writer"}, names)
}
