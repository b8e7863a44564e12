package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(now time.Time) *Manager {
	return &Manager{
		Secret:    []byte("test-secret"),
		AccessTTL: time.Hour,
		Issuer:    "portfolio-backend",
		Now:       func() time.Time { return now },
	}
}

func TestManagerRoundTrip(t *testing.T) {
	m := newManager(time.Now())
	token, err := m.NewAccessToken("u1", RoleAdmin)
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestManagerRejectsExpired(t *testing.T) {
	issued := time.Now().Add(-2 * time.Hour)
	token, err := newManager(issued).NewAccessToken("u1", RoleAdmin)
	require.NoError(t, err)

	_, err = newManager(time.Now()).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManagerRejectsForeignSecret(t *testing.T) {
	token, err := newManager(time.Now()).NewAccessToken("u1", RoleAdmin)
	require.NoError(t, err)

	other := newManager(time.Now())
	other.Secret = []byte("another")
	_, err = other.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = other.Parse("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("admin123")
	require.NoError(t, err)
	assert.NotEqual(t, "admin123", hash)
	assert.NoError(t, ComparePassword(hash, "admin123"))
	assert.ErrorIs(t, ComparePassword(hash, "wrong"), ErrPasswordMismatch)
	assert.Error(t, ComparePassword("", "admin123"))

	_, err = HashPassword("")
	assert.Error(t, err)
	_, err = HashPassword("12345")
	assert.Error(t, err)
}

func TestAuthorize(t *testing.T) {
	assert.ErrorIs(t, Authorize(nil, RoleAdmin), ErrUnauthenticated)
	assert.ErrorIs(t, Authorize(&Principal{}, RoleAdmin), ErrUnauthenticated)
	assert.ErrorIs(t, Authorize(&Principal{ID: "1", Role: RoleUser}, RoleAdmin), ErrForbidden)
	assert.ErrorIs(t, Authorize(&Principal{ID: "1", Role: "root"}, RoleAdmin), ErrForbidden)
	assert.NoError(t, Authorize(&Principal{ID: "1", Role: RoleAdmin}, RoleAdmin))
}

func TestPrincipalContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, PrincipalFromContext(ctx))

	p := &Principal{ID: "1", Role: RoleAdmin}
	assert.Same(t, p, PrincipalFromContext(WithPrincipal(ctx, p)))
}
