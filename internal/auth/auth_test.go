package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/amar-295/student-finance-db-sub001/internal/apperr"
	"github.com/amar-295/student-finance-db-sub001/internal/models"
	"github.com/amar-295/student-finance-db-sub001/internal/storage/sqlite"
)

func newAuthenticator(t *testing.T) *PasswordAuthenticator {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
}

func TestRegisterAndAuthenticate(t *testing.T) {
	a := newAuthenticator(t)
	ctx := context.Background()

	user, err := a.Register(ctx, "  Sam@Example.com ", "Sam", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "sam@example.com", user.Email)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)

	got, err := a.Authenticate(ctx, "SAM@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = a.Authenticate(ctx, "sam@example.com", "wrong-password")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	_, err = a.Authenticate(ctx, "nobody@example.com", "correct-horse")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestRegisterRejections(t *testing.T) {
	a := newAuthenticator(t)
	ctx := context.Background()

	_, err := a.Register(ctx, "sam@example.com", "Sam", "short")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = a.Register(ctx, "not-an-email", "Sam", "long-enough")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = a.Register(ctx, "sam@example.com", " ", "long-enough")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = a.Register(ctx, "sam@example.com", "Sam", "long-enough")
	require.NoError(t, err)
	_, err = a.Register(ctx, "SAM@example.com", "Other Sam", "long-enough")
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("0123456789abcdef", time.Hour)
	user := &models.User{ID: "u1", Email: "sam@example.com"}

	token, err := m.Generate(user)
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "sam@example.com", claims.Email)
}

func TestJWTRejectsExpiredAndForeignTokens(t *testing.T) {
	m := NewJWTManager("0123456789abcdef", time.Hour)
	token, err := m.Generate(&models.User{ID: "u1"})
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewJWTManager("fedcba9876543210", time.Hour)
	_, err = other.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = other.Validate("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
