package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamo-store/backend/internal/infrastructure/config"
)

func newTestService(expiration time.Duration) *SessionService {
	return NewSessionService(config.JWTConfig{
		Secret:     "test-secret-key-that-is-long-enough",
		Expiration: expiration,
		Issuer:     "mamo-store-test",
	})
}

func TestSessionService_IssueAndVerify(t *testing.T) {
	svc := newTestService(time.Hour)

	token, err := svc.Issue("0947123456", "أبو محمد", false)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "0947123456", claims.UserID)
	assert.Equal(t, "أبو محمد", claims.Name)
	assert.False(t, claims.Admin)
	assert.Equal(t, "mamo-store-test", claims.Issuer)
}

func TestSessionService_AdminClaim(t *testing.T) {
	svc := newTestService(time.Hour)

	token, err := svc.Issue("0999000111", "مدير", true)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.True(t, claims.Admin)
}

func TestSessionService_ExpiredToken(t *testing.T) {
	svc := newTestService(-time.Minute)

	token, err := svc.Issue("0947123456", "أبو محمد", false)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestSessionService_WrongSecret(t *testing.T) {
	svc := newTestService(time.Hour)
	token, err := svc.Issue("0947123456", "أبو محمد", false)
	require.NoError(t, err)

	other := NewSessionService(config.JWTConfig{
		Secret:     "a-completely-different-secret-key",
		Expiration: time.Hour,
		Issuer:     "mamo-store-test",
	})
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionService_Garbage(t *testing.T) {
	svc := newTestService(time.Hour)

	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		_, err := svc.Verify(tok)
		assert.Error(t, err)
	}
}
