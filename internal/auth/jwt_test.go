package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_IssueAndParse(t *testing.T) {
	m := NewTokenManager("secret-key", 20*time.Hour)

	token, err := m.Issue("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)

	// Expiry sits 20h out from issuance.
	remaining := time.Until(claims.ExpiresAt.Time)
	assert.Greater(t, remaining, 19*time.Hour)
	assert.LessOrEqual(t, remaining, 20*time.Hour)
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	m := NewTokenManager("secret-key", -time.Minute)

	token, err := m.Issue("user-123")
	require.NoError(t, err)

	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsForeignSignature(t *testing.T) {
	issuer := NewTokenManager("secret-a", time.Hour)
	verifier := NewTokenManager("secret-b", time.Hour)

	token, err := issuer.Issue("user-123")
	require.NoError(t, err)

	_, err = verifier.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsMalformed(t *testing.T) {
	m := NewTokenManager("secret-key", time.Hour)

	for _, tokenStr := range []string{"", "garbage", "a.b.c"} {
		_, err := m.Parse(tokenStr)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", tokenStr)
	}
}
