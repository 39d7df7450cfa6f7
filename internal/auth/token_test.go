package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParseRoundTrip(t *testing.T) {
	tm := NewTokenManager([]byte("secret"), "interview-bank-test")

	token, err := tm.Issue("user-42", "admin", time.Hour)
	require.NoError(t, err)

	claims, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "interview-bank-test", claims.Issuer)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenManager([]byte("secret-a"), "interview-bank-test")
	verifier := NewTokenManager([]byte("secret-b"), "interview-bank-test")

	token, err := issuer.Issue("user-42", "user", time.Hour)
	require.NoError(t, err)

	_, err = verifier.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	tm := NewTokenManager([]byte("secret"), "interview-bank-test")

	token, err := tm.Issue("user-42", "user", -time.Minute)
	require.NoError(t, err)

	_, err = tm.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	tm := NewTokenManager([]byte("secret"), "interview-bank-test")

	_, err := tm.Parse("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
