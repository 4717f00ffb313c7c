package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hambax/entity"
)

func TestTokens_roundTrip(t *testing.T) {
	tokens := NewTokens("session-secret", "verification-secret")

	session, err := tokens.NewSessionToken("user-1")
	require.NoError(t, err)

	userID, err := tokens.ParseSessionToken(session)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	verification, err := tokens.NewVerificationToken("user-1")
	require.NoError(t, err)

	userID, err = tokens.ParseVerificationToken(verification)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestTokens_kindsAreNotInterchangeable(t *testing.T) {
	tokens := NewTokens("session-secret", "verification-secret")

	session, err := tokens.NewSessionToken("user-1")
	require.NoError(t, err)

	_, err = tokens.ParseVerificationToken(session)
	assert.ErrorIs(t, err, entity.ErrInvalidToken)
}

func TestTokens_wrongSecret(t *testing.T) {
	tokens := NewTokens("session-secret", "verification-secret")
	other := NewTokens("other-secret", "other-verification-secret")

	session, err := tokens.NewSessionToken("user-1")
	require.NoError(t, err)

	_, err = other.ParseSessionToken(session)
	assert.ErrorIs(t, err, entity.ErrInvalidToken)
}

func TestTokens_garbage(t *testing.T) {
	tokens := NewTokens("session-secret", "verification-secret")

	_, err := tokens.ParseSessionToken("not-a-token")
	assert.ErrorIs(t, err, entity.ErrInvalidToken)
}
