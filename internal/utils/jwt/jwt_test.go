package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	sessionID := uuid.New()

	token, err := GenerateSessionToken(sessionID, "student1@email.com", "secret", time.Now(), time.Hour)
	require.NoError(t, err)

	claims, err := VerifyToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, sessionID, claims.SessionID)
	assert.Equal(t, "student1@email.com", claims.Email)
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateSessionToken(uuid.New(), "student1@email.com", "secret", time.Now(), time.Hour)
	require.NoError(t, err)

	_, err = VerifyToken(token, "other")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenExpired(t *testing.T) {
	token, err := GenerateSessionToken(uuid.New(), "student1@email.com", "secret", time.Now().Add(-2*time.Hour), time.Hour)
	require.NoError(t, err)

	_, err = VerifyToken(token, "secret")
	assert.ErrorIs(t, err, ErrExpiredToken)
}
