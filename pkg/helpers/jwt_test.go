package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	m := NewJWTManager("unit-secret", time.Hour)

	tok, exp, err := m.GenerateSessionToken("user-1", "user")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	claims, err := m.ParseSessionToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user", claims.Role)
}

func TestSessionTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewJWTManager("secret-a", time.Hour)
	verifier := NewJWTManager("secret-b", time.Hour)

	tok, _, err := issuer.GenerateSessionToken("user-1", "user")
	require.NoError(t, err)

	_, err = verifier.ParseSessionToken(tok)
	assert.Error(t, err)
}

func TestSessionTokenRejectsExpired(t *testing.T) {
	m := NewJWTManager("unit-secret", -time.Minute)

	tok, _, err := m.GenerateSessionToken("user-1", "user")
	require.NoError(t, err)

	_, err = m.ParseSessionToken(tok)
	assert.Error(t, err)
}

func TestPasswordHashVerify(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.True(t, VerifyPassword(hash, "hunter22"))
	assert.False(t, VerifyPassword(hash, "hunter23"))
}
