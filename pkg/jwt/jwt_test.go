package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(42, "user@example.com", "access-secret", time.Minute)
	require.NoError(t, err)

	claims, err := ValidateToken(token, "access-secret")
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "42", claims.Subject)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(42, "user@example.com", "access-secret", time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token, "some-other-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Expired(t *testing.T) {
	token, err := GenerateAccessToken(42, "user@example.com", "access-secret", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token, "access-secret")
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := ValidateToken("not.a.token", "access-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	token, err := GenerateRefreshToken(42, "refresh-secret", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateRefreshToken(token, "refresh-secret")
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
}

func TestRefreshTokenRejectedByAccessSecret(t *testing.T) {
	token, err := GenerateRefreshToken(42, "refresh-secret", time.Hour)
	require.NoError(t, err)

	_, err = ValidateRefreshToken(token, "access-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
