package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookrental/pkg/errors"
)

func TestManager_GenerateAndParse(t *testing.T) {
	m := NewManager("test-secret", time.Hour, 24*time.Hour)

	pair, err := m.GenerateToken(42, "staff@example.com", true)
	require.NoError(t, err)
	assert.EqualValues(t, 3600, pair.ExpiresIn)

	claims, err := m.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.UserID)
	assert.Equal(t, "staff@example.com", claims.Email)
	assert.True(t, claims.IsStaff)
	assert.NotEmpty(t, claims.ID)
	assert.InDelta(t, time.Hour.Seconds(), claims.TTL(time.Now()).Seconds(), 5)

	id, err := SubjectID(claims)
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)
}

func TestManager_RefreshTokenIsNotAccessToken(t *testing.T) {
	m := NewManager("test-secret", time.Hour, 24*time.Hour)
	pair, err := m.GenerateToken(1, "a@example.com", false)
	require.NoError(t, err)

	_, err = m.ParseAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	access, err := m.RefreshAccessToken(pair.RefreshToken, "a@example.com", true)
	require.NoError(t, err)
	claims, err := m.ParseAccessToken(access)
	require.NoError(t, err)
	assert.True(t, claims.IsStaff)

	_, err = m.RefreshAccessToken(pair.AccessToken, "a@example.com", false)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestManager_Expired(t *testing.T) {
	m := NewManager("test-secret", -time.Minute, time.Hour)
	pair, err := m.GenerateToken(1, "a@example.com", false)
	require.NoError(t, err)

	_, err = m.ParseAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestManager_WrongSecret(t *testing.T) {
	pair, err := NewManager("secret-a", time.Hour, time.Hour).GenerateToken(1, "a@example.com", false)
	require.NoError(t, err)

	_, err = NewManager("secret-b", time.Hour, time.Hour).ParseToken(pair.AccessToken)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidToken))
}
