package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_PairRoundTrip(t *testing.T) {
	m := NewManager("test-secret")

	access, refresh, err := m.GeneratePair(7, "alice")
	require.NoError(t, err)
	require.NotEqual(t, access, refresh)

	accessClaims, err := m.Parse(access)
	require.NoError(t, err)
	assert.Equal(t, uint(7), accessClaims.UserID)
	assert.Equal(t, "alice", accessClaims.Username)
	assert.Equal(t, TypeAccess, accessClaims.Type)
	assert.NotEmpty(t, accessClaims.JTI)
	assert.True(t, accessClaims.ExpiresAt.After(time.Now()))

	refreshClaims, err := m.Parse(refresh)
	require.NoError(t, err)
	assert.Equal(t, TypeRefresh, refreshClaims.Type)
	assert.NotEqual(t, accessClaims.JTI, refreshClaims.JTI)
}

func TestManager_Parse_Rejections(t *testing.T) {
	m := NewManager("test-secret")

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Parse("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewManager("other-secret")
		token, err := other.Generate(1, "alice", TypeAccess, time.Minute)
		require.NoError(t, err)
		_, err = m.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := m.Generate(1, "alice", TypeAccess, -time.Minute)
		require.NoError(t, err)
		_, err = m.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
