package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStoreBlacklistExpires(t *testing.T) {
	s := NewSessionStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.AddToBlacklist(ctx, "tok", time.Minute))
	ok, err := s.IsInBlacklist(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	ok, err = s.IsInBlacklist(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionStoreSaveGetDelete(t *testing.T) {
	s := NewSessionStore()
	ctx := context.Background()

	require.NoError(t, s.SaveSession(ctx, 3, map[string]interface{}{"user_id": 3}, time.Hour))
	data, err := s.GetSession(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "3", data["user_id"])

	require.NoError(t, s.DeleteSession(ctx, 3))
	_, err = s.GetSession(ctx, 3)
	assert.Error(t, err)
}

func TestCacheRoundTripAndTTL(t *testing.T) {
	c := NewCache()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "k", map[string]int{"n": 1}, time.Minute))

	var got map[string]int
	hit, err := c.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, got["n"])

	now = now.Add(time.Minute)
	hit, err = c.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}
