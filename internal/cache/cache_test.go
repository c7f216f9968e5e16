package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func setupCache(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	require.NotNil(t, c)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestNew_EmptyAddrDisablesCache(t *testing.T) {
	c := New("", "", 0)
	ctx := context.Background()

	assert.Nil(t, c)
	assert.NoError(t, c.Ping(ctx))
	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

	got, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, got)

	assert.False(t, c.GetJSON(ctx, "k", &profile{}))
	assert.NoError(t, c.SetJSON(ctx, "k", profile{ID: "1"}, time.Minute))
	assert.NoError(t, c.Delete(ctx, "k"))
	assert.NoError(t, c.Close())
}

func TestClient_SetGetDelete(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))
	require.NoError(t, c.Set(ctx, "user:1", []byte("payload"), time.Minute))

	got, err := c.Get(ctx, "user:1")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)
	assert.Equal(t, time.Minute, mr.TTL("user:1"))

	require.NoError(t, c.Delete(ctx, "user:1"))
	got, err = c.Get(ctx, "user:1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestClient_Expiry(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "user:1", []byte("payload"), 5*time.Minute))
	mr.FastForward(5*time.Minute + time.Second)

	got, err := c.Get(ctx, "user:1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestClient_JSON(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "user:1", profile{ID: "1", Name: "Ann"}, time.Minute))

	var got profile
	require.True(t, c.GetJSON(ctx, "user:1", &got))
	assert.Equal(t, profile{ID: "1", Name: "Ann"}, got)

	require.NoError(t, mr.Set("user:2", "{not json"))
	assert.False(t, c.GetJSON(ctx, "user:2", &got))
	assert.False(t, mr.Exists("user:2"))
}

func TestClient_FailSafeWhenRedisDown(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()
	mr.Close()

	assert.Error(t, c.Ping(ctx))
	assert.NoError(t, c.Set(ctx, "user:1", []byte("payload"), time.Minute))

	got, err := c.Get(ctx, "user:1")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, c.Delete(ctx, "user:1"))
}
