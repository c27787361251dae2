package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playpedia/internal/model"
)

func newTestClient(t *testing.T) (*RedisClient, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client, err := NewRedisClient(context.Background(), srv.Addr(), "", 0, time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client, srv
}

func TestStateRoundTrip(t *testing.T) {
	client, srv := newTestClient(t)
	ctx := context.Background()

	state := model.QueryState{Resource: "games", Parent: "genres", ParentID: 4, Search: "doom", Page: 2}
	require.NoError(t, client.SaveState(ctx, 42, state))
	assert.True(t, srv.Exists("playpedia:chat:42"))

	got, err := client.GetState(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, state, *got)

	require.NoError(t, client.DeleteState(ctx, 42))
	got, err = client.GetState(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStateExpires(t *testing.T) {
	client, srv := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.SaveState(ctx, 7, model.QueryState{Resource: "tags", Page: 1}))
	srv.FastForward(2 * time.Minute)

	got, err := client.GetState(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestReadRestartsTTL(t *testing.T) {
	client, srv := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.SaveState(ctx, 8, model.QueryState{Resource: "games", Page: 3}))
	srv.FastForward(40 * time.Second)

	got, err := client.GetState(ctx, 8)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, time.Minute, srv.TTL("playpedia:chat:8"))

	srv.FastForward(40 * time.Second)
	got, err = client.GetState(ctx, 8)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 3, got.Page)
}

func TestGetStateCorrupt(t *testing.T) {
	client, srv := newTestClient(t)
	require.NoError(t, srv.Set("playpedia:chat:9", "{broken"))

	_, err := client.GetState(context.Background(), 9)
	assert.Error(t, err)
}

func TestNewRedisClientUnreachable(t *testing.T) {
	srv, err := miniredis.Run()
	require.NoError(t, err)
	addr := srv.Addr()
	srv.Close()

	_, err = NewRedisClient(context.Background(), addr, "", 0, time.Minute)
	assert.Error(t, err)
}
