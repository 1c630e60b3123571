package storage

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	client, mr := newTestClient(t)
	return NewRedisStore(client), mr
}

func TestRedisStore_SaveExpireDeleteRoom(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	roomData := &RoomData{
		ID:    "ab12cd34",
		Phase: "active",
		Players: []PlayerData{
			{ID: "p1", Name: "Anu", HandCount: 26, IsHost: true, Connected: true},
			{ID: "p2", Name: "Biju", HandCount: 26, Connected: true},
		},
		RoundNumber: 1,
		CreatedAt:   time.Now().Unix(),
	}

	require.NoError(t, store.SaveRoom(ctx, roomData.ID, roomData))
	assert.True(t, mr.Exists("room:ab12cd34"))
	assert.Equal(t, roomExpiration, mr.TTL("room:ab12cd34"))

	raw, err := mr.Get("room:ab12cd34")
	require.NoError(t, err)
	var loaded RoomData
	require.NoError(t, json.Unmarshal([]byte(raw), &loaded))
	assert.Equal(t, roomData.Phase, loaded.Phase)
	require.Len(t, loaded.Players, 2)
	assert.Equal(t, 26, loaded.Players[0].HandCount)

	ids, err := store.GetAllRoomIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ab12cd34"}, ids)

	require.NoError(t, store.SetRoomExpiration(ctx, roomData.ID, time.Minute))
	assert.Equal(t, time.Minute, mr.TTL("room:ab12cd34"))

	require.NoError(t, store.DeleteRoom(ctx, roomData.ID))
	assert.False(t, mr.Exists("room:ab12cd34"))

	ids, err = store.GetAllRoomIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRedisStore_SaveRoomNil(t *testing.T) {
	t.Parallel()

	store, _ := newTestRedisStore(t)
	assert.NoError(t, store.SaveRoom(context.Background(), "x", nil))
}

func TestRedisStore_Sessions(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	now := time.Now()
	session := &SessionData{
		SessionID:      "s-1",
		RoomID:         "ab12cd34",
		PlayerName:     "Anu",
		PlayerIndex:    2,
		DisconnectedAt: now.UnixMilli(),
		ExpiresAt:      now.Add(10 * time.Minute).UnixMilli(),
	}

	require.NoError(t, store.SaveSession(ctx, session))
	assert.True(t, mr.Exists("session:s-1"))

	assert.Equal(t, "ab12cd34", mr.HGet("session:s-1", "room_id"))
	assert.Equal(t, "Anu", mr.HGet("session:s-1", "player_name"))
	assert.Equal(t, "2", mr.HGet("session:s-1", "player_index"))
	assert.Greater(t, mr.TTL("session:s-1"), time.Duration(0))

	require.NoError(t, store.DeleteSession(ctx, "s-1"))
	assert.False(t, mr.Exists("session:s-1"))
}

func TestRedisStore_Ping(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedisStore(t)
	assert.NoError(t, store.Ping(context.Background()))

	mr.Close()
	assert.Error(t, store.Ping(context.Background()))
}
