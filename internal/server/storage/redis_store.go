package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Redis key 前缀
	roomKeyPrefix    = "room:"
	sessionKeyPrefix = "session:"

	// 房间快照过期时间
	roomExpiration = 2 * time.Hour
)

// RoomData 房间快照（用于 Redis 序列化，不含手牌内容）
type RoomData struct {
	ID             string       `json:"id"`
	Phase          string       `json:"phase"`
	HostID         string       `json:"host_id"`
	Players        []PlayerData `json:"players"`
	CurrentTurn    int          `json:"current_turn"`
	RoundNumber    int          `json:"round_number"`
	LeadSuit       string       `json:"lead_suit,omitempty"`
	PileSize       int          `json:"pile_size"`
	GameOver       bool         `json:"game_over"`
	LoserName      string       `json:"loser_name,omitempty"`
	EndReason      string       `json:"end_reason,omitempty"`
	EndedBy        string       `json:"ended_by,omitempty"`
	CreatedAt      int64        `json:"created_at"`
	LastActivityAt int64        `json:"last_activity_at"`
	EndedAt        int64        `json:"ended_at,omitempty"`
}

// PlayerData 玩家数据
type PlayerData struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	HandCount int    `json:"hand_count"`
	IsSafe    bool   `json:"is_safe"`
	IsHost    bool   `json:"is_host"`
	Connected bool   `json:"connected"`
}

// SessionData 断线玩家的会话记录
type SessionData struct {
	SessionID      string `json:"session_id"`
	RoomID         string `json:"room_id"`
	PlayerName     string `json:"player_name"`
	PlayerIndex    int    `json:"player_index"`
	DisconnectedAt int64  `json:"disconnected_at"`
	ExpiresAt      int64  `json:"expires_at"`
}

// RedisStore Redis 存储
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore 创建 Redis 存储
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Ping 检查 Redis 连接
func (rs *RedisStore) Ping(ctx context.Context) error {
	return rs.client.Ping(ctx).Err()
}

// --- 房间存储 ---

// SaveRoom 保存房间快照到 Redis
func (rs *RedisStore) SaveRoom(ctx context.Context, roomID string, data *RoomData) error {
	if data == nil {
		return nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal room %s: %w", roomID, err)
	}

	key := roomKeyPrefix + roomID
	return rs.client.Set(ctx, key, jsonData, roomExpiration).Err()
}

// DeleteRoom 从 Redis 删除房间快照
func (rs *RedisStore) DeleteRoom(ctx context.Context, roomID string) error {
	key := roomKeyPrefix + roomID
	return rs.client.Del(ctx, key).Err()
}

// GetAllRoomIDs 获取所有房间号
func (rs *RedisStore) GetAllRoomIDs(ctx context.Context) ([]string, error) {
	var ids []string
	iter := rs.client.Scan(ctx, 0, roomKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, iter.Val()[len(roomKeyPrefix):])
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// SetRoomExpiration 设置房间快照过期时间
func (rs *RedisStore) SetRoomExpiration(ctx context.Context, roomID string, expiration time.Duration) error {
	key := roomKeyPrefix + roomID
	return rs.client.Expire(ctx, key, expiration).Err()
}

// --- 会话存储 ---

// SaveSession 保存断线会话记录，随记录一起过期
func (rs *RedisStore) SaveSession(ctx context.Context, session *SessionData) error {
	key := sessionKeyPrefix + session.SessionID

	pipe := rs.client.TxPipeline()
	pipe.HSet(ctx, key, map[string]any{
		"session_id":      session.SessionID,
		"room_id":         session.RoomID,
		"player_name":     session.PlayerName,
		"player_index":    session.PlayerIndex,
		"disconnected_at": session.DisconnectedAt,
		"expires_at":      session.ExpiresAt,
	})
	pipe.ExpireAt(ctx, key, time.UnixMilli(session.ExpiresAt))
	_, err := pipe.Exec(ctx)
	return err
}

// DeleteSession 删除会话记录
func (rs *RedisStore) DeleteSession(ctx context.Context, sessionID string) error {
	key := sessionKeyPrefix + sessionID
	return rs.client.Del(ctx, key).Err()
}
