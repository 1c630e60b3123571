package types

import (
	"context"
	"time"

	"github.com/palemoky/kazhutha/internal/protocol"
	"github.com/palemoky/kazhutha/internal/server/storage"
)

// ServerInterface 定义服务器接口（用于打破循环依赖）
type ServerInterface interface {
	IsMaintenanceMode() bool
	GetOnlineCount() int
	GetClientByID(id string) ClientInterface
}

// ClientInterface 定义客户端接口
type ClientInterface interface {
	GetID() string
	GetRoom() string
	SetRoom(roomID string)
	SendMessage(msg *protocol.Message)
	Close()
}

// RoomStore 房间快照镜像
type RoomStore interface {
	SaveRoom(ctx context.Context, roomID string, data *storage.RoomData) error
	DeleteRoom(ctx context.Context, roomID string) error
	GetAllRoomIDs(ctx context.Context) ([]string, error)
	SetRoomExpiration(ctx context.Context, roomID string, expiration time.Duration) error
	SaveSession(ctx context.Context, session *storage.SessionData) error
	DeleteSession(ctx context.Context, sessionID string) error
}

// StatsStore 玩家战绩
type StatsStore interface {
	RecordGameResult(ctx context.Context, playerName string, isKazhutha bool) error
	GetPlayerStats(ctx context.Context, playerName string) (*storage.PlayerStats, error)
	GetKazhuthaRank(ctx context.Context, playerName string) (int64, error)
	GetLeaderboard(ctx context.Context, limit int) ([]storage.LeaderboardEntry, error)
}
