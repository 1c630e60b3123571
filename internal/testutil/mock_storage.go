//go:build !production

package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/palemoky/kazhutha/internal/server/storage"
)

// MockStatsStore 玩家战绩存储 mock
type MockStatsStore struct {
	mock.Mock
}

func (m *MockStatsStore) RecordGameResult(ctx context.Context, playerName string, isKazhutha bool) error {
	args := m.Called(ctx, playerName, isKazhutha)
	return args.Error(0)
}

func (m *MockStatsStore) GetPlayerStats(ctx context.Context, playerName string) (*storage.PlayerStats, error) {
	args := m.Called(ctx, playerName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.PlayerStats), args.Error(1)
}

func (m *MockStatsStore) GetKazhuthaRank(ctx context.Context, playerName string) (int64, error) {
	args := m.Called(ctx, playerName)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStatsStore) GetLeaderboard(ctx context.Context, limit int) ([]storage.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.LeaderboardEntry), args.Error(1)
}

// MockRoomStore 房间快照存储 mock
type MockRoomStore struct {
	mock.Mock
}

func (m *MockRoomStore) SaveRoom(ctx context.Context, roomID string, data *storage.RoomData) error {
	args := m.Called(ctx, roomID, data)
	return args.Error(0)
}

func (m *MockRoomStore) DeleteRoom(ctx context.Context, roomID string) error {
	args := m.Called(ctx, roomID)
	return args.Error(0)
}

func (m *MockRoomStore) GetAllRoomIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

func (m *MockRoomStore) SetRoomExpiration(ctx context.Context, roomID string, expiration time.Duration) error {
	args := m.Called(ctx, roomID, expiration)
	return args.Error(0)
}

func (m *MockRoomStore) SaveSession(ctx context.Context, session *storage.SessionData) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockRoomStore) DeleteSession(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}
