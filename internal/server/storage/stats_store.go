package storage

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Redis key
	playerStatsKey = "player:stats:"
	leaderboardKey = "leaderboard:kazhutha"
)

// PlayerStats 玩家统计数据
type PlayerStats struct {
	PlayerName    string `json:"player_name"`
	GamesPlayed   int64  `json:"games_played"`   // 完整对局数
	TimesSafe     int64  `json:"times_safe"`     // 安全脱身次数
	TimesKazhutha int64  `json:"times_kazhutha"` // 成为 Kazhutha 的次数
	LastPlayedAt  int64  `json:"last_played_at"`
}

// LeaderboardEntry 排行榜条目（按成为 Kazhutha 的次数排序）
type LeaderboardEntry struct {
	Rank          int64  `json:"rank"`
	PlayerName    string `json:"player_name"`
	TimesKazhutha int64  `json:"times_kazhutha"`
}

// StatsStore 玩家统计存储
type StatsStore struct {
	client *redis.Client
}

// NewStatsStore 创建统计存储
func NewStatsStore(client *redis.Client) *StatsStore {
	return &StatsStore{client: client}
}

// statsMember 统计按名字聚合，不区分大小写
func statsMember(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// RecordGameResult 记录一局结束时某个玩家的结果
func (ss *StatsStore) RecordGameResult(ctx context.Context, playerName string, isKazhutha bool) error {
	member := statsMember(playerName)
	key := playerStatsKey + member

	pipe := ss.client.TxPipeline()
	pipe.HSet(ctx, key, "player_name", playerName, "last_played_at", time.Now().Unix())
	pipe.HIncrBy(ctx, key, "games_played", 1)
	if isKazhutha {
		pipe.HIncrBy(ctx, key, "times_kazhutha", 1)
		pipe.ZIncrBy(ctx, leaderboardKey, 1, member)
	} else {
		pipe.HIncrBy(ctx, key, "times_safe", 1)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// GetPlayerStats 获取玩家统计，没有记录时返回 nil
func (ss *StatsStore) GetPlayerStats(ctx context.Context, playerName string) (*PlayerStats, error) {
	data, err := ss.client.HGetAll(ctx, playerStatsKey+statsMember(playerName)).Result()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	stats := &PlayerStats{PlayerName: data["player_name"]}
	stats.GamesPlayed, _ = strconv.ParseInt(data["games_played"], 10, 64)
	stats.TimesSafe, _ = strconv.ParseInt(data["times_safe"], 10, 64)
	stats.TimesKazhutha, _ = strconv.ParseInt(data["times_kazhutha"], 10, 64)
	stats.LastPlayedAt, _ = strconv.ParseInt(data["last_played_at"], 10, 64)
	return stats, nil
}

// GetKazhuthaRank 获取玩家在 Kazhutha 排行榜中的名次（从 1 开始），未上榜返回 0
func (ss *StatsStore) GetKazhuthaRank(ctx context.Context, playerName string) (int64, error) {
	rank, err := ss.client.ZRevRank(ctx, leaderboardKey, statsMember(playerName)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return rank + 1, nil
}

// GetLeaderboard 获取 Kazhutha 排行榜前 limit 名
func (ss *StatsStore) GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		return nil, nil
	}

	results, err := ss.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(results))
	for i, z := range results {
		member, _ := z.Member.(string)
		name := member
		if stored, err := ss.client.HGet(ctx, playerStatsKey+member, "player_name").Result(); err == nil {
			name = stored
		}
		entries = append(entries, LeaderboardEntry{
			Rank:          int64(i + 1),
			PlayerName:    name,
			TimesKazhutha: int64(z.Score),
		})
	}
	return entries, nil
}
