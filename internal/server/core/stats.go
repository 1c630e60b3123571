package core

import (
	"context"
	"log"

	"github.com/palemoky/kazhutha/internal/apperrors"
	"github.com/palemoky/kazhutha/internal/game/room"
	"github.com/palemoky/kazhutha/internal/protocol"
	"github.com/palemoky/kazhutha/internal/protocol/codec"
	"github.com/palemoky/kazhutha/internal/types"
)

type gameResult struct {
	name       string
	isKazhutha bool
}

// recordResults 对局分出结果时记录每个玩家的战绩
// 调用方持有房间锁，写入在后台完成
func (s *Service) recordResults(r *room.Room) {
	if s.statsStore == nil {
		return
	}

	results := make([]gameResult, 0, len(r.Players))
	for _, p := range r.Players {
		results = append(results, gameResult{name: p.Name, isKazhutha: p == r.Loser})
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		for _, res := range results {
			if err := s.statsStore.RecordGameResult(ctx, res.name, res.isKazhutha); err != nil {
				log.Printf("⚠️ 记录玩家 %s 战绩失败: %v", res.name, err)
			}
		}
	}()
}

// GetStats 查询玩家战绩，未启用 Redis 时返回空统计
func (s *Service) GetStats(c types.ClientInterface, name string) error {
	name, err := s.validateName(name)
	if err != nil {
		return err
	}

	payload := protocol.StatsResultPayload{PlayerName: name}
	if s.statsStore == nil {
		c.SendMessage(codec.MustNewMessage(protocol.MsgStatsResult, payload))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	stats, err := s.statsStore.GetPlayerStats(ctx, name)
	if err != nil {
		log.Printf("⚠️ 查询玩家 %s 战绩失败: %v", name, err)
		return apperrors.ErrStatsUnavailable
	}
	if stats != nil {
		payload.GamesPlayed = int(stats.GamesPlayed)
		payload.TimesSafe = int(stats.TimesSafe)
		payload.TimesKazhutha = int(stats.TimesKazhutha)
		if rank, err := s.statsStore.GetKazhuthaRank(ctx, name); err == nil {
			payload.Rank = rank
		}
	}

	c.SendMessage(codec.MustNewMessage(protocol.MsgStatsResult, payload))
	return nil
}
