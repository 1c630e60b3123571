package core

import (
	"context"
	"log"
	"time"

	"github.com/palemoky/kazhutha/internal/game/room"
	"github.com/palemoky/kazhutha/internal/protocol"
	"github.com/palemoky/kazhutha/internal/protocol/codec"
)

// Run 周期性执行清理，直到 ctx 取消
func (s *Service) Run(ctx context.Context) {
	ticker := time.NewTicker(s.opts.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(s.now())
		}
	}
}

// Sweep 处理到期会话并回收满足条件的房间，返回回收的房间数
func (s *Service) Sweep(now time.Time) int {
	s.sessions.ExpireDue(now)

	reclaimed := 0
	for _, id := range s.rooms.IDs() {
		_ = s.rooms.With(id, func(r *room.Room) error {
			if reason := r.ReclaimReason(now, s.opts.Cleanup); reason != "" {
				s.reclaimLocked(r, reason)
				reclaimed++
			}
			return nil
		})
	}

	s.pruneCooldowns(now)

	if reclaimed > 0 {
		log.Printf("🧹 清理完成：回收 %d 个房间，剩余 %d 个", reclaimed, s.rooms.Len())
	}
	return reclaimed
}

// reclaim 在房间锁内回收房间
func (s *Service) reclaim(roomID, reason string) {
	_ = s.rooms.With(roomID, func(r *room.Room) error {
		s.reclaimLocked(r, reason)
		return nil
	})
}

// reclaimLocked 回收房间：取消所有会话定时器和延迟删除，通知在线玩家
// 调用方必须持有房间锁
func (s *Service) reclaimLocked(r *room.Room, reason string) {
	s.sessions.CancelRoom(r.ID)
	s.rooms.Remove(r)

	msg := codec.MustNewMessage(protocol.MsgRoomClosed, protocol.RoomClosedPayload{RoomID: r.ID, Reason: reason})
	for _, p := range r.Players {
		if !p.Connected || s.clients == nil {
			continue
		}
		if c := s.clients.GetClientByID(p.ConnectionID); c != nil {
			if c.GetRoom() == r.ID {
				c.SetRoom("")
			}
			c.SendMessage(msg)
		}
	}

	s.unpersist(r.ID)
	log.Printf("🗑️ 房间 %s 已回收 (%s)", r.ID, reason)
}

func (s *Service) pruneCooldowns(now time.Time) {
	s.cooldownMu.Lock()
	defer s.cooldownMu.Unlock()
	for id, at := range s.cooldowns {
		if now.Sub(at) >= s.opts.HostEndCooldown {
			delete(s.cooldowns, id)
		}
	}
}

// Close 关闭所有房间并停止所有定时器
func (s *Service) Close() {
	s.closeOnce.Do(func() {
		for _, id := range s.rooms.IDs() {
			s.reclaim(id, room.ReclaimShutdown)
		}
		s.sessions.Close()
		s.rooms.Close()
	})
}
