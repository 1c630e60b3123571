package core

import (
	"context"
	"log"

	"github.com/palemoky/kazhutha/internal/apperrors"
	"github.com/palemoky/kazhutha/internal/game/room"
	"github.com/palemoky/kazhutha/internal/protocol"
	"github.com/palemoky/kazhutha/internal/protocol/codec"
	"github.com/palemoky/kazhutha/internal/server/session"
	"github.com/palemoky/kazhutha/internal/server/storage"
	"github.com/palemoky/kazhutha/internal/types"
)

// RemovedReasonExpired 重连超时被移出房间
const RemovedReasonExpired = "session_expired"

// Disconnect 连接断开：标记玩家离线并开启重连窗口
func (s *Service) Disconnect(c types.ClientInterface) {
	s.cooldownMu.Lock()
	delete(s.cooldowns, c.GetID())
	s.cooldownMu.Unlock()

	roomID := c.GetRoom()
	if roomID == "" {
		return
	}

	_ = s.rooms.With(roomID, func(r *room.Room) error {
		player := r.PlayerByConnection(c.GetID())
		if player == nil {
			return nil
		}

		now := s.now()
		idx := r.IndexOfSession(player.SessionID)
		if _, ok := r.MarkDisconnected(player.SessionID, now); !ok {
			return nil
		}

		rec := s.sessions.Open(player.SessionID, r.ID, player.Name, idx, now)
		s.saveSession(rec)

		log.Printf("🔌 玩家 %s 从房间 %s 断线", player.Name, r.ID)
		s.broadcast(r, player.SessionID, func(v *protocol.RoomView) any {
			return protocol.PlayerDisconnectedPayload{
				PlayerID:       player.ID,
				PlayerName:     player.Name,
				CanReconnect:   true,
				TimeoutMinutes: int(s.sessions.TTL().Minutes()),
				Room:           v,
			}
		}, protocol.MsgPlayerDisconnected)
		s.persist(r)
		return nil
	})
}

// Reconnect 断线重连：领取会话记录后把玩家绑定到新连接
func (s *Service) Reconnect(c types.ClientInterface, sessionID, roomID string) error {
	// Claim 可能同步执行到期回调，必须在房间锁之外调用
	if _, err := s.sessions.Claim(sessionID, roomID); err != nil {
		return err
	}
	s.deleteSession(sessionID)

	if err := s.rooms.With(roomID, func(r *room.Room) error {
		if r.PlayerBySession(sessionID) == nil {
			return apperrors.ErrPlayerNotFound
		}
		return nil
	}); err != nil {
		return err
	}
	// 连接原来所在的房间不能继续持有这个连接
	s.leaveCurrent(c, roomID)

	return s.rooms.With(roomID, func(r *room.Room) error {
		player, err := r.Rebind(sessionID, c.GetID())
		if err != nil {
			return err
		}

		c.SetRoom(r.ID)
		c.SendMessage(codec.MustNewMessage(protocol.MsgReconnectionSuccessful, protocol.ReconnectionSuccessfulPayload{
			RoomID:    r.ID,
			PlayerID:  player.ID,
			SessionID: sessionID,
			Room:      room.FilterForPlayer(r, sessionID),
		}))

		log.Printf("🔄 玩家 %s 重连到房间 %s", player.Name, r.ID)
		s.broadcast(r, sessionID, func(v *protocol.RoomView) any {
			return protocol.PlayerReconnectedPayload{PlayerID: player.ID, PlayerName: player.Name, Room: v}
		}, protocol.MsgPlayerReconnected)
		s.persist(r)
		return nil
	})
}

// expireSession 重连窗口到期：永久移出玩家
func (s *Service) expireSession(rec session.Record) {
	s.deleteSession(rec.SessionID)

	_ = s.rooms.With(rec.RoomID, func(r *room.Room) error {
		wasOver := r.GameOver
		removed, result, err := r.RemovePlayer(rec.SessionID)
		if err != nil {
			return nil
		}

		log.Printf("👋 玩家 %s 重连超时，已移出房间 %s", removed.Name, r.ID)
		if r.IsEmpty() {
			s.reclaimLocked(r, room.ReclaimEmpty)
			return nil
		}

		s.broadcast(r, "", func(v *protocol.RoomView) any {
			return protocol.PlayerRemovedPayload{
				PlayerID:   removed.ID,
				PlayerName: removed.Name,
				Reason:     RemovedReasonExpired,
				Room:       v,
			}
		}, protocol.MsgPlayerRemoved)

		if result != nil {
			trick := room.TrickResultView(r, result)
			s.broadcast(r, "", func(v *protocol.RoomView) any {
				return protocol.GameUpdatedPayload{Room: v, TrickResult: trick}
			}, protocol.MsgGameUpdated)
		}
		if !wasOver && r.GameOver && r.Phase == room.PhaseActive {
			s.recordResults(r)
		}
		s.persist(r)
		return nil
	})
}

func (s *Service) saveSession(rec session.Record) {
	if s.roomStore == nil {
		return
	}
	data := &storage.SessionData{
		SessionID:      rec.SessionID,
		RoomID:         rec.RoomID,
		PlayerName:     rec.PlayerName,
		PlayerIndex:    rec.PlayerIndex,
		DisconnectedAt: rec.DisconnectedAt.UnixMilli(),
		ExpiresAt:      rec.ExpiresAt.UnixMilli(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if err := s.roomStore.SaveSession(ctx, data); err != nil {
			log.Printf("⚠️ 保存会话 %s 失败: %v", rec.SessionID, err)
		}
	}()
}

func (s *Service) deleteSession(sessionID string) {
	if s.roomStore == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		_ = s.roomStore.DeleteSession(ctx, sessionID)
	}()
}
