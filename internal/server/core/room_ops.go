package core

import (
	"log"

	"github.com/palemoky/kazhutha/internal/apperrors"
	"github.com/palemoky/kazhutha/internal/game/room"
	"github.com/palemoky/kazhutha/internal/protocol"
	"github.com/palemoky/kazhutha/internal/protocol/codec"
	"github.com/palemoky/kazhutha/internal/protocol/convert"
	"github.com/palemoky/kazhutha/internal/types"
)

// CreateRoom 创建房间，创建者成为房主
func (s *Service) CreateRoom(c types.ClientInterface, name string) error {
	name, err := s.validateName(name)
	if err != nil {
		return err
	}
	s.leaveCurrent(c, "")

	r := s.rooms.Create(name, c.GetID())
	return s.rooms.With(r.ID, func(r *room.Room) error {
		host := r.Host()
		c.SetRoom(r.ID)
		c.SendMessage(codec.MustNewMessage(protocol.MsgRoomCreated, protocol.RoomPayload{
			RoomID:    r.ID,
			PlayerID:  host.ID,
			SessionID: host.SessionID,
			Room:      room.FilterForPlayer(r, host.SessionID),
		}))
		s.persist(r)
		return nil
	})
}

// JoinRoom 加入房间，同一连接重复加入返回当前状态
func (s *Service) JoinRoom(c types.ClientInterface, roomID, name string) error {
	name, err := s.validateName(name)
	if err != nil {
		return err
	}
	// 先在目标房间内校验，确定能加入后才离开当前房间
	if err := s.rooms.With(roomID, func(r *room.Room) error {
		return r.CanJoin(c.GetID())
	}); err != nil {
		return err
	}
	s.leaveCurrent(c, roomID)

	return s.rooms.With(roomID, func(r *room.Room) error {
		before := len(r.Players)
		player, err := r.Join(name, c.GetID())
		if err != nil {
			return err
		}

		c.SetRoom(r.ID)
		c.SendMessage(codec.MustNewMessage(protocol.MsgRoomJoined, protocol.RoomPayload{
			RoomID:    r.ID,
			PlayerID:  player.ID,
			SessionID: player.SessionID,
			Room:      room.FilterForPlayer(r, player.SessionID),
		}))

		if len(r.Players) > before {
			s.broadcast(r, player.SessionID, func(v *protocol.RoomView) any {
				return protocol.RoomPayload{RoomID: r.ID, Room: v}
			}, protocol.MsgPlayerJoined)
			s.persist(r)
		}
		return nil
	})
}

// StartGame 房主开局
func (s *Service) StartGame(c types.ClientInterface, roomID string) error {
	return s.rooms.With(roomID, func(r *room.Room) error {
		if err := r.Start(sessionOf(r, c.GetID())); err != nil {
			return err
		}

		log.Printf("🎮 房间 %s 开局，%d 名玩家", r.ID, len(r.Players))
		s.broadcast(r, "", func(v *protocol.RoomView) any {
			return protocol.RoomPayload{RoomID: r.ID, Room: v}
		}, protocol.MsgGameStarted)
		s.persist(r)
		return nil
	})
}

// PlayCard 出牌，成功后向全房间广播新状态和本墩结算
func (s *Service) PlayCard(c types.ClientInterface, roomID string, info protocol.CardInfo) error {
	played, err := convert.InfoToCard(info)
	if err != nil {
		return err
	}

	return s.rooms.With(roomID, func(r *room.Room) error {
		wasOver := r.GameOver
		result, err := r.PlayCard(sessionOf(r, c.GetID()), played)
		if err != nil {
			return err
		}

		trick := room.TrickResultView(r, result)
		s.broadcast(r, "", func(v *protocol.RoomView) any {
			return protocol.GameUpdatedPayload{Room: v, TrickResult: trick}
		}, protocol.MsgGameUpdated)

		if !wasOver && r.GameOver {
			s.recordResults(r)
		}
		s.persist(r)
		return nil
	})
}

// RoomState 拉取房间快照，只有请求者本人的手牌可见
func (s *Service) RoomState(c types.ClientInterface, roomID string) error {
	return s.rooms.With(roomID, func(r *room.Room) error {
		c.SendMessage(codec.MustNewMessage(protocol.MsgRoomState, protocol.RoomPayload{
			RoomID: r.ID,
			Room:   room.FilterForPlayer(r, sessionOf(r, c.GetID())),
		}))
		return nil
	})
}

// HostEndGame 房主结束游戏，广播后在固定延迟后回收房间
func (s *Service) HostEndGame(c types.ClientInterface, roomID, reason string) error {
	if s.hostEndCoolingDown(c.GetID()) {
		return apperrors.ErrRateLimited
	}

	return s.rooms.With(roomID, func(r *room.Room) error {
		if err := r.EndByHost(sessionOf(r, c.GetID()), reason); err != nil {
			return err
		}
		s.stampHostEnd(c.GetID())

		s.broadcast(r, "", func(v *protocol.RoomView) any {
			return protocol.GameEndedByHostPayload{Reason: r.EndReason, EndedBy: r.EndedBy, Room: v}
		}, protocol.MsgGameEndedByHost)
		c.SendMessage(codec.MustNewMessage(protocol.MsgGameEndSuccess, protocol.RoomPayload{
			RoomID: r.ID,
			Room:   room.FilterForPlayer(r, sessionOf(r, c.GetID())),
		}))

		id := r.ID
		s.rooms.ScheduleDeletion(id, s.opts.EndDeleteDelay, func() {
			s.reclaim(id, room.ReclaimHostEnded)
		})
		// 镜像与房间同时过期
		s.persistWithTTL(r, s.opts.EndDeleteDelay)
		return nil
	})
}

// hostEndCoolingDown 连接上次成功结束游戏后是否仍在冷却期
func (s *Service) hostEndCoolingDown(connID string) bool {
	s.cooldownMu.Lock()
	defer s.cooldownMu.Unlock()

	last, ok := s.cooldowns[connID]
	return ok && s.now().Sub(last) < s.opts.HostEndCooldown
}

// stampHostEnd 只有成功的结束操作才开始冷却
func (s *Service) stampHostEnd(connID string) {
	s.cooldownMu.Lock()
	defer s.cooldownMu.Unlock()
	s.cooldowns[connID] = s.now()
}

// leaveCurrent 连接换房间前离开当前房间
// 大厅中直接移除，对局中按断线处理以保留重连机会
func (s *Service) leaveCurrent(c types.ClientInterface, nextRoomID string) {
	current := c.GetRoom()
	if current == "" || current == nextRoomID {
		return
	}

	var waiting bool
	_ = s.rooms.With(current, func(r *room.Room) error {
		waiting = r.Phase == room.PhaseWaiting
		if !waiting {
			return nil
		}
		sid := sessionOf(r, c.GetID())
		if sid == "" {
			return nil
		}
		removed, _, err := r.RemovePlayer(sid)
		if err != nil {
			return nil
		}

		log.Printf("🚪 玩家 %s 离开房间 %s", removed.Name, r.ID)
		if r.IsEmpty() {
			s.reclaimLocked(r, room.ReclaimEmpty)
			return nil
		}
		s.broadcast(r, "", func(v *protocol.RoomView) any {
			return protocol.RoomPayload{RoomID: r.ID, Room: v}
		}, protocol.MsgPlayerLeft)
		s.persist(r)
		return nil
	})

	if !waiting {
		s.Disconnect(c)
	}
	c.SetRoom("")
}
