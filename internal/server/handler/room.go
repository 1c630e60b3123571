package handler

import (
	"github.com/palemoky/kazhutha/internal/protocol"
	"github.com/palemoky/kazhutha/internal/protocol/codec"
	"github.com/palemoky/kazhutha/internal/types"
)

// handleCreateRoom 创建房间，payload 可以直接是玩家名字符串
func (h *Handler) handleCreateRoom(client types.ClientInterface, msg *protocol.Message) {
	if h.inMaintenance(client) {
		return
	}

	payload, err := codec.ParseStringOr(msg, func(name string) protocol.CreateRoomPayload {
		return protocol.CreateRoomPayload{PlayerName: name}
	})
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	reply(client, protocol.MsgError, h.service.CreateRoom(client, payload.PlayerName))
}

// handleJoinRoom 加入房间，失败时回复 join_error
func (h *Handler) handleJoinRoom(client types.ClientInterface, msg *protocol.Message) {
	if h.inMaintenance(client) {
		return
	}

	payload, err := codec.ParsePayload[protocol.JoinRoomPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	reply(client, protocol.MsgJoinError, h.service.JoinRoom(client, payload.RoomID, payload.PlayerName))
}

// handleStartGame 房主开局
func (h *Handler) handleStartGame(client types.ClientInterface, msg *protocol.Message) {
	roomID, ok := parseRoomID(client, msg)
	if !ok {
		return
	}
	reply(client, protocol.MsgError, h.service.StartGame(client, roomID))
}

// handleGetRoomState 拉取房间快照
func (h *Handler) handleGetRoomState(client types.ClientInterface, msg *protocol.Message) {
	roomID, ok := parseRoomID(client, msg)
	if !ok {
		return
	}
	reply(client, protocol.MsgError, h.service.RoomState(client, roomID))
}

// handleHostEndGame 房主结束游戏，失败时回复 game_end_error
func (h *Handler) handleHostEndGame(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.HostEndGamePayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	reply(client, protocol.MsgGameEndError, h.service.HostEndGame(client, payload.RoomID, payload.Reason))
}

// parseRoomID 兼容 {"roomId": "..."} 和直接发送房间号字符串两种写法
// 都没有时使用连接当前所在的房间
func parseRoomID(client types.ClientInterface, msg *protocol.Message) (string, bool) {
	roomID := client.GetRoom()
	if len(msg.Payload) > 0 {
		payload, err := codec.ParseStringOr(msg, func(id string) protocol.RoomIDPayload {
			return protocol.RoomIDPayload{RoomID: id}
		})
		if err != nil {
			client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
			return "", false
		}
		if payload.RoomID != "" {
			roomID = payload.RoomID
		}
	}

	if roomID == "" {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeRoomNotFound))
		return "", false
	}
	return roomID, true
}

// inMaintenance 维护模式下拒绝新的房间
func (h *Handler) inMaintenance(client types.ClientInterface) bool {
	if h.server == nil || !h.server.IsMaintenanceMode() {
		return false
	}
	client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeServerMaintenance))
	return true
}
