package transport

import (
	"time"

	"github.com/palemoky/kazhutha/internal/protocol"
	"github.com/palemoky/kazhutha/internal/protocol/codec"
)

// --- 便捷方法 ---

// CreateRoom 创建房间
func (c *Client) CreateRoom(playerName string) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgCreateRoom, protocol.CreateRoomPayload{
		PlayerName: playerName,
	}))
}

// JoinRoom 加入房间
func (c *Client) JoinRoom(roomID, playerName string) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgJoinRoom, protocol.JoinRoomPayload{
		RoomID:     roomID,
		PlayerName: playerName,
	}))
}

// StartGame 开局（仅房主）
func (c *Client) StartGame() error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgStartGame, protocol.RoomIDPayload{
		RoomID: c.Identity().RoomID,
	}))
}

// PlayCard 出牌
func (c *Client) PlayCard(card protocol.CardInfo) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgPlayCard, protocol.PlayCardPayload{
		RoomID: c.Identity().RoomID,
		Card:   card,
	}))
}

// GetRoomState 拉取房间快照
func (c *Client) GetRoomState() error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgGetRoomState, protocol.RoomIDPayload{
		RoomID: c.Identity().RoomID,
	}))
}

// HostEndGame 房主结束游戏
func (c *Client) HostEndGame(reason string) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgHostEndGame, protocol.HostEndGamePayload{
		RoomID: c.Identity().RoomID,
		Reason: reason,
	}))
}

// GetStats 获取玩家统计
func (c *Client) GetStats(playerName string) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgGetStats, protocol.GetStatsPayload{
		PlayerName: playerName,
	}))
}

// Ping 发送心跳
func (c *Client) Ping() error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgPing, protocol.PingPayload{
		Timestamp: time.Now().UnixMilli(),
	}))
}

// Reconnect 用当前会话发送重连请求
func (c *Client) Reconnect() error {
	id := c.Identity()
	if id.SessionID == "" || id.RoomID == "" {
		return ErrNoSession
	}
	return c.SendMessage(codec.MustNewMessage(protocol.MsgReconnectPlayer, protocol.ReconnectPayload{
		SessionID: id.SessionID,
		RoomID:    id.RoomID,
	}))
}
