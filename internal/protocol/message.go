package protocol

import "encoding/json"

// Message 基础消息结构
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType 消息类型
type MessageType string

// 客户端 → 服务端 消息类型
const (
	MsgPing            MessageType = "ping"             // 心跳 ping
	MsgCreateRoom      MessageType = "create_room"      // 创建房间
	MsgJoinRoom        MessageType = "join_room"        // 加入房间
	MsgStartGame       MessageType = "start_game"       // 房主开局
	MsgPlayCard        MessageType = "play_card"        // 出牌
	MsgGetRoomState    MessageType = "get_room_state"   // 拉取房间快照
	MsgReconnectPlayer MessageType = "reconnect_player" // 断线重连
	MsgHostEndGame     MessageType = "host_end_game"    // 房主结束游戏
	MsgGetStats        MessageType = "get_stats"        // 获取玩家统计
)

// 服务端 → 客户端 消息类型
const (
	// 连接相关
	MsgConnected              MessageType = "connected"
	MsgPong                   MessageType = "pong"
	MsgReconnectionSuccessful MessageType = "reconnection_successful"
	MsgReconnectionFailed     MessageType = "reconnection_failed"

	// 房间相关
	MsgRoomCreated        MessageType = "room_created"
	MsgRoomJoined         MessageType = "room_joined"
	MsgJoinError          MessageType = "join_error"
	MsgPlayerJoined       MessageType = "player_joined"
	MsgPlayerLeft         MessageType = "player_left"
	MsgPlayerDisconnected MessageType = "player_disconnected"
	MsgPlayerReconnected  MessageType = "player_reconnected"
	MsgPlayerRemoved      MessageType = "player_removed"
	MsgRoomState          MessageType = "room_state"
	MsgRoomClosed         MessageType = "room_closed"
	MsgGameEndedByHost    MessageType = "game_ended_by_host"
	MsgGameEndSuccess     MessageType = "game_end_success"
	MsgGameEndError       MessageType = "game_end_error"
	MsgStatsResult        MessageType = "stats_result"

	// 游戏流程
	MsgGameStarted MessageType = "game_started"
	MsgGameUpdated MessageType = "game_updated"

	// 错误
	MsgError MessageType = "error"
)
