package protocol

// --- 客户端请求 Payloads ---

// PingPayload 心跳请求
type PingPayload struct {
	Timestamp int64 `json:"timestamp"` // 客户端时间戳（毫秒）
}

// CreateRoomPayload 创建房间请求
type CreateRoomPayload struct {
	PlayerName string `json:"playerName"`
}

// JoinRoomPayload 加入房间请求
type JoinRoomPayload struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
}

// RoomIDPayload 只携带房间号的请求（start_game / get_room_state）
type RoomIDPayload struct {
	RoomID string `json:"roomId"`
}

// PlayCardPayload 出牌请求
type PlayCardPayload struct {
	RoomID string   `json:"roomId"`
	Card   CardInfo `json:"card"`
}

// ReconnectPayload 断线重连请求
type ReconnectPayload struct {
	SessionID string `json:"sessionId"`
	RoomID    string `json:"roomId"`
}

// HostEndGamePayload 房主结束游戏请求
type HostEndGamePayload struct {
	RoomID string `json:"roomId"`
	Reason string `json:"reason"`
}

// GetStatsPayload 获取玩家统计请求
type GetStatsPayload struct {
	PlayerName string `json:"playerName"`
}

// --- 服务端响应 Payloads ---

// ConnectedPayload 连接成功响应
type ConnectedPayload struct {
	ConnectionID string `json:"connectionId"`
}

// PongPayload 心跳响应
type PongPayload struct {
	ClientTimestamp int64 `json:"client_timestamp"`
	ServerTimestamp int64 `json:"server_timestamp"`
}

// ErrorPayload 错误响应
type ErrorPayload struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
}

// RoomPayload 携带房间快照的通用响应
// room_created / room_joined 额外携带 sessionId，供客户端保存用于重连
type RoomPayload struct {
	RoomID    string    `json:"roomId"`
	PlayerID  string    `json:"playerId,omitempty"`  // 接收者本人的公开 ID
	SessionID string    `json:"sessionId,omitempty"` // 只发给本人，用于断线重连
	Room      *RoomView `json:"room"`
}

// GameUpdatedPayload 出牌后的广播
type GameUpdatedPayload struct {
	Room        *RoomView        `json:"room"`
	TrickResult *TrickResultInfo `json:"trickResult"`
}

// TrickResultInfo 一墩的结算结果（对外使用公开 ID）
type TrickResultInfo struct {
	IsPani               bool       `json:"isPani"`
	VictimPlayerID       string     `json:"victimPlayerId,omitempty"`
	WinnerPlayerID       string     `json:"winnerPlayerId,omitempty"`
	SecondWinnerPlayerID string     `json:"secondWinnerPlayerId,omitempty"`
	Cards                []CardInfo `json:"cards"`
}

// PlayerDisconnectedPayload 玩家掉线通知
type PlayerDisconnectedPayload struct {
	PlayerID       string    `json:"playerId"`
	PlayerName     string    `json:"playerName"`
	CanReconnect   bool      `json:"canReconnect"`
	TimeoutMinutes int       `json:"timeoutMinutes"`
	Room           *RoomView `json:"room"`
}

// PlayerReconnectedPayload 玩家重连通知
type PlayerReconnectedPayload struct {
	PlayerID   string    `json:"playerId"`
	PlayerName string    `json:"playerName"`
	Room       *RoomView `json:"room"`
}

// PlayerRemovedPayload 玩家被移出房间通知
type PlayerRemovedPayload struct {
	PlayerID   string    `json:"playerId"`
	PlayerName string    `json:"playerName"`
	Reason     string    `json:"reason"`
	Room       *RoomView `json:"room"`
}

// ReconnectionSuccessfulPayload 重连成功响应
type ReconnectionSuccessfulPayload struct {
	RoomID    string    `json:"roomId"`
	PlayerID  string    `json:"playerId"`
	SessionID string    `json:"sessionId"`
	Room      *RoomView `json:"room"`
}

// ReconnectionFailedPayload 重连失败响应
type ReconnectionFailedPayload struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// GameEndedByHostPayload 房主结束游戏广播
type GameEndedByHostPayload struct {
	Reason  string    `json:"reason"`
	EndedBy string    `json:"endedBy"`
	Room    *RoomView `json:"room"`
}

// RoomClosedPayload 房间被回收通知
type RoomClosedPayload struct {
	RoomID string `json:"roomId"`
	Reason string `json:"reason"`
}

// StatsResultPayload 玩家统计结果
type StatsResultPayload struct {
	PlayerName    string `json:"playerName"`
	GamesPlayed   int    `json:"gamesPlayed"`
	TimesSafe     int    `json:"timesSafe"`
	TimesKazhutha int    `json:"timesKazhutha"`
	Rank          int64  `json:"rank"` // 按 kazhutha 次数排名，0 表示未上榜
}
