package protocol

// CardInfo 牌的传输格式，ID 形如 "A_spades"
type CardInfo struct {
	Suit  string `json:"suit"`
	Value string `json:"value"`
	ID    string `json:"id,omitempty"`
}

// PlayerRef 玩家的公开引用
type PlayerRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PlayerView 按接收者过滤后的玩家信息，只有接收者本人的 Hand 非空
type PlayerView struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Hand           []CardInfo `json:"hand"`
	HandCount      int        `json:"handCount"`
	IsSafe         bool       `json:"isSafe"`
	IsHost         bool       `json:"isHost"`
	Connected      bool       `json:"connected"`
	DisconnectedAt int64      `json:"disconnectedAt,omitempty"` // 毫秒
}

// PlayView 中间牌堆中的一次出牌
type PlayView struct {
	PlayerID   string   `json:"playerId"`
	PlayerName string   `json:"playerName"`
	Card       CardInfo `json:"card"`
}

// RoomView 按接收者过滤后的房间快照
type RoomView struct {
	ID                string       `json:"id"`
	Host              string       `json:"host"` // 房主公开 ID
	Phase             string       `json:"phase"`
	GameStarted       bool         `json:"gameStarted"`
	Players           []PlayerView `json:"players"`
	CurrentTurn       int          `json:"currentTurn"`
	CurrentTurnPlayer *PlayerRef   `json:"currentTurnPlayer,omitempty"`
	CenterPile        []PlayView   `json:"centerPile"`
	LeadSuit          string       `json:"leadSuit,omitempty"`
	RoundNumber       int          `json:"roundNumber"`
	GameOver          bool         `json:"gameOver"`
	Loser             *PlayerRef   `json:"loser,omitempty"`
	EndReason         string       `json:"endReason,omitempty"`
	EndedBy           string       `json:"endedBy,omitempty"`
	EndedAt           int64        `json:"endedAt,omitempty"`
	CreatedAt         int64        `json:"createdAt"`
	LastActivityAt    int64        `json:"lastActivityAt"`
	MaxPlayers        int          `json:"maxPlayers"`
}

// RoomSummary 房间概要（/rooms 接口）
type RoomSummary struct {
	Total   int `json:"total"`
	Waiting int `json:"waiting"`
	Active  int `json:"active"`
	Ended   int `json:"ended"`
	Players int `json:"players"`
}
