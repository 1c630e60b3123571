package protocol

// 错误码
const (
	ErrCodeUnknown           = 1000
	ErrCodeInvalidMsg        = 1001
	ErrCodeRateLimit         = 1002 // 速率限制
	ErrCodeInvalidName       = 1003
	ErrCodeInvalidCard       = 1004
	ErrCodeRoomNotFound      = 2001
	ErrCodeRoomFull          = 2002
	ErrCodeNotInRoom         = 2003
	ErrCodeGameStarted       = 2004 // 游戏已开始
	ErrCodeNotEnoughPlayers  = 2005
	ErrCodeNotHost           = 2006
	ErrCodeAlreadyEnded      = 2007
	ErrCodeGameNotActive     = 3001
	ErrCodeNotYourTurn       = 3002
	ErrCodeAlreadySafe       = 3003
	ErrCodeCardNotInHand     = 3004
	ErrCodeMustFollowSuit    = 3005
	ErrCodeSessionNotFound   = 4001
	ErrCodeSessionExpired    = 4002
	ErrCodeStatsUnavailable  = 5001
	ErrCodeServerMaintenance = 5003 // 服务器维护中
)

// ErrorMessages 错误码对应的消息
var ErrorMessages = map[int]string{
	ErrCodeUnknown:           "Unknown error",
	ErrCodeInvalidMsg:        "Invalid message format",
	ErrCodeRateLimit:         "Too many requests, slow down",
	ErrCodeInvalidName:       "Invalid player name",
	ErrCodeInvalidCard:       "Invalid card",
	ErrCodeRoomNotFound:      "Room not found",
	ErrCodeRoomFull:          "Room is full",
	ErrCodeNotInRoom:         "Player not found in room",
	ErrCodeGameStarted:       "Game already started. Room is locked.",
	ErrCodeNotEnoughPlayers:  "Need at least 2 players to start",
	ErrCodeNotHost:           "Only the host can do that",
	ErrCodeAlreadyEnded:      "Game has already ended",
	ErrCodeGameNotActive:     "Game not active",
	ErrCodeNotYourTurn:       "Not your turn",
	ErrCodeAlreadySafe:       "You are already safe",
	ErrCodeCardNotInHand:     "Card not in hand",
	ErrCodeMustFollowSuit:    "Must follow suit if possible",
	ErrCodeSessionNotFound:   "Session not found",
	ErrCodeSessionExpired:    "Session expired",
	ErrCodeStatsUnavailable:  "Stats are temporarily unavailable",
	ErrCodeServerMaintenance: "Server under maintenance",
}
