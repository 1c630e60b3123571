package apperrors

import (
	"errors"

	"github.com/palemoky/kazhutha/internal/protocol"
)

// GameError 游戏错误（房间和会话共享）
// Kind 是稳定的机器可读标签，Message 面向玩家
type GameError struct {
	Code    int
	Kind    string
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

func newError(code int, kind string) *GameError {
	return &GameError{Code: code, Kind: kind, Message: protocol.ErrorMessages[code]}
}

// 预定义错误
var (
	ErrRoomNotFound     = newError(protocol.ErrCodeRoomNotFound, "room_not_found")
	ErrAlreadyStarted   = newError(protocol.ErrCodeGameStarted, "already_started")
	ErrRoomFull         = newError(protocol.ErrCodeRoomFull, "room_full")
	ErrNotEnoughPlayers = newError(protocol.ErrCodeNotEnoughPlayers, "not_enough_players")
	ErrGameNotActive    = newError(protocol.ErrCodeGameNotActive, "game_not_active")
	ErrPlayerNotFound   = newError(protocol.ErrCodeNotInRoom, "player_not_found")
	ErrNotYourTurn      = newError(protocol.ErrCodeNotYourTurn, "not_your_turn")
	ErrAlreadySafe      = newError(protocol.ErrCodeAlreadySafe, "already_safe")
	ErrCardNotInHand    = newError(protocol.ErrCodeCardNotInHand, "card_not_in_hand")
	ErrMustFollowSuit   = newError(protocol.ErrCodeMustFollowSuit, "must_follow_suit")
	ErrNotHost          = newError(protocol.ErrCodeNotHost, "not_host")
	ErrAlreadyEnded     = newError(protocol.ErrCodeAlreadyEnded, "already_ended")
	ErrSessionNotFound  = newError(protocol.ErrCodeSessionNotFound, "session_not_found")
	ErrSessionExpired   = newError(protocol.ErrCodeSessionExpired, "session_expired")
	ErrRateLimited      = newError(protocol.ErrCodeRateLimit, "rate_limited")
	ErrInvalidCard      = newError(protocol.ErrCodeInvalidCard, "invalid_card")
	ErrInvalidName      = newError(protocol.ErrCodeInvalidName, "invalid_name")
	ErrStatsUnavailable = newError(protocol.ErrCodeStatsUnavailable, "stats_unavailable")
)

// KindOf 返回错误的标签，非 GameError 返回空字符串
func KindOf(err error) string {
	var gameErr *GameError
	if errors.As(err, &gameErr) {
		return gameErr.Kind
	}
	return ""
}
