//go:build !production

package room

import (
	"time"

	"github.com/palemoky/kazhutha/internal/game/card"
)

// NewTestRoom 创建包含指定玩家的等待中房间，第一个名字为房主，连接 ID 为 "conn-<name>"
func NewTestRoom(id string, names ...string) *Room {
	r := New(id, names[0], "conn-"+names[0], DefaultLimits, nil)
	for _, name := range names[1:] {
		if _, err := r.Join(name, "conn-"+name); err != nil {
			panic(err)
		}
	}
	return r
}

// StartWithDeck 使用指定牌序开局
func (r *Room) StartWithDeck(sessionID string, deck card.Deck) error {
	return r.start(sessionID, deck)
}

// SetHands 直接设置手牌并进入对局，turn 为先手位置
func (r *Room) SetHands(turn int, hands ...[]card.Card) {
	for i, h := range hands {
		r.Players[i].Hand = h
		r.Players[i].IsSafe = len(h) == 0
	}
	r.Phase = PhaseActive
	r.CurrentTurn = turn
	r.RoundNumber = 1
	r.CenterPile = nil
	r.LeadSuit = ""
	r.GameOver = false
	r.Loser = nil
}

// SetClock 替换房间时钟
func (r *Room) SetClock(clock func() time.Time) {
	r.clock = clock
}

// AddForTest 直接把房间放入目录
func (m *Manager) AddForTest(r *Room) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rooms[r.ID] = r
}
