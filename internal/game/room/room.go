package room

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/palemoky/kazhutha/internal/game/card"
	"github.com/palemoky/kazhutha/internal/game/rule"
)

const roomIDLength = 8 // 房间号长度

// Limits 房间人数限制
type Limits struct {
	MaxPlayers int
	MinPlayers int
}

// DefaultLimits 默认 2-6 人
var DefaultLimits = Limits{MaxPlayers: 6, MinPlayers: 2}

// Player 房间中的玩家
type Player struct {
	ID             string // 公开 ID，出现在所有人的快照中
	SessionID      string // 重连凭证，只发给本人
	ConnectionID   string // 当前连接，断线时为空
	Name           string
	Hand           []card.Card
	IsSafe         bool
	IsHost         bool
	Connected      bool
	DisconnectedAt time.Time
}

// Room 游戏房间
//
// Room 本身不加锁，所有读写都要经过 Manager.With 串行化。
type Room struct {
	ID             string
	Players        []*Player // 顺序即加入顺序和出牌顺序
	HostSessionID  string
	Phase          Phase
	CurrentTurn    int
	CenterPile     []rule.Play
	LeadSuit       card.Suit
	RoundNumber    int
	GameOver       bool
	Loser          *Player
	EndReason      string
	EndedBy        string
	EndedAt        time.Time
	CreatedAt      time.Time
	LastActivityAt time.Time

	limits Limits
	clock  func() time.Time

	mu     sync.Mutex
	closed bool
}

// NewPlayer 创建玩家，生成公开 ID 和会话 ID
func NewPlayer(name, connID string) *Player {
	return &Player{
		ID:           uuid.NewString(),
		SessionID:    uuid.NewString(),
		ConnectionID: connID,
		Name:         name,
		Hand:         []card.Card{},
		Connected:    true,
	}
}

// New 创建一个等待中的房间，创建者成为房主
func New(id, hostName, connID string, limits Limits, clock func() time.Time) *Room {
	if clock == nil {
		clock = time.Now
	}
	now := clock()

	host := NewPlayer(hostName, connID)
	host.IsHost = true

	return &Room{
		ID:             id,
		Players:        []*Player{host},
		HostSessionID:  host.SessionID,
		Phase:          PhaseWaiting,
		CreatedAt:      now,
		LastActivityAt: now,
		limits:         limits,
		clock:          clock,
	}
}

// NewRoomID 生成短房间号
func NewRoomID() string {
	return uuid.NewString()[:roomIDLength]
}

func (r *Room) now() time.Time {
	if r.clock == nil {
		return time.Now()
	}
	return r.clock()
}

func (r *Room) touch() {
	r.LastActivityAt = r.now()
}

// MaxPlayers 房间人数上限
func (r *Room) MaxPlayers() int {
	return r.limits.MaxPlayers
}

// IndexOfSession 返回会话对应的玩家位置，不存在返回 -1
func (r *Room) IndexOfSession(sessionID string) int {
	if sessionID == "" {
		return -1
	}
	for i, p := range r.Players {
		if p.SessionID == sessionID {
			return i
		}
	}
	return -1
}

// PlayerBySession 通过会话 ID 查找玩家
func (r *Room) PlayerBySession(sessionID string) *Player {
	if i := r.IndexOfSession(sessionID); i >= 0 {
		return r.Players[i]
	}
	return nil
}

// PlayerByConnection 通过连接 ID 查找玩家
func (r *Room) PlayerByConnection(connID string) *Player {
	if connID == "" {
		return nil
	}
	for _, p := range r.Players {
		if p.ConnectionID == connID {
			return p
		}
	}
	return nil
}

// Host 返回房主
func (r *Room) Host() *Player {
	return r.PlayerBySession(r.HostSessionID)
}

// IsEmpty 房间是否已没有玩家
func (r *Room) IsEmpty() bool {
	return len(r.Players) == 0
}

// ConnectedCount 在线玩家数
func (r *Room) ConnectedCount() int {
	n := 0
	for _, p := range r.Players {
		if p.Connected {
			n++
		}
	}
	return n
}

// AllDisconnected 所有玩家都已断线
func (r *Room) AllDisconnected() bool {
	return r.ConnectedCount() == 0
}

// ActiveCount 手上还有牌的玩家数
func (r *Room) ActiveCount() int {
	n := 0
	for _, p := range r.Players {
		if !p.IsSafe {
			n++
		}
	}
	return n
}

// InProgress 对局进行中且尚未分出结果
func (r *Room) InProgress() bool {
	return r.Phase == PhaseActive && !r.GameOver
}

// CurrentPlayer 当前应出牌的玩家
func (r *Room) CurrentPlayer() *Player {
	if !r.InProgress() || r.CurrentTurn < 0 || r.CurrentTurn >= len(r.Players) {
		return nil
	}
	return r.Players[r.CurrentTurn]
}

// Closed 房间是否已被回收
func (r *Room) Closed() bool {
	return r.closed
}
