package session

import (
	"log"
	"sync"
	"time"

	"github.com/palemoky/kazhutha/internal/apperrors"
)

// DefaultTTL 断线后保留座位的时间
const DefaultTTL = 10 * time.Minute

// Record 断线玩家的会话记录，只在断线期间存在
type Record struct {
	SessionID      string
	RoomID         string
	PlayerName     string
	PlayerIndex    int // 断线时的座位
	DisconnectedAt time.Time
	ExpiresAt      time.Time
}

// ExpireFunc 会话到期回调，每条记录最多触发一次，调用时不持有 Registry 的锁
type ExpireFunc func(rec Record)

type entry struct {
	rec   Record
	timer *time.Timer
}

// Registry 会话注册表：sessionID → 房间 + 座位
//
// 每条记录带一个一次性的到期定时器；定时器、Claim 和 ExpireDue
// 谁先从表中摘除记录谁负责处理，所以到期回调不会重复执行。
type Registry struct {
	ttl      time.Duration
	now      func() time.Time
	onExpire ExpireFunc

	records map[string]*entry
	expired map[string]time.Time // 已过期的会话，用于区分 session_expired 和 session_not_found
	mu      sync.Mutex
}

// NewRegistry 创建会话注册表
func NewRegistry(ttl time.Duration, now func() time.Time, onExpire ExpireFunc) *Registry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Registry{
		ttl:      ttl,
		now:      now,
		onExpire: onExpire,
		records:  make(map[string]*entry),
		expired:  make(map[string]time.Time),
	}
}

// TTL 重连窗口
func (r *Registry) TTL() time.Duration {
	return r.ttl
}

// Open 玩家断线时创建记录并启动到期定时器，已有记录会被替换
func (r *Registry) Open(sessionID, roomID, playerName string, playerIndex int, at time.Time) Record {
	rec := Record{
		SessionID:      sessionID,
		RoomID:         roomID,
		PlayerName:     playerName,
		PlayerIndex:    playerIndex,
		DisconnectedAt: at,
		ExpiresAt:      at.Add(r.ttl),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.records[sessionID]; ok {
		old.timer.Stop()
	}
	delete(r.expired, sessionID)

	e := &entry{rec: rec}
	e.timer = time.AfterFunc(r.ttl, func() { r.fire(sessionID, e) })
	r.records[sessionID] = e

	log.Printf("⏳ 会话 %s (%s) 进入重连等待，%v 后过期", playerName, roomID, r.ttl)
	return rec
}

func (r *Registry) fire(sessionID string, e *entry) {
	r.mu.Lock()
	if r.records[sessionID] != e {
		r.mu.Unlock()
		return
	}
	delete(r.records, sessionID)
	r.expired[sessionID] = r.now()
	r.mu.Unlock()

	r.expire(e.rec)
}

func (r *Registry) expire(rec Record) {
	log.Printf("⌛ 会话 %s (%s) 重连超时", rec.PlayerName, rec.RoomID)
	if r.onExpire != nil {
		r.onExpire(rec)
	}
}

// Claim 重连时领取记录
//
// 记录不存在或房间不匹配返回 session_not_found，已过期返回 session_expired。
// 不匹配和过期的记录都会被删除并同步执行到期回调，所以调用方不能持有房间锁。
func (r *Registry) Claim(sessionID, roomID string) (Record, error) {
	r.mu.Lock()

	e, ok := r.records[sessionID]
	if !ok {
		_, wasExpired := r.expired[sessionID]
		r.mu.Unlock()
		if wasExpired {
			return Record{}, apperrors.ErrSessionExpired
		}
		return Record{}, apperrors.ErrSessionNotFound
	}

	e.timer.Stop()
	delete(r.records, sessionID)

	if e.rec.RoomID != roomID {
		r.expired[sessionID] = r.now()
		r.mu.Unlock()
		r.expire(e.rec)
		return Record{}, apperrors.ErrSessionNotFound
	}

	if !r.now().Before(e.rec.ExpiresAt) {
		r.expired[sessionID] = r.now()
		r.mu.Unlock()
		r.expire(e.rec)
		return Record{}, apperrors.ErrSessionExpired
	}

	r.mu.Unlock()
	return e.rec, nil
}

// Cancel 删除记录并停止定时器，不触发到期回调
func (r *Registry) Cancel(sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.records[sessionID]
	if !ok {
		return false
	}
	e.timer.Stop()
	delete(r.records, sessionID)
	return true
}

// CancelRoom 删除房间内所有记录，返回删除数量
func (r *Registry) CancelRoom(roomID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, e := range r.records {
		if e.rec.RoomID != roomID {
			continue
		}
		e.timer.Stop()
		delete(r.records, id)
		n++
	}
	return n
}

// ExpireDue 处理所有已到期但定时器还没触发的记录，并清理过期标记
func (r *Registry) ExpireDue(now time.Time) []Record {
	r.mu.Lock()
	var due []Record
	for id, e := range r.records {
		if now.Before(e.rec.ExpiresAt) {
			continue
		}
		e.timer.Stop()
		delete(r.records, id)
		r.expired[id] = now
		due = append(due, e.rec)
	}
	for id, at := range r.expired {
		if now.Sub(at) > r.ttl {
			delete(r.expired, id)
		}
	}
	r.mu.Unlock()

	for _, rec := range due {
		r.expire(rec)
	}
	return due
}

// Get 查询记录
func (r *Registry) Get(sessionID string) (Record, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.records[sessionID]
	if !ok {
		return Record{}, false
	}
	return e.rec, true
}

// Len 当前等待重连的会话数
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// Close 停止所有定时器
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, e := range r.records {
		e.timer.Stop()
		delete(r.records, id)
	}
}
