package room

import (
	"log"
	"sync"
	"time"

	"github.com/palemoky/kazhutha/internal/apperrors"
	"github.com/palemoky/kazhutha/internal/protocol"
)

// Manager 房间目录：进程内所有房间，按房间号索引
//
// 锁顺序：房间锁可以在持有时再获取 Manager 锁（Remove），
// 反过来不允许，所以遍历时先复制房间列表再逐个加锁。
type Manager struct {
	limits Limits
	clock  func() time.Time

	rooms     map[string]*Room
	deletions map[string]*time.Timer // 房主结束后的延迟删除
	mu        sync.RWMutex
}

// NewManager 创建房间目录
func NewManager(limits Limits, clock func() time.Time) *Manager {
	if clock == nil {
		clock = time.Now
	}
	return &Manager{
		limits:    limits,
		clock:     clock,
		rooms:     make(map[string]*Room),
		deletions: make(map[string]*time.Timer),
	}
}

// Create 创建房间并加入目录
func (m *Manager) Create(hostName, connID string) *Room {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := NewRoomID()
	for m.rooms[id] != nil {
		id = NewRoomID()
	}

	r := New(id, hostName, connID, m.limits, m.clock)
	m.rooms[id] = r

	log.Printf("🏠 房间 %s 已创建，房主 %s", id, hostName)
	return r
}

// With 在房间锁内执行 fn，同一房间的操作不会交错
func (m *Manager) With(roomID string, fn func(r *Room) error) error {
	m.mu.RLock()
	r := m.rooms[roomID]
	m.mu.RUnlock()
	if r == nil {
		return apperrors.ErrRoomNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return apperrors.ErrRoomNotFound
	}
	return fn(r)
}

// Remove 从目录中移除房间并取消其延迟删除
// 必须在 With 回调内调用
func (m *Manager) Remove(r *Room) {
	r.closed = true

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rooms[r.ID] == r {
		delete(m.rooms, r.ID)
	}
	if t, ok := m.deletions[r.ID]; ok {
		t.Stop()
		delete(m.deletions, r.ID)
	}
}

// Get 获取房间，仅用于只读判断是否存在
func (m *Manager) Get(roomID string) *Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rooms[roomID]
}

// IDs 返回当前所有房间号
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.rooms))
	for id := range m.rooms {
		ids = append(ids, id)
	}
	return ids
}

// Len 房间数量
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// Each 逐个在房间锁内执行 fn，已回收的房间会被跳过
func (m *Manager) Each(fn func(r *Room)) {
	for _, id := range m.IDs() {
		_ = m.With(id, func(r *Room) error {
			fn(r)
			return nil
		})
	}
}

// Summary 统计各阶段房间数
func (m *Manager) Summary() protocol.RoomSummary {
	var s protocol.RoomSummary
	m.Each(func(r *Room) {
		s.Total++
		s.Players += len(r.Players)
		switch r.Phase {
		case PhaseWaiting:
			s.Waiting++
		case PhaseActive:
			s.Active++
		case PhaseEnded:
			s.Ended++
		}
	})
	return s
}

// ScheduleDeletion 在 d 之后执行 fn，同一房间只保留最新的一次
func (m *Manager) ScheduleDeletion(roomID string, d time.Duration, fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.deletions[roomID]; ok {
		old.Stop()
	}

	var t *time.Timer
	t = time.AfterFunc(d, func() {
		m.mu.Lock()
		current := m.deletions[roomID] == t
		if current {
			delete(m.deletions, roomID)
		}
		m.mu.Unlock()
		if current {
			fn()
		}
	})
	m.deletions[roomID] = t
}

// DeletionScheduled 房间是否有待执行的延迟删除
func (m *Manager) DeletionScheduled(roomID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.deletions[roomID]
	return ok
}

// Close 停止所有延迟删除
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, t := range m.deletions {
		t.Stop()
		delete(m.deletions, id)
	}
}
