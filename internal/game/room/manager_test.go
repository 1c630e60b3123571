package room

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/kazhutha/internal/apperrors"
)

func TestManager_CreateAndWith(t *testing.T) {
	t.Parallel()

	m := NewManager(DefaultLimits, nil)
	r := m.Create("Anu", "c1")

	assert.Equal(t, 1, m.Len())
	assert.Same(t, r, m.Get(r.ID))
	assert.Equal(t, []string{r.ID}, m.IDs())

	var seen *Room
	err := m.With(r.ID, func(room *Room) error {
		seen = room
		return nil
	})
	require.NoError(t, err)
	assert.Same(t, r, seen)

	err = m.With("missing", func(*Room) error { return nil })
	assert.ErrorIs(t, err, apperrors.ErrRoomNotFound)

	// 回调的错误原样返回
	err = m.With(r.ID, func(*Room) error { return apperrors.ErrNotHost })
	assert.ErrorIs(t, err, apperrors.ErrNotHost)
}

func TestManager_Remove(t *testing.T) {
	t.Parallel()

	m := NewManager(DefaultLimits, nil)
	r := m.Create("Anu", "c1")
	m.ScheduleDeletion(r.ID, time.Hour, func() {})

	require.NoError(t, m.With(r.ID, func(room *Room) error {
		m.Remove(room)
		return nil
	}))

	assert.True(t, r.Closed())
	assert.Equal(t, 0, m.Len())
	assert.False(t, m.DeletionScheduled(r.ID))

	err := m.With(r.ID, func(*Room) error { return nil })
	assert.ErrorIs(t, err, apperrors.ErrRoomNotFound)
}

func TestManager_WithSerializesRoom(t *testing.T) {
	t.Parallel()

	m := NewManager(DefaultLimits, nil)
	r := m.Create("Anu", "c1")

	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.With(r.ID, func(room *Room) error {
				room.RoundNumber++
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, r.RoundNumber)
}

func TestManager_Summary(t *testing.T) {
	t.Parallel()

	m := NewManager(DefaultLimits, nil)
	waiting := m.Create("Anu", "c1")
	active := m.Create("Biju", "c2")
	ended := m.Create("Chitra", "c3")

	require.NoError(t, m.With(waiting.ID, func(r *Room) error {
		_, err := r.Join("Devi", "c4")
		return err
	}))
	require.NoError(t, m.With(active.ID, func(r *Room) error {
		if _, err := r.Join("Eby", "c5"); err != nil {
			return err
		}
		return r.Start(r.HostSessionID)
	}))
	require.NoError(t, m.With(ended.ID, func(r *Room) error {
		return r.EndByHost(r.HostSessionID, "")
	}))

	s := m.Summary()
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 1, s.Waiting)
	assert.Equal(t, 1, s.Active)
	assert.Equal(t, 1, s.Ended)
	assert.Equal(t, 5, s.Players)
}

func TestManager_ScheduleDeletion(t *testing.T) {
	t.Parallel()

	m := NewManager(DefaultLimits, nil)
	r := m.Create("Anu", "c1")

	var mu sync.Mutex
	fired := 0
	m.ScheduleDeletion(r.ID, 10*time.Millisecond, func() {
		mu.Lock()
		fired++
		mu.Unlock()
	})
	assert.True(t, m.DeletionScheduled(r.ID))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return fired == 1
	}, time.Second, 5*time.Millisecond)
	assert.False(t, m.DeletionScheduled(r.ID))
}

func TestManager_RemoveCancelsDeletion(t *testing.T) {
	t.Parallel()

	m := NewManager(DefaultLimits, nil)
	r := m.Create("Anu", "c1")

	fired := make(chan struct{}, 2)
	m.ScheduleDeletion(r.ID, 20*time.Millisecond, func() { fired <- struct{}{} })
	// 重新安排会替换旧的定时器
	m.ScheduleDeletion(r.ID, 20*time.Millisecond, func() { fired <- struct{}{} })
	require.NoError(t, m.With(r.ID, func(r *Room) error {
		m.Remove(r)
		return nil
	}))
	assert.False(t, m.DeletionScheduled(r.ID))
	assert.Nil(t, m.Get(r.ID))

	select {
	case <-fired:
		t.Fatal("cancelled deletion fired")
	case <-time.After(60 * time.Millisecond):
	}
}

func TestManager_Close(t *testing.T) {
	t.Parallel()

	m := NewManager(DefaultLimits, nil)
	r := m.Create("Anu", "c1")
	m.ScheduleDeletion(r.ID, time.Hour, func() {})

	m.Close()
	assert.False(t, m.DeletionScheduled(r.ID))
}
