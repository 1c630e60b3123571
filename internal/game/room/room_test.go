package room

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/kazhutha/internal/apperrors"
	"github.com/palemoky/kazhutha/internal/game/card"
)

func TestNew(t *testing.T) {
	t.Parallel()

	r := New("ab12cd34", "Anu", "c1", DefaultLimits, nil)

	require.Len(t, r.Players, 1)
	host := r.Players[0]
	assert.True(t, host.IsHost)
	assert.True(t, host.Connected)
	assert.Equal(t, "c1", host.ConnectionID)
	assert.NotEmpty(t, host.SessionID)
	assert.NotEmpty(t, host.ID)
	assert.NotEqual(t, host.ID, host.SessionID)
	assert.Empty(t, host.Hand)
	assert.Equal(t, host.SessionID, r.HostSessionID)
	assert.Equal(t, PhaseWaiting, r.Phase)
	assert.False(t, r.CreatedAt.IsZero())
}

func TestNewRoomID(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for range 100 {
		id := NewRoomID()
		assert.Len(t, id, roomIDLength)
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestJoin(t *testing.T) {
	t.Parallel()

	r := New("room1", "Anu", "c1", DefaultLimits, nil)

	p, err := r.Join("Biju", "c2")
	require.NoError(t, err)
	assert.Equal(t, "Biju", p.Name)
	assert.False(t, p.IsHost)
	assert.Len(t, r.Players, 2)
}

func TestJoin_Idempotent(t *testing.T) {
	t.Parallel()

	r := New("room1", "Anu", "c1", DefaultLimits, nil)

	first, err := r.Join("Biju", "c2")
	require.NoError(t, err)
	second, err := r.Join("Biju", "c2")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Len(t, r.Players, 2)

	// 房主重复加入同样不会新增
	host, err := r.Join("Anu", "c1")
	require.NoError(t, err)
	assert.True(t, host.IsHost)
	assert.Len(t, r.Players, 2)
}

func TestJoin_RoomFull(t *testing.T) {
	t.Parallel()

	r := New("room1", "P0", "c0", DefaultLimits, nil)
	for i := 1; i < DefaultLimits.MaxPlayers; i++ {
		_, err := r.Join(fmt.Sprintf("P%d", i), fmt.Sprintf("c%d", i))
		require.NoError(t, err)
	}

	assert.ErrorIs(t, r.CanJoin("late"), apperrors.ErrRoomFull)
	assert.NoError(t, r.CanJoin("c1"))

	_, err := r.Join("Late", "late")
	assert.ErrorIs(t, err, apperrors.ErrRoomFull)
	assert.Len(t, r.Players, r.MaxPlayers())
}

func TestJoin_AlreadyStarted(t *testing.T) {
	t.Parallel()

	r := NewTestRoom("room1", "Anu", "Biju")
	require.NoError(t, r.Start(r.HostSessionID))

	assert.ErrorIs(t, r.CanJoin("c3"), apperrors.ErrAlreadyStarted)
	assert.NoError(t, r.CanJoin("conn-Biju"))

	_, err := r.Join("Chitra", "c3")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyStarted)
	assert.Len(t, r.Players, 2)
}

func TestStart_DealsFullDeck(t *testing.T) {
	t.Parallel()

	for n := 2; n <= 6; n++ {
		t.Run(fmt.Sprintf("%d players", n), func(t *testing.T) {
			t.Parallel()

			names := make([]string, n)
			for i := range names {
				names[i] = fmt.Sprintf("P%d", i)
			}
			r := NewTestRoom("room", names...)
			require.NoError(t, r.Start(r.HostSessionID))

			var all []card.Card
			aceHolder := -1
			for i, p := range r.Players {
				all = append(all, p.Hand...)
				if card.Contains(p.Hand, card.AceOfSpades) {
					aceHolder = i
				}
				assert.False(t, p.IsSafe)
			}
			assert.ElementsMatch(t, card.NewDeck(), all)
			assert.Equal(t, aceHolder, r.CurrentTurn)
			assert.Equal(t, PhaseActive, r.Phase)
			assert.Equal(t, 1, r.RoundNumber)
			assert.Empty(t, r.CenterPile)
			assert.Empty(t, r.LeadSuit)
		})
	}
}

func TestStart_EarlierPlayersGetExtraCard(t *testing.T) {
	t.Parallel()

	r := NewTestRoom("room", "A", "B", "C", "D", "E")
	require.NoError(t, r.StartWithDeck(r.HostSessionID, card.NewDeck()))

	counts := make([]int, len(r.Players))
	for i, p := range r.Players {
		counts[i] = len(p.Hand)
	}
	assert.Equal(t, []int{11, 11, 10, 10, 10}, counts)

	// 固定牌序下黑桃 A 是最后一张，发给 51 % 5 = 1 号玩家
	assert.Equal(t, 1, r.CurrentTurn)
}

func TestStart_Errors(t *testing.T) {
	t.Parallel()

	alone := New("room", "Anu", "c1", DefaultLimits, nil)
	assert.ErrorIs(t, alone.Start(alone.HostSessionID), apperrors.ErrNotEnoughPlayers)
	assert.Equal(t, PhaseWaiting, alone.Phase)

	r := NewTestRoom("room", "Anu", "Biju")
	assert.ErrorIs(t, r.Start(r.Players[1].SessionID), apperrors.ErrNotHost)
	assert.ErrorIs(t, r.Start("missing"), apperrors.ErrPlayerNotFound)

	require.NoError(t, r.Start(r.HostSessionID))
	assert.ErrorIs(t, r.Start(r.HostSessionID), apperrors.ErrAlreadyStarted)
}

func TestEndByHost(t *testing.T) {
	t.Parallel()

	r := NewTestRoom("room", "Anu", "Biju")
	require.NoError(t, r.Start(r.HostSessionID))

	assert.ErrorIs(t, r.EndByHost(r.Players[1].SessionID, "bye"), apperrors.ErrNotHost)
	assert.Equal(t, PhaseActive, r.Phase)

	require.NoError(t, r.EndByHost(r.HostSessionID, ""))
	assert.Equal(t, PhaseEnded, r.Phase)
	assert.True(t, r.GameOver)
	assert.Equal(t, "Anu", r.EndedBy)
	assert.Equal(t, DefaultEndReason, r.EndReason)
	endedAt := r.EndedAt
	assert.False(t, endedAt.IsZero())

	// 第二次结束失败且不修改状态
	err := r.EndByHost(r.HostSessionID, "again")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyEnded)
	assert.Equal(t, DefaultEndReason, r.EndReason)
	assert.Equal(t, endedAt, r.EndedAt)
}

func TestMarkDisconnectedAndRebind(t *testing.T) {
	t.Parallel()

	r := NewTestRoom("room", "Anu", "Biju")
	biju := r.Players[1]
	at := r.CreatedAt.Add(time.Minute)

	p, changed := r.MarkDisconnected(biju.SessionID, at)
	require.True(t, changed)
	assert.Same(t, biju, p)
	assert.False(t, biju.Connected)
	assert.Empty(t, biju.ConnectionID)
	assert.Equal(t, at, biju.DisconnectedAt)

	_, changed = r.MarkDisconnected(biju.SessionID, at)
	assert.False(t, changed)

	assert.Equal(t, 1, r.ConnectedCount())
	assert.False(t, r.AllDisconnected())

	p, err := r.Rebind(biju.SessionID, "new-conn")
	require.NoError(t, err)
	assert.True(t, p.Connected)
	assert.Equal(t, "new-conn", p.ConnectionID)
	assert.True(t, p.DisconnectedAt.IsZero())

	_, err = r.Rebind("missing", "x")
	assert.ErrorIs(t, err, apperrors.ErrPlayerNotFound)
}

func TestRemovePlayer_PromotesHost(t *testing.T) {
	t.Parallel()

	r := NewTestRoom("room", "Anu", "Biju", "Chitra")
	host := r.Players[0]

	removed, result, err := r.RemovePlayer(host.SessionID)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Same(t, host, removed)

	require.Len(t, r.Players, 2)
	assert.True(t, r.Players[0].IsHost)
	assert.Equal(t, "Biju", r.Players[0].Name)
	assert.Equal(t, r.Players[0].SessionID, r.HostSessionID)
	assert.False(t, r.Players[1].IsHost)

	_, _, err = r.RemovePlayer(host.SessionID)
	assert.ErrorIs(t, err, apperrors.ErrPlayerNotFound)
}

func TestRemovePlayer_LastPlayer(t *testing.T) {
	t.Parallel()

	r := New("room", "Anu", "c1", DefaultLimits, nil)
	_, _, err := r.RemovePlayer(r.HostSessionID)
	require.NoError(t, err)
	assert.True(t, r.IsEmpty())
	assert.Empty(t, r.HostSessionID)
}
