package room

import (
	"github.com/palemoky/kazhutha/internal/game/rule"
	"github.com/palemoky/kazhutha/internal/protocol"
	"github.com/palemoky/kazhutha/internal/protocol/convert"
)

// FilterForPlayer 生成指定接收者看到的房间快照
// 只有接收者本人的手牌可见，其他人只显示张数；会话 ID 从不出现在快照中
func FilterForPlayer(r *Room, recipientSessionID string) *protocol.RoomView {
	view := &protocol.RoomView{
		ID:             r.ID,
		Phase:          string(r.Phase),
		GameStarted:    r.Phase != PhaseWaiting,
		Players:        make([]protocol.PlayerView, 0, len(r.Players)),
		CurrentTurn:    r.CurrentTurn,
		CenterPile:     make([]protocol.PlayView, 0, len(r.CenterPile)),
		LeadSuit:       string(r.LeadSuit),
		RoundNumber:    r.RoundNumber,
		GameOver:       r.GameOver,
		EndReason:      r.EndReason,
		EndedBy:        r.EndedBy,
		CreatedAt:      r.CreatedAt.UnixMilli(),
		LastActivityAt: r.LastActivityAt.UnixMilli(),
		MaxPlayers:     r.limits.MaxPlayers,
	}
	if !r.EndedAt.IsZero() {
		view.EndedAt = r.EndedAt.UnixMilli()
	}
	if host := r.Host(); host != nil {
		view.Host = host.ID
	}

	for _, p := range r.Players {
		pv := protocol.PlayerView{
			ID:        p.ID,
			Name:      p.Name,
			Hand:      []protocol.CardInfo{},
			HandCount: len(p.Hand),
			IsSafe:    p.IsSafe,
			IsHost:    p.IsHost,
			Connected: p.Connected,
		}
		if recipientSessionID != "" && p.SessionID == recipientSessionID {
			pv.Hand = convert.CardsToInfos(p.Hand)
		}
		if !p.DisconnectedAt.IsZero() {
			pv.DisconnectedAt = p.DisconnectedAt.UnixMilli()
		}
		view.Players = append(view.Players, pv)
	}

	if cur := r.CurrentPlayer(); cur != nil {
		view.CurrentTurnPlayer = &protocol.PlayerRef{ID: cur.ID, Name: cur.Name}
	}
	for _, play := range r.CenterPile {
		view.CenterPile = append(view.CenterPile, protocol.PlayView{
			PlayerID:   play.PlayerID,
			PlayerName: play.PlayerName,
			Card:       convert.CardToInfo(play.Card),
		})
	}
	if r.Loser != nil {
		view.Loser = &protocol.PlayerRef{ID: r.Loser.ID, Name: r.Loser.Name}
	}

	return view
}

// TrickResultView 将结算结果转换为公开格式，会话 ID 替换为玩家公开 ID
func TrickResultView(r *Room, res *rule.TrickResult) *protocol.TrickResultInfo {
	if res == nil {
		return nil
	}

	publicID := func(sessionID string) string {
		if p := r.PlayerBySession(sessionID); p != nil {
			return p.ID
		}
		return ""
	}

	return &protocol.TrickResultInfo{
		IsPani:               res.IsPani,
		VictimPlayerID:       publicID(res.VictimSessionID),
		WinnerPlayerID:       publicID(res.WinnerSessionID),
		SecondWinnerPlayerID: publicID(res.SecondSessionID),
		Cards:                convert.CardsToInfos(res.Cards),
	}
}
