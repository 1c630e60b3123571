package room

import (
	"log"
	"time"

	"github.com/palemoky/kazhutha/internal/apperrors"
	"github.com/palemoky/kazhutha/internal/game/card"
	"github.com/palemoky/kazhutha/internal/game/rule"
)

// DefaultEndReason 房主未填写原因时使用
const DefaultEndReason = "Host ended the game"

// CanJoin 检查连接能否加入，不修改房间
func (r *Room) CanJoin(connID string) error {
	if r.PlayerByConnection(connID) != nil {
		return nil
	}
	if r.Phase != PhaseWaiting {
		return apperrors.ErrAlreadyStarted
	}
	if len(r.Players) >= r.MaxPlayers() {
		return apperrors.ErrRoomFull
	}
	return nil
}

// Join 加入房间
// 同一连接重复加入时返回已有玩家，不重复添加
func (r *Room) Join(name, connID string) (*Player, error) {
	if p := r.PlayerByConnection(connID); p != nil {
		return p, nil
	}
	if err := r.CanJoin(connID); err != nil {
		return nil, err
	}

	player := NewPlayer(name, connID)
	r.Players = append(r.Players, player)
	r.touch()

	log.Printf("👤 玩家 %s 加入房间 %s (%d/%d)", name, r.ID, len(r.Players), r.MaxPlayers())
	return player, nil
}

// Start 房主开局：洗牌、发牌，黑桃 A 持有者先出
func (r *Room) Start(sessionID string) error {
	return r.start(sessionID, card.Shuffle(card.NewDeck()))
}

func (r *Room) start(sessionID string, deck card.Deck) error {
	player := r.PlayerBySession(sessionID)
	if player == nil {
		return apperrors.ErrPlayerNotFound
	}
	if !player.IsHost {
		return apperrors.ErrNotHost
	}
	if r.Phase != PhaseWaiting {
		return apperrors.ErrAlreadyStarted
	}
	if len(r.Players) < r.limits.MinPlayers {
		return apperrors.ErrNotEnoughPlayers
	}

	hands := card.Deal(deck, len(r.Players))
	r.CurrentTurn = 0
	for i, p := range r.Players {
		p.Hand = hands[i]
		card.SortHand(p.Hand)
		p.IsSafe = false
		if card.Contains(p.Hand, card.AceOfSpades) {
			r.CurrentTurn = i
		}
	}

	r.Phase = PhaseActive
	r.RoundNumber = 1
	r.CenterPile = nil
	r.LeadSuit = ""
	r.GameOver = false
	r.Loser = nil
	r.touch()

	log.Printf("🎮 房间 %s 开局，%d 名玩家，%s 持有黑桃 A 先出", r.ID, len(r.Players), r.Players[r.CurrentTurn].Name)
	return nil
}

// PlayCard 出一张牌
// 返回非 nil 的 TrickResult 表示本次出牌结算了一墩
func (r *Room) PlayCard(sessionID string, c card.Card) (*rule.TrickResult, error) {
	if !r.InProgress() {
		return nil, apperrors.ErrGameNotActive
	}
	idx := r.IndexOfSession(sessionID)
	if idx < 0 {
		return nil, apperrors.ErrPlayerNotFound
	}
	if idx != r.CurrentTurn {
		return nil, apperrors.ErrNotYourTurn
	}
	player := r.Players[idx]
	if player.IsSafe {
		return nil, apperrors.ErrAlreadySafe
	}
	if !card.Contains(player.Hand, c) {
		return nil, apperrors.ErrCardNotInHand
	}
	if !rule.IsLegalPlay(c, r.LeadSuit, player.Hand) {
		return nil, apperrors.ErrMustFollowSuit
	}

	// 校验完成，开始修改状态
	player.Hand, _ = card.Remove(player.Hand, c)
	if len(r.CenterPile) == 0 {
		r.LeadSuit = c.Suit
	}
	r.CenterPile = append(r.CenterPile, rule.Play{
		SessionID:  player.SessionID,
		PlayerID:   player.ID,
		PlayerName: player.Name,
		Card:       c,
	})
	if len(player.Hand) == 0 {
		player.IsSafe = true
		log.Printf("🛡️ 玩家 %s 出完手牌，安全", player.Name)
	}
	r.touch()

	if r.trickComplete() {
		result := r.settleTrick(idx)
		return &result, nil
	}

	r.advanceTurn(idx + 1)
	return nil, nil
}

// trickComplete 出现切牌，或所有手上有牌的玩家都已出过牌
func (r *Room) trickComplete() bool {
	if len(r.CenterPile) == 0 {
		return false
	}
	if len(r.CenterPile) > 1 && rule.HasCut(r.CenterPile, r.LeadSuit) {
		return true
	}

	played := make(map[string]bool, len(r.CenterPile))
	for _, p := range r.CenterPile {
		played[p.SessionID] = true
	}
	for _, p := range r.Players {
		if !p.IsSafe && !played[p.SessionID] {
			return false
		}
	}
	return true
}

// settleTrick 结算当前牌堆，lastIdx 为最后出牌者的位置（可能已离开房间时为 -1）
func (r *Room) settleTrick(lastIdx int) rule.TrickResult {
	result := rule.ResolveTrick(r.CenterPile, r.LeadSuit)

	if result.IsPani {
		r.applyCut(result, lastIdx)
	} else {
		r.applyWin(result)
	}

	r.CenterPile = nil
	r.LeadSuit = ""
	r.RoundNumber++
	r.checkGameOver()
	return result
}

func (r *Room) applyCut(result rule.TrickResult, cutterIdx int) {
	victimIdx := r.IndexOfSession(result.VictimSessionID)
	if victimIdx < 0 {
		// 受害者已离开，牌直接弃掉
		log.Printf("💥 房间 %s 切牌，受害者已离开，%d 张牌作废", r.ID, len(result.Cards))
		r.advanceTurn(cutterIdx + 1)
		return
	}

	victim := r.Players[victimIdx]
	victim.Hand = append(victim.Hand, result.Cards...)
	card.SortHand(victim.Hand)
	victim.IsSafe = false
	r.CurrentTurn = victimIdx
	log.Printf("💥 房间 %s 切牌！%s 收走 %d 张牌", r.ID, victim.Name, len(result.Cards))
}

func (r *Room) applyWin(result rule.TrickResult) {
	winnerIdx := r.IndexOfSession(result.WinnerSessionID)
	if winnerIdx >= 0 && !r.Players[winnerIdx].IsSafe {
		r.CurrentTurn = winnerIdx
		log.Printf("🏆 房间 %s %s 赢得这一墩", r.ID, r.Players[winnerIdx].Name)
		return
	}

	// 赢家已安全，出牌权转给第二大的玩家
	if secondIdx := r.IndexOfSession(result.SecondSessionID); secondIdx >= 0 && !r.Players[secondIdx].IsSafe {
		r.CurrentTurn = secondIdx
		log.Printf("👑 房间 %s 赢家已安全，出牌权转给 %s", r.ID, r.Players[secondIdx].Name)
		return
	}

	from := r.CurrentTurn
	if winnerIdx >= 0 {
		from = winnerIdx + 1
	}
	r.advanceTurn(from)
}

// advanceTurn 从 from 开始找到下一个手上有牌的玩家
// 最多扫描一圈，找不到时保持原位（此时必然已经 GameOver）
func (r *Room) advanceTurn(from int) {
	n := len(r.Players)
	if n == 0 {
		r.CurrentTurn = 0
		return
	}
	from = ((from % n) + n) % n
	for i := range n {
		idx := (from + i) % n
		if !r.Players[idx].IsSafe {
			r.CurrentTurn = idx
			return
		}
	}
	if r.CurrentTurn >= n {
		r.CurrentTurn = 0
	}
}

// checkGameOver 只剩一名玩家有牌时对局结束，该玩家成为 Kazhutha
func (r *Room) checkGameOver() {
	if !r.InProgress() {
		return
	}

	if r.ActiveCount() > 1 {
		return
	}

	r.GameOver = true
	for _, p := range r.Players {
		if !p.IsSafe {
			r.Loser = p
		}
	}
	if r.Loser != nil {
		log.Printf("🫏 房间 %s 对局结束，%s 是 Kazhutha！", r.ID, r.Loser.Name)
	} else {
		log.Printf("🏁 房间 %s 对局结束，没有玩家留下手牌", r.ID)
	}
}

// EndByHost 房主强制结束游戏
func (r *Room) EndByHost(sessionID, reason string) error {
	player := r.PlayerBySession(sessionID)
	if player == nil || !player.IsHost {
		return apperrors.ErrNotHost
	}
	if r.Phase == PhaseEnded {
		return apperrors.ErrAlreadyEnded
	}
	if reason == "" {
		reason = DefaultEndReason
	}

	r.Phase = PhaseEnded
	r.GameOver = true
	r.EndedBy = player.Name
	r.EndReason = reason
	r.EndedAt = r.now()
	r.touch()

	log.Printf("🛑 房主 %s 结束了房间 %s 的游戏：%s", player.Name, r.ID, reason)
	return nil
}

// RemovePlayer 永久移除玩家
//
// 对局中移除时手牌作废，之后的座位前移；如果移除后这一墩已经齐了就立即结算，
// 然后检查是否只剩一名有牌玩家。
func (r *Room) RemovePlayer(sessionID string) (*Player, *rule.TrickResult, error) {
	idx := r.IndexOfSession(sessionID)
	if idx < 0 {
		return nil, nil, apperrors.ErrPlayerNotFound
	}

	removed := r.Players[idx]
	r.Players = append(r.Players[:idx:idx], r.Players[idx+1:]...)
	r.touch()

	if removed.IsHost {
		removed.IsHost = false
		r.HostSessionID = ""
		if len(r.Players) > 0 {
			r.Players[0].IsHost = true
			r.HostSessionID = r.Players[0].SessionID
			log.Printf("👑 房间 %s 新房主：%s", r.ID, r.Players[0].Name)
		}
	}

	if !r.InProgress() || len(r.Players) == 0 {
		return removed, nil, nil
	}

	switch {
	case idx < r.CurrentTurn:
		r.CurrentTurn--
	case idx == r.CurrentTurn:
		r.advanceTurn(idx)
	}

	var result *rule.TrickResult
	if r.trickComplete() {
		res := r.settleTrick(-1)
		result = &res
	} else {
		r.advanceTurn(r.CurrentTurn)
		r.checkGameOver()
	}

	return removed, result, nil
}

// MarkDisconnected 标记玩家断线，已断线时返回 false
func (r *Room) MarkDisconnected(sessionID string, at time.Time) (*Player, bool) {
	player := r.PlayerBySession(sessionID)
	if player == nil || !player.Connected {
		return player, false
	}
	player.Connected = false
	player.ConnectionID = ""
	player.DisconnectedAt = at
	r.touch()
	return player, true
}

// Rebind 将玩家绑定到新的连接
func (r *Room) Rebind(sessionID, connID string) (*Player, error) {
	player := r.PlayerBySession(sessionID)
	if player == nil {
		return nil, apperrors.ErrPlayerNotFound
	}
	player.ConnectionID = connID
	player.Connected = true
	player.DisconnectedAt = time.Time{}
	r.touch()
	return player, nil
}
