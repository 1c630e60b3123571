package rule

import (
	"github.com/palemoky/kazhutha/internal/game/card"
)

// Play 中间牌堆里的一次出牌
type Play struct {
	SessionID  string
	PlayerID   string // 公开 ID，用于展示
	PlayerName string
	Card       card.Card
}

// TrickResult 一墩牌的结算结果
//
// 发生 Pani（切牌）时 VictimSessionID 收走 Cards 中的全部牌；
// 否则 Winner 赢得下一轮出牌权，Cards 为空（牌被弃掉）。
type TrickResult struct {
	IsPani          bool
	VictimSessionID string
	WinnerSessionID string
	SecondSessionID string // 第二大的出牌者，可能为空
	Cards           []card.Card
}

// IsLegalPlay 判断在当前首引花色下能否出这张牌
// 没有首引花色时任何牌都能出；有该花色时必须跟花色，否则可以切牌
func IsLegalPlay(c card.Card, leadSuit card.Suit, hand []card.Card) bool {
	if leadSuit == "" {
		return true
	}
	if card.HasSuit(hand, leadSuit) {
		return c.Suit == leadSuit
	}
	return true
}

// LegalCards 返回手牌中当前可以出的牌
func LegalCards(hand []card.Card, leadSuit card.Suit) []card.Card {
	legal := make([]card.Card, 0, len(hand))
	for _, c := range hand {
		if IsLegalPlay(c, leadSuit, hand) {
			legal = append(legal, c)
		}
	}
	return legal
}

// CutIndex 返回第一张非首引花色牌的位置，没有切牌时返回 -1
func CutIndex(pile []Play, leadSuit card.Suit) int {
	for i, p := range pile {
		if p.Card.Suit != leadSuit {
			return i
		}
	}
	return -1
}

// HasCut 牌堆中是否出现了切牌
func HasCut(pile []Play, leadSuit card.Suit) bool {
	return CutIndex(pile, leadSuit) >= 0
}

// highestLead 返回 pile 中首引花色最大牌的位置，跳过 skip
// 只有严格更大才替换，点数相同时先出者优先
func highestLead(pile []Play, leadSuit card.Suit, skip int) int {
	best := -1
	for i, p := range pile {
		if i == skip || p.Card.Suit != leadSuit {
			continue
		}
		if best < 0 || p.Card.Rank > pile[best].Card.Rank {
			best = i
		}
	}
	return best
}

// ResolveTrick 结算一墩牌
func ResolveTrick(pile []Play, leadSuit card.Suit) TrickResult {
	if len(pile) == 0 {
		return TrickResult{}
	}

	if cut := CutIndex(pile, leadSuit); cut >= 0 {
		victim := highestLead(pile[:cut], leadSuit, -1)
		if victim < 0 {
			victim = 0
		}
		cards := make([]card.Card, len(pile))
		for i, p := range pile {
			cards[i] = p.Card
		}
		return TrickResult{
			IsPani:          true,
			VictimSessionID: pile[victim].SessionID,
			Cards:           cards,
		}
	}

	result := TrickResult{}
	winner := highestLead(pile, leadSuit, -1)
	if winner < 0 {
		return result
	}
	result.WinnerSessionID = pile[winner].SessionID
	if second := highestLead(pile, leadSuit, winner); second >= 0 {
		result.SecondSessionID = pile[second].SessionID
	}
	return result
}
