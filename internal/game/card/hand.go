package card

import (
	"cmp"
	"slices"
)

// IndexOf 返回牌在手牌中的位置，不存在返回 -1
func IndexOf(hand []Card, c Card) int {
	return slices.Index(hand, c)
}

// Contains 手牌中是否有这张牌
func Contains(hand []Card, c Card) bool {
	return IndexOf(hand, c) >= 0
}

// HasSuit 手牌中是否有指定花色
func HasSuit(hand []Card, s Suit) bool {
	return slices.ContainsFunc(hand, func(c Card) bool { return c.Suit == s })
}

// Remove 从手牌中移除一张牌，返回新手牌
func Remove(hand []Card, c Card) ([]Card, bool) {
	i := IndexOf(hand, c)
	if i < 0 {
		return hand, false
	}
	out := make([]Card, 0, len(hand)-1)
	out = append(out, hand[:i]...)
	return append(out, hand[i+1:]...), true
}

// suitOrder 整理手牌时的花色顺序
var suitOrder = map[Suit]int{Spades: 0, Hearts: 1, Clubs: 2, Diamonds: 3}

// SortHand 按花色分组、同花色按点数从大到小整理手牌
func SortHand(hand []Card) {
	slices.SortFunc(hand, func(a, b Card) int {
		if c := cmp.Compare(suitOrder[a.Suit], suitOrder[b.Suit]); c != 0 {
			return c
		}
		return cmp.Compare(b.Rank, a.Rank)
	})
}
