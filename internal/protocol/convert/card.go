package convert

import (
	"github.com/palemoky/kazhutha/internal/apperrors"
	"github.com/palemoky/kazhutha/internal/game/card"
	"github.com/palemoky/kazhutha/internal/protocol"
)

// CardToInfo 将 card.Card 转换为 protocol.CardInfo
func CardToInfo(c card.Card) protocol.CardInfo {
	return protocol.CardInfo{
		Suit:  string(c.Suit),
		Value: c.Rank.String(),
		ID:    c.ID(),
	}
}

// CardsToInfos 将 []card.Card 转换为 []protocol.CardInfo
func CardsToInfos(cards []card.Card) []protocol.CardInfo {
	infos := make([]protocol.CardInfo, len(cards))
	for i, c := range cards {
		infos[i] = CardToInfo(c)
	}
	return infos
}

// InfoToCard 将 protocol.CardInfo 转换为 card.Card
// suit/value 优先，缺失时使用 id
func InfoToCard(info protocol.CardInfo) (card.Card, error) {
	var (
		c   card.Card
		err error
	)
	if info.Suit != "" || info.Value != "" {
		c, err = card.New(info.Suit, info.Value)
	} else {
		c, err = card.ParseID(info.ID)
	}
	if err != nil {
		return card.Card{}, apperrors.ErrInvalidCard
	}
	return c, nil
}
