package card

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Suit 定义花色
type Suit string

// Rank 定义点数，A 最大
type Rank int

const (
	Hearts   Suit = "hearts"   // 红心
	Diamonds Suit = "diamonds" // 方块
	Clubs    Suit = "clubs"    // 梅花
	Spades   Suit = "spades"   // 黑桃
)

// Suits 固定的花色枚举顺序
var Suits = []Suit{Hearts, Diamonds, Clubs, Spades}

// suitSymbols 花色符号映射表
var suitSymbols = map[Suit]string{
	Hearts:   "♥",
	Diamonds: "♦",
	Clubs:    "♣",
	Spades:   "♠",
}

// Symbol 返回花色符号
func (s Suit) Symbol() string {
	return suitSymbols[s]
}

// Valid 是否为四种花色之一
func (s Suit) Valid() bool {
	_, ok := suitSymbols[s]
	return ok
}

// ParseSuit 解析花色名称
func ParseSuit(s string) (Suit, error) {
	suit := Suit(strings.ToLower(strings.TrimSpace(s)))
	if !suit.Valid() {
		return "", fmt.Errorf("unknown suit: %q", s)
	}
	return suit, nil
}

const (
	Rank2 Rank = iota + 2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
	Rank9
	Rank10
	RankJ // Jack
	RankQ // Queen
	RankK // King
	RankA // Ace
)

// rankNames 牌面值字符串映射表
var rankNames = map[Rank]string{
	Rank2:  "2",
	Rank3:  "3",
	Rank4:  "4",
	Rank5:  "5",
	Rank6:  "6",
	Rank7:  "7",
	Rank8:  "8",
	Rank9:  "9",
	Rank10: "10",
	RankJ:  "J",
	RankQ:  "Q",
	RankK:  "K",
	RankA:  "A",
}

// nameToRank 用于快速查找牌面值对应的 Rank
var nameToRank = func() map[string]Rank {
	m := make(map[string]Rank, len(rankNames))
	for r, name := range rankNames {
		m[name] = r
	}
	return m
}()

func (r Rank) String() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return "?"
}

// ParseRank 解析牌面值（"2".."10", "J", "Q", "K", "A"）
func ParseRank(s string) (Rank, error) {
	if r, ok := nameToRank[strings.ToUpper(strings.TrimSpace(s))]; ok {
		return r, nil
	}
	return 0, fmt.Errorf("unknown card value: %q", s)
}

// Card 定义一张牌，(Suit, Rank) 即身份
type Card struct {
	Suit Suit
	Rank Rank
}

// AceOfSpades 持有者先出牌
var AceOfSpades = Card{Suit: Spades, Rank: RankA}

// ID 返回形如 "A_spades" 的标识
func (c Card) ID() string {
	return c.Rank.String() + "_" + string(c.Suit)
}

func (c Card) String() string {
	return c.Rank.String() + c.Suit.Symbol()
}

// New 根据字符串形式的花色和牌面值创建一张牌
func New(suit, value string) (Card, error) {
	s, err := ParseSuit(suit)
	if err != nil {
		return Card{}, err
	}
	r, err := ParseRank(value)
	if err != nil {
		return Card{}, err
	}
	return Card{Suit: s, Rank: r}, nil
}

// ParseID 解析 "A_spades" 形式的标识
func ParseID(id string) (Card, error) {
	value, suit, ok := strings.Cut(id, "_")
	if !ok {
		return Card{}, fmt.Errorf("malformed card id: %q", id)
	}
	return New(suit, value)
}

// Deck 定义一副牌
type Deck []Card

// DeckSize 一副牌的张数
const DeckSize = 52

// NewDeck 按固定顺序生成 52 张牌
func NewDeck() Deck {
	deck := make(Deck, 0, DeckSize)
	for _, s := range Suits {
		for r := Rank2; r <= RankA; r++ {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	return deck
}

// Shuffle 返回洗好的新牌组，不修改原牌组
func Shuffle(d Deck) Deck {
	shuffled := make(Deck, len(d))
	copy(shuffled, d)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rand.IntN(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}

// Deal 从 0 号玩家开始轮流发牌
// 52 不能被人数整除时，靠前的玩家多拿一张
func Deal(d Deck, players int) [][]Card {
	if players <= 0 {
		return nil
	}
	hands := make([][]Card, players)
	for i := range hands {
		hands[i] = make([]Card, 0, len(d)/players+1)
	}
	for i, c := range d {
		hands[i%players] = append(hands[i%players], c)
	}
	return hands
}
