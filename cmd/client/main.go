// 命令行机器人：创建或加入房间，轮到自己时自动出第一张合法的牌
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/palemoky/kazhutha/internal/game/card"
	"github.com/palemoky/kazhutha/internal/game/rule"
	"github.com/palemoky/kazhutha/internal/protocol"
	"github.com/palemoky/kazhutha/internal/protocol/codec"
	"github.com/palemoky/kazhutha/internal/protocol/convert"
	"github.com/palemoky/kazhutha/internal/transport"
)

func main() {
	serverAddr := flag.String("server", "localhost:5000", "服务器地址")
	name := flag.String("name", "bot", "玩家名")
	roomID := flag.String("room", "", "要加入的房间号，为空时创建房间")
	players := flag.Int("players", 2, "房主在人数达到后自动开局")
	codecName := flag.String("codec", codec.NameJSON, "json / protobuf")
	flag.Parse()

	client := transport.NewClient(fmt.Sprintf("ws://%s/ws", *serverAddr), codec.ByName(*codecName))
	client.OnReconnecting = func(attempt, maxAttempts int) {
		log.Printf("🔄 正在重连 (%d/%d)", attempt, maxAttempts)
	}
	if err := client.Connect(); err != nil {
		log.Fatalf("连接服务器失败: %v", err)
	}
	defer client.Close()
	client.StartHeartbeat()

	var err error
	if *roomID == "" {
		err = client.CreateRoom(*name)
	} else {
		err = client.JoinRoom(*roomID, *name)
	}
	if err != nil {
		log.Fatalf("进入房间失败: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		client.Close()
	}()

	b := &bot{client: client, startAt: *players}
	for {
		msg, err := client.Receive()
		if err != nil {
			return
		}
		if done := b.handle(msg); done {
			return
		}
	}
}

type bot struct {
	client  *transport.Client
	startAt int
}

// handle 处理一条服务端消息，返回是否应该退出
func (b *bot) handle(msg *protocol.Message) bool {
	switch msg.Type {
	case protocol.MsgRoomCreated, protocol.MsgRoomJoined, protocol.MsgPlayerJoined,
		protocol.MsgGameStarted, protocol.MsgRoomState:
		p, err := codec.ParsePayload[protocol.RoomPayload](msg)
		if err != nil {
			return false
		}
		if msg.Type == protocol.MsgRoomCreated {
			log.Printf("🏠 房间号 %s，等待 %d 名玩家", p.RoomID, b.startAt)
		}
		return b.act(p.Room)

	case protocol.MsgGameUpdated:
		p, err := codec.ParsePayload[protocol.GameUpdatedPayload](msg)
		if err != nil {
			return false
		}
		if t := p.TrickResult; t != nil && t.IsPani {
			log.Printf("✂️ 切牌！%s 收走 %d 张牌", t.VictimPlayerID, len(t.Cards))
		}
		return b.act(p.Room)

	case protocol.MsgReconnectionSuccessful:
		p, err := codec.ParsePayload[protocol.ReconnectionSuccessfulPayload](msg)
		if err != nil {
			return false
		}
		return b.act(p.Room)

	case protocol.MsgJoinError, protocol.MsgError:
		p, _ := codec.ParsePayload[protocol.ErrorPayload](msg)
		if p != nil {
			log.Printf("⚠️ %s: %s", p.Kind, p.Message)
		}
		return msg.Type == protocol.MsgJoinError

	case protocol.MsgReconnectionFailed, protocol.MsgRoomClosed, protocol.MsgGameEndedByHost:
		log.Printf("🚪 %s", msg.Type)
		return true
	}
	return false
}

// act 根据快照决定是否开局或出牌
func (b *bot) act(view *protocol.RoomView) bool {
	if view == nil {
		return false
	}
	me := b.client.Identity().PlayerID

	if view.GameOver {
		if view.Loser != nil {
			log.Printf("🫏 %s 是 Kazhutha", view.Loser.Name)
		}
		return true
	}

	if !view.GameStarted {
		if view.Host == me && len(view.Players) >= b.startAt {
			_ = b.client.StartGame()
		}
		return false
	}

	if view.CurrentTurnPlayer == nil || view.CurrentTurnPlayer.ID != me {
		return false
	}

	var hand []card.Card
	for _, p := range view.Players {
		if p.ID != me {
			continue
		}
		for _, info := range p.Hand {
			if c, err := convert.InfoToCard(info); err == nil {
				hand = append(hand, c)
			}
		}
	}

	legal := rule.LegalCards(hand, card.Suit(view.LeadSuit))
	if len(legal) == 0 {
		return false
	}
	log.Printf("🃏 出牌 %s", legal[0])
	_ = b.client.PlayCard(convert.CardToInfo(legal[0]))
	return false
}
