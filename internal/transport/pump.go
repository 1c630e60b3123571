package transport

import (
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/palemoky/kazhutha/internal/logger"
	"github.com/palemoky/kazhutha/internal/protocol"
	"github.com/palemoky/kazhutha/internal/protocol/codec"
)

// readPump 从服务器读取消息
func (c *Client) readPump(l *link) {
	defer c.handleReadExit(l)

	_ = l.ws.SetReadDeadline(time.Now().Add(pongWait))
	l.ws.SetPongHandler(func(string) error {
		return l.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := l.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) && c.OnError != nil {
				c.OnError(err)
			}
			return
		}

		msg, err := c.Codec.Decode(data)
		if err != nil {
			log.Printf("消息解析错误: %v", err)
			continue
		}

		c.processMessage(msg)
	}
}

func (c *Client) handleReadExit(l *link) {
	if r := recover(); r != nil {
		logger.LogPanic(r)
	}
	l.close()

	c.mu.RLock()
	closed := c.closed
	current := c.link == l
	hasSession := c.identity.SessionID != ""
	c.mu.RUnlock()

	switch {
	case closed || !current:
	case hasSession:
		go c.tryReconnect()
	default:
		c.Close()
	}
}

func (c *Client) processMessage(msg *protocol.Message) {
	reconnected := c.handleInternalMessage(msg)

	if c.OnMessage != nil {
		c.OnMessage(msg)
	}

	select {
	case c.receive <- msg:
	default:
		log.Printf("接收缓冲区已满，丢弃消息 %s", msg.Type)
	}

	// 消息进入 channel 后再回调
	if reconnected && c.OnReconnect != nil {
		c.OnReconnect()
	}
}

// handleInternalMessage 维护连接 ID 和房间身份，返回是否刚完成重连
func (c *Client) handleInternalMessage(msg *protocol.Message) bool {
	switch msg.Type {
	case protocol.MsgConnected:
		if p, err := codec.ParsePayload[protocol.ConnectedPayload](msg); err == nil {
			c.mu.Lock()
			c.connectionID = p.ConnectionID
			c.mu.Unlock()
		}

	case protocol.MsgRoomCreated, protocol.MsgRoomJoined:
		if p, err := codec.ParsePayload[protocol.RoomPayload](msg); err == nil {
			c.setIdentity(Identity{RoomID: p.RoomID, PlayerID: p.PlayerID, SessionID: p.SessionID})
		}

	case protocol.MsgReconnectionSuccessful:
		if p, err := codec.ParsePayload[protocol.ReconnectionSuccessfulPayload](msg); err == nil {
			c.setIdentity(Identity{RoomID: p.RoomID, PlayerID: p.PlayerID, SessionID: p.SessionID})
		}
		return c.reconnecting.CompareAndSwap(true, false)

	case protocol.MsgReconnectionFailed:
		// 会话已失效，不再尝试
		c.setIdentity(Identity{})
		c.reconnecting.Store(false)

	case protocol.MsgRoomClosed:
		c.setIdentity(Identity{})

	case protocol.MsgPlayerRemoved:
		if p, err := codec.ParsePayload[protocol.PlayerRemovedPayload](msg); err == nil && p.PlayerID == c.Identity().PlayerID {
			c.setIdentity(Identity{})
		}

	case protocol.MsgPong:
		if p, err := codec.ParsePayload[protocol.PongPayload](msg); err == nil {
			c.latency.Store(time.Now().UnixMilli() - p.ClientTimestamp)
		}
	}
	return false
}

func (c *Client) setIdentity(id Identity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.identity = id
}

// writePump 向服务器写入消息
func (c *Client) writePump(l *link) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
		}
		ticker.Stop()
		l.close()
	}()

	frameType := websocket.TextMessage
	if c.Codec.Binary() {
		frameType = websocket.BinaryMessage
	}

	for {
		select {
		case message := <-l.send:
			_ = l.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := l.ws.WriteMessage(frameType, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = l.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := l.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-l.stop:
			return
		}
	}
}
