package transport

import (
	"log"
	"time"

	"github.com/palemoky/kazhutha/internal/logger"
)

// tryReconnect 断线后用会话 ID 重新加入房间，指数退避
func (c *Client) tryReconnect() {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
			c.reconnecting.Store(false)
		}
	}()

	if !c.reconnecting.CompareAndSwap(false, true) {
		return
	}

	backoff := c.ReconnectDelay
	if backoff <= 0 {
		backoff = defaultReconnectDelay
	}

	for attempt := 1; attempt <= maxReconnectAttempts; attempt++ {
		if c.OnReconnecting != nil {
			c.OnReconnecting(attempt, maxReconnectAttempts)
		}

		select {
		case <-c.done:
			c.reconnecting.Store(false)
			return
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, maxReconnectDelay)

		l, err := c.dial()
		if err != nil {
			log.Printf("🔄 重连失败 (%d/%d): %v", attempt, maxReconnectAttempts, err)
			continue
		}

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			l.close()
			c.reconnecting.Store(false)
			return
		}
		c.link = l
		c.mu.Unlock()

		go c.readPump(l)
		go c.writePump(l)

		// 结果通过 reconnection_successful / reconnection_failed 返回
		if err := c.Reconnect(); err != nil {
			l.close()
			continue
		}
		return
	}

	log.Printf("❌ 重连失败，已达最大尝试次数")
	c.reconnecting.Store(false)
	c.Close()
}
