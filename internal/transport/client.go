// Package transport 是游戏服务器的 WebSocket 客户端，负责读写协程、心跳和断线重连
package transport

import (
	"errors"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/palemoky/kazhutha/internal/protocol"
	"github.com/palemoky/kazhutha/internal/protocol/codec"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// 心跳检测间隔
	heartbeatInterval = 5 * time.Second
	// 最大重连次数
	maxReconnectAttempts = 5
	// 初始重连间隔，之后指数退避
	defaultReconnectDelay = 2 * time.Second
	maxReconnectDelay     = 30 * time.Second

	bufferSize = 256
)

var (
	ErrClosed     = errors.New("connection closed")
	ErrBufferFull = errors.New("send buffer full")
	ErrTimeout    = errors.New("receive timeout")
	ErrNoSession  = errors.New("no session to reconnect")
)

// Identity 客户端在房间中的身份
type Identity struct {
	RoomID    string
	PlayerID  string
	SessionID string
}

// link 一条底层 WebSocket 连接，重连时整体替换
type link struct {
	ws   *websocket.Conn
	send chan []byte
	stop chan struct{}
	once sync.Once
}

func newLink(ws *websocket.Conn) *link {
	return &link{
		ws:   ws,
		send: make(chan []byte, bufferSize),
		stop: make(chan struct{}),
	}
}

func (l *link) close() {
	l.once.Do(func() {
		close(l.stop)
		_ = l.ws.Close()
	})
}

// Client WebSocket 客户端
type Client struct {
	ServerURL string
	Codec     codec.Codec

	// 首次重连等待时间，为 0 时使用默认值
	ReconnectDelay time.Duration

	// 回调，在读协程中执行
	OnMessage      func(*protocol.Message)
	OnError        func(error)
	OnClose        func()
	OnReconnect    func()
	OnReconnecting func(attempt, max int) // 开始第 attempt 次重连

	receive chan *protocol.Message
	done    chan struct{}

	mu           sync.RWMutex
	link         *link
	connectionID string
	identity     Identity
	closed       bool

	latency      atomic.Int64
	reconnecting atomic.Bool
}

// NewClient 创建客户端，c 为 nil 时使用 JSON 编码
func NewClient(serverURL string, c codec.Codec) *Client {
	if c == nil {
		c = codec.JSON
	}
	return &Client{
		ServerURL: serverURL,
		Codec:     c,
		receive:   make(chan *protocol.Message, bufferSize),
		done:      make(chan struct{}),
	}
}

// Connect 连接服务器
func (c *Client) Connect() error {
	l, err := c.dial()
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		l.close()
		return ErrClosed
	}
	c.link = l
	c.mu.Unlock()

	go c.readPump(l)
	go c.writePump(l)
	return nil
}

// dial 按编码协商参数建立连接
func (c *Client) dial() (*link, error) {
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("codec", c.Codec.Name())
	u.RawQuery = q.Encode()

	dialer := websocket.Dialer{
		HandshakeTimeout:  10 * time.Second,
		EnableCompression: false,
	}
	ws, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		return nil, err
	}
	return newLink(ws), nil
}

// SendMessage 发送消息
func (c *Client) SendMessage(msg *protocol.Message) error {
	data, err := c.Codec.Encode(msg)
	if err != nil {
		return err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed || c.link == nil {
		return ErrClosed
	}

	select {
	case c.link.send <- data:
		return nil
	case <-c.link.stop:
		return ErrClosed
	default:
		return ErrBufferFull
	}
}

// Receive 接收消息（阻塞）
func (c *Client) Receive() (*protocol.Message, error) {
	select {
	case msg := <-c.receive:
		return msg, nil
	case <-c.done:
		return nil, ErrClosed
	}
}

// ReceiveWithTimeout 带超时接收消息
func (c *Client) ReceiveWithTimeout(timeout time.Duration) (*protocol.Message, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case msg := <-c.receive:
		return msg, nil
	case <-timer.C:
		return nil, ErrTimeout
	case <-c.done:
		return nil, ErrClosed
	}
}

// WaitFor 丢弃其他消息，直到收到指定类型
func (c *Client) WaitFor(msgType protocol.MessageType, timeout time.Duration) (*protocol.Message, error) {
	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, ErrTimeout
		}
		msg, err := c.ReceiveWithTimeout(remaining)
		if err != nil {
			return nil, err
		}
		if msg.Type == msgType {
			return msg, nil
		}
	}
}

// Close 关闭客户端，不再重连
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.done)
	if c.link != nil {
		c.link.close()
	}
	c.mu.Unlock()

	if c.OnClose != nil {
		c.OnClose()
	}
}

// IsConnected 是否已连接
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.closed && c.link != nil
}

// IsReconnecting 是否正在重连
func (c *Client) IsReconnecting() bool {
	return c.reconnecting.Load()
}

// ConnectionID 服务端分配的连接 ID，每次重连都会变化
func (c *Client) ConnectionID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connectionID
}

// Identity 当前房间身份
func (c *Client) Identity() Identity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.identity
}

// Latency 最近一次心跳的往返延迟（毫秒）
func (c *Client) Latency() int64 {
	return c.latency.Load()
}

// StartHeartbeat 启动心跳
func (c *Client) StartHeartbeat() {
	go func() {
		ticker := time.NewTicker(heartbeatInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if c.IsConnected() {
					_ = c.Ping()
				}
			case <-c.done:
				return
			}
		}
	}()
}
