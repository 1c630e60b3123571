package handler

import (
	"log"

	"github.com/palemoky/kazhutha/internal/protocol"
	"github.com/palemoky/kazhutha/internal/protocol/codec"
	"github.com/palemoky/kazhutha/internal/server/core"
	"github.com/palemoky/kazhutha/internal/types"
)

// HandlerDeps 处理器依赖
type HandlerDeps struct {
	Server  types.ServerInterface
	Service *core.Service
}

// Handler 消息处理器
type Handler struct {
	server   types.ServerInterface
	service  *core.Service
	handlers map[protocol.MessageType]handlerFunc
}

// handlerFunc 统一的处理器函数签名
type handlerFunc func(client types.ClientInterface, msg *protocol.Message)

// NewHandler 创建处理器
func NewHandler(deps HandlerDeps) *Handler {
	h := &Handler{
		server:  deps.Server,
		service: deps.Service,
	}
	h.initHandlers()
	return h
}

// initHandlers 初始化消息处理器映射
func (h *Handler) initHandlers() {
	h.handlers = map[protocol.MessageType]handlerFunc{
		// 连接操作
		protocol.MsgPing:            h.handlePing,
		protocol.MsgReconnectPlayer: h.handleReconnect,

		// 房间操作
		protocol.MsgCreateRoom:   h.handleCreateRoom,
		protocol.MsgJoinRoom:     h.handleJoinRoom,
		protocol.MsgStartGame:    h.handleStartGame,
		protocol.MsgGetRoomState: h.handleGetRoomState,
		protocol.MsgHostEndGame:  h.handleHostEndGame,

		// 游戏操作
		protocol.MsgPlayCard: h.handlePlayCard,

		// 信息查询
		protocol.MsgGetStats: h.handleGetStats,
	}
}

// Handle 处理消息
func (h *Handler) Handle(client types.ClientInterface, msg *protocol.Message) {
	if handler, ok := h.handlers[msg.Type]; ok {
		handler(client, msg)
		return
	}

	log.Printf("⚠️  未知消息类型: '%s' (连接: %s)", msg.Type, client.GetID())
	log.Printf("    消息详情: Payload长度=%d bytes", len(msg.Payload))
	client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
}

// HandleDisconnect 连接关闭
func (h *Handler) HandleDisconnect(client types.ClientInterface) {
	h.service.Disconnect(client)
}

// reply 把业务错误发回发起请求的连接
func reply(client types.ClientInterface, msgType protocol.MessageType, err error) {
	if err == nil {
		return
	}
	client.SendMessage(codec.NewGameErrorMessage(msgType, err))
}
