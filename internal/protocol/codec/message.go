package codec

import (
	"encoding/json"
	"errors"

	"github.com/palemoky/kazhutha/internal/apperrors"
	"github.com/palemoky/kazhutha/internal/protocol"
)

// NewMessage 创建一个新消息，payload 使用 JSON 编码
func NewMessage(msgType protocol.MessageType, payload any) (*protocol.Message, error) {
	var data json.RawMessage
	if payload != nil {
		var err error
		data, err = json.Marshal(payload)
		if err != nil {
			return nil, err
		}
	}
	return &protocol.Message{
		Type:    msgType,
		Payload: data,
	}, nil
}

// MustNewMessage 创建消息，失败时 panic
func MustNewMessage(msgType protocol.MessageType, payload any) *protocol.Message {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		panic(err)
	}
	return msg
}

// ParsePayload 解析消息的 Payload 到指定类型
func ParsePayload[T any](msg *protocol.Message) (*T, error) {
	var payload T
	if len(msg.Payload) == 0 {
		return nil, errors.New("empty payload")
	}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ParseStringOr 解析 payload：兼容客户端直接发送字符串（如 create_room 只发名字）
// 的写法，字符串通过 fromString 转换为目标类型
func ParseStringOr[T any](msg *protocol.Message, fromString func(string) T) (*T, error) {
	var s string
	if err := json.Unmarshal(msg.Payload, &s); err == nil {
		v := fromString(s)
		return &v, nil
	}
	return ParsePayload[T](msg)
}

// NewErrorMessage 创建错误消息
func NewErrorMessage(code int) *protocol.Message {
	msg, _ := NewMessage(protocol.MsgError, protocol.ErrorPayload{
		Code:    code,
		Message: protocol.ErrorMessages[code],
	})
	return msg
}

// NewErrorMessageWithText 创建带自定义文本的错误消息
func NewErrorMessageWithText(code int, text string) *protocol.Message {
	msg, _ := NewMessage(protocol.MsgError, protocol.ErrorPayload{
		Code:    code,
		Message: text,
	})
	return msg
}

// NewGameErrorMessage 将业务错误转换为指定类型的错误消息
// 非 GameError 统一按未知错误处理
func NewGameErrorMessage(msgType protocol.MessageType, err error) *protocol.Message {
	payload := protocol.ErrorPayload{Code: protocol.ErrCodeUnknown, Message: err.Error()}

	var gameErr *apperrors.GameError
	if errors.As(err, &gameErr) {
		payload = protocol.ErrorPayload{
			Code:    gameErr.Code,
			Kind:    gameErr.Kind,
			Message: gameErr.Message,
		}
	}

	msg, _ := NewMessage(msgType, payload)
	return msg
}
