package codec

import (
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/palemoky/kazhutha/internal/protocol"
)

// Codec 连接级别的帧编解码器
type Codec interface {
	Name() string
	Binary() bool // 是否使用 websocket 二进制帧
	Encode(msg *protocol.Message) ([]byte, error)
	Decode(data []byte) (*protocol.Message, error)
}

const (
	NameJSON     = "json"
	NameProtobuf = "protobuf"
)

// protobuf 信封字段号
const (
	fieldType    protowire.Number = 1
	fieldPayload protowire.Number = 2
)

var (
	JSON     Codec = jsonCodec{}
	Protobuf Codec = protoCodec{}
)

// ByName 根据名称返回编解码器，未知名称回退到 JSON
func ByName(name string) Codec {
	if name == NameProtobuf {
		return Protobuf
	}
	return JSON
}

type jsonCodec struct{}

func (jsonCodec) Name() string { return NameJSON }
func (jsonCodec) Binary() bool { return false }

// Encode 将消息编码为 JSON 字节
func (jsonCodec) Encode(m *protocol.Message) ([]byte, error) {
	buf := GetBuffer()
	defer PutBuffer(buf)

	if err := json.NewEncoder(buf).Encode(m); err != nil {
		return nil, err
	}
	// Encoder 会追加换行
	out := make([]byte, buf.Len()-1)
	copy(out, buf.Bytes())
	return out, nil
}

// Decode 从 JSON 字节解码消息
// 注意: 使用完毕后应调用 PutMessage 归还对象到池
func (jsonCodec) Decode(data []byte) (*protocol.Message, error) {
	msg := GetMessage()
	if err := json.Unmarshal(data, msg); err != nil {
		PutMessage(msg)
		return nil, err
	}
	return msg, nil
}

// protoCodec 使用 protobuf 线格式的信封：
//
//	message Frame { string type = 1; bytes payload = 2; }
//
// payload 仍是 JSON，信封本身是二进制
type protoCodec struct{}

func (protoCodec) Name() string { return NameProtobuf }
func (protoCodec) Binary() bool { return true }

// Encode 将消息编码为 protobuf 信封
func (protoCodec) Encode(m *protocol.Message) ([]byte, error) {
	b := make([]byte, 0, len(m.Type)+len(m.Payload)+8)
	b = protowire.AppendTag(b, fieldType, protowire.BytesType)
	b = protowire.AppendString(b, string(m.Type))
	if len(m.Payload) > 0 {
		b = protowire.AppendTag(b, fieldPayload, protowire.BytesType)
		b = protowire.AppendBytes(b, m.Payload)
	}
	return b, nil
}

// Decode 从 protobuf 信封解码消息，未知字段被跳过
// 注意: 使用完毕后应调用 PutMessage 归还对象到池
func (protoCodec) Decode(data []byte) (*protocol.Message, error) {
	msg := GetMessage()
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			PutMessage(msg)
			return nil, fmt.Errorf("decode frame tag: %w", protowire.ParseError(n))
		}
		data = data[n:]

		switch {
		case num == fieldType && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(data)
			if m < 0 {
				PutMessage(msg)
				return nil, fmt.Errorf("decode frame type: %w", protowire.ParseError(m))
			}
			msg.Type = protocol.MessageType(v)
			n = m
		case num == fieldPayload && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(data)
			if m < 0 {
				PutMessage(msg)
				return nil, fmt.Errorf("decode frame payload: %w", protowire.ParseError(m))
			}
			msg.Payload = append([]byte(nil), v...) // 复制 payload 避免引用
			n = m
		default:
			n = protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				PutMessage(msg)
				return nil, fmt.Errorf("skip frame field %d: %w", num, protowire.ParseError(n))
			}
		}
		data = data[n:]
	}

	if msg.Type == "" {
		PutMessage(msg)
		return nil, errors.New("frame without message type")
	}
	return msg, nil
}
