package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec 单个会话的编解码：编码下行帧，解码上行帧
type Codec interface {
	Name() string
	// Binary 是否以 WebSocket 二进制消息发送
	Binary() bool
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error
}

var (
	JSON    Codec = jsonCodec{}
	MsgPack Codec = msgpackCodec{}
)

// ErrUnknownCodec 由 CodecByName 返回
var ErrUnknownCodec = errors.New("unknown codec")

// CodecByName 按查询参数名解析编解码器，空名称选择 JSON
func CodecByName(name string) (Codec, error) {
	switch strings.ToLower(name) {
	case "", "json":
		return JSON, nil
	case "msgpack", "mp":
		return MsgPack, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownCodec, name)
	}
}

type jsonCodec struct{}

func (jsonCodec) Name() string                    { return "json" }
func (jsonCodec) Binary() bool                    { return false }
func (jsonCodec) Encode(v any) ([]byte, error)    { return json.Marshal(v) }
func (jsonCodec) Decode(data []byte, v any) error { return json.Unmarshal(data, v) }

type msgpackCodec struct{}

func (msgpackCodec) Name() string                    { return "msgpack" }
func (msgpackCodec) Binary() bool                    { return true }
func (msgpackCodec) Encode(v any) ([]byte, error)    { return msgpack.Marshal(v) }
func (msgpackCodec) Decode(data []byte, v any) error { return msgpack.Unmarshal(data, v) }

// DecodeInput 解析客户端上行的动作消息
func DecodeInput(c Codec, data []byte) (InputMessage, error) {
	var msg InputMessage
	if len(data) == 0 {
		return msg, errors.New("empty input message")
	}
	if err := c.Decode(data, &msg); err != nil {
		return msg, fmt.Errorf("decode %s input: %w", c.Name(), err)
	}
	return msg, nil
}
