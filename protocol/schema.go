package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Schemas 描述 WebSocket 协议的上下行消息
type Schemas struct {
	Snapshot *jsonschema.Schema `json:"snapshot"`
	Input    *jsonschema.Schema `json:"input"`
}

// BuildSchemas 反射生成快照与输入消息的 JSON Schema
func BuildSchemas() Schemas {
	reflector := jsonschema.Reflector{
		DoNotReference: true,
	}

	snapshot := reflector.Reflect(new(Snapshot))
	snapshot.Title = "Platformer world snapshot"
	snapshot.Description = "Authoritative world state broadcast to every session once per tick."

	input := reflector.Reflect(new(InputMessage))
	input.Title = "Platformer input"
	input.Description = "Discrete action sent by a client. Unknown actions are ignored."

	return Schemas{Snapshot: snapshot, Input: input}
}

// MarshalSchemas 将 BuildSchemas 输出为缩进 JSON
func MarshalSchemas() ([]byte, error) {
	data, err := json.MarshalIndent(BuildSchemas(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return append(data, '\n'), nil
}
