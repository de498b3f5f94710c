// Package protocol 定义与游戏客户端交换的消息
package protocol

// Snapshot 完整世界状态，每个 Tick 向所有会话广播一次
type Snapshot struct {
	Players     []PlayerState `json:"players" msgpack:"players"`
	Objects     []ObjectState `json:"objects" msgpack:"objects"`
	LevelWidth  float64       `json:"level_width" msgpack:"level_width"`
	LevelHeight float64       `json:"level_height" msgpack:"level_height"`
}

type PlayerState struct {
	ID          string  `json:"id" msgpack:"id"`
	Name        string  `json:"name" msgpack:"name"`
	X           float64 `json:"x" msgpack:"x"`
	Y           float64 `json:"y" msgpack:"y"`
	Width       float64 `json:"width" msgpack:"width"`
	Height      float64 `json:"height" msgpack:"height"`
	VelocityX   float64 `json:"velocity_x" msgpack:"velocity_x"`
	VelocityY   float64 `json:"velocity_y" msgpack:"velocity_y"`
	OnGround    bool    `json:"on_ground" msgpack:"on_ground"`
	FacingRight bool    `json:"facing_right" msgpack:"facing_right"`
	Score       int     `json:"score" msgpack:"score"`
	Lives       int     `json:"lives" msgpack:"lives"`
}

type ObjectState struct {
	Type      string  `json:"type" msgpack:"type" jsonschema:"enum=platform,enum=enemy,enum=coin"`
	X         float64 `json:"x" msgpack:"x"`
	Y         float64 `json:"y" msgpack:"y"`
	Width     float64 `json:"width" msgpack:"width"`
	Height    float64 `json:"height" msgpack:"height"`
	Color     string  `json:"color" msgpack:"color"`
	Direction int     `json:"direction,omitempty" msgpack:"direction,omitempty"` // 仅敌人
}

// InputMessage 客户端唯一的上行消息
// 示例：{"action":"jump"}
type InputMessage struct {
	Action string `json:"action" msgpack:"action" jsonschema:"enum=left,enum=right,enum=jump,enum=stop_left,enum=stop_right"`
}
