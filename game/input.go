package game

// Action 客户端离散输入
type Action uint8

const (
	ActionNone Action = iota
	ActionLeft
	ActionRight
	ActionJump
	ActionStopLeft
	ActionStopRight
)

var actionNames = [...]string{
	ActionNone:      "none",
	ActionLeft:      "left",
	ActionRight:     "right",
	ActionJump:      "jump",
	ActionStopLeft:  "stop_left",
	ActionStopRight: "stop_right",
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "none"
}

// ParseAction 将协议中的动作字符串映射为 Action
// 精确匹配（区分大小写），其余一律为 ActionNone
func ParseAction(token string) Action {
	switch token {
	case "left":
		return ActionLeft
	case "right":
		return ActionRight
	case "jump":
		return ActionJump
	case "stop_left":
		return ActionStopLeft
	case "stop_right":
		return ActionStopRight
	default:
		return ActionNone
	}
}

// ApplyAction 仅修改玩家速度与朝向，未知玩家和 ActionNone 忽略
// 分数与生命不在此处修改
func (w *World) ApplyAction(id string, a Action) {
	p, ok := w.Players[id]
	if !ok {
		return
	}
	switch a {
	case ActionLeft:
		p.VX = -w.Tuning.MoveSpeed
		p.FacingRight = false
	case ActionRight:
		p.VX = w.Tuning.MoveSpeed
		p.FacingRight = true
	case ActionJump:
		if p.OnGround {
			p.VY = w.Tuning.JumpImpulse
		}
	case ActionStopLeft, ActionStopRight:
		p.VX = 0
	}
}
