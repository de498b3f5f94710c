package server

import "platformer/game"

// Input 客户端输入（意图），在下一次 Tick 中生效
type Input struct {
	PlayerID string
	Action   game.Action
}

// joinRequest 在下一次 Tick 加入（或重置）玩家
type joinRequest struct {
	PlayerID string
	Name     string
}

// leaveRequest 在下一次 Tick 移除玩家
// Session 为已断开的连接；过期连接不会移除已重连的玩家
type leaveRequest struct {
	PlayerID string
	Session  Session
}

// query 在两次 Tick 之间于房间协程执行 fn
// reply 带缓冲，调用方放弃等待时房间不会阻塞
type query struct {
	fn    func(w *game.World) any
	reply chan queryResult
}

type queryResult struct {
	value any
	err   error
}
