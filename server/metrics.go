package server

import (
	"sync/atomic"
)

// RoomMetrics 记录房间运行期的关键指标（并发安全）
type RoomMetrics struct {
	TickCount        int64 // 统计的 Tick 次数
	TotalTickNs      int64 // Tick 累计耗时（纳秒）
	TickPanics       int64 // 因 panic 中断的 Tick 数
	Joins            int64
	Leaves           int64
	InputsAccepted   int64 // 被接受的输入数
	InputsDiscarded  int64 // 因通道满被丢弃的输入数
	UnknownActions   int64 // 无法识别的动作数
	MalformedInputs  int64 // 解码失败的帧数
	Broadcasts       int64 // 广播次数
	SendFailures     int64 // 单个会话发送失败数
	EncodeFailures   int64
	BroadcastBytesTx int64 // 下发的编码字节数
}

func (m *RoomMetrics) IncTickPanics()     { atomic.AddInt64(&m.TickPanics, 1) }
func (m *RoomMetrics) IncJoins()          { atomic.AddInt64(&m.Joins, 1) }
func (m *RoomMetrics) IncLeaves()         { atomic.AddInt64(&m.Leaves, 1) }
func (m *RoomMetrics) IncAccepted()       { atomic.AddInt64(&m.InputsAccepted, 1) }
func (m *RoomMetrics) IncDiscarded()      { atomic.AddInt64(&m.InputsDiscarded, 1) }
func (m *RoomMetrics) IncUnknownAction()  { atomic.AddInt64(&m.UnknownActions, 1) }
func (m *RoomMetrics) IncMalformed()      { atomic.AddInt64(&m.MalformedInputs, 1) }
func (m *RoomMetrics) IncBroadcasts()     { atomic.AddInt64(&m.Broadcasts, 1) }
func (m *RoomMetrics) IncSendFailures()   { atomic.AddInt64(&m.SendFailures, 1) }
func (m *RoomMetrics) IncEncodeFailures() { atomic.AddInt64(&m.EncodeFailures, 1) }
func (m *RoomMetrics) AddBytesTx(n int)   { atomic.AddInt64(&m.BroadcastBytesTx, int64(n)) }
func (m *RoomMetrics) AddTick(ns int64) {
	atomic.AddInt64(&m.TickCount, 1)
	atomic.AddInt64(&m.TotalTickNs, ns)
}

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *RoomMetrics) Snapshot() map[string]any {
	tick := atomic.LoadInt64(&m.TickCount)
	total := atomic.LoadInt64(&m.TotalTickNs)
	var avgMs float64
	if tick > 0 {
		avgMs = float64(total) / float64(tick) / 1e6
	}
	return map[string]any{
		"tick_count":       tick,
		"tick_panics":      atomic.LoadInt64(&m.TickPanics),
		"joins":            atomic.LoadInt64(&m.Joins),
		"leaves":           atomic.LoadInt64(&m.Leaves),
		"inputs_accepted":  atomic.LoadInt64(&m.InputsAccepted),
		"inputs_discarded": atomic.LoadInt64(&m.InputsDiscarded),
		"unknown_actions":  atomic.LoadInt64(&m.UnknownActions),
		"malformed_inputs": atomic.LoadInt64(&m.MalformedInputs),
		"broadcasts":       atomic.LoadInt64(&m.Broadcasts),
		"send_failures":    atomic.LoadInt64(&m.SendFailures),
		"encode_failures":  atomic.LoadInt64(&m.EncodeFailures),
		"bytes_tx":         atomic.LoadInt64(&m.BroadcastBytesTx),
		"avg_tick_ms":      avgMs,
	}
}
