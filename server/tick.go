package server

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"platformer/game"
)

// TicksPerSecond 默认模拟频率
const TicksPerSecond = game.TicksPerSecond

var (
	// ErrRoomRunning 循环已在运行时由 Run 返回
	ErrRoomRunning = errors.New("room loop already running")
	// ErrQueryFailed 包装 Do 回调中的 panic
	ErrQueryFailed = errors.New("room query failed")
)

func (r *Room) interval() time.Duration {
	return time.Second / time.Duration(r.tickRate)
}

// Run 按 tick rate 推进房间直到 ctx 取消，两次 Tick 之间处理查询
// ctx 取消时当前 Tick 会执行完毕
func (r *Room) Run(ctx context.Context) error {
	if !r.running.CompareAndSwap(false, true) {
		return ErrRoomRunning
	}
	defer r.running.Store(false)

	ticker := time.NewTicker(r.interval())
	defer ticker.Stop()

	r.log.Infow("game loop started", "room", r.ID, "tick_rate", r.tickRate)
	for {
		select {
		case <-ctx.Done():
			r.log.Infow("game loop stopped", "room", r.ID, "ticks", r.TickSeq())
			return nil
		case q := <-r.queries:
			r.handleQuery(q)
		case <-ticker.C:
			r.Tick()
		}
	}
}

// StartTicker 在独立协程中运行循环，循环结束后关闭返回的通道
func (r *Room) StartTicker(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := r.Run(ctx); err != nil {
			r.log.Warnw("game loop not started", "room", r.ID, "error", err)
		}
	}()
	return done
}

// Tick 执行一帧：处理命令、物理步进、广播
// panic 会被记录并放弃本帧，下一帧照常执行
func (r *Room) Tick() {
	start := time.Now()
	seq := r.tickSeq.Add(1)
	defer func() {
		if rec := recover(); rec != nil {
			r.metrics.IncTickPanics()
			r.log.Errorw("game loop error", "room", r.ID, "tick", seq, "panic", rec, zap.Stack("stack"))
		}
		r.metrics.AddTick(time.Since(start).Nanoseconds())
	}()

	r.ProcessInputs()
	r.world.Step()
	r.Broadcast()

	if seq%uint64(r.tickRate) == 0 {
		r.log.Debugw("game loop running", "room", r.ID, "frame", seq,
			"players", r.world.NumPlayers(), "enemies", len(r.world.Enemies()))
	}
}
