package server

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"platformer/config"
	"platformer/game"
	"platformer/protocol"
)

// RoomConfig 房间参数，零值字段使用默认值
type RoomConfig struct {
	TickRate    int
	InputBuffer int
	Logger      *zap.SugaredLogger
}

// Room 房间世界：权威状态维护在内存，单协程 Tick 推进
// 网络协程通过 inbox 投递加入、离开与输入，其他读取经由 queries
type Room struct {
	ID string

	world    *game.World
	sessions *Registry
	metrics  *RoomMetrics
	log      *zap.SugaredLogger

	inbox   chan any
	queries chan query

	tickRate int
	tickSeq  atomic.Uint64
	running  atomic.Bool
}

// NewRoom 创建房间，绑定世界与会话表
func NewRoom(id string, world *game.World, sessions *Registry, cfg RoomConfig) *Room {
	if cfg.TickRate <= 0 {
		cfg.TickRate = TicksPerSecond
	}
	if cfg.TickRate > config.MaxTickRate {
		cfg.TickRate = config.MaxTickRate
	}
	if cfg.InputBuffer <= 0 {
		cfg.InputBuffer = 1024
	}
	if cfg.Logger == nil {
		cfg.Logger = Log
	}
	return &Room{
		ID:       id,
		world:    world,
		sessions: sessions,
		metrics:  &RoomMetrics{},
		log:      cfg.Logger,
		inbox:    make(chan any, cfg.InputBuffer),
		queries:  make(chan query),
		tickRate: cfg.TickRate,
	}
}

func (r *Room) Metrics() *RoomMetrics { return r.metrics }
func (r *Room) Sessions() *Registry   { return r.sessions }
func (r *Room) TickRate() int         { return r.tickRate }

// TickSeq 已开始的 Tick 数
func (r *Room) TickSeq() uint64 { return r.tickSeq.Load() }

// RequestJoin 投递加入请求，队列满时阻塞直到有空位或 ctx 结束
func (r *Room) RequestJoin(ctx context.Context, playerID, name string) error {
	select {
	case r.inbox <- joinRequest{PlayerID: playerID, Name: name}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RequestLeave 投递离开请求，s 为已断开的会话，nil 表示无条件移除
func (r *Room) RequestLeave(ctx context.Context, playerID string, s Session) error {
	select {
	case r.inbox <- leaveRequest{PlayerID: playerID, Session: s}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// OnInput 入站输入（不立即生效），记录意图，等下一次 Tick 处理
// 不阻塞：队列满时丢弃，保证 Tick 准时
func (r *Room) OnInput(playerID string, a game.Action) {
	if a == game.ActionNone {
		r.metrics.IncUnknownAction()
		return
	}
	select {
	case r.inbox <- Input{PlayerID: playerID, Action: a}:
		r.metrics.IncAccepted()
	default:
		r.metrics.IncDiscarded()
	}
}

// ProcessInputs 按到达顺序处理本帧之前入队的所有命令
func (r *Room) ProcessInputs() {
	for n := len(r.inbox); n > 0; n-- {
		r.handleCommand(<-r.inbox)
	}
}

func (r *Room) handleCommand(cmd any) {
	switch c := cmd.(type) {
	case Input:
		r.world.ApplyAction(c.PlayerID, c.Action)
	case joinRequest:
		r.world.AddPlayer(c.PlayerID, c.Name)
		r.metrics.IncJoins()
		r.log.Infow("player joined", "room", r.ID, "player", c.PlayerID, "players", r.world.NumPlayers())
	case leaveRequest:
		if !r.sessions.Remove(c.PlayerID, c.Session) && c.Session != nil {
			r.log.Debugw("stale leave ignored", "room", r.ID, "player", c.PlayerID)
			return
		}
		if c.Session != nil {
			_ = c.Session.Close()
		}
		r.world.RemovePlayer(c.PlayerID)
		r.metrics.IncLeaves()
		r.log.Infow("player left", "room", r.ID, "player", c.PlayerID, "players", r.world.NumPlayers())
	default:
		r.log.Warnw("unknown room command", "room", r.ID, "type", fmt.Sprintf("%T", cmd))
	}
}

// Do 在房间协程中执行 fn 并返回结果，房间需处于运行状态
// ctx 先结束时结果被丢弃，fn 与调用方不共享内存
func (r *Room) Do(ctx context.Context, fn func(w *game.World) any) (any, error) {
	q := query{fn: fn, reply: make(chan queryResult, 1)}
	select {
	case r.queries <- q:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case res := <-q.reply:
		return res.value, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (r *Room) handleQuery(q query) {
	var res queryResult
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Errorw("room query failed", "room", r.ID, "panic", rec, zap.Stack("stack"))
			res = queryResult{err: fmt.Errorf("%w: %v", ErrQueryFailed, rec)}
		}
		q.reply <- res
	}()
	res.value = q.fn(r.world)
}

// ask 带类型结果的 Do
func ask[T any](ctx context.Context, r *Room, fn func(w *game.World) T) (T, error) {
	v, err := r.Do(ctx, func(w *game.World) any { return fn(w) })
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Snapshot 返回当前世界状态
func (r *Room) Snapshot(ctx context.Context) (protocol.Snapshot, error) {
	return ask(ctx, r, func(w *game.World) protocol.Snapshot {
		return w.Snapshot()
	})
}

// Tuning 返回当前物理参数
func (r *Room) Tuning(ctx context.Context) (game.Tuning, error) {
	return ask(ctx, r, func(w *game.World) game.Tuning {
		return w.Tuning
	})
}

// UpdateTuning 在两次 Tick 之间应用 patch 并返回结果
func (r *Room) UpdateTuning(ctx context.Context, patch game.TuningPatch) (game.Tuning, error) {
	return ask(ctx, r, func(w *game.World) game.Tuning {
		w.Tuning.Apply(patch)
		return w.Tuning
	})
}

// Broadcast 向所有会话广播当前快照，每种编码每 Tick 只编码一次
// 单个会话失败不影响其他会话
func (r *Room) Broadcast() {
	recipients := r.sessions.list()
	if len(recipients) == 0 {
		return
	}

	snap := r.world.Snapshot()
	frames := make(map[string][]byte, 2)
	var errs error
	for _, rc := range recipients {
		codec := rc.session.Codec()
		frame, ok := frames[codec.Name()]
		if !ok {
			b, err := codec.Encode(snap)
			if err != nil {
				r.metrics.IncEncodeFailures()
				errs = multierr.Append(errs, fmt.Errorf("encode %s snapshot: %w", codec.Name(), err))
			}
			frame = b
			frames[codec.Name()] = frame
		}
		if frame == nil {
			continue
		}
		if err := deliver(rc.session, frame); err != nil {
			r.metrics.IncSendFailures()
			errs = multierr.Append(errs, fmt.Errorf("send to %s: %w", rc.id, err))
			continue
		}
		r.metrics.AddBytesTx(len(frame))
	}
	r.metrics.IncBroadcasts()

	if errs != nil {
		r.log.Debugw("broadcast incomplete", "room", r.ID, "tick", r.TickSeq(),
			"failures", len(multierr.Errors(errs)), "error", errs)
	}
}

// deliver 隔离异常会话，避免影响 Tick
func deliver(s Session, frame []byte) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("session panicked: %v", rec)
		}
	}()
	return s.Send(frame)
}
