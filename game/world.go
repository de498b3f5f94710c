package game

import (
	"slices"

	"platformer/protocol"
)

// Player 单个客户端的服务端权威状态
type Player struct {
	ID   string
	Name string
	Rect
	VX, VY      float64
	OnGround    bool
	FacingRight bool
	Score       int
	Lives       int
}

// World 共享的模拟状态，非并发安全，由所属房间串行调用
type World struct {
	Players     map[string]*Player
	Objects     []Object
	LevelWidth  float64
	LevelHeight float64
	Tuning      Tuning

	// Tick 已完成的 Step 次数
	Tick uint64
}

// NewWorld 按 lvl 中的物体构建世界
func NewWorld(lvl Level) *World {
	w := &World{
		Players:     make(map[string]*Player),
		Objects:     make([]Object, 0, len(lvl.Platforms)+len(lvl.Enemies)+len(lvl.Coins)),
		LevelWidth:  lvl.Width,
		LevelHeight: lvl.Height,
		Tuning:      lvl.Physics,
	}
	for _, d := range lvl.Platforms {
		w.Objects = append(w.Objects, &Platform{Rect: d.rect(), Color: d.Color})
	}
	for _, d := range lvl.Enemies {
		dir := d.Direction
		if dir >= 0 {
			dir = 1
		} else {
			dir = -1
		}
		w.Objects = append(w.Objects, &Enemy{Rect: d.rect(), Color: d.Color, Direction: dir, VY: 0})
	}
	for _, d := range lvl.Coins {
		w.Objects = append(w.Objects, &Coin{Rect: d.rect(), Color: d.Color})
	}
	return w
}

// Player 按 id 查找玩家
func (w *World) Player(id string) (*Player, bool) {
	p, ok := w.Players[id]
	return p, ok
}

// NumPlayers 当前玩家数
func (w *World) NumPlayers() int {
	return len(w.Players)
}

// Gravity 每 Tick 的竖直加速度
func (w *World) Gravity() float64 {
	return w.Tuning.Gravity
}

// Platforms 按关卡顺序返回平台
func (w *World) Platforms() []*Platform {
	return objectsOf[*Platform](w.Objects)
}

// Enemies 按关卡顺序返回存活敌人
func (w *World) Enemies() []*Enemy {
	return objectsOf[*Enemy](w.Objects)
}

// Coins 按关卡顺序返回未拾取金币
func (w *World) Coins() []*Coin {
	return objectsOf[*Coin](w.Objects)
}

func objectsOf[T Object](objs []Object) []T {
	var out []T
	for _, obj := range objs {
		if o, ok := obj.(T); ok && !isConsumed(obj) {
			out = append(out, o)
		}
	}
	return out
}

// playerIDs 返回排序后的玩家 id，争抢拾取时结果稳定
func (w *World) playerIDs() []string {
	ids := make([]string, 0, len(w.Players))
	for id := range w.Players {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Snapshot 将当前状态复制为协议结构，与世界不共享内存
func (w *World) Snapshot() protocol.Snapshot {
	snap := protocol.Snapshot{
		Players:     make([]protocol.PlayerState, 0, len(w.Players)),
		Objects:     make([]protocol.ObjectState, 0, len(w.Objects)),
		LevelWidth:  w.LevelWidth,
		LevelHeight: w.LevelHeight,
	}
	for _, id := range w.playerIDs() {
		p := w.Players[id]
		snap.Players = append(snap.Players, protocol.PlayerState{
			ID:          p.ID,
			Name:        p.Name,
			X:           p.X,
			Y:           p.Y,
			Width:       p.Width,
			Height:      p.Height,
			VelocityX:   p.VX,
			VelocityY:   p.VY,
			OnGround:    p.OnGround,
			FacingRight: p.FacingRight,
			Score:       p.Score,
			Lives:       p.Lives,
		})
	}
	for _, obj := range w.Objects {
		if isConsumed(obj) {
			continue
		}
		b := obj.Bounds()
		st := protocol.ObjectState{
			Type:   string(obj.Kind()),
			X:      b.X,
			Y:      b.Y,
			Width:  b.Width,
			Height: b.Height,
		}
		switch o := obj.(type) {
		case *Platform:
			st.Color = o.Color
		case *Enemy:
			st.Color = o.Color
			st.Direction = o.Direction
		case *Coin:
			st.Color = o.Color
		}
		snap.Objects = append(snap.Objects, st)
	}
	return snap
}
