package game

const defaultPlayerName = "Player"

// AddPlayer 在出生点放置新玩家
// 已存在的 id 会被整体重置（分数与生命一并清零重来）
func (w *World) AddPlayer(id, name string) *Player {
	if name == "" {
		name = defaultPlayerName
	}
	t := w.Tuning
	p := &Player{
		ID:          id,
		Name:        name,
		Rect:        Rect{X: t.SpawnX, Y: t.SpawnY, Width: t.PlayerWidth, Height: t.PlayerHeight},
		FacingRight: true,
		Lives:       t.StartingLives,
	}
	w.Players[id] = p
	return p
}

// RemovePlayer 移除玩家，不存在时无操作
func (w *World) RemovePlayer(id string) {
	delete(w.Players, id)
}

// respawn 回到出生点并清空速度与着地状态，保留分数、生命与朝向
func (w *World) respawn(p *Player) {
	p.X = w.Tuning.SpawnX
	p.Y = w.Tuning.SpawnY
	p.VX = 0
	p.VY = 0
	p.OnGround = false
}

// damage 扣一条命（不低于 0）并重生
func (w *World) damage(p *Player) {
	if p.Lives > 0 {
		p.Lives--
	}
	w.respawn(p)
}
