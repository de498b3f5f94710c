package game

// Step 推进一个 Tick：先按 id 顺序处理所有玩家，再处理所有敌人
// 玩家阶段被消耗的物体在敌人移动前压缩移除，之后不再参与碰撞
func (w *World) Step() {
	w.Tick++
	for _, id := range w.playerIDs() {
		w.stepPlayer(w.Players[id])
	}
	w.compact()
	for _, obj := range w.Objects {
		if e, ok := obj.(*Enemy); ok {
			w.stepEnemy(e)
		}
	}
}

// stepPlayer 积分并处理单个玩家的碰撞，每一步都基于上一步的位置
func (w *World) stepPlayer(p *Player) {
	t := w.Tuning

	p.VY += t.Gravity
	p.X += p.VX
	p.Y += p.VY

	p.OnGround = w.resolvePlatforms(&p.Rect, &p.VY)

	for _, obj := range w.Objects {
		e, ok := obj.(*Enemy)
		if !ok || e.consumed || !Overlaps(p.Rect, e.Rect) {
			continue
		}
		if p.VY > 0 && p.Y < e.Y {
			e.consumed = true
			p.Score += t.StompReward
			p.VY = t.StompBounce
			continue
		}
		w.damage(p)
	}

	for _, obj := range w.Objects {
		c, ok := obj.(*Coin)
		if !ok || c.consumed || !Overlaps(p.Rect, c.Rect) {
			continue
		}
		c.consumed = true
		p.Score += t.CoinReward
	}

	if p.X < 0 {
		p.X = 0
	}
	if maxX := w.LevelWidth - p.Width; p.X > maxX {
		p.X = maxX
	}

	if p.Y > w.LevelHeight {
		w.damage(p)
	}
}

// stepEnemy 敌人巡逻移动，并下落到平台上
func (w *World) stepEnemy(e *Enemy) {
	t := w.Tuning

	e.VY += t.Gravity

	e.X += float64(e.Direction) * t.EnemySpeed
	if e.X <= 0 || e.X >= w.LevelWidth-e.Width {
		e.Direction = -e.Direction
	}

	e.Y += e.VY
	e.OnGround = w.resolvePlatforms(&e.Rect, &e.VY)

	if e.Y > w.LevelHeight {
		e.Y = t.EnemyRespawnY
		e.VY = 0
	}
}

// resolvePlatforms 仅在竖直方向把 box 推出重叠的平台，返回是否落地
// 没有水平方向的响应：可以穿过平台侧面
func (w *World) resolvePlatforms(box *Rect, vy *float64) bool {
	landed := false
	for _, obj := range w.Objects {
		plat, ok := obj.(*Platform)
		if !ok || !Overlaps(*box, plat.Rect) {
			continue
		}
		switch {
		case *vy > 0 && box.Y < plat.Y:
			box.Y = plat.Y - box.Height
			*vy = 0
			landed = true
		case *vy < 0 && box.Y > plat.Y:
			box.Y = plat.Bottom()
			*vy = 0
		}
	}
	return landed
}

// compact 移除已消耗的敌人与金币，保持其余物体顺序
func (w *World) compact() {
	live := w.Objects[:0]
	for _, obj := range w.Objects {
		if !isConsumed(obj) {
			live = append(live, obj)
		}
	}
	clear(w.Objects[len(live):])
	w.Objects = live
}
