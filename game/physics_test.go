package game

import (
	"encoding/json"
	"math/rand"
	"testing"
)

func TestPlayerLandsOnGround(t *testing.T) {
	w := NewWorld(groundOnly())
	w.AddPlayer("p1", "a")

	p := settle(t, w, "p1")
	if p.Y != 550-PlayerHeight {
		t.Fatalf("y = %v, want %v", p.Y, 550-PlayerHeight)
	}
	if p.VY != 0 {
		t.Fatalf("vy = %v, want 0", p.VY)
	}

	// 站在地面上时每个 Tick 都保持着地
	for i := 0; i < 10; i++ {
		w.Step()
		if !p.OnGround || p.Y != 502 {
			t.Fatalf("tick %d: lost ground contact: %+v", i, *p)
		}
	}
}

func TestJumpFromRest(t *testing.T) {
	w := NewWorld(groundOnly())
	w.AddPlayer("p1", "")
	p := settle(t, w, "p1")

	w.ApplyAction("p1", ActionJump)
	w.Step()

	if !approx(p.VY, JumpImpulse+Gravity) {
		t.Fatalf("vy = %v, want %v", p.VY, JumpImpulse+Gravity)
	}
	if p.OnGround {
		t.Fatalf("player still grounded after jump")
	}
}

func TestCoinCollected(t *testing.T) {
	lvl := groundOnly()
	lvl.Coins = []ObjectDef{{X: 250, Y: 400, Width: 20, Height: 20, Color: "#FFD700"}}
	w := NewWorld(lvl)
	p := w.AddPlayer("p1", "a")
	p.X, p.Y = 245, 390

	w.Step()

	if p.Score != CoinReward {
		t.Fatalf("score = %d, want %d", p.Score, CoinReward)
	}
	if n := len(w.Coins()); n != 0 {
		t.Fatalf("coins left = %d, want 0", n)
	}
	for _, o := range w.Snapshot().Objects {
		if o.Type == "coin" {
			t.Fatalf("collected coin still in snapshot")
		}
	}

	// 已无可拾取的金币
	p.X, p.Y, p.VY = 245, 390, 0
	w.Step()
	if p.Score != CoinReward {
		t.Fatalf("score changed after coin was gone: %d", p.Score)
	}
}

func TestStompDefeatsEnemy(t *testing.T) {
	lvl := groundOnly()
	lvl.Enemies = []ObjectDef{{X: 300, Y: 520, Width: 30, Height: 30, Color: "#FF0000", Direction: 1}}
	w := NewWorld(lvl)
	p := w.AddPlayer("p1", "a")
	p.X, p.Y, p.VY = 300, 470, 5

	w.Step()

	if p.Score != StompReward {
		t.Fatalf("score = %d, want %d", p.Score, StompReward)
	}
	if p.VY != StompBounce {
		t.Fatalf("vy = %v, want %v", p.VY, StompBounce)
	}
	if p.Lives != StartingLives {
		t.Fatalf("lives = %d, want %d", p.Lives, StartingLives)
	}
	if n := len(w.Enemies()); n != 0 {
		t.Fatalf("enemies left = %d, want 0", n)
	}
}

func TestSideContactCostsLife(t *testing.T) {
	lvl := groundOnly()
	lvl.Enemies = []ObjectDef{{X: 300, Y: 520, Width: 30, Height: 30, Color: "#FF0000", Direction: 1}}
	w := NewWorld(lvl)
	p := w.AddPlayer("p1", "a")
	p.X, p.Y, p.OnGround = 280, 502, true
	w.ApplyAction("p1", ActionRight)

	w.Step()

	if p.Lives != StartingLives-1 {
		t.Fatalf("lives = %d, want %d", p.Lives, StartingLives-1)
	}
	if p.X != SpawnX || p.Y != SpawnY || p.VX != 0 || p.VY != 0 {
		t.Fatalf("player not reset to spawn: %+v", *p)
	}
	if p.OnGround {
		t.Fatalf("respawned player should not be grounded")
	}
	if len(w.Enemies()) != 1 {
		t.Fatalf("enemy should survive side contact")
	}
}

func TestStompedEnemyDoesNotHurtLaterPlayer(t *testing.T) {
	lvl := groundOnly()
	lvl.Enemies = []ObjectDef{{X: 300, Y: 520, Width: 30, Height: 30, Color: "#FF0000", Direction: 1}}
	w := NewWorld(lvl)
	a := w.AddPlayer("a", "a")
	a.X, a.Y, a.VY = 300, 470, 5
	b := w.AddPlayer("b", "b")
	b.X, b.Y, b.OnGround = 305, 502, true

	w.Step()

	if a.Score != StompReward {
		t.Fatalf("a score = %d, want %d", a.Score, StompReward)
	}
	if b.Lives != StartingLives {
		t.Fatalf("b lost a life to a defeated enemy")
	}
}

func TestContestedCoinGoesToOnePlayer(t *testing.T) {
	lvl := groundOnly()
	lvl.Coins = []ObjectDef{{X: 250, Y: 400, Width: 20, Height: 20, Color: "#FFD700"}}
	w := NewWorld(lvl)
	for _, id := range []string{"b", "a"} {
		p := w.AddPlayer(id, id)
		p.X, p.Y = 245, 390
	}

	w.Step()

	if w.Players["a"].Score != CoinReward || w.Players["b"].Score != 0 {
		t.Fatalf("scores a=%d b=%d, want a=%d b=0",
			w.Players["a"].Score, w.Players["b"].Score, CoinReward)
	}
}

func TestFallingOutOfLevel(t *testing.T) {
	lvl := groundOnly()
	lvl.Platforms = nil
	w := NewWorld(lvl)
	p := w.AddPlayer("p1", "a")
	p.X, p.Y, p.VX = 700, 599, 5

	w.Step()

	if p.Lives != StartingLives-1 {
		t.Fatalf("lives = %d, want %d", p.Lives, StartingLives-1)
	}
	if p.X != SpawnX || p.Y != SpawnY || p.VX != 0 || p.VY != 0 {
		t.Fatalf("player not reset: %+v", *p)
	}
}

func TestLivesNeverNegative(t *testing.T) {
	lvl := groundOnly()
	lvl.Platforms = nil
	w := NewWorld(lvl)
	p := w.AddPlayer("p1", "a")
	for i := 0; i < 500; i++ {
		w.Step()
	}
	if p.Lives != 0 {
		t.Fatalf("lives = %d, want 0", p.Lives)
	}
}

func TestHorizontalClamp(t *testing.T) {
	w := NewWorld(groundOnly())
	p := w.AddPlayer("p1", "a")

	p.X, p.Y, p.VX = LevelWidth-PlayerWidth-2, 502, MoveSpeed
	w.Step()
	if p.X != LevelWidth-PlayerWidth {
		t.Fatalf("x = %v, want %v", p.X, LevelWidth-PlayerWidth)
	}

	p.X, p.VX = 2, -MoveSpeed
	w.Step()
	if p.X != 0 {
		t.Fatalf("x = %v, want 0", p.X)
	}
}

func TestRisingIntoPlatformUnderside(t *testing.T) {
	lvl := groundOnly()
	lvl.Platforms = append(lvl.Platforms, ObjectDef{X: 200, Y: 450, Width: 150, Height: 20})
	w := NewWorld(lvl)
	p := w.AddPlayer("p1", "a")
	p.X, p.Y, p.VY = 250, 472, -10

	w.Step()

	if p.Y != 470 || p.VY != 0 {
		t.Fatalf("player not pushed below platform: y=%v vy=%v", p.Y, p.VY)
	}
	if p.OnGround {
		t.Fatalf("hitting a ceiling must not ground the player")
	}
}

func TestEnemyTurnsAtLevelEdges(t *testing.T) {
	lvl := groundOnly()
	lvl.Enemies = []ObjectDef{
		{X: 2, Y: 520, Width: 30, Height: 30, Direction: -1},
		{X: LevelWidth - 30 - 2, Y: 520, Width: 30, Height: 30, Direction: 1},
	}
	w := NewWorld(lvl)

	w.Step()

	enemies := w.Enemies()
	if enemies[0].X != 0 || enemies[0].Direction != 1 {
		t.Fatalf("left enemy: x=%v dir=%d, want x=0 dir=1", enemies[0].X, enemies[0].Direction)
	}
	if enemies[1].Direction != -1 {
		t.Fatalf("right enemy dir=%d, want -1", enemies[1].Direction)
	}

	w.Step()
	if enemies[0].X != EnemySpeed || enemies[0].Direction != 1 {
		t.Fatalf("left enemy after turning: x=%v dir=%d", enemies[0].X, enemies[0].Direction)
	}
}

func TestEnemyOutsideLevelTurnsEveryStep(t *testing.T) {
	lvl := groundOnly()
	lvl.Enemies = []ObjectDef{{X: -10, Y: 520, Width: 30, Height: 30, Direction: 1}}
	w := NewWorld(lvl)
	e := w.Enemies()[0]

	w.Step()
	if e.X != -8 || e.Direction != -1 {
		t.Fatalf("after first step: x=%v dir=%d, want x=-8 dir=-1", e.X, e.Direction)
	}

	w.Step()
	if e.X != -10 || e.Direction != 1 {
		t.Fatalf("after second step: x=%v dir=%d, want x=-10 dir=1", e.X, e.Direction)
	}
}

func TestEnemyLandsAndRespawnsAfterFalling(t *testing.T) {
	lvl := groundOnly()
	lvl.Enemies = []ObjectDef{{X: 100, Y: 500, Width: 30, Height: 30, Direction: 1}}
	w := NewWorld(lvl)
	e := w.Enemies()[0]
	if e.VY != 0 {
		t.Fatalf("enemy vy should start at 0, got %v", e.VY)
	}

	for i := 0; i < 60 && !e.OnGround; i++ {
		w.Step()
	}
	if !e.OnGround || e.Y != 520 || e.VY != 0 {
		t.Fatalf("enemy did not land: %+v", *e)
	}

	w.Objects = w.Objects[1:] // drop the floor
	e.Y = 599
	w.Step()
	if e.Y != EnemyRespawnY || e.VY != 0 {
		t.Fatalf("enemy not respawned: y=%v vy=%v", e.Y, e.VY)
	}
}

func TestApplyActionUnknownPlayerLeavesStateUnchanged(t *testing.T) {
	w := NewWorld(DefaultLevel())
	w.AddPlayer("p1", "a")
	w.Step()

	before, _ := json.Marshal(w.Snapshot())
	for _, a := range []Action{ActionLeft, ActionRight, ActionJump, ActionStopLeft, ActionNone} {
		w.ApplyAction("ghost", a)
	}
	after, _ := json.Marshal(w.Snapshot())

	if string(before) != string(after) {
		t.Fatalf("snapshot changed:\n%s\n%s", before, after)
	}
}

// TestInvariantsUnderRandomPlay 用随机输入驱动默认关卡，逐 Tick 检查客户端依赖的不变量
func TestInvariantsUnderRandomPlay(t *testing.T) {
	w := NewWorld(DefaultLevel())
	ids := []string{"a", "b", "c"}
	for _, id := range ids {
		w.AddPlayer(id, id)
	}
	rng := rand.New(rand.NewSource(7))
	actions := []Action{ActionLeft, ActionRight, ActionJump, ActionStopLeft, ActionStopRight, ActionNone}

	gone := make(map[Object]bool)
	present := make(map[Object]bool)
	for _, obj := range w.Objects {
		present[obj] = true
	}
	scores := make(map[string]int)

	for tick := 0; tick < 3000; tick++ {
		for _, id := range ids {
			if rng.Intn(4) == 0 {
				w.ApplyAction(id, actions[rng.Intn(len(actions))])
			}
		}
		w.Step()

		platforms := w.Platforms()
		for _, id := range ids {
			p := w.Players[id]
			if p.X < 0 || p.X > w.LevelWidth-p.Width {
				t.Fatalf("tick %d: %s x=%v out of bounds", tick, id, p.X)
			}
			if p.OnGround {
				if p.VY != 0 {
					t.Fatalf("tick %d: %s grounded with vy=%v", tick, id, p.VY)
				}
				onTop := false
				for _, plat := range platforms {
					if p.Bottom() == plat.Y {
						onTop = true
						break
					}
				}
				if !onTop {
					t.Fatalf("tick %d: %s grounded at bottom=%v with no platform top there", tick, id, p.Bottom())
				}
			}
			if p.Score < scores[id] {
				t.Fatalf("tick %d: %s score decreased", tick, id)
			}
			scores[id] = p.Score
			if p.Lives < 0 {
				t.Fatalf("tick %d: %s lives=%d", tick, id, p.Lives)
			}
		}

		now := make(map[Object]bool, len(w.Objects))
		for _, obj := range w.Objects {
			if gone[obj] {
				t.Fatalf("tick %d: removed %s came back", tick, obj.Kind())
			}
			if isConsumed(obj) {
				t.Fatalf("tick %d: consumed %s left in world", tick, obj.Kind())
			}
			now[obj] = true
		}
		for obj := range present {
			if !now[obj] {
				if obj.Kind() == KindPlatform {
					t.Fatalf("tick %d: platform removed", tick)
				}
				gone[obj] = true
			}
		}
		present = now
	}
}
