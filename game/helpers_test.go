package game

import (
	"math"
	"testing"
)

// groundOnly 只有 y=550 地面的关卡
func groundOnly() Level {
	return Level{
		Name:      "test",
		Width:     LevelWidth,
		Height:    LevelHeight,
		Physics:   DefaultTuning(),
		Platforms: []ObjectDef{{X: 0, Y: 550, Width: 1600, Height: 50, Color: "#8B4513"}},
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// settle 持续步进直到玩家落在平台上
func settle(t *testing.T, w *World, id string) *Player {
	t.Helper()
	p := w.Players[id]
	for i := 0; i < 120; i++ {
		w.Step()
		if p.OnGround {
			return p
		}
	}
	t.Fatalf("player %s never landed: %+v", id, *p)
	return nil
}
