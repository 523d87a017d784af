package world

import (
	"math"
	"testing"

	"github.com/decker502/holdout/pkg/config"
	"github.com/decker502/holdout/pkg/types"
)

func TestGridCast(t *testing.T) {
	g := NewGrid(10, 10, 1)
	block := g.PlaceBlock(5, 2, 0, 3)

	t.Run("命中前方方块", func(t *testing.T) {
		hit, ok := g.Cast(types.Vec3{X: 5.5, Z: 0.5}, types.Vec3{Z: 1}, 3, types.LayerObstacles)
		if !ok {
			t.Fatal("Expected ray to hit block")
		}
		if hit.Obstacle != block {
			t.Error("Hit obstacle should be the placed block")
		}
		if math.Abs(hit.Distance-1.5) > 0.11 {
			t.Errorf("Expected hit distance ~1.5, got %.2f", hit.Distance)
		}
	})

	t.Run("距离不足", func(t *testing.T) {
		if _, ok := g.Cast(types.Vec3{X: 5.5, Z: 0.5}, types.Vec3{Z: 1}, 1, types.LayerObstacles); ok {
			t.Error("Ray shorter than the gap should not hit")
		}
	})

	t.Run("层过滤", func(t *testing.T) {
		if _, ok := g.Cast(types.Vec3{X: 5.5, Z: 0.5}, types.Vec3{Z: 1}, 3, types.LayerEnemies); ok {
			t.Error("Non-obstacle layer should never hit blocks")
		}
	})

	t.Run("高位射线不命中低层方块", func(t *testing.T) {
		if _, ok := g.Cast(types.Vec3{X: 5.5, Y: 1, Z: 0.5}, types.Vec3{Z: 1}, 3, types.LayerObstacles); ok {
			t.Error("High probe should pass over a level-0 block")
		}
	})
}

func TestBlockBreak(t *testing.T) {
	g := NewGrid(4, 4, 1)
	b := g.PlaceBlock(1, 1, 0, 3)
	v := g.Version()

	b.TakeDamage(1)
	b.TakeDamage(1)
	if b.IsBroken() {
		t.Fatal("Block should survive two hits")
	}
	if g.IsWalkable(1, 1) {
		t.Error("Cell with block should not be walkable")
	}

	b.TakeDamage(1)
	if !b.IsBroken() {
		t.Fatal("Block should break on third hit")
	}
	if !g.IsWalkable(1, 1) {
		t.Error("Cell should be walkable after block breaks")
	}
	if g.Version() != v+1 {
		t.Errorf("Version should bump once on break, got %d -> %d", v, g.Version())
	}

	// 重复破坏是安全的
	b.Break()
	b.TakeDamage(5)
	if g.Version() != v+1 {
		t.Error("Breaking twice should not bump version again")
	}
}

func TestSamplePosition(t *testing.T) {
	g := NewGrid(6, 6, 1)
	g.PlaceBlock(2, 2, 0, 3)

	// 锚点落在方块上，采样到相邻单元格中心
	pos, ok := g.SamplePosition(types.Vec3{X: 2.5, Z: 2.5}, 1.5)
	if !ok {
		t.Fatal("Expected a walkable sample near the block")
	}
	if pos == (types.Vec3{X: 2.5, Z: 2.5}) {
		t.Error("Sample must not be the blocked anchor cell")
	}
	if d := types.Distance(pos, types.Vec3{X: 2.5, Z: 2.5}); d > 1.5 {
		t.Errorf("Sample outside radius: %.2f", d)
	}

	// 半径过小，无可用位置
	if _, ok := g.SamplePosition(types.Vec3{X: 2.5, Z: 2.5}, 0.2); ok {
		t.Error("Expected failure when only the blocked cell is in range")
	}

	// 场地外
	if _, ok := g.SamplePosition(types.Vec3{X: -20, Z: -20}, 2); ok {
		t.Error("Expected failure outside the arena")
	}
}

func TestNavAgentStep(t *testing.T) {
	g := NewGrid(10, 10, 1)
	a := NewNavAgent(g, types.Vec3{X: 0.5, Z: 0.5})
	a.SetSpeed(2)
	a.SetDestination(types.Vec3{X: 0.5, Z: 5.5})

	a.Step(0.5)
	if math.Abs(a.Position().Z-1.5) > 1e-9 {
		t.Errorf("Expected z=1.5 after one step, got %.3f", a.Position().Z)
	}

	a.SetStopped(true)
	a.Step(0.5)
	if math.Abs(a.Position().Z-1.5) > 1e-9 {
		t.Error("Stopped agent should not move")
	}

	// 前方被方块完全挡住
	a.SetStopped(false)
	g.PlaceBlock(0, 2, 0, 3)
	a.Step(0.5)
	col, row := g.CellAt(a.Position())
	if !g.IsWalkable(col, row) {
		t.Error("Agent should never enter a blocked cell")
	}
	if a.Forward().Z <= 0 {
		t.Error("Agent should keep facing its destination")
	}
}

func TestPlayerInvincibility(t *testing.T) {
	p := NewPlayer(types.Vec3{}, 100, 2)

	p.TakeDamage(10, false)
	p.TakeDamage(10, false) // 无敌帧内
	if p.Health != 90 {
		t.Errorf("Expected 90 health, got %d", p.Health)
	}

	p.TakeDamage(10, true) // 强制伤害
	if p.Health != 80 {
		t.Errorf("Expected forced damage to apply, got %d", p.Health)
	}

	p.Tick()
	p.Tick()
	p.TakeDamage(100, false)
	if p.IsAlive() {
		t.Error("Player should be dead")
	}
	if _, ok := p.TargetPosition(); ok {
		t.Error("Dead player should not provide a target position")
	}
}

func TestNilPlayer(t *testing.T) {
	var p *Player
	var target types.TargetProvider = p

	if _, ok := target.TargetPosition(); ok {
		t.Error("nil player should not provide a target position")
	}
	target.TakeDamage(10, true)
	if p.IsAlive() {
		t.Error("nil player should not be alive")
	}
}

func TestNewArena(t *testing.T) {
	g := NewArena(config.ArenaConfig{Width: 8, Depth: 8, CellSize: 1, BlockHP: 3, Blocks: [][2]int{{1, 1}, {2, 1}, {9, 9}}})
	if len(g.Blocks()) != 2 {
		t.Errorf("Expected 2 in-bounds blocks, got %d", len(g.Blocks()))
	}
	if b := g.BlockAt(1, 1, 0); b == nil || b.HitPoints != 3 {
		t.Error("Block at (1,1) should have 3 hit points")
	}
}
