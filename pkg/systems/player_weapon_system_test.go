package systems

import (
	"testing"

	"github.com/decker502/holdout/pkg/config"
	"github.com/decker502/holdout/pkg/types"
	"github.com/decker502/holdout/pkg/world"
)

func testPlayerConfig() config.PlayerConfig {
	return config.PlayerConfig{MaxHealth: 100, WeaponDamage: 5, FireInterval: 0.5, WeaponRange: 6}
}

func TestPlayerWeaponSystem_ShootsNearest(t *testing.T) {
	h := newAgentHarness(testAgentConfig(), nil)
	near, _ := h.spawn(t, types.Vec3{X: 2})
	far, _ := h.spawn(t, types.Vec3{X: 4})
	outOfRange, _ := h.spawn(t, types.Vec3{X: 20})

	shooter := &fakeTarget{}
	weapon := NewPlayerWeaponSystem(h.system, shooter, nil, testPlayerConfig())

	weapon.Update(testDT)
	if current, _ := near.Health(); current != 5 {
		t.Errorf("expected nearest enemy hit to 5 hp, got %d", current)
	}
	if current, _ := far.Health(); current != 10 {
		t.Errorf("farther enemy should be untouched, got %d", current)
	}

	// 冷却期间不开火
	weapon.Update(0.25)
	if current, _ := near.Health(); current != 5 {
		t.Errorf("weapon should respect fire interval, got %d", current)
	}

	for i := 0; i < 10; i++ {
		weapon.Update(0.3)
	}
	if near.IsAlive() {
		t.Error("nearest enemy should be dead")
	}
	if far.IsAlive() {
		t.Error("second enemy should be dead after nearest died")
	}
	if current, _ := outOfRange.Health(); current != 10 {
		t.Errorf("out-of-range enemy should be untouched, got %d", current)
	}
	if len(h.deaths.deaths) != 2 {
		t.Errorf("expected 2 death notifications, got %d", len(h.deaths.deaths))
	}
	if weapon.Shots() != 4 {
		t.Errorf("expected 4 shots, got %d", weapon.Shots())
	}
}

func TestPlayerWeaponSystem_BlockedByObstacle(t *testing.T) {
	grid := world.NewGrid(10, 10, 1)
	grid.PlaceBlock(3, 0, 0, 5)

	h := newAgentHarness(testAgentConfig(), nil)
	enemy, _ := h.spawn(t, types.Vec3{X: 5.5, Z: 0.5})

	shooter := &fakeTarget{position: types.Vec3{X: 0.5, Z: 0.5}}
	weapon := NewPlayerWeaponSystem(h.system, shooter, grid, testPlayerConfig())

	weapon.Update(testDT)
	if current, _ := enemy.Health(); current != 10 {
		t.Errorf("shot through a block should not land, got %d hp", current)
	}
	if weapon.BlockedShots() != 1 || weapon.Shots() != 0 {
		t.Errorf("expected 1 blocked shot, got blocked=%d shots=%d", weapon.BlockedShots(), weapon.Shots())
	}
}

func TestPlayerWeaponSystem_DeadShooter(t *testing.T) {
	h := newAgentHarness(testAgentConfig(), nil)
	enemy, _ := h.spawn(t, types.Vec3{X: 1})

	weapon := NewPlayerWeaponSystem(h.system, &fakeTarget{absent: true}, nil, testPlayerConfig())
	weapon.Update(testDT)

	if current, _ := enemy.Health(); current != 10 {
		t.Errorf("absent shooter should not fire, got %d hp", current)
	}
}
