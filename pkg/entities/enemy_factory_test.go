package entities

import (
	"math"
	"testing"

	"github.com/decker502/holdout/pkg/components"
	"github.com/decker502/holdout/pkg/config"
	"github.com/decker502/holdout/pkg/ecs"
	"github.com/decker502/holdout/pkg/types"
)

// speedRecorder 只记录速度的导航代理
type speedRecorder struct {
	speed float64
}

func (a *speedRecorder) SetDestination(types.Vec3) {}
func (a *speedRecorder) Position() types.Vec3      { return types.Vec3{} }
func (a *speedRecorder) Forward() types.Vec3       { return types.Vec3{Z: 1} }
func (a *speedRecorder) Speed() float64            { return a.speed }
func (a *speedRecorder) SetSpeed(speed float64)    { a.speed = speed }
func (a *speedRecorder) Stopped() bool             { return false }
func (a *speedRecorder) SetStopped(bool)           {}

func TestNewEnemyEntity(t *testing.T) {
	t.Run("nil 实体管理器返回错误", func(t *testing.T) {
		if _, err := NewEnemyEntity(nil, nil, nil, 0.2); err == nil {
			t.Fatal("expected error for nil entity manager")
		}
	})

	t.Run("初始组件", func(t *testing.T) {
		em := ecs.NewEntityManager()
		nav := &speedRecorder{}

		id, err := NewEnemyEntity(em, nav, nil, 0.2)
		if err != nil {
			t.Fatalf("NewEnemyEntity failed: %v", err)
		}

		agent, ok := ecs.GetComponent[*components.EnemyAgentComponent](em, id)
		if !ok {
			t.Fatal("missing EnemyAgentComponent")
		}
		if agent.State != components.EnemyStateChase {
			t.Errorf("expected Chase state, got %v", agent.State)
		}
		if !math.IsInf(agent.DistanceToTarget, 1) {
			t.Errorf("expected infinite distance, got %v", agent.DistanceToTarget)
		}
		if agent.RepathTimer != 0.2 {
			t.Errorf("expected repath timer 0.2, got %v", agent.RepathTimer)
		}

		if !ecs.HasComponent[*components.HealthComponent](em, id) {
			t.Error("missing HealthComponent")
		}
		navComp, ok := ecs.GetComponent[*components.NavAgentComponent](em, id)
		if !ok || navComp.Agent != nav {
			t.Error("nav agent not attached")
		}
		if !ecs.HasComponent[*components.TargetComponent](em, id) {
			t.Error("missing TargetComponent")
		}
	})
}

func TestApplyEnemyStats(t *testing.T) {
	def := &config.EnemyDefinition{ID: "walker", BaseHealth: 10, BaseSpeed: 2, KillReward: 7}

	tests := []struct {
		name       string
		healthMult float64
		speedMult  float64
		wantHP     int
		wantSpeed  float64
	}{
		{"倍率为 1", 1, 1, 10, 2},
		{"血量倍率 1.25 四舍五入到偶数", 1.25, 1, 12, 2},
		{"倍率低于下限按 0.1 计", 0, 0.01, 1, 0.2},
		{"速度倍率 1.5", 1, 1.5, 10, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			em := ecs.NewEntityManager()
			nav := &speedRecorder{}
			id, _ := NewEnemyEntity(em, nav, nil, 0.2)

			if err := ApplyEnemyStats(em, id, def, tt.healthMult, tt.speedMult); err != nil {
				t.Fatalf("ApplyEnemyStats failed: %v", err)
			}

			health, _ := ecs.GetComponent[*components.HealthComponent](em, id)
			if health.CurrentHealth != tt.wantHP || health.MaxHealth != tt.wantHP {
				t.Errorf("expected hp %d, got %d/%d", tt.wantHP, health.CurrentHealth, health.MaxHealth)
			}
			if math.Abs(nav.speed-tt.wantSpeed) > 1e-9 {
				t.Errorf("expected speed %v, got %v", tt.wantSpeed, nav.speed)
			}

			agent, _ := ecs.GetComponent[*components.EnemyAgentComponent](em, id)
			if agent.Definition != def || agent.Reward != 7 {
				t.Errorf("definition/reward not applied: %+v", agent)
			}
		})
	}

	t.Run("nil 定义返回错误", func(t *testing.T) {
		em := ecs.NewEntityManager()
		id, _ := NewEnemyEntity(em, nil, nil, 0.2)
		if err := ApplyEnemyStats(em, id, nil, 1, 1); err == nil {
			t.Error("expected error for nil definition")
		}
	})

	t.Run("缺少组件返回错误", func(t *testing.T) {
		em := ecs.NewEntityManager()
		id := em.CreateEntity()
		if err := ApplyEnemyStats(em, id, def, 1, 1); err == nil {
			t.Error("expected error for entity without components")
		}
	})

	t.Run("没有导航代理时只设置血量", func(t *testing.T) {
		em := ecs.NewEntityManager()
		id, _ := NewEnemyEntity(em, nil, nil, 0.2)
		if err := ApplyEnemyStats(em, id, def, 1, 1); err != nil {
			t.Fatalf("ApplyEnemyStats failed: %v", err)
		}
		health, _ := ecs.GetComponent[*components.HealthComponent](em, id)
		if health.CurrentHealth != 10 {
			t.Errorf("expected hp 10, got %d", health.CurrentHealth)
		}
	})
}
