package systems

import (
	"fmt"

	"github.com/decker502/holdout/pkg/components"
	"github.com/decker502/holdout/pkg/config"
	"github.com/decker502/holdout/pkg/ecs"
	"github.com/decker502/holdout/pkg/entities"
	"github.com/decker502/holdout/pkg/types"
)

// EnemyAgent 敌人句柄
//
// 值类型，可比较；内部只保存实体ID与所属系统，实体销毁后各方法安全地
// 返回零值或不做任何事。
type EnemyAgent struct {
	id     ecs.EntityID
	system *EnemyAgentSystem
}

// ID 返回实体ID
func (a EnemyAgent) ID() ecs.EntityID {
	return a.id
}

// Valid 句柄是否指向一个系统
func (a EnemyAgent) Valid() bool {
	return a.system != nil && a.id != 0
}

// Initialize 按敌人定义与倍率初始化生命值、速度与击杀奖励
func (a EnemyAgent) Initialize(def *config.EnemyDefinition, healthMult, speedMult float64) error {
	if !a.Valid() {
		return fmt.Errorf("invalid enemy agent handle")
	}
	return entities.ApplyEnemyStats(a.system.entityManager, a.id, def, healthMult, speedMult)
}

// TakeDamage 扣除生命值
// 无敌时间内调用无效，除非 ignoreInvincibility 为 true；生命值归零时只触发一次死亡
func (a EnemyAgent) TakeDamage(amount int, ignoreInvincibility bool) {
	if !a.Valid() {
		return
	}
	a.system.applyDamage(a.id, amount, ignoreInvincibility)
}

// SetTarget 设置追踪目标，nil 表示没有目标（敌人待机）
func (a EnemyAgent) SetTarget(target types.TargetProvider) {
	if !a.Valid() {
		return
	}
	if t, ok := ecs.GetComponent[*components.TargetComponent](a.system.entityManager, a.id); ok {
		t.Target = target
		return
	}
	ecs.AddComponent(a.system.entityManager, a.id, &components.TargetComponent{Target: target})
}

// IsAlive 敌人是否仍在模拟中
func (a EnemyAgent) IsAlive() bool {
	if !a.Valid() || !a.system.entityManager.Exists(a.id) {
		return false
	}
	health, ok := ecs.GetComponent[*components.HealthComponent](a.system.entityManager, a.id)
	return ok && !health.Dead
}

// State 返回当前状态
func (a EnemyAgent) State() components.EnemyState {
	if !a.Valid() {
		return components.EnemyStateChase
	}
	agent, ok := ecs.GetComponent[*components.EnemyAgentComponent](a.system.entityManager, a.id)
	if !ok {
		return components.EnemyStateChase
	}
	return agent.State
}

// Health 返回当前与最大生命值
func (a EnemyAgent) Health() (current, maxHealth int) {
	if !a.Valid() {
		return 0, 0
	}
	health, ok := ecs.GetComponent[*components.HealthComponent](a.system.entityManager, a.id)
	if !ok {
		return 0, 0
	}
	return health.CurrentHealth, health.MaxHealth
}

// Definition 返回敌人定义
func (a EnemyAgent) Definition() *config.EnemyDefinition {
	if !a.Valid() {
		return nil
	}
	agent, ok := ecs.GetComponent[*components.EnemyAgentComponent](a.system.entityManager, a.id)
	if !ok {
		return nil
	}
	return agent.Definition
}

// Position 返回当前位置；没有导航代理时返回 false
func (a EnemyAgent) Position() (types.Vec3, bool) {
	if !a.Valid() {
		return types.Vec3{}, false
	}
	nav := a.system.navAgentOf(a.id)
	if nav == nil {
		return types.Vec3{}, false
	}
	return nav.Position(), true
}

// TargetPosition 实现 types.TargetProvider，死亡或没有位置的敌人不可作为目标
func (a EnemyAgent) TargetPosition() (types.Vec3, bool) {
	if !a.IsAlive() {
		return types.Vec3{}, false
	}
	return a.Position()
}
