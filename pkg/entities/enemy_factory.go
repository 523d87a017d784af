package entities

import (
	"fmt"
	"math"

	"github.com/decker502/holdout/pkg/components"
	"github.com/decker502/holdout/pkg/config"
	"github.com/decker502/holdout/pkg/ecs"
	"github.com/decker502/holdout/pkg/types"
)

// NewEnemyEntity 创建敌人实体
// 实体初始处于 Chase 状态，生命值与速度由 ApplyEnemyStats 设置
//
// 参数:
//   - em: 实体管理器
//   - nav: 导航代理（可为 nil，敌人将原地待机）
//   - target: 追踪目标（可为 nil，敌人将原地待机）
//   - repathInterval: 重新寻路间隔，首帧即触发寻路
//
// 返回:
//   - ecs.EntityID: 创建的敌人实体ID
//   - error: 如果创建失败返回错误信息
func NewEnemyEntity(em *ecs.EntityManager, nav types.PathAgent, target types.TargetProvider, repathInterval float64) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}

	entityID := em.CreateEntity()

	ecs.AddComponent(em, entityID, &components.EnemyAgentComponent{
		State:            components.EnemyStateChase,
		PreviousState:    components.EnemyStateChase,
		DistanceToTarget: math.Inf(1),
		RepathTimer:      repathInterval,
	})
	ecs.AddComponent(em, entityID, &components.HealthComponent{})
	ecs.AddComponent(em, entityID, &components.NavAgentComponent{Agent: nav})
	ecs.AddComponent(em, entityID, &components.TargetComponent{Target: target})

	return entityID, nil
}

// ApplyEnemyStats 按敌人定义与倍率设置生命值、速度与奖励
//
// health = round(baseHealth * max(0.1, healthMult))，四舍六入五成双，至少为 1
// speed  = baseSpeed * max(0.1, speedMult)
func ApplyEnemyStats(em *ecs.EntityManager, id ecs.EntityID, def *config.EnemyDefinition, healthMult, speedMult float64) error {
	if def == nil {
		return fmt.Errorf("enemy definition cannot be nil")
	}

	agent, ok := ecs.GetComponent[*components.EnemyAgentComponent](em, id)
	if !ok {
		return fmt.Errorf("entity %d has no EnemyAgentComponent", id)
	}
	health, ok := ecs.GetComponent[*components.HealthComponent](em, id)
	if !ok {
		return fmt.Errorf("entity %d has no HealthComponent", id)
	}

	hp := int(math.RoundToEven(float64(def.BaseHealth) * math.Max(config.MinStatMultiplier, healthMult)))
	if hp < 1 {
		hp = 1
	}
	health.CurrentHealth = hp
	health.MaxHealth = hp
	health.Dead = false
	health.InvincibleTimer = 0

	agent.Definition = def
	agent.Reward = def.KillReward

	if nav, ok := ecs.GetComponent[*components.NavAgentComponent](em, id); ok && nav.Agent != nil {
		nav.Agent.SetSpeed(def.BaseSpeed * math.Max(config.MinStatMultiplier, speedMult))
	}
	return nil
}
