package systems

import (
	"log"

	"github.com/decker502/holdout/pkg/components"
	"github.com/decker502/holdout/pkg/config"
	"github.com/decker502/holdout/pkg/ecs"
	"github.com/decker502/holdout/pkg/entities"
	"github.com/decker502/holdout/pkg/types"
)

// EnemyDeathHandler 接收敌人死亡通知
// 由 WaveDirector 实现；在 TakeDamage 内同步调用
type EnemyDeathHandler interface {
	OnEnemyDeath(agent EnemyAgent, reward int)
}

// NavAgentFactory 在生成位置创建导航代理
type NavAgentFactory func(position types.Vec3) types.PathAgent

// NavVersionSource 导航版本号来源（方块放置/破坏时递增）
type NavVersionSource interface {
	Version() uint64
}

// EnemyAgentSystem 敌人决策系统
//
// 职责：
//   - 每帧驱动所有敌人的状态机：冷却递减 → 感知 → 状态转移 → 执行动作
//   - 生成敌人（实现 EnemySpawner）
//   - 处理伤害与死亡，死亡时同步通知 EnemyDeathHandler
//
// 死亡的敌人立即标记删除，之后不再参与本帧及后续更新；
// 实体在帧末由 EntityManager.RemoveMarkedEntities 统一清理。
type EnemyAgentSystem struct {
	entityManager *ecs.EntityManager
	perception    *PerceptionService
	config        config.AgentConfig

	navFactory    NavAgentFactory
	defaultTarget types.TargetProvider
	navVersion    NavVersionSource
	deathHandler  EnemyDeathHandler

	verbose bool
}

// NewEnemyAgentSystem 创建敌人决策系统
//
// 参数：
//   - em: 实体管理器
//   - perception: 感知服务
//   - cfg: 敌人决策参数
func NewEnemyAgentSystem(em *ecs.EntityManager, perception *PerceptionService, cfg config.AgentConfig) *EnemyAgentSystem {
	return &EnemyAgentSystem{
		entityManager: em,
		perception:    perception,
		config:        cfg,
	}
}

// SetNavAgentFactory 设置生成敌人时使用的导航代理工厂
func (s *EnemyAgentSystem) SetNavAgentFactory(factory NavAgentFactory) {
	s.navFactory = factory
}

// SetDefaultTarget 设置新生成敌人的追踪目标
func (s *EnemyAgentSystem) SetDefaultTarget(target types.TargetProvider) {
	s.defaultTarget = target
}

// SetNavVersionSource 设置导航版本号来源，版本变化时追踪中的敌人立即重新寻路
func (s *EnemyAgentSystem) SetNavVersionSource(src NavVersionSource) {
	s.navVersion = src
}

// SetDeathHandler 设置死亡通知接收者
func (s *EnemyAgentSystem) SetDeathHandler(handler EnemyDeathHandler) {
	s.deathHandler = handler
}

// SetVerbose 设置是否输出详细日志
func (s *EnemyAgentSystem) SetVerbose(verbose bool) {
	s.verbose = verbose
}

// Agent 返回实体对应的敌人句柄
func (s *EnemyAgentSystem) Agent(id ecs.EntityID) EnemyAgent {
	return EnemyAgent{id: id, system: s}
}

// LiveAgents 返回所有存活敌人（按实体ID升序）
func (s *EnemyAgentSystem) LiveAgents() []EnemyAgent {
	ids := ecs.GetEntitiesWith2[*components.EnemyAgentComponent, *components.HealthComponent](s.entityManager)
	result := make([]EnemyAgent, 0, len(ids))
	for _, id := range ids {
		if s.entityManager.Exists(id) {
			result = append(result, s.Agent(id))
		}
	}
	return result
}

// SpawnEnemy 在指定位置生成敌人，实现 EnemySpawner
func (s *EnemyAgentSystem) SpawnEnemy(def *config.EnemyDefinition, position types.Vec3, healthMult, speedMult float64) (EnemyAgent, bool) {
	var nav types.PathAgent
	if s.navFactory != nil {
		nav = s.navFactory(position)
	}

	id, err := entities.NewEnemyEntity(s.entityManager, nav, s.defaultTarget, s.config.RepathInterval)
	if err != nil {
		log.Printf("[EnemyAgentSystem] ERROR: Failed to create enemy entity: %v", err)
		return EnemyAgent{}, false
	}

	agent := s.Agent(id)
	if err := agent.Initialize(def, healthMult, speedMult); err != nil {
		log.Printf("[EnemyAgentSystem] ERROR: Failed to initialize enemy %d: %v", id, err)
		s.entityManager.DestroyEntity(id)
		return EnemyAgent{}, false
	}

	if s.verbose {
		log.Printf("[EnemyAgentSystem] Spawned %s (ID: %d) at (%.1f, %.1f)", def.ID, id, position.X, position.Z)
	}
	return agent, true
}

// Update 更新所有敌人
func (s *EnemyAgentSystem) Update(deltaTime float64) {
	var navVersion uint64
	if s.navVersion != nil {
		navVersion = s.navVersion.Version()
	}

	ids := ecs.GetEntitiesWith2[*components.EnemyAgentComponent, *components.HealthComponent](s.entityManager)
	for _, id := range ids {
		// 本帧先前被击杀的敌人已移出模拟
		if !s.entityManager.Exists(id) {
			continue
		}

		agent, _ := ecs.GetComponent[*components.EnemyAgentComponent](s.entityManager, id)
		health, _ := ecs.GetComponent[*components.HealthComponent](s.entityManager, id)
		if health.Dead {
			continue
		}

		if health.InvincibleTimer > 0 {
			health.InvincibleTimer -= deltaTime
		}

		s.tickAgent(id, agent, deltaTime, navVersion)
	}
}

// tickAgent 单个敌人的一帧：冷却递减 → 感知 → 状态转移 → 执行动作
func (s *EnemyAgentSystem) tickAgent(id ecs.EntityID, agent *components.EnemyAgentComponent, deltaTime float64, navVersion uint64) {
	agent.CooldownRemaining -= deltaTime

	nav := s.navAgentOf(id)
	if nav == nil {
		// 缺少导航代理：待机
		return
	}

	target := s.targetOf(id)
	if target == nil {
		// 缺少目标：停止移动，不再寻路
		nav.SetStopped(true)
		return
	}
	targetPos, ok := target.TargetPosition()
	if !ok {
		nav.SetStopped(true)
		return
	}

	// 感知
	agent.ObstacleAhead = s.perception.IsObstacleAhead(nav.Position(), nav.Forward())
	agent.DistanceToTarget = s.perception.DistanceToTarget(nav.Position(), target)

	// 状态转移
	next, arm := NextEnemyState(agent.State, agent.ObstacleAhead, agent.DistanceToTarget, s.config.AttackRange, s.config.ChaseHysteresisFactor)
	if next != agent.State {
		agent.PreviousState = agent.State
		agent.State = next
		if arm && s.config.ArmObstacleCooldown() {
			agent.CooldownRemaining = s.config.ObstacleAttackCooldown
		}
		if s.verbose {
			log.Printf("[EnemyAgentSystem] Enemy %d: %s -> %s (obstacle=%v, distance=%.2f)",
				id, agent.PreviousState, agent.State, agent.ObstacleAhead, agent.DistanceToTarget)
		}
	}

	// 执行动作
	switch agent.State {
	case components.EnemyStateChase:
		s.chase(agent, nav, targetPos, deltaTime, navVersion)
	case components.EnemyStateAttackObstacle:
		nav.SetStopped(true)
		s.attackObstacle(id, agent, nav)
	case components.EnemyStateAttackTarget:
		nav.SetStopped(true)
		s.attackTarget(id, agent, target)
	}
}

// chase 按固定间隔重新寻路；导航版本变化时立即重新寻路
func (s *EnemyAgentSystem) chase(agent *components.EnemyAgentComponent, nav types.PathAgent, targetPos types.Vec3, deltaTime float64, navVersion uint64) {
	agent.RepathTimer += deltaTime
	if agent.RepathTimer >= s.config.RepathInterval || agent.NavVersion != navVersion {
		nav.SetDestination(targetPos)
		agent.RepathTimer = 0
		agent.NavVersion = navVersion
	}
	nav.SetStopped(false)
}

// attackObstacle 攻击前方障碍
// 障碍在感知与动作之间消失时视为没有有效目标，本帧不攻击
func (s *EnemyAgentSystem) attackObstacle(id ecs.EntityID, agent *components.EnemyAgentComponent, nav types.PathAgent) {
	if agent.CooldownRemaining > 0 {
		return
	}

	obstacle := s.perception.FindObstacleAhead(nav.Position(), nav.Forward())
	if obstacle == nil {
		if s.verbose {
			log.Printf("[EnemyAgentSystem] Enemy %d: no valid obstacle found", id)
		}
		return
	}

	obstacle.TakeDamage(s.config.ObstacleAttackDamage)
	agent.CooldownRemaining = s.config.ObstacleAttackCooldown
}

// attackTarget 攻击目标
func (s *EnemyAgentSystem) attackTarget(id ecs.EntityID, agent *components.EnemyAgentComponent, target types.TargetProvider) {
	if agent.CooldownRemaining > 0 {
		return
	}

	target.TakeDamage(s.config.TargetAttackDamage, false)
	agent.CooldownRemaining = s.config.TargetAttackCooldown
	if s.verbose {
		log.Printf("[EnemyAgentSystem] Enemy %d attacked target for %d", id, s.config.TargetAttackDamage)
	}
}

// applyDamage 扣血并在生命值归零时触发一次死亡
func (s *EnemyAgentSystem) applyDamage(id ecs.EntityID, amount int, ignoreInvincibility bool) {
	if !s.entityManager.Exists(id) {
		return
	}
	health, ok := ecs.GetComponent[*components.HealthComponent](s.entityManager, id)
	if !ok || health.Dead {
		return
	}
	if health.InvincibleTimer > 0 && !ignoreInvincibility {
		return
	}

	health.CurrentHealth -= amount
	if s.config.InvincibilitySeconds > 0 {
		health.InvincibleTimer = s.config.InvincibilitySeconds
	}
	if health.CurrentHealth > 0 {
		return
	}

	health.CurrentHealth = 0
	health.Dead = true

	reward := 0
	if agent, ok := ecs.GetComponent[*components.EnemyAgentComponent](s.entityManager, id); ok {
		reward = agent.Reward
	}

	if nav := s.navAgentOf(id); nav != nil {
		nav.SetStopped(true)
	}
	s.entityManager.DestroyEntity(id)

	if s.verbose {
		log.Printf("[EnemyAgentSystem] Enemy %d died (reward %d)", id, reward)
	}
	if s.deathHandler != nil {
		s.deathHandler.OnEnemyDeath(s.Agent(id), reward)
	}
}

// navAgentOf 返回实体的导航代理（缺失返回 nil）
func (s *EnemyAgentSystem) navAgentOf(id ecs.EntityID) types.PathAgent {
	nav, ok := ecs.GetComponent[*components.NavAgentComponent](s.entityManager, id)
	if !ok {
		return nil
	}
	return nav.Agent
}

// targetOf 返回实体的追踪目标（缺失返回 nil）
func (s *EnemyAgentSystem) targetOf(id ecs.EntityID) types.TargetProvider {
	t, ok := ecs.GetComponent[*components.TargetComponent](s.entityManager, id)
	if !ok {
		return nil
	}
	return t.Target
}
