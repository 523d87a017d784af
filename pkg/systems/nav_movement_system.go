package systems

import (
	"github.com/decker502/holdout/pkg/components"
	"github.com/decker502/holdout/pkg/ecs"
)

// stepper 可按帧推进的导航代理
type stepper interface {
	Step(deltaTime float64)
}

// NavMovementSystem 推进所有存活敌人的导航代理
// 在 EnemyAgentSystem 之后运行，使本帧的停止/寻路决定立即生效
type NavMovementSystem struct {
	entityManager *ecs.EntityManager
}

// NewNavMovementSystem 创建移动系统
func NewNavMovementSystem(em *ecs.EntityManager) *NavMovementSystem {
	return &NavMovementSystem{entityManager: em}
}

// Update 推进移动
func (s *NavMovementSystem) Update(deltaTime float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.NavAgentComponent](s.entityManager) {
		if !s.entityManager.Exists(id) {
			continue
		}
		nav, _ := ecs.GetComponent[*components.NavAgentComponent](s.entityManager, id)
		if st, ok := nav.Agent.(stepper); ok {
			st.Step(deltaTime)
		}
	}
}
