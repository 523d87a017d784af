package components

import "github.com/decker502/holdout/pkg/config"

// EnemyState 敌人决策状态
// 死亡不是状态，而是独立事件
type EnemyState int

const (
	// EnemyStateChase 追踪目标
	EnemyStateChase EnemyState = iota
	// EnemyStateAttackObstacle 攻击前方障碍
	EnemyStateAttackObstacle
	// EnemyStateAttackTarget 攻击目标
	EnemyStateAttackTarget
)

// String 返回状态名称（日志用）
func (s EnemyState) String() string {
	switch s {
	case EnemyStateChase:
		return "Chase"
	case EnemyStateAttackObstacle:
		return "AttackObstacle"
	case EnemyStateAttackTarget:
		return "AttackTarget"
	default:
		return "Unknown"
	}
}

// EnemyAgentComponent 敌人决策层状态
type EnemyAgentComponent struct {
	State         EnemyState
	PreviousState EnemyState

	// CooldownRemaining 攻击冷却剩余时间（秒），每帧递减，<= 0 时可攻击
	CooldownRemaining float64

	// 感知缓存（每帧重算）
	ObstacleAhead    bool
	DistanceToTarget float64

	// RepathTimer 距上次重新寻路经过的时间
	RepathTimer float64
	// NavVersion 上次寻路时观察到的导航版本号
	NavVersion uint64

	Definition *config.EnemyDefinition
	Reward     int
	// WaveNumber 生成时所属波次（仅用于日志与遥测）
	WaveNumber int
}
