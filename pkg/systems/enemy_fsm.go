package systems

import "github.com/decker502/holdout/pkg/components"

// NextEnemyState 计算敌人下一状态（纯函数）
//
// 按优先级自上而下匹配，首个命中的规则生效：
//
//	Chase          + 前方有障碍                     -> AttackObstacle（预置冷却）
//	Chase          + 距离 <= attackRange            -> AttackTarget
//	AttackObstacle + 无障碍 且 距离 <= attackRange  -> AttackTarget
//	AttackObstacle + 无障碍 且 距离 >  attackRange  -> Chase
//	AttackTarget   + 前方有障碍                     -> AttackObstacle（预置冷却）
//	AttackTarget   + 距离 > attackRange*hysteresis  -> Chase
//
// 每帧最多发生一次转移。返回值 armCooldown 表示本次转移进入了 AttackObstacle。
func NextEnemyState(current components.EnemyState, obstacleAhead bool, distance, attackRange, hysteresis float64) (next components.EnemyState, armCooldown bool) {
	switch current {
	case components.EnemyStateChase:
		if obstacleAhead {
			return components.EnemyStateAttackObstacle, true
		}
		if distance <= attackRange {
			return components.EnemyStateAttackTarget, false
		}

	case components.EnemyStateAttackObstacle:
		if !obstacleAhead {
			if distance <= attackRange {
				return components.EnemyStateAttackTarget, false
			}
			return components.EnemyStateChase, false
		}

	case components.EnemyStateAttackTarget:
		if obstacleAhead {
			return components.EnemyStateAttackObstacle, true
		}
		if distance > attackRange*hysteresis {
			return components.EnemyStateChase, false
		}
	}

	return current, false
}
