package systems

import (
	"log"
	"math"

	"github.com/decker502/holdout/pkg/config"
	"github.com/decker502/holdout/pkg/types"
)

// ShooterPosition 射击者位置来源
type ShooterPosition interface {
	TargetPosition() (types.Vec3, bool)
}

// PlayerWeaponSystem 玩家自动武器
//
// 按固定间隔向射程内最近的敌人做一次命中判定：射线检测到更近的障碍时
// 子弹被挡住。命中后调用 EnemyAgent.TakeDamage。
type PlayerWeaponSystem struct {
	agents     *EnemyAgentSystem
	shooter    ShooterPosition
	caster     types.RayCaster
	perception *PerceptionService
	config     config.PlayerConfig

	cooldown float64
	shots    int
	blocked  int
	verbose  bool
}

// NewPlayerWeaponSystem 创建玩家武器系统
func NewPlayerWeaponSystem(agents *EnemyAgentSystem, shooter ShooterPosition, caster types.RayCaster, cfg config.PlayerConfig) *PlayerWeaponSystem {
	return &PlayerWeaponSystem{
		agents:     agents,
		shooter:    shooter,
		caster:     caster,
		perception: NewPerceptionService(caster, cfg.WeaponRange, 0),
		config:     cfg,
	}
}

// SetVerbose 设置是否输出详细日志
func (s *PlayerWeaponSystem) SetVerbose(verbose bool) {
	s.verbose = verbose
}

// BlockedShots 返回被方块挡住的次数
func (s *PlayerWeaponSystem) BlockedShots() int {
	return s.blocked
}

// Shots 返回累计命中次数
func (s *PlayerWeaponSystem) Shots() int {
	return s.shots
}

// Update 冷却结束时向最近的敌人开火
func (s *PlayerWeaponSystem) Update(deltaTime float64) {
	if s.cooldown > 0 {
		s.cooldown -= deltaTime
		return
	}

	origin, ok := s.shooter.TargetPosition()
	if !ok {
		return
	}

	target, dist, found := s.nearestEnemy(origin)
	if !found {
		return
	}

	// 射线被方块挡住
	if s.caster != nil {
		pos, _ := target.Position()
		dir := pos.Flat().Sub(origin.Flat())
		if hit, blocked := s.caster.Cast(origin, dir, dist, types.LayerObstacles); blocked && hit.Distance < dist {
			s.blocked++
			s.cooldown = s.config.FireInterval
			return
		}
	}

	target.TakeDamage(s.config.WeaponDamage, false)
	s.shots++
	s.cooldown = s.config.FireInterval
	if s.verbose {
		log.Printf("[PlayerWeaponSystem] Hit enemy %d at %.2f", target.ID(), dist)
	}
}

// nearestEnemy 返回射程内最近的存活敌人
func (s *PlayerWeaponSystem) nearestEnemy(origin types.Vec3) (EnemyAgent, float64, bool) {
	best := EnemyAgent{}
	bestDist := math.Inf(1)
	for _, agent := range s.agents.LiveAgents() {
		if !s.perception.TargetWithinRadius(origin, agent, s.config.WeaponRange) {
			continue
		}
		if d := s.perception.DistanceToTarget(origin, agent); d < bestDist {
			best, bestDist = agent, d
		}
	}
	return best, bestDist, best.Valid()
}
