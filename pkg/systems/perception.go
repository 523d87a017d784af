package systems

import (
	"math"

	"github.com/decker502/holdout/pkg/types"
)

// PerceptionService 敌人感知服务
//
// 无状态：只持有射线检测服务与探测参数，每帧由 EnemyAgentSystem 调用。
// 前方障碍探测使用两条平行射线：低位从敌人位置发出，高位从位置上方
// probeHeight 处发出。
type PerceptionService struct {
	caster         types.RayCaster
	detectionRange float64
	probeHeight    float64
}

// NewPerceptionService 创建感知服务
// caster 为 nil 时永远探测不到障碍
func NewPerceptionService(caster types.RayCaster, detectionRange, probeHeight float64) *PerceptionService {
	return &PerceptionService{
		caster:         caster,
		detectionRange: detectionRange,
		probeHeight:    probeHeight,
	}
}

// probeOrigins 返回低位与高位射线起点
func (p *PerceptionService) probeOrigins(origin types.Vec3) (low, high types.Vec3) {
	return origin, origin.Add(types.Up.Scale(p.probeHeight))
}

// castObstacle 单条射线探测障碍，忽略已破坏的障碍
func (p *PerceptionService) castObstacle(origin, forward types.Vec3) types.Obstacle {
	hit, ok := p.caster.Cast(origin, forward, p.detectionRange, types.LayerObstacles)
	if !ok || hit.Obstacle == nil || hit.Obstacle.IsBroken() {
		return nil
	}
	return hit.Obstacle
}

// IsObstacleAhead 判断前方是否有障碍
// 先检测低位，命中即返回，不再检测高位
func (p *PerceptionService) IsObstacleAhead(origin, forward types.Vec3) bool {
	if p.caster == nil {
		return false
	}
	low, high := p.probeOrigins(origin)
	if p.castObstacle(low, forward) != nil {
		return true
	}
	return p.castObstacle(high, forward) != nil
}

// FindObstacleAhead 返回前方的障碍（攻击动作用）
// 先检测高位再检测低位；没有障碍返回 nil
func (p *PerceptionService) FindObstacleAhead(origin, forward types.Vec3) types.Obstacle {
	if p.caster == nil {
		return nil
	}
	low, high := p.probeOrigins(origin)
	if obs := p.castObstacle(high, forward); obs != nil {
		return obs
	}
	return p.castObstacle(low, forward)
}

// DistanceToTarget 返回到目标的水平距离
// 目标缺失时返回 +Inf
func (p *PerceptionService) DistanceToTarget(origin types.Vec3, target types.TargetProvider) float64 {
	if target == nil {
		return math.Inf(1)
	}
	pos, ok := target.TargetPosition()
	if !ok {
		return math.Inf(1)
	}
	return types.Distance(origin.Flat(), pos.Flat())
}

// TargetWithinRadius 判断目标是否在水平半径内，目标缺失时为 false
func (p *PerceptionService) TargetWithinRadius(origin types.Vec3, target types.TargetProvider, radius float64) bool {
	return p.DistanceToTarget(origin, target) <= radius
}
