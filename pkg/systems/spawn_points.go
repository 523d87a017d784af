package systems

import (
	"log"
	"math"
	"math/rand"

	"github.com/decker502/holdout/pkg/config"
	"github.com/decker502/holdout/pkg/types"
)

// MaxSpawnPointWeight 生成点权重上限
const MaxSpawnPointWeight = 10.0

// SpawnPoint 敌人生成点
// 只保存配置；导演只读取，不修改（激活状态由外部通过 SetActive 切换）
type SpawnPoint struct {
	Position     types.Vec3 // 锚点
	SampleRadius float64    // 采样半径
	weight       float64
	active       bool
	sampler      types.NavSampler
}

// NewSpawnPoint 创建生成点
// 权重钳制到 [0, 10]，采样半径钳制到 >= 0
func NewSpawnPoint(position types.Vec3, sampleRadius, weight float64, active bool, sampler types.NavSampler) *SpawnPoint {
	return &SpawnPoint{
		Position:     position,
		SampleRadius: math.Max(0, sampleRadius),
		weight:       math.Min(MaxSpawnPointWeight, math.Max(0, weight)),
		active:       active,
		sampler:      sampler,
	}
}

// Weight 返回选择权重，未激活时为 0
func (sp *SpawnPoint) Weight() float64 {
	if !sp.active {
		return 0
	}
	return sp.weight
}

// SetActive 设置激活状态
func (sp *SpawnPoint) SetActive(active bool) {
	sp.active = active
}

// IsActive 返回是否激活
func (sp *SpawnPoint) IsActive() bool {
	return sp.active
}

// TryGetSpawnPosition 在锚点附近的可行走表面上采样生成位置
// 返回采样点而不是锚点本身；找不到可行走点时返回 false
func (sp *SpawnPoint) TryGetSpawnPosition() (types.Vec3, bool) {
	if sp.sampler == nil {
		return types.Vec3{}, false
	}
	return sp.sampler.SamplePosition(sp.Position, sp.SampleRadius)
}

// SpawnPointPool 生成点池
//
// 按权重随机选择激活的生成点：累积权重达到随机数的第一个点被选中；
// 浮点误差导致未选中时退回第一个权重为正的点。
type SpawnPointPool struct {
	points []*SpawnPoint
	rng    *rand.Rand
}

// NewSpawnPointPool 创建生成点池
// rng 为 nil 时使用固定种子，保证可复现
func NewSpawnPointPool(points []*SpawnPoint, rng *rand.Rand) *SpawnPointPool {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &SpawnPointPool{points: points, rng: rng}
}

// NewSpawnPointPoolFromConfig 根据场景配置创建生成点池
func NewSpawnPointPoolFromConfig(cfgs []config.SpawnPointConfig, sampler types.NavSampler, rng *rand.Rand) *SpawnPointPool {
	points := make([]*SpawnPoint, 0, len(cfgs))
	for _, c := range cfgs {
		points = append(points, NewSpawnPoint(types.Vec3{X: c.X, Y: c.Y, Z: c.Z}, c.SampleRadius, c.Weight, c.IsActive(), sampler))
	}
	log.Printf("[SpawnPointPool] Initialized %d spawn points", len(points))
	return NewSpawnPointPool(points, rng)
}

// Points 返回所有生成点
func (p *SpawnPointPool) Points() []*SpawnPoint {
	return p.points
}

// TotalWeight 返回所有激活生成点的权重和
func (p *SpawnPointPool) TotalWeight() float64 {
	total := 0.0
	for _, sp := range p.points {
		total += sp.Weight()
	}
	return total
}

// PickWeighted 按权重随机选择一个生成点
// 总权重为 0 时返回 nil
func (p *SpawnPointPool) PickWeighted() *SpawnPoint {
	total := p.TotalWeight()
	if total <= 0 {
		return nil
	}

	randNum := p.rng.Float64() * total
	cumulativeWeight := 0.0
	for _, sp := range p.points {
		w := sp.Weight()
		if w <= 0 {
			continue
		}
		cumulativeWeight += w
		if cumulativeWeight >= randNum {
			return sp
		}
	}

	// 浮点误差兜底：第一个权重为正的点
	for _, sp := range p.points {
		if sp.Weight() > 0 {
			return sp
		}
	}
	return nil
}

// TryGetSpawnPosition 选择生成点并采样生成位置
func (p *SpawnPointPool) TryGetSpawnPosition() (types.Vec3, bool) {
	sp := p.PickWeighted()
	if sp == nil {
		return types.Vec3{}, false
	}
	return sp.TryGetSpawnPosition()
}
