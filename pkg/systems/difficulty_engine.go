package systems

import (
	"math"

	"github.com/decker502/holdout/pkg/config"
)

// DifficultyEngine 难度引擎
// 负责无尽模式下的程序化缩放，为波次规格构建提供难度数据
type DifficultyEngine struct {
	director *config.DirectorConfig
}

// NewDifficultyEngine 创建新的难度引擎实例
func NewDifficultyEngine(director *config.DirectorConfig) *DifficultyEngine {
	return &DifficultyEngine{
		director: director,
	}
}

// ProceduralCount 计算程序化波次的敌人数量
// 公式: count = max(1, FallbackStartCount + (n-1) * FallbackAddPerWave)
// 参数:
//
//	n - 超出人工波次后的序号（从1开始）
func (d *DifficultyEngine) ProceduralCount(n int) int {
	count := d.director.FallbackStartCount + (n-1)*d.director.FallbackAddPerWave
	if count < 1 {
		return 1
	}
	return count
}

// ProceduralSpawnInterval 计算程序化波次的生成间隔
// 公式: interval = max(MinSpawnInterval, FallbackSpawnInterval - SpawnIntervalDecayPerWave * (n-1))
func (d *DifficultyEngine) ProceduralSpawnInterval(n int) float64 {
	interval := d.director.FallbackSpawnInterval - d.director.SpawnIntervalDecayPerWave*float64(n-1)
	return math.Max(d.director.MinSpawnInterval, interval)
}

// ProceduralAliveCap 计算程序化波次的同时存活上限
// 公式: cap = min(FallbackAliveCap + AliveCapPerWave * (n-1), MaxAliveCap)，至少为 1
func (d *DifficultyEngine) ProceduralAliveCap(n int) int {
	aliveCap := d.director.FallbackAliveCap + d.director.AliveCapPerWave*(n-1)
	if aliveCap > d.director.MaxAliveCap {
		aliveCap = d.director.MaxAliveCap
	}
	if aliveCap < 1 {
		return 1
	}
	return aliveCap
}

// HealthMultiplier 计算血量倍率
// 公式: HealthPerWave ^ (waveNumber-1)
// 参数:
//
//	waveNumber - 绝对波次号（从1开始）
func (d *DifficultyEngine) HealthMultiplier(waveNumber int) float64 {
	return math.Pow(d.director.HealthPerWave, float64(max(0, waveNumber-1)))
}

// SpeedMultiplier 计算速度倍率
// 公式: min(MaxSpeedMultiplier, SpeedPerWave ^ (waveNumber-1))
func (d *DifficultyEngine) SpeedMultiplier(waveNumber int) float64 {
	return math.Min(d.director.MaxSpeedMultiplier, math.Pow(d.director.SpeedPerWave, float64(max(0, waveNumber-1))))
}
