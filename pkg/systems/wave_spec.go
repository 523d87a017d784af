package systems

import (
	"log"
	"math"
	"math/rand"

	"github.com/decker502/holdout/pkg/config"
)

// WaveEntryRuntime 运行时波次条目
// Remaining 由加权选择消耗，只在导演内部使用
type WaveEntryRuntime struct {
	Enemy     *config.EnemyDefinition
	Remaining int
	Weight    float64
}

// WaveSpec 一波的具体规格（由 BuildWaveSpec 生成，导演在该波期间独占）
type WaveSpec struct {
	WaveNumber        int
	Entries           []*WaveEntryRuntime
	SpawnInterval     float64
	AliveCap          int
	TotalCount        int
	IntermissionAfter float64
	HealthMult        float64
	SpeedMult         float64
	// Procedural 是否为无尽模式程序化生成
	Procedural bool
	// Fallback 是否因人工波次为空而替换成替补条目
	Fallback bool
}

// RemainingCount 返回所有条目剩余数量之和
func (s *WaveSpec) RemainingCount() int {
	total := 0
	for _, e := range s.Entries {
		total += e.Remaining
	}
	return total
}

// BuildWaveSpec 构建第 waveNumber 波的规格（纯函数，不修改输入）
//
//   - waveNumber 对应人工波次：复制条目并钳制（count >= 0，weight >= 1e-4，
//     间隔 >= 0.05，上限 >= 1，倍率 >= 0.1，间歇 >= 0）；总数为 0 时替换为替补条目
//   - 超出人工波次且开启无尽模式（且有替补敌人）：程序化生成
//   - 其他情况：重复最后一个人工波次
func BuildWaveSpec(waves []config.WaveDefinition, director *config.DirectorConfig, waveNumber int) WaveSpec {
	if waveNumber < 1 {
		waveNumber = 1
	}

	if waveNumber <= len(waves) {
		return buildAuthoredSpec(&waves[waveNumber-1], director, waveNumber)
	}

	if director.Endless() && director.FallbackEnemy != nil {
		return buildProceduralSpec(len(waves), director, waveNumber)
	}

	if len(waves) == 0 {
		log.Printf("[WaveDirector] WARNING: No authored waves and no procedural fallback for wave %d", waveNumber)
		return WaveSpec{WaveNumber: waveNumber, AliveCap: 1, SpawnInterval: config.MinSpawnIntervalSeconds, HealthMult: 1, SpeedMult: 1}
	}

	// 重复最后一个人工波次
	spec := buildAuthoredSpec(&waves[len(waves)-1], director, len(waves))
	spec.WaveNumber = waveNumber
	return spec
}

// buildAuthoredSpec 从人工波次定义构建规格
func buildAuthoredSpec(w *config.WaveDefinition, director *config.DirectorConfig, waveNumber int) WaveSpec {
	spec := WaveSpec{
		WaveNumber:        waveNumber,
		SpawnInterval:     math.Max(config.MinSpawnIntervalSeconds, w.SpawnIntervalSeconds),
		AliveCap:          max(1, w.ConcurrentAliveCap),
		IntermissionAfter: math.Max(0, w.IntermissionSeconds),
		HealthMult:        math.Max(config.MinStatMultiplier, w.HealthMultiplier),
		SpeedMult:         math.Max(config.MinStatMultiplier, w.SpeedMultiplier),
	}

	for _, e := range w.Entries {
		if e.Enemy == nil {
			continue
		}
		count := max(0, e.Count)
		spec.Entries = append(spec.Entries, &WaveEntryRuntime{
			Enemy:     e.Enemy,
			Remaining: count,
			Weight:    math.Max(config.MinEntryWeight, e.Weight),
		})
		spec.TotalCount += count
	}

	// 人工波次为空：替换为替补条目，保证这一波不会悄悄跳过
	if spec.TotalCount == 0 && director.FallbackEnemy != nil {
		count := max(1, director.FallbackWaveCount)
		spec.Entries = []*WaveEntryRuntime{{Enemy: director.FallbackEnemy, Remaining: count, Weight: 1}}
		spec.TotalCount = count
		spec.Fallback = true
		log.Printf("[WaveDirector] WARNING: Wave %d has no enemies, using fallback %s x%d", waveNumber, director.FallbackEnemy.ID, count)
	}

	return spec
}

// buildProceduralSpec 无尽模式程序化规格
func buildProceduralSpec(authored int, director *config.DirectorConfig, waveNumber int) WaveSpec {
	engine := NewDifficultyEngine(director)
	n := waveNumber - authored

	count := engine.ProceduralCount(n)
	return WaveSpec{
		WaveNumber:        waveNumber,
		Entries:           []*WaveEntryRuntime{{Enemy: director.FallbackEnemy, Remaining: count, Weight: 1}},
		SpawnInterval:     engine.ProceduralSpawnInterval(n),
		AliveCap:          engine.ProceduralAliveCap(n),
		TotalCount:        count,
		IntermissionAfter: math.Max(0, director.IntermissionSeconds),
		HealthMult:        engine.HealthMultiplier(waveNumber),
		SpeedMult:         engine.SpeedMultiplier(waveNumber),
		Procedural:        true,
	}
}

// PickEntryWeighted 按权重选择一个剩余数量 > 0 的条目并消耗一个名额
//
// 剩余为 0 的条目不参与权重求和；全部耗尽时返回 nil。
func PickEntryWeighted(entries []*WaveEntryRuntime, rng *rand.Rand) *WaveEntryRuntime {
	totalWeight := 0.0
	for _, e := range entries {
		if e.Remaining > 0 {
			totalWeight += e.Weight
		}
	}
	if totalWeight <= 0 {
		return nil
	}

	randNum := rng.Float64() * totalWeight
	cumulativeWeight := 0.0
	var last *WaveEntryRuntime
	for _, e := range entries {
		if e.Remaining <= 0 {
			continue
		}
		last = e
		cumulativeWeight += e.Weight
		if cumulativeWeight >= randNum {
			e.Remaining--
			return e
		}
	}

	// 浮点误差兜底：最后一个可选条目
	if last != nil {
		last.Remaining--
	}
	return last
}
