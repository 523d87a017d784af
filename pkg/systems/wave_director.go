package systems

import (
	"log"
	"math/rand"
	"sync"

	"github.com/decker502/holdout/pkg/config"
	"github.com/decker502/holdout/pkg/types"
)

// WavePhase 波次生命周期阶段
type WavePhase int

const (
	// WavePhaseIdle 尚未开始第一波
	WavePhaseIdle WavePhase = iota
	// WavePhaseSpawning 正在按节奏生成敌人
	WavePhaseSpawning
	// WavePhaseDraining 生成完毕，等待场上敌人清空
	WavePhaseDraining
	// WavePhaseIntermission 波间休息倒计时
	WavePhaseIntermission
	// WavePhaseFinished 非无尽模式下所有波次完成（终态）
	WavePhaseFinished
)

// String 返回阶段名称
func (p WavePhase) String() string {
	switch p {
	case WavePhaseIdle:
		return "Idle"
	case WavePhaseSpawning:
		return "Spawning"
	case WavePhaseDraining:
		return "Draining"
	case WavePhaseIntermission:
		return "Intermission"
	case WavePhaseFinished:
		return "Finished"
	default:
		return "Unknown"
	}
}

// EnemySpawner 敌人生成器（由 EnemyAgentSystem 实现）
type EnemySpawner interface {
	SpawnEnemy(def *config.EnemyDefinition, position types.Vec3, healthMult, speedMult float64) (EnemyAgent, bool)
}

// SpawnPositionSource 生成位置来源（由 SpawnPointPool 实现）
type SpawnPositionSource interface {
	TryGetSpawnPosition() (types.Vec3, bool)
}

// waveTask 一波的可恢复任务
//
// 每次 resume 从上次挂起的位置继续，在以下位置挂起等待下一帧：
// 存活数达到上限、生成间隔未到、等待场上清空、波间倒计时。
// 被取消的任务直接丢弃，已生成的敌人继续向全局存活计数汇报死亡。
type waveTask struct {
	spec             WaveSpec
	nextSpawnAt      float64
	intermissionLeft float64
	spawned          int
	draining         bool
	intermission     bool
}

// DirectorSnapshot 导演状态快照（调试视图与遥测使用）
type DirectorSnapshot struct {
	Wave             int     `json:"wave"`
	Phase            string  `json:"phase"`
	EnemiesAlive     int     `json:"enemiesAlive"`
	Spawned          int     `json:"spawned"`
	ToSpawn          int     `json:"toSpawn"`
	Remaining        int     `json:"remaining"`
	WavesRemaining   int     `json:"wavesRemaining"`
	IntermissionLeft float64 `json:"intermissionLeft"`
	AliveCap         int     `json:"aliveCap"`
}

// WaveDirector 波次导演
//
// 职责：
//   - 构建每一波的规格（人工 / 程序化 / 重复最后一波）
//   - 以可恢复任务驱动生成循环，遵守生成间隔与同时存活上限
//   - 通过死亡通知维护全局存活计数，清空后进入波间倒计时并开始下一波
//   - 向观察者派发击杀、换波、结束等事件
//
// 所有修改都发生在帧循环 goroutine 上；mu 只保护计数器，使只读属性可以
// 从其他 goroutine（遥测）安全读取。事件在释放锁之后派发。
type WaveDirector struct {
	mu sync.Mutex

	waves    []config.WaveDefinition
	director *config.DirectorConfig
	spawner  EnemySpawner
	points   SpawnPositionSource
	rng      *rand.Rand

	listeners []WaveListener

	phase         WavePhase
	currentWave   int
	enemiesAlive  int
	task          *waveTask
	now           float64
	totalPossible int

	// 统计
	spawnFailures int

	verbose bool
}

// NewWaveDirector 创建波次导演
//
// 参数：
//   - cfg: 场景配置（波次与导演参数）
//   - spawner: 敌人生成器
//   - points: 生成位置来源
//   - rng: 随机数源（nil 时使用固定种子）
func NewWaveDirector(cfg *config.ScenarioConfig, spawner EnemySpawner, points SpawnPositionSource, rng *rand.Rand) *WaveDirector {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	d := &WaveDirector{
		waves:         cfg.Waves,
		director:      &cfg.Director,
		spawner:       spawner,
		points:        points,
		rng:           rng,
		phase:         WavePhaseIdle,
		totalPossible: cfg.TotalPossiblePoints(),
	}
	log.Printf("[WaveDirector] Created with %d authored waves (endless: %v)", len(cfg.Waves), cfg.Director.Endless())
	return d
}

// SetVerbose 设置是否输出详细日志
func (d *WaveDirector) SetVerbose(verbose bool) {
	d.verbose = verbose
}

// AddListener 注册事件观察者
func (d *WaveDirector) AddListener(l WaveListener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, l)
}

// snapshotListeners 复制观察者列表（锁内调用）
func (d *WaveDirector) snapshotListeners() []WaveListener {
	out := make([]WaveListener, len(d.listeners))
	copy(out, d.listeners)
	return out
}

// BuildSpec 构建第 waveNumber 波的规格（纯函数）
func (d *WaveDirector) BuildSpec(waveNumber int) WaveSpec {
	return BuildWaveSpec(d.waves, d.director, waveNumber)
}

// StartNextWave 开始下一波
//
// 当前波次号等于人工波次数时先通知"最后一波已完成"；非无尽模式随即进入
// Finished 并通知"没有更多波次"。Finished 之后再次调用不做任何事。
// 进行中的生成任务会被放弃。
func (d *WaveDirector) StartNextWave() {
	d.mu.Lock()
	events := d.startNextWaveLocked()
	listeners := d.snapshotListeners()
	d.mu.Unlock()

	dispatch(listeners, events)
}

// SkipWave 放弃当前波次剩余的生成并立即开始下一波
// 已生成的敌人保留在场上，继续计入存活数
func (d *WaveDirector) SkipWave() {
	d.mu.Lock()
	if d.task != nil {
		log.Printf("[WaveDirector] Skipping wave %d (%d/%d spawned)", d.currentWave, d.task.spawned, d.task.spec.TotalCount)
	}
	events := d.startNextWaveLocked()
	listeners := d.snapshotListeners()
	d.mu.Unlock()

	dispatch(listeners, events)
}

// SetEndless 运行中切换无尽模式
// 只影响之后的换波判断；已进入 Finished 的导演不会恢复
func (d *WaveDirector) SetEndless(enabled bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.director.EndlessBeyondLastDefined = &enabled
	log.Printf("[WaveDirector] Endless mode set to %v", enabled)
}

// Endless 返回当前是否开启无尽模式
func (d *WaveDirector) Endless() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.director.Endless()
}

// startNextWaveLocked 在持有锁时切换波次，返回待派发的事件
func (d *WaveDirector) startNextWaveLocked() []waveEvent {
	if d.phase == WavePhaseFinished {
		return nil
	}

	// 放弃进行中的任务
	d.task = nil

	var events []waveEvent
	if d.currentWave == len(d.waves) {
		events = append(events, waveEvent{kind: eventFinalWaveReached})

		if !d.director.Endless() {
			d.phase = WavePhaseFinished
			log.Printf("[WaveDirector] All %d waves completed, no more waves", len(d.waves))
			return append(events, waveEvent{kind: eventNoMoreWaves})
		}
	}

	d.currentWave++
	spec := d.BuildSpec(d.currentWave)
	d.task = &waveTask{spec: spec, nextSpawnAt: d.now}
	d.phase = WavePhaseSpawning

	log.Printf("[WaveDirector] Wave %d started: %d enemies, interval %.2fs, cap %d, health x%.2f, speed x%.2f",
		d.currentWave, spec.TotalCount, spec.SpawnInterval, spec.AliveCap, spec.HealthMult, spec.SpeedMult)

	return append(events, waveEvent{kind: eventWaveChanged, wave: d.currentWave})
}

// Update 推进内部时钟并恢复当前波次任务
func (d *WaveDirector) Update(deltaTime float64) {
	d.mu.Lock()
	d.now += deltaTime
	events := d.resumeLocked(deltaTime)
	listeners := d.snapshotListeners()
	d.mu.Unlock()

	dispatch(listeners, events)
}

// resumeLocked 从上次挂起点继续执行当前任务，直到再次挂起
func (d *WaveDirector) resumeLocked(deltaTime float64) []waveEvent {
	t := d.task
	if t == nil {
		return nil
	}

	// 生成阶段
	for !t.draining && t.spawned < t.spec.TotalCount {
		// 挂起：存活数达到上限
		if d.enemiesAlive >= t.spec.AliveCap {
			return nil
		}
		// 挂起：生成间隔未到
		if d.now < t.nextSpawnAt {
			return nil
		}

		entry := PickEntryWeighted(t.spec.Entries, d.rng)
		if entry == nil {
			return nil
		}

		pos, ok := d.points.TryGetSpawnPosition()
		if !ok {
			// 生成失败不消耗名额，下一帧重试
			entry.Remaining++
			d.spawnFailures++
			if d.verbose {
				log.Printf("[WaveDirector] No valid spawn position, retrying next tick")
			}
			return nil
		}

		if _, ok := d.spawner.SpawnEnemy(entry.Enemy, pos, t.spec.HealthMult, t.spec.SpeedMult); !ok {
			entry.Remaining++
			d.spawnFailures++
			return nil
		}

		t.spawned++
		d.enemiesAlive++
		t.nextSpawnAt = d.now + t.spec.SpawnInterval
		if d.verbose {
			log.Printf("[WaveDirector] Spawned %s (%d/%d), alive %d", entry.Enemy.ID, t.spawned, t.spec.TotalCount, d.enemiesAlive)
		}
	}

	// 清场阶段
	if !t.draining {
		t.draining = true
		d.phase = WavePhaseDraining
		if d.verbose {
			log.Printf("[WaveDirector] Wave %d fully spawned, draining %d enemies", d.currentWave, d.enemiesAlive)
		}
	}
	if !t.intermission {
		if d.enemiesAlive > 0 {
			return nil
		}
		t.intermission = true
		t.intermissionLeft = t.spec.IntermissionAfter
		d.phase = WavePhaseIntermission
		log.Printf("[WaveDirector] Wave %d cleared, intermission %.1fs", d.currentWave, t.intermissionLeft)
	}

	// 波间倒计时
	if t.intermissionLeft > 0 {
		t.intermissionLeft -= deltaTime
		return nil
	}

	return d.startNextWaveLocked()
}

// OnEnemyDeath 敌人死亡通知，实现 EnemyDeathHandler
// 存活数按全局计数递减（不区分波次），并向观察者派发击杀奖励
func (d *WaveDirector) OnEnemyDeath(agent EnemyAgent, reward int) {
	d.mu.Lock()
	d.enemiesAlive = max(0, d.enemiesAlive-1)
	listeners := d.snapshotListeners()
	d.mu.Unlock()

	dispatch(listeners, []waveEvent{{kind: eventEnemyKilled, agent: agent, reward: reward}})
}

// CurrentWaveNumber 当前波次号（尚未开始为 0）
func (d *WaveDirector) CurrentWaveNumber() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.currentWave
}

// WavesRemaining 剩余的人工波次数
func (d *WaveDirector) WavesRemaining() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return max(0, len(d.waves)-d.currentWave)
}

// TotalWavesDefined 人工波次总数
func (d *WaveDirector) TotalWavesDefined() int {
	return len(d.waves)
}

// EnemiesAlive 当前存活敌人数
func (d *WaveDirector) EnemiesAlive() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.enemiesAlive
}

// IsSpawning 是否处于生成阶段
func (d *WaveDirector) IsSpawning() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.phase == WavePhaseSpawning
}

// Phase 当前阶段
func (d *WaveDirector) Phase() WavePhase {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.phase
}

// EnemiesSpawnedThisWave 本波已生成数量
func (d *WaveDirector) EnemiesSpawnedThisWave() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.task == nil {
		return 0
	}
	return d.task.spawned
}

// EnemiesToSpawnThisWave 本波应生成总数
func (d *WaveDirector) EnemiesToSpawnThisWave() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.task == nil {
		return 0
	}
	return d.task.spec.TotalCount
}

// TotalPossiblePoints 所有人工波次的击杀奖励总和
func (d *WaveDirector) TotalPossiblePoints() int {
	return d.totalPossible
}

// SpawnFailures 累计生成失败次数
func (d *WaveDirector) SpawnFailures() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.spawnFailures
}

// Snapshot 返回当前状态快照
func (d *WaveDirector) Snapshot() DirectorSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := DirectorSnapshot{
		Wave:           d.currentWave,
		Phase:          d.phase.String(),
		EnemiesAlive:   d.enemiesAlive,
		WavesRemaining: max(0, len(d.waves)-d.currentWave),
	}
	if d.task != nil {
		s.Spawned = d.task.spawned
		s.ToSpawn = d.task.spec.TotalCount
		s.Remaining = d.task.spec.RemainingCount()
		s.AliveCap = d.task.spec.AliveCap
		if d.task.intermission {
			s.IntermissionLeft = max(0, d.task.intermissionLeft)
		}
	}
	return s
}
