package scenes

import (
	"log"
	"math/rand"

	"github.com/decker502/holdout/pkg/config"
	"github.com/decker502/holdout/pkg/ecs"
	"github.com/decker502/holdout/pkg/game"
	"github.com/decker502/holdout/pkg/systems"
	"github.com/decker502/holdout/pkg/types"
	"github.com/decker502/holdout/pkg/world"
)

// BattleScene 一局守点对战
//
// 持有场地、玩家与全部系统，按固定顺序推进：
//
//	开局计时 -> 敌人决策 -> 移动 -> 玩家武器 -> 波次导演 -> 玩家无敌帧 -> 清理实体
//
// 敌人决策在导演之前运行，本帧死亡的敌人在导演生成新敌人前已经从存活数中扣除。
type BattleScene struct {
	config *config.ScenarioConfig

	entityManager *ecs.EntityManager
	grid          *world.Grid
	player        *world.Player

	waveTiming *systems.WaveTimingSystem
	agents     *systems.EnemyAgentSystem
	movement   *systems.NavMovementSystem
	weapon     *systems.PlayerWeaponSystem
	director   *systems.WaveDirector
	spawnPool  *systems.SpawnPointPool

	gameState *game.GameState
	objective *game.Objective

	elapsed float64
	paused  bool
}

// NewBattleScene 根据场景配置创建对战
// rng 为 nil 时使用固定种子，便于重放
func NewBattleScene(cfg *config.ScenarioConfig, rng *rand.Rand) *BattleScene {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	em := ecs.NewEntityManager()
	grid := world.NewArena(cfg.Arena)
	player := world.NewPlayer(
		types.Vec3{X: cfg.Player.SpawnX, Z: cfg.Player.SpawnZ},
		cfg.Player.MaxHealth,
		cfg.Player.InvincibleFrames,
	)

	perception := systems.NewPerceptionService(grid, cfg.Agent.ObstacleDetectionRange, cfg.Agent.ProbeHeight)
	agents := systems.NewEnemyAgentSystem(em, perception, cfg.Agent)
	agents.SetNavAgentFactory(func(position types.Vec3) types.PathAgent {
		return world.NewNavAgent(grid, position)
	})
	agents.SetDefaultTarget(player)
	agents.SetNavVersionSource(grid)

	pool := systems.NewSpawnPointPoolFromConfig(cfg.SpawnPoints, grid, rng)
	director := systems.NewWaveDirector(cfg, agents, pool, rng)
	agents.SetDeathHandler(director)

	gameState := game.NewGameState(player)
	objective := game.NewObjective("Survive the final wave", nil)
	director.AddListener(gameState)
	director.AddListener(objective)

	s := &BattleScene{
		config:        cfg,
		entityManager: em,
		grid:          grid,
		player:        player,
		waveTiming:    systems.NewWaveTimingSystem(em, cfg.Director.FirstWaveDelay()),
		agents:        agents,
		movement:      systems.NewNavMovementSystem(em),
		weapon:        systems.NewPlayerWeaponSystem(agents, player, grid, cfg.Player),
		director:      director,
		spawnPool:     pool,
		gameState:     gameState,
		objective:     objective,
	}

	log.Printf("[BattleScene] Scenario %q ready: %d spawn points, first wave in %.1fs",
		cfg.Name, len(pool.Points()), cfg.Director.FirstWaveDelay())
	return s
}

// NewBattleSceneFromPath 加载场景文件并创建对战
func NewBattleSceneFromPath(path string, rng *rand.Rand) (*BattleScene, error) {
	cfg, err := config.LoadScenario(path)
	if err != nil {
		return nil, err
	}
	return NewBattleScene(cfg, rng), nil
}

// SetVerbose 设置所有系统是否输出详细日志
func (s *BattleScene) SetVerbose(verbose bool) {
	s.waveTiming.SetVerbose(verbose)
	s.agents.SetVerbose(verbose)
	s.weapon.SetVerbose(verbose)
	s.director.SetVerbose(verbose)
}

// AddListener 注册额外的波次观察者（例如遥测）
func (s *BattleScene) AddListener(l systems.WaveListener) {
	s.director.AddListener(l)
}

// Update 推进一帧
func (s *BattleScene) Update(deltaTime float64) {
	if s.paused || s.gameState.IsGameOver {
		return
	}
	s.elapsed += deltaTime

	s.waveTiming.Update(deltaTime)
	if s.waveTiming.Triggered() {
		s.director.StartNextWave()
	}

	s.agents.Update(deltaTime)
	s.movement.Update(deltaTime)
	s.weapon.Update(deltaTime)
	s.director.Update(deltaTime)
	s.player.Tick()

	if !s.player.IsAlive() {
		s.gameState.MarkDefeated()
	}

	s.entityManager.RemoveMarkedEntities()
}

// Pause 暂停对战（开局计时同时暂停）
func (s *BattleScene) Pause() {
	s.paused = true
	s.waveTiming.Pause()
}

// Resume 恢复对战
func (s *BattleScene) Resume() {
	s.paused = false
	s.waveTiming.Resume()
}

// SkipWave 立即开始下一波
// 建造窗口内调用时提前开始第一波，计时器之后不再触发
func (s *BattleScene) SkipWave() {
	if s.gameState.IsGameOver {
		return
	}
	s.waveTiming.Skip()
	s.director.SkipWave()
}

// SetEndless 切换无尽模式
func (s *BattleScene) SetEndless(enabled bool) {
	s.director.SetEndless(enabled)
}

// IsPaused 返回是否暂停
func (s *BattleScene) IsPaused() bool {
	return s.paused
}

// IsFinished 实现 game.Finisher
func (s *BattleScene) IsFinished() bool {
	return s.gameState.IsGameOver
}

// Elapsed 返回对战已进行的秒数
func (s *BattleScene) Elapsed() float64 { return s.elapsed }

// Director 返回波次导演
func (s *BattleScene) Director() *systems.WaveDirector { return s.director }

// Agents 返回敌人系统
func (s *BattleScene) Agents() *systems.EnemyAgentSystem { return s.agents }

// Weapon 返回玩家武器系统
func (s *BattleScene) Weapon() *systems.PlayerWeaponSystem { return s.weapon }

// GameState 返回计分状态
func (s *BattleScene) GameState() *game.GameState { return s.gameState }

// Objective 返回关卡目标
func (s *BattleScene) Objective() *game.Objective { return s.objective }

// Player 返回玩家
func (s *BattleScene) Player() *world.Player { return s.player }

// Grid 返回场地
func (s *BattleScene) Grid() *world.Grid { return s.grid }

// SpawnPool 返回生成点池
func (s *BattleScene) SpawnPool() *systems.SpawnPointPool { return s.spawnPool }
