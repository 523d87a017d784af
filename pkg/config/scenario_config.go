package config

import (
	"fmt"
	"os"

	"github.com/decker502/holdout/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// 权重与间隔的下限（与波次规格构建时的钳制保持一致）
const (
	// MinEntryWeight 条目权重下限
	MinEntryWeight = 0.0001
	// MinSpawnIntervalSeconds 生成间隔下限（秒）
	MinSpawnIntervalSeconds = 0.05
	// MinStatMultiplier 血量/速度倍率下限
	MinStatMultiplier = 0.1
)

// EnemyDefinition 敌人类型定义
// 加载后不可变，通过指针在波次条目之间共享
type EnemyDefinition struct {
	ID         string  `yaml:"id"`         // 敌人类型ID，波次条目通过它引用
	Prefab     string  `yaml:"prefab"`     // 工厂句柄（用于调试视图的外观选择）
	BaseHealth int     `yaml:"baseHealth"` // 基础血量 (> 0)
	BaseSpeed  float64 `yaml:"baseSpeed"`  // 基础移动速度 (> 0)
	KillReward int     `yaml:"killReward"` // 击杀奖励分数 (>= 0)
}

// WaveEntry 波次中的单个敌人条目
type WaveEntry struct {
	EnemyID string           `yaml:"enemy"`  // 引用的敌人类型ID
	Enemy   *EnemyDefinition `yaml:"-"`      // 解析后的敌人定义
	Count   int              `yaml:"count"`  // 本波生成数量
	Weight  float64          `yaml:"weight"` // 随机选择权重
}

// WaveDefinition 人工编排的波次定义（列表下标 = 波次号 - 1）
type WaveDefinition struct {
	Entries              []WaveEntry `yaml:"entries"`
	SpawnIntervalSeconds float64     `yaml:"spawnIntervalSeconds"`
	ConcurrentAliveCap   int         `yaml:"concurrentAliveCap"`
	HealthMultiplier     float64     `yaml:"healthMultiplier"`
	SpeedMultiplier      float64     `yaml:"speedMultiplier"`
	// DamageMultiplier 保留字段，目前没有任何攻击路径读取它
	DamageMultiplier    float64 `yaml:"damageMultiplier"`
	IntermissionSeconds float64 `yaml:"intermissionSeconds"`
}

// TotalCount 返回本波所有条目数量之和（负数按 0 计）
func (w *WaveDefinition) TotalCount() int {
	total := 0
	for _, e := range w.Entries {
		if e.Count > 0 {
			total += e.Count
		}
	}
	return total
}

// DirectorConfig 波次导演配置
//
// 程序化参数只在超出人工波次且开启无尽模式时使用：
//
//	count    = max(1, FallbackStartCount + (n-1)*FallbackAddPerWave)
//	interval = max(MinSpawnInterval, FallbackSpawnInterval - SpawnIntervalDecayPerWave*(n-1))
//	cap      = min(FallbackAliveCap + AliveCapPerWave*(n-1), MaxAliveCap)
//	health   = HealthPerWave^(wave-1)
//	speed    = min(MaxSpeedMultiplier, SpeedPerWave^(wave-1))
type DirectorConfig struct {
	// EndlessBeyondLastDefined 人工波次耗尽后是否进入无尽模式
	EndlessBeyondLastDefined *bool `yaml:"endlessBeyondLastDefined"`
	// FirstWaveDelaySeconds 开局建造窗口（秒），之后开始第一波
	FirstWaveDelaySeconds *float64 `yaml:"firstWaveDelaySeconds"`

	FallbackEnemyID string           `yaml:"fallbackEnemy"`
	FallbackEnemy   *EnemyDefinition `yaml:"-"`

	FallbackStartCount        int     `yaml:"fallbackStartCount"`
	FallbackAddPerWave        int     `yaml:"fallbackAddPerWave"`
	FallbackSpawnInterval     float64 `yaml:"fallbackSpawnInterval"`
	SpawnIntervalDecayPerWave float64 `yaml:"spawnIntervalDecayPerWave"`
	MinSpawnInterval          float64 `yaml:"minSpawnInterval"`
	FallbackAliveCap          int     `yaml:"fallbackAliveCap"`
	AliveCapPerWave           int     `yaml:"aliveCapPerWave"`
	MaxAliveCap               int     `yaml:"maxAliveCap"`
	HealthPerWave             float64 `yaml:"healthPerWave"`
	SpeedPerWave              float64 `yaml:"speedPerWave"`
	MaxSpeedMultiplier        float64 `yaml:"maxSpeedMultiplier"`
	IntermissionSeconds       float64 `yaml:"intermissionSeconds"`
	// FallbackWaveCount 人工波次总数为 0 时替补条目的数量
	FallbackWaveCount int `yaml:"fallbackWaveCount"`
}

// Endless 返回是否开启无尽模式（未配置时默认开启）
func (d *DirectorConfig) Endless() bool {
	if d.EndlessBeyondLastDefined == nil {
		return true
	}
	return *d.EndlessBeyondLastDefined
}

// FirstWaveDelay 返回开局延迟（未配置时默认 5 秒）
func (d *DirectorConfig) FirstWaveDelay() float64 {
	if d.FirstWaveDelaySeconds == nil {
		return 5.0
	}
	return *d.FirstWaveDelaySeconds
}

// AgentConfig 敌人决策层参数
// 冷却时间单位为秒
type AgentConfig struct {
	AttackRange             float64 `yaml:"attackRange"`             // 进入攻击目标状态的距离阈值
	ObstacleDetectionRange  float64 `yaml:"obstacleDetectionRange"`  // 前方障碍探测距离
	ObstacleAttackDamage    int     `yaml:"obstacleAttackDamage"`    // 每次攻击障碍的伤害
	ObstacleAttackCooldown  float64 `yaml:"obstacleAttackCooldown"`  // 攻击障碍冷却
	TargetAttackDamage      int     `yaml:"targetAttackDamage"`      // 每次攻击目标的伤害
	TargetAttackCooldown    float64 `yaml:"targetAttackCooldown"`    // 攻击目标冷却
	RepathInterval          float64 `yaml:"repathInterval"`          // 重新寻路间隔
	InvincibilitySeconds    float64 `yaml:"invincibilitySeconds"`    // 受击后无敌时间（0 为无）
	ProbeHeight             float64 `yaml:"probeHeight"`             // 高位探测射线相对位置的高度
	ChaseHysteresisFactor   float64 `yaml:"chaseHysteresisFactor"`   // 攻击目标状态退出阈值倍数
	ObstacleCooldownOnEnter *bool   `yaml:"obstacleCooldownOnEnter"` // 进入攻击障碍状态时是否预置冷却
}

// ArmObstacleCooldown 进入攻击障碍状态时是否预置冷却（默认是）
func (a *AgentConfig) ArmObstacleCooldown() bool {
	if a.ObstacleCooldownOnEnter == nil {
		return true
	}
	return *a.ObstacleCooldownOnEnter
}

// PlayerConfig 玩家（目标）参数
type PlayerConfig struct {
	MaxHealth        int     `yaml:"maxHealth"`
	InvincibleFrames int     `yaml:"invincibleFrames"`
	SpawnX           float64 `yaml:"spawnX"`
	SpawnZ           float64 `yaml:"spawnZ"`
	// 武器（命中判定与敌人感知共用射线检测）
	WeaponDamage int     `yaml:"weaponDamage"`
	FireInterval float64 `yaml:"fireInterval"`
	WeaponRange  float64 `yaml:"weaponRange"`
}

// SpawnPointConfig 生成点配置
type SpawnPointConfig struct {
	X            float64 `yaml:"x"`
	Y            float64 `yaml:"y"`
	Z            float64 `yaml:"z"`
	SampleRadius float64 `yaml:"sampleRadius"`
	Weight       float64 `yaml:"weight"`
	Active       *bool   `yaml:"active"`
}

// IsActive 返回生成点初始是否激活（默认激活）
func (s *SpawnPointConfig) IsActive() bool {
	if s.Active == nil {
		return true
	}
	return *s.Active
}

// ArenaConfig 场地网格配置
type ArenaConfig struct {
	Width    int      `yaml:"width"`    // 网格列数
	Depth    int      `yaml:"depth"`    // 网格行数
	CellSize float64  `yaml:"cellSize"` // 单元格边长
	Blocks   [][2]int `yaml:"blocks"`   // 初始障碍方块坐标 [col, row]
	BlockHP  int      `yaml:"blockHP"`  // 方块耐久
}

// ScenarioConfig 场景配置文件结构
type ScenarioConfig struct {
	Name        string             `yaml:"name"`
	Enemies     []EnemyDefinition  `yaml:"enemies"`
	Waves       []WaveDefinition   `yaml:"waves"`
	SpawnPoints []SpawnPointConfig `yaml:"spawnPoints"`
	Director    DirectorConfig     `yaml:"director"`
	Agent       AgentConfig        `yaml:"agent"`
	Player      PlayerConfig       `yaml:"player"`
	Arena       ArenaConfig        `yaml:"arena"`

	enemyIndex map[string]*EnemyDefinition
}

// LoadScenarioConfig 从文件系统加载场景配置
// 参数：
//
//	filepath - 配置文件路径（相对或绝对路径）
//
// 返回：
//
//	*ScenarioConfig - 解析并校验后的配置
//	error - 读取、解析或校验失败时返回
func LoadScenarioConfig(filepath string) (*ScenarioConfig, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file %s: %w", filepath, err)
	}

	cfg, err := ParseScenarioConfig(data)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", filepath, err)
	}
	return cfg, nil
}

// LoadEmbeddedScenario 从嵌入资源加载场景配置
// 路径必须以 "data/" 开头，例如 "data/scenarios/default.yaml"
func LoadEmbeddedScenario(path string) (*ScenarioConfig, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded scenario %s: %w", path, err)
	}

	cfg, err := ParseScenarioConfig(data)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return cfg, nil
}

// LoadScenario 加载场景配置
// 嵌入资源中存在该路径时优先使用嵌入版本，否则从文件系统读取
func LoadScenario(path string) (*ScenarioConfig, error) {
	if embedded.IsInitialized() && embedded.Exists(path) {
		return LoadEmbeddedScenario(path)
	}
	return LoadScenarioConfig(path)
}

// ParseScenarioConfig 解析 YAML 数据，应用默认值、解析敌人引用并校验
//
// 默认值在解码之前写入，YAML 中出现的字段（包括显式的 0）都会覆盖默认值。
func ParseScenarioConfig(data []byte) (*ScenarioConfig, error) {
	cfg := defaultScenarioConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse scenario YAML: %w", err)
	}

	if err := cfg.resolveEnemies(); err != nil {
		return nil, err
	}

	if err := validateScenarioConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid scenario config: %w", err)
	}

	return &cfg, nil
}

// DefaultDirectorConfig 返回导演的默认配置（无尽模式与开局延迟保持未设置）
func DefaultDirectorConfig() DirectorConfig {
	return DirectorConfig{
		FallbackStartCount:        10,
		FallbackAddPerWave:        4,
		FallbackSpawnInterval:     0.8,
		SpawnIntervalDecayPerWave: 0.03,
		MinSpawnInterval:          0.25,
		FallbackAliveCap:          20,
		AliveCapPerWave:           2,
		MaxAliveCap:               150,
		HealthPerWave:             1.25,
		SpeedPerWave:              1.02,
		MaxSpeedMultiplier:        2.5,
		IntermissionSeconds:       18,
		FallbackWaveCount:         8,
	}
}

// defaultScenarioConfig 返回填好默认值的场景配置
func defaultScenarioConfig() ScenarioConfig {
	return ScenarioConfig{
		Director: DefaultDirectorConfig(),
		Agent: AgentConfig{
			AttackRange:            2.0,
			ObstacleDetectionRange: 1.5,
			ObstacleAttackDamage:   1,
			ObstacleAttackCooldown: 2.0,
			TargetAttackDamage:     10,
			TargetAttackCooldown:   3.0,
			RepathInterval:         0.2,
			ProbeHeight:            1.0,
			ChaseHysteresisFactor:  1.5,
		},
		Player: PlayerConfig{
			MaxHealth:        100,
			InvincibleFrames: 20,
			WeaponDamage:     5,
			FireInterval:     0.5,
			WeaponRange:      12,
		},
		Arena: ArenaConfig{
			Width:    32,
			Depth:    32,
			CellSize: 1.0,
			BlockHP:  3,
		},
	}
}

// UnmarshalYAML 解码波次定义，未出现的倍率默认为 1
func (w *WaveDefinition) UnmarshalYAML(value *yaml.Node) error {
	type plain WaveDefinition
	p := plain{HealthMultiplier: 1, SpeedMultiplier: 1, DamageMultiplier: 1}
	if err := value.Decode(&p); err != nil {
		return err
	}
	*w = WaveDefinition(p)
	return nil
}

// UnmarshalYAML 解码波次条目，未出现的权重默认为 1
func (e *WaveEntry) UnmarshalYAML(value *yaml.Node) error {
	type plain WaveEntry
	p := plain{Weight: 1}
	if err := value.Decode(&p); err != nil {
		return err
	}
	*e = WaveEntry(p)
	return nil
}

// UnmarshalYAML 解码生成点，未出现的采样半径默认为 2、权重默认为 1
func (s *SpawnPointConfig) UnmarshalYAML(value *yaml.Node) error {
	type plain SpawnPointConfig
	p := plain{SampleRadius: 2, Weight: 1}
	if err := value.Decode(&p); err != nil {
		return err
	}
	*s = SpawnPointConfig(p)
	return nil
}

// resolveEnemies 建立敌人索引并把波次条目中的ID解析为定义指针
func (cfg *ScenarioConfig) resolveEnemies() error {
	cfg.enemyIndex = make(map[string]*EnemyDefinition, len(cfg.Enemies))
	for i := range cfg.Enemies {
		def := &cfg.Enemies[i]
		if def.ID == "" {
			return fmt.Errorf("enemy #%d: id is required", i)
		}
		if _, dup := cfg.enemyIndex[def.ID]; dup {
			return fmt.Errorf("enemy %s: duplicate id", def.ID)
		}
		cfg.enemyIndex[def.ID] = def
	}

	for wi := range cfg.Waves {
		for ei := range cfg.Waves[wi].Entries {
			entry := &cfg.Waves[wi].Entries[ei]
			def, ok := cfg.GetEnemy(entry.EnemyID)
			if !ok {
				return fmt.Errorf("wave %d entry %d: unknown enemy %q", wi+1, ei, entry.EnemyID)
			}
			entry.Enemy = def
		}
	}

	if cfg.Director.FallbackEnemyID != "" {
		def, ok := cfg.GetEnemy(cfg.Director.FallbackEnemyID)
		if !ok {
			return fmt.Errorf("director: unknown fallback enemy %q", cfg.Director.FallbackEnemyID)
		}
		cfg.Director.FallbackEnemy = def
	}
	return nil
}

// validateScenarioConfig 校验配置合法性
//
// 波次数值越界（权重、数量、间隔等）不在这里报错，波次规格构建时会钳制到合法范围。
// 这里只拒绝结构性错误和运行时无法钳制的参数。
func validateScenarioConfig(cfg *ScenarioConfig) error {
	if len(cfg.Enemies) == 0 {
		return fmt.Errorf("at least one enemy definition is required")
	}

	for _, def := range cfg.Enemies {
		if def.BaseHealth <= 0 {
			return fmt.Errorf("enemy %s: baseHealth must be positive, got %d", def.ID, def.BaseHealth)
		}
		if def.BaseSpeed <= 0 {
			return fmt.Errorf("enemy %s: baseSpeed must be positive, got %.2f", def.ID, def.BaseSpeed)
		}
		if def.KillReward < 0 {
			return fmt.Errorf("enemy %s: killReward cannot be negative, got %d", def.ID, def.KillReward)
		}
	}

	for i, sp := range cfg.SpawnPoints {
		if sp.SampleRadius < 0 {
			return fmt.Errorf("spawn point %d: sampleRadius cannot be negative", i)
		}
		if sp.Weight < 0 || sp.Weight > 10 {
			return fmt.Errorf("spawn point %d: weight must be in [0, 10], got %.2f", i, sp.Weight)
		}
	}

	if cfg.Director.FirstWaveDelay() < 0 {
		return fmt.Errorf("director: firstWaveDelaySeconds cannot be negative")
	}

	if cfg.Arena.Width <= 0 || cfg.Arena.Depth <= 0 || cfg.Arena.CellSize <= 0 {
		return fmt.Errorf("arena: width, depth and cellSize must be positive")
	}
	if cfg.Arena.BlockHP <= 0 {
		return fmt.Errorf("arena: blockHP must be positive, got %d", cfg.Arena.BlockHP)
	}

	if cfg.Player.MaxHealth <= 0 {
		return fmt.Errorf("player: maxHealth must be positive, got %d", cfg.Player.MaxHealth)
	}

	if cfg.Agent.ChaseHysteresisFactor < 1 {
		return fmt.Errorf("agent: chaseHysteresisFactor must be at least 1, got %.2f", cfg.Agent.ChaseHysteresisFactor)
	}

	return nil
}

// GetEnemy 根据ID获取敌人定义
func (cfg *ScenarioConfig) GetEnemy(id string) (*EnemyDefinition, bool) {
	def, ok := cfg.enemyIndex[id]
	return def, ok
}

// TotalPossiblePoints 返回所有人工波次击杀奖励总和（Σ count × killReward）
func (cfg *ScenarioConfig) TotalPossiblePoints() int {
	total := 0
	for _, w := range cfg.Waves {
		for _, e := range w.Entries {
			if e.Enemy == nil || e.Count <= 0 {
				continue
			}
			total += e.Count * e.Enemy.KillReward
		}
	}
	return total
}
