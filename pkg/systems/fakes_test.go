package systems

import (
	"testing"

	"github.com/decker502/holdout/pkg/config"
	"github.com/decker502/holdout/pkg/ecs"
	"github.com/decker502/holdout/pkg/types"
)

// 测试辅助类型

// fakeObstacle 可计数的障碍
type fakeObstacle struct {
	hitPoints int
	damage    int
	hits      int
	broken    bool
}

func (o *fakeObstacle) TakeDamage(amount int) {
	if o.broken {
		return
	}
	o.hits++
	o.damage += amount
	o.hitPoints -= amount
	if o.hitPoints <= 0 {
		o.Break()
	}
}

func (o *fakeObstacle) Break()         { o.broken = true }
func (o *fakeObstacle) IsBroken() bool { return o.broken }

// fakeCaster 按射线高度决定是否命中
// 起点 Y < 0.5 视为低位射线
type fakeCaster struct {
	obstacle types.Obstacle
	low      bool
	high     bool
	casts    []types.Vec3
}

func (c *fakeCaster) Cast(origin, direction types.Vec3, maxDistance float64, layer types.LayerMask) (types.RayHit, bool) {
	c.casts = append(c.casts, origin)
	if layer&types.LayerObstacles == 0 || c.obstacle == nil {
		return types.RayHit{}, false
	}
	isLow := origin.Y < 0.5
	if (isLow && c.low) || (!isLow && c.high) {
		return types.RayHit{Point: origin, Distance: maxDistance / 2, Obstacle: c.obstacle}, true
	}
	return types.RayHit{}, false
}

// fakePathAgent 记录调用的导航代理
type fakePathAgent struct {
	position     types.Vec3
	forward      types.Vec3
	speed        float64
	stopped      bool
	destination  types.Vec3
	destinations int
}

func newFakePathAgent(pos types.Vec3) *fakePathAgent {
	return &fakePathAgent{position: pos, forward: types.Vec3{Z: 1}}
}

func (a *fakePathAgent) SetDestination(p types.Vec3) {
	a.destination = p
	a.destinations++
}
func (a *fakePathAgent) Position() types.Vec3    { return a.position }
func (a *fakePathAgent) Forward() types.Vec3     { return a.forward }
func (a *fakePathAgent) Speed() float64          { return a.speed }
func (a *fakePathAgent) SetSpeed(speed float64)  { a.speed = speed }
func (a *fakePathAgent) Stopped() bool           { return a.stopped }
func (a *fakePathAgent) SetStopped(stopped bool) { a.stopped = stopped }

// fakeTarget 记录受到的伤害
type fakeTarget struct {
	position types.Vec3
	absent   bool
	damage   int
	hits     int
}

func (t *fakeTarget) TargetPosition() (types.Vec3, bool) {
	if t.absent {
		return types.Vec3{}, false
	}
	return t.position, true
}

func (t *fakeTarget) TakeDamage(amount int, ignoreInvincibility bool) {
	t.hits++
	t.damage += amount
}

// recordingDeathHandler 记录死亡通知
type recordingDeathHandler struct {
	deaths  []EnemyAgent
	rewards []int
}

func (h *recordingDeathHandler) OnEnemyDeath(agent EnemyAgent, reward int) {
	h.deaths = append(h.deaths, agent)
	h.rewards = append(h.rewards, reward)
}

// recordingListener 记录波次事件
type recordingListener struct {
	kills        int
	rewards      int
	waves        []int
	noMoreWaves  int
	finalReached int
}

func (l *recordingListener) OnEnemyKilled(agent EnemyAgent, reward int) {
	l.kills++
	l.rewards += reward
}
func (l *recordingListener) OnWaveChanged(waveNumber int) { l.waves = append(l.waves, waveNumber) }
func (l *recordingListener) OnNoMoreWaves()               { l.noMoreWaves++ }
func (l *recordingListener) OnFinalWaveReached()          { l.finalReached++ }

// fakeSpawner 生成不带实体的句柄
type fakeSpawner struct {
	nextID  ecs.EntityID
	spawned []EnemyAgent
	defs    []*config.EnemyDefinition
	fail    bool
}

func (s *fakeSpawner) SpawnEnemy(def *config.EnemyDefinition, position types.Vec3, healthMult, speedMult float64) (EnemyAgent, bool) {
	if s.fail {
		return EnemyAgent{}, false
	}
	s.nextID++
	agent := EnemyAgent{id: s.nextID}
	s.spawned = append(s.spawned, agent)
	s.defs = append(s.defs, def)
	return agent, true
}

// fakePositions 固定结果的生成位置来源
type fakePositions struct {
	fail  bool
	calls int
}

func (p *fakePositions) TryGetSpawnPosition() (types.Vec3, bool) {
	p.calls++
	if p.fail {
		return types.Vec3{}, false
	}
	return types.Vec3{X: 1, Z: 1}, true
}

// fakeSampler 返回锚点偏移半个半径的位置
type fakeSampler struct {
	fail bool
}

func (s *fakeSampler) SamplePosition(center types.Vec3, radius float64) (types.Vec3, bool) {
	if s.fail {
		return types.Vec3{}, false
	}
	return center.Add(types.Vec3{X: radius / 2}), true
}

func boolPtr(b bool) *bool { return &b }

func floatPtr(f float64) *float64 { return &f }

// mustParseScenario 解析测试场景
func mustParseScenario(t testing.TB, yamlText string) *config.ScenarioConfig {
	t.Helper()
	cfg, err := config.ParseScenarioConfig([]byte(yamlText))
	if err != nil {
		t.Fatalf("ParseScenarioConfig failed: %v", err)
	}
	return cfg
}
