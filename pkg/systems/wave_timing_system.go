package systems

import (
	"log"

	"github.com/decker502/holdout/pkg/components"
	"github.com/decker502/holdout/pkg/ecs"
)

// WaveTimingSystem 开局计时系统
//
// 职责：
//   - 管理开局建造窗口倒计时
//   - 倒计时结束时在本帧设置触发标志（只触发一次）
//   - 支持暂停/恢复
//
// 架构说明：
//   - 使用 WaveTimerComponent 存储状态
//   - 通过 Triggered() 与场景通信，由场景调用 WaveDirector.StartNextWave
//   - 不直接调用其他系统
type WaveTimingSystem struct {
	entityManager *ecs.EntityManager

	// timerEntityID 计时器组件所在的实体ID
	timerEntityID ecs.EntityID

	// triggered 本帧是否触发
	triggered bool

	// verbose 是否输出详细日志
	verbose bool
}

// NewWaveTimingSystem 创建开局计时系统
//
// 参数：
//   - em: 实体管理器
//   - firstWaveDelay: 开局倒计时（秒），<= 0 时第一次 Update 立即触发
func NewWaveTimingSystem(em *ecs.EntityManager, firstWaveDelay float64) *WaveTimingSystem {
	system := &WaveTimingSystem{
		entityManager: em,
	}

	entityID := em.CreateEntity()
	system.timerEntityID = entityID
	ecs.AddComponent(em, entityID, &components.WaveTimerComponent{
		CountdownSeconds: firstWaveDelay,
		InitialSeconds:   firstWaveDelay,
	})

	log.Printf("[WaveTimingSystem] Created timer entity (ID: %d), first wave in %.2fs", entityID, firstWaveDelay)
	return system
}

// SetVerbose 设置是否输出详细日志
func (s *WaveTimingSystem) SetVerbose(verbose bool) {
	s.verbose = verbose
}

// Update 更新计时器
//
// 执行流程：
//  1. 重置本帧触发标志
//  2. 暂停或已触发时跳过
//  3. 递减倒计时，<= 0 时触发
func (s *WaveTimingSystem) Update(deltaTime float64) {
	s.triggered = false

	timer := s.getTimerComponent()
	if timer == nil || timer.IsPaused || timer.Fired {
		return
	}

	timer.CountdownSeconds -= deltaTime
	timer.ElapsedSeconds += deltaTime

	if s.verbose {
		log.Printf("[WaveTimingSystem] Countdown: %.2fs", timer.CountdownSeconds)
	}

	if timer.CountdownSeconds <= 0 {
		timer.CountdownSeconds = 0
		timer.Fired = true
		s.triggered = true
		log.Printf("[WaveTimingSystem] First wave triggered after %.2fs", timer.ElapsedSeconds)
	}
}

// Skip 提前结束建造窗口，不设置触发标志
// 由场景在手动开始第一波时调用，之后计时器不会再触发
func (s *WaveTimingSystem) Skip() {
	timer := s.getTimerComponent()
	if timer == nil || timer.Fired {
		return
	}

	timer.Fired = true
	log.Printf("[WaveTimingSystem] Build window skipped with %.2fs left", timer.CountdownSeconds)
	timer.CountdownSeconds = 0
}

// Triggered 本帧是否触发了第一波
func (s *WaveTimingSystem) Triggered() bool {
	return s.triggered
}

// Remaining 返回剩余倒计时（秒）
func (s *WaveTimingSystem) Remaining() float64 {
	timer := s.getTimerComponent()
	if timer == nil {
		return 0
	}
	return timer.CountdownSeconds
}

// HasFired 是否已触发过
func (s *WaveTimingSystem) HasFired() bool {
	timer := s.getTimerComponent()
	return timer != nil && timer.Fired
}

// Pause 暂停计时器
func (s *WaveTimingSystem) Pause() {
	timer := s.getTimerComponent()
	if timer == nil {
		return
	}

	timer.IsPaused = true
	log.Printf("[WaveTimingSystem] Timer paused at %.2fs", timer.CountdownSeconds)
}

// Resume 恢复计时器
func (s *WaveTimingSystem) Resume() {
	timer := s.getTimerComponent()
	if timer == nil {
		return
	}

	timer.IsPaused = false
	log.Printf("[WaveTimingSystem] Timer resumed at %.2fs", timer.CountdownSeconds)
}

// IsPaused 是否暂停
func (s *WaveTimingSystem) IsPaused() bool {
	timer := s.getTimerComponent()
	return timer != nil && timer.IsPaused
}

// getTimerComponent 获取计时器组件
func (s *WaveTimingSystem) getTimerComponent() *components.WaveTimerComponent {
	timer, ok := ecs.GetComponent[*components.WaveTimerComponent](s.entityManager, s.timerEntityID)
	if !ok {
		return nil
	}
	return timer
}
