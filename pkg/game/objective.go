package game

import (
	"log"

	"github.com/decker502/holdout/pkg/systems"
)

// Objective 关卡目标：撑过最后一个人工波次
//
// 只关心 OnFinalWaveReached，其余事件忽略。完成回调只调用一次。
type Objective struct {
	Description string
	completed   bool
	onComplete  func()
}

// NewObjective 创建目标
func NewObjective(description string, onComplete func()) *Objective {
	return &Objective{Description: description, onComplete: onComplete}
}

// IsCompleted 目标是否完成
func (o *Objective) IsCompleted() bool {
	return o.completed
}

// OnFinalWaveReached 实现 systems.WaveListener
func (o *Objective) OnFinalWaveReached() {
	if o.completed {
		return
	}
	o.completed = true
	log.Printf("[Objective] Completed: %s", o.Description)
	if o.onComplete != nil {
		o.onComplete()
	}
}

// OnEnemyKilled 实现 systems.WaveListener，击杀不影响目标
func (o *Objective) OnEnemyKilled(agent systems.EnemyAgent, reward int) {}

// OnWaveChanged 实现 systems.WaveListener，换波不影响目标
func (o *Objective) OnWaveChanged(waveNumber int) {}

// OnNoMoreWaves 实现 systems.WaveListener
// 目标已在最后一波完成时达成，这里无需处理
func (o *Objective) OnNoMoreWaves() {}
