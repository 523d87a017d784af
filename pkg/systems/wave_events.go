package systems

// WaveListener 波次事件观察者
//
// 所有回调在帧循环所在的 goroutine 上同步调用，且调用时导演不持有内部锁，
// 观察者可以在回调中读取导演的只读属性。
type WaveListener interface {
	// OnEnemyKilled 敌人被击杀
	OnEnemyKilled(agent EnemyAgent, reward int)
	// OnWaveChanged 新一波开始
	OnWaveChanged(waveNumber int)
	// OnNoMoreWaves 非无尽模式下人工波次全部完成
	OnNoMoreWaves()
	// OnFinalWaveReached 最后一个人工波次已完成，准备进入下一阶段
	OnFinalWaveReached()
}

// waveEventKind 事件类型
type waveEventKind int

const (
	eventEnemyKilled waveEventKind = iota
	eventWaveChanged
	eventNoMoreWaves
	eventFinalWaveReached
)

// waveEvent 在锁内收集、锁外派发的事件
type waveEvent struct {
	kind   waveEventKind
	agent  EnemyAgent
	reward int
	wave   int
}

// dispatch 把事件派发给观察者
func dispatch(listeners []WaveListener, events []waveEvent) {
	for _, ev := range events {
		for _, l := range listeners {
			switch ev.kind {
			case eventEnemyKilled:
				l.OnEnemyKilled(ev.agent, ev.reward)
			case eventWaveChanged:
				l.OnWaveChanged(ev.wave)
			case eventNoMoreWaves:
				l.OnNoMoreWaves()
			case eventFinalWaveReached:
				l.OnFinalWaveReached()
			}
		}
	}
}
