package components

// WaveTimerComponent 开局倒计时组件
// 存储开局建造窗口的计时状态，供 WaveTimingSystem 使用
// 注意：遵循 ECS 原则，组件仅存储数据，不包含方法
type WaveTimerComponent struct {
	// CountdownSeconds 剩余倒计时（秒）
	CountdownSeconds float64

	// InitialSeconds 初始倒计时（调试与遥测用）
	InitialSeconds float64

	// IsPaused 是否暂停，暂停时倒计时不递减
	IsPaused bool

	// Fired 是否已触发第一波（只触发一次）
	Fired bool

	// ElapsedSeconds 已经过的非暂停时间
	ElapsedSeconds float64
}
