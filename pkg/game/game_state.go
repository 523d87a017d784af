package game

import (
	"log"

	"github.com/decker502/holdout/pkg/systems"
)

// PointsSink 接收击杀奖励（由 world.Player 实现）
type PointsSink interface {
	AddPoints(points int)
}

// 对局结果
const (
	ResultNone = ""
	ResultWin  = "win"
	ResultLose = "lose"
)

// GameState 一局对战的计分状态
//
// 作为 WaveDirector 的观察者注册，累计分数、击杀数与波次进度。
// 每个场景持有自己的实例，不再使用全局单例。
type GameState struct {
	Score            int
	Kills            int
	CurrentWave      int
	FinalWaveReached bool

	IsGameOver bool
	GameResult string // ResultWin / ResultLose

	points PointsSink
}

// NewGameState 创建计分状态
// points 为 nil 时只在 GameState 内部计分
func NewGameState(points PointsSink) *GameState {
	return &GameState{points: points}
}

// OnEnemyKilled 实现 systems.WaveListener
func (gs *GameState) OnEnemyKilled(agent systems.EnemyAgent, reward int) {
	gs.Kills++
	gs.Score += reward
	if gs.points != nil {
		gs.points.AddPoints(reward)
	}
}

// OnWaveChanged 实现 systems.WaveListener
func (gs *GameState) OnWaveChanged(waveNumber int) {
	gs.CurrentWave = waveNumber
}

// OnNoMoreWaves 实现 systems.WaveListener，非无尽模式下坚持到最后即获胜
func (gs *GameState) OnNoMoreWaves() {
	gs.endGame(ResultWin)
}

// OnFinalWaveReached 实现 systems.WaveListener
func (gs *GameState) OnFinalWaveReached() {
	gs.FinalWaveReached = true
}

// MarkDefeated 玩家阵亡
func (gs *GameState) MarkDefeated() {
	gs.endGame(ResultLose)
}

// endGame 只记录第一次结束
func (gs *GameState) endGame(result string) {
	if gs.IsGameOver {
		return
	}
	gs.IsGameOver = true
	gs.GameResult = result
	log.Printf("[GameState] Game over: %s (wave %d, score %d, kills %d)", result, gs.CurrentWave, gs.Score, gs.Kills)
}
