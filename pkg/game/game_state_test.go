package game

import (
	"testing"

	"github.com/decker502/holdout/pkg/systems"
)

// pointsRecorder 记录收到的奖励
type pointsRecorder struct {
	total int
}

func (p *pointsRecorder) AddPoints(points int) { p.total += points }

func TestGameState_Listener(t *testing.T) {
	var _ systems.WaveListener = (*GameState)(nil)
	var _ systems.WaveListener = (*Objective)(nil)

	points := &pointsRecorder{}
	gs := NewGameState(points)

	gs.OnWaveChanged(1)
	gs.OnEnemyKilled(systems.EnemyAgent{}, 10)
	gs.OnEnemyKilled(systems.EnemyAgent{}, 15)
	gs.OnWaveChanged(2)

	if gs.Kills != 2 || gs.Score != 25 {
		t.Errorf("expected 2 kills / 25 score, got %d / %d", gs.Kills, gs.Score)
	}
	if points.total != 25 {
		t.Errorf("expected points forwarded to sink, got %d", points.total)
	}
	if gs.CurrentWave != 2 {
		t.Errorf("expected current wave 2, got %d", gs.CurrentWave)
	}
	if gs.IsGameOver {
		t.Error("game should not be over yet")
	}
}

func TestGameState_GameOver(t *testing.T) {
	t.Run("坚持到最后获胜", func(t *testing.T) {
		gs := NewGameState(nil)
		gs.OnFinalWaveReached()
		gs.OnNoMoreWaves()

		if !gs.FinalWaveReached || !gs.IsGameOver || gs.GameResult != ResultWin {
			t.Errorf("expected win, got over=%v result=%q", gs.IsGameOver, gs.GameResult)
		}
	})

	t.Run("只记录第一次结束", func(t *testing.T) {
		gs := NewGameState(nil)
		gs.MarkDefeated()
		gs.OnNoMoreWaves()

		if gs.GameResult != ResultLose {
			t.Errorf("expected first result to stick, got %q", gs.GameResult)
		}
	})

	t.Run("没有积分接收者", func(t *testing.T) {
		gs := NewGameState(nil)
		gs.OnEnemyKilled(systems.EnemyAgent{}, 5)
		if gs.Score != 5 {
			t.Errorf("expected score 5, got %d", gs.Score)
		}
	})
}

func TestObjective(t *testing.T) {
	calls := 0
	obj := NewObjective("Survive the authored waves", func() { calls++ })

	obj.OnWaveChanged(3)
	obj.OnEnemyKilled(systems.EnemyAgent{}, 10)
	obj.OnNoMoreWaves()
	if obj.IsCompleted() {
		t.Fatal("objective should only complete on final wave")
	}

	obj.OnFinalWaveReached()
	obj.OnFinalWaveReached()
	if !obj.IsCompleted() {
		t.Error("objective should be completed")
	}
	if calls != 1 {
		t.Errorf("expected completion callback once, got %d", calls)
	}
}
