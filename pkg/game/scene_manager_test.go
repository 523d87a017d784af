package game

import (
	"errors"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// MockScene 记录调用的测试场景
type MockScene struct {
	updateCalled bool
	drawCalled   bool
	deltaTime    float64
	finished     bool
}

func (m *MockScene) Update(deltaTime float64) {
	m.updateCalled = true
	m.deltaTime = deltaTime
}

func (m *MockScene) Draw(screen *ebiten.Image) {
	m.drawCalled = true
}

func (m *MockScene) IsFinished() bool {
	return m.finished
}

func TestNewSceneManager(t *testing.T) {
	sm := NewSceneManager()
	if sm == nil {
		t.Fatal("NewSceneManager() returned nil")
	}
	if sm.GetCurrentScene() != nil {
		t.Error("Expected currentScene to be nil initially")
	}

	// 没有场景时 Update / Draw 安全
	sm.Update(0.016)
	sm.Draw(nil)
	if sm.IsFinished() {
		t.Error("Expected IsFinished false without scene")
	}
}

func TestSceneManagerUpdateAndDraw(t *testing.T) {
	sm := NewSceneManager()
	scene := &MockScene{}
	sm.SwitchTo(scene)

	sm.Update(0.016)
	sm.Draw(nil)

	if !scene.updateCalled || scene.deltaTime != 0.016 {
		t.Errorf("Update not forwarded: called=%v dt=%v", scene.updateCalled, scene.deltaTime)
	}
	if !scene.drawCalled {
		t.Error("Draw not forwarded")
	}

	scene.finished = true
	if !sm.IsFinished() {
		t.Error("Expected IsFinished to reflect scene state")
	}
}

func TestSceneManagerLoadScenario(t *testing.T) {
	t.Run("未设置工厂", func(t *testing.T) {
		sm := NewSceneManager()
		if err := sm.LoadScenario("data/scenarios/default.yaml"); err == nil {
			t.Error("expected error without factory")
		}
	})

	t.Run("工厂创建场景", func(t *testing.T) {
		sm := NewSceneManager()
		scene := &MockScene{}
		var requested string
		sm.SetSceneFactory(func(path string) (Scene, error) {
			requested = path
			return scene, nil
		})

		if err := sm.LoadScenario("data/scenarios/default.yaml"); err != nil {
			t.Fatalf("LoadScenario error: %v", err)
		}
		if requested != "data/scenarios/default.yaml" || sm.GetCurrentScene() != scene {
			t.Error("expected factory scene to become current")
		}
	})

	t.Run("工厂失败保留当前场景", func(t *testing.T) {
		sm := NewSceneManager()
		current := &MockScene{}
		sm.SwitchTo(current)
		sm.SetSceneFactory(func(path string) (Scene, error) {
			return nil, errors.New("boom")
		})

		if err := sm.LoadScenario("missing.yaml"); err == nil {
			t.Error("expected factory error")
		}
		if sm.GetCurrentScene() != current {
			t.Error("failed load should keep current scene")
		}
	})
}
