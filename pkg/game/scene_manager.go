package game

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// SceneFactory 场景工厂函数类型
// 根据场景配置路径创建对战场景，避免 game 依赖 scenes 造成循环引用
type SceneFactory func(scenarioPath string) (Scene, error)

// SceneManager 管理当前活动的场景
// 同一时刻只有一个场景的 Update 与 Draw 被调用
type SceneManager struct {
	currentScene Scene
	sceneFactory SceneFactory
}

// NewSceneManager 创建场景管理器，初始没有活动场景
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SetSceneFactory 设置场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SwitchTo 切换到指定场景
func (sm *SceneManager) SwitchTo(scene Scene) {
	sm.currentScene = scene
}

// GetCurrentScene 返回当前活动的场景，没有时返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// LoadScenario 通过工厂创建场景并切换
func (sm *SceneManager) LoadScenario(scenarioPath string) error {
	log.Printf("[SceneManager] Loading scenario: %s", scenarioPath)

	if sm.sceneFactory == nil {
		return fmt.Errorf("scene factory not set")
	}

	scene, err := sm.sceneFactory(scenarioPath)
	if err != nil {
		return fmt.Errorf("failed to create scene for %s: %w", scenarioPath, err)
	}
	sm.SwitchTo(scene)
	return nil
}

// IsFinished 当前场景是否已结束（场景未实现 Finisher 时总是 false）
func (sm *SceneManager) IsFinished() bool {
	f, ok := sm.currentScene.(Finisher)
	return ok && f.IsFinished()
}

// Update 更新当前场景
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw 绘制当前场景
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
