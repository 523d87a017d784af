package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene 一个可运行的场景（对战、结算等）
type Scene interface {
	// Update 按固定步长推进场景逻辑，deltaTime 单位为秒
	Update(deltaTime float64)

	// Draw 把场景绘制到 screen
	Draw(screen *ebiten.Image)
}

// Finisher 可选接口：场景结束后由 SceneManager 查询
type Finisher interface {
	IsFinished() bool
}
