package scenes

import (
	"fmt"
	"image/color"
	"math"

	"github.com/decker502/holdout/pkg/components"
	"github.com/decker502/holdout/pkg/systems"
	"github.com/decker502/holdout/pkg/types"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 调试视图颜色
var (
	backgroundColor  = color.RGBA{R: 40, G: 48, B: 40, A: 255}
	blockColor       = color.RGBA{R: 140, G: 120, B: 90, A: 255}
	spawnPointColor  = color.RGBA{R: 90, G: 90, B: 200, A: 160}
	playerColor      = color.RGBA{R: 80, G: 220, B: 120, A: 255}
	hudPanelColor    = color.RGBA{R: 0, G: 0, B: 0, A: 150}
	healthBackground = color.RGBA{R: 100, G: 0, B: 0, A: 255}
	healthForeground = color.RGBA{R: 0, G: 255, B: 0, A: 255}
)

// enemyStateColors 按决策状态着色
var enemyStateColors = map[components.EnemyState]color.RGBA{
	components.EnemyStateChase:          {R: 220, G: 70, B: 70, A: 255},
	components.EnemyStateAttackObstacle: {R: 240, G: 160, B: 40, A: 255},
	components.EnemyStateAttackTarget:   {R: 220, G: 60, B: 220, A: 255},
}

// hudHeight 顶部文字区域高度
const hudHeight = 72

// Draw 绘制俯视调试视图：方块、生成点、敌人、玩家与状态文字
func (s *BattleScene) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	bounds := screen.Bounds()
	worldW := float64(s.grid.Width()) * s.grid.CellSize()
	worldD := float64(s.grid.Depth()) * s.grid.CellSize()
	scale := math.Min(float64(bounds.Dx())/worldW, float64(bounds.Dy()-hudHeight)/worldD)
	if scale <= 0 {
		return
	}
	toScreen := func(p types.Vec3) (float32, float32) {
		return float32(p.X * scale), float32(p.Z*scale) + hudHeight
	}

	cell := float32(s.grid.CellSize() * scale)
	for _, b := range s.grid.Blocks() {
		col, row, _ := b.Cell()
		x, y := toScreen(s.grid.CellCenter(col, row))
		vector.DrawFilledRect(screen, x-cell/2, y-cell/2, cell, cell, blockColor, false)
	}

	for _, sp := range s.spawnPool.Points() {
		if !sp.IsActive() {
			continue
		}
		x, y := toScreen(sp.Position)
		vector.StrokeCircle(screen, x, y, float32(sp.SampleRadius*scale), 1, spawnPointColor, true)
	}

	for _, agent := range s.agents.LiveAgents() {
		s.drawEnemy(screen, agent, toScreen, cell)
	}

	if s.player.IsAlive() {
		x, y := toScreen(s.player.Position())
		vector.DrawFilledCircle(screen, x, y, cell*0.6, playerColor, true)
	}

	s.drawHUD(screen)
}

// drawEnemy 绘制单个敌人及其血条
func (s *BattleScene) drawEnemy(screen *ebiten.Image, agent systems.EnemyAgent, toScreen func(types.Vec3) (float32, float32), cell float32) {
	pos, ok := agent.Position()
	if !ok {
		return
	}
	x, y := toScreen(pos)
	clr, ok := enemyStateColors[agent.State()]
	if !ok {
		clr = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	}
	vector.DrawFilledCircle(screen, x, y, cell*0.4, clr, true)

	current, maxHealth := agent.Health()
	if maxHealth <= 0 {
		return
	}
	barW := cell
	barY := y - cell*0.7
	vector.DrawFilledRect(screen, x-barW/2, barY, barW, 3, healthBackground, false)
	vector.DrawFilledRect(screen, x-barW/2, barY, barW*float32(current)/float32(maxHealth), 3, healthForeground, false)
}

// drawHUD 绘制顶部状态文字
func (s *BattleScene) drawHUD(screen *ebiten.Image) {
	vector.DrawFilledRect(screen, 0, 0, float32(screen.Bounds().Dx()), hudHeight, hudPanelColor, false)

	snap := s.director.Snapshot()
	lines := fmt.Sprintf("Wave %d  [%s]  alive %d/%d  spawned %d/%d\n",
		snap.Wave, snap.Phase, snap.EnemiesAlive, snap.AliveCap, snap.Spawned, snap.ToSpawn)

	if !s.waveTiming.HasFired() {
		lines += fmt.Sprintf("First wave in %.1fs\n", s.waveTiming.Remaining())
	} else if snap.Phase == systems.WavePhaseIntermission.String() {
		lines += fmt.Sprintf("Next wave in %.1fs\n", snap.IntermissionLeft)
	} else {
		lines += "\n"
	}

	lines += fmt.Sprintf("HP %d/%d  Score %d  Kills %d  Time %.0fs  Endless %v",
		s.player.Health, s.player.MaxHealth, s.gameState.Score, s.gameState.Kills, s.elapsed, s.director.Endless())

	switch {
	case s.gameState.IsGameOver:
		lines += fmt.Sprintf("\nGAME OVER: %s", s.gameState.GameResult)
	case s.paused:
		lines += "\nPAUSED"
	}

	ebitenutil.DebugPrint(screen, lines)
}
