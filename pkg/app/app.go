// Package app 提供游戏应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来：加载场景配置、叠加玩家设置、
// 创建对战场景，并在对局结束时提交最佳记录。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"math/rand"
	"time"

	"github.com/decker502/holdout/pkg/config"
	"github.com/decker502/holdout/pkg/game"
	"github.com/decker502/holdout/pkg/scenes"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// 逻辑屏幕尺寸
const (
	WindowWidth  = 800
	WindowHeight = 672
)

// DefaultScenario 默认嵌入场景
const DefaultScenario = "data/scenarios/default.yaml"

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Scenario 场景配置路径，为空时使用 DefaultScenario
	Scenario string
	// Seed 随机种子，0 表示使用当前时间
	Seed int64
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager *game.SceneManager
	settings     *game.SettingsManager
	records      *game.RecordManager

	scenario  string
	verbose   bool
	submitted bool

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化游戏应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
// settings 与 records 可以为 nil（不叠加设置、不保存记录）。
func NewApp(cfg Config, settings *game.SettingsManager, records *game.RecordManager) (*App, error) {
	verbose := cfg.Verbose
	if settings != nil && settings.GetSettings().Verbose {
		verbose = true
	}

	// 配置日志输出
	if !verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	scenario := cfg.Scenario
	if scenario == "" {
		scenario = DefaultScenario
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	a := &App{
		sceneManager: game.NewSceneManager(),
		settings:     settings,
		records:      records,
		scenario:     scenario,
		verbose:      verbose,
	}

	rng := rand.New(rand.NewSource(seed))
	a.sceneManager.SetSceneFactory(func(path string) (game.Scene, error) {
		scenarioCfg, err := config.LoadScenario(path)
		if err != nil {
			return nil, err
		}
		if settings != nil {
			settings.GetSettings().ApplyTo(scenarioCfg)
		}
		scene := scenes.NewBattleScene(scenarioCfg, rng)
		scene.SetVerbose(verbose)
		return scene, nil
	})

	if err := a.sceneManager.LoadScenario(scenario); err != nil {
		return nil, fmt.Errorf("场景加载失败: %w", err)
	}

	log.Printf("[App] Started scenario %s (seed %d)", scenario, seed)
	return a, nil
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(WindowWidth, WindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
		} else {
			ebiten.SetFullscreen(true)
		}
	}

	// 空格暂停 / 继续
	if battle, ok := a.battle(); ok && inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		if battle.IsPaused() {
			battle.Resume()
		} else {
			battle.Pause()
		}
	}

	// N 跳过当前波次
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		a.skipWave()
	}

	// E 切换无尽模式并保存到设置
	if inpututil.IsKeyJustPressed(ebiten.KeyE) {
		if err := a.toggleEndlessMode(); err != nil {
			log.Printf("[App] Failed to save settings: %v", err)
		}
	}

	// 对局结束后按 R 重新开始
	if a.sceneManager.IsFinished() && inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := a.sceneManager.LoadScenario(a.scenario); err != nil {
			return err
		}
		a.submitted = false
	}

	deltaTime := 1.0 / 60.0
	a.sceneManager.Update(deltaTime)

	if a.sceneManager.IsFinished() {
		a.submitRecord()
	}
	return nil
}

// battle 返回当前的对战场景
func (a *App) battle() (*scenes.BattleScene, bool) {
	battle, ok := a.sceneManager.GetCurrentScene().(*scenes.BattleScene)
	return battle, ok
}

// skipWave 让当前对战立即开始下一波
func (a *App) skipWave() {
	battle, ok := a.battle()
	if !ok || battle.IsFinished() {
		return
	}
	battle.SkipWave()
	log.Printf("[App] Skipped to wave %d", battle.Director().CurrentWaveNumber())
}

// toggleEndlessMode 切换当前对战的无尽模式，并作为覆盖项写入设置
// 重新开始时沿用新的设置
func (a *App) toggleEndlessMode() error {
	battle, ok := a.battle()
	if !ok {
		return nil
	}

	enabled := !battle.Director().Endless()
	battle.SetEndless(enabled)
	log.Printf("[App] Endless mode: %v", enabled)

	if a.settings == nil {
		return nil
	}
	a.settings.SetEndlessMode(enabled)
	return a.settings.Save()
}

// submitRecord 提交本局成绩（每局只提交一次）
func (a *App) submitRecord() {
	if a.submitted {
		return
	}
	a.submitted = true
	battle, ok := a.battle()
	if !ok || a.records == nil {
		return
	}

	gs := battle.GameState()
	improved, err := a.records.Submit(gs.CurrentWave, gs.Score)
	if err != nil {
		log.Printf("[App] Failed to save run record: %v", err)
		return
	}
	if improved {
		log.Printf("[App] New best run: wave %d, score %d", gs.CurrentWave, gs.Score)
	}
}

// Draw 绘制游戏画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 全屏时左右两边填充黑色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return WindowWidth, WindowHeight
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}

// SettingsOverrides 命令行给出的设置修改，nil 表示未提供
type SettingsOverrides struct {
	EndlessMode    *bool
	FirstWaveDelay *float64
	Verbose        *bool
	// Reset 先清除已保存的覆盖项
	Reset          bool
}

// UpdateSettings 把命令行修改写入设置并持久化
// 没有任何修改时不写存储
func UpdateSettings(settings *game.SettingsManager, o SettingsOverrides) error {
	if settings == nil {
		return nil
	}

	changed := false
	if o.Reset {
		settings.ClearOverrides()
		changed = true
	}
	if o.EndlessMode != nil {
		settings.SetEndlessMode(*o.EndlessMode)
		changed = true
	}
	if o.FirstWaveDelay != nil {
		settings.SetFirstWaveDelay(*o.FirstWaveDelay)
		changed = true
	}
	if o.Verbose != nil {
		settings.SetVerbose(*o.Verbose)
		changed = true
	}

	if !changed {
		return nil
	}
	return settings.Save()
}
