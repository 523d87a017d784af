package main

import (
	"flag"
	"log"

	"github.com/decker502/holdout/pkg/app"
	"github.com/decker502/holdout/pkg/embedded"
	"github.com/decker502/holdout/pkg/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/quasilyte/gdata/v2"
)

var (
	verbose        = flag.Bool("verbose", false, "显示详细调试信息（显式给出时保存到设置）")
	scenario       = flag.String("scenario", app.DefaultScenario, "场景配置路径（嵌入资源或文件）")
	seed           = flag.Int64("seed", 0, "随机种子（0 表示使用当前时间）")
	endless        = flag.Bool("endless", true, "覆盖无尽模式并保存到设置（仅在显式给出时生效）")
	firstWaveDelay = flag.Float64("first-wave-delay", 5, "覆盖开局建造窗口秒数并保存到设置（仅在显式给出时生效）")
	resetSettings  = flag.Bool("reset-settings", false, "清除已保存的覆盖项，回到场景文件的值")
)

// settingsOverrides 收集命令行中显式给出的设置
func settingsOverrides() app.SettingsOverrides {
	o := app.SettingsOverrides{Reset: *resetSettings}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "endless":
			v := *endless
			o.EndlessMode = &v
		case "first-wave-delay":
			v := *firstWaveDelay
			o.FirstWaveDelay = &v
		case "verbose":
			v := *verbose
			o.Verbose = &v
		}
	})
	return o
}

func main() {
	flag.Parse()

	embedded.Init(dataFS)

	// 存储不可用时降级为仅内存
	var settings *game.SettingsManager
	var records *game.RecordManager
	store, err := gdata.Open(gdata.Config{AppName: "holdout"})
	if err != nil {
		log.Printf("[Main] Persistent storage unavailable: %v", err)
		settings = game.NewSettingsManager(nil)
		records = game.NewRecordManager(nil)
	} else {
		settings = game.NewSettingsManager(store)
		records = game.NewRecordManager(store)
	}

	if err := app.UpdateSettings(settings, settingsOverrides()); err != nil {
		log.Printf("[Main] Failed to save settings: %v", err)
	}

	a, err := app.NewApp(app.Config{
		Verbose:  *verbose,
		Scenario: *scenario,
		Seed:     *seed,
	}, settings, records)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowSize(app.WindowWidth, app.WindowHeight)
	ebiten.SetWindowTitle("Holdout")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(a); err != nil {
		log.Fatal(err)
	}
}
