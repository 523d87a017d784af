package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/decker502/holdout/pkg/config"
	"github.com/decker502/holdout/pkg/game"
	"github.com/decker502/holdout/pkg/scenes"
	"github.com/decker502/holdout/pkg/telemetry"
	"github.com/quasilyte/gdata/v2"
)

const tickRate = 60

var (
	scenarioPath = flag.String("scenario", "data/scenarios/default.yaml", "场景配置文件路径")
	seconds      = flag.Float64("seconds", 300, "最多模拟的秒数")
	seed         = flag.Int64("seed", 1, "随机种子")
	verbose      = flag.Bool("verbose", false, "显示详细调试信息")
	telemetryAt  = flag.String("telemetry", "", "遥测 WebSocket 监听地址（例如 :8090），设置后按实时速度运行")
	saveRecord   = flag.Bool("record", false, "把结果提交到本地最佳记录")
	endless      = flag.String("endless", "", "覆盖无尽模式（true / false）")
)

func main() {
	flag.Parse()

	if !*verbose {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.LoadScenario(*scenarioPath)
	if err != nil {
		fmt.Printf("错误: %v\n", err)
		os.Exit(1)
	}

	settings := game.DefaultSettings()
	switch *endless {
	case "":
	case "true", "false":
		v := *endless == "true"
		settings.EndlessMode = &v
	default:
		fmt.Printf("错误: -endless 只接受 true 或 false\n")
		os.Exit(2)
	}
	settings.ApplyTo(cfg)

	scene := scenes.NewBattleScene(cfg, rand.New(rand.NewSource(*seed)))
	scene.SetVerbose(*verbose)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var server *http.Server
	if *telemetryAt != "" {
		hub := telemetry.NewHub(scene.Director())
		scene.AddListener(hub)
		defer hub.Close()

		mux := http.NewServeMux()
		mux.Handle("/ws", hub)
		server = &http.Server{Addr: *telemetryAt, Handler: mux}
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				fmt.Printf("错误: 遥测服务启动失败: %v\n", err)
				stop()
			}
		}()
		fmt.Printf("遥测: ws://%s/ws\n", *telemetryAt)
	}

	run(ctx, scene, *seconds, server != nil)

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_ = server.Shutdown(shutdownCtx)
		cancel()
	}

	printSummary(scene)

	if *saveRecord {
		submitRecord(scene)
	}
}

// run 以固定步长推进场景；realtime 为 true 时按墙钟节奏运行
func run(ctx context.Context, scene *scenes.BattleScene, maxSeconds float64, realtime bool) {
	dt := 1.0 / tickRate
	maxTicks := int(maxSeconds * tickRate)

	var ticker *time.Ticker
	if realtime {
		ticker = time.NewTicker(time.Second / tickRate)
		defer ticker.Stop()
	}

	for i := 0; i < maxTicks && !scene.IsFinished(); i++ {
		if ticker != nil {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		} else if ctx.Err() != nil {
			return
		}
		scene.Update(dt)
	}
}

func printSummary(scene *scenes.BattleScene) {
	gs := scene.GameState()
	snap := scene.Director().Snapshot()

	result := gs.GameResult
	if result == game.ResultNone {
		result = "timeout"
	}

	fmt.Println("=== 模拟结果 ===")
	fmt.Printf("结果:       %s\n", result)
	fmt.Printf("用时:       %.1fs\n", scene.Elapsed())
	fmt.Printf("波次:       %d (%s)\n", snap.Wave, snap.Phase)
	fmt.Printf("击杀 / 得分: %d / %d\n", gs.Kills, gs.Score)
	fmt.Printf("场上敌人:   %d\n", snap.EnemiesAlive)
	fmt.Printf("玩家生命:   %d/%d\n", scene.Player().Health, scene.Player().MaxHealth)
	fmt.Printf("命中 / 被挡: %d / %d\n", scene.Weapon().Shots(), scene.Weapon().BlockedShots())
	fmt.Printf("剩余方块:   %d\n", len(scene.Grid().Blocks()))
	fmt.Printf("生成失败:   %d\n", scene.Director().SpawnFailures())
	fmt.Printf("最后一波:   %v\n", scene.Objective().IsCompleted())
}

func submitRecord(scene *scenes.BattleScene) {
	store, err := gdata.Open(gdata.Config{AppName: "holdout"})
	if err != nil {
		fmt.Printf("警告: 无法打开本地存储: %v\n", err)
		return
	}

	records := game.NewRecordManager(store)
	gs := scene.GameState()
	improved, err := records.Submit(gs.CurrentWave, gs.Score)
	if err != nil {
		fmt.Printf("警告: 保存记录失败: %v\n", err)
		return
	}

	best := records.Best()
	if improved {
		fmt.Printf("新纪录! ")
	}
	fmt.Printf("最佳: 第 %d 波, %d 分 (共 %d 局)\n", best.HighestWave, best.BestScore, best.Runs)
}
