package main

import (
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/decker502/holdout/pkg/config"
	"github.com/decker502/holdout/pkg/systems"
)

var (
	previewWaves = flag.Int("preview", 0, "额外打印前 N 个波次的规格（包括程序化波次）")
)

// collectFiles 收集参数中的 YAML 文件，目录会被递归展开
func collectFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			ext := strings.ToLower(filepath.Ext(path))
			if !d.IsDir() && (ext == ".yaml" || ext == ".yml") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}

func printSummary(cfg *config.ScenarioConfig) {
	fmt.Printf("  敌人类型: %d, 人工波次: %d, 生成点: %d\n", len(cfg.Enemies), len(cfg.Waves), len(cfg.SpawnPoints))
	fmt.Printf("  无尽模式: %v, 开局延迟: %.1fs, 可获得总分: %d\n",
		cfg.Director.Endless(), cfg.Director.FirstWaveDelay(), cfg.TotalPossiblePoints())

	if len(cfg.SpawnPoints) == 0 {
		fmt.Println("  ⚠️  没有生成点，波次将无法生成敌人")
	}
	if cfg.Director.FallbackEnemy == nil {
		fmt.Println("  ⚠️  未配置 fallbackEnemy，人工波次结束后会重复最后一波")
	}

	for n := 1; n <= *previewWaves; n++ {
		spec := systems.BuildWaveSpec(cfg.Waves, &cfg.Director, n)
		fmt.Printf("    波次 %3d: %4d 个敌人, 间隔 %.2fs, 上限 %3d, 血量 x%.2f, 速度 x%.2f\n",
			n, spec.TotalCount, spec.SpawnInterval, spec.AliveCap, spec.HealthMult, spec.SpeedMult)
	}
}

func main() {
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		args = []string{"data/scenarios"}
	}

	files, err := collectFiles(args)
	if err != nil {
		fmt.Printf("错误: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Println("错误: 没有找到场景文件")
		os.Exit(1)
	}

	failed := 0
	for _, path := range files {
		cfg, err := config.LoadScenarioConfig(path)
		if err != nil {
			failed++
			fmt.Printf("❌ %s\n  %v\n", path, err)
			continue
		}
		fmt.Printf("✅ %s (%s)\n", path, cfg.Name)
		printSummary(cfg)
	}

	fmt.Println()
	fmt.Printf("=== 汇总: %d 个文件, %d 个失败 ===\n", len(files), failed)
	if failed > 0 {
		os.Exit(1)
	}
}
