package world

import (
	"log"

	"github.com/decker502/holdout/pkg/config"
)

// NewArena 根据场景配置创建场地并放置初始方块
// 方块坐标 [col, row] 放在第 0 层
func NewArena(cfg config.ArenaConfig) *Grid {
	g := NewGrid(cfg.Width, cfg.Depth, cfg.CellSize)
	for _, cell := range cfg.Blocks {
		g.PlaceBlock(cell[0], cell[1], 0, cfg.BlockHP)
	}
	log.Printf("[Grid] Arena %dx%d created with %d blocks", cfg.Width, cfg.Depth, len(g.blocks))
	return g
}
