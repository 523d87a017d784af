// Package world 提供核心逻辑依赖的进程内世界实现
//
// Grid 是一个带可破坏方块的网格场地，实现射线检测（types.RayCaster）、
// 可行走采样（types.NavSampler）与导航版本号；NavAgent 在其上做直线移动；
// Player 是敌人追踪与攻击的目标。
package world

import (
	"log"
	"math"

	"github.com/decker502/holdout/pkg/types"
)

// cellKey 方块坐标（列、行、层）
type cellKey struct {
	col, row, level int
}

// rayStepFraction 射线步进长度（相对单元格边长）
const rayStepFraction = 0.1

// Grid 网格场地
//
// 方块占据一个单元格的某一层：第 0 层覆盖高度 [0, cellSize)，第 1 层覆盖
// [cellSize, 2*cellSize)。敌人身高两层，任一层有方块的单元格都不可通行。
type Grid struct {
	width    int
	depth    int
	cellSize float64
	blocks   map[cellKey]*Block
	// version 导航版本号，放置或破坏方块时递增
	version uint64
}

// NewGrid 创建网格场地
func NewGrid(width, depth int, cellSize float64) *Grid {
	return &Grid{
		width:    width,
		depth:    depth,
		cellSize: cellSize,
		blocks:   make(map[cellKey]*Block),
	}
}

// Width 返回列数
func (g *Grid) Width() int { return g.width }

// Depth 返回行数
func (g *Grid) Depth() int { return g.depth }

// CellSize 返回单元格边长
func (g *Grid) CellSize() float64 { return g.cellSize }

// Version 返回导航版本号
func (g *Grid) Version() uint64 { return g.version }

// InBounds 检查单元格是否在场地内
func (g *Grid) InBounds(col, row int) bool {
	return col >= 0 && col < g.width && row >= 0 && row < g.depth
}

// CellAt 返回世界坐标所在的单元格
func (g *Grid) CellAt(pos types.Vec3) (col, row int) {
	return int(math.Floor(pos.X / g.cellSize)), int(math.Floor(pos.Z / g.cellSize))
}

// CellCenter 返回单元格中心的地面坐标
func (g *Grid) CellCenter(col, row int) types.Vec3 {
	return types.Vec3{
		X: (float64(col) + 0.5) * g.cellSize,
		Z: (float64(row) + 0.5) * g.cellSize,
	}
}

// PlaceBlock 在指定单元格和层放置方块
// 已有未破坏方块时返回原方块
func (g *Grid) PlaceBlock(col, row, level, hitPoints int) *Block {
	if !g.InBounds(col, row) || level < 0 {
		log.Printf("[Grid] WARNING: PlaceBlock out of bounds (%d, %d, %d)", col, row, level)
		return nil
	}

	key := cellKey{col, row, level}
	if existing, ok := g.blocks[key]; ok {
		return existing
	}

	b := &Block{grid: g, key: key, HitPoints: hitPoints}
	g.blocks[key] = b
	g.version++
	return b
}

// BlockAt 返回指定位置的方块（不存在返回 nil）
func (g *Grid) BlockAt(col, row, level int) *Block {
	return g.blocks[cellKey{col, row, level}]
}

// Blocks 返回所有未破坏方块
func (g *Grid) Blocks() []*Block {
	result := make([]*Block, 0, len(g.blocks))
	for _, b := range g.blocks {
		result = append(result, b)
	}
	return result
}

// removeBlock 由 Block.Break 调用
func (g *Grid) removeBlock(b *Block) {
	if g.blocks[b.key] != b {
		return
	}
	delete(g.blocks, b.key)
	g.version++
}

// IsWalkable 检查单元格是否可通行
func (g *Grid) IsWalkable(col, row int) bool {
	if !g.InBounds(col, row) {
		return false
	}
	return g.BlockAt(col, row, 0) == nil && g.BlockAt(col, row, 1) == nil
}

// Cast 实现 types.RayCaster
//
// 沿方向按固定步长推进，返回第一个命中的方块。只有 LayerObstacles 有可命中的
// 几何体，其他层总是未命中。
func (g *Grid) Cast(origin, direction types.Vec3, maxDistance float64, layer types.LayerMask) (types.RayHit, bool) {
	if layer&types.LayerObstacles == 0 || maxDistance <= 0 {
		return types.RayHit{}, false
	}

	dir := direction.Normalized()
	if dir == (types.Vec3{}) {
		return types.RayHit{}, false
	}

	step := g.cellSize * rayStepFraction
	for t := 0.0; t <= maxDistance; t += step {
		p := origin.Add(dir.Scale(t))
		col, row := g.CellAt(p)
		level := int(math.Floor(p.Y / g.cellSize))
		if b := g.BlockAt(col, row, level); b != nil {
			return types.RayHit{Point: p, Distance: t, Obstacle: b}, true
		}
	}
	return types.RayHit{}, false
}

// SamplePosition 实现 types.NavSampler
// 返回半径内距离 center 最近的可通行单元格中心
func (g *Grid) SamplePosition(center types.Vec3, radius float64) (types.Vec3, bool) {
	if radius < 0 {
		return types.Vec3{}, false
	}

	minCol, minRow := g.CellAt(center.Sub(types.Vec3{X: radius, Z: radius}))
	maxCol, maxRow := g.CellAt(center.Add(types.Vec3{X: radius, Z: radius}))

	best := types.Vec3{}
	bestDist := math.Inf(1)
	found := false
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			if !g.IsWalkable(col, row) {
				continue
			}
			c := g.CellCenter(col, row)
			d := types.Distance(c, center.Flat())
			if d <= radius && d < bestDist {
				best, bestDist, found = c, d, true
			}
		}
	}
	return best, found
}

// Block 可破坏方块，实现 types.Obstacle
type Block struct {
	grid      *Grid
	key       cellKey
	HitPoints int
	broken    bool
}

// Cell 返回方块所在的列、行、层
func (b *Block) Cell() (col, row, level int) {
	return b.key.col, b.key.row, b.key.level
}

// TakeDamage 扣除耐久，降到 0 时破坏
func (b *Block) TakeDamage(amount int) {
	if b.broken {
		return
	}
	b.HitPoints -= amount
	if b.HitPoints <= 0 {
		b.Break()
	}
}

// Break 破坏方块并从场地移除（幂等）
func (b *Block) Break() {
	if b.broken {
		return
	}
	b.broken = true
	b.grid.removeBlock(b)
	log.Printf("[Grid] Block (%d, %d, %d) broken", b.key.col, b.key.row, b.key.level)
}

// IsBroken 返回方块是否已破坏
func (b *Block) IsBroken() bool {
	return b.broken
}
