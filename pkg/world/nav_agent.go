package world

import (
	"math"

	"github.com/decker502/holdout/pkg/types"
)

// arriveEpsilon 到达目的地的判定距离
const arriveEpsilon = 1e-3

// NavAgent 网格上的导航代理，实现 types.PathAgent
//
// 朝目的地直线移动；下一步会进入不可通行单元格时尝试沿单轴滑动，
// 两个轴都被挡住则原地不动。朝向始终指向目的地，便于前方障碍探测。
type NavAgent struct {
	grid        *Grid
	position    types.Vec3
	forward     types.Vec3
	speed       float64
	stopped     bool
	destination types.Vec3
	hasDest     bool
}

// NewNavAgent 在指定位置创建导航代理
func NewNavAgent(grid *Grid, position types.Vec3) *NavAgent {
	return &NavAgent{
		grid:     grid,
		position: position,
		forward:  types.Vec3{Z: 1},
	}
}

// SetDestination 设置目的地
func (a *NavAgent) SetDestination(position types.Vec3) {
	a.destination = position.Flat()
	a.hasDest = true
	if dir := a.destination.Sub(a.position.Flat()); dir.Length() > arriveEpsilon {
		a.forward = dir.Normalized()
	}
}

// Position 返回当前位置
func (a *NavAgent) Position() types.Vec3 { return a.position }

// Forward 返回当前朝向（单位向量）
func (a *NavAgent) Forward() types.Vec3 { return a.forward }

// Speed 返回移动速度
func (a *NavAgent) Speed() float64 { return a.speed }

// SetSpeed 设置移动速度
func (a *NavAgent) SetSpeed(speed float64) { a.speed = math.Max(0, speed) }

// Stopped 返回是否停止移动
func (a *NavAgent) Stopped() bool { return a.stopped }

// SetStopped 设置是否停止移动
func (a *NavAgent) SetStopped(stopped bool) { a.stopped = stopped }

// Destination 返回当前目的地
func (a *NavAgent) Destination() (types.Vec3, bool) { return a.destination, a.hasDest }

// Step 按 deltaTime 推进移动
func (a *NavAgent) Step(deltaTime float64) {
	if a.stopped || !a.hasDest || a.speed <= 0 {
		return
	}

	toDest := a.destination.Sub(a.position.Flat())
	dist := toDest.Length()
	if dist <= arriveEpsilon {
		return
	}

	a.forward = toDest.Normalized()
	move := math.Min(a.speed*deltaTime, dist)
	delta := a.forward.Scale(move)

	candidates := []types.Vec3{
		a.position.Add(delta),
		a.position.Add(types.Vec3{X: delta.X}),
		a.position.Add(types.Vec3{Z: delta.Z}),
	}
	for _, next := range candidates {
		col, row := a.grid.CellAt(next)
		if a.grid.IsWalkable(col, row) {
			a.position = next
			return
		}
	}
}
