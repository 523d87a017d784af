package types

// LayerMask 射线检测的层过滤
type LayerMask uint32

const (
	// LayerObstacles 可破坏障碍（方块）
	LayerObstacles LayerMask = 1 << iota
	// LayerEnemies 敌人
	LayerEnemies
	// LayerPlayer 玩家
	LayerPlayer
)

// Obstacle 障碍物的可变接口
// 核心逻辑只调用这些方法，不负责障碍物的生命周期
type Obstacle interface {
	TakeDamage(amount int)
	Break()
	IsBroken() bool
}

// RayHit 射线命中结果
type RayHit struct {
	Point    Vec3
	Distance float64
	Obstacle Obstacle // 命中障碍层时非 nil
}

// RayCaster 射线检测服务
type RayCaster interface {
	// Cast 返回最近的命中；未命中返回 false
	Cast(origin, direction Vec3, maxDistance float64, layer LayerMask) (RayHit, bool)
}

// NavSampler 在可行走表面上采样位置
type NavSampler interface {
	// SamplePosition 返回 center 半径 radius 内最近的可行走点；找不到返回 false
	SamplePosition(center Vec3, radius float64) (Vec3, bool)
}

// PathAgent 寻路服务（导航代理）
type PathAgent interface {
	SetDestination(position Vec3)
	Position() Vec3
	Forward() Vec3
	Speed() float64
	SetSpeed(speed float64)
	Stopped() bool
	SetStopped(stopped bool)
}

// TargetProvider 目标提供者（玩家）
// 敌人只持有引用，从不修改目标位置
type TargetProvider interface {
	// TargetPosition 返回目标当前位置；目标不存在（如已死亡）时返回 false
	TargetPosition() (Vec3, bool)
	// TakeDamage 对目标造成伤害
	TakeDamage(amount int, ignoreInvincibility bool)
}
