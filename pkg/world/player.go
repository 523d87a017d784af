package world

import (
	"log"

	"github.com/decker502/holdout/pkg/types"
)

// Player 玩家，实现 types.TargetProvider
//
// 受击后进入若干帧无敌；生命值为 0 时视为目标不存在。
type Player struct {
	position         types.Vec3
	Health           int
	MaxHealth        int
	InvincibleFrames int // 受击后的无敌帧数
	iFrames          int // 剩余无敌帧
	Points           int
}

// NewPlayer 创建玩家
func NewPlayer(position types.Vec3, maxHealth, invincibleFrames int) *Player {
	return &Player{
		position:         position,
		Health:           maxHealth,
		MaxHealth:        maxHealth,
		InvincibleFrames: invincibleFrames,
	}
}

// Position 返回玩家位置
func (p *Player) Position() types.Vec3 { return p.position }

// SetPosition 设置玩家位置
func (p *Player) SetPosition(pos types.Vec3) { p.position = pos }

// IsAlive 返回玩家是否存活（nil 玩家视为不存在）
func (p *Player) IsAlive() bool { return p != nil && p.Health > 0 }

// IsInvincible 返回是否处于无敌帧
func (p *Player) IsInvincible() bool { return p.iFrames > 0 }

// TargetPosition 实现 types.TargetProvider
// nil 或已死亡的玩家不提供目标位置
func (p *Player) TargetPosition() (types.Vec3, bool) {
	if p == nil || !p.IsAlive() {
		return types.Vec3{}, false
	}
	return p.position, true
}

// TakeDamage 扣除生命值
// 无敌帧内忽略伤害，除非 ignoreInvincibility 为 true
func (p *Player) TakeDamage(amount int, ignoreInvincibility bool) {
	if !p.IsAlive() {
		return
	}
	if p.iFrames > 0 && !ignoreInvincibility {
		return
	}

	p.Health -= amount
	if p.Health < 0 {
		p.Health = 0
	}
	p.iFrames = p.InvincibleFrames

	if !p.IsAlive() {
		log.Printf("[Player] Player died")
	}
}

// AddPoints 增加分数
func (p *Player) AddPoints(points int) {
	p.Points += points
}

// Tick 每帧调用一次，递减无敌帧
func (p *Player) Tick() {
	if p.iFrames > 0 {
		p.iFrames--
	}
}
