package components

// HealthComponent 存储实体的生命值信息
// 敌人生成时由 Initialize 创建，死亡后随实体一起销毁
type HealthComponent struct {
	CurrentHealth int // 当前生命值
	MaxHealth     int // 最大生命值
	// InvincibleTimer 剩余无敌时间（秒），> 0 时普通伤害无效
	InvincibleTimer float64
	// Dead 死亡标记，保证死亡事件只触发一次
	Dead bool
}
