package components

import "github.com/decker502/holdout/pkg/types"

// TargetComponent 持有敌人追踪的目标引用
// 敌人不拥有目标；Target 为 nil 时敌人待机
type TargetComponent struct {
	Target types.TargetProvider
}
