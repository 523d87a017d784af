package components

import "github.com/decker502/holdout/pkg/types"

// NavAgentComponent 持有实体的导航代理
// Agent 为 nil 时敌人退化为原地待机
type NavAgentComponent struct {
	Agent types.PathAgent
}
