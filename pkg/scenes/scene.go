package scenes

import (
	"github.com/decker502/holdout/pkg/game"
)

// Scene 场景接口的别名，场景实现统一满足 game.Scene
type Scene = game.Scene

var (
	_ Scene         = (*BattleScene)(nil)
	_ game.Finisher = (*BattleScene)(nil)
)
