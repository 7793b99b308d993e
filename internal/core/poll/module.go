package poll

import (
	"go.uber.org/fx"
)

// Module 是 poll 的 Fx 模块
//
// 提供 interfaces.ReadNotifier 的平台默认实现。
var Module = fx.Module("poll",
	fx.Provide(Default),
)
