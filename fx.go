package xwire

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-xwire/config"
	"github.com/dep2p/go-xwire/internal/core/conn"
	"github.com/dep2p/go-xwire/internal/core/metrics"
	"github.com/dep2p/go-xwire/internal/core/poll"
	"github.com/dep2p/go-xwire/internal/core/resolver"
	"github.com/dep2p/go-xwire/pkg/interfaces"
)

// buildFxApp 构建 Fx 应用
//
// 组装全部内部模块：
//  1. poll: 平台就绪通知（epoll/kqueue）
//  2. metrics: 流量计数与 Prometheus 采集器
//  3. resolver: SRV 优先的端点解析与载体拨号
//  4. conn: 连接核心工厂
//
// 用户扩展通过 WithFxOptions 追加，可替换任意内部组件。
func buildFxApp(cfg *config.Config, c *Client, o *options) *fx.App {
	modules := []fx.Option{
		fx.Supply(cfg),

		poll.Module,
		metrics.Module,
		resolver.Module,
		conn.Module,
	}

	// 指标注册（条件加载）
	if o.promRegistry != nil {
		reg := o.promRegistry
		modules = append(modules, fx.Invoke(func(col *metrics.Collector) error {
			return reg.Register(col)
		}))
	}

	// 用户扩展（Fx Options）
	if len(o.userFxOptions) > 0 {
		modules = append(modules, o.userFxOptions...)
	}

	// Client 组件注入
	modules = append(modules, fx.Invoke(injectClientComponents(c)))

	// 禁用 Fx 日志输出（避免干扰用户日志）
	modules = append(modules,
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
		fx.NopLogger,
	)

	return fx.New(modules...)
}

// clientComponents Client 组件注入参数
type clientComponents struct {
	fx.In

	Factory conn.Factory
	Dialer  interfaces.Dialer
}

// injectClientComponents 把装配好的组件交给 Client
func injectClientComponents(c *Client) func(clientComponents) {
	return func(comps clientComponents) {
		c.factory = comps.Factory
		c.dialer = comps.Dialer
	}
}
