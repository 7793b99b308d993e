package resolver

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-xwire/config"
	"github.com/dep2p/go-xwire/pkg/interfaces"
)

// Params 解析组件的依赖参数
type Params struct {
	fx.In

	Cfg *config.Config `optional:"true"`
}

// Module 是 resolver 的 Fx 模块
//
// 提供：
//   - interfaces.Resolver: SRV 优先的 DNS 端点解析器
//   - interfaces.Dialer: 按载体种类建连的拨号器
var Module = fx.Module("resolver",
	fx.Provide(
		fx.Annotate(
			NewDNSResolverFromParams,
			fx.As(new(interfaces.Resolver)),
		),
		fx.Annotate(
			NewNetDialerFromParams,
			fx.As(new(interfaces.Dialer)),
		),
	),
)

// NewDNSResolverFromParams 从统一配置创建解析器
func NewDNSResolverFromParams(p Params) (*DNSResolver, error) {
	cfg := config.DefaultResolverConfig()
	if p.Cfg != nil {
		cfg = p.Cfg.Resolver
	}
	return NewDNSResolver(cfg)
}

// NewNetDialerFromParams 从统一配置创建拨号器
func NewNetDialerFromParams(p Params, res interfaces.Resolver) (*NetDialer, error) {
	cfg := config.DefaultDialConfig()
	if p.Cfg != nil {
		cfg = p.Cfg.Dial
	}
	return NewNetDialer(cfg, res)
}
