package conn

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-xwire/config"
	"github.com/dep2p/go-xwire/internal/core/metrics"
	"github.com/dep2p/go-xwire/pkg/interfaces"
)

// Factory 按目标创建连接核心
//
// 目标主机与端口是运行期输入而非装配期依赖，
// 因此依赖注入场景提供工厂而不是连接实例。
type Factory func(server string, port int) (*Conn, error)

// Params 连接模块的依赖参数
type Params struct {
	fx.In

	Cfg      *config.Config `optional:"true"`
	Notifier interfaces.ReadNotifier
	Counter  *metrics.BandwidthCounter `optional:"true"`
}

// NewFactory 从依赖参数创建连接工厂
func NewFactory(p Params) Factory {
	connCfg := config.DefaultConnConfig()
	if p.Cfg != nil {
		connCfg = p.Cfg.Conn
	}
	return func(server string, port int) (*Conn, error) {
		return NewConn(server, port, connCfg, p.Notifier, p.Counter)
	}
}

// Module 是 conn 的 Fx 模块
var Module = fx.Module("conn",
	fx.Provide(NewFactory),
)
