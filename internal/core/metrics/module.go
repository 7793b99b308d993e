package metrics

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-xwire/config"
)

// Params 指标组件的依赖参数
type Params struct {
	fx.In

	Cfg *config.Config `optional:"true"`
}

// Module 是 metrics 的 Fx 模块
//
// 提供：
//   - *BandwidthCounter: 连接流量计数器（统计关闭时为 nil，方法对 nil 安全）
//   - *Collector: Prometheus 采集器（未注册，由调用方决定注册表）
var Module = fx.Module("metrics",
	fx.Provide(
		NewBandwidthCounterFromParams,
		NewCollector,
	),
)

// NewBandwidthCounterFromParams 根据统一配置创建流量计数器
//
// 统计被关闭时返回 nil，BandwidthCounter 的方法容忍 nil 接收者，
// 消费方无需区分两种情况。
func NewBandwidthCounterFromParams(p Params) *BandwidthCounter {
	if p.Cfg != nil && !p.Cfg.Bandwidth.Enabled {
		return nil
	}
	return NewBandwidthCounter()
}
