package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ============================================================================
// Collector - Prometheus 导出
// ============================================================================

// Collector 将 BandwidthCounter 导出为 Prometheus 指标
//
// 导出的指标：
//   - xwire_bandwidth_bytes_total{direction="in"|"out"}
//   - xwire_bandwidth_rate_bytes_per_second{direction="in"|"out"}
type Collector struct {
	counter *BandwidthCounter

	bytesDesc *prometheus.Desc
	rateDesc  *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector 创建 Prometheus 采集器
//
// 调用方负责注册：
//
//	prometheus.MustRegister(metrics.NewCollector(counter))
func NewCollector(counter *BandwidthCounter) *Collector {
	return &Collector{
		counter: counter,
		bytesDesc: prometheus.NewDesc(
			"xwire_bandwidth_bytes_total",
			"Cumulative bytes transferred on the connection.",
			[]string{"direction"}, nil,
		),
		rateDesc: prometheus.NewDesc(
			"xwire_bandwidth_rate_bytes_per_second",
			"Average transfer rate over the last 60 seconds.",
			[]string{"direction"}, nil,
		),
	}
}

// Describe 实现 prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.bytesDesc
	ch <- c.rateDesc
}

// Collect 实现 prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	stats := c.counter.Snapshot()
	ch <- prometheus.MustNewConstMetric(c.bytesDesc, prometheus.CounterValue, float64(stats.BytesIn), "in")
	ch <- prometheus.MustNewConstMetric(c.bytesDesc, prometheus.CounterValue, float64(stats.BytesOut), "out")
	ch <- prometheus.MustNewConstMetric(c.rateDesc, prometheus.GaugeValue, stats.RateIn, "in")
	ch <- prometheus.MustNewConstMetric(c.rateDesc, prometheus.GaugeValue, stats.RateOut, "out")
}
