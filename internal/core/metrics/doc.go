// Package metrics 提供连接流量统计
//
// metrics 模块实现单连接的带宽统计功能：
//   - 累计收发字节计数（原子操作，读取无锁）
//   - 流量速率计算（60 秒滑动窗口）
//   - Prometheus 指标导出
//   - 并发安全
//
// # 快速开始
//
//	counter := metrics.NewBandwidthCounter()
//
//	// 记录收发字节
//	counter.LogSent(1024)
//	counter.LogRecv(2048)
//
//	// 无锁读取累计值（热路径）
//	in, out := counter.Totals()
//
//	// 带速率的完整快照
//	stats := counter.Snapshot()
//	fmt.Printf("In: %d (%.2f B/s), Out: %d (%.2f B/s)\n",
//	    stats.BytesIn, stats.RateIn, stats.BytesOut, stats.RateOut)
//
// # 速率计算
//
// 速率由 RateMeter 计算：
//   - 60 个 1 秒桶的滑动窗口
//   - 返回最近 60 秒的平均速率（字节/秒）
//   - 时钟可注入（benbjohnson/clock），测试无需真实等待
//
// # Prometheus 导出
//
//	reg := prometheus.NewRegistry()
//	reg.MustRegister(metrics.NewCollector(counter))
//
// # Fx 模块
//
//	app := fx.New(
//	    metrics.Module,
//	    fx.Invoke(func(bwc *metrics.BandwidthCounter) {
//	        bwc.LogSent(100)
//	    }),
//	)
//
// # 并发安全
//
// 所有方法都是并发安全的：
//   - 累计计数使用 atomic.Int64
//   - RateMeter 内置锁保护
//   - Totals 读取不加任何锁
package metrics
