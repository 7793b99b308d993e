package types

// ============================================================================
//                              ConnStats - 连接统计
// ============================================================================

// ConnStats 连接流量统计快照
//
// 由统计模块在无锁条件下采集：两个累计值的读取发生在相近但
// 不同的时刻，并发流量下可能相差若干字节。统计仅用于诊断，
// 不作为控制流输入。
type ConnStats struct {
	// BytesIn 累计接收字节数
	BytesIn int64

	// BytesOut 累计发送字节数
	BytesOut int64

	// RateIn 近 60 秒平均接收速率（字节/秒）
	RateIn float64

	// RateOut 近 60 秒平均发送速率（字节/秒）
	RateOut float64
}

// TotalBytes 返回双向累计字节数
func (s ConnStats) TotalBytes() int64 {
	return s.BytesIn + s.BytesOut
}
