package metrics

import (
	"sync/atomic"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-xwire/pkg/types"
)

// BandwidthCounter 带宽计数器
//
// BandwidthCounter 跟踪单个连接收发的数据量。
// 累计值使用原子操作，读取路径完全无锁，
// 适合在统计查询这类尽力而为的快照场景直接调用。
//
// 所有方法容忍 nil 接收者（计数不生效且读取返回零值），
// 统计被配置关闭时消费方无需额外分支。
type BandwidthCounter struct {
	// 累计计数器（使用 atomic）
	totalIn  atomic.Int64
	totalOut atomic.Int64

	// 速率计算器
	rateIn  *RateMeter
	rateOut *RateMeter
}

// NewBandwidthCounter 创建新的 BandwidthCounter
func NewBandwidthCounter() *BandwidthCounter {
	return NewBandwidthCounterWithClock(clock.New())
}

// NewBandwidthCounterWithClock 创建新的 BandwidthCounter（指定时钟）
//
// 测试中配合 clock.NewMock 验证速率窗口行为。
func NewBandwidthCounterWithClock(clk clock.Clock) *BandwidthCounter {
	return &BandwidthCounter{
		rateIn:  NewRateMeterWithClock(clk),
		rateOut: NewRateMeterWithClock(clk),
	}
}

// LogSent 记录发送的字节数
func (bwc *BandwidthCounter) LogSent(size int64) {
	if bwc == nil {
		return
	}
	bwc.totalOut.Add(size)
	bwc.rateOut.Add(size)
}

// LogRecv 记录接收的字节数
func (bwc *BandwidthCounter) LogRecv(size int64) {
	if bwc == nil {
		return
	}
	bwc.totalIn.Add(size)
	bwc.rateIn.Add(size)
}

// Totals 返回累计收发字节数
//
// 完全无锁；与并发的写入之间只保证单值原子性，
// 两个返回值不构成一致性快照。
func (bwc *BandwidthCounter) Totals() (in, out int64) {
	if bwc == nil {
		return 0, 0
	}
	return bwc.totalIn.Load(), bwc.totalOut.Load()
}

// Snapshot 返回带速率的完整统计快照
func (bwc *BandwidthCounter) Snapshot() types.ConnStats {
	if bwc == nil {
		return types.ConnStats{}
	}
	in, out := bwc.Totals()
	return types.ConnStats{
		BytesIn:  in,
		BytesOut: out,
		RateIn:   bwc.rateIn.Rate(),
		RateOut:  bwc.rateOut.Rate(),
	}
}

// Reset 清除所有统计
func (bwc *BandwidthCounter) Reset() {
	if bwc == nil {
		return
	}
	bwc.totalIn.Store(0)
	bwc.totalOut.Store(0)
	bwc.rateIn.Reset()
	bwc.rateOut.Reset()
}
