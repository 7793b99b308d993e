package metrics

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// ============================================================================
// RateMeter - 速率计算器
// ============================================================================

// RateMeter 速率计算器（基于滑动窗口）
//
// 使用 60 个 1 秒桶来计算最近 60 秒的平均速率。
// 时钟可注入，测试中配合 clock.NewMock 无需真实等待。
type RateMeter struct {
	mu       sync.RWMutex
	clk      clock.Clock
	buckets  [60]int64 // 60 个 1 秒桶
	lastIdx  int       // 最后写入的桶索引
	lastTime time.Time // 最后更新时间
}

// NewRateMeter 创建速率计算器（真实时钟）
func NewRateMeter() *RateMeter {
	return NewRateMeterWithClock(clock.New())
}

// NewRateMeterWithClock 创建速率计算器（指定时钟）
func NewRateMeterWithClock(clk clock.Clock) *RateMeter {
	return &RateMeter{
		clk:      clk,
		lastTime: clk.Now(),
	}
}

// Add 添加字节数到当前桶
func (r *RateMeter) Add(bytes int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.advance()
	r.buckets[r.lastIdx] += bytes
}

// advance 按流逝时间推进桶位置，清空途经的桶
//
// 调用方必须持有 r.mu 写锁。
func (r *RateMeter) advance() {
	now := r.clk.Now()
	elapsed := now.Sub(r.lastTime)
	if elapsed < time.Second {
		return
	}

	seconds := int(elapsed.Seconds())
	if seconds >= 60 {
		// 超过整个窗口没有数据
		r.buckets = [60]int64{}
		r.lastIdx = 0
	} else {
		for i := 0; i < seconds; i++ {
			r.lastIdx = (r.lastIdx + 1) % 60
			r.buckets[r.lastIdx] = 0
		}
	}
	r.lastTime = now
}

// Rate 返回平均速率（字节/秒）
func (r *RateMeter) Rate() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	// 先推进窗口，否则静默期的旧桶会虚高速率
	r.advance()

	var total int64
	for _, v := range r.buckets {
		total += v
	}
	return float64(total) / 60.0
}

// Reset 重置速率计算器
func (r *RateMeter) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buckets = [60]int64{}
	r.lastIdx = 0
	r.lastTime = r.clk.Now()
}

// LastUpdate 返回最后更新时间
func (r *RateMeter) LastUpdate() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastTime
}
