package metrics

import (
	"sync"
	"testing"

	"github.com/benbjohnson/clock"
)

// ============================================================================
// 基础功能测试
// ============================================================================

// TestBandwidthCounter_LogSent 测试记录发送字节
func TestBandwidthCounter_LogSent(t *testing.T) {
	bwc := NewBandwidthCounter()

	bwc.LogSent(1024)
	bwc.LogSent(2048)

	in, out := bwc.Totals()

	if out != 3072 {
		t.Errorf("out = %d, want 3072", out)
	}
	if in != 0 {
		t.Errorf("in = %d, want 0", in)
	}
}

// TestBandwidthCounter_LogRecv 测试记录接收字节
func TestBandwidthCounter_LogRecv(t *testing.T) {
	bwc := NewBandwidthCounter()

	bwc.LogRecv(512)
	bwc.LogRecv(1024)

	in, out := bwc.Totals()

	if in != 1536 {
		t.Errorf("in = %d, want 1536", in)
	}
	if out != 0 {
		t.Errorf("out = %d, want 0", out)
	}
}

// TestBandwidthCounter_Totals 测试混合收发统计
func TestBandwidthCounter_Totals(t *testing.T) {
	bwc := NewBandwidthCounter()

	bwc.LogSent(100)
	bwc.LogRecv(200)
	bwc.LogSent(300)
	bwc.LogRecv(400)

	in, out := bwc.Totals()

	if out != 400 {
		t.Errorf("out = %d, want 400", out)
	}
	if in != 600 {
		t.Errorf("in = %d, want 600", in)
	}
}

// TestBandwidthCounter_Snapshot 测试带速率的快照
func TestBandwidthCounter_Snapshot(t *testing.T) {
	clk := clock.NewMock()
	bwc := NewBandwidthCounterWithClock(clk)

	bwc.LogSent(600)
	bwc.LogRecv(1200)

	stats := bwc.Snapshot()

	if stats.BytesOut != 600 {
		t.Errorf("BytesOut = %d, want 600", stats.BytesOut)
	}
	if stats.BytesIn != 1200 {
		t.Errorf("BytesIn = %d, want 1200", stats.BytesIn)
	}
	// 60 秒窗口平均
	if stats.RateOut != 10.0 {
		t.Errorf("RateOut = %v, want 10", stats.RateOut)
	}
	if stats.RateIn != 20.0 {
		t.Errorf("RateIn = %v, want 20", stats.RateIn)
	}
}

// TestBandwidthCounter_Reset 测试统计清零
func TestBandwidthCounter_Reset(t *testing.T) {
	bwc := NewBandwidthCounter()

	bwc.LogSent(1000)
	bwc.LogRecv(2000)
	bwc.Reset()

	in, out := bwc.Totals()
	if in != 0 || out != 0 {
		t.Errorf("after Reset: in=%d out=%d, want 0/0", in, out)
	}

	stats := bwc.Snapshot()
	if stats.RateIn != 0 || stats.RateOut != 0 {
		t.Errorf("after Reset: RateIn=%v RateOut=%v, want 0/0", stats.RateIn, stats.RateOut)
	}
}

// ============================================================================
// 并发测试
// ============================================================================

// TestBandwidthCounter_Concurrent 测试并发记录
func TestBandwidthCounter_Concurrent(t *testing.T) {
	bwc := NewBandwidthCounter()

	const goroutines = 10
	const iterations = 100

	var wg sync.WaitGroup
	wg.Add(goroutines * 2)

	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				bwc.LogSent(1)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				bwc.LogRecv(1)
			}
		}()
	}

	wg.Wait()

	in, out := bwc.Totals()
	if in != goroutines*iterations {
		t.Errorf("in = %d, want %d", in, goroutines*iterations)
	}
	if out != goroutines*iterations {
		t.Errorf("out = %d, want %d", out, goroutines*iterations)
	}
}
