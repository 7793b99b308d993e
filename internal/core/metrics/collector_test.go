package metrics

import (
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// gatherFamily 收集注册表中指定名称的指标族
func gatherFamily(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	t.Fatalf("指标族 %s 未导出", name)
	return nil
}

// directionValues 按 direction 标签整理指标值
func directionValues(mf *dto.MetricFamily) map[string]float64 {
	out := make(map[string]float64)
	for _, m := range mf.GetMetric() {
		var dir string
		for _, lp := range m.GetLabel() {
			if lp.GetName() == "direction" {
				dir = lp.GetValue()
			}
		}
		switch {
		case m.GetCounter() != nil:
			out[dir] = m.GetCounter().GetValue()
		case m.GetGauge() != nil:
			out[dir] = m.GetGauge().GetValue()
		}
	}
	return out
}

// TestCollector_Export 测试指标导出
func TestCollector_Export(t *testing.T) {
	clk := clock.NewMock()
	bwc := NewBandwidthCounterWithClock(clk)

	bwc.LogRecv(2048)
	bwc.LogSent(1024)

	reg := prometheus.NewPedanticRegistry()
	reg.MustRegister(NewCollector(bwc))

	bytesTotal := directionValues(gatherFamily(t, reg, "xwire_bandwidth_bytes_total"))
	if bytesTotal["in"] != 2048 {
		t.Errorf("bytes_total{in} = %v, want 2048", bytesTotal["in"])
	}
	if bytesTotal["out"] != 1024 {
		t.Errorf("bytes_total{out} = %v, want 1024", bytesTotal["out"])
	}

	// 模拟时钟下数据都落在当前窗口
	rates := directionValues(gatherFamily(t, reg, "xwire_bandwidth_rate_bytes_per_second"))
	if want := 2048.0 / 60.0; rates["in"] != want {
		t.Errorf("rate{in} = %v, want %v", rates["in"], want)
	}
	if want := 1024.0 / 60.0; rates["out"] != want {
		t.Errorf("rate{out} = %v, want %v", rates["out"], want)
	}
}

// TestCollector_NilCounter 统计关闭时导出零值
func TestCollector_NilCounter(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	reg.MustRegister(NewCollector(nil))

	bytesTotal := directionValues(gatherFamily(t, reg, "xwire_bandwidth_bytes_total"))
	if bytesTotal["in"] != 0 || bytesTotal["out"] != 0 {
		t.Errorf("nil 计数器导出 = %v, want 全零", bytesTotal)
	}
}

// TestCollector_Describe 测试指标描述
func TestCollector_Describe(t *testing.T) {
	c := NewCollector(NewBandwidthCounter())

	ch := make(chan *prometheus.Desc, 8)
	c.Describe(ch)
	close(ch)

	count := 0
	for range ch {
		count++
	}
	if count != 2 {
		t.Errorf("Describe emitted %d descs, want 2", count)
	}
}
