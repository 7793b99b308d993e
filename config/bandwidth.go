package config

// BandwidthConfig 带宽统计配置
type BandwidthConfig struct {
	// Enabled 是否启用带宽统计
	//
	// 关闭后 Stats 恒返回 0，省去每次读写的原子计数开销。
	// 默认值: true
	Enabled bool `json:"enabled"`
}

// DefaultBandwidthConfig 返回默认的带宽统计配置
func DefaultBandwidthConfig() BandwidthConfig {
	return BandwidthConfig{
		Enabled: true,
	}
}

// Validate 验证带宽统计配置的有效性
func (c *BandwidthConfig) Validate() error {
	return nil
}
