// Package config 提供统一的配置管理
//
// 本包采用混合配置模式：
//   - 主 Config 结构体嵌入所有子配置
//   - 每个子配置在独立文件中定义
//   - 支持从 JSON 加载和保存配置
//
// 使用示例：
//
//	// 创建默认配置
//	cfg := config.NewConfig()
//	cfg.Dial.Kind = "quic"
//	cfg.Conn.BufferSize = 16384
//
//	// 从 JSON 加载
//	cfg, err := config.FromJSON(data)
package config

import "encoding/json"

// Config 是 go-xwire 的完整配置结构
//
// 该结构体嵌入了所有组件的子配置，按功能模块组织：
//   - Conn: 连接核心（缓冲、接收循环节奏）
//   - Dial: 拨号（载体种类、超时、套接字选项、TLS）
//   - Resolver: 端点解析（SRV 服务名、缓存、查询超时）
//   - Bandwidth: 流量统计
type Config struct {
	// Conn 连接核心配置
	Conn ConnConfig `json:"conn"`

	// Dial 拨号配置
	Dial DialConfig `json:"dial"`

	// Resolver 端点解析配置
	Resolver ResolverConfig `json:"resolver"`

	// Bandwidth 流量统计配置
	Bandwidth BandwidthConfig `json:"bandwidth"`
}

// NewConfig 创建默认配置
//
// 返回的配置使用所有组件的默认值，适用于大多数场景。
func NewConfig() *Config {
	return &Config{
		Conn:      DefaultConnConfig(),
		Dial:      DefaultDialConfig(),
		Resolver:  DefaultResolverConfig(),
		Bandwidth: DefaultBandwidthConfig(),
	}
}

// Validate 验证配置的有效性
//
// 检查所有子配置是否有效，建议在使用配置前调用。
func (c *Config) Validate() error {
	if err := c.Conn.Validate(); err != nil {
		return err
	}
	if err := c.Dial.Validate(); err != nil {
		return err
	}
	if err := c.Resolver.Validate(); err != nil {
		return err
	}
	if err := c.Bandwidth.Validate(); err != nil {
		return err
	}
	return nil
}

// FromJSON 从 JSON 数据创建配置
//
// 未出现的字段保持默认值。
func FromJSON(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ToJSON 序列化配置为带缩进的 JSON
func (c *Config) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}
