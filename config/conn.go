package config

import (
	"errors"
	"time"
)

// ConnConfig 连接核心配置
type ConnConfig struct {
	// BufferSize 接收缓冲区大小（字节）
	//
	// 单次接收系统调用的读取上限。
	// 默认值: 8192
	BufferSize int `json:"buffer_size"`

	// RecvPollInterval 接收循环的就绪等待间隔
	//
	// 接收循环每轮最多等待该时长，随后重新检查取消标志，
	// 因此它也是断开请求的最大生效延迟。
	// 默认值: 1s
	RecvPollInterval Duration `json:"recv_poll_interval"`
}

// DefaultConnConfig 返回默认的连接核心配置
func DefaultConnConfig() ConnConfig {
	return ConnConfig{
		BufferSize:       8192,
		RecvPollInterval: Duration(time.Second),
	}
}

// Validate 验证连接核心配置的有效性
func (c *ConnConfig) Validate() error {
	if c.BufferSize <= 0 {
		return errors.New("conn buffer size must be positive")
	}
	if c.RecvPollInterval <= 0 {
		return errors.New("conn recv poll interval must be positive")
	}
	return nil
}
