package config

import (
	"errors"
	"time"
)

// ResolverConfig 端点解析配置
type ResolverConfig struct {
	// Service SRV 服务名
	//
	// 查询形如 _<service>._<proto>.<domain> 的 SRV 记录。
	// 默认值: "xmpp-client"（RFC 6120 §3.2.1）
	Service string `json:"service"`

	// Proto SRV 协议名
	// 默认值: "tcp"
	Proto string `json:"proto"`

	// LookupTimeout 单次 DNS 查询超时
	// 默认值: 5s
	LookupTimeout Duration `json:"lookup_timeout"`

	// ResolvConf DNS 服务器配置文件路径
	// 默认值: "/etc/resolv.conf"
	ResolvConf string `json:"resolv_conf"`

	// CacheSize 解析结果缓存条目上限
	// 默认值: 128；0 表示禁用缓存
	CacheSize int `json:"cache_size"`

	// CacheTTL 缓存条目存活时间
	// 默认值: 10m
	CacheTTL Duration `json:"cache_ttl"`
}

// DefaultResolverConfig 返回默认的端点解析配置
func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{
		Service:       "xmpp-client",
		Proto:         "tcp",
		LookupTimeout: Duration(5 * time.Second),
		ResolvConf:    "/etc/resolv.conf",
		CacheSize:     128,
		CacheTTL:      Duration(10 * time.Minute),
	}
}

// Validate 验证端点解析配置的有效性
func (c *ResolverConfig) Validate() error {
	if c.Service == "" {
		return errors.New("resolver service must not be empty")
	}
	if c.Proto == "" {
		return errors.New("resolver proto must not be empty")
	}
	if c.LookupTimeout <= 0 {
		return errors.New("resolver lookup timeout must be positive")
	}
	if c.CacheSize < 0 {
		return errors.New("resolver cache size must not be negative")
	}
	if c.CacheSize > 0 && c.CacheTTL <= 0 {
		return errors.New("resolver cache ttl must be positive when cache enabled")
	}
	return nil
}
