package types

import (
	"net"
	"strconv"
)

// ============================================================================
//                              Endpoint - 连接端点
// ============================================================================

// Endpoint 一个可拨号的连接端点
//
// 通常来自 SRV 解析（_xmpp-client._tcp），携带 RFC 2782 的
// 优先级与权重；A/AAAA 回退路径下两者为零。
type Endpoint struct {
	// Host 目标主机（域名或字面量 IP）
	Host string

	// Port 目标端口
	Port int

	// Priority SRV 优先级（越小越优先）
	Priority uint16

	// Weight SRV 权重（同优先级内按权重随机）
	Weight uint16
}

// Addr 返回 "host:port" 形式的拨号地址
func (e Endpoint) Addr() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// String 返回端点的字符串表示
func (e Endpoint) String() string {
	return e.Addr()
}

// Valid 检查端点是否可用于拨号
func (e Endpoint) Valid() bool {
	return e.Host != "" && e.Port > 0 && e.Port <= 65535
}
