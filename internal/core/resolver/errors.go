package resolver

import "errors"

// ============================================================================
//                              错误定义
// ============================================================================

var (
	// ErrServiceUnavailable 目标域名明确声明不提供该服务
	//
	// 对应单条目标为 "." 的 SRV 记录（RFC 2782）。
	// 此时按协议不应回退 A/AAAA 记录。
	ErrServiceUnavailable = errors.New("service decidedly unavailable")

	// ErrNoNameservers 没有可用的 DNS 服务器
	ErrNoNameservers = errors.New("no nameservers configured")
)
