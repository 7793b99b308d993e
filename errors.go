package xwire

import (
	"errors"

	"github.com/dep2p/go-xwire/pkg/types"
)

// 公共错误定义
var (
	// ────────────────────────────────────────────────────────────────────────
	// 客户端生命周期错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrClientClosed 客户端已关闭
	ErrClientClosed = errors.New("client closed")

	// ErrNotConnected 未连接
	ErrNotConnected = types.ErrNotConnected

	// ErrAlreadyConnected 已持有连接
	ErrAlreadyConnected = types.ErrAlreadyConnected

	// ────────────────────────────────────────────────────────────────────────
	// 网络相关错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrIO 底层 I/O 错误
	ErrIO = types.ErrIO

	// ErrInvalidHostname 主机名未通过 IDNA 规范化
	ErrInvalidHostname = types.ErrInvalidHostname

	// ErrInvalidPort 端口号超出范围
	ErrInvalidPort = types.ErrInvalidPort

	// ErrNoEndpoints 解析后没有可用端点
	ErrNoEndpoints = types.ErrNoEndpoints
)
