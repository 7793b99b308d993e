package xwire

import (
	"github.com/dep2p/go-xwire/pkg/types"
)

// ════════════════════════════════════════════════════════════════════════════
//                              类型别名
// ════════════════════════════════════════════════════════════════════════════

// ConnState 连接生命周期状态
type ConnState = types.ConnState

// 连接状态常量
const (
	// StateDisconnected 未连接（无有效套接字）
	StateDisconnected = types.StateDisconnected

	// StateConnecting 建连中（解析/拨号进行中）
	StateConnecting = types.StateConnecting

	// StateConnected 已连接（套接字有效）
	StateConnected = types.StateConnected
)

// SocketKind 字节流套接字的承载类型
type SocketKind = types.SocketKind

// 载体类型常量
const (
	// SocketTCP 原生 TCP 套接字
	SocketTCP = types.SocketTCP

	// SocketQUIC QUIC 流套接字
	SocketQUIC = types.SocketQUIC

	// SocketWebSocket WebSocket 套接字
	SocketWebSocket = types.SocketWebSocket
)

// Endpoint 解析得到的连接端点（主机/IP + 端口 + SRV 优先级）
type Endpoint = types.Endpoint

// ConnStats 连接流量统计快照
type ConnStats = types.ConnStats
