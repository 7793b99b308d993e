package types

// ============================================================================
//                              ConnState - 连接状态
// ============================================================================

// ConnState 连接生命周期状态
//
// 状态机（由连接核心持有）：
//
//	StateDisconnected --[拨号器安装套接字]--> StateConnected
//	StateConnected --[Disconnect 置取消标志; 接收循环退出]--> (套接字仍打开)
//	(套接字仍打开) --[Cleanup 成功]--> StateDisconnected
//
// StateConnecting 仅由拨号协作方在解析/建连期间使用，
// 连接核心自身只在 Disconnected 与 Connected 之间迁移。
type ConnState int

const (
	// StateDisconnected 未连接（无有效套接字）
	StateDisconnected ConnState = iota
	// StateConnecting 建连中（解析/拨号进行中）
	StateConnecting
	// StateConnected 已连接（套接字有效）
	StateConnected
)

// String 返回状态的字符串表示
func (s ConnState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "unknown"
	}
}

// ============================================================================
//                              SocketKind - 字节流载体类型
// ============================================================================

// SocketKind 字节流套接字的承载类型
//
// 连接核心只依赖字节流能力接口，具体承载可插拔：
//   - TCP: 原生 TCP（默认，XMPP RFC 6120）
//   - QUIC: 单条 QUIC 双向流作为有序可靠字节流
//   - WebSocket: 二进制消息流适配（RFC 7395 场景）
type SocketKind int

const (
	// SocketTCP 原生 TCP 套接字
	SocketTCP SocketKind = iota
	// SocketQUIC QUIC 流套接字
	SocketQUIC
	// SocketWebSocket WebSocket 套接字
	SocketWebSocket
)

// String 返回载体类型的字符串表示
func (k SocketKind) String() string {
	switch k {
	case SocketTCP:
		return "tcp"
	case SocketQUIC:
		return "quic"
	case SocketWebSocket:
		return "websocket"
	default:
		return "unknown"
	}
}

// ParseSocketKind 从字符串解析载体类型
//
// 未知字符串返回 SocketTCP 和 false。
func ParseSocketKind(s string) (SocketKind, bool) {
	switch s {
	case "tcp":
		return SocketTCP, true
	case "quic":
		return SocketQUIC, true
	case "websocket", "ws":
		return SocketWebSocket, true
	default:
		return SocketTCP, false
	}
}
