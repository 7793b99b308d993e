package interfaces

import "net"

// ============================================================================
//                              Socket - 字节流套接字能力
// ============================================================================

// Socket 字节流套接字能力
//
// 抽象一条已建连的、有序可靠的双工字节通道（无消息边界）。
// 实现按目标承载提供：原生 TCP（原始描述符）、QUIC 流、WebSocket。
//
// 注意：Send 采用 send(2) 语义而非 io.Writer 契约——
// 允许只接受部分字节且不返回错误，调用方必须从新偏移续传。
type Socket interface {
	// Send 向套接字写入 p，返回实际接受的字节数
	//
	// 部分写不视为错误；返回 (n, nil) 且 n < len(p) 时
	// 调用方应从 p[n:] 继续。
	Send(p []byte) (int, error)

	// Recv 从套接字读取至多 len(p) 字节
	//
	// 返回值约定：
	//   - n > 0, nil: 读到数据
	//   - 0, io.EOF: 对端有序关闭
	//   - 0, err: 操作系统级错误
	//
	// 非 Pollable 实现应自行界定单次调用的阻塞时长，
	// 超时通过满足 net.Error.Timeout() 的错误表达。
	Recv(p []byte) (int, error)

	// Close 关闭套接字并释放资源（幂等）
	Close() error

	// LocalAddr 查询本地绑定地址
	//
	// 套接字未绑定或查询失败时返回错误，绝不返回垃圾值。
	LocalAddr() (net.IP, int, error)
}

// ============================================================================
//                              Pollable - 可选就绪能力
// ============================================================================

// Pollable 可选能力：暴露操作系统描述符以参与就绪通知
//
// 通过类型断言发现：
//
//	if p, ok := sock.(interfaces.Pollable); ok {
//	    ready := notifier.WaitRead(p.Descriptor(), timeout)
//	}
//
// 不实现本接口的套接字（QUIC、WebSocket 等）在就绪检查中
// 直接报告"就绪"，把阻塞界定交给自身的接收截止时间。
type Pollable interface {
	// Descriptor 返回用于就绪注册的文件描述符
	Descriptor() int
}
