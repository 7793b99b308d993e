package interfaces

import (
	"time"

	"github.com/dep2p/go-xwire/pkg/types"
)

// ============================================================================
//                              Conn - 连接核心
// ============================================================================

// Conn 传输级连接核心
//
// 持有唯一的字节流套接字，提供并发安全的发送/接收/断开/清理。
// 并发模型（两把互斥锁 + 原子取消标志）：
//   - 发送锁串行化所有 Send，并与 Cleanup 协调
//   - 接收锁串行化取消标志写入与接收周期，并与 Cleanup 协调
//   - Send 与 Receive 互不阻塞；Cleanup 对两把锁只做非阻塞尝试，
//     因此绝不与进行中的操作死锁
//
// 典型驱动方式：一个 goroutine 独占调用 Receive，
// 任意 goroutine 并发调用 Send，任意 goroutine 调用 Disconnect
// 请求终止，待 Receive 返回后调用 Cleanup 回收套接字。
type Conn interface {
	// Attach 安装已建连的套接字（拨号协作方调用）
	//
	// 状态迁移 Disconnected → Connected；
	// 已有套接字时返回 types.ErrAlreadyConnected。
	Attach(s Socket) error

	// RegisterHandler 注册数据处理器（替换旧值；nil 表示丢弃数据）
	RegisterHandler(h DataHandler)

	// Send 发送完整载荷
	//
	// 空载荷或无套接字时返回 false 且无副作用。
	// 部分写自动从新偏移续传；仅当全部字节送出才返回 true。
	// 失败时记录诊断日志并向处理器发出 I/O 断开通知。
	Send(p []byte) bool

	// Receive 驱动接收循环直到取消或出错
	//
	// 无套接字时立即返回 types.ErrNotConnected。
	// 因取消标志退出（而非真实 I/O 错误）时同样返回
	// types.ErrNotConnected，统一"不再连接"的信号。
	// I/O 失败返回包装了 types.ErrIO 的错误。
	// 这是核心中唯一的主动阻塞点。
	Receive() error

	// DataAvailable 等待套接字可读
	//
	// 无套接字（或套接字不可轮询）时立即返回 true，
	// 把错误暴露推迟给随后的读取。
	DataAvailable(timeout time.Duration) bool

	// Disconnect 请求接收循环终止
	//
	// 只置取消标志，不做任何套接字 I/O；
	// 循环最迟在一个就绪等待间隔内观察到标志。
	Disconnect()

	// Cleanup 非阻塞回收套接字
	//
	// 任一锁不可得时立即返回且无任何效果。
	// 成功时：关闭套接字、状态归 Disconnected、取消标志置位、
	// 流量计数清零。需要确定性回收的调用方应先 Disconnect
	// 并等待 Receive 返回后重试。
	Cleanup()

	// Stats 返回累计接收/发送字节数
	//
	// 不加锁的尽力而为快照，仅用于诊断。
	Stats() (bytesIn, bytesOut int64)

	// LocalPort 查询本地绑定端口；不可用时 ok 为 false
	LocalPort() (port int, ok bool)

	// LocalInterface 查询本地绑定地址；不可用时 ok 为 false
	LocalInterface() (addr string, ok bool)

	// State 返回当前生命周期状态
	State() types.ConnState

	// Server 返回规范化后的目标主机名
	Server() string

	// Port 返回目标端口
	Port() int
}
