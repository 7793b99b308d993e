package conn

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dep2p/go-xwire/config"
	"github.com/dep2p/go-xwire/internal/core/metrics"
	"github.com/dep2p/go-xwire/internal/core/poll"
	"github.com/dep2p/go-xwire/internal/core/resolver"
	"github.com/dep2p/go-xwire/internal/util/logger"
	"github.com/dep2p/go-xwire/pkg/interfaces"
	"github.com/dep2p/go-xwire/pkg/types"
)

// 包级别日志实例
var log = logger.Logger("conn")

// sockSlot 套接字槽
//
// atomic.Value 要求历次存入同一具体类型，且不接受 nil 接口值，
// 因此套接字统一包一层槽结构整体替换；空槽表示无套接字。
type sockSlot struct{ s interfaces.Socket }

// handlerSlot 处理器槽，理由同 sockSlot
type handlerSlot struct{ h interfaces.DataHandler }

// ============================================================================
//                              Conn - 连接核心
// ============================================================================

// Conn 传输级连接核心
//
// 持有唯一的字节流套接字并在其上提供并发安全的收发与回收，
// 不理解任何上层协议。并发模型见包文档。
type Conn struct {
	id     string // 日志相关标识（UUID 前 8 位）
	server string // IDNA 规范化后的目标主机
	port   int

	cfg      config.ConnConfig
	notifier interfaces.ReadNotifier
	bwc      *metrics.BandwidthCounter // 可为 nil（统计关闭）

	// sendMu 串行化所有发送；recvMu 串行化接收周期与取消标志写入。
	// Cleanup 按 sendMu → recvMu 的固定顺序对两者做非阻塞尝试。
	sendMu sync.Mutex
	recvMu sync.Mutex

	// buf 接收复用缓冲区，仅在持有 recvMu 的接收周期内写入
	buf []byte

	cancel  atomic.Bool
	state   atomic.Int32 // types.ConnState
	sock    atomic.Value // sockSlot
	handler atomic.Value // handlerSlot
}

var _ interfaces.Conn = (*Conn)(nil)

// NewConn 创建连接核心
//
// server 立即做 IDNA 规范化，失败返回包装了
// types.ErrInvalidHostname 的错误；port 必须落在 (0, 65535]。
// notifier 为 nil 时采用平台默认实现，bwc 为 nil 时关闭流量统计。
//
// 新建的连接处于 Disconnected 状态且取消标志置位，
// 由拨号协作方通过 Attach 安装套接字后方可收发。
func NewConn(server string, port int, cfg config.ConnConfig, notifier interfaces.ReadNotifier, bwc *metrics.BandwidthCounter) (*Conn, error) {
	host, err := resolver.NormalizeHost(server)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("port %d: %w", port, types.ErrInvalidPort)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if notifier == nil {
		notifier = poll.Default()
	}

	c := &Conn{
		id:       uuid.New().String()[:8],
		server:   host,
		port:     port,
		cfg:      cfg,
		notifier: notifier,
		bwc:      bwc,
		buf:      make([]byte, cfg.BufferSize),
	}
	c.cancel.Store(true)
	c.state.Store(int32(types.StateDisconnected))
	c.sock.Store(sockSlot{})
	c.handler.Store(handlerSlot{})
	return c, nil
}

// socket 返回当前套接字，无套接字时为 nil
func (c *Conn) socket() interfaces.Socket {
	return c.sock.Load().(sockSlot).s
}

// dataHandler 返回当前数据处理器，未注册时为 nil
func (c *Conn) dataHandler() interfaces.DataHandler {
	return c.handler.Load().(handlerSlot).h
}

// ============================================================================
//                              装配
// ============================================================================

// Attach 安装已建连的套接字
//
// 状态迁移 Disconnected → Connected 并清除取消标志。
// 已持有套接字时返回 types.ErrAlreadyConnected，调用方应先
// Cleanup 旧套接字。与进行中的收发周期互斥，可能短暂阻塞。
func (c *Conn) Attach(s interfaces.Socket) error {
	if s == nil {
		return errors.New("attach: nil socket")
	}

	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	c.recvMu.Lock()
	defer c.recvMu.Unlock()

	if c.socket() != nil {
		return types.ErrAlreadyConnected
	}
	c.sock.Store(sockSlot{s: s})
	c.cancel.Store(false)
	c.state.Store(int32(types.StateConnected))
	log.Debug("套接字已安装", "conn", c.id, "server", c.server, "port", c.port)
	return nil
}

// RegisterHandler 注册数据处理器
//
// 替换旧处理器；传 nil 表示丢弃后续数据与断开通知。
func (c *Conn) RegisterHandler(h interfaces.DataHandler) {
	c.handler.Store(handlerSlot{h: h})
}

// ============================================================================
//                              发送
// ============================================================================

// Send 发送完整载荷
//
// 空载荷或无套接字时返回 false 且无任何副作用。
// 底层套接字允许部分写，此处自动从新偏移续传直到全部送出。
// 仅当全部字节送出才计入发送统计并返回 true；失败时在释放
// 发送锁之后记录日志并向处理器发出 I/O 断开通知。
func (c *Conn) Send(p []byte) bool {
	c.sendMu.Lock()

	if len(p) == 0 {
		c.sendMu.Unlock()
		return false
	}
	sock := c.socket()
	if sock == nil {
		c.sendMu.Unlock()
		return false
	}

	var werr error
	for sent := 0; sent < len(p); {
		n, err := sock.Send(p[sent:])
		if err != nil {
			werr = err
			break
		}
		if n <= 0 {
			// 无错误也无进展，视为短写避免死循环
			werr = io.ErrShortWrite
			break
		}
		sent += n
	}
	if werr == nil {
		c.bwc.LogSent(int64(len(p)))
	}
	c.sendMu.Unlock()

	if werr != nil {
		log.Error("send() 失败", "conn", c.id, "err", werr)
		if h := c.dataHandler(); h != nil {
			h.HandleDisconnect(fmt.Errorf("%w: %v", types.ErrIO, werr))
		}
		return false
	}
	return true
}

// ============================================================================
//                              接收
// ============================================================================

// Receive 驱动接收循环直到取消或出错
//
// 无套接字时立即返回 types.ErrNotConnected。循环每轮最多等待
// 一个就绪间隔（配置 RecvPollInterval），读到的数据在锁外回调
// 处理器。因取消标志退出时同样返回 types.ErrNotConnected，
// I/O 失败返回包装了 types.ErrIO 的错误。
//
// 同一时刻应只有一个 goroutine 驱动 Receive。
func (c *Conn) Receive() error {
	if c.socket() == nil {
		return types.ErrNotConnected
	}

	var err error
	for !c.cancel.Load() {
		if err = c.recvCycle(); err != nil {
			break
		}
	}
	if err == nil {
		// 循环因取消标志退出，统一为"不再连接"
		return types.ErrNotConnected
	}
	return err
}

// recvCycle 执行一轮接收：等待可读、读取一批、回调处理器
//
// 返回 nil 表示本轮正常（含"无数据"），调用方继续循环。
func (c *Conn) recvCycle() error {
	c.recvMu.Lock()

	if c.cancel.Load() {
		c.recvMu.Unlock()
		return types.ErrNotConnected
	}
	sock := c.socket()
	if sock == nil {
		c.recvMu.Unlock()
		return types.ErrNotConnected
	}
	if !c.dataAvailable(sock, c.cfg.RecvPollInterval.Duration()) {
		c.recvMu.Unlock()
		return nil
	}

	n, rerr := sock.Recv(c.buf)
	if n > 0 {
		c.bwc.LogRecv(int64(n))
	}
	c.recvMu.Unlock()

	// 回调在锁外进行，处理器可安全地回调 Send 或 Disconnect
	if n > 0 {
		if h := c.dataHandler(); h != nil {
			h.HandleData(c.buf[:n])
		}
	}

	if rerr != nil {
		if isTimeout(rerr) {
			// 自带截止时间的套接字以超时表达"无数据"
			return nil
		}
		if errors.Is(rerr, io.EOF) {
			log.Debug("对端关闭连接", "conn", c.id)
		} else {
			log.Error("recv() 失败", "conn", c.id, "err", rerr)
		}
		return fmt.Errorf("%w: %v", types.ErrIO, rerr)
	}
	return nil
}

// DataAvailable 等待套接字可读
//
// 无套接字时立即返回 true，把错误暴露推迟给随后的读取；
// 不可轮询的套接字同样立即返回 true，阻塞界定交给其自身的
// 接收截止时间。
func (c *Conn) DataAvailable(timeout time.Duration) bool {
	sock := c.socket()
	if sock == nil {
		return true
	}
	return c.dataAvailable(sock, timeout)
}

// dataAvailable 对可轮询套接字做就绪等待
//
// 就绪通知自身失败按"未就绪"处理并记录日志，不向上传播。
func (c *Conn) dataAvailable(sock interfaces.Socket, timeout time.Duration) bool {
	p, ok := sock.(interfaces.Pollable)
	if !ok {
		return true
	}
	ready, err := c.notifier.WaitRead(p.Descriptor(), timeout)
	if err != nil {
		log.Warn("就绪等待失败", "conn", c.id, "fd", p.Descriptor(), "err", err)
		return false
	}
	return ready
}

// isTimeout 判断 err 是否为超时类网络错误
func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// ============================================================================
//                              断开与回收
// ============================================================================

// Disconnect 请求接收循环终止
//
// 只置取消标志，不做任何套接字 I/O，可在任意 goroutine
// 随时调用（含未连接时）。接收循环最迟在一个就绪间隔内
// 观察到标志并以 types.ErrNotConnected 返回。
func (c *Conn) Disconnect() {
	c.recvMu.Lock()
	c.cancel.Store(true)
	c.recvMu.Unlock()
}

// Cleanup 非阻塞回收套接字
//
// 对两把锁依次做非阻塞尝试，任一不可得立即放弃且无任何效果，
// 因此绝不与进行中的收发死锁。成功时关闭套接字、状态归
// Disconnected、取消标志置位、流量计数清零。
//
// 需要确定性回收的调用方应先 Disconnect 并等待 Receive
// 返回后再调用。
func (c *Conn) Cleanup() {
	if !c.sendMu.TryLock() {
		return
	}
	if !c.recvMu.TryLock() {
		c.sendMu.Unlock()
		return
	}

	if sock := c.socket(); sock != nil {
		if err := sock.Close(); err != nil {
			log.Warn("关闭套接字失败", "conn", c.id, "err", err)
		}
		c.sock.Store(sockSlot{})
	}
	c.state.Store(int32(types.StateDisconnected))
	c.cancel.Store(true)
	c.bwc.Reset()

	c.recvMu.Unlock()
	c.sendMu.Unlock()
}

// ============================================================================
//                              观测
// ============================================================================

// Stats 返回累计接收/发送字节数
//
// 不加锁的尽力而为快照，统计关闭时恒为零。
func (c *Conn) Stats() (bytesIn, bytesOut int64) {
	return c.bwc.Totals()
}

// LocalPort 查询本地绑定端口
//
// 无套接字或查询失败时 ok 为 false，绝不返回垃圾值。
func (c *Conn) LocalPort() (int, bool) {
	sock := c.socket()
	if sock == nil {
		return 0, false
	}
	_, port, err := sock.LocalAddr()
	if err != nil {
		return 0, false
	}
	return port, true
}

// LocalInterface 查询本地绑定地址
func (c *Conn) LocalInterface() (string, bool) {
	sock := c.socket()
	if sock == nil {
		return "", false
	}
	ip, _, err := sock.LocalAddr()
	if err != nil {
		return "", false
	}
	return ip.String(), true
}

// State 返回当前生命周期状态
func (c *Conn) State() types.ConnState {
	return types.ConnState(c.state.Load())
}

// Server 返回规范化后的目标主机名
func (c *Conn) Server() string { return c.server }

// Port 返回目标端口
func (c *Conn) Port() int { return c.port }
