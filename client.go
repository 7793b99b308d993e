package xwire

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/fx"
	"go.uber.org/multierr"

	"github.com/dep2p/go-xwire/config"
	"github.com/dep2p/go-xwire/internal/core/conn"
	"github.com/dep2p/go-xwire/internal/util/logger"
	"github.com/dep2p/go-xwire/pkg/interfaces"
)

var log = logger.Logger("xwire")

// 生命周期超时配置
const (
	// startTimeout 装配启动超时（Fx App Start）
	startTimeout = 30 * time.Second

	// stopTimeout 装配停止超时
	stopTimeout = 10 * time.Second

	// recvExitTimeout 等待接收循环退出的上限
	//
	// 接收循环最迟在一个就绪等待间隔内观察到取消标志，
	// 默认间隔 1 秒，这里留足余量。
	recvExitTimeout = 10 * time.Second
)

// Client xwire 客户端
//
// Client 是使用 xwire 的主入口，它是一个门面：组装端点解析器、
// 载体拨号器与连接核心，并驱动接收循环。
//
// 使用示例：
//
//	client, err := xwire.New("example.com", 5222,
//	    xwire.WithTransport("tcp"),
//	    xwire.WithDataHandler(handler),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	if err := client.Connect(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	client.Send([]byte("<stream:stream ...>"))
//
// 接收到的字节与断开事件通过 WithDataHandler 注册的处理器回调。
// Client 不可重用：Close 之后应创建新实例。
type Client struct {
	// ────────────────────────────────────────────────────────────────────────
	// 配置和组件
	// ────────────────────────────────────────────────────────────────────────

	cfg     *config.Config
	handler interfaces.DataHandler

	// app Fx 应用
	app *fx.App

	// 由 Fx 注入的组件
	factory conn.Factory
	dialer  interfaces.Dialer

	// conn 连接核心（New 时创建，目标校验即时完成）
	conn *conn.Conn

	// ────────────────────────────────────────────────────────────────────────
	// 生命周期状态
	// ────────────────────────────────────────────────────────────────────────

	mu      sync.Mutex
	started bool
	closed  bool

	// dialing 拨号进行中（State 报告 StateConnecting）
	dialing atomic.Bool

	// closing 用户主动关闭中，抑制断开回调
	closing atomic.Bool

	// recvDone 接收循环退出通知（携带退出原因）
	recvDone chan error
}

// New 创建客户端
//
// server 立即做 IDNA 规范化并校验，port 必须落在 (0, 65535]，
// 非法目标在这里失败而不是留到 Connect。选项错误同样即时返回。
func New(server string, port int, opts ...Option) (*Client, error) {
	o := newOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	cfg, err := o.buildConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if o.logLevel != nil {
		logger.SetGlobalLevel(*o.logLevel)
	}

	c := &Client{
		cfg:     cfg,
		handler: o.handler,
	}
	c.app = buildFxApp(cfg, c, o)
	if err := c.app.Err(); err != nil {
		return nil, fmt.Errorf("assemble failed: %w", err)
	}

	c.conn, err = c.factory(server, port)
	if err != nil {
		return nil, err
	}
	if o.handler != nil {
		c.conn.RegisterHandler(o.handler)
	}
	return c, nil
}

// Connect 解析目标并建立连接
//
// 依次完成：启动内部组件、解析域名（SRV 优先）、按配置的载体
// 逐端点拨号、安装套接字并启动接收循环。ctx 约束解析与拨号，
// 建连后的接收循环不受其影响。
//
// 已连接时返回 ErrAlreadyConnected，已关闭时返回 ErrClientClosed。
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClientClosed
	}
	if c.started {
		return ErrAlreadyConnected
	}

	startCtx, startCancel := context.WithTimeout(ctx, startTimeout)
	defer startCancel()
	if err := c.app.Start(startCtx); err != nil {
		return fmt.Errorf("start failed: %w", err)
	}

	log.Info("正在连接",
		"server", c.conn.Server(),
		"port", c.conn.Port(),
		"kind", c.cfg.Dial.Kind)

	c.dialing.Store(true)
	sock, err := c.dialer.Dial(ctx, c.conn.Server(), c.conn.Port())
	c.dialing.Store(false)
	if err != nil {
		c.stopApp()
		return fmt.Errorf("dial failed: %w", err)
	}

	if err := c.conn.Attach(sock); err != nil {
		_ = sock.Close()
		c.stopApp()
		return err
	}

	c.closing.Store(false)
	c.recvDone = make(chan error, 1)
	go c.receiveLoop()

	c.started = true
	if port, ok := c.conn.LocalPort(); ok {
		log.Info("连接建立", "server", c.conn.Server(), "local_port", port)
	}
	return nil
}

// receiveLoop 驱动接收循环并转发退出原因
func (c *Client) receiveLoop() {
	err := c.conn.Receive()

	// 用户主动关闭时不回调，对端断开与 I/O 错误照常通知
	if !c.closing.Load() && c.handler != nil {
		c.handler.HandleDisconnect(err)
	}
	c.recvDone <- err
}

// Close 断开连接并释放所有资源（幂等）
//
// 按推荐时序完成确定性回收：请求接收循环终止、等待其退出、
// 关闭套接字、停止内部组件。Close 之后客户端不可再用。
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	if !c.started {
		return nil
	}
	c.started = false

	var errs error
	c.closing.Store(true)
	c.conn.Disconnect()

	select {
	case <-c.recvDone:
	case <-time.After(recvExitTimeout):
		errs = multierr.Append(errs, errors.New("receive loop did not exit"))
	}

	c.conn.Cleanup()
	if err := c.stopApp(); err != nil {
		errs = multierr.Append(errs, err)
	}

	log.Info("客户端已关闭", "server", c.conn.Server())
	return errs
}

// stopApp 停止 Fx 应用
func (c *Client) stopApp() error {
	stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	return c.app.Stop(stopCtx)
}

// ============================================================================
//                              转发接口
// ============================================================================

// Send 发送完整载荷
//
// 并发安全；未连接或空载荷返回 false。语义见 interfaces.Conn。
func (c *Client) Send(p []byte) bool {
	return c.conn.Send(p)
}

// Stats 返回累计接收/发送字节数
func (c *Client) Stats() (bytesIn, bytesOut int64) {
	return c.conn.Stats()
}

// State 返回连接状态
//
// 拨号进行中报告 StateConnecting，其余委托连接核心。
func (c *Client) State() ConnState {
	if c.dialing.Load() {
		return StateConnecting
	}
	return c.conn.State()
}

// Server 返回规范化后的目标主机名
func (c *Client) Server() string {
	return c.conn.Server()
}

// Port 返回目标端口
func (c *Client) Port() int {
	return c.conn.Port()
}

// LocalPort 查询本地绑定端口；未连接时 ok 为 false
func (c *Client) LocalPort() (port int, ok bool) {
	return c.conn.LocalPort()
}

// LocalInterface 查询本地绑定地址；未连接时 ok 为 false
func (c *Client) LocalInterface() (addr string, ok bool) {
	return c.conn.LocalInterface()
}

// Conn 返回底层连接核心
//
// 提供给需要细粒度控制（DataAvailable、手动驱动回收时序）的
// 调用方，一般场景使用 Client 自身的方法即可。
func (c *Client) Conn() interfaces.Conn {
	return c.conn
}
