package xwire

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-xwire/config"
	"github.com/dep2p/go-xwire/pkg/interfaces"
)

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	// 整体配置（WithConfig / WithConfigFile）
	cfg        *config.Config
	configFile string

	// 载体配置
	transport   string
	dialTimeout time.Duration
	keepAlive   *time.Duration
	insecureTLS bool
	alpn        string
	wsPath      string
	wsSecure    *bool

	// 连接核心配置
	bufferSize       int
	recvPollInterval time.Duration

	// 解析配置
	srvService string
	resolvConf string

	// 观测配置
	bandwidth    *bool
	promRegistry prometheus.Registerer
	logLevel     *slog.Level

	// 回调
	handler interfaces.DataHandler

	// 用户自定义 Fx 选项
	userFxOptions []fx.Option
}

// newOptions 创建默认选项
func newOptions() *options {
	return &options{}
}

// buildConfig 把选项合成为统一配置
//
// 优先级从低到高：默认配置 → 配置文件 → WithConfig → 单项选项。
func (o *options) buildConfig() (*config.Config, error) {
	cfg := config.NewConfig()

	if o.configFile != "" {
		data, err := os.ReadFile(o.configFile)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", o.configFile, err)
		}
		cfg, err = config.FromJSON(data)
		if err != nil {
			return nil, fmt.Errorf("parse config %s: %w", o.configFile, err)
		}
	}

	if o.cfg != nil {
		cfg = o.cfg
	}

	// 覆盖: 载体
	if o.transport != "" {
		cfg.Dial.Kind = o.transport
	}
	if o.dialTimeout > 0 {
		cfg.Dial.Timeout = config.Duration(o.dialTimeout)
	}
	if o.keepAlive != nil {
		if *o.keepAlive > 0 {
			cfg.Dial.TCP.KeepAlive = true
			cfg.Dial.TCP.KeepAlivePeriod = config.Duration(*o.keepAlive)
			cfg.Dial.QUIC.KeepAlivePeriod = config.Duration(*o.keepAlive)
		} else {
			cfg.Dial.TCP.KeepAlive = false
			cfg.Dial.QUIC.KeepAlivePeriod = 0
		}
	}
	if o.insecureTLS {
		cfg.Dial.QUIC.InsecureSkipVerify = true
		cfg.Dial.WebSocket.InsecureSkipVerify = true
	}
	if o.alpn != "" {
		cfg.Dial.QUIC.ALPN = o.alpn
	}
	if o.wsPath != "" {
		cfg.Dial.WebSocket.Path = o.wsPath
	}
	if o.wsSecure != nil {
		cfg.Dial.WebSocket.Secure = *o.wsSecure
	}

	// 覆盖: 连接核心
	if o.bufferSize > 0 {
		cfg.Conn.BufferSize = o.bufferSize
	}
	if o.recvPollInterval > 0 {
		cfg.Conn.RecvPollInterval = config.Duration(o.recvPollInterval)
	}

	// 覆盖: 解析
	if o.srvService != "" {
		cfg.Resolver.Service = o.srvService
	}
	if o.resolvConf != "" {
		cfg.Resolver.ResolvConf = o.resolvConf
	}

	// 覆盖: 观测
	if o.bandwidth != nil {
		cfg.Bandwidth.Enabled = *o.bandwidth
	}

	return cfg, nil
}

// ============================================================================
//                              配置选项
// ============================================================================

// WithConfig 使用完整配置
//
// 覆盖默认配置与配置文件，之后的单项选项仍然生效。
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return fmt.Errorf("配置不能为空")
		}
		o.cfg = cfg
		return nil
	}
}

// WithConfigFile 从 JSON 文件加载配置
//
//	xwire.New("example.com", 5222, xwire.WithConfigFile("xwire.json"))
func WithConfigFile(path string) Option {
	return func(o *options) error {
		if path == "" {
			return fmt.Errorf("配置文件路径不能为空")
		}
		o.configFile = path
		return nil
	}
}

// ============================================================================
//                              载体选项
// ============================================================================

// WithTransport 选择字节流载体
//
// 支持的载体：
//   - "tcp": 原生 TCP（默认，RFC 6120）
//   - "quic": 单条 QUIC 双向流（RFC 9250 场景）
//   - "websocket": WebSocket 二进制消息流（RFC 7395 场景）
func WithTransport(kind string) Option {
	return func(o *options) error {
		switch kind {
		case "tcp", "quic", "websocket":
			o.transport = kind
			return nil
		default:
			return fmt.Errorf("不支持的载体类型: %q", kind)
		}
	}
}

// WithDialTimeout 设置单个端点的建连超时
func WithDialTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return fmt.Errorf("建连超时必须大于 0")
		}
		o.dialTimeout = d
		return nil
	}
}

// WithKeepAlive 设置载体保活周期
//
// period 为 0 时关闭保活。对 TCP 生效于 SO_KEEPALIVE，
// 对 QUIC 生效于连接层 PING。
func WithKeepAlive(period time.Duration) Option {
	return func(o *options) error {
		if period < 0 {
			return fmt.Errorf("保活周期不能为负")
		}
		o.keepAlive = &period
		return nil
	}
}

// WithInsecureTLS 跳过 QUIC/WSS 的证书校验
//
// 仅用于测试环境，生产环境绝不应启用。
func WithInsecureTLS() Option {
	return func(o *options) error {
		o.insecureTLS = true
		return nil
	}
}

// WithALPN 设置 QUIC 握手的 ALPN 协议标识
func WithALPN(proto string) Option {
	return func(o *options) error {
		if proto == "" {
			return fmt.Errorf("ALPN 标识不能为空")
		}
		o.alpn = proto
		return nil
	}
}

// WithWebSocketPath 设置 WebSocket 握手路径
func WithWebSocketPath(path string) Option {
	return func(o *options) error {
		if path == "" || path[0] != '/' {
			return fmt.Errorf("WebSocket 路径必须以 / 开头")
		}
		o.wsPath = path
		return nil
	}
}

// WithWebSocketSecure 选择 ws/wss 方案
func WithWebSocketSecure(secure bool) Option {
	return func(o *options) error {
		o.wsSecure = &secure
		return nil
	}
}

// ============================================================================
//                              连接核心选项
// ============================================================================

// WithBufferSize 设置接收缓冲区大小（字节）
func WithBufferSize(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("缓冲区大小必须大于 0")
		}
		o.bufferSize = n
		return nil
	}
}

// WithRecvPollInterval 设置接收循环的就绪等待间隔
//
// 它同时是断开请求的最大生效延迟，交互型应用可调小。
func WithRecvPollInterval(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return fmt.Errorf("就绪等待间隔必须大于 0")
		}
		o.recvPollInterval = d
		return nil
	}
}

// ============================================================================
//                              解析选项
// ============================================================================

// WithSRVService 设置 SRV 查询的服务标签
//
// 客户端连接用 "xmpp-client"（默认），服务端互联用 "xmpp-server"。
func WithSRVService(service string) Option {
	return func(o *options) error {
		if service == "" {
			return fmt.Errorf("SRV 服务标签不能为空")
		}
		o.srvService = service
		return nil
	}
}

// WithResolvConf 指定域名服务器配置文件路径
func WithResolvConf(path string) Option {
	return func(o *options) error {
		if path == "" {
			return fmt.Errorf("resolv.conf 路径不能为空")
		}
		o.resolvConf = path
		return nil
	}
}

// ============================================================================
//                              观测选项
// ============================================================================

// WithBandwidthMetrics 启用/禁用流量统计
//
// 禁用后 Stats 恒返回 0，收发路径少一次原子操作。
func WithBandwidthMetrics(enable bool) Option {
	return func(o *options) error {
		o.bandwidth = &enable
		return nil
	}
}

// WithMetricsRegistry 把连接指标注册到 Prometheus
//
//	xwire.New("example.com", 5222,
//	    xwire.WithMetricsRegistry(prometheus.DefaultRegisterer),
//	)
func WithMetricsRegistry(reg prometheus.Registerer) Option {
	return func(o *options) error {
		if reg == nil {
			return fmt.Errorf("指标注册器不能为空")
		}
		o.promRegistry = reg
		return nil
	}
}

// WithLogLevel 设置全局日志级别
func WithLogLevel(level slog.Level) Option {
	return func(o *options) error {
		o.logLevel = &level
		return nil
	}
}

// ============================================================================
//                              回调与扩展选项
// ============================================================================

// WithDataHandler 注册数据处理器
//
// 处理器接收两类通知：新到达的字节片段（仅在回调期间有效，
// 跨回调保留需自行拷贝）与断开事件。
func WithDataHandler(h interfaces.DataHandler) Option {
	return func(o *options) error {
		if h == nil {
			return fmt.Errorf("数据处理器不能为空")
		}
		o.handler = h
		return nil
	}
}

// WithFxOptions 追加自定义 Fx 选项（高级用法）
//
// 用于替换内部组件或注入额外依赖：
//
//	xwire.New("example.com", 5222,
//	    xwire.WithFxOptions(fx.Replace(fx.Annotate(myResolver, fx.As(new(interfaces.Resolver))))),
//	)
func WithFxOptions(opts ...fx.Option) Option {
	return func(o *options) error {
		o.userFxOptions = append(o.userFxOptions, opts...)
		return nil
	}
}
