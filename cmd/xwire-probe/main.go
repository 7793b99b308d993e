// Package main 提供 xwire-probe 命令行入口
//
// xwire-probe 对目标 XMPP 服务做一次传输级探测：解析域名
// （SRV 优先）、按选定载体建连、发送流头并回显收到的字节，
// 退出时打印流量统计。它只验证字节通路，不做 TLS 协商。
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dep2p/go-xwire"
)

// ═══════════════════════════════════════════════════════════════════════════
// 命令行参数
// ═══════════════════════════════════════════════════════════════════════════
var (
	// ─────────────────────────────────────────────────────────────────────
	// 探测目标
	// ─────────────────────────────────────────────────────────────────────
	server     = flag.String("server", "", "目标域名或 IP（必填）")
	port       = flag.Int("port", 5222, "目标端口")
	transport  = flag.String("transport", "tcp", "载体类型 (tcp/quic/websocket)")
	configFile = flag.String("config", "", "配置文件路径")

	// ─────────────────────────────────────────────────────────────────────
	// 探测行为
	// ─────────────────────────────────────────────────────────────────────
	timeout    = flag.Duration("timeout", 10*time.Second, "解析与建连总超时")
	duration   = flag.Duration("duration", 5*time.Second, "建连后的观察时长")
	srvService = flag.String("srv-service", "", "SRV 服务标签（默认 xmpp-client）")
	insecure   = flag.Bool("insecure", false, "跳过 QUIC/WSS 证书校验（仅测试）")

	// ─────────────────────────────────────────────────────────────────────
	// 观测
	// ─────────────────────────────────────────────────────────────────────
	metricsAddr = flag.String("metrics-addr", "", "Prometheus 指标监听地址（如 :9100）")
	logLevel    = flag.String("log-level", "info", "日志级别 (debug/info/warn/error)")

	// ─────────────────────────────────────────────────────────────────────
	// 信息显示
	// ─────────────────────────────────────────────────────────────────────
	showVersion = flag.Bool("version", false, "显示版本信息")
	showHelp    = flag.Bool("help", false, "显示帮助信息")
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()

	if *showVersion {
		printVersion()
		return nil
	}
	if *showHelp || *server == "" {
		printHelp()
		if *server == "" && !*showHelp {
			return fmt.Errorf("缺少 -server 参数")
		}
		return nil
	}

	opts, reg, err := buildOptions()
	if err != nil {
		return fmt.Errorf("配置错误: %w", err)
	}

	// 断开通知经处理器送回主循环
	probe := newProbeHandler()
	opts = append(opts, xwire.WithDataHandler(probe))

	client, err := xwire.New(*server, *port, opts...)
	if err != nil {
		return fmt.Errorf("创建客户端失败: %w", err)
	}
	defer func() { _ = client.Close() }()

	// 指标服务（可选）
	if *metricsAddr != "" {
		go serveMetrics(*metricsAddr, reg)
	}

	fmt.Printf("📦 %s\n", xwire.VersionInfo())
	fmt.Printf("正在探测 %s:%d (%s) ...\n", client.Server(), client.Port(), *transport)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	if err := client.Connect(ctx); err != nil {
		return fmt.Errorf("建连失败: %w", err)
	}

	fmt.Println("✅ 连接建立")
	if p, ok := client.LocalPort(); ok {
		addr, _ := client.LocalInterface()
		fmt.Printf("   本地绑定: %s:%d\n", addr, p)
	}

	// 发送流头，观察服务端的首批响应字节
	header := fmt.Sprintf(
		"<?xml version='1.0'?><stream:stream to='%s' version='1.0' xmlns='jabber:client' xmlns:stream='http://etherx.jabber.org/streams'>",
		client.Server())
	if !client.Send([]byte(header)) {
		return fmt.Errorf("发送流头失败")
	}

	waitProbe(probe)

	// 礼貌收尾（对端可能已断开，失败无妨）
	client.Send([]byte("</stream:stream>"))

	in, out := client.Stats()
	fmt.Printf("\n统计: 接收 %d 字节 / 发送 %d 字节\n", in, out)
	return nil
}

// buildOptions 把命令行参数转换为客户端选项
func buildOptions() ([]xwire.Option, *prometheus.Registry, error) {
	var opts []xwire.Option

	if *configFile != "" {
		opts = append(opts, xwire.WithConfigFile(*configFile))
	}
	opts = append(opts, xwire.WithTransport(*transport))
	if *srvService != "" {
		opts = append(opts, xwire.WithSRVService(*srvService))
	}
	if *insecure {
		opts = append(opts, xwire.WithInsecureTLS())
	}

	level, err := parseLevel(*logLevel)
	if err != nil {
		return nil, nil, err
	}
	opts = append(opts, xwire.WithLogLevel(level))

	var reg *prometheus.Registry
	if *metricsAddr != "" {
		reg = prometheus.NewRegistry()
		opts = append(opts, xwire.WithMetricsRegistry(reg))
	}
	return opts, reg, nil
}

// parseLevel 解析日志级别
func parseLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("无效的日志级别: %q", s)
	}
}

// serveMetrics 暴露 Prometheus 指标
func serveMetrics(addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	fmt.Printf("   指标服务: http://%s/metrics\n", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		fmt.Fprintf(os.Stderr, "指标服务退出: %v\n", err)
	}
}

// waitProbe 等待观察时长结束、断开通知或退出信号
func waitProbe(probe *probeHandler) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-time.After(*duration):
		fmt.Println("\n观察时长结束")
	case reason := <-probe.done:
		fmt.Printf("\n连接断开: %v\n", reason)
	case <-sigCh:
		fmt.Println("\n收到退出信号")
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// 数据处理器
// ═══════════════════════════════════════════════════════════════════════════

// probeHandler 把收到的字节回显到标准输出
type probeHandler struct {
	done chan error
}

func newProbeHandler() *probeHandler {
	return &probeHandler{done: make(chan error, 1)}
}

func (h *probeHandler) HandleData(p []byte) {
	fmt.Printf("⇦ %s\n", p)
}

func (h *probeHandler) HandleDisconnect(reason error) {
	select {
	case h.done <- reason:
	default:
	}
}

// printVersion 打印版本信息
func printVersion() {
	fmt.Printf("xwire-probe %s\n", xwire.Version)
	if xwire.GitCommit != "" {
		fmt.Printf("  commit: %s\n", xwire.GitCommit)
	}
	if xwire.BuildDate != "" {
		fmt.Printf("  built:  %s\n", xwire.BuildDate)
	}
}

// printHelp 打印帮助信息
func printHelp() {
	fmt.Println("xwire-probe - XMPP 传输级连接探测")
	fmt.Println()
	fmt.Println("用法:")
	fmt.Println("  xwire-probe -server <域名> [选项]")
	fmt.Println()
	fmt.Println("选项:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("示例:")
	fmt.Println("  xwire-probe -server example.com                    # SRV 解析 + TCP 探测")
	fmt.Println("  xwire-probe -server example.com -transport quic    # QUIC 载体")
	fmt.Println("  xwire-probe -server 127.0.0.1 -port 5222           # 直连 IP")
	fmt.Println("  xwire-probe -server example.com -metrics-addr :9100")
}
