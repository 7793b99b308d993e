package resolver

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/url"

	"github.com/gorilla/websocket"
	"github.com/quic-go/quic-go"

	"github.com/dep2p/go-xwire/config"
	"github.com/dep2p/go-xwire/internal/core/socket"
	"github.com/dep2p/go-xwire/pkg/interfaces"
	"github.com/dep2p/go-xwire/pkg/types"
)

// NetDialer 按配置的载体种类建立套接字
//
// 解析目标域名后依次尝试每个端点，第一个建连成功的端点胜出。
// TLS 身份按源域名校验而非 SRV 目标（RFC 6120 §13.7.2.1），
// 因此两级 TLS 载体的 ServerName 都取用户提供的域名。
type NetDialer struct {
	cfg      config.DialConfig
	kind     types.SocketKind
	resolver interfaces.Resolver
}

var _ interfaces.Dialer = (*NetDialer)(nil)

// NewNetDialer 创建拨号器
//
// cfg.Kind 无法解析时返回错误，其余配置项延迟到拨号时使用。
func NewNetDialer(cfg config.DialConfig, res interfaces.Resolver) (*NetDialer, error) {
	kind, err := cfg.SocketKind()
	if err != nil {
		return nil, err
	}
	return &NetDialer{
		cfg:      cfg,
		kind:     kind,
		resolver: res,
	}, nil
}

// Dial 解析并连接 domain:port
//
// 端点全部失败时返回最后一次的错误；上下文取消优先生效。
func (d *NetDialer) Dial(ctx context.Context, domain string, port int) (interfaces.Socket, error) {
	eps, err := d.resolver.Resolve(ctx, domain, port)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for _, ep := range eps {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		sock, err := d.dialEndpoint(ctx, domain, ep)
		if err == nil {
			log.Debug("端点建连成功",
				"kind", d.kind.String(),
				"endpoint", ep.String())
			return sock, nil
		}
		lastErr = err
		log.Debug("端点建连失败",
			"kind", d.kind.String(),
			"endpoint", ep.String(),
			"err", err)
	}
	return nil, fmt.Errorf("dial %s: %w", domain, lastErr)
}

// dialEndpoint 按载体种类连接单个端点
func (d *NetDialer) dialEndpoint(ctx context.Context, domain string, ep types.Endpoint) (interfaces.Socket, error) {
	switch d.kind {
	case types.SocketTCP:
		return d.dialTCP(ctx, ep)
	case types.SocketQUIC:
		return d.dialQUIC(ctx, domain, ep)
	case types.SocketWebSocket:
		return d.dialWebSocket(ctx, domain, ep)
	default:
		return nil, fmt.Errorf("unknown socket kind %v", d.kind)
	}
}

// dialTCP 建立原生 TCP 连接
func (d *NetDialer) dialTCP(ctx context.Context, ep types.Endpoint) (interfaces.Socket, error) {
	nd := &net.Dialer{
		Timeout: d.cfg.Timeout.Duration(),
	}
	if d.cfg.TCP.KeepAlive {
		nd.KeepAlive = d.cfg.TCP.KeepAlivePeriod.Duration()
	} else {
		nd.KeepAlive = -1
	}

	conn, err := nd.DialContext(ctx, "tcp", ep.Addr())
	if err != nil {
		return nil, err
	}

	tcpConn := conn.(*net.TCPConn)
	if !d.cfg.TCP.NoDelay {
		// Go 默认开启 NoDelay，只有关闭时才需要系统调用
		if err := tcpConn.SetNoDelay(false); err != nil {
			tcpConn.Close()
			return nil, err
		}
	}

	sock, err := socket.NewTCPCarrier(tcpConn, 0)
	if err != nil {
		tcpConn.Close()
		return nil, err
	}
	return sock, nil
}

// dialQUIC 建立 QUIC 连接并打开一条双向流作为字节流
func (d *NetDialer) dialQUIC(ctx context.Context, domain string, ep types.Endpoint) (interfaces.Socket, error) {
	tlsConf := &tls.Config{
		ServerName:         domain,
		NextProtos:         []string{d.cfg.QUIC.ALPN},
		MinVersion:         tls.VersionTLS13,
		InsecureSkipVerify: d.cfg.QUIC.InsecureSkipVerify, //nolint:gosec // G402: 由配置显式开启，仅用于测试
	}
	quicConf := &quic.Config{
		MaxIdleTimeout:  d.cfg.QUIC.MaxIdleTimeout.Duration(),
		KeepAlivePeriod: d.cfg.QUIC.KeepAlivePeriod.Duration(),
	}

	dialCtx, cancel := context.WithTimeout(ctx, d.cfg.Timeout.Duration())
	defer cancel()

	conn, err := quic.DialAddr(dialCtx, ep.Addr(), tlsConf, quicConf)
	if err != nil {
		return nil, err
	}

	stream, err := conn.OpenStreamSync(dialCtx)
	if err != nil {
		_ = conn.CloseWithError(0, "open stream failed")
		return nil, err
	}

	return socket.NewQUICSocket(conn, stream, 0), nil
}

// dialWebSocket 建立 WebSocket 连接
func (d *NetDialer) dialWebSocket(ctx context.Context, domain string, ep types.Endpoint) (interfaces.Socket, error) {
	scheme := "ws"
	if d.cfg.WebSocket.Secure {
		scheme = "wss"
	}
	u := url.URL{
		Scheme: scheme,
		Host:   ep.Addr(),
		Path:   d.cfg.WebSocket.Path,
	}

	wd := websocket.Dialer{
		HandshakeTimeout: d.cfg.WebSocket.HandshakeTimeout.Duration(),
	}
	if d.cfg.WebSocket.Secure {
		wd.TLSClientConfig = &tls.Config{
			ServerName:         domain,
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: d.cfg.WebSocket.InsecureSkipVerify, //nolint:gosec // G402: 由配置显式开启，仅用于测试
		}
	}

	conn, _, err := wd.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, err
	}
	return socket.NewWSSocket(conn, 0), nil
}
