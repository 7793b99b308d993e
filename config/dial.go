package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/dep2p/go-xwire/pkg/types"
)

// DialConfig 拨号配置
//
// 配置连接建立使用的载体及其参数：
//   - TCP: 传统 TCP 连接（默认，兼容性最好）
//   - QUIC: 基于 UDP 的现代传输（RFC 9250 的 XMPP over QUIC）
//   - WebSocket: RFC 7395 的 XMPP over WebSocket
type DialConfig struct {
	// Kind 载体种类: "tcp"、"quic" 或 "websocket"
	Kind string `json:"kind"`

	// Timeout 单个端点的拨号超时
	Timeout Duration `json:"timeout"`

	// TCP 配置
	TCP TCPDialConfig `json:"tcp,omitempty"`

	// QUIC 配置
	QUIC QUICDialConfig `json:"quic,omitempty"`

	// WebSocket 配置
	WebSocket WSDialConfig `json:"websocket,omitempty"`
}

// TCPDialConfig TCP 载体配置
type TCPDialConfig struct {
	// KeepAlive 是否启用 TCP KeepAlive
	KeepAlive bool `json:"keep_alive"`

	// KeepAlivePeriod KeepAlive 周期
	KeepAlivePeriod Duration `json:"keep_alive_period"`

	// NoDelay 是否禁用 Nagle 算法
	NoDelay bool `json:"no_delay"`
}

// QUICDialConfig QUIC 载体配置
type QUICDialConfig struct {
	// MaxIdleTimeout 最大空闲超时
	MaxIdleTimeout Duration `json:"max_idle_timeout"`

	// KeepAlivePeriod KeepAlive 周期
	KeepAlivePeriod Duration `json:"keep_alive_period"`

	// ALPN 应用层协议标识
	// 默认值: "xmpp-client"（RFC 9250）
	ALPN string `json:"alpn"`

	// InsecureSkipVerify 跳过证书校验（仅用于测试）
	InsecureSkipVerify bool `json:"insecure_skip_verify,omitempty"`
}

// WSDialConfig WebSocket 载体配置
type WSDialConfig struct {
	// HandshakeTimeout 握手超时
	HandshakeTimeout Duration `json:"handshake_timeout"`

	// Path 端点路径
	// 默认值: "/xmpp-websocket"（RFC 7395）
	Path string `json:"path"`

	// Secure 是否使用 wss
	Secure bool `json:"secure"`

	// InsecureSkipVerify 跳过证书校验（仅用于测试）
	InsecureSkipVerify bool `json:"insecure_skip_verify,omitempty"`
}

// DefaultDialConfig 返回默认拨号配置
func DefaultDialConfig() DialConfig {
	return DialConfig{
		Kind:    "tcp",
		Timeout: Duration(10 * time.Second),
		TCP: TCPDialConfig{
			KeepAlive:       true,
			KeepAlivePeriod: Duration(15 * time.Second),
			NoDelay:         true,
		},
		QUIC: QUICDialConfig{
			MaxIdleTimeout:  Duration(30 * time.Second),
			KeepAlivePeriod: Duration(15 * time.Second),
			ALPN:            "xmpp-client",
		},
		WebSocket: WSDialConfig{
			HandshakeTimeout: Duration(10 * time.Second),
			Path:             "/xmpp-websocket",
			Secure:           true,
		},
	}
}

// SocketKind 返回载体种类的枚举值
func (c *DialConfig) SocketKind() (types.SocketKind, error) {
	kind, ok := types.ParseSocketKind(c.Kind)
	if !ok {
		return 0, fmt.Errorf("unknown socket kind %q", c.Kind)
	}
	return kind, nil
}

// Validate 验证拨号配置
func (c *DialConfig) Validate() error {
	if _, err := c.SocketKind(); err != nil {
		return err
	}
	if c.Timeout <= 0 {
		return errors.New("dial timeout must be positive")
	}
	if c.TCP.KeepAlive && c.TCP.KeepAlivePeriod <= 0 {
		return errors.New("tcp keep alive period must be positive when enabled")
	}
	if c.QUIC.MaxIdleTimeout <= 0 {
		return errors.New("quic max idle timeout must be positive")
	}
	if c.QUIC.ALPN == "" {
		return errors.New("quic alpn must not be empty")
	}
	if c.WebSocket.HandshakeTimeout <= 0 {
		return errors.New("websocket handshake timeout must be positive")
	}
	if c.WebSocket.Path == "" || c.WebSocket.Path[0] != '/' {
		return errors.New("websocket path must start with /")
	}
	return nil
}
