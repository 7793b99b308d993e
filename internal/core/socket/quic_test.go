package socket

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"math/big"
	"net"
	"testing"
	"time"

	"github.com/quic-go/quic-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testALPN = "xwire-test"

// newTestTLSConfig 生成自签名的服务端 TLS 配置
func newTestTLSConfig(t *testing.T) *tls.Config {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	template := x509.Certificate{SerialNumber: big.NewInt(1)}
	certDER, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	require.NoError(t, err)

	return &tls.Config{
		Certificates: []tls.Certificate{{
			Certificate: [][]byte{certDER},
			PrivateKey:  key,
		}},
		NextProtos: []string{testALPN},
	}
}

// newQUICEcho 启动回显服务并建立客户端载体
func newQUICEcho(t *testing.T, readBound time.Duration) *QUICSocket {
	t.Helper()

	listener, err := quic.ListenAddr("127.0.0.1:0", newTestTLSConfig(t), nil)
	require.NoError(t, err)
	t.Cleanup(func() { listener.Close() })

	go func() {
		conn, err := listener.Accept(context.Background())
		if err != nil {
			return
		}
		stream, err := conn.AcceptStream(context.Background())
		if err != nil {
			return
		}
		defer stream.Close()
		io.Copy(stream, stream)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clientTLS := &tls.Config{
		InsecureSkipVerify: true,
		NextProtos:         []string{testALPN},
	}
	conn, err := quic.DialAddr(ctx, listener.Addr().String(), clientTLS, nil)
	require.NoError(t, err)

	stream, err := conn.OpenStreamSync(ctx)
	require.NoError(t, err)

	sock := NewQUICSocket(conn, stream, readBound)
	t.Cleanup(func() { sock.Close() })

	return sock
}

// TestQUICSocket_SendRecv 测试流上的收发往返
func TestQUICSocket_SendRecv(t *testing.T) {
	sock := newQUICEcho(t, time.Second)

	payload := []byte("quic carrier")
	n, err := sock.Send(payload)
	require.NoError(t, err)
	assert.Equal(t, len(payload), n)

	buf := make([]byte, 64)
	got := make([]byte, 0, len(payload))
	for len(got) < len(payload) {
		rn, err := sock.Recv(buf)
		require.NoError(t, err)
		got = append(got, buf[:rn]...)
	}
	assert.Equal(t, payload, got)

	t.Log("✅ QUIC 收发测试通过")
}

// TestQUICSocket_RecvTimeout 测试无数据时限时返回
func TestQUICSocket_RecvTimeout(t *testing.T) {
	sock := newQUICEcho(t, 30*time.Millisecond)

	_, err := sock.Recv(make([]byte, 16))
	require.Error(t, err)

	var netErr net.Error
	require.True(t, errors.As(err, &netErr))
	assert.True(t, netErr.Timeout())

	// 超时可恢复：流仍然可用
	payload := []byte("after timeout")
	_, err = sock.Send(payload)
	require.NoError(t, err)

	t.Log("✅ QUIC 接收限时测试通过")
}

// TestQUICSocket_LocalAddr 测试本地地址查询
func TestQUICSocket_LocalAddr(t *testing.T) {
	sock := newQUICEcho(t, time.Second)

	ip, port, err := sock.LocalAddr()
	require.NoError(t, err)
	assert.NotNil(t, ip)
	assert.Greater(t, port, 0)

	t.Log("✅ QUIC 本地地址测试通过")
}

// TestQUICSocket_CloseIdempotent 测试重复关闭
func TestQUICSocket_CloseIdempotent(t *testing.T) {
	sock := newQUICEcho(t, time.Second)

	require.NoError(t, sock.Close())
	assert.NoError(t, sock.Close())

	t.Log("✅ QUIC 关闭幂等性测试通过")
}
