package socket

import (
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUpgrader = websocket.Upgrader{}

// newWSEchoServer 启动一个回显 WebSocket 服务
func newWSEchoServer(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer c.Close()

		for {
			mt, msg, err := c.ReadMessage()
			if err != nil {
				return
			}
			if err := c.WriteMessage(mt, msg); err != nil {
				return
			}
		}
	}))
	t.Cleanup(server.Close)

	return server
}

// dialWS 建立到回显服务的 WebSocket 连接
func dialWS(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	dialer := websocket.Dialer{}
	conn, _, err := dialer.Dial(wsURL, nil)
	require.NoError(t, err)

	return conn
}

// TestWSSocket_SendRecv 测试帧收发往返
func TestWSSocket_SendRecv(t *testing.T) {
	server := newWSEchoServer(t)
	sock := NewWSSocket(dialWS(t, server), time.Second)
	defer sock.Close()

	payload := []byte("<stream:stream>")
	n, err := sock.Send(payload)
	require.NoError(t, err)
	assert.Equal(t, len(payload), n)

	buf := make([]byte, 64)
	rn, err := sock.Recv(buf)
	require.NoError(t, err)
	assert.Equal(t, payload, buf[:rn])

	t.Log("✅ 帧收发测试通过")
}

// TestWSSocket_PartialRead 测试跨多次读取消费同一帧
func TestWSSocket_PartialRead(t *testing.T) {
	server := newWSEchoServer(t)
	sock := NewWSSocket(dialWS(t, server), time.Second)
	defer sock.Close()

	payload := []byte("abcdefgh")
	_, err := sock.Send(payload)
	require.NoError(t, err)

	// 每次只读 3 字节，验证帧剩余部分跨调用保留
	var got []byte
	buf := make([]byte, 3)
	for len(got) < len(payload) {
		n, err := sock.Recv(buf)
		require.NoError(t, err)
		got = append(got, buf[:n]...)
	}
	assert.Equal(t, payload, got)

	t.Log("✅ 跨帧读取测试通过")
}

// TestWSSocket_RecvTimeout 测试无数据时限时返回
func TestWSSocket_RecvTimeout(t *testing.T) {
	server := newWSEchoServer(t)
	sock := NewWSSocket(dialWS(t, server), 30*time.Millisecond)
	defer sock.Close()

	_, err := sock.Recv(make([]byte, 16))
	require.Error(t, err)

	var netErr net.Error
	require.True(t, errors.As(err, &netErr))
	assert.True(t, netErr.Timeout())

	t.Log("✅ 接收限时测试通过")
}

// TestWSSocket_PeerClose 测试对端正常关闭映射为 EOF
func TestWSSocket_PeerClose(t *testing.T) {
	// 服务端收到一条消息后主动发送关闭帧
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer c.Close()

		if _, _, err := c.ReadMessage(); err != nil {
			return
		}

		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		c.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))

		// 等待对端回应关闭帧
		c.ReadMessage()
	}))
	t.Cleanup(server.Close)

	sock := NewWSSocket(dialWS(t, server), time.Second)
	defer sock.Close()

	_, err := sock.Send([]byte("bye"))
	require.NoError(t, err)

	// 重试直到泵收到关闭帧
	var recvErr error
	for i := 0; i < 50; i++ {
		_, recvErr = sock.Recv(make([]byte, 16))
		if recvErr != nil && !isTimeoutErr(recvErr) {
			break
		}
	}
	assert.ErrorIs(t, recvErr, io.EOF)

	t.Log("✅ 对端关闭测试通过")
}

func isTimeoutErr(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// TestWSSocket_CloseIdempotent 测试重复关闭
func TestWSSocket_CloseIdempotent(t *testing.T) {
	server := newWSEchoServer(t)
	sock := NewWSSocket(dialWS(t, server), time.Second)

	require.NoError(t, sock.Close())
	assert.NoError(t, sock.Close())

	t.Log("✅ 关闭幂等性测试通过")
}

// TestWSSocket_LocalAddr 测试本地地址查询
func TestWSSocket_LocalAddr(t *testing.T) {
	server := newWSEchoServer(t)
	sock := NewWSSocket(dialWS(t, server), time.Second)
	defer sock.Close()

	ip, port, err := sock.LocalAddr()
	require.NoError(t, err)
	assert.True(t, ip.IsLoopback())
	assert.Greater(t, port, 0)

	t.Log("✅ 本地地址测试通过")
}
