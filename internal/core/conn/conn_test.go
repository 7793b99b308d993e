package conn

import (
	"bytes"
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-xwire/config"
	"github.com/dep2p/go-xwire/internal/core/metrics"
	"github.com/dep2p/go-xwire/internal/core/socket"
	"github.com/dep2p/go-xwire/pkg/types"
)

// ============================================================================
//                              测试桩
// ============================================================================

// idleError 表示"本轮无数据"的超时类错误
type idleError struct{}

func (idleError) Error() string   { return "recv idle" }
func (idleError) Timeout() bool   { return true }
func (idleError) Temporary() bool { return true }

var errRecvIdle net.Error = idleError{}

// fakeSocket 可编排的套接字桩
//
// Send 每次最多接受 writeCap 字节（0 为不限）以模拟部分写；
// Recv 依次吐出 chunks，取尽后返回 recvErr（默认超时）。
type fakeSocket struct {
	mu       sync.Mutex
	writeCap int
	sendErr  error
	writes   []int
	sent     bytes.Buffer
	chunks   [][]byte
	recvErr  error

	closeCount atomic.Int32
}

func (f *fakeSocket) Send(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return 0, f.sendErr
	}
	n := len(p)
	if f.writeCap > 0 && n > f.writeCap {
		n = f.writeCap
	}
	f.sent.Write(p[:n])
	f.writes = append(f.writes, n)
	return n, nil
}

func (f *fakeSocket) Recv(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.chunks) == 0 {
		if f.recvErr != nil {
			return 0, f.recvErr
		}
		return 0, errRecvIdle
	}
	chunk := f.chunks[0]
	f.chunks = f.chunks[1:]
	return copy(p, chunk), nil
}

func (f *fakeSocket) Close() error {
	f.closeCount.Add(1)
	return nil
}

func (f *fakeSocket) LocalAddr() (net.IP, int, error) {
	return net.IPv4(127, 0, 0, 1), 45678, nil
}

func (f *fakeSocket) sentBytes() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]byte(nil), f.sent.Bytes()...)
}

func (f *fakeSocket) writeSizes() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.writes...)
}

// fakePollable 暴露描述符的套接字桩
type fakePollable struct {
	fakeSocket
	fd int
}

func (f *fakePollable) Descriptor() int { return f.fd }

// fakeNotifier 可编排的就绪通知桩
type fakeNotifier struct {
	ready bool
	err   error
	calls atomic.Int32
}

func (n *fakeNotifier) WaitRead(fd int, timeout time.Duration) (bool, error) {
	n.calls.Add(1)
	return n.ready, n.err
}

// recordingHandler 记录回调的处理器桩
type recordingHandler struct {
	mu    sync.Mutex
	data  []byte
	discs []error
}

func (h *recordingHandler) HandleData(p []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.data = append(h.data, p...)
}

func (h *recordingHandler) HandleDisconnect(reason error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.discs = append(h.discs, reason)
}

func (h *recordingHandler) received() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]byte(nil), h.data...)
}

func (h *recordingHandler) disconnects() []error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]error(nil), h.discs...)
}

// newTestConn 创建用于测试的连接核心（短就绪间隔）
func newTestConn(t *testing.T) *Conn {
	t.Helper()
	cfg := config.DefaultConnConfig()
	cfg.RecvPollInterval = config.Duration(50 * time.Millisecond)
	c, err := NewConn("example.com", 5222, cfg, nil, metrics.NewBandwidthCounter())
	require.NoError(t, err)
	return c
}

// ============================================================================
//                              构造
// ============================================================================

func TestNewConn(t *testing.T) {
	t.Run("Normalization", func(t *testing.T) {
		c, err := NewConn("EXAMPLE.Com.", 5222, config.DefaultConnConfig(), nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "example.com", c.Server())
		assert.Equal(t, 5222, c.Port())
		assert.Equal(t, types.StateDisconnected, c.State())
		t.Log("✅ 主机名规范化测试通过")
	})

	t.Run("IDN", func(t *testing.T) {
		c, err := NewConn("bücher.example", 5222, config.DefaultConnConfig(), nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "xn--bcher-kva.example", c.Server())
	})

	t.Run("InvalidHostname", func(t *testing.T) {
		_, err := NewConn("bad host", 5222, config.DefaultConnConfig(), nil, nil)
		assert.ErrorIs(t, err, types.ErrInvalidHostname)
	})

	t.Run("InvalidPort", func(t *testing.T) {
		for _, port := range []int{0, -1, 70000} {
			_, err := NewConn("example.com", port, config.DefaultConnConfig(), nil, nil)
			assert.ErrorIs(t, err, types.ErrInvalidPort, "port %d", port)
		}
	})

	t.Run("InvalidConfig", func(t *testing.T) {
		cfg := config.DefaultConnConfig()
		cfg.BufferSize = 0
		_, err := NewConn("example.com", 5222, cfg, nil, nil)
		assert.Error(t, err)
	})
}

// ============================================================================
//                              未连接行为
// ============================================================================

func TestConn_Unconnected(t *testing.T) {
	c := newTestConn(t)

	assert.False(t, c.Send([]byte("data")), "无套接字时发送应失败")

	err := c.Receive()
	assert.ErrorIs(t, err, types.ErrNotConnected)

	assert.True(t, c.DataAvailable(0), "无套接字时应立即报告就绪")
	assert.True(t, c.DataAvailable(time.Second))

	c.Disconnect()
	c.Cleanup()
	assert.Equal(t, types.StateDisconnected, c.State())

	in, out := c.Stats()
	assert.Zero(t, in)
	assert.Zero(t, out)

	_, ok := c.LocalPort()
	assert.False(t, ok)
	_, ok = c.LocalInterface()
	assert.False(t, ok)

	t.Log("✅ 未连接行为测试通过")
}

// ============================================================================
//                              装配
// ============================================================================

func TestConn_Attach(t *testing.T) {
	c := newTestConn(t)

	require.Error(t, c.Attach(nil))

	sock := &fakeSocket{}
	require.NoError(t, c.Attach(sock))
	assert.Equal(t, types.StateConnected, c.State())

	err := c.Attach(&fakeSocket{})
	assert.ErrorIs(t, err, types.ErrAlreadyConnected)

	port, ok := c.LocalPort()
	require.True(t, ok)
	assert.Equal(t, 45678, port)

	addr, ok := c.LocalInterface()
	require.True(t, ok)
	assert.Equal(t, "127.0.0.1", addr)

	t.Log("✅ 套接字安装测试通过")
}

func TestConn_Reattach(t *testing.T) {
	c := newTestConn(t)
	first := &fakeSocket{}
	require.NoError(t, c.Attach(first))

	c.Cleanup()
	assert.Equal(t, int32(1), first.closeCount.Load())

	require.NoError(t, c.Attach(&fakeSocket{}), "回收后应可安装新套接字")
	assert.Equal(t, types.StateConnected, c.State())
}

// ============================================================================
//                              发送
// ============================================================================

func TestConn_Send(t *testing.T) {
	t.Run("Complete", func(t *testing.T) {
		c := newTestConn(t)
		sock := &fakeSocket{}
		require.NoError(t, c.Attach(sock))

		payload := []byte("<presence/>")
		assert.True(t, c.Send(payload))
		assert.Equal(t, payload, sock.sentBytes())

		_, out := c.Stats()
		assert.Equal(t, int64(len(payload)), out)
	})

	t.Run("PartialResume", func(t *testing.T) {
		c := newTestConn(t)
		sock := &fakeSocket{writeCap: 4096}
		require.NoError(t, c.Attach(sock))

		payload := bytes.Repeat([]byte("x"), 20000)
		assert.True(t, c.Send(payload))

		// 20000 字节按 4096 上限切分：4096×4 + 3616
		sizes := sock.writeSizes()
		require.Len(t, sizes, 5)
		assert.Equal(t, []int{4096, 4096, 4096, 4096, 3616}, sizes)
		assert.Equal(t, payload, sock.sentBytes())

		_, out := c.Stats()
		assert.Equal(t, int64(20000), out)
		t.Log("✅ 部分写续传测试通过")
	})

	t.Run("Empty", func(t *testing.T) {
		c := newTestConn(t)
		sock := &fakeSocket{}
		require.NoError(t, c.Attach(sock))

		assert.False(t, c.Send(nil))
		assert.False(t, c.Send([]byte{}))
		assert.Empty(t, sock.writeSizes())

		_, out := c.Stats()
		assert.Zero(t, out)
	})

	t.Run("Failure", func(t *testing.T) {
		c := newTestConn(t)
		h := &recordingHandler{}
		c.RegisterHandler(h)
		sock := &fakeSocket{sendErr: errors.New("broken pipe")}
		require.NoError(t, c.Attach(sock))

		assert.False(t, c.Send([]byte("data")))

		// 失败不计入发送统计
		_, out := c.Stats()
		assert.Zero(t, out)

		discs := h.disconnects()
		require.Len(t, discs, 1)
		assert.ErrorIs(t, discs[0], types.ErrIO)
		t.Log("✅ 发送失败通知测试通过")
	})

	t.Run("Concurrent", func(t *testing.T) {
		c := newTestConn(t)
		sock := &fakeSocket{}
		require.NoError(t, c.Attach(sock))

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.True(t, c.Send(bytes.Repeat([]byte("y"), 100)))
			}()
		}
		wg.Wait()

		_, out := c.Stats()
		assert.Equal(t, int64(800), out)
		assert.Len(t, sock.sentBytes(), 800)
	})
}

// ============================================================================
//                              接收
// ============================================================================

func TestConn_Receive(t *testing.T) {
	t.Run("DeliversData", func(t *testing.T) {
		c := newTestConn(t)
		h := &recordingHandler{}
		c.RegisterHandler(h)

		sock := &fakeSocket{
			chunks:  [][]byte{[]byte("<stream:stream>"), []byte("<features/>")},
			recvErr: io.EOF,
		}
		require.NoError(t, c.Attach(sock))

		err := c.Receive()
		assert.ErrorIs(t, err, types.ErrIO, "对端关闭应归为 I/O 错误")

		assert.Equal(t, []byte("<stream:stream><features/>"), h.received())
		in, _ := c.Stats()
		assert.Equal(t, int64(len("<stream:stream><features/>")), in)
		t.Log("✅ 数据投递测试通过")
	})

	t.Run("OSError", func(t *testing.T) {
		c := newTestConn(t)
		sock := &fakeSocket{recvErr: errors.New("connection reset by peer")}
		require.NoError(t, c.Attach(sock))

		err := c.Receive()
		require.ErrorIs(t, err, types.ErrIO)
		assert.Contains(t, err.Error(), "connection reset")
	})

	t.Run("CancelExit", func(t *testing.T) {
		c := newTestConn(t)
		require.NoError(t, c.Attach(&fakeSocket{}))

		done := make(chan error, 1)
		go func() { done <- c.Receive() }()

		// 让循环先跑起来再请求终止
		time.Sleep(20 * time.Millisecond)
		c.Disconnect()

		select {
		case err := <-done:
			assert.ErrorIs(t, err, types.ErrNotConnected, "取消退出应统一为未连接")
		case <-time.After(2 * time.Second):
			t.Fatal("接收循环未在就绪间隔内退出")
		}
		t.Log("✅ 取消退出测试通过")
	})

	t.Run("NilHandler", func(t *testing.T) {
		// 未注册处理器时数据被丢弃但计数照常
		c := newTestConn(t)
		sock := &fakeSocket{chunks: [][]byte{[]byte("dropped")}, recvErr: io.EOF}
		require.NoError(t, c.Attach(sock))

		err := c.Receive()
		assert.ErrorIs(t, err, types.ErrIO)
		in, _ := c.Stats()
		assert.Equal(t, int64(7), in)
	})
}

// TestConn_ReceiveLoopback 用真实管道对走一遍收发路径
func TestConn_ReceiveLoopback(t *testing.T) {
	c := newTestConn(t)
	h := &recordingHandler{}
	c.RegisterHandler(h)

	client, server := net.Pipe()
	defer server.Close()
	require.NoError(t, c.Attach(socket.NewNetSocket(client, 50*time.Millisecond)))

	done := make(chan error, 1)
	go func() { done <- c.Receive() }()

	payload := []byte("<message><body>hi</body></message>")
	go func() {
		_, _ = server.Write(payload)
	}()

	require.Eventually(t, func() bool {
		return bytes.Equal(h.received(), payload)
	}, 2*time.Second, 10*time.Millisecond, "应收到完整载荷")

	c.Disconnect()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, types.ErrNotConnected)
	case <-time.After(2 * time.Second):
		t.Fatal("接收循环未退出")
	}

	in, _ := c.Stats()
	assert.Equal(t, int64(len(payload)), in)
	t.Log("✅ 管道回环收发测试通过")
}

// ============================================================================
//                              就绪检查
// ============================================================================

func TestConn_DataAvailable(t *testing.T) {
	t.Run("NonPollable", func(t *testing.T) {
		c := newTestConn(t)
		require.NoError(t, c.Attach(&fakeSocket{}))
		assert.True(t, c.DataAvailable(0), "不可轮询套接字应立即报告就绪")
	})

	t.Run("PollableReady", func(t *testing.T) {
		cfg := config.DefaultConnConfig()
		n := &fakeNotifier{ready: true}
		c, err := NewConn("example.com", 5222, cfg, n, nil)
		require.NoError(t, err)
		require.NoError(t, c.Attach(&fakePollable{fd: 42}))

		assert.True(t, c.DataAvailable(time.Millisecond))
		assert.Equal(t, int32(1), n.calls.Load())
	})

	t.Run("PollableIdle", func(t *testing.T) {
		n := &fakeNotifier{ready: false}
		c, err := NewConn("example.com", 5222, config.DefaultConnConfig(), n, nil)
		require.NoError(t, err)
		require.NoError(t, c.Attach(&fakePollable{fd: 42}))

		assert.False(t, c.DataAvailable(time.Millisecond))
	})

	t.Run("NotifierError", func(t *testing.T) {
		// 就绪通知失败按"未就绪"处理而不是向上传播
		n := &fakeNotifier{err: errors.New("epoll_create1: too many open files")}
		c, err := NewConn("example.com", 5222, config.DefaultConnConfig(), n, nil)
		require.NoError(t, err)
		require.NoError(t, c.Attach(&fakePollable{fd: 42}))

		assert.False(t, c.DataAvailable(time.Millisecond))
		t.Log("✅ 就绪检查测试通过")
	})
}

// ============================================================================
//                              断开与回收
// ============================================================================

func TestConn_Cleanup(t *testing.T) {
	t.Run("FullReset", func(t *testing.T) {
		c := newTestConn(t)
		sock := &fakeSocket{}
		require.NoError(t, c.Attach(sock))
		require.True(t, c.Send([]byte("counted")))

		c.Cleanup()

		assert.Equal(t, int32(1), sock.closeCount.Load())
		assert.Equal(t, types.StateDisconnected, c.State())
		in, out := c.Stats()
		assert.Zero(t, in)
		assert.Zero(t, out)
		assert.ErrorIs(t, c.Receive(), types.ErrNotConnected)
		assert.True(t, c.DataAvailable(0))
		t.Log("✅ 回收复位测试通过")
	})

	t.Run("SendLockHeld", func(t *testing.T) {
		c := newTestConn(t)
		sock := &fakeSocket{}
		require.NoError(t, c.Attach(sock))

		c.sendMu.Lock()
		c.Cleanup()
		c.sendMu.Unlock()

		assert.Zero(t, sock.closeCount.Load(), "发送锁被持有时回收应放弃")
		assert.Equal(t, types.StateConnected, c.State())
	})

	t.Run("RecvLockHeld", func(t *testing.T) {
		c := newTestConn(t)
		sock := &fakeSocket{}
		require.NoError(t, c.Attach(sock))
		require.True(t, c.Send([]byte("keep")))

		c.recvMu.Lock()
		c.Cleanup()
		c.recvMu.Unlock()

		assert.Zero(t, sock.closeCount.Load(), "接收锁被持有时回收应放弃")
		assert.Equal(t, types.StateConnected, c.State())
		_, out := c.Stats()
		assert.Equal(t, int64(4), out, "放弃的回收不应碰计数器")
		t.Log("✅ 非阻塞回收测试通过")
	})

	t.Run("Idempotent", func(t *testing.T) {
		c := newTestConn(t)
		sock := &fakeSocket{}
		require.NoError(t, c.Attach(sock))

		c.Cleanup()
		c.Cleanup()
		assert.Equal(t, int32(1), sock.closeCount.Load(), "套接字只应关闭一次")
	})
}

func TestConn_Disconnect(t *testing.T) {
	c := newTestConn(t)
	// 未连接时随时可调且无副作用
	c.Disconnect()
	c.Disconnect()
	assert.Equal(t, types.StateDisconnected, c.State())
}

// TestConn_DisconnectThenCleanup 走一遍推荐的终止时序
func TestConn_DisconnectThenCleanup(t *testing.T) {
	c := newTestConn(t)
	sock := &fakeSocket{}
	require.NoError(t, c.Attach(sock))

	done := make(chan error, 1)
	go func() { done <- c.Receive() }()

	time.Sleep(20 * time.Millisecond)
	c.Disconnect()

	select {
	case err := <-done:
		require.ErrorIs(t, err, types.ErrNotConnected)
	case <-time.After(2 * time.Second):
		t.Fatal("接收循环未退出")
	}

	c.Cleanup()
	assert.Equal(t, int32(1), sock.closeCount.Load())
	assert.Equal(t, types.StateDisconnected, c.State())
	t.Log("✅ 终止时序测试通过")
}

// ============================================================================
//                              工厂
// ============================================================================

func TestNewFactory(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		factory := NewFactory(Params{})
		c, err := factory("example.com", 5222)
		require.NoError(t, err)
		assert.Equal(t, "example.com", c.Server())
		assert.Equal(t, 5222, c.Port())
	})

	t.Run("WithConfig", func(t *testing.T) {
		cfg := config.NewConfig()
		cfg.Conn.BufferSize = 1024
		factory := NewFactory(Params{Cfg: cfg})
		c, err := factory("example.com", 5269)
		require.NoError(t, err)
		assert.Equal(t, 1024, len(c.buf))
	})

	t.Run("InvalidTarget", func(t *testing.T) {
		factory := NewFactory(Params{})
		_, err := factory("bad host", 5222)
		assert.ErrorIs(t, err, types.ErrInvalidHostname)
	})
}
