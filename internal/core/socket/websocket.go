package socket

import (
	"io"
	"net"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dep2p/go-xwire/pkg/interfaces"
	"github.com/dep2p/go-xwire/pkg/types"
)

// WSSocket 基于 WebSocket 连接的载体
//
// 写出为二进制帧；读取跨帧拼接，消息边界不保留，对上层
// 呈现连续字节流。
//
// gorilla 的读超时会永久污染连接，不能用截止时间轮询，
// 因此由内部泵 goroutine 独占阻塞读取，Recv 在泵的缓冲上
// 限时等待。Recv 仅供单个接收 goroutine 使用。
type WSSocket struct {
	conn      *websocket.Conn
	readBound time.Duration

	frames chan []byte
	done   chan struct{}

	// pumpErr 在 close(frames) 之前写入
	pumpErr error

	// buf 当前帧未消费部分（仅接收方访问）
	buf []byte

	closed atomic.Bool
}

var _ interfaces.Socket = (*WSSocket)(nil)

// NewWSSocket 封装一条已完成握手的 WebSocket 连接
//
// readBound 非正时取默认值（1 秒）。
func NewWSSocket(conn *websocket.Conn, readBound time.Duration) *WSSocket {
	if readBound <= 0 {
		readBound = defaultReadBound
	}
	s := &WSSocket{
		conn:      conn,
		readBound: readBound,
		frames:    make(chan []byte, 1),
		done:      make(chan struct{}),
	}
	go s.pump()
	return s
}

// pump 持续读取帧并投递给 Recv
func (s *WSSocket) pump() {
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			s.pumpErr = mapWSError(err)
			close(s.frames)
			return
		}
		if len(data) == 0 {
			continue
		}

		select {
		case s.frames <- data:
		case <-s.done:
			return
		}
	}
}

// Send 以单个二进制帧写出 p
func (s *WSSocket) Send(p []byte) (int, error) {
	if s.closed.Load() {
		return 0, types.ErrSocketClosed
	}
	if err := s.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Recv 读入字节，阻塞至多 readBound
func (s *WSSocket) Recv(p []byte) (int, error) {
	if s.closed.Load() {
		return 0, types.ErrSocketClosed
	}

	if len(s.buf) == 0 {
		timer := time.NewTimer(s.readBound)
		defer timer.Stop()

		select {
		case data, ok := <-s.frames:
			if !ok {
				return 0, s.pumpErr
			}
			s.buf = data
		case <-s.done:
			return 0, types.ErrSocketClosed
		case <-timer.C:
			return 0, errRecvTimeout
		}
	}

	n := copy(p, s.buf)
	s.buf = s.buf[n:]
	return n, nil
}

// Close 关闭连接（幂等）
//
// 尽力发送关闭帧后关闭底层连接，泵随之退出。
func (s *WSSocket) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(s.done)

	deadline := time.Now().Add(time.Second)
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = s.conn.WriteControl(websocket.CloseMessage, msg, deadline)

	return s.conn.Close()
}

// LocalAddr 查询本地绑定地址
func (s *WSSocket) LocalAddr() (net.IP, int, error) {
	if s.closed.Load() {
		return nil, 0, types.ErrSocketClosed
	}

	if a, ok := s.conn.LocalAddr().(*net.TCPAddr); ok {
		return a.IP, a.Port, nil
	}
	return nil, 0, ErrAddrUnavailable
}

// mapWSError 把 WebSocket 关闭错误映射为字节流语义
func mapWSError(err error) error {
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return io.EOF
	}
	return err
}

// wsTimeoutError 泵缓冲上的等待超时
type wsTimeoutError struct{}

func (wsTimeoutError) Error() string   { return "recv timeout" }
func (wsTimeoutError) Timeout() bool   { return true }
func (wsTimeoutError) Temporary() bool { return true }

var errRecvTimeout net.Error = wsTimeoutError{}
