package socket

import (
	"net"
	"sync/atomic"
	"time"

	"github.com/quic-go/quic-go"
	"go.uber.org/multierr"

	"github.com/dep2p/go-xwire/pkg/interfaces"
	"github.com/dep2p/go-xwire/pkg/types"
)

// QUICSocket 基于 QUIC 双向流的载体
//
// 一条 QUIC 连接承载一条双向流，把流映射为与 TCP 等价的
// 有序字节流。流的读截止时间自限阻塞，到期错误满足
// net.Error.Timeout()。
type QUICSocket struct {
	conn      quic.Connection
	stream    quic.Stream
	readBound time.Duration
	closed    atomic.Bool
}

var _ interfaces.Socket = (*QUICSocket)(nil)

// NewQUICSocket 封装一条已建连的 QUIC 连接及其承载流
//
// readBound 非正时取默认值（1 秒）。
func NewQUICSocket(conn quic.Connection, stream quic.Stream, readBound time.Duration) *QUICSocket {
	if readBound <= 0 {
		readBound = defaultReadBound
	}
	return &QUICSocket{
		conn:      conn,
		stream:    stream,
		readBound: readBound,
	}
}

// Send 写出字节
func (s *QUICSocket) Send(p []byte) (int, error) {
	if s.closed.Load() {
		return 0, types.ErrSocketClosed
	}
	return s.stream.Write(p)
}

// Recv 读入字节，阻塞至多 readBound
//
// 对端关闭流（FIN）返回 io.EOF，截止时间到期的错误
// 可恢复，下一次调用照常读取。
func (s *QUICSocket) Recv(p []byte) (int, error) {
	if s.closed.Load() {
		return 0, types.ErrSocketClosed
	}
	if err := s.stream.SetReadDeadline(time.Now().Add(s.readBound)); err != nil {
		return 0, err
	}
	return s.stream.Read(p)
}

// Close 关闭流与连接（幂等）
func (s *QUICSocket) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	// 先关写端让对端收到 FIN，再整体关闭连接
	err := s.stream.Close()
	return multierr.Append(err, s.conn.CloseWithError(0, "closed"))
}

// LocalAddr 查询本地绑定地址
func (s *QUICSocket) LocalAddr() (net.IP, int, error) {
	if s.closed.Load() {
		return nil, 0, types.ErrSocketClosed
	}

	if a, ok := s.conn.LocalAddr().(*net.UDPAddr); ok {
		return a.IP, a.Port, nil
	}
	return nil, 0, ErrAddrUnavailable
}
