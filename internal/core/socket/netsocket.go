package socket

import (
	"net"
	"sync/atomic"
	"time"

	"github.com/dep2p/go-xwire/pkg/interfaces"
	"github.com/dep2p/go-xwire/pkg/types"
)

// defaultReadBound 单次接收的默认阻塞上限
const defaultReadBound = time.Second

// NetSocket 基于 net.Conn 的可移植载体
//
// 不暴露原始描述符。每次 Recv 前设置 readBound 的读截止
// 时间，到期错误满足 net.Error.Timeout()，调用方视为
// "暂无数据"继续循环。
type NetSocket struct {
	conn      net.Conn
	readBound time.Duration
	closed    atomic.Bool
}

var _ interfaces.Socket = (*NetSocket)(nil)

// NewNetSocket 封装一条已建连的 net.Conn
//
// readBound 非正时取默认值（1 秒）。
func NewNetSocket(conn net.Conn, readBound time.Duration) *NetSocket {
	if readBound <= 0 {
		readBound = defaultReadBound
	}
	return &NetSocket{
		conn:      conn,
		readBound: readBound,
	}
}

// Send 写出字节
//
// net.Conn 的 Write 只在出错时返回部分计数，
// 天然满足 Socket 的部分写约定。
func (s *NetSocket) Send(p []byte) (int, error) {
	if s.closed.Load() {
		return 0, types.ErrSocketClosed
	}
	return s.conn.Write(p)
}

// Recv 读入字节，阻塞至多 readBound
func (s *NetSocket) Recv(p []byte) (int, error) {
	if s.closed.Load() {
		return 0, types.ErrSocketClosed
	}
	if err := s.conn.SetReadDeadline(time.Now().Add(s.readBound)); err != nil {
		return 0, err
	}
	return s.conn.Read(p)
}

// Close 关闭连接（幂等）
func (s *NetSocket) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.conn.Close()
}

// LocalAddr 查询本地绑定地址
func (s *NetSocket) LocalAddr() (net.IP, int, error) {
	if s.closed.Load() {
		return nil, 0, types.ErrSocketClosed
	}

	switch a := s.conn.LocalAddr().(type) {
	case *net.TCPAddr:
		return a.IP, a.Port, nil
	case *net.UDPAddr:
		return a.IP, a.Port, nil
	default:
		return nil, 0, ErrAddrUnavailable
	}
}
