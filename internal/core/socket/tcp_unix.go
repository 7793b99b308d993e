//go:build linux || darwin || freebsd
// +build linux darwin freebsd

package socket

import (
	"fmt"
	"io"
	"net"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/sys/unix"

	"github.com/dep2p/go-xwire/pkg/interfaces"
	"github.com/dep2p/go-xwire/pkg/types"
)

// TCPSocket 原生 TCP 载体
//
// 持有阻塞模式的原始描述符，读写直接走系统调用。
// 实现 Pollable，接收方用 ReadNotifier 界定阻塞时长后
// 再读取，因此 Recv 自身不设截止时间。
type TCPSocket struct {
	// file 保持描述符存活（防止 finalizer 提前关闭）
	file   *os.File
	fd     int
	closed atomic.Bool
}

var (
	_ interfaces.Socket   = (*TCPSocket)(nil)
	_ interfaces.Pollable = (*TCPSocket)(nil)
)

// NewTCPSocket 从已建连的 TCP 连接创建原生载体
//
// 复制出描述符并关闭原连接，返回后 conn 不再可用。
// keepalive、nodelay 等套接字选项应在调用前设置。
func NewTCPSocket(conn *net.TCPConn) (*TCPSocket, error) {
	file, err := conn.File()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("extract descriptor: %w", err)
	}
	conn.Close()

	return &TCPSocket{
		file: file,
		fd:   int(file.Fd()),
	}, nil
}

// NewTCPCarrier 创建平台默认的 TCP 载体
//
// 原始描述符可用的平台忽略 readBound（阻塞由就绪等待界定）。
func NewTCPCarrier(conn *net.TCPConn, _ time.Duration) (interfaces.Socket, error) {
	return NewTCPSocket(conn)
}

// Send 写出字节，允许部分写
func (s *TCPSocket) Send(p []byte) (int, error) {
	if s.closed.Load() {
		return 0, types.ErrSocketClosed
	}

	for {
		n, err := unix.Write(s.fd, p)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, os.NewSyscallError("write", err)
		}
		return n, nil
	}
}

// Recv 读入字节
//
// 描述符处于阻塞模式；调用方应先通过就绪等待确认有数据，
// 否则可能无限期阻塞。
func (s *TCPSocket) Recv(p []byte) (int, error) {
	if s.closed.Load() {
		return 0, types.ErrSocketClosed
	}

	for {
		n, err := unix.Read(s.fd, p)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, os.NewSyscallError("read", err)
		}
		if n == 0 {
			// 对端有序关闭
			return 0, io.EOF
		}
		return n, nil
	}
}

// Close 关闭套接字（幂等）
func (s *TCPSocket) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.file.Close()
}

// LocalAddr 查询本地绑定地址
func (s *TCPSocket) LocalAddr() (net.IP, int, error) {
	if s.closed.Load() {
		return nil, 0, types.ErrSocketClosed
	}

	sa, err := unix.Getsockname(s.fd)
	if err != nil {
		return nil, 0, os.NewSyscallError("getsockname", err)
	}

	switch a := sa.(type) {
	case *unix.SockaddrInet4:
		return net.IP(a.Addr[:]), a.Port, nil
	case *unix.SockaddrInet6:
		return net.IP(a.Addr[:]), a.Port, nil
	default:
		return nil, 0, ErrAddrUnavailable
	}
}

// Descriptor 返回原始文件描述符
func (s *TCPSocket) Descriptor() int {
	return s.fd
}
