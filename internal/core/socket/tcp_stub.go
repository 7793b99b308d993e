//go:build !linux && !darwin && !freebsd
// +build !linux,!darwin,!freebsd

package socket

import (
	"net"
	"time"

	"github.com/dep2p/go-xwire/pkg/interfaces"
)

// NewTCPCarrier 创建平台默认的 TCP 载体
//
// 无原始描述符支持的平台退化为读截止时间自限的封装。
func NewTCPCarrier(conn *net.TCPConn, readBound time.Duration) (interfaces.Socket, error) {
	return NewNetSocket(conn, readBound), nil
}
