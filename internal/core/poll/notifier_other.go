//go:build !linux && !darwin && !freebsd
// +build !linux,!darwin,!freebsd

package poll

import (
	"time"

	"github.com/dep2p/go-xwire/pkg/interfaces"
)

// alwaysReady 无内核轮询支持平台的降级实现
//
// 恒定报告就绪，把错误暴露推迟给随后的读取。
// 这类平台上的套接字载体应自行用读超时限制阻塞时长。
type alwaysReady struct{}

var _ interfaces.ReadNotifier = alwaysReady{}

// newPlatformNotifier 创建平台特定的通知器
func newPlatformNotifier() interfaces.ReadNotifier {
	return alwaysReady{}
}

// WaitRead 恒定返回就绪
func (alwaysReady) WaitRead(fd int, timeout time.Duration) (bool, error) {
	return true, nil
}
