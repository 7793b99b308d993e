//go:build linux
// +build linux

package poll

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"

	"github.com/dep2p/go-xwire/pkg/interfaces"
)

// epollNotifier Linux 平台的就绪通知器
//
// 每次 WaitRead 创建一次性的 epoll 实例并在返回前关闭。
// 单描述符单事件的场景下，一次性实例省去了兴趣集合的
// 生命周期管理，代价是每次等待两个额外系统调用。
type epollNotifier struct{}

var _ interfaces.ReadNotifier = epollNotifier{}

// newPlatformNotifier 创建平台特定的通知器
func newPlatformNotifier() interfaces.ReadNotifier {
	return epollNotifier{}
}

// WaitRead 等待 fd 可读
func (epollNotifier) WaitRead(fd int, timeout time.Duration) (bool, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return false, fmt.Errorf("epoll_create1: %w", err)
	}
	defer unix.Close(epfd)

	ev := unix.EpollEvent{
		Events: unix.EPOLLIN,
		Fd:     int32(fd),
	}
	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return false, fmt.Errorf("epoll_ctl add fd %d: %w", fd, err)
	}

	// 信号中断后按剩余时间重试
	var deadline time.Time
	if timeout >= 0 {
		deadline = time.Now().Add(timeout)
	}

	var events [1]unix.EpollEvent
	for {
		ms := -1
		if timeout >= 0 {
			remaining := time.Until(deadline)
			if remaining < 0 {
				remaining = 0
			}
			ms = int(remaining.Milliseconds())
		}

		n, err := unix.EpollWait(epfd, events[:], ms)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return false, fmt.Errorf("epoll_wait: %w", err)
		}
		return n > 0, nil
	}
}
