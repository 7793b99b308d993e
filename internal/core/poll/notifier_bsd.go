//go:build darwin || freebsd
// +build darwin freebsd

package poll

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"

	"github.com/dep2p/go-xwire/pkg/interfaces"
)

// kqueueNotifier Darwin/FreeBSD 平台的就绪通知器
//
// 每次 WaitRead 创建一次性的 kqueue 实例并在返回前关闭，
// 与 Linux 的 epoll 实现保持同样的单次等待语义。
type kqueueNotifier struct{}

var _ interfaces.ReadNotifier = kqueueNotifier{}

// newPlatformNotifier 创建平台特定的通知器
func newPlatformNotifier() interfaces.ReadNotifier {
	return kqueueNotifier{}
}

// WaitRead 等待 fd 可读
func (kqueueNotifier) WaitRead(fd int, timeout time.Duration) (bool, error) {
	kq, err := unix.Kqueue()
	if err != nil {
		return false, fmt.Errorf("kqueue: %w", err)
	}
	defer unix.Close(kq)

	var change unix.Kevent_t
	unix.SetKevent(&change, fd, unix.EVFILT_READ, unix.EV_ADD|unix.EV_ONESHOT)

	// 信号中断后按剩余时间重试
	var deadline time.Time
	if timeout >= 0 {
		deadline = time.Now().Add(timeout)
	}

	var events [1]unix.Kevent_t
	for {
		var ts *unix.Timespec
		if timeout >= 0 {
			remaining := time.Until(deadline)
			if remaining < 0 {
				remaining = 0
			}
			spec := unix.NsecToTimespec(remaining.Nanoseconds())
			ts = &spec
		}

		n, err := unix.Kevent(kq, []unix.Kevent_t{change}, events[:], ts)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return false, fmt.Errorf("kevent: %w", err)
		}
		return n > 0, nil
	}
}
