package interfaces

import "time"

// ============================================================================
//                              ReadNotifier - 就绪通知能力
// ============================================================================

// ReadNotifier 就绪通知能力
//
// 在有限时间内等待描述符变为可读，用于界定接收循环的阻塞。
// 每个目标平台提供一个实现（linux: epoll, darwin/BSD: kqueue,
// 其他平台: 退化为立即就绪）。
type ReadNotifier interface {
	// WaitRead 等待 fd 可读
	//
	// 最多阻塞 timeout；返回是否至少有一个就绪事件。
	// 通知上下文创建或注册失败时返回错误，
	// 调用方应视为"未就绪"并在下一轮重试，而非向上传播。
	WaitRead(fd int, timeout time.Duration) (bool, error)
}
