// Package poll 提供套接字可读就绪等待
//
// poll 模块实现 interfaces.ReadNotifier：在指定超时内等待
// 一个文件描述符变为可读。每次等待使用一次性的内核轮询
// 上下文（Linux epoll / BSD kqueue），等待结束即释放，
// 不维护常驻的兴趣集合。
//
// # 快速开始
//
//	notifier := poll.Default()
//
//	ready, err := notifier.WaitRead(fd, time.Second)
//	if err != nil {
//	    // 轮询本身失败（如描述符无效）
//	}
//	if ready {
//	    // fd 上有数据可读
//	}
//
// # 超时语义
//
//   - timeout > 0: 最多等待该时长
//   - timeout == 0: 立即返回当前就绪状态
//   - timeout < 0: 无限等待
//
// 亚毫秒超时按毫秒截断（内核接口粒度）。
//
// # 平台支持
//
//   - Linux: epoll（一次性实例）
//   - Darwin/FreeBSD: kqueue（一次性实例）
//   - 其他平台: 恒定就绪，错误由随后的读取暴露
//
// # 并发安全
//
// 通知器无状态，可被任意多个 goroutine 并发使用。
package poll
