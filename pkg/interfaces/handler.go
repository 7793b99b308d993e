package interfaces

// ============================================================================
//                              DataHandler - 数据回调
// ============================================================================

// DataHandler 连接数据处理器
//
// 由上层协议逻辑（流解析、状态机）实现，接收两类通知：
// 新到达的字节片段与断开事件。
//
// 回调在连接核心的锁之外进行，处理器自身可以安全地
// 回调 Send 或 Disconnect 而不会死锁。
type DataHandler interface {
	// HandleData 收到新的字节片段
	//
	// p 引用连接核心的复用缓冲区，仅在回调期间有效；
	// 需要跨回调保留时必须自行拷贝。
	HandleData(p []byte)

	// HandleDisconnect 连接断开通知
	//
	// reason 标识断开种类（types.ErrIO 包装的 I/O 失败，
	// 或 types.ErrNotConnected）。
	HandleDisconnect(reason error)
}
