// Package conn 实现传输级连接核心
//
// 连接核心持有唯一的字节流套接字，在其上提供并发安全的
// 发送、接收、断开与回收。它不做拨号、不做 TLS、不理解任何
// 上层协议——套接字由拨号协作方建好后通过 Attach 安装，
// 字节原样进出，解析留给注册的数据处理器。
//
// # 并发模型
//
// 两把互斥锁加一个原子取消标志：
//
//   - 发送锁串行化所有 Send 调用
//   - 接收锁串行化接收周期与取消标志的写入
//   - Cleanup 对两把锁只做非阻塞尝试（先发送锁后接收锁），
//     任一失败立即放弃，因此绝不与进行中的操作死锁
//
// 发送与接收互不阻塞。典型驱动方式是一个 goroutine 独占调用
// Receive 驱动接收循环，任意 goroutine 并发 Send，需要终止时
// 任意 goroutine 调用 Disconnect 置取消标志，待 Receive 返回后
// 再调用 Cleanup 关闭套接字。
//
// # 接收循环
//
// Receive 内部按固定节奏循环：检查取消标志、等待套接字可读
// （至多一个就绪等待间隔）、读取一批字节并回调处理器。
// 就绪等待通过 ReadNotifier 完成，不可轮询的套接字退化为
// 自带接收截止时间的读取。取消标志最迟在一个间隔后被观察到，
// 这是断开请求的最大生效延迟。
//
// # 构造
//
// NewConn 即时校验主机名（IDNA 规范化）与端口范围，非法输入
// 在构造期失败而不是留到拨号时。fx 装配场景通过 Factory 提供
// 运行期参数（目标主机与端口）：
//
//	factory := conn.NewFactory(conn.Params{Notifier: n, Counter: bwc})
//	c, err := factory("example.com", 5222)
package conn
