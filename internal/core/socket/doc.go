// Package socket 提供 interfaces.Socket 的承载实现
//
// socket 模块把不同的底层承载统一为有序可靠的字节流：
//   - TCPSocket: 原生 TCP，持有原始描述符（实现 Pollable，
//     可参与内核级就绪等待）
//   - NetSocket: 任意 net.Conn 的可移植封装，读截止时间自限阻塞
//   - QUICSocket: QUIC 连接上的单条双向流
//   - WSSocket: WebSocket 连接，跨帧拼接为字节流
//
// # 选择载体
//
// 载体由拨号方（resolver 包的 Dialer）按配置选择，连接核心
// 对载体种类无感知：实现 Pollable 的载体走内核就绪等待，
// 其余载体自限阻塞并以 net.Error 超时表达"暂无数据"。
//
// # 关闭语义
//
// 所有载体的 Close 幂等。Close 不保证唤醒并发阻塞中的
// Recv，调用方应先停止接收循环再关闭。
package socket
