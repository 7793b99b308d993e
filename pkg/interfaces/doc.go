// Package interfaces 定义 go-xwire 的公共接口
//
// 接口按能力组织（一个接口文件 = 一个实现目录）：
//
// # Core Layer 接口
//
//   - conn.go     - Conn 连接核心（发送/接收/断开/清理）
//   - socket.go   - Socket 字节流套接字能力、Pollable 可选能力
//   - notifier.go - ReadNotifier 就绪通知能力
//   - handler.go  - DataHandler 数据/断开回调
//   - resolver.go - Resolver 服务解析、Dialer 拨号协作方
//
// # 设计原则
//
//  1. 能力接口：平台相关的套接字与就绪通知各自独立成能力，
//     每个能力按目标平台提供可插拔实现，保持核心可移植
//  2. 可选能力：通过类型断言发现（如 Pollable），
//     不具备该能力的实现自然退化
//  3. 接口最小化：只暴露协作必需的操作
package interfaces
