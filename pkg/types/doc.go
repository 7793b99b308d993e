// Package types 定义 go-xwire 的公共数据结构
//
// 这是整个库的最底层包，不依赖任何其他 xwire 内部包。
// 所有类型都是纯值类型，用于在各模块间传递数据。
//
// # 文件组织
//
//   - enums.go    - ConnState, SocketKind 枚举类型
//   - errors.go   - 公共错误定义
//   - stats.go    - ConnStats 连接统计
//   - endpoint.go - Endpoint 连接端点（SRV 解析结果）
//
// # 设计原则
//
//  1. 不可变性：类型创建后尽量不可修改，使用值类型
//  2. 可比较性：枚举实现 String 方法，便于日志输出
//  3. 零依赖：不依赖任何其他 xwire 内部包（最底层）
package types
