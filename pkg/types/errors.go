// Package types 定义 go-xwire 的基础类型
//
// 本文件定义所有公共错误类型。
package types

import "errors"

// ============================================================================
//                              连接相关错误
// ============================================================================

var (
	// ErrNotConnected 未连接
	//
	// 两种场景返回此错误：
	//   - 操作发起时没有有效套接字
	//   - 接收循环因取消标志而非真实 I/O 错误退出
	ErrNotConnected = errors.New("not connected")

	// ErrIO 底层 I/O 错误
	//
	// 发送或接收时的操作系统级失败（含对端关闭）。
	// 具体系统错误通过 fmt.Errorf("...: %w", ...) 包装后仍可用 errors.Is 匹配。
	ErrIO = errors.New("i/o error")

	// ErrSocketClosed 套接字已关闭
	ErrSocketClosed = errors.New("socket closed")

	// ErrAlreadyConnected 已持有套接字
	//
	// Attach 要求连接处于空闲状态；重复安装会破坏
	// 单套接字所有权语义，因此直接拒绝。
	ErrAlreadyConnected = errors.New("already connected")
)

// ============================================================================
//                              构造/解析相关错误
// ============================================================================

var (
	// ErrInvalidHostname 主机名未通过 IDNA 规范化
	//
	// 构造连接时主机名规范化失败会直接失败，
	// 不会存储未规范化的原始值。
	ErrInvalidHostname = errors.New("invalid hostname")

	// ErrInvalidPort 端口号超出范围
	ErrInvalidPort = errors.New("invalid port")

	// ErrNoEndpoints 解析后没有可用端点
	ErrNoEndpoints = errors.New("no endpoints resolved")
)
