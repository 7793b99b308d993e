package socket

import "errors"

var (
	// ErrAddrUnavailable 本地地址不可用
	//
	// 载体的地址族不在支持范围，或底层连接不暴露
	// 网络地址（如测试管道）。
	ErrAddrUnavailable = errors.New("local address unavailable")
)
