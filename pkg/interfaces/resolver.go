package interfaces

import (
	"context"

	"github.com/dep2p/go-xwire/pkg/types"
)

// ============================================================================
//                              Resolver - 服务解析能力
// ============================================================================

// Resolver 服务端点解析能力
//
// 把目标域名解析为有序的可拨号端点列表：
// 首选 XMPP SRV 记录（_xmpp-client._tcp.<domain>，RFC 6120 §3.2.1），
// 无 SRV 时回退 A/AAAA + 显式端口。
type Resolver interface {
	// Resolve 解析 domain 的连接端点
	//
	// 返回的端点已按 SRV 优先级/权重排序；
	// fallbackPort 用于 A/AAAA 回退路径。
	Resolve(ctx context.Context, domain string, fallbackPort int) ([]types.Endpoint, error)
}

// ============================================================================
//                              Dialer - 拨号协作方
// ============================================================================

// Dialer 建连协作方
//
// 负责解析与套接字建立（连接核心自身不做建连）：
// 依次尝试端点、为每次尝试施加超时，成功后返回可安装的套接字。
// 断开套接字的操作由 Socket.Close 承担。
type Dialer interface {
	// Dial 解析并连接 domain:port，返回已建连的套接字
	Dial(ctx context.Context, domain string, port int) (Socket, error)
}
