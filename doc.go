// Package xwire 提供传输级的 XMPP 连接核心
//
// xwire 把一条到 XMPP 服务端的连接拆成可独立使用的三层：
// 端点解析（SRV 优先的 DNS 查询与 RFC 2782 排序）、载体拨号
// （TCP / QUIC / WebSocket 三种字节流承载）、连接核心（并发安全的
// 收发循环与统计）。它只搬运字节，不做 TLS 协商也不解析 XML 流，
// 上层协议逻辑通过数据处理器回调接入。
//
// # 核心概念
//
//   - Client: 门面入口，组装解析器、拨号器与连接核心
//   - Conn: 连接核心，两把互斥锁加原子取消标志的并发模型
//   - Socket: 字节流载体能力，按配置选择 TCP/QUIC/WebSocket
//   - DataHandler: 上层回调，接收字节片段与断开通知
//
// # 快速开始
//
//	import "github.com/dep2p/go-xwire"
//
//	client, err := xwire.New("example.com", 5222,
//	    xwire.WithDataHandler(handler),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	if err := client.Connect(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	client.Send([]byte("<stream:stream ...>"))
//
// # API 层次结构
//
//	┌────────────────────────────────────────────────────────┐
//	│  入口层                                                 │
//	│  ┌──────────┐                                           │
//	│  │  Client  │  xwire.New() / Connect() / Send()         │
//	│  └──────────┘                                           │
//	├────────────────────────────────────────────────────────┤
//	│  核心层                                                 │
//	│  ┌────────┐ ┌──────────┐ ┌────────┐ ┌──────────────┐   │
//	│  │  Conn  │ │ Resolver │ │ Dialer │ │ ReadNotifier │   │
//	│  └────────┘ └──────────┘ └────────┘ └──────────────┘   │
//	├────────────────────────────────────────────────────────┤
//	│  载体层                                                 │
//	│  ┌───────┐ ┌────────┐ ┌───────────┐                    │
//	│  │  TCP  │ │  QUIC  │ │ WebSocket │                    │
//	│  └───────┘ └────────┘ └───────────┘                    │
//	└────────────────────────────────────────────────────────┘
//
// 需要更细粒度控制的调用方可以跳过 Client，直接使用
// pkg/interfaces 中的组件接口自行装配。
package xwire
