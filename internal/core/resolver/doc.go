// Package resolver 实现服务端点解析与建连
//
// 解析遵循 XMPP 的端点发现流程（RFC 6120 §3.2）：
//
//  1. 规范化目标域名（IDNA 2008，非 ASCII 域名转 punycode）
//  2. 查询 _<service>._<proto>.<domain> 的 SRV 记录
//  3. 按 RFC 2782 的优先级/权重排出拨号顺序
//  4. 无 SRV 记录时回退 A/AAAA + 显式端口
//
// 单条值为 "." 的 SRV 记录表示服务在该域名下明确不可用
// （RFC 2782），此时不回退，直接报 ErrServiceUnavailable。
//
// # 组件
//
//   - DNSResolver: miekg/dns 实现的解析器，带 TTL 缓存
//   - NetDialer: 依次尝试端点的拨号器，产出可安装的套接字
//
// DNS 服务器列表默认取自 /etc/resolv.conf；
// 测试或特殊部署可用 NewDNSResolverWithServers 显式指定。
//
// # 使用示例
//
//	res, err := resolver.NewDNSResolver(cfg.Resolver)
//	if err != nil { ... }
//	d := resolver.NewNetDialer(cfg.Dial, res)
//	sock, err := d.Dial(ctx, "example.com", 5222)
package resolver
