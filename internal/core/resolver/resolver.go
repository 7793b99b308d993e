package resolver

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/miekg/dns"
	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-xwire/config"
	"github.com/dep2p/go-xwire/internal/util/logger"
	"github.com/dep2p/go-xwire/pkg/interfaces"
	"github.com/dep2p/go-xwire/pkg/types"
)

// 包级别日志实例
var log = logger.Logger("resolver")

// defaultNameserver resolv.conf 不可用时的回退 DNS 服务器
const defaultNameserver = "127.0.0.1:53"

// DNSResolver 基于 miekg/dns 的端点解析器
//
// 首选 SRV 记录，无记录时并发查询 A/AAAA 回退。
// 解析结果进 TTL + LRU 缓存，键为 "host:fallbackPort"。
type DNSResolver struct {
	cfg     config.ResolverConfig
	servers []string

	udp *dns.Client
	tcp *dns.Client // UDP 响应截断时的重试通道

	cache *expirable.LRU[string, []types.Endpoint]

	// rand.Rand 非并发安全
	rngMu sync.Mutex
	rng   *rand.Rand
}

var _ interfaces.Resolver = (*DNSResolver)(nil)

// NewDNSResolver 创建解析器，DNS 服务器取自 resolv.conf
//
// resolv.conf 不可读时记一条警告并回退本机 DNS（与标准库
// net 包的行为一致）。
func NewDNSResolver(cfg config.ResolverConfig) (*DNSResolver, error) {
	servers, err := serversFromResolvConf(cfg.ResolvConf)
	if err != nil {
		log.Warn("读取 resolv.conf 失败，回退本机 DNS",
			"path", cfg.ResolvConf,
			"err", err)
		servers = []string{defaultNameserver}
	}
	return NewDNSResolverWithServers(cfg, servers)
}

// NewDNSResolverWithServers 创建使用指定 DNS 服务器的解析器
//
// servers 为 "host:port" 列表，按序尝试。
func NewDNSResolverWithServers(cfg config.ResolverConfig, servers []string) (*DNSResolver, error) {
	if len(servers) == 0 {
		return nil, ErrNoNameservers
	}

	r := &DNSResolver{
		cfg:     cfg,
		servers: servers,
		udp:     &dns.Client{Timeout: cfg.LookupTimeout.Duration()},
		tcp:     &dns.Client{Net: "tcp", Timeout: cfg.LookupTimeout.Duration()},
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // G404: 拨号顺序不需要加密级随机
	}
	if cfg.CacheSize > 0 {
		r.cache = expirable.NewLRU[string, []types.Endpoint](cfg.CacheSize, nil, cfg.CacheTTL.Duration())
	}
	return r, nil
}

// Resolve 解析 domain 的连接端点
//
// 字面量 IP 直接返回单个端点，不做任何 DNS 查询。
func (r *DNSResolver) Resolve(ctx context.Context, domain string, fallbackPort int) ([]types.Endpoint, error) {
	host, err := NormalizeHost(domain)
	if err != nil {
		return nil, err
	}
	if fallbackPort <= 0 || fallbackPort > 65535 {
		return nil, fmt.Errorf("port %d: %w", fallbackPort, types.ErrInvalidPort)
	}

	if net.ParseIP(host) != nil {
		return []types.Endpoint{{Host: host, Port: fallbackPort}}, nil
	}

	key := cacheKey(host, fallbackPort)
	if r.cache != nil {
		if eps, ok := r.cache.Get(key); ok {
			log.Debug("使用缓存的解析结果",
				"host", host,
				"endpoints", len(eps))
			return cloneEndpoints(eps), nil
		}
	}

	eps, err := r.lookup(ctx, host, fallbackPort)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		// 存副本：调用方可能改写返回的切片
		r.cache.Add(key, cloneEndpoints(eps))
	}
	return eps, nil
}

// lookup 执行完整的 SRV 优先解析流程
func (r *DNSResolver) lookup(ctx context.Context, host string, fallbackPort int) ([]types.Endpoint, error) {
	srvEps, err := r.lookupSRV(ctx, host)
	if err != nil {
		if errors.Is(err, ErrServiceUnavailable) {
			return nil, err
		}
		// SRV 查询失败不致命，按无记录处理走地址回退
		log.Debug("SRV 查询失败，回退地址记录",
			"host", host,
			"err", err)
	}

	if len(srvEps) > 0 {
		r.rngMu.Lock()
		ordered := orderEndpoints(srvEps, r.rng)
		r.rngMu.Unlock()
		log.Debug("SRV 解析成功",
			"host", host,
			"endpoints", len(ordered))
		return ordered, nil
	}

	return r.lookupAddrs(ctx, host, fallbackPort)
}

// lookupSRV 查询 _<service>._<proto>.<host> 的 SRV 记录
func (r *DNSResolver) lookupSRV(ctx context.Context, host string) ([]types.Endpoint, error) {
	name := "_" + r.cfg.Service + "._" + r.cfg.Proto + "." + host
	answers, err := r.exchange(ctx, name, dns.TypeSRV)
	if err != nil {
		return nil, err
	}

	var srvs []*dns.SRV
	for _, rr := range answers {
		if srv, ok := rr.(*dns.SRV); ok {
			srvs = append(srvs, srv)
		}
	}

	// 单条目标为 "." 的记录表示服务明确不可用（RFC 2782），不回退
	if len(srvs) == 1 && srvs[0].Target == "." {
		return nil, fmt.Errorf("%s: %w", host, ErrServiceUnavailable)
	}

	var eps []types.Endpoint
	for _, srv := range srvs {
		target := strings.TrimSuffix(srv.Target, ".")
		if target == "" {
			continue
		}
		eps = append(eps, types.Endpoint{
			Host:     strings.ToLower(target),
			Port:     int(srv.Port),
			Priority: srv.Priority,
			Weight:   srv.Weight,
		})
	}
	return eps, nil
}

// lookupAddrs 并发查询 A 与 AAAA 记录，端口取 fallbackPort
//
// 单边查询失败可以容忍，两边都没有结果才算解析失败。
// IPv4 结果排在 IPv6 之前。
func (r *DNSResolver) lookupAddrs(ctx context.Context, host string, port int) ([]types.Endpoint, error) {
	var v4, v6 []types.Endpoint

	var g errgroup.Group
	g.Go(func() error {
		answers, err := r.exchange(ctx, host, dns.TypeA)
		if err != nil {
			return err
		}
		for _, rr := range answers {
			if a, ok := rr.(*dns.A); ok {
				v4 = append(v4, types.Endpoint{Host: a.A.String(), Port: port})
			}
		}
		return nil
	})
	g.Go(func() error {
		answers, err := r.exchange(ctx, host, dns.TypeAAAA)
		if err != nil {
			return err
		}
		for _, rr := range answers {
			if aaaa, ok := rr.(*dns.AAAA); ok {
				v6 = append(v6, types.Endpoint{Host: aaaa.AAAA.String(), Port: port})
			}
		}
		return nil
	})
	err := g.Wait()

	eps := append(v4, v6...)
	if len(eps) == 0 {
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", host, err)
		}
		return nil, fmt.Errorf("%s: %w", host, types.ErrNoEndpoints)
	}

	log.Debug("地址记录解析成功",
		"host", host,
		"v4", len(v4),
		"v6", len(v6))
	return eps, nil
}

// exchange 依次向配置的 DNS 服务器发起查询
//
// UDP 响应截断时对同一服务器改用 TCP 重试；
// NXDOMAIN 是权威的"无记录"回答，直接结束服务器轮询。
func (r *DNSResolver) exchange(ctx context.Context, name string, qtype uint16) ([]dns.RR, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), qtype)

	var lastErr error
	for _, server := range r.servers {
		resp, _, err := r.udp.ExchangeContext(ctx, msg, server)
		if err == nil && resp.Truncated {
			resp, _, err = r.tcp.ExchangeContext(ctx, msg, server)
		}
		if err != nil {
			lastErr = fmt.Errorf("exchange with %s: %w", server, err)
			continue
		}

		switch resp.Rcode {
		case dns.RcodeSuccess:
			return resp.Answer, nil
		case dns.RcodeNameError:
			return nil, nil
		default:
			lastErr = fmt.Errorf("server %s: rcode %s", server, dns.RcodeToString[resp.Rcode])
		}
	}
	return nil, lastErr
}

// serversFromResolvConf 从 resolv.conf 读取 DNS 服务器列表
func serversFromResolvConf(path string) ([]string, error) {
	conf, err := dns.ClientConfigFromFile(path)
	if err != nil {
		return nil, err
	}

	servers := make([]string, 0, len(conf.Servers))
	for _, s := range conf.Servers {
		servers = append(servers, net.JoinHostPort(s, conf.Port))
	}
	if len(servers) == 0 {
		return nil, ErrNoNameservers
	}
	return servers, nil
}

func cacheKey(host string, port int) string {
	return host + ":" + strconv.Itoa(port)
}

func cloneEndpoints(eps []types.Endpoint) []types.Endpoint {
	out := make([]types.Endpoint, len(eps))
	copy(out, eps)
	return out
}
