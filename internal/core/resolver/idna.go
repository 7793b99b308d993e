package resolver

import (
	"fmt"
	"net"
	"strings"

	"golang.org/x/net/idna"

	"github.com/dep2p/go-xwire/pkg/types"
)

// NormalizeHost 把用户提供的主机名规范化为 DNS 查询形式
//
// 依次执行：去掉尾部根点、按 IDNA 2008 的 Lookup 规则转 ASCII
// （包含小写化与 punycode 编码）。字面量 IP 原样放行，
// IPv6 的十六进制字母统一小写。
//
// 无法通过 IDNA 校验的主机名返回包装 types.ErrInvalidHostname
// 的错误；建连入口在做任何网络动作之前即失败。
func NormalizeHost(host string) (string, error) {
	if host == "" {
		return "", fmt.Errorf("empty host: %w", types.ErrInvalidHostname)
	}

	host = strings.TrimSuffix(host, ".")

	// 字面量 IP 不参与 IDNA（IPv6 的冒号不符合 STD3 字符集）
	if ip := net.ParseIP(host); ip != nil {
		return strings.ToLower(host), nil
	}

	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return "", fmt.Errorf("%q: %w", host, types.ErrInvalidHostname)
	}
	return ascii, nil
}
