package resolver

import (
	"math/rand"
	"sort"

	"github.com/dep2p/go-xwire/pkg/types"
)

// orderEndpoints 按 RFC 2782 排出 SRV 端点的拨号顺序
//
// 先按优先级升序分组，同一优先级组内做不放回的加权随机抽取。
// 返回新切片，入参就地按优先级重排。
func orderEndpoints(eps []types.Endpoint, rng *rand.Rand) []types.Endpoint {
	if len(eps) <= 1 {
		return eps
	}

	sort.SliceStable(eps, func(i, j int) bool {
		return eps[i].Priority < eps[j].Priority
	})

	ordered := make([]types.Endpoint, 0, len(eps))
	for start := 0; start < len(eps); {
		end := start + 1
		for end < len(eps) && eps[end].Priority == eps[start].Priority {
			end++
		}
		ordered = append(ordered, weightedOrder(eps[start:end], rng)...)
		start = end
	}
	return ordered
}

// weightedOrder 对同优先级组做加权随机排列
//
// RFC 2782 的选择算法：权重 0 的条目放在候选列表最前，
// 每轮在 [0, 权重和] 内取随机数，累计权重首次达到随机数的
// 条目胜出并移出候选列表。
func weightedOrder(group []types.Endpoint, rng *rand.Rand) []types.Endpoint {
	if len(group) <= 1 {
		return group
	}

	remaining := append([]types.Endpoint(nil), group...)
	sort.SliceStable(remaining, func(i, j int) bool {
		return remaining[i].Weight == 0 && remaining[j].Weight != 0
	})

	out := make([]types.Endpoint, 0, len(remaining))
	for len(remaining) > 0 {
		total := 0
		for _, ep := range remaining {
			total += int(ep.Weight)
		}

		idx := 0
		if total > 0 {
			r := rng.Intn(total + 1) //nolint:gosec // G404: 拨号顺序不需要加密级随机
			sum := 0
			for i, ep := range remaining {
				sum += int(ep.Weight)
				if sum >= r {
					idx = i
					break
				}
			}
		}

		out = append(out, remaining[idx])
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}
	return out
}
