package poll

import (
	"github.com/dep2p/go-xwire/pkg/interfaces"
)

// Default 返回当前平台的就绪通知器
//
// 所有平台实现都是无状态值，可以安全共享。
func Default() interfaces.ReadNotifier {
	return newPlatformNotifier()
}
