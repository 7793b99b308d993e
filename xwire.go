package xwire

// ════════════════════════════════════════════════════════════════════════════
//                              版本信息
// ════════════════════════════════════════════════════════════════════════════

// Version 当前版本
// 更新此版本号时，请同步更新 version.json
const Version = "v0.1.0"

// BuildInfo 构建信息（通过 ldflags 注入）
var (
	// GitCommit Git 提交哈希
	GitCommit string

	// BuildDate 构建日期
	BuildDate string

	// GoVersion Go 版本
	GoVersion string
)

// VersionInfo 返回完整版本信息字符串
func VersionInfo() string {
	info := "xwire " + Version
	if GitCommit != "" {
		info += " (" + GitCommit[:min(8, len(GitCommit))] + ")"
	}
	if BuildDate != "" {
		info += " built " + BuildDate
	}
	return info
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
