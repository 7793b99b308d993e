// Package logger 提供 go-xwire 的统一日志系统
//
// 基于标准库 log/slog，支持：
//   - 按子系统配置日志级别
//   - 环境变量配置（XWIRE_LOG_LEVEL, XWIRE_LOG_FORMAT）
//   - 结构化日志
//
// 使用示例:
//
//	package conn
//
//	import "github.com/dep2p/go-xwire/internal/util/logger"
//
//	var log = logger.Logger("conn")
//
//	func foo() {
//	    log.Debug("send complete", "bytes", n, "server", host)
//	    log.Warn("poll failed", "err", err)
//	}
//
// 环境变量配置:
//
//	# 所有子系统 info，conn 子系统 debug
//	XWIRE_LOG_LEVEL=conn=debug,info
//
//	# JSON 格式输出
//	XWIRE_LOG_FORMAT=json
package logger

import (
	"io"
	"log/slog"
	"sync"
)

var (
	// loggers 缓存各子系统的 Logger
	loggers sync.Map // map[string]*slog.Logger

	// handlers 缓存各子系统的 Handler（用于动态调整级别）
	handlers sync.Map // map[string]*subsystemHandler

	// globalLogger 全局默认 Logger
	globalLogger     *slog.Logger
	globalLoggerOnce sync.Once
)

// Logger 获取指定子系统的 Logger
//
// 级别由 XWIRE_LOG_LEVEL 环境变量决定。
// 同一子系统多次调用返回同一实例。
//
// 示例:
//
//	var log = logger.Logger("resolver")
//	log.Info("srv lookup", "domain", domain)
func Logger(subsystem string) *slog.Logger {
	if l, ok := loggers.Load(subsystem); ok {
		return l.(*slog.Logger)
	}

	cfg := ConfigFromEnv()
	level := cfg.LevelForSubsystem(subsystem)

	handler := newHandler(subsystem, level, cfg.Format)
	l := slog.New(handler)

	actual, _ := loggers.LoadOrStore(subsystem, l)
	if h, ok := handler.(*subsystemHandler); ok {
		handlers.Store(subsystem, h)
	}

	return actual.(*slog.Logger)
}

// GlobalLogger 返回全局 Logger
//
// 用于不属于特定子系统的日志，或作为 fx 注入的默认 Logger。
func GlobalLogger() *slog.Logger {
	globalLoggerOnce.Do(func() {
		globalLogger = Logger("xwire")
	})
	return globalLogger
}

// SetLevel 动态设置子系统的日志级别
//
// 允许运行时调级，无需重启。
//
// 示例:
//
//	logger.SetLevel("conn", slog.LevelDebug)
func SetLevel(subsystem string, level slog.Level) {
	if h, ok := handlers.Load(subsystem); ok {
		h.(*subsystemHandler).SetLevel(level)
	}
}

// SetGlobalLevel 设置所有已创建子系统的日志级别
func SetGlobalLevel(level slog.Level) {
	handlers.Range(func(_, value any) bool {
		value.(*subsystemHandler).SetLevel(level)
		return true
	})
}

// Discard 返回一个丢弃所有日志的 Logger
//
// 主要用于测试，避免日志输出干扰测试结果。
func Discard() *slog.Logger {
	return slog.New(DiscardHandler())
}

// SetOutput 设置全局日志输出目标
//
// 所有 Logger 经由动态 writer 写出，调用后即刻生效，
// 包括已创建的 Logger。
//
// 示例:
//
//	file, _ := os.OpenFile("xwire.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
//	logger.SetOutput(file)
func SetOutput(w io.Writer) {
	globalOutputMu.Lock()
	globalOutput = w
	globalOutputMu.Unlock()
}
