package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestSetOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	SetOutput(buf)

	log := Logger("test")
	log.Info("test message", "key", "value")

	output := buf.String()
	if !strings.Contains(output, "test message") {
		t.Errorf("expected log message in buffer, got: %s", output)
	}
	if !strings.Contains(output, "key=value") {
		t.Errorf("expected key=value in buffer, got: %s", output)
	}
	if !strings.Contains(output, "subsystem=test") {
		t.Errorf("expected subsystem=test in buffer, got: %s", output)
	}
}

func TestSetOutput_ExistingLogger(t *testing.T) {
	// 先创建 logger，再切换输出，验证动态 writer 生效
	log := Logger("test2")

	buf := &bytes.Buffer{}
	SetOutput(buf)

	log.Info("after switch", "key", "value")

	output := buf.String()
	if !strings.Contains(output, "after switch") {
		t.Errorf("expected log message in buffer, got: %s", output)
	}
	if !strings.Contains(output, "key=value") {
		t.Errorf("expected key=value in buffer, got: %s", output)
	}
}

func TestSetLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	SetOutput(buf)

	log := Logger("test3")

	// 默认 Info 级别下 Debug 被丢弃
	log.Debug("dropped")
	if strings.Contains(buf.String(), "dropped") {
		t.Errorf("expected debug log to be dropped, got: %s", buf.String())
	}

	SetLevel("test3", slog.LevelDebug)
	log.Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("expected debug log after SetLevel, got: %s", buf.String())
	}
}

func TestLogger_SameInstance(t *testing.T) {
	a := Logger("test4")
	b := Logger("test4")
	if a != b {
		t.Error("expected same logger instance for same subsystem")
	}
}

func TestDiscard(t *testing.T) {
	buf := &bytes.Buffer{}
	SetOutput(buf)

	log := Discard()
	log.Error("never written")

	if buf.Len() != 0 {
		t.Errorf("expected no output from discard logger, got: %s", buf.String())
	}
}

func TestParseLevelConfig(t *testing.T) {
	cfg := &Config{
		DefaultLevel:    slog.LevelInfo,
		SubsystemLevels: make(map[string]slog.Level),
	}
	parseLevelConfig(cfg, "conn=debug,resolver=warn,error")

	if got := cfg.LevelForSubsystem("conn"); got != slog.LevelDebug {
		t.Errorf("conn level = %v, want debug", got)
	}
	if got := cfg.LevelForSubsystem("resolver"); got != slog.LevelWarn {
		t.Errorf("resolver level = %v, want warn", got)
	}
	if got := cfg.LevelForSubsystem("unknown"); got != slog.LevelError {
		t.Errorf("default level = %v, want error", got)
	}
}
