// Package logging 构建应用使用的 slog 日志器。
//
// debug 模式或 format=text 使用 tint 彩色输出，release 模式输出 JSON 便于采集。
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"daily/config"

	"github.com/lmittmann/tint"
)

// New 根据配置创建日志器
func New(cfg config.LogConfig, mode string) *slog.Logger {
	return NewWithWriter(os.Stderr, cfg, mode)
}

// NewWithWriter 创建写入指定 writer 的日志器
func NewWithWriter(w io.Writer, cfg config.LogConfig, mode string) *slog.Logger {
	level := ParseLevel(cfg.Level)
	if mode == config.ModeRelease || strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.DateTime,
		AddSource:  mode == config.ModeDebug,
	}))
}

// ParseLevel 解析日志级别，未知取值按 info 处理
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Discard 丢弃所有输出，测试使用
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
