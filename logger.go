package emitx

import (
	"log/slog"
)

// Logger 日志接口
//
// 核心的Emitter从不记录日志（失败全部交给调用方），日志只供Bridge、
// RedisSource这类外围组件使用。
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// defaultLogger 默认日志记录器，基于log/slog
type defaultLogger struct {
	*slog.Logger
}

// NewDefaultLogger 创建一个新的默认日志记录器
func NewDefaultLogger() Logger {
	return &defaultLogger{Logger: slog.Default()}
}

func (l *defaultLogger) Debug(msg string, args ...any) {
	l.Logger.Debug(msg, args...)
}

func (l *defaultLogger) Info(msg string, args ...any) {
	l.Logger.Info(msg, args...)
}

func (l *defaultLogger) Warn(msg string, args ...any) {
	l.Logger.Warn(msg, args...)
}

func (l *defaultLogger) Error(msg string, args ...any) {
	l.Logger.Error(msg, args...)
}
