// Package logger 提供简单的日志工具
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Level 日志级别
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelTags = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

var (
	mu sync.Mutex
	// 当前日志级别，默认为 Info
	currentLevel = LevelInfo
	// 输出目标，默认为 stderr
	output io.Writer = os.Stderr
)

// SetLevel 设置日志级别
func SetLevel(level Level) {
	mu.Lock()
	defer mu.Unlock()
	currentLevel = level
}

// SetLevelFromString 从字符串设置日志级别
func SetLevelFromString(level string) {
	switch strings.ToLower(level) {
	case "debug":
		SetLevel(LevelDebug)
	case "warn", "warning":
		SetLevel(LevelWarn)
	case "error":
		SetLevel(LevelError)
	default:
		SetLevel(LevelInfo)
	}
}

// SetOutput 设置日志输出目标（用于测试）
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// EnableDebug 启用调试日志
func EnableDebug() {
	SetLevel(LevelDebug)
}

// IsDebugEnabled 检查是否启用调试日志
func IsDebugEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return currentLevel <= LevelDebug
}

func logf(level Level, format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if currentLevel > level {
		return
	}
	fmt.Fprintf(output, "[%s] "+format+"\n", append([]interface{}{levelTags[level]}, args...)...)
}

// Debug 输出调试日志
func Debug(format string, args ...interface{}) {
	logf(LevelDebug, format, args...)
}

// Info 输出信息日志
func Info(format string, args ...interface{}) {
	logf(LevelInfo, format, args...)
}

// Warn 输出警告日志
func Warn(format string, args ...interface{}) {
	logf(LevelWarn, format, args...)
}

// Error 输出错误日志
func Error(format string, args ...interface{}) {
	logf(LevelError, format, args...)
}
