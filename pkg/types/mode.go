package types

import "fmt"

// IsolationMode represents how a worker's memory relates to the coordinator.
type IsolationMode string

const (
	// ModeIsolated 表示隔离模式：worker 以空环境启动，
	// 只能看到显式导出的绑定。
	ModeIsolated IsolationMode = "isolated"
	// ModeShared 表示共享模式：worker 在创建时复制协调者的
	// 完整环境快照（写时复制语义）。
	ModeShared IsolationMode = "shared"
)

// ParseIsolationMode 解析模式字符串。
// 空字符串返回默认的隔离模式。
func ParseIsolationMode(s string) (IsolationMode, error) {
	switch s {
	case "", string(ModeIsolated):
		return ModeIsolated, nil
	case string(ModeShared):
		return ModeShared, nil
	default:
		return "", fmt.Errorf("unknown isolation mode: %q", s)
	}
}

// Valid reports whether the mode is one of the known modes.
func (m IsolationMode) Valid() bool {
	return m == ModeIsolated || m == ModeShared
}
