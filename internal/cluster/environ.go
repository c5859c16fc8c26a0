package cluster

import (
	"sort"
	"sync"
)

// Environ 是单个 worker 的私有执行环境。
// 隔离模式下初始为空，只有通过 Pool.Export 推送的绑定可见；
// 共享模式下初始为协调者快照的深拷贝。
// worker 可以自由修改自己的副本，不会影响兄弟 worker 或协调者。
type Environ struct {
	mu      sync.RWMutex
	vals    map[string]any
	version uint64
}

func newEnviron() *Environ {
	return &Environ{vals: make(map[string]any)}
}

// environFromSnapshot 从协调者快照深拷贝出一个新环境。
func environFromSnapshot(snapshot map[string]any) *Environ {
	e := newEnviron()
	for name, value := range snapshot {
		e.Set(name, deepCopy(value))
	}
	return e
}

// Get 返回指定名称的绑定值。
// 名称未绑定时返回包装了 ErrUnresolvedBinding 的错误。
func (e *Environ) Get(name string) (any, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	value, ok := e.vals[name]
	if !ok {
		return nil, &BindingError{Name: name}
	}
	return value, nil
}

// Lookup 返回绑定值以及它是否存在。
func (e *Environ) Lookup(name string) (any, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	value, ok := e.vals[name]
	return value, ok
}

// Set 写入一个绑定，已存在的同名绑定被覆盖。
func (e *Environ) Set(name string, value any) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.vals[name] = value
	e.version++
}

// Names 返回所有绑定名称，按字典序排序。
func (e *Environ) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.vals))
	for name := range e.vals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len 返回绑定数量。
func (e *Environ) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.vals)
}

// snapshot 返回绑定表的浅拷贝和当前版本号，
// 供 worker 将环境同步进脚本运行时。
func (e *Environ) snapshot() (map[string]any, uint64) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	vals := make(map[string]any, len(e.vals))
	for name, value := range e.vals {
		vals[name] = value
	}
	return vals, e.version
}

// deepCopy 递归复制常见的容器类型。
// 其余类型按值传递，调用方需保证标量之外的自定义类型不被共享修改。
func deepCopy(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, x := range val {
			out[k] = deepCopy(x)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, x := range val {
			out[i] = deepCopy(x)
		}
		return out
	case []float64:
		out := make([]float64, len(val))
		copy(out, val)
		return out
	case []int:
		out := make([]int, len(val))
		copy(out, val)
		return out
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out
	case map[string]float64:
		out := make(map[string]float64, len(val))
		for k, x := range val {
			out[k] = x
		}
		return out
	default:
		return v
	}
}
