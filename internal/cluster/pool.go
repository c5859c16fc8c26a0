package cluster

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/google/uuid"

	"yqhp/parcluster/pkg/logger"
	"yqhp/parcluster/pkg/types"
)

// forkSupported 标记当前平台是否支持进程镜像复制。
// 共享模式依赖它；Windows 上不可用。
var forkSupported = runtime.GOOS != "windows"

// Pool manages a fixed set of workers. The worker count is fixed for the
// pool's lifetime; tasks may only be submitted while the pool is running.
type Pool struct {
	id      string
	size    int
	mode    types.IsolationMode
	workers []*Worker

	tasks  chan *submission
	stopCh chan struct{}
	wg     sync.WaitGroup

	mu      sync.Mutex
	running bool
}

// Option configures pool creation.
type Option func(*poolOptions)

type poolOptions struct {
	snapshot map[string]any
}

// WithSnapshot supplies the coordinator state that shared-mode workers
// duplicate at creation. Ignored in isolated mode: isolated workers always
// start empty and receive state only through Export.
func WithSnapshot(state map[string]any) Option {
	return func(o *poolOptions) {
		o.snapshot = state
	}
}

// Start creates a pool of n workers and brings it into the running state.
// Fails fast with ErrInvalidPoolSize when n < 1 and ErrUnsupportedPlatform
// when shared mode is requested on a platform without process duplication.
func Start(n int, mode types.IsolationMode, opts ...Option) (*Pool, error) {
	if n < 1 {
		return nil, ErrInvalidPoolSize
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("start pool: unknown isolation mode %q", mode)
	}
	if mode == types.ModeShared && !forkSupported {
		return nil, ErrUnsupportedPlatform
	}

	var o poolOptions
	for _, opt := range opts {
		opt(&o)
	}

	p := &Pool{
		id:      uuid.NewString()[:8],
		size:    n,
		mode:    mode,
		workers: make([]*Worker, n),
		// 任务通道容量等于 worker 数：池饱和后 Submit 同步阻塞。
		tasks:   make(chan *submission, n),
		stopCh:  make(chan struct{}),
		running: true,
	}

	for i := 0; i < n; i++ {
		var env *Environ
		if mode == types.ModeShared {
			// 每个 worker 独立深拷贝一份快照，互不共享。
			env = environFromSnapshot(o.snapshot)
		} else {
			env = newEnviron()
		}
		p.workers[i] = newWorker(i, env)
	}

	p.wg.Add(n)
	for _, w := range p.workers {
		go w.run(p)
	}

	logger.Debug("pool %s: started %d %s workers", p.id, n, mode)
	return p, nil
}

// Stop releases all worker resources. It is idempotent: calling Stop on an
// already stopped pool is a no-op. Callers are expected to defer it right
// after Start so teardown happens even when a task failed.
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.stopCh)
	p.mu.Unlock()

	p.wg.Wait()
	logger.Debug("pool %s: stopped", p.id)
}

// Submit dispatches one task to an idle worker. It blocks while the pool is
// saturated, and fails with ErrPoolStopped once Stop has been called.
// When task.Out is nil the returned Future delivers the result; otherwise
// the result goes to task.Out and the Future is nil.
func (p *Pool) Submit(ctx context.Context, task Task) (*Future, error) {
	if task.Fn == nil {
		return nil, ErrNilTaskFunc
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if !p.Running() {
		return nil, ErrPoolStopped
	}

	out := task.Out
	var fut *Future
	if out == nil {
		fut = &Future{ch: make(chan TaskResult, 1)}
		out = fut.ch
	}

	select {
	case p.tasks <- &submission{ctx: ctx, task: task, out: out}:
		return fut, nil
	case <-p.stopCh:
		return nil, ErrPoolStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Export pushes a deep-copied snapshot of every named binding into every
// worker's environment, overwriting prior snapshots of the same names.
// Bindings do not survive Stop: a restarted pool must be re-exported.
// Export must complete before any task referencing the names is submitted.
func (p *Pool) Export(bindings map[string]any) error {
	if !p.Running() {
		return ErrPoolStopped
	}

	for _, w := range p.workers {
		for name, value := range bindings {
			w.env.Set(name, deepCopy(value))
		}
	}

	logger.Debug("pool %s: exported %d bindings to %d workers", p.id, len(bindings), p.size)
	return nil
}

// ID returns the pool's identifier, used in logs.
func (p *Pool) ID() string {
	return p.id
}

// Size returns the fixed worker count.
func (p *Pool) Size() int {
	return p.size
}

// Mode returns the pool's isolation mode.
func (p *Pool) Mode() types.IsolationMode {
	return p.mode
}

// Running reports whether the pool accepts task submissions.
func (p *Pool) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// worker 返回指定下标的 worker，供包内测试检查环境隔离。
func (p *Pool) worker(i int) *Worker {
	return p.workers[i]
}
