package schedule

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"yqhp/parcluster/internal/cluster"
	"yqhp/parcluster/pkg/types"
)

// Scheduler runs a function over an ordered input sequence through a pool.
// The output sequence always matches input order.
type Scheduler interface {
	// Name returns the scheduling discipline's name.
	Name() string

	// Run applies fn to every item. Partial results are returned next to
	// the error when individual chunks or items fail.
	Run(ctx context.Context, pool *cluster.Pool, fn cluster.Func, items []any) (*types.RunResult, error)
}

// Registry manages scheduler instances by discipline name.
type Registry struct {
	factories map[string]func() Scheduler
	mu        sync.RWMutex
}

// NewRegistry creates a registry with the default disciplines registered.
func NewRegistry() *Registry {
	r := &Registry{
		factories: make(map[string]func() Scheduler),
	}

	r.Register("static", func() Scheduler { return NewStaticScheduler() })
	r.Register("dynamic", func() Scheduler { return NewDynamicScheduler() })

	return r
}

// Register registers a scheduler factory.
func (r *Registry) Register(name string, factory func() Scheduler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get returns a new instance of the named scheduler.
func (r *Registry) Get(name string) (Scheduler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown scheduler: %s", name)
	}
	return factory(), nil
}

// List returns all registered discipline names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the default scheduler registry.
var DefaultRegistry = NewRegistry()

// Get returns a new instance of the named scheduler from the default
// registry.
func Get(name string) (Scheduler, error) {
	return DefaultRegistry.Get(name)
}

// timingSet 按 worker 聚合一次运行的耗时分解。
type timingSet struct {
	byWorker map[int]*types.WorkerTiming
}

func newTimingSet() *timingSet {
	return &timingSet{byWorker: make(map[int]*types.WorkerTiming)}
}

func (s *timingSet) add(workerID, items int, busy time.Duration) {
	w, ok := s.byWorker[workerID]
	if !ok {
		w = &types.WorkerTiming{WorkerID: workerID}
		s.byWorker[workerID] = w
	}
	w.Items += items
	w.Busy += busy
}

// list returns the breakdown ordered by worker ID.
func (s *timingSet) list() []types.WorkerTiming {
	out := make([]types.WorkerTiming, 0, len(s.byWorker))
	for _, w := range s.byWorker {
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WorkerID < out[j].WorkerID })
	return out
}
