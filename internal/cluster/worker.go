package cluster

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dop251/goja"
)

// Worker is a single execution context owned by a Pool. It runs on its own
// goroutine with a private Environ and a lazily created JavaScript runtime.
type Worker struct {
	id  int
	env *Environ

	// Script execution state. Touched only by the worker goroutine.
	vm         *goja.Runtime
	programs   map[string]goja.Callable
	envVersion uint64
}

func newWorker(id int, env *Environ) *Worker {
	return &Worker{id: id, env: env}
}

// ID returns the worker's position in the pool.
func (w *Worker) ID() int {
	return w.id
}

// run is the worker loop: claim a task, execute it, deliver the result.
func (w *Worker) run(p *Pool) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopCh:
			return
		case sub := <-p.tasks:
			res := w.execute(sub.ctx, sub.task)
			select {
			case sub.out <- res:
			case <-p.stopCh:
				return
			}
		}
	}
}

// execute applies the task function to every item of the chunk in order.
// The first failing item aborts the chunk; its origin index is reported in
// the result error.
func (w *Worker) execute(ctx context.Context, task Task) TaskResult {
	start := time.Now()
	res := TaskResult{WorkerID: w.id, Items: task.Items}

	outputs := make([]any, 0, len(task.Items))
	for _, it := range task.Items {
		if err := ctx.Err(); err != nil {
			res.Err = &TaskError{Index: it.Index, Cause: err}
			outputs = nil
			break
		}

		value, err := w.applyOne(ctx, task.Fn, it.Value)
		if err != nil {
			res.Err = &TaskError{Index: it.Index, Cause: err}
			outputs = nil
			break
		}
		outputs = append(outputs, value)
	}

	res.Outputs = outputs
	res.Duration = time.Since(start)
	return res
}

// applyOne runs the function on one item, converting panics into errors so
// a misbehaving user function cannot take the worker down.
func (w *Worker) applyOne(ctx context.Context, fn Func, item any) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("function panicked: %v", r)
		}
	}()
	return fn.apply(ctx, w, item)
}

// runtime 返回 worker 的脚本运行时，按需创建，
// 并在环境变化后把绑定同步为运行时的全局变量。
func (w *Worker) runtime() *goja.Runtime {
	if w.vm == nil {
		w.vm = goja.New()
		w.programs = make(map[string]goja.Callable)
	}

	if vals, version := w.env.snapshot(); version != w.envVersion {
		for name, value := range vals {
			w.vm.Set(name, value)
		}
		w.envVersion = version
	}

	return w.vm
}

// callScript compiles the script on first use, then invokes it with the item.
func (w *Worker) callScript(src string, item any) (any, error) {
	vm := w.runtime()

	fn, ok := w.programs[src]
	if !ok {
		value, err := vm.RunString("(" + src + ")")
		if err != nil {
			return nil, scriptError(err)
		}
		fn, ok = goja.AssertFunction(value)
		if !ok {
			return nil, fmt.Errorf("script is not a function: %s", src)
		}
		w.programs[src] = fn
	}

	result, err := fn(goja.Undefined(), vm.ToValue(item))
	if err != nil {
		return nil, scriptError(err)
	}
	return result.Export(), nil
}

// scriptError maps a JavaScript ReferenceError onto the binding error
// taxonomy so an unexported name surfaces as ErrUnresolvedBinding.
func scriptError(err error) error {
	var ex *goja.Exception
	if errors.As(err, &ex) {
		if name, ok := undefinedName(ex.Value().String()); ok {
			return &BindingError{Name: name}
		}
	}
	return err
}

// undefinedName extracts the identifier from a message like
// "ReferenceError: offset is not defined".
func undefinedName(msg string) (string, bool) {
	const marker = " is not defined"
	idx := strings.Index(msg, marker)
	if idx < 0 {
		return "", false
	}
	head := msg[:idx]
	return head[strings.LastIndex(head, " ")+1:], true
}
