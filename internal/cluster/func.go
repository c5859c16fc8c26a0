package cluster

import "context"

// Func is a unary function a scheduler applies to every input item.
// It executes inside a worker and sees only that worker's environment.
type Func interface {
	apply(ctx context.Context, w *Worker, item any) (any, error)
}

// GoFunc adapts a Go function into a Func. The function reads worker state
// through the Environ argument; coordinator state is not in scope.
type GoFunc func(ctx context.Context, env *Environ, item any) (any, error)

func (f GoFunc) apply(ctx context.Context, w *Worker, item any) (any, error) {
	return f(ctx, w.env, item)
}

// ScriptFunc is a JavaScript function source, e.g. "x => x + offset".
// It is compiled once per worker and invoked once per item. Free
// identifiers resolve against the worker's environment; referencing a name
// that was never exported fails with ErrUnresolvedBinding.
type ScriptFunc struct {
	src string
}

// Script wraps JavaScript function source into a Func.
func Script(src string) ScriptFunc {
	return ScriptFunc{src: src}
}

// Source returns the script source.
func (s ScriptFunc) Source() string {
	return s.src
}

func (s ScriptFunc) apply(ctx context.Context, w *Worker, item any) (any, error) {
	return w.callScript(s.src, item)
}
