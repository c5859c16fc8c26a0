package cluster

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yqhp/parcluster/pkg/types"
)

func TestStart_InvalidPoolSize(t *testing.T) {
	p, err := Start(0, types.ModeIsolated)
	assert.Nil(t, p)
	assert.ErrorIs(t, err, ErrInvalidPoolSize)

	p, err = Start(-3, types.ModeIsolated)
	assert.Nil(t, p)
	assert.ErrorIs(t, err, ErrInvalidPoolSize)
}

func TestStart_UnknownMode(t *testing.T) {
	p, err := Start(2, types.IsolationMode("forked"))
	assert.Nil(t, p)
	assert.Error(t, err)
}

func TestStart_UnsupportedPlatform(t *testing.T) {
	old := forkSupported
	forkSupported = false
	defer func() { forkSupported = old }()

	p, err := Start(2, types.ModeShared)
	assert.Nil(t, p)
	assert.ErrorIs(t, err, ErrUnsupportedPlatform)

	// Isolated mode keeps working as the fallback.
	p, err = Start(2, types.ModeIsolated)
	require.NoError(t, err)
	defer p.Stop()
	assert.Equal(t, types.ModeIsolated, p.Mode())
}

func TestPool_StopIsIdempotent(t *testing.T) {
	p, err := Start(2, types.ModeIsolated)
	require.NoError(t, err)

	p.Stop()
	assert.NotPanics(t, func() { p.Stop() })
	assert.False(t, p.Running())
}

func TestPool_SubmitAfterStop(t *testing.T) {
	p, err := Start(1, types.ModeIsolated)
	require.NoError(t, err)
	p.Stop()

	fut, err := p.Submit(context.Background(), Task{
		Fn: GoFunc(func(ctx context.Context, env *Environ, item any) (any, error) {
			return item, nil
		}),
		Items: []types.Item{{Index: 0, Value: 1}},
	})
	assert.Nil(t, fut)
	assert.ErrorIs(t, err, ErrPoolStopped)
}

func TestPool_SubmitNilFunc(t *testing.T) {
	p, err := Start(1, types.ModeIsolated)
	require.NoError(t, err)
	defer p.Stop()

	fut, err := p.Submit(context.Background(), Task{Items: []types.Item{{Index: 0, Value: 1}}})
	assert.Nil(t, fut)
	assert.ErrorIs(t, err, ErrNilTaskFunc)
}

func TestPool_SubmitAndWait(t *testing.T) {
	p, err := Start(2, types.ModeIsolated)
	require.NoError(t, err)
	defer p.Stop()

	double := GoFunc(func(ctx context.Context, env *Environ, item any) (any, error) {
		return item.(int) * 2, nil
	})

	fut, err := p.Submit(context.Background(), Task{
		Fn:    double,
		Items: []types.Item{{Index: 0, Value: 1}, {Index: 1, Value: 2}, {Index: 2, Value: 3}},
	})
	require.NoError(t, err)

	res, err := fut.Wait(context.Background())
	require.NoError(t, err)
	require.NoError(t, res.Err)
	assert.Equal(t, []any{2, 4, 6}, res.Outputs)
	assert.GreaterOrEqual(t, res.Duration, time.Duration(0))
}

func TestPool_TaskFailureCarriesIndex(t *testing.T) {
	p, err := Start(1, types.ModeIsolated)
	require.NoError(t, err)
	defer p.Stop()

	boom := errors.New("boom")
	fn := GoFunc(func(ctx context.Context, env *Environ, item any) (any, error) {
		if item.(int) == 7 {
			return nil, boom
		}
		return item, nil
	})

	fut, err := p.Submit(context.Background(), Task{
		Fn:    fn,
		Items: []types.Item{{Index: 6, Value: 6}, {Index: 7, Value: 7}, {Index: 8, Value: 8}},
	})
	require.NoError(t, err)

	res, err := fut.Wait(context.Background())
	require.NoError(t, err)
	require.Error(t, res.Err)

	var taskErr *TaskError
	require.ErrorAs(t, res.Err, &taskErr)
	assert.Equal(t, 7, taskErr.Index)
	assert.ErrorIs(t, res.Err, boom)
	assert.Nil(t, res.Outputs)
}

func TestPool_PanicBecomesTaskError(t *testing.T) {
	p, err := Start(1, types.ModeIsolated)
	require.NoError(t, err)
	defer p.Stop()

	fn := GoFunc(func(ctx context.Context, env *Environ, item any) (any, error) {
		panic("unexpected")
	})

	fut, err := p.Submit(context.Background(), Task{
		Fn:    fn,
		Items: []types.Item{{Index: 3, Value: 3}},
	})
	require.NoError(t, err)

	res, err := fut.Wait(context.Background())
	require.NoError(t, err)

	var taskErr *TaskError
	require.ErrorAs(t, res.Err, &taskErr)
	assert.Equal(t, 3, taskErr.Index)
	assert.Contains(t, taskErr.Cause.Error(), "panicked")
}

func TestPool_IsolatedWorkersStartEmpty(t *testing.T) {
	p, err := Start(3, types.ModeIsolated, WithSnapshot(map[string]any{"leak": 1}))
	require.NoError(t, err)
	defer p.Stop()

	for i := 0; i < p.Size(); i++ {
		assert.Equal(t, 0, p.worker(i).env.Len())
	}
}

func TestPool_ExportReachesEveryWorker(t *testing.T) {
	p, err := Start(3, types.ModeIsolated)
	require.NoError(t, err)
	defer p.Stop()

	require.NoError(t, p.Export(map[string]any{"offset": 10}))

	fn := GoFunc(func(ctx context.Context, env *Environ, item any) (any, error) {
		offset, err := env.Get("offset")
		if err != nil {
			return nil, err
		}
		return item.(int) + offset.(int), nil
	})

	// One single-item task per worker slot so every worker is exercised.
	for i := 0; i < 6; i++ {
		fut, err := p.Submit(context.Background(), Task{
			Fn:    fn,
			Items: []types.Item{{Index: i, Value: i}},
		})
		require.NoError(t, err)
		res, err := fut.Wait(context.Background())
		require.NoError(t, err)
		require.NoError(t, res.Err)
		assert.Equal(t, []any{i + 10}, res.Outputs)
	}
}

func TestPool_UnexportedNameFails(t *testing.T) {
	p, err := Start(1, types.ModeIsolated)
	require.NoError(t, err)
	defer p.Stop()

	fn := GoFunc(func(ctx context.Context, env *Environ, item any) (any, error) {
		v, err := env.Get("offset")
		if err != nil {
			return nil, err
		}
		return item.(int) + v.(int), nil
	})

	fut, err := p.Submit(context.Background(), Task{
		Fn:    fn,
		Items: []types.Item{{Index: 0, Value: 1}},
	})
	require.NoError(t, err)

	res, err := fut.Wait(context.Background())
	require.NoError(t, err)
	require.Error(t, res.Err)
	assert.ErrorIs(t, res.Err, ErrUnresolvedBinding)

	var bindingErr *BindingError
	require.ErrorAs(t, res.Err, &bindingErr)
	assert.Equal(t, "offset", bindingErr.Name)

	// After export the same call succeeds.
	require.NoError(t, p.Export(map[string]any{"offset": 10}))

	fut, err = p.Submit(context.Background(), Task{
		Fn:    fn,
		Items: []types.Item{{Index: 0, Value: 1}},
	})
	require.NoError(t, err)
	res, err = fut.Wait(context.Background())
	require.NoError(t, err)
	require.NoError(t, res.Err)
	assert.Equal(t, []any{11}, res.Outputs)
}

func TestPool_ReExportOverwrites(t *testing.T) {
	p, err := Start(1, types.ModeIsolated)
	require.NoError(t, err)
	defer p.Stop()

	require.NoError(t, p.Export(map[string]any{"offset": 10}))
	require.NoError(t, p.Export(map[string]any{"offset": 20}))

	v, err := p.worker(0).env.Get("offset")
	require.NoError(t, err)
	assert.Equal(t, 20, v)
}

func TestPool_ExportAfterStop(t *testing.T) {
	p, err := Start(1, types.ModeIsolated)
	require.NoError(t, err)
	p.Stop()

	assert.ErrorIs(t, p.Export(map[string]any{"offset": 10}), ErrPoolStopped)
}

func TestPool_SharedSnapshotIsPrivatePerWorker(t *testing.T) {
	state := map[string]any{
		"scale": 2,
		"rows":  []any{1.0, 2.0, 3.0},
	}

	p, err := Start(2, types.ModeShared, WithSnapshot(state))
	require.NoError(t, err)
	defer p.Stop()

	// Worker 0 mutates its copy of the shared state.
	mutate := GoFunc(func(ctx context.Context, env *Environ, item any) (any, error) {
		env.Set("scale", 99)
		rows, _ := env.Lookup("rows")
		rows.([]any)[0] = -1.0
		return item, nil
	})
	fut, err := p.Submit(context.Background(), Task{
		Fn:    mutate,
		Items: []types.Item{{Index: 0, Value: 0}},
	})
	require.NoError(t, err)
	res, err := fut.Wait(context.Background())
	require.NoError(t, err)
	require.NoError(t, res.Err)

	// The coordinator's state is untouched.
	assert.Equal(t, 2, state["scale"])
	assert.Equal(t, 1.0, state["rows"].([]any)[0])

	// The sibling worker's copy is untouched.
	sibling := p.worker(1)
	v, err := sibling.env.Get("scale")
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	rows, _ := sibling.env.Lookup("rows")
	assert.Equal(t, 1.0, rows.([]any)[0])
}

func TestPool_RestartRequiresReExport(t *testing.T) {
	p, err := Start(1, types.ModeIsolated)
	require.NoError(t, err)
	require.NoError(t, p.Export(map[string]any{"offset": 10}))
	p.Stop()

	// A fresh pool with the same configuration starts empty again.
	p, err = Start(1, types.ModeIsolated)
	require.NoError(t, err)
	defer p.Stop()
	assert.Equal(t, 0, p.worker(0).env.Len())
}

func TestPool_SubmitContextCancelled(t *testing.T) {
	p, err := Start(1, types.ModeIsolated)
	require.NoError(t, err)
	defer p.Stop()

	blocker := make(chan struct{})
	defer close(blocker)

	stuck := GoFunc(func(ctx context.Context, env *Environ, item any) (any, error) {
		<-blocker
		return item, nil
	})

	// Occupy the single worker, then fill the task queue so the pool is
	// saturated and the next submission has to block.
	for i := 0; i < p.Size()+cap(p.tasks); i++ {
		_, submitErr := p.Submit(context.Background(), Task{
			Fn:    stuck,
			Items: []types.Item{{Index: i, Value: i}},
		})
		require.NoError(t, submitErr)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = p.Submit(ctx, Task{
		Fn:    stuck,
		Items: []types.Item{{Index: 99, Value: 99}},
	})
	assert.ErrorIs(t, err, context.Canceled)
}
