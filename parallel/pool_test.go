package parallel

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zenithlabs/ostpack/errs"
)

func TestPool_SubmitAndWait(t *testing.T) {
	p := NewPool(4)
	defer p.Close()

	task, err := p.Submit(func() ([]byte, error) {
		return []byte("done"), nil
	})
	require.NoError(t, err)

	result, err := task.Wait()
	require.NoError(t, err)
	require.Equal(t, []byte("done"), result)
}

func TestPool_ManyUnits(t *testing.T) {
	p := NewPool(3)
	defer p.Close()

	const n = 50
	tasks := make([]*Task, n)
	for i := 0; i < n; i++ {
		i := i
		task, err := p.Submit(func() ([]byte, error) {
			return []byte(fmt.Sprintf("unit-%d", i)), nil
		})
		require.NoError(t, err)
		tasks[i] = task
	}

	for i, task := range tasks {
		result, err := task.Wait()
		require.NoError(t, err)
		require.Equal(t, fmt.Sprintf("unit-%d", i), string(result))
	}
}

func TestPool_UnitErrorIsIsolated(t *testing.T) {
	p := NewPool(2)
	defer p.Close()

	boom := fmt.Errorf("unit exploded")
	bad, err := p.Submit(func() ([]byte, error) { return nil, boom })
	require.NoError(t, err)
	good, err := p.Submit(func() ([]byte, error) { return []byte("ok"), nil })
	require.NoError(t, err)

	_, err = bad.Wait()
	require.ErrorIs(t, err, boom)

	result, err := good.Wait()
	require.NoError(t, err)
	require.Equal(t, []byte("ok"), result)
}

func TestPool_PanicBecomesUnitFailure(t *testing.T) {
	p := NewPool(2)
	defer p.Close()

	panicking, err := p.Submit(func() ([]byte, error) { panic("worker meltdown") })
	require.NoError(t, err)
	survivor, err := p.Submit(func() ([]byte, error) { return []byte("alive"), nil })
	require.NoError(t, err)

	_, err = panicking.Wait()
	require.ErrorIs(t, err, errs.ErrWorkerPanic)
	require.Contains(t, err.Error(), "worker meltdown")

	// The pool keeps serving after a panic.
	result, err := survivor.Wait()
	require.NoError(t, err)
	require.Equal(t, []byte("alive"), result)

	after, err := p.Submit(func() ([]byte, error) { return []byte("still here"), nil })
	require.NoError(t, err)
	result, err = after.Wait()
	require.NoError(t, err)
	require.Equal(t, []byte("still here"), result)
}

func TestPool_SubmitAfterClose(t *testing.T) {
	p := NewPool(1)
	p.Close()

	_, err := p.Submit(func() ([]byte, error) { return nil, nil })
	require.ErrorIs(t, err, errs.ErrPoolClosed)
}

func TestPool_CloseDrainsQueue(t *testing.T) {
	p := NewPool(2)

	var completed atomic.Int32
	for i := 0; i < 20; i++ {
		_, err := p.Submit(func() ([]byte, error) {
			time.Sleep(time.Millisecond)
			completed.Add(1)

			return nil, nil
		})
		require.NoError(t, err)
	}

	p.Close()
	require.EqualValues(t, 20, completed.Load())

	// Close is idempotent.
	p.Close()
}

func TestPool_DoneChannel(t *testing.T) {
	p := NewPool(1)
	defer p.Close()

	task, err := p.Submit(func() ([]byte, error) { return []byte("x"), nil })
	require.NoError(t, err)

	select {
	case <-task.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("task never completed")
	}

	result, err := task.Wait()
	require.NoError(t, err)
	require.Equal(t, []byte("x"), result)
}

func TestDefaultPoolSize(t *testing.T) {
	require.GreaterOrEqual(t, DefaultPoolSize(), 2)
}
