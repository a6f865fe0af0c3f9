// Package parallel provides a bounded worker pool for fanning out
// independent compression units. Workers are isolated: each unit's input
// and output are copied across the submission boundary, and a unit failure
// never affects the rest of a batch.
package parallel

import (
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/zenithlabs/ostpack/errs"
)

// DefaultPoolSize is the default worker count: max(2, cores-1), leaving one
// core for the submitting goroutine.
func DefaultPoolSize() int {
	return max(2, runtime.NumCPU()-1)
}

// Task is the handle for one submitted unit. Wait blocks until the unit
// finishes and returns its result or failure.
type Task struct {
	done   chan struct{}
	result []byte
	err    error
}

// Wait blocks until the task completes.
func (t *Task) Wait() ([]byte, error) {
	<-t.done
	return t.result, t.err
}

// Done returns a channel closed when the task completes.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Pool is a fixed-capacity worker pool. At most size units run
// concurrently; excess submissions wait in a FIFO queue. There is no
// cancellation: once a unit starts it runs to completion or failure.
type Pool struct {
	queue  chan *submission
	wg     sync.WaitGroup
	logger *zap.SugaredLogger

	mu     sync.Mutex
	closed bool
}

type submission struct {
	fn   func() ([]byte, error)
	task *Task
}

// NewPool creates a pool with the given worker count; size <= 0 selects
// DefaultPoolSize.
func NewPool(size int) *Pool {
	if size <= 0 {
		size = DefaultPoolSize()
	}

	p := &Pool{
		queue:  make(chan *submission, size*4),
		logger: zap.NewNop().Sugar(),
	}

	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.worker()
	}

	return p
}

// SetLogger installs a logger for worker failure diagnostics.
func (p *Pool) SetLogger(logger *zap.SugaredLogger) {
	if logger != nil {
		p.logger = logger
	}
}

// Submit queues one unit and returns its handle. Blocks when the queue is
// full, providing backpressure. Fails with errs.ErrPoolClosed after Close.
func (p *Pool) Submit(fn func() ([]byte, error)) (*Task, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, errs.ErrPoolClosed
	}

	task := &Task{done: make(chan struct{})}
	p.queue <- &submission{fn: fn, task: task}
	p.mu.Unlock()

	return task, nil
}

// Close stops accepting submissions and waits for queued units to finish.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for sub := range p.queue {
		p.run(sub)
	}
}

// run executes one unit, converting a panic into that unit's failure
// instead of tearing down the pool.
func (p *Pool) run(sub *submission) {
	defer func() {
		if r := recover(); r != nil {
			sub.task.err = fmt.Errorf("%w: %v", errs.ErrWorkerPanic, r)
			p.logger.Warnw("compression unit panicked", "panic", r)
			close(sub.task.done)
		}
	}()

	sub.task.result, sub.task.err = sub.fn()
	close(sub.task.done)
}
