// Package fanout runs independent tasks on a bounded set of workers and
// joins on all of them. A failing, panicking or slow task only affects its
// own result.
package fanout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrPanic wraps a panic recovered from a task.
var ErrPanic = errors.New("task panicked")

// TaskFunc processes one input. It should honour ctx; if it does not, the
// pool stops waiting for it once the per-task timeout expires.
type TaskFunc[T, R any] func(ctx context.Context, in T) (R, error)

// Result is the outcome of the task at Index in the input slice.
type Result[R any] struct {
	Index    int
	Value    R
	Err      error
	Duration time.Duration
}

// Pool holds the worker count and per-task timeout; it is safe to reuse.
type Pool[T, R any] struct {
	workers int
	timeout time.Duration
	task    TaskFunc[T, R]
}

// NewPool creates a pool. workers <= 0 means one worker; timeout <= 0
// disables the per-task deadline.
func NewPool[T, R any](workers int, timeout time.Duration, task TaskFunc[T, R]) *Pool[T, R] {
	if workers <= 0 {
		workers = 1
	}
	return &Pool[T, R]{
		workers: workers,
		timeout: timeout,
		task:    task,
	}
}

// Run executes task once per input and returns exactly len(inputs) results in
// input order. Tasks not started before ctx is done report ctx.Err().
func (p *Pool[T, R]) Run(ctx context.Context, inputs []T) []Result[R] {
	results := make([]Result[R], len(inputs))
	if len(inputs) == 0 {
		return results
	}

	requestQueue := make(chan int, len(inputs))
	for i := range inputs {
		requestQueue <- i
	}
	close(requestQueue)

	workers := p.workers
	if workers > len(inputs) {
		workers = len(inputs)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range requestQueue {
				results[idx] = p.runOne(ctx, idx, inputs[idx])
			}
		}()
	}
	wg.Wait()

	return results
}

func (p *Pool[T, R]) runOne(ctx context.Context, idx int, in T) Result[R] {
	start := time.Now()
	result := Result[R]{Index: idx}

	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	taskCtx := ctx
	cancel := func() {}
	if p.timeout > 0 {
		taskCtx, cancel = context.WithTimeout(ctx, p.timeout)
	}
	defer cancel()

	done := make(chan Result[R], 1)
	go func() {
		r := Result[R]{Index: idx}
		defer func() {
			if rec := recover(); rec != nil {
				r.Err = fmt.Errorf("%w: %v", ErrPanic, rec)
				done <- r
			}
		}()
		r.Value, r.Err = p.task(taskCtx, in)
		done <- r
	}()

	select {
	case r := <-done:
		result = r
	case <-taskCtx.Done():
		result.Err = taskCtx.Err()
	}
	result.Duration = time.Since(start)
	return result
}
