package scene

import (
	"context"
	"errors"
)

// ErrLoopStopped is returned by Do once the loop has stopped.
var ErrLoopStopped = errors.New("scene loop stopped")

// Loop runs posted functions one at a time on a single goroutine, so that
// scene mutations never overlap.
type Loop struct {
	tasks chan func()
	done  chan struct{}
}

// NewLoop creates a loop with room for buffer pending tasks.
func NewLoop(buffer int) *Loop {
	return &Loop{tasks: make(chan func(), buffer), done: make(chan struct{})}
}

// Run executes tasks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.tasks:
			fn()
		}
	}
}

// Dispatch queues fn. It blocks while the queue is full and drops fn once
// the loop has stopped. Callers that must learn about dropped work watch
// Stopped.
func (l *Loop) Dispatch(fn func()) {
	select {
	case l.tasks <- fn:
	case <-l.done:
	}
}

// Stopped is closed once Run has returned. Queued tasks that had not run by
// then are discarded.
func (l *Loop) Stopped() <-chan struct{} { return l.done }

// Do runs fn on the loop and waits for it to finish.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	task := func() {
		defer close(finished)
		fn()
	}
	select {
	case l.tasks <- task:
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		select {
		case <-finished:
			return nil
		default:
			return ErrLoopStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}
