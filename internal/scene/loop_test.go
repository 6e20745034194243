package scene

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoop_RunsTasksInOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l := NewLoop(4)
	go l.Run(ctx)

	var got []int
	for i := range 5 {
		l.Dispatch(func() { got = append(got, i) })
	}
	require.NoError(t, l.Do(ctx, func() {}))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestLoop_DoFromManyGoroutines(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l := NewLoop(0)
	go l.Run(ctx)

	counter := 0
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, l.Do(ctx, func() { counter++ }))
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)
}

func TestLoop_Stopped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	l := NewLoop(0)
	stopped := make(chan struct{})
	go func() {
		l.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	select {
	case <-l.Stopped():
	default:
		t.Fatal("Stopped not closed after Run returned")
	}

	err := l.Do(context.Background(), func() {})
	require.ErrorIs(t, err, ErrLoopStopped)

	done := make(chan struct{})
	go func() {
		l.Dispatch(func() {})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked on a stopped loop")
	}
}
