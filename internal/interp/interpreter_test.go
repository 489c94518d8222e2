package interp

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lifeboatapi/screensim/internal/screen"
	"github.com/lifeboatapi/screensim/simprotocol"
)

func TestQueueDrainAll(t *testing.T) {
	var q Queue[int]
	require.Empty(t, q.DrainAll())

	q.Push(1)
	q.Push(2)
	q.Push(3)
	require.Equal(t, 3, q.Len())
	require.Equal(t, []int{1, 2, 3}, q.DrainAll())
	require.Zero(t, q.Len())
	require.Empty(t, q.DrainAll())
}

func TestQueueConcurrentPush(t *testing.T) {
	var q Queue[int]
	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 100 {
				q.Push(i*100 + j)
			}
		}()
	}

	var drained []int
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	for {
		drained = append(drained, q.DrainAll()...)
		select {
		case <-done:
			drained = append(drained, q.DrainAll()...)
			require.Len(t, drained, 1000)
			return
		default:
		}
	}
}

type observerFunc func(*screen.Registry) error

func (f observerFunc) Poll(reg *screen.Registry) error { return f(reg) }

func TestTickOrder(t *testing.T) {
	reg := screen.NewRegistry(screen.Options{})
	it := New(reg, NewDispatcher(nil), nil)

	var polled []int
	it.Observe(observerFunc(func(r *screen.Registry) error {
		s, ok := r.Get(1)
		if ok {
			polled = append(polled, s.Len())
		}
		return nil
	}))

	// The input creates screen 1 before the queued commands run.
	it.Enqueue(simprotocol.Parse("RECT|1|1|0|0|1|1"))
	it.Submit(screen.AddInput{})
	it.Enqueue(simprotocol.Parse("FOO|1"))
	it.Enqueue(simprotocol.Parse("LINE|1|0|0|1|1"))
	require.Equal(t, 4, it.Pending())

	require.NoError(t, it.Tick())
	require.Zero(t, it.Pending())
	require.Equal(t, []int{2}, polled)

	s, _ := reg.Get(1)
	prims := s.Primitives()
	require.Equal(t, screen.KindRect, prims[0].Kind())
	require.Equal(t, screen.KindLine, prims[1].Kind())

	require.NoError(t, it.Tick())
	require.Equal(t, []int{2, 2}, polled)
}

func TestTickReturnsObserverError(t *testing.T) {
	it := New(screen.NewRegistry(screen.Options{}), NewDispatcher(nil), nil)
	boom := errors.New("send failed")
	it.Observe(observerFunc(func(*screen.Registry) error { return boom }))

	require.ErrorIs(t, it.Tick(), boom)
}

func TestRunAppliesQueuedCommands(t *testing.T) {
	reg := screen.NewRegistry(screen.Options{})
	it := New(reg, NewDispatcher(nil), nil)

	applied := make(chan struct{})
	var once sync.Once
	it.Observe(observerFunc(func(r *screen.Registry) error {
		if s, ok := r.Get(2); ok && s.Len() == 1 {
			once.Do(func() { close(applied) })
		}
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errc := make(chan error, 1)
	go func() { errc <- it.Run(ctx, 200) }()

	it.Enqueue(simprotocol.Parse("CIRCLE|2|1|1|1|1"))
	select {
	case <-applied:
	case <-time.After(2 * time.Second):
		t.Fatal("command not applied")
	}

	cancel()
	require.ErrorIs(t, <-errc, context.Canceled)
}

func TestRunStopsOnObserverError(t *testing.T) {
	it := New(screen.NewRegistry(screen.Options{}), NewDispatcher(nil), nil)
	boom := errors.New("peer gone")
	it.Observe(observerFunc(func(*screen.Registry) error { return boom }))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.ErrorIs(t, it.Run(ctx, 100), boom)
}
