package server

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type blockingService struct {
	name    string
	started atomic.Bool
	stopped chan struct{}
	once    sync.Once
	order   *[]string
	mu      *sync.Mutex
}

func newBlockingService(name string, order *[]string, mu *sync.Mutex) *blockingService {
	return &blockingService{name: name, stopped: make(chan struct{}), order: order, mu: mu}
}

func (s *blockingService) Start(ctx context.Context) error {
	s.started.Store(true)
	<-s.stopped
	return nil
}

func (s *blockingService) Stop(context.Context) error {
	s.once.Do(func() {
		s.mu.Lock()
		*s.order = append(*s.order, s.name)
		s.mu.Unlock()
		close(s.stopped)
	})
	return nil
}

func TestLifecycle_StopsInReverseOrderOnCancel(t *testing.T) {
	var (
		order []string
		mu    sync.Mutex
	)
	lc := NewLifecycle(zaptest.NewLogger(t))
	a := newBlockingService("a", &order, &mu)
	b := newBlockingService("b", &order, &mu)
	lc.Add("a", a)
	lc.Add("b", b)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- lc.Run(ctx) }()

	require.Eventually(t, func() bool { return a.started.Load() && b.started.Load() }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("lifecycle did not shut down")
	}
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"b", "a"}, order)
}

func TestLifecycle_ServiceFailureStopsOthers(t *testing.T) {
	var (
		order []string
		mu    sync.Mutex
	)
	lc := NewLifecycle(zaptest.NewLogger(t))
	healthy := newBlockingService("healthy", &order, &mu)
	lc.Add("healthy", healthy)
	lc.Add("broken", &FuncService{
		StartFn: func(context.Context) error { return errors.New("bind: address in use") },
	})

	err := lc.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "service broken: bind: address in use")
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"healthy"}, order)
}

func TestLifecycle_StopTimeoutIsApplied(t *testing.T) {
	lc := NewLifecycle(zaptest.NewLogger(t))
	lc.SetStopTimeout(10 * time.Millisecond)
	release := make(chan struct{})
	var sawDeadline atomic.Bool
	lc.Add("slow", &FuncService{
		StartFn: func(ctx context.Context) error {
			<-release
			return nil
		},
		StopFn: func(ctx context.Context) error {
			<-ctx.Done()
			sawDeadline.Store(true)
			close(release)
			return ctx.Err()
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, lc.Run(ctx))
	assert.True(t, sawDeadline.Load())
}

func TestHealthLoop_ReportsTransitions(t *testing.T) {
	var (
		mu      sync.Mutex
		reports []bool
		calls   atomic.Int32
	)
	check := func(context.Context) error {
		switch calls.Add(1) {
		case 1, 2:
			return nil
		case 3:
			return errors.New("connection refused")
		default:
			return nil
		}
	}
	h := NewHealthLoop("postgres", 5*time.Millisecond, check, func(ok bool) {
		mu.Lock()
		reports = append(reports, ok)
		mu.Unlock()
	}, zaptest.NewLogger(t))

	done := make(chan error, 1)
	go func() { done <- h.Start(context.Background()) }()
	require.Eventually(t, func() bool { return calls.Load() >= 5 }, time.Second, time.Millisecond)
	require.NoError(t, h.Stop(context.Background()))
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []bool{true, false, true}, reports)
}
