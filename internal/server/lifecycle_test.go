package server

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type mockService struct {
	started atomic.Bool
	stopped atomic.Bool
	stopCh  chan struct{}
	startFn func(ctx context.Context) error
}

func newMock() *mockService {
	return &mockService{stopCh: make(chan struct{})}
}

func (m *mockService) Start(ctx context.Context) error {
	m.started.Store(true)
	if m.startFn != nil {
		return m.startFn(ctx)
	}
	select {
	case <-m.stopCh:
	case <-ctx.Done():
	}
	return nil
}

func (m *mockService) Stop() {
	if m.stopped.CompareAndSwap(false, true) {
		close(m.stopCh)
	}
}

func runAsync(lc *Lifecycle, ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() { done <- lc.Run(ctx) }()
	return done
}

func wait(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("lifecycle did not shut down in time")
		return nil
	}
}

func TestLifecycle_CancelStopsEverything(t *testing.T) {
	lc := NewLifecycle(zaptest.NewLogger(t))
	bot, autosave := newMock(), newMock()
	lc.Add("bot", bot)
	lc.Add("autosave", autosave)

	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(lc, ctx)

	require.Eventually(t, func() bool {
		return bot.started.Load() && autosave.started.Load()
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, wait(t, done))
	assert.True(t, bot.stopped.Load())
	assert.True(t, autosave.stopped.Load())
}

func TestLifecycle_CleanFinishShutsDown(t *testing.T) {
	lc := NewLifecycle(zaptest.NewLogger(t))
	other := newMock()
	bot := newMock()
	bot.startFn = func(context.Context) error { return nil }
	lc.Add("bot", bot)
	lc.Add("other", other)

	assert.NoError(t, wait(t, runAsync(lc, context.Background())))
	assert.True(t, other.stopped.Load(), "a finished service takes the rest down with it")
}

func TestLifecycle_FailureIsReturned(t *testing.T) {
	lc := NewLifecycle(zaptest.NewLogger(t))
	boom := errors.New("login rejected")
	bot := newMock()
	bot.startFn = func(context.Context) error { return boom }
	other := newMock()
	lc.Add("bot", bot)
	lc.Add("other", other)

	err := wait(t, runAsync(lc, context.Background()))
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "service bot")
	assert.True(t, other.stopped.Load())
}

func TestFuncService(t *testing.T) {
	started := false
	stopped := false

	svc := &FuncService{
		StartFn: func(context.Context) error {
			started = true
			return nil
		},
		StopFn: func() {
			stopped = true
		},
	}

	assert.NoError(t, svc.Start(context.Background()))
	assert.True(t, started)

	svc.Stop()
	assert.True(t, stopped)

	(&FuncService{StartFn: svc.StartFn}).Stop()
}
