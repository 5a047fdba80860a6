package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresFiles(t *testing.T) {
	_, err := New(nil, 0, func(string) {})
	assert.Error(t, err)
}

func TestRun_CallsOnChange(t *testing.T) {
	dir := t.TempDir()
	plan := filepath.Join(dir, "plan.yaml")
	other := filepath.Join(dir, "other.yaml")
	require.NoError(t, os.WriteFile(plan, []byte("tasks: []\n"), 0600))

	changed := make(chan string, 4)
	w, err := New([]string{plan}, 20*time.Millisecond, func(path string) { changed <- path })
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(other, []byte("x"), 0600))
	require.NoError(t, os.WriteFile(plan, []byte("tasks: []\nbusy: []\n"), 0600))

	select {
	case path := <-changed:
		want, _ := filepath.Abs(plan)
		assert.Equal(t, want, path)
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestRun_SlowCallbacksDoNotOverlap(t *testing.T) {
	dir := t.TempDir()
	plan := filepath.Join(dir, "plan.yaml")
	require.NoError(t, os.WriteFile(plan, []byte("tasks: []\n"), 0600))

	var running, maxRunning, calls int32
	w, err := New([]string{plan}, 10*time.Millisecond, func(string) {
		n := atomic.AddInt32(&running, 1)
		for {
			m := atomic.LoadInt32(&maxRunning)
			if n <= m || atomic.CompareAndSwapInt32(&maxRunning, m, n) {
				break
			}
		}
		time.Sleep(300 * time.Millisecond)
		atomic.AddInt32(&running, -1)
		atomic.AddInt32(&calls, 1)
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(plan, []byte("tasks: []\nbusy: []\n"), 0600))
	time.Sleep(80 * time.Millisecond)
	require.NoError(t, os.WriteFile(plan, []byte("tasks: []\n"), 0600))

	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) >= 2 },
		5*time.Second, 20*time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&maxRunning))

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestRun_WaitsForRunningCallback(t *testing.T) {
	dir := t.TempDir()
	plan := filepath.Join(dir, "plan.yaml")
	require.NoError(t, os.WriteFile(plan, []byte("tasks: []\n"), 0600))

	started := make(chan struct{})
	var once sync.Once
	var finished int32
	w, err := New([]string{plan}, 10*time.Millisecond, func(string) {
		once.Do(func() { close(started) })
		time.Sleep(200 * time.Millisecond)
		atomic.StoreInt32(&finished, 1)
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(plan, []byte("tasks: []\nbusy: []\n"), 0600))

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("callback never started")
	}
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, int32(1), atomic.LoadInt32(&finished))
}
