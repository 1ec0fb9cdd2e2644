package history

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePruner struct {
	mu      sync.Mutex
	cutoffs []time.Time
	err     error
}

func (p *fakePruner) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return 0, p.err
	}
	p.cutoffs = append(p.cutoffs, cutoff)
	return 4, nil
}

func (p *fakePruner) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.cutoffs)
}

func TestSweep(t *testing.T) {
	store := &fakePruner{}
	s := NewSweeper(store, 90, zap.NewNop())
	s.now = func() time.Time { return now }

	deleted, err := s.Sweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(4), deleted)
	require.Len(t, store.cutoffs, 1)
	assert.Equal(t, now.AddDate(0, 0, -90), store.cutoffs[0])
}

func TestSweepDisabled(t *testing.T) {
	store := &fakePruner{}
	s := NewSweeper(store, 0, zap.NewNop())

	deleted, err := s.Sweep(context.Background())

	require.NoError(t, err)
	assert.Zero(t, deleted)
	assert.Zero(t, store.calls())
}

func TestSweepError(t *testing.T) {
	s := NewSweeper(&fakePruner{err: errors.New("down")}, 30, zap.NewNop())

	_, err := s.Sweep(context.Background())

	assert.Error(t, err)
}

func TestStartScheduledRunsStopsOnCancel(t *testing.T) {
	store := &fakePruner{}
	s := NewSweeper(store, 30, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.StartScheduledRuns(ctx, 10*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return store.calls() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
