package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// mockRetentionStore records purge calls.
type mockRetentionStore struct {
	mu      sync.Mutex
	cutoffs []time.Time
	err     error
}

func (m *mockRetentionStore) PurgeContactedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cutoffs = append(m.cutoffs, cutoff)
	if m.err != nil {
		return 0, m.err
	}
	return 1, nil
}

func (m *mockRetentionStore) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.cutoffs)
}

func TestRetentionWorker_PurgesImmediatelyAndOnTicks(t *testing.T) {
	store := &mockRetentionStore{}
	w := NewRetentionWorker(store, 24*time.Hour, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for store.calls() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done

	if store.calls() < 3 {
		t.Errorf("purge calls = %d, want at least 3 (one immediate plus ticks)", store.calls())
	}
}

func TestRetentionWorker_CutoffReflectsTTL(t *testing.T) {
	store := &mockRetentionStore{}
	ttl := 48 * time.Hour
	w := NewRetentionWorker(store, ttl, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for store.calls() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done

	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.cutoffs) == 0 {
		t.Fatal("no purge call observed")
	}
	want := time.Now().Add(-ttl)
	if diff := want.Sub(store.cutoffs[0]); diff < 0 || diff > 5*time.Second {
		t.Errorf("cutoff = %v, want roughly now minus %v", store.cutoffs[0], ttl)
	}
}

func TestRetentionWorker_SurvivesPurgeErrors(t *testing.T) {
	store := &mockRetentionStore{err: errors.New("database locked")}
	w := NewRetentionWorker(store, 24*time.Hour, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for store.calls() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done

	if store.calls() < 2 {
		t.Error("worker stopped retrying after a purge error")
	}
}

func TestRetentionWorker_StopsOnCancel(t *testing.T) {
	store := &mockRetentionStore{}
	w := NewRetentionWorker(store, 24*time.Hour, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop on context cancellation")
	}
}
