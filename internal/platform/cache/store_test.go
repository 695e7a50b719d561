package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (string, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", loader)
			if err != nil {
				errCh <- err
				return
			}
			if v != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_UsesCachedValueAfterFirstLoad(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (string, error) {
		calls.Add(1)
		return "cached", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("first GetOrLoad error: %v", err)
	}
	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("second GetOrLoad error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore[int](time.Minute)
	boom := errors.New("boom")

	if _, err := store.GetOrLoad(context.Background(), "k", func(context.Context) (int, error) {
		return 0, boom
	}); !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}
	if _, ok := store.Get(context.Background(), "k"); ok {
		t.Fatalf("error result must not be cached")
	}
}

func TestStore_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	store := NewStore[string](time.Second)
	store.now = func() time.Time { return now }

	store.Set(context.Background(), "leagues:all", "v")
	if _, ok := store.Get(context.Background(), "leagues:all"); !ok {
		t.Fatalf("expected fresh entry")
	}

	now = now.Add(2 * time.Second)
	if _, ok := store.Get(context.Background(), "leagues:all"); ok {
		t.Fatalf("expected entry to expire")
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore[string](0)
	store.Set(context.Background(), "leagues:all", "a")
	store.Set(context.Background(), "leagues:page:1", "b")
	store.Set(context.Background(), "other", "c")

	store.DeletePrefix(context.Background(), "leagues:")

	if _, ok := store.Get(context.Background(), "leagues:all"); ok {
		t.Fatalf("expected leagues:all to be removed")
	}
	if _, ok := store.Get(context.Background(), "other"); !ok {
		t.Fatalf("expected unrelated key to remain")
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")

func TestStore_GetOrLoad_InvalidationDuringLoadIsNotCached(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	started := make(chan struct{})
	release := make(chan struct{})

	done := make(chan string, 1)
	go func() {
		v, _ := store.GetOrLoad(context.Background(), "league:list", func(context.Context) (string, error) {
			close(started)
			<-release
			return "before-create", nil
		})
		done <- v
	}()

	<-started
	store.DeletePrefix(context.Background(), "league:")

	fresh, err := store.GetOrLoad(context.Background(), "league:list", func(context.Context) (string, error) {
		return "after-create", nil
	})
	if err != nil {
		t.Fatalf("GetOrLoad after invalidation: %v", err)
	}
	if fresh != "after-create" {
		t.Fatalf("caller after invalidation joined the stale load: %q", fresh)
	}

	close(release)
	if v := <-done; v != "before-create" {
		t.Fatalf("in-flight caller got %q", v)
	}

	got, ok := store.Get(context.Background(), "league:list")
	if !ok || got != "after-create" {
		t.Fatalf("expected fresh value cached, got %q ok=%v", got, ok)
	}
}

func TestStore_GetOrLoad_DeleteDuringLoadSkipsSet(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	_, err := store.GetOrLoad(context.Background(), "k", func(ctx context.Context) (string, error) {
		store.Delete(ctx, "k")
		return "stale", nil
	})
	if err != nil {
		t.Fatalf("GetOrLoad: %v", err)
	}
	if _, ok := store.Get(context.Background(), "k"); ok {
		t.Fatalf("value loaded across a Delete must not be cached")
	}
}
