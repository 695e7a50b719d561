package resilience

import (
	"strings"
	"sync"
)

// SingleFlight collapses concurrent calls for the same key into one.
type SingleFlight[V any] struct {
	mu    sync.Mutex
	calls map[string]*call[V]
}

type call[V any] struct {
	wg  sync.WaitGroup
	val V
	err error
}

func (g *SingleFlight[V]) Do(key string, fn func() (V, error)) (V, error, bool) {
	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[string]*call[V])
	}

	if c, ok := g.calls[key]; ok {
		g.mu.Unlock()
		c.wg.Wait()
		return c.val, c.err, true
	}

	c := &call[V]{}
	c.wg.Add(1)
	g.calls[key] = c
	g.mu.Unlock()

	c.val, c.err = fn()
	c.wg.Done()

	g.mu.Lock()
	if g.calls[key] == c {
		delete(g.calls, key)
	}
	g.mu.Unlock()

	return c.val, c.err, false
}

// Forget detaches the in-flight call for key. Callers already waiting still
// receive its result; later callers start a new call.
func (g *SingleFlight[V]) Forget(key string) {
	g.mu.Lock()
	delete(g.calls, key)
	g.mu.Unlock()
}

// ForgetPrefix is Forget for every key starting with prefix.
func (g *SingleFlight[V]) ForgetPrefix(prefix string) {
	g.mu.Lock()
	for key := range g.calls {
		if strings.HasPrefix(key, prefix) {
			delete(g.calls, key)
		}
	}
	g.mu.Unlock()
}
