// Package eventemitter provides typed event targets that listeners can subscribe to.
//
// Listeners are called synchronously, in registration order, on the goroutine that
// emits the event. Wrap a listener body in a goroutine for asynchronous handling.
//
// Example:
//
//	added := eventemitter.NewTarget[[]string]("reflections-added")
//	token := added.AddListener(func(keys []string) { fmt.Println(keys) })
//	added.Emit([]string{"r1", "r2"}) // Output: [r1 r2]
//	added.RemoveListener(token)
package eventemitter

import (
	"slices"
	"sync"
	"sync/atomic"
)

// ListenerToken identifies a registered listener.
type ListenerToken uint64

var lastToken atomic.Uint64

type listener[E any] struct {
	token   ListenerToken
	handler func(E)
}

// Target is a named event carrying values of type E.
// It is safe for concurrent use.
type Target[E any] struct {
	name      string
	mu        sync.RWMutex
	listeners []listener[E]
}

func NewTarget[E any](name string) *Target[E] {
	return &Target[E]{name: name}
}

func (t *Target[E]) Name() string {
	return t.name
}

// AddListener registers handler and returns a token for removing it.
func (t *Target[E]) AddListener(handler func(E)) ListenerToken {
	t.mu.Lock()
	defer t.mu.Unlock()

	token := ListenerToken(lastToken.Add(1))
	t.listeners = append(t.listeners, listener[E]{token: token, handler: handler})
	return token
}

// RemoveListener removes the listener registered with token.
func (t *Target[E]) RemoveListener(token ListenerToken) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := slices.IndexFunc(t.listeners, func(l listener[E]) bool { return l.token == token })
	if i < 0 {
		return false
	}
	t.listeners = slices.Delete(t.listeners, i, i+1)
	return true
}

// RemoveAllListeners removes every listener. It reports whether any were registered.
func (t *Target[E]) RemoveAllListeners() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	had := len(t.listeners) > 0
	t.listeners = nil
	return had
}

// Emit calls every listener with e. It reports whether any listener was called.
func (t *Target[E]) Emit(e E) bool {
	t.mu.RLock()
	listeners := slices.Clone(t.listeners)
	t.mu.RUnlock()

	for _, l := range listeners {
		l.handler(e)
	}
	return len(listeners) > 0
}
