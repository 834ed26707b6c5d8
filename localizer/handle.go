package localizer

import (
	"sync"

	"github.com/rs/xid"
)

type handleKey struct {
	key      string
	locale   string
	bound    bool
	fallback bool
}

// TextHandle is a shared, observable cell holding the resolved text of one key. It
// resolves lazily on first read and drops its value when the owning manager
// invalidates it, notifying subscribers so they can read again.
type TextHandle struct {
	id      handleKey
	resolve func() (string, bool)

	mu          sync.Mutex
	resolved    bool
	value       string
	found       bool
	generation  uint64
	subscribers map[string]func(*TextHandle)
}

func newTextHandle(id handleKey, resolve func() (string, bool)) *TextHandle {
	return &TextHandle{
		id:          id,
		resolve:     resolve,
		subscribers: map[string]func(*TextHandle){},
	}
}

// Key returns the text key.
func (h *TextHandle) Key() string {
	return h.id.key
}

// Locale returns the locale the handle is bound to. Unbound handles follow the
// default locale and report false.
func (h *TextHandle) Locale() (string, bool) {
	return h.id.locale, h.id.bound
}

// FallbackToInvariant reports whether misses retry the invariant locale.
func (h *TextHandle) FallbackToInvariant() bool {
	return h.id.fallback
}

// Value returns the resolved text, resolving it first if needed.
func (h *TextHandle) Value() (string, bool) {
	h.mu.Lock()
	if h.resolved {
		value, found := h.value, h.found
		h.mu.Unlock()
		return value, found
	}
	generation := h.generation
	h.mu.Unlock()

	value, found := h.resolve()

	h.mu.Lock()
	defer h.mu.Unlock()
	// an invalidation while resolving makes this value stale; keep it unresolved.
	if h.generation == generation {
		h.resolved = true
		h.value = value
		h.found = found
	}
	return value, found
}

// Text returns the resolved text or an empty string when the key is missing.
func (h *TextHandle) Text() string {
	value, _ := h.Value()
	return value
}

// Resolved reports whether the handle currently holds a value.
func (h *TextHandle) Resolved() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.resolved
}

// Subscribe registers fn to run whenever the handle is invalidated and returns the
// function that removes it.
func (h *TextHandle) Subscribe(fn func(*TextHandle)) func() {
	id := xid.New().String()

	h.mu.Lock()
	h.subscribers[id] = fn
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.subscribers, id)
		h.mu.Unlock()
	}
}

// invalidate drops the cached value and returns the subscribers to notify.
func (h *TextHandle) invalidate() []func(*TextHandle) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.resolved = false
	h.value = ""
	h.found = false
	h.generation++

	subscribers := make([]func(*TextHandle), 0, len(h.subscribers))
	for _, fn := range h.subscribers {
		subscribers = append(subscribers, fn)
	}
	return subscribers
}

func (h *TextHandle) notify(subscribers []func(*TextHandle)) {
	for _, fn := range subscribers {
		fn(h)
	}
}
