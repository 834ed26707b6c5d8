package localizer

import (
	"sync"

	"github.com/rs/xid"

	"github.com/pitabwire/typedtext/catalog"
)

// LocaleContext holds a default locale and tells subscribers when it changes.
type LocaleContext struct {
	mu          sync.RWMutex
	current     string
	subscribers map[string]func(previous, current string)
}

// NewLocaleContext returns a context starting at initial.
func NewLocaleContext(initial string) *LocaleContext {
	return &LocaleContext{
		current:     initial,
		subscribers: map[string]func(previous, current string){},
	}
}

// Current returns the default locale.
func (lc *LocaleContext) Current() string {
	lc.mu.RLock()
	defer lc.mu.RUnlock()
	return lc.current
}

// Set changes the default locale. Subscribers run after the change, on the calling
// goroutine, only when the value actually differs; Set reports whether it did.
func (lc *LocaleContext) Set(locale string) bool {
	lc.mu.Lock()
	previous := lc.current
	if previous == locale {
		lc.mu.Unlock()
		return false
	}
	lc.current = locale
	subscribers := make([]func(string, string), 0, len(lc.subscribers))
	for _, fn := range lc.subscribers {
		subscribers = append(subscribers, fn)
	}
	lc.mu.Unlock()

	for _, fn := range subscribers {
		fn(previous, locale)
	}
	return true
}

// Subscribe registers fn for locale changes and returns the function that removes it.
func (lc *LocaleContext) Subscribe(fn func(previous, current string)) func() {
	id := xid.New().String()

	lc.mu.Lock()
	lc.subscribers[id] = fn
	lc.mu.Unlock()

	return func() {
		lc.mu.Lock()
		delete(lc.subscribers, id)
		lc.mu.Unlock()
	}
}

//nolint:gochecknoglobals // process wide default locale shared by managers that do not bring their own
var processLocale = NewLocaleContext(catalog.Invariant)

// DefaultLocaleContext returns the process wide locale context.
func DefaultLocaleContext() *LocaleContext {
	return processLocale
}

// DefaultLocale returns the process wide default locale.
func DefaultLocale() string {
	return processLocale.Current()
}

// SetDefaultLocale changes the process wide default locale.
func SetDefaultLocale(locale string) bool {
	return processLocale.Set(locale)
}
