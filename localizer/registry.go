package localizer

import (
	"maps"
	"slices"
	"sync"
)

// Registry indexes providers by locale, keeping registration order within a locale.
type Registry struct {
	mu        sync.RWMutex
	providers map[string][]*Provider
	listeners []func(locale string)
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{providers: map[string][]*Provider{}}
}

// OnChange registers fn to run after every membership change. Listeners run on the
// goroutine that changed the registry, after its lock is released.
func (r *Registry) OnChange(fn func(locale string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// Add registers p. Adding a provider that is already present changes nothing and
// reports false.
func (r *Registry) Add(p *Provider) bool {
	if p == nil {
		return false
	}

	r.mu.Lock()
	current := r.providers[p.locale]
	if slices.Contains(current, p) {
		r.mu.Unlock()
		return false
	}
	r.providers[p.locale] = append(current, p)
	listeners := slices.Clone(r.listeners)
	r.mu.Unlock()

	notify(listeners, p.locale)
	return true
}

// Remove unregisters p. Removing an absent provider changes nothing and reports
// false.
func (r *Registry) Remove(p *Provider) bool {
	if p == nil {
		return false
	}

	r.mu.Lock()
	current := r.providers[p.locale]
	idx := slices.Index(current, p)
	if idx < 0 {
		r.mu.Unlock()
		return false
	}
	r.providers[p.locale] = slices.Delete(slices.Clone(current), idx, idx+1)
	if len(r.providers[p.locale]) == 0 {
		delete(r.providers, p.locale)
	}
	listeners := slices.Clone(r.listeners)
	r.mu.Unlock()

	notify(listeners, p.locale)
	return true
}

// ProvidersFor returns the providers for locale in registration order. Unknown
// locales yield an empty slice.
func (r *Registry) ProvidersFor(locale string) []*Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.providers[locale])
}

// lookup scans the providers of locale in registration order; the first hit wins.
func (r *Registry) lookup(locale, key string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.providers[locale] {
		if text, ok := p.Lookup(key); ok {
			return text, true
		}
	}
	return "", false
}

// Locales returns the locales with at least one provider, in lexical order.
func (r *Registry) Locales() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.providers))
}

func notify(listeners []func(string), locale string) {
	for _, fn := range listeners {
		fn(locale)
	}
}
