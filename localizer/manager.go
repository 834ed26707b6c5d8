package localizer

import (
	"context"
	"sync"

	"github.com/pitabwire/util"
	"go.opentelemetry.io/otel/metric"

	"github.com/pitabwire/typedtext/catalog"
	"github.com/pitabwire/typedtext/telemetry"
)

const meterPackage = "typedtext/localizer"

type resolveMetrics struct {
	hits      metric.Int64Counter
	misses    metric.Int64Counter
	cacheHits metric.Int64Counter
}

func newResolveMetrics(mp metric.MeterProvider) resolveMetrics {
	return resolveMetrics{
		hits:      telemetry.DimensionlessMeasure(mp, meterPackage, "/resolve_hits", "Resolutions that found a text"),
		misses:    telemetry.DimensionlessMeasure(mp, meterPackage, "/resolve_misses", "Resolutions that found no text"),
		cacheHits: telemetry.DimensionlessMeasure(mp, meterPackage, "/cache_hits", "Resolutions served from the cache"),
	}
}

// Manager resolves text keys through its providers. Resolution tries the requested
// locale, then the invariant locale when fallback is enabled. Values found in the
// default locale are cached until a provider is added or removed or the default
// locale changes. A manager is safe for concurrent use.
type Manager struct {
	log           *util.LogEntry
	locales       *LocaleContext
	group         *Group
	meterProvider metric.MeterProvider
	metrics       resolveMetrics
	registry      *Registry

	mu          sync.Mutex
	cache       map[string]string
	cacheScope  string
	handles     map[handleKey]*TextHandle
	stale       []*TextHandle
	unsubscribe func()
	closed      bool
}

// NewManager builds a manager holding providers, registered with the default group
// and following the process wide default locale unless opts say otherwise.
func NewManager(ctx context.Context, providers []*Provider, opts ...Option) *Manager {
	m := &Manager{
		log:      util.Log(ctx),
		locales:  DefaultLocaleContext(),
		group:    DefaultGroup(),
		registry: NewRegistry(),
		cache:    map[string]string{},
		handles:  map[handleKey]*TextHandle{},
	}

	for _, opt := range opts {
		opt(m)
	}

	m.metrics = newResolveMetrics(m.meterProvider)
	m.cacheScope = m.locales.Current()

	for _, p := range providers {
		m.registry.Add(p)
	}

	// registered after the initial providers; only later changes invalidate.
	m.registry.OnChange(m.providersChanged)
	m.unsubscribe = m.locales.Subscribe(m.localeChanged)

	if m.group != nil {
		m.group.add(m)
	}

	return m
}

// DefaultLocale returns the default locale the manager follows.
func (m *Manager) DefaultLocale() string {
	return m.locales.Current()
}

// SetDefaultLocale changes the default locale of the manager's locale context, which
// invalidates every manager sharing it.
func (m *Manager) SetDefaultLocale(locale string) bool {
	return m.locales.Set(locale)
}

// Lookup resolves key in locale, retrying the invariant locale when
// fallbackToInvariant is set.
func (m *Manager) Lookup(key, locale string, fallbackToInvariant bool) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lookupLocked(key, locale, fallbackToInvariant)
}

// TryResolve resolves key in the default locale, or the locale given with InLocale.
func (m *Manager) TryResolve(key string, opts ...ResolveOption) (string, bool) {
	o := buildResolveOptions(opts)
	locale := o.locale
	if !o.bound {
		locale = m.locales.Current()
	}
	return m.Lookup(key, locale, o.fallback)
}

// Resolve is TryResolve returning the placeholder, empty by default, for missing keys.
func (m *Manager) Resolve(key string, opts ...ResolveOption) string {
	if text, ok := m.TryResolve(key, opts...); ok {
		return text
	}
	return buildResolveOptions(opts).placeholder
}

// ResolveContext resolves key in the locale carried by ctx, falling back to the
// default locale when ctx has none.
func (m *Manager) ResolveContext(ctx context.Context, key string, opts ...ResolveOption) string {
	if locale, ok := FromContext(ctx); ok {
		opts = append([]ResolveOption{InLocale(locale)}, opts...)
	}
	return m.Resolve(key, opts...)
}

func (m *Manager) lookupLocked(key, locale string, fallback bool) (string, bool) {
	ctx := context.Background()

	current := m.locales.Current()
	if current != m.cacheScope {
		clear(m.cache)
		m.cacheScope = current
	}

	if locale == current {
		if text, ok := m.cache[key]; ok {
			m.metrics.cacheHits.Add(ctx, 1)
			m.metrics.hits.Add(ctx, 1)
			return text, true
		}
	}

	if text, ok := m.findLocked(key, locale, current); ok {
		return text, true
	}

	if fallback && locale != catalog.Invariant {
		if text, ok := m.findLocked(key, catalog.Invariant, current); ok {
			return text, true
		}
	}

	m.metrics.misses.Add(ctx, 1)
	return "", false
}

func (m *Manager) findLocked(key, locale, current string) (string, bool) {
	text, ok := m.registry.lookup(locale, key)
	if !ok {
		return "", false
	}
	if locale == current {
		m.cache[key] = text
	}
	m.metrics.hits.Add(context.Background(), 1)
	return text, true
}

// TextHandle returns the shared handle for key. Without InLocale the handle follows
// the default locale.
func (m *Manager) TextHandle(key string, opts ...ResolveOption) *TextHandle {
	o := buildResolveOptions(opts)
	id := handleKey{key: key, locale: o.locale, bound: o.bound, fallback: o.fallback}
	if !id.bound {
		id.locale = ""
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if h, ok := m.handles[id]; ok {
		return h
	}

	h := newTextHandle(id, func() (string, bool) {
		locale := id.locale
		if !id.bound {
			locale = m.locales.Current()
		}
		return m.Lookup(id.key, locale, id.fallback)
	})
	m.handles[id] = h
	return h
}

// AddProvider registers p and reports whether it was not registered before.
func (m *Manager) AddProvider(p *Provider) bool {
	m.mu.Lock()
	changed := m.registry.Add(p)
	stale := m.takeStaleLocked()
	m.mu.Unlock()

	if changed {
		m.log.WithField("locale", p.Locale()).Debug("text provider added")
	}
	notifyHandles(stale)
	return changed
}

// RemoveProvider unregisters p and reports whether it was registered.
func (m *Manager) RemoveProvider(p *Provider) bool {
	m.mu.Lock()
	changed := m.registry.Remove(p)
	stale := m.takeStaleLocked()
	m.mu.Unlock()

	if changed {
		m.log.WithField("locale", p.Locale()).Debug("text provider removed")
	}
	notifyHandles(stale)
	return changed
}

// ProvidersFor returns the providers registered for locale, in registration order.
func (m *Manager) ProvidersFor(locale string) []*Provider {
	return m.registry.ProvidersFor(locale)
}

// Locales returns the locales with at least one provider.
func (m *Manager) Locales() []string {
	return m.registry.Locales()
}

// Close detaches the manager from its locale context and group. Resolution keeps
// working, but the manager no longer follows locale changes.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	unsubscribe := m.unsubscribe
	m.mu.Unlock()

	unsubscribe()
	if m.group != nil {
		m.group.remove(m)
	}
}

// providersChanged runs from the registry while m.mu is held by AddProvider or
// RemoveProvider.
func (m *Manager) providersChanged(_ string) {
	m.invalidateLocked()
}

func (m *Manager) localeChanged(_, _ string) {
	m.mu.Lock()
	m.invalidateLocked()
	stale := m.takeStaleLocked()
	m.mu.Unlock()

	notifyHandles(stale)
}

type staleHandle struct {
	handle      *TextHandle
	subscribers []func(*TextHandle)
}

// invalidateLocked clears the cache in full and queues every live handle for
// notification.
func (m *Manager) invalidateLocked() {
	clear(m.cache)
	m.cacheScope = m.locales.Current()
	for _, h := range m.handles {
		m.stale = append(m.stale, h)
	}
}

func (m *Manager) takeStaleLocked() []staleHandle {
	if len(m.stale) == 0 {
		return nil
	}

	out := make([]staleHandle, 0, len(m.stale))
	for _, h := range m.stale {
		out = append(out, staleHandle{handle: h, subscribers: h.invalidate()})
	}
	m.stale = nil
	return out
}

func notifyHandles(stale []staleHandle) {
	for _, s := range stale {
		s.handle.notify(s.subscribers)
	}
}
