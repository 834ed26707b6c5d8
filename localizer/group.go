package localizer

import (
	"slices"
	"sync"

	"github.com/pitabwire/typedtext/catalog"
)

// Group resolves keys across several managers, in the order they joined.
type Group struct {
	mu       sync.RWMutex
	managers []*Manager
}

// NewGroup returns an empty group.
func NewGroup() *Group {
	return &Group{}
}

//nolint:gochecknoglobals // process wide group that managers join unless told otherwise
var processGroup = NewGroup()

// DefaultGroup returns the process wide group.
func DefaultGroup() *Group {
	return processGroup
}

func (g *Group) add(m *Manager) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !slices.Contains(g.managers, m) {
		g.managers = append(g.managers, m)
	}
}

func (g *Group) remove(m *Manager) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if idx := slices.Index(g.managers, m); idx >= 0 {
		g.managers = slices.Delete(g.managers, idx, idx+1)
	}
}

// Managers returns the members in registration order.
func (g *Group) Managers() []*Manager {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Clone(g.managers)
}

// Lookup asks every manager for key in locale, then, when fallback is set, every
// manager for the invariant locale. The first manager with a value wins.
func (g *Group) Lookup(key, locale string, fallbackToInvariant bool) (string, bool) {
	managers := g.Managers()

	for _, m := range managers {
		if text, ok := m.Lookup(key, locale, false); ok {
			return text, true
		}
	}

	if !fallbackToInvariant || locale == catalog.Invariant {
		return "", false
	}

	for _, m := range managers {
		if text, ok := m.Lookup(key, catalog.Invariant, false); ok {
			return text, true
		}
	}

	return "", false
}

// TryResolveGlobally resolves key across the default group, in the process wide
// default locale unless InLocale says otherwise.
func TryResolveGlobally(key string, opts ...ResolveOption) (string, bool) {
	o := buildResolveOptions(opts)
	locale := o.locale
	if !o.bound {
		locale = DefaultLocale()
	}
	return DefaultGroup().Lookup(key, locale, o.fallback)
}

// ResolveGlobally is TryResolveGlobally returning the placeholder for missing keys.
func ResolveGlobally(key string, opts ...ResolveOption) string {
	if text, ok := TryResolveGlobally(key, opts...); ok {
		return text
	}
	return buildResolveOptions(opts).placeholder
}
