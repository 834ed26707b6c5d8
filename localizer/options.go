package localizer

import (
	"go.opentelemetry.io/otel/metric"
)

// Option configures a Manager.
type Option func(*Manager)

// WithLocaleContext makes the manager follow lc instead of the process wide default
// locale.
func WithLocaleContext(lc *LocaleContext) Option {
	return func(m *Manager) {
		if lc != nil {
			m.locales = lc
		}
	}
}

// WithGroup registers the manager with g instead of the default group. A nil group
// keeps the manager out of every group.
func WithGroup(g *Group) Option {
	return func(m *Manager) {
		m.group = g
	}
}

// WithMeterProvider records resolution counters on mp instead of the global provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(m *Manager) {
		m.meterProvider = mp
	}
}

type resolveOptions struct {
	locale      string
	bound       bool
	fallback    bool
	placeholder string
}

// ResolveOption adjusts a single resolution.
type ResolveOption func(*resolveOptions)

// InLocale resolves in locale instead of the default locale.
func InLocale(locale string) ResolveOption {
	return func(o *resolveOptions) {
		o.locale = locale
		o.bound = true
	}
}

// WithoutFallback disables the retry against the invariant locale.
func WithoutFallback() ResolveOption {
	return func(o *resolveOptions) {
		o.fallback = false
	}
}

// WithPlaceholder sets the text Resolve returns for missing keys.
func WithPlaceholder(text string) ResolveOption {
	return func(o *resolveOptions) {
		o.placeholder = text
	}
}

func buildResolveOptions(opts []ResolveOption) resolveOptions {
	o := resolveOptions{fallback: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
