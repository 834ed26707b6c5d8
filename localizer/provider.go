// Package localizer resolves text keys against locale tagged providers at runtime,
// falling back to the invariant locale and caching results until providers or the
// default locale change.
package localizer

import (
	"github.com/pitabwire/typedtext/catalog"
	"github.com/pitabwire/typedtext/importer"
)

// Provider is a locale tagged, read-only catalog. Providers are compared by identity:
// two providers with the same contents are still distinct registry entries.
type Provider struct {
	locale  string
	catalog catalog.Catalog
}

// NewProvider copies texts into a provider for locale.
func NewProvider(locale string, texts catalog.Catalog) *Provider {
	return &Provider{locale: locale, catalog: texts.Clone()}
}

// FromStatic instantiates a provider from an import artefact.
func FromStatic(sp importer.StaticProvider) *Provider {
	return NewProvider(sp.Locale, sp.Catalog)
}

// Locale returns the locale code the provider serves; empty is the invariant locale.
func (p *Provider) Locale() string {
	return p.locale
}

// Lookup returns the text stored for key.
func (p *Provider) Lookup(key string) (string, bool) {
	return p.catalog.Lookup(key)
}

// Keys returns the provider keys in lexical order.
func (p *Provider) Keys() []string {
	return p.catalog.Keys()
}
