package localizer

import (
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/pitabwire/typedtext/catalog"
)

// Bundle snapshots the registered providers into a go-i18n bundle. Invariant texts
// are filed under defaultTag and locales that are not valid BCP 47 tags are skipped.
// Within a locale the first registered provider wins, as it does in Resolve.
func (m *Manager) Bundle(defaultTag language.Tag) *i18n.Bundle {
	bundle := i18n.NewBundle(defaultTag)

	for _, locale := range m.Locales() {
		tag := defaultTag
		if locale != catalog.Invariant {
			parsed, err := language.Parse(locale)
			if err != nil {
				m.log.WithError(err).WithField("locale", locale).Warn("skipping locale that is not a language tag")
				continue
			}
			tag = parsed
		}

		providers := m.ProvidersFor(locale)
		// later writes replace earlier ones, so feed the highest priority provider last.
		for i := len(providers) - 1; i >= 0; i-- {
			p := providers[i]
			messages := make([]*i18n.Message, 0, len(p.catalog))
			for _, key := range p.Keys() {
				messages = append(messages, &i18n.Message{ID: key, Other: p.catalog[key]})
			}

			if err := bundle.AddMessages(tag, messages...); err != nil {
				m.log.WithError(err).WithField("locale", locale).Warn("could not add texts to bundle")
			}
		}
	}

	return bundle
}
