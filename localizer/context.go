package localizer

import (
	"context"
	"net/http"

	"golang.org/x/text/language"

	"github.com/pitabwire/typedtext/catalog"
)

type contextKey string

func (c contextKey) String() string {
	return "typedtext/localizer/" + string(c)
}

const ctxKeyLocale = contextKey("localeKey")

// ToContext adds a locale to the supplied context.
func ToContext(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, ctxKeyLocale, locale)
}

// FromContext extracts the locale from the supplied context if any exists.
func FromContext(ctx context.Context) (string, bool) {
	locale, ok := ctx.Value(ctxKeyLocale).(string)
	return locale, ok
}

// MatchLocale picks the registered locale that best serves the preferred tags.
func (m *Manager) MatchLocale(preferred ...language.Tag) (string, bool) {
	if len(preferred) == 0 {
		return "", false
	}

	var (
		locales []string
		tags    []language.Tag
	)
	for _, locale := range m.Locales() {
		if locale == catalog.Invariant {
			continue
		}
		tag, err := language.Parse(locale)
		if err != nil {
			continue
		}
		locales = append(locales, locale)
		tags = append(tags, tag)
	}

	if len(tags) == 0 {
		return "", false
	}

	_, idx, confidence := language.NewMatcher(tags).Match(preferred...)
	if confidence == language.No {
		return "", false
	}
	return locales[idx], true
}

// RequestLanguages returns the tags a request asks for: the lang query parameter
// first, then the Accept-Language header in preference order.
func RequestLanguages(r *http.Request) []language.Tag {
	var tags []language.Tag

	if lang := r.URL.Query().Get("lang"); lang != "" {
		if tag, err := language.Parse(lang); err == nil {
			tags = append(tags, tag)
		}
	}

	if header := r.Header.Get("Accept-Language"); header != "" {
		accepted, _, err := language.ParseAcceptLanguage(header)
		if err == nil {
			tags = append(tags, accepted...)
		}
	}

	return tags
}

// Middleware puts the registered locale best matching each request into the request
// context, where ResolveContext picks it up.
func Middleware(m *Manager, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if locale, ok := m.MatchLocale(RequestLanguages(r)...); ok {
			r = r.WithContext(ToContext(r.Context(), locale))
		}
		next.ServeHTTP(w, r)
	})
}
