// Package catalog holds the key to text mappings read from resource files and the
// parsers that produce them.
package catalog

import (
	"maps"
	"slices"
	"unicode"
	"unicode/utf8"
)

const (
	minLocaleLength = 2
	maxLocaleLength = 10
)

// Invariant is the locale code of base files that carry no locale suffix.
const Invariant = ""

// Catalog maps text keys to localized text for one resource file.
type Catalog map[string]string

// Lookup returns the text stored for key.
func (c Catalog) Lookup(key string) (string, bool) {
	text, ok := c[key]
	return text, ok
}

// Keys returns the catalog keys in lexical order.
func (c Catalog) Keys() []string {
	return slices.Sorted(maps.Keys(c))
}

// Clone returns an independent copy of the catalog.
func (c Catalog) Clone() Catalog {
	if c == nil {
		return Catalog{}
	}
	return maps.Clone(c)
}

// Equal reports whether both catalogs hold the same entries.
func (c Catalog) Equal(other Catalog) bool {
	return maps.Equal(c, other)
}

// ValidLocale reports whether code is usable as a locale suffix: 2 to 10 letters,
// digits or hyphens.
func ValidLocale(code string) bool {
	n := utf8.RuneCountInString(code)
	if n < minLocaleLength || n > maxLocaleLength {
		return false
	}

	for _, r := range code {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' {
			return false
		}
	}

	return true
}
