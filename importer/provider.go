package importer

import (
	"path"
	"strconv"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"

	"github.com/pitabwire/typedtext/catalog"
)

const nameSuffixModulus = 1_000_000

// StaticProvider is the build-time artefact for one imported file.
type StaticProvider struct {
	GeneratedName string          `json:"name"   yaml:"name"`
	Locale        string          `json:"locale" yaml:"locale"`
	Catalog       catalog.Catalog `json:"texts"  yaml:"texts"`
}

// Equal compares providers by name, locale and catalog contents.
func (p StaticProvider) Equal(other StaticProvider) bool {
	return p.GeneratedName == other.GeneratedName &&
		p.Locale == other.Locale &&
		p.Catalog.Equal(other.Catalog)
}

// RuntimeSource is a file imported by a RuntimeEmbedded task, left for the runtime to
// parse.
type RuntimeSource struct {
	Path      string `json:"path"                yaml:"path"`
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Locale    string `json:"locale"              yaml:"locale"`
}

// identifierName turns a file stem into an exported Go style identifier:
// "my-lang.zh-cn" becomes "MyLang".
func identifierName(stem string) string {
	base := strings.TrimSuffix(stem, path.Ext(stem))

	words := strings.FieldsFunc(base, func(r rune) bool {
		return r > unicode.MaxASCII || (!unicode.IsLetter(r) && !unicode.IsDigit(r))
	})

	var b strings.Builder
	for _, w := range words {
		b.WriteString(strings.ToUpper(w[:1]))
		b.WriteString(w[1:])
	}

	if b.Len() == 0 {
		return "Unknown"
	}

	name := b.String()
	if name[0] >= '0' && name[0] <= '9' {
		name = "_" + name
	}
	return name
}

// providerNamer hands out generated names that stay unique within one run. The suffix
// is derived from the file path so the same file always receives the same name.
type providerNamer struct {
	owners map[string]string
	byPath map[string]string
}

func newProviderNamer() *providerNamer {
	return &providerNamer{
		owners: map[string]string{},
		byPath: map[string]string{},
	}
}

func (n *providerNamer) name(filePath string) string {
	if name, ok := n.byPath[filePath]; ok {
		return name
	}

	prefix := identifierName(fileStem(filePath)) + "Provider_"
	suffix := xxhash.Sum64String(filePath) % nameSuffixModulus

	for {
		name := prefix + strconv.FormatUint(suffix, 10)
		if _, taken := n.owners[name]; !taken {
			n.owners[name] = filePath
			n.byPath[filePath] = name
			return name
		}
		suffix = (suffix + 1) % nameSuffixModulus
	}
}

// providerSet keeps insertion order and drops structurally equal providers.
type providerSet struct {
	items []StaticProvider
	index map[string][]int
}

func (s *providerSet) add(p StaticProvider) bool {
	if s.index == nil {
		s.index = map[string][]int{}
	}

	key := p.GeneratedName + "\x00" + p.Locale
	for _, i := range s.index[key] {
		if s.items[i].Equal(p) {
			return false
		}
	}

	s.index[key] = append(s.index[key], len(s.items))
	s.items = append(s.items, p)
	return true
}
