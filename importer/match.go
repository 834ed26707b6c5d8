package importer

import (
	"iter"
	"path"
	"strings"

	"github.com/pitabwire/typedtext/catalog"
)

// filePattern is the parsed form of an import task pattern.
type filePattern struct {
	directory string
	baseName  string
	extension string
}

func parsePattern(pattern string) (filePattern, bool) {
	normalized := strings.Trim(slashPath(strings.TrimSpace(pattern)), "/")
	if normalized == "" {
		return filePattern{}, false
	}

	dir := path.Dir(normalized)
	if dir == "." {
		dir = ""
	}

	name := path.Base(normalized)
	ext := path.Ext(name)

	return filePattern{
		directory: dir,
		baseName:  strings.TrimSuffix(name, ext),
		extension: ext,
	}, true
}

// matches reports whether a candidate path fits the pattern. The directory part only
// has to occur somewhere in the path so build trees with different roots still line
// up.
func (p filePattern) matches(candidatePath string) bool {
	normalized := slashPath(candidatePath)
	if !strings.Contains(normalized, p.directory) {
		return false
	}

	name := path.Base(normalized)
	if len(name) < len(p.baseName)+len(p.extension) {
		return false
	}

	if !strings.EqualFold(name[:len(p.baseName)], p.baseName) ||
		!strings.EqualFold(name[len(name)-len(p.extension):], p.extension) {
		return false
	}

	// lang.json and lang.zh-cn.json match lang.json, lang_backup.json does not.
	middle := name[len(p.baseName) : len(name)-len(p.extension)]
	return middle == "" || strings.HasPrefix(middle, ".")
}

// Match yields the files whose path fits pattern, in input order. The sequence is lazy
// and may be ranged over any number of times. A blank pattern matches nothing.
func Match(pattern string, files []CandidateFile) iter.Seq[CandidateFile] {
	return func(yield func(CandidateFile) bool) {
		fp, ok := parsePattern(pattern)
		if !ok {
			return
		}

		for _, f := range files {
			if !fp.matches(f.Path) {
				continue
			}
			if !yield(f) {
				return
			}
		}
	}
}

// ExtractLocale returns the locale suffix of a file stem: "strings" is the invariant
// file, "strings.zh-cn" is zh-cn. A trailing dot or a suffix that is not a locale code
// reports false.
func ExtractLocale(stem string) (string, bool) {
	if strings.TrimSpace(stem) == "" {
		return "", false
	}

	lastDot := strings.LastIndexByte(stem, '.')
	if lastDot == -1 {
		return catalog.Invariant, true
	}

	if lastDot == len(stem)-1 {
		return "", false
	}

	code := stem[lastDot+1:]
	if !catalog.ValidLocale(code) {
		return "", false
	}

	return code, true
}
