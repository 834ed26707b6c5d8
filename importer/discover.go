package importer

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/gobwas/glob"
)

// SupportedExtensions lists the resource file extensions handed to the pipeline.
var SupportedExtensions = []string{".json", ".resx"} //nolint:gochecknoglobals // read-only list

func supported(name string) bool {
	ext := path.Ext(name)
	for _, want := range SupportedExtensions {
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}

// Discover walks fsys and returns every supported resource file. When include
// patterns are given a file must match at least one of them; patterns use glob
// syntax with '/' as separator, so "**" crosses directories.
func Discover(ctx context.Context, fsys fs.FS, include ...string) ([]CandidateFile, error) {
	matchers := make([]glob.Glob, 0, len(include))
	for _, pattern := range include {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern %q: %w", pattern, err)
		}
		matchers = append(matchers, g)
	}

	var files []CandidateFile
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !supported(d.Name()) {
			return nil
		}
		if !included(matchers, p) {
			return nil
		}

		files = append(files, FSFile(fsys, p))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

func included(matchers []glob.Glob, p string) bool {
	if len(matchers) == 0 {
		return true
	}
	for _, g := range matchers {
		if g.Match(p) {
			return true
		}
	}
	return false
}
