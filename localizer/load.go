package localizer

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/pitabwire/util"

	"github.com/pitabwire/typedtext/catalog"
	"github.com/pitabwire/typedtext/importer"
)

// Load imports the resource files in fsys at runtime. Static providers come first, in
// import order, followed by the runtime sources parsed from fsys. Files that fail to
// parse are reported in the result diagnostics.
func Load(ctx context.Context, fsys fs.FS, tasks ...importer.ImportTask) ([]*Provider, *importer.RunResult, error) {
	files, err := importer.Discover(ctx, fsys)
	if err != nil {
		return nil, nil, fmt.Errorf("discover resources: %w", err)
	}

	result, err := importer.Run(ctx, tasks, files)
	if err != nil {
		return nil, nil, err
	}

	providers := make([]*Provider, 0, len(result.Providers)+len(result.RuntimeSources))
	for _, sp := range result.Providers {
		providers = append(providers, FromStatic(sp))
	}

	runtimeProviders, diagnostics := LoadRuntimeSources(ctx, fsys, result.RuntimeSources)
	providers = append(providers, runtimeProviders...)
	result.Diagnostics = append(result.Diagnostics, diagnostics...)

	return providers, result, nil
}

// LoadRuntimeSources parses the files a RuntimeEmbedded import left for the runtime.
func LoadRuntimeSources(ctx context.Context, fsys fs.FS, sources []importer.RuntimeSource) ([]*Provider, []string) {
	log := util.Log(ctx)

	var (
		providers   []*Provider
		diagnostics []string
	)
	for _, src := range sources {
		content, err := fs.ReadFile(fsys, src.Path)
		if err == nil {
			var texts catalog.Catalog
			texts, err = catalog.Parse(content)
			if err == nil {
				providers = append(providers, NewProvider(src.Locale, texts))
				continue
			}
		}

		log.WithError(err).WithField("file", src.Path).Warn("can't load runtime text file")
		diagnostics = append(diagnostics, fmt.Sprintf("can't load runtime text file %s: %v", src.Path, err))
	}

	return providers, diagnostics
}
