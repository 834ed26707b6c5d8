package importer

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/pitabwire/util"

	"github.com/pitabwire/typedtext/catalog"
)

// ErrCancelled is returned when a run is interrupted. No partial result accompanies
// it; callers start the run again from scratch.
var ErrCancelled = errors.New("import run cancelled")

// RunResult is the merged output of an import run.
type RunResult struct {
	// Exported holds every exported key with the text of the first file that
	// declared it.
	Exported       map[string]string `json:"exported"                  yaml:"exported"`
	Diagnostics    []string          `json:"diagnostics,omitempty"     yaml:"diagnostics,omitempty"`
	Providers      []StaticProvider  `json:"providers,omitempty"       yaml:"providers,omitempty"`
	RuntimeSources []RuntimeSource   `json:"runtime_sources,omitempty" yaml:"runtime_sources,omitempty"`
	Success        bool              `json:"success"                   yaml:"success"`
}

// Keys returns the exported keys in lexical order.
func (r *RunResult) Keys() []string {
	return slices.Sorted(maps.Keys(r.Exported))
}

type runState struct {
	result      *RunResult
	diagnostics map[string]struct{}
	runtime     map[RuntimeSource]struct{}
	providers   providerSet
	namer       *providerNamer
}

func newRunState() *runState {
	return &runState{
		result:      &RunResult{Exported: map[string]string{}},
		diagnostics: map[string]struct{}{},
		runtime:     map[RuntimeSource]struct{}{},
		namer:       newProviderNamer(),
	}
}

func (s *runState) diagnose(msg string) {
	if _, seen := s.diagnostics[msg]; seen {
		return
	}
	s.diagnostics[msg] = struct{}{}
	s.result.Diagnostics = append(s.result.Diagnostics, msg)
}

func cancelled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrCancelled, err)
	}
	return nil
}

// Run imports the files matched by each task, in task order. Parse failures become
// diagnostics and never stop the run. The first file to export a key keeps it, so
// earlier tasks take precedence over later ones.
func Run(ctx context.Context, tasks []ImportTask, files []CandidateFile) (*RunResult, error) {
	log := util.Log(ctx)
	state := newRunState()

	for _, task := range tasks {
		if err := cancelled(ctx); err != nil {
			return nil, err
		}

		for file := range Match(task.Pattern, files) {
			if err := cancelled(ctx); err != nil {
				return nil, err
			}

			state.importFile(log, task, file)
		}
	}

	state.result.Providers = state.providers.items
	state.result.Success = len(state.result.Exported) > 0
	return state.result, nil
}

func (s *runState) importFile(log *util.LogEntry, task ImportTask, file CandidateFile) {
	stem := fileStem(file.Path)
	locale, ok := ExtractLocale(stem)
	if !ok {
		log.WithField("file", file.Path).Debug("skipping file without a usable locale suffix")
		return
	}

	cat, err := readCatalog(file)
	if err != nil {
		log.WithError(err).WithField("file", file.Path).Warn("can't import text file")
		s.diagnose(fmt.Sprintf("can't import text file %s: %v", file.Path, err))
		return
	}

	for key, text := range cat {
		if _, exists := s.result.Exported[key]; !exists {
			s.result.Exported[key] = text
		}
	}

	switch task.Type {
	case CompileTimeStatic:
		s.providers.add(StaticProvider{
			GeneratedName: s.namer.name(file.Path),
			Locale:        locale,
			Catalog:       cat,
		})
	case RuntimeEmbedded:
		src := RuntimeSource{Path: file.Path, Namespace: task.Namespace, Locale: locale}
		if _, seen := s.runtime[src]; !seen {
			s.runtime[src] = struct{}{}
			s.result.RuntimeSources = append(s.result.RuntimeSources, src)
		}
	}

	log.WithField("file", file.Path).WithField("locale", locale).
		WithField("keys", len(cat)).Debug("imported text file")
}

func readCatalog(file CandidateFile) (catalog.Catalog, error) {
	content, err := file.Read()
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return catalog.Parse(content)
}
