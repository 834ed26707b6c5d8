package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pitabwire/util"

	"github.com/pitabwire/typedtext/config"
	"github.com/pitabwire/typedtext/importer"
	"github.com/pitabwire/typedtext/localizer"
)

const missingPlaceholder = "<missing>"

var (
	errNoPatterns = errors.New("at least one --pattern is required")
	errNoKeys     = errors.New("at least one key is required")
)

func cmdResolve(ctx context.Context, cfg *config.ConfigurationDefault, stdout io.Writer, args []string) error {
	fs := flagSet("resolve")
	root := fs.String("root", cfg.ResourceDirectory(), "directory searched for resource files")
	locale := fs.String("locale", cfg.DefaultLocale(), "locale to resolve in, invariant when empty")
	noFallback := fs.Bool("no-fallback", false, "do not retry the invariant locale")
	var patterns stringList
	fs.Var(&patterns, "pattern", "import pattern, repeatable")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if len(patterns) == 0 {
		return errNoPatterns
	}
	if fs.NArg() == 0 {
		return errNoKeys
	}

	tasks := make([]importer.ImportTask, 0, len(patterns))
	for _, pattern := range patterns {
		tasks = append(tasks, importer.ImportTask{Pattern: pattern, Type: importer.RuntimeEmbedded})
	}

	providers, result, err := localizer.Load(ctx, os.DirFS(*root), tasks...)
	if err != nil {
		return err
	}

	log := util.Log(ctx)
	for _, diagnostic := range result.Diagnostics {
		log.Warn(diagnostic)
	}

	m := localizer.NewManager(ctx, providers,
		localizer.WithLocaleContext(localizer.NewLocaleContext(*locale)),
		localizer.WithGroup(nil))
	defer m.Close()

	opts := []localizer.ResolveOption{localizer.WithPlaceholder(missingPlaceholder)}
	if *noFallback {
		opts = append(opts, localizer.WithoutFallback())
	}

	for _, key := range fs.Args() {
		if _, err = fmt.Fprintf(stdout, "%s\t%s\n", key, m.Resolve(key, opts...)); err != nil {
			return err
		}
	}
	return nil
}
