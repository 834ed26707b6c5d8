package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/pitabwire/util"

	"github.com/pitabwire/typedtext/config"
	"github.com/pitabwire/typedtext/importer"
	"github.com/pitabwire/typedtext/workerpool"
)

const (
	tintAttrCodeKeys        = 10
	tintAttrCodeProviders   = 12
	tintAttrCodeDiagnostics = 214
)

var errImportFailed = errors.New("one or more targets failed to import")

func cmdImport(ctx context.Context, cfg *config.ConfigurationDefault, stdout io.Writer, args []string) error {
	fs := flagSet("import")
	tasksFile := fs.String("tasks", cfg.TaskDeclarationFile(), "TOML file declaring targets and their imports")
	root := fs.String("root", cfg.ResourceDirectory(), "directory searched for resource files")
	outFile := fs.String("out", "", "manifest file, stdout when empty")
	formatName := fs.String("format", cfg.ManifestFormat(), "manifest format: yaml or json")
	var include stringList
	fs.Var(&include, "include", "glob restricting discovered files, repeatable")
	if err := fs.Parse(args); err != nil {
		return err
	}

	format, err := parseFormat(*formatName)
	if err != nil {
		return err
	}

	contexts, err := readTaskFile(*tasksFile)
	if err != nil {
		return err
	}

	files, err := importer.Discover(ctx, os.DirFS(*root), include...)
	if err != nil {
		return err
	}

	log := util.Log(ctx)
	log.WithField("root", *root).WithField("files", len(files)).
		WithField("targets", len(contexts)).Debug("starting import")
	if cfg.LoggingLevelIsDebug() {
		for _, file := range files {
			log.WithField("file", file.Path).Debug("discovered resource file")
		}
	}

	pool, err := workerpool.NewManager(ctx, cfg, workerpool.WithPoolPanicHandler(func(p any) {
		log.WithField("panic", p).Error("import job panicked")
	}))
	if err != nil {
		return err
	}
	defer func() {
		if shutdownErr := pool.Shutdown(ctx); shutdownErr != nil {
			log.WithError(shutdownErr).Warn("worker pool shutdown failed")
		}
	}()

	results, err := importer.RunAll(ctx, pool, contexts, files)
	if err != nil {
		return err
	}

	failed := false
	for _, res := range results {
		failed = logTargetResult(log, res) || failed
	}

	if writeErr := writeManifestTo(stdout, *outFile, format, buildManifest(results)); writeErr != nil {
		return writeErr
	}

	if failed {
		return errImportFailed
	}
	return nil
}

func readTaskFile(name string) ([]importer.TaskContext, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("could not open task file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return importer.DecodeTaskFile(f)
}

// logTargetResult reports one target and returns true when it failed.
func logTargetResult(log *util.LogEntry, res importer.TargetResult) bool {
	targetLog := log.WithField("target", res.Context.Target)

	if res.Err != nil {
		targetLog.WithError(res.Err).Error("target import failed")
		return true
	}
	if res.Result == nil {
		targetLog.Error("target import did not finish")
		return true
	}

	for _, diagnostic := range res.Result.Diagnostics {
		targetLog.Warn(diagnostic)
	}

	summary := targetLog.With(
		tint.Attr(tintAttrCodeKeys, slog.Any("keys", len(res.Result.Exported))),
		tint.Attr(tintAttrCodeProviders, slog.Any("providers", len(res.Result.Providers))),
		tint.Attr(tintAttrCodeDiagnostics, slog.Any("diagnostics", len(res.Result.Diagnostics))),
	)
	defer summary.Release()

	if !res.Result.Success {
		summary.Warn("target exported no text keys")
		return false
	}
	summary.Info("target imported")
	return false
}

func writeManifestTo(stdout io.Writer, outFile, format string, m manifest) error {
	if outFile == "" {
		return writeManifest(stdout, format, m)
	}

	f, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("could not create manifest file: %w", err)
	}

	if err = writeManifest(f, format, m); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
