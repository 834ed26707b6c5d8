package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pitabwire/typedtext/importer"
)

const (
	formatYAML = "yaml"
	formatJSON = "json"
)

var errUnknownFormat = errors.New("unknown manifest format")

type manifest struct {
	Targets []targetManifest `json:"targets" yaml:"targets"`
}

// targetManifest is one target's import outcome as written for downstream code
// generation.
type targetManifest struct {
	Name      string `json:"name"                yaml:"name"`
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Error     string `json:"error,omitempty"     yaml:"error,omitempty"`

	importer.RunResult `json:",inline" yaml:",inline"`
}

func buildManifest(results []importer.TargetResult) manifest {
	m := manifest{Targets: make([]targetManifest, 0, len(results))}
	for _, res := range results {
		tm := targetManifest{Name: res.Context.Target, Namespace: res.Context.Namespace}
		if res.Err != nil {
			tm.Error = res.Err.Error()
		}
		if res.Result != nil {
			tm.RunResult = *res.Result
		}
		m.Targets = append(m.Targets, tm)
	}
	return m
}

func parseFormat(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case formatYAML, "yml":
		return formatYAML, nil
	case formatJSON:
		return formatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", errUnknownFormat, name)
	}
}

func writeManifest(w io.Writer, format string, m manifest) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(m); err != nil {
			return fmt.Errorf("could not encode manifest: %w", err)
		}
		return nil
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return fmt.Errorf("could not encode manifest: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", errUnknownFormat, format)
	}
}
