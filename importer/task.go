// Package importer discovers resource files declared by import tasks, parses them
// into catalogs and merges the results into the artefacts consumed by code emission.
package importer

import (
	"fmt"
	"strings"
)

// ImportType selects how the files of a task reach the runtime.
type ImportType int

const (
	// CompileTimeStatic files are turned into static providers at build time.
	CompileTimeStatic ImportType = iota
	// RuntimeEmbedded files are shipped as resources and parsed when loaded.
	RuntimeEmbedded
)

func (t ImportType) String() string {
	switch t {
	case CompileTimeStatic:
		return "static"
	case RuntimeEmbedded:
		return "runtime"
	default:
		return fmt.Sprintf("ImportType(%d)", int(t))
	}
}

// MarshalText encodes the type by name.
func (t ImportType) MarshalText() ([]byte, error) {
	switch t {
	case CompileTimeStatic, RuntimeEmbedded:
		return []byte(t.String()), nil
	default:
		return nil, fmt.Errorf("unknown import type %d", int(t))
	}
}

// UnmarshalText accepts the names produced by MarshalText.
func (t *ImportType) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "static", "compile", "compiletimestatic":
		*t = CompileTimeStatic
	case "runtime", "embedded", "runtimeembedded":
		*t = RuntimeEmbedded
	default:
		return fmt.Errorf("unknown import type %q", string(text))
	}
	return nil
}

// ImportTask declares which files to import and how.
type ImportTask struct {
	Pattern   string     `json:"pattern"             toml:"pattern"   yaml:"pattern"`
	Namespace string     `json:"namespace,omitempty" toml:"namespace" yaml:"namespace,omitempty"`
	Type      ImportType `json:"type"                toml:"type"      yaml:"type"`
}

// TaskContext groups the import tasks declared by one target.
type TaskContext struct {
	Target    string       `json:"target"              toml:"name"      yaml:"target"`
	Namespace string       `json:"namespace,omitempty" toml:"namespace" yaml:"namespace,omitempty"`
	Tasks     []ImportTask `json:"tasks"               toml:"import"    yaml:"tasks"`
}
