package importer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
)

var ErrMissingPattern = errors.New("import task has no pattern")

type taskFile struct {
	Targets []TaskContext `toml:"target"`
}

// DecodeTaskFile reads target declarations from TOML:
//
//	[[target]]
//	name = "Strings"
//	namespace = "app"
//
//	[[target.import]]
//	pattern = "Assets/lang.json"
//	type = "static"
func DecodeTaskFile(r io.Reader) ([]TaskContext, error) {
	var tf taskFile
	if _, err := toml.NewDecoder(r).Decode(&tf); err != nil {
		return nil, fmt.Errorf("decode task file: %w", err)
	}

	for i, tc := range tf.Targets {
		for j, task := range tc.Tasks {
			if strings.TrimSpace(task.Pattern) == "" {
				return nil, fmt.Errorf("target %q task %d: %w", tc.Target, j, ErrMissingPattern)
			}
			if task.Namespace == "" {
				tf.Targets[i].Tasks[j].Namespace = tc.Namespace
			}
		}
	}

	return tf.Targets, nil
}
