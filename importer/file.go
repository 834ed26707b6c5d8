package importer

import (
	"io/fs"
	"path"
	"strings"
)

// CandidateFile is one resource file the pipeline may import. Content is read on
// demand.
type CandidateFile struct {
	Path    string
	content func() ([]byte, error)
}

// NewFile returns a candidate backed by in-memory content.
func NewFile(filePath string, content string) CandidateFile {
	return CandidateFile{
		Path: filePath,
		content: func() ([]byte, error) {
			return []byte(content), nil
		},
	}
}

// NewLazyFile returns a candidate whose content comes from read.
func NewLazyFile(filePath string, read func() ([]byte, error)) CandidateFile {
	return CandidateFile{Path: filePath, content: read}
}

// FSFile returns a candidate read from fsys when its content is first needed.
func FSFile(fsys fs.FS, filePath string) CandidateFile {
	return CandidateFile{
		Path: filePath,
		content: func() ([]byte, error) {
			return fs.ReadFile(fsys, filePath)
		},
	}
}

// Read returns the file content.
func (f CandidateFile) Read() ([]byte, error) {
	if f.content == nil {
		return nil, nil
	}
	return f.content()
}

// slashPath normalises path separators to '/'.
func slashPath(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// fileName returns the final element of a normalised path.
func fileName(p string) string {
	return path.Base(slashPath(p))
}

// fileStem returns the file name without its final extension.
func fileStem(p string) string {
	name := fileName(p)
	return strings.TrimSuffix(name, path.Ext(name))
}
