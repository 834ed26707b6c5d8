package version //nolint:revive // package name intentionally matches build-info convention

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type VersionSuite struct {
	suite.Suite
}

func TestVersionSuite(t *testing.T) {
	suite.Run(t, new(VersionSuite))
}

func (s *VersionSuite) TestLinkerValuesWin() {
	defer func(r, v, c, d string) {
		Repository, Version, Commit, Date = r, v, c, d
	}(Repository, Version, Commit, Date)

	Repository, Version, Commit, Date = "github.com/pitabwire/typedtext", "v1.2.3", "abc123", "2026-01-02"

	s.Equal("github.com/pitabwire/typedtext v1.2.3 (commit abc123, built 2026-01-02)", String())
}

func (s *VersionSuite) TestNeverEmpty() {
	defer func(v string) { Version = v }(Version)
	Version = ""

	s.NotEmpty(String())
}
