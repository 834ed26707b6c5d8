package importer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/pitabwire/typedtext/catalog"
	"github.com/pitabwire/typedtext/importer"
)

type PipelineSuite struct {
	suite.Suite
}

func TestPipelineSuite(t *testing.T) {
	suite.Run(t, new(PipelineSuite))
}

func (s *PipelineSuite) TestEndToEndStaticImport() {
	tasks := []importer.ImportTask{{Pattern: "lang.json", Type: importer.CompileTimeStatic}}
	input := []importer.CandidateFile{
		importer.NewFile("lang.json", `{"hello":"Hello"}`),
		importer.NewFile("lang.zh-cn.json", `{"hello":"你好"}`),
	}

	result, err := importer.Run(context.Background(), tasks, input)
	s.Require().NoError(err)
	s.True(result.Success)
	s.Equal([]string{"hello"}, result.Keys())
	s.Empty(result.Diagnostics)
	s.Require().Len(result.Providers, 2)

	s.Equal("", result.Providers[0].Locale)
	s.Equal(catalog.Catalog{"hello": "Hello"}, result.Providers[0].Catalog)
	s.Equal("zh-cn", result.Providers[1].Locale)
	s.Equal(catalog.Catalog{"hello": "你好"}, result.Providers[1].Catalog)

	s.NotEqual(result.Providers[0].GeneratedName, result.Providers[1].GeneratedName)
	s.Regexp(`^LangProvider_\d+$`, result.Providers[0].GeneratedName)
	s.Regexp(`^LangProvider_\d+$`, result.Providers[1].GeneratedName)
}

func (s *PipelineSuite) TestFirstWriterWins() {
	tasks := []importer.ImportTask{
		{Pattern: "a/strings.json"},
		{Pattern: "b/strings.json"},
	}
	input := []importer.CandidateFile{
		importer.NewFile("b/strings.json", `{"greeting":"from B","only_b":"B"}`),
		importer.NewFile("a/strings.json", `{"greeting":"from A"}`),
	}

	result, err := importer.Run(context.Background(), tasks, input)
	s.Require().NoError(err)
	s.Equal(map[string]string{"greeting": "from A", "only_b": "B"}, result.Exported)
}

func (s *PipelineSuite) TestParseFailureIsADiagnostic() {
	tasks := []importer.ImportTask{{Pattern: "lang.json"}}
	input := []importer.CandidateFile{
		importer.NewFile("lang.json", `not a catalog`),
		importer.NewFile("lang.fr.json", ``),
		importer.NewFile("lang.de.json", `{"hello":"Hallo"}`),
		importer.NewFile("lang..json", `{"skipped":"trailing dot"}`),
		importer.NewFile("lang.x.json", `{"skipped":"bad locale"}`),
	}

	result, err := importer.Run(context.Background(), tasks, input)
	s.Require().NoError(err)
	s.True(result.Success)
	s.Equal([]string{"hello"}, result.Keys())
	s.Require().Len(result.Diagnostics, 2)
	s.Contains(result.Diagnostics[0], "lang.json")
	s.Contains(result.Diagnostics[1], "lang.fr.json")
	s.Require().Len(result.Providers, 1)
	s.Equal("de", result.Providers[0].Locale)
}

func (s *PipelineSuite) TestUnreadableFileIsADiagnostic() {
	result, err := importer.Run(context.Background(),
		[]importer.ImportTask{{Pattern: "lang.json"}},
		[]importer.CandidateFile{{Path: "lang.json"}})
	s.Require().NoError(err)
	s.False(result.Success)
	s.Len(result.Diagnostics, 1)
}

func (s *PipelineSuite) TestNoExportsIsNotSuccess() {
	result, err := importer.Run(context.Background(),
		[]importer.ImportTask{{Pattern: "missing.json"}},
		[]importer.CandidateFile{importer.NewFile("lang.json", `{"a":"b"}`)})
	s.Require().NoError(err)
	s.NotNil(result)
	s.False(result.Success)
	s.Empty(result.Providers)
}

func (s *PipelineSuite) TestDuplicateProvidersCollapse() {
	tasks := []importer.ImportTask{
		{Pattern: "res/lang.json"},
		{Pattern: "lang.json"},
	}
	input := []importer.CandidateFile{importer.NewFile("res/lang.json", `{"a":"b"}`)}

	result, err := importer.Run(context.Background(), tasks, input)
	s.Require().NoError(err)
	s.Len(result.Providers, 1)
}

func (s *PipelineSuite) TestRuntimeSources() {
	tasks := []importer.ImportTask{
		{Pattern: "lang.json", Namespace: "app.texts", Type: importer.RuntimeEmbedded},
	}
	input := []importer.CandidateFile{
		importer.NewFile("lang.json", `{"a":"A"}`),
		importer.NewFile("lang.sw.json", `{"a":"Swahili A"}`),
	}

	result, err := importer.Run(context.Background(), tasks, input)
	s.Require().NoError(err)
	s.Empty(result.Providers)
	s.Equal([]importer.RuntimeSource{
		{Path: "lang.json", Namespace: "app.texts", Locale: ""},
		{Path: "lang.sw.json", Namespace: "app.texts", Locale: "sw"},
	}, result.RuntimeSources)
	s.Equal(map[string]string{"a": "A"}, result.Exported)
}

func (s *PipelineSuite) TestCancelledRunHasNoResult() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := importer.Run(ctx,
		[]importer.ImportTask{{Pattern: "lang.json"}},
		[]importer.CandidateFile{importer.NewFile("lang.json", `{"a":"b"}`)})
	s.Nil(result)
	s.True(errors.Is(err, importer.ErrCancelled))
	s.True(errors.Is(err, context.Canceled))
}

func (s *PipelineSuite) TestCancelledMidRun() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reads := 0
	input := []importer.CandidateFile{
		importer.NewLazyFile("lang.json", func() ([]byte, error) {
			reads++
			cancel()
			return []byte(`{"a":"b"}`), nil
		}),
		importer.NewLazyFile("lang.fr.json", func() ([]byte, error) {
			reads++
			return []byte(`{"a":"c"}`), nil
		}),
	}

	result, err := importer.Run(ctx, []importer.ImportTask{{Pattern: "lang.json"}}, input)
	s.Nil(result)
	s.ErrorIs(err, importer.ErrCancelled)
	s.Equal(1, reads)
}
