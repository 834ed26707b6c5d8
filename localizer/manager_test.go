package localizer_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/suite"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/pitabwire/typedtext/catalog"
	"github.com/pitabwire/typedtext/importer"
	"github.com/pitabwire/typedtext/localizer"
)

type ManagerSuite struct {
	suite.Suite
	locales *localizer.LocaleContext
	group   *localizer.Group
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerSuite))
}

func (s *ManagerSuite) SetupTest() {
	s.locales = localizer.NewLocaleContext(catalog.Invariant)
	s.group = localizer.NewGroup()
}

func (s *ManagerSuite) newManager(providers ...*localizer.Provider) *localizer.Manager {
	m := localizer.NewManager(context.Background(), providers,
		localizer.WithLocaleContext(s.locales),
		localizer.WithGroup(s.group))
	s.T().Cleanup(m.Close)
	return m
}

func (s *ManagerSuite) TestFallbackChain() {
	m := s.newManager(
		localizer.NewProvider("", catalog.Catalog{"k": "invariant"}),
		localizer.NewProvider("fr", catalog.Catalog{"other": "autre"}),
	)

	text, ok := m.Lookup("k", "fr", true)
	s.True(ok)
	s.Equal("invariant", text)

	_, ok = m.Lookup("k", "fr", false)
	s.False(ok)

	_, ok = m.TryResolve("k", localizer.InLocale("fr"), localizer.WithoutFallback())
	s.False(ok)

	s.Equal("autre", m.Resolve("other", localizer.InLocale("fr")))
	s.Equal("<missing>", m.Resolve("nothing", localizer.WithPlaceholder("<missing>")))
	s.Empty(m.Resolve("nothing"))
}

func (s *ManagerSuite) TestFirstProviderWins() {
	m := s.newManager(
		localizer.NewProvider("en", catalog.Catalog{"k": "first"}),
		localizer.NewProvider("en", catalog.Catalog{"k": "second", "only": "second"}),
	)

	s.Equal("first", m.Resolve("k", localizer.InLocale("en")))
	s.Equal("second", m.Resolve("only", localizer.InLocale("en")))
}

func (s *ManagerSuite) TestCacheIsInvalidatedByProviderChanges() {
	s.locales.Set("en")
	original := localizer.NewProvider("en", catalog.Catalog{"k": "old"})
	m := s.newManager(original)

	s.Equal("old", m.Resolve("k"))

	m.RemoveProvider(original)
	replacement := localizer.NewProvider("en", catalog.Catalog{"k": "new"})
	m.AddProvider(replacement)
	m.AddProvider(original)

	s.Equal("new", m.Resolve("k"))
}

func (s *ManagerSuite) TestAddedProviderReplacesFallbackValue() {
	s.locales.Set("en")
	m := s.newManager(localizer.NewProvider("", catalog.Catalog{"k": "base"}))

	s.Equal("base", m.Resolve("k"))

	m.AddProvider(localizer.NewProvider("en", catalog.Catalog{"k": "english"}))
	s.Equal("english", m.Resolve("k"))
}

func (s *ManagerSuite) TestRemovedProviderIsNoLongerServed() {
	p := localizer.NewProvider("", catalog.Catalog{"k": "v"})
	m := s.newManager(p)

	s.Equal("v", m.Resolve("k"))
	s.Equal([]string{""}, m.Locales())

	m.RemoveProvider(p)
	_, ok := m.TryResolve("k")
	s.False(ok)
	s.Empty(m.Locales())

	m.AddProvider(localizer.NewProvider("", catalog.Catalog{"other": "o"}))
	s.Equal("o", m.Resolve("other"))
}

func (s *ManagerSuite) TestCacheIsInvalidatedByLocaleChange() {
	m := s.newManager(
		localizer.NewProvider("en", catalog.Catalog{"k": "english"}),
		localizer.NewProvider("sw", catalog.Catalog{"k": "kiswahili"}),
	)

	s.locales.Set("en")
	s.Equal("english", m.Resolve("k"))

	s.locales.Set("sw")
	s.Equal("kiswahili", m.Resolve("k"))
	s.Equal("sw", m.DefaultLocale())

	m.SetDefaultLocale("en")
	s.Equal("english", m.Resolve("k"))
}

func (s *ManagerSuite) TestFallbackValueIsNotServedWithoutFallback() {
	s.locales.Set("fr")
	m := s.newManager(localizer.NewProvider("", catalog.Catalog{"k": "invariant"}))

	s.Equal("invariant", m.Resolve("k"))

	_, ok := m.TryResolve("k", localizer.WithoutFallback())
	s.False(ok)
}

func (s *ManagerSuite) TestIdempotentProviderChangesNotifyOnce() {
	m := s.newManager()
	h := m.TextHandle("k")

	var notified atomic.Int32
	h.Subscribe(func(*localizer.TextHandle) {
		notified.Add(1)
	})

	p := localizer.NewProvider("", catalog.Catalog{"k": "v"})
	s.True(m.AddProvider(p))
	s.False(m.AddProvider(p))
	s.Equal(int32(1), notified.Load())

	s.False(m.RemoveProvider(localizer.NewProvider("", catalog.Catalog{"k": "v"})))
	s.Equal(int32(1), notified.Load())

	s.True(m.RemoveProvider(p))
	s.Equal(int32(2), notified.Load())
}

func (s *ManagerSuite) TestTextHandles() {
	m := s.newManager(
		localizer.NewProvider("", catalog.Catalog{"hello": "Hello"}),
		localizer.NewProvider("zh-cn", catalog.Catalog{"hello": "你好"}),
	)

	h := m.TextHandle("hello")
	s.Same(h, m.TextHandle("hello"))
	s.NotSame(h, m.TextHandle("hello", localizer.WithoutFallback()))
	s.NotSame(h, m.TextHandle("hello", localizer.InLocale("")))

	s.Equal("hello", h.Key())
	_, bound := h.Locale()
	s.False(bound)
	s.True(h.FallbackToInvariant())
	s.False(h.Resolved())

	s.Equal("Hello", h.Text())
	s.True(h.Resolved())

	var seen []string
	unsubscribe := h.Subscribe(func(handle *localizer.TextHandle) {
		s.False(handle.Resolved())
		seen = append(seen, handle.Text())
	})

	s.locales.Set("zh-cn")
	s.Equal([]string{"你好"}, seen)
	s.Equal("你好", h.Text())

	unsubscribe()
	s.locales.Set("")
	s.Len(seen, 1)
	s.Equal("Hello", h.Text())

	bound2 := m.TextHandle("hello", localizer.InLocale("zh-cn"))
	locale, isBound := bound2.Locale()
	s.True(isBound)
	s.Equal("zh-cn", locale)
	s.Equal("你好", bound2.Text())

	missing := m.TextHandle("absent")
	_, found := missing.Value()
	s.False(found)
	s.Empty(missing.Text())
}

func (s *ManagerSuite) TestEndToEndWithImportedProviders() {
	result, err := importer.Run(context.Background(),
		[]importer.ImportTask{{Pattern: "lang.json", Type: importer.CompileTimeStatic}},
		[]importer.CandidateFile{
			importer.NewFile("lang.json", `{"hello":"Hello"}`),
			importer.NewFile("lang.zh-cn.json", `{"hello":"你好"}`),
		})
	s.Require().NoError(err)
	s.Equal([]string{"hello"}, result.Keys())
	s.Require().Len(result.Providers, 2)

	providers := make([]*localizer.Provider, 0, len(result.Providers))
	for _, sp := range result.Providers {
		providers = append(providers, localizer.FromStatic(sp))
	}

	s.locales.Set("zh-cn")
	m := s.newManager(providers...)
	s.Equal("你好", m.Resolve("hello"))

	s.locales.Set("en")
	s.Equal("Hello", m.Resolve("hello"))
}

func (s *ManagerSuite) TestCloseStopsFollowingLocale() {
	m := localizer.NewManager(context.Background(),
		[]*localizer.Provider{localizer.NewProvider("en", catalog.Catalog{"k": "v"})},
		localizer.WithLocaleContext(s.locales),
		localizer.WithGroup(s.group))

	h := m.TextHandle("k")
	var notified atomic.Int32
	h.Subscribe(func(*localizer.TextHandle) { notified.Add(1) })

	s.Len(s.group.Managers(), 1)
	m.Close()
	m.Close()
	s.Empty(s.group.Managers())

	s.locales.Set("en")
	s.Equal(int32(0), notified.Load())
	s.Equal("v", m.Resolve("k"))
}

func (s *ManagerSuite) TestConcurrentUse() {
	s.locales.Set("en")
	m := s.newManager(localizer.NewProvider("en", catalog.Catalog{"k": "v"}))

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				p := localizer.NewProvider("", catalog.Catalog{"k": "fallback"})
				m.AddProvider(p)
				s.Equal("v", m.Resolve("k"))
				_ = m.TextHandle("k").Text()
				m.RemoveProvider(p)
				if i%2 == 0 {
					_, _ = m.TryResolve("k", localizer.InLocale("fr"))
				}
			}
		}()
	}
	wg.Wait()

	s.Equal("v", m.TextHandle("k").Text())
}

func (s *ManagerSuite) TestResolutionCounters() {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	s.locales.Set("en")
	m := localizer.NewManager(context.Background(),
		[]*localizer.Provider{localizer.NewProvider("en", catalog.Catalog{"k": "v"})},
		localizer.WithLocaleContext(s.locales),
		localizer.WithGroup(nil),
		localizer.WithMeterProvider(mp))
	defer m.Close()

	m.Resolve("k")
	m.Resolve("k")
	m.Resolve("missing")

	var rm metricdata.ResourceMetrics
	s.Require().NoError(reader.Collect(context.Background(), &rm))

	totals := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, metric := range sm.Metrics {
			if sum, ok := metric.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					totals[metric.Name] += dp.Value
				}
			}
		}
	}

	s.Equal(int64(2), totals["typedtext/localizer/resolve_hits"])
	s.Equal(int64(1), totals["typedtext/localizer/cache_hits"])
	s.Equal(int64(1), totals["typedtext/localizer/resolve_misses"])
}
