package scorer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"pwmeter/internal/scorer/bundles"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCommonBundle = `
dictionary:
  passwords: [hunter2, letmein]
  words: [alpha]
adjacencyGraphs:
  qwerty:
    q: [null, "wW"]
`

const testLanguageBundle = `
language: en
dictionary:
  words: [beta]
translations:
  warnings:
    topTen: top ten
  suggestions:
    anotherWord: add another word
`

// countingSource counts fetches per bundle and can be told to fail or
// block
type countingSource struct {
	source  bundles.Source
	fetches sync.Map
	failing atomic.Bool
	release chan struct{}
}

func newCountingSource() *countingSource {
	return &countingSource{
		source: &bundles.FsSource{FS: fstest.MapFS{
			"common.yaml": {Data: []byte(testCommonBundle)},
			"en.yaml":     {Data: []byte(testLanguageBundle)},
		}},
	}
}

func (s *countingSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	counter, _ := s.fetches.LoadOrStore(name, new(atomic.Int32))
	counter.(*atomic.Int32).Add(1)
	if s.release != nil {
		<-s.release
	}
	if s.failing.Load() {
		return nil, errors.New("network unreachable")
	}
	return s.source.Fetch(ctx, name)
}

func (s *countingSource) count(name string) int {
	counter, ok := s.fetches.Load(name)
	if !ok {
		return 0
	}
	return int(counter.(*atomic.Int32).Load())
}

func newTestLoader(t *testing.T, source bundles.Source, factory MatcherFactory) *Loader {
	loader, err := NewLoader(NewLoaderOpts{
		Source:       source,
		Options:      NewOptions(),
		PwnedFactory: factory,
	})
	require.NoError(t, err)
	loader.engine.estimate = fixedEstimator(4)
	return loader
}

func TestNewLoaderRequiresSource(t *testing.T) {
	_, err := NewLoader(NewLoaderOpts{})
	assert.ErrorIs(t, err, ErrSourceMissing)
}

func TestLoaderConfiguresOnFirstUse(t *testing.T) {
	source := newCountingSource()
	loader := newTestLoader(t, source, nil)
	assert.False(t, loader.GetOptions().IsConfigured())
	assert.Equal(t, 0, source.count(bundles.NameCommon))

	result, err := loader.LoadAndScore(context.Background(), "hunter2", []string{"alice", "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, "top ten", result.Feedback.Warning)
	assert.True(t, loader.GetOptions().IsConfigured())

	_, err = loader.LoadAndScore(context.Background(), "letmein", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, source.count(bundles.NameCommon))
	assert.Equal(t, 1, source.count("en"))
}

func TestLoaderConfiguresOnceUnderConcurrentCalls(t *testing.T) {
	source := newCountingSource()
	source.release = make(chan struct{})
	loader := newTestLoader(t, source, nil)

	var waiter sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		waiter.Add(1)
		go func() {
			defer waiter.Done()
			_, err := loader.LoadAndScore(context.Background(), "hunter2", nil)
			errs <- err
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(source.release)
	waiter.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 1, source.count(bundles.NameCommon))
	assert.Equal(t, 1, source.count("en"))
}

func TestLoaderRetriesFailedConfiguration(t *testing.T) {
	source := newCountingSource()
	source.failing.Store(true)
	loader := newTestLoader(t, source, nil)

	_, err := loader.LoadAndScore(context.Background(), "hunter2", nil)
	require.Error(t, err)
	assert.False(t, loader.GetOptions().IsConfigured())

	source.failing.Store(false)
	_, err = loader.LoadAndScore(context.Background(), "hunter2", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, source.count(bundles.NameCommon))
}

func TestLoaderConfigurationSurvivesCancelledCaller(t *testing.T) {
	source := newCountingSource()
	source.release = make(chan struct{})
	loader := newTestLoader(t, source, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := loader.LoadAndScore(ctx, "hunter2", nil)
	assert.ErrorIs(t, err, context.Canceled)

	close(source.release)
	require.Eventually(t, loader.GetOptions().IsConfigured, time.Second, 5*time.Millisecond)
	_, err = loader.LoadAndScore(context.Background(), "hunter2", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, source.count(bundles.NameCommon))
}

func TestLoaderRegistersPwnedMatcherOnce(t *testing.T) {
	var factoryCalls atomic.Int32
	factory := func(options *Options) Matcher {
		factoryCalls.Add(1)
		return MatcherFunc(func(ctx context.Context, password string) ([]Match, error) {
			return []Match{{Pattern: PatternPwned, I: 0, J: len(password) - 1, Token: password, Count: 1}}, nil
		})
	}
	options := NewOptions()
	first, err := NewLoader(NewLoaderOpts{Source: newCountingSource(), Options: options, PwnedFactory: factory})
	require.NoError(t, err)
	second, err := NewLoader(NewLoaderOpts{Source: newCountingSource(), Options: options, PwnedFactory: factory})
	require.NoError(t, err)

	require.NoError(t, first.Preload(context.Background()))
	require.NoError(t, second.Preload(context.Background()))
	assert.True(t, options.HasMatcher(MatcherPwned))

	first.engine.estimate = fixedEstimator(4)
	result, err := first.LoadAndScore(context.Background(), "z8#Lm!pq0vT", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, int32(1), factoryCalls.Load())
}

func TestLoaderKeepsExistingPwnedMatcher(t *testing.T) {
	options := NewOptions()
	existing := MatcherFunc(func(ctx context.Context, password string) ([]Match, error) { return nil, nil })
	options.AddMatcher(MatcherPwned, existing)

	replaced := false
	loader, err := NewLoader(NewLoaderOpts{
		Source:  newCountingSource(),
		Options: options,
		PwnedFactory: func(options *Options) Matcher {
			return MatcherFunc(func(ctx context.Context, password string) ([]Match, error) {
				replaced = true
				return nil, nil
			})
		},
	})
	require.NoError(t, err)
	loader.engine.estimate = fixedEstimator(4)
	_, err = loader.LoadAndScore(context.Background(), "z8#Lm!pq0vT", nil)
	require.NoError(t, err)
	assert.False(t, replaced)
}

func TestLoaderLanguageDictionaryOverridesCommon(t *testing.T) {
	loader := newTestLoader(t, newCountingSource(), nil)
	require.NoError(t, loader.Preload(context.Background()))

	options := loader.GetOptions()
	assert.Equal(t, 1, options.GetRank("words", "beta"))
	assert.Equal(t, 0, options.GetRank("words", "alpha"))
	assert.Equal(t, 1, options.GetRank("passwords", "hunter2"))
	assert.Equal(t, []string{"passwords", "words"}, options.GetDictionaryNames())
	assert.Equal(t, "en", options.GetTranslations().Language())
}

func TestLoaderMissingLanguage(t *testing.T) {
	loader, err := NewLoader(NewLoaderOpts{
		Source:   newCountingSource(),
		Options:  NewOptions(),
		Language: "xx",
	})
	require.NoError(t, err)
	_, err = loader.LoadAndScore(context.Background(), "hunter2", nil)
	assert.ErrorIs(t, err, bundles.ErrNotFound)
}

func TestLoadersSharingOptionsConfigureOnce(t *testing.T) {
	options := NewOptions()
	source := newCountingSource()
	source.release = make(chan struct{})
	first, err := NewLoader(NewLoaderOpts{Source: source, Options: options})
	require.NoError(t, err)
	second, err := NewLoader(NewLoaderOpts{Source: source, Options: options})
	require.NoError(t, err)

	var waiter sync.WaitGroup
	errs := make(chan error, 2)
	for _, loader := range []*Loader{first, second} {
		waiter.Add(1)
		go func(loader *Loader) {
			defer waiter.Done()
			errs <- loader.Preload(context.Background())
		}(loader)
	}
	time.Sleep(20 * time.Millisecond)
	close(source.release)
	waiter.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 1, source.count(bundles.NameCommon))

	late := newCountingSource()
	third, err := NewLoader(NewLoaderOpts{Source: late, Options: options})
	require.NoError(t, err)
	require.NoError(t, third.Preload(context.Background()))
	assert.Equal(t, 0, late.count(bundles.NameCommon))
}
