package scorer

import (
	"context"
	"fmt"
	"pwmeter/internal/common"
	"pwmeter/internal/scorer/bundles"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultLanguage = "en"

	// MatcherPwned is the name the breach-check matcher is registered as
	MatcherPwned = "pwned"

	configureKey = "configure"
)

type NewLoaderOpts struct {
	// Source is where bundles are fetched from on first use
	Source bundles.Source

	// Language selects the language bundle, defaults to DefaultLanguage
	Language string

	// Options is the configuration the loader writes to, defaults to
	// DefaultOptions
	Options *Options

	// PwnedFactory, when set, builds the breach-check matcher that is
	// registered as MatcherPwned
	PwnedFactory MatcherFactory

	ServiceLogs chan<- common.ServiceLog
}

// Loader configures an Options instance on first use and scores
// passwords with it
type Loader struct {
	engine       *Engine
	language     string
	options      *Options
	pwnedFactory MatcherFactory
	serviceLogs  chan<- common.ServiceLog
	source       bundles.Source
}

func NewLoader(opts NewLoaderOpts) (*Loader, error) {
	if opts.Source == nil {
		return nil, ErrSourceMissing
	}
	loader := &Loader{
		language:     opts.Language,
		options:      opts.Options,
		pwnedFactory: opts.PwnedFactory,
		serviceLogs:  opts.ServiceLogs,
		source:       opts.Source,
	}
	if loader.language == "" {
		loader.language = DefaultLanguage
	}
	if loader.options == nil {
		loader.options = DefaultOptions
	}
	if loader.serviceLogs == nil {
		loader.serviceLogs = common.GetNoopServiceLog()
	}
	loader.engine = NewEngine(loader.options)
	return loader, nil
}

// LoadAndScore configures the scorer if this is the first call and scores
// `password`. `contextTokens` are values personal to the user that the
// password should not contain
func (l *Loader) LoadAndScore(ctx context.Context, password string, contextTokens []string) (*Result, error) {
	start := time.Now()
	result, err := l.loadAndScore(ctx, password, contextTokens)
	common.ScoreDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		common.ScoreCounter.WithLabelValues("error").Inc()
		return nil, err
	}
	common.ScoreCounter.WithLabelValues("ok").Inc()
	return result, nil
}

func (l *Loader) loadAndScore(ctx context.Context, password string, contextTokens []string) (*Result, error) {
	if err := l.configure(ctx); err != nil {
		return nil, fmt.Errorf("failed to configure scorer: %w", err)
	}
	result, err := l.engine.Score(ctx, password, contextTokens)
	if err != nil {
		return nil, fmt.Errorf("failed to score password: %w", err)
	}
	return result, nil
}

// Preload configures the scorer without scoring anything
func (l *Loader) Preload(ctx context.Context) error {
	if err := l.configure(ctx); err != nil {
		return fmt.Errorf("failed to configure scorer: %w", err)
	}
	return nil
}

// GetOptions returns the options this loader configures
func (l *Loader) GetOptions() *Options {
	return l.options
}

// configure runs the one-time configuration of the loader's Options;
// concurrent callers share a single in-flight attempt, including callers
// of other loaders built on the same Options, and a failed attempt is
// retried by the next caller. The attempt itself is detached from `ctx`
// so a caller giving up does not throw away bundles that are already
// being fetched
func (l *Loader) configure(ctx context.Context) error {
	if l.options.IsConfigured() {
		return nil
	}
	results := l.options.configureGroup.DoChan(configureKey, func() (any, error) {
		if l.options.IsConfigured() {
			return nil, nil
		}
		if err := l.fetchAndConfigure(context.WithoutCancel(ctx)); err != nil {
			l.serviceLogs <- common.ServiceLogf(common.LogLevelWarn, "scorer configuration failed: %s", err)
			return nil, err
		}
		return nil, nil
	})
	select {
	case <-ctx.Done():
		return ctx.Err()
	case result := <-results:
		return result.Err
	}
}

func (l *Loader) fetchAndConfigure(ctx context.Context) error {
	start := time.Now()
	l.serviceLogs <- common.ServiceLogf(common.LogLevelDebug, "loading scorer bundles for language[%s]...", l.language)

	var commonBundle *bundles.Common
	var languageBundle *bundles.Language
	var pwnedMatcher Matcher
	fetchers, fetchersContext := errgroup.WithContext(ctx)
	fetchers.Go(func() error {
		bundle, err := bundles.LoadCommon(fetchersContext, l.source)
		commonBundle = bundle
		return err
	})
	fetchers.Go(func() error {
		bundle, err := bundles.LoadLanguage(fetchersContext, l.source, l.language)
		languageBundle = bundle
		return err
	})
	fetchers.Go(func() error {
		if l.pwnedFactory != nil && !l.options.HasMatcher(MatcherPwned) {
			pwnedMatcher = l.pwnedFactory(l.options)
		}
		return nil
	})
	if err := fetchers.Wait(); err != nil {
		return err
	}

	if pwnedMatcher != nil && !l.options.HasMatcher(MatcherPwned) {
		l.options.AddMatcher(MatcherPwned, pwnedMatcher)
		l.serviceLogs <- common.ServiceLogf(common.LogLevelDebug, "registered matcher[%s]", MatcherPwned)
	}

	translations, err := NewTranslations(languageBundle.Language, languageBundle.Translations)
	if err != nil {
		return fmt.Errorf("failed to load translations: %w", err)
	}
	dictionary := MergeDictionaries(commonBundle.Dictionary, languageBundle.Dictionary)
	l.options.SetOptions(OptionsConfig{
		Dictionary:   dictionary,
		Graphs:       commonBundle.AdjacencyGraphs,
		Translations: translations,
	})
	l.serviceLogs <- common.ServiceLogf(
		common.LogLevelInfo,
		"scorer configured with %v dictionaries and %v graphs in %v",
		len(dictionary),
		len(commonBundle.AdjacencyGraphs),
		time.Since(start),
	)
	return nil
}
