package config

import (
	"errors"
	"fmt"
	"net/http"
	"pwmeter/internal/cache"
	"pwmeter/internal/common"
	"pwmeter/internal/pwned"
	"pwmeter/internal/scorer"
	"pwmeter/internal/scorer/bundles"

	"github.com/spf13/viper"
)

var ErrUnknownCacheBackend = errors.New("unknown_cache_backend")

type NewScorerOpts struct {
	// Options is passed through to the loader, defaults to the
	// process-wide options
	Options *scorer.Options

	ServiceLogs chan<- common.ServiceLog
}

// NewScorer builds the scorer loader from the flags in GetScorerFlags,
// GetPwnedFlags and GetCacheFlags. The returned function releases any
// connection opened for the cache
func NewScorer(opts NewScorerOpts) (*scorer.Loader, func() error, error) {
	closer := func() error { return nil }

	var source bundles.Source = bundles.NewEmbeddedSource()
	if bundleUrl := viper.GetString(BundleUrl); bundleUrl != "" {
		httpSource, err := bundles.NewHttpSource(bundles.NewHttpSourceOpts{
			BaseUrl:     bundleUrl,
			ServiceLogs: opts.ServiceLogs,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create bundle source: %w", err)
		}
		source = httpSource
	}

	var pwnedFactory scorer.MatcherFactory
	if viper.GetBool(PwnedEnabled) {
		rangeCache, cacheCloser, err := NewCache(opts.ServiceLogs)
		if err != nil {
			return nil, nil, err
		}
		closer = cacheCloser
		client, err := pwned.NewClient(pwned.NewClientOpts{
			BaseUrl:     viper.GetString(PwnedUrl),
			Cache:       rangeCache,
			CacheTtl:    viper.GetDuration(PwnedCacheTtl),
			HttpClient:  &http.Client{Timeout: viper.GetDuration(PwnedTimeout)},
			ServiceLogs: opts.ServiceLogs,
		})
		if err != nil {
			closer()
			return nil, nil, fmt.Errorf("failed to create breach client: %w", err)
		}
		pwnedFactory = pwned.NewMatcherFactory(client)
	}

	loader, err := scorer.NewLoader(scorer.NewLoaderOpts{
		Source:       source,
		Language:     viper.GetString(Language),
		Options:      opts.Options,
		PwnedFactory: pwnedFactory,
		ServiceLogs:  opts.ServiceLogs,
	})
	if err != nil {
		closer()
		return nil, nil, fmt.Errorf("failed to create scorer: %w", err)
	}
	return loader, closer, nil
}

// NewCache returns the cache selected by the cache-backend flag, nil when
// caching is disabled
func NewCache(serviceLogs chan<- common.ServiceLog) (cache.Cache, func() error, error) {
	noop := func() error { return nil }
	switch backend := viper.GetString(CacheBackend); backend {
	case CacheBackendNone:
		return nil, noop, nil
	case CacheBackendMemory, "":
		return cache.NewMemory(), noop, nil
	case CacheBackendRedis:
		redisCache, err := cache.NewRedis(cache.NewRedisOpts{
			Addr:        viper.GetString(RedisAddr),
			Username:    viper.GetString(RedisUsername),
			Password:    viper.GetString(RedisPassword),
			DB:          viper.GetInt(RedisDb),
			ServiceLogs: serviceLogs,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialise cache: %w", err)
		}
		return redisCache, redisCache.Close, nil
	default:
		return nil, nil, fmt.Errorf("cache backend[%s]: %w", backend, ErrUnknownCacheBackend)
	}
}
