// Package pwned checks passwords against the "have I been pwned" range
// API. Only the first five characters of the password's SHA-1 digest
// leave the process; the suffix is compared locally.
package pwned

import (
	"bufio"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"pwmeter/internal/cache"
	"pwmeter/internal/common"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultBaseUrl  = "https://api.pwnedpasswords.com"
	DefaultCacheTtl = 24 * time.Hour

	cacheKeyPrefix = "pwmeter:pwned:range:"
	prefixLength   = 5
	maxRangeSize   = 4 << 20
)

var (
	ErrUnexpectedStatus = errors.New("unexpected_status")
	ErrMalformedRange   = errors.New("malformed_range")
)

type NewClientOpts struct {
	// BaseUrl is where the range API is served, defaults to
	// DefaultBaseUrl
	BaseUrl string

	// Cache, when set, stores range responses for CacheTtl
	Cache    cache.Cache
	CacheTtl time.Duration

	HttpClient *http.Client

	// Id will be included in the user-agent for identification
	Id string

	ServiceLogs chan<- common.ServiceLog
}

type Client struct {
	BaseUrl     *url.URL
	Cache       cache.Cache
	CacheTtl    time.Duration
	HttpClient  *http.Client
	Id          string
	ServiceLogs chan<- common.ServiceLog
}

func NewClient(opts NewClientOpts) (*Client, error) {
	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = DefaultBaseUrl
	}
	parsedUrl, err := url.Parse(baseUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to parse provided baseUrl[%s]: %w", baseUrl, err)
	}
	if parsedUrl.Scheme == "" {
		return nil, fmt.Errorf("failed to determine url scheme of baseUrl[%s]", baseUrl)
	}
	client := &Client{
		BaseUrl:     parsedUrl,
		Cache:       opts.Cache,
		CacheTtl:    opts.CacheTtl,
		HttpClient:  opts.HttpClient,
		Id:          opts.Id,
		ServiceLogs: opts.ServiceLogs,
	}
	if client.CacheTtl == 0 {
		client.CacheTtl = DefaultCacheTtl
	}
	if client.HttpClient == nil {
		client.HttpClient = &http.Client{Timeout: common.DefaultDurationConnectionTimeout}
	}
	if client.Id == "" {
		client.Id = uuid.New().String()
	}
	if client.ServiceLogs == nil {
		client.ServiceLogs = common.GetNoopServiceLog()
	}
	return client, nil
}

// CheckPassword returns the number of times `password` appears in the
// breach corpus, 0 when it has not been seen
func (c *Client) CheckPassword(ctx context.Context, password string) (int, error) {
	if password == "" {
		return 0, nil
	}
	digest := sha1.Sum([]byte(password))
	hash := strings.ToUpper(hex.EncodeToString(digest[:]))
	prefix, suffix := hash[:prefixLength], hash[prefixLength:]

	body, err := c.getRange(ctx, prefix)
	if err != nil {
		return 0, err
	}
	count, err := findSuffix(body, suffix)
	if err != nil {
		return 0, fmt.Errorf("failed to parse range[%s]: %w", prefix, err)
	}
	return count, nil
}

func (c *Client) getRange(ctx context.Context, prefix string) (string, error) {
	cacheKey := cacheKeyPrefix + prefix
	if c.Cache != nil {
		body, err := c.Cache.Get(cacheKey)
		if err == nil {
			common.PwnedLookupsCounter.WithLabelValues("cache").Inc()
			return body, nil
		} else if !errors.Is(err, cache.ErrNotFound) {
			c.ServiceLogs <- common.ServiceLogf(common.LogLevelWarn, "failed to read range[%s] from cache: %s", prefix, err)
		}
	}

	rangeUrl := *c.BaseUrl
	rangeUrl.Path = path.Join(rangeUrl.Path, "range", prefix)
	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodGet, rangeUrl.String(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create http request for range[%s]: %w", prefix, err)
	}
	httpRequest.Header.Add("Add-Padding", "true")
	httpRequest.Header.Add("User-Agent", fmt.Sprintf("%s/pwned/client-%s", common.AppName, c.Id))
	httpResponse, err := c.HttpClient.Do(httpRequest)
	if err != nil {
		return "", fmt.Errorf("failed to execute http request for range[%s]: %w", prefix, err)
	}
	defer httpResponse.Body.Close()
	responseBody, err := io.ReadAll(io.LimitReader(httpResponse.Body, maxRangeSize))
	if err != nil {
		return "", fmt.Errorf("failed to read response body for range[%s]: %w", prefix, err)
	}
	if httpResponse.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to receive a successful response for range[%s] (status code: %v): %w", prefix, httpResponse.StatusCode, ErrUnexpectedStatus)
	}
	common.PwnedLookupsCounter.WithLabelValues("remote").Inc()
	body := string(responseBody)
	c.ServiceLogs <- common.ServiceLogf(common.LogLevelDebug, "fetched range[%s] (%v bytes)", prefix, len(body))

	if c.Cache != nil {
		if err := c.Cache.Set(cacheKey, body, c.CacheTtl); err != nil {
			c.ServiceLogs <- common.ServiceLogf(common.LogLevelWarn, "failed to cache range[%s]: %s", prefix, err)
		}
	}
	return body, nil
}

// findSuffix scans a range response of `SUFFIX:COUNT` lines; padding
// rows carry a count of 0 and are indistinguishable from misses
func findSuffix(body, suffix string) (int, error) {
	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lineSuffix, lineCount, ok := strings.Cut(line, ":")
		if !ok {
			return 0, fmt.Errorf("%w: line without a count", ErrMalformedRange)
		}
		if !strings.EqualFold(lineSuffix, suffix) {
			continue
		}
		count, err := strconv.Atoi(lineCount)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrMalformedRange, err)
		}
		return count, nil
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	return 0, nil
}
