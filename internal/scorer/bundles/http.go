package bundles

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"pwmeter/internal/common"
)

const maxBundleSize = 16 << 20

type NewHttpSourceOpts struct {
	// BaseUrl is the URL bundles are served under, bundle `en` is
	// fetched from `<BaseUrl>/en.yaml`
	BaseUrl string

	HttpClient  *http.Client
	ServiceLogs chan<- common.ServiceLog
}

// HttpSource fetches bundles from a static file server
type HttpSource struct {
	BaseUrl     *url.URL
	HttpClient  *http.Client
	ServiceLogs chan<- common.ServiceLog
}

func NewHttpSource(opts NewHttpSourceOpts) (*HttpSource, error) {
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to parse provided baseUrl[%s]: %w", opts.BaseUrl, err)
	}
	if baseUrl.Scheme == "" {
		return nil, fmt.Errorf("failed to determine url scheme of baseUrl[%s]", opts.BaseUrl)
	}
	source := &HttpSource{
		BaseUrl:     baseUrl,
		HttpClient:  opts.HttpClient,
		ServiceLogs: opts.ServiceLogs,
	}
	if source.HttpClient == nil {
		source.HttpClient = &http.Client{Timeout: common.DefaultDurationConnectionTimeout}
	}
	if source.ServiceLogs == nil {
		source.ServiceLogs = common.GetNoopServiceLog()
	}
	return source, nil
}

func (s *HttpSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	bundleUrl := *s.BaseUrl
	bundleUrl.Path = path.Join(bundleUrl.Path, name+fileExtension)
	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodGet, bundleUrl.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create http request for bundle[%s]: %w", name, err)
	}
	httpRequest.Header.Add("Accept", "application/yaml")
	httpRequest.Header.Add("User-Agent", fmt.Sprintf("%s/bundles", common.AppName))
	s.ServiceLogs <- common.ServiceLogf(common.LogLevelDebug, "fetching bundle[%s] from url[%s]...", name, bundleUrl.String())
	httpResponse, err := s.HttpClient.Do(httpRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to execute http request for bundle[%s]: %w", name, err)
	}
	defer httpResponse.Body.Close()
	if httpResponse.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	responseBody, err := io.ReadAll(io.LimitReader(httpResponse.Body, maxBundleSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body for bundle[%s]: %w", name, err)
	}
	if httpResponse.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to receive a successful response for bundle[%s] (status code: %v)", name, httpResponse.StatusCode)
	}
	s.ServiceLogs <- common.ServiceLogf(common.LogLevelDebug, "fetched bundle[%s] (%v bytes)", name, len(responseBody))
	return responseBody, nil
}
