package httpclient

import (
	"context"
	"io"
	"net/http"
	"time"
)

var _ HTTPClient = (*httpClient)(nil)

const (
	HeaderContentType = "Content-Type"
	HeaderAPIKey      = "X-API-Key"
	HeaderRequestID   = "X-Request-ID"
	ContentTypeJSON   = "application/json"
)

type HTTPClient interface {
	Get(ctx context.Context, url string, headers map[string]string) (*http.Response, error)
	Post(ctx context.Context, url string, body io.Reader, headers map[string]string) (*http.Response, error)
	Do(req *http.Request) (*http.Response, error)
}

type httpClient struct {
	client         *http.Client
	defaultHeaders map[string]string
}

// NewHTTPClient builds a client whose requests always carry defaultHeaders.
// Per-request headers win over defaults.
func NewHTTPClient(timeout time.Duration, defaultHeaders map[string]string) HTTPClient {
	return &httpClient{
		client:         &http.Client{Timeout: timeout},
		defaultHeaders: defaultHeaders,
	}
}

func (c *httpClient) Get(ctx context.Context, url string, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req, headers)
	return c.client.Do(req)
}

func (c *httpClient) Post(ctx context.Context, url string, body io.Reader, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req, headers)
	return c.client.Do(req)
}

func (c *httpClient) Do(req *http.Request) (*http.Response, error) {
	c.setHeaders(req, nil)
	return c.client.Do(req)
}

func (c *httpClient) setHeaders(req *http.Request, headers map[string]string) {
	for key, value := range c.defaultHeaders {
		if req.Header.Get(key) == "" {
			req.Header.Set(key, value)
		}
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}
}
