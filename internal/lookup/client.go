package lookup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/yegors/skytrack/pkg/logger"
)

// Fetcher performs the single outbound request of a submission
type Fetcher interface {
	Fetch(ctx context.Context, endpoint Endpoint, query Query) ([]byte, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

const (
	defaultUserAgent = "skytrack/1.0"
	bodyPreviewLimit = 200
)

// Client fetches search results from the aviation APIs
type Client struct {
	httpClient *http.Client
	userAgent  string
	logger     *logger.Logger
}

// NewClient creates a new API client. A zero timeout leaves the request
// bounded only by the caller's context.
func NewClient(timeout time.Duration, logger *logger.Logger) *Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second, // Connection timeout
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		userAgent: defaultUserAgent,
		logger:    logger.Named("lookup-client"),
	}
}

// Fetch issues one GET for query against endpoint and returns the raw body
// of a 2xx response
func (c *Client) Fetch(ctx context.Context, endpoint Endpoint, query Query) ([]byte, error) {
	reqURL, err := buildURL(endpoint, query)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if endpoint.Credential.Placement == InHeader && endpoint.Credential.Name != "" {
		req.Header.Set(endpoint.Credential.Name, endpoint.Credential.Value)
	}

	c.logger.Debug("Fetching search results",
		logger.String("noun", endpoint.Noun),
		logger.String("path", reqURL.Path),
		logger.String("key_prefix", logger.KeyPrefix(endpoint.Credential.Value)),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error carries the full URL, which may include the access key
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	bodyPreview := string(body)
	if len(bodyPreview) > bodyPreviewLimit {
		bodyPreview = bodyPreview[:bodyPreviewLimit] + "..."
	}
	c.logger.Debug("Response body preview",
		logger.String("noun", endpoint.Noun),
		logger.Int("bytes", len(body)),
		logger.String("body", bodyPreview),
	)

	return body, nil
}

// buildURL appends the query fields, and the credential when it travels in
// the query string, to the endpoint URL
func buildURL(endpoint Endpoint, query Query) (*url.URL, error) {
	u, err := url.Parse(endpoint.URL)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint url: %w", err)
	}

	values := u.Query()
	if endpoint.Credential.Placement == InQuery && endpoint.Credential.Name != "" {
		values.Set(endpoint.Credential.Name, endpoint.Credential.Value)
	}
	for _, name := range endpoint.Fields {
		values.Set(name, query.Get(name))
	}
	u.RawQuery = values.Encode()

	return u, nil
}
