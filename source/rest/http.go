package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const (
	// DefaultTimeout bounds every request when no custom http.Client is given.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent is sent with every request.
	DefaultUserAgent = "ndexsearch/1.0"

	// errorBodyLimit caps how much of an error response body ends up in the error.
	errorBodyLimit = 512
)

// client holds the transport shared by all backend clients.
type client struct {
	endpoint   string
	httpClient *http.Client
	userAgent  string
	username   string
	password   string
	logger     *slog.Logger
}

// Option configures a backend client.
type Option func(*client) error

// WithHTTPClient sets the http.Client used for requests.
// Default is a client with DefaultTimeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) error {
		if hc == nil {
			return ErrHTTPClientRequired
		}
		c.httpClient = hc
		return nil
	}
}

// WithTimeout sets the request timeout of the default http.Client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *client) error {
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		c.httpClient = &http.Client{Timeout: timeout}
		return nil
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *client) error {
		if userAgent != "" {
			c.userAgent = userAgent
		}
		return nil
	}
}

// WithBasicAuth sets credentials sent with every request.
// An empty username disables authentication.
func WithBasicAuth(username, password string) Option {
	return func(c *client) error {
		c.username = username
		c.password = password
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *client) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

func newClient(endpoint, component string, opts []Option) (*client, error) {
	if endpoint == "" {
		return nil, ErrEndpointRequired
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEndpoint, err)
	}

	c := &client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		userAgent:  DefaultUserAgent,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	c.logger = c.logger.With("component", component, "endpoint", endpoint)
	return c, nil
}

// url builds the request URL from the endpoint, a relative path and query values.
func (c *client) url(path string, query url.Values) string {
	u := c.endpoint + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do sends the request and returns the response if its status is 2xx.
// The caller must close the response body.
func (c *client) do(ctx context.Context, method, path string, query url.Values, in any) (*http.Response, error) {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	target := c.url(path, query)
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	c.logger.Debug("sending request", "method", method, "url", target)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer func() { _ = resp.Body.Close() }()
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return nil, fmt.Errorf("%w: %s %s: %d: %s", ErrUnexpectedStatus, method, path, resp.StatusCode, bytes.TrimSpace(excerpt))
	}
	return resp, nil
}

// doJSON sends in as the JSON body (if non-nil) and decodes the response into out (if non-nil).
func (c *client) doJSON(ctx context.Context, method, path string, query url.Values, in, out any) error {
	resp, err := c.do(ctx, method, path, query, in)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", ErrDecodeFailed, err)
	}
	return nil
}

// stream sends a GET request and hands the response body to the caller.
func (c *client) stream(ctx context.Context, path string, query url.Values) (io.ReadCloser, error) {
	resp, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// taskID is the response of a search submission.
type taskID struct {
	ID string `json:"id"`
}
