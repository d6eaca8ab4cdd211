// Package http is the JSON transport shared by every manager.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/edqe14/hefs/internal/constants"
	"github.com/edqe14/hefs/pkg/hefs"
)

// Static errors for err113 compliance.
var ErrNoResponse = errors.New("no response received")

// Request is one API call.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string
}

// Response is a fully read API response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	// Cached is true when Body was served from the response cache after a
	// 304 revalidation.
	Cached bool
}

// Client sends JSON requests relative to a base URL.
type Client struct {
	baseURL      string
	httpClient   *retryablehttp.Client
	logger       hefs.Logger
	debug        bool
	userAgent    string
	headers      map[string]string
	cookieHeader string
	cache        hefs.Cache
	cacheOptions *hefs.CacheOptions
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for debug and error output.
func WithLogger(logger hefs.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDebug logs every request and response at debug level.
func WithDebug(debug bool) Option {
	return func(c *Client) { c.debug = debug }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithRetryConfig enables retries for 5xx, 429 and connection errors.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithTimeout bounds each attempt.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.HTTPClient.Timeout = timeout
		}
	}
}

// WithHeaders adds headers to every request.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		for k, v := range headers {
			c.headers[k] = v
		}
	}
}

// WithCookies sends the session and extra cookies on every request.
func WithCookies(session string, cookies map[string]string) Option {
	return func(c *Client) {
		c.cookieHeader = BuildCookies(session, cookies)
	}
}

// WithResponseCache revalidates GET responses with If-None-Match and serves
// the stored body on 304.
func WithResponseCache(cache hefs.Cache, options *hefs.CacheOptions) Option {
	return func(c *Client) {
		if options == nil {
			options = hefs.DefaultCacheOptions()
		}

		c.cache = cache
		c.cacheOptions = options
	}
}

// NewClient creates a client for baseURL. Retries are disabled unless
// WithRetryConfig is given.
func NewClient(baseURL string, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil
	retryClient.RetryMax = 0
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: retryClient,
		logger:     hefs.NopLogger{},
		userAgent:  constants.DefaultUserAgent,
		headers:    make(map[string]string),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// BaseURL returns the base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// BuildCookies renders the Cookie header. The session cookie comes first,
// the rest follow in key order. Empty values are skipped.
func BuildCookies(session string, cookies map[string]string) string {
	parts := make([]string, 0, len(cookies)+1)

	if session != "" {
		parts = append(parts, constants.SessionCookieName+"="+session)
	}

	keys := make([]string, 0, len(cookies))
	for k := range cookies {
		if k == constants.SessionCookieName && session != "" {
			continue
		}

		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		if cookies[k] == "" {
			continue
		}

		parts = append(parts, k+"="+cookies[k])
	}

	return strings.Join(parts, "; ")
}

// Do sends req. A non-2xx response is returned together with a
// *hefs.FetchError; a transport failure returns only the error.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	target, err := c.resolveURL(req)
	if err != nil {
		return nil, &hefs.FetchError{Method: req.Method, URL: req.Path, Err: err}
	}

	var body []byte

	if req.Body != nil {
		body, err = json.Marshal(req.Body)
		if err != nil {
			return nil, &hefs.FetchError{Method: req.Method, URL: target, Err: fmt.Errorf("encoding request body: %w", err)}
		}
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, &hefs.FetchError{Method: req.Method, URL: target, Err: err}
	}

	c.setHeaders(httpReq, req, body != nil)

	cacheKey, cached := c.lookupCache(ctx, httpReq)

	if c.debug {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method":     req.Method,
			"url":        target,
			"request_id": httpReq.Header.Get(constants.RequestIDHeader),
		})
	}

	start := time.Now()

	// After the last attempt the retry policy reports 5xx and 429 responses
	// as an error next to the response. Those are status failures, handled
	// below; only a missing response is a transport failure.
	httpResp, err := c.httpClient.Do(httpReq)
	if httpResp == nil {
		if err == nil {
			err = ErrNoResponse
		}

		c.logger.Error("HTTP request failed", map[string]interface{}{
			"method": req.Method,
			"url":    target,
			"error":  err.Error(),
		})

		return nil, &hefs.FetchError{Method: req.Method, URL: target, Err: err}
	}

	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &hefs.FetchError{Method: req.Method, URL: target, Err: fmt.Errorf("reading response body: %w", err)}
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}

	if c.debug {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method":      req.Method,
			"url":         target,
			"status_code": resp.StatusCode,
			"duration":    time.Since(start).String(),
		})
	}

	if resp.StatusCode == http.StatusNotModified && cached != nil {
		resp.StatusCode = http.StatusOK
		resp.Body = cached.Data
		resp.Cached = true

		return resp, nil
	}

	if !IsOK(resp.StatusCode) {
		return resp, &hefs.FetchError{
			Method:     req.Method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Body:       respBody,
		}
	}

	c.storeCache(ctx, cacheKey, resp)

	return resp, nil
}

// IsOK reports whether code is a 2xx status.
func IsOK(code int) bool {
	return code >= constants.HTTPStatusOKMin && code <= constants.HTTPStatusOKMax
}

func (c *Client) resolveURL(req *Request) (string, error) {
	raw := req.Path
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = c.baseURL + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parsing request URL: %w", err)
	}

	if len(req.Query) > 0 {
		query := u.Query()
		for k, values := range req.Query {
			for _, v := range values {
				query.Add(k, v)
			}
		}

		u.RawQuery = query.Encode()
	}

	return u.String(), nil
}

func (c *Client) setHeaders(httpReq *retryablehttp.Request, req *Request, hasBody bool) {
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set(constants.RequestIDHeader, uuid.NewString())

	if hasBody {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if c.cookieHeader != "" {
		httpReq.Header.Set("Cookie", c.cookieHeader)
	}

	for k, v := range c.headers {
		httpReq.Header.Set(k, v)
	}

	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
}

func (c *Client) lookupCache(ctx context.Context, httpReq *retryablehttp.Request) (string, *hefs.CacheEntry) {
	if c.cache == nil || httpReq.Method != http.MethodGet {
		return "", nil
	}

	key := hefs.CacheKey(httpReq.Method, httpReq.URL.String())

	entry, err := c.cache.Get(ctx, key)
	if err != nil || entry.ETag == "" || !c.cacheOptions.EnableETags {
		return key, nil
	}

	httpReq.Header.Set("If-None-Match", entry.ETag)

	return key, entry
}

func (c *Client) storeCache(ctx context.Context, key string, resp *Response) {
	if key == "" {
		return
	}

	etag := resp.Headers.Get("ETag")
	if etag == "" {
		return
	}

	err := c.cache.Set(ctx, key, &hefs.CacheEntry{
		Data:      resp.Body,
		ETag:      etag,
		ExpiresAt: time.Now().Add(c.cacheOptions.TTL),
	})
	if err != nil {
		c.logger.Warn("failed to store response", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

// Get sends a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post sends a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put sends a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Patch sends a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete sends a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

// DeleteWithBody sends a DELETE request with a JSON body.
func (c *Client) DeleteWithBody(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path, Body: body})
}
