// Package client talks to the REST API: it builds requests from parameter
// maps, sends them, and interprets the responses into typed values or errors.
package client

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"runtime"
	"strings"
	"sync"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

// Persistent header names.
const (
	HeaderProject = "X-Appwrite-Project"
	HeaderKey     = "X-Appwrite-Key"
	HeaderJWT     = "X-Appwrite-JWT"
	HeaderLocale  = "X-Appwrite-Locale"
	HeaderSession = "X-Appwrite-Session"
)

// Client holds the endpoint configuration and persistent headers shared by
// every request. A Client is safe for concurrent use.
type Client struct {
	mu         sync.RWMutex
	endpoint   string
	headers    map[string]string
	selfSigned bool

	chunkSize  int64
	transport  Transport
	httpClient *retryablehttp.Client
	limiter    *rate.Limiter
	logger     log.Logger
}

// New creates a Client from cfg.
func New(cfg Config) (*Client, error) {
	if cfg.ChunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", cfg.ChunkSize)
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if err := validateEndpoint(cfg.Endpoint); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewLogger()
	}

	c := &Client{
		endpoint:  strings.TrimRight(cfg.Endpoint, "/"),
		headers:   defaultHeaders(),
		chunkSize: cfg.ChunkSize,
		logger:    logger,
	}

	if cfg.Transport != nil {
		c.transport = cfg.Transport
	} else {
		c.httpClient = newHTTPClient(logger)
		c.transport = c.httpClient
	}

	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	if cfg.Project != "" {
		c.SetProject(cfg.Project)
	}
	if cfg.Key != "" {
		c.SetKey(cfg.Key)
	}
	if cfg.JWT != "" {
		c.SetJWT(cfg.JWT)
	}
	if cfg.Locale != "" {
		c.SetLocale(cfg.Locale)
	}
	if cfg.SelfSigned {
		c.SetSelfSigned(true)
	}

	return c, nil
}

func defaultHeaders() map[string]string {
	return map[string]string{
		"content-type":               applicationJSON,
		"user-agent":                 fmt.Sprintf("AppwriteGoSDK/%s (%s; %s)", sdkVersion, runtime.GOOS, runtime.GOARCH),
		"x-sdk-name":                 sdkName,
		"x-sdk-platform":             sdkPlatform,
		"x-sdk-language":             sdkLanguage,
		"x-sdk-version":              sdkVersion,
		"x-appwrite-response-format": responseFormat,
	}
}

func validateEndpoint(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid endpoint %q: scheme must be http or https", endpoint)
	}
	return nil
}

// SetEndpoint changes the API base URL.
func (c *Client) SetEndpoint(endpoint string) error {
	if err := validateEndpoint(endpoint); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.endpoint = strings.TrimRight(endpoint, "/")
	return nil
}

// Endpoint returns the API base URL.
func (c *Client) Endpoint() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.endpoint
}

// SetProject sets the project id header.
func (c *Client) SetProject(project string) { c.AddHeader(HeaderProject, project) }

// SetKey sets the API key header.
func (c *Client) SetKey(key string) { c.AddHeader(HeaderKey, key) }

// SetJWT sets the JWT header.
func (c *Client) SetJWT(jwt string) { c.AddHeader(HeaderJWT, jwt) }

// SetLocale sets the locale header.
func (c *Client) SetLocale(locale string) { c.AddHeader(HeaderLocale, locale) }

// SetSession sets the session header.
func (c *Client) SetSession(session string) { c.AddHeader(HeaderSession, session) }

// AddHeader sets a header sent with every request. Header names are case
// insensitive: setting an existing name in a different case replaces it.
func (c *Client) AddHeader(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for existing := range c.headers {
		if strings.EqualFold(existing, key) {
			delete(c.headers, existing)
		}
	}
	c.headers[strings.ToLower(key)] = value
}

// Headers returns a copy of the persistent headers.
func (c *Client) Headers() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	headers := make(map[string]string, len(c.headers))
	for k, v := range c.headers {
		headers[k] = v
	}
	return headers
}

// SetSelfSigned toggles certificate verification of the default transport.
// It has no effect on a custom Transport. Requests already in flight keep the
// transport they were sent with.
func (c *Client) SetSelfSigned(selfSigned bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.selfSigned = selfSigned
	if c.httpClient == nil {
		return
	}
	transport, ok := c.httpClient.HTTPClient.Transport.(*http.Transport)
	if !ok {
		return
	}

	transport = transport.Clone()
	if transport.TLSClientConfig == nil {
		transport.TLSClientConfig = &tls.Config{}
	}
	transport.TLSClientConfig.InsecureSkipVerify = selfSigned //nolint:gosec

	httpClient := newHTTPClient(c.logger)
	httpClient.HTTPClient.Transport = transport
	c.httpClient = httpClient
	c.transport = httpClient
}

// SelfSigned reports whether certificate verification is disabled.
func (c *Client) SelfSigned() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selfSigned
}

// ChunkSize returns the upload chunk bound.
func (c *Client) ChunkSize() int64 {
	return c.chunkSize
}

// Logger returns the client's logger.
func (c *Client) Logger() log.Logger {
	return c.logger
}

// StandardClient returns an *http.Client sharing the client's transport.
// Used by downloads that manage their own requests.
func (c *Client) StandardClient() *http.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.httpClient != nil {
		return c.httpClient.StandardClient()
	}
	return &http.Client{Transport: &transportRoundTripper{transport: c.transport}}
}

type transportRoundTripper struct {
	transport Transport
}

func (t *transportRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	rreq, err := retryablehttp.FromRequest(req)
	if err != nil {
		return nil, err
	}
	return t.transport.Do(rreq)
}
