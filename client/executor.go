package client

import (
	"context"
	"net/http"
	"net/http/httputil"
	"strings"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/retryhttp"
	"github.com/hashicorp/go-retryablehttp"
)

// Transport sends a single request. *retryablehttp.Client implements it.
type Transport interface {
	Do(req *retryablehttp.Request) (*http.Response, error)
}

// newHTTPClient returns a retryablehttp client that never retries: a failed
// request is reported to the caller as-is.
func newHTTPClient(logger log.Logger) *retryablehttp.Client {
	client := retryhttp.NewClient(logger)
	client.RetryMax = 0
	client.CheckRetry = noRetryPolicy
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return client
}

func noRetryPolicy(ctx context.Context, _ *http.Response, _ error) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return false, nil
}

// execute sends req and returns the response, or a *TransportError when no
// response was received.
func (c *Client) execute(req *retryablehttp.Request) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return nil, &TransportError{Method: req.Method, URL: req.URL.String(), Err: err}
		}
	}

	dump, err := httputil.DumpRequest(req.Request, false)
	if err != nil {
		c.logger.Warnf("error while dumping request: %s", err)
	} else {
		c.logger.Debugf("Request dump: %s", redactDump(dump))
	}

	c.mu.RLock()
	transport := c.transport
	c.mu.RUnlock()

	resp, err := transport.Do(req)
	if err != nil {
		if resp != nil && resp.Body != nil {
			closeBody(resp, c.logger)
		}
		return nil, &TransportError{Method: req.Method, URL: req.URL.String(), Err: err}
	}

	c.logger.Debugf("Response status: %s", resp.Status)

	return resp, nil
}

func closeBody(resp *http.Response, logger log.Logger) {
	if err := resp.Body.Close(); err != nil {
		logger.Warnf("close response body: %s", err)
	}
}

var secretHeaders = []string{HeaderKey, HeaderJWT, HeaderSession}

// redactDump masks credential headers in a request dump.
func redactDump(dump []byte) string {
	lines := strings.Split(string(dump), "\r\n")
	for i, line := range lines {
		for _, header := range secretHeaders {
			prefix := header + ":"
			if len(line) > len(prefix) && strings.EqualFold(line[:len(prefix)], prefix) {
				lines[i] = line[:len(prefix)] + " *****"
			}
		}
	}
	return strings.Join(lines, "\r\n")
}
