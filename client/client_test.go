package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, endpoint string, chunkSize int64) *Client {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Endpoint = endpoint
	cfg.Project = "test-project"
	cfg.Logger = log.NewLogger()
	if chunkSize > 0 {
		cfg.ChunkSize = chunkSize
	}

	c, err := New(cfg)
	require.NoError(t, err)
	return c
}

func TestNew_DefaultHeaders(t *testing.T) {
	c := newTestClient(t, "https://example.com/v1/", 0)

	assert.Equal(t, "https://example.com/v1", c.Endpoint())
	headers := c.Headers()
	assert.Equal(t, "application/json", headers["content-type"])
	assert.Equal(t, "Go", headers["x-sdk-name"])
	assert.Equal(t, "server", headers["x-sdk-platform"])
	assert.Equal(t, "go", headers["x-sdk-language"])
	assert.Equal(t, "0.1.0", headers["x-sdk-version"])
	assert.Equal(t, "1.5.0", headers["x-appwrite-response-format"])
	assert.Equal(t, "test-project", headers["x-appwrite-project"])
	assert.Equal(t, int64(5*1024*1024), c.ChunkSize())
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  func() Config
	}{
		{
			name: "zero chunk size",
			cfg: func() Config {
				cfg := DefaultConfig()
				cfg.ChunkSize = 0
				return cfg
			},
		},
		{
			name: "endpoint without scheme",
			cfg: func() Config {
				cfg := DefaultConfig()
				cfg.Endpoint = "example.com/v1"
				return cfg
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg())
			assert.Error(t, err)
		})
	}
}

func TestClient_Setters(t *testing.T) {
	c := newTestClient(t, "https://example.com/v1", 0)

	c.SetKey("secret-key")
	c.SetJWT("jwt")
	c.SetLocale("en-US")
	c.SetSession("session")
	c.AddHeader("X-Custom", "1")
	c.AddHeader("x-custom", "2")
	require.NoError(t, c.SetEndpoint("http://localhost/v1"))
	assert.Error(t, c.SetEndpoint("ftp://localhost"))

	headers := c.Headers()
	assert.Equal(t, "secret-key", headers["x-appwrite-key"])
	assert.Equal(t, "jwt", headers["x-appwrite-jwt"])
	assert.Equal(t, "en-US", headers["x-appwrite-locale"])
	assert.Equal(t, "session", headers["x-appwrite-session"])
	assert.Equal(t, "2", headers["x-custom"])
	_, hasMixedCase := headers["X-Custom"]
	assert.False(t, hasMixedCase)
	assert.Equal(t, "http://localhost/v1", c.Endpoint())

	headers["x-custom"] = "mutated"
	assert.Equal(t, "2", c.Headers()["x-custom"], "Headers must return a copy")
}

func TestClient_SetSelfSigned(t *testing.T) {
	c := newTestClient(t, "https://example.com/v1", 0)
	c.SetSelfSigned(true)

	assert.True(t, c.SelfSigned())
	transport, ok := c.httpClient.HTTPClient.Transport.(*http.Transport)
	require.True(t, ok)
	require.NotNil(t, transport.TLSClientConfig)
	assert.True(t, transport.TLSClientConfig.InsecureSkipVerify)

	c.SetSelfSigned(false)
	transport = c.httpClient.HTTPClient.Transport.(*http.Transport)
	assert.False(t, transport.TLSClientConfig.InsecureSkipVerify)
}

func TestClient_SetSelfSigned_WhileRequesting(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, 0)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.SetSelfSigned(true)
		}()
		go func() {
			defer wg.Done()
			_, _ = c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/health"})
		}()
	}
	wg.Wait()

	res, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/health"})
	require.NoError(t, err)
	assert.True(t, res.Success())

	c.SetSelfSigned(false)
	_, err = c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/health"})
	var transportErr *TransportError
	assert.True(t, errors.As(err, &transportErr))
}

func TestClient_ConcurrentHeaderAccess(t *testing.T) {
	c := newTestClient(t, "https://example.com/v1", 0)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			c.AddHeader("x-counter", fmt.Sprintf("%d", i))
		}(i)
		go func() {
			defer wg.Done()
			_ = c.Headers()
			_, _ = c.buildRequest(context.Background(), Request{Method: http.MethodGet, Path: "/health"})
		}()
	}
	wg.Wait()

	assert.NotEmpty(t, c.Headers()["x-counter"])
}
