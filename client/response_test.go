package client

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResponse(status int, contentType, body string) *http.Response {
	header := http.Header{}
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	return &http.Response{
		StatusCode: status,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestInterpret_APIError(t *testing.T) {
	tests := []struct {
		name string
		resp *http.Response
		want *APIError
	}{
		{
			name: "json error",
			resp: newResponse(404, "application/json; charset=utf-8", `{"message":"Not found","code":404,"type":"not_found"}`),
			want: &APIError{
				Message:  "Not found",
				Code:     404,
				Type:     "not_found",
				Response: `{"message":"Not found","code":404,"type":"not_found"}`,
			},
		},
		{
			name: "json error without code",
			resp: newResponse(409, "application/json", `{"message":"Document already exists"}`),
			want: &APIError{
				Message:  "Document already exists",
				Code:     409,
				Response: `{"message":"Document already exists"}`,
			},
		},
		{
			name: "plain text error",
			resp: newResponse(502, "text/html", "Bad Gateway"),
			want: &APIError{Message: "Bad Gateway", Code: 502, Response: "Bad Gateway"},
		},
		{
			name: "malformed json error",
			resp: newResponse(500, "application/json", "{oops"),
			want: &APIError{Message: "{oops", Code: 500, Response: "{oops"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, "https://example.com/v1", 0)

			_, err := c.interpret(tt.resp, expectMap)
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.want, apiErr)
		})
	}
}

func TestInterpret_Success(t *testing.T) {
	tests := []struct {
		name      string
		resp      *http.Response
		want      expect
		wantKind  ResultKind
		wantBytes string
	}{
		{name: "bool ignores body", resp: newResponse(200, "application/json", `{"a":1}`), want: expectBool, wantKind: ResultSuccess},
		{name: "bytes", resp: newResponse(200, "image/png", "\x89PNG"), want: expectBytes, wantKind: ResultBytes, wantBytes: "\x89PNG"},
		{name: "empty body", resp: newResponse(204, "", ""), want: expectMap, wantKind: ResultSuccess},
		{name: "mapping", resp: newResponse(201, "application/json", `{"$id":"x"}`), want: expectMap, wantKind: ResultMap},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, "https://example.com/v1", 0)

			res, err := c.interpret(tt.resp, tt.want)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, res.Kind())

			switch tt.wantKind {
			case ResultBytes:
				b, ok := res.Bytes()
				require.True(t, ok)
				assert.Equal(t, tt.wantBytes, string(b))
			case ResultMap:
				m, ok := res.Map()
				require.True(t, ok)
				assert.Equal(t, "x", m.String("$id"))
			case ResultSuccess:
				assert.True(t, res.Success())
			}
		})
	}
}

func TestInterpret_DecodeError(t *testing.T) {
	c := newTestClient(t, "https://example.com/v1", 0)

	_, err := c.interpret(newResponse(200, "application/json", `[1,2,3]`), expectMap)
	require.Error(t, err)

	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, `[1,2,3]`, string(decodeErr.Body))
}

func TestAPIError_Error(t *testing.T) {
	assert.Equal(t, "HTTP 404 (not_found): Not found", (&APIError{Message: "Not found", Code: 404, Type: "not_found"}).Error())
	assert.Equal(t, "HTTP 500: boom", (&APIError{Message: "boom", Code: 500}).Error())
}
