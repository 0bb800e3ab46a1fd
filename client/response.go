package client

import (
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/appwrite-go/client-go/value"
)

// ResultKind identifies the form of a successful response.
type ResultKind int

// Result kinds.
const (
	// ResultMap is a decoded JSON object.
	ResultMap ResultKind = iota
	// ResultBytes is a raw payload.
	ResultBytes
	// ResultSuccess marks a response without content.
	ResultSuccess
)

// Result is a successful response in exactly one of three forms.
type Result struct {
	kind  ResultKind
	m     value.Map
	bytes []byte
}

// Kind returns the form of r.
func (r Result) Kind() ResultKind { return r.kind }

// Map returns the decoded mapping.
func (r Result) Map() (value.Map, bool) { return r.m, r.kind == ResultMap }

// Bytes returns the raw payload.
func (r Result) Bytes() ([]byte, bool) { return r.bytes, r.kind == ResultBytes }

// Success reports whether r is the success marker of an empty response.
func (r Result) Success() bool { return r.kind == ResultSuccess }

// expect is the form the caller wants a successful response in.
type expect int

const (
	expectMap expect = iota
	expectBool
	expectBytes
)

// interpret reads and closes resp.Body and turns the response into a Result
// or an error.
func (c *Client) interpret(resp *http.Response, want expect) (Result, error) {
	defer closeBody(resp, c.logger)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		terr := &TransportError{Err: err}
		if resp.Request != nil {
			terr.Method = resp.Request.Method
			terr.URL = resp.Request.URL.String()
		}
		return Result{}, terr
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return Result{}, newAPIError(resp, body)
	}

	switch {
	case want == expectBool:
		return Result{kind: ResultSuccess}, nil
	case want == expectBytes:
		return Result{kind: ResultBytes, bytes: body}, nil
	case len(body) == 0:
		return Result{kind: ResultSuccess}, nil
	}

	m, err := value.ParseMap(body)
	if err != nil {
		return Result{}, &DecodeError{Body: body, Err: err}
	}
	return Result{kind: ResultMap, m: m}, nil
}

func newAPIError(resp *http.Response, body []byte) *APIError {
	raw := string(body)
	if strings.Contains(resp.Header.Get("Content-Type"), applicationJSON) && gjson.ValidBytes(body) {
		parsed := gjson.ParseBytes(body)
		code := resp.StatusCode
		if c := parsed.Get("code"); c.Exists() {
			code = int(c.Int())
		}
		return &APIError{
			Message:  parsed.Get("message").String(),
			Code:     code,
			Type:     parsed.Get("type").String(),
			Response: raw,
		}
	}

	return &APIError{
		Message:  raw,
		Code:     resp.StatusCode,
		Response: raw,
	}
}
