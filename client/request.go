package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"reflect"
	"sort"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/appwrite-go/client-go/file"
	"github.com/appwrite-go/client-go/value"
)

// Params maps parameter names to values. A value may be a scalar, a slice,
// a string-keyed map, a value.Value or a *file.Part. Nil values are dropped.
type Params map[string]interface{}

// Request describes a single API call.
type Request struct {
	Method string
	// Path is appended to the endpoint, e.g. "/storage/buckets/{id}/files".
	Path string
	// Headers override the client's persistent headers.
	Headers map[string]string
	Params  Params
}

type pair struct {
	key   string
	value string
}

var (
	bracketUnescaper = strings.NewReplacer("%5B", "[", "%5D", "]")
	quoteEscaper     = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")
)

func (c *Client) buildRequest(ctx context.Context, r Request) (*retryablehttp.Request, error) {
	c.mu.RLock()
	endpoint := c.endpoint
	header := make(http.Header, len(c.headers)+len(r.Headers))
	for k, v := range c.headers {
		header.Set(k, v)
	}
	c.mu.RUnlock()

	for k, v := range r.Headers {
		header.Set(k, v)
	}

	params := filterParams(r.Params)
	target := endpoint + r.Path

	var body []byte
	switch {
	case r.Method == http.MethodGet:
		query, err := encodeQuery(params)
		if err != nil {
			return nil, err
		}
		if query != "" {
			sep := "?"
			if strings.Contains(target, "?") {
				sep = "&"
			}
			target += sep + query
		}
	case isMultipart(header.Get("Content-Type")):
		encoded, contentType, err := encodeMultipart(params)
		if err != nil {
			return nil, err
		}
		body = encoded
		header.Set("Content-Type", contentType)
	default:
		encoded, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = encoded
		header.Set("Content-Type", applicationJSON)
	}

	var rawBody interface{}
	if len(body) > 0 {
		rawBody = body
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, r.Method, target, rawBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header = header
	if len(body) > 0 {
		req.ContentLength = int64(len(body))
	}

	return req, nil
}

func isMultipart(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), multipartFormData)
}

// filterParams drops absent values: nil, typed nil pointers, nil slices and
// maps, and null values.
func filterParams(params Params) Params {
	filtered := make(Params, len(params))
	for k, v := range params {
		if isAbsent(v) {
			continue
		}
		filtered[k] = v
	}
	return filtered
}

func isAbsent(v interface{}) bool {
	if v == nil {
		return true
	}
	if vv, ok := v.(value.Value); ok {
		return vv.IsNull()
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map:
		return rv.IsNil()
	}
	return false
}

func sortedKeys(params Params) []string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// encodeQuery encodes params as a query string. Sequences become repeated
// key[]=v pairs and maps become key[sub]=v pairs.
func encodeQuery(params Params) (string, error) {
	var parts []string
	for _, key := range sortedKeys(params) {
		pairs, err := flatten(key, params[key])
		if err != nil {
			return "", err
		}
		for _, p := range pairs {
			parts = append(parts, bracketUnescaper.Replace(url.QueryEscape(p.key))+"="+url.QueryEscape(p.value))
		}
	}
	return strings.Join(parts, "&"), nil
}

// encodeMultipart builds a multipart/form-data body. File parts are written
// unchanged, everything else is flattened like query parameters.
func encodeMultipart(params Params) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, key := range sortedKeys(params) {
		switch part := params[key].(type) {
		case *file.Part:
			if err := writeFilePart(w, key, part); err != nil {
				return nil, "", err
			}
			continue
		case file.Part:
			if err := writeFilePart(w, key, &part); err != nil {
				return nil, "", err
			}
			continue
		}

		pairs, err := flatten(key, params[key])
		if err != nil {
			return nil, "", err
		}
		for _, p := range pairs {
			if err := w.WriteField(p.key, p.value); err != nil {
				return nil, "", fmt.Errorf("write form field %s: %w", p.key, err)
			}
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart body: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func writeFilePart(w *multipart.Writer, key string, part *file.Part) error {
	contentType := part.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(key), quoteEscaper.Replace(part.Filename)))
	h.Set("Content-Type", contentType)

	pw, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create file part %s: %w", key, err)
	}
	if _, err := pw.Write(part.Data); err != nil {
		return fmt.Errorf("write file part %s: %w", key, err)
	}
	return nil
}

func flatten(key string, raw interface{}) ([]pair, error) {
	switch t := raw.(type) {
	case []byte:
		return []pair{{key: key, value: string(t)}}, nil
	case value.Value:
		return flattenValue(key, t), nil
	}

	v, err := value.From(raw)
	if err != nil {
		if s, ok := raw.(fmt.Stringer); ok {
			return []pair{{key: key, value: s.String()}}, nil
		}
		return nil, fmt.Errorf("parameter %s: %w", key, err)
	}
	return flattenValue(key, v), nil
}

func flattenValue(key string, v value.Value) []pair {
	switch v.Kind() {
	case value.KindNull:
		return nil
	case value.KindArray:
		items, _ := v.AsArray()
		var out []pair
		for _, item := range items {
			out = append(out, flattenValue(key+"[]", item)...)
		}
		return out
	case value.KindMap:
		m, _ := v.AsMap()
		var out []pair
		for _, k := range m.Keys() {
			out = append(out, flattenValue(key+"["+k+"]", m[k])...)
		}
		return out
	default:
		return []pair{{key: key, value: v.String()}}
	}
}
