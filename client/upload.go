package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/docker/go-units"

	"github.com/appwrite-go/client-go/chunkuploader"
	"github.com/appwrite-go/client-go/file"
	"github.com/appwrite-go/client-go/value"
)

// Upload sends the *file.InputFile stored in r.Params[fileParam] as a
// multipart write and converts the final response into T.
//
// Inputs smaller than the client's chunk size are sent in one request and
// onProgress is not called. Larger inputs are sent in sequential chunks;
// onProgress is called after every chunk.
func Upload[T any](ctx context.Context, c *Client, r Request, fileParam string, onProgress chunkuploader.ProgressFunc, convert Converter[T]) (T, error) {
	var zero T

	input, ok := r.Params[fileParam].(*file.InputFile)
	if !ok || input == nil {
		return zero, fmt.Errorf("parameter %q must be a *file.InputFile", fileParam)
	}
	if r.Method == "" {
		r.Method = http.MethodPost
	}

	src, err := input.Open()
	if err != nil {
		return zero, err
	}
	defer func() {
		if err := src.Close(); err != nil {
			c.logger.Warnf("close %s: %s", input.Name(), err)
		}
	}()

	size := src.Size()
	headers := withMultipart(r.Headers)

	if size < c.chunkSize {
		data, err := io.ReadAll(io.LimitReader(src, size))
		if err != nil {
			return zero, fmt.Errorf("read %s: %w", input.Name(), err)
		}

		c.logger.Debugf("Uploading %s (%s) in a single request", input.Name(), units.BytesSize(float64(size)))

		return Call[T](ctx, c, Request{
			Method:  r.Method,
			Path:    r.Path,
			Headers: headers,
			Params:  withParam(r.Params, fileParam, input.Part(data)),
		}, convert)
	}

	c.logger.Debugf("Uploading %s (%s) in chunks of %s", input.Name(),
		units.BytesSize(float64(size)), units.BytesSize(float64(c.chunkSize)))

	send := func(ctx context.Context, chunk chunkuploader.Chunk) (value.Map, error) {
		chunkHeaders := mergeHeaders(headers, chunk.Headers)

		res, err := c.do(ctx, Request{
			Method:  r.Method,
			Path:    r.Path,
			Headers: chunkHeaders,
			Params:  withParam(r.Params, fileParam, input.Part(chunk.Data)),
		}, expectMap)
		if err != nil {
			return nil, err
		}

		m, ok := res.Map()
		if !ok {
			return nil, &DecodeError{Err: fmt.Errorf("chunk response has no content")}
		}
		return m, nil
	}

	uploader := chunkuploader.New(chunkuploader.Config{ChunkSize: c.chunkSize}, c.logger)
	last, err := uploader.Upload(ctx, src, size, send, onProgress)
	if err != nil {
		return zero, err
	}

	if expectationOf[T]() == expectBool {
		return resultAs(Result{kind: ResultSuccess}, convert)
	}
	return resultAs(Result{kind: ResultMap, m: last}, convert)
}

func withMultipart(headers map[string]string) map[string]string {
	return mergeHeaders(headers, map[string]string{"content-type": multipartFormData})
}

// mergeHeaders returns base overlaid with override. Keys of base matching an
// override key case-insensitively are dropped.
func mergeHeaders(base, override map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for key, v := range override {
		for existing := range out {
			if strings.EqualFold(existing, key) {
				delete(out, existing)
			}
		}
		out[key] = v
	}
	return out
}

func withParam(params Params, key string, v interface{}) Params {
	out := make(Params, len(params))
	for k, pv := range params {
		out[k] = pv
	}
	out[key] = v
	return out
}
