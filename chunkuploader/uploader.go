package chunkuploader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/docker/go-units"

	"github.com/appwrite-go/client-go/value"
)

// Uploader sends chunks strictly one after the other.
// An Uploader is not safe for concurrent use; create one per upload.
type Uploader struct {
	config Config
	logger log.Logger
	stats  *Stats
}

// New creates a new Uploader with the given configuration.
func New(config Config, logger log.Logger) *Uploader {
	if logger == nil {
		logger = log.NewLogger()
	}

	return &Uploader{
		config: config,
		logger: logger,
		stats:  NewStats(),
	}
}

// Stats returns the upload statistics.
func (u *Uploader) Stats() *Stats {
	return u.stats
}

// Upload reads r until exhaustion in ChunkSize pieces and hands each piece
// to send. size is the total number of bytes r yields. The response mapping
// of the last chunk is returned.
//
// A failed chunk aborts the upload: no further chunks are sent and
// onProgress is not called for the failed chunk.
func (u *Uploader) Upload(ctx context.Context, r io.Reader, size int64, send SendFunc, onProgress ProgressFunc) (value.Map, error) {
	if err := u.config.Validate(); err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, fmt.Errorf("invalid upload size: %d", size)
	}

	chunkSize := u.config.ChunkSize
	totalChunks := (size + chunkSize - 1) / chunkSize
	buf := make([]byte, chunkSize)

	var (
		offset   int64
		uploadID string
		last     value.Map
	)

	for index := 0; ; index++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("upload cancelled before chunk %d: %w", index+1, err)
		}

		n, err := io.ReadFull(r, buf)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("read chunk %d at offset %d: %w", index+1, offset, err)
		}

		if offset+int64(n) > size {
			return nil, fmt.Errorf("input exceeds declared size of %d bytes", size)
		}
		if int64(n) < chunkSize && offset+int64(n) != size {
			return nil, fmt.Errorf("input ended at %d bytes, expected %d", offset+int64(n), size)
		}

		end := minInt64(offset+chunkSize, size) - 1
		headers := map[string]string{
			HeaderContentRange: fmt.Sprintf("bytes %d-%d/%d", offset, end, size),
		}
		if uploadID != "" {
			headers[HeaderUploadID] = uploadID
		}

		u.logger.Debugf("Uploading chunk %d/%d (%s) [avg=%v]",
			index+1, totalChunks, units.BytesSize(float64(n)), u.stats.Average().Round(time.Millisecond))

		start := time.Now()
		response, err := send(ctx, Chunk{
			Index:   index,
			Offset:  offset,
			Data:    buf[:n],
			Headers: headers,
		})
		if err != nil {
			return nil, fmt.Errorf("upload chunk %d: %w", index+1, err)
		}
		took := time.Since(start)
		u.stats.Update(took, int64(n))

		offset += chunkSize
		if id := response.String("$id"); id != "" {
			uploadID = id
		}
		last = response

		uploaded := minInt64(offset, size)
		u.logger.Debugf("Chunk %d uploaded in %v, upload id: %s", index+1, took.Round(time.Millisecond), uploadID)

		if onProgress != nil {
			onProgress(UploadProgress{
				ID:             uploadID,
				Progress:       float64(uploaded) / float64(size) * 100,
				SizeUploaded:   uploaded,
				ChunksTotal:    chunkCount(response, "chunksTotal", "chunkTotal"),
				ChunksUploaded: chunkCount(response, "chunksUploaded", "chunkUploaded"),
			})
		}
	}

	if last == nil {
		return nil, fmt.Errorf("input is empty, expected %d bytes", size)
	}

	u.logger.Infof("Uploaded %s in %d chunks (%s/s)",
		units.BytesSize(float64(size)), u.stats.FinishedCount(), units.BytesSize(u.stats.Throughput()))

	return last, nil
}

// chunkCount reads a server reported counter, accepting both the plural and
// the singular field name.
func chunkCount(m value.Map, keys ...string) int64 {
	for _, key := range keys {
		if v, ok := m.Get(key); ok {
			if i, ok := v.AsInt64(); ok {
				return i
			}
		}
	}
	return 0
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
