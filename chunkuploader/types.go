// Package chunkuploader sends a large input as a sequence of bounded,
// byte-range framed requests and tracks the server-assigned upload id
// between them.
package chunkuploader

import (
	"context"

	"github.com/appwrite-go/client-go/value"
)

const (
	// HeaderContentRange frames each chunk within the whole input.
	HeaderContentRange = "Content-Range"
	// HeaderUploadID carries the server-assigned upload id on every chunk
	// after the first.
	HeaderUploadID = "x-appwrite-id"
)

// Chunk is one segment of the input handed to a SendFunc.
type Chunk struct {
	// Index is the zero based position of the chunk.
	Index int
	// Offset is the position of the first byte of Data within the input.
	Offset int64
	// Data holds the chunk bytes. It aliases the uploader's read buffer and
	// is only valid until the SendFunc returns.
	Data []byte
	// Headers are the range and identity headers of this chunk.
	Headers map[string]string
}

// SendFunc performs one chunk request and returns the decoded response mapping.
type SendFunc func(ctx context.Context, chunk Chunk) (value.Map, error)

// UploadProgress is a snapshot reported after every successfully sent chunk.
type UploadProgress struct {
	ID             string
	Progress       float64
	SizeUploaded   int64
	ChunksTotal    int64
	ChunksUploaded int64
}

// ProgressFunc receives upload progress.
type ProgressFunc func(UploadProgress)
