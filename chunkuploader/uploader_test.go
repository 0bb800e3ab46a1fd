package chunkuploader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/appwrite-go/client-go/value"
)

type recordedChunk struct {
	offset  int64
	data    []byte
	headers map[string]string
}

// recordingSender stores every chunk it receives and answers like the
// storage service does.
type recordingSender struct {
	chunks []recordedChunk
	failAt int
	err    error
	total  int64
}

func (s *recordingSender) send(_ context.Context, chunk Chunk) (value.Map, error) {
	if s.err != nil && chunk.Index == s.failAt {
		return nil, s.err
	}

	data := make([]byte, len(chunk.Data))
	copy(data, chunk.Data)
	headers := map[string]string{}
	for k, v := range chunk.Headers {
		headers[k] = v
	}
	s.chunks = append(s.chunks, recordedChunk{offset: chunk.Offset, data: data, headers: headers})

	return value.Map{
		"$id":            value.String("file-1"),
		"chunksTotal":    value.Int(s.total),
		"chunksUploaded": value.Int(int64(len(s.chunks))),
	}, nil
}

func newTestUploader(chunkSize int64) *Uploader {
	return New(Config{ChunkSize: chunkSize}, log.NewLogger())
}

func TestUploader_Upload_Ranges(t *testing.T) {
	const mib = 1024 * 1024
	size := int64(12 * mib)
	data := bytes.Repeat([]byte{0xAB}, int(size))
	sender := &recordingSender{total: 3}

	result, err := newTestUploader(DefaultChunkSize).Upload(context.Background(), bytes.NewReader(data), size, sender.send, nil)
	require.NoError(t, err)
	assert.Equal(t, "file-1", result.String("$id"))

	require.Len(t, sender.chunks, 3)
	wantRanges := []string{
		"bytes 0-5242879/12582912",
		"bytes 5242880-10485759/12582912",
		"bytes 10485760-12582911/12582912",
	}
	for i, chunk := range sender.chunks {
		assert.Equal(t, wantRanges[i], chunk.headers[HeaderContentRange])
	}

	_, hasID := sender.chunks[0].headers[HeaderUploadID]
	assert.False(t, hasID, "first chunk must not carry an upload id")
	assert.Equal(t, "file-1", sender.chunks[1].headers[HeaderUploadID])
	assert.Equal(t, "file-1", sender.chunks[2].headers[HeaderUploadID])
}

func TestUploader_Upload_ChunkCount(t *testing.T) {
	tests := []struct {
		name       string
		size       int64
		chunkSize  int64
		wantChunks int
	}{
		{name: "exactly one chunk", size: 10, chunkSize: 10, wantChunks: 1},
		{name: "exact multiple", size: 30, chunkSize: 10, wantChunks: 3},
		{name: "one byte over", size: 31, chunkSize: 10, wantChunks: 4},
		{name: "one byte under", size: 29, chunkSize: 10, wantChunks: 3},
		{name: "chunk of one byte", size: 5, chunkSize: 1, wantChunks: 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]byte, tt.size)
			for i := range data {
				data[i] = byte(i)
			}
			sender := &recordingSender{}

			_, err := newTestUploader(tt.chunkSize).Upload(context.Background(), bytes.NewReader(data), tt.size, sender.send, nil)
			require.NoError(t, err)
			require.Len(t, sender.chunks, tt.wantChunks)

			// Ranges are contiguous and cover the input exactly.
			var next int64
			var joined []byte
			for _, chunk := range sender.chunks {
				assert.Equal(t, next, chunk.offset)
				assert.NotEmpty(t, chunk.data)
				wantRange := fmt.Sprintf("bytes %d-%d/%d", chunk.offset, chunk.offset+int64(len(chunk.data))-1, tt.size)
				assert.Equal(t, wantRange, chunk.headers[HeaderContentRange])
				next += int64(len(chunk.data))
				joined = append(joined, chunk.data...)
			}
			assert.Equal(t, tt.size, next)
			assert.Equal(t, data, joined)
		})
	}
}

func TestUploader_Upload_Progress(t *testing.T) {
	size := int64(25)
	sender := &recordingSender{total: 3}
	var progress []UploadProgress

	_, err := newTestUploader(10).Upload(context.Background(), strings.NewReader(strings.Repeat("x", int(size))), size, sender.send, func(p UploadProgress) {
		progress = append(progress, p)
	})
	require.NoError(t, err)

	want := []UploadProgress{
		{ID: "file-1", Progress: 40, SizeUploaded: 10, ChunksTotal: 3, ChunksUploaded: 1},
		{ID: "file-1", Progress: 80, SizeUploaded: 20, ChunksTotal: 3, ChunksUploaded: 2},
		{ID: "file-1", Progress: 100, SizeUploaded: 25, ChunksTotal: 3, ChunksUploaded: 3},
	}
	assert.Equal(t, want, progress)

	for i := 1; i < len(progress); i++ {
		assert.GreaterOrEqual(t, progress[i].Progress, progress[i-1].Progress)
	}
}

func TestUploader_Upload_SingularChunkCounters(t *testing.T) {
	send := func(_ context.Context, chunk Chunk) (value.Map, error) {
		return value.Map{
			"$id":           value.String("legacy"),
			"chunkTotal":    value.Int(2),
			"chunkUploaded": value.Int(int64(chunk.Index + 1)),
		}, nil
	}
	var last UploadProgress

	_, err := newTestUploader(4).Upload(context.Background(), strings.NewReader("12345678"), 8, send, func(p UploadProgress) {
		last = p
	})
	require.NoError(t, err)
	assert.Equal(t, UploadProgress{ID: "legacy", Progress: 100, SizeUploaded: 8, ChunksTotal: 2, ChunksUploaded: 2}, last)
}

func TestUploader_Upload_AbortsOnError(t *testing.T) {
	apiErr := errors.New("storage_file_type_unsupported")
	sender := &recordingSender{failAt: 1, err: apiErr}
	var calls int

	_, err := newTestUploader(10).Upload(context.Background(), bytes.NewReader(make([]byte, 35)), 35, sender.send, func(UploadProgress) {
		calls++
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apiErr))
	assert.Len(t, sender.chunks, 1, "no chunk may be sent after a failure")
	assert.Equal(t, 1, calls, "progress must not be reported for the failed chunk")
}

func TestUploader_Upload_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	send := func(_ context.Context, chunk Chunk) (value.Map, error) {
		cancel()
		return value.Map{"$id": value.String("abc")}, nil
	}

	_, err := newTestUploader(10).Upload(ctx, bytes.NewReader(make([]byte, 30)), 30, send, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestUploader_Upload_SizeMismatch(t *testing.T) {
	sender := &recordingSender{}

	_, err := newTestUploader(10).Upload(context.Background(), bytes.NewReader(make([]byte, 25)), 20, sender.send, nil)
	assert.Error(t, err, "input longer than declared")

	_, err = newTestUploader(10).Upload(context.Background(), bytes.NewReader(make([]byte, 15)), 20, sender.send, nil)
	assert.Error(t, err, "input shorter than declared")

	_, err = newTestUploader(10).Upload(context.Background(), bytes.NewReader(nil), 20, sender.send, nil)
	assert.Error(t, err, "empty input")
}

func TestUploader_Upload_InvalidConfig(t *testing.T) {
	sender := &recordingSender{}

	_, err := newTestUploader(0).Upload(context.Background(), bytes.NewReader(make([]byte, 5)), 5, sender.send, nil)
	assert.Error(t, err)

	_, err = newTestUploader(10).Upload(context.Background(), bytes.NewReader(nil), 0, sender.send, nil)
	assert.Error(t, err)
	assert.Empty(t, sender.chunks)
}

func TestUploader_Stats(t *testing.T) {
	sender := &recordingSender{}
	uploader := newTestUploader(4)

	_, err := uploader.Upload(context.Background(), strings.NewReader("0123456789"), 10, sender.send, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(3), uploader.Stats().FinishedCount())
	assert.Equal(t, int64(10), uploader.Stats().Bytes())
}

func TestParseChunkSize(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "5MiB", want: 5 * 1024 * 1024},
		{in: "8mb", want: 8 * 1024 * 1024},
		{in: "1048576", want: 1048576},
		{in: "0", wantErr: true},
		{in: "lots", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseChunkSize(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUploader_Upload_Logging(t *testing.T) {
	mockLogger := new(mocks.Logger)
	// Before and after each chunk, then once for the summary.
	mockLogger.On("Debugf", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return().Times(2)
	mockLogger.On("Debugf", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return().Times(2)
	mockLogger.On("Infof", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return().Once()

	uploader := New(Config{ChunkSize: 4}, mockLogger)
	sender := &recordingSender{total: 2}

	_, err := uploader.Upload(context.Background(), strings.NewReader("12345678"), 8, sender.send, nil)
	require.NoError(t, err)

	mockLogger.AssertExpectations(t)
}
