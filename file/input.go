// Package file provides the file inputs accepted by upload operations.
package file

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"path/filepath"

	"github.com/appwrite-go/client-go/internal"
)

const defaultMimeType = "application/octet-stream"

// Source is an opened file input.
type Source interface {
	io.Reader
	io.Closer
	// Size returns the total number of bytes the source will yield.
	Size() int64
}

// InputFile is a file to be uploaded, backed either by a path on disk or
// by an in-memory buffer.
type InputFile struct {
	path     string
	data     []byte
	name     string
	mimeType string
	osProxy  internal.OsProxy
}

// FromPath creates an InputFile reading from the file at path.
// The file is opened lazily by Open.
func FromPath(path string) *InputFile {
	return &InputFile{
		path:     path,
		name:     filepath.Base(path),
		mimeType: mimeTypeOf(path),
		osProxy:  internal.RealOS{},
	}
}

// FromBytes creates an InputFile from an in-memory buffer.
// An empty mimeType is derived from the name's extension.
func FromBytes(data []byte, name, mimeType string) *InputFile {
	if mimeType == "" {
		mimeType = mimeTypeOf(name)
	}
	return &InputFile{
		data:     data,
		name:     name,
		mimeType: mimeType,
	}
}

// WithMimeType overrides the detected content type.
func (f *InputFile) WithMimeType(mimeType string) *InputFile {
	f.mimeType = mimeType
	return f
}

// Name is the filename sent with every file part.
func (f *InputFile) Name() string { return f.name }

// MimeType is the content type sent with every file part.
func (f *InputFile) MimeType() string { return f.mimeType }

// Path returns the backing path, empty for in-memory inputs.
func (f *InputFile) Path() string { return f.path }

// Open opens the input for reading. The caller must close the returned Source.
func (f *InputFile) Open() (Source, error) {
	if f.path == "" {
		return &bufferSource{Reader: bytes.NewReader(f.data), size: int64(len(f.data))}, nil
	}

	info, err := f.osProxy.Stat(f.path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", f.path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", f.path)
	}

	file, err := f.osProxy.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.path, err)
	}
	return &diskSource{ReadCloser: file, size: info.Size()}, nil
}

// Part returns a file part carrying data under this input's filename and
// content type.
func (f *InputFile) Part(data []byte) *Part {
	return &Part{
		Filename:    f.name,
		ContentType: f.mimeType,
		Data:        data,
	}
}

type bufferSource struct {
	*bytes.Reader
	size int64
}

func (s *bufferSource) Close() error { return nil }
func (s *bufferSource) Size() int64  { return s.size }

type diskSource struct {
	io.ReadCloser
	size int64
}

func (s *diskSource) Size() int64 { return s.size }

func mimeTypeOf(name string) string {
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	return defaultMimeType
}
