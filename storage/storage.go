// Package storage manages files stored in buckets.
package storage

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/appwrite-go/client-go/chunkuploader"
	"github.com/appwrite-go/client-go/client"
	"github.com/appwrite-go/client-go/file"
	"github.com/appwrite-go/client-go/value"
)

// Service exposes the storage endpoints.
type Service struct {
	client *client.Client
}

// New creates a storage Service using c.
func New(c *client.Client) *Service {
	return &Service{client: c}
}

func bucketFilesPath(bucketID string) string {
	return "/storage/buckets/" + url.PathEscape(bucketID) + "/files"
}

func filePath(bucketID, fileID string) string {
	return bucketFilesPath(bucketID) + "/" + url.PathEscape(fileID)
}

// CreateFile uploads input into the bucket. Inputs larger than the client's
// chunk size are uploaded in chunks and onProgress is called after each one.
// Use id.Unique() as fileID to let the server pick one.
func (s *Service) CreateFile(ctx context.Context, bucketID, fileID string, input *file.InputFile, permissions []string, onProgress chunkuploader.ProgressFunc) (*File, error) {
	if bucketID == "" {
		return nil, fmt.Errorf("bucket id is empty")
	}
	if fileID == "" {
		return nil, fmt.Errorf("file id is empty")
	}
	if input == nil {
		return nil, fmt.Errorf("input file is nil")
	}

	req := client.Request{
		Method:  http.MethodPost,
		Path:    bucketFilesPath(bucketID),
		Headers: map[string]string{"content-type": "multipart/form-data"},
		Params: client.Params{
			"fileId":      fileID,
			"file":        input,
			"permissions": permissions,
		},
	}

	return client.Upload(ctx, s.client, req, "file", onProgress, FileFromMap)
}

// GetFile returns a file's metadata.
func (s *Service) GetFile(ctx context.Context, bucketID, fileID string) (*File, error) {
	return client.Call(ctx, s.client, client.Request{
		Method: http.MethodGet,
		Path:   filePath(bucketID, fileID),
	}, FileFromMap)
}

// ListFiles lists the files of a bucket. queries are built with the query
// package; an empty search is not sent.
func (s *Service) ListFiles(ctx context.Context, bucketID string, queries []string, search string) (*FileList, error) {
	params := client.Params{
		"queries": queries,
	}
	if search != "" {
		params["search"] = search
	}

	return client.Call(ctx, s.client, client.Request{
		Method: http.MethodGet,
		Path:   bucketFilesPath(bucketID),
		Params: params,
	}, FileListFromMap)
}

// UpdateFile renames a file and replaces its permissions. A nil name or nil
// permissions leaves the field unchanged.
func (s *Service) UpdateFile(ctx context.Context, bucketID, fileID string, name *string, permissions []string) (*File, error) {
	return client.Call(ctx, s.client, client.Request{
		Method: http.MethodPut,
		Path:   filePath(bucketID, fileID),
		Params: client.Params{
			"name":        name,
			"permissions": permissions,
		},
	}, FileFromMap)
}

// DeleteFile deletes a file.
func (s *Service) DeleteFile(ctx context.Context, bucketID, fileID string) (bool, error) {
	return client.Call[bool](ctx, s.client, client.Request{
		Method: http.MethodDelete,
		Path:   filePath(bucketID, fileID),
	}, nil)
}

// GetFileDownload returns a file's content with a download disposition.
func (s *Service) GetFileDownload(ctx context.Context, bucketID, fileID string) ([]byte, error) {
	return client.Call[[]byte](ctx, s.client, client.Request{
		Method: http.MethodGet,
		Path:   filePath(bucketID, fileID) + "/download",
	}, nil)
}

// GetFileView returns a file's content with an inline disposition.
func (s *Service) GetFileView(ctx context.Context, bucketID, fileID string) ([]byte, error) {
	return client.Call[[]byte](ctx, s.client, client.Request{
		Method: http.MethodGet,
		Path:   filePath(bucketID, fileID) + "/view",
	}, nil)
}

// GetFileRaw returns the decoded response of the file endpoint, for fields
// File does not expose.
func (s *Service) GetFileRaw(ctx context.Context, bucketID, fileID string) (value.Map, error) {
	return client.Call[value.Map](ctx, s.client, client.Request{
		Method: http.MethodGet,
		Path:   filePath(bucketID, fileID),
	}, nil)
}

func (s *Service) downloadURL(bucketID, fileID string) string {
	return strings.TrimRight(s.client.Endpoint(), "/") + filePath(bucketID, fileID) + "/download"
}
