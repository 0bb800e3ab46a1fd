package storage

import (
	"fmt"

	"github.com/appwrite-go/client-go/value"
)

// File is a stored file's metadata.
type File struct {
	ID             string   `json:"$id"`
	BucketID       string   `json:"bucketId"`
	CreatedAt      string   `json:"$createdAt"`
	UpdatedAt      string   `json:"$updatedAt"`
	Permissions    []string `json:"$permissions"`
	Name           string   `json:"name"`
	Signature      string   `json:"signature"`
	MimeType       string   `json:"mimeType"`
	SizeOriginal   int64    `json:"sizeOriginal"`
	ChunksTotal    int64    `json:"chunksTotal"`
	ChunksUploaded int64    `json:"chunksUploaded"`
}

// FileList is a page of files.
type FileList struct {
	Total int64  `json:"total"`
	Files []File `json:"files"`
}

// FileFromMap converts a decoded response into a File.
func FileFromMap(m value.Map) (*File, error) {
	id := m.String("$id")
	if id == "" {
		return nil, fmt.Errorf("file response has no $id")
	}

	return &File{
		ID:             id,
		BucketID:       m.String("bucketId"),
		CreatedAt:      m.String("$createdAt"),
		UpdatedAt:      m.String("$updatedAt"),
		Permissions:    m.Strings("$permissions"),
		Name:           m.String("name"),
		Signature:      m.String("signature"),
		MimeType:       m.String("mimeType"),
		SizeOriginal:   m.Int64("sizeOriginal"),
		ChunksTotal:    m.Int64("chunksTotal"),
		ChunksUploaded: m.Int64("chunksUploaded"),
	}, nil
}

// FileListFromMap converts a decoded list response into a FileList.
func FileListFromMap(m value.Map) (*FileList, error) {
	items := m.Array("files")
	list := &FileList{
		Total: m.Int64("total"),
		Files: make([]File, 0, len(items)),
	}

	for i, item := range items {
		fm, ok := item.AsMap()
		if !ok {
			return nil, fmt.Errorf("files[%d]: expected object, got %s", i, item.Kind())
		}
		f, err := FileFromMap(fm)
		if err != nil {
			return nil, fmt.Errorf("files[%d]: %w", i, err)
		}
		list.Files = append(list.Files, *f)
	}

	return list, nil
}
