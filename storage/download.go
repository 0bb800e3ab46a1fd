package storage

import (
	"context"
	"fmt"
	"net/http"

	"github.com/melbahja/got"
)

// DownloadFile saves a file's content to dest. The client's persistent
// headers authenticate the download.
func (s *Service) DownloadFile(ctx context.Context, bucketID, fileID, dest string) error {
	if dest == "" {
		return fmt.Errorf("destination path is empty")
	}

	logger := s.client.Logger()
	logger.Debugf("Download %s/%s to %s", bucketID, fileID, dest)

	if err := downloadFile(ctx, s.client.StandardClient(), s.downloadURL(bucketID, fileID), dest, s.client.Headers()); err != nil {
		return fmt.Errorf("failed to download file %s: %w", fileID, err)
	}
	return nil
}

func downloadFile(ctx context.Context, client *http.Client, url, dest string, headers map[string]string) error {
	downloader := got.New()
	downloader.Client = client

	download := got.NewDownload(ctx, url, dest)
	for k, v := range headers {
		download.Header = append(download.Header, got.GotHeader{Key: k, Value: v})
	}

	return downloader.Do(download)
}
