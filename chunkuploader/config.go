package chunkuploader

import (
	"fmt"

	"github.com/docker/go-units"
)

// DefaultChunkSize is the upper bound of a single chunk: 5 MiB.
const DefaultChunkSize int64 = 5 * units.MiB

// Config holds configuration for the chunk uploader.
type Config struct {
	// ChunkSize is the maximum number of bytes sent in one request.
	// Inputs smaller than ChunkSize are sent in a single request.
	// Default: 5 MiB
	ChunkSize int64
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		ChunkSize: DefaultChunkSize,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", c.ChunkSize)
	}
	return nil
}

// ParseChunkSize parses a human readable size such as "5MiB", "8mb" or
// "1048576". Units are binary.
func ParseChunkSize(s string) (int64, error) {
	size, err := units.RAMInBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid chunk size %q: %w", s, err)
	}
	if size <= 0 {
		return 0, fmt.Errorf("chunk size must be positive, got %q", s)
	}
	return size, nil
}
