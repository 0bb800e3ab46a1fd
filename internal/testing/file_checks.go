package testing

import (
	"fmt"
	"os"
)

// FileChecker allows chaining multiple checks on a file path.
type FileChecker struct {
	Path   string
	Checks []func(string) error
}

// NewFileChecker creates a FileChecker for the given path.
func NewFileChecker(path string) *FileChecker {
	return &FileChecker{Path: path, Checks: []func(string) error{}}
}

// Check runs all checks and returns every failure as a MultiError.
func (fc *FileChecker) Check() error {
	errs := MultiError{}
	for _, check := range fc.Checks {
		AppendErr(&errs, check(fc.Path))
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// IsFile adds a check that the path is a regular file.
func (fc *FileChecker) IsFile() *FileChecker {
	fc.Checks = append(fc.Checks, func(path string) error {
		info, err := getInfo(path)
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return fmt.Errorf("expected regular file: %s", path)
		}
		return nil
	})
	return fc
}

// Size adds a check that the file at the path is size bytes long.
func (fc *FileChecker) Size(size int64) *FileChecker {
	fc.Checks = append(fc.Checks, func(path string) error {
		info, err := getInfo(path)
		if err != nil {
			return err
		}
		if info.Size() != size {
			return fmt.Errorf("size mismatch for %s: want %d got %d", path, size, info.Size())
		}
		return nil
	})
	return fc
}

// Content adds a check that the file at the path has the specified content.
func (fc *FileChecker) Content(content string) *FileChecker {
	fc.Checks = append(fc.Checks, func(path string) error {
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if string(b) != content {
			return fmt.Errorf("file %s content mismatch: want %d bytes, got %d bytes", path, len(content), len(b))
		}
		return nil
	})
	return fc
}

func getInfo(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("path does not exist: %s", path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return info, nil
}
