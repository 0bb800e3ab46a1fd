package testing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileChecker(t *testing.T) {
	dir := t.TempDir()
	pth := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(pth, []byte("abc"), 0600))

	assert.NoError(t, NewFileChecker(pth).IsFile().Size(3).Content("abc").Check())

	err := NewFileChecker(dir).IsFile().Size(3).Check()
	require.Error(t, err)
	multi, ok := err.(MultiError)
	require.True(t, ok)
	assert.Len(t, multi, 2)

	assert.Error(t, NewFileChecker(filepath.Join(dir, "missing")).IsFile().Check())
}
