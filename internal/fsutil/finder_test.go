package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFilesByExtension(t *testing.T) {
	t.Parallel()

	// Arrange
	root := t.TempDir()
	for _, name := range []string{
		"b.hcl",
		"a.HCL",
		"notes.txt",
		filepath.Join("providers", "flight.hcl"),
		filepath.Join(".git", "ignored.hcl"),
	} {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, nil, 0o600))
	}

	// Act
	files, err := FindFilesByExtension(root, ".hcl")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.HCL"),
		filepath.Join(root, "b.hcl"),
		filepath.Join(root, "providers", "flight.hcl"),
	}, files)
}

func TestFindFilesByExtension_Errors(t *testing.T) {
	t.Parallel()

	_, err := FindFilesByExtension(t.TempDir(), "")
	require.ErrorContains(t, err, "extension must not be empty")

	_, err = FindFilesByExtension(filepath.Join(t.TempDir(), "missing"), ".hcl")
	require.Error(t, err)
}
