package fileutil

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bin")
	require.NoError(t, WriteBytes(path, []byte("s3\n")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, []byte("s3\n"), got)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	require.NoError(t, WriteBytes(path, []byte("replaced")))
	got, err = os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, []byte("replaced"), got)
}

func TestWriteFileFailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bin")
	boom := errors.New("boom")

	err := WriteFile(path, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return boom
	})
	require.ErrorIs(t, err, boom)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestWriteFileFailureKeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bin")
	require.NoError(t, WriteBytes(path, []byte("old")))

	err := WriteFile(path, func(io.Writer) error { return errors.New("fail") })
	require.Error(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, []byte("old"), got)
}

func TestWriteFileMissingDir(t *testing.T) {
	err := WriteBytes(filepath.Join(t.TempDir(), "nope", "out.bin"), []byte("x"))
	require.Error(t, err)
}
