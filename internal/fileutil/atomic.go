// Package fileutil replaces files atomically so that a failed run never
// leaves a partial output behind.
package fileutil

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
)

const writeBufferSize = 256 * 1024

// WriteFile writes the output of writeFunc to filename.
//
// The data goes to a temporary file in the same directory, which is synced
// and renamed over filename only when writeFunc and every flush succeed. On
// any error the temporary file is removed and an existing filename is left
// untouched.
func WriteFile(filename string, writeFunc func(io.Writer) error) error {
	dir := filepath.Dir(filename)
	base := filepath.Base(filename)

	tmp, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	_ = tmp.Chmod(0o644)

	buf := bufio.NewWriterSize(tmp, writeBufferSize)
	if err := writeFunc(buf); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpName, filename); err != nil {
		return err
	}

	// make the rename durable on POSIX
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}

	return nil
}

// WriteBytes atomically writes data to filename.
func WriteBytes(filename string, data []byte) error {
	return WriteFile(filename, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}
