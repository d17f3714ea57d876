// Package fs provides the filesystem abstraction and atomic write helpers
// used across attest. All state files are written via temp-file-plus-rename
// so readers never observe a partial write.
package fs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
)

// FS abstracts the filesystem operations attest needs so they can be
// stubbed in tests.
type FS interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm os.FileMode) error
	MkdirAll(path string, perm os.FileMode) error
	Stat(path string) (iofs.FileInfo, error)
	Rename(oldPath, newPath string) error
	Remove(path string) error
	Chmod(path string, perm os.FileMode) error
	CreateTemp(dir, pattern string) (string, io.WriteCloser, error)
}

// RealFS implements FS against the host filesystem.
type RealFS struct{}

// NewRealFS returns an FS backed by the os package.
func NewRealFS() FS {
	return &RealFS{}
}

func (*RealFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (*RealFS) WriteFile(path string, data []byte, perm os.FileMode) error {
	return os.WriteFile(path, data, perm)
}

func (*RealFS) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (*RealFS) Stat(path string) (iofs.FileInfo, error) {
	return os.Stat(path)
}

func (*RealFS) Rename(oldPath, newPath string) error {
	return os.Rename(oldPath, newPath)
}

func (*RealFS) Remove(path string) error {
	return os.Remove(path)
}

func (*RealFS) Chmod(path string, perm os.FileMode) error {
	return os.Chmod(path, perm)
}

func (*RealFS) CreateTemp(dir, pattern string) (string, io.WriteCloser, error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", nil, err
	}
	return f.Name(), f, nil
}

// WriteFileAtomic writes data to path through a temp file in the same
// directory followed by a rename. The destination directory is created if
// missing. On any failure the temp file is removed.
func WriteFileAtomic(fsys FS, path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}

	tmpPath, w, err := fsys.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}

	if _, err := w.Write(data); err != nil {
		w.Close()
		_ = fsys.Remove(tmpPath)
		return fmt.Errorf("write temp file %s: %w", tmpPath, err)
	}
	if err := w.Close(); err != nil {
		_ = fsys.Remove(tmpPath)
		return fmt.Errorf("close temp file %s: %w", tmpPath, err)
	}

	// CreateTemp uses 0600; fix up to the requested mode before publishing.
	if err := fsys.Chmod(tmpPath, perm); err != nil {
		_ = fsys.Remove(tmpPath)
		return fmt.Errorf("chmod temp file %s: %w", tmpPath, err)
	}

	if err := fsys.Rename(tmpPath, path); err != nil {
		_ = fsys.Remove(tmpPath)
		return fmt.Errorf("rename %s to %s: %w", tmpPath, path, err)
	}
	return nil
}

// WriteJSONAtomic marshals v with two-space indentation and writes it
// atomically to path on the real filesystem.
func WriteJSONAtomic(path string, v any, perm os.FileMode) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json for %s: %w", path, err)
	}
	data = append(data, '\n')
	return WriteFileAtomic(NewRealFS(), path, data, perm)
}

// UnmarshalJSON decodes data into v, rejecting unknown fields so corrupt or
// hand-edited state files fail loudly instead of being silently misread.
func UnmarshalJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
