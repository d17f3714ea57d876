package fs

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "state.json")

	err := WriteFileAtomic(NewRealFS(), path, []byte("hello"), 0o644)
	if err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read back file: %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("content = %q, want %q", got, "hello")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Mode().Perm() != 0o644 {
		t.Errorf("perm = %o, want %o", info.Mode().Perm(), 0o644)
	}

	// No temp files left behind
	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("read dir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 entry in dir, got %d", len(entries))
	}
}

func TestWriteFileAtomic_CreatesParentDir(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "deep", "state.json")

	err := WriteFileAtomic(NewRealFS(), path, []byte("x"), 0o644)
	if err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("file not created: %v", err)
	}
}

func TestWriteFileAtomic_ReplacesExisting(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "state.json")

	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	if err := WriteFileAtomic(NewRealFS(), path, []byte("new"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read back file: %v", err)
	}
	if string(got) != "new" {
		t.Errorf("content = %q, want %q", got, "new")
	}
}

// failWriter fails every write, simulating a full disk.
type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }
func (failWriter) Close() error              { return nil }

// cleanupFS wraps a real FS but hands out a failing temp writer and records
// Remove calls.
type cleanupFS struct {
	FS
	removed []string
}

func (c *cleanupFS) CreateTemp(dir, pattern string) (string, io.WriteCloser, error) {
	return filepath.Join(dir, "stub.tmp"), failWriter{}, nil
}

func (c *cleanupFS) Remove(path string) error {
	c.removed = append(c.removed, path)
	return nil
}

func TestWriteFileAtomic_RemovesTempOnWriteFailure(t *testing.T) {
	tmpDir := t.TempDir()
	fsys := &cleanupFS{FS: NewRealFS()}
	path := filepath.Join(tmpDir, "state.json")

	err := WriteFileAtomic(fsys, path, []byte("x"), 0o644)
	if err == nil {
		t.Fatal("expected error from failing writer")
	}
	if !strings.Contains(err.Error(), "write temp file") {
		t.Errorf("error = %q, want write temp file context", err)
	}
	if len(fsys.removed) != 1 {
		t.Fatalf("expected 1 Remove call, got %d", len(fsys.removed))
	}
	if fsys.removed[0] != filepath.Join(tmpDir, "stub.tmp") {
		t.Errorf("removed %q, want temp path", fsys.removed[0])
	}
}

func TestWriteJSONAtomic(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "out.json")

	v := map[string]int{"count": 3}
	if err := WriteJSONAtomic(path, v, 0o644); err != nil {
		t.Fatalf("WriteJSONAtomic failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read back file: %v", err)
	}
	want := "{\n  \"count\": 3\n}\n"
	if string(data) != want {
		t.Errorf("content = %q, want %q", data, want)
	}
}

func TestUnmarshalJSON_RejectsUnknownFields(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}

	err := UnmarshalJSON([]byte(`{"name":"a","bogus":1}`), &v)
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
	if !strings.Contains(err.Error(), "bogus") {
		t.Errorf("error = %q, want mention of unknown field", err)
	}
}

func TestUnmarshalJSON_KnownFields(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}

	if err := UnmarshalJSON([]byte(`{"name":"a"}`), &v); err != nil {
		t.Fatalf("UnmarshalJSON failed: %v", err)
	}
	if v.Name != "a" {
		t.Errorf("Name = %q, want %q", v.Name, "a")
	}
}

func TestRealFS_CreateTemp(t *testing.T) {
	tmpDir := t.TempDir()
	fsys := NewRealFS()

	name, w, err := fsys.CreateTemp(tmpDir, "x-*.tmp")
	if err != nil {
		t.Fatalf("CreateTemp failed: %v", err)
	}
	if !strings.HasPrefix(name, filepath.Join(tmpDir, "x-")) {
		t.Errorf("temp name = %q, want prefix under dir", name)
	}

	if _, err := w.Write([]byte("data")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	got, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if string(got) != "data" {
		t.Errorf("content = %q, want %q", got, "data")
	}
}
