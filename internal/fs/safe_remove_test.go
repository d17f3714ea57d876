package fs

import (
	"os"
	"path/filepath"
	"testing"
)

func mkdir(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatal(err)
	}
}

func TestSafeRemoveAll_RemovesSubpath(t *testing.T) {
	root := t.TempDir()
	dataDir := filepath.Join(root, "home", ".attest")
	mkdir(t, dataDir)
	if err := os.WriteFile(filepath.Join(dataDir, "claims.json"), []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := SafeRemoveAll(dataDir, filepath.Join(root, "home")); err != nil {
		t.Fatalf("SafeRemoveAll: %v", err)
	}
	if _, err := os.Stat(dataDir); !os.IsNotExist(err) {
		t.Error("data dir still exists after removal")
	}
}

func TestSafeRemoveAll_MissingTargetIsNoOp(t *testing.T) {
	root := t.TempDir()
	if err := SafeRemoveAll(filepath.Join(root, "absent"), root); err != nil {
		t.Errorf("SafeRemoveAll on missing target: %v", err)
	}
}

func TestSafeRemoveAll_Refusals(t *testing.T) {
	tests := []struct {
		name   string
		target func(root string) string
		prefix func(root string) string
	}{
		{
			name:   "target outside prefix",
			target: func(root string) string { return filepath.Join(root, "elsewhere") },
			prefix: func(root string) string { return filepath.Join(root, "guarded") },
		},
		{
			name:   "target equals prefix",
			target: func(root string) string { return filepath.Join(root, "guarded") },
			prefix: func(root string) string { return filepath.Join(root, "guarded") },
		},
		{
			name:   "parent traversal",
			target: func(root string) string { return filepath.Join(root, "guarded", "..", "elsewhere") },
			prefix: func(root string) string { return filepath.Join(root, "guarded") },
		},
		{
			name:   "prefix does not exist",
			target: func(root string) string { return filepath.Join(root, "elsewhere") },
			prefix: func(root string) string { return filepath.Join(root, "no-such-dir") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			mkdir(t, filepath.Join(root, "guarded"))
			mkdir(t, filepath.Join(root, "elsewhere"))

			target := tt.target(root)
			err := SafeRemoveAll(target, tt.prefix(root))
			if err == nil {
				t.Fatal("expected refusal, got nil")
			}
			if _, ok := err.(*ErrNotUnderPrefix); !ok {
				t.Errorf("expected *ErrNotUnderPrefix, got %T: %v", err, err)
			}
			if _, err := os.Stat(filepath.Join(root, "elsewhere")); os.IsNotExist(err) {
				t.Error("refused target was removed anyway")
			}
		})
	}
}

func TestSafeRemoveAll_SymlinkOutsidePrefixRefused(t *testing.T) {
	root := t.TempDir()
	guarded := filepath.Join(root, "guarded")
	victim := filepath.Join(root, "victim")
	mkdir(t, guarded)
	mkdir(t, victim)

	link := filepath.Join(guarded, "link")
	if err := os.Symlink(victim, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	if err := SafeRemoveAll(link, guarded); err == nil {
		t.Fatal("expected refusal for symlink escaping the prefix")
	}
	if _, err := os.Stat(victim); os.IsNotExist(err) {
		t.Error("symlink target was removed")
	}
}

func TestIsProperSubpath(t *testing.T) {
	tests := []struct {
		name   string
		target string
		prefix string
		want   bool
	}{
		{"nested subpath", "/a/b/c/d", "/a/b", true},
		{"direct child", "/a/b/c", "/a/b", true},
		{"equal paths", "/a/b", "/a/b", false},
		{"outside prefix", "/a/c", "/a/b", false},
		{"partial name match", "/a/bcd", "/a/b", false},
		{"root prefix", "/a", "/", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isProperSubpath(tt.target, tt.prefix)
			if got != tt.want {
				t.Errorf("isProperSubpath(%q, %q) = %v, want %v", tt.target, tt.prefix, got, tt.want)
			}
		})
	}
}
