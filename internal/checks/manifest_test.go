package checks

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/attestkit/attest/internal/errors"
	"github.com/attestkit/attest/internal/fs"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "checks.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadManifest_Absent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checks.yaml")

	list, found, err := LoadManifest(fs.NewRealFS(), &stubRunner{}, path)
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	if found {
		t.Error("found = true, want false")
	}
	if list != nil {
		t.Errorf("list = %v, want nil", list)
	}
}

func TestLoadManifest_BuildsOrderedChecks(t *testing.T) {
	path := writeManifest(t, `
- name: store
  kind: file_exists
  path: /data/store.db
- name: notes
  kind: file_contains
  path: /data/NOTES.md
  marker: MANDATORY
- name: tool
  kind: command
  command: which git
- name: workers
  kind: output_lines
  command: pgrep -af worker
  min_lines: 2
`)

	list, found, err := LoadManifest(fs.NewRealFS(), &stubRunner{}, path)
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	if !found {
		t.Fatal("found = false, want true")
	}
	want := []string{"store", "notes", "tool", "workers"}
	if diff := cmp.Diff(want, checkNames(list)); diff != "" {
		t.Errorf("check names mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadManifest_EmptyFileYieldsNoChecks(t *testing.T) {
	path := writeManifest(t, "")

	list, found, err := LoadManifest(fs.NewRealFS(), &stubRunner{}, path)
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	if !found {
		t.Error("found = false, want true")
	}
	if len(list) != 0 {
		t.Errorf("list = %v, want empty", list)
	}
}

func TestLoadManifest_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{
			name:    "malformed yaml",
			content: "\t- name: x\n",
			wantMsg: "invalid yaml",
		},
		{
			name:    "unknown field",
			content: "- name: x\n  kind: command\n  command: ls\n  extra: y\n",
			wantMsg: "invalid yaml",
		},
		{
			name:    "missing name",
			content: "- kind: command\n  command: ls\n",
			wantMsg: "check entry missing name",
		},
		{
			name:    "unknown kind",
			content: "- name: x\n  kind: socket_open\n",
			wantMsg: "unknown check kind: socket_open",
		},
		{
			name:    "file_exists without path",
			content: "- name: x\n  kind: file_exists\n",
			wantMsg: "file_exists check needs path or paths",
		},
		{
			name:    "file_contains without marker",
			content: "- name: x\n  kind: file_contains\n  path: /a\n",
			wantMsg: "file_contains check needs path and marker",
		},
		{
			name:    "command without command",
			content: "- name: x\n  kind: command\n",
			wantMsg: "command check needs command",
		},
		{
			name:    "output_lines without min_lines",
			content: "- name: x\n  kind: output_lines\n  command: ls\n",
			wantMsg: "output_lines check needs min_lines of at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, tt.content)
			_, _, err := LoadManifest(fs.NewRealFS(), &stubRunner{}, path)
			if err == nil {
				t.Fatal("LoadManifest succeeded, want error")
			}
			if code := errors.GetCode(err); code != errors.EConfig {
				t.Errorf("code = %s, want %s", code, errors.EConfig)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want substring %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestLoadManifest_RejectsBeforeAnyCheckRuns(t *testing.T) {
	runner := &stubRunner{}
	path := writeManifest(t, `
- name: tool
  kind: command
  command: which git
- name: bogus
  kind: socket_open
`)

	_, _, err := LoadManifest(fs.NewRealFS(), runner, path)
	if err == nil {
		t.Fatal("LoadManifest succeeded, want error")
	}
	if len(runner.calls) != 0 {
		t.Errorf("runner calls = %v, want none", runner.calls)
	}
}

func TestLoadManifest_ChecksAreRunnable(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "store.db")
	writeFile(t, target, "x")
	path := writeManifest(t, "- name: store\n  kind: file_exists\n  path: "+target+"\n")

	list, _, err := LoadManifest(fs.NewRealFS(), &stubRunner{}, path)
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	ok, violation, err := list[0].Run(context.Background())
	if err != nil || !ok || violation != "" {
		t.Errorf("got (%v, %q, %v), want (true, \"\", nil)", ok, violation, err)
	}
}
