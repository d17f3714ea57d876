package checks

import (
	"bytes"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/attestkit/attest/internal/errors"
	"github.com/attestkit/attest/internal/exec"
	"github.com/attestkit/attest/internal/fs"
)

// Manifest check kinds.
const (
	KindFileExists   = "file_exists"
	KindFileContains = "file_contains"
	KindCommand      = "command"
	KindOutputLines  = "output_lines"
)

// Entry is one check definition in the checks.yaml manifest. The manifest is
// an ordered list of entries; which params are required depends on the kind.
type Entry struct {
	Name     string   `yaml:"name"`
	Kind     string   `yaml:"kind"`
	Path     string   `yaml:"path,omitempty"`
	Paths    []string `yaml:"paths,omitempty"`
	Marker   string   `yaml:"marker,omitempty"`
	Command  string   `yaml:"command,omitempty"`
	MinLines int      `yaml:"min_lines,omitempty"`
}

// LoadManifest reads the checks.yaml manifest at path and builds its check
// list. Returns found=false when the file does not exist so the caller can
// fall back to the builtin defaults. Every entry is validated before any
// check runs; an unknown kind or missing param is an E_CONFIG error.
func LoadManifest(fsys fs.FS, runner exec.CommandRunner, path string) ([]Check, bool, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errors.Wrap(errors.EConfig, "failed to read checks manifest", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var entries []Entry
	if err := dec.Decode(&entries); err != nil && err != io.EOF {
		return nil, false, errors.New(errors.EConfig, "invalid yaml: "+err.Error())
	}

	list := make([]Check, 0, len(entries))
	for i, e := range entries {
		c, err := buildEntry(fsys, runner, i, e)
		if err != nil {
			return nil, false, err
		}
		list = append(list, c)
	}
	return list, true, nil
}

func buildEntry(fsys fs.FS, runner exec.CommandRunner, index int, e Entry) (Check, error) {
	if e.Name == "" {
		return Check{}, errors.NewWithDetails(errors.EConfig, "check entry missing name",
			map[string]string{"index": strconv.Itoa(index)})
	}
	switch e.Kind {
	case KindFileExists:
		paths := e.Paths
		if e.Path != "" {
			paths = append([]string{e.Path}, paths...)
		}
		if len(paths) == 0 {
			return Check{}, entryErr(e, "file_exists check needs path or paths")
		}
		return FileExists(fsys, e.Name, e.Name+" missing", paths...), nil
	case KindFileContains:
		if e.Path == "" || e.Marker == "" {
			return Check{}, entryErr(e, "file_contains check needs path and marker")
		}
		return FileContains(fsys, e.Name, e.Path, e.Marker), nil
	case KindCommand:
		if e.Command == "" {
			return Check{}, entryErr(e, "command check needs command")
		}
		return Command(runner, e.Name, e.Command, e.Name+" failed"), nil
	case KindOutputLines:
		if e.Command == "" {
			return Check{}, entryErr(e, "output_lines check needs command")
		}
		if e.MinLines < 1 {
			return Check{}, entryErr(e, "output_lines check needs min_lines of at least 1")
		}
		return OutputLines(runner, e.Name, e.Command, e.MinLines,
			e.Name+" failed", "insufficient output from "+e.Name), nil
	default:
		return Check{}, entryErr(e, "unknown check kind: "+e.Kind)
	}
}

func entryErr(e Entry, msg string) error {
	return errors.NewWithDetails(errors.EConfig, msg, map[string]string{"check": e.Name})
}
