package checks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/attestkit/attest/internal/exec"
	"github.com/attestkit/attest/internal/fs"
)

// FileExists builds a check that passes when every listed path exists.
// When more than one path is probed the violation names the missing ones.
func FileExists(fsys fs.FS, name, violation string, paths ...string) Check {
	return Check{Name: name, Run: func(ctx context.Context) (bool, string, error) {
		var missing []string
		for _, p := range paths {
			if _, err := fsys.Stat(p); err != nil {
				if os.IsNotExist(err) {
					missing = append(missing, p)
					continue
				}
				return false, "", err
			}
		}
		if len(missing) == 0 {
			return true, "", nil
		}
		if len(paths) > 1 {
			return false, fmt.Sprintf("%s: %v", violation, missing), nil
		}
		return false, violation, nil
	}}
}

// FileContains builds a check that passes when path exists and holds the
// marker substring. Violations are derived from the file name:
// "<base> missing" when absent, "<base> incomplete" when the marker is not found.
func FileContains(fsys fs.FS, name, path, marker string) Check {
	base := filepath.Base(path)
	return Check{Name: name, Run: func(ctx context.Context) (bool, string, error) {
		data, err := fsys.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return false, base + " missing", nil
			}
			return false, "", err
		}
		if !strings.Contains(string(data), marker) {
			return false, base + " incomplete", nil
		}
		return true, "", nil
	}}
}

// Command builds a check that passes when the shell command exits 0.
func Command(runner exec.CommandRunner, name, command, violation string) Check {
	return Check{Name: name, Run: func(ctx context.Context) (bool, string, error) {
		res, err := runner.Run(ctx, command, 0)
		if err != nil {
			return false, "", err
		}
		if res.TimedOut || res.ExitCode != 0 {
			return false, violation, nil
		}
		return true, "", nil
	}}
}

// OutputLines builds a check that passes when the shell command exits 0 and
// prints at least minLines non-empty lines. violationExit reports a command
// failure, violationShort reports output below the threshold.
func OutputLines(runner exec.CommandRunner, name, command string, minLines int, violationExit, violationShort string) Check {
	return Check{Name: name, Run: func(ctx context.Context) (bool, string, error) {
		res, err := runner.Run(ctx, command, 0)
		if err != nil {
			return false, "", err
		}
		if res.TimedOut || res.ExitCode != 0 {
			return false, violationExit, nil
		}
		if countLines(res.Stdout) < minLines {
			return false, violationShort, nil
		}
		return true, "", nil
	}}
}

// countLines counts non-empty lines.
func countLines(s string) int {
	n := 0
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}
