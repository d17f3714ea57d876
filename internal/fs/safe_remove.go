package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotUnderPrefix reports a removal target outside its allowed prefix.
type ErrNotUnderPrefix struct {
	Target string
	Prefix string
}

func (e *ErrNotUnderPrefix) Error() string {
	return fmt.Sprintf("target %q is not under allowed prefix %q", e.Target, e.Prefix)
}

// SafeRemoveAll removes target only when it is a proper subpath of
// allowedPrefix. Both paths are cleaned and resolved through symlinks before
// the check, so a link cannot smuggle the removal outside the prefix. A
// target that does not exist is a no-op; any other resolution failure
// refuses the removal with ErrNotUnderPrefix.
func SafeRemoveAll(target, allowedPrefix string) error {
	cleanTarget := filepath.Clean(target)
	cleanPrefix := filepath.Clean(allowedPrefix)

	resolvedTarget, err := filepath.EvalSymlinks(cleanTarget)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &ErrNotUnderPrefix{Target: target, Prefix: allowedPrefix}
	}

	resolvedPrefix, err := filepath.EvalSymlinks(cleanPrefix)
	if err != nil {
		return &ErrNotUnderPrefix{Target: target, Prefix: allowedPrefix}
	}

	if !isProperSubpath(resolvedTarget, resolvedPrefix) {
		return &ErrNotUnderPrefix{Target: target, Prefix: allowedPrefix}
	}

	return os.RemoveAll(cleanTarget)
}

// isProperSubpath reports whether target sits strictly under prefix. Equal
// paths do not count. Both arguments must already be cleaned and resolved.
func isProperSubpath(target, prefix string) bool {
	sep := string(filepath.Separator)
	if !strings.HasSuffix(prefix, sep) {
		prefix += sep
	}
	return strings.HasPrefix(target, prefix) && len(target) > len(prefix)
}
