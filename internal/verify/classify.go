package verify

import (
	"strings"

	"github.com/attestkit/attest/internal/exec"
)

// Classify computes the verification result for a proof run using the
// locked precedence rules.
//
// Precedence order:
//  1. if timed out => false
//  2. else if exit code != 0 => false
//  3. else if trimmed stdout is empty => false
//  4. else => true
//
// Rule 3 is deliberate: a proof must show its evidence. A command that
// succeeds silently (e.g. `true`) does not verify a claim.
func Classify(res exec.Result) bool {
	// 1. Timeout always means failure
	if res.TimedOut {
		return false
	}

	// 2. Non-zero exit code means failure (includes the synthetic -1)
	if res.ExitCode != 0 {
		return false
	}

	// 3. Empty output means failure
	if strings.TrimSpace(res.Stdout) == "" {
		return false
	}

	return true
}

// FailureReason computes the human-readable reason for an unverified run.
//
// Reason rules:
//   - if timed out => "verification command timed out"
//   - else if no usable exit code => "verification error: <stderr>"
//   - else => "command failed: <stderr>" (also covers exit 0 with empty
//     stdout, where stderr is typically empty)
func FailureReason(res exec.Result) string {
	if res.TimedOut {
		return "verification command timed out"
	}

	if res.ExitCode == -1 {
		return strings.TrimSpace("verification error: " + strings.TrimSpace(res.Stderr))
	}

	return strings.TrimSpace("command failed: " + strings.TrimSpace(res.Stderr))
}
