// Package errors provides error formatting for attest CLI output.
package errors

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// PrintOptions controls error output formatting.
type PrintOptions struct {
	// Verbose enables detailed error output with more context keys and longer output blocks.
	Verbose bool
}

// Context key whitelist (default mode, in order)
var defaultContextKeys = []string{
	"op",
	"claim_id",
	"claim",
	"proof",
	"actual",
	"check",
	"pattern",
	"key",
	"score",
	"exit_code",
	"duration",
	"path",
	"report",
}

// Additional context keys for verbose mode
var verboseContextKeys = []string{
	"op",
	"claim_id",
	"claim",
	"proof",
	"actual",
	"check",
	"pattern",
	"key",
	"score",
	"confidence",
	"exit_code",
	"duration",
	"duration_ms",
	"timed_out",
	"path",
	"report",
	"manifest",
	"data_dir",
	"session",
	"hint",
}

// Truncation limits
const (
	defaultMaxLines = 20
	verboseMaxLines = 100

	maxValueLen      = 256 // Max chars for single-line context values
	maxExtraValueLen = 128 // Max chars for extra section values
	maxOutputLineLen = 512 // Max chars per line in output blocks
)

// Format formats an error for display without I/O.
// This is a pure function - it never reads files or performs network I/O.
// Returns the formatted string ready for printing.
func Format(err error, opts PrintOptions) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder

	ae, isAttest := AsAttestError(err)
	if !isAttest {
		// Fallback for non-AttestError errors
		sb.WriteString(err.Error())
		sb.WriteString("\n")
		return sb.String()
	}

	// Line 1: error_code
	sb.WriteString("error_code: ")
	sb.WriteString(string(ae.Code))
	sb.WriteString("\n")

	// Line 2: message
	sb.WriteString(ae.Msg)
	sb.WriteString("\n")

	// Blank line before context
	sb.WriteString("\n")

	// Context block
	contextKeys := defaultContextKeys
	if opts.Verbose {
		contextKeys = verboseContextKeys
	}

	// Build set of printed keys
	printedKeys := make(map[string]bool)

	// Print context keys in order
	for _, key := range contextKeys {
		if ae.Details == nil {
			continue
		}
		val, ok := ae.Details[key]
		if !ok || val == "" {
			continue
		}
		// Skip hint - printed separately at the end
		if key == "hint" {
			continue
		}
		printedKeys[key] = true
		sb.WriteString(key)
		sb.WriteString(": ")
		sb.WriteString(sanitizeValue(val, maxValueLen))
		sb.WriteString("\n")
	}

	// In verbose mode, print extra keys under extra: section
	if opts.Verbose && ae.Details != nil {
		var extraKeys []string
		for key := range ae.Details {
			if !printedKeys[key] && key != "hint" && key != "stderr" && key != "stdout" {
				extraKeys = append(extraKeys, key)
			}
		}
		if len(extraKeys) > 0 {
			sort.Strings(extraKeys)
			sb.WriteString("\nextra:\n")
			for _, key := range extraKeys {
				val := ae.Details[key]
				if val == "" {
					continue
				}
				sb.WriteString("  ")
				sb.WriteString(key)
				sb.WriteString(": ")
				sb.WriteString(sanitizeValue(val, maxExtraValueLen))
				sb.WriteString("\n")
			}
		}
	}

	// Hint line (if present)
	if ae.Details != nil {
		if hint, ok := ae.Details["hint"]; ok && hint != "" {
			sb.WriteString("\nhint: ")
			sb.WriteString(hint)
			sb.WriteString("\n")
		}
	}

	// Try lines (suggestions for common errors)
	tryLines := deriveTryLines(ae)
	for _, try := range tryLines {
		sb.WriteString("try: ")
		sb.WriteString(try)
		sb.WriteString("\n")
	}

	return sb.String()
}

// PrintWithOptions writes a formatted error to w with the given options.
// Proof failures carry their captured stderr in the error details, so no
// file I/O is needed to show command output.
func PrintWithOptions(w io.Writer, err error, opts PrintOptions) {
	if err == nil {
		return
	}

	// Get the base formatted output
	output := Format(err, opts)

	ae, isAttest := AsAttestError(err)

	// Proof failures get an output block built from the captured stderr
	if isAttest && isProofFailure(ae) {
		raw := ""
		if ae.Details != nil {
			raw = ae.Details["stderr"]
			if raw == "" {
				raw = ae.Details["stdout"]
			}
		}
		if raw != "" {
			maxLines := defaultMaxLines
			if opts.Verbose {
				maxLines = verboseMaxLines
			}
			lines := tailLines(raw, maxLines)
			if len(lines) > 0 {
				output = insertOutputBlock(output, lines, maxLines)
			}
		}
	}

	_, _ = io.WriteString(w, output)
}

// sanitizeValue sanitizes a value for single-line context output.
// - Trims trailing whitespace first
// - Normalizes CRLF to LF
// - Replaces newlines with literal \n
// - Truncates to maxLen chars
func sanitizeValue(val string, maxLen int) string {
	// Trim trailing whitespace first (before escaping)
	val = strings.TrimRight(val, " \t\r\n")

	// Normalize CRLF to LF
	val = strings.ReplaceAll(val, "\r\n", "\n")

	// Replace newlines with literal \n
	val = strings.ReplaceAll(val, "\n", "\\n")

	// Truncate if too long
	if len(val) > maxLen {
		return val[:maxLen] + "…"
	}

	return val
}

// isProofFailure checks whether the error represents a proof command outcome
// that may carry captured command output worth showing.
func isProofFailure(ae *AttestError) bool {
	switch ae.Code {
	case EProofFailed, EProofExec, EProofTimeout:
		return true
	}
	return false
}

// tailLines returns the last maxLines non-empty-trimmed lines of raw,
// each truncated to maxOutputLineLen.
func tailLines(raw string, maxLines int) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	all := strings.Split(strings.TrimRight(raw, "\n"), "\n")

	var lines []string
	for _, line := range all {
		if len(line) > maxOutputLineLen {
			line = line[:maxOutputLineLen] + "…"
		}
		lines = append(lines, strings.TrimRight(line, " \t\r"))
	}

	if len(lines) > maxLines {
		return lines[len(lines)-maxLines:]
	}
	return lines
}

// insertOutputBlock inserts the output tail block before the hint line in the formatted output.
func insertOutputBlock(output string, lines []string, maxLines int) string {
	// Build the output block
	var block strings.Builder
	if len(lines) >= maxLines {
		block.WriteString(fmt.Sprintf("\noutput (last %d lines):\n", len(lines)))
	} else {
		block.WriteString(fmt.Sprintf("\noutput (%d lines):\n", len(lines)))
	}
	for _, line := range lines {
		block.WriteString("  ")
		block.WriteString(line)
		block.WriteString("\n")
	}

	// Find hint line and insert before it
	hintIdx := strings.Index(output, "\nhint: ")
	if hintIdx >= 0 {
		return output[:hintIdx] + block.String() + output[hintIdx:]
	}

	// Find try line and insert before it
	tryIdx := strings.Index(output, "\ntry: ")
	if tryIdx >= 0 {
		return output[:tryIdx] + block.String() + output[tryIdx:]
	}

	// No hint or try line, append at end
	return output + block.String()
}

// deriveTryLines returns actionable suggestions based on error code.
func deriveTryLines(ae *AttestError) []string {
	if ae == nil {
		return nil
	}

	var lines []string

	switch ae.Code {
	case EClaimNotFound:
		lines = append(lines, "attest ls")
	case EUnverifiable:
		if ae.Details != nil {
			if claim := ae.Details["claim"]; claim != "" {
				lines = append(lines, fmt.Sprintf("attest claim %q --proof '<command>'", claim))
			}
		}
	case EProofFailed:
		lines = append(lines, "attest ls --status failed")
	case EChecksFailed:
		lines = append(lines, "attest report")
	case EConfig:
		lines = append(lines, "attest init")
	}

	return lines
}

// FormatHint formats a hint for output.
// If hint already starts with "hint:", returns as-is.
// Otherwise prepends "hint: ".
func FormatHint(hint string) string {
	if hint == "" {
		return ""
	}
	if strings.HasPrefix(hint, "hint:") {
		return hint
	}
	return "hint: " + hint
}

// GetHint extracts the hint from an error's details, if present.
func GetHint(err error) string {
	ae, ok := AsAttestError(err)
	if !ok || ae.Details == nil {
		return ""
	}
	return ae.Details["hint"]
}
