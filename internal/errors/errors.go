// Package errors defines the stable error code system for attest.
package errors

import (
	"errors"
	"fmt"
	"io"
)

// Code is a stable error code string.
type Code string

// Error codes. Stable public contract.
const (
	EUsage Code = "E_USAGE"

	// Claim store error codes
	EClaimNotFound Code = "E_CLAIM_NOT_FOUND" // claim id outside [0, len)
	EStoreIO       Code = "E_STORE_IO"        // claims/patterns file unreadable, undecodable, or unwritable

	// Proof execution error codes
	EProofTimeout Code = "E_PROOF_TIMEOUT" // proof command exceeded the wall-clock bound
	EProofExec    Code = "E_PROOF_EXEC"    // proof command could not be launched
	EProofFailed  Code = "E_PROOF_FAILED"  // verification completed and the claim is false
	EUnverifiable Code = "E_UNVERIFIABLE"  // claim text matched no proof rule; nothing logged

	// Check orchestration error codes
	ECheckFault   Code = "E_CHECK_FAULT"   // an individual check's own logic faulted
	EChecksFailed Code = "E_CHECKS_FAILED" // the gate failed; at least one check did not pass

	// Advisor error codes
	EPrincipleViolation Code = "E_PRINCIPLE_VIOLATION" // instruction-alignment violations detected

	// Configuration error codes
	EConfig            Code = "E_CONFIG"              // attest.json or checks.yaml invalid
	EConfigExists      Code = "E_CONFIG_EXISTS"       // init would overwrite an existing attest.json
	EDataDirUnwritable Code = "E_DATA_DIR_UNWRITABLE" // data dir could not be created or written

	EInternal Code = "E_INTERNAL"
)

// AttestError is the standard error type for attest errors.
type AttestError struct {
	Code    Code
	Msg     string
	Cause   error
	Details map[string]string // optional structured context
}

// Error returns the stable error format: "CODE: message".
func (e *AttestError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *AttestError) Unwrap() error {
	return e.Cause
}

// ExitCodeError wraps an error with an explicit process exit code.
type ExitCodeError struct {
	Err  error
	Code int
}

func (e *ExitCodeError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitCodeError) Unwrap() error {
	return e.Err
}

func (e *ExitCodeError) ExitCode() int {
	return e.Code
}

// WithExitCode wraps err with a specific process exit code.
func WithExitCode(err error, code int) error {
	return &ExitCodeError{Err: err, Code: code}
}

// New creates a new AttestError with the given code and message.
func New(code Code, msg string) error {
	return &AttestError{Code: code, Msg: msg}
}

// NewWithDetails creates a new AttestError with code, message, and details.
// Details map is defensively copied (nil if empty).
func NewWithDetails(code Code, msg string, details map[string]string) error {
	return &AttestError{Code: code, Msg: msg, Details: copyDetails(details)}
}

// Wrap creates a new AttestError wrapping an underlying error.
func Wrap(code Code, msg string, err error) error {
	return &AttestError{Code: code, Msg: msg, Cause: err}
}

// WrapWithDetails creates a new AttestError wrapping an underlying error with details.
// Details map is defensively copied (nil if empty).
func WrapWithDetails(code Code, msg string, err error, details map[string]string) error {
	return &AttestError{Code: code, Msg: msg, Cause: err, Details: copyDetails(details)}
}

// GetCode extracts the error code from an error, or empty string if not an AttestError.
func GetCode(err error) Code {
	var ae *AttestError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

// AsAttestError returns (*AttestError, true) if err is or wraps an AttestError.
func AsAttestError(err error) (*AttestError, bool) {
	var ae *AttestError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// copyDetails returns a defensive copy of the details map, or nil if empty/nil.
func copyDetails(details map[string]string) map[string]string {
	if len(details) == 0 {
		return nil
	}
	cp := make(map[string]string, len(details))
	for k, v := range details {
		cp[k] = v
	}
	return cp
}

// ExitCode returns the appropriate exit code for an error.
// Returns 0 if err is nil, 2 for E_USAGE, 1 for all other errors.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if ec, ok := err.(interface{ ExitCode() int }); ok {
		return ec.ExitCode()
	}
	if GetCode(err) == EUsage {
		return 2
	}
	return 1
}

// Print writes the error to w in the stable stderr format:
//
//	error_code: <CODE>
//	<message>
func Print(w io.Writer, err error) {
	if err == nil {
		return
	}
	var ae *AttestError
	if errors.As(err, &ae) {
		_, _ = fmt.Fprintf(w, "error_code: %s\n", ae.Code)
		_, _ = fmt.Fprintln(w, ae.Msg)
	} else {
		// Fallback for non-AttestError errors (should not happen in practice)
		_, _ = fmt.Fprintln(w, err.Error())
	}
}
