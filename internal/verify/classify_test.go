package verify

import (
	"testing"

	"github.com/attestkit/attest/internal/exec"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		res  exec.Result
		want bool
	}{
		{
			name: "exit zero with output",
			res:  exec.Result{ExitCode: 0, Stdout: "evidence\n"},
			want: true,
		},
		{
			name: "exit zero with empty stdout",
			res:  exec.Result{ExitCode: 0, Stdout: ""},
			want: false,
		},
		{
			name: "exit zero with whitespace stdout",
			res:  exec.Result{ExitCode: 0, Stdout: " \n\t "},
			want: false,
		},
		{
			name: "non-zero exit with output",
			res:  exec.Result{ExitCode: 1, Stdout: "some output"},
			want: false,
		},
		{
			name: "timeout with partial output",
			res:  exec.Result{ExitCode: -1, Stdout: "partial", TimedOut: true},
			want: false,
		},
		{
			name: "launch failure",
			res:  exec.Result{ExitCode: -1, Stderr: "failed to start command: not found"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.res); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFailureReason(t *testing.T) {
	tests := []struct {
		name string
		res  exec.Result
		want string
	}{
		{
			name: "timeout",
			res:  exec.Result{ExitCode: -1, TimedOut: true},
			want: "verification command timed out",
		},
		{
			name: "timeout wins over stderr",
			res:  exec.Result{ExitCode: -1, TimedOut: true, Stderr: "noise"},
			want: "verification command timed out",
		},
		{
			name: "launch failure",
			res:  exec.Result{ExitCode: -1, Stderr: "failed to start command: no such file"},
			want: "verification error: failed to start command: no such file",
		},
		{
			name: "non-zero exit with stderr",
			res:  exec.Result{ExitCode: 1, Stderr: "permission denied\n"},
			want: "command failed: permission denied",
		},
		{
			name: "exit zero with empty stdout",
			res:  exec.Result{ExitCode: 0, Stdout: ""},
			want: "command failed:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FailureReason(tt.res); got != tt.want {
				t.Errorf("FailureReason() = %q, want %q", got, tt.want)
			}
		})
	}
}
