// Package exec runs proof commands through the shell with a hard
// wall-clock timeout and process-group teardown.
package exec

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os"
	osexec "os/exec"
	"syscall"
	"time"
)

// Result captures one command execution.
type Result struct {
	// ExitCode is the command's exit status. -1 when no usable status
	// exists (timeout, killed by signal, launch failure).
	ExitCode int

	// Stdout and Stderr hold the captured output as text.
	Stdout string
	Stderr string

	// TimedOut reports whether the wall-clock timeout expired.
	TimedOut bool
}

// CommandRunner executes a shell command with a wall-clock timeout.
// Implementations make exactly one attempt per call.
type CommandRunner interface {
	Run(ctx context.Context, command string, timeout time.Duration) (Result, error)
}

// DefaultTimeout bounds a command when the caller passes zero.
const DefaultTimeout = 30 * time.Second

// DefaultGracePeriod is the wait between SIGINT and SIGKILL when a
// timed-out command's process group is torn down.
const DefaultGracePeriod = 3 * time.Second

// RealRunner runs commands via the shell on the host.
type RealRunner struct {
	// Shell is the shell binary. Defaults to "sh".
	Shell string

	// GracePeriod is the wait between SIGINT and SIGKILL on teardown.
	// Defaults to DefaultGracePeriod.
	GracePeriod time.Duration
}

// NewRealRunner returns a RealRunner with default shell and grace period.
func NewRealRunner() *RealRunner {
	return &RealRunner{Shell: "sh", GracePeriod: DefaultGracePeriod}
}

// Run executes command as `sh -c <command>`, capturing stdout and stderr.
//
// A non-zero exit is not an error; it is reported in Result.ExitCode. The
// returned error is reserved for launch failures and parent context
// cancellation. On timeout the whole process group is killed and the
// Result carries TimedOut=true with ExitCode -1.
func (r *RealRunner) Run(ctx context.Context, command string, timeout time.Duration) (Result, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	shell := r.Shell
	if shell == "" {
		shell = "sh"
	}

	res := Result{ExitCode: -1}

	timeoutCtx, cancelTimeout := context.WithTimeout(ctx, timeout)
	defer cancelTimeout()

	var stdout, stderr bytes.Buffer
	cmd := osexec.CommandContext(timeoutCtx, shell, "-c", command)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	devnull, err := os.Open(os.DevNull)
	if err != nil {
		res.Stderr = fmt.Sprintf("failed to open /dev/null: %v", err)
		return res, fmt.Errorf("failed to open /dev/null: %w", err)
	}
	cmd.Stdin = devnull

	// Own process group so teardown reaches grandchildren too.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		_ = devnull.Close()
		res.Stderr = fmt.Sprintf("failed to start command: %v", err)
		return res, fmt.Errorf("failed to start command: %w", err)
	}

	pgid := cmd.Process.Pid

	waitDone := make(chan error, 1)
	go func() {
		waitDone <- cmd.Wait()
	}()

	var runErr error
	var timedOut, cancelled bool

	select {
	case runErr = <-waitDone:
		// Command completed on its own.
	case <-timeoutCtx.Done():
		if ctx.Err() != nil {
			// Parent context was cancelled (user interrupt).
			cancelled = true
		} else {
			timedOut = true
		}
		r.killProcessGroup(pgid)
		runErr = <-waitDone
	}

	_ = devnull.Close()

	res.Stdout = stdout.String()
	res.Stderr = stderr.String()
	res.TimedOut = timedOut

	if runErr == nil {
		res.ExitCode = 0
	} else if !timedOut && !cancelled {
		var exitErr *osexec.ExitError
		if stderrors.As(runErr, &exitErr) && exitErr.ProcessState != nil {
			if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
				// Killed by an external signal; no usable exit code.
			} else {
				res.ExitCode = exitErr.ExitCode()
			}
		}
	}

	if cancelled {
		return res, fmt.Errorf("command cancelled: %w", ctx.Err())
	}
	return res, nil
}

// killProcessGroup sends SIGINT to the process group, waits the grace
// period, then sends SIGKILL to the process group.
func (r *RealRunner) killProcessGroup(pgid int) {
	grace := r.GracePeriod
	if grace <= 0 {
		grace = DefaultGracePeriod
	}

	// Negative pgid targets the whole group.
	_ = syscall.Kill(-pgid, syscall.SIGINT)
	time.Sleep(grace)
	_ = syscall.Kill(-pgid, syscall.SIGKILL)
}
