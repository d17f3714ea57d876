// Package checks implements the systematic check gate: an ordered registry
// of named boolean probes run against the live system.
package checks

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/attestkit/attest/internal/errors"
)

// Check is a named stateless probe of one subsystem. Run reports whether the
// subsystem is healthy, an optional human-readable violation when it is not,
// and an error only when the probe itself could not be evaluated.
type Check struct {
	Name string
	Run  func(ctx context.Context) (ok bool, violation string, err error)
}

// Summary is the outcome of one registry run.
// Success is true iff Failed is empty.
type Summary struct {
	Success    bool
	Passed     []string
	Failed     []string
	Violations []string
}

// Registry holds the ordered check list for one gate run.
type Registry struct {
	Checks []Check
	Logger *zap.Logger
}

// RunAll evaluates every check in order. There is no short-circuit: a check
// that fails, errors, or panics becomes a failed entry and the run continues.
// A faulted check records "<name>: <error>" in Failed.
func (r *Registry) RunAll(ctx context.Context) Summary {
	s := Summary{Passed: []string{}, Failed: []string{}, Violations: []string{}}
	for _, c := range r.Checks {
		ok, violation, err := r.runOne(ctx, c)
		switch {
		case err != nil:
			r.logger().Warn("check faulted", zap.String("check", c.Name), zap.Error(err))
			s.Failed = append(s.Failed, c.Name+": "+faultText(err))
		case ok:
			s.Passed = append(s.Passed, c.Name)
		default:
			r.logger().Debug("check failed", zap.String("check", c.Name), zap.String("violation", violation))
			s.Failed = append(s.Failed, c.Name)
			if violation != "" {
				s.Violations = append(s.Violations, violation)
			}
		}
	}
	s.Success = len(s.Failed) == 0
	return s
}

// runOne evaluates a single check, converting a panic into an E_CHECK_FAULT
// error so one faulty check cannot abort the run.
func (r *Registry) runOne(ctx context.Context, c Check) (ok bool, violation string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			ok = false
			violation = ""
			err = errors.New(errors.ECheckFault, fmt.Sprintf("%v", rec))
		}
	}()
	r.logger().Debug("running check", zap.String("check", c.Name))
	return c.Run(ctx)
}

// faultText flattens an error for a failed entry, dropping the machine code
// prefix AttestError adds to Error().
func faultText(err error) string {
	if ae, ok := errors.AsAttestError(err); ok {
		return ae.Msg
	}
	return err.Error()
}

func (r *Registry) logger() *zap.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return zap.NewNop()
}
