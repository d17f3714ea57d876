package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/attestkit/attest/internal/config"
	"github.com/attestkit/attest/internal/errors"
	"github.com/attestkit/attest/internal/events"
	"github.com/attestkit/attest/internal/exec"
	"github.com/attestkit/attest/internal/fs"
	"github.com/attestkit/attest/internal/ids"
	"github.com/attestkit/attest/internal/store"
	"github.com/attestkit/attest/internal/verify"
)

// VerifyOpts holds options for the verify command.
type VerifyOpts struct {
	// Ref is the claim reference: a numeric id or "last".
	Ref string

	// All verifies every claim that has never been verified.
	All bool
}

// Verify implements the `attest verify` command.
//
// A claim whose proof runs but does not verify is reported as an E_PROOF_*
// error so the process exits non-zero; the result is persisted either way.
func Verify(ctx context.Context, cr exec.CommandRunner, fsys fs.FS, logger *zap.Logger, cfg config.Config, opts VerifyOpts, stdout, stderr io.Writer) error {
	st := store.NewStore(fsys, cfg.ClaimsPath(), time.Now)
	evs := events.NewLog(cfg.EventsPath())
	v := verify.NewVerifier(st, cr, evs, logger, cfg.Match)

	if opts.All {
		if opts.Ref != "" {
			return errors.New(errors.EUsage, "cannot combine --all with a claim reference")
		}
		totals, err := v.VerifyAll(ctx)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(stdout, "verified: %d\n", totals.Verified)
		_, _ = fmt.Fprintf(stdout, "failed: %d\n", totals.Failed)
		_, _ = fmt.Fprintf(stdout, "total: %d\n", totals.Total)
		if totals.Failed > 0 {
			return errors.New(errors.EProofFailed,
				fmt.Sprintf("%d of %d claims failed verification", totals.Failed, totals.Total))
		}
		return nil
	}

	count, err := st.Count()
	if err != nil {
		return err
	}
	id, err := ids.ResolveClaimRef(opts.Ref, count)
	if err != nil {
		return err
	}

	outcome, err := v.Verify(ctx, id)
	if err != nil {
		return err
	}
	return printOutcome(stdout, "verify", outcome)
}

// printOutcome writes the ok line for a verified claim, or turns an
// unverified outcome into its coded error. The error carries the claim id,
// the recorded actual result and any captured stderr for the formatter.
func printOutcome(w io.Writer, op string, outcome verify.Outcome) error {
	if outcome.Verified {
		_, _ = fmt.Fprintf(w, "ok %s %d\n", op, outcome.ClaimID)
		return nil
	}

	details := map[string]string{
		"claim_id": strconv.Itoa(outcome.ClaimID),
		"actual":   outcome.Actual,
	}
	if outcome.Stderr != "" {
		details["stderr"] = outcome.Stderr
	}
	return errors.NewWithDetails(outcome.Code, outcome.Reason, details)
}
