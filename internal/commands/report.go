package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/attestkit/attest/internal/config"
	"github.com/attestkit/attest/internal/fs"
	"github.com/attestkit/attest/internal/report"
	"github.com/attestkit/attest/internal/store"
)

// Report implements the `attest report` command: print the claims summary
// and the latest check run, both from the persisted artifacts. Read-only.
func Report(_ context.Context, fsys fs.FS, cfg config.Config, stdout, stderr io.Writer) error {
	st := store.NewStore(fsys, cfg.ClaimsPath(), time.Now)
	claims, err := st.All()
	if err != nil {
		return err
	}
	sum := report.Summarize(claims)

	writeClaimsSummary(stdout, sum)

	rep, found, err := report.ReadCheckReport(fsys, cfg.ReportPath())
	if err != nil {
		return err
	}
	writeCheckSection(stdout, rep, found)
	return nil
}

// writeClaimsSummary writes the stable key: value claims block, followed by
// the failed and pending listings when they are non-empty.
func writeClaimsSummary(w io.Writer, sum report.ClaimsSummary) {
	_, _ = fmt.Fprintf(w, "claims_total: %d\n", sum.Total)
	_, _ = fmt.Fprintf(w, "claims_verified: %d\n", sum.Verified)
	_, _ = fmt.Fprintf(w, "claims_failed: %d\n", sum.Failed)
	_, _ = fmt.Fprintf(w, "claims_pending: %d\n", sum.Pending)
	_, _ = fmt.Fprintf(w, "success_rate: %.1f%%\n", sum.SuccessRate*100)

	if len(sum.FailedClaims) > 0 {
		_, _ = fmt.Fprintln(w, "failed_claims:")
		for _, c := range sum.FailedClaims {
			_, _ = fmt.Fprintf(w, "  [%d] %s: %s\n", c.ID, c.Text, actualStr(c))
		}
	}
	if len(sum.PendingClaims) > 0 {
		_, _ = fmt.Fprintln(w, "pending_claims:")
		for _, c := range sum.PendingClaims {
			_, _ = fmt.Fprintf(w, "  [%d] %s\n", c.ID, c.Text)
		}
	}
}

// writeCheckSection writes the latest check run block, or "last_check: none"
// when no run has been recorded yet.
func writeCheckSection(w io.Writer, rep report.CheckReport, found bool) {
	if !found {
		_, _ = fmt.Fprintln(w, "last_check: none")
		return
	}
	_, _ = fmt.Fprintf(w, "last_check: %s\n", rep.Timestamp)
	_, _ = fmt.Fprintf(w, "checks_passed: %d\n", len(rep.ChecksPassed))
	_, _ = fmt.Fprintf(w, "checks_failed: %d\n", len(rep.ChecksFailed))
	_, _ = fmt.Fprintf(w, "check_violations: %s\n", joinOrNone(rep.Violations, "; "))
	_, _ = fmt.Fprintf(w, "check_success: %s\n", boolStr(rep.Success))
}

func actualStr(c store.Claim) string {
	if c.ActualResult == nil {
		return ""
	}
	return *c.ActualResult
}
