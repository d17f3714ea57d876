package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/attestkit/attest/internal/checks"
	"github.com/attestkit/attest/internal/config"
	"github.com/attestkit/attest/internal/errors"
	"github.com/attestkit/attest/internal/events"
	"github.com/attestkit/attest/internal/exec"
	"github.com/attestkit/attest/internal/fs"
	"github.com/attestkit/attest/internal/report"
)

// Check implements the `attest check` command: run the check gate and write
// the run report.
//
// The registry comes from checks.yaml when present, otherwise the builtin
// defaults. The report file is written before the exit code is decided, so
// a failing gate still leaves a complete report behind.
func Check(ctx context.Context, cr exec.CommandRunner, fsys fs.FS, logger *zap.Logger, cfg config.Config, stdout, stderr io.Writer) error {
	list, found, err := checks.LoadManifest(fsys, cr, cfg.ManifestPath())
	if err != nil {
		return err
	}
	if !found {
		list = checks.Defaults(fsys, cr, cfg.Checks)
	}

	reg := checks.Registry{Checks: list, Logger: logger}
	sum := reg.RunAll(ctx)

	if err := report.WriteCheckReport(fsys, cfg.ReportPath(), sum, time.Now()); err != nil {
		return err
	}

	evs := events.NewLog(cfg.EventsPath())
	_ = evs.Append(events.KindChecksFinished,
		events.ChecksFinishedData(len(sum.Passed), len(sum.Failed), sum.Success))

	writeCheckOutput(stdout, sum, cfg.ReportPath())

	if !sum.Success {
		return errors.New(errors.EChecksFailed,
			fmt.Sprintf("%d of %d checks failed", len(sum.Failed), len(sum.Passed)+len(sum.Failed)))
	}
	return nil
}

// writeCheckOutput writes the stable key: value output for check.
func writeCheckOutput(w io.Writer, sum checks.Summary, reportPath string) {
	_, _ = fmt.Fprintf(w, "checks_passed: %d\n", len(sum.Passed))
	_, _ = fmt.Fprintf(w, "checks_failed: %d\n", len(sum.Failed))
	_, _ = fmt.Fprintf(w, "failed: %s\n", joinOrNone(sum.Failed, ", "))
	_, _ = fmt.Fprintf(w, "violations: %s\n", joinOrNone(sum.Violations, "; "))
	_, _ = fmt.Fprintf(w, "success: %s\n", boolStr(sum.Success))
	_, _ = fmt.Fprintf(w, "report: %s\n", reportPath)
}

func joinOrNone(list []string, sep string) string {
	if len(list) == 0 {
		return "none"
	}
	return strings.Join(list, sep)
}

func boolStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
