package commands

import (
	"context"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/attestkit/attest/internal/config"
	"github.com/attestkit/attest/internal/errors"
	"github.com/attestkit/attest/internal/events"
	"github.com/attestkit/attest/internal/exec"
	"github.com/attestkit/attest/internal/fs"
	"github.com/attestkit/attest/internal/store"
	"github.com/attestkit/attest/internal/verify"
)

// DemandOpts holds options for the demand command.
type DemandOpts struct {
	// Text is the free-form claim to match against the proof table.
	Text string
}

// Demand implements the `attest demand` command: match the claim text
// against the proof table, log it and verify it in one step. Text matching
// no rule logs nothing and returns E_UNVERIFIABLE.
func Demand(ctx context.Context, cr exec.CommandRunner, fsys fs.FS, logger *zap.Logger, cfg config.Config, opts DemandOpts, stdout, stderr io.Writer) error {
	if strings.TrimSpace(opts.Text) == "" {
		return errors.New(errors.EUsage, "claim text is required")
	}

	st := store.NewStore(fsys, cfg.ClaimsPath(), time.Now)
	evs := events.NewLog(cfg.EventsPath())
	v := verify.NewVerifier(st, cr, evs, logger, cfg.Match)

	outcome, err := v.Demand(ctx, opts.Text)
	if err != nil {
		return err
	}
	return printOutcome(stdout, "demand", outcome)
}
