package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/attestkit/attest/internal/config"
	"github.com/attestkit/attest/internal/errors"
	"github.com/attestkit/attest/internal/events"
	"github.com/attestkit/attest/internal/fs"
	"github.com/attestkit/attest/internal/store"
	"github.com/attestkit/attest/internal/verify"
)

// ClaimOpts holds options for the claim command.
type ClaimOpts struct {
	// Text is the claim being made (required).
	Text string

	// Proof is the shell command whose output backs the claim (required).
	Proof string

	// Expect describes the expected result. Defaults to "Success expected".
	Expect string
}

// Claim implements the `attest claim` command: append one claim to the
// ledger, unverified, and print its id.
func Claim(_ context.Context, fsys fs.FS, cfg config.Config, opts ClaimOpts, stdout, stderr io.Writer) error {
	if strings.TrimSpace(opts.Text) == "" {
		return errors.New(errors.EUsage, "claim text is required")
	}
	if strings.TrimSpace(opts.Proof) == "" {
		return errors.New(errors.EUsage, "proof command is required")
	}
	expect := opts.Expect
	if expect == "" {
		expect = verify.ExpectedSuccess
	}

	st := store.NewStore(fsys, cfg.ClaimsPath(), time.Now)
	id, err := st.Append(opts.Text, opts.Proof, expect)
	if err != nil {
		return err
	}

	evs := events.NewLog(cfg.EventsPath())
	_ = evs.Append(events.KindClaimLogged, events.ClaimLoggedData(id, opts.Text))

	_, _ = fmt.Fprintf(stdout, "ok claim %d\n", id)
	return nil
}
