package commands

import (
	"context"
	"io"
	"time"

	"github.com/attestkit/attest/internal/config"
	"github.com/attestkit/attest/internal/errors"
	"github.com/attestkit/attest/internal/fs"
	"github.com/attestkit/attest/internal/render"
	"github.com/attestkit/attest/internal/store"
)

// LSOpts holds options for the ls command.
type LSOpts struct {
	// Status filters the listing to pending, verified or failed claims.
	// Empty shows everything.
	Status string
}

// LS implements the `attest ls` command: print the claims table.
func LS(_ context.Context, fsys fs.FS, cfg config.Config, opts LSOpts, stdout, stderr io.Writer) error {
	switch opts.Status {
	case "", store.StatusPending, store.StatusVerified, store.StatusFailed:
	default:
		return errors.NewWithDetails(errors.EUsage,
			"status must be pending, verified or failed",
			map[string]string{"status": opts.Status})
	}

	st := store.NewStore(fsys, cfg.ClaimsPath(), time.Now)
	claims, err := st.All()
	if err != nil {
		return err
	}

	if opts.Status != "" {
		filtered := make([]store.Claim, 0, len(claims))
		for _, c := range claims {
			if c.Status() == opts.Status {
				filtered = append(filtered, c)
			}
		}
		claims = filtered
	}

	return render.WriteClaimsTable(stdout, claims, time.Now())
}
