package commands

import (
	"strconv"
	"time"

	"github.com/attestkit/attest/internal/config"
	"github.com/attestkit/attest/internal/fs"
	"github.com/attestkit/attest/internal/ids"
	"github.com/attestkit/attest/internal/render"
	"github.com/attestkit/attest/internal/store"
)

// ClaimRefs returns the claim references offered by shell completion: one
// entry per claim id with the truncated claim text as description, plus
// "last" when the ledger is non-empty. Errors yield no suggestions; a
// completion callback is not the place to surface store failures.
func ClaimRefs(fsys fs.FS, cfg config.Config) []string {
	st := store.NewStore(fsys, cfg.ClaimsPath(), time.Now)
	claims, err := st.All()
	if err != nil {
		return nil
	}

	refs := make([]string, 0, len(claims)+1)
	for _, c := range claims {
		refs = append(refs, strconv.Itoa(c.ID)+"\t"+render.TruncateForDisplay(c.Text, render.ClaimMaxLen))
	}
	if len(claims) > 0 {
		refs = append(refs, ids.LastRef+"\tmost recent claim")
	}
	return refs
}
