package report

import (
	"github.com/attestkit/attest/internal/store"
)

// ClaimsSummary aggregates the stored claims for attest report.
type ClaimsSummary struct {
	Total    int
	Verified int
	Failed   int
	Pending  int

	// SuccessRate is verified over total as a fraction; an empty store
	// counts as one claim to keep the ratio defined.
	SuccessRate float64

	FailedClaims  []store.Claim
	PendingClaims []store.Claim
}

// Summarize folds stored claims into totals and the failed/pending listings.
func Summarize(claims []store.Claim) ClaimsSummary {
	s := ClaimsSummary{
		Total:         len(claims),
		FailedClaims:  []store.Claim{},
		PendingClaims: []store.Claim{},
	}
	for _, c := range claims {
		switch c.Status() {
		case store.StatusVerified:
			s.Verified++
		case store.StatusFailed:
			s.Failed++
			s.FailedClaims = append(s.FailedClaims, c)
		default:
			s.Pending++
			s.PendingClaims = append(s.PendingClaims, c)
		}
	}
	total := s.Total
	if total == 0 {
		total = 1
	}
	s.SuccessRate = float64(s.Verified) / float64(total)
	return s
}
