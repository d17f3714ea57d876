package report

import (
	"testing"

	"github.com/attestkit/attest/internal/store"
)

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

func TestSummarize(t *testing.T) {
	claims := []store.Claim{
		{ID: 0, Text: "server running", Verified: boolPtr(true), ActualResult: strPtr("ok")},
		{ID: 1, Text: "api responding", Verified: boolPtr(false), ActualResult: strPtr("TIMEOUT")},
		{ID: 2, Text: "file exists"},
		{ID: 3, Text: "cache warm", Verified: boolPtr(true), ActualResult: strPtr("warm")},
	}

	s := Summarize(claims)

	if s.Total != 4 || s.Verified != 2 || s.Failed != 1 || s.Pending != 1 {
		t.Errorf("totals = {%d %d %d %d}, want {4 2 1 1}", s.Total, s.Verified, s.Failed, s.Pending)
	}
	if s.SuccessRate != 0.5 {
		t.Errorf("SuccessRate = %v, want 0.5", s.SuccessRate)
	}
	if len(s.FailedClaims) != 1 || s.FailedClaims[0].ID != 1 {
		t.Errorf("FailedClaims = %v, want claim 1", s.FailedClaims)
	}
	if len(s.PendingClaims) != 1 || s.PendingClaims[0].ID != 2 {
		t.Errorf("PendingClaims = %v, want claim 2", s.PendingClaims)
	}
}

func TestSummarize_EmptyStore(t *testing.T) {
	s := Summarize(nil)

	if s.Total != 0 || s.SuccessRate != 0 {
		t.Errorf("got total %d rate %v, want 0 and 0", s.Total, s.SuccessRate)
	}
	if s.FailedClaims == nil || s.PendingClaims == nil {
		t.Error("listings must be empty, not nil")
	}
}

func TestSummarize_AllVerified(t *testing.T) {
	claims := []store.Claim{
		{ID: 0, Verified: boolPtr(true)},
		{ID: 1, Verified: boolPtr(true)},
	}

	s := Summarize(claims)

	if s.SuccessRate != 1.0 {
		t.Errorf("SuccessRate = %v, want 1.0", s.SuccessRate)
	}
}
