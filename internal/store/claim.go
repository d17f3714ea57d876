package store

// Claim statuses derived from the tri-state Verified field.
const (
	StatusPending  = "pending"
	StatusVerified = "verified"
	StatusFailed   = "failed"
)

// Claim is one entry in the claims ledger.
//
// IDs are array positions in claims.json; they are not serialized and are
// filled on load. Verified is nil until the proof command has run at least
// once. ActualResult holds the trimmed proof stdout, or one of the
// sentinels "TIMEOUT" / "ERROR: <detail>".
type Claim struct {
	ID             int     `json:"-"`
	CreatedAt      int64   `json:"timestamp"`
	Text           string  `json:"claim"`
	ProofCommand   string  `json:"proof_command"`
	ExpectedResult string  `json:"expected_result"`
	Verified       *bool   `json:"verified"`
	ActualResult   *string `json:"actual_result"`
	VerifiedAt     int64   `json:"verification_timestamp,omitempty"`
}

// Status returns pending, verified or failed.
func (c Claim) Status() string {
	switch {
	case c.Verified == nil:
		return StatusPending
	case *c.Verified:
		return StatusVerified
	default:
		return StatusFailed
	}
}
