// Package verify executes proof commands for claims and persists the
// verification outcomes.
package verify

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/attestkit/attest/internal/config"
	"github.com/attestkit/attest/internal/errors"
	"github.com/attestkit/attest/internal/events"
	"github.com/attestkit/attest/internal/exec"
	"github.com/attestkit/attest/internal/store"
)

// ProofTimeout bounds every proof command.
const ProofTimeout = 30 * time.Second

// ActualTimeout is the sentinel persisted to ActualResult when the proof
// command timed out. Launch failures persist "ERROR: <detail>".
const ActualTimeout = "TIMEOUT"

const actualErrorPrefix = "ERROR: "

// ExpectedSuccess is the expected-result text recorded for demand claims.
const ExpectedSuccess = "Success expected"

// Verifier runs proof commands for claims and persists the outcomes.
// It also keeps per-session lists of what verified and what failed.
type Verifier struct {
	Store   *store.Store
	Runner  exec.CommandRunner
	Events  *events.Log // best-effort audit appends, may be nil
	Logger  *zap.Logger // diagnostics, may be nil
	Match   config.Match
	Now     func() time.Time
	Timeout time.Duration // defaults to ProofTimeout

	verified []store.Claim
	failed   []store.Claim
}

// NewVerifier creates a Verifier with the production clock and timeout.
func NewVerifier(st *store.Store, runner exec.CommandRunner, evs *events.Log, logger *zap.Logger, match config.Match) *Verifier {
	return &Verifier{
		Store:   st,
		Runner:  runner,
		Events:  evs,
		Logger:  logger,
		Match:   match,
		Now:     time.Now,
		Timeout: ProofTimeout,
	}
}

// Outcome describes one verification run.
type Outcome struct {
	ClaimID  int
	Verified bool
	Actual   string      // trimmed stdout, or the TIMEOUT / ERROR sentinel
	Reason   string      // empty when verified
	Code     errors.Code // E_PROOF_* when not verified, "" otherwise
	Stderr   string      // raw captured stderr, for error reporting
}

// Totals summarizes a VerifyAll pass.
type Totals struct {
	Verified int
	Failed   int
	Total    int
}

// Verify runs the proof command for the claim with the given ID and
// persists the result. A false verification is not a returned error; the
// outcome carries the reason and code. Returned errors are reserved for
// unknown IDs, store failures and user cancellation.
func (v *Verifier) Verify(ctx context.Context, id int) (Outcome, error) {
	claim, err := v.Store.Get(id)
	if err != nil {
		return Outcome{}, err
	}
	return v.run(ctx, claim)
}

// VerifyAll runs proofs for every claim that has never been verified.
// Claims with a recorded result are counted without re-execution, so a
// second pass with no new claims runs zero proof commands.
func (v *Verifier) VerifyAll(ctx context.Context) (Totals, error) {
	claims, err := v.Store.All()
	if err != nil {
		return Totals{}, err
	}

	totals := Totals{Total: len(claims)}
	for _, claim := range claims {
		if claim.Verified != nil {
			if *claim.Verified {
				totals.Verified++
			} else {
				totals.Failed++
			}
			continue
		}

		outcome, err := v.run(ctx, claim)
		if err != nil {
			return Totals{}, err
		}
		if outcome.Verified {
			totals.Verified++
		} else {
			totals.Failed++
		}
	}

	_ = v.Events.Append(events.KindVerifyAllFinished,
		events.VerifyAllFinishedData(totals.Verified, totals.Failed, totals.Total))
	return totals, nil
}

// Demand matches free-form claim text against the proof table, logs the
// claim and verifies it immediately. The claim stays logged even when
// verification fails. Text matching no rule logs nothing and returns
// E_UNVERIFIABLE.
func (v *Verifier) Demand(ctx context.Context, text string) (Outcome, error) {
	command, ok := MatchProof(text, v.Match)
	if !ok {
		return Outcome{}, errors.NewWithDetails(errors.EUnverifiable,
			"claim matches no known proof rule", map[string]string{"claim": text})
	}

	id, err := v.Store.Append(text, command, ExpectedSuccess)
	if err != nil {
		return Outcome{}, err
	}
	_ = v.Events.Append(events.KindClaimLogged, events.ClaimLoggedData(id, text))

	return v.Verify(ctx, id)
}

// SessionVerified returns the claims that verified during this process.
func (v *Verifier) SessionVerified() []store.Claim { return v.verified }

// SessionFailed returns the claims that failed during this process.
func (v *Verifier) SessionFailed() []store.Claim { return v.failed }

func (v *Verifier) run(ctx context.Context, claim store.Claim) (Outcome, error) {
	v.logger().Debug("running proof",
		zap.Int("claim_id", claim.ID),
		zap.String("proof", claim.ProofCommand))

	res, runErr := v.Runner.Run(ctx, claim.ProofCommand, v.timeout())
	if runErr != nil && ctx.Err() != nil {
		// User interrupt: persist nothing.
		return Outcome{}, runErr
	}

	outcome := Outcome{ClaimID: claim.ID, Stderr: res.Stderr}

	var actual string
	switch {
	case runErr != nil:
		actual = actualErrorPrefix + runErr.Error()
		outcome.Reason = "verification error: " + runErr.Error()
		outcome.Code = errors.EProofExec
	case res.TimedOut:
		actual = ActualTimeout
		outcome.Reason = FailureReason(res)
		outcome.Code = errors.EProofTimeout
	case Classify(res):
		actual = strings.TrimSpace(res.Stdout)
		outcome.Verified = true
	default:
		actual = strings.TrimSpace(res.Stdout)
		outcome.Reason = FailureReason(res)
		outcome.Code = errors.EProofFailed
	}
	outcome.Actual = actual

	// Every executed path persists the result with a fresh timestamp.
	updated, err := v.Store.Update(claim.ID, func(c *store.Claim) {
		verified := outcome.Verified
		c.Verified = &verified
		c.ActualResult = &actual
		c.VerifiedAt = v.now().Unix()
	})
	if err != nil {
		return Outcome{}, err
	}

	if outcome.Verified {
		v.verified = append(v.verified, updated)
	} else {
		v.failed = append(v.failed, updated)
	}

	v.logger().Debug("proof finished",
		zap.Int("claim_id", claim.ID),
		zap.Bool("verified", outcome.Verified),
		zap.Int("exit_code", res.ExitCode),
		zap.Bool("timed_out", res.TimedOut))
	_ = v.Events.Append(events.KindVerifyFinished,
		events.VerifyFinishedData(claim.ID, outcome.Verified, res.TimedOut, outcome.Reason))

	return outcome, nil
}

func (v *Verifier) logger() *zap.Logger {
	if v.Logger == nil {
		return zap.NewNop()
	}
	return v.Logger
}

func (v *Verifier) timeout() time.Duration {
	if v.Timeout <= 0 {
		return ProofTimeout
	}
	return v.Timeout
}

func (v *Verifier) now() time.Time {
	if v.Now == nil {
		return time.Now()
	}
	return v.Now()
}
