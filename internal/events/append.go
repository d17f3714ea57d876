// Package events provides session-scoped audit logging for attest.
// Events are stored in an append-only JSONL file; one line per event.
package events

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// SchemaVersion identifies the event wire format.
const SchemaVersion = "1.0"

// Event kinds.
const (
	KindClaimLogged       = "claim_logged"
	KindVerifyFinished    = "verify_finished"
	KindVerifyAllFinished = "verify_all_finished"
	KindChecksFinished    = "checks_finished"
	KindPatternObserved   = "pattern_observed"
	KindDecisionScored    = "decision_scored"
	KindActivation        = "activation"
)

// Event represents a single event in events.jsonl.
// This is the public contract for the events file format.
type Event struct {
	SchemaVersion string         `json:"schema_version"`
	Timestamp     string         `json:"ts"` // RFC3339Nano
	SessionID     string         `json:"session_id"`
	Kind          string         `json:"kind"`
	Data          map[string]any `json:"data,omitempty"`
}

// Log appends events for one CLI invocation. Every event it writes carries
// the same session id so claim, check and pattern activity can be
// correlated per invocation.
type Log struct {
	Path      string
	SessionID string
	Now       func() time.Time
}

// NewLog creates a Log writing to path with a fresh session id.
func NewLog(path string) *Log {
	return &Log{
		Path:      path,
		SessionID: uuid.NewString(),
		Now:       time.Now,
	}
}

// Append writes a single event line. The file is created lazily.
//
// Best-effort: errors are returned but callers should typically ignore them
// and continue with the main operation. A nil Log drops events silently.
func (l *Log) Append(kind string, data map[string]any) (err error) {
	if l == nil {
		return nil
	}

	e := Event{
		SchemaVersion: SchemaVersion,
		Timestamp:     l.Now().UTC().Format(time.RFC3339Nano),
		SessionID:     l.SessionID,
		Kind:          kind,
		Data:          data,
	}

	// Ensure parent directory exists
	if err := os.MkdirAll(filepath.Dir(l.Path), 0o755); err != nil {
		return err
	}

	f, err := os.OpenFile(l.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	line, err := json.Marshal(e)
	if err != nil {
		return err
	}
	line = append(line, '\n')
	_, err = f.Write(line)
	return err
}

// ClaimLoggedData returns the data map for a claim_logged event.
func ClaimLoggedData(claimID int, text string) map[string]any {
	return map[string]any{
		"claim_id": claimID,
		"claim":    text,
	}
}

// VerifyFinishedData returns the data map for a verify_finished event.
func VerifyFinishedData(claimID int, verified, timedOut bool, reason string) map[string]any {
	data := map[string]any{
		"claim_id": claimID,
		"verified": verified,
	}
	if timedOut {
		data["timed_out"] = true
	}
	if reason != "" {
		data["reason"] = reason
	}
	return data
}

// VerifyAllFinishedData returns the data map for a verify_all_finished event.
func VerifyAllFinishedData(verified, failed, total int) map[string]any {
	return map[string]any{
		"verified": verified,
		"failed":   failed,
		"total":    total,
	}
}

// ChecksFinishedData returns the data map for a checks_finished event.
func ChecksFinishedData(passed, failed int, success bool) map[string]any {
	return map[string]any{
		"passed":  passed,
		"failed":  failed,
		"success": success,
	}
}

// PatternObservedData returns the data map for a pattern_observed event.
func PatternObservedData(key string, success bool, score float64) map[string]any {
	return map[string]any{
		"key":     key,
		"success": success,
		"score":   score,
	}
}

// DecisionScoredData returns the data map for a decision_scored event.
func DecisionScoredData(action string, confidence float64, active bool) map[string]any {
	return map[string]any{
		"action":     action,
		"confidence": confidence,
		"active":     active,
	}
}

// ActivationData returns the data map for an activation event.
func ActivationData(level float64) map[string]any {
	return map[string]any{
		"awareness_level": level,
	}
}
